// Package parse reads the structural Verilog subset (module and port
// declarations, wire declarations, gate and sub-module instantiations) into
// an rtl.Design. The whole file is lexed and parsed before any resolution is
// attempted, so modules may reference one another in any order. Any
// malformed declaration aborts the parse; a partial table is never returned.
package parse

import (
	"fmt"
	"io"

	"github.com/neil066/VLSI-Verfication-Lab/rtl"
)

// An Error describes a malformed declaration. It carries the position and
// the offending text so that the caller can report precisely.
type Error struct {
	File string
	Line int
	Pos  int
	Tok  string
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s (at %q)", e.File, e.Line, e.Pos, e.Msg, e.Tok)
}

type parser struct {
	l      *lexer
	token  Item
	tokens chan Item
	d      *rtl.Design
}

// New parses the source read from r into a module table. name is used in
// error messages only.
func New(name string, r io.Reader) (d *rtl.Design, err error) {
	bytes, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	p := &parser{d: rtl.NewDesign()}
	p.l, p.tokens = NewLexer(name, string(bytes))

	defer func() {
		if e := recover(); e != nil {
			perr, ok := e.(*Error)
			if !ok {
				panic(e)
			}
			// Unblock the lexer goroutine.
			for range p.tokens {
			}
			d, err = nil, perr
		}
	}()

	// Load first token
	p.next()

	p.statements()

	return p.d, nil
}

// next advances a token
func (p *parser) next() {
	p.token = <-p.tokens
	if p.token.typ == ItemError {
		p.stop(p.token.val)
	}
}

func (p *parser) tokenis(types ...ItemType) bool {
	for _, t := range types {
		if p.token.typ == t {
			return true
		}
	}
	return false
}

func (p *parser) expect(types ...ItemType) (val string) {
	if p.tokenis(types...) {
		val = p.token.val
		p.next()
		return
	}
	p.stop(fmt.Sprintf("expecting %v but got %v", types, p.token))
	return
}

func (p *parser) accept(types ...ItemType) bool {
	if p.tokenis(types...) {
		p.next()
		return true
	}
	return false
}

// stop aborts the parse. New recovers and surfaces the error.
func (p *parser) stop(msg string) {
	panic(&Error{
		File: p.l.name,
		Line: p.token.line,
		Pos:  p.token.pos,
		Tok:  p.token.val,
		Msg:  msg,
	})
}

func (p *parser) check(err error) {
	if err != nil {
		p.stop(err.Error())
	}
}

// productions /////////////////////////////////////////////////////////////////

func (p *parser) statements() {
	for {
		switch {
		case p.tokenis(Module):
			p.module_decl()

		case p.tokenis(EOF):
			return

		default:
			p.stop("expecting module declaration")
		}
	}
}

func (p *parser) module_decl() {
	p.expect(Module)

	name := p.token.val
	p.expect(Id)
	m := rtl.New(name)

	if p.accept(LParen) {
		p.list_of_ports(m)
		p.expect(RParen)
	}

	p.expect(Semicolon)

	for !p.tokenis(EndModule) {
		p.module_item(m)
	}

	p.expect(EndModule)

	// every header port needs a direction by now
	if und := m.Undirected(); len(und) > 0 {
		p.stop(fmt.Sprintf("module %q: ports with no direction: %v", name, und))
	}

	p.check(p.d.Add(m))
}

func (p *parser) list_of_ports(m *rtl.Module) {
	if p.tokenis(RParen) { // empty list of ports
		return
	}
	pname := p.token.val
	p.expect(Id)
	p.check(m.AddPort(pname))
	for p.accept(Comma) {
		pname := p.token.val
		p.expect(Id)
		p.check(m.AddPort(pname))
	}
}

func (p *parser) module_item(m *rtl.Module) {
	if p.tokenis(Input, Output, Wire) {
		p.net_decl(m)
		return
	}

	itype := p.token.val
	p.expect(Id)

	iname := p.token.val
	p.expect(Id)

	inst, err := m.AddInst(iname, itype)
	p.check(err)

	p.expect(LParen)
	p.instance_connections(inst)
	p.expect(RParen)
	p.expect(Semicolon)
}

func (p *parser) net_decl(m *rtl.Module) {
	typ := p.expect(Input, Output, Wire)

	name := p.token.val
	p.expect(Id)
	p.net(m, typ, name)

	for p.accept(Comma) {
		name := p.token.val
		p.expect(Id)
		p.net(m, typ, name)
	}

	p.expect(Semicolon)
}

func (p *parser) net(m *rtl.Module, typ, name string) {
	if typ == "wire" {
		p.check(m.AddWire(name))
		return
	}
	p.check(m.SetPortType(name, typ))
}

func (p *parser) instance_connections(inst *rtl.Inst) {
	// Connections can be empty
	if p.tokenis(RParen) {
		return
	}

	p.instance_connection(inst)
	for p.accept(Comma) {
		p.instance_connection(inst)
	}
}

func (p *parser) instance_connection(inst *rtl.Inst) {
	// Named form: .formal(actual). Positional form: a bare signal name.
	if p.accept(Dot) {
		formal := p.token.val
		p.expect(Id)

		p.expect(LParen)

		actual := ""
		if p.tokenis(Id) {
			actual = p.token.val
			p.next()
		}

		p.expect(RParen)
		p.check(inst.AddConn(formal, actual))
		return
	}

	actual := p.token.val
	p.expect(Id)
	p.check(inst.AddConn("", actual))
}
