package parse

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const eof = -(iota + 1)

const (
	ItemError ItemType = iota
	EOF
	Module    // module
	EndModule // endmodule
	Input     // input
	Output    // output
	Wire      // wire
	LParen    // (
	RParen    // )
	Semicolon // ;
	Comma     // ,
	Dot       // .
	Id        // Identifier
)

type ItemType int

func (t ItemType) String() string {
	switch t {
	case ItemError:
		return "error"
	case EOF:
		return "EOF"
	case Module:
		return "module"
	case EndModule:
		return "endmodule"
	case Input:
		return "input"
	case Output:
		return "output"
	case Wire:
		return "wire"
	case LParen:
		return "("
	case RParen:
		return ")"
	case Semicolon:
		return ";"
	case Comma:
		return ","
	case Dot:
		return "."
	case Id:
		return "identifier"
	}
	return "unknown"
}

type Item struct {
	typ  ItemType
	val  string
	line int
	pos  int
}

func (i Item) String() string {
	switch i.typ {
	case EOF:
		return "EOF"
	case ItemError:
		return i.val
	}
	return fmt.Sprintf("%q", i.val)
}

type statefn func(*lexer) statefn

type lexer struct {
	name  string
	input string
	start int
	pos   int
	width int
	line  int
	lpos  int
	items chan Item
}

func NewLexer(name, input string) (*lexer, chan Item) {
	l := &lexer{
		name:  name,
		input: input,
		line:  1,
		lpos:  1,
		items: make(chan Item),
	}

	go l.run()

	return l, l.items
}

func (l *lexer) run() {
	for state := lexText; state != nil; {
		state = state(l)
	}
	close(l.items)
}

func (l *lexer) emit(t ItemType) {
	l.items <- Item{t, l.input[l.start:l.pos], l.line, l.lpos}
	l.start = l.pos
}

func (l *lexer) next() (r rune) {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, l.width = utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += l.width
	l.lpos++
	return r
}

func (l *lexer) backup() {
	l.pos -= l.width
}

func (l *lexer) ignore() {
	l.start = l.pos
}

func (l *lexer) accept(valid string) bool {
	if strings.IndexRune(valid, l.next()) >= 0 {
		return true
	}
	l.backup()
	return false
}

func (l *lexer) acceptRun(valid string) {
	for strings.IndexRune(valid, l.next()) >= 0 {
	}
	l.backup()
}

func (l *lexer) newline() {
	l.line++
	l.lpos = 1
	l.ignore()
}

func (l *lexer) errorf(format string, args ...interface{}) statefn {
	l.items <- Item{
		typ:  ItemError,
		val:  fmt.Sprintf(format, args...),
		line: l.line,
		pos:  l.lpos,
	}
	return nil
}

const alpha = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_"
const alnum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_$"

func isAlpha(r rune) bool {
	return strings.IndexRune(alpha, r) >= 0
}

func lexId(l *lexer) statefn {
	l.acceptRun(alnum)
	str := l.input[l.start:l.pos]
	switch str {
	case "module":
		l.emit(Module)
	case "endmodule":
		l.emit(EndModule)
	case "input":
		l.emit(Input)
	case "output":
		l.emit(Output)
	case "wire":
		l.emit(Wire)
	default:
		l.emit(Id)
	}
	return lexText
}

func lexLineComment(l *lexer) statefn {
	for r := l.next(); r != '\n' && r != eof; r = l.next() {
	}
	l.newline()
	return lexText
}

func lexBlockComment(l *lexer) statefn {
	for {
		r := l.next()
		switch r {
		case eof:
			return l.errorf("unterminated block comment at line:%d", l.line)
		case '\n':
			l.line++
			l.lpos = 1
		case '*':
			if l.accept("/") {
				l.ignore()
				return lexText
			}
		}
	}
}

func lexSlash(l *lexer) statefn {
	switch l.next() {
	case '/':
		l.ignore()
		return lexLineComment
	case '*':
		l.ignore()
		return lexBlockComment
	default:
		return l.errorf("unexpected %q at line:%d", "/", l.line)
	}
}

func lexText(l *lexer) statefn {
	for {
		r := l.next()
		if r == eof {
			break
		}
		switch {
		case r == ' ' || r == '\t':
			l.ignore()

		case r == '\n' || r == '\r':
			l.newline()

		case r == '/':
			return lexSlash

		case r == '(':
			l.emit(LParen)
		case r == ')':
			l.emit(RParen)
		case r == ';':
			l.emit(Semicolon)
		case r == ',':
			l.emit(Comma)
		case r == '.':
			l.emit(Dot)

		case isAlpha(r):
			l.backup()
			return lexId

		default:
			return l.errorf("Don't know what to do with %q %c %x at line:%d", r, r, r, l.line)
		}
	}
	l.emit(EOF)
	return nil
}
