// Package rtl models a parsed design: modules with declared ports and wires,
// and the instances they contain. The parser builds this table; the simulator
// links and evaluates it.
package rtl

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/neil066/VLSI-Verfication-Lab/histogram"
	"github.com/neil066/VLSI-Verfication-Lab/prim"
	"github.com/neil066/VLSI-Verfication-Lab/set"
)

// Port directions.
const (
	Input  = "input"
	Output = "output"
)

// A Port is one declared module port. Pos is its position in the module
// header, which fixes the order positional connections resolve against.
type Port struct {
	Parent string `bson:"module"`
	Name   string `bson:"name"`
	Type   string `bson:"type"`
	Pos    int    `bson:"pos"`
}

// A Conn binds one port of an instantiated type to a signal in the parent
// module's namespace. Formal is empty for positional connections, which
// resolve by Pos against the type's declared port order.
type Conn struct {
	Formal string `bson:"formal"`
	Actual string `bson:"actual"`
	Pos    int    `bson:"pos"`
}

// An Inst is a single placement of a module or primitive inside a parent
// module.
type Inst struct {
	Parent string  `bson:"module"`
	Name   string  `bson:"name"`
	Type   string  `bson:"type"`
	Conns  []*Conn `bson:"conns"`
}

// AddConn appends a connection. Positional and named connections must not be
// mixed within one instance.
func (i *Inst) AddConn(formal, actual string) error {
	pos := len(i.Conns)
	if pos > 0 {
		prev := i.Conns[pos-1].Formal
		if (prev == "") != (formal == "") {
			return errors.Errorf("instance %s: cannot mix named and positional connections", i.Name)
		}
	}
	i.Conns = append(i.Conns, &Conn{Formal: formal, Actual: actual, Pos: pos})
	return nil
}

// A Module is a named, reusable circuit definition.
type Module struct {
	Name  string   `bson:"name"`
	Ports []*Port  `bson:"ports"`
	Wires []string `bson:"wires"`
	Insts []*Inst  `bson:"insts"`

	names set.Set // all declared port and wire names
}

func New(name string) *Module {
	return &Module{
		Name:  name,
		names: set.New(),
	}
}

// declare reserves name in the module's namespace. Ports and wires share one
// namespace; duplicates are malformed.
func (m *Module) declare(name string) error {
	if m.names == nil {
		m.names = set.New()
	}
	if m.names.Has(name) {
		return errors.Errorf("%s: name %q declared twice", m.Name, name)
	}
	m.names.Add(name)
	return nil
}

// AddPort declares a header port. Its direction is set later by SetPortType.
func (m *Module) AddPort(name string) error {
	if err := m.declare(name); err != nil {
		return err
	}
	m.Ports = append(m.Ports, &Port{
		Parent: m.Name,
		Name:   name,
		Pos:    len(m.Ports),
	})
	return nil
}

// SetPortType records the direction of a header port. Directing a name that
// was never listed in the header is malformed.
func (m *Module) SetPortType(name, typ string) error {
	for _, p := range m.Ports {
		if p.Name == name {
			if p.Type != "" && p.Type != typ {
				return errors.Errorf("%s: port %q declared both %s and %s", m.Name, name, p.Type, typ)
			}
			p.Type = typ
			return nil
		}
	}
	return errors.Errorf("%s: %s declaration for unknown port %q", m.Name, typ, name)
}

// Undirected returns the header ports that never got a direction declaration.
func (m *Module) Undirected() (names []string) {
	for _, p := range m.Ports {
		if p.Type == "" {
			names = append(names, p.Name)
		}
	}
	return
}

func (m *Module) AddWire(name string) error {
	if err := m.declare(name); err != nil {
		return err
	}
	m.Wires = append(m.Wires, name)
	return nil
}

func (m *Module) AddInst(name, typ string) (*Inst, error) {
	for _, i := range m.Insts {
		if i.Name == name {
			return nil, errors.Errorf("%s: instance %q declared twice", m.Name, name)
		}
	}
	i := &Inst{Parent: m.Name, Name: name, Type: typ}
	m.Insts = append(m.Insts, i)
	return i, nil
}

// Inputs returns the input port names in header order.
func (m *Module) Inputs() (names []string) {
	for _, p := range m.Ports {
		if p.Type == Input {
			names = append(names, p.Name)
		}
	}
	return
}

// Outputs returns the output port names in header order.
func (m *Module) Outputs() (names []string) {
	for _, p := range m.Ports {
		if p.Type == Output {
			names = append(names, p.Name)
		}
	}
	return
}

// PortNames returns all header port names in header order.
func (m *Module) PortNames() (names []string) {
	for _, p := range m.Ports {
		names = append(names, p.Name)
	}
	return
}

func (m *Module) HasPort(name string) bool {
	for _, p := range m.Ports {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (m *Module) HasOutput(name string) bool {
	for _, p := range m.Ports {
		if p.Name == name {
			return p.Type == Output
		}
	}
	return false
}

func (m *Module) HasInput(name string) bool {
	for _, p := range m.Ports {
		if p.Name == name {
			return p.Type == Input
		}
	}
	return false
}

func (m *Module) String() string {
	return fmt.Sprintf("module:%q ports:%d wires:%d insts:%d",
		m.Name, len(m.Ports), len(m.Wires), len(m.Insts))
}

// A Design is the full module table of one source file.
type Design struct {
	Modules map[string]*Module
	order   []string
}

func NewDesign() *Design {
	return &Design{
		Modules: make(map[string]*Module),
	}
}

func (d *Design) Add(m *Module) error {
	if _, ok := d.Modules[m.Name]; ok {
		return errors.Errorf("module %q declared twice", m.Name)
	}
	d.Modules[m.Name] = m
	d.order = append(d.order, m.Name)
	return nil
}

// Names returns the module names in declaration order.
func (d *Design) Names() []string {
	names := make([]string, len(d.order))
	copy(names, d.order)
	return names
}

// Census counts instances by canonical type tag across the whole table.
func (d *Design) Census() histogram.Histogram {
	h := histogram.New()
	for _, name := range d.order {
		for _, inst := range d.Modules[name].Insts {
			h.Add(prim.Canon(inst.Type))
		}
	}
	return h
}

func (d *Design) String() string {
	return fmt.Sprintf("design modules:%d", len(d.Modules))
}
