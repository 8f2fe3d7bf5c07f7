// Package sim evaluates a parsed design: given a top module and its input
// values it computes every internal and output signal of the hierarchy into
// a Store keyed by qualified signal names.
//
// Linking happens once, up front: every instance is resolved to either a
// defined module or a catalog primitive, and the instances of each module are
// topologically ordered over the static connection graph. Evaluation then
// walks that fixed order, so a run is deterministic for a fixed design and
// fixed inputs.
package sim

import (
	"log"
	"strings"

	"github.com/pkg/errors"

	"github.com/neil066/VLSI-Verfication-Lab/prim"
	"github.com/neil066/VLSI-Verfication-Lab/queue"
	"github.com/neil066/VLSI-Verfication-Lab/rtl"
)

var (
	// ErrUnresolvedInstance marks an instance whose type is neither a
	// defined module nor a catalog primitive.
	ErrUnresolvedInstance = errors.New("unresolved instance type")

	// ErrCombinationalLoop marks a cyclic dependency among the instances of
	// one module. The circuit as given cannot be evaluated.
	ErrCombinationalLoop = errors.New("combinational loop")
)

// A binding is one resolved connection: the formal port of the instantiated
// type and the actual signal in the parent. Actual is empty for explicitly
// unconnected ports.
type binding struct {
	formal string
	actual string
}

// An instance is a linked rtl.Inst: its type resolved to a module or a gate
// and its connections split into inputs and outputs.
type instance struct {
	inst *rtl.Inst
	gate *prim.Gate  // non-nil when the type is a primitive
	mod  *rtl.Module // non-nil when the type is a defined module
	ins  []binding
	outs []binding
}

// A linked module holds a module's instances in evaluation order.
type linked struct {
	mod   *rtl.Module
	insts []*instance
}

// Sim is a linked design ready for evaluation.
type Sim struct {
	design *rtl.Design
	linked map[string]*linked

	// Warnf is called for permissive-default events, such as an instance
	// input that no signal drives. It defaults to log.Printf.
	Warnf func(format string, args ...interface{})
}

// New links d. It fails if any instance references an unknown type, if any
// connection names a port the type does not have, or if any module's
// instances form a combinational loop.
func New(d *rtl.Design) (*Sim, error) {
	s := &Sim{
		design: d,
		linked: make(map[string]*linked),
		Warnf:  log.Printf,
	}
	for _, name := range d.Names() {
		lm, err := s.link(d.Modules[name])
		if err != nil {
			return nil, err
		}
		s.linked[name] = lm
	}
	if err := s.checkHierarchy(); err != nil {
		return nil, err
	}
	return s, nil
}

// checkHierarchy rejects designs where a module instantiates itself,
// directly or through other modules. Evaluation of such a hierarchy would
// never terminate.
func (s *Sim) checkHierarchy() error {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int)

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return errors.Errorf("module %q instantiates itself", name)
		}
		state[name] = visiting
		for _, li := range s.linked[name].insts {
			if li.mod == nil {
				continue
			}
			if err := visit(li.mod.Name); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}

	for _, name := range s.design.Names() {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

// link resolves every instance of m and topologically orders them.
func (s *Sim) link(m *rtl.Module) (*linked, error) {
	lm := &linked{mod: m}

	for _, inst := range m.Insts {
		li, err := s.resolve(m, inst)
		if err != nil {
			return nil, err
		}
		lm.insts = append(lm.insts, li)
	}

	if err := lm.sort(); err != nil {
		return nil, err
	}
	return lm, nil
}

// resolve links one instance. Defined modules shadow primitive tags, so a
// module named full_adder is evaluated hierarchically even though the name
// also folds onto the FA primitive.
func (s *Sim) resolve(m *rtl.Module, inst *rtl.Inst) (*instance, error) {
	li := &instance{inst: inst}

	if sub, ok := s.design.Modules[inst.Type]; ok {
		li.mod = sub
	} else if prim.Is(inst.Type) {
		gate, err := prim.Lookup(inst.Type)
		if err != nil {
			return nil, err
		}
		li.gate = gate
	} else {
		return nil, errors.Wrapf(ErrUnresolvedInstance, "%s.%s (%s)", m.Name, inst.Name, inst.Type)
	}

	bound := make(map[string]bool)
	for _, conn := range inst.Conns {
		formal := conn.Formal
		if formal == "" {
			// positional: resolve against the type's declared port order
			var err error
			formal, err = li.portAt(conn.Pos)
			if err != nil {
				return nil, errors.Wrapf(err, "%s.%s", m.Name, inst.Name)
			}
		}

		isIn, isOut, err := li.direction(formal)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s", m.Name, inst.Name)
		}
		if bound[formal] {
			return nil, errors.Errorf("%s.%s: port %s connected twice", m.Name, inst.Name, formal)
		}
		bound[formal] = true

		b := binding{formal: formal, actual: conn.Actual}
		if isIn {
			li.ins = append(li.ins, b)
		} else if isOut {
			li.outs = append(li.outs, b)
		}
	}

	return li, nil
}

// portAt returns the pos-th declared port of the instantiated type. For
// primitives the declared order is the input list followed by the output
// list.
func (li *instance) portAt(pos int) (string, error) {
	var ports []string
	if li.gate != nil {
		ports = append(append([]string{}, li.gate.Inputs...), li.gate.Outputs...)
	} else {
		ports = li.mod.PortNames()
	}
	if pos >= len(ports) {
		return "", errors.Errorf("connection %d: %s has only %d ports", pos, li.inst.Type, len(ports))
	}
	return ports[pos], nil
}

func (li *instance) direction(formal string) (isIn, isOut bool, err error) {
	if li.gate != nil {
		isIn = li.gate.HasInput(formal)
		isOut = li.gate.HasOutput(formal)
	} else {
		isIn = li.mod.HasInput(formal)
		isOut = li.mod.HasOutput(formal)
	}
	if !isIn && !isOut {
		err = errors.Errorf("%q is not a port of %s", formal, li.inst.Type)
	}
	return
}

// sort orders the instances so that every instance comes after the producers
// of its input signals. The order depends only on the static connection
// graph and the declaration order, never on map iteration.
func (lm *linked) sort() error {
	// signal -> producing instance index
	producer := make(map[string]int)
	for i, li := range lm.insts {
		for _, b := range li.outs {
			if b.actual == "" {
				continue
			}
			if j, ok := producer[b.actual]; ok {
				return errors.Errorf("%s: signal %q driven by both %s and %s",
					lm.mod.Name, b.actual, lm.insts[j].inst.Name, li.inst.Name)
			}
			producer[b.actual] = i
		}
	}

	edges := make([][]int, len(lm.insts))
	indeg := make([]int, len(lm.insts))
	for i, li := range lm.insts {
		seen := make(map[int]bool)
		for _, b := range li.ins {
			j, ok := producer[b.actual]
			if !ok || seen[j] {
				continue
			}
			seen[j] = true
			edges[j] = append(edges[j], i)
			indeg[i]++
		}
	}

	ready := queue.New[int]()
	for i := range lm.insts {
		if indeg[i] == 0 {
			ready.Push(i)
		}
	}

	ordered := make([]*instance, 0, len(lm.insts))
	for !ready.Empty() {
		i := ready.Pop()
		ordered = append(ordered, lm.insts[i])
		for _, j := range edges[i] {
			indeg[j]--
			if indeg[j] == 0 {
				ready.Push(j)
			}
		}
	}

	if len(ordered) < len(lm.insts) {
		var stuck []string
		for i, li := range lm.insts {
			if indeg[i] > 0 {
				stuck = append(stuck, li.inst.Name)
			}
		}
		return errors.Wrapf(ErrCombinationalLoop, "%s: %s", lm.mod.Name, strings.Join(stuck, ", "))
	}

	lm.insts = ordered
	return nil
}

// Run evaluates the design from module top with the given input values into
// a fresh store. On failure no store is returned; bits computed before the
// failure could be misleading.
func (s *Sim) Run(top string, in map[string]bool) (Store, error) {
	store := NewStore()
	if _, err := s.Evaluate(top, in, store, nil); err != nil {
		return nil, err
	}
	return store, nil
}

// Evaluate computes every signal of module name, and recursively of its
// instantiated sub-modules, under the given instantiation path. Input values
// are bound to the module's declared input ports, instances are evaluated in
// dependency order, and the module's declared output values are returned.
// A nil path starts a hierarchy rooted at the module's own name.
func (s *Sim) Evaluate(name string, in map[string]bool, store Store, path []string) (map[string]bool, error) {
	lm, ok := s.linked[name]
	if !ok {
		return nil, errors.Errorf("unknown module %q", name)
	}
	if path == nil {
		path = []string{name}
	}

	// bind the supplied inputs under the current path
	for _, p := range lm.mod.Inputs() {
		store[Key(path, p)] = in[p]
	}

	for _, li := range lm.insts {
		var err error
		if li.gate != nil {
			err = s.evalGate(li, store, path)
		} else {
			err = s.evalModule(li, store, path)
		}
		if err != nil {
			return nil, err
		}
	}

	out := make(map[string]bool)
	for _, p := range lm.mod.Outputs() {
		key := Key(path, p)
		v, ok := store[key]
		if !ok {
			s.Warnf("warning: %s: output %s never driven, defaulting to 0", strings.Join(path, Sep), p)
			store[key] = false
		}
		out[p] = v
	}
	return out, nil
}

// gather reads the values bound to an instance's input ports, defaulting a
// missing or never-driven signal to 0. The permissive default matches the
// original tool; it is reported as a warning rather than an error.
func (s *Sim) gather(li *instance, store Store, path []string) map[string]bool {
	in := make(map[string]bool)
	for _, b := range li.ins {
		if b.actual == "" {
			s.Warnf("warning: %s: %s input %s unconnected, defaulting to 0",
				strings.Join(path, Sep), li.inst.Name, b.formal)
			in[b.formal] = false
			continue
		}
		v, ok := store[Key(path, b.actual)]
		if !ok {
			s.Warnf("warning: %s: %s input %s (%s) not driven, defaulting to 0",
				strings.Join(path, Sep), li.inst.Name, b.formal, b.actual)
		}
		in[b.formal] = v
	}

	// canonical gate inputs that were never listed still count as 0
	if li.gate != nil {
		for _, p := range li.gate.Inputs {
			if _, ok := in[p]; !ok {
				s.Warnf("warning: %s: %s input %s omitted, defaulting to 0",
					strings.Join(path, Sep), li.inst.Name, p)
				in[p] = false
			}
		}
	}
	return in
}

func (s *Sim) evalGate(li *instance, store Store, path []string) error {
	out := li.gate.Eval(s.gather(li, store, path))
	for _, b := range li.outs {
		if b.actual == "" {
			continue
		}
		store[Key(path, b.actual)] = out[b.formal]
	}
	return nil
}

func (s *Sim) evalModule(li *instance, store Store, path []string) error {
	sub := append(append([]string{}, path...), li.inst.Name)

	out, err := s.Evaluate(li.mod.Name, s.gather(li, store, path), store, sub)
	if err != nil {
		return err
	}

	// copy the sub-module's outputs back onto the parent's signals
	for _, b := range li.outs {
		if b.actual == "" {
			continue
		}
		store[Key(path, b.actual)] = out[b.formal]
	}
	return nil
}
