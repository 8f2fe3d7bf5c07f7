package sim

import "github.com/pkg/errors"

// Binding is the public view of one resolved connection.
type Binding struct {
	Formal string
	Actual string
}

// Instance is the public view of a linked instance: positional connections
// resolved to formal ports and split by direction. Sub is the instantiated
// module name, or empty when the instance is a primitive.
type Instance struct {
	Name string
	Type string
	Sub  string
	Ins  []Binding
	Outs []Binding
}

// Instances returns the linked instances of a module in evaluation order.
// The visualizer and the single-gate mode build on this view instead of
// re-resolving connections themselves.
func (s *Sim) Instances(module string) ([]Instance, error) {
	lm, ok := s.linked[module]
	if !ok {
		return nil, errors.Errorf("unknown module %q", module)
	}

	views := make([]Instance, 0, len(lm.insts))
	for _, li := range lm.insts {
		v := Instance{
			Name: li.inst.Name,
			Type: li.inst.Type,
		}
		if li.mod != nil {
			v.Sub = li.mod.Name
		}
		for _, b := range li.ins {
			v.Ins = append(v.Ins, Binding{Formal: b.formal, Actual: b.actual})
		}
		for _, b := range li.outs {
			v.Outs = append(v.Outs, Binding{Formal: b.formal, Actual: b.actual})
		}
		views = append(views, v)
	}
	return views, nil
}
