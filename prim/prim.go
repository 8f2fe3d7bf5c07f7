// Package prim holds the closed catalog of logic primitives that instances
// can resolve to: the elementary gates plus the composite half and full
// adders. The catalog is built once at init and never mutated.
package prim

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnsupported is returned when a type tag does not name a catalog
// primitive.
var ErrUnsupported = errors.New("unsupported primitive")

// common port names
const (
	PortA    = "A"
	PortB    = "B"
	PortCin  = "CIN"
	PortY    = "Y"
	PortSum  = "SUM"
	PortCout = "COUT"
)

// A Gate describes one primitive: its type tag, ordered port lists and a pure
// evaluation function from input values to output values.
type Gate struct {
	Type    string
	Inputs  []string
	Outputs []string

	// Variadic gates accept connections to input ports beyond the canonical
	// list (C, D, ...) and reduce over all of them.
	Variadic bool

	Eval func(in map[string]bool) map[string]bool
}

// HasInput reports whether name is a valid input port of the gate. For
// variadic gates any single uppercase letter beyond the canonical ports is
// accepted.
func (g *Gate) HasInput(name string) bool {
	for _, in := range g.Inputs {
		if in == name {
			return true
		}
	}
	if !g.Variadic {
		return false
	}
	for _, out := range g.Outputs {
		if out == name {
			return false
		}
	}
	return len(name) == 1 && name[0] >= 'A' && name[0] <= 'Z'
}

// HasOutput reports whether name is a valid output port of the gate.
func (g *Gate) HasOutput(name string) bool {
	for _, out := range g.Outputs {
		if out == name {
			return true
		}
	}
	return false
}

// fold reduces fn over the bound input values in port order, then applies the
// final inversion for the negated gates.
func fold(fn func(a, b bool) bool, invert bool) func(map[string]bool) map[string]bool {
	return func(in map[string]bool) map[string]bool {
		ports := make([]string, 0, len(in))
		for p := range in {
			ports = append(ports, p)
		}
		sort.Strings(ports)

		var acc bool
		for i, p := range ports {
			if i == 0 {
				acc = in[p]
				continue
			}
			acc = fn(acc, in[p])
		}
		if invert {
			acc = !acc
		}
		return map[string]bool{PortY: acc}
	}
}

func gate2(typ string, fn func(a, b bool) bool, invert bool) *Gate {
	return &Gate{
		Type:     typ,
		Inputs:   []string{PortA, PortB},
		Outputs:  []string{PortY},
		Variadic: true,
		Eval:     fold(fn, invert),
	}
}

var catalog = map[string]*Gate{
	"BUF": {
		Type:    "BUF",
		Inputs:  []string{PortA},
		Outputs: []string{PortY},
		Eval: func(in map[string]bool) map[string]bool {
			return map[string]bool{PortY: in[PortA]}
		},
	},
	"NOT": {
		Type:    "NOT",
		Inputs:  []string{PortA},
		Outputs: []string{PortY},
		Eval: func(in map[string]bool) map[string]bool {
			return map[string]bool{PortY: !in[PortA]}
		},
	},
	"AND":  gate2("AND", func(a, b bool) bool { return a && b }, false),
	"NAND": gate2("NAND", func(a, b bool) bool { return a && b }, true),
	"OR":   gate2("OR", func(a, b bool) bool { return a || b }, false),
	"NOR":  gate2("NOR", func(a, b bool) bool { return a || b }, true),
	"XOR":  gate2("XOR", func(a, b bool) bool { return a != b }, false),
	"XNOR": gate2("XNOR", func(a, b bool) bool { return a != b }, true),
	"HA": {
		Type:    "HA",
		Inputs:  []string{PortA, PortB},
		Outputs: []string{PortSum, PortCout},
		Eval: func(in map[string]bool) map[string]bool {
			a, b := in[PortA], in[PortB]
			return map[string]bool{
				PortSum:  a != b,
				PortCout: a && b,
			}
		},
	},
	"FA": {
		Type:    "FA",
		Inputs:  []string{PortA, PortB, PortCin},
		Outputs: []string{PortSum, PortCout},
		Eval: func(in map[string]bool) map[string]bool {
			a, b, cin := in[PortA], in[PortB], in[PortCin]
			s := a != b
			return map[string]bool{
				PortSum:  s != cin,
				PortCout: s && cin || a && b,
			}
		},
	},
}

// Module names that mean a composite primitive at the source level fold onto
// the primitive's tag before lookup.
var aliases = map[string]string{
	"INV":        "NOT",
	"INVERTER":   "NOT",
	"BUFFER":     "BUF",
	"FULL_ADDER": "FA",
	"HALF_ADDER": "HA",
}

// Canon returns the canonical catalog tag for typ without checking that the
// tag names a primitive.
func Canon(typ string) string {
	tag := strings.ToUpper(typ)
	if alias, ok := aliases[tag]; ok {
		return alias
	}
	return tag
}

// Is reports whether typ names a catalog primitive.
func Is(typ string) bool {
	_, ok := catalog[Canon(typ)]
	return ok
}

// Lookup resolves typ to a catalog primitive. Unknown tags fail with
// ErrUnsupported; callers must not proceed with partial defaults.
func Lookup(typ string) (*Gate, error) {
	g, ok := catalog[Canon(typ)]
	if !ok {
		return nil, errors.Wrap(ErrUnsupported, typ)
	}
	return g, nil
}

// Types returns the catalog tags in lexical order.
func Types() []string {
	types := make([]string, 0, len(catalog))
	for t := range catalog {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
