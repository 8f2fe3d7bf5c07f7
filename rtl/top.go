package rtl

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/neil066/VLSI-Verfication-Lab/set"
)

// Top-module resolution failures. Both are recoverable by the caller naming
// the top module explicitly.
var (
	ErrNoTop        = errors.New("no top module candidate")
	ErrAmbiguousTop = errors.New("ambiguous top module")
)

// Top returns the module intended as the simulation root: the one module in
// the table that is never referenced as an instance type. Zero or multiple
// candidates is an error; guessing would risk silently simulating the wrong
// circuit.
func (d *Design) Top() (string, error) {
	declared := set.New(d.order...)

	used := set.New()
	for _, name := range d.order {
		for _, inst := range d.Modules[name].Insts {
			used.Add(inst.Type)
		}
	}

	candidates := declared.Not(used)

	switch candidates.Len() {
	case 1:
		return candidates.List()[0], nil
	case 0:
		return "", ErrNoTop
	default:
		return "", errors.Wrap(ErrAmbiguousTop, strings.Join(candidates.Sort(), ", "))
	}
}
