// Package dot renders an evaluated hierarchy, or a single primitive
// instance, as a Graphviz graph description. Signal nodes are labeled with
// the values found in the store, so a drawing can be rebuilt from a saved
// store without re-running the engine.
package dot

import (
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/neil066/VLSI-Verfication-Lab/sim"
)

// id turns a qualified signal key or instance path into a DOT node name.
func id(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, key)
}

// WriteDesign writes the full hierarchy under module top as a layered graph:
// one cluster per module invocation, plaintext nodes for signals, boxes for
// primitive instances.
func WriteDesign(w io.Writer, s *sim.Sim, top string, store sim.Store) error {
	fmt.Fprintf(w, "digraph circuit\n{\n")
	fmt.Fprintf(w, "  rankdir=LR;\n")
	fmt.Fprintf(w, "  node\t[fontname=\"Helvetica\"];\n")

	if err := writeModule(w, s, top, []string{top}, 1); err != nil {
		return err
	}

	if err := writeEdges(w, s, top, []string{top}, store); err != nil {
		return err
	}

	fmt.Fprintf(w, "}\n")
	return nil
}

// writeModule emits the cluster for one module invocation: its signal nodes,
// its primitive boxes, and nested clusters for sub-module instances.
func writeModule(w io.Writer, s *sim.Sim, module string, path []string, depth int) error {
	ind := strings.Repeat("  ", depth)
	pathname := strings.Join(path, sim.Sep)

	fmt.Fprintf(w, "%ssubgraph cluster_%s {\n", ind, id(pathname))
	fmt.Fprintf(w, "%s  label=\"%s\";\n", ind, pathname)

	insts, err := s.Instances(module)
	if err != nil {
		return err
	}

	// signal nodes: every distinct actual referenced at this level
	seen := make(map[string]bool)
	var signals []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			signals = append(signals, name)
		}
	}
	for _, inst := range insts {
		for _, b := range inst.Ins {
			add(b.Actual)
		}
		for _, b := range inst.Outs {
			add(b.Actual)
		}
	}

	fmt.Fprintf(w, "%s  {\n%s    node [shape=plaintext];\n", ind, ind)
	for _, sig := range signals {
		key := sim.Key(path, sig)
		fmt.Fprintf(w, "%s    %s\t[label=\"%s\"];\n", ind, id(key), sig)
	}
	fmt.Fprintf(w, "%s  }\n", ind)

	fmt.Fprintf(w, "%s  {\n%s    node [shape=box];\n", ind, ind)
	for _, inst := range insts {
		if inst.Sub != "" {
			continue
		}
		key := sim.Key(path, inst.Name)
		fmt.Fprintf(w, "%s    g_%s\t[label=\"%s\\n%s\"];\n", ind, id(key), inst.Name, inst.Type)
	}
	fmt.Fprintf(w, "%s  }\n", ind)

	for _, inst := range insts {
		if inst.Sub == "" {
			continue
		}
		sub := append(append([]string{}, path...), inst.Name)
		if err := writeModule(w, s, inst.Sub, sub, depth+1); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "%s}\n", ind)
	return nil
}

// writeEdges emits all connection edges, labeled with the signal values from
// the store.
func writeEdges(w io.Writer, s *sim.Sim, module string, path []string, store sim.Store) error {
	insts, err := s.Instances(module)
	if err != nil {
		return err
	}

	for _, inst := range insts {
		ikey := sim.Key(path, inst.Name)

		if inst.Sub != "" {
			sub := append(append([]string{}, path...), inst.Name)
			// connect the parent's signals to the sub-module's ports
			for _, b := range inst.Ins {
				if b.Actual == "" {
					continue
				}
				akey := sim.Key(path, b.Actual)
				fkey := sim.Key(sub, b.Formal)
				fmt.Fprintf(w, "  %s -> %s\t[label=\"%d\"];\n", id(akey), id(fkey), store.Bit(akey))
			}
			for _, b := range inst.Outs {
				if b.Actual == "" {
					continue
				}
				akey := sim.Key(path, b.Actual)
				fkey := sim.Key(sub, b.Formal)
				fmt.Fprintf(w, "  %s -> %s\t[label=\"%d\"];\n", id(fkey), id(akey), store.Bit(akey))
			}
			if err := writeEdges(w, s, inst.Sub, sub, store); err != nil {
				return err
			}
			continue
		}

		for _, b := range inst.Ins {
			if b.Actual == "" {
				continue
			}
			akey := sim.Key(path, b.Actual)
			fmt.Fprintf(w, "  %s -> g_%s\t[label=\"%s=%d\"];\n", id(akey), id(ikey), b.Formal, store.Bit(akey))
		}
		for _, b := range inst.Outs {
			if b.Actual == "" {
				continue
			}
			akey := sim.Key(path, b.Actual)
			fmt.Fprintf(w, "  g_%s -> %s\t[label=\"%s=%d\"];\n", id(ikey), id(akey), b.Formal, store.Bit(akey))
		}
	}
	return nil
}

// A PortValue is one port of a single drawn gate.
type PortValue struct {
	Port   string
	Value  bool
	Output bool
}

// WritePrimitive draws one gate instance with its input and output values,
// inputs ranked left of the gate box and outputs right of it.
func WritePrimitive(w io.Writer, gateType, instName string, ports []PortValue) {
	fmt.Fprintf(w, "digraph %s\n{\n", id(instName))
	fmt.Fprintf(w, "  rankdir=LR;\n")
	fmt.Fprintf(w, "  node\t[fontname=\"Helvetica\"];\n")

	fmt.Fprintf(w, "  g\t[shape=box, label=\"%s\\n%s\"];\n", instName, gateType)

	fmt.Fprintf(w, "  {\n    rank=source;\n    node [shape=plaintext];\n")
	for _, p := range ports {
		if !p.Output {
			fmt.Fprintf(w, "    in_%s\t[label=\"%s\"];\n", id(p.Port), p.Port)
		}
	}
	fmt.Fprintf(w, "  }\n")

	fmt.Fprintf(w, "  {\n    rank=sink;\n    node [shape=plaintext];\n")
	for _, p := range ports {
		if p.Output {
			fmt.Fprintf(w, "    out_%s\t[label=\"%s\"];\n", id(p.Port), p.Port)
		}
	}
	fmt.Fprintf(w, "  }\n")

	for _, p := range ports {
		v := 0
		if p.Value {
			v = 1
		}
		if p.Output {
			fmt.Fprintf(w, "  g -> out_%s\t[label=\"%d\"];\n", id(p.Port), v)
		} else {
			fmt.Fprintf(w, "  in_%s -> g\t[label=\"%d\"];\n", id(p.Port), v)
		}
	}

	fmt.Fprintf(w, "}\n")
}

// Render invokes the external dot tool on a written graph description. A
// failure here never invalidates the simulation result; the caller reports
// it and moves on.
func Render(dotfile, outfile string) error {
	out, err := exec.Command("dot", "-Tpdf", dotfile, "-o", outfile).CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "dot -Tpdf %s: %s", dotfile, strings.TrimSpace(string(out)))
	}
	return nil
}
