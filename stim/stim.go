// Package stim loads named input values from a JSON stimulus file, e.g.
//
//	{"A": 1, "B": 0, "CIN": 1}
package stim

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/neil066/VLSI-Verfication-Lab/set"
)

// Load decodes a stimulus file. Values must be 0 or 1.
func Load(r io.Reader) (map[string]bool, error) {
	var raw map[string]int
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decode stimulus")
	}

	in := make(map[string]bool, len(raw))
	for name, v := range raw {
		switch v {
		case 0:
			in[name] = false
		case 1:
			in[name] = true
		default:
			return nil, errors.Errorf("stimulus %s: value must be 0 or 1, got %d", name, v)
		}
	}
	return in, nil
}

// Check verifies that the stimulus covers exactly the declared input ports.
func Check(in map[string]bool, ports []string) error {
	declared := set.New(ports...)

	given := set.New()
	for name := range in {
		given.Add(name)
	}

	if missing := declared.Not(given); missing.Len() > 0 {
		return errors.Errorf("stimulus missing inputs: %s", strings.Join(missing.Sort(), ", "))
	}
	if extra := given.Not(declared); extra.Len() > 0 {
		return errors.Errorf("stimulus names unknown inputs: %s", strings.Join(extra.Sort(), ", "))
	}
	return nil
}
