package sim

import (
	"sort"
	"strings"
)

// Sep joins the elements of a qualified signal key: the instantiation path
// (top module name, then each traversed instance name) and the local signal
// name. The visualizer rebuilds keys with the same rule, so this is a
// contract, not an implementation detail.
const Sep = "/"

// Key derives the store key for signal under path.
func Key(path []string, signal string) string {
	return strings.Join(path, Sep) + Sep + signal
}

// A Store maps qualified signal keys to bit values. One store exists per
// simulation run; it only ever grows and is never pruned mid-run.
type Store map[string]bool

func NewStore() Store {
	return make(Store)
}

// Bit returns the value of a key as 0 or 1.
func (s Store) Bit(key string) int {
	if s[key] {
		return 1
	}
	return 0
}

// Keys returns all qualified signal keys in lexical order.
func (s Store) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s Store) String() string {
	var b strings.Builder
	for _, k := range s.Keys() {
		b.WriteString(k)
		b.WriteString(" = ")
		if s[k] {
			b.WriteString("1")
		} else {
			b.WriteString("0")
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
