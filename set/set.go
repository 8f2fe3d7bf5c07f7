// Package set implements a plain string set.
package set

import (
	"fmt"
	"sort"
)

type Set map[string]struct{}

func New(elements ...string) Set {
	set := make(Set)
	for _, e := range elements {
		set.Add(e)
	}
	return set
}

func (set Set) Add(str string) {
	set[str] = struct{}{}
}

func (set Set) Has(str string) bool {
	_, ok := set[str]
	return ok
}

func (set Set) Len() int {
	return len(set)
}

func (set Set) List() (elements []string) {
	for element := range set {
		elements = append(elements, element)
	}
	return
}

// Sort returns the elements of the set in lexical order.
func (set Set) Sort() (elements []string) {
	elements = set.List()
	sort.Strings(elements)
	return
}

// Not returns the elements of a that are not in b.
func (a Set) Not(b Set) (c Set) {
	c = make(Set)
	for e := range a {
		if !b.Has(e) {
			c.Add(e)
		}
	}
	return
}

func (set Set) String() (str string) {
	return fmt.Sprintf("%d", len(set))
}
