// Package histogram counts observations by name.
package histogram

import (
	"fmt"
	"sort"
	"strings"
)

type Histogram map[string]int

func New() Histogram {
	return make(Histogram)
}

func (h Histogram) Add(obs string) {
	h[obs]++
}

func (h Histogram) Count(obs string) int {
	return h[obs]
}

func (h Histogram) Merge(w Histogram) {
	for bin, count := range w {
		h[bin] += count
	}
}

// String lists bins in lexical order so that output is stable.
func (h Histogram) String() (str string) {
	bins := make([]string, 0, len(h))
	for bin := range h {
		bins = append(bins, bin)
	}
	sort.Strings(bins)
	for _, bin := range bins {
		str += fmt.Sprintf("%s: %d\n", bin, h[bin])
	}
	str = strings.TrimSuffix(str, "\n")
	return
}
