package prim

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestGateTruthTables(t *testing.T) {
	// results indexed by A<<1|B
	testcases := []struct {
		typ string
		exp [4]bool
	}{
		{"AND", [4]bool{false, false, false, true}},
		{"NAND", [4]bool{true, true, true, false}},
		{"OR", [4]bool{false, true, true, true}},
		{"NOR", [4]bool{true, false, false, false}},
		{"XOR", [4]bool{false, true, true, false}},
		{"XNOR", [4]bool{true, false, false, true}},
	}

	for _, tc := range testcases {
		t.Run(tc.typ, func(t *testing.T) {
			g, err := Lookup(tc.typ)
			assert.NoError(t, err)

			for i := 0; i < 4; i++ {
				a, b := i&2 != 0, i&1 != 0
				out := g.Eval(map[string]bool{PortA: a, PortB: b})
				assert.Equal(t, tc.exp[i], out[PortY], "%s(%v,%v)", tc.typ, a, b)
			}
		})
	}
}

func TestBufNot(t *testing.T) {
	buf, err := Lookup("BUF")
	assert.NoError(t, err)
	not, err := Lookup("NOT")
	assert.NoError(t, err)

	for _, a := range []bool{false, true} {
		assert.Equal(t, a, buf.Eval(map[string]bool{PortA: a})[PortY])
		assert.Equal(t, !a, not.Eval(map[string]bool{PortA: a})[PortY])
	}
}

func TestVariadicFold(t *testing.T) {
	testcases := []struct {
		typ string
		in  map[string]bool
		exp bool
	}{
		{"AND", map[string]bool{"A": true, "B": true, "C": true}, true},
		{"AND", map[string]bool{"A": true, "B": true, "C": false}, false},
		{"OR", map[string]bool{"A": false, "B": false, "C": false, "D": true}, true},
		{"NAND", map[string]bool{"A": true, "B": true, "C": true}, false},
		{"NOR", map[string]bool{"A": false, "B": false, "C": false}, true},
		// odd parity over three inputs
		{"XOR", map[string]bool{"A": true, "B": true, "C": true}, true},
		{"XNOR", map[string]bool{"A": true, "B": true, "C": false}, true},
	}

	for _, tc := range testcases {
		g, err := Lookup(tc.typ)
		assert.NoError(t, err)
		assert.Equal(t, tc.exp, g.Eval(tc.in)[PortY], "%s(%v)", tc.typ, tc.in)
	}
}

func TestHalfAdder(t *testing.T) {
	g, err := Lookup("HA")
	assert.NoError(t, err)

	for i := 0; i < 4; i++ {
		a, b := i&2 != 0, i&1 != 0
		out := g.Eval(map[string]bool{PortA: a, PortB: b})
		assert.Equal(t, a != b, out[PortSum], "HA(%v,%v) SUM", a, b)
		assert.Equal(t, a && b, out[PortCout], "HA(%v,%v) COUT", a, b)
	}
}

func TestFullAdder(t *testing.T) {
	g, err := Lookup("FA")
	assert.NoError(t, err)

	for i := 0; i < 8; i++ {
		a, b, cin := i&4 != 0, i&2 != 0, i&1 != 0
		n := 0
		for _, v := range []bool{a, b, cin} {
			if v {
				n++
			}
		}
		out := g.Eval(map[string]bool{PortA: a, PortB: b, PortCin: cin})
		assert.Equal(t, n&1 == 1, out[PortSum], "FA(%v,%v,%v) SUM", a, b, cin)
		assert.Equal(t, n >= 2, out[PortCout], "FA(%v,%v,%v) COUT", a, b, cin)
	}
}

func TestEvalPure(t *testing.T) {
	for _, typ := range Types() {
		g, err := Lookup(typ)
		assert.NoError(t, err)

		total := 1 << len(g.Inputs)
		for i := 0; i < total; i++ {
			in := make(map[string]bool)
			for bit, p := range g.Inputs {
				in[p] = i&(1<<bit) != 0
			}
			first := g.Eval(in)
			second := g.Eval(in)
			assert.Equal(t, first, second, "%s(%v)", typ, in)
			for _, o := range g.Outputs {
				_, ok := first[o]
				assert.True(t, ok, "%s(%v): no value for output %s", typ, in, o)
			}
		}
	}
}

func TestAliases(t *testing.T) {
	testcases := []struct {
		typ string
		exp string
	}{
		{"and", "AND"},
		{"Xor", "XOR"},
		{"inv", "NOT"},
		{"buffer", "BUF"},
		{"full_adder", "FA"},
		{"half_adder", "HA"},
		{"FULL_ADDER", "FA"},
	}

	for _, tc := range testcases {
		g, err := Lookup(tc.typ)
		assert.NoError(t, err, tc.typ)
		assert.Equal(t, tc.exp, g.Type, tc.typ)
	}
}

func TestUnsupported(t *testing.T) {
	for _, typ := range []string{"DFF", "latch", "bogus", ""} {
		_, err := Lookup(typ)
		assert.Error(t, err, typ)
		assert.Equal(t, ErrUnsupported, errors.Cause(err), typ)
		assert.False(t, Is(typ), typ)
	}
}

func TestPortChecks(t *testing.T) {
	and, _ := Lookup("AND")
	assert.True(t, and.HasInput("A"))
	assert.True(t, and.HasInput("B"))
	assert.True(t, and.HasInput("C")) // variadic
	assert.False(t, and.HasInput("Y"))
	assert.False(t, and.HasInput("CIN"))
	assert.True(t, and.HasOutput("Y"))

	fa, _ := Lookup("FA")
	assert.True(t, fa.HasInput("CIN"))
	assert.False(t, fa.HasInput("D")) // not variadic
	assert.True(t, fa.HasOutput("SUM"))
	assert.True(t, fa.HasOutput("COUT"))
	assert.False(t, fa.HasOutput("Y"))
}
