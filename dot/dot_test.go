package dot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neil066/VLSI-Verfication-Lab/parse"
	"github.com/neil066/VLSI-Verfication-Lab/sim"
)

const src = `
module ha (a, b, s, c);
input a, b;
output s, c;
XOR x1 (.A(a), .B(b), .Y(s));
AND a1 (.A(a), .B(b), .Y(c));
endmodule

module top (a, b, s, c);
input a, b;
output s, c;
ha h1 (.a(a), .b(b), .s(s), .c(c));
endmodule
`

func TestWriteDesign(t *testing.T) {
	d, err := parse.New("test", strings.NewReader(src))
	require.NoError(t, err)

	s, err := sim.New(d)
	require.NoError(t, err)
	s.Warnf = func(string, ...interface{}) {}

	store, err := s.Run("top", map[string]bool{"a": true, "b": true})
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, WriteDesign(&b, s, "top", store))
	out := b.String()

	assert.True(t, strings.HasPrefix(out, "digraph circuit"))
	assert.Contains(t, out, "rankdir=LR")

	// one cluster per module invocation, labeled with the path
	assert.Contains(t, out, `label="top";`)
	assert.Contains(t, out, `label="top/h1";`)

	// the gates of the sub-module appear as boxes
	assert.Contains(t, out, `label="x1\nXOR"`)
	assert.Contains(t, out, `label="a1\nAND"`)

	// edges carry the computed values: a=1, b=1 -> s=0, c=1
	assert.Contains(t, out, `[label="A=1"]`)
	assert.Contains(t, out, `[label="Y=0"]`)
	assert.Contains(t, out, `[label="Y=1"]`)

	// node ids are sanitized: top/h1/a becomes top_h1_a
	assert.Contains(t, out, "top_h1_a\t")
	assert.Contains(t, out, "g_top_h1_x1\t")
}

func TestWritePrimitive(t *testing.T) {
	var b strings.Builder
	WritePrimitive(&b, "FA", "fa0", []PortValue{
		{Port: "A", Value: true},
		{Port: "B", Value: false},
		{Port: "CIN", Value: true},
		{Port: "SUM", Value: false, Output: true},
		{Port: "COUT", Value: true, Output: true},
	})
	out := b.String()

	assert.Contains(t, out, `label="fa0\nFA"`)
	assert.Contains(t, out, "rank=source")
	assert.Contains(t, out, "rank=sink")
	assert.Contains(t, out, `in_A -> g	[label="1"]`)
	assert.Contains(t, out, `in_B -> g	[label="0"]`)
	assert.Contains(t, out, `g -> out_SUM	[label="0"]`)
	assert.Contains(t, out, `g -> out_COUT	[label="1"]`)
}
