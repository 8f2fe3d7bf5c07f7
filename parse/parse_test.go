package parse

import (
	"io"
	"log"
	"strings"
	"testing"

	"github.com/neil066/VLSI-Verfication-Lab/rtl"
)

func init() {
	log.SetOutput(io.Discard)
}

func parseString(t *testing.T, src string) *rtl.Design {
	t.Helper()
	d, err := New("test", strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestEmptyModule(t *testing.T) {
	d := parseString(t, `module empty();
endmodule`)

	m, ok := d.Modules["empty"]
	if !ok {
		t.Fatal("module empty not in table")
	}
	if len(m.Ports) != 0 || len(m.Wires) != 0 || len(m.Insts) != 0 {
		t.Errorf("expected empty module, got %v", m)
	}
}

func TestNoPortList(t *testing.T) {
	parseString(t, `module bare;
endmodule`)
}

func TestPorts(t *testing.T) {
	d := parseString(t, `
module m (a, b, y, z);
input a, b;
output y;
output z;
endmodule`)

	m := d.Modules["m"]

	ins := m.Inputs()
	if len(ins) != 2 || ins[0] != "a" || ins[1] != "b" {
		t.Errorf("expected inputs [a b], got %v", ins)
	}

	outs := m.Outputs()
	if len(outs) != 2 || outs[0] != "y" || outs[1] != "z" {
		t.Errorf("expected outputs [y z], got %v", outs)
	}

	ports := m.PortNames()
	for i, exp := range []string{"a", "b", "y", "z"} {
		if ports[i] != exp {
			t.Errorf("port %d: expected %q, got %q", i, exp, ports[i])
		}
	}
}

func TestWires(t *testing.T) {
	d := parseString(t, `
module m (a, y);
input a;
output y;
wire w1, w2;
wire w3;
endmodule`)

	m := d.Modules["m"]
	if len(m.Wires) != 3 {
		t.Fatalf("expected 3 wires, got %v", m.Wires)
	}
	for i, exp := range []string{"w1", "w2", "w3"} {
		if m.Wires[i] != exp {
			t.Errorf("wire %d: expected %q, got %q", i, exp, m.Wires[i])
		}
	}
}

func TestNamedConnections(t *testing.T) {
	d := parseString(t, `
module m (a, b, y);
input a, b;
output y;
AND g1 (.A(a), .B(b), .Y(y));
endmodule`)

	m := d.Modules["m"]
	if len(m.Insts) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(m.Insts))
	}

	inst := m.Insts[0]
	if inst.Name != "g1" || inst.Type != "AND" {
		t.Errorf("expected AND g1, got %s %s", inst.Type, inst.Name)
	}
	if len(inst.Conns) != 3 {
		t.Fatalf("expected 3 connections, got %d", len(inst.Conns))
	}

	exp := []struct{ formal, actual string }{
		{"A", "a"}, {"B", "b"}, {"Y", "y"},
	}
	for i, e := range exp {
		c := inst.Conns[i]
		if c.Formal != e.formal || c.Actual != e.actual || c.Pos != i {
			t.Errorf("conn %d: expected .%s(%s), got .%s(%s) pos %d",
				i, e.formal, e.actual, c.Formal, c.Actual, c.Pos)
		}
	}
}

func TestPositionalConnections(t *testing.T) {
	d := parseString(t, `
module m (a, b, y);
input a, b;
output y;
AND g1 (a, b, y);
endmodule`)

	inst := d.Modules["m"].Insts[0]
	if len(inst.Conns) != 3 {
		t.Fatalf("expected 3 connections, got %d", len(inst.Conns))
	}
	for i, exp := range []string{"a", "b", "y"} {
		c := inst.Conns[i]
		if c.Formal != "" || c.Actual != exp || c.Pos != i {
			t.Errorf("conn %d: expected positional %q, got %+v", i, exp, c)
		}
	}
}

func TestUnconnectedPort(t *testing.T) {
	d := parseString(t, `
module m (a, y);
input a;
output y;
AND g1 (.A(a), .B(), .Y(y));
endmodule`)

	c := d.Modules["m"].Insts[0].Conns[1]
	if c.Formal != "B" || c.Actual != "" {
		t.Errorf("expected unconnected .B(), got %+v", c)
	}
}

func TestComments(t *testing.T) {
	d := parseString(t, `
// half adder built from gates
module ha (a, b, s, c); // ports
input a, b;
output s, c;
/* the gates
   span two lines */
XOR x1 (.A(a), .B(b), .Y(s));
AND a1 (.A(a), .B(b), .Y(c));
endmodule`)

	if len(d.Modules["ha"].Insts) != 2 {
		t.Errorf("expected 2 instances, got %d", len(d.Modules["ha"].Insts))
	}
}

func TestForwardReference(t *testing.T) {
	// top uses leaf before leaf is declared
	d := parseString(t, `
module top (a, y);
input a;
output y;
leaf l1 (.I(a), .O(y));
endmodule

module leaf (I, O);
input I;
output O;
NOT n1 (.A(I), .Y(O));
endmodule`)

	names := d.Names()
	if len(names) != 2 || names[0] != "top" || names[1] != "leaf" {
		t.Errorf("expected [top leaf], got %v", names)
	}
}

func TestMultipleModules(t *testing.T) {
	d := parseString(t, `
module a (); endmodule
module b (); endmodule
module c (); endmodule`)

	if len(d.Modules) != 3 {
		t.Errorf("expected 3 modules, got %d", len(d.Modules))
	}
}

func TestParseErrors(t *testing.T) {
	testcases := []struct {
		name string
		src  string
	}{
		{"missing semicolon", "module m (a)\ninput a;\nendmodule"},
		{"missing endmodule", "module m (a);\ninput a;"},
		{"port without direction", "module m (a, b);\ninput a;\nendmodule"},
		{"direction for unknown port", "module m (a);\ninput a;\noutput q;\nendmodule"},
		{"duplicate wire", "module m ();\nwire w, w;\nendmodule"},
		{"wire clashes with port", "module m (a);\ninput a;\nwire a;\nendmodule"},
		{"duplicate module", "module m (); endmodule\nmodule m (); endmodule"},
		{"duplicate instance", "module m ();\nAND g (.A(x));\nAND g (.A(x));\nendmodule"},
		{"mixed connection styles", "module m (a, y);\ninput a;\noutput y;\nAND g (a, .Y(y));\nendmodule"},
		{"garbage token", "module m ();\n@\nendmodule"},
		{"unterminated comment", "module m ();\n/* no end\nendmodule"},
		{"bus declaration", "module m (a);\ninput [3:0] a;\nendmodule"},
		{"statement outside module", "wire w;"},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := New("test", strings.NewReader(tc.src))
			if err == nil {
				t.Fatal("expected parse error, got none")
			}
			if d != nil {
				t.Errorf("expected no table on parse error, got %v", d)
			}
			if _, ok := err.(*Error); !ok {
				t.Errorf("expected *parse.Error, got %T: %v", err, err)
			}
		})
	}
}

func TestLexicalError(t *testing.T) {
	// an unlexable rune surfaces as the same *Error as a syntactic one
	d, err := New("test", strings.NewReader("module m ();\n#\nendmodule"))
	if err == nil {
		t.Fatal("expected lexical error, got none")
	}
	if d != nil {
		t.Errorf("expected no table on lexical error, got %v", d)
	}

	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *parse.Error, got %T: %v", err, err)
	}
	if perr.Line != 2 {
		t.Errorf("expected line 2, got %d", perr.Line)
	}
}

func TestErrorContext(t *testing.T) {
	_, err := New("adder.v", strings.NewReader("module m (a)\ninput a;\nendmodule"))
	if err == nil {
		t.Fatal("expected parse error, got none")
	}

	perr := err.(*Error)
	if perr.File != "adder.v" {
		t.Errorf("expected file adder.v, got %q", perr.File)
	}
	if perr.Line == 0 {
		t.Errorf("expected a line number, got %d", perr.Line)
	}
	if !strings.Contains(perr.Error(), "adder.v") {
		t.Errorf("error text %q does not carry the file name", perr.Error())
	}
}
