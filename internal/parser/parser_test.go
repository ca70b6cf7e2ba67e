package parser

import (
	"math"
	"strings"
	"testing"
)

func TestParseValidExpressions(t *testing.T) {
	tests := []struct {
		expr     string
		t, y     float64
		expected float64
	}{
		{"t + y", 2, 3, 5},
		{"t*y", 2, 3, 6},
		{"y^2", 0, 3, 9},
		{"y**2", 0, 3, 9},
		{"sin(t)", math.Pi / 2, 0, 1},
		{"exp(0*t)", 5, 0, 1},
		{"2(t+1)", 2, 0, 6},
		{"(t+1)(t-1)", 3, 0, 8},
		{"y(t+1)", 1, 2, 4},
		{"pi*t", 1, 0, math.Pi},
		{"E - e", 1, 1, 0},
		{"pow(t, 3)", 2, 0, 8},
		{"atan2(y, t)", 1, 1, math.Pi / 4},
		{"max(t, y) + min(t, y)", 2, 5, 7},
		{"-y", 0, 4, -4},
		{"2^3^2", 1, 1, 512},
		{"abs(-t)/2", 6, 0, 3},
		{"1e-2 * y", 0, 100, 1},
		{"1e3", 0, 0, 1000},
		{"1e3*t", 2, 0, 2000},
		{"2e2 + y", 0, 1, 201},
		{"2E2 + y", 0, 1, 201},
	}

	for _, tt := range tests {
		eq := Parse(tt.expr)
		if !eq.Valid {
			t.Errorf("Parse(%q) invalid: %v", tt.expr, eq.Err)
			continue
		}
		got, err := eq.Eval(tt.t, tt.y)
		if err != nil {
			t.Errorf("Eval(%q) failed: %v", tt.expr, err)
			continue
		}
		if math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Eval(%q) at (%.1f, %.1f) = %g, expected %g", tt.expr, tt.t, tt.y, got, tt.expected)
		}
	}
}

func TestParseUnknownVariables(t *testing.T) {
	tests := []struct {
		expr    string
		offends string
	}{
		{"x + y", "x"},
		{"t + z*y", "z"},
		{"a*b", "a"},
		{"y1 + y2", "y1"},
	}

	for _, tt := range tests {
		eq := Parse(tt.expr)
		if eq.Valid {
			t.Errorf("Parse(%q) should be invalid", tt.expr)
			continue
		}
		if !strings.Contains(eq.Err.Error(), tt.offends) {
			t.Errorf("Parse(%q) error %q does not name %q", tt.expr, eq.Err, tt.offends)
		}
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	for _, expr := range []string{"", "t +", "sin(t", "t ) y", "1..2", "pow(t)", "sin"} {
		eq := Parse(expr)
		if eq.Valid {
			t.Errorf("Parse(%q) should be invalid", expr)
		}
		if eq.Err == nil {
			t.Errorf("Parse(%q) invalid but has no error", expr)
		}
	}
}

func TestParseSelfTest(t *testing.T) {
	// Structurally fine but non-finite at the (1, 1) probe point.
	for _, expr := range []string{"log(t - 2)", "1/(t - 1)", "sqrt(-t)", "i*y"} {
		eq := Parse(expr)
		if eq.Valid {
			t.Errorf("Parse(%q) should fail its test evaluation", expr)
		}
	}
}

func TestInvalidEquationEvalAlwaysFails(t *testing.T) {
	eq := Parse("nope + y")
	if eq.Valid {
		t.Fatal("expected invalid equation")
	}
	if _, err := eq.Eval(0, 0); err == nil {
		t.Error("invalid equation evaluated without error")
	}
}

func TestRepeatedEvalIsDeterministic(t *testing.T) {
	a := Parse("sin(t)*y + t^2")
	b := Parse("sin(t)*y + t^2")
	if !a.Valid || !b.Valid {
		t.Fatal("expected valid equations")
	}
	for _, pt := range [][2]float64{{0, 1}, {0.5, -2}, {3, 0.25}} {
		va, _ := a.Eval(pt[0], pt[1])
		vb, _ := b.Eval(pt[0], pt[1])
		if va != vb {
			t.Errorf("re-parsed evaluators disagree at %v: %g vs %g", pt, va, vb)
		}
	}
}

func TestParseSystem(t *testing.T) {
	sys := ParseSystem([]string{"y2", "-y1"})
	if !sys.Valid {
		t.Fatalf("system invalid: %v", sys.Err)
	}

	d, err := sys.Eval(0, []float64{1, 0})
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if len(d) != 2 || d[0] != 0 || d[1] != -1 {
		t.Errorf("expected [0 -1], got %v", d)
	}
}

func TestParseSystemErrors(t *testing.T) {
	if sys := ParseSystem(nil); sys.Valid || sys.Err == nil {
		t.Error("empty system should be rejected")
	}

	sys := ParseSystem([]string{"y1 + w"})
	if sys.Valid {
		t.Error("expected invalid system")
	}
	if !strings.Contains(sys.Err.Error(), "w") {
		t.Errorf("error %q does not name offending identifier", sys.Err)
	}

	// y0 does not match the y-followed-by-positive-digits pattern usage.
	sys = ParseSystem([]string{"t*y1", "y3"})
	if !sys.Valid {
		t.Fatalf("system invalid: %v", sys.Err)
	}
	if _, err := sys.Eval(0, []float64{1, 1}); err == nil {
		t.Error("referencing y3 with a 2-component state should fail")
	}
}

func TestParseSystemSelfTest(t *testing.T) {
	sys := ParseSystem([]string{"y1", "log(-t)"})
	if sys.Valid {
		t.Error("system with non-finite probe should be invalid")
	}
}

func TestValidateExpression(t *testing.T) {
	for _, expr := range []string{"eval(t)", "t; while(1)", "y.__proto__", "require('fs')", "a => a"} {
		if err := ValidateExpression(expr); err == nil {
			t.Errorf("ValidateExpression(%q) should fail", expr)
		}
	}
	for _, expr := range []string{"sin(t) + y", "t^2 - 3*y", "pow(y, 2)"} {
		if err := ValidateExpression(expr); err != nil {
			t.Errorf("ValidateExpression(%q) failed: %v", expr, err)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct{ in, out string }{
		{"2(t+1)", "2*(t+1)"},
		{"y (t+1)", "y*(t+1)"},
		{"(t)(y)", "(t)*(y)"},
		{"t ** 2", "t^2"},
		{"sin(t)", "sin(t)"},
		{"atan2(y, t)", "atan2(y,t)"},
		{"log2(t)", "log2(t)"},
	}
	for _, tt := range tests {
		if got := normalize(tt.in); got != tt.out {
			t.Errorf("normalize(%q) = %q, expected %q", tt.in, got, tt.out)
		}
	}
}

func TestSupportedMathLists(t *testing.T) {
	fns := Functions()
	if len(fns) == 0 {
		t.Fatal("no functions exposed")
	}
	found := false
	for _, f := range fns {
		if f == "sin" {
			found = true
		}
	}
	if !found {
		t.Error("function list missing sin")
	}

	consts := Constants()
	if len(consts) == 0 {
		t.Fatal("no constants exposed")
	}
	found = false
	for _, c := range consts {
		if c == "pi" {
			found = true
		}
	}
	if !found {
		t.Error("constant list missing pi")
	}
}

func TestRandomFunction(t *testing.T) {
	eq := Parse("random() * y")
	if !eq.Valid {
		t.Fatalf("invalid: %v", eq.Err)
	}
	v, err := eq.Eval(0, 1)
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if v < 0 || v >= 1 {
		t.Errorf("random() out of range: %g", v)
	}
}
