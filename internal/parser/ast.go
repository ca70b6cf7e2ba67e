package parser

import (
	"fmt"
	"math"
)

// env carries the variable bindings for one evaluation. Variable references
// are resolved to component indices at parse time, so evaluation does no
// name lookups.
type env struct {
	t float64
	y []float64
}

// node is one variant of the compiled expression tree.
type node interface {
	eval(e *env) (float64, error)
}

type numNode float64

func (n numNode) eval(*env) (float64, error) { return float64(n), nil }

// varNode references t (index -1) or a state component by index.
type varNode struct {
	name  string
	index int
}

func (v varNode) eval(e *env) (float64, error) {
	if v.index < 0 {
		return e.t, nil
	}
	if v.index >= len(e.y) {
		return 0, fmt.Errorf("undefined variable %s (state has %d components)", v.name, len(e.y))
	}
	return e.y[v.index], nil
}

type negNode struct {
	x node
}

func (n negNode) eval(e *env) (float64, error) {
	v, err := n.x.eval(e)
	return -v, err
}

type binaryNode struct {
	op   byte
	l, r node
}

func (b binaryNode) eval(e *env) (float64, error) {
	l, err := b.l.eval(e)
	if err != nil {
		return 0, err
	}
	r, err := b.r.eval(e)
	if err != nil {
		return 0, err
	}
	switch b.op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	case '/':
		return l / r, nil
	case '^':
		return math.Pow(l, r), nil
	}
	return 0, fmt.Errorf("unknown operator %q", b.op)
}

type callNode struct {
	name string
	fn   mathFunc
	args []node
}

func (c callNode) eval(e *env) (float64, error) {
	vals := make([]float64, len(c.args))
	for i, a := range c.args {
		v, err := a.eval(e)
		if err != nil {
			return 0, err
		}
		vals[i] = v
	}
	return c.fn(vals), nil
}

// unsupportedNode stands in for identifiers that are on the constant
// allow-list but have no numeric value, like the imaginary unit.
type unsupportedNode string

func (u unsupportedNode) eval(*env) (float64, error) {
	return 0, fmt.Errorf("constant %q has no real-valued interpretation", string(u))
}
