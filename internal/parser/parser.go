// Package parser compiles restricted mathematical expressions into numeric
// evaluators for ODE right-hand sides. The language is infix arithmetic with
// `^`/`**` exponentiation, a fixed table of named functions and constants,
// and exactly the variables t and y (scalar) or t and y1..yN (systems).
package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Equation is a compiled scalar right-hand side dy/dt = f(t, y).
// An Equation with Valid == false must not be integrated; its evaluator
// always returns the parse error.
type Equation struct {
	Text      string
	Variables []string
	Valid     bool
	Err       error

	root node
}

// Eval computes f(t, y). For an invalid equation it returns the parse error.
func (e *Equation) Eval(t, y float64) (float64, error) {
	if !e.Valid {
		return 0, fmt.Errorf("equation %q is invalid: %w", e.Text, e.Err)
	}
	return e.root.eval(&env{t: t, y: []float64{y}})
}

// System is a compiled set of right-hand sides dyi/dt = fi(t, y1..yN).
type System struct {
	Equations []string
	Variables []string
	Valid     bool
	Err       error

	roots []node
}

// Eval computes every right-hand side against the given state vector,
// binding y1..yN to its components by position. Each result must be finite.
func (s *System) Eval(t float64, y []float64) ([]float64, error) {
	if !s.Valid {
		return nil, fmt.Errorf("equation system is invalid: %w", s.Err)
	}
	e := &env{t: t, y: y}
	out := make([]float64, len(s.roots))
	for i, root := range s.roots {
		v, err := root.eval(e)
		if err != nil {
			return nil, fmt.Errorf("equation %d (%q): %w", i+1, s.Equations[i], err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("equation %d (%q): evaluation produced a non-finite value", i+1, s.Equations[i])
		}
		out[i] = v
	}
	return out, nil
}

var coupledVar = regexp.MustCompile(`^y[0-9]+$`)

// Parse compiles a scalar expression over the variables t and y.
// Unknown identifiers, syntax errors, and expressions that fail a sample
// evaluation at (t=1, y=1) all produce Valid == false; the error is stored
// rather than returned so callers can carry the result around.
func Parse(expression string) *Equation {
	eq := &Equation{Text: expression}

	if strings.TrimSpace(expression) == "" {
		eq.Err = fmt.Errorf("expression is empty")
		return eq
	}
	if err := ValidateExpression(expression); err != nil {
		eq.Err = err
		return eq
	}

	normalized := normalize(expression)
	vars := identifiers(normalized)
	var unknown []string
	for _, v := range vars {
		if v != "t" && v != "y" {
			unknown = append(unknown, v)
		}
	}
	if len(unknown) > 0 {
		eq.Err = fmt.Errorf("unknown variable(s) %s: only t and y are allowed", strings.Join(unknown, ", "))
		return eq
	}
	eq.Variables = vars

	root, err := compile(normalized, scalarIndex)
	if err != nil {
		eq.Err = err
		return eq
	}

	// Sample evaluation catches numerically degenerate expressions before
	// they surface deep inside an integration loop.
	probe, err := root.eval(&env{t: 1, y: []float64{1}})
	if err != nil {
		eq.Err = fmt.Errorf("expression failed test evaluation: %w", err)
		return eq
	}
	if math.IsNaN(probe) || math.IsInf(probe, 0) {
		eq.Err = fmt.Errorf("expression produced a non-finite value at t=1, y=1")
		return eq
	}

	eq.root = root
	eq.Valid = true
	return eq
}

// ParseSystem compiles one expression per state component over the variables
// t and y1..yN. The empty input is rejected.
func ParseSystem(expressions []string) *System {
	sys := &System{Equations: expressions}

	if len(expressions) == 0 {
		sys.Err = fmt.Errorf("no equations provided")
		return sys
	}

	maxComponent := 0
	seen := make(map[string]bool)
	roots := make([]node, 0, len(expressions))

	for i, expression := range expressions {
		if strings.TrimSpace(expression) == "" {
			sys.Err = fmt.Errorf("equation %d is empty", i+1)
			return sys
		}
		if err := ValidateExpression(expression); err != nil {
			sys.Err = fmt.Errorf("equation %d: %w", i+1, err)
			return sys
		}

		normalized := normalize(expression)
		var unknown []string
		for _, v := range identifiers(normalized) {
			if v != "t" && !coupledVar.MatchString(v) {
				unknown = append(unknown, v)
				continue
			}
			if !seen[v] {
				seen[v] = true
				sys.Variables = append(sys.Variables, v)
			}
			if v != "t" {
				if n, _ := strconv.Atoi(v[1:]); n > maxComponent {
					maxComponent = n
				}
			}
		}
		if len(unknown) > 0 {
			sys.Err = fmt.Errorf("equation %d: unknown variable(s) %s: only t and y1..yN are allowed",
				i+1, strings.Join(unknown, ", "))
			return sys
		}

		root, err := compile(normalized, coupledIndex)
		if err != nil {
			sys.Err = fmt.Errorf("equation %d: %w", i+1, err)
			return sys
		}
		roots = append(roots, root)
	}

	if maxComponent < 1 {
		maxComponent = 1
	}
	sys.roots = roots
	sys.Valid = true

	// Sample evaluation with a vector of ones, mirroring the scalar probe.
	probe := make([]float64, maxComponent)
	for i := range probe {
		probe[i] = 1
	}
	if _, err := sys.Eval(1, probe); err != nil {
		sys.Valid = false
		sys.roots = nil
		sys.Err = fmt.Errorf("system failed test evaluation: %w", err)
	}
	return sys
}

// scalarIndex resolves variable names for scalar equations: t and y only.
func scalarIndex(name string) (int, error) {
	switch name {
	case "t":
		return -1, nil
	case "y":
		return 0, nil
	}
	return 0, fmt.Errorf("unknown variable %q", name)
}

// coupledIndex resolves t and y1..yN to vector positions.
func coupledIndex(name string) (int, error) {
	if name == "t" {
		return -1, nil
	}
	if coupledVar.MatchString(name) {
		n, err := strconv.Atoi(name[1:])
		if err != nil || n < 1 {
			return 0, fmt.Errorf("invalid state variable %q", name)
		}
		return n - 1, nil
	}
	return 0, fmt.Errorf("unknown variable %q", name)
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOperator
	tokLParen
	tokRParen
	tokComma
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

func tokenize(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c >= '0' && c <= '9' || c == '.':
			j := i
			for j < len(src) && (src[j] >= '0' && src[j] <= '9' || src[j] == '.') {
				j++
			}
			// Exponent notation: only consumed when a digit follows, so a
			// trailing `e` still tokenizes as the constant.
			if j < len(src) && (src[j] == 'e' || src[j] == 'E') {
				k := j + 1
				if k < len(src) && (src[k] == '+' || src[k] == '-') {
					k++
				}
				if k < len(src) && src[k] >= '0' && src[k] <= '9' {
					for k < len(src) && src[k] >= '0' && src[k] <= '9' {
						k++
					}
					j = k
				}
			}
			n, err := strconv.ParseFloat(src[i:j], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", src[i:j])
			}
			toks = append(toks, token{kind: tokNumber, text: src[i:j], num: n})
			i = j
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_':
			j := i
			for j < len(src) && (src[j] >= 'a' && src[j] <= 'z' || src[j] >= 'A' && src[j] <= 'Z' ||
				src[j] >= '0' && src[j] <= '9' || src[j] == '_') {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: src[i:j]})
			i = j
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '^':
			toks = append(toks, token{kind: tokOperator, text: string(c)})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "("})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")"})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma, text: ","})
			i++
		default:
			return nil, fmt.Errorf("unexpected character %q", c)
		}
	}
	toks = append(toks, token{kind: tokEOF})
	return toks, nil
}

type exprParser struct {
	toks    []token
	pos     int
	resolve func(string) (int, error)
}

// compile tokenizes and parses a normalized expression into a tree, with
// variable references resolved through the given index function.
func compile(src string, resolve func(string) (int, error)) (node, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &exprParser{toks: toks, resolve: resolve}
	root, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("unexpected token %q", p.peek().text)
	}
	return root, nil
}

func (p *exprParser) peek() token { return p.toks[p.pos] }

func (p *exprParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *exprParser) parseSum() (node, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOperator && (p.peek().text == "+" || p.peek().text == "-") {
		op := p.next().text[0]
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, l: left, r: right}
	}
	return left, nil
}

func (p *exprParser) parseProduct() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOperator && (p.peek().text == "*" || p.peek().text == "/") {
		op := p.next().text[0]
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, l: left, r: right}
	}
	return left, nil
}

func (p *exprParser) parseUnary() (node, error) {
	if p.peek().kind == tokOperator {
		switch p.peek().text {
		case "-":
			p.next()
			x, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return negNode{x: x}, nil
		case "+":
			p.next()
			return p.parseUnary()
		}
	}
	return p.parsePower()
}

// parsePower handles `^` right-associatively: 2^3^2 is 2^(3^2).
func (p *exprParser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokOperator && p.peek().text == "^" {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return binaryNode{op: '^', l: base, r: exp}, nil
	}
	return base, nil
}

func (p *exprParser) parsePrimary() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return numNode(tok.num), nil
	case tokLParen:
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.next().kind != tokRParen {
			return nil, fmt.Errorf("missing closing parenthesis")
		}
		return inner, nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.parseCall(tok.text)
		}
		if v, ok := constantTable[tok.text]; ok {
			return numNode(v), nil
		}
		if tok.text == "i" {
			return unsupportedNode("i"), nil
		}
		if isFunction(tok.text) {
			return nil, fmt.Errorf("function %q requires arguments", tok.text)
		}
		idx, err := p.resolve(tok.text)
		if err != nil {
			return nil, err
		}
		return varNode{name: tok.text, index: idx}, nil
	case tokEOF:
		return nil, fmt.Errorf("unexpected end of expression")
	}
	return nil, fmt.Errorf("unexpected token %q", tok.text)
}

func (p *exprParser) parseCall(name string) (node, error) {
	entry, ok := functionTable[name]
	if !ok {
		return nil, fmt.Errorf("unknown function %q", name)
	}
	p.next() // consume '('

	var args []node
	if p.peek().kind != tokRParen {
		for {
			arg, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
	}
	if p.next().kind != tokRParen {
		return nil, fmt.Errorf("missing closing parenthesis in call to %s", name)
	}
	if len(args) < entry.minArgs || len(args) > entry.maxArgs {
		return nil, fmt.Errorf("function %s expects %d argument(s), got %d", name, entry.minArgs, len(args))
	}
	return callNode{name: name, fn: entry.fn, args: args}, nil
}
