package parser

import (
	"math"
	"math/rand"
)

type mathFunc func(args []float64) float64

type funcEntry struct {
	minArgs int
	maxArgs int
	fn      mathFunc
}

func unary(f func(float64) float64) funcEntry {
	return funcEntry{1, 1, func(a []float64) float64 { return f(a[0]) }}
}

func binary(f func(float64, float64) float64) funcEntry {
	return funcEntry{2, 2, func(a []float64) float64 { return f(a[0], a[1]) }}
}

// functionTable is the fixed set of callable names. Anything outside it is
// either a constant or a variable reference.
var functionTable = map[string]funcEntry{
	"sin":   unary(math.Sin),
	"cos":   unary(math.Cos),
	"tan":   unary(math.Tan),
	"sec":   unary(func(x float64) float64 { return 1 / math.Cos(x) }),
	"csc":   unary(func(x float64) float64 { return 1 / math.Sin(x) }),
	"cot":   unary(func(x float64) float64 { return 1 / math.Tan(x) }),
	"asin":  unary(math.Asin),
	"acos":  unary(math.Acos),
	"atan":  unary(math.Atan),
	"atan2": binary(math.Atan2),
	"sinh":  unary(math.Sinh),
	"cosh":  unary(math.Cosh),
	"tanh":  unary(math.Tanh),
	"exp":   unary(math.Exp),
	"log":   unary(math.Log),
	"log10": unary(math.Log10),
	"log2":  unary(math.Log2),
	"sqrt":  unary(math.Sqrt),
	"cbrt":  unary(math.Cbrt),
	"pow":   binary(math.Pow),
	"abs":   unary(math.Abs),
	"floor": unary(math.Floor),
	"ceil":  unary(math.Ceil),
	"round": unary(math.Round),
	"sign": unary(func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		}
		return 0
	}),
	"max":    binary(math.Max),
	"min":    binary(math.Min),
	"random": {0, 0, func([]float64) float64 { return rand.Float64() }},
}

// constantTable maps constant names to values. The imaginary unit is on the
// allow-list so it is not reported as an unknown variable, but it has no
// real value; referencing it fails at evaluation time.
var constantTable = map[string]float64{
	"pi": math.Pi,
	"PI": math.Pi,
	"e":  math.E,
	"E":  math.E,
}

var functionNames = []string{
	"sin", "cos", "tan", "sec", "csc", "cot",
	"asin", "acos", "atan", "atan2",
	"sinh", "cosh", "tanh",
	"exp", "log", "log10", "log2",
	"sqrt", "cbrt", "pow",
	"abs", "floor", "ceil", "round", "sign",
	"max", "min", "random",
}

var constantNames = []string{"pi", "PI", "e", "E", "i"}

// Functions returns the callable function names, for display.
func Functions() []string {
	out := make([]string, len(functionNames))
	copy(out, functionNames)
	return out
}

// Constants returns the recognized constant names, for display.
func Constants() []string {
	out := make([]string, len(constantNames))
	copy(out, constantNames)
	return out
}

func isFunction(name string) bool {
	_, ok := functionTable[name]
	return ok
}

func isConstant(name string) bool {
	if _, ok := constantTable[name]; ok {
		return true
	}
	return name == "i"
}
