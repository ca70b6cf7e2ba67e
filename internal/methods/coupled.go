package methods

import (
	"fmt"
	"strings"
)

// CoupledDerivFunc is a vector right-hand side dy/dt = f(t, y).
type CoupledDerivFunc func(t float64, y []float64) ([]float64, error)

// CoupledStepFunc advances a vector state by one step of size h.
type CoupledStepFunc func(f CoupledDerivFunc, t float64, y []float64, h float64) (float64, []float64, error)

// CoupledMethod is the vector-valued counterpart of Method. The formulas
// are the same, applied componentwise.
type CoupledMethod struct {
	Key         string
	Name        string
	Description string
	Order       int
	Step        CoupledStepFunc
}

func axpy(y []float64, a float64, x []float64) []float64 {
	out := make([]float64, len(y))
	for i := range y {
		out[i] = y[i] + a*x[i]
	}
	return out
}

func coupledEulerStep(f CoupledDerivFunc, t float64, y []float64, h float64) (float64, []float64, error) {
	k, err := f(t, y)
	if err != nil {
		return 0, nil, err
	}
	return t + h, axpy(y, h, k), nil
}

func coupledHeunStep(f CoupledDerivFunc, t float64, y []float64, h float64) (float64, []float64, error) {
	k1, err := f(t, y)
	if err != nil {
		return 0, nil, err
	}
	k2, err := f(t+h, axpy(y, h, k1))
	if err != nil {
		return 0, nil, err
	}
	out := make([]float64, len(y))
	for i := range y {
		out[i] = y[i] + h*0.5*(k1[i]+k2[i])
	}
	return t + h, out, nil
}

func coupledRK4Step(f CoupledDerivFunc, t float64, y []float64, h float64) (float64, []float64, error) {
	k1, err := f(t, y)
	if err != nil {
		return 0, nil, err
	}
	k2, err := f(t+h*0.5, axpy(y, h*0.5, k1))
	if err != nil {
		return 0, nil, err
	}
	k3, err := f(t+h*0.5, axpy(y, h*0.5, k2))
	if err != nil {
		return 0, nil, err
	}
	k4, err := f(t+h, axpy(y, h, k3))
	if err != nil {
		return 0, nil, err
	}
	out := make([]float64, len(y))
	h6 := h / 6.0
	for i := range y {
		out[i] = y[i] + h6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return t + h, out, nil
}

var coupledCatalog = map[string]CoupledMethod{
	"euler": {
		Key:         "euler",
		Name:        "Euler",
		Description: "first-order forward Euler method",
		Order:       1,
		Step:        coupledEulerStep,
	},
	"heun": {
		Key:         "heun",
		Name:        "Heun",
		Description: "second-order predictor-corrector (improved Euler)",
		Order:       2,
		Step:        coupledHeunStep,
	},
	"rk4": {
		Key:         "rk4",
		Name:        "Runge-Kutta 4",
		Description: "classical fourth-order Runge-Kutta method",
		Order:       4,
		Step:        coupledRK4Step,
	},
}

// GetCoupled looks up a vector method by its lowercase key.
func GetCoupled(key string) (CoupledMethod, error) {
	m, ok := coupledCatalog[strings.ToLower(key)]
	if !ok {
		return CoupledMethod{}, fmt.Errorf("unknown method: %s", key)
	}
	return m, nil
}

// ListCoupled returns the vector methods in a stable order.
func ListCoupled() []CoupledMethod {
	out := make([]CoupledMethod, 0, len(keys))
	for _, k := range keys {
		out = append(out, coupledCatalog[k])
	}
	return out
}
