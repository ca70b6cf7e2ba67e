// Package methods provides the fixed catalog of explicit single-step
// integration formulas, in scalar and vector form, together with step-size
// diagnostics. The catalog is closed: Euler, Heun, and classical RK4.
package methods

import (
	"fmt"
	"strings"
)

// DerivFunc is a scalar right-hand side dy/dt = f(t, y).
type DerivFunc func(t, y float64) (float64, error)

// StepFunc advances a scalar state by one step of size h (which may be
// negative for backward integration) and returns the new (t, y).
type StepFunc func(f DerivFunc, t, y, h float64) (float64, float64, error)

// Method is one stateless integration formula.
type Method struct {
	Key         string
	Name        string
	Description string
	Order       int
	Step        StepFunc
}

func eulerStep(f DerivFunc, t, y, h float64) (float64, float64, error) {
	k, err := f(t, y)
	if err != nil {
		return 0, 0, err
	}
	return t + h, y + h*k, nil
}

func heunStep(f DerivFunc, t, y, h float64) (float64, float64, error) {
	k1, err := f(t, y)
	if err != nil {
		return 0, 0, err
	}
	k2, err := f(t+h, y+h*k1)
	if err != nil {
		return 0, 0, err
	}
	return t + h, y + h*0.5*(k1+k2), nil
}

func rk4Step(f DerivFunc, t, y, h float64) (float64, float64, error) {
	k1, err := f(t, y)
	if err != nil {
		return 0, 0, err
	}
	k2, err := f(t+h*0.5, y+h*0.5*k1)
	if err != nil {
		return 0, 0, err
	}
	k3, err := f(t+h*0.5, y+h*0.5*k2)
	if err != nil {
		return 0, 0, err
	}
	k4, err := f(t+h, y+h*k3)
	if err != nil {
		return 0, 0, err
	}
	return t + h, y + h/6.0*(k1+2*k2+2*k3+k4), nil
}

var catalog = map[string]Method{
	"euler": {
		Key:         "euler",
		Name:        "Euler",
		Description: "first-order forward Euler method",
		Order:       1,
		Step:        eulerStep,
	},
	"heun": {
		Key:         "heun",
		Name:        "Heun",
		Description: "second-order predictor-corrector (improved Euler)",
		Order:       2,
		Step:        heunStep,
	},
	"rk4": {
		Key:         "rk4",
		Name:        "Runge-Kutta 4",
		Description: "classical fourth-order Runge-Kutta method",
		Order:       4,
		Step:        rk4Step,
	},
}

var keys = []string{"euler", "heun", "rk4"}

// Get looks up a scalar method by its lowercase key.
func Get(key string) (Method, error) {
	m, ok := catalog[strings.ToLower(key)]
	if !ok {
		return Method{}, fmt.Errorf("unknown method: %s", key)
	}
	return m, nil
}

// List returns the scalar methods in a stable order.
func List() []Method {
	out := make([]Method, 0, len(keys))
	for _, k := range keys {
		out = append(out, catalog[k])
	}
	return out
}
