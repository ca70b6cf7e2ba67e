package config

import "sort"

// presets are ready-made configurations for well-known equations.
var presets = map[string]*Config{
	"decay": {
		Equation: "-y",
		Method:   "rk4",
		T0:       0, Y0: 1, TEnd: 5, StepSize: 0.01,
	},
	"logistic": {
		Equation: "y*(1 - y)",
		Method:   "rk4",
		T0:       0, Y0: 0.1, TEnd: 10, StepSize: 0.01,
	},
	"forced": {
		Equation: "sin(t) - 0.5*y",
		Method:   "heun",
		T0:       0, Y0: 0, TEnd: 20, StepSize: 0.01,
	},
	"oscillator": {
		Equations: []string{"y2", "-y1"},
		Method:    "rk4",
		T0:        0, Y0Vec: []float64{1, 0}, TEnd: 6.283185307179586, StepSize: 0.001,
	},
	"pendulum": {
		Equations: []string{"y2", "-9.81*sin(y1)"},
		Method:    "rk4",
		T0:        0, Y0Vec: []float64{0.5, 0}, TEnd: 10, StepSize: 0.001,
	},
	"lotka_volterra": {
		Equations: []string{"y1*(1 - y2)", "y2*(y1 - 1)"},
		Method:    "rk4",
		T0:        0, Y0Vec: []float64{2, 1}, TEnd: 20, StepSize: 0.001,
	},
}

// GetPreset returns a copy of the named preset, or nil if it does not exist.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	cp := *p
	cp.Equations = append([]string(nil), p.Equations...)
	cp.Y0Vec = append([]float64(nil), p.Y0Vec...)
	return &cp
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
