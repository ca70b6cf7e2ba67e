// Package config loads and saves solve configurations as YAML, with a set
// of named presets for common equations.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultT0       = 0.0
	DefaultTEnd     = 10.0
	DefaultStepSize = 0.01
	DefaultMethod   = "rk4"
)

// Config describes one solve: either a single scalar equation or a coupled
// system (Equations plus Y0Vec). Zero values fall back to the defaults.
type Config struct {
	Equation  string    `yaml:"equation,omitempty"`
	Equations []string  `yaml:"equations,omitempty"`
	Method    string    `yaml:"method"`
	T0        float64   `yaml:"t0"`
	Y0        float64   `yaml:"y0"`
	Y0Vec     []float64 `yaml:"y0_vec,omitempty"`
	TEnd      float64   `yaml:"tend"`
	StepSize  float64   `yaml:"step_size"`
	MaxIter   int       `yaml:"max_iterations,omitempty"`
}

func Default() *Config {
	return &Config{
		Method:   DefaultMethod,
		T0:       DefaultT0,
		TEnd:     DefaultTEnd,
		StepSize: DefaultStepSize,
	}
}

// IsSystem reports whether the config describes a coupled solve.
func (c *Config) IsSystem() bool {
	return len(c.Equations) > 0
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
