// Package solver orchestrates parsing, validation, and fixed-step
// integration of scalar and coupled ODEs, packaging trajectories into
// self-describing Solution records.
package solver

import "time"

const (
	// DefaultMaxIterations is the hard cap on integration steps.
	DefaultMaxIterations = 1000000

	// DefaultMethod is used when options leave the method empty.
	DefaultMethod = "rk4"

	// divergenceThreshold is the magnitude past which a solution is
	// considered unstable.
	divergenceThreshold = 1e10

	// maxDomain and maxInitialValue are sanity bounds on the options.
	maxDomain       = 1000.0
	maxInitialValue = 1e6

	// ctxCheckInterval bounds how many steps run between cancellation
	// checks, so a host scheduler is never starved indefinitely.
	ctxCheckInterval = 1000
)

// Point is one sample of a scalar trajectory.
type Point struct {
	T    float64 `json:"t"`
	Y    float64 `json:"y"`
	Dydt float64 `json:"dydt"`
}

// SystemPoint is one sample of a vector trajectory. Y and Dydt always have
// the same length as the initial condition vector.
type SystemPoint struct {
	T    float64   `json:"t"`
	Y    []float64 `json:"y"`
	Dydt []float64 `json:"dydt"`
}

// Options configures a scalar solve. Read-only to the solver.
type Options struct {
	T0            float64 `json:"t0"`
	Y0            float64 `json:"y0"`
	TEnd          float64 `json:"tEnd"`
	StepSize      float64 `json:"stepSize"`
	Method        string  `json:"method"`
	MaxIterations int     `json:"maxIterations,omitempty"`
}

// SystemOptions configures a coupled solve.
type SystemOptions struct {
	T0            float64   `json:"t0"`
	Y0            []float64 `json:"y0"`
	TEnd          float64   `json:"tEnd"`
	StepSize      float64   `json:"stepSize"`
	Method        string    `json:"method"`
	MaxIterations int       `json:"maxIterations,omitempty"`
}

// Metadata summarizes a completed scalar solve.
type Metadata struct {
	PointCount int     `json:"pointCount"`
	StepSize   float64 `json:"stepSize"`
	T0         float64 `json:"t0"`
	TEnd       float64 `json:"tEnd"`
	YMin       float64 `json:"yMin"`
	YMax       float64 `json:"yMax"`
}

// SystemMetadata carries one value range per state component.
type SystemMetadata struct {
	PointCount int          `json:"pointCount"`
	StepSize   float64      `json:"stepSize"`
	T0         float64      `json:"t0"`
	TEnd       float64      `json:"tEnd"`
	YRanges    [][2]float64 `json:"yRanges"`
}

// Solution is the sole artifact a scalar solve returns. On failure the
// point sequence is empty and Error is set; partial trajectories are
// discarded so a truncated run cannot be mistaken for a complete one.
type Solution struct {
	Points      []Point       `json:"points"`
	Method      string        `json:"method"`
	ComputeTime time.Duration `json:"computeTime"`
	Success     bool          `json:"success"`
	Error       string        `json:"error,omitempty"`
	Meta        Metadata      `json:"meta"`
}

// SystemSolution is the coupled counterpart of Solution.
type SystemSolution struct {
	Points      []SystemPoint  `json:"points"`
	Method      string         `json:"method"`
	ComputeTime time.Duration  `json:"computeTime"`
	Success     bool           `json:"success"`
	Error       string         `json:"error,omitempty"`
	Meta        SystemMetadata `json:"meta"`
}
