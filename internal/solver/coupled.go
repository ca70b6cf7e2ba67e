package solver

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/odelab/internal/methods"
	"github.com/san-kum/odelab/internal/parser"
)

// SolveSystem parses a set of expressions over t and y1..yN and integrates
// them as a coupled system. The state vector keeps the length of the
// initial condition for the whole solve.
func SolveSystem(ctx context.Context, expressions []string, opts SystemOptions) *SystemSolution {
	start := time.Now()
	sys := parser.ParseSystem(expressions)
	if !sys.Valid {
		return failedSystemSolution(opts.Method, fmt.Sprintf("parse error: %v", sys.Err), start)
	}
	return SolveSystemFunc(ctx, sys.Eval, opts)
}

// SolveSystemFunc integrates an arbitrary vector derivative function.
func SolveSystemFunc(ctx context.Context, f methods.CoupledDerivFunc, opts SystemOptions) *SystemSolution {
	start := time.Now()

	if err := validateSystemOptions(opts); err != nil {
		return failedSystemSolution(opts.Method, err.Error(), start)
	}

	key := opts.Method
	if key == "" {
		key = DefaultMethod
	}
	method, err := methods.GetCoupled(key)
	if err != nil {
		return failedSystemSolution(key, err.Error(), start)
	}

	// The wrapper clones each result: a callback may reuse its output
	// buffer across calls, and the slice it returns ends up held in
	// recorded points and in the method's intermediate stages.
	n := len(opts.Y0)
	checked := func(t float64, y []float64) ([]float64, error) {
		d, err := f(t, y)
		if err != nil {
			return nil, err
		}
		if len(d) != n {
			return nil, fmt.Errorf("derivative has %d components, state has %d", len(d), n)
		}
		return cloneVec(d), nil
	}

	points, err := integrateSystem(ctx, checked, method, opts)
	if err != nil {
		return failedSystemSolution(method.Name, fmt.Sprintf("integration error: %v", err), start)
	}

	ranges := make([][2]float64, n)
	for i := 0; i < n; i++ {
		ranges[i] = [2]float64{points[0].Y[i], points[0].Y[i]}
	}
	for _, p := range points {
		for i, v := range p.Y {
			ranges[i][0] = math.Min(ranges[i][0], v)
			ranges[i][1] = math.Max(ranges[i][1], v)
		}
	}

	return &SystemSolution{
		Points:      points,
		Method:      method.Name,
		ComputeTime: time.Since(start),
		Success:     true,
		Meta: SystemMetadata{
			PointCount: len(points),
			StepSize:   opts.StepSize,
			T0:         opts.T0,
			TEnd:       opts.TEnd,
			YRanges:    ranges,
		},
	}
}

func integrateSystem(ctx context.Context, f methods.CoupledDerivFunc, m methods.CoupledMethod, opts SystemOptions) ([]SystemPoint, error) {
	dir := 1.0
	if opts.TEnd < opts.T0 {
		dir = -1.0
	}

	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	t := opts.T0
	y := make([]float64, len(opts.Y0))
	copy(y, opts.Y0)

	d, err := f(t, y)
	if err != nil {
		return nil, &StepError{Step: 0, Time: t, Err: err}
	}
	if !allFinite(d) {
		return nil, &StepError{Step: 0, Time: t, Err: ErrNonFinite}
	}

	points := make([]SystemPoint, 0, int(math.Abs(opts.TEnd-opts.T0)/opts.StepSize)+2)
	points = append(points, SystemPoint{T: t, Y: cloneVec(y), Dydt: d})

	eps := 1e-9 * (1 + math.Abs(opts.T0) + math.Abs(opts.TEnd))

	for step := 1; (opts.TEnd-t)*dir > eps; step++ {
		if step > maxIter {
			return nil, ErrMaxIterations
		}
		if step%ctxCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrCanceled, ctx.Err())
			default:
			}
		}

		h := opts.StepSize
		if remaining := (opts.TEnd - t) * dir; h > remaining {
			h = remaining
		}

		tn, yn, err := m.Step(f, t, y, dir*h)
		if err != nil {
			return nil, &StepError{Step: step, Time: t, Err: err}
		}
		if !isFinite(tn) || !allFinite(yn) {
			return nil, &StepError{Step: step, Time: t, Err: ErrNonFinite}
		}
		for _, v := range yn {
			if math.Abs(v) > divergenceThreshold {
				return nil, &StepError{Step: step, Time: tn, Err: ErrUnstable}
			}
		}

		dn, err := f(tn, yn)
		if err != nil {
			return nil, &StepError{Step: step, Time: tn, Err: err}
		}
		if !allFinite(dn) {
			return nil, &StepError{Step: step, Time: tn, Err: ErrNonFinite}
		}

		t, y = tn, yn
		points = append(points, SystemPoint{T: t, Y: cloneVec(y), Dydt: dn})
	}

	return points, nil
}

func validateSystemOptions(opts SystemOptions) error {
	if len(opts.Y0) == 0 {
		return fmt.Errorf("initial condition vector must not be empty")
	}
	for i, v := range opts.Y0 {
		if !isFinite(v) {
			return fmt.Errorf("initial value y%d must be finite", i+1)
		}
		if math.Abs(v) > maxInitialValue {
			return fmt.Errorf("initial value y%d magnitude %g exceeds the maximum of %g", i+1, math.Abs(v), maxInitialValue)
		}
	}
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"initial time", opts.T0},
		{"end time", opts.TEnd},
		{"step size", opts.StepSize},
	} {
		if !isFinite(v.value) {
			return fmt.Errorf("%s must be finite", v.name)
		}
	}

	if opts.T0 == opts.TEnd {
		return fmt.Errorf("initial and end times must differ")
	}
	if opts.StepSize <= 0 {
		return fmt.Errorf("step size must be positive")
	}

	domain := math.Abs(opts.TEnd - opts.T0)
	if opts.StepSize > domain {
		return fmt.Errorf("step size %g exceeds the integration domain %g", opts.StepSize, domain)
	}
	if domain > maxDomain {
		return fmt.Errorf("integration domain %g exceeds the maximum of %g", domain, maxDomain)
	}

	if chk := methods.ValidateCoupledStepSize(opts.StepSize, opts.T0, opts.TEnd); !chk.Valid && domain/opts.StepSize > float64(maxStepsHard) {
		return fmt.Errorf("%s (suggested step: %g)", chk.Warning, chk.Suggested)
	}
	return nil
}

func failedSystemSolution(method, message string, start time.Time) *SystemSolution {
	return &SystemSolution{
		Points:      []SystemPoint{},
		Method:      method,
		ComputeTime: time.Since(start),
		Success:     false,
		Error:       message,
	}
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func cloneVec(v []float64) []float64 {
	c := make([]float64, len(v))
	copy(c, v)
	return c
}
