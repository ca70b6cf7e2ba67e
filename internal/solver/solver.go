package solver

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/odelab/internal/methods"
	"github.com/san-kum/odelab/internal/parser"
)

// Solve parses a scalar expression over t and y and integrates it across
// the configured domain. Parse failures come back as a failed Solution
// before any stepping occurs.
func Solve(ctx context.Context, expression string, opts Options) *Solution {
	start := time.Now()
	eq := parser.Parse(expression)
	if !eq.Valid {
		return failedSolution(opts.Method, fmt.Sprintf("parse error: %v", eq.Err), start)
	}
	return SolveFunc(ctx, eq.Eval, opts)
}

// SolveFunc integrates an arbitrary scalar derivative function. Any failure
// is wrapped into a failed Solution; no error escapes the call.
func SolveFunc(ctx context.Context, f methods.DerivFunc, opts Options) *Solution {
	start := time.Now()

	if err := validateOptions(opts); err != nil {
		return failedSolution(opts.Method, err.Error(), start)
	}

	key := opts.Method
	if key == "" {
		key = DefaultMethod
	}
	method, err := methods.Get(key)
	if err != nil {
		return failedSolution(key, err.Error(), start)
	}

	points, err := integrate(ctx, f, method, opts)
	if err != nil {
		return failedSolution(method.Name, fmt.Sprintf("integration error: %v", err), start)
	}

	yMin, yMax := points[0].Y, points[0].Y
	for _, p := range points {
		yMin = math.Min(yMin, p.Y)
		yMax = math.Max(yMax, p.Y)
	}

	return &Solution{
		Points:      points,
		Method:      method.Name,
		ComputeTime: time.Since(start),
		Success:     true,
		Meta: Metadata{
			PointCount: len(points),
			StepSize:   opts.StepSize,
			T0:         opts.T0,
			TEnd:       opts.TEnd,
			YMin:       yMin,
			YMax:       yMax,
		},
	}
}

func integrate(ctx context.Context, f methods.DerivFunc, m methods.Method, opts Options) ([]Point, error) {
	dir := 1.0
	if opts.TEnd < opts.T0 {
		dir = -1.0
	}

	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	t, y := opts.T0, opts.Y0
	d, err := f(t, y)
	if err != nil {
		return nil, &StepError{Step: 0, Time: t, Err: err}
	}
	if !isFinite(d) {
		return nil, &StepError{Step: 0, Time: t, Err: ErrNonFinite}
	}

	points := make([]Point, 0, int(math.Abs(opts.TEnd-opts.T0)/opts.StepSize)+2)
	points = append(points, Point{T: t, Y: y, Dydt: d})

	// Absolute tolerance for "t reached tEnd": generous enough to absorb
	// accumulated rounding across up to 100k steps, far below the step size.
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
		if !isFinite(tn) || !isFinite(yn) {
			return nil, &StepError{Step: step, Time: t, Err: ErrNonFinite}
		}
		if math.Abs(yn) > divergenceThreshold {
			return nil, &StepError{Step: step, Time: tn, Err: ErrUnstable}
		}

		dn, err := f(tn, yn)
		if err != nil {
			return nil, &StepError{Step: step, Time: tn, Err: err}
		}
		if !isFinite(dn) {
			return nil, &StepError{Step: step, Time: tn, Err: ErrNonFinite}
		}

		t, y = tn, yn
		points = append(points, Point{T: t, Y: y, Dydt: dn})
	}

	return points, nil
}

func validateOptions(opts Options) error {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"initial time", opts.T0},
		{"initial value", opts.Y0},
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
	if math.Abs(opts.Y0) > maxInitialValue {
		return fmt.Errorf("initial value magnitude %g exceeds the maximum of %g", math.Abs(opts.Y0), maxInitialValue)
	}

	// The advisory's excessive-step-count rule is a hard failure here.
	// Its minimum-step-count rule is not: a step equal to the whole domain
	// is accepted by contract, and the CLI surfaces the advisory warning
	// instead.
	if chk := methods.ValidateStepSize(opts.StepSize, opts.T0, opts.TEnd); !chk.Valid && domain/opts.StepSize > float64(maxStepsHard) {
		return fmt.Errorf("%s (suggested step: %g)", chk.Warning, chk.Suggested)
	}
	return nil
}

const maxStepsHard = 100000

func failedSolution(method, message string, start time.Time) *Solution {
	return &Solution{
		Points:      []Point{},
		Method:      method,
		ComputeTime: time.Since(start),
		Success:     false,
		Error:       message,
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Methods lists the available scalar method metadata for display.
func Methods() []methods.Method {
	return methods.List()
}

// ValidateEquation dry-runs the parser without integrating.
func ValidateEquation(expression string) error {
	if eq := parser.Parse(expression); !eq.Valid {
		return eq.Err
	}
	return nil
}

// ValidateEquations dry-runs the coupled parser without integrating.
func ValidateEquations(expressions []string) error {
	if sys := parser.ParseSystem(expressions); !sys.Valid {
		return sys.Err
	}
	return nil
}

// SupportedMath exposes the parser's function and constant allow-lists.
func SupportedMath() (functions, constants []string) {
	return parser.Functions(), parser.Constants()
}
