package methods

import (
	"fmt"
	"math"
)

const (
	minStepsPerDomain  = 10
	maxStepsPerDomain  = 100000
	slowStepsThreshold = 50000

	scalarTolerance  = 0.001
	coupledTolerance = 0.0001
)

// StepSizeCheck is the advisory result for a proposed step size. A step can
// be valid yet carry a warning (the slow band); an invalid step always comes
// with a suggested replacement.
type StepSizeCheck struct {
	Valid     bool
	Suggested float64
	Warning   string
}

// ValidateStepSize checks a scalar step size against the integration domain.
// Steps implying fewer than 10 or more than 100,000 iterations are invalid;
// the 50,000 to 100,000 band is valid but flagged as slow.
func ValidateStepSize(h, t0, tEnd float64) StepSizeCheck {
	domain := math.Abs(tEnd - t0)
	if domain == 0 || h <= 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return StepSizeCheck{Valid: false, Suggested: 0.01,
			Warning: "step size must be a positive finite number over a non-degenerate domain"}
	}

	steps := domain / h
	switch {
	case steps < minStepsPerDomain:
		return StepSizeCheck{
			Valid:     false,
			Suggested: domain / 20,
			Warning:   fmt.Sprintf("step size %g gives only %.0f steps; at least %d are needed for a usable trajectory", h, math.Floor(steps), minStepsPerDomain),
		}
	case steps > maxStepsPerDomain:
		return StepSizeCheck{
			Valid:     false,
			Suggested: domain / slowStepsThreshold,
			Warning:   fmt.Sprintf("step size %g gives %.0f steps; more than %d is rejected", h, math.Floor(steps), maxStepsPerDomain),
		}
	case steps > slowStepsThreshold:
		return StepSizeCheck{
			Valid:   true,
			Warning: fmt.Sprintf("step size %g gives %.0f steps; the solve may be slow", h, math.Floor(steps)),
		}
	}
	return StepSizeCheck{Valid: true}
}

// ValidateCoupledStepSize is the stricter advisory for systems: any
// non-positive step or a step exceeding the whole domain is invalid, and the
// recommended step leaves a tenfold stability margin.
func ValidateCoupledStepSize(h, t0, tEnd float64) StepSizeCheck {
	domain := math.Abs(tEnd - t0)
	if h <= 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return StepSizeCheck{Valid: false, Suggested: domain / 100,
			Warning: "step size must be positive"}
	}
	if h > domain {
		return StepSizeCheck{Valid: false, Suggested: domain / 10,
			Warning: fmt.Sprintf("step size %g exceeds the integration domain %g", h, domain)}
	}
	chk := ValidateStepSize(h, t0, tEnd)
	if chk.Valid && h > domain/10 {
		chk.Warning = fmt.Sprintf("step size %g is large for a coupled system; at most %g is recommended", h, domain/10)
	}
	return chk
}

// EstimateStepSize proposes a step size for a scalar equation by sampling
// the derivative magnitude at 5 evenly spaced points across the domain,
// holding y at its initial value as an approximation.
func EstimateStepSize(f DerivFunc, t0, y0, tEnd float64) float64 {
	return estimate(t0, tEnd, scalarTolerance, math.Min(0.1, math.Abs(tEnd-t0)/100),
		func(t float64) (float64, error) {
			return f(t, y0)
		})
}

// EstimateCoupledStepSize is the system variant; the magnitude sampled is
// the largest component of the derivative vector. Coupled systems get a
// tighter tolerance and a smaller fallback.
func EstimateCoupledStepSize(f CoupledDerivFunc, t0 float64, y0 []float64, tEnd float64) float64 {
	return estimate(t0, tEnd, coupledTolerance, math.Min(0.01, math.Abs(tEnd-t0)/1000),
		func(t float64) (float64, error) {
			d, err := f(t, y0)
			if err != nil {
				return 0, err
			}
			maxMag := 0.0
			for _, v := range d {
				if m := math.Abs(v); m > maxMag {
					maxMag = m
				}
			}
			return maxMag, nil
		})
}

func estimate(t0, tEnd, tolerance, fallback float64, sample func(t float64) (float64, error)) float64 {
	domain := math.Abs(tEnd - t0)
	if domain == 0 || math.IsNaN(domain) || math.IsInf(domain, 0) {
		return fallback
	}

	maxDeriv := 0.0
	for i := 0; i < 5; i++ {
		t := t0 + (tEnd-t0)*float64(i)/4
		v, err := sample(t)
		if err != nil {
			continue
		}
		if m := math.Abs(v); !math.IsNaN(m) && !math.IsInf(m, 0) && m > maxDeriv {
			maxDeriv = m
		}
	}
	if maxDeriv < 1e-12 {
		return fallback
	}

	h := math.Sqrt(2 * tolerance / maxDeriv)
	lower := domain / maxStepsPerDomain
	upper := domain / minStepsPerDomain
	return math.Min(math.Max(h, lower), upper)
}
