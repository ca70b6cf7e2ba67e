package solver

import (
	"errors"
	"fmt"
)

// Failure classes for a solve. These never escape the package as returned
// errors; they end up as the Error text of a failed Solution.
var (
	// ErrNonFinite indicates a NaN or Inf appeared during stepping.
	ErrNonFinite = errors.New("solver: non-finite value encountered")

	// ErrUnstable indicates the solution magnitude exceeded the divergence threshold.
	ErrUnstable = errors.New("solver: solution appears unstable (divergence)")

	// ErrMaxIterations indicates the iteration cap was reached before tEnd.
	ErrMaxIterations = errors.New("solver: maximum iterations reached without convergence")

	// ErrCanceled indicates the context was canceled mid-integration.
	ErrCanceled = errors.New("solver: integration canceled")
)

// StepError wraps a failure with the step index and time where it occurred.
type StepError struct {
	Step int
	Time float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g): %s", e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
