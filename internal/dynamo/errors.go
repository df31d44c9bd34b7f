package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for engine operations.
var (
	// ErrInvalidConfiguration indicates a run that cannot start: bad dt or
	// tmax, non-finite parameters, or parameters with undefined algebra.
	ErrInvalidConfiguration = errors.New("dynamo: invalid configuration")

	// ErrNumericalInstability indicates a NaN or infinite value mid-run.
	ErrNumericalInstability = errors.New("dynamo: numerical instability (NaN or Inf detected)")

	// ErrDivergence indicates the state magnitude exceeded DivergenceBound.
	ErrDivergence = errors.New("dynamo: state diverged")

	// ErrNoRootFound indicates a bracketed root search failed to converge.
	ErrNoRootFound = errors.New("dynamo: no root found")
)

// SimulationError wraps a mid-run failure with the step that produced it.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// Partial reports whether err leaves a usable partial trajectory behind.
func Partial(err error) bool {
	return errors.Is(err, ErrDivergence) || errors.Is(err, ErrNumericalInstability)
}
