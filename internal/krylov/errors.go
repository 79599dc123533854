package krylov

import (
	"errors"
	"fmt"
)

// Domain errors for Krylov propagation.
var (
	// ErrDimensionMismatch indicates v or w does not match the operator size.
	ErrDimensionMismatch = errors.New("krylov: dimension mismatch between operator and vector")

	// ErrNotSquare indicates a non-square operator.
	ErrNotSquare = errors.New("krylov: operator is not square")

	// ErrNonPositiveTol indicates a tolerance that is not a positive number.
	ErrNonPositiveTol = errors.New("krylov: tolerance must be positive")

	// ErrInvalidKrylovDim indicates a subspace dimension outside [1, dim(A)].
	ErrInvalidKrylovDim = errors.New("krylov: subspace dimension out of range")

	// ErrNoConvergence indicates the step-size retry budget was exhausted;
	// the requested tolerance is likely unattainable with the configured
	// subspace dimension.
	ErrNoConvergence = errors.New("krylov: step size did not converge within the retry budget")
)

// StepError wraps an error with the position of the failing step.
type StepError struct {
	Step    int
	Time    float64
	Tau     float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g, tau=%.6g): %v", e.Step, e.Time, e.Tau, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
