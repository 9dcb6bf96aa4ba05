package ode

import (
	"errors"
	"fmt"
)

// Domain errors for solver operations.
var (
	// ErrInvalidConfig indicates a configuration invariant was violated
	// before integration started.
	ErrInvalidConfig = errors.New("ode: invalid configuration")

	// ErrInvalidState indicates a state vector with NaN or Inf entries.
	ErrInvalidState = errors.New("ode: invalid state (NaN or Inf detected)")

	// ErrStepTooSmall indicates the adaptive timestep underflowed the
	// minimum allowed step without meeting the error tolerance.
	ErrStepTooSmall = errors.New("ode: adaptive timestep below minimum")
)

// SolveError wraps an integration failure with the step and time at which
// it occurred.
type SolveError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("solve failed at step %d (t=%.6e): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SolveError) Unwrap() error {
	return e.Wrapped
}
