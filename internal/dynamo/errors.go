package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidConfiguration indicates a rejected body count or constant set.
	ErrInvalidConfiguration = errors.New("dynamo: invalid configuration")

	// ErrIndexOutOfRange indicates a body index outside [0, n).
	ErrIndexOutOfRange = errors.New("dynamo: body index out of range")

	// ErrDivisionByZero indicates a body with non-positive mass reached the integrator.
	ErrDivisionByZero = errors.New("dynamo: division by zero (body mass <= 0)")

	// ErrNotInitialized indicates a tick was requested before any body set existed.
	ErrNotInitialized = errors.New("dynamo: simulation not initialized")

	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// IndexError reports an out-of-range body access.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("dynamo: body index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// SimulationError wraps an error with tick context.
type SimulationError struct {
	Tick    uint64
	Body    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("tick %d (body %d): %v", e.Tick, e.Body, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
