package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidOrbit indicates an orbit was requested at zero radius.
	ErrInvalidOrbit = errors.New("dynamo: invalid orbit (zero radius)")

	// ErrDegenerateForce indicates a particle coincides with the central body.
	// Integrators skip gravity for that particle and never surface it.
	ErrDegenerateForce = errors.New("dynamo: degenerate force (zero separation)")

	// ErrConfiguration indicates parameters rejected at setup.
	ErrConfiguration = errors.New("dynamo: invalid configuration")

	// ErrCorrupted indicates a previous tick failed and the simulation must be reset.
	ErrCorrupted = errors.New("dynamo: simulation corrupted by failed tick")

	// ErrInvalidState indicates a particle reached a NaN or Inf position or velocity.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// ConfigurationError names the parameter that failed validation.
type ConfigurationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("dynamo: invalid configuration: %s=%g: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// TickError wraps an error with the tick it escaped from.
type TickError struct {
	Tick    int
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d: %v", e.Tick, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
