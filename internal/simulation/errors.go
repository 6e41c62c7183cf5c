package simulation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHistory marks a throughput history that is too short or has negative days.
	ErrInvalidHistory = errors.New("invalid throughput history")
	// ErrInvalidConfidence marks a confidence level outside [0, 99].
	ErrInvalidConfidence = errors.New("invalid confidence level")
	// ErrInvalidParameter marks a bad horizon, target or simulation count.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrNonTerminating is returned when a duration trial cannot reach its target
	// within the configured day bound.
	ErrNonTerminating = errors.New("non-terminating simulation")
)

// ValidationError describes which field failed which constraint.
type ValidationError struct {
	Kind       error
	Field      string
	Value      any
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s=%v (%s)", e.Kind, e.Field, e.Value, e.Constraint)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func invalid(kind error, field string, value any, constraint string) error {
	return &ValidationError{Kind: kind, Field: field, Value: value, Constraint: constraint}
}
