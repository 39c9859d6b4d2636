package pricing

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInput is returned when a scenario field is outside its range or not finite.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDegenerateDistribution is returned when the computed standard deviation is not strictly positive.
	ErrDegenerateDistribution = errors.New("degenerate distribution")
	// ErrUnknownPreset is returned when no preset matches the requested name.
	ErrUnknownPreset = errors.New("unknown preset")
)

// InputError describes the offending field of a rejected input.
type InputError struct {
	Field string
	Value float64
	Range Range
}

func (e *InputError) Error() string {
	if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
		return fmt.Sprintf("%s: %s is not finite", ErrInvalidInput, e.Field)
	}
	return fmt.Sprintf("%s: %s=%g outside [%g, %g]", ErrInvalidInput, e.Field, e.Value, e.Range.Min, e.Range.Max)
}

// Unwrap allows errors.Is(err, ErrInvalidInput).
func (e *InputError) Unwrap() error { return ErrInvalidInput }

func degenerate(p float64, what string) error {
	return fmt.Errorf("%w: %s=%g", ErrDegenerateDistribution, what, p)
}
