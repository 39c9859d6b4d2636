package pricing

import (
	"fmt"
	"math"
)

// LinearDecay models the prediction accuracy as a linear function of the
// distance between the prediction year and BaseYear.
type LinearDecay struct {
	BaseYear    int     `json:"base_year" yaml:"base_year"`
	Start       float64 `json:"start" yaml:"start"`
	RatePerYear float64 `json:"rate_per_year" yaml:"rate_per_year"`
	// Floor is the lowest accuracy returned. Nil disables the floor.
	Floor *float64 `json:"floor,omitempty" yaml:"floor,omitempty"`
}

// At returns the accuracy percentage for the given year.
func (d LinearDecay) At(year int) float64 {
	acc := d.Start - float64(year-d.BaseYear)*d.RatePerYear
	if d.Floor != nil {
		acc = math.Max(*d.Floor, acc)
	}
	return acc
}

// Validate checks that the decay parameters are usable.
func (d LinearDecay) Validate() error {
	if !finite(d.Start) || !finite(d.RatePerYear) {
		return fmt.Errorf("accuracy decay: start and rate must be finite")
	}
	if d.RatePerYear < 0 {
		return fmt.Errorf("accuracy decay: rate_per_year must not be negative")
	}
	if d.Floor != nil && !finite(*d.Floor) {
		return fmt.Errorf("accuracy decay: floor must be finite")
	}
	return nil
}

// HalfPointDecay loses 0.5 points per year from 90% and never drops below 50%.
func HalfPointDecay() LinearDecay {
	floor := 50.0
	return LinearDecay{BaseYear: 2026, Start: 90, RatePerYear: 0.5, Floor: &floor}
}

// TenthPointDecay loses 0.1 points per year from 90% without a floor.
func TenthPointDecay() LinearDecay {
	return LinearDecay{BaseYear: 2026, Start: 90, RatePerYear: 0.1}
}
