package simulation

import (
	"fmt"
	"math"
	"time"
)

// Mode selects which axis a run forecasts.
type Mode string

const (
	// ModeScope answers "how many items by a date" (fixed horizon).
	ModeScope Mode = "scope"
	// ModeDuration answers "when will N items be done" (fixed target).
	ModeDuration Mode = "duration"
)

const (
	DefaultSimulations = 10000
	DefaultConfidence  = 85.0
	MaxConfidence      = 99.0
)

// Params are the knobs shared by both forecast modes.
type Params struct {
	Confidence     float64
	NumSimulations int
	Seed           *int64 // nil draws a seed from the clock
}

// DefaultParams returns 85% confidence over 10 000 simulations, unseeded.
func DefaultParams() Params {
	return Params{Confidence: DefaultConfidence, NumSimulations: DefaultSimulations}
}

// Run is the complete, immutable configuration of one forecast.
type Run struct {
	Mode    Mode
	History History
	Params

	HorizonDays int       // scope only
	TargetItems int       // duration only
	StartDate   time.Time // day zero for calendar conversion
}

// Validate rejects a run before any simulation work starts.
func (r Run) Validate() error {
	if err := r.History.Validate(); err != nil {
		return err
	}
	if err := ValidateConfidence(r.Confidence); err != nil {
		return err
	}
	if r.NumSimulations < 1 {
		return invalid(ErrInvalidParameter, "num_simulations", r.NumSimulations, "must be at least 1")
	}

	switch r.Mode {
	case ModeScope:
		if r.HorizonDays < 0 {
			return invalid(ErrInvalidParameter, "horizon_days", r.HorizonDays, "must not be negative")
		}
	case ModeDuration:
		if r.TargetItems <= 0 {
			return invalid(ErrInvalidParameter, "target_items", r.TargetItems, "must be greater than 0")
		}
	default:
		return invalid(ErrInvalidParameter, "mode", r.Mode, fmt.Sprintf("must be %q or %q", ModeScope, ModeDuration))
	}
	return nil
}

// ValidateConfidence accepts [0, 99]. 100% cannot be represented by any
// percentile of a finite sample.
func ValidateConfidence(c float64) error {
	if math.IsNaN(c) || c < 0 || c > MaxConfidence {
		constraint := "must be between 0 and 99"
		if c >= 100 {
			constraint = "must be between 0 and 99 (100% confidence is not possible in probabilistic forecasting)"
		}
		return invalid(ErrInvalidConfidence, "confidence", c, constraint)
	}
	return nil
}
