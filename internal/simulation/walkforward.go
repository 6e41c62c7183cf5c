package simulation

import (
	"errors"
	"fmt"
	"slices"

	"mc-forecast/internal/stats"
)

// Walk-forward defaults.
const (
	DefaultBacktestStep   = 7
	DefaultBacktestTrials = 5000
)

// Raw distribution percentiles bounding the forecast cone.
const (
	coneLow  = 5.0
	coneHigh = 95.0
)

// WalkForwardConfig defines the parameters for the backtesting analysis.
type WalkForwardConfig struct {
	Mode        Mode
	StepSize    int // Days between checkpoints
	Lookback    int // Days of history before each checkpoint fed to the sampler; 0 uses all of it
	HorizonDays int // Scope mode only
	TargetItems int // Duration mode only
	Trials      int
	Seed        int64
}

// ValidationCheckpoint represents a single point in the past where we ran a simulation.
type ValidationCheckpoint struct {
	Day          int  `json:"day"`    // Index into the history where the forecast was made
	Actual       int  `json:"actual"` // The real result (days or item count)
	PredictedP50 int  `json:"predicted_p50"`
	PredictedP85 int  `json:"predicted_p85"`
	PredictedP95 int  `json:"predicted_p95"`
	IsWithinCone bool `json:"is_within_cone"` // Is actual between P5 and P95?
}

// WalkForwardResult holds the aggregate results of the analysis.
type WalkForwardResult struct {
	Mode              Mode                   `json:"mode"`
	AccuracyScore     float64                `json:"accuracy_score"` // Fraction of checkpoints within the cone
	Checkpoints       []ValidationCheckpoint `json:"checkpoints"`
	ValidationMessage string                 `json:"validation_message"`
	Seed              int64                  `json:"seed"` // Base seed; checkpoint d uses Seed+d
}

// WalkForward replays the history: at every checkpoint it forecasts from the
// days before it and compares the forecast with what the following days
// actually delivered. Checkpoints are visited newest first.
func (e *Engine) WalkForward(h History, cfg WalkForwardConfig) (WalkForwardResult, error) {
	if err := h.Validate(); err != nil {
		return WalkForwardResult{}, err
	}
	if cfg.StepSize == 0 {
		cfg.StepSize = DefaultBacktestStep
	}
	if err := cfg.validate(); err != nil {
		return WalkForwardResult{}, err
	}

	result := WalkForwardResult{
		Mode:        cfg.Mode,
		Seed:        cfg.Seed,
		Checkpoints: make([]ValidationCheckpoint, 0),
	}
	hits := 0

	// 1. Iterate backwards from the newest checkpoint
	for d := len(h) - cfg.StepSize; d >= MinHistoryLength; d -= cfg.StepSize {
		// 2. Time travel: only the days before d are known
		sample := h[:d]
		if cfg.Lookback > 0 && len(sample) > cfg.Lookback {
			sample = sample[len(sample)-cfg.Lookback:]
		}
		if len(sample) < MinHistoryLength {
			break
		}
		future := h[d:]

		// 3. Run Simulation & Verify
		var (
			actual int
			dist   Distribution
			err    error
		)
		switch cfg.Mode {
		case ModeScope:
			if len(future) < cfg.HorizonDays {
				continue // The real outcome is not known yet
			}
			for _, v := range future[:cfg.HorizonDays] {
				actual += v
			}
			dist, err = e.SimulateCount(sample, cfg.HorizonDays, cfg.Trials, cfg.Seed+int64(d))
		case ModeDuration:
			var ok bool
			if actual, ok = daysToDeliver(future, cfg.TargetItems); !ok {
				continue // Not enough items finished in real history to verify this batch
			}
			dist, err = e.SimulateDays(sample, cfg.TargetItems, cfg.Trials, cfg.Seed+int64(d))
		}
		if errors.Is(err, ErrNonTerminating) {
			continue
		}
		if err != nil {
			return WalkForwardResult{}, err
		}

		sorted := slices.Clone(dist)
		slices.Sort(sorted)
		cp := ValidationCheckpoint{
			Day:          d,
			Actual:       actual,
			PredictedP50: stats.PercentileDiscrete(sorted, PercentileFor(cfg.Mode, 50)),
			PredictedP85: stats.PercentileDiscrete(sorted, PercentileFor(cfg.Mode, 85)),
			PredictedP95: stats.PercentileDiscrete(sorted, PercentileFor(cfg.Mode, 95)),
		}
		if actual >= stats.PercentileDiscrete(sorted, coneLow) && actual <= stats.PercentileDiscrete(sorted, coneHigh) {
			cp.IsWithinCone = true
			hits++
		}
		result.Checkpoints = append(result.Checkpoints, cp)
	}

	total := len(result.Checkpoints)
	if total > 0 {
		result.AccuracyScore = float64(hits) / float64(total)
		result.ValidationMessage = fmt.Sprintf("Walk-Forward Analysis: %d/%d (%.0f%%) of actual outcomes fell within the predicted forecast cone (P5-P95).", hits, total, result.AccuracyScore*100)
	} else {
		result.ValidationMessage = "Insufficient historical data prevented meaningful backtesting."
	}

	if result.AccuracyScore < 0.7 && total > 3 {
		result.ValidationMessage += " Warning: Low forecast reliability detected."
	}

	return result, nil
}

func (cfg WalkForwardConfig) validate() error {
	if cfg.StepSize < 1 {
		return invalid(ErrInvalidParameter, "step", cfg.StepSize, "must be at least 1")
	}
	if cfg.Lookback < 0 {
		return invalid(ErrInvalidParameter, "lookback", cfg.Lookback, "must not be negative")
	}
	if cfg.Trials < 1 {
		return invalid(ErrInvalidParameter, "num_simulations", cfg.Trials, "must be at least 1")
	}
	switch cfg.Mode {
	case ModeScope:
		if cfg.HorizonDays < 1 {
			return invalid(ErrInvalidParameter, "horizon_days", cfg.HorizonDays, "must be at least 1")
		}
	case ModeDuration:
		if cfg.TargetItems < 1 {
			return invalid(ErrInvalidParameter, "target_items", cfg.TargetItems, "must be greater than 0")
		}
	default:
		return invalid(ErrInvalidParameter, "mode", cfg.Mode, fmt.Sprintf("must be %q or %q", ModeScope, ModeDuration))
	}
	return nil
}

// daysToDeliver counts the days of future until n items are done.
func daysToDeliver(future []int, n int) (int, bool) {
	done := 0
	for i, v := range future {
		done += v
		if done >= n {
			return i + 1, true
		}
	}
	return 0, false
}
