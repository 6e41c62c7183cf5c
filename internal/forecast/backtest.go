package forecast

import (
	"fmt"
	"time"

	"mc-forecast/internal/input"
	"mc-forecast/internal/metrics"
	"mc-forecast/internal/simulation"

	"github.com/rs/zerolog/log"
)

// BacktestRequest asks how well past forecasts would have matched reality.
type BacktestRequest struct {
	Throughput  []int
	Mode        string // "how-many" or "when"
	HorizonDays int    // how-many only
	Items       int    // when only
	Step        int
	Lookback    int
	Simulations *int
	Seed        *int64
}

// Backtest runs a walk-forward validation over the request's history.
func (s *Service) Backtest(req BacktestRequest) (simulation.WalkForwardResult, error) {
	var mode simulation.Mode
	switch req.Mode {
	case input.ModeHowMany, "":
		mode = simulation.ModeScope
	case input.ModeWhen:
		mode = simulation.ModeDuration
	default:
		return simulation.WalkForwardResult{}, s.reject(simulation.Mode(req.Mode), &simulation.ValidationError{
			Kind:       simulation.ErrInvalidParameter,
			Field:      "mode",
			Value:      req.Mode,
			Constraint: fmt.Sprintf("must be %q or %q", input.ModeHowMany, input.ModeWhen),
		})
	}

	cfg := simulation.WalkForwardConfig{
		Mode:        mode,
		StepSize:    req.Step,
		Lookback:    req.Lookback,
		HorizonDays: req.HorizonDays,
		TargetItems: req.Items,
		Trials:      simulation.DefaultBacktestTrials,
	}
	if req.Simulations != nil {
		cfg.Trials = *req.Simulations
	}
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	} else {
		cfg.Seed = time.Now().UnixNano()
	}

	started := time.Now()
	res, err := s.engine.WalkForward(req.Throughput, cfg)
	if err != nil {
		return simulation.WalkForwardResult{}, s.reject(mode, err)
	}

	s.metrics.ObserveForecast(string(mode), metrics.OutcomeOK, 0, time.Since(started))
	log.Info().
		Str("mode", string(mode)).
		Int("checkpoints", len(res.Checkpoints)).
		Float64("accuracy", res.AccuracyScore).
		Msg("Backtest complete")
	return res, nil
}
