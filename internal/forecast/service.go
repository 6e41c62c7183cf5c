// Package forecast is the application layer shared by the CLI, MCP and
// HTTP surfaces: it resolves request defaults and dates, runs the engine,
// and records logs and metrics.
package forecast

import (
	"errors"
	"fmt"
	"time"

	"mc-forecast/internal/config"
	"mc-forecast/internal/input"
	"mc-forecast/internal/metrics"
	"mc-forecast/internal/simulation"

	"github.com/rs/zerolog/log"
)

// HowManyRequest asks how many items will be done by TargetDate.
type HowManyRequest struct {
	Throughput  []int
	TargetDate  string
	StartDate   string // optional, defaults to today
	Confidence  *float64
	Simulations *int
	Seed        *int64
}

// WhenRequest asks when Items more items will be done.
type WhenRequest struct {
	Throughput  []int
	Items       int
	StartDate   string // optional, defaults to today
	Confidence  *float64
	Simulations *int
	Seed        *int64
}

// Service runs forecasts with configured defaults.
type Service struct {
	engine   *simulation.Engine
	defaults config.SimulationConfig
	metrics  *metrics.Recorder
	now      func() time.Time
}

// NewService wires the engine; rec may be nil when metrics are not exported.
func NewService(engine *simulation.Engine, defaults config.SimulationConfig, rec *metrics.Recorder) *Service {
	return &Service{
		engine:   engine,
		defaults: defaults,
		metrics:  rec,
		now:      time.Now,
	}
}

// WithClock overrides "today"; used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// HowMany runs a scope forecast.
func (s *Service) HowMany(req HowManyRequest) (*simulation.Report, error) {
	start, err := s.startDate(req.StartDate)
	if err != nil {
		return nil, s.reject(simulation.ModeScope, err)
	}
	target, err := input.ParseDate(req.TargetDate)
	if err != nil {
		return nil, s.reject(simulation.ModeScope, dateError("target_date", req.TargetDate, err))
	}
	horizon, err := input.HorizonDays(start, target)
	if err != nil {
		return nil, s.reject(simulation.ModeScope, &simulation.ValidationError{
			Kind:       simulation.ErrInvalidParameter,
			Field:      "target_date",
			Value:      req.TargetDate,
			Constraint: err.Error(),
		})
	}

	return s.execute(simulation.Run{
		Mode:        simulation.ModeScope,
		History:     req.Throughput,
		Params:      s.params(req.Confidence, req.Simulations, req.Seed),
		HorizonDays: horizon,
		StartDate:   start,
	})
}

// When runs a duration forecast.
func (s *Service) When(req WhenRequest) (*simulation.Report, error) {
	start, err := s.startDate(req.StartDate)
	if err != nil {
		return nil, s.reject(simulation.ModeDuration, err)
	}

	return s.execute(simulation.Run{
		Mode:        simulation.ModeDuration,
		History:     req.Throughput,
		Params:      s.params(req.Confidence, req.Simulations, req.Seed),
		TargetItems: req.Items,
		StartDate:   start,
	})
}

// RunScenario dispatches a scenario file; the mode defaults to "when" when
// items are set and "how-many" otherwise.
func (s *Service) RunScenario(sc *input.Scenario) (*simulation.Report, error) {
	mode := sc.Mode
	if mode == "" {
		mode = input.ModeHowMany
		if sc.Items > 0 {
			mode = input.ModeWhen
		}
	}

	if mode == input.ModeWhen {
		return s.When(WhenRequest{
			Throughput:  sc.Throughput,
			Items:       sc.Items,
			StartDate:   sc.StartDate,
			Confidence:  sc.Confidence,
			Simulations: sc.Simulations,
			Seed:        sc.Seed,
		})
	}
	return s.HowMany(HowManyRequest{
		Throughput:  sc.Throughput,
		TargetDate:  sc.TargetDate,
		StartDate:   sc.StartDate,
		Confidence:  sc.Confidence,
		Simulations: sc.Simulations,
		Seed:        sc.Seed,
	})
}

func (s *Service) execute(run simulation.Run) (*simulation.Report, error) {
	started := time.Now()
	report, err := s.engine.Execute(run)
	elapsed := time.Since(started)

	if err != nil {
		if errors.Is(err, simulation.ErrNonTerminating) {
			log.Error().Err(err).Str("mode", string(run.Mode)).Int("target_items", run.TargetItems).Msg("Forecast aborted")
			s.metrics.ObserveForecast(string(run.Mode), metrics.OutcomeFailed, 0, elapsed)
			return nil, err
		}
		return nil, s.reject(run.Mode, err)
	}

	s.metrics.ObserveForecast(string(run.Mode), metrics.OutcomeOK, run.NumSimulations, elapsed)
	log.Info().
		Str("mode", string(run.Mode)).
		Int("simulations", run.NumSimulations).
		Int64("seed", report.Seed).
		Float64("confidence", run.Confidence).
		Int("answer", report.Answer).
		Dur("elapsed", elapsed).
		Msg("Forecast complete")
	return report, nil
}

func (s *Service) reject(mode simulation.Mode, err error) error {
	log.Warn().Err(err).Str("mode", string(mode)).Msg("Forecast request rejected")
	s.metrics.ObserveForecast(string(mode), metrics.OutcomeRejected, 0, 0)
	return err
}

func (s *Service) params(confidence *float64, simulations *int, seed *int64) simulation.Params {
	p := simulation.Params{
		Confidence:     s.defaults.Confidence,
		NumSimulations: s.defaults.Simulations,
		Seed:           seed,
	}
	if confidence != nil {
		p.Confidence = *confidence
	}
	if simulations != nil {
		p.NumSimulations = *simulations
	}
	return p
}

func (s *Service) startDate(raw string) (time.Time, error) {
	if raw == "" {
		return input.Today(s.now()), nil
	}
	t, err := input.ParseDate(raw)
	if err != nil {
		return time.Time{}, dateError("start_date", raw, err)
	}
	return t, nil
}

func dateError(field, raw string, err error) error {
	return &simulation.ValidationError{
		Kind:       simulation.ErrInvalidParameter,
		Field:      field,
		Value:      raw,
		Constraint: fmt.Sprintf("%v; use YYYY-MM-DD", err),
	}
}
