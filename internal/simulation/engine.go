package simulation

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxDays bounds a duration trial when the history cannot reach the target.
const DefaultMaxDays = 10000

// Distribution holds one outcome per trial, in simulation order.
type Distribution []int

// Config tunes the engine. Zero values fall back to the defaults.
type Config struct {
	MaxDays int // safety brake for duration trials
	Workers int // >1 splits trials across independently seeded generators

	NewRand func(seed int64) Rand
	Seeder  func() int64
}

// Engine performs the Monte-Carlo simulation.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.MaxDays <= 0 {
		cfg.MaxDays = DefaultMaxDays
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.NewRand == nil {
		cfg.NewRand = NewRand
	}
	if cfg.Seeder == nil {
		cfg.Seeder = func() int64 { return time.Now().UnixNano() }
	}
	return &Engine{cfg: cfg}
}

// SimulateCount sums horizonDays sampled days per trial.
func (e *Engine) SimulateCount(h History, horizonDays, trials int, seed int64) (Distribution, error) {
	if err := checkSimulationInput(h, trials); err != nil {
		return nil, err
	}
	if horizonDays < 0 {
		return nil, invalid(ErrInvalidParameter, "horizon_days", horizonDays, "must not be negative")
	}
	if horizonDays > e.cfg.MaxDays {
		return nil, invalid(ErrInvalidParameter, "horizon_days", horizonDays,
			fmt.Sprintf("must not exceed %d days", e.cfg.MaxDays))
	}
	return e.simulate(h, fixedHorizon{days: horizonDays}, trials, seed)
}

// SimulateDays counts sampled days per trial until targetItems are done.
func (e *Engine) SimulateDays(h History, targetItems, trials int, seed int64) (Distribution, error) {
	if err := checkSimulationInput(h, trials); err != nil {
		return nil, err
	}
	if targetItems <= 0 {
		return nil, invalid(ErrInvalidParameter, "target_items", targetItems, "must be greater than 0")
	}
	dist, err := e.simulate(h, fixedTarget{items: targetItems, maxDays: e.cfg.MaxDays}, trials, seed)
	if errors.Is(err, ErrNonTerminating) {
		return nil, fmt.Errorf("%w: %d items not reached within %d simulated days", err, targetItems, e.cfg.MaxDays)
	}
	if err != nil {
		return nil, err
	}
	return dist, nil
}

func checkSimulationInput(h History, trials int) error {
	if len(h) == 0 {
		return invalid(ErrInvalidHistory, "throughput", 0, "must not be empty")
	}
	if trials < 1 {
		return invalid(ErrInvalidParameter, "num_simulations", trials, "must be at least 1")
	}
	return nil
}

func (e *Engine) simulate(h History, t trial, trials int, seed int64) (Distribution, error) {
	out := make(Distribution, trials)

	workers := min(e.cfg.Workers, trials)
	if workers == 1 {
		if err := fill(out, NewSampler(h, e.cfg.NewRand(seed)), t); err != nil {
			return nil, err
		}
		return out, nil
	}

	// Each worker owns a contiguous chunk and a generator seeded seed+w.
	chunk := (trials + workers - 1) / workers
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, trials)
		if lo >= hi {
			break
		}
		sampler := NewSampler(h, e.cfg.NewRand(seed+int64(w)))
		g.Go(func() error {
			return fill(out[lo:hi], sampler, t)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func fill(out Distribution, s Sampler, t trial) error {
	for i := range out {
		v, err := runTrial(s, t)
		if err != nil {
			return err
		}
		out[i] = v
	}
	return nil
}

// ForecastCount answers "how many items within horizonDays".
func (e *Engine) ForecastCount(h History, horizonDays int, p Params) (*Report, error) {
	return e.Execute(Run{Mode: ModeScope, History: h, Params: p, HorizonDays: horizonDays})
}

// ForecastDate answers "when will targetItems be done, counting from start".
func (e *Engine) ForecastDate(h History, targetItems int, start time.Time, p Params) (*Report, error) {
	return e.Execute(Run{Mode: ModeDuration, History: h, Params: p, TargetItems: targetItems, StartDate: start})
}

// Execute validates, simulates and analyzes a run.
func (e *Engine) Execute(run Run) (*Report, error) {
	if err := run.Validate(); err != nil {
		return nil, err
	}

	history := run.History.Clone()
	seed := e.cfg.Seeder()
	if run.Seed != nil {
		seed = *run.Seed
	}

	var dist Distribution
	var err error
	switch run.Mode {
	case ModeScope:
		dist, err = e.SimulateCount(history, run.HorizonDays, run.NumSimulations, seed)
	case ModeDuration:
		dist, err = e.SimulateDays(history, run.TargetItems, run.NumSimulations, seed)
	}
	if err != nil {
		return nil, err
	}

	return buildReport(run, history, dist, seed), nil
}
