package engine

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"mc-forecast/internal/input"
)

type GeneratorConfig struct {
	Scenario     string // "mild", "chaos", "drift" or "idle"
	Distribution string // "uniform" or "weibull"
	Days         int
	Seed         int64
	Items        int    // remaining items for a "when" scenario
	TargetDate   string // when set, a "how-many" scenario is generated instead
}

// Generate samples a synthetic daily throughput history and wraps it in a
// forecast scenario.
func Generate(cfg GeneratorConfig) (*input.Scenario, error) {
	if cfg.Days <= 0 {
		return nil, fmt.Errorf("days must be greater than 0, got %d", cfg.Days)
	}
	switch cfg.Scenario {
	case "mild", "chaos", "drift", "idle":
	default:
		return nil, fmt.Errorf("unknown scenario %q", cfg.Scenario)
	}
	switch cfg.Distribution {
	case "uniform", "weibull":
	default:
		return nil, fmt.Errorf("unknown distribution %q", cfg.Distribution)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	throughput := make([]int, cfg.Days)

	for i := range throughput {
		// 1. Determine Parameters
		k, lambda := 2.5, 5.0 // Mild: ~4.5 items/day with a light tail
		switch cfg.Scenario {
		case "chaos":
			k = 0.8
			if cfg.Distribution == "weibull" {
				lambda = 4.0
			}
		case "drift":
			ratio := float64(i) / float64(cfg.Days)
			k = 2.5 - (1.7 * ratio) // Shift 2.5 -> 0.8
			lambda = 5.0 - (2.5 * ratio)
		}

		// 2. Sample the day's completions
		var done float64
		if cfg.Distribution == "weibull" {
			done = weibullSample(rng, k, lambda)
		} else {
			// Uniform baseline: 2-7 items/day
			done = 2 + rng.Float64()*6
			if cfg.Scenario == "chaos" && rng.Float64() < 0.2 {
				done = rng.Float64() * 15 // Batch releases and dry spells
			}
			if cfg.Scenario == "drift" && i > cfg.Days/2 {
				done /= 2.0
			}
		}

		// 3. Idle teams ship nothing on most days
		if cfg.Scenario == "idle" && rng.Float64() < 0.6 {
			done = 0
		}

		throughput[i] = int(math.Floor(done))
	}

	sc := &input.Scenario{
		Name:        fmt.Sprintf("mock-%s-%s", cfg.Scenario, cfg.Distribution),
		Description: fmt.Sprintf("Synthetic %d-day throughput (scenario %s, distribution %s, seed %d)", cfg.Days, cfg.Scenario, cfg.Distribution, cfg.Seed),
		Throughput:  throughput,
	}
	if cfg.TargetDate != "" {
		sc.Mode = input.ModeHowMany
		sc.TargetDate = cfg.TargetDate
	} else {
		sc.Mode = input.ModeWhen
		sc.Items = cfg.Items
	}
	return sc, nil
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

// Save writes the scenario YAML to path, or to stdout when path is "-".
func Save(path string, sc *input.Scenario) error {
	if path == "-" {
		return input.WriteScenario(os.Stdout, sc)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := input.WriteScenario(f, sc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
