package engine

import (
	"path/filepath"
	"testing"

	"mc-forecast/internal/input"
	"mc-forecast/internal/simulation"
)

func TestGenerate_Scenarios(t *testing.T) {
	for _, scenario := range []string{"mild", "chaos", "drift", "idle"} {
		for _, dist := range []string{"uniform", "weibull"} {
			sc, err := Generate(GeneratorConfig{Scenario: scenario, Distribution: dist, Days: 60, Seed: 3, Items: 50})
			if err != nil {
				t.Fatalf("%s/%s: unexpected error: %v", scenario, dist, err)
			}
			if len(sc.Throughput) != 60 {
				t.Errorf("%s/%s: expected 60 days, got %d", scenario, dist, len(sc.Throughput))
			}
			if err := simulation.History(sc.Throughput).Validate(); err != nil {
				t.Errorf("%s/%s: generated history is not forecastable: %v", scenario, dist, err)
			}
			if sc.Mode != input.ModeWhen || sc.Items != 50 {
				t.Errorf("%s/%s: expected a when scenario for 50 items, got %q/%d", scenario, dist, sc.Mode, sc.Items)
			}
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := GeneratorConfig{Scenario: "chaos", Distribution: "weibull", Days: 30, Seed: 11}
	a, _ := Generate(cfg)
	b, _ := Generate(cfg)
	for i := range a.Throughput {
		if a.Throughput[i] != b.Throughput[i] {
			t.Fatalf("Expected identical histories for the same seed, day %d differs: %d vs %d", i, a.Throughput[i], b.Throughput[i])
		}
	}
}

func TestGenerate_IdleHasZeroDays(t *testing.T) {
	sc, _ := Generate(GeneratorConfig{Scenario: "idle", Distribution: "uniform", Days: 200, Seed: 1})
	zero := 0
	for _, v := range sc.Throughput {
		if v == 0 {
			zero++
		}
	}
	if zero < 80 {
		t.Errorf("Expected most idle days to be empty, got %d/200 zero days", zero)
	}
}

func TestGenerate_Rejects(t *testing.T) {
	tests := []GeneratorConfig{
		{Scenario: "mild", Distribution: "uniform", Days: 0},
		{Scenario: "storm", Distribution: "uniform", Days: 10},
		{Scenario: "mild", Distribution: "normal", Days: 10},
	}
	for _, cfg := range tests {
		if _, err := Generate(cfg); err == nil {
			t.Errorf("Expected error for %+v", cfg)
		}
	}
}

func TestSave_RoundTrip(t *testing.T) {
	sc, err := Generate(GeneratorConfig{Scenario: "mild", Distribution: "uniform", Days: 14, Seed: 2, TargetDate: "2025-12-31"})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "nested", "scenario.yaml")
	if err := Save(path, sc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := input.LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario failed: %v", err)
	}
	if loaded.Mode != input.ModeHowMany {
		t.Errorf("Expected mode %q, got %q", input.ModeHowMany, loaded.Mode)
	}
	if len(loaded.Throughput) != 14 {
		t.Errorf("Expected 14 days, got %d", len(loaded.Throughput))
	}
}
