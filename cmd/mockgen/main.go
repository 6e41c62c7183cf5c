package main

import (
	"flag"
	"fmt"
	"os"

	"mc-forecast/cmd/mockgen/engine"
)

func main() {
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, chaos, drift, idle")
	distribution := flag.String("distribution", "uniform", "Distribution to use: uniform, weibull")
	out := flag.String("out", "./.cache/scenario.yaml", "Output file for the scenario ('-' for stdout)")
	days := flag.Int("days", 60, "Number of days of throughput history to generate")
	seed := flag.Int64("seed", 1, "Random seed")
	items := flag.Int("items", 100, "Remaining items for a 'when' scenario")
	target := flag.String("target", "", "Target date; generates a 'how-many' scenario instead")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:     *scenario,
		Distribution: *distribution,
		Days:         *days,
		Seed:         *seed,
		Items:        *items,
		TargetDate:   *target,
	}

	fmt.Fprintf(os.Stderr, "Generating scenario '%s' (Distribution: %s, Days: %d) to %s...\n", cfg.Scenario, cfg.Distribution, cfg.Days, *out)

	sc, err := engine.Generate(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate mock data: %v\n", err)
		os.Exit(1)
	}

	if err := engine.Save(*out, sc); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "Done.")
}
