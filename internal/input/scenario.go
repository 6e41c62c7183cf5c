package input

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario is a forecast request stored as YAML.
//
//	throughput: [3, 5, 4, 2, 6, 4, 5, 3, 7, 4]
//	mode: when
//	items: 100
//	start_date: 2025-10-27
//	confidence: 85
type Scenario struct {
	Name        string   `yaml:"name,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Throughput  []int    `yaml:"throughput"`
	Mode        string   `yaml:"mode,omitempty"` // "how-many" or "when"
	TargetDate  string   `yaml:"target_date,omitempty"`
	Items       int      `yaml:"items,omitempty"`
	StartDate   string   `yaml:"start_date,omitempty"`
	Confidence  *float64 `yaml:"confidence,omitempty"`
	Simulations *int     `yaml:"simulations,omitempty"`
	Seed        *int64   `yaml:"seed,omitempty"`
}

// Scenario modes.
const (
	ModeHowMany = "how-many"
	ModeWhen    = "when"
)

// LoadScenario reads a scenario file from disk.
func LoadScenario(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario %s: %w", path, err)
	}
	defer f.Close()

	sc, err := DecodeScenario(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	return sc, nil
}

// DecodeScenario parses one YAML scenario document.
func DecodeScenario(r io.Reader) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, err
	}
	sc.Mode = strings.ToLower(strings.TrimSpace(sc.Mode))
	switch sc.Mode {
	case "", ModeHowMany, ModeWhen:
	default:
		return nil, fmt.Errorf("unknown scenario mode %q (expected %q or %q)", sc.Mode, ModeHowMany, ModeWhen)
	}
	return &sc, nil
}

// WriteScenario encodes a scenario as YAML.
func WriteScenario(w io.Writer, sc *Scenario) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(sc); err != nil {
		return err
	}
	return enc.Close()
}
