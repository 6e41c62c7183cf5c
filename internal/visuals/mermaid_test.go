package visuals

import (
	"strings"
	"testing"

	"mc-forecast/internal/simulation"
)

func TestGenerateDistributionChart_Bins(t *testing.T) {
	dist := make(simulation.Distribution, 0, 100)
	for i := 0; i < 100; i++ {
		dist = append(dist, i)
	}
	r := &simulation.Report{
		Mode:         simulation.ModeScope,
		Confidence:   85,
		Answer:       15,
		Distribution: dist,
		Summary:      simulation.Summary{Min: 0, Max: 99},
	}

	chart := GenerateDistributionChart(r)

	if !strings.HasPrefix(chart, "```mermaid\nxychart-beta\n") {
		t.Fatalf("Unexpected chart header: %s", chart)
	}
	if !strings.Contains(chart, `"0-4"`) || !strings.Contains(chart, `"95-99"`) {
		t.Errorf("Expected 20 bins of width 5, got %s", chart)
	}
	if !strings.Contains(chart, "bar [5, 5, 5") {
		t.Errorf("Expected 5 trials per bin, got %s", chart)
	}
	if !strings.Contains(chart, "15 or more") {
		t.Errorf("Expected answer in title, got %s", chart)
	}
}

func TestGenerateDistributionChart_SingleValue(t *testing.T) {
	r := &simulation.Report{
		Mode:         simulation.ModeDuration,
		Confidence:   85,
		Answer:       0,
		Distribution: simulation.Distribution{0, 0, 0},
	}
	chart := GenerateDistributionChart(r)
	if !strings.Contains(chart, `["0"]`) || !strings.Contains(chart, "bar [3]") {
		t.Errorf("Expected one bin holding all trials, got %s", chart)
	}
	if !strings.Contains(chart, "Days To Complete") {
		t.Errorf("Expected duration axis label, got %s", chart)
	}
}

func TestGenerateCharts_Empty(t *testing.T) {
	if GenerateDistributionChart(nil) != "" || GenerateDistributionChart(&simulation.Report{}) != "" {
		t.Error("Expected no chart for an empty report")
	}
	if GenerateThroughputChart(nil) != "" {
		t.Error("Expected no chart for an empty history")
	}
}

func TestGenerateThroughputChart(t *testing.T) {
	chart := GenerateThroughputChart(simulation.History{3, 5, 0})
	if !strings.Contains(chart, `x-axis ["D1", "D2", "D3"]`) {
		t.Errorf("Unexpected labels: %s", chart)
	}
	if !strings.Contains(chart, "bar [3, 5, 0]") || !strings.Contains(chart, "0 --> 6") {
		t.Errorf("Unexpected bars or scale: %s", chart)
	}
}
