package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mc-forecast/internal/simulation"
)

func TestHowManyRequest_Positional(t *testing.T) {
	f := &forecastFlags{seed: 42, hasSeed: true}
	req, err := howManyRequest([]string{"3,5,4,2,6,4,5,3,7,4", "2025-12-31", "95", "50000", "2025-11-01"}, f)
	require.NoError(t, err)

	assert.Equal(t, []int{3, 5, 4, 2, 6, 4, 5, 3, 7, 4}, req.Throughput)
	assert.Equal(t, "2025-12-31", req.TargetDate)
	assert.Equal(t, "2025-11-01", req.StartDate)
	require.NotNil(t, req.Confidence)
	assert.Equal(t, 95.0, *req.Confidence)
	require.NotNil(t, req.Simulations)
	assert.Equal(t, 50000, *req.Simulations)
	require.NotNil(t, req.Seed)
	assert.Equal(t, int64(42), *req.Seed)
}

func TestWhenRequest_OptionalTail(t *testing.T) {
	req, err := whenRequest([]string{"3,5,4", "100"}, &forecastFlags{})
	require.NoError(t, err)

	assert.Equal(t, 100, req.Items)
	assert.Nil(t, req.Confidence, "defaults are applied by the service")
	assert.Nil(t, req.Simulations)
	assert.Nil(t, req.Seed)
	assert.Empty(t, req.StartDate)
}

func TestWhenRequest_BadArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"throughput", []string{"3,x,4", "10"}, simulation.ErrInvalidHistory},
		{"items", []string{"3,5,4", "ten"}, simulation.ErrInvalidParameter},
		{"confidence", []string{"3,5,4", "10", "high"}, simulation.ErrInvalidConfidence},
		{"simulations", []string{"3,5,4", "10", "85", "many"}, simulation.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := whenRequest(tt.args, &forecastFlags{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestScenarioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`name: release
throughput: [3, 5, 4, 2, 6, 4, 5, 3, 7, 4]
mode: when
items: 40
seed: 7
`), 0o644))

	req, err := whenRequest(nil, &forecastFlags{file: path})
	require.NoError(t, err)
	assert.Equal(t, 40, req.Items)
	require.NotNil(t, req.Seed)
	assert.Equal(t, int64(7), *req.Seed)

	req, err = whenRequest(nil, &forecastFlags{file: path, seed: 9, hasSeed: true})
	require.NoError(t, err)
	assert.Equal(t, int64(9), *req.Seed, "--seed overrides the file")

	_, err = howManyRequest(nil, &forecastFlags{file: path})
	assert.ErrorContains(t, err, `"when" scenario`)
}

func testReport(t *testing.T) *simulation.Report {
	t.Helper()
	seed := int64(3)
	r, err := simulation.NewEngine(simulation.Config{}).Execute(simulation.Run{
		Mode:        simulation.ModeDuration,
		History:     simulation.History{3, 5, 4, 2, 6, 4, 5, 3, 7, 4},
		Params:      simulation.Params{Confidence: 85, NumSimulations: 500, Seed: &seed},
		TargetItems: 30,
		StartDate:   time.Date(2025, 10, 27, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return r
}

func TestWriteReport_Formats(t *testing.T) {
	r := testReport(t)

	var both bytes.Buffer
	require.NoError(t, writeReport(&both, r, &forecastFlags{format: formatBoth}))
	text, jsonPart, found := strings.Cut(both.String(), "JSON Output:\n")
	require.True(t, found)
	assert.Contains(t, text, "FORECAST SUMMARY")

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(jsonPart), &doc))
	assert.Equal(t, "duration", doc["mode"])

	var onlyJSON bytes.Buffer
	require.NoError(t, writeReport(&onlyJSON, r, &forecastFlags{format: formatJSON}))
	assert.True(t, json.Valid(onlyJSON.Bytes()))
	assert.NotContains(t, onlyJSON.String(), "FORECAST SUMMARY")

	var onlyText bytes.Buffer
	require.NoError(t, writeReport(&onlyText, r, &forecastFlags{format: formatText, charts: true, chartSet: true}))
	assert.NotContains(t, onlyText.String(), "JSON Output:")
	assert.Contains(t, onlyText.String(), "```mermaid")

	assert.Error(t, writeReport(&bytes.Buffer{}, r, &forecastFlags{format: "xml"}))
}

func TestExecute_When(t *testing.T) {
	t.Setenv("LOGS_FOLDER", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"when", "3,5,4,2,6,4,5,3,7,4", "20", "85", "1000", "2025-10-27", "--seed", "5", "--format", "json"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		whenFlags = forecastFlags{}
	})

	require.NoError(t, Execute())

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "duration", doc["mode"])
	assert.EqualValues(t, 5, doc["seed"])
	assert.EqualValues(t, 1000, doc["num_simulations"])
}

func TestWriteBacktest(t *testing.T) {
	res := simulation.WalkForwardResult{
		Mode: simulation.ModeScope,
		Checkpoints: []simulation.ValidationCheckpoint{
			{Day: 20, Actual: 10, PredictedP50: 11, PredictedP85: 9, PredictedP95: 8, IsWithinCone: true},
		},
		AccuracyScore:     1,
		ValidationMessage: "Walk-Forward Analysis: 1/1 (100%)",
	}

	var text bytes.Buffer
	require.NoError(t, writeBacktest(&text, res, formatText))
	assert.Contains(t, text.String(), "In Cone")
	assert.Contains(t, text.String(), "yes")
	assert.Contains(t, text.String(), "(values in items)")

	var js bytes.Buffer
	require.NoError(t, writeBacktest(&js, res, formatJSON))
	var doc map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &doc))
	assert.EqualValues(t, 1, doc["accuracy_score"])
}
