package simulation

import (
	"slices"

	"mc-forecast/internal/stats"
)

// StandardLevels are the confidence levels always reported in the table.
var StandardLevels = []int{25, 50, 70, 85, 95, 99}

// Summary describes the raw outcome distribution, independent of confidence.
type Summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	StdDev float64 `json:"std_dev"`
}

// LevelValue is one row of the percentile table.
type LevelValue struct {
	Level      int     `json:"level"`      // confidence level, e.g. 85
	Percentile float64 `json:"percentile"` // distribution percentile actually read
	Value      int     `json:"value"`
}

// Analysis is the mode-aware reading of a distribution.
type Analysis struct {
	Answer           int
	AnswerPercentile float64
	Levels           []LevelValue
	Summary          Summary
}

// PercentileFor maps a confidence level onto the distribution percentile.
//
// Scope forecasts promise "at least N items", a lower-tail guarantee, so
// they read the (100-C)th percentile. Duration forecasts promise "done
// within N days", an upper-tail guarantee, so they read the Cth percentile.
func PercentileFor(mode Mode, confidence float64) float64 {
	if mode == ModeScope {
		return 100 - confidence
	}
	return confidence
}

// Analyze sorts a copy of dist and reads the answer, the standard table and
// the summary statistics from it.
func Analyze(dist Distribution, mode Mode, confidence float64) Analysis {
	sorted := slices.Clone(dist)
	slices.Sort(sorted)

	a := Analysis{
		AnswerPercentile: PercentileFor(mode, confidence),
		Levels:           make([]LevelValue, 0, len(StandardLevels)),
	}
	a.Answer = stats.PercentileDiscrete(sorted, a.AnswerPercentile)

	for _, level := range StandardLevels {
		p := PercentileFor(mode, float64(level))
		a.Levels = append(a.Levels, LevelValue{
			Level:      level,
			Percentile: p,
			Value:      stats.PercentileDiscrete(sorted, p),
		})
	}

	if len(sorted) > 0 {
		a.Summary = Summary{
			Mean:   stats.MeanDiscrete(sorted),
			Median: stats.CalculateMedianDiscrete(sorted),
			Min:    sorted[0],
			Max:    sorted[len(sorted)-1],
			StdDev: stats.StdDevDiscrete(sorted),
		}
	}
	return a
}
