package simulation

import (
	"fmt"
	"strings"
	"time"

	"mc-forecast/internal/stats"
)

const (
	fatTailThreshold  = 5.6
	lowSimulationMark = 1000
	maxListedWeeks    = 3
)

// DatedLevel is a percentile table row converted to a calendar date.
type DatedLevel struct {
	LevelValue
	Date time.Time `json:"date,omitzero"`
}

// Report is the final, read-only forecast handed to the presentation layer.
type Report struct {
	Mode           Mode    `json:"mode"`
	Confidence     float64 `json:"confidence"`
	NumSimulations int     `json:"num_simulations"`
	Seed           int64   `json:"seed"`

	HorizonDays int       `json:"horizon_days,omitempty"`
	TargetItems int       `json:"target_items,omitempty"`
	StartDate   time.Time `json:"start_date,omitzero"`
	TargetDate  time.Time `json:"target_date,omitzero"` // scope with a start date

	// Answer is an item count (scope) or a day count (duration).
	Answer     int       `json:"answer"`
	AnswerDate time.Time `json:"answer_date,omitzero"`

	Percentiles []DatedLevel `json:"percentiles"`
	Summary     Summary      `json:"summary"`
	MeanDate    time.Time    `json:"mean_date,omitzero"`
	MinDate     time.Time    `json:"min_date,omitzero"`
	MaxDate     time.Time    `json:"max_date,omitzero"`

	Throughput   ThroughputStats `json:"throughput_stats"`
	History      History         `json:"-"`
	Distribution Distribution    `json:"-"`
	Warnings     []string        `json:"warnings,omitempty"`
}

// AddDays is plain calendar day addition, without business-day rules.
func AddDays(start time.Time, days int) time.Time {
	return start.AddDate(0, 0, days)
}

func buildReport(run Run, history History, dist Distribution, seed int64) *Report {
	analysis := Analyze(dist, run.Mode, run.Confidence)

	r := &Report{
		Mode:           run.Mode,
		Confidence:     run.Confidence,
		NumSimulations: run.NumSimulations,
		Seed:           seed,
		StartDate:      run.StartDate,
		Answer:         analysis.Answer,
		Summary:        analysis.Summary,
		Throughput:     history.Stats(),
		History:        history,
		Distribution:   dist,
		Percentiles:    make([]DatedLevel, 0, len(analysis.Levels)),
	}

	dated := run.Mode == ModeDuration && !run.StartDate.IsZero()
	for _, lv := range analysis.Levels {
		row := DatedLevel{LevelValue: lv}
		if dated {
			row.Date = AddDays(run.StartDate, lv.Value)
		}
		r.Percentiles = append(r.Percentiles, row)
	}

	switch run.Mode {
	case ModeScope:
		r.HorizonDays = run.HorizonDays
		if !run.StartDate.IsZero() {
			r.TargetDate = AddDays(run.StartDate, run.HorizonDays)
		}
	case ModeDuration:
		r.TargetItems = run.TargetItems
		if dated {
			r.AnswerDate = AddDays(run.StartDate, r.Answer)
			r.MeanDate = AddDays(run.StartDate, int(r.Summary.Mean))
			r.MinDate = AddDays(run.StartDate, r.Summary.Min)
			r.MaxDate = AddDays(run.StartDate, r.Summary.Max)
		}
	}

	r.Warnings = collectWarnings(r)
	return r
}

// weekList names up to maxListedWeeks signal weeks.
func weekList(signals []stats.Signal) string {
	names := make([]string, 0, maxListedWeeks)
	for _, s := range signals[:min(len(signals), maxListedWeeks)] {
		names = append(names, s.Key)
	}
	list := strings.Join(names, ", ")
	if extra := len(signals) - len(names); extra > 0 {
		list += fmt.Sprintf(" and %d more", extra)
	}
	return list
}

func collectWarnings(r *Report) []string {
	var warnings []string
	if r.Throughput.FatTailRatio > fatTailThreshold {
		warnings = append(warnings, fmt.Sprintf("Fat-tailed throughput (P98/P50 = %.1f): a few exceptional days dominate the history, so the forecast spread is wide.", r.Throughput.FatTailRatio))
	}
	if r.Throughput.Samples > 0 && r.Throughput.ZeroDays*2 > r.Throughput.Samples {
		warnings = append(warnings, fmt.Sprintf("Sparse throughput: %d of %d historical days delivered nothing.", r.Throughput.ZeroDays, r.Throughput.Samples))
	}
	weekly, keys := stats.WeeklyThroughput(r.History)
	xmr := stats.CalculateXmR(weekly, keys...)
	if shift, ok := xmr.HasShift(); ok {
		warnings = append(warnings, fmt.Sprintf("Process shift in weekly throughput (detected at %s of %d weeks): the history may mix different delivery rates; consider forecasting from the recent weeks only.", shift.Key, len(weekly)))
	}
	if out := xmr.Outliers(); len(out) > 0 {
		warnings = append(warnings, fmt.Sprintf("Exceptional weeks in throughput (%s of %d weeks) fall outside the natural process limits; check whether they reflect how the team will deliver from now on.", weekList(out), len(weekly)))
	}
	if r.NumSimulations < lowSimulationMark {
		warnings = append(warnings, fmt.Sprintf("Only %d simulations were run; percentiles may shift noticeably between seeds.", r.NumSimulations))
	}
	return warnings
}
