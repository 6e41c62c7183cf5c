package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"mc-forecast/internal/input"
	"mc-forecast/internal/simulation"
)

// Document is the machine-readable rendering of a forecast.
type Document struct {
	Mode           string  `json:"mode"`
	Confidence     float64 `json:"confidence_level"`
	NumSimulations int     `json:"num_simulations"`
	Seed           int64   `json:"seed"`
	StartDate      string  `json:"start_date,omitempty"`

	// scope
	StoriesAtConfidence *int   `json:"stories_at_confidence,omitempty"`
	DaysUntilTarget     *int   `json:"days_until_target,omitempty"`
	TargetDate          string `json:"target_date,omitempty"`

	// duration
	StoriesRemaining           int    `json:"stories_remaining,omitempty"`
	DaysAtConfidence           *int   `json:"days_at_confidence,omitempty"`
	CompletionDateAtConfidence string `json:"completion_date_at_confidence,omitempty"`

	Percentiles     map[string]int    `json:"percentiles"`
	PercentileDates map[string]string `json:"percentile_dates,omitempty"`

	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Min      int     `json:"min"`
	Max      int     `json:"max"`
	StdDev   float64 `json:"std_dev"`
	MeanDate string  `json:"mean_date,omitempty"`
	MinDate  string  `json:"min_date,omitempty"`
	MaxDate  string  `json:"max_date,omitempty"`

	ThroughputStats simulation.ThroughputStats `json:"throughput_stats"`
	Warnings        []string                   `json:"warnings,omitempty"`
}

// Label returns the table key for a confidence level, e.g. "P85".
func Label(level int) string {
	return fmt.Sprintf("P%d", level)
}

// NewDocument flattens a report into its JSON document.
func NewDocument(r *simulation.Report) Document {
	doc := Document{
		Mode:            string(r.Mode),
		Confidence:      r.Confidence,
		NumSimulations:  r.NumSimulations,
		Seed:            r.Seed,
		StartDate:       formatDate(r.StartDate),
		Percentiles:     make(map[string]int, len(r.Percentiles)),
		Mean:            r.Summary.Mean,
		Median:          r.Summary.Median,
		Min:             r.Summary.Min,
		Max:             r.Summary.Max,
		StdDev:          r.Summary.StdDev,
		ThroughputStats: r.Throughput,
		Warnings:        r.Warnings,
	}

	for _, row := range r.Percentiles {
		doc.Percentiles[Label(row.Level)] = row.Value
	}

	answer := r.Answer
	switch r.Mode {
	case simulation.ModeScope:
		horizon := r.HorizonDays
		doc.StoriesAtConfidence = &answer
		doc.DaysUntilTarget = &horizon
		doc.TargetDate = formatDate(r.TargetDate)
	case simulation.ModeDuration:
		doc.StoriesRemaining = r.TargetItems
		doc.DaysAtConfidence = &answer
		doc.CompletionDateAtConfidence = formatDate(r.AnswerDate)
		doc.MeanDate = formatDate(r.MeanDate)
		doc.MinDate = formatDate(r.MinDate)
		doc.MaxDate = formatDate(r.MaxDate)
		if !r.StartDate.IsZero() {
			doc.PercentileDates = make(map[string]string, len(r.Percentiles))
			for _, row := range r.Percentiles {
				doc.PercentileDates[Label(row.Level)] = formatDate(row.Date)
			}
		}
	}
	return doc
}

// WriteJSON writes the indented JSON document.
func WriteJSON(w io.Writer, r *simulation.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(r))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(input.DateLayout)
}
