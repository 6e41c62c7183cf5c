package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"mc-forecast/internal/simulation"
	"mc-forecast/internal/visuals"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TextOptions tunes the human-readable rendering.
type TextOptions struct {
	Charts bool // append Mermaid charts
}

const ruleWidth = 60

type palette struct {
	heading lipgloss.Style
	answer  lipgloss.Style
	label   lipgloss.Style
	warning lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	return palette{
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		answer:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		label:   r.NewStyle().Bold(true),
		warning: r.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

// WriteText renders the report as a sectioned plain-text summary. Colour is
// only emitted when w is a terminal.
func WriteText(w io.Writer, r *simulation.Report, opts TextOptions) error {
	p := newPalette(w)
	pr := message.NewPrinter(language.English)
	var b strings.Builder

	rule := strings.Repeat("=", ruleWidth)
	title := `MONTE CARLO "HOW MANY" FORECAST`
	if r.Mode == simulation.ModeDuration {
		title = `MONTE CARLO "WHEN" FORECAST`
	}
	conf := formatConfidence(r.Confidence)

	b.WriteString(rule + "\n")
	b.WriteString(p.heading.Render(title) + "\n")
	b.WriteString(rule + "\n\n")

	section(&b, p, "FORECAST SUMMARY")
	if r.Mode == simulation.ModeScope {
		field(&b, p, "Start Date", orDash(formatDate(r.StartDate)))
		field(&b, p, "Target Date", orDash(formatDate(r.TargetDate)))
		field(&b, p, "Days Until Target", fmt.Sprintf("%d days", r.HorizonDays))
	} else {
		field(&b, p, "Items Remaining", strconv.Itoa(r.TargetItems))
		field(&b, p, "Start Date", orDash(formatDate(r.StartDate)))
	}
	field(&b, p, "Simulations Run", pr.Sprintf("%d", r.NumSimulations))
	field(&b, p, "Seed", strconv.FormatInt(r.Seed, 10))
	b.WriteString("\n")

	section(&b, p, fmt.Sprintf("ANSWER AT %s%% CONFIDENCE", conf))
	if r.Mode == simulation.ModeScope {
		by := "by the target date"
		if !r.TargetDate.IsZero() {
			by = "by " + formatDate(r.TargetDate)
		}
		b.WriteString("   " + p.answer.Render(fmt.Sprintf("You will complete %d items OR MORE %s", r.Answer, by)) + "\n")
		b.WriteString(fmt.Sprintf("   (%s%% of simulated futures completed %d items or more)\n", conf, r.Answer))
	} else {
		when := fmt.Sprintf("within %d days", r.Answer)
		if !r.AnswerDate.IsZero() {
			when = fmt.Sprintf("on or before %s (%d days from start)", formatDate(r.AnswerDate), r.Answer)
		}
		b.WriteString("   " + p.answer.Render("You will complete the work "+when) + "\n")
		b.WriteString(fmt.Sprintf("   (%s%% of simulated futures finished by then)\n", conf))
	}
	b.WriteString("\n")

	writePercentiles(&b, p, r)

	section(&b, p, "STATISTICAL SUMMARY")
	unit := "items"
	if r.Mode == simulation.ModeDuration {
		unit = "days"
	}
	field(&b, p, "Mean", fmt.Sprintf("%.1f %s%s", r.Summary.Mean, unit, datedSuffix(r.MeanDate)))
	field(&b, p, "Median", fmt.Sprintf("%.1f %s", r.Summary.Median, unit))
	field(&b, p, "Std Dev", fmt.Sprintf("%.1f %s", r.Summary.StdDev, unit))
	if r.Mode == simulation.ModeDuration {
		field(&b, p, "Best Case", fmt.Sprintf("%d days%s", r.Summary.Min, datedSuffix(r.MinDate)))
		field(&b, p, "Worst Case", fmt.Sprintf("%d days%s", r.Summary.Max, datedSuffix(r.MaxDate)))
	} else {
		field(&b, p, "Range", fmt.Sprintf("%d - %d items", r.Summary.Min, r.Summary.Max))
	}
	b.WriteString("\n")

	section(&b, p, "HISTORICAL THROUGHPUT")
	ts := r.Throughput
	field(&b, p, "Sample Size", fmt.Sprintf("%d days", ts.Samples))
	field(&b, p, "Average Daily", fmt.Sprintf("%.1f items/day", ts.Mean))
	field(&b, p, "Range", fmt.Sprintf("%d - %d items/day", ts.Min, ts.Max))
	field(&b, p, "Zero Days", strconv.Itoa(ts.ZeroDays))
	b.WriteString("\n")

	if len(r.Warnings) > 0 {
		section(&b, p, "WARNINGS")
		for _, wmsg := range r.Warnings {
			b.WriteString("   " + p.warning.Render("- "+wmsg) + "\n")
		}
		b.WriteString("\n")
	}

	if opts.Charts {
		if chart := visuals.GenerateDistributionChart(r); chart != "" {
			b.WriteString(chart + "\n\n")
		}
		if chart := visuals.GenerateThroughputChart(r.History); chart != "" {
			b.WriteString(chart + "\n\n")
		}
	}

	b.WriteString(rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writePercentiles(b *strings.Builder, p palette, r *simulation.Report) {
	rows := r.Percentiles
	if r.Mode == simulation.ModeScope {
		// Most certain first: the smallest counts lead.
		section(b, p, "PERCENTILE FORECAST (Items)")
		for i := len(rows) - 1; i >= 0; i-- {
			field(b, p, Label(rows[i].Level), fmt.Sprintf("%d items", rows[i].Value))
		}
	} else {
		section(b, p, "PERCENTILE FORECAST (Dates)")
		for _, row := range rows {
			if row.Date.IsZero() {
				field(b, p, Label(row.Level), fmt.Sprintf("%d days", row.Value))
				continue
			}
			field(b, p, Label(row.Level), fmt.Sprintf("%s (%d days)", formatDate(row.Date), row.Value))
		}
	}
	b.WriteString("\n")
}

func section(b *strings.Builder, p palette, name string) {
	b.WriteString(p.heading.Render(name) + "\n")
}

func field(b *strings.Builder, p palette, name, value string) {
	b.WriteString("   " + p.label.Render(fmt.Sprintf("%-18s", name+":")) + " " + value + "\n")
}

func datedSuffix(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return " (" + formatDate(t) + ")"
}

func formatConfidence(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
