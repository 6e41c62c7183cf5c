package visuals

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"mc-forecast/internal/simulation"
)

const maxBins = 20

// GenerateDistributionChart creates a Mermaid bar chart of the simulated outcomes.
// Outcomes are grouped into at most 20 equal-width bins.
func GenerateDistributionChart(report *simulation.Report) string {
	if report == nil || len(report.Distribution) == 0 {
		return ""
	}

	lo, hi := report.Summary.Min, report.Summary.Max
	width := int(math.Ceil(float64(hi-lo+1) / maxBins))
	if width < 1 {
		width = 1
	}
	bins := (hi-lo)/width + 1

	counts := make([]int, bins)
	for _, v := range report.Distribution {
		counts[(v-lo)/width]++
	}

	labels := make([]string, bins)
	values := make([]string, bins)
	for i, c := range counts {
		from := lo + i*width
		if width == 1 {
			labels[i] = fmt.Sprintf("\"%d\"", from)
		} else {
			labels[i] = fmt.Sprintf("\"%d-%d\"", from, from+width-1)
		}
		values[i] = fmt.Sprintf("%d", c)
	}
	maxVal := slices.Max(counts)

	unit := "Items Completed"
	title := fmt.Sprintf("Simulated Outcomes (%.0f%% confidence: %d or more)", report.Confidence, report.Answer)
	if report.Mode == simulation.ModeDuration {
		unit = "Days To Complete"
		title = fmt.Sprintf("Simulated Outcomes (%.0f%% confidence: within %d days)", report.Confidence, report.Answer)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"%s\"\n", title))
	sb.WriteString(fmt.Sprintf("    x-axis \"%s\" [%s]\n", unit, strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Trials\" 0 --> %d\n", maxVal+int(math.Max(1, float64(maxVal)*0.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateThroughputChart creates a Mermaid bar chart for the historical daily throughput.
func GenerateThroughputChart(history simulation.History) string {
	if len(history) == 0 {
		return ""
	}

	labels := make([]string, len(history))
	values := make([]string, len(history))
	maxVal := 0
	for i, count := range history {
		labels[i] = fmt.Sprintf("\"D%d\"", i+1)
		values[i] = fmt.Sprintf("%d", count)
		if count > maxVal {
			maxVal = count
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Delivery Cadence (Throughput)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Items Delivered\" 0 --> %d\n", maxVal+int(math.Max(1, float64(maxVal)*0.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}
