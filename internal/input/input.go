// Package input turns raw user input (CSV throughput, free-form dates,
// scenario files) into the typed values the simulation engine consumes.
package input

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"mc-forecast/internal/simulation"
)

// DateLayout is the canonical date format used in all outputs.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	"2006-1-2",
	"2/1/2006",
	"1/2/2006",
	"2006/1/2",
	"2-1-2006",
	"1-2-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// ParseThroughput parses a comma-separated list of daily completion counts.
func ParseThroughput(raw string) (simulation.History, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("throughput is empty")
	}
	parts := strings.Split(raw, ",")
	h := make(simulation.History, 0, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("throughput value %d (%q) is not an integer: %w", i+1, strings.TrimSpace(p), err)
		}
		h = append(h, v)
	}
	return h, nil
}

// ParseDate accepts the common day/month/year spellings; the first layout
// that matches wins, so "03/04/2025" is read day-first.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", raw)
}

// Today returns the current date at UTC midnight.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns whole calendar days from start to target.
func DaysBetween(start, target time.Time) int {
	return int(target.Sub(start).Hours() / 24)
}

// HorizonDays resolves a scope forecast horizon; the target must lie after start.
func HorizonDays(start, target time.Time) (int, error) {
	if !target.After(start) {
		return 0, fmt.Errorf("target date %s must be in the future relative to start date %s",
			target.Format(DateLayout), start.Format(DateLayout))
	}
	return DaysBetween(start, target), nil
}
