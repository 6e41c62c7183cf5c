package simulation

import (
	"fmt"

	"mc-forecast/internal/stats"
)

// MinHistoryLength is the shortest throughput history a run accepts.
const MinHistoryLength = 10

// MaxDailyThroughput caps a single history day. Together with the engine's
// day bound it keeps every simulated total far below math.MaxInt.
const MaxDailyThroughput = 1_000_000

// History is the daily throughput record, oldest day first.
type History []int

// ThroughputStats summarises the input history.
type ThroughputStats struct {
	Samples      int     `json:"samples"`
	Mean         float64 `json:"mean"`
	Min          int     `json:"min"`
	Max          int     `json:"max"`
	ZeroDays     int     `json:"zero_days"`
	FatTailRatio float64 `json:"fat_tail_ratio"`
}

// Validate checks the length and sign rules for a simulation input.
func (h History) Validate() error {
	if len(h) < MinHistoryLength {
		return invalid(ErrInvalidHistory, "throughput", len(h),
			fmt.Sprintf("must contain at least %d days of data", MinHistoryLength))
	}
	for i, v := range h {
		if v < 0 {
			return invalid(ErrInvalidHistory, fmt.Sprintf("throughput[%d]", i), v, "must not be negative")
		}
		if v > MaxDailyThroughput {
			return invalid(ErrInvalidHistory, fmt.Sprintf("throughput[%d]", i), v,
				fmt.Sprintf("must not exceed %d items per day", MaxDailyThroughput))
		}
	}
	return nil
}

// Clone returns a private copy so a run cannot observe later caller mutations.
func (h History) Clone() History {
	out := make(History, len(h))
	copy(out, h)
	return out
}

// Stats computes the descriptive statistics shown next to a forecast.
func (h History) Stats() ThroughputStats {
	if len(h) == 0 {
		return ThroughputStats{}
	}
	lo, hi := stats.MinMaxDiscrete(h)
	zero := 0
	for _, v := range h {
		if v == 0 {
			zero++
		}
	}
	return ThroughputStats{
		Samples:      len(h),
		Mean:         stats.MeanDiscrete(h),
		Min:          lo,
		Max:          hi,
		ZeroDays:     zero,
		FatTailRatio: stats.FatTailRatio(h),
	}
}
