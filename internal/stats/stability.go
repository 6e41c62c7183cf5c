package stats

import (
	"fmt"
	"math"
)

// Wheeler's scaling constant for Individuals charts.
const xmrScale = 2.66

// shiftRun is the number of consecutive points on one side of the average
// that signals a process shift.
const shiftRun = 8

// Signal types.
const (
	SignalOutlier = "outlier"
	SignalShift   = "shift"
)

// XmRResult represents the output of a Process Behavior Chart analysis.
type XmRResult struct {
	Average     float64   `json:"average"`
	AmR         float64   `json:"average_moving_range"`
	UNPL        float64   `json:"upper_natural_process_limit"`
	LNPL        float64   `json:"lower_natural_process_limit"`
	Values      []float64 `json:"values"`
	MovingRange []float64 `json:"moving_ranges"`
	Signals     []Signal  `json:"signals"`
}

// Signal represents a detected special cause variation.
type Signal struct {
	Index       int    `json:"index"`
	Key         string `json:"key"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// CalculateXmR computes an Individuals and Moving Range chart and its signals.
// keys, when given, label the points the signals refer to.
func CalculateXmR(values []float64, keys ...string) XmRResult {
	if len(values) == 0 {
		return XmRResult{}
	}

	r := XmRResult{Values: values}
	for _, v := range values {
		r.Average += v
	}
	r.Average /= float64(len(values))

	if len(values) > 1 {
		r.MovingRange = make([]float64, 0, len(values)-1)
		for i := 1; i < len(values); i++ {
			mr := math.Abs(values[i] - values[i-1])
			r.MovingRange = append(r.MovingRange, mr)
			r.AmR += mr
		}
		r.AmR /= float64(len(r.MovingRange))
	}

	r.UNPL = r.Average + xmrScale*r.AmR
	r.LNPL = math.Max(0, r.Average-xmrScale*r.AmR)
	r.Signals = append(outliers(r, keys), shifts(values, r.Average, keys)...)
	return r
}

// HasShift reports whether the chart contains a process shift signal and
// returns the first one.
func (r XmRResult) HasShift() (Signal, bool) {
	for _, s := range r.Signals {
		if s.Type == SignalShift {
			return s, true
		}
	}
	return Signal{}, false
}

// Outliers returns the points outside the natural process limits.
func (r XmRResult) Outliers() []Signal {
	var out []Signal
	for _, s := range r.Signals {
		if s.Type == SignalOutlier {
			out = append(out, s)
		}
	}
	return out
}

func outliers(r XmRResult, keys []string) []Signal {
	var signals []Signal
	for i, v := range r.Values {
		switch {
		case v > r.UNPL:
			signals = append(signals, Signal{Index: i, Key: keyAt(keys, i), Type: SignalOutlier,
				Description: "Point above Upper Natural Process Limit (UNPL)"})
		case v < r.LNPL:
			signals = append(signals, Signal{Index: i, Key: keyAt(keys, i), Type: SignalOutlier,
				Description: "Point below Lower Natural Process Limit (LNPL)"})
		}
	}
	return signals
}

func shifts(values []float64, avg float64, keys []string) []Signal {
	var signals []Signal
	side, run := 0, 0
	for i, v := range values {
		s := 0
		if v > avg {
			s = 1
		} else if v < avg {
			s = -1
		}

		if s != 0 && s == side {
			run++
		} else {
			side, run = s, 1
		}

		if run == shiftRun {
			signals = append(signals, Signal{Index: i, Key: keyAt(keys, i), Type: SignalShift,
				Description: fmt.Sprintf("%d consecutive points on one side of the average identified (Process Shift)", shiftRun)})
		}
	}
	return signals
}

func keyAt(keys []string, i int) string {
	if i < len(keys) {
		return keys[i]
	}
	return ""
}

// WeeklyThroughput sums daily counts into whole 7-day buckets aligned to the
// most recent day. A partial oldest week is dropped.
func WeeklyThroughput(daily []int) ([]float64, []string) {
	weeks := len(daily) / 7
	offset := len(daily) - weeks*7

	values := make([]float64, weeks)
	keys := make([]string, weeks)
	for w := range weeks {
		for _, v := range daily[offset+w*7 : offset+(w+1)*7] {
			values[w] += float64(v)
		}
		keys[w] = fmt.Sprintf("W%d", w+1)
	}
	return values, keys
}
