package stats

import (
	"math"
	"testing"
)

func TestCalculateXmR(t *testing.T) {
	values := []float64{10, 12, 11, 13, 11}
	result := CalculateXmR(values)

	expectedAvg := 11.4
	if math.Abs(result.Average-expectedAvg) > 0.001 {
		t.Errorf("Expected average %v, got %v", expectedAvg, result.Average)
	}

	expectedAmR := 1.75
	if math.Abs(result.AmR-expectedAmR) > 0.001 {
		t.Errorf("Expected AmR %v, got %v", expectedAmR, result.AmR)
	}

	expectedUNPL := 16.055
	if math.Abs(result.UNPL-expectedUNPL) > 0.001 {
		t.Errorf("Expected UNPL %v, got %v", expectedUNPL, result.UNPL)
	}

	if len(result.Signals) != 0 {
		t.Errorf("Expected 0 signals, got %v", len(result.Signals))
	}
}

func TestXmRSignals(t *testing.T) {
	// Rule 1: Outlier
	values := []float64{10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 100}
	result := CalculateXmR(values)
	foundOutlier := false
	for _, s := range result.Signals {
		if s.Type == SignalOutlier && s.Index == 10 {
			foundOutlier = true
		}
	}
	if !foundOutlier {
		t.Errorf("Expected outlier at index 10 not found. UNPL was %v, Value was 100", result.UNPL)
	}
	if out := result.Outliers(); len(out) != 1 || out[0].Index != 10 {
		t.Errorf("Expected a single outlier at index 10, got %+v", out)
	}

	// Rule 2: Shift (8 points on one side)
	values = []float64{10, 10, 10, 10, 10, 10, 10, 10, 2, 2, 2, 2, 2, 2, 2, 2}
	keys := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	result = CalculateXmR(values, keys...)
	shifts := 0
	for _, s := range result.Signals {
		if s.Type == SignalShift {
			shifts++
		}
	}
	if shifts != 2 {
		t.Errorf("Expected 2 shift signals (one at index 7, one at index 15), got %v", shifts)
	}

	first, ok := result.HasShift()
	if !ok || first.Index != 7 || first.Key != "h" {
		t.Errorf("Expected first shift at index 7 keyed 'h', got %+v", first)
	}
}

func TestXmR_Empty(t *testing.T) {
	result := CalculateXmR(nil)
	if _, ok := result.HasShift(); ok || result.Average != 0 {
		t.Errorf("Expected empty result, got %+v", result)
	}
}

func TestWeeklyThroughput(t *testing.T) {
	// 3 leftover days, then two full weeks.
	daily := []int{9, 9, 9, 1, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2, 2}
	values, keys := WeeklyThroughput(daily)

	if len(values) != 2 {
		t.Fatalf("Expected 2 weeks, got %d", len(values))
	}
	if values[0] != 7 || values[1] != 14 {
		t.Errorf("Expected weekly sums [7 14], got %v", values)
	}
	if keys[0] != "W1" || keys[1] != "W2" {
		t.Errorf("Expected keys [W1 W2], got %v", keys)
	}

	if v, _ := WeeklyThroughput([]int{1, 2, 3}); len(v) != 0 {
		t.Errorf("Expected no complete weeks, got %v", v)
	}
}
