package stats

import (
	"math"
	"slices"
)

// CalculateMedianDiscrete finds the median value in a slice of integers.
func CalculateMedianDiscrete(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	// Work on a copy to avoid mutating the original
	temp := make([]int, len(values))
	copy(temp, values)
	slices.Sort(temp)

	n := len(temp)
	if n%2 == 1 {
		return float64(temp[n/2])
	}
	return float64(temp[n/2-1]+temp[n/2]) / 2.0
}

// PercentileDiscrete returns the nearest-rank percentile of an ascending slice.
//
// The 0-based index is floor(p*n/100), clamped to [0, n-1]. When p*n/100 lands
// exactly on an integer k the element at index k (rank k+1) is returned, so
// p=0 yields the minimum and p=100 the maximum. The caller must sort first.
func PercentileDiscrete(sorted []int, p float64) int {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(math.Floor(p * float64(n) / 100.0))
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

// MeanDiscrete returns the arithmetic mean, or 0 for an empty slice.
func MeanDiscrete(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// StdDevDiscrete returns the population standard deviation.
func StdDevDiscrete(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := MeanDiscrete(values)
	sumSq := 0.0
	for _, v := range values {
		d := float64(v) - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// MinMaxDiscrete returns the smallest and largest value of a non-empty slice.
func MinMaxDiscrete(values []int) (int, int) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// FatTailRatio calculates the P98/P50 ratio of a set of daily counts.
// Sparse processes (P50 of zero) get a symbolic ratio of 10.
func FatTailRatio(counts []int) float64 {
	if len(counts) == 0 {
		return 0
	}
	sorted := make([]int, len(counts))
	copy(sorted, counts)
	slices.Sort(sorted)

	p50 := float64(PercentileDiscrete(sorted, 50))
	p98 := float64(PercentileDiscrete(sorted, 98))

	if p50 == 0 {
		if p98 > 0 {
			return 10.0
		}
		return 1.0
	}
	return p98 / p50
}
