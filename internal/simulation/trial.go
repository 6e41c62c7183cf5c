package simulation

import "math"

// trial decides when a single simulated future is over and what it yields.
type trial interface {
	done(days, total int) bool
	outcome(days, total int) int
	limit() int
}

// fixedHorizon sums a fixed number of sampled days.
type fixedHorizon struct {
	days int
}

func (t fixedHorizon) done(days, _ int) bool    { return days >= t.days }
func (t fixedHorizon) outcome(_, total int) int { return total }
func (t fixedHorizon) limit() int               { return t.days }

// fixedTarget counts sampled days until the running total reaches items.
type fixedTarget struct {
	items   int
	maxDays int
}

func (t fixedTarget) done(_, total int) bool  { return total >= t.items }
func (t fixedTarget) outcome(days, _ int) int { return days }
func (t fixedTarget) limit() int              { return t.maxDays }

// runTrial is the draw-and-accumulate loop shared by both modes.
func runTrial(s Sampler, t trial) (int, error) {
	days, total := 0, 0
	for !t.done(days, total) {
		if days >= t.limit() {
			return 0, ErrNonTerminating
		}
		v := s.Draw()
		if v > math.MaxInt-total {
			return 0, invalid(ErrInvalidParameter, "throughput", v, "simulated total overflows")
		}
		total += v
		days++
	}
	return t.outcome(days, total), nil
}
