package engine

import "math"

// Score deltas applied by discrete analysis events. The score never decays
// over time; only events move it.
const (
	scoreRepBonus      = 2.0
	scoreTooFastDeduct = 2.0
	scoreValgusDeduct  = 0.5
)

// formScore is the running 0-100 movement-quality score.
type formScore struct {
	value float64
}

// newFormScore returns a score at the full 100 starting value.
func newFormScore() formScore {
	return formScore{value: 100}
}

// add applies a delta and clamps the result into [0,100].
func (s *formScore) add(delta float64) {
	s.value = math.Min(100, math.Max(0, s.value+delta))
}

// display returns the score rounded to a whole number for the UI.
func (s *formScore) display() int {
	return int(math.Round(s.value))
}
