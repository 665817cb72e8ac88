package director

import "math"

// Ticks is the number of whole sample periods needed to cover d, at least
// one for any positive d.
func Ticks(d, rate float64) int {
	if d <= 0 {
		return 0
	}
	n := int(math.Ceil(d*rate - 1e-9))
	if n < 1 {
		n = 1
	}
	return n
}

// Align pads d up to the next sample instant.
func Align(d, rate float64) float64 {
	return float64(Ticks(d, rate)) / rate
}

// FrameTime is the clock time of sample n.
func FrameTime(n int, rate float64) float64 {
	return float64(n) / rate
}

// FrameCount is the number of samples needed to show a timeline of length
// d, counting the one at t=0.
func FrameCount(d, rate float64) int {
	return int(math.Ceil(d*rate-1e-9)) + 1
}
