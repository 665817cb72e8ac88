package effects

import (
	"fmt"
	"math"
	"sort"
)

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

const (
	EaseLinear       = "linear"
	EaseSmooth       = "smooth"
	EaseInOutCubic   = "ease_in_out_cubic"
	EaseIn           = "ease_in"
	EaseOut          = "ease_out"
	EaseThereAndBack = "there_and_back"
)

var easings = map[string]Easing{
	EaseLinear:       linear,
	EaseSmooth:       smooth,
	EaseInOutCubic:   easeInOutCubic,
	EaseIn:           easeIn,
	EaseOut:          easeOut,
	EaseThereAndBack: thereAndBack,
}

// LookupEasing resolves a curve by name. The empty name is linear.
func LookupEasing(name string) (Easing, error) {
	if name == "" {
		return linear, nil
	}
	e, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("easing %q: %w", name, ErrUnknownEasing)
	}
	return e, nil
}

// EasingNames lists the known curves in sorted order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for n := range easings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Progress is the clamped linear progress of a primitive started at start.
// Zero-length primitives are complete immediately.
func Progress(clock, start, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	return clamp01((clock - start) / duration)
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func linear(t float64) float64 { return t }

func smooth(t float64) float64 { return t * t * (3 - 2*t) }

func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

func easeIn(t float64) float64 { return t * t * t }

func easeOut(t float64) float64 { return 1 - pow(1-t, 3) }

// thereAndBack runs smooth out and back, ending where it started.
func thereAndBack(t float64) float64 {
	if t < 0.5 {
		return smooth(2 * t)
	}
	return smooth(2 - 2*t)
}

func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
