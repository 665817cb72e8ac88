package chart

import (
	"fmt"
	"math"

	"github.com/ivlev/chart2video/internal/geometry"
)

// Mapping converts a domain value to a fraction of the axis length, with
// Min at 0 and Max at 1.
type Mapping func(v, min, max float64) float64

// Linear is the default mapping.
func Linear(v, min, max float64) float64 {
	return (v - min) / (max - min)
}

// Log10 maps decades evenly. Both bounds must be positive.
func Log10(v, min, max float64) float64 {
	return (math.Log10(v) - math.Log10(min)) / (math.Log10(max) - math.Log10(min))
}

// Axis maps a domain range onto a scene coordinate range.
type Axis struct {
	Min    float64
	Max    float64
	Length float64
	// Origin is the scene coordinate of Min.
	Origin  float64
	Mapping Mapping
}

// NewAxis validates min < max and length > 0 and uses the linear mapping.
func NewAxis(min, max, length, origin float64) (Axis, error) {
	if !(min < max) || !(length > 0) {
		return Axis{}, &ScaleError{Series: fmt.Sprintf("axis[%g,%g]", min, max), Index: -1, Err: ErrInvalidAxis}
	}
	return Axis{Min: min, Max: max, Length: length, Origin: origin, Mapping: Linear}, nil
}

// WithMapping returns a copy using m. Log10 needs Min > 0.
func (a Axis) WithMapping(m Mapping) (Axis, error) {
	if m == nil {
		m = Linear
	}
	frac := m(a.Min, a.Min, a.Max)
	if math.IsNaN(frac) || math.IsInf(frac, 0) {
		return Axis{}, &ScaleError{Series: fmt.Sprintf("axis[%g,%g]", a.Min, a.Max), Index: -1, Err: ErrInvalidAxis}
	}
	a.Mapping = m
	return a, nil
}

// Clamp limits v to [Min, Max].
func (a Axis) Clamp(v float64) float64 {
	return math.Max(a.Min, math.Min(a.Max, v))
}

// Map returns the scene coordinate of v. Values outside the domain are
// extrapolated; use Clamp first to keep them on the axis.
func (a Axis) Map(v float64) float64 {
	m := a.Mapping
	if m == nil {
		m = Linear
	}
	return a.Origin + m(v, a.Min, a.Max)*a.Length
}

// End is the scene coordinate of Max.
func (a Axis) End() float64 { return a.Origin + a.Length }

// XY is a data point.
type XY struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Polyline is a plotted series in scene coordinates.
type Polyline struct {
	Points []geometry.Vec
	// Clamped counts data points that were pulled onto the axis boundary.
	Clamped int
}

// PlotLine maps points through the axis pair. Out-of-range points are
// clamped to the nearest axis boundary rather than dropped, so every input
// point has a vertex.
func PlotLine(points []XY, ax, ay Axis) (Polyline, error) {
	out := Polyline{Points: make([]geometry.Vec, len(points))}
	for i, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return Polyline{}, &ScaleError{Series: "plot", Index: i, Err: ErrInvalidValue}
		}
		x, y := ax.Clamp(p.X), ay.Clamp(p.Y)
		if x != p.X || y != p.Y {
			out.Clamped++
		}
		out.Points[i] = geometry.Vec{X: ax.Map(x), Y: ay.Map(y)}
	}
	return out, nil
}

// Zip pairs xs and ys into points.
func Zip(xs, ys []float64) ([]XY, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("zip: %d x values for %d y values", len(xs), len(ys))
	}
	out := make([]XY, len(xs))
	for i := range xs {
		out[i] = XY{X: xs[i], Y: ys[i]}
	}
	return out, nil
}
