package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Point is one labelled value of a series.
type Point struct {
	Label string  `yaml:"label"`
	Value float64 `yaml:"value"`
}

// Series is an ordered list of points. Labels may repeat.
type Series struct {
	Name   string  `yaml:"name,omitempty"`
	Points []Point `yaml:"points"`
}

// NewSeries zips labels and values.
func NewSeries(name string, labels []string, values []float64) (Series, error) {
	if len(labels) != len(values) {
		return Series{}, fmt.Errorf("series %q: %d labels for %d values", name, len(labels), len(values))
	}
	s := Series{Name: name, Points: make([]Point, len(values))}
	for i := range values {
		s.Points[i] = Point{Label: labels[i], Value: values[i]}
	}
	return s, nil
}

func (s Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// Validate checks that every value is finite.
func (s Series) Validate() error {
	for i, p := range s.Points {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return &ScaleError{Series: s.Name, Index: i, Err: ErrInvalidValue}
		}
	}
	return nil
}

// Scaled is a value with its length in scene units.
type Scaled struct {
	Value  float64
	Length float64
}

// ScaleSeries maps values to lengths proportional to the series maximum:
// length_i = value_i * maxSceneLength / max(values). Ratios between values
// are preserved and no length is negative.
func ScaleSeries(s Series, maxSceneLength float64) ([]Scaled, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if maxSceneLength <= 0 || math.IsNaN(maxSceneLength) || math.IsInf(maxSceneLength, 0) {
		return nil, &ScaleError{Series: s.Name, Index: -1, Err: fmt.Errorf("max scene length %v: %w", maxSceneLength, ErrInvalidValue)}
	}
	if len(s.Points) == 0 {
		return nil, &ScaleError{Series: s.Name, Index: -1, Err: ErrDivideByZero}
	}

	max := s.Points[0].Value
	for i, p := range s.Points {
		if p.Value < 0 {
			return nil, &ScaleError{Series: s.Name, Index: i, Err: ErrInvalidValue}
		}
		if p.Value > max {
			max = p.Value
		}
	}
	if max <= 0 {
		return nil, &ScaleError{Series: s.Name, Index: -1, Err: ErrDivideByZero}
	}

	k := maxSceneLength / max
	out := make([]Scaled, len(s.Points))
	for i, p := range s.Points {
		out[i] = Scaled{Value: p.Value, Length: p.Value * k}
	}
	return out, nil
}

// FormatValue prints integers with thousands separators ("2,237,500") and
// other values in their shortest form.
func FormatValue(v float64) string {
	if v != math.Trunc(v) || math.Abs(v) >= 1e15 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	digits := strconv.FormatInt(int64(math.Abs(v)), 10)
	var b strings.Builder
	if v < 0 {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
