package chart

import (
	"fmt"

	"github.com/ivlev/chart2video/internal/geometry"
	"github.com/ivlev/chart2video/internal/scene"
)

// BarChartSpec lays out one bar per series point along a horizontal axis.
type BarChartSpec struct {
	ID     string
	Series Series
	// MaxHeight is the scene height of the tallest bar.
	MaxHeight float64
	// AxisCenter and AxisLength place the baseline.
	AxisCenter geometry.Vec
	AxisLength float64
	// Spacing is the domain distance between ticks; bar i sits at i*Spacing
	// on a domain of [0, n*Spacing].
	Spacing     float64
	BarWidth    float64
	Fill        scene.Color
	FillOpacity float64
	// Colors overrides Fill per label.
	Colors        map[string]scene.Color
	AxisColor     scene.Color
	TextColor     scene.Color
	LabelFontSize float64
	ValueFontSize float64
	LabelGap      float64
	ValueGap      float64
	// Lift shifts the bars (not the axis) up after layout.
	Lift float64
}

// DefaultBarChart mirrors the transaction-type slide: 8 unit axis at y=-2,
// 5 unit tallest bar, labels 0.15 below and values 0.3 above each bar.
func DefaultBarChart(id string, s Series) BarChartSpec {
	return BarChartSpec{
		ID:            id,
		Series:        s,
		MaxHeight:     5,
		AxisCenter:    geometry.Vec{X: 0, Y: -2},
		AxisLength:    8,
		Spacing:       2,
		BarWidth:      0.6,
		Fill:          scene.GreyB,
		FillOpacity:   0.9,
		AxisColor:     scene.White,
		TextColor:     scene.White,
		LabelFontSize: 24,
		ValueFontSize: 24,
		LabelGap:      0.15,
		ValueGap:      0.3,
		Lift:          0.5,
	}
}

// Bar is one column: the rectangle, its label and value text, grouped.
type Bar struct {
	Group  scene.ID
	Rect   scene.ID
	Label  scene.ID
	Value  scene.ID
	Length float64
}

// BarChart holds the ids created by NewBarChart.
type BarChart struct {
	Axis      scene.ID
	AxisRange Axis
	Bars      []Bar
	// Group holds every bar column but not the axis.
	Group scene.ID
}

// NewBarChart scales the series and builds the chart objects in g. All
// objects start hidden.
func NewBarChart(g *scene.Graph, spec BarChartSpec) (*BarChart, error) {
	if spec.Series.Name == "" {
		spec.Series.Name = spec.ID
	}
	scaled, err := ScaleSeries(spec.Series, spec.MaxHeight)
	if err != nil {
		return nil, err
	}
	n := len(scaled)
	axisStart := spec.AxisCenter.X - spec.AxisLength/2
	axis, err := NewAxis(0, float64(n)*spec.Spacing, spec.AxisLength, axisStart)
	if err != nil {
		return nil, err
	}

	id := func(part string, i int) scene.ID {
		if i < 0 {
			return scene.ID(fmt.Sprintf("%s-%s", spec.ID, part))
		}
		return scene.ID(fmt.Sprintf("%s-%s-%d", spec.ID, part, i))
	}

	chart := &BarChart{Axis: id("axis", -1), AxisRange: axis}
	_, err = g.NewLine(chart.Axis,
		geometry.Vec{X: axisStart, Y: spec.AxisCenter.Y},
		geometry.Vec{X: axis.End(), Y: spec.AxisCenter.Y},
		scene.WithColor(spec.AxisColor))
	if err != nil {
		return nil, err
	}

	var columns []scene.ID
	for i, sc := range scaled {
		p := spec.Series.Points[i]
		fill := spec.Fill
		if c, ok := spec.Colors[p.Label]; ok {
			fill = c
		}
		bar := Bar{Rect: id("bar", i), Label: id("label", i), Value: id("value", i), Group: id("col", i), Length: sc.Length}

		if _, err := g.NewRect(bar.Rect, spec.BarWidth, sc.Length, scene.WithFill(fill, spec.FillOpacity), scene.WithStroke(fill, 0)); err != nil {
			return nil, err
		}
		// Place on the baseline, then slide along it to the tick.
		center, err := scene.Place(g, bar.Rect, chart.Axis, geometry.Up, 0)
		if err != nil {
			return nil, err
		}
		tick := axis.Map(float64(i) * spec.Spacing)
		if err := g.Shift(bar.Rect, geometry.Vec{X: tick - center.X}); err != nil {
			return nil, err
		}

		if _, err := g.NewText(bar.Label, p.Label, scene.WithFontSize(spec.LabelFontSize), scene.WithColor(spec.TextColor)); err != nil {
			return nil, err
		}
		if _, err := scene.Place(g, bar.Label, bar.Rect, geometry.Down, spec.LabelGap); err != nil {
			return nil, err
		}

		if _, err := g.NewText(bar.Value, FormatValue(p.Value), scene.WithFontSize(spec.ValueFontSize), scene.WithColor(spec.TextColor)); err != nil {
			return nil, err
		}
		top, err := g.Box(bar.Rect)
		if err != nil {
			return nil, err
		}
		if err := g.MoveTo(bar.Value, top.Edge(geometry.Up).Add(geometry.Up.Scale(spec.ValueGap))); err != nil {
			return nil, err
		}

		if _, err := g.NewGroup(bar.Group, bar.Rect, bar.Label, bar.Value); err != nil {
			return nil, err
		}
		columns = append(columns, bar.Group)
		chart.Bars = append(chart.Bars, bar)
	}

	chart.Group = scene.ID(spec.ID)
	if _, err := g.NewGroup(chart.Group, columns...); err != nil {
		return nil, err
	}
	if spec.Lift != 0 {
		if err := g.Shift(chart.Group, geometry.Up.Scale(spec.Lift)); err != nil {
			return nil, err
		}
	}
	return chart, nil
}
