package chart

import (
	"fmt"

	"github.com/ivlev/chart2video/internal/geometry"
	"github.com/ivlev/chart2video/internal/scene"
)

// Range is a domain interval with its on-screen length.
type Range struct {
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Length float64 `yaml:"length"`
}

// AxesSpec describes an x/y axis pair centered on Center.
type AxesSpec struct {
	ID     string
	X, Y   Range
	Center geometry.Vec
	Color  scene.Color
}

// Axes is a pair of axis lines grouped under ID.
type Axes struct {
	ID    scene.ID
	XLine scene.ID
	YLine scene.ID
	X, Y  Axis
}

// NewAxes draws the x axis along the bottom and the y axis along the left
// of the plotting area.
func NewAxes(g *scene.Graph, spec AxesSpec) (*Axes, error) {
	x0 := spec.Center.X - spec.X.Length/2
	y0 := spec.Center.Y - spec.Y.Length/2
	ax, err := NewAxis(spec.X.Min, spec.X.Max, spec.X.Length, x0)
	if err != nil {
		return nil, err
	}
	ay, err := NewAxis(spec.Y.Min, spec.Y.Max, spec.Y.Length, y0)
	if err != nil {
		return nil, err
	}

	a := &Axes{
		ID:    scene.ID(spec.ID),
		XLine: scene.ID(spec.ID + "-x"),
		YLine: scene.ID(spec.ID + "-y"),
		X:     ax,
		Y:     ay,
	}
	if _, err := g.NewLine(a.XLine, geometry.Vec{X: x0, Y: y0}, geometry.Vec{X: ax.End(), Y: y0}, scene.WithColor(spec.Color)); err != nil {
		return nil, err
	}
	if _, err := g.NewLine(a.YLine, geometry.Vec{X: x0, Y: y0}, geometry.Vec{X: x0, Y: ay.End()}, scene.WithColor(spec.Color)); err != nil {
		return nil, err
	}
	if _, err := g.NewGroup(a.ID, a.XLine, a.YLine); err != nil {
		return nil, err
	}
	return a, nil
}

// LineSpec styles a plotted series.
type LineSpec struct {
	ID      string
	Points  []XY
	Color   scene.Color
	Dots    bool
	DotSize float64
}

// Plot is a plotted series: the polyline, its vertex dots, and a group of
// both.
type Plot struct {
	Group   scene.ID
	Line    scene.ID
	Dots    []scene.ID
	Clamped int
}

// NewPlot maps spec.Points through the axes and draws them. Points outside
// the axis ranges are clamped onto the boundary.
func NewPlot(g *scene.Graph, axes *Axes, spec LineSpec) (*Plot, error) {
	poly, err := PlotLine(spec.Points, axes.X, axes.Y)
	if err != nil {
		return nil, err
	}
	if len(poly.Points) < 2 {
		return nil, &ScaleError{Series: spec.ID, Index: -1, Err: fmt.Errorf("need two points, got %d: %w", len(poly.Points), ErrInvalidValue)}
	}
	p := &Plot{
		Group:   scene.ID(spec.ID),
		Line:    scene.ID(spec.ID + "-line"),
		Clamped: poly.Clamped,
	}
	if _, err := g.NewPolyline(p.Line, poly.Points, scene.WithColor(spec.Color)); err != nil {
		return nil, err
	}
	members := []scene.ID{p.Line}
	if spec.Dots {
		size := spec.DotSize
		if size <= 0 {
			size = 0.16
		}
		for i, v := range poly.Points {
			dot := scene.ID(fmt.Sprintf("%s-dot-%d", spec.ID, i))
			if _, err := g.NewCircle(dot, size, scene.WithColor(spec.Color), scene.WithPosition(v)); err != nil {
				return nil, err
			}
			p.Dots = append(p.Dots, dot)
			members = append(members, dot)
		}
	}
	if _, err := g.NewGroup(p.Group, members...); err != nil {
		return nil, err
	}
	return p, nil
}
