package geometry

import "math"

// Box is an axis-aligned bounding box in scene units.
type Box struct {
	Min Vec `yaml:"min"`
	Max Vec `yaml:"max"`
}

// BoxAround builds a box of the given size centered on c.
func BoxAround(c Vec, w, h float64) Box {
	return Box{
		Min: Vec{c.X - w/2, c.Y - h/2},
		Max: Vec{c.X + w/2, c.Y + h/2},
	}
}

// BoxOf returns the bounds of a set of points.
func BoxOf(points ...Vec) Box {
	if len(points) == 0 {
		return Box{}
	}
	b := Box{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}

func (b Box) Width() float64  { return b.Max.X - b.Min.X }
func (b Box) Height() float64 { return b.Max.Y - b.Min.Y }
func (b Box) Size() Vec       { return Vec{b.Width(), b.Height()} }

func (b Box) Center() Vec {
	return Vec{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}

// Degenerate reports a box with neither width nor height. A horizontal axis
// line has zero height but is still a usable reference.
func (b Box) Degenerate() bool {
	return b.Width() <= 0 && b.Height() <= 0
}

// Edge returns the point on the box boundary in direction d, measured from
// the center. Edge(Up) is the middle of the top side, Edge(UR) the corner.
func (b Box) Edge(d Direction) Vec {
	c := b.Center()
	return Vec{c.X + d.X*b.Width()/2, c.Y + d.Y*b.Height()/2}
}

// Union returns the smallest box containing both.
func (b Box) Union(o Box) Box {
	return Box{
		Min: Vec{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y)},
		Max: Vec{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y)},
	}
}

func (b Box) Translate(d Vec) Box {
	return Box{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}
