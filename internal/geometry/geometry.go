package geometry

import (
	"fmt"
	"math"
)

// Vec is a point or offset in scene units. Y grows upwards.
type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v Vec) Add(o Vec) Vec       { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec       { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }
func (v Vec) Mul(o Vec) Vec       { return Vec{v.X * o.X, v.Y * o.Y} }
func (v Vec) Len() float64        { return math.Hypot(v.X, v.Y) }

// Unit returns v scaled to length 1, or the zero vector for zero input.
func (v Vec) Unit() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return v.Scale(1 / l)
}

// Lerp interpolates between v and o.
func (v Vec) Lerp(o Vec, t float64) Vec {
	return Vec{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Rotate rotates v counter-clockwise by angle radians around the origin.
func (v Vec) Rotate(angle float64) Vec {
	if angle == 0 {
		return v
	}
	s, c := math.Sincos(angle)
	return Vec{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

func (v Vec) String() string { return fmt.Sprintf("(%.4g, %.4g)", v.X, v.Y) }

// Direction is a placement direction. Diagonals are not normalized, so
// Box.Edge(UR) is the upper-right corner.
type Direction = Vec

var (
	Origin = Direction{}
	Up     = Direction{X: 0, Y: 1}
	Down   = Direction{X: 0, Y: -1}
	Left   = Direction{X: -1, Y: 0}
	Right  = Direction{X: 1, Y: 0}
	UL     = Direction{X: -1, Y: 1}
	UR     = Direction{X: 1, Y: 1}
	DL     = Direction{X: -1, Y: -1}
	DR     = Direction{X: 1, Y: -1}
)

var directionNames = map[string]Direction{
	"origin": Origin,
	"up":     Up,
	"down":   Down,
	"left":   Left,
	"right":  Right,
	"ul":     UL,
	"ur":     UR,
	"dl":     DL,
	"dr":     DR,
}

// ParseDirection resolves names like "up" or "dl".
func ParseDirection(name string) (Direction, error) {
	d, ok := directionNames[name]
	if !ok {
		return Direction{}, fmt.Errorf("unknown direction %q", name)
	}
	return d, nil
}
