package scene

import (
	"image"
	"math"

	"github.com/ivlev/chart2video/internal/geometry"
)

// ID identifies an object inside one Graph.
type ID string

// Kind is the shape family of an object.
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindLine      Kind = "line"
	KindText      Kind = "text"
	KindImage     Kind = "image"
	KindGroup     Kind = "group"
)

// Shape describes geometry in local, unscaled scene units.
type Shape struct {
	Kind Kind `yaml:"kind"`
	// Width and Height size rectangles, circles (diameter) and images.
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
	// Points is a polyline relative to the object's position.
	Points   []geometry.Vec `yaml:"points,omitempty"`
	Text     string         `yaml:"text,omitempty"`
	FontSize float64        `yaml:"font_size,omitempty"`
	Image    image.Image    `yaml:"-"`
}

// Transform places a shape in the scene. Position is the shape's center.
type Transform struct {
	Position geometry.Vec `yaml:"position"`
	Scale    geometry.Vec `yaml:"scale"`
	Rotation float64      `yaml:"rotation,omitempty"`
}

func identityTransform() Transform {
	return Transform{Scale: geometry.Vec{X: 1, Y: 1}}
}

// Style is the paint state of an object.
type Style struct {
	Fill        Color   `yaml:"fill"`
	FillOpacity float64 `yaml:"fill_opacity"`
	Stroke      Color   `yaml:"stroke"`
	StrokeWidth float64 `yaml:"stroke_width"`
	Opacity     float64 `yaml:"opacity"`
}

// Object is a visual object owned by a Graph.
type Object struct {
	ID        ID
	Shape     Shape
	Transform Transform
	Style     Style
	Z         int
	Visible   bool

	seq      int
	parent   ID
	children []ID
}

// Parent returns the owning group, or "" for top-level objects.
func (o *Object) Parent() ID { return o.parent }

// Children returns a copy of a group's member ids.
func (o *Object) Children() []ID {
	return append([]ID(nil), o.children...)
}

// localBox is the object's own box from shape and transform. Groups have
// no local geometry.
func (o *Object) localBox() geometry.Box {
	t := o.Transform
	switch o.Shape.Kind {
	case KindLine:
		pts := make([]geometry.Vec, len(o.Shape.Points))
		for i, p := range o.Shape.Points {
			pts[i] = p.Mul(t.Scale).Rotate(t.Rotation).Add(t.Position)
		}
		return geometry.BoxOf(pts...)
	case KindText:
		w, h := TextExtent(o.Shape.Text, o.Shape.FontSize)
		return rotatedBox(t, w, h)
	default:
		return rotatedBox(t, o.Shape.Width, o.Shape.Height)
	}
}

func rotatedBox(t Transform, w, h float64) geometry.Box {
	w, h = w*math.Abs(t.Scale.X), h*math.Abs(t.Scale.Y)
	if t.Rotation == 0 {
		return geometry.BoxAround(t.Position, w, h)
	}
	corners := []geometry.Vec{{X: -w / 2, Y: -h / 2}, {X: w / 2, Y: -h / 2}, {X: w / 2, Y: h / 2}, {X: -w / 2, Y: h / 2}}
	for i, c := range corners {
		corners[i] = c.Rotate(t.Rotation).Add(t.Position)
	}
	return geometry.BoxOf(corners...)
}

// Option customizes an object at creation time, after graph defaults.
type Option func(*Object)

func WithFill(c Color, opacity float64) Option {
	return func(o *Object) {
		o.Style.Fill = c
		o.Style.FillOpacity = opacity
	}
}

func WithStroke(c Color, width float64) Option {
	return func(o *Object) {
		o.Style.Stroke = c
		o.Style.StrokeWidth = width
	}
}

// WithColor sets both fill and stroke, the way text and lines are tinted.
func WithColor(c Color) Option {
	return func(o *Object) {
		o.Style.Fill = c
		o.Style.Stroke = c
	}
}

func WithOpacity(v float64) Option {
	return func(o *Object) { o.Style.Opacity = v }
}

func WithFontSize(size float64) Option {
	return func(o *Object) { o.Shape.FontSize = size }
}

func WithZ(z int) Option {
	return func(o *Object) { o.Z = z }
}

func WithPosition(p geometry.Vec) Option {
	return func(o *Object) { o.Transform.Position = p }
}

func WithRotation(angle float64) Option {
	return func(o *Object) { o.Transform.Rotation = angle }
}

// Shown puts the object on stage immediately instead of waiting for an
// introducing animation.
func Shown() Option {
	return func(o *Object) { o.Visible = true }
}
