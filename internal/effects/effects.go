package effects

import (
	"fmt"
	"math"

	"github.com/ivlev/chart2video/internal/geometry"
	"github.com/ivlev/chart2video/internal/scene"
)

// Kind names a primitive.
type Kind string

const (
	KindFadeIn               Kind = "fade_in"
	KindFadeOut              Kind = "fade_out"
	KindGrowFromEdge         Kind = "grow_from_edge"
	KindCreate               Kind = "create"
	KindWrite                Kind = "write"
	KindReplacementTransform Kind = "replacement_transform"
	KindMove                 Kind = "move"
)

// DefaultDuration is the run time of a primitive built without WithDuration.
const DefaultDuration = 1.0

// Primitive is a pure description of one animation. It holds ids, not
// objects; geometry is read from the graph when the beat starts.
type Primitive struct {
	Kind     Kind     `yaml:"kind"`
	Target   scene.ID `yaml:"target"`
	To       scene.ID `yaml:"to,omitempty"`
	Duration float64  `yaml:"duration"`
	// Easing is a curve name; empty means the director default.
	Easing   string             `yaml:"easing,omitempty"`
	Shift    geometry.Vec       `yaml:"shift,omitempty"`
	Edge     geometry.Direction `yaml:"edge,omitempty"`
	Position geometry.Vec       `yaml:"position,omitempty"`
}

type Option func(*Primitive)

func WithDuration(d float64) Option {
	return func(p *Primitive) { p.Duration = d }
}

func WithEasing(name string) Option {
	return func(p *Primitive) { p.Easing = name }
}

func build(p Primitive, opts []Option) Primitive {
	p.Duration = DefaultDuration
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// FadeIn brings target on stage, sliding along shift while it appears.
func FadeIn(target scene.ID, shift geometry.Vec, opts ...Option) Primitive {
	return build(Primitive{Kind: KindFadeIn, Target: target, Shift: shift}, opts)
}

// FadeOut takes target off stage, drifting along shift.
func FadeOut(target scene.ID, shift geometry.Vec, opts ...Option) Primitive {
	return build(Primitive{Kind: KindFadeOut, Target: target, Shift: shift}, opts)
}

// GrowFromEdge scales target up from the given edge of its box.
func GrowFromEdge(target scene.ID, edge geometry.Direction, opts ...Option) Primitive {
	return build(Primitive{Kind: KindGrowFromEdge, Target: target, Edge: edge}, opts)
}

// Create draws strokes progressively.
func Create(target scene.ID, opts ...Option) Primitive {
	return build(Primitive{Kind: KindCreate, Target: target}, opts)
}

// Write reveals text progressively.
func Write(target scene.ID, opts ...Option) Primitive {
	return build(Primitive{Kind: KindWrite, Target: target}, opts)
}

// ReplacementTransform morphs from into to. When the beat settles, from is
// removed from the graph and to takes its place.
func ReplacementTransform(from, to scene.ID, opts ...Option) Primitive {
	return build(Primitive{Kind: KindReplacementTransform, Target: from, To: to}, opts)
}

// Move slides target so its box center ends at position.
func Move(target scene.ID, position geometry.Vec, opts ...Option) Primitive {
	return build(Primitive{Kind: KindMove, Target: target, Position: position}, opts)
}

// Validate checks the primitive without looking at a graph.
func (p Primitive) Validate() error {
	switch p.Kind {
	case KindFadeIn, KindFadeOut, KindGrowFromEdge, KindCreate, KindWrite, KindMove:
	case KindReplacementTransform:
		if p.To == "" || p.To == p.Target {
			return fmt.Errorf("%s %s -> %q: %w", p.Kind, p.Target, p.To, ErrInvalidPrimitive)
		}
	default:
		return fmt.Errorf("%q: %w", p.Kind, ErrUnknownKind)
	}
	if p.Target == "" {
		return fmt.Errorf("%s without target: %w", p.Kind, ErrInvalidPrimitive)
	}
	if p.Duration < 0 || math.IsNaN(p.Duration) || math.IsInf(p.Duration, 0) {
		return fmt.Errorf("%s %s duration %v: %w", p.Kind, p.Target, p.Duration, ErrInvalidPrimitive)
	}
	if _, err := LookupEasing(p.Easing); err != nil {
		return err
	}
	return nil
}

// Property is an animated attribute of an object.
type Property string

const (
	PropOpacity  Property = "opacity"
	PropPosition Property = "position"
	PropScale    Property = "scale"
	PropReveal   Property = "reveal"
	PropStyle    Property = "style"
)

// Access is one (target, property) pair a primitive writes.
type Access struct {
	Target   scene.ID
	Property Property
}

// Writes lists what the primitive changes while it runs. Two primitives in
// one beat must not write the same pair.
func (p Primitive) Writes() []Access {
	w := func(id scene.ID, props ...Property) []Access {
		out := make([]Access, len(props))
		for i, pr := range props {
			out[i] = Access{Target: id, Property: pr}
		}
		return out
	}
	switch p.Kind {
	case KindFadeIn, KindFadeOut:
		if p.Shift != (geometry.Vec{}) {
			return w(p.Target, PropOpacity, PropPosition)
		}
		return w(p.Target, PropOpacity)
	case KindGrowFromEdge:
		return w(p.Target, PropScale)
	case KindCreate, KindWrite:
		return w(p.Target, PropReveal)
	case KindMove:
		return w(p.Target, PropPosition)
	case KindReplacementTransform:
		return append(w(p.Target, PropOpacity, PropPosition, PropScale, PropStyle),
			w(p.To, PropOpacity, PropPosition, PropScale)...)
	}
	return nil
}
