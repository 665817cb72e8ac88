package effects

import (
	"fmt"

	"github.com/ivlev/chart2video/internal/geometry"
	"github.com/ivlev/chart2video/internal/scene"
)

// Binding is a primitive resolved against the committed graph at the
// moment its beat starts. Overlays is a pure function of progress; only
// Settle touches the graph.
type Binding struct {
	prim     Primitive
	ease     Easing
	overlays func(e float64) map[scene.ID]scene.Overlay
	settle   func(g *scene.Graph) error
}

// Bind validates p and captures the geometry it animates from.
func (p Primitive) Bind(g *scene.Graph) (*Binding, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	ease, err := LookupEasing(p.Easing)
	if err != nil {
		return nil, err
	}
	from, err := g.Box(p.Target)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", p.Kind, err)
	}
	b := &Binding{prim: p, ease: ease}
	show := func(g *scene.Graph) error { return g.SetVisible(p.Target, true) }

	switch p.Kind {
	case KindFadeIn:
		b.overlays = func(e float64) map[scene.ID]scene.Overlay {
			ov := scene.Identity()
			ov.Show = true
			ov.Opacity = e
			ov.Offset = p.Shift.Scale(-(1 - e))
			return map[scene.ID]scene.Overlay{p.Target: ov}
		}
		b.settle = show

	case KindFadeOut:
		b.overlays = func(e float64) map[scene.ID]scene.Overlay {
			ov := scene.Identity()
			ov.Opacity = 1 - e
			ov.Offset = p.Shift.Scale(e)
			return map[scene.ID]scene.Overlay{p.Target: ov}
		}
		b.settle = func(g *scene.Graph) error { return g.SetVisible(p.Target, false) }

	case KindGrowFromEdge:
		anchor := from.Edge(p.Edge)
		b.overlays = func(e float64) map[scene.ID]scene.Overlay {
			ov := scene.Identity()
			ov.Show = true
			ov.Anchor = anchor
			ov.Scale = geometry.Vec{X: e, Y: e}
			return map[scene.ID]scene.Overlay{p.Target: ov}
		}
		b.settle = show

	case KindCreate, KindWrite:
		b.overlays = func(e float64) map[scene.ID]scene.Overlay {
			ov := scene.Identity()
			ov.Show = true
			ov.Reveal = e
			return map[scene.ID]scene.Overlay{p.Target: ov}
		}
		b.settle = show

	case KindMove:
		delta := p.Position.Sub(from.Center())
		b.overlays = func(e float64) map[scene.ID]scene.Overlay {
			ov := scene.Identity()
			ov.Offset = delta.Scale(e)
			return map[scene.ID]scene.Overlay{p.Target: ov}
		}
		b.settle = func(g *scene.Graph) error { return g.Shift(p.Target, delta) }

	case KindReplacementTransform:
		if err := b.bindReplacement(g, from); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *Binding) bindReplacement(g *scene.Graph, from geometry.Box) error {
	p := b.prim
	to, err := g.Box(p.To)
	if err != nil {
		return fmt.Errorf("bind %s: %w", p.Kind, err)
	}
	if g.Contains(p.Target, p.To) || g.Contains(p.To, p.Target) {
		return fmt.Errorf("%s %s -> %s: one contains the other: %w", p.Kind, p.Target, p.To, ErrInvalidPrimitive)
	}

	fromC, toC := from.Center(), to.Center()
	grow := ratio(to.Size(), from.Size())
	shrink := ratio(from.Size(), to.Size())

	// Colours only blend between two leaf shapes; groups carry no paint.
	src, _ := g.Get(p.Target)
	dst, _ := g.Get(p.To)
	leaves := src.Shape.Kind != scene.KindGroup && dst.Shape.Kind != scene.KindGroup
	srcStyle, dstStyle := src.Style, dst.Style

	b.overlays = func(e float64) map[scene.ID]scene.Overlay {
		out := scene.Identity()
		out.Show = true
		out.Opacity = 1 - e
		out.Anchor = fromC
		out.Scale = geometry.Vec{X: lerp(1, grow.X, e), Y: lerp(1, grow.Y, e)}
		out.Offset = toC.Sub(fromC).Scale(e)

		in := scene.Identity()
		in.Show = true
		in.Opacity = e
		in.Anchor = toC
		in.Scale = geometry.Vec{X: lerp(shrink.X, 1, e), Y: lerp(shrink.Y, 1, e)}
		in.Offset = fromC.Sub(toC).Scale(1 - e)

		if leaves {
			out.Blend = &scene.Blend{Style: dstStyle, Amount: e}
			in.Blend = &scene.Blend{Style: srcStyle, Amount: 1 - e}
		}
		return map[scene.ID]scene.Overlay{p.Target: out, p.To: in}
	}
	b.settle = func(g *scene.Graph) error {
		if err := g.Remove(p.Target); err != nil {
			return err
		}
		return g.SetVisible(p.To, true)
	}
	return nil
}

// ratio is a/b per axis, 1 where b has no extent.
func ratio(a, b geometry.Vec) geometry.Vec {
	r := geometry.Vec{X: 1, Y: 1}
	if b.X > 0 {
		r.X = a.X / b.X
	}
	if b.Y > 0 {
		r.Y = a.Y / b.Y
	}
	return r
}

func (b *Binding) Primitive() Primitive { return b.prim }

// Overlays returns the per-target overlays at linear progress t. The
// easing curve is applied here.
func (b *Binding) Overlays(t float64) map[scene.ID]scene.Overlay {
	return b.overlays(b.ease(clamp01(t)))
}

// Settle commits the end state to the graph.
func (b *Binding) Settle(g *scene.Graph) error {
	if err := b.settle(g); err != nil {
		return fmt.Errorf("settle %s %s: %w", b.prim.Kind, b.prim.Target, err)
	}
	return nil
}

// Successor reports the id migration a ReplacementTransform performs.
func (b *Binding) Successor() (from, to scene.ID, ok bool) {
	if b.prim.Kind != KindReplacementTransform {
		return "", "", false
	}
	return b.prim.Target, b.prim.To, true
}
