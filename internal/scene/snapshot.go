package scene

import "github.com/ivlev/chart2video/internal/geometry"

// Overlay is a temporary modification of an object while a beat runs.
// Overlays never touch the graph; they are folded into a Snapshot.
type Overlay struct {
	Opacity float64      // multiplier
	Offset  geometry.Vec // added after scaling
	Scale   geometry.Vec // multiplier around Anchor
	Anchor  geometry.Vec
	Reveal  float64 // fraction of stroke or text drawn
	// Show renders the object even though it is not yet on stage.
	Show  bool
	Blend *Blend
}

// Blend pulls colours toward a target style.
type Blend struct {
	Style  Style
	Amount float64
}

// Identity is the overlay that changes nothing.
func Identity() Overlay {
	return Overlay{Opacity: 1, Scale: geometry.Vec{X: 1, Y: 1}, Reveal: 1}
}

// Resolved is the fully computed state of one object at a sample time.
type Resolved struct {
	ID        ID        `yaml:"id"`
	Kind      Kind      `yaml:"kind"`
	Transform Transform `yaml:"transform"`
	Style     Style     `yaml:"style"`
	Reveal    float64   `yaml:"reveal"`
	Z         int       `yaml:"z"`
	Shape     Shape     `yaml:"shape"`
}

// Box is the resolved bounding box.
func (r Resolved) Box() geometry.Box {
	o := Object{Shape: r.Shape, Transform: r.Transform}
	return o.localBox()
}

// Snapshot is every on-stage object resolved at one clock time.
type Snapshot struct {
	Time    float64    `yaml:"time"`
	Objects []Resolved `yaml:"objects"`
}

func (o Overlay) apply(r *Resolved) {
	t := &r.Transform
	t.Position = o.Anchor.Add(t.Position.Sub(o.Anchor).Mul(o.Scale)).Add(o.Offset)
	t.Scale = t.Scale.Mul(o.Scale)
	r.Style.Opacity *= o.Opacity
	r.Reveal *= o.Reveal
	if o.Blend != nil {
		a := o.Blend.Amount
		r.Style.Fill = r.Style.Fill.Lerp(o.Blend.Style.Fill, a)
		r.Style.Stroke = r.Style.Stroke.Lerp(o.Blend.Style.Stroke, a)
		r.Style.FillOpacity += (o.Blend.Style.FillOpacity - r.Style.FillOpacity) * a
		r.Style.StrokeWidth += (o.Blend.Style.StrokeWidth - r.Style.StrokeWidth) * a
	}
}

// Resolve builds a snapshot from the committed graph plus overlays keyed by
// target id. Overlays on a group apply to all its members, innermost first.
// Groups themselves are structural and do not appear in the output.
func (g *Graph) Resolve(at float64, overlays map[ID][]Overlay) Snapshot {
	snap := Snapshot{Time: at}
	for _, o := range g.Objects() {
		if o.Shape.Kind == KindGroup {
			continue
		}
		var chain []Overlay
		for a := o; a != nil; a = g.objects[a.parent] {
			chain = append(chain, overlays[a.ID]...)
		}

		visible := o.Visible
		for _, ov := range chain {
			if ov.Show {
				visible = true
			}
		}
		if !visible {
			continue
		}

		r := Resolved{
			ID:        o.ID,
			Kind:      o.Shape.Kind,
			Transform: o.Transform,
			Style:     o.Style,
			Reveal:    1,
			Z:         o.Z,
			Shape:     o.Shape,
		}
		for _, ov := range chain {
			ov.apply(&r)
		}
		snap.Objects = append(snap.Objects, r)
	}
	return snap
}
