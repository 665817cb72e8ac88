package scene

import (
	"fmt"
	"image"
	"sort"

	"github.com/ivlev/chart2video/internal/geometry"
)

// Defaults are applied when an object is created; options override them.
type Defaults struct {
	FontSize    float64
	TextColor   Color
	Fill        Color
	Stroke      Color
	StrokeWidth float64
}

// DefaultStyle matches a dark-background slide deck.
func DefaultStyle() Defaults {
	return Defaults{
		FontSize:    48,
		TextColor:   White,
		Fill:        White,
		Stroke:      White,
		StrokeWidth: 0.04,
	}
}

// Graph owns every visual object of a timeline. Groups own their members;
// an object belongs to at most one group.
type Graph struct {
	Defaults Defaults

	objects map[ID]*Object
	seq     int
	auto    map[Kind]int
}

func NewGraph(d Defaults) *Graph {
	return &Graph{
		Defaults: d,
		objects:  make(map[ID]*Object),
		auto:     make(map[Kind]int),
	}
}

// Len is the number of live objects, hidden ones included.
func (g *Graph) Len() int { return len(g.objects) }

func (g *Graph) Has(id ID) bool {
	_, ok := g.objects[id]
	return ok
}

func (g *Graph) Get(id ID) (*Object, bool) {
	o, ok := g.objects[id]
	return o, ok
}

func (g *Graph) lookup(op string, id ID) (*Object, error) {
	o, ok := g.objects[id]
	if !ok {
		return nil, &LayoutError{Op: op, Subject: id, Err: ErrUnknownObject}
	}
	return o, nil
}

// Objects returns live objects ordered by Z, then creation order.
func (g *Graph) Objects() []*Object {
	out := make([]*Object, 0, len(g.objects))
	for _, o := range g.objects {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Z != out[j].Z {
			return out[i].Z < out[j].Z
		}
		return out[i].seq < out[j].seq
	})
	return out
}

// Add registers o, assigning "<kind>-<n>" when it has no id.
func (g *Graph) Add(o *Object) error {
	if o.ID == "" {
		for {
			g.auto[o.Shape.Kind]++
			o.ID = ID(fmt.Sprintf("%s-%d", o.Shape.Kind, g.auto[o.Shape.Kind]))
			if !g.Has(o.ID) {
				break
			}
		}
	}
	if g.Has(o.ID) {
		return &LayoutError{Op: "add", Subject: o.ID, Err: ErrDuplicateID}
	}
	g.seq++
	o.seq = g.seq
	g.objects[o.ID] = o
	return nil
}

func (g *Graph) create(id ID, shape Shape, style Style, opts []Option) (*Object, error) {
	o := &Object{
		ID:        id,
		Shape:     shape,
		Transform: identityTransform(),
		Style:     style,
	}
	for _, opt := range opts {
		opt(o)
	}
	if err := g.Add(o); err != nil {
		return nil, err
	}
	return o, nil
}

func (g *Graph) shapeStyle() Style {
	return Style{
		Fill:        g.Defaults.Fill,
		Stroke:      g.Defaults.Stroke,
		StrokeWidth: g.Defaults.StrokeWidth,
		Opacity:     1,
	}
}

// NewRect creates an unfilled rectangle centered at the origin.
func (g *Graph) NewRect(id ID, w, h float64, opts ...Option) (*Object, error) {
	return g.create(id, Shape{Kind: KindRectangle, Width: w, Height: h}, g.shapeStyle(), opts)
}

func (g *Graph) NewSquare(id ID, side float64, opts ...Option) (*Object, error) {
	return g.NewRect(id, side, side, opts...)
}

// NewCircle creates a filled disc, used for chart vertex dots.
func (g *Graph) NewCircle(id ID, diameter float64, opts ...Option) (*Object, error) {
	style := g.shapeStyle()
	style.FillOpacity = 1
	return g.create(id, Shape{Kind: KindCircle, Width: diameter, Height: diameter}, style, opts)
}

// NewLine creates a straight segment between two absolute points.
func (g *Graph) NewLine(id ID, from, to geometry.Vec, opts ...Option) (*Object, error) {
	return g.NewPolyline(id, []geometry.Vec{from, to}, opts...)
}

// NewPolyline creates an open polyline through absolute points. The points
// are stored relative to their bounding-box center.
func (g *Graph) NewPolyline(id ID, points []geometry.Vec, opts ...Option) (*Object, error) {
	center := geometry.BoxOf(points...).Center()
	local := make([]geometry.Vec, len(points))
	for i, p := range points {
		local[i] = p.Sub(center)
	}
	o, err := g.create(id, Shape{Kind: KindLine, Points: local}, g.shapeStyle(), append([]Option{WithPosition(center)}, opts...))
	return o, err
}

// NewText creates a text object using the default font size and colour.
func (g *Graph) NewText(id ID, text string, opts ...Option) (*Object, error) {
	style := Style{
		Fill:        g.Defaults.TextColor,
		FillOpacity: 1,
		Stroke:      g.Defaults.TextColor,
		Opacity:     1,
	}
	return g.create(id, Shape{Kind: KindText, Text: text, FontSize: g.Defaults.FontSize}, style, opts)
}

// NewImage creates a raster object stretched to w×h scene units.
func (g *Graph) NewImage(id ID, img image.Image, w, h float64, opts ...Option) (*Object, error) {
	style := Style{FillOpacity: 1, Opacity: 1}
	return g.create(id, Shape{Kind: KindImage, Width: w, Height: h, Image: img}, style, opts)
}

// NewGroup creates a group and attaches members in order.
func (g *Graph) NewGroup(id ID, members ...ID) (*Object, error) {
	for _, m := range members {
		if _, err := g.lookup("group", m); err != nil {
			return nil, err
		}
	}
	o, err := g.create(id, Shape{Kind: KindGroup}, Style{Opacity: 1}, nil)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		// A fresh group has no ancestors, so attaching cannot cycle.
		if err := g.Attach(o.ID, m); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Attach moves child into parent, detaching it from its previous group.
func (g *Graph) Attach(parent, child ID) error {
	p, err := g.lookup("attach", parent)
	if err != nil {
		return err
	}
	c, err := g.lookup("attach", child)
	if err != nil {
		return err
	}
	if p.Shape.Kind != KindGroup {
		return &LayoutError{Op: "attach", Subject: child, Reference: parent, Err: ErrNotGroup}
	}
	for a := p; a != nil; a = g.objects[a.parent] {
		if a.ID == child {
			return &LayoutError{Op: "attach", Subject: child, Reference: parent, Err: ErrCycle}
		}
	}
	g.detach(c)
	c.parent = parent
	p.children = append(p.children, child)
	return nil
}

func (g *Graph) detach(o *Object) {
	if o.parent == "" {
		return
	}
	if p, ok := g.objects[o.parent]; ok {
		for i, c := range p.children {
			if c == o.ID {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	o.parent = ""
}

// Remove destroys id and, for groups, every member.
func (g *Graph) Remove(id ID) error {
	o, err := g.lookup("remove", id)
	if err != nil {
		return err
	}
	g.detach(o)
	g.removeTree(o)
	return nil
}

func (g *Graph) removeTree(o *Object) {
	for _, c := range o.children {
		if child, ok := g.objects[c]; ok {
			g.removeTree(child)
		}
	}
	delete(g.objects, o.ID)
}

// Contains reports whether id is ancestor or one of its descendants.
func (g *Graph) Contains(ancestor, id ID) bool {
	for o, ok := g.objects[id]; ok; o, ok = g.objects[o.parent] {
		if o.ID == ancestor {
			return true
		}
	}
	return false
}

// Walk visits id and its descendants depth-first.
func (g *Graph) Walk(id ID, fn func(*Object)) error {
	o, err := g.lookup("walk", id)
	if err != nil {
		return err
	}
	g.walk(o, fn)
	return nil
}

func (g *Graph) walk(o *Object, fn func(*Object)) {
	fn(o)
	for _, c := range o.children {
		if child, ok := g.objects[c]; ok {
			g.walk(child, fn)
		}
	}
}

// Box returns the committed bounding box; groups recompute the union of
// their members on every call.
func (g *Graph) Box(id ID) (geometry.Box, error) {
	o, err := g.lookup("box", id)
	if err != nil {
		return geometry.Box{}, err
	}
	b, _ := g.box(o)
	return b, nil
}

// box returns the box and whether the object has any geometry at all.
func (g *Graph) box(o *Object) (geometry.Box, bool) {
	if o.Shape.Kind != KindGroup {
		return o.localBox(), true
	}
	var out geometry.Box
	found := false
	for _, c := range o.children {
		child, ok := g.objects[c]
		if !ok {
			continue
		}
		b, ok := g.box(child)
		if !ok {
			continue
		}
		if !found {
			out, found = b, true
			continue
		}
		out = out.Union(b)
	}
	return out, found
}

// Shift translates id, or every member of a group.
func (g *Graph) Shift(id ID, d geometry.Vec) error {
	o, err := g.lookup("shift", id)
	if err != nil {
		return err
	}
	g.walk(o, func(m *Object) {
		if m.Shape.Kind != KindGroup {
			m.Transform.Position = m.Transform.Position.Add(d)
		}
	})
	return nil
}

// MoveTo shifts id so its box center lands on p.
func (g *Graph) MoveTo(id ID, p geometry.Vec) error {
	b, err := g.Box(id)
	if err != nil {
		return err
	}
	return g.Shift(id, p.Sub(b.Center()))
}

// SetVisible shows or hides id together with its members.
func (g *Graph) SetVisible(id ID, visible bool) error {
	o, err := g.lookup("show", id)
	if err != nil {
		return err
	}
	g.walk(o, func(m *Object) { m.Visible = visible })
	return nil
}
