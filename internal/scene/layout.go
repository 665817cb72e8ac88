package scene

import "github.com/ivlev/chart2video/internal/geometry"

// Place moves subject next to reference: subject's edge opposite to dir is
// put at reference's edge in dir, plus gap along dir. The result is computed
// once; later moves of reference do not drag subject along.
func Place(g *Graph, subject, reference ID, dir geometry.Direction, gap float64) (geometry.Vec, error) {
	ref, ok := g.Get(reference)
	if !ok {
		return geometry.Vec{}, &LayoutError{Op: "place", Subject: subject, Reference: reference, Err: ErrUnknownObject}
	}
	box, realized := g.box(ref)
	if !realized || box.Degenerate() {
		return geometry.Vec{}, &LayoutError{Op: "place", Subject: subject, Reference: reference, Err: ErrDegenerateReference}
	}
	return placeAgainst(g, "place", subject, reference, box.Edge(dir), dir, gap)
}

// PlaceAt is Place against a bare point, such as an axis tick.
func PlaceAt(g *Graph, subject ID, point geometry.Vec, dir geometry.Direction, gap float64) (geometry.Vec, error) {
	return placeAgainst(g, "place_at", subject, "", point, dir, gap)
}

func placeAgainst(g *Graph, op string, subject, reference ID, point geometry.Vec, dir geometry.Direction, gap float64) (geometry.Vec, error) {
	if gap < 0 {
		return geometry.Vec{}, &LayoutError{Op: op, Subject: subject, Reference: reference, Err: ErrNegativeGap}
	}
	o, ok := g.Get(subject)
	if !ok {
		return geometry.Vec{}, &LayoutError{Op: op, Subject: subject, Reference: reference, Err: ErrUnknownObject}
	}
	box, _ := g.box(o)
	target := point.Add(dir.Unit().Scale(gap))
	delta := target.Sub(box.Edge(dir.Scale(-1)))
	if err := g.Shift(subject, delta); err != nil {
		return geometry.Vec{}, err
	}
	return box.Center().Add(delta), nil
}

// PlaceInFrame pushes subject against the frame border in dir, keeping the
// other coordinate. buff is the distance left to the border.
func PlaceInFrame(g *Graph, subject ID, frame geometry.Box, dir geometry.Direction, buff float64) (geometry.Vec, error) {
	if buff < 0 {
		return geometry.Vec{}, &LayoutError{Op: "to_edge", Subject: subject, Err: ErrNegativeGap}
	}
	o, ok := g.Get(subject)
	if !ok {
		return geometry.Vec{}, &LayoutError{Op: "to_edge", Subject: subject, Err: ErrUnknownObject}
	}
	box, _ := g.box(o)
	target := frame.Edge(dir).Sub(dir.Scale(buff))
	delta := target.Sub(box.Edge(dir))
	if dir.X == 0 {
		delta.X = 0
	}
	if dir.Y == 0 {
		delta.Y = 0
	}
	if err := g.Shift(subject, delta); err != nil {
		return geometry.Vec{}, err
	}
	return box.Center().Add(delta), nil
}
