package script

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/ivlev/chart2video/internal/analyzer"
	"github.com/ivlev/chart2video/internal/chart"
	"github.com/ivlev/chart2video/internal/config"
	"github.com/ivlev/chart2video/internal/director"
	"github.com/ivlev/chart2video/internal/effects"
	"github.com/ivlev/chart2video/internal/geometry"
	"github.com/ivlev/chart2video/internal/scene"
	"github.com/ivlev/chart2video/internal/source"
)

// Op names.
const (
	OpRect            = "rect"
	OpSquare          = "square"
	OpLine            = "line"
	OpText            = "text"
	OpImage           = "image"
	OpQR              = "qr"
	OpGroup           = "group"
	OpPlace           = "place"
	OpPlaceInFrame    = "place_in_frame"
	OpShift           = "shift"
	OpMoveTo          = "move_to"
	OpBarChart        = "bar_chart"
	OpLineChart       = "line_chart"
	OpConfusionMatrix = "confusion_matrix"
	OpPlay            = "play"
	OpWait            = "wait"
	OpRemove          = "remove"
)

// DefaultFrameBuff is the margin left by place_in_frame.
const DefaultFrameBuff = 0.5

// DefaultTrimPad is the margin in pixels kept around trimmed images.
const DefaultTrimPad = 8

// Stage is the graph and director a script replays into. Every op first
// plays out the queued beats through the emitter, so layout ops see the
// settled state of earlier animations.
type Stage struct {
	Config   *config.Config
	Graph    *scene.Graph
	Director *director.Director
	Frame    geometry.Box
	// BaseDir resolves relative image paths.
	BaseDir string
	// Series collects chart data in script order, for previews.
	Series []chart.Series

	emit director.Emitter
}

// NewStage builds an empty graph and director from cfg. A nil emitter
// discards snapshots.
func NewStage(cfg *config.Config, em director.Emitter) (*Stage, error) {
	g := scene.NewGraph(cfg.Defaults())
	d, err := director.New(g,
		director.WithRate(float64(cfg.FPS)),
		director.WithFrameAlignment(cfg.FrameAligned),
		director.WithEasing(cfg.Easing),
	)
	if err != nil {
		return nil, err
	}
	if em == nil {
		em = director.EmitterFunc(func(context.Context, scene.Snapshot) error { return nil })
	}
	return &Stage{
		Config:   cfg,
		Graph:    g,
		Director: d,
		Frame:    geometry.BoxAround(geometry.Origin, cfg.FrameWidth, cfg.FrameHeight),
		emit:     em,
	}, nil
}

// Replay applies every op in order and plays out the remaining beats. The
// director is left open; call Finish to close the timeline.
func Replay(ctx context.Context, s *Script, st *Stage) error {
	for i, op := range s.Ops {
		if err := st.Apply(ctx, op); err != nil {
			return &OpError{Index: i, Op: op.Op, Err: err}
		}
	}
	return st.Director.Drain(ctx, st.emit)
}

// Finish drains and finalizes the director.
func (st *Stage) Finish(ctx context.Context) error {
	return st.Director.Run(ctx, st.emit)
}

// Apply runs one op.
func (st *Stage) Apply(ctx context.Context, op Op) error {
	h, ok := handlers[op.Op]
	if !ok {
		return fmt.Errorf("%q: %w", op.Op, ErrUnknownOp)
	}
	if st.Director.Finalized() {
		return fmt.Errorf("%q: %w", op.Op, director.ErrFinalized)
	}
	if !st.Director.Done() {
		if err := st.Director.Drain(ctx, st.emit); err != nil {
			return err
		}
	}
	return h(st, op)
}

// reference is the id a place op measures against. With follow set, an id
// retired by a replacement stands for the object that replaced it.
func (st *Stage) reference(id string, follow bool) scene.ID {
	sid := scene.ID(id)
	if !follow || st.Graph.Has(sid) {
		return sid
	}
	return st.Director.Successor(sid)
}

type handler func(st *Stage, op Op) error

func handle[T any](fn func(st *Stage, args T) error) handler {
	return func(st *Stage, op Op) error {
		var args T
		if err := op.Decode(&args); err != nil {
			return fmt.Errorf("bad args: %w", err)
		}
		return fn(st, args)
	}
}

var handlers = map[string]handler{
	OpRect:            handle(applyRect),
	OpSquare:          handle(applySquare),
	OpLine:            handle(applyLine),
	OpText:            handle(applyText),
	OpImage:           handle(applyImage),
	OpQR:              handle(applyQR),
	OpGroup:           handle(applyGroup),
	OpPlace:           handle(applyPlace),
	OpPlaceInFrame:    handle(applyPlaceInFrame),
	OpShift:           handle(applyShift),
	OpMoveTo:          handle(applyMoveTo),
	OpBarChart:        handle(applyBarChart),
	OpLineChart:       handle(applyLineChart),
	OpConfusionMatrix: handle(applyMatrix),
	OpPlay:            handle(applyPlay),
	OpWait:            handle(applyWait),
	OpRemove:          handle(applyRemove),
}

func applyRect(st *Stage, a RectArgs) error {
	_, err := st.Graph.NewRect(scene.ID(a.ID), a.Width, a.Height, a.options()...)
	return err
}

func applySquare(st *Stage, a SquareArgs) error {
	_, err := st.Graph.NewSquare(scene.ID(a.ID), a.Side, a.options()...)
	return err
}

func applyLine(st *Stage, a LineArgs) error {
	var pts []geometry.Vec
	switch {
	case len(a.Points) > 0:
		for _, p := range a.Points {
			pts = append(pts, geometry.Vec(p))
		}
	case a.From != nil && a.To != nil:
		pts = []geometry.Vec{a.From.Vec(), a.To.Vec()}
	}
	if len(pts) < 2 {
		return fmt.Errorf("line %q needs from/to or two points", a.ID)
	}
	// Position would re-center the line; points are absolute.
	a.Position = nil
	_, err := st.Graph.NewPolyline(scene.ID(a.ID), pts, a.options()...)
	return err
}

func applyText(st *Stage, a TextArgs) error {
	_, err := st.Graph.NewText(scene.ID(a.ID), a.Text, a.options()...)
	return err
}

func applyImage(st *Stage, a ImageArgs) error {
	path := a.Path
	if !filepath.IsAbs(path) && st.BaseDir != "" {
		path = filepath.Join(st.BaseDir, path)
	}
	img, err := source.Load(path, a.Page, a.DPI)
	if err != nil {
		return err
	}
	if a.Trim {
		d, err := analyzer.NewDetector(a.Detector)
		if err != nil {
			return err
		}
		pad := DefaultTrimPad
		if a.TrimPad != nil {
			pad = *a.TrimPad
		}
		if img, err = analyzer.Trim(img, d, pad); err != nil {
			return err
		}
	}
	w, h := a.Width, a.Height
	if w <= 0 {
		return fmt.Errorf("image %q: width must be positive", a.ID)
	}
	if h <= 0 {
		b := img.Bounds()
		h = w * float64(b.Dy()) / float64(b.Dx())
	}
	_, err = st.Graph.NewImage(scene.ID(a.ID), img, w, h, a.options()...)
	return err
}

func applyQR(st *Stage, a QRArgs) error {
	px := a.Pixels
	if px <= 0 {
		px = 512
	}
	img, err := source.QR(a.Content, px)
	if err != nil {
		return err
	}
	size := a.Size
	if size <= 0 {
		size = 2
	}
	_, err = st.Graph.NewImage(scene.ID(a.ID), img, size, size, a.options()...)
	return err
}

func applyGroup(st *Stage, a GroupArgs) error {
	members := make([]scene.ID, len(a.Members))
	for i, m := range a.Members {
		members[i] = scene.ID(m)
	}
	_, err := st.Graph.NewGroup(scene.ID(a.ID), members...)
	return err
}

func applyPlace(st *Stage, a PlaceArgs) error {
	dir, err := geometry.ParseDirection(a.Direction)
	if err != nil {
		return err
	}
	if a.Point != nil {
		_, err = scene.PlaceAt(st.Graph, scene.ID(a.Subject), a.Point.Vec(), dir, a.Gap)
		return err
	}
	_, err = scene.Place(st.Graph, scene.ID(a.Subject), st.reference(a.Reference, a.Successor), dir, a.Gap)
	return err
}

func applyPlaceInFrame(st *Stage, a PlaceInFrameArgs) error {
	dir, err := geometry.ParseDirection(a.Direction)
	if err != nil {
		return err
	}
	buff := DefaultFrameBuff
	setFloat(&buff, a.Buff)
	_, err = scene.PlaceInFrame(st.Graph, scene.ID(a.Subject), st.Frame, dir, buff)
	return err
}

func applyShift(st *Stage, a ShiftArgs) error {
	return st.Graph.Shift(scene.ID(a.ID), a.By.Vec())
}

func applyMoveTo(st *Stage, a MoveToArgs) error {
	return st.Graph.MoveTo(scene.ID(a.ID), a.Position.Vec())
}

func applyBarChart(st *Stage, a BarChartArgs) error {
	spec := a.spec()
	if _, err := chart.NewBarChart(st.Graph, spec); err != nil {
		return err
	}
	s := spec.Series
	if s.Name == "" {
		s.Name = a.ID
	}
	st.Series = append(st.Series, s)
	return nil
}

func applyLineChart(st *Stage, a LineChartArgs) error {
	color := scene.White
	setColor(&color, a.Color)
	axes, err := chart.NewAxes(st.Graph, chart.AxesSpec{
		ID:     a.ID + "-axes",
		X:      a.X,
		Y:      a.Y,
		Center: a.Center.Vec(),
		Color:  color,
	})
	if err != nil {
		return err
	}
	members := []scene.ID{axes.ID}
	for _, p := range a.Plots {
		pts, err := p.points()
		if err != nil {
			return fmt.Errorf("plot %q: %w", p.ID, err)
		}
		c := scene.Blue
		setColor(&c, p.Color)
		plot, err := chart.NewPlot(st.Graph, axes, chart.LineSpec{ID: p.ID, Points: pts, Color: c, Dots: p.Dots, DotSize: p.DotSize})
		if err != nil {
			return err
		}
		members = append(members, plot.Group)

		s := chart.Series{Name: p.ID}
		for _, xy := range pts {
			s.Points = append(s.Points, chart.Point{Label: strconv.FormatFloat(xy.X, 'g', -1, 64), Value: xy.Y})
		}
		st.Series = append(st.Series, s)
	}
	_, err = st.Graph.NewGroup(scene.ID(a.ID), members...)
	return err
}

func applyMatrix(st *Stage, a MatrixArgs) error {
	_, err := chart.NewMatrix(st.Graph, a.spec())
	return err
}

func applyPlay(st *Stage, a PlayArgs) error {
	b := director.Beat{Label: a.Label, Wait: a.Wait}
	for _, pa := range a.Primitives {
		p := effects.Primitive{
			Kind:     effects.Kind(pa.Kind),
			Target:   scene.ID(pa.Target),
			Duration: effects.DefaultDuration,
			Easing:   pa.Easing,
			Shift:    pa.Shift.Vec(),
			Edge:     pa.Edge.Vec(),
			Position: pa.Position.Vec(),
		}
		if pa.To != "" {
			p.To = scene.ID(pa.To)
		}
		setFloat(&p.Duration, pa.Duration)
		b.Primitives = append(b.Primitives, p)
	}
	return st.Director.Submit(b)
}

func applyWait(st *Stage, a WaitArgs) error {
	return st.Director.Wait(a.Duration)
}

func applyRemove(st *Stage, a RemoveArgs) error {
	return st.Graph.Remove(scene.ID(a.ID))
}
