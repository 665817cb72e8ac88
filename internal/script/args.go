package script

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/chart2video/internal/chart"
	"github.com/ivlev/chart2video/internal/geometry"
	"github.com/ivlev/chart2video/internal/scene"
)

// Vector is written as [x, y]. It also reads {x, y} mappings and
// direction names such as "up" or "dl".
type Vector geometry.Vec

func V(x, y float64) *Vector { return &Vector{X: x, Y: y} }

// Dir converts a direction to a Vector.
func Dir(d geometry.Direction) *Vector {
	v := Vector(d)
	return &v
}

func (v *Vector) Vec() geometry.Vec {
	if v == nil {
		return geometry.Vec{}
	}
	return geometry.Vec(*v)
}

func (v *Vector) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		d, err := geometry.ParseDirection(n.Value)
		if err != nil {
			return err
		}
		*v = Vector(d)
	case yaml.SequenceNode:
		var xy []float64
		if err := n.Decode(&xy); err != nil {
			return err
		}
		if len(xy) != 2 {
			return fmt.Errorf("line %d: vector needs 2 components, got %d", n.Line, len(xy))
		}
		*v = Vector{X: xy[0], Y: xy[1]}
	case yaml.MappingNode:
		var g geometry.Vec
		if err := n.Decode(&g); err != nil {
			return err
		}
		*v = Vector(g)
	default:
		return fmt.Errorf("line %d: not a vector", n.Line)
	}
	return nil
}

func (v Vector) MarshalYAML() (interface{}, error) {
	num := func(f float64) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatFloat(f, 'g', -1, 64)}
	}
	return &yaml.Node{
		Kind:    yaml.SequenceNode,
		Style:   yaml.FlowStyle,
		Content: []*yaml.Node{num(v.X), num(v.Y)},
	}, nil
}

// Style holds the per-object overrides shared by shape ops.
type Style struct {
	Color       *scene.Color `yaml:"color,omitempty"`
	Fill        *scene.Color `yaml:"fill,omitempty"`
	FillOpacity *float64     `yaml:"fill_opacity,omitempty"`
	Stroke      *scene.Color `yaml:"stroke,omitempty"`
	StrokeWidth *float64     `yaml:"stroke_width,omitempty"`
	Opacity     *float64     `yaml:"opacity,omitempty"`
	FontSize    float64      `yaml:"font_size,omitempty"`
	Position    *Vector      `yaml:"position,omitempty"`
	Rotation    float64      `yaml:"rotation,omitempty"`
	Z           int          `yaml:"z,omitempty"`
	Shown       bool         `yaml:"shown,omitempty"`
}

func (s Style) options() []scene.Option {
	var opts []scene.Option
	if s.Color != nil {
		opts = append(opts, scene.WithColor(*s.Color))
	}
	if s.Fill != nil {
		c := *s.Fill
		opts = append(opts, func(o *scene.Object) { o.Style.Fill = c })
	}
	if s.FillOpacity != nil {
		v := *s.FillOpacity
		opts = append(opts, func(o *scene.Object) { o.Style.FillOpacity = v })
	}
	if s.Stroke != nil {
		c := *s.Stroke
		opts = append(opts, func(o *scene.Object) { o.Style.Stroke = c })
	}
	if s.StrokeWidth != nil {
		v := *s.StrokeWidth
		opts = append(opts, func(o *scene.Object) { o.Style.StrokeWidth = v })
	}
	if s.Opacity != nil {
		opts = append(opts, scene.WithOpacity(*s.Opacity))
	}
	if s.FontSize > 0 {
		opts = append(opts, scene.WithFontSize(s.FontSize))
	}
	if s.Position != nil {
		opts = append(opts, scene.WithPosition(s.Position.Vec()))
	}
	if s.Rotation != 0 {
		opts = append(opts, scene.WithRotation(s.Rotation))
	}
	if s.Z != 0 {
		opts = append(opts, scene.WithZ(s.Z))
	}
	if s.Shown {
		opts = append(opts, scene.Shown())
	}
	return opts
}

type RectArgs struct {
	ID     string  `yaml:"id,omitempty"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Style  `yaml:",inline"`
}

type SquareArgs struct {
	ID    string  `yaml:"id,omitempty"`
	Side  float64 `yaml:"side"`
	Style `yaml:",inline"`
}

// LineArgs takes either from/to or a point list.
type LineArgs struct {
	ID     string   `yaml:"id,omitempty"`
	From   *Vector  `yaml:"from,omitempty"`
	To     *Vector  `yaml:"to,omitempty"`
	Points []Vector `yaml:"points,omitempty"`
	Style  `yaml:",inline"`
}

type TextArgs struct {
	ID    string `yaml:"id,omitempty"`
	Text  string `yaml:"text"`
	Style `yaml:",inline"`
}

// ImageArgs loads a PNG/JPEG file or a PDF page. A zero height keeps the
// source aspect ratio. Trim cuts the margins around the drawn content
// first, leaving TrimPad pixels.
type ImageArgs struct {
	ID       string  `yaml:"id,omitempty"`
	Path     string  `yaml:"path"`
	Page     int     `yaml:"page,omitempty"`
	DPI      int     `yaml:"dpi,omitempty"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height,omitempty"`
	Trim     bool    `yaml:"trim,omitempty"`
	TrimPad  *int    `yaml:"trim_pad,omitempty"`
	Detector string  `yaml:"detector,omitempty"`
	Style    `yaml:",inline"`
}

// QRArgs draws a QR code Size scene units wide.
type QRArgs struct {
	ID      string  `yaml:"id,omitempty"`
	Content string  `yaml:"content"`
	Size    float64 `yaml:"size,omitempty"`
	Pixels  int     `yaml:"pixels,omitempty"`
	Style   `yaml:",inline"`
}

type GroupArgs struct {
	ID      string   `yaml:"id,omitempty"`
	Members []string `yaml:"members"`
}

// PlaceArgs places subject next to reference, or next to Point when it is
// set. A reference retired by a replacement is an error unless Successor
// asks for the object that replaced it.
type PlaceArgs struct {
	Subject   string  `yaml:"subject"`
	Reference string  `yaml:"reference,omitempty"`
	Point     *Vector `yaml:"point,omitempty"`
	Direction string  `yaml:"direction"`
	Gap       float64 `yaml:"gap,omitempty"`
	Successor bool    `yaml:"successor,omitempty"`
}

type PlaceInFrameArgs struct {
	Subject   string   `yaml:"subject"`
	Direction string   `yaml:"direction"`
	Buff      *float64 `yaml:"buff,omitempty"`
}

type ShiftArgs struct {
	ID string `yaml:"id"`
	By Vector `yaml:"by"`
}

type MoveToArgs struct {
	ID       string `yaml:"id"`
	Position Vector `yaml:"position"`
}

// BarChartArgs overrides the default bar chart layout field by field.
type BarChartArgs struct {
	ID            string                 `yaml:"id"`
	Series        chart.Series           `yaml:"series"`
	MaxHeight     *float64               `yaml:"max_height,omitempty"`
	AxisCenter    *Vector                `yaml:"axis_center,omitempty"`
	AxisLength    *float64               `yaml:"axis_length,omitempty"`
	Spacing       *float64               `yaml:"spacing,omitempty"`
	BarWidth      *float64               `yaml:"bar_width,omitempty"`
	Fill          *scene.Color           `yaml:"fill,omitempty"`
	FillOpacity   *float64               `yaml:"fill_opacity,omitempty"`
	Colors        map[string]scene.Color `yaml:"colors,omitempty"`
	TextColor     *scene.Color           `yaml:"text_color,omitempty"`
	LabelFontSize *float64               `yaml:"label_font_size,omitempty"`
	ValueFontSize *float64               `yaml:"value_font_size,omitempty"`
	Lift          *float64               `yaml:"lift,omitempty"`
}

func (a BarChartArgs) spec() chart.BarChartSpec {
	spec := chart.DefaultBarChart(a.ID, a.Series)
	setFloat(&spec.MaxHeight, a.MaxHeight)
	setFloat(&spec.AxisLength, a.AxisLength)
	setFloat(&spec.Spacing, a.Spacing)
	setFloat(&spec.BarWidth, a.BarWidth)
	setFloat(&spec.FillOpacity, a.FillOpacity)
	setFloat(&spec.LabelFontSize, a.LabelFontSize)
	setFloat(&spec.ValueFontSize, a.ValueFontSize)
	setFloat(&spec.Lift, a.Lift)
	if a.AxisCenter != nil {
		spec.AxisCenter = a.AxisCenter.Vec()
	}
	setColor(&spec.Fill, a.Fill)
	setColor(&spec.TextColor, a.TextColor)
	spec.Colors = a.Colors
	return spec
}

// PlotArgs is one series of a line chart, given as points or as parallel
// x and y lists.
type PlotArgs struct {
	ID      string       `yaml:"id"`
	Points  []chart.XY   `yaml:"points,omitempty"`
	X       []float64    `yaml:"x,omitempty"`
	Y       []float64    `yaml:"y,omitempty"`
	Color   *scene.Color `yaml:"color,omitempty"`
	Dots    bool         `yaml:"dots,omitempty"`
	DotSize float64      `yaml:"dot_size,omitempty"`
}

func (p PlotArgs) points() ([]chart.XY, error) {
	if len(p.Points) > 0 {
		return p.Points, nil
	}
	return chart.Zip(p.X, p.Y)
}

// LineChartArgs draws an axis pair and plots. The axes get id "<id>-axes"
// and everything is grouped under id.
type LineChartArgs struct {
	ID     string       `yaml:"id"`
	X      chart.Range  `yaml:"x"`
	Y      chart.Range  `yaml:"y"`
	Center Vector       `yaml:"center"`
	Color  *scene.Color `yaml:"color,omitempty"`
	Plots  []PlotArgs   `yaml:"plots"`
}

type MatrixArgs struct {
	ID          string       `yaml:"id"`
	Cells       [][]string   `yaml:"cells"`
	RowLabels   []string     `yaml:"row_labels,omitempty"`
	ColLabels   []string     `yaml:"col_labels,omitempty"`
	RowTitle    string       `yaml:"row_title,omitempty"`
	ColTitle    string       `yaml:"col_title,omitempty"`
	CellSize    *float64     `yaml:"cell_size,omitempty"`
	TopLeft     *Vector      `yaml:"top_left,omitempty"`
	Fill        *scene.Color `yaml:"fill,omitempty"`
	FillOpacity *float64     `yaml:"fill_opacity,omitempty"`
	FontSize    *float64     `yaml:"font_size,omitempty"`
}

func (a MatrixArgs) spec() chart.MatrixSpec {
	spec := chart.DefaultMatrix(a.ID, a.Cells)
	spec.RowLabels = a.RowLabels
	spec.ColLabels = a.ColLabels
	spec.RowTitle = a.RowTitle
	spec.ColTitle = a.ColTitle
	setFloat(&spec.CellSize, a.CellSize)
	setFloat(&spec.FillOpacity, a.FillOpacity)
	setFloat(&spec.FontSize, a.FontSize)
	setColor(&spec.Fill, a.Fill)
	if a.TopLeft != nil {
		spec.TopLeft = a.TopLeft.Vec()
	}
	return spec
}

// PrimitiveArgs mirrors effects.Primitive with friendlier vectors. A nil
// duration means the primitive default.
type PrimitiveArgs struct {
	Kind     string   `yaml:"kind"`
	Target   string   `yaml:"target"`
	To       string   `yaml:"to,omitempty"`
	Duration *float64 `yaml:"duration,omitempty"`
	Easing   string   `yaml:"easing,omitempty"`
	Shift    *Vector  `yaml:"shift,omitempty"`
	Edge     *Vector  `yaml:"edge,omitempty"`
	Position *Vector  `yaml:"position,omitempty"`
}

type PlayArgs struct {
	Label      string          `yaml:"label,omitempty"`
	Wait       float64         `yaml:"wait,omitempty"`
	Primitives []PrimitiveArgs `yaml:"primitives"`
}

type WaitArgs struct {
	Duration float64 `yaml:"duration"`
}

type RemoveArgs struct {
	ID string `yaml:"id"`
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setColor(dst *scene.Color, v *scene.Color) {
	if v != nil {
		*dst = *v
	}
}

// F is a pointer helper for optional numeric args.
func F(v float64) *float64 { return &v }

// C is a pointer helper for optional colour args.
func C(c scene.Color) *scene.Color { return &c }
