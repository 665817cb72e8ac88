package renderer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ivlev/chart2video/internal/geometry"
	"github.com/ivlev/chart2video/internal/scene"
	"github.com/ivlev/chart2video/internal/system"
)

// Scene frame size in units. The frame is centered on the origin with Y up.
const (
	FrameWidth  = 8.0 * 16 / 9
	FrameHeight = 8.0
)

const circleSegments = 64

// RasterOptions sizes the output and maps scene units to pixels.
type RasterOptions struct {
	Width       int
	Height      int
	FrameWidth  float64
	FrameHeight float64
	Background  scene.Color
}

func DefaultRasterOptions() RasterOptions {
	return RasterOptions{
		Width:       1920,
		Height:      1080,
		FrameWidth:  FrameWidth,
		FrameHeight: FrameHeight,
		Background:  scene.Black,
	}
}

// FrameBytes is the size of one RGBA buffer.
func (o RasterOptions) FrameBytes() int { return o.Width * o.Height * 4 }

// Raster paints snapshots into RGBA buffers. Text and images are drawn
// axis-aligned in their bounding box; rotation applies to vector shapes.
type Raster struct {
	opts   RasterOptions
	pool   *system.FramePool
	sx, sy float64
}

// NewRaster uses the shared frame pool when pool is nil.
func NewRaster(opts RasterOptions, pool *system.FramePool) (*Raster, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("raster: bad output size %dx%d", opts.Width, opts.Height)
	}
	if !(opts.FrameWidth > 0) || !(opts.FrameHeight > 0) {
		return nil, fmt.Errorf("raster: bad frame size %gx%g", opts.FrameWidth, opts.FrameHeight)
	}
	r := &Raster{
		opts: opts,
		pool: pool,
		sx:   float64(opts.Width) / opts.FrameWidth,
		sy:   float64(opts.Height) / opts.FrameHeight,
	}
	return r, nil
}

func (r *Raster) Options() RasterOptions { return r.opts }

func (r *Raster) get(rect image.Rectangle) *image.RGBA {
	if r.pool == nil {
		return system.GetImage(rect)
	}
	return r.pool.Get(rect)
}

func (r *Raster) put(img *image.RGBA) {
	if r.pool == nil {
		system.PutImage(img)
		return
	}
	r.pool.Put(img)
}

func (r *Raster) Render(ctx context.Context, snap scene.Snapshot) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bounds := image.Rect(0, 0, r.opts.Width, r.opts.Height)
	img := r.get(bounds)
	draw.Draw(img, bounds, image.NewUniform(r.opts.Background.NRGBA(1)), image.Point{}, draw.Src)

	z := vector.NewRasterizer(r.opts.Width, r.opts.Height)
	for _, o := range snap.Objects {
		if err := ctx.Err(); err != nil {
			r.put(img)
			return nil, err
		}
		r.drawObject(img, z, o)
	}

	return &Frame{
		Timestamp: snap.Time,
		Objects:   frameObjects(snap),
		Image:     img,
		release:   r.put,
	}, nil
}

type point struct{ x, y float32 }

func (r *Raster) toPixel(p geometry.Vec) point {
	return point{
		x: float32((p.X + r.opts.FrameWidth/2) * r.sx),
		y: float32((r.opts.FrameHeight/2 - p.Y) * r.sy),
	}
}

// pixelRect is the smallest pixel rectangle covering b.
func (r *Raster) pixelRect(b geometry.Box) image.Rectangle {
	tl := r.toPixel(geometry.Vec{X: b.Min.X, Y: b.Max.Y})
	br := r.toPixel(geometry.Vec{X: b.Max.X, Y: b.Min.Y})
	return image.Rect(
		int(math.Floor(float64(tl.x))), int(math.Floor(float64(tl.y))),
		int(math.Ceil(float64(br.x))), int(math.Ceil(float64(br.y))),
	)
}

func (r *Raster) drawObject(dst *image.RGBA, z *vector.Rasterizer, o scene.Resolved) {
	alpha := clamp01(o.Style.Opacity)
	reveal := clamp01(o.Reveal)
	if alpha == 0 || reveal == 0 {
		return
	}
	t := o.Transform
	place := func(local geometry.Vec) geometry.Vec {
		return local.Mul(t.Scale).Rotate(t.Rotation).Add(t.Position)
	}

	switch o.Kind {
	case scene.KindRectangle:
		w, h := o.Shape.Width/2, o.Shape.Height/2
		pts := []geometry.Vec{
			place(geometry.Vec{X: -w, Y: h}),
			place(geometry.Vec{X: w, Y: h}),
			place(geometry.Vec{X: w, Y: -h}),
			place(geometry.Vec{X: -w, Y: -h}),
		}
		r.drawPath(dst, z, pts, true, o.Style, alpha, reveal)
	case scene.KindCircle:
		pts := make([]geometry.Vec, circleSegments)
		for i := range pts {
			a := math.Pi/2 - 2*math.Pi*float64(i)/circleSegments
			pts[i] = place(geometry.Vec{X: math.Cos(a) * o.Shape.Width / 2, Y: math.Sin(a) * o.Shape.Height / 2})
		}
		r.drawPath(dst, z, pts, true, o.Style, alpha, reveal)
	case scene.KindLine:
		pts := make([]geometry.Vec, len(o.Shape.Points))
		for i, p := range o.Shape.Points {
			pts[i] = place(p)
		}
		r.drawPath(dst, z, pts, false, o.Style, alpha, reveal)
	case scene.KindText:
		r.drawText(dst, o, alpha*clamp01(o.Style.FillOpacity), reveal)
	case scene.KindImage:
		r.drawImage(dst, o, alpha*clamp01(o.Style.FillOpacity))
	}
}

// drawPath fills closed outlines and strokes the first reveal fraction of
// the outline. Fill fades in with reveal.
func (r *Raster) drawPath(dst *image.RGBA, z *vector.Rasterizer, pts []geometry.Vec, closed bool, st scene.Style, alpha, reveal float64) {
	if len(pts) < 2 {
		return
	}
	px := make([]point, 0, len(pts)+1)
	for _, p := range pts {
		px = append(px, r.toPixel(p))
	}
	bounds := dst.Bounds()

	if closed && st.FillOpacity > 0 {
		if a := alpha * clamp01(st.FillOpacity) * reveal; a > 0 {
			z.Reset(bounds.Dx(), bounds.Dy())
			z.MoveTo(px[0].x, px[0].y)
			for _, p := range px[1:] {
				z.LineTo(p.x, p.y)
			}
			z.ClosePath()
			z.Draw(dst, bounds, image.NewUniform(st.Fill.NRGBA(a)), image.Point{})
		}
	}

	if st.StrokeWidth <= 0 {
		return
	}
	if closed {
		px = append(px, px[0])
	}
	px = partialPath(px, reveal)
	width := st.StrokeWidth * r.sx
	if width < 1 {
		width = 1
	}
	z.Reset(bounds.Dx(), bounds.Dy())
	strokePath(z, px, float32(width/2), closed && reveal >= 1)
	z.Draw(dst, bounds, image.NewUniform(st.Stroke.NRGBA(alpha)), image.Point{})
}

// partialPath cuts a polyline after fraction of its length.
func partialPath(pts []point, fraction float64) []point {
	if fraction >= 1 {
		return pts
	}
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += segLen(pts[i-1], pts[i])
	}
	left := total * fraction
	out := []point{pts[0]}
	for i := 1; i < len(pts); i++ {
		l := segLen(pts[i-1], pts[i])
		if l >= left {
			if l > 0 {
				k := float32(left / l)
				a, b := pts[i-1], pts[i]
				out = append(out, point{a.x + (b.x-a.x)*k, a.y + (b.y-a.y)*k})
			}
			return out
		}
		left -= l
		out = append(out, pts[i])
	}
	return out
}

func segLen(a, b point) float64 {
	return math.Hypot(float64(b.x-a.x), float64(b.y-a.y))
}

// strokePath adds one quad per segment plus a disc at each joint. All
// sub-paths share the same winding so overlaps do not cancel.
func strokePath(z *vector.Rasterizer, pts []point, hw float32, closed bool) {
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		l := float32(segLen(a, b))
		if l == 0 {
			continue
		}
		nx, ny := -(b.y-a.y)/l*hw, (b.x-a.x)/l*hw
		z.MoveTo(a.x+nx, a.y+ny)
		z.LineTo(b.x+nx, b.y+ny)
		z.LineTo(b.x-nx, b.y-ny)
		z.LineTo(a.x-nx, a.y-ny)
		z.ClosePath()
	}
	for i := 1; i+1 < len(pts); i++ {
		joint(z, pts[i], hw)
	}
	if closed && len(pts) > 2 {
		joint(z, pts[0], hw)
	}
}

func joint(z *vector.Rasterizer, c point, r float32) {
	const n = 8
	for i := 0; i < n; i++ {
		a := -2 * math.Pi * float64(i) / n
		x, y := c.x+r*float32(math.Cos(a)), c.y+r*float32(math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

// drawText rasterizes the glyph face at native size into a mask, scales
// the mask onto the object's box and paints it with the fill colour.
// Reveal shows a prefix of the runes with the final layout.
func (r *Raster) drawText(dst *image.RGBA, o scene.Resolved, alpha, reveal float64) {
	if alpha == 0 || o.Shape.Text == "" {
		return
	}
	face := scene.GlyphFace
	lines := strings.Split(o.Shape.Text, "\n")
	total := utf8.RuneCountInString(o.Shape.Text) - (len(lines) - 1)
	shown := int(math.Ceil(reveal*float64(total) - 1e-9))
	if shown <= 0 {
		return
	}

	widths := make([]int, len(lines))
	nw := 0
	for i, line := range lines {
		widths[i] = font.MeasureString(face, line).Ceil()
		if widths[i] > nw {
			nw = widths[i]
		}
	}
	if nw == 0 {
		return
	}
	mask := image.NewAlpha(image.Rect(0, 0, nw, scene.GlyphLineHeight*len(lines)))
	d := &font.Drawer{Dst: mask, Src: image.Opaque, Face: face}
	for i, line := range lines {
		if shown <= 0 {
			break
		}
		runes := []rune(line)
		if len(runes) > shown {
			runes = runes[:shown]
		}
		shown -= len(runes)
		d.Dot = fixed.P((nw-widths[i])/2, i*scene.GlyphLineHeight+face.Ascent)
		d.DrawString(string(runes))
	}

	r.paintMask(dst, o.Box(), mask, image.NewUniform(o.Style.Fill.NRGBA(alpha)), draw.ApproxBiLinear)
}

func (r *Raster) drawImage(dst *image.RGBA, o scene.Resolved, alpha float64) {
	src := o.Shape.Image
	if src == nil || alpha == 0 {
		return
	}
	rect := r.pixelRect(o.Box())
	vis := rect.Intersect(dst.Bounds())
	if vis.Empty() {
		return
	}
	tmp := image.NewRGBA(vis)
	draw.CatmullRom.Scale(tmp, rect, src, src.Bounds(), draw.Src, nil)
	mask := image.NewUniform(color.Alpha{A: uint8(alpha*255 + 0.5)})
	draw.DrawMask(dst, vis, tmp, vis.Min, mask, image.Point{}, draw.Over)
}

// paintMask stretches mask over box and paints src through it.
func (r *Raster) paintMask(dst *image.RGBA, box geometry.Box, mask image.Image, src image.Image, scaler draw.Scaler) {
	rect := r.pixelRect(box)
	vis := rect.Intersect(dst.Bounds())
	if vis.Empty() {
		return
	}
	scaled := image.NewAlpha(vis)
	scaler.Scale(scaled, rect, mask, mask.Bounds(), draw.Src, nil)
	draw.DrawMask(dst, vis, src, image.Point{}, scaled, vis.Min, draw.Over)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
