package renderer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/chart2video/internal/geometry"
	"github.com/ivlev/chart2video/internal/scene"
	"github.com/ivlev/chart2video/internal/system"
)

func smallRaster(t *testing.T) *Raster {
	t.Helper()
	r, err := NewRaster(RasterOptions{
		Width:       160,
		Height:      90,
		FrameWidth:  16,
		FrameHeight: 9,
		Background:  scene.Black,
	}, system.NewFramePool())
	require.NoError(t, err)
	return r
}

func object(id scene.ID, shape scene.Shape, style scene.Style) scene.Resolved {
	return scene.Resolved{
		ID:        id,
		Kind:      shape.Kind,
		Transform: scene.Transform{Scale: geometry.Vec{X: 1, Y: 1}},
		Style:     style,
		Reveal:    1,
		Shape:     shape,
	}
}

func lit(img *image.RGBA, rect image.Rectangle) int {
	n := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if c := img.RGBAAt(x, y); c.R > 64 || c.G > 64 || c.B > 64 {
				n++
			}
		}
	}
	return n
}

func TestVectorCopiesObjects(t *testing.T) {
	snap := scene.Snapshot{Time: 1.5, Objects: []scene.Resolved{
		object("r", scene.Shape{Kind: scene.KindRectangle, Width: 1, Height: 1}, scene.Style{Opacity: 1}),
	}}
	f, err := Vector{}.Render(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, 1.5, f.Timestamp)
	require.Len(t, f.Objects, 1)
	assert.Equal(t, scene.ID("r"), f.Objects[0].ID)
	assert.Nil(t, f.Image)
	f.Release()
}

func TestRasterFillsRectangle(t *testing.T) {
	r := smallRaster(t)
	rect := object("r", scene.Shape{Kind: scene.KindRectangle, Width: 2, Height: 2},
		scene.Style{Fill: scene.Red, FillOpacity: 1, Opacity: 1})
	f, err := r.Render(context.Background(), scene.Snapshot{Objects: []scene.Resolved{rect}})
	require.NoError(t, err)
	defer f.Release()

	assert.Equal(t, color.RGBA{0xFC, 0x62, 0x55, 0xFF}, f.Image.RGBAAt(80, 45))
	assert.Equal(t, color.RGBA{0, 0, 0, 0xFF}, f.Image.RGBAAt(5, 5))
	// 2×2 units at 10 px per unit.
	assert.Equal(t, 400, lit(f.Image, f.Image.Rect))
}

func TestRasterYAxisPointsUp(t *testing.T) {
	r := smallRaster(t)
	dot := object("d", scene.Shape{Kind: scene.KindCircle, Width: 1, Height: 1},
		scene.Style{Fill: scene.White, FillOpacity: 1, Opacity: 1})
	dot.Transform.Position = geometry.Vec{X: 0, Y: 3}
	f, err := r.Render(context.Background(), scene.Snapshot{Objects: []scene.Resolved{dot}})
	require.NoError(t, err)
	defer f.Release()

	assert.Positive(t, lit(f.Image, image.Rect(0, 0, 160, 45)))
	assert.Zero(t, lit(f.Image, image.Rect(0, 45, 160, 90)))
}

func TestRasterPartialStroke(t *testing.T) {
	r := smallRaster(t)
	line := object("l", scene.Shape{Kind: scene.KindLine, Points: []geometry.Vec{{X: -4}, {X: 4}}},
		scene.Style{Stroke: scene.White, StrokeWidth: 0.2, Opacity: 1})
	line.Reveal = 0.5
	f, err := r.Render(context.Background(), scene.Snapshot{Objects: []scene.Resolved{line}})
	require.NoError(t, err)
	defer f.Release()

	assert.Positive(t, lit(f.Image, image.Rect(40, 40, 78, 50)))
	assert.Zero(t, lit(f.Image, image.Rect(82, 40, 160, 50)))
}

func TestRasterTextRevealsPrefix(t *testing.T) {
	r := smallRaster(t)
	text := object("t", scene.Shape{Kind: scene.KindText, Text: "HHHH", FontSize: 144},
		scene.Style{Fill: scene.White, FillOpacity: 1, Opacity: 1})

	full, err := r.Render(context.Background(), scene.Snapshot{Objects: []scene.Resolved{text}})
	require.NoError(t, err)
	defer full.Release()

	text.Reveal = 0.5
	half, err := r.Render(context.Background(), scene.Snapshot{Objects: []scene.Resolved{text}})
	require.NoError(t, err)
	defer half.Release()

	left, right := image.Rect(0, 0, 76, 90), image.Rect(84, 0, 160, 90)
	assert.Positive(t, lit(full.Image, right))
	assert.Zero(t, lit(half.Image, right))
	assert.Equal(t, lit(full.Image, left), lit(half.Image, left))
}

func TestRasterScalesImages(t *testing.T) {
	r := smallRaster(t)
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(src.Pix); i += 4 {
		copy(src.Pix[i:], []byte{0, 0xFF, 0, 0xFF})
	}
	img := object("i", scene.Shape{Kind: scene.KindImage, Width: 4, Height: 4, Image: src},
		scene.Style{FillOpacity: 1, Opacity: 1})
	f, err := r.Render(context.Background(), scene.Snapshot{Objects: []scene.Resolved{img}})
	require.NoError(t, err)
	defer f.Release()

	c := f.Image.RGBAAt(80, 45)
	assert.Greater(t, c.G, uint8(200))
	assert.Less(t, c.R, uint8(20))
	assert.Equal(t, 1600, lit(f.Image, f.Image.Rect))
}

func TestReleaseReturnsBuffer(t *testing.T) {
	r := smallRaster(t)
	f, err := r.Render(context.Background(), scene.Snapshot{})
	require.NoError(t, err)
	require.NotNil(t, f.Image)
	f.Release()
	assert.Nil(t, f.Image)
	f.Release()
}

// jitter renders out of order: even frames are slower.
type jitter struct{}

func (jitter) Render(ctx context.Context, snap scene.Snapshot) (*Frame, error) {
	if int(snap.Time)%2 == 0 {
		time.Sleep(2 * time.Millisecond)
	}
	return Vector{}.Render(ctx, snap)
}

func TestPipelineWritesInOrder(t *testing.T) {
	sink := &MemorySink{}
	p := NewPipeline(context.Background(), jitter{}, sink, 4)
	for i := 0; i < 20; i++ {
		require.NoError(t, p.Emit(context.Background(), scene.Snapshot{Time: float64(i)}))
	}
	require.NoError(t, p.Close())

	frames := sink.Frames()
	require.Len(t, frames, 20)
	for i, f := range frames {
		assert.Equal(t, i, f.Index)
		assert.Equal(t, float64(i), f.Timestamp)
	}
	assert.Equal(t, 20, p.Written())
	assert.True(t, sink.closed)
	assert.ErrorIs(t, sink.WriteFrame(context.Background(), &Frame{Index: 20}), errSinkClosed)
}

type failingSink struct {
	MemorySink
	at int
}

var errDiskFull = errors.New("disk full")

func (s *failingSink) WriteFrame(ctx context.Context, f *Frame) error {
	if f.Index == s.at {
		return errDiskFull
	}
	return s.MemorySink.WriteFrame(ctx, f)
}

func TestPipelineSinkErrorIsBoundaryError(t *testing.T) {
	sink := &failingSink{at: 3}
	p := NewPipeline(context.Background(), Vector{}, sink, 2)
	for i := 0; i < 50; i++ {
		if err := p.Emit(context.Background(), scene.Snapshot{Time: float64(i)}); err != nil {
			break
		}
	}
	err := p.Close()
	require.Error(t, err)

	var rbe *RenderBoundaryError
	require.ErrorAs(t, err, &rbe)
	assert.Equal(t, 3, rbe.Frame)
	assert.ErrorIs(t, err, errDiskFull)
	assert.Len(t, sink.Frames(), 3)
}

func TestPipelineRefusesFramesAfterFailure(t *testing.T) {
	sink := &failingSink{at: 0}
	p := NewPipeline(context.Background(), Vector{}, sink, 8)
	require.NoError(t, p.Emit(context.Background(), scene.Snapshot{}))
	<-p.ctx.Done()

	// The window still has room, so only the failure check can refuse these.
	for i := 1; i < 50; i++ {
		err := p.Emit(context.Background(), scene.Snapshot{Time: float64(i)})
		require.Error(t, err, "frame %d", i)
		assert.ErrorIs(t, err, errDiskFull)
	}
	assert.Equal(t, 1, p.next)
	assert.ErrorIs(t, p.Close(), errDiskFull)
	assert.Empty(t, sink.Frames())
}

func TestSnapshotStreamIsDeterministic(t *testing.T) {
	stream := func() []byte {
		var buf bytes.Buffer
		p := NewPipeline(context.Background(), jitter{}, NewSnapshotSink(&buf), 3)
		for i := 0; i < 6; i++ {
			snap := scene.Snapshot{Time: float64(i), Objects: []scene.Resolved{
				object("r", scene.Shape{Kind: scene.KindRectangle, Width: 1, Height: float64(i)},
					scene.Style{Fill: scene.Blue, Opacity: 1}),
			}}
			require.NoError(t, p.Emit(context.Background(), snap))
		}
		require.NoError(t, p.Close())
		return buf.Bytes()
	}

	a, b := stream(), stream()
	assert.Equal(t, a, b)
	assert.Contains(t, string(a), "id: r")
	assert.Contains(t, string(a), "#58c4dd")
}
