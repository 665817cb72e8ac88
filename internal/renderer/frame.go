package renderer

import (
	"context"
	"fmt"
	"image"

	"github.com/ivlev/chart2video/internal/scene"
)

// FrameObject is one drawable object as handed to a sink.
type FrameObject struct {
	ID        scene.ID        `yaml:"id"`
	Kind      scene.Kind      `yaml:"kind"`
	Transform scene.Transform `yaml:"transform"`
	Style     scene.Style     `yaml:"style"`
	Reveal    float64         `yaml:"reveal"`
	Shape     scene.Shape     `yaml:"shape"`
}

// Frame is a rendered sample. Image is nil for vector output.
type Frame struct {
	Index     int           `yaml:"index"`
	Timestamp float64       `yaml:"timestamp"`
	Objects   []FrameObject `yaml:"objects"`
	Image     *image.RGBA   `yaml:"-"`

	release func(*image.RGBA)
}

// Release hands the pixel buffer back to its pool. The frame must not be
// used for pixels afterwards.
func (f *Frame) Release() {
	if f == nil || f.Image == nil {
		return
	}
	if f.release != nil {
		f.release(f.Image)
	}
	f.Image = nil
}

// Renderer turns a snapshot into a frame.
type Renderer interface {
	Render(ctx context.Context, snap scene.Snapshot) (*Frame, error)
}

// Sink consumes frames in clock order.
type Sink interface {
	WriteFrame(ctx context.Context, f *Frame) error
	Close() error
}

// RenderBoundaryError reports a failure at the renderer/sink boundary.
// Frame is -1 when the failure is not tied to one frame.
type RenderBoundaryError struct {
	Frame int
	Err   error
}

func (e *RenderBoundaryError) Error() string {
	if e.Frame < 0 {
		return fmt.Sprintf("render: %v", e.Err)
	}
	return fmt.Sprintf("frame %d: %v", e.Frame, e.Err)
}

func (e *RenderBoundaryError) Unwrap() error { return e.Err }

func frameObjects(snap scene.Snapshot) []FrameObject {
	out := make([]FrameObject, len(snap.Objects))
	for i, r := range snap.Objects {
		out[i] = FrameObject{
			ID:        r.ID,
			Kind:      r.Kind,
			Transform: r.Transform,
			Style:     r.Style,
			Reveal:    r.Reveal,
			Shape:     r.Shape,
		}
	}
	return out
}

// Vector emits object lists only.
type Vector struct{}

func (Vector) Render(ctx context.Context, snap scene.Snapshot) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Frame{Timestamp: snap.Time, Objects: frameObjects(snap)}, nil
}
