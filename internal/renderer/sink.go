package renderer

import (
	"context"
	"errors"
	"image"
	"io"
	"sync"

	"gopkg.in/yaml.v3"
)

// MemorySink keeps frames in memory. Pixel buffers are copied when
// KeepImages is set, since the pipeline releases them after writing.
type MemorySink struct {
	KeepImages bool

	mu     sync.Mutex
	frames []Frame
	closed bool
}

var errSinkClosed = errors.New("sink closed")

func (s *MemorySink) WriteFrame(ctx context.Context, f *Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c := Frame{Index: f.Index, Timestamp: f.Timestamp, Objects: f.Objects}
	if s.KeepImages && f.Image != nil {
		img := image.NewRGBA(f.Image.Rect)
		copy(img.Pix, f.Image.Pix)
		c.Image = img
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errSinkClosed
	}
	s.frames = append(s.frames, c)
	return nil
}

func (s *MemorySink) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Frames returns the frames written so far.
func (s *MemorySink) Frames() []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Frame(nil), s.frames...)
}

// SnapshotSink writes each frame as one YAML document. Two runs of the same
// timeline produce byte-identical streams.
type SnapshotSink struct {
	enc *yaml.Encoder
	w   io.Writer
}

func NewSnapshotSink(w io.Writer) *SnapshotSink {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &SnapshotSink{enc: enc, w: w}
}

func (s *SnapshotSink) WriteFrame(ctx context.Context, f *Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.enc.Encode(f)
}

// Close flushes the encoder and closes the writer when it is a Closer.
func (s *SnapshotSink) Close() error {
	if err := s.enc.Close(); err != nil {
		return err
	}
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
