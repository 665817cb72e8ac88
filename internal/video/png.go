package video

import (
	"bufio"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/ivlev/chart2video/internal/renderer"
)

// PNGSink writes frame_00000.png, frame_00001.png, ... into Dir.
type PNGSink struct {
	Dir    string
	Prefix string

	enc    png.Encoder
	frames int
}

func NewPNGSink(dir string) (*PNGSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &PNGSink{
		Dir:    dir,
		Prefix: "frame_",
		enc:    png.Encoder{CompressionLevel: png.BestSpeed},
	}, nil
}

// Path is the file written for frame index i.
func (s *PNGSink) Path(i int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s%05d.png", s.Prefix, i))
}

func (s *PNGSink) WriteFrame(ctx context.Context, f *renderer.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.Image == nil {
		return fmt.Errorf("frame %d has no pixels", f.Index)
	}
	file, err := os.Create(s.Path(f.Index))
	if err != nil {
		return err
	}
	w := bufio.NewWriter(file)
	if err := s.enc.Encode(w, f.Image); err != nil {
		file.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	s.frames++
	return file.Close()
}

func (s *PNGSink) Close() error { return nil }

func (s *PNGSink) Frames() int { return s.frames }
