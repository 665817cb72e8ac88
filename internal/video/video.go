package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"
	"strconv"

	"github.com/ivlev/chart2video/internal/renderer"
)

// Options configure an encoded output.
type Options struct {
	Path    string
	Width   int
	Height  int
	FPS     int
	Encoder string
	Quality int
}

// FFmpegSink streams raw RGBA frames into an ffmpeg process. Frames must
// arrive in order; the pipeline guarantees that.
type FFmpegSink struct {
	opts   Options
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	frames int
}

// NewFFmpegSink starts ffmpeg. The process is killed if ctx is cancelled.
func NewFFmpegSink(ctx context.Context, opts Options) (*FFmpegSink, error) {
	s := &FFmpegSink{opts: opts}
	s.cmd = exec.CommandContext(ctx, "ffmpeg", buildFFmpegArgs(opts)...)
	s.cmd.Stderr = &s.stderr

	stdin, err := s.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	s.stdin = stdin

	if err := s.cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}
	return s, nil
}

func buildFFmpegArgs(opts Options) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-framerate", strconv.Itoa(opts.FPS),
		"-i", "-",
		"-r", strconv.Itoa(opts.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", opts.Encoder,
	}
	args = append(args, qualityArgs(opts.Encoder, opts.Quality)...)
	args = append(args, "-movflags", "+faststart", opts.Path)
	return args
}

// qualityArgs maps one quality number onto each encoder's knob.
func qualityArgs(encoder string, quality int) []string {
	switch encoder {
	case "h264_videotoolbox":
		// VideoToolbox ignores -q:v on many builds; 75 -> 7.5 Mbit/s.
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", strconv.Itoa(quality)}
	default: // libx264
		return []string{"-crf", strconv.Itoa(quality), "-preset", "medium"}
	}
}

func (s *FFmpegSink) WriteFrame(ctx context.Context, f *renderer.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.Image == nil {
		return fmt.Errorf("frame %d has no pixels", f.Index)
	}
	if b := f.Image.Bounds(); b.Dx() != s.opts.Width || b.Dy() != s.opts.Height {
		return fmt.Errorf("frame %d is %dx%d, encoder expects %dx%d", f.Index, b.Dx(), b.Dy(), s.opts.Width, s.opts.Height)
	}
	if err := writeRawRGBA(s.stdin, f.Image); err != nil {
		return fmt.Errorf("write raw error: %w", err)
	}
	s.frames++
	return nil
}

// Close ends the stream and waits for ffmpeg to finish the file.
func (s *FFmpegSink) Close() error {
	s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w, output: %s", err, tail(s.stderr.Bytes(), 2048))
	}
	return nil
}

// Frames is the number of frames written.
func (s *FFmpegSink) Frames() int { return s.frames }

func writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Rect, img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}

func tail(b []byte, n int) []byte {
	if len(b) > n {
		return b[len(b)-n:]
	}
	return b
}
