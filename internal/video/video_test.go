package video

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/chart2video/internal/renderer"
)

func TestBuildFFmpegArgs(t *testing.T) {
	opts := Options{Path: "out.mp4", Width: 1920, Height: 1080, FPS: 30, Encoder: "libx264", Quality: 23}
	args := buildFFmpegArgs(opts)

	assert.Equal(t, "out.mp4", args[len(args)-1])
	assert.Contains(t, args, "1920x1080")
	assert.Subset(t, args, []string{"-crf", "23", "-preset", "medium", "-pix_fmt", "yuv420p"})
	assert.NotContains(t, args, "-vf")
	assert.NotContains(t, args, "-t")
}

func TestQualityArgs(t *testing.T) {
	assert.Equal(t, []string{"-b:v", "7500k"}, qualityArgs("h264_videotoolbox", 75))
	assert.Equal(t, []string{"-cq", "28"}, qualityArgs("h264_nvenc", 28))
	assert.Equal(t, []string{"-crf", "23", "-preset", "medium"}, qualityArgs("libx264", 23))
}

func TestWriteRawRGBACopiesSubImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(1, 1, color.RGBA{R: 9, A: 255})
	sub := img.SubImage(image.Rect(1, 1, 3, 3))

	var buf bytes.Buffer
	require.NoError(t, writeRawRGBA(&buf, sub))
	require.Equal(t, 2*2*4, buf.Len())
	assert.Equal(t, byte(9), buf.Bytes()[0])
}

func TestPNGSinkWritesNumberedFiles(t *testing.T) {
	sink, err := NewPNGSink(t.TempDir())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		img := image.NewRGBA(image.Rect(0, 0, 8, 6))
		require.NoError(t, sink.WriteFrame(context.Background(), &renderer.Frame{Index: i, Image: img}))
	}
	require.NoError(t, sink.Close())
	assert.Equal(t, 2, sink.Frames())

	f, err := os.Open(sink.Path(1))
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Width)

	err = sink.WriteFrame(context.Background(), &renderer.Frame{Index: 2})
	assert.Error(t, err)
}
