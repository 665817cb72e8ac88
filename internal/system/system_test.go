package system

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkersFor(t *testing.T) {
	frame := 1920 * 1080 * 4
	tests := []struct {
		name  string
		stats HostStats
		want  int
	}{
		{"cpu bound", HostStats{LogicalCPUs: 8, AvailMemory: 16 << 30}, 8},
		{"memory bound", HostStats{LogicalCPUs: 8, AvailMemory: uint64(frame) * 8 * 3}, 3},
		{"starved", HostStats{LogicalCPUs: 8, AvailMemory: 1024}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, workersFor(tt.stats, frame))
		})
	}
	assert.GreaterOrEqual(t, DefaultWorkers(frame), 1)
}

func TestFramePoolReusesBySize(t *testing.T) {
	p := NewFramePool()
	r := image.Rect(0, 0, 16, 9)
	img := p.Get(r)
	require.Equal(t, r, img.Rect)
	p.Put(img)

	other := p.Get(image.Rect(0, 0, 4, 4))
	assert.Equal(t, image.Rect(0, 0, 4, 4), other.Rect)
	p.Put(nil)
}

func TestFindLatestScript(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.yaml")
	newer := filepath.Join(dir, "new.yml")
	require.NoError(t, os.WriteFile(old, []byte("ops: []"), 0644))
	require.NoError(t, os.WriteFile(newer, []byte("ops: []"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	got, err := FindLatestScript(dir)
	require.NoError(t, err)
	assert.Equal(t, newer, got)

	_, err = FindLatestScript(t.TempDir())
	assert.Error(t, err)
}

func TestDefaultQuality(t *testing.T) {
	assert.Equal(t, 75, DefaultQuality("h264_videotoolbox"))
	assert.Equal(t, 28, DefaultQuality("h264_nvenc"))
	assert.Equal(t, 23, DefaultQuality("libx264"))
}
