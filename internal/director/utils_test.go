package director

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicks(t *testing.T) {
	tests := []struct {
		d, rate float64
		want    int
	}{
		{1, 30, 30},
		{0.51, 30, 16},
		{0.25, 30, 8},
		{0.5, 30, 15},
		{0.001, 30, 1},
		{0, 30, 0},
		{-1, 30, 0},
		{2.5, 24, 60},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Ticks(tt.d, tt.rate), "Ticks(%v, %v)", tt.d, tt.rate)
	}
}

func TestAlign(t *testing.T) {
	assert.InDelta(t, 16.0/30, Align(0.51, 30), 1e-12)
	assert.Equal(t, 0.5, Align(0.5, 30))
	assert.Equal(t, 1.0/30, Align(0.001, 30))
	assert.Equal(t, 0.0, Align(0, 30))
}

func TestFrameCount(t *testing.T) {
	assert.Equal(t, 1, FrameCount(0, 30))
	assert.Equal(t, 31, FrameCount(1, 30))
	assert.Equal(t, 16, FrameCount(0.5, 30))
	assert.Equal(t, 17, FrameCount(0.51, 30))
}
