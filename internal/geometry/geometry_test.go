package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxEdges(t *testing.T) {
	b := BoxAround(Vec{1, 2}, 4, 2)

	tests := []struct {
		dir  Direction
		want Vec
	}{
		{Up, Vec{1, 3}},
		{Down, Vec{1, 1}},
		{Left, Vec{-1, 2}},
		{Right, Vec{3, 2}},
		{UR, Vec{3, 3}},
		{Origin, Vec{1, 2}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.Edge(tt.dir), "edge %v", tt.dir)
	}
}

func TestBoxDegenerate(t *testing.T) {
	assert.True(t, Box{}.Degenerate())
	assert.False(t, BoxOf(Vec{-4, 0}, Vec{4, 0}).Degenerate(), "horizontal line is a valid reference")
	assert.False(t, BoxAround(Vec{}, 1, 1).Degenerate())
}

func TestBoxUnion(t *testing.T) {
	a := BoxAround(Vec{0, 0}, 2, 2)
	b := BoxAround(Vec{3, 3}, 2, 2)
	u := a.Union(b)
	assert.Equal(t, Vec{-1, -1}, u.Min)
	assert.Equal(t, Vec{4, 4}, u.Max)
	assert.Equal(t, Vec{1.5, 1.5}, u.Center())
}

func TestVecHelpers(t *testing.T) {
	assert.Equal(t, Vec{0, 1}, Vec{0, 5}.Unit())
	assert.Equal(t, Vec{}, Vec{}.Unit())
	assert.Equal(t, Vec{2, 3}, Vec{0, 1}.Lerp(Vec{4, 5}, 0.5))

	r := Vec{1, 0}.Rotate(1.5707963267948966)
	assert.InDelta(t, 0, r.X, 1e-12)
	assert.InDelta(t, 1, r.Y, 1e-12)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("dl")
	require.NoError(t, err)
	assert.Equal(t, DL, d)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}
