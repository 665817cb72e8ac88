package scene

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/chart2video/internal/geometry"
)

func TestGraphAutoIDs(t *testing.T) {
	g := NewGraph(DefaultStyle())

	a, err := g.NewRect("", 1, 1)
	require.NoError(t, err)
	b, err := g.NewRect("", 1, 1)
	require.NoError(t, err)
	txt, err := g.NewText("", "hi")
	require.NoError(t, err)

	assert.Equal(t, ID("rectangle-1"), a.ID)
	assert.Equal(t, ID("rectangle-2"), b.ID)
	assert.Equal(t, ID("text-1"), txt.ID)
	assert.Equal(t, 48.0, txt.Shape.FontSize, "default font size applied at creation")

	_, err = g.NewRect("rectangle-1", 1, 1)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestGraphOptionsOverrideDefaults(t *testing.T) {
	g := NewGraph(DefaultStyle())
	txt, err := g.NewText("t", "x", WithFontSize(24), WithColor(GreyB))
	require.NoError(t, err)
	assert.Equal(t, 24.0, txt.Shape.FontSize)
	assert.Equal(t, GreyB, txt.Style.Fill)
}

func TestGroupBoxIsUnion(t *testing.T) {
	g := NewGraph(DefaultStyle())
	_, err := g.NewRect("a", 2, 2)
	require.NoError(t, err)
	_, err = g.NewRect("b", 2, 2, WithPosition(geometry.Vec{X: 4, Y: 2}))
	require.NoError(t, err)
	_, err = g.NewGroup("ab", "a", "b")
	require.NoError(t, err)

	box, err := g.Box("ab")
	require.NoError(t, err)
	assert.Equal(t, geometry.Vec{X: -1, Y: -1}, box.Min)
	assert.Equal(t, geometry.Vec{X: 5, Y: 3}, box.Max)

	// Recomputed on demand after a member moves.
	require.NoError(t, g.Shift("b", geometry.Vec{X: 1}))
	box, err = g.Box("ab")
	require.NoError(t, err)
	assert.Equal(t, 6.0, box.Max.X)
}

func TestAttachReparents(t *testing.T) {
	g := NewGraph(DefaultStyle())
	_, err := g.NewRect("r", 1, 1)
	require.NoError(t, err)
	_, err = g.NewGroup("g1", "r")
	require.NoError(t, err)
	_, err = g.NewGroup("g2")
	require.NoError(t, err)

	require.NoError(t, g.Attach("g2", "r"))

	g1, _ := g.Get("g1")
	g2, _ := g.Get("g2")
	r, _ := g.Get("r")
	assert.Empty(t, g1.Children())
	assert.Equal(t, []ID{"r"}, g2.Children())
	assert.Equal(t, ID("g2"), r.Parent())
}

func TestAttachRejectsCycles(t *testing.T) {
	g := NewGraph(DefaultStyle())
	_, err := g.NewGroup("outer")
	require.NoError(t, err)
	_, err = g.NewGroup("inner")
	require.NoError(t, err)
	require.NoError(t, g.Attach("outer", "inner"))

	err = g.Attach("inner", "outer")
	assert.ErrorIs(t, err, ErrCycle)

	err = g.Attach("outer", "outer")
	assert.ErrorIs(t, err, ErrCycle)
}

func TestRemoveGroupDestroysMembers(t *testing.T) {
	g := NewGraph(DefaultStyle())
	_, err := g.NewRect("a", 1, 1)
	require.NoError(t, err)
	_, err = g.NewText("b", "label")
	require.NoError(t, err)
	_, err = g.NewGroup("bar", "a", "b")
	require.NoError(t, err)
	_, err = g.NewGroup("chart", "bar")
	require.NoError(t, err)

	require.NoError(t, g.Remove("bar"))
	assert.False(t, g.Has("a"))
	assert.False(t, g.Has("b"))
	assert.True(t, g.Has("chart"))

	chart, _ := g.Get("chart")
	assert.Empty(t, chart.Children())

	err = g.Remove("bar")
	var le *LayoutError
	require.True(t, errors.As(err, &le))
	assert.ErrorIs(t, err, ErrUnknownObject)
}

func TestResolveAppliesGroupOverlays(t *testing.T) {
	g := NewGraph(DefaultStyle())
	_, err := g.NewRect("a", 1, 1, Shown())
	require.NoError(t, err)
	_, err = g.NewRect("hidden", 1, 1)
	require.NoError(t, err)
	_, err = g.NewGroup("grp", "a", "hidden")
	require.NoError(t, err)

	ov := Identity()
	ov.Opacity = 0.5
	ov.Offset = geometry.Vec{Y: 1}
	snap := g.Resolve(1.5, map[ID][]Overlay{"grp": {ov}})

	require.Len(t, snap.Objects, 1, "hidden member stays off stage, group is structural")
	got := snap.Objects[0]
	assert.Equal(t, ID("a"), got.ID)
	assert.Equal(t, 0.5, got.Style.Opacity)
	assert.Equal(t, geometry.Vec{Y: 1}, got.Transform.Position)
	assert.Equal(t, 1.5, snap.Time)

	show := Identity()
	show.Show = true
	snap = g.Resolve(2, map[ID][]Overlay{"hidden": {show}})
	assert.Len(t, snap.Objects, 2)
}

func TestResolveOrderIsZThenCreation(t *testing.T) {
	g := NewGraph(DefaultStyle())
	for _, id := range []ID{"c", "a", "b"} {
		_, err := g.NewRect(id, 1, 1, Shown())
		require.NoError(t, err)
	}
	top, _ := g.Get("c")
	top.Z = 1

	snap := g.Resolve(0, nil)
	var ids []ID
	for _, o := range snap.Objects {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []ID{"a", "b", "c"}, ids)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#bbbbbb")
	require.NoError(t, err)
	assert.Equal(t, GreyB, c)

	c, err = ParseColor("grey_e")
	require.NoError(t, err)
	assert.Equal(t, GreyE, c)

	_, err = ParseColor("#12")
	assert.Error(t, err)

	assert.Equal(t, "#ffffff80", Color{255, 255, 255, 128}.String())
	assert.Equal(t, Color{128, 128, 128, 255}, Black.Lerp(White, 0.5))
}

func TestTextExtentScalesWithFontSize(t *testing.T) {
	w1, h1 := TextExtent("Fraud", 36)
	w2, h2 := TextExtent("Fraud", 72)
	assert.InDelta(t, 2*w1, w2, 1e-9)
	assert.InDelta(t, 1.0, h2, 1e-9, "72pt line is one unit tall")
	assert.InDelta(t, 0.5, h1, 1e-9)

	_, h3 := TextExtent("a\nb\nc", 72)
	assert.InDelta(t, 3.0, h3, 1e-9)
}
