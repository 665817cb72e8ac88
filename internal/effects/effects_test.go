package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/chart2video/internal/geometry"
	"github.com/ivlev/chart2video/internal/scene"
)

func TestEasingEndpoints(t *testing.T) {
	for _, name := range EasingNames() {
		t.Run(name, func(t *testing.T) {
			e, err := LookupEasing(name)
			require.NoError(t, err)
			assert.InDelta(t, 0, e(0), 1e-12)
			if name == EaseThereAndBack {
				assert.InDelta(t, 1, e(0.5), 1e-12)
				assert.InDelta(t, 0, e(1), 1e-12)
				return
			}
			assert.InDelta(t, 1, e(1), 1e-12)
		})
	}

	_, err := LookupEasing("bounce")
	assert.ErrorIs(t, err, ErrUnknownEasing)

	lin, err := LookupEasing("")
	require.NoError(t, err)
	assert.Equal(t, 0.25, lin(0.25))
	assert.InDelta(t, 0.5, easeInOutCubic(0.5), 1e-12)
}

func TestProgress(t *testing.T) {
	tests := []struct {
		clock, start, dur, want float64
	}{
		{0, 0, 1, 0},
		{0.5, 0, 1, 0.5},
		{3, 2, 2, 0.5},
		{5, 2, 2, 1},
		{1, 2, 2, 0},
		{7, 7, 0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Progress(tt.clock, tt.start, tt.dur))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		p    Primitive
		want error
	}{
		{"ok", FadeIn("a", geometry.Up), nil},
		{"no target", Create(""), ErrInvalidPrimitive},
		{"negative duration", Write("a", WithDuration(-1)), ErrInvalidPrimitive},
		{"bad easing", Move("a", geometry.Origin, WithEasing("wobble")), ErrUnknownEasing},
		{"self replacement", ReplacementTransform("a", "a"), ErrInvalidPrimitive},
		{"unknown kind", Primitive{Kind: "spin", Target: "a"}, ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWrites(t *testing.T) {
	assert.Equal(t, []Access{{"a", PropOpacity}}, FadeIn("a", geometry.Origin).Writes())
	assert.Equal(t, []Access{{"a", PropOpacity}, {"a", PropPosition}}, FadeOut("a", geometry.Down).Writes())
	assert.Equal(t, []Access{{"a", PropScale}}, GrowFromEdge("a", geometry.Down).Writes())
	assert.Len(t, ReplacementTransform("a", "b").Writes(), 7)
}

func newGraph(t *testing.T) *scene.Graph {
	t.Helper()
	g := scene.NewGraph(scene.DefaultStyle())
	_, err := g.NewRect("r", 2, 4, scene.WithPosition(geometry.Vec{X: 1, Y: 2}))
	require.NoError(t, err)
	return g
}

func TestFadeInOverlay(t *testing.T) {
	g := newGraph(t)
	b, err := FadeIn("r", geometry.Up).Bind(g)
	require.NoError(t, err)

	ov := b.Overlays(0.5)["r"]
	assert.True(t, ov.Show)
	assert.Equal(t, 0.5, ov.Opacity)
	assert.Equal(t, geometry.Vec{X: 0, Y: -0.5}, ov.Offset)

	snap := g.Resolve(0.5, map[scene.ID][]scene.Overlay{"r": {ov}})
	require.Len(t, snap.Objects, 1)
	assert.Equal(t, 0.5, snap.Objects[0].Style.Opacity)

	o, _ := g.Get("r")
	assert.False(t, o.Visible, "overlays do not touch the graph")
	require.NoError(t, b.Settle(g))
	assert.True(t, o.Visible)
	assert.Equal(t, geometry.Vec{X: 1, Y: 2}, o.Transform.Position)
}

func TestGrowFromEdgeAnchorsAtEdge(t *testing.T) {
	g := newGraph(t)
	b, err := GrowFromEdge("r", geometry.Down).Bind(g)
	require.NoError(t, err)

	ov := b.Overlays(0.5)["r"]
	snap := g.Resolve(0, map[scene.ID][]scene.Overlay{"r": {ov}})
	box := snap.Objects[0].Box()
	assert.InDelta(t, 0, box.Min.Y, 1e-12, "bottom edge stays put")
	assert.InDelta(t, 2, box.Height(), 1e-12)
	assert.InDelta(t, 1, box.Width(), 1e-12)
}

func TestMoveCommitsOnSettle(t *testing.T) {
	g := newGraph(t)
	b, err := Move("r", geometry.Vec{X: -3, Y: 2}, WithEasing(EaseSmooth)).Bind(g)
	require.NoError(t, err)
	assert.Equal(t, geometry.Vec{X: -2, Y: 0}, b.Overlays(0.5)["r"].Offset)

	require.NoError(t, b.Settle(g))
	box, _ := g.Box("r")
	assert.Equal(t, geometry.Vec{X: -3, Y: 2}, box.Center())
}

func TestReplacementTransformMigratesOwnership(t *testing.T) {
	g := newGraph(t)
	_, err := g.NewText("title", "Fraud Detection", scene.Shown())
	require.NoError(t, err)
	_, err = g.NewText("section", "Data", scene.WithPosition(geometry.Vec{X: 0, Y: 3}))
	require.NoError(t, err)

	b, err := ReplacementTransform("title", "section").Bind(g)
	require.NoError(t, err)

	start := b.Overlays(0)
	assert.Equal(t, 1.0, start["title"].Opacity)
	assert.Equal(t, 0.0, start["section"].Opacity)
	end := b.Overlays(1)
	assert.Equal(t, geometry.Vec{X: 0, Y: 3}, end["title"].Offset)
	assert.Equal(t, geometry.Vec{}, end["section"].Offset)

	from, to, ok := b.Successor()
	require.True(t, ok)
	assert.Equal(t, scene.ID("title"), from)
	assert.Equal(t, scene.ID("section"), to)

	require.NoError(t, b.Settle(g))
	assert.False(t, g.Has("title"))
	o, ok := g.Get("section")
	require.True(t, ok)
	assert.True(t, o.Visible)
}

func TestBindErrors(t *testing.T) {
	g := newGraph(t)
	_, err := FadeIn("missing", geometry.Origin).Bind(g)
	assert.ErrorIs(t, err, scene.ErrUnknownObject)

	_, err = g.NewGroup("grp", "r")
	require.NoError(t, err)
	_, err = ReplacementTransform("grp", "r").Bind(g)
	assert.ErrorIs(t, err, ErrInvalidPrimitive)
}
