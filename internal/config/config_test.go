package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/chart2video/internal/effects"
	"github.com/ivlev/chart2video/internal/scene"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.InDelta(t, 14.222, cfg.FrameWidth, 1e-3)
	assert.True(t, cfg.FrameAligned)
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fps: 60\nbackground: grey_e\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.FPS)
	assert.Equal(t, scene.GreyE, cfg.Background)
	assert.Equal(t, 1920, cfg.Width)
	assert.Equal(t, "smooth", cfg.Easing)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := DefaultConfig()
	cfg.Workers = 3
	cfg.TextColor = scene.Yellow
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"odd width", func(c *Config) { c.Width = 1921 }},
		{"no frame", func(c *Config) { c.FrameHeight = 0 }},
		{"bad easing", func(c *Config) { c.Easing = "bouncy" }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestUnknownEasingListsKnownCurves(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Easing = "bouncy"
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, effects.ErrUnknownEasing)
	assert.Contains(t, err.Error(), `"bouncy"`)
	for _, name := range effects.EasingNames() {
		assert.Contains(t, err.Error(), name)
	}
}

func TestMergeOverrides(t *testing.T) {
	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("font_size: 36\neasing: linear\n"), &node))

	cfg := DefaultConfig()
	require.NoError(t, cfg.Merge(node.Content[0]))
	assert.Equal(t, 36.0, cfg.FontSize)
	assert.Equal(t, "linear", cfg.Easing)
	assert.Equal(t, 36.0, cfg.Defaults().FontSize)

	require.NoError(t, cfg.Merge(nil))
}
