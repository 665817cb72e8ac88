package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/chart2video/internal/effects"
	"github.com/ivlev/chart2video/internal/scene"
)

// Config holds process-wide rendering defaults. Style defaults apply when
// objects are created; per-object options override them.
type Config struct {
	Background  scene.Color `yaml:"background"`
	TextColor   scene.Color `yaml:"text_color"`
	FontSize    float64     `yaml:"font_size"`
	Easing      string      `yaml:"easing"`
	FPS         int         `yaml:"fps"`
	Width       int         `yaml:"width"`
	Height      int         `yaml:"height"`
	FrameWidth  float64     `yaml:"frame_width"`
	FrameHeight float64     `yaml:"frame_height"`
	// Workers is the raster pool size; 0 sizes it from the host.
	Workers      int    `yaml:"workers"`
	VideoEncoder string `yaml:"video_encoder,omitempty"`
	// Quality is the encoder's CRF/CQ/bitrate factor; 0 picks the
	// encoder default.
	Quality      int  `yaml:"quality,omitempty"`
	FrameAligned bool `yaml:"frame_aligned"`
	ShowStats    bool `yaml:"show_stats"`

	OutputPath   string `yaml:"-"`
	BuildVersion string `yaml:"-"`
}

func DefaultConfig() *Config {
	return &Config{
		Background:   scene.Black,
		TextColor:    scene.White,
		FontSize:     48,
		Easing:       effects.EaseSmooth,
		FPS:          30,
		Width:        1920,
		Height:       1080,
		FrameWidth:   8.0 * 16 / 9,
		FrameHeight:  8.0,
		FrameAligned: true,
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Merge applies a YAML fragment, such as a script's config block, on top
// of c.
func (c *Config) Merge(node *yaml.Node) error {
	if node == nil || node.Kind == 0 {
		return nil
	}
	if err := node.Decode(c); err != nil {
		return fmt.Errorf("config overrides: %w", err)
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	var errs []error
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("bad output size %dx%d", c.Width, c.Height))
	}
	if c.Width%2 != 0 || c.Height%2 != 0 {
		errs = append(errs, fmt.Errorf("output size %dx%d must be even for yuv420p", c.Width, c.Height))
	}
	if !(c.FrameWidth > 0) || !(c.FrameHeight > 0) {
		errs = append(errs, fmt.Errorf("bad frame size %gx%g", c.FrameWidth, c.FrameHeight))
	}
	if !(c.FontSize > 0) {
		errs = append(errs, fmt.Errorf("font_size must be positive, got %g", c.FontSize))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if _, err := effects.LookupEasing(c.Easing); err != nil {
		errs = append(errs, fmt.Errorf("%w (known: %s)", err, strings.Join(effects.EasingNames(), ", ")))
	}
	return errors.Join(errs...)
}

// Defaults converts the style part of the config for a scene graph.
func (c *Config) Defaults() scene.Defaults {
	d := scene.DefaultStyle()
	d.FontSize = c.FontSize
	d.TextColor = c.TextColor
	return d
}
