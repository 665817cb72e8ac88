package scene

import (
	"fmt"
	"image/color"
	"strings"
)

// Color is an sRGB colour stored non-premultiplied. It serializes as
// "#rrggbb" or "#rrggbbaa".
type Color struct {
	R, G, B, A uint8
}

// Named colours used by chart slides.
var (
	White  = Color{0xFF, 0xFF, 0xFF, 0xFF}
	Black  = Color{0x00, 0x00, 0x00, 0xFF}
	GreyA  = Color{0xDD, 0xDD, 0xDD, 0xFF}
	GreyB  = Color{0xBB, 0xBB, 0xBB, 0xFF}
	GreyC  = Color{0x88, 0x88, 0x88, 0xFF}
	Grey   = GreyC
	GreyD  = Color{0x44, 0x44, 0x44, 0xFF}
	GreyE  = Color{0x22, 0x22, 0x22, 0xFF}
	Blue   = Color{0x58, 0xC4, 0xDD, 0xFF}
	Red    = Color{0xFC, 0x62, 0x55, 0xFF}
	Green  = Color{0x83, 0xC1, 0x67, 0xFF}
	Yellow = Color{0xFF, 0xFF, 0x00, 0xFF}
)

var palette = map[string]Color{
	"white":  White,
	"black":  Black,
	"grey_a": GreyA,
	"grey_b": GreyB,
	"grey_c": GreyC,
	"grey":   Grey,
	"grey_d": GreyD,
	"grey_e": GreyE,
	"blue":   Blue,
	"red":    Red,
	"green":  Green,
	"yellow": Yellow,
}

// ParseColor accepts a palette name ("grey_b") or a hex literal.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := palette[s]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	var c Color
	switch len(hex) {
	case 6:
		c.A = 0xFF
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return Color{}, fmt.Errorf("bad colour %q: %w", s, err)
		}
	case 8:
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err != nil {
			return Color{}, fmt.Errorf("bad colour %q: %w", s, err)
		}
	default:
		return Color{}, fmt.Errorf("bad colour %q", s)
	}
	return c, nil
}

// MustColor is ParseColor for literals known to be valid.
func MustColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) String() string {
	if c.A == 0xFF {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// NRGBA applies an extra opacity factor in [0,1].
func (c Color) NRGBA(opacity float64) color.NRGBA {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(float64(c.A)*opacity + 0.5)}
}

// Lerp mixes c toward o.
func (c Color) Lerp(o Color, t float64) Color {
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
	}
	return Color{mix(c.R, o.R), mix(c.G, o.G), mix(c.B, o.B), mix(c.A, o.A)}
}

func (c Color) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

func (c *Color) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
