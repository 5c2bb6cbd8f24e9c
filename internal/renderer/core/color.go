package core

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an opaque 24-bit RGB color.
type Color struct {
	R, G, B uint8
}

// Common colors.
var (
	ColorBlack     = Color{R: 0, G: 0, B: 0}
	ColorWhite     = Color{R: 255, G: 255, B: 255}
	ColorLightGray = Color{R: 0xC0, G: 0xC0, B: 0xC0}
	ColorGray      = Color{R: 128, G: 128, B: 128}
)

// ColorFromRGB creates a color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ParseColor parses "#RGB" or "#RRGGBB"; the leading '#' is optional.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return FromColorful(c), nil
}

// FromColorful converts a go-colorful color, clamping to the RGB gamut.
func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// Colorful returns the go-colorful representation of c.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// RGBA returns c as an image/color value.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// Xor returns c with each channel XORed against pattern.
// Applying the same pattern twice restores the original color.
func (c Color) Xor(pattern Color) Color {
	return Color{R: c.R ^ pattern.R, G: c.G ^ pattern.G, B: c.B ^ pattern.B}
}

// Blend mixes c toward other by t in [0,1] in RGB space.
func (c Color) Blend(other Color, t float64) Color {
	return FromColorful(c.Colorful().BlendRgb(other.Colorful(), t))
}

// String returns the hex representation of the color.
func (c Color) String() string {
	return c.Colorful().Hex()
}
