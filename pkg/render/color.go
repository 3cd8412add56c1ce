package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an alias for color.RGBA for convenience. Values that carry alpha
// are premultiplied, as everywhere in image/color.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorWire  = color.RGBA{0, 255, 128, 255}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// Hex parses "#rrggbb" or "rrggbb" into an opaque color.
func Hex(s string) (Color, error) {
	if len(s) > 0 && s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB(r, g, b), nil
}

// MustHex is Hex for compile-time palette constants.
func MustHex(s string) Color {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Fade scales an opaque color to the given opacity, premultiplied.
func Fade(c Color, opacity float64) Color {
	opacity = math.Max(0, math.Min(1, opacity))
	return Color{
		R: uint8(float64(c.R)*opacity + 0.5),
		G: uint8(float64(c.G)*opacity + 0.5),
		B: uint8(float64(c.B)*opacity + 0.5),
		A: uint8(float64(c.A)*opacity + 0.5),
	}
}

// lerpColor linearly interpolates between two colors.
func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}

// rgb is an unclamped linear color used while accumulating light.
type rgb struct{ R, G, B float64 }

func rgbOf(c Color) rgb {
	return rgb{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

func (a rgb) add(b rgb) rgb       { return rgb{a.R + b.R, a.G + b.G, a.B + b.B} }
func (a rgb) mul(b rgb) rgb       { return rgb{a.R * b.R, a.G * b.G, a.B * b.B} }
func (a rgb) scale(s float64) rgb { return rgb{a.R * s, a.G * s, a.B * s} }
func (a rgb) toColor() Color      { return RGB(clamp8(a.R), clamp8(a.G), clamp8(a.B)) }

func clamp8(v float64) uint8 {
	return uint8(math.Max(0, math.Min(1, v))*255 + 0.5)
}
