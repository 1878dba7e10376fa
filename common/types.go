// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB color stored in linear space, the space lighting math is done in.
// Values authored as hex strings are sRGB encoded and converted on the way in and out.
type Color struct {
	R, G, B float32
}

// White is linear white.
var White = Color{R: 1, G: 1, B: 1}

// ColorFromHex parses an sRGB hex string ("#a778d8", "a778d8" or "#fff") into a linear Color.
//
// Parameters:
//   - hex: the sRGB hex string
//
// Returns:
//   - Color: the linear color
//   - error: error if the string is not a valid hex color
func ColorFromHex(hex string) (Color, error) {
	var c Color
	if err := c.SetHex(hex); err != nil {
		return Color{}, err
	}
	return c, nil
}

// ColorFromUint converts a packed 0xRRGGBB sRGB value into a linear Color.
//
// Parameters:
//   - v: packed sRGB value
//
// Returns:
//   - Color: the linear color
func ColorFromUint(v uint32) Color {
	var c Color
	c.SetUint(v)
	return c
}

// SetHex assigns the color from an sRGB hex string, converting it to linear space.
// The color is left untouched on error.
func (c *Color) SetHex(hex string) error {
	h := strings.TrimSpace(hex)
	if !strings.HasPrefix(h, "#") {
		h = "#" + h
	}
	parsed, err := colorful.Hex(h)
	if err != nil {
		return fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := parsed.LinearRgb()
	c.R, c.G, c.B = float32(r), float32(g), float32(b)
	return nil
}

// SetUint assigns the color from a packed 0xRRGGBB sRGB value.
func (c *Color) SetUint(v uint32) {
	srgb := colorful.Color{
		R: float64((v>>16)&0xff) / 255,
		G: float64((v>>8)&0xff) / 255,
		B: float64(v&0xff) / 255,
	}
	r, g, b := srgb.LinearRgb()
	c.R, c.G, c.B = float32(r), float32(g), float32(b)
}

// SetLinear assigns linear components directly.
func (c *Color) SetLinear(r, g, b float32) {
	c.R, c.G, c.B = r, g, b
}

// Hex returns the sRGB hex encoding of the color, e.g. "#a778d8".
func (c Color) Hex() string {
	return colorful.LinearRgb(float64(c.R), float64(c.G), float64(c.B)).Clamped().Hex()
}

// SRGB returns the sRGB encoded components in [0, 1], suitable for writing to an 8-bit surface.
func (c Color) SRGB() (r, g, b float64) {
	srgb := colorful.LinearRgb(float64(c.R), float64(c.G), float64(c.B)).Clamped()
	return srgb.R, srgb.G, srgb.B
}

// Scale multiplies every component by f.
func (c Color) Scale(f float32) Color {
	return Color{R: c.R * f, G: c.G * f, B: c.B * f}
}

// Add sums two colors component-wise.
func (c Color) Add(o Color) Color {
	return Color{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B}
}

// Mul multiplies two colors component-wise.
func (c Color) Mul(o Color) Color {
	return Color{R: c.R * o.R, G: c.G * o.G, B: c.B * o.B}
}
