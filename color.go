package gltfext

import (
	"image/color"
	"math"
)

// A Color represents a color, containing R, G, B, and A components, each expected to range from 0 to 1.
type Color struct {
	R, G, B, A float32
}

// NewColor returns a new Color, with the provided R, G, B, and A components expected to range from 0 to 1.
func NewColor(r, g, b, a float32) Color {
	return Color{r, g, b, a}
}

// NewColorFromFactor returns a new Color from a glTF color factor (i.e. baseColorFactor).
func NewColorFromFactor(factor [4]float64) Color {
	return Color{float32(factor[0]), float32(factor[1]), float32(factor[2]), float32(factor[3])}
}

// Set sets the color's components.
func (c *Color) Set(r, g, b, a float32) {
	c.R = r
	c.G = g
	c.B = b
	c.A = a
}

// ToRGBA64 converts the Color to a standard library color, clamping each component to the 0 - 1 range.
func (c Color) ToRGBA64() color.RGBA64 {
	channel := func(v float32) uint16 {
		return uint16(math.Round(float64(clamp(v, 0, 1)) * math.MaxUint16))
	}
	return color.RGBA64{channel(c.R), channel(c.G), channel(c.B), channel(c.A)}
}

func clamp[V float64 | float32 | int](value, min, max V) V {
	if value < min {
		return min
	} else if value > max {
		return max
	}
	return value
}
