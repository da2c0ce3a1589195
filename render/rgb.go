package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/turret/components"
)

// RGB is an alias to components.RGB, allowing render package to extend functionality
type RGB = components.RGB

// Predefined default color
var (
	RGBBlack = RGB{R: 0, G: 0, B: 0}
)

// clamp converts float to uint8 efficiently
func clamp(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// Scale multiplies every channel by factor
func Scale(c RGB, factor float64) RGB {
	return RGB{
		R: clamp(float64(c.R) * factor),
		G: clamp(float64(c.G) * factor),
		B: clamp(float64(c.B) * factor),
	}
}

// Lerp linearly interpolates between two colors
// t=0 returns a, t=1 returns b
func Lerp(a, b RGB, t float64) RGB {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return RGB{
		R: uint8(float64(a.R) + t*float64(int(b.R)-int(a.R))),
		G: uint8(float64(a.G) + t*float64(int(b.G)-int(a.G))),
		B: uint8(float64(a.B) + t*float64(int(b.B)-int(a.B))),
	}
}

// Blend composites src over dst with alpha
func Blend(dst, src RGB, alpha float64) RGB {
	return Lerp(dst, src, alpha)
}

// ToTcell converts to a terminal color
func ToTcell(c RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
