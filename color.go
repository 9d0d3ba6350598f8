package ggreflect

import "image/color"

// RGBA is a non-premultiplied color with components in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Common colors used by the compositor.
var (
	White            = RGBA{R: 1, G: 1, B: 1, A: 1}
	TransparentWhite = RGBA{R: 1, G: 1, B: 1, A: 0}
	Transparent      = RGBA{}
)

// Color converts c to a color.NRGBA.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: unitToByte(c.R),
		G: unitToByte(c.G),
		B: unitToByte(c.B),
		A: unitToByte(c.A),
	}
}

// premultiplied returns c as premultiplied 8-bit channels with its alpha
// scaled by alpha.
func (c RGBA) premultiplied(alpha float64) (r, g, b, a uint8) {
	fa := clamp01(c.A * alpha)
	return unitToByte(c.R * fa), unitToByte(c.G * fa), unitToByte(c.B * fa), unitToByte(fa)
}

func lerpRGBA(c1, c2 RGBA, t float64) RGBA {
	return RGBA{
		R: c1.R + t*(c2.R-c1.R),
		G: c1.G + t*(c2.G-c1.G),
		B: c1.B + t*(c2.B-c1.B),
		A: c1.A + t*(c2.A-c1.A),
	}
}

func unitToByte(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
