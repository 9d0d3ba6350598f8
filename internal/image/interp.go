package image

import (
	"image"
	"math"
)

// InterpolationMode defines how source pixels are sampled.
type InterpolationMode uint8

const (
	// InterpBilinear interpolates between the 4 nearest pixels.
	InterpBilinear InterpolationMode = iota

	// InterpNearest selects the closest pixel.
	InterpNearest
)

// String returns a string representation of the interpolation mode.
func (m InterpolationMode) String() string {
	switch m {
	case InterpBilinear:
		return "Bilinear"
	case InterpNearest:
		return "Nearest"
	default:
		return "Unknown"
	}
}

// Sample returns the premultiplied color of img at continuous pixel
// coordinates (x, y), where pixel (i, j) covers [i, i+1) x [j, j+1).
// Coordinates outside the image are clamped to the edge.
func Sample(img *image.RGBA, x, y float64, mode InterpolationMode) (r, g, b, a byte) {
	if mode == InterpNearest {
		return sampleNearest(img, x, y)
	}
	return sampleBilinear(img, x, y)
}

func sampleNearest(img *image.RGBA, x, y float64) (r, g, b, a byte) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	px := clamp(int(math.Floor(x)), 0, w-1)
	py := clamp(int(math.Floor(y)), 0, h-1)
	return pixel(img, px, py)
}

func sampleBilinear(img *image.RGBA, x, y float64) (r, g, b, a byte) {
	w, h := img.Rect.Dx(), img.Rect.Dy()

	// Pixel centers sit at half-integer coordinates.
	fx := x - 0.5
	fy := y - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := clamp(x0+1, 0, w-1)
	y1 := clamp(y0+1, 0, h-1)
	x0 = clamp(x0, 0, w-1)
	y0 = clamp(y0, 0, h-1)

	r00, g00, b00, a00 := pixel(img, x0, y0)
	r10, g10, b10, a10 := pixel(img, x1, y0)
	r01, g01, b01, a01 := pixel(img, x0, y1)
	r11, g11, b11, a11 := pixel(img, x1, y1)

	r = lerp2D(r00, r10, r01, r11, tx, ty)
	g = lerp2D(g00, g10, g01, g11, tx, ty)
	b = lerp2D(b00, b10, b01, b11, tx, ty)
	a = lerp2D(a00, a10, a01, a11, tx, ty)
	return r, g, b, a
}

func pixel(img *image.RGBA, x, y int) (r, g, b, a byte) {
	i := img.PixOffset(img.Rect.Min.X+x, img.Rect.Min.Y+y)
	s := img.Pix[i : i+4 : i+4]
	return s[0], s[1], s[2], s[3]
}

// lerp2D interpolates the four corners of a unit square at (tx, ty).
func lerp2D(v00, v10, v01, v11 byte, tx, ty float64) byte {
	top := float64(v00) + tx*(float64(v10)-float64(v00))
	bottom := float64(v01) + tx*(float64(v11)-float64(v01))
	v := top + ty*(bottom-top)
	return byte(math.Max(0, math.Min(255, math.Round(v))))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
