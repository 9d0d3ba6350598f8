package image

import (
	"image"
	"math"

	"github.com/gogpu/ggreflect/internal/blend"
)

// DrawParams specifies parameters for the Draw operation.
type DrawParams struct {
	// Transform maps source pixel coordinates to destination pixel
	// coordinates. The zero value is treated as singular and draws nothing;
	// use Identity for an untransformed copy.
	Transform Affine

	// Interp specifies the interpolation mode for sampling.
	Interp InterpolationMode

	// Opacity scales the source alpha, 0.0 to 1.0.
	Opacity float64

	// Op composites the sampled color into the destination.
	Op blend.Op
}

// Draw composites src onto dst through params.Transform.
//
// Every destination pixel whose center maps inside the source rectangle
// is sampled, scaled by the opacity and blended with params.Op. Pixels
// mapping outside the source are left untouched. dst is modified in place.
func Draw(dst, src *image.RGBA, params DrawParams) {
	sw, sh := src.Rect.Dx(), src.Rect.Dy()
	if sw <= 0 || sh <= 0 {
		return
	}

	inv, ok := params.Transform.Invert()
	if !ok {
		return
	}

	alpha := byte(math.Round(math.Max(0, math.Min(1, params.Opacity)) * 255))
	if alpha == 0 && params.Op == blend.OpSourceOver {
		return
	}

	area := params.Transform.Bounds(0, 0, float64(sw), float64(sh)).
		Add(dst.Rect.Min).
		Intersect(dst.Rect)
	if area.Empty() {
		return
	}

	fsw, fsh := float64(sw), float64(sh)
	for y := area.Min.Y; y < area.Max.Y; y++ {
		dy := float64(y-dst.Rect.Min.Y) + 0.5
		for x := area.Min.X; x < area.Max.X; x++ {
			dx := float64(x-dst.Rect.Min.X) + 0.5
			sx, sy := inv.TransformPoint(dx, dy)
			if sx < 0 || sy < 0 || sx >= fsw || sy >= fsh {
				continue
			}

			r, g, b, a := Sample(src, sx, sy, params.Interp)
			if alpha < 255 {
				r = blend.MulDiv255(r, alpha)
				g = blend.MulDiv255(g, alpha)
				b = blend.MulDiv255(b, alpha)
				a = blend.MulDiv255(a, alpha)
			}

			i := dst.PixOffset(x, y)
			blend.Pixel(params.Op, dst.Pix[i:i+4:i+4], r, g, b, a)
		}
	}
}
