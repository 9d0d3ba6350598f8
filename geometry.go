package ggreflect

import (
	"fmt"
	"math"
)

// Fit returns the uniform scale that fits an imageW x imageH image inside
// a surfaceW x surfaceH surface without cropping.
//
// An image relatively wider than the surface is width-constrained
// (scale*imageW == surfaceW); otherwise it is height-constrained
// (scale*imageH == surfaceH). Centering is left to the caller, which
// translates to the surface midpoint before drawing.
//
// Non-positive or non-finite sizes return ErrDegenerateGeometry.
func Fit(imageW, imageH, surfaceW, surfaceH float64) (float64, error) {
	for _, v := range [...]float64{imageW, imageH, surfaceW, surfaceH} {
		if !(v > 0) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: fit %gx%g into %gx%g",
				ErrDegenerateGeometry, imageW, imageH, surfaceW, surfaceH)
		}
	}

	imageRatio := imageW / imageH
	surfaceRatio := surfaceW / surfaceH
	if imageRatio > surfaceRatio {
		return surfaceW / imageW, nil
	}
	return surfaceH / imageH, nil
}

// workingSize returns the size of an export surface with the aspect of a
// refW x refH reference surface but the pixel density of the image it
// was fitted with scale.
func workingSize(refW, refH int, scale float64) (int, int) {
	w := int(math.Round(float64(refW) / scale))
	h := int(math.Round(float64(refH) / scale))
	return max(w, 1), max(h, 1)
}
