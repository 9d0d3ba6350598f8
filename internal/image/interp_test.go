package image

import (
	"image"
	"testing"
)

func checker() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	set := func(x, y int, r, g, b, a byte) {
		i := img.PixOffset(x, y)
		copy(img.Pix[i:i+4], []byte{r, g, b, a})
	}
	set(0, 0, 255, 0, 0, 255)
	set(1, 0, 0, 255, 0, 255)
	set(0, 1, 0, 0, 255, 255)
	set(1, 1, 255, 255, 255, 255)
	return img
}

func TestInterpolationModeString(t *testing.T) {
	tests := []struct {
		mode InterpolationMode
		want string
	}{
		{InterpBilinear, "Bilinear"},
		{InterpNearest, "Nearest"},
		{InterpolationMode(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSampleAtPixelCenters(t *testing.T) {
	img := checker()
	for _, mode := range []InterpolationMode{InterpNearest, InterpBilinear} {
		r, g, b, a := Sample(img, 0.5, 0.5, mode)
		if r != 255 || g != 0 || b != 0 || a != 255 {
			t.Errorf("%v: Sample(0.5, 0.5) = (%d, %d, %d, %d), want red", mode, r, g, b, a)
		}
		r, g, b, a = Sample(img, 1.5, 1.5, mode)
		if r != 255 || g != 255 || b != 255 || a != 255 {
			t.Errorf("%v: Sample(1.5, 1.5) = (%d, %d, %d, %d), want white", mode, r, g, b, a)
		}
	}
}

func TestSampleBilinearMidpoint(t *testing.T) {
	img := checker()
	r, g, b, a := Sample(img, 1, 0.5, InterpBilinear)
	if r != 128 || g != 128 || b != 0 || a != 255 {
		t.Errorf("Sample(1, 0.5) = (%d, %d, %d, %d), want (128, 128, 0, 255)", r, g, b, a)
	}
}

func TestSampleClampsToEdge(t *testing.T) {
	img := checker()
	for _, mode := range []InterpolationMode{InterpNearest, InterpBilinear} {
		r, g, b, a := Sample(img, -5, -5, mode)
		if r != 255 || g != 0 || b != 0 || a != 255 {
			t.Errorf("%v: Sample(-5, -5) = (%d, %d, %d, %d), want red", mode, r, g, b, a)
		}
		r, g, b, a = Sample(img, 10, 10, mode)
		if r != 255 || g != 255 || b != 255 || a != 255 {
			t.Errorf("%v: Sample(10, 10) = (%d, %d, %d, %d), want white", mode, r, g, b, a)
		}
	}
}

func TestSampleSubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	i := img.PixOffset(2, 2)
	copy(img.Pix[i:i+4], []byte{9, 8, 7, 255})
	sub := img.SubImage(image.Rect(2, 2, 4, 4)).(*image.RGBA)

	r, g, b, a := Sample(sub, 0.5, 0.5, InterpNearest)
	if r != 9 || g != 8 || b != 7 || a != 255 {
		t.Errorf("Sample(sub) = (%d, %d, %d, %d), want (9, 8, 7, 255)", r, g, b, a)
	}
}
