package ggreflect

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// solidSource returns an opaque w x h source of one color.
func solidSource(t *testing.T, w, h int, c color.RGBA) *SourceImage {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	src, err := NewSourceImage(img)
	if err != nil {
		t.Fatalf("NewSourceImage() error = %v", err)
	}
	return src
}

func TestNewSurface(t *testing.T) {
	s := NewSurface(30, 20)
	if s.Width() != 30 || s.Height() != 20 {
		t.Errorf("size = %dx%d, want 30x20", s.Width(), s.Height())
	}
	if !s.Supported() {
		t.Fatal("Supported() = false for 30x20 surface")
	}
	if got := s.Bounds(); got != image.Rect(0, 0, 30, 20) {
		t.Errorf("Bounds() = %v", got)
	}
	if s.AlphaAt(5, 5) != 0 {
		t.Error("new surface should be transparent")
	}
	if s.AlphaAt(-1, 0) != 0 || s.AlphaAt(30, 0) != 0 {
		t.Error("AlphaAt() outside the surface should be 0")
	}
}

func TestSurfaceUnsupported(t *testing.T) {
	for _, size := range [][2]int{{0, 0}, {10, 0}, {0, 10}, {-5, 10}} {
		s := NewSurface(size[0], size[1])
		if s.Supported() {
			t.Errorf("NewSurface(%d, %d).Supported() = true", size[0], size[1])
		}
		if _, err := s.Acquire(); !errors.Is(err, ErrNoContext) {
			t.Errorf("Acquire() error = %v, want ErrNoContext", err)
		}
		if s.RGBA() != nil {
			t.Error("unsupported surface should have no pixels")
		}
	}
	var nilSurface *Surface
	if nilSurface.Supported() {
		t.Error("nil surface reported as supported")
	}
}

func TestDrawContextClear(t *testing.T) {
	s := NewSurface(4, 4)
	dc, err := s.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	defer dc.Release()

	for i := range s.RGBA().Pix {
		s.RGBA().Pix[i] = 200
	}
	dc.SetCompositeOp(DestinationOut)
	dc.Clear()
	for i, v := range s.RGBA().Pix {
		if v != 0 {
			t.Fatalf("Pix[%d] = %d after Clear, want 0", i, v)
		}
	}
	if dc.op != SourceOver {
		t.Errorf("Clear() left op = %v, want source-over", dc.op)
	}
}

func TestDrawContextDrawImage(t *testing.T) {
	src := solidSource(t, 2, 2, color.RGBA{R: 255, A: 255})
	s := NewSurface(8, 8)
	dc, err := s.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	defer dc.Release()

	dc.SetGlobalAlpha(0.5)
	dc.DrawImage(src.RGBA(), 2, 2, 4, 4)

	if got := s.AlphaAt(3, 3); got != 128 {
		t.Errorf("alpha inside = %d, want 128", got)
	}
	if got := s.AlphaAt(1, 1); got != 0 {
		t.Errorf("alpha outside = %d, want 0", got)
	}
	if got := s.AlphaAt(6, 6); got != 0 {
		t.Errorf("alpha past the rect = %d, want 0", got)
	}
}

func TestDrawContextTransform(t *testing.T) {
	src := solidSource(t, 4, 4, color.RGBA{G: 255, A: 255})
	s := NewSurface(10, 10)
	dc, err := s.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	defer dc.Release()

	// Centre, mirror and scale down, as a vertical reflection would.
	dc.Translate(5, 5)
	dc.Scale(0.5, -0.5)
	dc.DrawImage(src.RGBA(), -2, -2, 4, 4)
	dc.ResetTransform()

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			inside := x >= 4 && x < 6 && y >= 4 && y < 6
			got := s.AlphaAt(x, y)
			if inside && got != 255 {
				t.Errorf("alpha(%d,%d) = %d, want 255", x, y, got)
			}
			if !inside && got != 0 {
				t.Errorf("alpha(%d,%d) = %d, want 0", x, y, got)
			}
		}
	}
	if !dc.transform.IsIdentity() {
		t.Error("ResetTransform() did not restore identity")
	}
}

func TestDrawContextFillRectDestinationOut(t *testing.T) {
	s := NewSurface(4, 1)
	dc, err := s.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	defer dc.Release()

	dc.DrawImage(solidSource(t, 1, 1, color.RGBA{B: 255, A: 255}).RGBA(), 0, 0, 4, 1)

	g := NewLinearGradient(GradientVector{X0: 0, Y0: 0, X1: 4, Y1: 0}).
		AddColorStop(0, TransparentWhite).
		AddColorStop(1, White)
	dc.SetCompositeOp(DestinationOut)
	dc.FillRect(0, 0, 4, 1, g)

	// Pixel centres sit at t = 0.125, 0.375, 0.625, 0.875.
	want := []uint8{223, 159, 96, 32}
	for x, w := range want {
		got := s.AlphaAt(x, 0)
		if diff := int(got) - int(w); diff < -1 || diff > 1 {
			t.Errorf("alpha(%d) = %d, want %d", x, got, w)
		}
	}
}

func TestDrawContextRelease(t *testing.T) {
	s := NewSurface(2, 2)
	dc, err := s.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	dc.Release()
	if dc.Surface() != nil {
		t.Error("Surface() after Release should be nil")
	}
	// Drawing after release is ignored.
	dc.DrawImage(solidSource(t, 1, 1, color.RGBA{A: 255}).RGBA(), 0, 0, 2, 2)
	dc.FillRect(0, 0, 2, 2, NewLinearGradient(GradientVector{}).AddColorStop(0, White))
	dc.Clear()
	if s.AlphaAt(0, 0) != 0 {
		t.Error("released context drew into the surface")
	}
}
