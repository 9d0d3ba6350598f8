package image

import (
	"image"
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestAffineTransformPoint(t *testing.T) {
	tests := []struct {
		name         string
		m            Affine
		x, y         float64
		wantX, wantY float64
	}{
		{"identity", Identity(), 3, 4, 3, 4},
		{"translate", Translate(10, -5), 3, 4, 13, -1},
		{"scale", Scale(2, 3), 3, 4, 6, 12},
		{"mirror y", Scale(1, -1), 3, 4, 3, -4},
		{"translate after scale", Translate(50, 50).Multiply(Scale(-1, 1)), 10, 10, 40, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.m.TransformPoint(tt.x, tt.y)
			if !almostEqual(x, tt.wantX) || !almostEqual(y, tt.wantY) {
				t.Errorf("TransformPoint(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestAffineInvert(t *testing.T) {
	m := Translate(50, 25).Multiply(Scale(1, -1)).Multiply(Scale(0.25, 0.25)).Multiply(Translate(-200, -100))
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("Invert() reported singular matrix")
	}
	for _, p := range [][2]float64{{0, 0}, {400, 200}, {123.5, 77.25}} {
		x, y := m.TransformPoint(p[0], p[1])
		bx, by := inv.TransformPoint(x, y)
		if !almostEqual(bx, p[0]) || !almostEqual(by, p[1]) {
			t.Errorf("round trip of %v = (%v, %v)", p, bx, by)
		}
	}
	if !m.Multiply(inv).IsIdentity() {
		// Floating point may leave tiny residue; check points instead of exact identity.
		x, y := m.Multiply(inv).TransformPoint(7, 9)
		if !almostEqual(x, 7) || !almostEqual(y, 9) {
			t.Errorf("m * inv maps (7, 9) to (%v, %v)", x, y)
		}
	}

	if _, ok := Scale(0, 1).Invert(); ok {
		t.Error("Invert() of singular matrix should fail")
	}
	if _, ok := (Affine{}).Invert(); ok {
		t.Error("Invert() of zero matrix should fail")
	}
}

func TestAffineBounds(t *testing.T) {
	m := Translate(50, 50).Multiply(Scale(1, -1)).Multiply(Scale(0.25, 0.25))
	got := m.Bounds(-200, -100, 400, 200)
	want := image.Rect(0, 25, 100, 75)
	if got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}

	frac := Translate(0.5, 0.5).Bounds(0, 0, 2, 2)
	if frac != image.Rect(0, 0, 3, 3) {
		t.Errorf("fractional Bounds() = %v, want (0,0)-(3,3)", frac)
	}
}
