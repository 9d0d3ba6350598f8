package ggreflect

import "testing"

func TestDefaultRenderOptions(t *testing.T) {
	got := DefaultRenderOptions()
	want := RenderOptions{Opacity: 50, Offset: 50, Orientation: Below}
	if got != want {
		t.Errorf("DefaultRenderOptions() = %+v, want %+v", got, want)
	}
}

func TestRenderOptionsSetters(t *testing.T) {
	base := DefaultRenderOptions()

	tests := []struct {
		name string
		got  RenderOptions
		want RenderOptions
	}{
		{"opacity", base.WithOpacity(80), RenderOptions{80, 50, Below}},
		{"opacity clamps high", base.WithOpacity(140), RenderOptions{100, 50, Below}},
		{"opacity clamps low", base.WithOpacity(-3), RenderOptions{0, 50, Below}},
		{"offset", base.WithOffset(10), RenderOptions{50, 10, Below}},
		{"offset clamps", base.WithOffset(101), RenderOptions{50, 100, Below}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %+v, want %+v", tt.got, tt.want)
			}
		})
	}
	if base != DefaultRenderOptions() {
		t.Errorf("setters modified the receiver: %+v", base)
	}
}

func TestWithOrientationResets(t *testing.T) {
	opts := RenderOptions{Opacity: 90, Offset: 10, Orientation: Left}

	got := opts.WithOrientation(Right)
	want := RenderOptions{Opacity: 50, Offset: 50, Orientation: Right}
	if got != want {
		t.Errorf("WithOrientation(Right) = %+v, want %+v", got, want)
	}

	// Selecting the current orientation resets too.
	same := opts.WithOrientation(Left)
	if same.Opacity != 50 || same.Offset != 50 {
		t.Errorf("WithOrientation(Left) = %+v, want 50/50", same)
	}
}

func TestRenderOptionsNormalize(t *testing.T) {
	got := RenderOptions{Opacity: 300, Offset: -1, Orientation: Orientation(42)}.Normalize()
	want := RenderOptions{Opacity: 100, Offset: 0, Orientation: Below}
	if got != want {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}
}

func TestRenderOptionsFractions(t *testing.T) {
	opts := RenderOptions{Opacity: 25, Offset: 75, Orientation: Above}
	if got := opts.Alpha(); got != 0.25 {
		t.Errorf("Alpha() = %v, want 0.25", got)
	}
	if got := opts.FadeStop(); got != 0.75 {
		t.Errorf("FadeStop() = %v, want 0.75", got)
	}
	if got := opts.Flip(); got != (FlipMultipliers{1, -1}) {
		t.Errorf("Flip() = %+v, want {1 -1}", got)
	}
}
