package ggreflect

// Neutral values applied on creation and whenever the orientation changes.
const (
	DefaultOpacity = 50
	DefaultOffset  = 50
)

// RenderOptions are the user-tunable parameters of a reflection.
//
// RenderOptions is a value: setters return a new value and the holder
// replaces its copy wholesale, so readers never observe a partially
// updated triple.
type RenderOptions struct {
	// Opacity of the reflection in percent, 0 to 100.
	Opacity int
	// Offset is where the fade completes, in percent of the surface extent
	// along the fade axis, 0 to 100.
	Offset int
	// Orientation selects the reflecting edge.
	Orientation Orientation
}

// DefaultRenderOptions returns {Opacity: 50, Offset: 50, Orientation: Below}.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Opacity:     DefaultOpacity,
		Offset:      DefaultOffset,
		Orientation: Below,
	}
}

// WithOpacity returns o with Opacity set to v clamped to [0, 100].
func (o RenderOptions) WithOpacity(v int) RenderOptions {
	o.Opacity = clampPercent(v)
	return o
}

// WithOffset returns o with Offset set to v clamped to [0, 100].
func (o RenderOptions) WithOffset(v int) RenderOptions {
	o.Offset = clampPercent(v)
	return o
}

// WithOrientation returns options for orientation or with opacity and
// offset reset to their defaults. The reset applies even when or equals
// the current orientation.
func (o RenderOptions) WithOrientation(or Orientation) RenderOptions {
	return RenderOptions{
		Opacity:     DefaultOpacity,
		Offset:      DefaultOffset,
		Orientation: or,
	}
}

// Normalize clamps Opacity and Offset and maps an invalid orientation to
// Below. It is applied to options arriving from outside the setters
// (configuration files, HTTP forms).
func (o RenderOptions) Normalize() RenderOptions {
	if !o.Orientation.Valid() {
		o.Orientation = Below
	}
	o.Opacity = clampPercent(o.Opacity)
	o.Offset = clampPercent(o.Offset)
	return o
}

// Flip returns the flip multipliers derived from the orientation.
func (o RenderOptions) Flip() FlipMultipliers {
	return o.Orientation.Flip()
}

// Alpha returns the opacity as a fraction in [0, 1].
func (o RenderOptions) Alpha() float64 {
	return float64(clampPercent(o.Opacity)) / 100
}

// FadeStop returns the gradient position where the fade completes, in [0, 1].
func (o RenderOptions) FadeStop() float64 {
	return float64(clampPercent(o.Offset)) / 100
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
