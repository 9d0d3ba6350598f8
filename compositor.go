package ggreflect

import "fmt"

// Compositor renders a reflection of a source image into a surface.
//
// A Compositor carries no per-render state and may be shared by several
// surfaces, but a single surface must not be rendered concurrently.
type Compositor struct {
	vectors VectorProvider
	interp  Interpolation
}

// CompositorOption configures a Compositor.
type CompositorOption func(*Compositor)

// WithVectorProvider sets where the compositor takes gradient vectors
// from. The default computes them with VectorFor.
func WithVectorProvider(p VectorProvider) CompositorOption {
	return func(c *Compositor) {
		if p != nil {
			c.vectors = p
		}
	}
}

// WithInterpolation sets how the source image is sampled. The default is
// bilinear.
func WithInterpolation(mode Interpolation) CompositorOption {
	return func(c *Compositor) {
		c.interp = mode
	}
}

// NewCompositor returns a compositor with the given options applied.
func NewCompositor(opts ...CompositorOption) *Compositor {
	c := &Compositor{
		vectors: VectorFunc(VectorFor),
		interp:  InterpBilinear,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render replaces the contents of s with the reflection of src.
//
// The image is fitted into the surface, mirrored about the axis of the
// orientation and drawn at opts.Opacity. A linear fade is then erased
// from the result: alpha is kept in full at the reflecting edge and
// falls to zero at opts.Offset percent of the surface extent. Rendering
// twice with the same arguments gives identical pixels.
//
// Render returns ErrNoContext for an unsupported surface, ErrNoSource
// for a nil source and ErrDegenerateGeometry for an empty source.
func (c *Compositor) Render(s *Surface, src *SourceImage, opts RenderOptions) error {
	dc, err := s.Acquire()
	if err != nil {
		return err
	}
	defer dc.Release()

	dc.Clear()
	if src == nil {
		return ErrNoSource
	}
	opts = opts.Normalize()

	scale, err := Fit(float64(src.Width()), float64(src.Height()), float64(s.Width()), float64(s.Height()))
	if err != nil {
		Logger().Error("render: cannot fit source", "error", err)
		return fmt.Errorf("render: %w", err)
	}

	flip := opts.Flip()
	iw, ih := float64(src.Width()), float64(src.Height())

	dc.SetInterpolation(c.interp)
	dc.SetGlobalAlpha(opts.Alpha())
	dc.Translate(float64(s.Width())/2, float64(s.Height())/2)
	dc.Scale(float64(flip.Horizontal)*scale, float64(flip.Vertical)*scale)
	dc.DrawImage(src.RGBA(), -iw/2, -ih/2, iw, ih)
	dc.ResetTransform()

	fade := NewLinearGradient(c.vectors.VectorFor(opts.Orientation, s.Width(), s.Height())).
		AddColorStop(0, TransparentWhite).
		AddColorStop(opts.FadeStop(), White)

	dc.SetCompositeOp(DestinationOut)
	dc.SetGlobalAlpha(1)
	dc.FillRect(0, 0, s.Width(), s.Height(), fade)
	dc.SetCompositeOp(SourceOver)
	return nil
}
