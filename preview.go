package ggreflect

import "errors"

// PixelRatio is the device-pixel multiplier of preview surfaces.
const PixelRatio = 2

// Commands are the parameter operations a user interface drives.
type Commands interface {
	SetOpacity(v int) error
	SetOffset(v int) error
	SetPosition(o Orientation) error
	Commit() (*Payload, error)
}

var _ Commands = (*Preview)(nil)

// Preview keeps an interactive reflection in sync with its parameters.
//
// The surface is PixelRatio times the container size and is meant to be
// displayed at DisplayScale. Every parameter change re-renders
// synchronously, so Surface never holds a frame older than Options.
// A Preview is not safe for concurrent use.
type Preview struct {
	compositor *Compositor
	output     *Output
	vectors    *VectorTable

	surface    *Surface
	containerW int
	containerH int
	source     *SourceImage
	opts       RenderOptions

	warnedUnsupported bool
}

// PreviewOption configures a Preview.
type PreviewOption func(*previewConfig)

type previewConfig struct {
	interp Interpolation
	output *Output
	opts   RenderOptions
}

// WithPreviewInterpolation sets the sampling mode of the preview render.
func WithPreviewInterpolation(mode Interpolation) PreviewOption {
	return func(c *previewConfig) {
		c.interp = mode
	}
}

// WithOutput sets the exporter used by Commit.
func WithOutput(out *Output) PreviewOption {
	return func(c *previewConfig) {
		if out != nil {
			c.output = out
		}
	}
}

// WithRenderOptions sets the initial parameters. They are normalized.
func WithRenderOptions(opts RenderOptions) PreviewOption {
	return func(c *previewConfig) {
		c.opts = opts.Normalize()
	}
}

// NewPreview returns a preview with no container and no source. Call
// Resize and SetSource before expecting pixels.
func NewPreview(opts ...PreviewOption) *Preview {
	cfg := previewConfig{
		interp: InterpBilinear,
		output: NewOutput(InterpBilinear),
		opts:   DefaultRenderOptions(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Preview{
		output:  cfg.output,
		vectors: NewVectorTable(0, 0),
		surface: NewSurface(0, 0),
		opts:    cfg.opts,
	}
	p.compositor = NewCompositor(WithVectorProvider(p.vectors), WithInterpolation(cfg.interp))
	return p
}

// Resize reallocates the surface for a container of w x h display units,
// recomputes the gradient table and re-renders. A zero-area container
// leaves the preview unsupported until the next Resize.
func (p *Preview) Resize(w, h int) error {
	p.containerW, p.containerH = max(w, 0), max(h, 0)
	p.surface = NewSurface(p.containerW*PixelRatio, p.containerH*PixelRatio)
	p.vectors.Reset(p.surface.Width(), p.surface.Height())
	if p.surface.Supported() {
		p.warnedUnsupported = false
	}
	return p.render()
}

// SetSource replaces the image being reflected and re-renders. A nil
// source clears the surface.
func (p *Preview) SetSource(src *SourceImage) error {
	p.source = src
	return p.render()
}

// Source returns the current image, or nil.
func (p *Preview) Source() *SourceImage {
	return p.source
}

// SetOpacity sets the opacity percentage and re-renders.
func (p *Preview) SetOpacity(v int) error {
	return p.apply(p.opts.WithOpacity(v))
}

// SetOffset sets the fade offset percentage and re-renders.
func (p *Preview) SetOffset(v int) error {
	return p.apply(p.opts.WithOffset(v))
}

// SetPosition sets the orientation, resets opacity and offset to their
// defaults and re-renders.
func (p *Preview) SetPosition(o Orientation) error {
	if !o.Valid() {
		return ErrUnknownOrientation
	}
	return p.apply(p.opts.WithOrientation(o))
}

// SetOptions replaces all parameters at once and re-renders.
func (p *Preview) SetOptions(opts RenderOptions) error {
	return p.apply(opts.Normalize())
}

// Options returns the current parameters.
func (p *Preview) Options() RenderOptions {
	return p.opts
}

// Surface returns the preview surface. It is replaced by Resize.
func (p *Preview) Surface() *Surface {
	return p.surface
}

// DisplayScale returns the factor the surface is shown at.
func (p *Preview) DisplayScale() float64 {
	return 1.0 / PixelRatio
}

// DisplaySize returns the container size the surface is shown at.
func (p *Preview) DisplaySize() (int, int) {
	return p.containerW, p.containerH
}

// Commit exports the current reflection at the resolution of the source.
func (p *Preview) Commit() (*Payload, error) {
	return p.output.Commit(p.source, p.opts, p.surface)
}

func (p *Preview) apply(opts RenderOptions) error {
	p.opts = opts
	return p.render()
}

// render redraws the surface. An unsupported surface is reported once
// and then ignored; a missing source leaves the surface cleared.
func (p *Preview) render() error {
	err := p.compositor.Render(p.surface, p.source, p.opts)
	switch {
	case err == nil, errors.Is(err, ErrNoSource):
		return nil
	case errors.Is(err, ErrNoContext):
		if !p.warnedUnsupported {
			p.warnedUnsupported = true
			Logger().Warn("preview: drawing unsupported, rendering disabled",
				"container_width", p.containerW, "container_height", p.containerH)
		}
		return nil
	default:
		return err
	}
}
