package ggreflect

import (
	"fmt"

	intImage "github.com/gogpu/ggreflect/internal/image"
)

// PayloadType is the element type of every exported payload.
const PayloadType = "image"

// Payload is an exported reflection, ready to be inserted into a document.
type Payload struct {
	Type    string `json:"type"`
	DataURL string `json:"dataUrl"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	PNG     []byte `json:"-"`
}

// Output produces full-resolution exports of what a preview surface shows.
//
// The export keeps the aspect of the preview surface but renders at the
// pixel density of the source image, then letterboxes the result into a
// canvas the size of the source.
type Output struct {
	interp Interpolation
}

// NewOutput returns an Output sampling with mode.
func NewOutput(mode Interpolation) *Output {
	return &Output{interp: mode}
}

// Commit renders src with opts at export resolution and encodes the
// result as PNG. reference is the preview surface whose aspect and
// gradient geometry the export reproduces.
//
// A nil source returns ErrNoSource and a missing or unsupported reference
// returns ErrNoContext. Both are logged; nothing is produced. A preview
// aspect so far from the source that the working surface would exceed
// intImage.MaxDimension on a side returns ErrExportTooLarge.
func (o *Output) Commit(src *SourceImage, opts RenderOptions, reference *Surface) (*Payload, error) {
	if src == nil {
		Logger().Warn("commit: nothing to export", "error", ErrNoSource)
		return nil, ErrNoSource
	}
	if !reference.Supported() {
		Logger().Warn("commit: no reference surface", "error", ErrNoContext)
		return nil, ErrNoContext
	}
	opts = opts.Normalize()

	scale, err := Fit(float64(src.Width()), float64(src.Height()),
		float64(reference.Width()), float64(reference.Height()))
	if err != nil {
		Logger().Error("commit: cannot fit source", "error", err)
		return nil, fmt.Errorf("commit: %w", err)
	}

	ww, wh := workingSize(reference.Width(), reference.Height(), scale)
	if ww > intImage.MaxDimension || wh > intImage.MaxDimension {
		Logger().Warn("commit: export surface over limit",
			"working_width", ww, "working_height", wh, "limit", intImage.MaxDimension)
		return nil, fmt.Errorf("commit: %w: %dx%d", ErrExportTooLarge, ww, wh)
	}
	working := pooledSurface(ww, wh)
	defer intImage.PutToDefault(working.img)
	base := VectorFor(opts.Orientation, reference.Width(), reference.Height())
	compositor := NewCompositor(
		WithVectorProvider(rescaledVectors{base: base}),
		WithInterpolation(o.interpolation()),
	)
	if err := compositor.Render(working, src, opts); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	final := NewSurface(src.Width(), src.Height())
	dc, err := final.Acquire()
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	dc.SetInterpolation(InterpNearest)
	dc.DrawSurface(working,
		float64(final.Width()-working.Width())/2,
		float64(final.Height()-working.Height())/2)
	dc.Release()

	data, err := intImage.EncodePNG(final.RGBA())
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	Logger().Info("reflection exported",
		"orientation", opts.Orientation.String(),
		"opacity", opts.Opacity, "offset", opts.Offset,
		"working_width", ww, "working_height", wh,
		"width", final.Width(), "height", final.Height(),
		"bytes", len(data))

	return &Payload{
		Type:    PayloadType,
		DataURL: intImage.PNGDataURL(data),
		Width:   final.Width(),
		Height:  final.Height(),
		PNG:     data,
	}, nil
}

// pooledSurface is NewSurface backed by a recycled buffer.
func pooledSurface(w, h int) *Surface {
	img := intImage.GetFromDefault(w, h)
	if img == nil {
		return NewSurface(w, h)
	}
	return &Surface{width: w, height: h, img: img}
}

func (o *Output) interpolation() Interpolation {
	if o == nil {
		return InterpBilinear
	}
	return o.interp
}
