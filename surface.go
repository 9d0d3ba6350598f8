package ggreflect

import (
	"image"
	"image/color"

	"github.com/gogpu/ggreflect/internal/blend"
	intImage "github.com/gogpu/ggreflect/internal/image"
)

// Surface is a premultiplied RGBA pixel buffer with explicit dimensions.
//
// A surface holds no drawing state between renders; callers Acquire a
// DrawContext for each render and Release it afterwards. A surface with a
// non-positive dimension has no pixels and cannot provide a context.
type Surface struct {
	width  int
	height int
	img    *image.RGBA // nil for zero-area surfaces
}

// NewSurface allocates a transparent width x height surface.
func NewSurface(width, height int) *Surface {
	s := &Surface{width: max(width, 0), height: max(height, 0)}
	if s.width > 0 && s.height > 0 {
		s.img = image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	}
	return s
}

// Width returns the width of the surface in pixels.
func (s *Surface) Width() int {
	return s.width
}

// Height returns the height of the surface in pixels.
func (s *Surface) Height() int {
	return s.height
}

// Supported reports whether the surface can provide a drawing context.
func (s *Surface) Supported() bool {
	return s != nil && s.img != nil
}

// RGBA returns the backing image, or nil for an unsupported surface.
func (s *Surface) RGBA() *image.RGBA {
	return s.img
}

// AlphaAt returns the alpha of pixel (x, y), 0 outside the surface.
func (s *Surface) AlphaAt(x, y int) uint8 {
	if s.img == nil || x < 0 || y < 0 || x >= s.width || y >= s.height {
		return 0
	}
	return s.img.Pix[s.img.PixOffset(x, y)+3]
}

// At implements the image.Image interface.
func (s *Surface) At(x, y int) color.Color {
	if s.img == nil {
		return color.RGBA{}
	}
	return s.img.RGBAAt(x, y)
}

// Bounds implements the image.Image interface.
func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

// ColorModel implements the image.Image interface.
func (s *Surface) ColorModel() color.Model {
	return color.RGBAModel
}

// Acquire returns a fresh drawing context for s with normal compositing,
// full global alpha and the identity transform. It returns ErrNoContext
// for a surface without pixels.
func (s *Surface) Acquire() (*DrawContext, error) {
	if !s.Supported() {
		return nil, ErrNoContext
	}
	return &DrawContext{
		surface:   s,
		alpha:     1,
		op:        blend.OpSourceOver,
		transform: intImage.Identity(),
		interp:    intImage.InterpBilinear,
	}, nil
}

// CompositeOp selects how a DrawContext combines new pixels with the surface.
type CompositeOp = blend.Op

// Composite operators.
const (
	// SourceOver draws on top of existing content.
	SourceOver = blend.OpSourceOver
	// DestinationOut erases existing alpha by the alpha of what is drawn.
	DestinationOut = blend.OpDestinationOut
)

// Interpolation selects how images are sampled when drawn scaled.
type Interpolation = intImage.InterpolationMode

// Interpolation modes.
const (
	InterpBilinear = intImage.InterpBilinear
	InterpNearest  = intImage.InterpNearest
)

// Brush supplies a color for every point of a fill.
type Brush interface {
	ColorAt(x, y float64) RGBA
}

// DrawContext holds the drawing state for one render into a Surface:
// global alpha, composite operator and the current transform. It is
// valid until Release.
type DrawContext struct {
	surface   *Surface
	alpha     float64
	op        CompositeOp
	transform intImage.Affine
	interp    Interpolation
}

// Release detaches the context from its surface. Later calls are no-ops.
func (dc *DrawContext) Release() {
	dc.surface = nil
}

// Surface returns the surface the context draws into, nil after Release.
func (dc *DrawContext) Surface() *Surface {
	return dc.surface
}

// Clear makes every pixel transparent and restores normal compositing.
func (dc *DrawContext) Clear() {
	if dc.surface == nil {
		return
	}
	blend.Fill(blend.OpClear, dc.surface.img.Pix, 0, 0, 0, 0)
	dc.op = SourceOver
}

// SetGlobalAlpha sets the alpha applied to everything drawn, clamped to [0, 1].
func (dc *DrawContext) SetGlobalAlpha(a float64) {
	dc.alpha = clamp01(a)
}

// SetCompositeOp sets the composite operator for later draws and fills.
func (dc *DrawContext) SetCompositeOp(op CompositeOp) {
	dc.op = op
}

// SetInterpolation sets the sampling mode for DrawImage.
func (dc *DrawContext) SetInterpolation(mode Interpolation) {
	dc.interp = mode
}

// Translate moves the origin by (x, y) in the current coordinate space.
func (dc *DrawContext) Translate(x, y float64) {
	dc.transform = dc.transform.Multiply(intImage.Translate(x, y))
}

// Scale scales the current coordinate space. Negative factors mirror.
func (dc *DrawContext) Scale(sx, sy float64) {
	dc.transform = dc.transform.Multiply(intImage.Scale(sx, sy))
}

// ResetTransform restores the identity transform.
func (dc *DrawContext) ResetTransform() {
	dc.transform = intImage.Identity()
}

// DrawImage draws img into the rectangle (x, y, w, h) of the current
// coordinate space.
func (dc *DrawContext) DrawImage(img *image.RGBA, x, y, w, h float64) {
	if dc.surface == nil || img == nil {
		return
	}
	iw, ih := img.Rect.Dx(), img.Rect.Dy()
	if iw <= 0 || ih <= 0 {
		return
	}
	m := dc.transform.
		Multiply(intImage.Translate(x, y)).
		Multiply(intImage.Scale(w/float64(iw), h/float64(ih)))
	intImage.Draw(dc.surface.img, img, intImage.DrawParams{
		Transform: m,
		Interp:    dc.interp,
		Opacity:   dc.alpha,
		Op:        dc.op,
	})
}

// DrawSurface draws src at (x, y) of the current coordinate space at its
// own size.
func (dc *DrawContext) DrawSurface(src *Surface, x, y float64) {
	if !src.Supported() {
		return
	}
	dc.DrawImage(src.img, x, y, float64(src.width), float64(src.height))
}

// FillRect fills the device-space rectangle (x, y, w, h) with brush,
// ignoring the current transform. Each pixel takes the brush color at
// its center.
func (dc *DrawContext) FillRect(x, y, w, h int, brush Brush) {
	if dc.surface == nil || brush == nil {
		return
	}
	area := image.Rect(x, y, x+w, y+h).Intersect(dc.surface.img.Rect)
	pix := dc.surface.img.Pix
	for py := area.Min.Y; py < area.Max.Y; py++ {
		for px := area.Min.X; px < area.Max.X; px++ {
			r, g, b, a := brush.ColorAt(float64(px)+0.5, float64(py)+0.5).premultiplied(dc.alpha)
			i := dc.surface.img.PixOffset(px, py)
			blend.Pixel(dc.op, pix[i:i+4:i+4], r, g, b, a)
		}
	}
}
