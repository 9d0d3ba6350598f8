package ggreflect

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	intImage "github.com/gogpu/ggreflect/internal/image"
)

// SourceImage is a decoded raster ready to be reflected. Its pixels are
// premultiplied RGBA and are never modified after construction.
type SourceImage struct {
	img      *image.RGBA
	mimeType string
}

// NewSourceImage copies img into a new SourceImage.
func NewSourceImage(img image.Image) (*SourceImage, error) {
	if img == nil {
		return nil, ErrNoSource
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: %dx%d source", ErrDegenerateGeometry, b.Dx(), b.Dy())
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	rgba, err := intImage.ToRGBA(img)
	if err != nil {
		return nil, err
	}
	for y := 0; y < b.Dy(); y++ {
		copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], rgba.Pix[y*rgba.Stride:])
	}
	return &SourceImage{img: dst}, nil
}

// Decode reads an encoded image from r. PNG, JPEG, GIF, WebP, BMP, TIFF
// and SVG are recognised by content.
func Decode(ctx context.Context, r io.Reader) (*SourceImage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode: read: %w", err)
	}
	return DecodeBytes(ctx, data)
}

// DecodeBytes decodes an encoded image held in memory.
func DecodeBytes(ctx context.Context, data []byte) (*SourceImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, mimeType, err := intImage.Decode(data)
	if err != nil {
		if errors.Is(err, intImage.ErrEmptyData) {
			return nil, ErrEmptySource
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	Logger().Debug("source decoded", "mime", mimeType,
		"width", img.Rect.Dx(), "height", img.Rect.Dy())
	return &SourceImage{img: img, mimeType: mimeType}, nil
}

// Width returns the width in pixels.
func (s *SourceImage) Width() int {
	return s.img.Rect.Dx()
}

// Height returns the height in pixels.
func (s *SourceImage) Height() int {
	return s.img.Rect.Dy()
}

// MIMEType returns the detected content type, or "" for images built
// with NewSourceImage.
func (s *SourceImage) MIMEType() string {
	return s.mimeType
}

// RGBA returns the pixels. Callers must not modify them.
func (s *SourceImage) RGBA() *image.RGBA {
	return s.img
}
