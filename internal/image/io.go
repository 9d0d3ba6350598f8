package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	"github.com/gabriel-vasile/mimetype"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the content is not a supported image.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")

	// ErrInvalidDimensions is returned for images with no pixels or beyond MaxDimension.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")
)

// MaxDimension bounds the width and height of decoded images.
const MaxDimension = 16384

// Raster MIME types accepted by Decode besides SVG.
var rasterTypes = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/webp",
	"image/bmp",
	"image/tiff",
}

// Decode sniffs the content of data and decodes it into a premultiplied
// RGBA image with its origin at (0, 0). It returns the detected MIME type.
//
// Raster formats go through image.Decode; SVG documents are rasterized
// at their view box size.
func Decode(data []byte) (*image.RGBA, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyData
	}

	mt := mimetype.Detect(data)
	switch {
	case mt.Is("image/svg+xml"):
		img, err := decodeSVG(data)
		return img, mt.String(), err
	case isRaster(mt):
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, mt.String(), fmt.Errorf("image: decode %s: %w", mt.String(), err)
		}
		if err := checkSize(cfg.Width, cfg.Height); err != nil {
			return nil, mt.String(), err
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, mt.String(), fmt.Errorf("image: decode %s: %w", mt.String(), err)
		}
		rgba, err := ToRGBA(img)
		return rgba, mt.String(), err
	default:
		return nil, mt.String(), fmt.Errorf("%w: %s", ErrUnsupportedFormat, mt.String())
	}
}

func isRaster(mt *mimetype.MIME) bool {
	for _, t := range rasterTypes {
		if mt.Is(t) {
			return true
		}
	}
	return false
}

// ToRGBA converts img to a premultiplied RGBA image anchored at (0, 0).
func ToRGBA(img image.Image) (*image.RGBA, error) {
	b := img.Bounds()
	if err := checkSize(b.Dx(), b.Dy()); err != nil {
		return nil, err
	}
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba, nil
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(rgba, rgba.Rect, img, b.Min, xdraw.Src)
	return rgba, nil
}

func decodeSVG(data []byte) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("image: decode svg: %w", err)
	}

	w, h := int(icon.ViewBox.W+0.5), int(icon.ViewBox.H+0.5)
	if err := checkSize(w, h); err != nil {
		return nil, err
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return rgba, nil
}

func checkSize(w, h int) error {
	if w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}
	return nil
}
