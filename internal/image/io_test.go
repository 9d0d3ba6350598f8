package image

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 0, B: 0, A: 128})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodePNG(t *testing.T) {
	img, mime, err := Decode(pngBytes(t, 6, 3))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if mime != "image/png" {
		t.Errorf("mime = %q, want image/png", mime)
	}
	if img.Rect != image.Rect(0, 0, 6, 3) {
		t.Errorf("bounds = %v, want 6x3", img.Rect)
	}
	// NRGBA (255,0,0,128) premultiplies to (128,0,0,128).
	if got := rgbaAt(img, 2, 1); got != [4]byte{128, 0, 0, 128} {
		t.Errorf("pixel = %v, want premultiplied (128, 0, 0, 128)", got)
	}
}

func TestDecodeSVG(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="20" height="10" viewBox="0 0 20 10">` +
		`<rect x="0" y="0" width="20" height="10" fill="#0000ff"/></svg>`)

	img, mime, err := Decode(svg)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if mime != "image/svg+xml" {
		t.Errorf("mime = %q, want image/svg+xml", mime)
	}
	if img.Rect.Dx() != 20 || img.Rect.Dy() != 10 {
		t.Errorf("size = %dx%d, want 20x10", img.Rect.Dx(), img.Rect.Dy())
	}
	if got := rgbaAt(img, 10, 5); got[2] < 200 || got[3] < 200 {
		t.Errorf("center pixel = %v, want opaque blue", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, _, err := Decode(nil); !errors.Is(err, ErrEmptyData) {
		t.Errorf("Decode(nil) error = %v, want ErrEmptyData", err)
	}
	if _, _, err := Decode([]byte("plain text, not an image")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Decode(text) error = %v, want ErrUnsupportedFormat", err)
	}
	truncated := pngBytes(t, 4, 4)[:40]
	if _, _, err := Decode(truncated); err == nil {
		t.Error("Decode(truncated png) should fail")
	}
}

// pngHeaderOnly builds a PNG whose IHDR declares w x h but carries
// almost no pixel data.
func pngHeaderOnly(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	chunk := func(typ string, data []byte) {
		var n [4]byte
		binary.BigEndian.PutUint32(n[:], uint32(len(data)))
		buf.Write(n[:])
		crc := crc32.NewIEEE()
		crc.Write([]byte(typ))
		crc.Write(data)
		buf.WriteString(typ)
		buf.Write(data)
		binary.BigEndian.PutUint32(n[:], crc.Sum32())
		buf.Write(n[:])
	}
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // truecolor with alpha
	chunk("IHDR", ihdr)
	chunk("IDAT", []byte{0x78, 0x9c, 0x03, 0x00, 0x00, 0x00, 0x00, 0x01})
	chunk("IEND", nil)
	return buf.Bytes()
}

func TestDecodeRejectsOversizedHeader(t *testing.T) {
	data := pngHeaderOnly(20000, 20000)
	if len(data) > 100 {
		t.Fatalf("forged png is %d bytes, want a tiny file", len(data))
	}
	_, mime, err := Decode(data)
	if !errors.Is(err, ErrInvalidDimensions) {
		t.Fatalf("Decode(20000x20000 header) error = %v, want ErrInvalidDimensions", err)
	}
	if mime != "image/png" {
		t.Errorf("mime = %q, want image/png", mime)
	}

	// One side over the limit is enough.
	if _, _, err := Decode(pngHeaderOnly(MaxDimension+1, 1)); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Decode(wide header) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestDecodeRejectsOversizedSVG(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 20000 10">` +
		`<rect x="0" y="0" width="20000" height="10" fill="#0000ff"/></svg>`)
	if _, _, err := Decode(svg); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Decode(huge svg) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestToRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 8, 7))
	got, err := ToRGBA(src)
	if err != nil {
		t.Fatalf("ToRGBA() error = %v", err)
	}
	if got.Rect != image.Rect(0, 0, 3, 2) {
		t.Errorf("ToRGBA() bounds = %v, want origin-anchored 3x2", got.Rect)
	}

	same := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if got, _ := ToRGBA(same); got != same {
		t.Error("ToRGBA() should return an origin-anchored *image.RGBA as is")
	}

	if _, err := ToRGBA(image.NewRGBA(image.Rect(0, 0, 0, 5))); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("ToRGBA(empty) error = %v, want ErrInvalidDimensions", err)
	}
}
