// Package blend implements the Porter-Duff operators used by the reflection
// compositor.
//
// All operators work on premultiplied 8-bit channels, the layout of
// image.RGBA.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// Op is a Porter-Duff compositing operator.
type Op uint8

const (
	OpSourceOver     Op = iota // Result: S + D*(1-Sa) [default]
	OpDestinationOut           // Result: D*(1-Sa)
	OpClear                    // Result: 0
)

// String returns the canvas name of the operator.
func (op Op) String() string {
	switch op {
	case OpSourceOver:
		return "source-over"
	case OpDestinationOut:
		return "destination-out"
	case OpClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Func blends a premultiplied source color into a premultiplied
// destination color.
type Func func(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte)

// FuncFor returns the blend function for op. Unknown operators fall back
// to source-over.
func FuncFor(op Op) Func {
	switch op {
	case OpDestinationOut:
		return destinationOut
	case OpClear:
		return clearPixel
	default:
		return sourceOver
	}
}

// Pixel blends (sr, sg, sb, sa) into the 4-byte destination pixel px.
func Pixel(op Op, px []byte, sr, sg, sb, sa byte) {
	_ = px[3]
	px[0], px[1], px[2], px[3] = FuncFor(op)(sr, sg, sb, sa, px[0], px[1], px[2], px[3])
}

// Fill blends one source color into every pixel of pix, a packed RGBA row
// or buffer.
func Fill(op Op, pix []byte, sr, sg, sb, sa byte) {
	f := FuncFor(op)
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = f(sr, sg, sb, sa, pix[i], pix[i+1], pix[i+2], pix[i+3])
	}
}

// sourceOver composites source over destination.
// Formula: S + D * (1 - Sa)
func sourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	if sa == 255 {
		return sr, sg, sb, sa
	}
	invSa := 255 - sa
	return addClamp(sr, mulDiv255(dr, invSa)),
		addClamp(sg, mulDiv255(dg, invSa)),
		addClamp(sb, mulDiv255(db, invSa)),
		addClamp(sa, mulDiv255(da, invSa))
}

// destinationOut keeps the destination where the source is transparent.
// Formula: D * (1 - Sa)
func destinationOut(_, _, _, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return mulDiv255(dr, invSa), mulDiv255(dg, invSa), mulDiv255(db, invSa), mulDiv255(da, invSa)
}

// clearPixel clears the destination to transparent black.
func clearPixel(_, _, _, _, _, _, _, _ byte) (byte, byte, byte, byte) {
	return 0, 0, 0, 0
}

// mulDiv255 multiplies two bytes and divides by 255 with rounding.
// Formula: (a * b + 127) / 255
func mulDiv255(a, b byte) byte {
	return byte((uint16(a)*uint16(b) + 127) / 255)
}

// MulDiv255 is mulDiv255 for callers scaling premultiplied channels by an
// 8-bit alpha, such as global opacity.
func MulDiv255(a, b byte) byte {
	return mulDiv255(a, b)
}

// addClamp adds two bytes and clamps to 255.
func addClamp(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}
