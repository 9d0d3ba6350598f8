package tui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"
)

const halfBlock = "▀"

// renderCells draws img into at most cols x rows terminal cells. Each
// cell shows two pixels: the upper one as foreground of a half block and
// the lower one as background. Transparent areas show bg.
func renderCells(img *image.RGBA, cols, rows int, bg color.RGBA) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	b := img.Bounds()
	if b.Empty() {
		return ""
	}

	scale := math.Min(float64(cols)/float64(b.Dx()), float64(2*rows)/float64(b.Dy()))
	w := max(1, int(float64(b.Dx())*scale))
	h := max(2, int(float64(b.Dy())*scale))
	h += h % 2

	small := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(small, small.Rect, img, b, xdraw.Src, nil)

	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			top := over(small.RGBAAt(x, y), bg)
			bottom := over(small.RGBAAt(x, y+1), bg)
			sb.WriteString(lipgloss.NewStyle().
				Foreground(hexColor(top)).
				Background(hexColor(bottom)).
				Render(halfBlock))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// over composites a premultiplied color onto an opaque background.
func over(c, bg color.RGBA) color.RGBA {
	inv := 255 - uint32(c.A)
	return color.RGBA{
		R: uint8(uint32(c.R) + (uint32(bg.R)*inv+127)/255),
		G: uint8(uint32(c.G) + (uint32(bg.G)*inv+127)/255),
		B: uint8(uint32(c.B) + (uint32(bg.B)*inv+127)/255),
		A: 255,
	}
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
