package ggreflect

import (
	"math"
	"sort"
)

// GradientVector holds the endpoints of a linear gradient in surface pixels.
// It is valid only for the surface size it was computed for.
type GradientVector struct {
	X0, Y0, X1, Y1 float64
}

// VectorFor returns the gradient vector for orientation o on a w x h
// surface. The vector starts at the reflecting edge and spans the whole
// surface along the orientation's axis; exactly one component is non-zero.
func VectorFor(o Orientation, w, h int) GradientVector {
	fw, fh := float64(w), float64(h)
	switch o {
	case Below:
		return GradientVector{X0: 0, Y0: fh, X1: 0, Y1: 0}
	case Above:
		return GradientVector{X0: 0, Y0: 0, X1: 0, Y1: fh}
	case Left:
		return GradientVector{X0: 0, Y0: 0, X1: fw, Y1: 0}
	case Right:
		return GradientVector{X0: fw, Y0: 0, X1: 0, Y1: 0}
	default:
		panic("ggreflect: gradient vector for " + o.String())
	}
}

// Components returns the vector as (x0, y0, x1, y1).
func (v GradientVector) Components() [4]float64 {
	return [4]float64{v.X0, v.Y0, v.X1, v.Y1}
}

// Rescale maps v onto a w x h surface: non-zero x components become w,
// non-zero y components become h and zero components stay zero.
func (v GradientVector) Rescale(w, h int) GradientVector {
	c := v.Components()
	for i, n := range c {
		if n == 0 {
			continue
		}
		if i%2 == 0 {
			c[i] = float64(w)
		} else {
			c[i] = float64(h)
		}
	}
	return GradientVector{X0: c[0], Y0: c[1], X1: c[2], Y1: c[3]}
}

// VectorProvider supplies the gradient vector for a surface size.
type VectorProvider interface {
	VectorFor(o Orientation, w, h int) GradientVector
}

// VectorFunc adapts a function to VectorProvider.
type VectorFunc func(o Orientation, w, h int) GradientVector

// VectorFor calls f.
func (f VectorFunc) VectorFor(o Orientation, w, h int) GradientVector {
	return f(o, w, h)
}

// VectorTable caches the vectors of all four orientations for one
// surface size. Reset recomputes the table after a resize.
type VectorTable struct {
	width, height int
	vectors       [orientationCount]GradientVector
}

// NewVectorTable returns a table computed for a w x h surface.
func NewVectorTable(w, h int) *VectorTable {
	t := &VectorTable{}
	t.Reset(w, h)
	return t
}

// Reset recomputes every vector for a w x h surface.
func (t *VectorTable) Reset(w, h int) {
	t.width, t.height = w, h
	for o := Orientation(0); o < orientationCount; o++ {
		t.vectors[o] = VectorFor(o, w, h)
	}
}

// Size returns the surface size the table was computed for.
func (t *VectorTable) Size() (int, int) {
	return t.width, t.height
}

// VectorFor returns the cached vector when the table matches w x h and
// recomputes the table otherwise.
func (t *VectorTable) VectorFor(o Orientation, w, h int) GradientVector {
	if w != t.width || h != t.height {
		Logger().Debug("gradient table stale, recomputing",
			"table_width", t.width, "table_height", t.height,
			"width", w, "height", h)
		t.Reset(w, h)
	}
	return t.vectors[o]
}

// rescaledVectors answers every request by rescaling one base vector,
// which is how the export surface derives its vector from the preview's.
type rescaledVectors struct {
	base GradientVector
}

func (r rescaledVectors) VectorFor(_ Orientation, w, h int) GradientVector {
	return r.base.Rescale(w, h)
}

// ColorStop is a color at a position along a gradient.
type ColorStop struct {
	Offset float64 // 0 to 1
	Color  RGBA
}

// LinearGradient is a gradient brush between the endpoints of a
// GradientVector. Positions outside [0, 1] take the nearest end color.
type LinearGradient struct {
	Vector GradientVector
	Stops  []ColorStop
}

// NewLinearGradient returns a gradient along v with no stops.
func NewLinearGradient(v GradientVector) *LinearGradient {
	return &LinearGradient{Vector: v}
}

// AddColorStop appends a stop and returns g for chaining. Stops are kept
// ordered by offset; stops at equal offsets keep insertion order.
func (g *LinearGradient) AddColorStop(offset float64, c RGBA) *LinearGradient {
	g.Stops = append(g.Stops, ColorStop{Offset: clamp01(offset), Color: c})
	sort.SliceStable(g.Stops, func(i, j int) bool {
		return g.Stops[i].Offset < g.Stops[j].Offset
	})
	return g
}

// Position projects (x, y) onto the gradient line: 0 at the start point,
// 1 at the end point. A zero-length vector yields 0.
func (g *LinearGradient) Position(x, y float64) float64 {
	dx := g.Vector.X1 - g.Vector.X0
	dy := g.Vector.Y1 - g.Vector.Y0
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return 0
	}
	return ((x-g.Vector.X0)*dx + (y-g.Vector.Y0)*dy) / lengthSq
}

// ColorAt returns the gradient color at (x, y).
func (g *LinearGradient) ColorAt(x, y float64) RGBA {
	return colorAtOffset(g.Stops, g.Position(x, y))
}

// colorAtOffset interpolates sorted stops at t. When two stops share an
// offset, t before it takes the first and t after it the second, so a
// zero-width transition is a hard edge rather than a division by zero.
func colorAtOffset(stops []ColorStop, t float64) RGBA {
	switch len(stops) {
	case 0:
		return Transparent
	case 1:
		return stops[0].Color
	}

	t = clamp01(t)
	if math.IsNaN(t) {
		t = 0
	}

	idx := sort.Search(len(stops), func(i int) bool {
		return stops[i].Offset >= t
	})
	if idx == 0 {
		return stops[0].Color
	}
	if idx >= len(stops) {
		return stops[len(stops)-1].Color
	}

	s1, s2 := stops[idx-1], stops[idx]
	if s2.Offset == s1.Offset {
		return s2.Color
	}
	return lerpRGBA(s1.Color, s2.Color, (t-s1.Offset)/(s2.Offset-s1.Offset))
}
