package ggreflect

import (
	"fmt"
	"strings"
)

// Orientation is the edge of the image from which the reflection fades.
// The zero value is Below.
type Orientation uint8

const (
	// Below reflects under the image; the fade runs up from the bottom edge.
	Below Orientation = iota
	// Above reflects over the image; the fade runs down from the top edge.
	Above
	// Left reflects to the left; the fade runs right from the left edge.
	Left
	// Right reflects to the right; the fade runs left from the right edge.
	Right
)

const orientationCount = 4

// Orientations returns every orientation in the order a segmented
// control presents them.
func Orientations() []Orientation {
	return []Orientation{Left, Right, Below, Above}
}

// Valid reports whether o is one of the four defined orientations.
func (o Orientation) Valid() bool {
	return o < orientationCount
}

// String returns the lower-case name of the orientation.
func (o Orientation) String() string {
	switch o {
	case Below:
		return "below"
	case Above:
		return "above"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Orientation(%d)", uint8(o))
	}
}

// ParseOrientation parses a case-insensitive orientation name.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "below":
		return Below, nil
	case "above":
		return Above, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	default:
		return Below, fmt.Errorf("%w: %q", ErrUnknownOrientation, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOrientation, uint8(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(text []byte) error {
	v, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// FlipMultipliers are the per-axis signs applied to the image before it is
// drawn. Each is either 1 or -1.
type FlipMultipliers struct {
	Horizontal int
	Vertical   int
}

// Flip returns the flip multipliers for o. Vertical reflections mirror
// the y axis, horizontal ones the x axis.
func (o Orientation) Flip() FlipMultipliers {
	switch o {
	case Below, Above:
		return FlipMultipliers{Horizontal: 1, Vertical: -1}
	case Left, Right:
		return FlipMultipliers{Horizontal: -1, Vertical: 1}
	default:
		panic(fmt.Sprintf("ggreflect: flip of %v", o))
	}
}

// Axis is the surface axis a gradient runs along.
type Axis uint8

const (
	// AxisVertical runs along the surface height.
	AxisVertical Axis = iota
	// AxisHorizontal runs along the surface width.
	AxisHorizontal
)

// Axis returns the axis the fade of o runs along.
func (o Orientation) Axis() Axis {
	switch o {
	case Below, Above:
		return AxisVertical
	case Left, Right:
		return AxisHorizontal
	default:
		panic(fmt.Sprintf("ggreflect: axis of %v", o))
	}
}
