// Package ggreflect renders mirrored, fading reflections of images.
//
// # Overview
//
// A reflection is an image mirrored about one of its edges and faded out
// with a linear alpha gradient that starts at the reflecting edge. The
// package draws reflections into premultiplied RGBA surfaces in pure Go
// and exports them as PNG.
//
// # Quick Start
//
//	import "github.com/gogpu/ggreflect"
//
//	src, err := ggreflect.DecodeBytes(ctx, data)
//	if err != nil {
//		return err
//	}
//
//	// Interactive preview of a 300x200 container
//	p := ggreflect.NewPreview()
//	p.Resize(300, 200)
//	p.SetSource(src)
//	p.SetPosition(ggreflect.Left)
//	p.SetOffset(70)
//
//	// Full-resolution export
//	payload, err := p.Commit()
//
// # Parameters
//
// RenderOptions holds opacity and offset in percent and the orientation.
// Changing the orientation resets opacity and offset to 50.
//
// # Architecture
//
// The package is organized into:
//   - Geometry: Fit, VectorFor, VectorTable
//   - Drawing: Surface, DrawContext, LinearGradient
//   - Rendering: Compositor, Preview, Output
//   - Internal: blend (Porter-Duff), image (sampling, transforms, codecs)
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Pixel centers at half-integer coordinates
//
// # Logging
//
// The package logs through log/slog and is silent by default. Install a
// logger with SetLogger.
package ggreflect

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
