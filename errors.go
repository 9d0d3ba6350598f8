package ggreflect

import "errors"

var (
	// ErrNoContext is returned when a surface cannot provide a drawing
	// context, which happens for zero-area surfaces. Callers treat it as an
	// unsupported environment: log once and skip rendering.
	ErrNoContext = errors.New("ggreflect: drawing context unavailable")

	// ErrNoSource is returned when a render or commit has no source image.
	ErrNoSource = errors.New("ggreflect: no source image")

	// ErrDegenerateGeometry is returned by Fit for zero-area or non-finite
	// sizes. It signals a programming error in the caller.
	ErrDegenerateGeometry = errors.New("ggreflect: degenerate geometry")

	// ErrExportTooLarge is returned by Output.Commit when the export
	// surface implied by the preview aspect exceeds the size limit.
	ErrExportTooLarge = errors.New("ggreflect: export surface too large")

	// ErrUnknownOrientation is returned when parsing an unrecognised
	// orientation name.
	ErrUnknownOrientation = errors.New("ggreflect: unknown orientation")

	// ErrEmptySource is returned when decoding empty image data.
	ErrEmptySource = errors.New("ggreflect: empty image data")
)
