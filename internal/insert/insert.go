// Package insert places exported reflections into a destination standing
// in for the host document.
package insert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"

	intImage "github.com/gogpu/ggreflect/internal/image"
	"github.com/gogpu/ggreflect/session"
)

var (
	// ErrUnsupportedElement is returned for elements that are not PNG images.
	ErrUnsupportedElement = errors.New("insert: unsupported element")
	// ErrClipboardUnavailable is returned when no clipboard tool is installed.
	ErrClipboardUnavailable = errors.New("insert: clipboard unavailable")
)

// File writes each element as a PNG file into a directory.
type File struct {
	dir  string
	name func() string

	mu   sync.Mutex
	last string
}

// NewFile returns an inserter writing to dir, created on first use.
// Files are named reflection-<uuid>.png.
func NewFile(dir string) *File {
	return &File{
		dir: dir,
		name: func() string {
			return "reflection-" + uuid.NewString() + ".png"
		},
	}
}

// NewFileAt returns an inserter that writes every element to path.
func NewFileAt(path string) *File {
	return &File{
		dir:  filepath.Dir(path),
		name: func() string { return filepath.Base(path) },
	}
}

// Insert implements session.Inserter.
func (f *File) Insert(ctx context.Context, el session.Element) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := pngOf(el)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	path := filepath.Join(f.dir, f.name())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	f.mu.Lock()
	f.last = path
	f.mu.Unlock()
	return nil
}

// Last returns the path of the most recently written file.
func (f *File) Last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// Clipboard copies the data URL of each element to the system clipboard.
type Clipboard struct {
	available func() bool
	write     func(string) error
}

// NewClipboard returns a clipboard inserter.
func NewClipboard() *Clipboard {
	return &Clipboard{
		available: func() bool { return !clipboard.Unsupported },
		write:     clipboard.WriteAll,
	}
}

// Insert implements session.Inserter.
func (c *Clipboard) Insert(_ context.Context, el session.Element) error {
	if _, err := pngOf(el); err != nil {
		return err
	}
	if !c.available() {
		return ErrClipboardUnavailable
	}
	if err := c.write(el.DataURL); err != nil {
		return fmt.Errorf("insert: clipboard: %w", err)
	}
	return nil
}

// Writer encodes each element as one JSON line.
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriter returns an inserter writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// Insert implements session.Inserter.
func (w *Writer) Insert(_ context.Context, el session.Element) error {
	if el.Type != "image" {
		return fmt.Errorf("%w: type %q", ErrUnsupportedElement, el.Type)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(el); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

func pngOf(el session.Element) ([]byte, error) {
	if el.Type != "image" {
		return nil, fmt.Errorf("%w: type %q", ErrUnsupportedElement, el.Type)
	}
	mediaType, data, err := intImage.ParseDataURL(el.DataURL)
	if err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}
	if mediaType != "image/png" {
		return nil, fmt.Errorf("%w: media type %q", ErrUnsupportedElement, mediaType)
	}
	return data, nil
}
