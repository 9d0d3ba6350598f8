package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ImageRef identifies an image in the host document.
type ImageRef string

// SelectionEvent lists the images currently selected in the host.
type SelectionEvent struct {
	Elements []ImageRef
}

// TemporaryURL is a fetch location that stops working after Expires.
// A zero Expires never expires.
type TemporaryURL struct {
	URL     string
	Expires time.Time
}

// Expired reports whether u is no longer valid at now.
func (u TemporaryURL) Expired(now time.Time) bool {
	return !u.Expires.IsZero() && !now.Before(u.Expires)
}

// AssetResolver maps an image reference to a temporary fetch URL.
type AssetResolver interface {
	TemporaryURL(ctx context.Context, ref ImageRef) (TemporaryURL, error)
}

// Fetcher downloads the bytes behind a temporary URL.
type Fetcher interface {
	Fetch(ctx context.Context, u TemporaryURL) ([]byte, error)
}

// Element is the payload handed to the document.
type Element struct {
	Type    string `json:"type"`
	DataURL string `json:"dataUrl"`
}

// Inserter places an element into the host document.
type Inserter interface {
	Insert(ctx context.Context, el Element) error
}

// InserterFunc adapts a function to Inserter.
type InserterFunc func(ctx context.Context, el Element) error

// Insert calls f.
func (f InserterFunc) Insert(ctx context.Context, el Element) error {
	return f(ctx, el)
}

// Notification reports the outcome of one AddToDesign call.
type Notification struct {
	SessionID uuid.UUID
	Width     int
	Height    int
	Err       error // nil when the element was inserted
}

// Notifier receives insertion outcomes. It runs on the goroutine that
// called AddToDesign.
type Notifier func(Notification)
