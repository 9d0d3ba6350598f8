package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	intImage "github.com/gogpu/ggreflect/internal/image"
	"github.com/gogpu/ggreflect/session"
)

// DefaultMaxBytes limits the size of fetched images.
const DefaultMaxBytes = 32 << 20

var (
	// ErrExpired is returned for URLs past their expiry.
	ErrExpired = errors.New("asset: url expired")
	// ErrTooLarge is returned when the content exceeds the size limit.
	ErrTooLarge = errors.New("asset: content too large")
	// ErrNotImage is returned when the content is not an image.
	ErrNotImage = errors.New("asset: content is not an image")
	// ErrUnsupportedScheme is returned for URLs other than file, http(s) and data.
	ErrUnsupportedScheme = errors.New("asset: unsupported url scheme")
)

// Fetcher downloads temporary URLs. It implements session.Fetcher.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	now      func() time.Time
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets the client used for http and https URLs.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithMaxBytes sets the size limit of fetched content.
func WithMaxBytes(n int64) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// NewFetcher returns a fetcher with a 30 second HTTP timeout and
// DefaultMaxBytes limit.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{Timeout: 30 * time.Second},
		maxBytes: DefaultMaxBytes,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the bytes behind u after checking expiry, size and that
// the content is an image.
func (f *Fetcher) Fetch(ctx context.Context, u session.TemporaryURL) ([]byte, error) {
	if u.Expired(f.now()) {
		return nil, fmt.Errorf("%w: %s", ErrExpired, redact(u.URL))
	}

	var (
		data []byte
		err  error
	)
	switch {
	case strings.HasPrefix(u.URL, "data:"):
		_, data, err = intImage.ParseDataURL(u.URL)
	case strings.HasPrefix(u.URL, "file:"):
		data, err = f.readFile(u.URL)
	case strings.HasPrefix(u.URL, "http://"), strings.HasPrefix(u.URL, "https://"):
		data, err = f.get(ctx, u.URL)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedScheme, redact(u.URL))
	}
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, mt.String())
	}
	return data, nil
}

func (f *Fetcher) readFile(raw string) ([]byte, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("asset: %w", err)
	}
	file, err := os.Open(parsed.Path)
	if err != nil {
		return nil, fmt.Errorf("asset: %w", err)
	}
	defer file.Close()
	return f.readLimited(file)
}

func (f *Fetcher) get(ctx context.Context, raw string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return nil, fmt.Errorf("asset: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("asset: get %s: %w", redact(raw), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("asset: get %s: status %d", redact(raw), resp.StatusCode)
	}
	if resp.ContentLength > f.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, resp.ContentLength)
	}
	return f.readLimited(resp.Body)
}

func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("asset: read: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, f.maxBytes)
	}
	return data, nil
}

// redact drops the query of a URL, which may carry signatures, and
// shortens data URLs.
func redact(raw string) string {
	if strings.HasPrefix(raw, "data:") {
		if i := strings.IndexByte(raw, ','); i >= 0 {
			return raw[:i] + ",..."
		}
		return "data:..."
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}
	return raw
}
