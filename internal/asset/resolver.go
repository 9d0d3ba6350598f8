// Package asset resolves image references to temporary URLs and fetches them.
package asset

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gogpu/ggreflect/session"
)

// DefaultTTL is how long a resolved URL stays valid.
const DefaultTTL = 5 * time.Minute

var (
	// ErrNotFound is returned for references that name no file.
	ErrNotFound = errors.New("asset: not found")
	// ErrInvalidRef is returned for references that escape the root.
	ErrInvalidRef = errors.New("asset: invalid reference")
)

// DirResolver resolves references to files below a root directory.
// References that already are http, https or data URLs are passed
// through with the same lifetime.
type DirResolver struct {
	root string
	ttl  time.Duration
	now  func() time.Time
}

// NewDirResolver returns a resolver rooted at root. A non-positive ttl
// selects DefaultTTL.
func NewDirResolver(root string, ttl time.Duration) (*DirResolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("asset: root: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &DirResolver{root: abs, ttl: ttl, now: time.Now}, nil
}

// TemporaryURL implements session.AssetResolver.
func (r *DirResolver) TemporaryURL(ctx context.Context, ref session.ImageRef) (session.TemporaryURL, error) {
	if err := ctx.Err(); err != nil {
		return session.TemporaryURL{}, err
	}
	expires := r.now().Add(r.ttl)

	s := string(ref)
	if isRemote(s) {
		return session.TemporaryURL{URL: s, Expires: expires}, nil
	}

	rel := filepath.FromSlash(s)
	if filepath.IsAbs(rel) {
		var err error
		if rel, err = filepath.Rel(r.root, rel); err != nil {
			return session.TemporaryURL{}, fmt.Errorf("%w: %q", ErrInvalidRef, s)
		}
	}
	if !filepath.IsLocal(rel) {
		return session.TemporaryURL{}, fmt.Errorf("%w: %q", ErrInvalidRef, s)
	}

	path := filepath.Join(r.root, rel)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return session.TemporaryURL{}, fmt.Errorf("%w: %q", ErrNotFound, s)
		}
		return session.TemporaryURL{}, fmt.Errorf("asset: %w", err)
	}
	if info.IsDir() {
		return session.TemporaryURL{}, fmt.Errorf("%w: %q is a directory", ErrNotFound, s)
	}

	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(path),
		RawQuery: url.Values{"expires": {strconv.FormatInt(expires.Unix(), 10)}}.Encode(),
	}
	return session.TemporaryURL{URL: u.String(), Expires: expires}, nil
}

func isRemote(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "data:")
}
