// Package session drives one reflection editing session for a host
// application: it tracks the selection, loads the selected image
// asynchronously, hands out the parameter editor and inserts the result.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/gogpu/ggreflect"
)

// Guidance messages shown when the selection cannot be reflected.
const (
	MsgSelectElement    = "Select an element from your design."
	MsgMultipleSelected = "Multiple elements selected. Please select only one element at a time to create a reflection."
)

var (
	// ErrNoSelection is returned by Create without exactly one selected image.
	ErrNoSelection = errors.New("session: select exactly one image")
	// ErrBusy is returned by Create while a load is in progress.
	ErrBusy = errors.New("session: image is already loading")
	// ErrStale is reported by a load that finished after Exit or a newer load.
	ErrStale = errors.New("session: load superseded")
	// ErrNotEditing is returned by AddToDesign outside edit mode.
	ErrNotEditing = errors.New("session: not in edit mode")
)

// Session is safe for concurrent use. The editor it returns is not; it
// belongs to the goroutine driving the user interface.
type Session struct {
	id       uuid.UUID
	resolver AssetResolver
	fetcher  Fetcher
	inserter Inserter
	notify   Notifier
	preview  []ggreflect.PreviewOption
	width    int
	height   int
	logger   *slog.Logger

	mu         sync.Mutex
	state      State
	generation uint64
	editor     *ggreflect.Preview
}

// Option configures a Session.
type Option func(*Session)

// WithNotifier sets the hook told about every insertion outcome.
func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		if n != nil {
			s.notify = n
		}
	}
}

// WithContainer sets the display size of the editor preview.
func WithContainer(w, h int) Option {
	return func(s *Session) {
		s.width, s.height = w, h
	}
}

// WithPreviewOptions sets options for every editor the session creates.
func WithPreviewOptions(opts ...ggreflect.PreviewOption) Option {
	return func(s *Session) {
		s.preview = append(s.preview, opts...)
	}
}

// New returns a session in the selection phase with nothing selected.
func New(resolver AssetResolver, fetcher Fetcher, inserter Inserter, opts ...Option) *Session {
	s := &Session{
		id:       uuid.New(),
		resolver: resolver,
		fetcher:  fetcher,
		inserter: inserter,
		notify:   func(Notification) {},
		width:    300,
		height:   200,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = ggreflect.Logger().With("session", s.id.String())
	s.state = SelectionChanged(State{}, SelectionEvent{})
	return s
}

// ID returns the session identifier attached to its log records.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// State returns a snapshot of the session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Editor returns the parameter editor while in edit mode, nil otherwise.
func (s *Session) Editor() ggreflect.Commands {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editor == nil {
		return nil
	}
	return s.editor
}

// Preview returns the preview behind Editor, nil outside edit mode.
func (s *Session) Preview() *ggreflect.Preview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor
}

// OnSelectionChange records the current selection of the host document.
func (s *Session) OnSelectionChange(ev SelectionEvent) {
	s.mu.Lock()
	s.state = SelectionChanged(s.state, ev)
	st := s.state
	s.mu.Unlock()

	s.logger.Debug("selection changed", "count", len(ev.Elements), "can_create", st.CanCreate)
}

// Create loads the selected image and enters edit mode. The returned
// channel receives exactly one value when the load settles: nil on
// success, otherwise the failure. A failed load returns the session to
// the selection phase.
func (s *Session) Create(ctx context.Context) <-chan error {
	done := make(chan error, 1)

	s.mu.Lock()
	if s.state.Loading {
		s.mu.Unlock()
		done <- ErrBusy
		return done
	}
	if !s.state.CanCreate {
		s.state = s.state.withGuidance()
		s.mu.Unlock()
		done <- ErrNoSelection
		return done
	}
	s.generation++
	gen := s.generation
	ref := s.state.Ref
	s.state = StartLoading(s.state)
	s.mu.Unlock()

	s.logger.Info("loading image", "ref", string(ref))
	go func() {
		done <- s.load(ctx, gen, ref)
	}()
	return done
}

func (s *Session) load(ctx context.Context, gen uint64, ref ImageRef) error {
	src, err := s.fetchSource(ctx, ref)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logger.Debug("discarding stale load", "ref", string(ref))
		return ErrStale
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.failLoad()
		s.logger.Warn("image load failed", "ref", string(ref), "error", err)
		return err
	}

	editor := ggreflect.NewPreview(s.preview...)
	if err := editor.Resize(s.width, s.height); err != nil {
		s.failLoad()
		return fmt.Errorf("session: preview: %w", err)
	}
	if err := editor.SetSource(src); err != nil {
		s.failLoad()
		return fmt.Errorf("session: preview: %w", err)
	}
	s.editor = editor
	s.state = LoadSucceeded(s.state)
	s.logger.Info("edit mode", "ref", string(ref), "width", src.Width(), "height", src.Height())
	return nil
}

// failLoad leaves edit mode. The caller holds s.mu.
func (s *Session) failLoad() {
	s.editor = nil
	s.state = LoadFailed(s.state)
}

func (s *Session) fetchSource(ctx context.Context, ref ImageRef) (*ggreflect.SourceImage, error) {
	u, err := s.resolver.TemporaryURL(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", ref, err)
	}
	data, err := s.fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ref, err)
	}
	src, err := ggreflect.DecodeBytes(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	return src, nil
}

// Exit leaves edit mode and abandons any load in flight.
func (s *Session) Exit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.editor = nil
	s.state = Exited(s.state)
	s.logger.Debug("left edit mode")
}

// AddToDesign exports the edited reflection and inserts it into the
// document. Export failures are returned. The insertion outcome is
// logged and passed to the notifier but never returned: the user sees
// the result in the document.
func (s *Session) AddToDesign(ctx context.Context) error {
	s.mu.Lock()
	editor := s.editor
	s.mu.Unlock()
	if editor == nil {
		return ErrNotEditing
	}

	payload, err := editor.Commit()
	if err != nil {
		s.logger.Warn("export failed", "error", err)
		return fmt.Errorf("session: export: %w", err)
	}

	el := Element{Type: payload.Type, DataURL: payload.DataURL}
	err = s.inserter.Insert(ctx, el)
	if err != nil {
		s.logger.Error("insert failed", "error", err)
	} else {
		s.logger.Info("inserted reflection", "width", payload.Width, "height", payload.Height)
	}
	s.notify(Notification{
		SessionID: s.id,
		Width:     payload.Width,
		Height:    payload.Height,
		Err:       err,
	})
	return nil
}
