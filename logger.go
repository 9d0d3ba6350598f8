package ggreflect

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discardHandler drops every record. Enabled reports false so callers
// skip attribute formatting altogether.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func newSilentLogger() *slog.Logger { return slog.New(discardHandler{}) }

// activeLogger is swapped atomically so SetLogger may race with renders
// running on other goroutines (batch export, HTTP host).
var activeLogger atomic.Pointer[slog.Logger]

func init() {
	activeLogger.Store(newSilentLogger())
}

// SetLogger installs the logger used by ggreflect and its sub-packages.
// The library is silent until SetLogger is called. Passing nil restores
// the silent default.
//
// Levels:
//   - [slog.LevelDebug]: surface sizes, gradient vectors, working-surface geometry
//   - [slog.LevelInfo]: commits, session transitions
//   - [slog.LevelWarn]: recoverable failures (no drawing context, nothing to commit)
//   - [slog.LevelError]: precondition violations (degenerate geometry)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newSilentLogger()
	}
	activeLogger.Store(l)
}

// Logger returns the logger installed with SetLogger.
// Sub-packages (session, internal/...) log through it so one call configures
// the whole module.
func Logger() *slog.Logger {
	return activeLogger.Load()
}
