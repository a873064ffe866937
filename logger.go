package nodegl

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/go-logr/logr"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the package logger. By default nodegl produces no
// log output. Pass nil to restore the silent default.
//
// Log levels used by nodegl:
//   - [slog.LevelDebug]: per-frame GPU diagnostics (framebuffer names, upload classification)
//   - [slog.LevelInfo]: lifecycle events (backend selected, upload pipeline built)
//   - [slog.LevelWarn]: degraded capabilities (sample clamp, direct rendering disabled)
//   - [slog.LevelError]: platform API failures, with the platform code attached
//
// Contexts created after the call inherit the logger unless WithLogger
// overrides it.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// SetLogrLogger routes nodegl logging to a logr sink.
func SetLogrLogger(l logr.Logger) {
	if l.GetSink() == nil {
		SetLogger(nil)
		return
	}
	SetLogger(slog.New(logr.ToSlogHandler(l)))
}

// Logger returns the current package logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
