package mudensity

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip attribute formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called while beams are being computed elsewhere.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for mudensity and its sub-packages.
// By default, mudensity produces no log output.
//
// Pass nil to restore the default silent behavior.
//
// Log levels used by mudensity:
//   - [slog.LevelDebug]: per beam and per segment diagnostics (grid sizes,
//     time steps, pruned control points)
//   - [slog.LevelWarn]: local grid samples that could not be placed on the
//     full grid
//
// Example:
//
//	mudensity.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by mudensity.
// Sub-packages (delivery/, display/) call this to share the same
// configuration without introducing import cycles.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
