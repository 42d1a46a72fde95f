package panoblend

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/panoblend/panoblend/gpuaccel"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely,
// making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so SetLogger
// can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used by panoblend and its
// sub-packages (including gpuaccel). By default, panoblend produces no
// log output.
//
// panoblend logs lifecycle events at [slog.LevelInfo]: compositer
// creation, and GPU backend initialization in gpuaccel/gogpu. No other
// level is used.
//
// SetLogger is safe for concurrent use. Pass nil to restore the silent
// default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	propagateToAccelerator(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// propagateToAccelerator forwards l to the gpuaccel registry so any
// registered accelerator (CPU fallback or GPU backend) logs through the
// same logger as the rest of panoblend.
func propagateToAccelerator(l *slog.Logger) {
	gpuaccel.SetLogger(l)
}
