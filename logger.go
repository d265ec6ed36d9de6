package volfilter

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/volfilter/backend"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

// liveDevices holds the devices opened by contexts, so that SetLogger can
// reach them.
var (
	liveMu      sync.Mutex
	liveDevices = make(map[backend.Device]struct{})
)

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for volfilter and its backends.
// By default nothing is logged. Pass nil to restore silence.
//
// Log levels used:
//   - [slog.LevelDebug]: pass and dispatch details, flush timings
//   - [slog.LevelInfo]: device selection
//   - [slog.LevelWarn]: dispatch failures, resource release problems
//
// Example:
//
//	volfilter.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	backend.SetLogger(l)

	liveMu.Lock()
	defer liveMu.Unlock()
	for d := range liveDevices {
		propagateLogger(d, l)
	}
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by devices that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

func propagateLogger(d backend.Device, l *slog.Logger) {
	if ls, ok := d.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}

func trackDevice(d backend.Device) {
	liveMu.Lock()
	defer liveMu.Unlock()
	liveDevices[d] = struct{}{}
	propagateLogger(d, Logger())
}

func untrackDevice(d backend.Device) {
	liveMu.Lock()
	defer liveMu.Unlock()
	delete(liveDevices, d)
}
