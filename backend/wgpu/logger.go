//go:build !nogpu

package wgpu

import (
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/volfilter/backend"
)

// loggerPtr holds a logger set through Device.SetLogger. When unset the
// backend package logger is used.
var loggerPtr atomic.Pointer[slog.Logger]

// slogger returns the current package logger.
func slogger() *slog.Logger {
	if l := loggerPtr.Load(); l != nil {
		return l
	}
	return backend.Logger()
}

func setLogger(l *slog.Logger) {
	loggerPtr.Store(l)
}
