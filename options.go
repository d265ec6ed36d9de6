package volfilter

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/volfilter/backend"
)

// ContextOption configures a Context during creation.
//
// Example:
//
//	// Default device
//	ctx := volfilter.NewContext()
//
//	// CPU device with 4 workers
//	ctx := volfilter.NewContext(volfilter.WithBackend("software"), volfilter.WithWorkers(4))
type ContextOption func(*contextOptions)

type contextOptions struct {
	backend  string
	device   backend.Device
	provider gpucontext.DeviceProvider
	workers  int
}

func defaultOptions() contextOptions {
	return contextOptions{backend: DefaultBackend}
}

// WithBackend selects a registered backend by name.
func WithBackend(name string) ContextOption {
	return func(o *contextOptions) {
		o.backend = name
	}
}

// WithDevice makes the Context use an existing device. The device is
// initialized on first use but never closed by the Context.
func WithDevice(d backend.Device) ContextOption {
	return func(o *contextOptions) {
		o.device = d
	}
}

// WithDeviceProvider shares a host application's GPU device. The provider
// is handed to backends that implement backend.DeviceProviderAware before
// they are initialized; other backends ignore it.
//
// Example:
//
//	ctx := volfilter.NewContext(volfilter.WithDeviceProvider(app.DeviceProvider()))
func WithDeviceProvider(p gpucontext.DeviceProvider) ContextOption {
	return func(o *contextOptions) {
		o.provider = p
	}
}

// WithWorkers sets the CPU parallelism of backends that implement
// backend.WorkerSetter. Zero or negative means GOMAXPROCS.
func WithWorkers(n int) ContextOption {
	return func(o *contextOptions) {
		o.workers = n
	}
}
