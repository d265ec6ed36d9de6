package volfilter

import (
	"fmt"
	"sync"

	"github.com/gogpu/volfilter/backend"
)

// Context owns the compute device used by a Helper.
//
// The device is opened lazily on first use and reused by every call until
// Close. Calls are serialized: a Helper call holds the device for its whole
// duration. Context is safe for concurrent use.
type Context struct {
	mu     sync.Mutex
	opts   contextOptions
	device backend.Device
	owned  bool
	closed bool
}

// NewContext creates a Context. No device work happens until first use.
func NewContext(opts ...ContextOption) *Context {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Context{opts: o}
}

// Backend returns the name of the backend the Context uses.
func (c *Context) Backend() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device != nil {
		return c.device.Name()
	}
	if c.opts.device != nil {
		return c.opts.device.Name()
	}
	return c.opts.backend
}

// Do runs fn with exclusive use of the device, opening it first if
// needed. Device errors returned by fn are not wrapped.
func (c *Context) Do(fn func(backend.Device) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrContextClosed
	}
	if c.device == nil {
		if err := c.open(); err != nil {
			return err
		}
	}
	return fn(c.device)
}

// open acquires and initializes the device. A failed attempt leaves the
// Context without a device so the next call tries again.
func (c *Context) open() error {
	if d := c.opts.device; d != nil {
		if err := d.Init(); err != nil {
			return fmt.Errorf("%w: init %s: %w", ErrDevice, d.Name(), err)
		}
		c.device = d
		c.owned = false
		trackDevice(d)
		return nil
	}

	d := backend.Get(c.opts.backend)
	if d == nil {
		return fmt.Errorf("%w: %w: %q", ErrDevice, backend.ErrBackendNotAvailable, c.opts.backend)
	}
	if ws, ok := d.(backend.WorkerSetter); ok {
		ws.SetWorkers(c.opts.workers)
	}
	if c.opts.provider != nil {
		if pa, ok := d.(backend.DeviceProviderAware); ok {
			if err := pa.SetDeviceProvider(c.opts.provider); err != nil {
				d.Close()
				return fmt.Errorf("%w: share host device: %w", ErrDevice, err)
			}
		}
	}
	if err := d.Init(); err != nil {
		d.Close()
		return fmt.Errorf("%w: init %s: %w", ErrDevice, d.Name(), err)
	}
	c.device = d
	c.owned = true
	trackDevice(d)
	Logger().Info("volfilter: device ready", "backend", d.Name())
	return nil
}

// Close releases the device if the Context opened it. It is safe to call
// Close more than once.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.device != nil {
		untrackDevice(c.device)
		if c.owned {
			c.device.Close()
		}
		c.device = nil
	}
	return nil
}
