package volfilter

import (
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/volfilter/backend"
)

type mockProvider struct{}

func (mockProvider) Device() gpucontext.Device             { return nil }
func (mockProvider) Queue() gpucontext.Queue               { return nil }
func (mockProvider) Adapter() gpucontext.Adapter           { return nil }
func (mockProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.backend != DefaultBackend {
		t.Errorf("backend = %q, want %q", o.backend, DefaultBackend)
	}
	if o.device != nil || o.provider != nil || o.workers != 0 {
		t.Errorf("defaultOptions() = %+v, want zero values besides backend", o)
	}
}

func TestOptionsApply(t *testing.T) {
	dev := backend.NewSoftwareDevice()
	p := mockProvider{}
	o := defaultOptions()
	for _, opt := range []ContextOption{
		WithBackend("software"),
		WithDevice(dev),
		WithDeviceProvider(p),
		WithWorkers(3),
	} {
		opt(&o)
	}
	if o.backend != "software" {
		t.Errorf("backend = %q, want software", o.backend)
	}
	if o.device != dev {
		t.Error("WithDevice not applied")
	}
	if o.provider != p {
		t.Error("WithDeviceProvider not applied")
	}
	if o.workers != 3 {
		t.Errorf("workers = %d, want 3", o.workers)
	}
}
