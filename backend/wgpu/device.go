//go:build !nogpu

package wgpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/volfilter/backend"
	"github.com/gogpu/volfilter/shader"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Package errors.
var (
	// ErrNoVulkan is returned when the Vulkan HAL backend is not available.
	ErrNoVulkan = errors.New("wgpu: vulkan backend not available")

	// ErrNoAdapter is returned when no GPU adapter is found.
	ErrNoAdapter = errors.New("wgpu: no GPU adapters found")

	// ErrProvider is returned by SetDeviceProvider for providers that do not
	// expose HAL device and queue.
	ErrProvider = errors.New("wgpu: provider does not expose HAL types")

	// ErrTimeout is returned when the GPU does not signal a fence in time.
	ErrTimeout = errors.New("wgpu: GPU wait timed out")
)

// AdapterInfo describes the GPU the device runs on.
type AdapterInfo struct {
	Name       string
	DeviceType gputypes.DeviceType
	Shared     bool
}

// String returns a human-readable description of the adapter.
func (i AdapterInfo) String() string {
	if i.Shared {
		return "shared host device"
	}
	return fmt.Sprintf("%s (%v)", i.Name, i.DeviceType)
}

// Device is a backend.Device running stage programs as Vulkan compute
// pipelines.
type Device struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	info     AdapterInfo

	layout     hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	modules    map[shader.Family]hal.ShaderModule
	programs   map[shader.Stage]*program
	textures   map[*texture]struct{}
	pending    []draw

	initialized    bool
	externalDevice bool // true when using a shared device (don't destroy on Close)
}

var (
	_ backend.Device              = (*Device)(nil)
	_ backend.DeviceProviderAware = (*Device)(nil)
)

func init() {
	backend.Register(backend.BackendWGPU, func() backend.Device {
		return New()
	})
}

// New creates an uninitialized GPU device.
func New() *Device {
	return &Device{}
}

// Name returns the backend identifier.
func (d *Device) Name() string { return backend.BackendWGPU }

// Info returns the adapter the device was opened on.
func (d *Device) Info() AdapterInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.info
}

// SetLogger sets the logger used by this package.
func (d *Device) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// Init opens a Vulkan device on the first discrete or integrated GPU
// (or the first adapter of any kind), unless a shared device was provided.
func (d *Device) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.initialized {
		return nil
	}
	if err := d.openDevice(); err != nil {
		d.releaseDevice()
		return err
	}
	if err := d.createLayouts(); err != nil {
		d.releaseDevice()
		return err
	}
	d.initialized = true
	slogger().Info("wgpu: device initialized", "adapter", d.info.String())
	return nil
}

func (d *Device) openDevice() error {
	b, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return ErrNoVulkan
	}
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("wgpu: create instance: %w", err)
	}
	d.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("wgpu: open device: %w", err)
	}
	d.device = openDev.Device
	d.queue = openDev.Queue
	d.info = AdapterInfo{Name: selected.Info.Name, DeviceType: selected.Info.DeviceType}
	return nil
}

func (d *Device) createLayouts() error {
	layout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "volfilter_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: shader.BindingUniforms, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: shader.BindingSource, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: shader.BindingDest, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group layout: %w", err)
	}
	d.layout = layout

	pipeLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "volfilter_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{d.layout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	d.pipeLayout = pipeLayout

	d.modules = make(map[shader.Family]hal.ShaderModule)
	d.programs = make(map[shader.Stage]*program)
	d.textures = make(map[*texture]struct{})
	return nil
}

// SetDeviceProvider switches the device to a GPU device owned by the
// host. The provider must implement HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue. All textures and programs created
// before the switch are released.
func (d *Device) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return ErrProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("%w: HalDevice is not hal.Device", ErrProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("%w: HalQueue is not hal.Queue", ErrProvider)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.releaseDevice()
	d.device = device
	d.queue = queue
	d.externalDevice = true
	d.info = AdapterInfo{Shared: true}

	if err := d.createLayouts(); err != nil {
		d.releaseDevice()
		return fmt.Errorf("wgpu: layouts on shared device: %w", err)
	}
	d.initialized = true
	slogger().Info("wgpu: switched to shared GPU device")
	return nil
}

// Close releases all GPU resources. A shared device is left alive.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.releaseDevice()
}

// releaseDevice destroys everything created on the current device, then
// the device itself unless it is shared.
func (d *Device) releaseDevice() {
	if d.device != nil {
		for t := range d.textures {
			d.device.DestroyBuffer(t.buf)
		}
		d.destroyPrograms()
		if d.pipeLayout != nil {
			d.device.DestroyPipelineLayout(d.pipeLayout)
		}
		if d.layout != nil {
			d.device.DestroyBindGroupLayout(d.layout)
		}
		if !d.externalDevice {
			d.device.Destroy()
		}
	}
	if d.instance != nil && !d.externalDevice {
		d.instance.Destroy()
	}
	d.instance = nil
	d.device = nil
	d.queue = nil
	d.layout = nil
	d.pipeLayout = nil
	d.modules = nil
	d.programs = nil
	d.textures = nil
	d.pending = nil
	d.initialized = false
	d.externalDevice = false
}
