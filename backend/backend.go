package backend

import (
	"errors"
	"fmt"

	"github.com/gogpu/volfilter/shader"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrTextureSize is returned for non-positive dimensions, data whose
	// length does not match them, or draws between textures of different size.
	ErrTextureSize = errors.New("backend: texture size mismatch")

	// ErrForeignTexture is returned when a texture or program created by one
	// device is passed to another, or used after it was destroyed.
	ErrForeignTexture = errors.New("backend: texture not owned by device")

	// ErrSameTexture is returned when a draw reads and writes one texture.
	ErrSameTexture = errors.New("backend: source and destination are the same texture")

	// ErrUnknownStage is returned by Program for stages outside the closed set.
	ErrUnknownStage = errors.New("backend: unknown stage")
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU backend.
	BackendSoftware = "software"

	// BackendWGPU is the name of the Pure Go GPU backend (gogpu/wgpu).
	BackendWGPU = "wgpu"
)

// Texture is a device-resident float32 volume.
type Texture interface {
	// Label returns the debug label the texture was created with.
	Label() string

	// Dims returns the texture size in voxels.
	Dims() [3]int
}

// Program is a compiled stage bound to the device that compiled it.
type Program interface {
	// Stage returns the stage the program executes.
	Stage() shader.Stage
}

// Device is a compute device able to run stage programs over volumes.
//
// Draws are queued by DrawSlice and executed by Flush. A Flush makes every
// previously queued draw visible to later draws and to Download, which is
// how the dispatch helper separates passes.
//
// Devices are not safe for concurrent use; callers serialize access.
type Device interface {
	// Name returns the backend identifier (e.g., "software", "wgpu").
	Name() string

	// Init acquires device resources. It must be called before any other
	// operation.
	Init() error

	// Close releases all device resources. The device must not be used
	// after Close.
	Close()

	// CreateTexture allocates a texture and uploads data into it.
	// A nil data slice leaves the texture zeroed.
	CreateTexture(label string, dims [3]int, data []float32) (Texture, error)

	// DestroyTexture releases a texture. Unknown textures are ignored.
	DestroyTexture(t Texture)

	// Program returns the compiled program for stage. Programs are compiled
	// once per device and cached.
	Program(stage shader.Stage) (Program, error)

	// DrawSlice queues one invocation of prog per voxel of slice u.Slice,
	// reading src and writing dst.
	DrawSlice(prog Program, src, dst Texture, u *shader.Uniforms) error

	// Flush executes all queued draws and waits for them to complete.
	Flush() error

	// Download returns the contents of t.
	Download(t Texture) ([]float32, error)
}

// DeviceProviderAware is implemented by devices that can run on a device
// owned by a host application instead of creating their own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

// WorkerSetter is implemented by devices whose CPU parallelism can be tuned.
type WorkerSetter interface {
	SetWorkers(n int)
}

// CheckTextureData validates texture dimensions against an optional
// initial data slice.
func CheckTextureData(dims [3]int, data []float32) error {
	for a, n := range dims {
		if n <= 0 {
			return fmt.Errorf("%w: axis %d has length %d", ErrTextureSize, a, n)
		}
	}
	if data != nil && len(data) != dims[0]*dims[1]*dims[2] {
		return fmt.Errorf("%w: %d values for %dx%dx%d",
			ErrTextureSize, len(data), dims[0], dims[1], dims[2])
	}
	return nil
}

// CheckDraw validates the texture and uniform geometry of a draw.
// Ownership is the caller's concern.
func CheckDraw(src, dst Texture, u *shader.Uniforms) error {
	if src == dst {
		return ErrSameTexture
	}
	d := dst.Dims()
	if src.Dims() != d {
		return fmt.Errorf("%w: source %v, destination %v", ErrTextureSize, src.Dims(), d)
	}
	if u == nil {
		return fmt.Errorf("%w: nil uniforms", ErrTextureSize)
	}
	if int(u.Dims[0]) != d[0] || int(u.Dims[1]) != d[1] || int(u.Dims[2]) != d[2] {
		return fmt.Errorf("%w: uniforms describe %v, texture is %v", ErrTextureSize, u.Dims, d)
	}
	if int(u.Slice) >= d[2] {
		return fmt.Errorf("%w: slice %d outside %d slices", ErrTextureSize, u.Slice, d[2])
	}
	return nil
}
