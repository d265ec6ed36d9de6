package volfilter

import "errors"

// Validation errors. The helper checks its arguments in the order the
// errors are listed and reports the first failure without touching the
// output.
var (
	// ErrNilVolume is returned when an input or output volume is nil.
	ErrNilVolume = errors.New("volfilter: nil volume")

	// ErrShape is returned when a volume is not three-dimensional or the
	// input, output and extent sizes disagree.
	ErrShape = errors.New("volfilter: volume shape mismatch")

	// ErrComponents is returned for multi-component volumes.
	ErrComponents = errors.New("volfilter: volume must have exactly one component")

	// ErrComponentIndex is returned when the requested component does not exist.
	ErrComponentIndex = errors.New("volfilter: component index out of range")

	// ErrOutputType is returned when the output volume is not Float64.
	ErrOutputType = errors.New("volfilter: output volume must be Float64")

	// ErrExtent is returned for malformed extents.
	ErrExtent = errors.New("volfilter: invalid extent")

	// ErrIterations is returned for a negative iteration count.
	ErrIterations = errors.New("volfilter: negative iteration count")

	// ErrStage is returned for stages outside the closed set.
	ErrStage = errors.New("volfilter: unknown stage")
)

// Device errors.
var (
	// ErrDevice wraps every failure of the compute device: initialization,
	// resource creation, dispatch and readback.
	ErrDevice = errors.New("volfilter: device error")

	// ErrContextClosed is returned for calls made after Context.Close.
	ErrContextClosed = errors.New("volfilter: context closed")
)
