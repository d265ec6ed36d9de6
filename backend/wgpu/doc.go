// Package wgpu provides the GPU compute backend for the volume filters,
// built on the gogpu/wgpu hardware abstraction layer.
//
// Importing the package registers the "wgpu" backend:
//
//	import _ "github.com/gogpu/volfilter/backend/wgpu"
//
// # Resources
//
// Volume textures are storage buffers of nx*ny*nz f32 values. Stage programs
// are compute pipelines: the WGSL module of each stage family is compiled to
// SPIR-V by gogpu/naga once per process, and every stage gets its own
// pipeline over a shared bind group layout:
//
//	binding 0: uniform  Uniforms
//	binding 1: storage  source volume (read)
//	binding 2: storage  destination volume (read_write)
//
// # Dispatch
//
// DrawSlice only records the draw. Flush encodes one compute pass per draw
// into a single command buffer, each pass with its own uniform buffer and
// bind group, dispatching ceil(nx/8) x ceil(ny/8) workgroups. Consecutive
// passes are separated by the implicit storage barrier between compute
// passes, so a pass always sees the writes of the passes before it. The
// command buffer is submitted once and waited on with a fence.
//
// # Shared Devices
//
// A host application that already owns a device can hand it over with
// SetDeviceProvider. The provider must expose HalDevice() and HalQueue().
// Shared devices are never destroyed by this package.
package wgpu
