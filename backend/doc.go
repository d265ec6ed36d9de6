// Package backend provides the pluggable compute device abstraction used by
// the volume filters.
//
// A [Device] owns float32 volume textures and runs the stage programs of
// package shader over them, one 2-D slice per draw. Draws are queued and
// executed by Flush, which acts as a full barrier between passes.
//
// # Backend Registration
//
// Backends register a [Factory] from init() functions and are selected by
// name at runtime. The software backend is registered by this package; the
// GPU backend is registered by importing its package:
//
//	import _ "github.com/gogpu/volfilter/backend/wgpu"
//
// # Backend Selection
//
//	d := backend.Default()        // wgpu if registered, else software
//	d := backend.Get("software")  // a specific backend
//
// Selection never falls back: if the chosen device fails to initialize,
// the error is returned to the caller.
//
// # Available Backends
//
//   - "software": CPU device running the Go fragment programs (always available)
//   - "wgpu": Vulkan compute via gogpu/wgpu, WGSL compiled by gogpu/naga
package backend
