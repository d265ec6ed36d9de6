package volfilter

import "github.com/gogpu/volfilter/shader"

// Pass identifies one pass of a dispatch.
type Pass struct {
	// Index counts passes from 0.
	Index int

	// Stage is the stage the pass runs.
	Stage shader.Stage
}

// Callback fills in the filter-specific uniforms of a pass.
//
// InitializeUniforms is called once per pass before any slice is drawn.
// Dims, Slice and ZPos are overwritten by the helper afterwards.
type Callback interface {
	InitializeUniforms(p Pass, u *shader.Uniforms)
}

// CallbackFunc adapts a function to the Callback interface.
type CallbackFunc func(p Pass, u *shader.Uniforms)

// InitializeUniforms calls f(p, u).
func (f CallbackFunc) InitializeUniforms(p Pass, u *shader.Uniforms) {
	f(p, u)
}
