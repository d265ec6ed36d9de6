package shader

import (
	_ "embed"
	"fmt"
)

//go:embed shaders/prelude.wgsl
var preludeWGSL string

//go:embed shaders/box.wgsl
var boxWGSL string

//go:embed shaders/gaussian.wgsl
var gaussianWGSL string

//go:embed shaders/diffusion.wgsl
var diffusionWGSL string

// WorkgroupSize is the X and Y workgroup size of every compute entry point.
const WorkgroupSize = 8

// Bind group slots shared by all stages.
const (
	BindingUniforms = 0
	BindingSource   = 1
	BindingDest     = 2
)

// Source returns the complete WGSL module for a family: the shared prelude
// followed by the family's entry points.
func Source(f Family) (string, error) {
	var body string
	switch f {
	case FamilyBox:
		body = boxWGSL
	case FamilyGaussian:
		body = gaussianWGSL
	case FamilyDiffusion:
		body = diffusionWGSL
	default:
		return "", fmt.Errorf("shader: unknown family %d", int(f))
	}
	return preludeWGSL + "\n" + body, nil
}

// EntryPoint returns the WGSL entry point name of s.
func (s Stage) EntryPoint() string {
	return s.String()
}

// Workgroups returns the dispatch size covering one nx-by-ny slice.
func Workgroups(nx, ny uint32) (x, y uint32) {
	return (nx + WorkgroupSize - 1) / WorkgroupSize, (ny + WorkgroupSize - 1) / WorkgroupSize
}
