//go:build !nogpu

package volfilter

import (
	"github.com/gogpu/volfilter/backend"

	// Register the GPU backend.
	_ "github.com/gogpu/volfilter/backend/wgpu"
)

// DefaultBackend is the backend a Context uses when none is selected.
const DefaultBackend = backend.BackendWGPU
