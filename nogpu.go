//go:build nogpu

package volfilter

import "github.com/gogpu/volfilter/backend"

// DefaultBackend is the backend a Context uses when none is selected.
const DefaultBackend = backend.BackendSoftware
