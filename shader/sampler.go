package shader

import "math"

// Sampler reads a float32 volume the way the GPU stages read their source
// buffer: nearest-neighbour lookup with clamp-to-edge addressing.
type Sampler struct {
	data    []float32
	dims    [3]int
	spacing [3]float32
}

// NewSampler wraps data, laid out x-fastest, for sampling.
// len(data) must be dims[0]*dims[1]*dims[2].
func NewSampler(data []float32, dims [3]int, spacing [3]float32) *Sampler {
	return &Sampler{data: data, dims: dims, spacing: spacing}
}

// Fetch returns the voxel at integer coordinates, clamped to the volume.
func (s *Sampler) Fetch(x, y, z int) float32 {
	x = clampIndex(x, s.dims[0])
	y = clampIndex(y, s.dims[1])
	z = clampIndex(z, s.dims[2])
	return s.data[(z*s.dims[1]+y)*s.dims[0]+x]
}

// At samples the voxel nearest to (x,y,z) displaced by d voxels scaled by
// the sampling stride of each axis.
func (s *Sampler) At(x, y, z int, dx, dy, dz float32) float32 {
	return s.Fetch(
		nearest(x, dx, s.spacing[0]),
		nearest(y, dy, s.spacing[1]),
		nearest(z, dz, s.spacing[2]),
	)
}

func nearest(i int, d, stride float32) int {
	p := float32(i) + 0.5 + d*stride
	return int(math.Floor(float64(p)))
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
