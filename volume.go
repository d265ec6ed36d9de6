package volfilter

import "fmt"

// ScalarType is the element type of a Volume.
type ScalarType int

const (
	// Float32 stores 32-bit floats.
	Float32 ScalarType = iota

	// Float64 stores 64-bit floats.
	Float64
)

// String returns the type name.
func (t ScalarType) String() string {
	switch t {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("ScalarType(%d)", int(t))
	}
}

// Volume is a dense 3-D grid of scalar values.
//
// Storage is x-fastest with interleaved components:
// element (c, x, y, z) lives at ((z*ny+y)*nx+x)*comps+c.
type Volume struct {
	// Dims is the number of voxels along x, y and z.
	Dims [3]int

	// Spacing is the physical voxel size (default 1). Filters scale their
	// sampling offsets by it, so a spacing of 2 reads every second voxel.
	Spacing [3]float64

	typ   ScalarType
	comps int
	f32   []float32
	f64   []float64
}

// NewVolume allocates a zeroed single-component volume.
func NewVolume(t ScalarType, nx, ny, nz int) *Volume {
	return NewVolumeComponents(t, 1, nx, ny, nz)
}

// NewVolumeComponents allocates a zeroed volume with comps components per
// voxel. Negative sizes are treated as zero.
func NewVolumeComponents(t ScalarType, comps, nx, ny, nz int) *Volume {
	nx, ny, nz, comps = max(nx, 0), max(ny, 0), max(nz, 0), max(comps, 1)
	v := &Volume{
		Dims:    [3]int{nx, ny, nz},
		Spacing: [3]float64{1, 1, 1},
		typ:     t,
		comps:   comps,
	}
	n := nx * ny * nz * comps
	if t == Float64 {
		v.f64 = make([]float64, n)
	} else {
		v.f32 = make([]float32, n)
	}
	return v
}

// Type returns the element type.
func (v *Volume) Type() ScalarType { return v.typ }

// Components returns the number of components per voxel.
func (v *Volume) Components() int { return v.comps }

// Voxels returns nx*ny*nz.
func (v *Volume) Voxels() int { return v.Dims[0] * v.Dims[1] * v.Dims[2] }

// Dimensionality returns the number of axes longer than one voxel.
func (v *Volume) Dimensionality() int {
	n := 0
	for _, d := range v.Dims {
		if d > 1 {
			n++
		}
	}
	return n
}

func (v *Volume) index(c, x, y, z int) int {
	return ((z*v.Dims[1]+y)*v.Dims[0]+x)*v.comps + c
}

// At returns component 0 of voxel (x, y, z).
func (v *Volume) At(x, y, z int) float64 {
	return v.AtComponent(0, x, y, z)
}

// AtComponent returns component c of voxel (x, y, z).
func (v *Volume) AtComponent(c, x, y, z int) float64 {
	i := v.index(c, x, y, z)
	if v.typ == Float64 {
		return v.f64[i]
	}
	return float64(v.f32[i])
}

// Set stores component 0 of voxel (x, y, z).
func (v *Volume) Set(x, y, z int, value float64) {
	v.SetComponent(0, x, y, z, value)
}

// SetComponent stores component c of voxel (x, y, z).
func (v *Volume) SetComponent(c, x, y, z int, value float64) {
	i := v.index(c, x, y, z)
	if v.typ == Float64 {
		v.f64[i] = value
	} else {
		v.f32[i] = float32(value)
	}
}

// Fill sets every element to value.
func (v *Volume) Fill(value float64) {
	for i := range v.f64 {
		v.f64[i] = value
	}
	f := float32(value)
	for i := range v.f32 {
		v.f32[i] = f
	}
}

// Clone returns a deep copy.
func (v *Volume) Clone() *Volume {
	c := *v
	if v.f32 != nil {
		c.f32 = append([]float32(nil), v.f32...)
	}
	if v.f64 != nil {
		c.f64 = append([]float64(nil), v.f64...)
	}
	return &c
}

// Float32s returns the backing storage of a Float32 volume, or nil.
func (v *Volume) Float32s() []float32 { return v.f32 }

// Float64s returns the backing storage of a Float64 volume, or nil.
func (v *Volume) Float64s() []float64 { return v.f64 }

// Component32 returns component c as float32 values in x-fastest order.
// A single-component Float32 volume returns its storage without copying;
// callers must not modify the result.
func (v *Volume) Component32(c int) []float32 {
	if v.typ == Float32 && v.comps == 1 {
		return v.f32
	}
	n := v.Voxels()
	out := make([]float32, n)
	for i := range n {
		j := i*v.comps + c
		if v.typ == Float64 {
			out[i] = float32(v.f64[j])
		} else {
			out[i] = v.f32[j]
		}
	}
	return out
}

// String returns a short description such as "64x64x32 float32".
func (v *Volume) String() string {
	s := fmt.Sprintf("%dx%dx%d %s", v.Dims[0], v.Dims[1], v.Dims[2], v.typ)
	if v.comps > 1 {
		s += fmt.Sprintf(" x%d", v.comps)
	}
	return s
}
