package volfilter

import (
	"errors"
	"testing"
)

func TestNewVolume(t *testing.T) {
	tests := []struct {
		name  string
		typ   ScalarType
		comps int
		dims  [3]int
		dim   int
	}{
		{"3-D float32", Float32, 1, [3]int{4, 5, 6}, 3},
		{"2-D float64", Float64, 1, [3]int{4, 5, 1}, 2},
		{"line", Float32, 1, [3]int{1, 7, 1}, 1},
		{"point", Float64, 3, [3]int{1, 1, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVolumeComponents(tt.typ, tt.comps, tt.dims[0], tt.dims[1], tt.dims[2])
			if v.Dims != tt.dims {
				t.Errorf("Dims = %v, want %v", v.Dims, tt.dims)
			}
			if got := v.Dimensionality(); got != tt.dim {
				t.Errorf("Dimensionality() = %d, want %d", got, tt.dim)
			}
			if v.Spacing != [3]float64{1, 1, 1} {
				t.Errorf("Spacing = %v, want [1 1 1]", v.Spacing)
			}
			n := tt.dims[0] * tt.dims[1] * tt.dims[2] * tt.comps
			if got := len(v.Float32s()) + len(v.Float64s()); got != n {
				t.Errorf("storage = %d, want %d", got, n)
			}
		})
	}
}

func TestVolumeAccessors(t *testing.T) {
	v := NewVolumeComponents(Float64, 2, 3, 2, 2)
	v.SetComponent(1, 2, 1, 1, 4.5)
	if got := v.AtComponent(1, 2, 1, 1); got != 4.5 {
		t.Errorf("AtComponent = %v, want 4.5", got)
	}
	if got := v.At(2, 1, 1); got != 0 {
		t.Errorf("At (component 0) = %v, want 0", got)
	}
	// Interleaved layout: ((1*2+1)*3+2)*2+1 = 23
	if v.Float64s()[23] != 4.5 {
		t.Error("unexpected storage layout")
	}
	c := v.Component32(1)
	if len(c) != 12 || c[11] != 4.5 {
		t.Errorf("Component32(1) = %v", c)
	}
}

func TestVolumeComponent32NoCopy(t *testing.T) {
	v := NewVolume(Float32, 2, 2, 2)
	if &v.Component32(0)[0] != &v.Float32s()[0] {
		t.Error("single-component float32 volume should not be copied")
	}
}

func TestVolumeCloneIsDeep(t *testing.T) {
	v := NewVolume(Float32, 2, 2, 2)
	v.Fill(3)
	c := v.Clone()
	c.Set(0, 0, 0, 9)
	if v.At(0, 0, 0) != 3 {
		t.Error("Clone shares storage with the original")
	}
	if c.At(1, 1, 1) != 3 {
		t.Errorf("clone value = %v, want 3", c.At(1, 1, 1))
	}
}

func TestVolumeString(t *testing.T) {
	if got := NewVolume(Float64, 4, 5, 6).String(); got != "4x5x6 float64" {
		t.Errorf("String() = %q", got)
	}
	if got := ScalarType(7).String(); got != "ScalarType(7)" {
		t.Errorf("String() = %q", got)
	}
}

func TestExtent(t *testing.T) {
	e := WholeExtent([3]int{4, 5, 6})
	if e != (Extent{0, 3, 0, 4, 0, 5}) {
		t.Errorf("WholeExtent = %v", e)
	}
	if e.Dims() != [3]int{4, 5, 6} {
		t.Errorf("Dims() = %v", e.Dims())
	}
	if err := e.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	bad := []Extent{
		{-1, 3, 0, 4, 0, 5},
		{0, 3, 4, 3, 0, 5},
		{0, 3, 0, 4, 5, 4},
	}
	for _, b := range bad {
		if err := b.Validate(); !errors.Is(err, ErrExtent) {
			t.Errorf("Validate(%v) = %v, want ErrExtent", b, err)
		}
	}
}
