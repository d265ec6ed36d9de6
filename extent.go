package volfilter

import "fmt"

// Extent is an inclusive voxel range [x0, x1, y0, y1, z0, z1].
type Extent [6]int

// WholeExtent returns the extent covering a volume of the given size.
func WholeExtent(dims [3]int) Extent {
	return Extent{0, dims[0] - 1, 0, dims[1] - 1, 0, dims[2] - 1}
}

// Dims returns the number of voxels along each axis.
func (e Extent) Dims() [3]int {
	return [3]int{e[1] - e[0] + 1, e[3] - e[2] + 1, e[5] - e[4] + 1}
}

// Validate checks that every range is non-empty and starts at or after 0.
func (e Extent) Validate() error {
	for a := 0; a < 3; a++ {
		lo, hi := e[2*a], e[2*a+1]
		if lo < 0 || hi < lo {
			return fmt.Errorf("%w: axis %d range [%d, %d]", ErrExtent, a, lo, hi)
		}
	}
	return nil
}
