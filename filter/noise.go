package filter

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/gogpu/volfilter"
)

// DefaultNoiseSlices is the number of z-planes taken from each end of the
// volume by EstimateRMS.
const DefaultNoiseSlices = 3

// minRMS is the smallest noise level EstimateRMS returns from the standard
// deviation before falling back to the data range.
const minRMS = 1e-9

// EstimateRMS estimates the noise level of component 0 of vol as the
// population standard deviation of the first and last slices z-planes.
// NaN voxels are skipped. Planes are not counted twice when the volume has
// fewer than 2*slices planes. If the deviation is below 1e-9 (a constant
// or empty sample) the result is (max-min)/100 over the same planes.
// slices <= 0 selects DefaultNoiseSlices.
func EstimateRMS(vol *volfilter.Volume, slices int) float64 {
	if vol == nil || vol.Voxels() == 0 {
		return 0
	}
	if slices <= 0 {
		slices = DefaultNoiseSlices
	}
	nx, ny, nz := vol.Dims[0], vol.Dims[1], vol.Dims[2]

	planes := make([]int, 0, 2*slices)
	for z := 0; z < nz && z < slices; z++ {
		planes = append(planes, z)
	}
	for z := max(nz-slices, slices); z < nz; z++ {
		planes = append(planes, z)
	}

	samples := make([]float64, 0, len(planes)*nx*ny)
	for _, z := range planes {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				if v := vol.At(x, y, z); !math.IsNaN(v) {
					samples = append(samples, v)
				}
			}
		}
	}
	if len(samples) == 0 {
		return 0
	}

	_, std := stat.PopMeanStdDev(samples, nil)
	if std < minRMS {
		return (floats.Max(samples) - floats.Min(samples)) / 100
	}
	return std
}
