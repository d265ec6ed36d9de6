package main

import (
	"math"
	"math/rand/v2"

	"github.com/gogpu/volfilter"
)

// phantom is the noise-free test signal: a bright ball on a linear ramp.
func phantom(x, y, z, n int) float64 {
	c := float64(n-1) / 2
	dx, dy, dz := float64(x)-c, float64(y)-c, float64(z)-c
	v := 0.25 * float64(x) / float64(max(n-1, 1))
	if math.Sqrt(dx*dx+dy*dy+dz*dz) < float64(n)/4 {
		v += 0.6
	}
	return v
}

func datacube(n int, sigma float64, seed uint64) *volfilter.Volume {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	v := volfilter.NewVolume(volfilter.Float32, n, n, n)
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				v.Set(x, y, z, phantom(x, y, z, n)+sigma*r.NormFloat64())
			}
		}
	}
	return v
}

// residual is the RMS difference between v and the phantom.
func residual(v *volfilter.Volume, n int) float64 {
	var sum float64
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				d := v.At(x, y, z) - phantom(x, y, z, n)
				sum += d * d
			}
		}
	}
	return math.Sqrt(sum / float64(max(v.Voxels(), 1)))
}
