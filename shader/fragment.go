// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import "math"

// farExponent stands in for +Inf in Gaussian exponents when the variance
// term is zero, so that exp(-farExponent) underflows to exactly 0.
// prelude.wgsl uses the same constant.
const farExponent = 1e30

// Fragment computes the destination value of voxel (x, y, z).
type Fragment func(src *Sampler, u *Uniforms, x, y, z int) float32

// FragmentFor returns the Go implementation of stage s, or nil if s is
// not a valid stage.
func FragmentFor(s Stage) Fragment {
	switch s {
	case StageBoxX, StageBoxY, StageBoxZ:
		return boxAxis(s.Axis())
	case StageBox3D:
		return box3D
	case StageGaussianX, StageGaussianY, StageGaussianZ:
		return gaussianAxis(s.Axis())
	case StageGaussian3D:
		return gaussian3D
	case StageGaussianRotated:
		return gaussianRotated
	case StageDiffusion:
		return diffusionStep
	default:
		return nil
	}
}

func boxAxis(axis int) Fragment {
	return func(src *Sampler, u *Uniforms, x, y, z int) float32 {
		var d [3]float32
		var data float32
		l := int(u.KernelLength[axis])
		for k := -l; k <= l; k++ {
			d[axis] = float32(k)
			data += src.At(x, y, z, d[0], d[1], d[2])
		}
		return data / u.Cont
	}
}

func box3D(src *Sampler, u *Uniforms, x, y, z int) float32 {
	lx, ly, lz := int(u.KernelLength[0]), int(u.KernelLength[1]), int(u.KernelLength[2])
	var data float32
	for ox := -lx; ox <= lx; ox++ {
		for oy := -ly; oy <= ly; oy++ {
			for oz := -lz; oz <= lz; oz++ {
				data += src.At(x, y, z, float32(ox), float32(oy), float32(oz))
			}
		}
	}
	return data / u.Cont
}

// exponent returns q*q/variance, or farExponent for q != 0 when the
// variance term is not positive.
func exponent(q, variance float32) float32 {
	if variance > 0 {
		return q * q / variance
	}
	if q == 0 {
		return 0
	}
	return farExponent
}

func weight(e float32) float32 {
	return float32(math.Exp(float64(-e)))
}

func gaussianAxis(axis int) Fragment {
	return func(src *Sampler, u *Uniforms, x, y, z int) float32 {
		var d [3]float32
		var data, sum float32
		l := int(u.KernelLength[axis])
		for k := -l; k <= l; k++ {
			d[axis] = float32(k)
			w := weight(exponent(d[axis], u.Variance[axis]))
			data += src.At(x, y, z, d[0], d[1], d[2]) * w
			sum += w
		}
		return data / sum
	}
}

func gaussian3D(src *Sampler, u *Uniforms, x, y, z int) float32 {
	lx, ly, lz := int(u.KernelLength[0]), int(u.KernelLength[1]), int(u.KernelLength[2])
	var data, sum float32
	for ox := -lx; ox <= lx; ox++ {
		for oy := -ly; oy <= ly; oy++ {
			for oz := -lz; oz <= lz; oz++ {
				fx, fy, fz := float32(ox), float32(oy), float32(oz)
				w := weight(exponent(fx, u.Variance[0]) +
					exponent(fy, u.Variance[1]) +
					exponent(fz, u.Variance[2]))
				data += src.At(x, y, z, fx, fy, fz) * w
				sum += w
			}
		}
	}
	return data / sum
}

// Rotate maps a sampling offset into the kernel frame.
func (r Rotation) Rotate(ox, oy, oz float32) (x, y, z float32) {
	x = ox*r.CY*r.CZ - oy*r.CY*r.SZ + oz*r.SY
	y = ox*(r.CZ*r.SX*r.SY+r.CX*r.SZ) + oy*(r.CX*r.CZ-r.SX*r.SY*r.SZ) - oz*r.CY*r.SX
	z = ox*(r.SX*r.SZ-r.CX*r.CZ*r.SY) + oy*(r.CZ*r.SX+r.CX*r.SY*r.SZ) + oz*r.CX*r.CY
	return x, y, z
}

func gaussianRotated(src *Sampler, u *Uniforms, x, y, z int) float32 {
	lx, ly, lz := int(u.KernelLength[0]), int(u.KernelLength[1]), int(u.KernelLength[2])
	var data, sum float32
	for ox := -lx; ox <= lx; ox++ {
		for oy := -ly; oy <= ly; oy++ {
			for oz := -lz; oz <= lz; oz++ {
				fx, fy, fz := float32(ox), float32(oy), float32(oz)
				rx, ry, rz := u.Rotation.Rotate(fx, fy, fz)
				w := weight(exponent(rx, u.Variance[0]) +
					exponent(ry, u.Variance[1]) +
					exponent(rz, u.Variance[2]))
				data += src.At(x, y, z, fx, fy, fz) * w
				sum += w
			}
		}
	}
	return data / sum
}

func diffusionStep(src *Sampler, u *Uniforms, x, y, z int) float32 {
	c := src.At(x, y, z, 0, 0, 0)
	ax, bx := src.At(x, y, z, -1, 0, 0), src.At(x, y, z, 1, 0, 0)
	ay, by := src.At(x, y, z, 0, -1, 0), src.At(x, y, z, 0, 1, 0)
	az, bz := src.At(x, y, z, 0, 0, -1), src.At(x, y, z, 0, 0, 1)
	if isNaN(c) || isNaN(ax) || isNaN(bx) || isNaN(ay) || isNaN(by) || isNaN(az) || isNaN(bz) {
		return c
	}

	stop := float32(1)
	if u.Norm > 0 {
		stop += c * c / u.Norm
	}
	diffX := ((ax - c) + (bx - c)) * u.Cl[0]
	diffY := ((ay - c) + (by - c)) * u.Cl[1]
	diffZ := ((az - c) + (bz - c)) * u.Cl[2]
	return c + u.TimeStep*(diffX+diffY+diffZ)/stop
}

func isNaN(v float32) bool { return v != v }
