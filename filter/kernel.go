// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package filter

import (
	"math"

	"github.com/gogpu/volfilter/shader"
)

// SigmaToFWHM converts a Gaussian standard deviation to its full width at
// half maximum: FWHM = 2*sqrt(2*ln 2)*sigma.
const SigmaToFWHM = 2.3548

// SnapKernelLength returns the odd kernel length used for a requested
// length: values below 1 become 1 and even values are increased by one.
func SnapKernelLength(l int) int {
	if l < 1 {
		return 1
	}
	if l%2 == 0 {
		return l + 1
	}
	return l
}

// FWHMToVariance returns the Gaussian exponent denominator 2*sigma^2 for a
// full width at half maximum.
func FWHMToVariance(fwhm float64) float64 {
	sigma := fwhm / SigmaToFWHM
	return 2 * sigma * sigma
}

// RotationTerms returns the cosine and sine of three Euler angles in radians.
func RotationTerms(angles [3]float64) shader.Rotation {
	return shader.Rotation{
		CX: float32(math.Cos(angles[0])), SX: float32(math.Sin(angles[0])),
		CY: float32(math.Cos(angles[1])), SY: float32(math.Sin(angles[1])),
		CZ: float32(math.Cos(angles[2])), SZ: float32(math.Sin(angles[2])),
	}
}

// KernelSpec is the derived, immutable description of a Box or Gaussian
// kernel.
type KernelSpec struct {
	// Lengths are the snapped odd kernel lengths.
	Lengths [3]int

	// HalfWidths are (Lengths-1)/2.
	HalfWidths [3]int

	// Cont is the product of Lengths, the Box normalization.
	Cont float64

	// Variance holds 2*sigma^2 per axis (Gaussian only).
	Variance [3]float64

	// Angles are the Euler rotation angles in radians (Gaussian only).
	Angles [3]float64

	// Strategy is the dispatch pattern chosen for the kernel.
	Strategy Strategy
}

func newKernelSpec(lengths [3]int) KernelSpec {
	var ks KernelSpec
	ks.Cont = 1
	for a, l := range lengths {
		l = SnapKernelLength(l)
		ks.Lengths[a] = l
		ks.HalfWidths[a] = (l - 1) / 2
		ks.Cont *= float64(l)
	}
	return ks
}

// equalLengths reports whether the kernel has the same length on every axis.
func (ks KernelSpec) equalLengths() bool {
	return ks.Lengths[0] == ks.Lengths[1] && ks.Lengths[1] == ks.Lengths[2]
}

// Rotated reports whether any Euler angle is non-zero.
func (ks KernelSpec) Rotated() bool {
	return ks.Angles != [3]float64{}
}

func (ks KernelSpec) halfWidths32() [3]int32 {
	return [3]int32{int32(ks.HalfWidths[0]), int32(ks.HalfWidths[1]), int32(ks.HalfWidths[2])} //nolint:gosec // small
}

func (ks KernelSpec) variance32() [3]float32 {
	return [3]float32{float32(ks.Variance[0]), float32(ks.Variance[1]), float32(ks.Variance[2])}
}
