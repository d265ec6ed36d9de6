// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"encoding/binary"
	"math"
)

// UniformSize is the byte size of a packed Uniforms block.
// 32 four-byte scalars; a multiple of 16 as WGSL uniform buffers require.
const UniformSize = 32 * 4

// Rotation holds the cosine/sine terms of three Euler angles.
type Rotation struct {
	CX, SX float32
	CY, SY float32
	CZ, SZ float32
}

// IdentityRotation is the rotation for zero Euler angles.
var IdentityRotation = Rotation{CX: 1, CY: 1, CZ: 1}

// Uniforms is the parameter block bound to every stage invocation.
//
// Dims, Slice and ZPos are owned by the dispatch helper; the remaining
// fields are filled in by the filter that configures the pass. Fields a
// stage does not read are ignored.
type Uniforms struct {
	// Dims is the volume size in voxels.
	Dims [3]uint32

	// Slice is the destination slice index along Z.
	Slice uint32

	// ZPos is the normalized depth coordinate of the slice centre.
	ZPos float32

	// Cont is the box normalization divisor.
	Cont float32

	// Norm is the squared edge-stopping scale (K*RMS)^2.
	Norm float32

	// TimeStep is the explicit Euler time step.
	TimeStep float32

	// Spacing is the sampling stride per axis, in voxels.
	Spacing [3]float32

	// KernelLength holds the per-axis kernel half-widths.
	KernelLength [3]int32

	// Variance holds the Gaussian denominators 2*sigma^2 per axis.
	Variance [3]float32

	// Cl holds the per-axis diffusion conductances.
	Cl [3]float32

	// Rotation holds the Euler terms for StageGaussianRotated.
	Rotation Rotation
}

// Bytes serializes u into a UniformSize little-endian block.
// The layout matches the Uniforms struct in prelude.wgsl:
//
//	  0: nx ny nz slice          (u32)
//	 16: z_pos cont norm time_step
//	 32: spacing xyz, pad
//	 48: half-widths xyz, pad    (i32)
//	 64: variance xyz, pad
//	 80: cl xyz, pad
//	 96: cx sx cy sy
//	112: cz sz, pad, pad
func (u *Uniforms) Bytes() []byte {
	buf := make([]byte, UniformSize)
	le := binary.LittleEndian
	putF := func(off int, v float32) { le.PutUint32(buf[off:], math.Float32bits(v)) }

	le.PutUint32(buf[0:], u.Dims[0])
	le.PutUint32(buf[4:], u.Dims[1])
	le.PutUint32(buf[8:], u.Dims[2])
	le.PutUint32(buf[12:], u.Slice)
	putF(16, u.ZPos)
	putF(20, u.Cont)
	putF(24, u.Norm)
	putF(28, u.TimeStep)
	for a := 0; a < 3; a++ {
		putF(32+4*a, u.Spacing[a])
		le.PutUint32(buf[48+4*a:], uint32(u.KernelLength[a])) //nolint:gosec // two's complement is what WGSL i32 expects
		putF(64+4*a, u.Variance[a])
		putF(80+4*a, u.Cl[a])
	}
	putF(96, u.Rotation.CX)
	putF(100, u.Rotation.SX)
	putF(104, u.Rotation.CY)
	putF(108, u.Rotation.SY)
	putF(112, u.Rotation.CZ)
	putF(116, u.Rotation.SZ)
	return buf
}
