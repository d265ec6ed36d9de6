// Package shader defines the closed set of per-voxel stage programs used by
// the volume filters.
//
// Every stage exists in two forms that compute the same result:
//   - a WGSL compute entry point, compiled by GPU backends, and
//   - a Go fragment function, executed by the software backend.
//
// A stage is invoked once per destination voxel of a 2-D slice. It reads from
// a source volume through a clamp-to-edge, nearest-neighbour sampler and
// writes exactly one float32 to the destination volume. The per-pass
// parameters travel in a [Uniforms] block whose byte layout matches the WGSL
// Uniforms struct.
//
// # Stages
//
//   - Box: StageBoxX, StageBoxY, StageBoxZ (separable), StageBox3D
//   - Gaussian: StageGaussianX, StageGaussianY, StageGaussianZ (separable),
//     StageGaussian3D, StageGaussianRotated
//   - Diffusion: StageDiffusion (one explicit Euler step)
package shader
