package shader

import "fmt"

// Stage identifies one compiled stage variant.
type Stage int

const (
	// StageBoxX averages along X over 2*KernelLength[0]+1 voxels.
	StageBoxX Stage = iota

	// StageBoxY averages along Y over 2*KernelLength[1]+1 voxels.
	StageBoxY

	// StageBoxZ averages along Z over 2*KernelLength[2]+1 voxels.
	StageBoxZ

	// StageBox3D sums the full 3-D window and divides by Cont.
	StageBox3D

	// StageGaussianX applies a normalized 1-D Gaussian along X.
	StageGaussianX

	// StageGaussianY applies a normalized 1-D Gaussian along Y.
	StageGaussianY

	// StageGaussianZ applies a normalized 1-D Gaussian along Z.
	StageGaussianZ

	// StageGaussian3D applies an axis-aligned anisotropic 3-D Gaussian.
	StageGaussian3D

	// StageGaussianRotated applies an anisotropic 3-D Gaussian whose
	// sampling offsets are rotated by the Euler terms in Uniforms.Rotation.
	StageGaussianRotated

	// StageDiffusion performs one explicit Euler step of edge-stopping
	// nonlinear diffusion.
	StageDiffusion

	// StageCount is the number of stages.
	StageCount
)

// String returns the WGSL entry point name of the stage.
func (s Stage) String() string {
	switch s {
	case StageBoxX:
		return "box_x"
	case StageBoxY:
		return "box_y"
	case StageBoxZ:
		return "box_z"
	case StageBox3D:
		return "box_3d"
	case StageGaussianX:
		return "gaussian_x"
	case StageGaussianY:
		return "gaussian_y"
	case StageGaussianZ:
		return "gaussian_z"
	case StageGaussian3D:
		return "gaussian_3d"
	case StageGaussianRotated:
		return "gaussian_rotated"
	case StageDiffusion:
		return "diffusion_step"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Valid reports whether s names a known stage.
func (s Stage) Valid() bool {
	return s >= 0 && s < StageCount
}

// Family groups stages that share one WGSL module.
type Family int

const (
	// FamilyBox holds the mean-kernel stages.
	FamilyBox Family = iota

	// FamilyGaussian holds the Gaussian-weighted stages.
	FamilyGaussian

	// FamilyDiffusion holds the diffusion step.
	FamilyDiffusion
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case FamilyBox:
		return "box"
	case FamilyGaussian:
		return "gaussian"
	case FamilyDiffusion:
		return "diffusion"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// Family returns the module family the stage is compiled from.
func (s Stage) Family() Family {
	switch s {
	case StageBoxX, StageBoxY, StageBoxZ, StageBox3D:
		return FamilyBox
	case StageGaussianX, StageGaussianY, StageGaussianZ, StageGaussian3D, StageGaussianRotated:
		return FamilyGaussian
	default:
		return FamilyDiffusion
	}
}

// Axis returns the axis (0, 1 or 2) a separable stage runs along,
// or -1 for stages that read a full 3-D neighbourhood.
func (s Stage) Axis() int {
	switch s {
	case StageBoxX, StageGaussianX:
		return 0
	case StageBoxY, StageGaussianY:
		return 1
	case StageBoxZ, StageGaussianZ:
		return 2
	default:
		return -1
	}
}
