package filter

import (
	"math"

	"github.com/gogpu/volfilter"
	"github.com/gogpu/volfilter/shader"
)

// Gaussian is an anisotropic, optionally rotated Gaussian smoothing filter.
type Gaussian struct {
	// KernelLength is the requested window length per axis (default 10),
	// snapped like Box.
	KernelLength [3]int

	// FWHM is the full width at half maximum per axis, in voxels (default 3).
	FWHM [3]float64

	// RotationAngles are Euler angles in degrees (default 0).
	RotationAngles [3]float64

	// Separable allows the three 1-D pass strategy when the snapped
	// lengths are equal and no rotation is requested (default true).
	Separable bool
}

// NewGaussian returns a Gaussian with default parameters.
func NewGaussian() *Gaussian {
	return &Gaussian{
		KernelLength: [3]int{10, 10, 10},
		FWHM:         [3]float64{3, 3, 3},
		Separable:    true,
	}
}

// Spec derives the kernel spec.
func (g *Gaussian) Spec() KernelSpec {
	ks := newKernelSpec(g.KernelLength)
	for a := 0; a < 3; a++ {
		ks.Variance[a] = FWHMToVariance(g.FWHM[a])
		ks.Angles[a] = g.RotationAngles[a] * math.Pi / 180
	}
	if g.Separable && ks.equalLengths() && !ks.Rotated() {
		ks.Strategy = Separable
	}
	return ks
}

// Strategy returns the strategy Apply will use.
func (g *Gaussian) Strategy() Strategy {
	return g.Spec().Strategy
}

// Apply filters in into out using ctx's device.
func (g *Gaussian) Apply(ctx *volfilter.Context, in, out *volfilter.Volume) error {
	if in == nil || out == nil {
		return volfilter.ErrNilVolume
	}
	ks := g.Spec()
	h := volfilter.NewHelper(ctx)
	ext := volfilter.WholeExtent(in.Dims)

	cb := volfilter.CallbackFunc(func(_ volfilter.Pass, u *shader.Uniforms) {
		u.KernelLength = ks.halfWidths32()
		u.Variance = ks.variance32()
		u.Rotation = RotationTerms(ks.Angles)
	})

	switch {
	case ks.Strategy == Separable:
		return h.ExecuteSeparable(cb, in, 0, out, ext,
			shader.StageGaussianX, shader.StageGaussianY, shader.StageGaussianZ)
	case ks.Rotated():
		return h.Execute(cb, in, 0, out, ext, shader.StageGaussianRotated)
	default:
		return h.Execute(cb, in, 0, out, ext, shader.StageGaussian3D)
	}
}
