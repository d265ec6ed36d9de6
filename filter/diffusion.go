package filter

import (
	"github.com/gogpu/volfilter"
	"github.com/gogpu/volfilter/shader"
)

// Diffusion is an edge-preserving smoothing filter: Accuracy explicit
// Euler steps of nonlinear diffusion whose conductance falls off with the
// squared intensity relative to (K*RMS)^2.
type Diffusion struct {
	// Cl is the conductance per axis (default 5).
	Cl [3]float64

	// K scales the noise level into the edge-stopping threshold (default 1.5).
	K float64

	// RMS is the noise level of the input. Zero or negative means it is
	// estimated with EstimateRMS.
	RMS float64

	// TimeStep is the Euler step size (default 0.0325).
	TimeStep float64

	// Accuracy is the number of steps (default 20).
	Accuracy int

	// NoiseSlices is passed to EstimateRMS (default DefaultNoiseSlices).
	NoiseSlices int
}

// NewDiffusion returns a Diffusion filter with default parameters.
func NewDiffusion() *Diffusion {
	return &Diffusion{
		Cl:          [3]float64{5, 5, 5},
		K:           1.5,
		TimeStep:    0.0325,
		Accuracy:    20,
		NoiseSlices: DefaultNoiseSlices,
	}
}

// DiffusionSpec is the derived, immutable description of a diffusion run.
type DiffusionSpec struct {
	Cl         [3]float64
	RMS        float64
	Norm       float64 // (K*RMS)^2; 0 disables edge stopping
	TimeStep   float64
	Iterations int
}

// Spec derives the diffusion spec for in, estimating the noise level from
// in when RMS is not set.
func (d *Diffusion) Spec(in *volfilter.Volume) DiffusionSpec {
	rms := d.RMS
	if rms <= 0 {
		rms = EstimateRMS(in, d.NoiseSlices)
	}
	return DiffusionSpec{
		Cl:         d.Cl,
		RMS:        rms,
		Norm:       d.K * d.K * rms * rms,
		TimeStep:   d.TimeStep,
		Iterations: d.Accuracy,
	}
}

// Strategy returns Iterative.
func (d *Diffusion) Strategy() Strategy {
	return Iterative
}

// Apply filters in into out using ctx's device.
func (d *Diffusion) Apply(ctx *volfilter.Context, in, out *volfilter.Volume) error {
	if in == nil || out == nil {
		return volfilter.ErrNilVolume
	}
	ds := d.Spec(in)
	volfilter.Logger().Debug("filter: diffusion",
		"rms", ds.RMS, "norm", ds.Norm, "iterations", ds.Iterations)

	cb := volfilter.CallbackFunc(func(_ volfilter.Pass, u *shader.Uniforms) {
		u.Cl = [3]float32{float32(ds.Cl[0]), float32(ds.Cl[1]), float32(ds.Cl[2])}
		u.Norm = float32(ds.Norm)
		u.TimeStep = float32(ds.TimeStep)
	})
	return volfilter.NewHelper(ctx).ExecuteIterative(cb, in, 0, out,
		volfilter.WholeExtent(in.Dims), shader.StageDiffusion, ds.Iterations)
}
