// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package volfilter

import (
	"fmt"
	"time"

	"github.com/gogpu/volfilter/backend"
	"github.com/gogpu/volfilter/shader"
)

// Helper runs stage programs over a volume using the device of a Context.
//
// Every call follows the same recipe: component comp of the input is
// uploaded into texture A, texture B is allocated, and pass i reads A and
// writes B when i is even, reads B and writes A when i is odd. Each pass
// draws the slices of the extent in increasing z and is flushed before the
// next pass starts. The texture written by the last pass (A when no pass
// ran) is downloaded into out.
type Helper struct {
	ctx *Context
}

// NewHelper returns a Helper bound to ctx.
func NewHelper(ctx *Context) *Helper {
	return &Helper{ctx: ctx}
}

// Execute runs stage once.
func (h *Helper) Execute(cb Callback, in *Volume, comp int, out *Volume, ext Extent, stage shader.Stage) error {
	if err := validate(in, comp, out, ext); err != nil {
		return err
	}
	return h.run(cb, in, comp, out, ext, []shader.Stage{stage})
}

// ExecuteSeparable runs stageX, stageY and stageZ as three passes.
func (h *Helper) ExecuteSeparable(cb Callback, in *Volume, comp int, out *Volume, ext Extent,
	stageX, stageY, stageZ shader.Stage,
) error {
	if err := validate(in, comp, out, ext); err != nil {
		return err
	}
	return h.run(cb, in, comp, out, ext, []shader.Stage{stageX, stageY, stageZ})
}

// ExecuteIterative runs stage n times. With n == 0 the input component is
// copied to out unchanged.
func (h *Helper) ExecuteIterative(cb Callback, in *Volume, comp int, out *Volume, ext Extent,
	stage shader.Stage, n int,
) error {
	if err := validate(in, comp, out, ext); err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrIterations, n)
	}
	stages := make([]shader.Stage, n)
	for i := range stages {
		stages[i] = stage
	}
	return h.run(cb, in, comp, out, ext, stages)
}

func validate(in *Volume, comp int, out *Volume, ext Extent) error {
	if in == nil || out == nil {
		return ErrNilVolume
	}
	if in.Dimensionality() != 3 {
		return fmt.Errorf("%w: input %v is not 3-D", ErrShape, in.Dims)
	}
	if in.Components() != 1 {
		return fmt.Errorf("%w: input has %d", ErrComponents, in.Components())
	}
	if comp < 0 || comp >= in.Components() {
		return fmt.Errorf("%w: %d", ErrComponentIndex, comp)
	}
	if out.Type() != Float64 {
		return fmt.Errorf("%w: got %v", ErrOutputType, out.Type())
	}
	if out.Components() != 1 {
		return fmt.Errorf("%w: output has %d", ErrComponents, out.Components())
	}
	if err := ext.Validate(); err != nil {
		return err
	}
	if ext != WholeExtent(in.Dims) {
		return fmt.Errorf("%w: extent %v does not cover input %v", ErrShape, ext, in.Dims)
	}
	if out.Dims != in.Dims {
		return fmt.Errorf("%w: output %v, input %v", ErrShape, out.Dims, in.Dims)
	}
	return nil
}

func (h *Helper) run(cb Callback, in *Volume, comp int, out *Volume, ext Extent, stages []shader.Stage) error {
	if h == nil || h.ctx == nil {
		return fmt.Errorf("%w: nil context", ErrDevice)
	}
	for _, s := range stages {
		if !s.Valid() {
			return fmt.Errorf("%w: %v", ErrStage, s)
		}
	}

	var result []float32
	err := h.ctx.Do(func(dev backend.Device) error {
		var err error
		result, err = dispatch(dev, cb, in.Component32(comp), in.Dims, sampleStride(in.Spacing), ext, stages)
		return err
	})
	if err != nil {
		return err
	}

	dst := out.Float64s()
	for i, v := range result {
		dst[i] = float64(v)
	}
	return nil
}

// sampleStride converts a physical voxel size into the per-axis sampling
// stride of the stages. Non-positive or NaN sizes sample at 1.
func sampleStride(spacing [3]float64) [3]float32 {
	var s [3]float32
	for a, v := range spacing {
		if v > 0 {
			s[a] = float32(v)
		} else {
			s[a] = 1
		}
	}
	return s
}

func dispatch(dev backend.Device, cb Callback, data []float32, dims [3]int, spacing [3]float32,
	ext Extent, stages []shader.Stage,
) ([]float32, error) {
	start := time.Now()

	texA, err := dev.CreateTexture("A", dims, data)
	if err != nil {
		return nil, fmt.Errorf("%w: upload: %w", ErrDevice, err)
	}
	defer dev.DestroyTexture(texA)
	texB, err := dev.CreateTexture("B", dims, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: allocate: %w", ErrDevice, err)
	}
	defer dev.DestroyTexture(texB)

	z0, z1 := ext[4], ext[5]
	nz := float32(z1 - z0 + 1)

	for i, stage := range stages {
		prog, err := dev.Program(stage)
		if err != nil {
			return nil, fmt.Errorf("%w: program %v: %w", ErrDevice, stage, err)
		}
		src, dst := texA, texB
		if i%2 == 1 {
			src, dst = texB, texA
		}

		u := shader.Uniforms{Spacing: spacing}
		if cb != nil {
			cb.InitializeUniforms(Pass{Index: i, Stage: stage}, &u)
		}
		u.Dims = [3]uint32{uint32(dims[0]), uint32(dims[1]), uint32(dims[2])} //nolint:gosec // validated positive

		for z := z0; z <= z1; z++ {
			u.Slice = uint32(z) //nolint:gosec // z >= 0
			u.ZPos = (float32(z-z0) + 0.5) / nz
			if err := dev.DrawSlice(prog, src, dst, &u); err != nil {
				return nil, fmt.Errorf("%w: pass %d slice %d: %w", ErrDevice, i, z, err)
			}
		}
		if err := dev.Flush(); err != nil {
			return nil, fmt.Errorf("%w: pass %d: %w", ErrDevice, i, err)
		}
	}

	final := texA
	if len(stages)%2 == 1 {
		final = texB
	}
	result, err := dev.Download(final)
	if err != nil {
		return nil, fmt.Errorf("%w: download: %w", ErrDevice, err)
	}

	Logger().Debug("volfilter: dispatch",
		"backend", dev.Name(),
		"passes", len(stages),
		"slices", z1-z0+1,
		"elapsed", time.Since(start))
	return result, nil
}
