// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/volfilter/backend"
	"github.com/gogpu/volfilter/shader"
)

// waitTimeout bounds every fence wait.
const waitTimeout = 5 * time.Second

type draw struct {
	prog     *program
	src, dst *texture
	params   []byte
	groupsX  uint32
	groupsY  uint32
}

// DrawSlice records one slice of prog for the next Flush.
func (d *Device) DrawSlice(prog backend.Program, src, dst backend.Texture, u *shader.Uniforms) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return backend.ErrNotInitialized
	}
	p, ok := prog.(*program)
	if !ok || p.owner != d {
		return fmt.Errorf("%w: program", backend.ErrForeignTexture)
	}
	s, err := d.owned(src)
	if err != nil {
		return err
	}
	t, err := d.owned(dst)
	if err != nil {
		return err
	}
	if err := backend.CheckDraw(s, t, u); err != nil {
		return err
	}
	gx, gy := shader.Workgroups(u.Dims[0], u.Dims[1])
	d.pending = append(d.pending, draw{
		prog: p, src: s, dst: t,
		params:  u.Bytes(),
		groupsX: gx, groupsY: gy,
	})
	return nil
}

// Flush encodes one compute pass per pending draw into a single command
// buffer, submits it and waits for completion.
func (d *Device) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return backend.ErrNotInitialized
	}
	if len(d.pending) == 0 {
		return nil
	}
	start := time.Now()
	n := len(d.pending)
	err := d.dispatch(d.pending)
	d.pending = d.pending[:0]
	if err != nil {
		slogger().Warn("wgpu: dispatch failed", "draws", n, "err", err)
		return err
	}
	slogger().Debug("wgpu: flush", "draws", n, "elapsed", time.Since(start))
	return nil
}

func (d *Device) dispatch(draws []draw) error {
	uniformBufs, bindGroups, err := d.createBindings(draws)
	defer d.cleanupBindings(uniformBufs, bindGroups)
	if err != nil {
		return err
	}

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "volfilter_encoder"})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("volfilter_pass"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	for i := range draws {
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "volfilter_slice"})
		pass.SetPipeline(draws[i].prog.pipeline)
		pass.SetBindGroup(0, bindGroups[i], nil)
		pass.Dispatch(draws[i].groupsX, draws[i].groupsY, 1)
		pass.End()
	}
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	return d.submitAndWait(cmdBuf)
}

// createBindings creates a uniform buffer and a bind group per draw.
// On error the partial slices are returned for cleanup.
func (d *Device) createBindings(draws []draw) ([]hal.Buffer, []hal.BindGroup, error) {
	uniformBufs := make([]hal.Buffer, 0, len(draws))
	bindGroups := make([]hal.BindGroup, 0, len(draws))

	for i := range draws {
		dr := &draws[i]
		ub, err := d.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "volfilter_params", Size: shader.UniformSize,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return uniformBufs, bindGroups, fmt.Errorf("wgpu: create uniform buffer %d: %w", i, err)
		}
		uniformBufs = append(uniformBufs, ub)
		d.queue.WriteBuffer(ub, 0, dr.params)

		bg, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label: "volfilter_bind", Layout: d.layout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: shader.BindingUniforms, Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: shader.UniformSize}},
				{Binding: shader.BindingSource, Resource: gputypes.BufferBinding{Buffer: dr.src.buf.NativeHandle(), Offset: 0, Size: dr.src.size}},
				{Binding: shader.BindingDest, Resource: gputypes.BufferBinding{Buffer: dr.dst.buf.NativeHandle(), Offset: 0, Size: dr.dst.size}},
			},
		})
		if err != nil {
			return uniformBufs, bindGroups, fmt.Errorf("wgpu: create bind group %d: %w", i, err)
		}
		bindGroups = append(bindGroups, bg)
	}
	return uniformBufs, bindGroups, nil
}

func (d *Device) cleanupBindings(uniformBufs []hal.Buffer, bindGroups []hal.BindGroup) {
	for _, bg := range bindGroups {
		if bg != nil {
			d.device.DestroyBindGroup(bg)
		}
	}
	for _, ub := range uniformBufs {
		if ub != nil {
			d.device.DestroyBuffer(ub)
		}
	}
}

func (d *Device) submitAndWait(cmdBuf hal.CommandBuffer) error {
	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)
	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	ok, err := d.device.Wait(fence, 1, waitTimeout)
	if err != nil {
		return fmt.Errorf("wgpu: wait for GPU: %w", err)
	}
	if !ok {
		return ErrTimeout
	}
	return nil
}

// Download copies t into a staging buffer and reads it back.
// Pending draws are not flushed.
func (d *Device) Download(t backend.Texture) ([]float32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return nil, backend.ErrNotInitialized
	}
	wt, err := d.owned(t)
	if err != nil {
		return nil, err
	}

	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "volfilter_staging", Size: wt.size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create staging buffer: %w", err)
	}
	defer d.device.DestroyBuffer(staging)

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "volfilter_readback"})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("volfilter_readback"); err != nil {
		return nil, fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	encoder.CopyBufferToBuffer(wt.buf, staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: wt.size},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	if err := d.submitAndWait(cmdBuf); err != nil {
		return nil, err
	}
	readback := make([]byte, wt.size)
	if err := d.queue.ReadBuffer(staging, 0, readback); err != nil {
		return nil, fmt.Errorf("wgpu: readback: %w", err)
	}
	return decodeFloats(readback), nil
}
