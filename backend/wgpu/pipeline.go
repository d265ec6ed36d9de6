//go:build !nogpu

package wgpu

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/volfilter/backend"
	"github.com/gogpu/volfilter/internal/cache"
	"github.com/gogpu/volfilter/shader"
)

// spirv holds compiled shader words per family for the whole process, so
// reopened devices skip naga.
var spirv = cache.New[shader.Family, []uint32]()

type program struct {
	owner    *Device
	stage    shader.Stage
	pipeline hal.ComputePipeline
}

func (p *program) Stage() shader.Stage { return p.stage }

// compileSPIRV compiles WGSL source to SPIR-V words.
func compileSPIRV(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, err
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}

// module returns the shader module of a stage family, compiling it on
// first use.
func (d *Device) module(f shader.Family) (hal.ShaderModule, error) {
	if m, ok := d.modules[f]; ok {
		return m, nil
	}
	words, err := spirv.GetOrCreate(f, func() ([]uint32, error) {
		source, err := shader.Source(f)
		if err != nil {
			return nil, err
		}
		return compileSPIRV(source)
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile %v shaders: %w", f, err)
	}
	m, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "volfilter_" + f.String(),
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %v shader module: %w", f, err)
	}
	d.modules[f] = m
	slogger().Debug("wgpu: shader module created", "family", f.String(), "words", len(words))
	return m, nil
}

// Program returns the cached compute pipeline for stage.
func (d *Device) Program(stage shader.Stage) (backend.Program, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return nil, backend.ErrNotInitialized
	}
	if !stage.Valid() {
		return nil, fmt.Errorf("%w: %v", backend.ErrUnknownStage, stage)
	}
	if p, ok := d.programs[stage]; ok {
		return p, nil
	}

	m, err := d.module(stage.Family())
	if err != nil {
		return nil, err
	}
	pipeline, err := d.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "volfilter_" + stage.String(), Layout: d.pipeLayout,
		Compute: hal.ComputeState{Module: m, EntryPoint: stage.EntryPoint()},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %v pipeline: %w", stage, err)
	}
	p := &program{owner: d, stage: stage, pipeline: pipeline}
	d.programs[stage] = p
	return p, nil
}

func (d *Device) destroyPrograms() {
	for _, p := range d.programs {
		d.device.DestroyComputePipeline(p.pipeline)
	}
	for _, m := range d.modules {
		d.device.DestroyShaderModule(m)
	}
	d.programs = nil
	d.modules = nil
}
