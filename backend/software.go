// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"fmt"
	"sort"
	"time"

	"github.com/gogpu/volfilter/internal/parallel"
	"github.com/gogpu/volfilter/shader"
)

// SoftwareDevice is a CPU compute device. It runs the Go form of each
// stage program, spreading the rows of every slice over a worker pool.
type SoftwareDevice struct {
	initialized bool
	workers     int
	pool        *parallel.Pool
	programs    map[shader.Stage]*softwareProgram
	textures    map[*softwareTexture]struct{}
	pending     []softwareDraw
}

type softwareTexture struct {
	label string
	dims  [3]int
	data  []float32
}

func (t *softwareTexture) Label() string { return t.label }
func (t *softwareTexture) Dims() [3]int  { return t.dims }

type softwareProgram struct {
	owner *SoftwareDevice
	stage shader.Stage
	frag  shader.Fragment
}

func (p *softwareProgram) Stage() shader.Stage { return p.stage }

type softwareDraw struct {
	prog     *softwareProgram
	src, dst *softwareTexture
	u        shader.Uniforms
}

func init() {
	Register(BackendSoftware, func() Device {
		return NewSoftwareDevice()
	})
}

// NewSoftwareDevice creates a software device using GOMAXPROCS workers.
func NewSoftwareDevice() *SoftwareDevice {
	return &SoftwareDevice{}
}

// Name returns the backend identifier.
func (d *SoftwareDevice) Name() string {
	return BackendSoftware
}

// SetWorkers sets the pool size used after the next Init.
// Zero or negative means GOMAXPROCS.
func (d *SoftwareDevice) SetWorkers(n int) {
	d.workers = n
}

// Init starts the worker pool.
func (d *SoftwareDevice) Init() error {
	if d.initialized {
		return nil
	}
	d.pool = parallel.NewPool(d.workers)
	d.programs = make(map[shader.Stage]*softwareProgram)
	d.textures = make(map[*softwareTexture]struct{})
	d.initialized = true
	Logger().Debug("software device initialized", "workers", d.pool.Workers())
	return nil
}

// Close stops the worker pool and drops all textures and programs.
func (d *SoftwareDevice) Close() {
	if !d.initialized {
		return
	}
	d.pool.Close()
	d.pool = nil
	d.programs = nil
	d.textures = nil
	d.pending = nil
	d.initialized = false
}

// CreateTexture allocates a texture, copying data when it is non-nil.
func (d *SoftwareDevice) CreateTexture(label string, dims [3]int, data []float32) (Texture, error) {
	if !d.initialized {
		return nil, ErrNotInitialized
	}
	if err := CheckTextureData(dims, data); err != nil {
		return nil, err
	}
	t := &softwareTexture{
		label: label,
		dims:  dims,
		data:  make([]float32, dims[0]*dims[1]*dims[2]),
	}
	copy(t.data, data)
	d.textures[t] = struct{}{}
	return t, nil
}

// DestroyTexture releases t.
func (d *SoftwareDevice) DestroyTexture(t Texture) {
	st, ok := t.(*softwareTexture)
	if !ok || d.textures == nil {
		return
	}
	delete(d.textures, st)
}

// Program returns the cached program for stage.
func (d *SoftwareDevice) Program(stage shader.Stage) (Program, error) {
	if !d.initialized {
		return nil, ErrNotInitialized
	}
	if p, ok := d.programs[stage]; ok {
		return p, nil
	}
	frag := shader.FragmentFor(stage)
	if frag == nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownStage, stage)
	}
	p := &softwareProgram{owner: d, stage: stage, frag: frag}
	d.programs[stage] = p
	return p, nil
}

func (d *SoftwareDevice) owned(t Texture) (*softwareTexture, error) {
	st, ok := t.(*softwareTexture)
	if !ok {
		return nil, ErrForeignTexture
	}
	if _, live := d.textures[st]; !live {
		return nil, fmt.Errorf("%w: %q", ErrForeignTexture, st.label)
	}
	return st, nil
}

// DrawSlice queues one slice of prog. The uniforms are copied.
func (d *SoftwareDevice) DrawSlice(prog Program, src, dst Texture, u *shader.Uniforms) error {
	if !d.initialized {
		return ErrNotInitialized
	}
	sp, ok := prog.(*softwareProgram)
	if !ok || sp.owner != d {
		return fmt.Errorf("%w: program", ErrForeignTexture)
	}
	s, err := d.owned(src)
	if err != nil {
		return err
	}
	t, err := d.owned(dst)
	if err != nil {
		return err
	}
	if err := CheckDraw(s, t, u); err != nil {
		return err
	}
	d.pending = append(d.pending, softwareDraw{prog: sp, src: s, dst: t, u: *u})
	return nil
}

// Flush executes the queued draws.
//
// Draws are split into barrier groups: a draw starts a new group when it
// reads a texture written earlier in the current group, or writes one read
// earlier. Within a group every row of every slice runs in parallel.
func (d *SoftwareDevice) Flush() error {
	if !d.initialized {
		return ErrNotInitialized
	}
	if len(d.pending) == 0 {
		return nil
	}
	start := time.Now()
	groups := barrierGroups(d.pending)
	for _, g := range groups {
		d.runGroup(g)
	}
	Logger().Debug("software flush",
		"draws", len(d.pending),
		"groups", len(groups),
		"elapsed", time.Since(start))
	d.pending = d.pending[:0]
	return nil
}

func barrierGroups(draws []softwareDraw) [][]softwareDraw {
	var groups [][]softwareDraw
	begin := 0
	written := make(map[*softwareTexture]bool)
	read := make(map[*softwareTexture]bool)
	for i, dr := range draws {
		if written[dr.src] || read[dr.dst] {
			groups = append(groups, draws[begin:i])
			begin = i
			clear(written)
			clear(read)
		}
		written[dr.dst] = true
		read[dr.src] = true
	}
	return append(groups, draws[begin:])
}

func (d *SoftwareDevice) runGroup(group []softwareDraw) {
	// Items are numbered draw by draw, one per destination row.
	offsets := make([]int, len(group)+1)
	for i := range group {
		offsets[i+1] = offsets[i] + group[i].dst.dims[1]
	}
	samplers := make([]*shader.Sampler, len(group))
	for i := range group {
		dr := &group[i]
		samplers[i] = shader.NewSampler(dr.src.data, dr.src.dims, dr.u.Spacing)
	}

	d.pool.For(offsets[len(group)], func(item int) {
		i := sort.Search(len(group), func(k int) bool { return offsets[k+1] > item })
		dr := &group[i]
		y := item - offsets[i]
		z := int(dr.u.Slice)
		nx, ny := dr.dst.dims[0], dr.dst.dims[1]
		row := dr.dst.data[(z*ny+y)*nx : (z*ny+y+1)*nx]
		for x := range row {
			row[x] = dr.prog.frag(samplers[i], &dr.u, x, y, z)
		}
	})
}

// Download returns a copy of t. Queued draws are not flushed.
func (d *SoftwareDevice) Download(t Texture) ([]float32, error) {
	if !d.initialized {
		return nil, ErrNotInitialized
	}
	st, err := d.owned(t)
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(st.data))
	copy(out, st.data)
	return out, nil
}
