// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"
	"testing"

	"github.com/gogpu/volfilter/shader"
)

func newSoftware(t *testing.T) *SoftwareDevice {
	t.Helper()
	d := NewSoftwareDevice()
	d.SetWorkers(2)
	if err := d.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(d.Close)
	return d
}

func uniformsFor(dims [3]int, slice int) *shader.Uniforms {
	return &shader.Uniforms{
		Dims:    [3]uint32{uint32(dims[0]), uint32(dims[1]), uint32(dims[2])},
		Slice:   uint32(slice),
		Spacing: [3]float32{1, 1, 1},
	}
}

func TestSoftwareDeviceName(t *testing.T) {
	d := NewSoftwareDevice()
	if d.Name() != "software" {
		t.Errorf("Name() = %q, want %q", d.Name(), "software")
	}
}

func TestSoftwareDeviceNotInitialized(t *testing.T) {
	d := NewSoftwareDevice()
	if _, err := d.CreateTexture("a", [3]int{2, 2, 2}, nil); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("CreateTexture before Init error = %v, want ErrNotInitialized", err)
	}
	if _, err := d.Program(shader.StageBoxX); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Program before Init error = %v, want ErrNotInitialized", err)
	}
	if err := d.Flush(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Flush before Init error = %v, want ErrNotInitialized", err)
	}
}

func TestSoftwareDeviceCloseIdempotent(t *testing.T) {
	d := NewSoftwareDevice()
	if err := d.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	d.Close()
	d.Close()
	if _, err := d.Download(nil); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Download after Close error = %v, want ErrNotInitialized", err)
	}
}

func TestCreateTextureValidation(t *testing.T) {
	d := newSoftware(t)
	tests := []struct {
		name string
		dims [3]int
		data []float32
	}{
		{"zero axis", [3]int{0, 2, 2}, nil},
		{"negative axis", [3]int{2, -1, 2}, nil},
		{"short data", [3]int{2, 2, 2}, make([]float32, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := d.CreateTexture("x", tt.dims, tt.data); !errors.Is(err, ErrTextureSize) {
				t.Errorf("error = %v, want ErrTextureSize", err)
			}
		})
	}
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	d := newSoftware(t)
	data := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	tex, err := d.CreateTexture("a", [3]int{2, 2, 2}, data)
	if err != nil {
		t.Fatalf("CreateTexture error = %v", err)
	}
	data[0] = 99 // texture owns a copy

	got, err := d.Download(tex)
	if err != nil {
		t.Fatalf("Download error = %v", err)
	}
	if got[0] != 1 || got[7] != 8 {
		t.Errorf("Download = %v, want 1..8", got)
	}
	if tex.Label() != "a" || tex.Dims() != [3]int{2, 2, 2} {
		t.Errorf("texture = %q %v", tex.Label(), tex.Dims())
	}
}

func TestProgramCached(t *testing.T) {
	d := newSoftware(t)
	p1, err := d.Program(shader.StageGaussian3D)
	if err != nil {
		t.Fatalf("Program error = %v", err)
	}
	p2, _ := d.Program(shader.StageGaussian3D)
	if p1 != p2 {
		t.Error("Program should return the cached instance")
	}
	if p1.Stage() != shader.StageGaussian3D {
		t.Errorf("Stage() = %v, want %v", p1.Stage(), shader.StageGaussian3D)
	}
	if _, err := d.Program(shader.StageCount); !errors.Is(err, ErrUnknownStage) {
		t.Errorf("Program(StageCount) error = %v, want ErrUnknownStage", err)
	}
}

func TestDrawSliceValidation(t *testing.T) {
	d := newSoftware(t)
	other := newSoftware(t)
	dims := [3]int{3, 3, 3}

	a, _ := d.CreateTexture("a", dims, nil)
	b, _ := d.CreateTexture("b", dims, nil)
	small, _ := d.CreateTexture("small", [3]int{2, 2, 2}, nil)
	foreign, _ := other.CreateTexture("foreign", dims, nil)
	prog, _ := d.Program(shader.StageBoxX)
	foreignProg, _ := other.Program(shader.StageBoxX)

	tests := []struct {
		name     string
		prog     Program
		src, dst Texture
		u        *shader.Uniforms
		want     error
	}{
		{"same texture", prog, a, a, uniformsFor(dims, 0), ErrSameTexture},
		{"size mismatch", prog, a, small, uniformsFor(dims, 0), ErrTextureSize},
		{"foreign texture", prog, foreign, b, uniformsFor(dims, 0), ErrForeignTexture},
		{"foreign program", foreignProg, a, b, uniformsFor(dims, 0), ErrForeignTexture},
		{"slice out of range", prog, a, b, uniformsFor(dims, 3), ErrTextureSize},
		{"uniform dims", prog, a, b, uniformsFor([3]int{3, 3, 4}, 0), ErrTextureSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := d.DrawSlice(tt.prog, tt.src, tt.dst, tt.u); !errors.Is(err, tt.want) {
				t.Errorf("DrawSlice error = %v, want %v", err, tt.want)
			}
		})
	}

	d.DestroyTexture(b)
	if err := d.DrawSlice(prog, a, b, uniformsFor(dims, 0)); !errors.Is(err, ErrForeignTexture) {
		t.Errorf("draw into destroyed texture error = %v, want ErrForeignTexture", err)
	}
}

func TestDrawsRunOnFlush(t *testing.T) {
	d := newSoftware(t)
	dims := [3]int{4, 3, 2}
	n := dims[0] * dims[1] * dims[2]
	data := make([]float32, n)
	for i := range data {
		data[i] = 7
	}
	a, _ := d.CreateTexture("a", dims, data)
	b, _ := d.CreateTexture("b", dims, nil)
	prog, _ := d.Program(shader.StageBox3D)

	for z := range dims[2] {
		u := uniformsFor(dims, z)
		u.KernelLength = [3]int32{1, 1, 1}
		u.Cont = 27
		if err := d.DrawSlice(prog, a, b, u); err != nil {
			t.Fatalf("DrawSlice error = %v", err)
		}
	}

	before, _ := d.Download(b)
	if before[0] != 0 {
		t.Errorf("destination written before Flush: %v", before[0])
	}
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush error = %v", err)
	}
	after, _ := d.Download(b)
	for i, v := range after {
		if v != 7 {
			t.Fatalf("after[%d] = %v, want 7", i, v)
		}
	}
}

func TestFlushOrdersDependentDraws(t *testing.T) {
	d := newSoftware(t)
	dims := [3]int{5, 1, 1}
	a, _ := d.CreateTexture("a", dims, []float32{0, 0, 5, 0, 0})
	b, _ := d.CreateTexture("b", dims, nil)
	prog, _ := d.Program(shader.StageBoxX)

	u := uniformsFor(dims, 0)
	u.KernelLength = [3]int32{1, 0, 0}
	u.Cont = 3
	// a -> b -> a without an intervening Flush.
	if err := d.DrawSlice(prog, a, b, u); err != nil {
		t.Fatal(err)
	}
	if err := d.DrawSlice(prog, b, a, u); err != nil {
		t.Fatal(err)
	}
	if err := d.Flush(); err != nil {
		t.Fatal(err)
	}
	got, _ := d.Download(a)
	want := []float32{5.0 / 9, 10.0 / 9, 15.0 / 9, 10.0 / 9, 5.0 / 9}
	for i := range want {
		if diff := got[i] - want[i]; diff > 1e-5 || diff < -1e-5 {
			t.Errorf("a[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBarrierGroups(t *testing.T) {
	a, b, c := &softwareTexture{label: "a"}, &softwareTexture{label: "b"}, &softwareTexture{label: "c"}
	draws := []softwareDraw{
		{src: a, dst: b},
		{src: a, dst: b},
		{src: b, dst: c}, // reads b: new group
		{src: c, dst: a}, // reads c: new group
		{src: b, dst: c}, // writes c, read by the previous draw: new group
	}
	groups := barrierGroups(draws)
	want := []int{2, 1, 1, 1}
	if len(groups) != len(want) {
		t.Fatalf("len(groups) = %d, want %d", len(groups), len(want))
	}
	for i, g := range groups {
		if len(g) != want[i] {
			t.Errorf("len(groups[%d]) = %d, want %d", i, len(g), want[i])
		}
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	if !IsRegistered(BackendSoftware) {
		t.Error("software backend should be auto-registered")
	}
	d := Get(BackendSoftware)
	if d == nil {
		t.Fatal("Get(software) returned nil")
	}
	if d.Name() != BackendSoftware {
		t.Errorf("Get(software).Name() = %q, want %q", d.Name(), BackendSoftware)
	}
	if Get("nonexistent") != nil {
		t.Error("Get(nonexistent) should return nil")
	}
}

func TestRegistryAvailable(t *testing.T) {
	found := false
	for _, name := range Available() {
		if name == BackendSoftware {
			found = true
		}
	}
	if !found {
		t.Error("Available() should include 'software'")
	}
}

func TestRegistryDefault(t *testing.T) {
	d := Default()
	if d == nil {
		t.Fatal("Default() returned nil")
	}
	// Only software is registered when the wgpu package is not imported.
	if d.Name() != BackendSoftware {
		t.Errorf("Default().Name() = %q, want %q", d.Name(), BackendSoftware)
	}
}

func TestRegistryPriority(t *testing.T) {
	Register(BackendWGPU, func() Device { return &namedDevice{SoftwareDevice: NewSoftwareDevice(), name: BackendWGPU} })
	defer Unregister(BackendWGPU)

	if got := Default().Name(); got != BackendWGPU {
		t.Errorf("Default().Name() = %q, want %q", got, BackendWGPU)
	}
}

func TestRegistryUnregister(t *testing.T) {
	Register("test-backend", func() Device { return NewSoftwareDevice() })
	if !IsRegistered("test-backend") {
		t.Error("test-backend should be registered")
	}
	Unregister("test-backend")
	if IsRegistered("test-backend") {
		t.Error("test-backend should be unregistered")
	}
}

type namedDevice struct {
	*SoftwareDevice
	name string
}

func (d *namedDevice) Name() string { return d.name }

func BenchmarkSoftwareBox3D(b *testing.B) {
	d := NewSoftwareDevice()
	_ = d.Init()
	defer d.Close()

	dims := [3]int{64, 64, 64}
	src, _ := d.CreateTexture("a", dims, nil)
	dst, _ := d.CreateTexture("b", dims, nil)
	prog, _ := d.Program(shader.StageBox3D)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for z := range dims[2] {
			u := uniformsFor(dims, z)
			u.KernelLength = [3]int32{1, 1, 1}
			u.Cont = 27
			_ = d.DrawSlice(prog, src, dst, u)
		}
		_ = d.Flush()
	}
}
