package main

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/volfilter"
)

func TestSliceScalesRange(t *testing.T) {
	v := volfilter.NewVolume(volfilter.Float64, 3, 2, 1)
	v.Set(0, 0, 0, -1)
	v.Set(2, 1, 0, 3)
	v.Set(1, 0, 0, math.NaN())

	img := slice(v, 0)
	if got := img.GrayAt(0, 1).Y; got != 0 {
		t.Errorf("min voxel = %d, want 0", got)
	}
	if got := img.GrayAt(2, 0).Y; got != 255 {
		t.Errorf("max voxel = %d, want 255", got)
	}
	// zero maps to a quarter of the range
	if got := img.GrayAt(0, 0).Y; got != 64 {
		t.Errorf("zero voxel = %d, want 64", got)
	}
	if got := img.GrayAt(1, 1).Y; got != 0 {
		t.Errorf("NaN voxel = %d, want 0", got)
	}
}

func TestSliceConstant(t *testing.T) {
	v := volfilter.NewVolume(volfilter.Float32, 4, 4, 2)
	v.Fill(7)
	img := slice(v, 1)
	for i, p := range img.Pix {
		if p != 0 {
			t.Fatalf("Pix[%d] = %d, want 0", i, p)
		}
	}
}

func TestSavePreview(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.png")
	v := datacube(8, 0, 1)
	if err := savePreview(path, v, 4, 3); err != nil {
		t.Fatalf("savePreview() error = %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 24 || b.Dy() != 24 {
		t.Errorf("preview size = %dx%d, want 24x24", b.Dx(), b.Dy())
	}
}

func TestDatacube(t *testing.T) {
	clean := datacube(8, 0, 1)
	if r := residual(clean, 8); r > 1e-6 {
		t.Errorf("residual(noise-free) = %v, want ~0", r)
	}
	a, b := datacube(8, 0.1, 42), datacube(8, 0.1, 42)
	if a.At(3, 4, 5) != b.At(3, 4, 5) {
		t.Error("same seed gave different cubes")
	}
	if r := residual(a, 8); r < 0.05 || r > 0.2 {
		t.Errorf("residual(noisy) = %v, want about 0.1", r)
	}
}
