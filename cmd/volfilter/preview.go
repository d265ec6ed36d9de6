package main

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/volfilter"
)

// slice maps plane z of v to 8-bit grey using the plane's own range.
func slice(v *volfilter.Volume, z int) *image.Gray {
	nx, ny := v.Dims[0], v.Dims[1]
	lo, hi := math.Inf(1), math.Inf(-1)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			s := v.At(x, y, z)
			if math.IsNaN(s) {
				continue
			}
			lo, hi = math.Min(lo, s), math.Max(hi, s)
		}
	}
	span := hi - lo
	if !(span > 0) {
		span = 1
	}

	img := image.NewGray(image.Rect(0, 0, nx, ny))
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			s := v.At(x, y, z)
			if math.IsNaN(s) {
				s = lo
			}
			// image rows grow downwards
			img.SetGray(x, ny-1-y, color.Gray{Y: uint8(math.Round(255 * (s - lo) / span))})
		}
	}
	return img
}

func savePreview(path string, v *volfilter.Volume, z, scale int) error {
	src := slice(v, z)
	scale = max(scale, 1)
	dst := image.NewGray(image.Rect(0, 0, src.Bounds().Dx()*scale, src.Bounds().Dy()*scale))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, dst); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
