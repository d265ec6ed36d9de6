// Package volfilter runs smoothing filters over 3-D scalar volumes on a
// compute device.
//
// # Overview
//
// A filter is expressed as a sequence of passes of one per-voxel stage
// program (package shader). The [Helper] uploads one component of the
// input volume into texture A, runs the passes slice by slice while
// alternating between textures A and B, and downloads the final pass into
// a float64 output volume. Three dispatch strategies are offered:
//
//   - [Helper.Execute]: one pass of one stage.
//   - [Helper.ExecuteSeparable]: three passes, one stage per axis.
//   - [Helper.ExecuteIterative]: n passes of the same stage.
//
// The Box, Gaussian and Diffusion filters built on the helper live in
// package filter.
//
// # Quick Start
//
//	ctx := volfilter.NewContext()
//	defer ctx.Close()
//
//	in := volfilter.NewVolume(volfilter.Float32, 64, 64, 32)
//	out := volfilter.NewVolume(volfilter.Float64, 64, 64, 32)
//
//	g := filter.NewGaussian()
//	g.FWHM = [3]float64{2, 2, 4}
//	if err := g.Apply(ctx, in, out); err != nil {
//		log.Fatal(err)
//	}
//
// # Devices
//
// A [Context] owns the compute device. By default it uses the "wgpu"
// backend (Vulkan compute); programs built with the nogpu tag default to
// the "software" backend. The device is opened on first use. If it cannot
// be opened the call fails with [ErrDevice]; no other backend is tried.
//
// # Logging
//
// The package is silent by default. Use [SetLogger] to route diagnostics
// to a slog.Logger.
package volfilter
