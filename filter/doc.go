// Package filter implements the Box, Gaussian and Diffusion volume filters.
//
// Each filter turns its parameters into an immutable spec (KernelSpec or
// DiffusionSpec), picks a dispatch strategy from it, and runs the matching
// stage programs through a volfilter.Helper:
//
//	Box        separable (3 passes) or one 3-D pass
//	Gaussian   separable (3 passes), one 3-D pass, or one rotated 3-D pass
//	Diffusion  Accuracy explicit Euler steps
//
// The strategy is decided before any device work and can be queried with
// Strategy.
package filter
