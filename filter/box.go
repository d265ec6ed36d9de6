package filter

import (
	"github.com/gogpu/volfilter"
	"github.com/gogpu/volfilter/shader"
)

// Box is a moving-average filter.
type Box struct {
	// KernelLength is the requested window length per axis (default 5).
	// Lengths are snapped to odd values of at least 1.
	KernelLength [3]int

	// Separable allows the three 1-D pass strategy when the snapped
	// lengths are equal (default true).
	Separable bool
}

// NewBox returns a Box with default parameters.
func NewBox() *Box {
	return &Box{KernelLength: [3]int{5, 5, 5}, Separable: true}
}

// Spec derives the kernel spec.
func (b *Box) Spec() KernelSpec {
	ks := newKernelSpec(b.KernelLength)
	if b.Separable && ks.equalLengths() {
		ks.Strategy = Separable
	}
	return ks
}

// Strategy returns the strategy Apply will use.
func (b *Box) Strategy() Strategy {
	return b.Spec().Strategy
}

// Apply filters in into out using ctx's device.
func (b *Box) Apply(ctx *volfilter.Context, in, out *volfilter.Volume) error {
	if in == nil || out == nil {
		return volfilter.ErrNilVolume
	}
	ks := b.Spec()
	h := volfilter.NewHelper(ctx)
	ext := volfilter.WholeExtent(in.Dims)

	if ks.Strategy == Separable {
		cb := volfilter.CallbackFunc(func(p volfilter.Pass, u *shader.Uniforms) {
			a := p.Stage.Axis()
			u.KernelLength[a] = int32(ks.HalfWidths[a]) //nolint:gosec // small
			u.Cont = float32(ks.Lengths[a])
		})
		return h.ExecuteSeparable(cb, in, 0, out, ext, shader.StageBoxX, shader.StageBoxY, shader.StageBoxZ)
	}

	cb := volfilter.CallbackFunc(func(_ volfilter.Pass, u *shader.Uniforms) {
		u.KernelLength = ks.halfWidths32()
		u.Cont = float32(ks.Cont)
	})
	return h.Execute(cb, in, 0, out, ext, shader.StageBox3D)
}
