//go:build !nogpu

package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/volfilter/backend"
)

type texture struct {
	label string
	dims  [3]int
	buf   hal.Buffer
	size  uint64
}

func (t *texture) Label() string { return t.label }
func (t *texture) Dims() [3]int  { return t.dims }

// CreateTexture allocates a storage buffer and uploads data, or zeros
// when data is nil.
func (d *Device) CreateTexture(label string, dims [3]int, data []float32) (backend.Texture, error) {
	if err := backend.CheckTextureData(dims, data); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return nil, backend.ErrNotInitialized
	}

	n := dims[0] * dims[1] * dims[2]
	size := uint64(n) * 4 //nolint:gosec // n is positive
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label, Size: size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture %q: %w", label, err)
	}
	if data == nil {
		d.queue.WriteBuffer(buf, 0, make([]byte, size))
	} else {
		d.queue.WriteBuffer(buf, 0, encodeFloats(data))
	}

	t := &texture{label: label, dims: dims, buf: buf, size: size}
	d.textures[t] = struct{}{}
	slogger().Debug("wgpu: texture created", "label", label, "dims", dims, "bytes", size)
	return t, nil
}

// DestroyTexture releases the storage buffer of t.
func (d *Device) DestroyTexture(t backend.Texture) {
	d.mu.Lock()
	defer d.mu.Unlock()
	wt, ok := t.(*texture)
	if !ok || d.textures == nil {
		return
	}
	if _, live := d.textures[wt]; !live {
		return
	}
	delete(d.textures, wt)
	d.device.DestroyBuffer(wt.buf)
}

func (d *Device) owned(t backend.Texture) (*texture, error) {
	wt, ok := t.(*texture)
	if !ok {
		return nil, backend.ErrForeignTexture
	}
	if _, live := d.textures[wt]; !live {
		return nil, fmt.Errorf("%w: %q", backend.ErrForeignTexture, wt.label)
	}
	return wt, nil
}

// encodeFloats packs values as little-endian f32.
func encodeFloats(values []float32) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// decodeFloats unpacks little-endian f32 values.
func decodeFloats(data []byte) []float32 {
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}
