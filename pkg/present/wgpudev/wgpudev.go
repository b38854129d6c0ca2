// Package wgpudev adapts a webgpu device to the present.Device interface.
package wgpudev

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/vbxq/prng3d/pkg/present"
)

// Device wraps a wgpu device and queue. Buffers are created as vertex
// buffers written through the queue.
type Device struct {
	dev   *wgpu.Device
	queue *wgpu.Queue

	next    present.BufferID
	buffers map[present.BufferID]*wgpu.Buffer
}

// New wraps an existing device and its queue.
func New(dev *wgpu.Device, queue *wgpu.Queue) *Device {
	return &Device{
		dev:     dev,
		queue:   queue,
		buffers: make(map[present.BufferID]*wgpu.Buffer),
	}
}

func (d *Device) CreateBuffer(label string, size uint64) (present.BufferID, error) {
	buf, err := d.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             size,
		Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return 0, fmt.Errorf("creating buffer %q: %w", label, err)
	}
	d.next++
	d.buffers[d.next] = buf
	return d.next, nil
}

func (d *Device) WriteBuffer(id present.BufferID, data []float32) error {
	buf, ok := d.buffers[id]
	if !ok {
		return fmt.Errorf("write to unknown buffer %d", id)
	}
	return d.queue.WriteBuffer(buf, 0, wgpu.ToBytes(data))
}

func (d *Device) WriteIndices(id present.BufferID, data []uint32) error {
	buf, ok := d.buffers[id]
	if !ok {
		return fmt.Errorf("write to unknown buffer %d", id)
	}
	return d.queue.WriteBuffer(buf, 0, wgpu.ToBytes(data))
}

func (d *Device) ReleaseBuffer(id present.BufferID) {
	if buf, ok := d.buffers[id]; ok {
		buf.Release()
		delete(d.buffers, id)
	}
}

// Buffer returns the underlying wgpu buffer so render passes can bind it.
func (d *Device) Buffer(id present.BufferID) *wgpu.Buffer {
	return d.buffers[id]
}
