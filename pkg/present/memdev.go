package present

import "fmt"

// MemDevice is an in-memory Device for tests and headless runs. Buffer
// contents are plain float32 slices, inspectable after each write.
type MemDevice struct {
	next    BufferID
	buffers map[BufferID]*memBuffer
}

type memBuffer struct {
	label   string
	size    uint64
	data    []float32
	indices []uint32
	writes  int
}

// NewMemDevice creates an empty in-memory device.
func NewMemDevice() *MemDevice {
	return &MemDevice{buffers: make(map[BufferID]*memBuffer)}
}

func (d *MemDevice) CreateBuffer(label string, size uint64) (BufferID, error) {
	d.next++
	d.buffers[d.next] = &memBuffer{label: label, size: size}
	return d.next, nil
}

func (d *MemDevice) WriteBuffer(id BufferID, data []float32) error {
	buf, ok := d.buffers[id]
	if !ok {
		return fmt.Errorf("write to unknown buffer %d", id)
	}
	if uint64(len(data))*bytesPerFloat > buf.size {
		return fmt.Errorf("write of %d floats overflows buffer %q", len(data), buf.label)
	}
	buf.data = append(buf.data[:0], data...)
	buf.writes++
	return nil
}

func (d *MemDevice) WriteIndices(id BufferID, data []uint32) error {
	buf, ok := d.buffers[id]
	if !ok {
		return fmt.Errorf("write to unknown buffer %d", id)
	}
	if uint64(len(data))*4 > buf.size {
		return fmt.Errorf("write of %d indices overflows buffer %q", len(data), buf.label)
	}
	buf.indices = append(buf.indices[:0], data...)
	buf.writes++
	return nil
}

func (d *MemDevice) ReleaseBuffer(id BufferID) {
	delete(d.buffers, id)
}

// Contents returns the floats last written to the buffer, or nil for an
// unknown or never-written buffer.
func (d *MemDevice) Contents(id BufferID) []float32 {
	if buf, ok := d.buffers[id]; ok {
		return buf.data
	}
	return nil
}

// Indices returns the indices last written to the buffer.
func (d *MemDevice) Indices(id BufferID) []uint32 {
	if buf, ok := d.buffers[id]; ok {
		return buf.indices
	}
	return nil
}

// Writes returns how many times the buffer has been written.
func (d *MemDevice) Writes(id BufferID) int {
	if buf, ok := d.buffers[id]; ok {
		return buf.writes
	}
	return 0
}

// BufferCount returns the number of live buffers.
func (d *MemDevice) BufferCount() int { return len(d.buffers) }
