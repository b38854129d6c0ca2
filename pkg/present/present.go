// Package present manages the triple-buffered vertex storage the renderer
// reads from. Uploads always target the slot after the current one, so a
// frame in flight never sees a half-written buffer.
package present

import "fmt"

const (
	numBuffers = 3

	// MaxPointsPerBuffer caps each slot. Oversized uploads are truncated.
	MaxPointsPerBuffer = 10_000_000

	floatsPerPoint = 3
	bytesPerFloat  = 4
)

// BufferID is an opaque handle to one device buffer.
type BufferID uint64

// Device is the minimal GPU surface the presentation layer needs. The wgpu
// adapter lives in the wgpudev subpackage; MemDevice serves tests and
// headless runs.
type Device interface {
	CreateBuffer(label string, size uint64) (BufferID, error)
	WriteBuffer(id BufferID, data []float32) error
	WriteIndices(id BufferID, data []uint32) error
	ReleaseBuffer(id BufferID)
}

// PointBuffers holds three rotating slots per point shape. The slot index
// is shared between the 3D and 2D sets, as the renderer only ever draws one
// of them per frame.
type PointBuffers struct {
	dev Device

	buffers3D [numBuffers]BufferID
	buffers2D [numBuffers]BufferID

	current int
	count3D int
	count2D int
}

// NewPointBuffers allocates all slots up front at full capacity.
func NewPointBuffers(dev Device) (*PointBuffers, error) {
	pb := &PointBuffers{dev: dev}
	size := uint64(MaxPointsPerBuffer * floatsPerPoint * bytesPerFloat)

	for i := 0; i < numBuffers; i++ {
		id, err := dev.CreateBuffer(fmt.Sprintf("point cloud 3d #%d", i), size)
		if err != nil {
			return nil, fmt.Errorf("allocating 3d slot %d: %w", i, err)
		}
		pb.buffers3D[i] = id
	}
	for i := 0; i < numBuffers; i++ {
		id, err := dev.CreateBuffer(fmt.Sprintf("point cloud 2d #%d", i), size)
		if err != nil {
			return nil, fmt.Errorf("allocating 2d slot %d: %w", i, err)
		}
		pb.buffers2D[i] = id
	}
	return pb, nil
}

// Upload3D writes packed xyz triples into the next 3D slot and advances the
// shared index. Empty uploads leave everything untouched.
func (pb *PointBuffers) Upload3D(points []float32) error {
	return pb.upload(&pb.buffers3D, &pb.count3D, points)
}

// Upload2D writes packed (x, y, value) triples into the next 2D slot and
// advances the shared index.
func (pb *PointBuffers) Upload2D(points []float32) error {
	return pb.upload(&pb.buffers2D, &pb.count2D, points)
}

func (pb *PointBuffers) upload(buffers *[numBuffers]BufferID, count *int, points []float32) error {
	if len(points) == 0 {
		return nil
	}

	next := (pb.current + 1) % numBuffers
	n := min(len(points)/floatsPerPoint, MaxPointsPerBuffer)

	if err := pb.dev.WriteBuffer(buffers[next], points[:n*floatsPerPoint]); err != nil {
		return err
	}

	pb.current = next
	*count = n
	return nil
}

// Current3D returns the buffer the renderer should draw 3D points from and
// the number of points it holds.
func (pb *PointBuffers) Current3D() (BufferID, int) {
	return pb.buffers3D[pb.current], pb.count3D
}

// Current2D returns the buffer the renderer should draw 2D points from and
// the number of points it holds.
func (pb *PointBuffers) Current2D() (BufferID, int) {
	return pb.buffers2D[pb.current], pb.count2D
}

// Release frees every slot.
func (pb *PointBuffers) Release() {
	for i := 0; i < numBuffers; i++ {
		pb.dev.ReleaseBuffer(pb.buffers3D[i])
		pb.dev.ReleaseBuffer(pb.buffers2D[i])
	}
}
