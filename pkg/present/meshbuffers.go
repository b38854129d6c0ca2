package present

import "fmt"

// Capacities for the single-buffered mesh storage. Oversized meshes are
// truncated on upload.
const (
	MaxSurfaceVertices = 500_000
	MaxSurfaceIndices  = 1_000_000
	MaxCurveVertices   = 10_000
	MaxGridVertices    = 2_000
	MaxHeatmapVertices = 500_000
)

// MeshBuffers holds the device storage for the math view: one surface mesh
// (shared by height fields and parametric surfaces), one curve, the 2D
// projections, and the reference grid. Unlike point batches, meshes arrive
// rarely, so a single buffer per shape is enough.
type MeshBuffers struct {
	dev Device

	surfaceVertices    BufferID
	surfaceNormals     BufferID
	surfaceIndices     BufferID
	surfaceVertexCount int
	surfaceIndexCount  int

	curveVertices    BufferID
	curveVertexCount int

	heatmap            BufferID
	heatmapVertexCount int

	curve2D            BufferID
	curve2DVertexCount int

	grid            BufferID
	gridVertexCount int

	zMin, zMax float32
}

// NewMeshBuffers allocates every mesh buffer at full capacity.
func NewMeshBuffers(dev Device) (*MeshBuffers, error) {
	mb := &MeshBuffers{dev: dev, zMax: 1}

	alloc := func(id *BufferID, label string, size uint64) error {
		got, err := dev.CreateBuffer(label, size)
		if err != nil {
			return fmt.Errorf("allocating %s: %w", label, err)
		}
		*id = got
		return nil
	}

	steps := []struct {
		id    *BufferID
		label string
		size  uint64
	}{
		{&mb.surfaceVertices, "surface vertices", MaxSurfaceVertices * 3 * bytesPerFloat},
		{&mb.surfaceNormals, "surface normals", MaxSurfaceVertices * 3 * bytesPerFloat},
		{&mb.surfaceIndices, "surface indices", MaxSurfaceIndices * 4},
		{&mb.curveVertices, "curve vertices", MaxCurveVertices * 3 * bytesPerFloat},
		{&mb.heatmap, "surface heatmap", MaxHeatmapVertices * 3 * bytesPerFloat},
		{&mb.curve2D, "curve 2d", MaxCurveVertices * 2 * bytesPerFloat},
		{&mb.grid, "reference grid", MaxGridVertices * 3 * bytesPerFloat},
	}
	for _, s := range steps {
		if err := alloc(s.id, s.label, s.size); err != nil {
			return nil, err
		}
	}
	return mb, nil
}

// UploadSurface writes an indexed triangle mesh into the surface slots and
// records its z range for the height shader.
func (mb *MeshBuffers) UploadSurface(vertices, normals []float32, indices []uint32, zMin, zMax float32) error {
	nf := min(len(vertices), MaxSurfaceVertices*3)
	ni := min(len(indices), MaxSurfaceIndices)

	if err := mb.dev.WriteBuffer(mb.surfaceVertices, vertices[:nf]); err != nil {
		return err
	}
	if err := mb.dev.WriteBuffer(mb.surfaceNormals, normals[:nf]); err != nil {
		return err
	}
	if err := mb.dev.WriteIndices(mb.surfaceIndices, indices[:ni]); err != nil {
		return err
	}

	mb.surfaceVertexCount = nf / 3
	mb.surfaceIndexCount = ni
	mb.zMin, mb.zMax = zMin, zMax
	return nil
}

// UploadCurve writes polyline vertices into the curve slot.
func (mb *MeshBuffers) UploadCurve(vertices []float32) error {
	n := min(len(vertices), MaxCurveVertices*3)
	if err := mb.dev.WriteBuffer(mb.curveVertices, vertices[:n]); err != nil {
		return err
	}
	mb.curveVertexCount = n / 3
	return nil
}

// UploadHeatmap writes 2D heat triples projected from a surface.
func (mb *MeshBuffers) UploadHeatmap(data []float32) error {
	n := min(len(data), MaxHeatmapVertices*3)
	if err := mb.dev.WriteBuffer(mb.heatmap, data[:n]); err != nil {
		return err
	}
	mb.heatmapVertexCount = n / 3
	return nil
}

// UploadCurve2D writes flattened xy pairs projected from a curve.
func (mb *MeshBuffers) UploadCurve2D(data []float32) error {
	n := min(len(data), MaxCurveVertices*2)
	if err := mb.dev.WriteBuffer(mb.curve2D, data[:n]); err != nil {
		return err
	}
	mb.curve2DVertexCount = n / 2
	return nil
}

// UploadGrid writes the reference grid line segments.
func (mb *MeshBuffers) UploadGrid(vertices []float32) error {
	n := min(len(vertices), MaxGridVertices*3)
	if err := mb.dev.WriteBuffer(mb.grid, vertices[:n]); err != nil {
		return err
	}
	mb.gridVertexCount = n / 3
	return nil
}

// Surface returns the surface buffers with their live vertex and index
// counts.
func (mb *MeshBuffers) Surface() (vertices, normals, indices BufferID, vertexCount, indexCount int) {
	return mb.surfaceVertices, mb.surfaceNormals, mb.surfaceIndices, mb.surfaceVertexCount, mb.surfaceIndexCount
}

// Curve returns the curve buffer and its vertex count.
func (mb *MeshBuffers) Curve() (BufferID, int) {
	return mb.curveVertices, mb.curveVertexCount
}

// Heatmap returns the heatmap buffer and its vertex count.
func (mb *MeshBuffers) Heatmap() (BufferID, int) {
	return mb.heatmap, mb.heatmapVertexCount
}

// Curve2D returns the flattened curve buffer and its vertex count.
func (mb *MeshBuffers) Curve2D() (BufferID, int) {
	return mb.curve2D, mb.curve2DVertexCount
}

// Grid returns the grid buffer and its vertex count.
func (mb *MeshBuffers) Grid() (BufferID, int) {
	return mb.grid, mb.gridVertexCount
}

// ZRange returns the z range recorded with the last surface upload.
func (mb *MeshBuffers) ZRange() (float32, float32) { return mb.zMin, mb.zMax }

// Release frees every mesh buffer.
func (mb *MeshBuffers) Release() {
	for _, id := range []BufferID{
		mb.surfaceVertices, mb.surfaceNormals, mb.surfaceIndices,
		mb.curveVertices, mb.heatmap, mb.curve2D, mb.grid,
	} {
		mb.dev.ReleaseBuffer(id)
	}
}
