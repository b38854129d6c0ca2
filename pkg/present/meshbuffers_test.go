package present

import "testing"

func newTestMeshBuffers(t *testing.T) (*MeshBuffers, *MemDevice) {
	t.Helper()
	dev := NewMemDevice()
	mb, err := NewMeshBuffers(dev)
	if err != nil {
		t.Fatalf("NewMeshBuffers: %v", err)
	}
	return mb, dev
}

func TestUploadSurface(t *testing.T) {
	mb, dev := newTestMeshBuffers(t)

	vertices := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	normals := []float32{0, 1, 0, 0, 1, 0, 0, 1, 0}
	indices := []uint32{0, 1, 2}

	if err := mb.UploadSurface(vertices, normals, indices, -9, 9); err != nil {
		t.Fatal(err)
	}

	vID, nID, iID, vCount, iCount := mb.Surface()
	if vCount != 3 || iCount != 3 {
		t.Errorf("counts = %d vertices, %d indices, want 3 and 3", vCount, iCount)
	}
	if got := dev.Contents(vID); len(got) != 9 || got[3] != 1 {
		t.Errorf("vertex contents = %v", got)
	}
	if got := dev.Contents(nID); len(got) != 9 {
		t.Errorf("normal contents = %v", got)
	}
	if got := dev.Indices(iID); len(got) != 3 || got[2] != 2 {
		t.Errorf("index contents = %v", got)
	}

	zMin, zMax := mb.ZRange()
	if zMin != -9 || zMax != 9 {
		t.Errorf("z range = (%v, %v), want (-9, 9)", zMin, zMax)
	}
}

func TestUploadCurveAndProjection(t *testing.T) {
	mb, dev := newTestMeshBuffers(t)

	if err := mb.UploadCurve([]float32{0, 0, 0, 50, 50, 50}); err != nil {
		t.Fatal(err)
	}
	id, count := mb.Curve()
	if count != 2 {
		t.Errorf("curve count = %d, want 2", count)
	}
	if got := dev.Contents(id); got[3] != 50 {
		t.Errorf("curve contents = %v", got)
	}

	if err := mb.UploadCurve2D([]float32{-0.9, -0.9, 0.9, 0.9}); err != nil {
		t.Fatal(err)
	}
	if _, count := mb.Curve2D(); count != 2 {
		t.Errorf("curve 2d count = %d, want 2 xy pairs", count)
	}
}

func TestUploadHeatmapTruncates(t *testing.T) {
	mb, _ := newTestMeshBuffers(t)

	big := make([]float32, (MaxHeatmapVertices+10)*3)
	if err := mb.UploadHeatmap(big); err != nil {
		t.Fatal(err)
	}
	if _, count := mb.Heatmap(); count != MaxHeatmapVertices {
		t.Errorf("heatmap count = %d, want truncation to %d", count, MaxHeatmapVertices)
	}
}

func TestUploadGrid(t *testing.T) {
	mb, _ := newTestMeshBuffers(t)

	// 21 lines per axis plus 3 axis lines, two endpoints each.
	grid := make([]float32, 21*12+18)
	if err := mb.UploadGrid(grid); err != nil {
		t.Fatal(err)
	}
	if _, count := mb.Grid(); count != len(grid)/3 {
		t.Errorf("grid count = %d, want %d", count, len(grid)/3)
	}
}

func TestMeshBuffersRelease(t *testing.T) {
	mb, dev := newTestMeshBuffers(t)
	if got := dev.BufferCount(); got != 7 {
		t.Fatalf("BufferCount = %d after init, want 7", got)
	}
	mb.Release()
	if got := dev.BufferCount(); got != 0 {
		t.Errorf("BufferCount = %d after Release, want 0", got)
	}
}
