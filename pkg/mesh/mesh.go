// Package mesh builds renderable geometry from user-defined functions: a
// height-field surface f(x,y), a parametric curve fx/fy/fz(t), or a
// parametric surface fx/fy/fz(u,v). Sampling runs command-to-completion on
// a dedicated worker goroutine.
package mesh

// TriangleMesh is an indexed triangle list. Vertices and normals are packed
// xyz triples; every index refers to a vertex, not a float offset.
type TriangleMesh struct {
	Vertices []float32
	Normals  []float32
	Indices  []uint32
}

// VertexCount returns the number of xyz vertices.
func (m *TriangleMesh) VertexCount() int { return len(m.Vertices) / 3 }

// SurfaceMesh is a sampled height field together with the observed z range
// of the raw (unscaled) samples.
type SurfaceMesh struct {
	TriangleMesh
	ZMin float32
	ZMax float32
}

// CurveMesh is an ordered polyline with no index buffer.
type CurveMesh struct {
	Vertices []float32
}

// ParametricSurfaceMesh is a surface sampled over a (u, v) grid.
type ParametricSurfaceMesh struct {
	TriangleMesh
}

// Result is one completed command: exactly one of the meshes, or Err.
type Result struct {
	Surface           *SurfaceMesh
	Curve             *CurveMesh
	ParametricSurface *ParametricSurfaceMesh
	Err               error
}
