package mesh

// GridVertices builds the line-segment endpoints for a reference floor grid
// spanning ±halfSize on the ground plane, plus the three axis lines. Each
// consecutive pair of xyz triples is one segment.
func GridVertices(halfSize float32, divisions int) []float32 {
	step := halfSize * 2 / float32(divisions)
	vertices := make([]float32, 0, (divisions+1)*12+18)

	for i := 0; i <= divisions; i++ {
		pos := -halfSize + float32(i)*step
		vertices = append(vertices, pos, 0, -halfSize, pos, 0, halfSize)
		vertices = append(vertices, -halfSize, 0, pos, halfSize, 0, pos)
	}

	// Axis lines: x, z, then the vertical y axis.
	vertices = append(vertices, -halfSize, 0, 0, halfSize, 0, 0)
	vertices = append(vertices, 0, 0, -halfSize, 0, 0, halfSize)
	vertices = append(vertices, 0, -halfSize, 0, 0, halfSize, 0)

	return vertices
}
