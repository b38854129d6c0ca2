package accum

import "github.com/chewxy/math32"

// HeatProjection maps accumulated xyz triples into the 2D point view:
// x and y squeezed into ±0.9 of clip space for ±500 bounds, z folded into
// a [0, 1] heat value.
func HeatProjection(points []float32) []float32 {
	out := make([]float32, 0, len(points))
	for i := 0; i+2 < len(points); i += 3 {
		out = append(out,
			points[i]/500*0.9,
			points[i+1]/500*0.9,
			(points[i+2]+500)/1000,
		)
	}
	return out
}

// SurfaceHeatmap flattens a y-up surface mesh into 2D heat triples: ground
// position from x and z, heat from the 100-unit visual height recentered
// into [0, 1].
func SurfaceHeatmap(vertices []float32) []float32 {
	out := make([]float32, 0, len(vertices))
	for i := 0; i+2 < len(vertices); i += 3 {
		x := vertices[i] / 220
		y := vertices[i+2] / 220
		heat := vertices[i+1]/100 + 0.5
		if heat < 0 {
			heat = 0
		} else if heat > 1 {
			heat = 1
		}
		out = append(out, x, y, heat)
	}
	return out
}

// CurveTo2D flattens curve vertices to xy pairs, normalized around the
// curve's own bounding box so it fills most of clip space.
func CurveTo2D(vertices []float32) []float32 {
	if len(vertices) == 0 {
		return nil
	}

	xMin, xMax := float32(math32.MaxFloat32), float32(-math32.MaxFloat32)
	yMin, yMax := float32(math32.MaxFloat32), float32(-math32.MaxFloat32)
	for i := 0; i+2 < len(vertices); i += 3 {
		xMin = math32.Min(xMin, vertices[i])
		xMax = math32.Max(xMax, vertices[i])
		yMin = math32.Min(yMin, vertices[i+1])
		yMax = math32.Max(yMax, vertices[i+1])
	}

	scale := math32.Max(math32.Max(xMax-xMin, 0.001), math32.Max(yMax-yMin, 0.001))
	xCenter := (xMin + xMax) / 2
	yCenter := (yMin + yMax) / 2

	out := make([]float32, 0, len(vertices)/3*2)
	for i := 0; i+2 < len(vertices); i += 3 {
		out = append(out,
			(vertices[i]-xCenter)/scale*1.8,
			(vertices[i+1]-yCenter)/scale*1.8,
		)
	}
	return out
}
