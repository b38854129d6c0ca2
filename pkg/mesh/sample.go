package mesh

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"

	"github.com/vbxq/prng3d/pkg/eval"
)

// Range is a closed sampling interval.
type Range struct {
	Min, Max float64
}

func (r Range) span() float64 { return r.Max - r.Min }

// ============================================================================
// HEIGHT-FIELD SURFACE
// ============================================================================

// sampleSurface compiles f(x, y) and samples it over a resolution×resolution
// grid. Raw x and y are rescaled into a ±200 world span and z into a 100-unit
// visual height centered on the midpoint of the observed range. Vertices come
// out y-up: (x, z, y).
func sampleSurface(ev eval.Evaluator, code string, xr, yr Range, resolution int) (*SurfaceMesh, error) {
	if resolution < 2 {
		return nil, fmt.Errorf("surface resolution must be at least 2, got %d", resolution)
	}

	p, err := ev.Compile(code)
	if err != nil {
		return nil, err
	}
	fn, err := eval.CheckArity(p, "f", 2)
	if err != nil {
		return nil, err
	}

	dx := xr.span() / float64(resolution-1)
	dy := yr.span() / float64(resolution-1)

	zValues := make([][]float64, resolution)
	zMin, zMax := math.MaxFloat64, -math.MaxFloat64

	for i := 0; i < resolution; i++ {
		zValues[i] = make([]float64, resolution)
		for j := 0; j < resolution; j++ {
			x := xr.Min + float64(i)*dx
			y := yr.Min + float64(j)*dy

			z, err := fn.Call(x, y)
			if err != nil {
				return nil, fmt.Errorf("evaluation error at (%g, %g): %w", x, y, err)
			}
			zValues[i][j] = z

			if !math.IsInf(z, 0) && !math.IsNaN(z) {
				zMin = math.Min(zMin, z)
				zMax = math.Max(zMax, z)
			}
		}
	}

	zRange := math.Max(zMax-zMin, 0.001)
	scale := 100.0 / zRange
	zOffset := (zMin + zMax) / 2

	xSpan := math.Max(math.Abs(xr.span()), 0.001)
	ySpan := math.Max(math.Abs(yr.span()), 0.001)

	m := &SurfaceMesh{ZMin: float32(zMin), ZMax: float32(zMax)}
	m.Vertices = make([]float32, 0, resolution*resolution*3)
	m.Normals = make([]float32, 0, resolution*resolution*3)

	for i := 0; i < resolution; i++ {
		for j := 0; j < resolution; j++ {
			x := xr.Min + float64(i)*dx
			y := yr.Min + float64(j)*dy
			z := zValues[i][j]

			scaledZ := 0.0
			if !math.IsInf(z, 0) && !math.IsNaN(z) {
				scaledZ = (z - zOffset) * scale
			}

			m.Vertices = append(m.Vertices,
				float32(x/xSpan*200),
				float32(scaledZ),
				float32(y/ySpan*200),
			)

			// Slope of the height field along each axis: centered in the
			// interior, one-sided on the boundary rows and columns.
			var sx, sy float64
			switch {
			case i == 0:
				sx = (zValues[1][j] - z) / dx
			case i == resolution-1:
				sx = (z - zValues[i-1][j]) / dx
			default:
				sx = (zValues[i+1][j] - zValues[i-1][j]) / (2 * dx)
			}
			switch {
			case j == 0:
				sy = (zValues[i][1] - z) / dy
			case j == resolution-1:
				sy = (z - zValues[i][j-1]) / dy
			default:
				sy = (zValues[i][j+1] - zValues[i][j-1]) / (2 * dy)
			}

			nx, ny, nz := float32(-sx), float32(1), float32(-sy)
			inv := 1 / math32.Sqrt(nx*nx+ny*ny+nz*nz)
			m.Normals = append(m.Normals, nx*inv, ny*inv, nz*inv)
		}
	}

	m.Indices = gridIndices(resolution, resolution)
	return m, nil
}

// ============================================================================
// PARAMETRIC CURVE
// ============================================================================

// sampleCurve compiles fx(t), fy(t), fz(t) and samples them over the t range,
// scaling into world units. The result is an ordered polyline.
func sampleCurve(ev eval.Evaluator, code string, tr Range, samples int) (*CurveMesh, error) {
	if samples < 2 {
		return nil, fmt.Errorf("curve sample count must be at least 2, got %d", samples)
	}

	p, err := ev.Compile(code)
	if err != nil {
		return nil, err
	}
	fns, err := componentFuncs(p, 1)
	if err != nil {
		return nil, err
	}

	dt := tr.span() / float64(samples-1)
	m := &CurveMesh{Vertices: make([]float32, 0, samples*3)}

	for i := 0; i < samples; i++ {
		t := tr.Min + float64(i)*dt
		for k, fn := range fns {
			v, err := fn.Call(t)
			if err != nil {
				return nil, fmt.Errorf("%s error at t=%g: %w", componentNames[k], t, err)
			}
			m.Vertices = append(m.Vertices, float32(v*50))
		}
	}
	return m, nil
}

// ============================================================================
// PARAMETRIC SURFACE
// ============================================================================

// sampleParametricSurface compiles fx(u, v), fy(u, v), fz(u, v) and samples
// them over a u×v grid. Normals come from the cross product of the
// finite-difference tangents along u and v.
func sampleParametricSurface(ev eval.Evaluator, code string, ur, vr Range, uSamples, vSamples int) (*ParametricSurfaceMesh, error) {
	if uSamples < 2 || vSamples < 2 {
		return nil, fmt.Errorf("parametric surface needs at least 2 samples per axis, got %d×%d", uSamples, vSamples)
	}

	p, err := ev.Compile(code)
	if err != nil {
		return nil, err
	}
	fns, err := componentFuncs(p, 2)
	if err != nil {
		return nil, err
	}

	du := ur.span() / float64(uSamples-1)
	dv := vr.span() / float64(vSamples-1)

	pos := make([][][3]float64, uSamples)
	for i := 0; i < uSamples; i++ {
		pos[i] = make([][3]float64, vSamples)
		for j := 0; j < vSamples; j++ {
			u := ur.Min + float64(i)*du
			v := vr.Min + float64(j)*dv
			for k, fn := range fns {
				val, err := fn.Call(u, v)
				if err != nil {
					return nil, fmt.Errorf("%s error at (%g, %g): %w", componentNames[k], u, v, err)
				}
				pos[i][j][k] = val
			}
		}
	}

	m := &ParametricSurfaceMesh{}
	m.Vertices = make([]float32, 0, uSamples*vSamples*3)
	m.Normals = make([]float32, 0, uSamples*vSamples*3)

	for i := 0; i < uSamples; i++ {
		for j := 0; j < vSamples; j++ {
			pt := pos[i][j]

			var tu, tv [3]float64
			switch {
			case i == 0:
				tu = diff(pos[1][j], pt, du)
			case i == uSamples-1:
				tu = diff(pt, pos[i-1][j], du)
			default:
				tu = diff(pos[i+1][j], pos[i-1][j], 2*du)
			}
			switch {
			case j == 0:
				tv = diff(pos[i][1], pt, dv)
			case j == vSamples-1:
				tv = diff(pt, pos[i][j-1], dv)
			default:
				tv = diff(pos[i][j+1], pos[i][j-1], 2*dv)
			}

			nx := float32(tu[1]*tv[2] - tu[2]*tv[1])
			ny := float32(tu[2]*tv[0] - tu[0]*tv[2])
			nz := float32(tu[0]*tv[1] - tu[1]*tv[0])
			inv := 1 / math32.Max(math32.Sqrt(nx*nx+ny*ny+nz*nz), 0.0001)

			m.Vertices = append(m.Vertices, float32(pt[0]*50), float32(pt[1]*50), float32(pt[2]*50))
			m.Normals = append(m.Normals, nx*inv, ny*inv, nz*inv)
		}
	}

	m.Indices = gridIndices(uSamples, vSamples)
	return m, nil
}

// ============================================================================
// SHARED PIECES
// ============================================================================

var componentNames = [3]string{"fx", "fy", "fz"}

func componentFuncs(p eval.Program, arity int) ([3]eval.Func, error) {
	var fns [3]eval.Func
	for k, name := range componentNames {
		fn, err := eval.CheckArity(p, name, arity)
		if err != nil {
			return fns, err
		}
		fns[k] = fn
	}
	return fns, nil
}

func diff(a, b [3]float64, h float64) [3]float64 {
	return [3]float64{(a[0] - b[0]) / h, (a[1] - b[1]) / h, (a[2] - b[2]) / h}
}

// gridIndices triangulates a rows×cols vertex grid, two triangles per cell
// with consistent winding.
func gridIndices(rows, cols int) []uint32 {
	indices := make([]uint32, 0, (rows-1)*(cols-1)*6)
	for i := 0; i < rows-1; i++ {
		for j := 0; j < cols-1; j++ {
			tl := uint32(i*cols + j)
			tr := tl + 1
			bl := uint32((i+1)*cols + j)
			br := bl + 1
			indices = append(indices, tl, bl, tr, tr, bl, br)
		}
	}
	return indices
}
