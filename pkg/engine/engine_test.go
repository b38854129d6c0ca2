package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/vbxq/prng3d/pkg/eval"
	"github.com/vbxq/prng3d/pkg/mesh"
	"github.com/vbxq/prng3d/pkg/present"
)

// ============================================================================
// FAKES
// ============================================================================

type fakeFunc struct {
	arity int
	fn    func(args ...float64) (float64, error)
}

func (f fakeFunc) Arity() int { return f.arity }

func (f fakeFunc) Call(args ...float64) (float64, error) { return f.fn(args...) }

type fakeProgram map[string]eval.Func

func (p fakeProgram) Func(name string) (eval.Func, error) {
	fn, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("function %q not found", name)
	}
	return fn, nil
}

// fakeEval serves both the point recurrence and the mesh functions.
type fakeEval struct {
	fns map[string]eval.Func
}

func (f fakeEval) Compile(string) (eval.Program, error) {
	return fakeProgram(f.fns), nil
}

func testEval() fakeEval {
	return fakeEval{fns: map[string]eval.Func{
		"rng": fakeFunc{arity: 1, fn: func(args ...float64) (float64, error) {
			return args[0] + 1, nil
		}},
		"f": fakeFunc{arity: 2, fn: func(args ...float64) (float64, error) {
			return args[0]*args[0] - args[1]*args[1], nil
		}},
		"fx": fakeFunc{arity: 1, fn: func(args ...float64) (float64, error) {
			return args[0], nil
		}},
		"fy": fakeFunc{arity: 1, fn: func(args ...float64) (float64, error) {
			return 2 * args[0], nil
		}},
		"fz": fakeFunc{arity: 1, fn: func(args ...float64) (float64, error) {
			return -args[0], nil
		}},
	}}
}

func newTestEngine(t *testing.T) (*Engine, *present.MemDevice) {
	t.Helper()
	dev := present.NewMemDevice()
	e, err := New(testEval(), dev, WithMaxPoints(50_000), WithGridSize(64))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.Pause()
	e.Start(context.Background())
	t.Cleanup(func() {
		if err := e.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return e, dev
}

func frameUntil(t *testing.T, e *Engine, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if err := e.Frame(); err != nil {
			t.Fatalf("Frame: %v", err)
		}
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for condition")
}

// ============================================================================
// POINT PIPELINE
// ============================================================================

func TestFrameAccumulatesAndUploads(t *testing.T) {
	e, dev := newTestEngine(t)

	e.UpdateCode("rng")
	e.Resume()

	frameUntil(t, e, func() bool { return e.Stats().PointsRendered.Load() > 0 })

	id, count := e.PointBuffers().Current3D()
	if count == 0 {
		t.Fatal("no points in the current 3D buffer")
	}
	if got := dev.Contents(id); len(got) != count*3 {
		t.Errorf("buffer holds %d floats, want %d", len(got), count*3)
	}
	if got := e.Stats().PointsRendered.Load(); got != uint64(count) {
		t.Errorf("PointsRendered = %d, buffer count = %d", got, count)
	}
}

func TestFrameRespectsMaxPoints(t *testing.T) {
	e, _ := newTestEngine(t)

	e.UpdateCode("rng")
	e.Resume()

	// 50k points is below a single batch ceiling, so the window must clip.
	frameUntil(t, e, func() bool {
		return e.Stats().PointsRendered.Load() == 50_000
	})

	for i := 0; i < 5; i++ {
		if err := e.Frame(); err != nil {
			t.Fatal(err)
		}
		if got := e.Stats().PointsRendered.Load(); got > 50_000 {
			t.Fatalf("PointsRendered = %d, exceeds the 50k cap", got)
		}
	}
}

func TestFrame2DProjection(t *testing.T) {
	e, dev := newTestEngine(t)
	e.SetViewMode(View2D)

	e.UpdateCode("rng")
	e.Resume()

	frameUntil(t, e, func() bool { return e.Stats().PointsRendered.Load() > 0 })

	id, count := e.PointBuffers().Current2D()
	if count == 0 {
		t.Fatal("no points in the current 2D buffer")
	}
	for i, v := range dev.Contents(id) {
		switch i % 3 {
		case 2: // heat values live in [0, 1]
			if v < 0 || v > 1 {
				t.Fatalf("heat[%d] = %v, outside [0, 1]", i, v)
			}
		default: // clip space coordinates stay within ±0.9
			if v < -0.9 || v > 0.9 {
				t.Fatalf("coord[%d] = %v, outside ±0.9", i, v)
			}
		}
	}
}

func TestClearPoints(t *testing.T) {
	e, _ := newTestEngine(t)

	e.UpdateCode("rng")
	e.Resume()
	frameUntil(t, e, func() bool { return e.Stats().PointsRendered.Load() > 0 })

	e.Pause()
	// Let any in-flight batch land, then drain it before clearing.
	time.Sleep(50 * time.Millisecond)
	if err := e.Frame(); err != nil {
		t.Fatal(err)
	}
	e.ClearPoints()
	if err := e.Frame(); err != nil {
		t.Fatal(err)
	}
	if got := e.Stats().PointsRendered.Load(); got != 0 {
		t.Errorf("PointsRendered = %d after clear, want 0", got)
	}
}

// ============================================================================
// MATH PIPELINE
// ============================================================================

func TestFrameSurfaceMesh(t *testing.T) {
	e, dev := newTestEngine(t)
	e.SetAppMode(ModeMath)

	r := mesh.Range{Min: -3, Max: 3}
	e.CompileSurface("", r, r, 16)

	frameUntil(t, e, func() bool {
		_, _, _, vCount, _ := e.MeshBuffers().Surface()
		return vCount > 0
	})

	vID, _, iID, vCount, iCount := e.MeshBuffers().Surface()
	if vCount != 256 {
		t.Errorf("vertex count = %d, want 256", vCount)
	}
	if iCount != 6*15*15 {
		t.Errorf("index count = %d, want %d", iCount, 6*15*15)
	}
	if got := dev.Contents(vID); len(got) != vCount*3 {
		t.Errorf("device holds %d floats, want %d", len(got), vCount*3)
	}
	if got := dev.Indices(iID); len(got) != iCount {
		t.Errorf("device holds %d indices, want %d", len(got), iCount)
	}
	if e.LastError() != "" {
		t.Errorf("LastError = %q", e.LastError())
	}
}

func TestFrameSurfaceHeatmapIn2D(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetAppMode(ModeMath)
	e.SetViewMode(View2D)

	r := mesh.Range{Min: -3, Max: 3}
	e.CompileSurface("", r, r, 8)

	frameUntil(t, e, func() bool {
		_, count := e.MeshBuffers().Heatmap()
		return count > 0
	})

	if _, count := e.MeshBuffers().Heatmap(); count != 64 {
		t.Errorf("heatmap count = %d, want 64", count)
	}
}

func TestFrameCurve2DReprojection(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetAppMode(ModeMath)

	e.CompileParametricCurve("", mesh.Range{Min: 0, Max: 1}, 32)
	frameUntil(t, e, func() bool {
		_, count := e.MeshBuffers().Curve()
		return count > 0
	})

	// Switching to 2D re-projects the cached curve without recompiling.
	e.SetViewMode(View2D)
	frameUntil(t, e, func() bool {
		_, count := e.MeshBuffers().Curve2D()
		return count > 0
	})

	if _, count := e.MeshBuffers().Curve2D(); count != 32 {
		t.Errorf("curve 2d count = %d, want 32", count)
	}
}

func TestMeshErrorRetainsPreviousMesh(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetAppMode(ModeMath)

	r := mesh.Range{Min: -3, Max: 3}
	e.CompileSurface("", r, r, 8)
	frameUntil(t, e, func() bool {
		_, _, _, vCount, _ := e.MeshBuffers().Surface()
		return vCount > 0
	})

	// An invalid resolution fails in the worker; the uploaded mesh stays.
	e.CompileSurface("", r, r, 1)
	frameUntil(t, e, func() bool { return e.LastError() != "" })

	if _, _, _, vCount, _ := e.MeshBuffers().Surface(); vCount != 64 {
		t.Errorf("vertex count = %d after failed compile, want 64", vCount)
	}

	// The next successful compile clears the error.
	e.CompileSurface("", r, r, 4)
	frameUntil(t, e, func() bool {
		_, _, _, vCount, _ := e.MeshBuffers().Surface()
		return vCount == 16 && e.LastError() == ""
	})
}

func TestGridUploadedOnce(t *testing.T) {
	e, dev := newTestEngine(t)
	e.SetAppMode(ModeMath)

	for i := 0; i < 3; i++ {
		if err := e.Frame(); err != nil {
			t.Fatal(err)
		}
	}

	id, count := e.MeshBuffers().Grid()
	if count != (20+1)*4+6 {
		t.Errorf("grid count = %d, want %d", count, (20+1)*4+6)
	}
	if got := dev.Writes(id); got != 1 {
		t.Errorf("grid written %d times, want 1", got)
	}
}

func TestLastErrorFollowsAppMode(t *testing.T) {
	dev := present.NewMemDevice()
	ev := fakeEval{fns: map[string]eval.Func{}}
	e, err := New(ev, dev)
	if err != nil {
		t.Fatal(err)
	}
	e.Pause()
	e.Start(context.Background())
	defer e.Close()

	e.UpdateCode("rng")
	deadline := time.Now().Add(5 * time.Second)
	for e.rng.LastError() == "" && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if e.LastError() == "" {
		t.Error("points-mode LastError empty after a failed compile")
	}

	e.SetAppMode(ModeMath)
	if got := e.LastError(); got != "" {
		t.Errorf("math-mode LastError = %q before any mesh command", got)
	}
}
