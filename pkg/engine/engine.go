// Package engine ties the generation workers to the presentation layer: it
// owns the point and mesh workers, the sliding accumulation windows, and
// the GPU-facing buffers, and advances them once per frame from the control
// goroutine.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/vbxq/prng3d/pkg/accum"
	"github.com/vbxq/prng3d/pkg/eval"
	"github.com/vbxq/prng3d/pkg/mesh"
	"github.com/vbxq/prng3d/pkg/present"
	"github.com/vbxq/prng3d/pkg/rng"
	"github.com/vbxq/prng3d/pkg/stats"
)

const (
	// MaxAccumPoints caps the 3D sliding window regardless of configuration.
	MaxAccumPoints = 4_000_000

	defaultMaxPoints = 1_000_000
	defaultGridSize  = 512
)

// AppMode selects which worker drives the frame.
type AppMode int

const (
	ModePoints AppMode = iota
	ModeMath
)

// ViewMode selects the 3D scene or the flattened 2D view.
type ViewMode int

const (
	View3D ViewMode = iota
	View2D
)

type meshKind int

const (
	meshNone meshKind = iota
	meshSurface
	meshCurve
	meshParametricSurface
)

// Engine is the control-thread orchestrator. It is not safe for concurrent
// use; all methods are expected to run on the same goroutine.
type Engine struct {
	st *stats.Stats

	rng  *rng.Engine
	mesh *mesh.Engine

	points3D *accum.Window
	points2D *accum.Window

	pointBufs *present.PointBuffers
	meshBufs  *present.MeshBuffers

	maxPoints int
	gridSize  int

	appMode  AppMode
	viewMode ViewMode

	kind           meshKind
	surface        *mesh.SurfaceMesh
	curve          *mesh.CurveMesh
	meshErr        string
	projected2D    bool
	gridUploaded   bool

	frameCount int
	fpsTimer   time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxPoints sets the 3D accumulation cap in points.
func WithMaxPoints(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxPoints = n
		}
	}
}

// WithGridSize sets the 2D view grid resolution.
func WithGridSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.gridSize = n
		}
	}
}

// New creates the orchestrator with both workers and all device buffers.
func New(ev eval.Evaluator, dev present.Device, opts ...Option) (*Engine, error) {
	e := &Engine{
		st:        &stats.Stats{},
		maxPoints: defaultMaxPoints,
		gridSize:  defaultGridSize,
		fpsTimer:  time.Now(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.rng = rng.New(ev, e.st, rng.WithLogger(Logger()))
	e.mesh = mesh.New(ev, mesh.WithLogger(Logger()))

	e.points3D = accum.NewWindow(min(e.maxPoints, MaxAccumPoints) * 3)
	e.points2D = accum.NewWindow(e.gridSize * e.gridSize * 3)

	pointBufs, err := present.NewPointBuffers(dev)
	if err != nil {
		return nil, err
	}
	meshBufs, err := present.NewMeshBuffers(dev)
	if err != nil {
		pointBufs.Release()
		return nil, err
	}
	e.pointBufs = pointBufs
	e.meshBufs = meshBufs
	return e, nil
}

// Start launches both workers.
func (e *Engine) Start(ctx context.Context) {
	e.rng.Start(ctx)
	e.mesh.Start(ctx)
	Logger().Info("engine started",
		"maxPoints", e.maxPoints, "gridSize", e.gridSize)
}

// Close stops both workers and releases the device buffers.
func (e *Engine) Close() error {
	err := errors.Join(e.rng.Close(), e.mesh.Close())
	e.pointBufs.Release()
	e.meshBufs.Release()
	return err
}

// ============================================================================
// CONTROL SURFACE
// ============================================================================

// UpdateCode recompiles the point recurrence.
func (e *Engine) UpdateCode(code string) { e.rng.UpdateCode(code) }

// Reset restores the default generator state.
func (e *Engine) Reset() { e.rng.Reset() }

// SetSeed overwrites the generator state.
func (e *Engine) SetSeed(seed int64) { e.rng.SetSeed(seed) }

// Pause suspends point generation.
func (e *Engine) Pause() { e.rng.Pause() }

// Resume restarts point generation.
func (e *Engine) Resume() { e.rng.Resume() }

// IsPaused reports whether point generation is suspended.
func (e *Engine) IsPaused() bool { return e.rng.IsPaused() }

// SetBounds pushes new coordinate bounds to the generation worker. Takes
// effect from the next batch.
func (e *Engine) SetBounds(minX, maxX, minY, maxY, minZ, maxZ int64) {
	e.rng.Bounds().Set(minX, maxX, minY, maxY, minZ, maxZ)
}

// SetMaxPoints resizes the 3D sliding window, evicting the oldest points
// if needed.
func (e *Engine) SetMaxPoints(n int) {
	if n <= 0 {
		return
	}
	e.maxPoints = n
	e.points3D.SetMaxFloats(min(n, MaxAccumPoints) * 3)
}

// SetGridSize resizes the 2D sliding window.
func (e *Engine) SetGridSize(n int) {
	if n <= 0 {
		return
	}
	e.gridSize = n
	e.points2D.SetMaxFloats(n * n * 3)
}

// SetAppMode switches between the points and math pipelines.
func (e *Engine) SetAppMode(m AppMode) { e.appMode = m }

// AppMode returns the active pipeline.
func (e *Engine) AppMode() AppMode { return e.appMode }

// SetViewMode switches between the 3D scene and the 2D projection. The 2D
// math projection re-uploads on the next frame.
func (e *Engine) SetViewMode(m ViewMode) {
	if e.viewMode != m {
		e.projected2D = false
	}
	e.viewMode = m
}

// ViewMode returns the active view.
func (e *Engine) ViewMode() ViewMode { return e.viewMode }

// ClearPoints empties both accumulation windows.
func (e *Engine) ClearPoints() {
	e.points3D.Clear()
	e.points2D.Clear()
}

// CompileSurface submits f(x, y) for sampling.
func (e *Engine) CompileSurface(code string, xRange, yRange mesh.Range, resolution int) {
	e.mesh.CompileSurface(code, xRange, yRange, resolution)
}

// CompileParametricCurve submits fx, fy, fz of t for sampling.
func (e *Engine) CompileParametricCurve(code string, tRange mesh.Range, samples int) {
	e.mesh.CompileParametricCurve(code, tRange, samples)
}

// CompileParametricSurface submits fx, fy, fz of (u, v) for sampling.
func (e *Engine) CompileParametricSurface(code string, uRange, vRange mesh.Range, uSamples, vSamples int) {
	e.mesh.CompileParametricSurface(code, uRange, vRange, uSamples, vSamples)
}

// Stats returns the shared performance counters.
func (e *Engine) Stats() *stats.Stats { return e.st }

// PointBuffers exposes the triple-buffered point storage for the renderer.
func (e *Engine) PointBuffers() *present.PointBuffers { return e.pointBufs }

// MeshBuffers exposes the mesh storage for the renderer.
func (e *Engine) MeshBuffers() *present.MeshBuffers { return e.meshBufs }

// LastError returns the error surfaced by the active pipeline, or "".
func (e *Engine) LastError() string {
	if e.appMode == ModeMath {
		if e.meshErr != "" {
			return e.meshErr
		}
		return e.mesh.LastError()
	}
	return e.rng.LastError()
}

// ============================================================================
// FRAME
// ============================================================================

// Frame advances the engine once: it drains worker output, refreshes the
// device buffers for the active mode and view, and updates the frame
// counters. Call it exactly once per rendered frame.
func (e *Engine) Frame() error {
	e.tickFPS()

	switch e.appMode {
	case ModeMath:
		return e.frameMath()
	default:
		return e.framePoints()
	}
}

func (e *Engine) framePoints() error {
	active := e.points3D
	if e.viewMode == View2D {
		active = e.points2D
	}

	for {
		batch, ok := e.rng.TryRecvBatch()
		if !ok {
			break
		}
		active.Append(batch.Data)
		batch.Release()
	}

	if e.viewMode == View2D {
		projected := accum.HeatProjection(e.points2D.Data())
		if err := e.pointBufs.Upload2D(projected); err != nil {
			return err
		}
		e.st.PointsRendered.Store(uint64(len(projected) / 3))
		return nil
	}

	if err := e.pointBufs.Upload3D(e.points3D.Data()); err != nil {
		return err
	}
	e.st.PointsRendered.Store(uint64(e.points3D.Points()))
	return nil
}

func (e *Engine) frameMath() error {
	for {
		res, ok := e.mesh.TryRecvResult()
		if !ok {
			break
		}
		if err := e.applyMeshResult(res); err != nil {
			return err
		}
	}

	if e.viewMode == View2D && !e.projected2D {
		if err := e.project2D(); err != nil {
			return err
		}
	}

	if !e.gridUploaded {
		if err := e.meshBufs.UploadGrid(mesh.GridVertices(250, 20)); err != nil {
			return err
		}
		e.gridUploaded = true
	}
	return nil
}

// applyMeshResult uploads a completed mesh, caching the data needed for 2D
// re-projection. A failed command leaves the previous mesh in place.
func (e *Engine) applyMeshResult(res mesh.Result) error {
	switch {
	case res.Err != nil:
		e.meshErr = res.Err.Error()
		return nil
	case res.Surface != nil:
		m := res.Surface
		if err := e.meshBufs.UploadSurface(m.Vertices, m.Normals, m.Indices, m.ZMin, m.ZMax); err != nil {
			return err
		}
		e.surface = m
		e.kind = meshSurface
	case res.Curve != nil:
		if err := e.meshBufs.UploadCurve(res.Curve.Vertices); err != nil {
			return err
		}
		e.curve = res.Curve
		e.kind = meshCurve
	case res.ParametricSurface != nil:
		m := res.ParametricSurface
		if err := e.meshBufs.UploadSurface(m.Vertices, m.Normals, m.Indices, 0, 1); err != nil {
			return err
		}
		e.kind = meshParametricSurface
	}
	e.meshErr = ""
	e.projected2D = false
	return nil
}

func (e *Engine) project2D() error {
	switch e.kind {
	case meshSurface:
		if err := e.meshBufs.UploadHeatmap(accum.SurfaceHeatmap(e.surface.Vertices)); err != nil {
			return err
		}
	case meshCurve:
		if err := e.meshBufs.UploadCurve2D(accum.CurveTo2D(e.curve.Vertices)); err != nil {
			return err
		}
	default:
		// Parametric surfaces have no 2D projection, and no mesh means
		// nothing to project.
		return nil
	}
	e.projected2D = true
	return nil
}

// tickFPS maintains a one-second frame rate window.
func (e *Engine) tickFPS() {
	e.frameCount++
	if elapsed := time.Since(e.fpsTimer); elapsed >= time.Second {
		e.st.SetFPS(float32(e.frameCount) / float32(elapsed.Seconds()))
		e.st.UpdateBottleneck()
		e.frameCount = 0
		e.fpsTimer = time.Now()
	}
}
