package mesh

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbxq/prng3d/pkg/eval"
)

func startEngine(t *testing.T, ev fakeEval) *Engine {
	t.Helper()
	e := New(ev)
	e.Start(context.Background())
	t.Cleanup(func() {
		require.NoError(t, e.Close())
	})
	return e
}

func waitResult(t *testing.T, e *Engine) Result {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if r, ok := e.TryRecvResult(); ok {
			return r
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for a mesh result")
	return Result{}
}

func TestEngineSurfaceCommand(t *testing.T) {
	e := startEngine(t, saddleEval())

	r := Range{Min: -3, Max: 3}
	e.CompileSurface("", r, r, 3)

	res := waitResult(t, e)
	require.NoError(t, res.Err)
	require.NotNil(t, res.Surface)
	assert.Nil(t, res.Curve)
	assert.Nil(t, res.ParametricSurface)
	assert.Equal(t, 9, res.Surface.VertexCount())
	assert.Empty(t, e.LastError())
}

func TestEngineCurveCommand(t *testing.T) {
	e := startEngine(t, curveEval())

	e.CompileParametricCurve("", Range{Min: 0, Max: 1}, 16)

	res := waitResult(t, e)
	require.NoError(t, res.Err)
	require.NotNil(t, res.Curve)
	assert.Len(t, res.Curve.Vertices, 48)
}

func TestEngineParametricSurfaceCommand(t *testing.T) {
	e := startEngine(t, planeEval())

	r := Range{Min: 0, Max: 1}
	e.CompileParametricSurface("", r, r, 4, 4)

	res := waitResult(t, e)
	require.NoError(t, res.Err)
	require.NotNil(t, res.ParametricSurface)
	assert.Equal(t, 16, res.ParametricSurface.VertexCount())
}

func TestEngineCompileFailure(t *testing.T) {
	e := startEngine(t, fakeEval{err: errors.New("parse error: unexpected token")})

	r := Range{Min: 0, Max: 1}
	e.CompileSurface("broken", r, r, 3)

	res := waitResult(t, e)
	require.Error(t, res.Err)
	assert.Nil(t, res.Surface)
	assert.Contains(t, e.LastError(), "parse error")
}

func TestEngineErrorClearedByNextCommand(t *testing.T) {
	ev := saddleEval()
	e := startEngine(t, ev)

	r := Range{Min: -3, Max: 3}
	e.CompileSurface("", r, r, 1) // invalid resolution
	res := waitResult(t, e)
	require.Error(t, res.Err)
	require.NotEmpty(t, e.LastError())

	e.CompileSurface("", r, r, 3)
	res = waitResult(t, e)
	require.NoError(t, res.Err)
	assert.Empty(t, e.LastError())
}

func TestEngineCommandsRunInOrder(t *testing.T) {
	ev := fakeEval{fns: map[string]eval.Func{}}
	for name, fn := range saddleEval().fns {
		ev.fns[name] = fn
	}
	for name, fn := range curveEval().fns {
		ev.fns[name] = fn
	}
	e := startEngine(t, ev)

	r := Range{Min: -1, Max: 1}
	e.CompileSurface("", r, r, 3)
	e.CompileParametricCurve("", r, 8)

	first := waitResult(t, e)
	second := waitResult(t, e)
	require.NotNil(t, first.Surface)
	require.NotNil(t, second.Curve)
}
