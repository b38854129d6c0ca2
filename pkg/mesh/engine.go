package mesh

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vbxq/prng3d/pkg/eval"
)

const (
	commandBuffer  = 16
	resultCapacity = 2
)

type commandKind int

const (
	cmdSurface commandKind = iota
	cmdCurve
	cmdParametricSurface
	cmdStop
)

type command struct {
	kind commandKind
	code string

	xRange, yRange Range // surface
	resolution     int

	tRange  Range // curve
	samples int

	uRange, vRange     Range // parametric surface
	uSamples, vSamples int
}

// Engine owns the mesh worker goroutine. Commands run to completion in
// submission order; each produces exactly one Result on the result channel.
type Engine struct {
	ev  eval.Evaluator
	log *slog.Logger

	cmds    chan command
	results chan Result

	mu      sync.Mutex
	lastErr string

	cancel context.CancelFunc
	group  *errgroup.Group
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates a mesh engine. Start must be called before commands execute.
func New(ev eval.Evaluator, opts ...Option) *Engine {
	e := &Engine{
		ev:      ev,
		log:     slog.New(slog.DiscardHandler),
		cmds:    make(chan command, commandBuffer),
		results: make(chan Result, resultCapacity),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start launches the worker goroutine.
func (e *Engine) Start(ctx context.Context) {
	ctx, e.cancel = context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)
	e.group = g
	g.Go(func() error { return e.run(ctx) })
}

// Close stops the worker and joins it.
func (e *Engine) Close() error {
	e.send(command{kind: cmdStop})
	if e.cancel != nil {
		e.cancel()
	}
	if e.group != nil {
		return e.group.Wait()
	}
	return nil
}

// CompileSurface compiles f(x, y) from source and samples it over a
// resolution×resolution grid covering the given ranges.
func (e *Engine) CompileSurface(code string, xRange, yRange Range, resolution int) {
	e.send(command{
		kind:       cmdSurface,
		code:       code,
		xRange:     xRange,
		yRange:     yRange,
		resolution: resolution,
	})
}

// CompileParametricCurve compiles fx, fy, fz of one parameter and samples
// the curve at the given number of points over the t range.
func (e *Engine) CompileParametricCurve(code string, tRange Range, samples int) {
	e.send(command{kind: cmdCurve, code: code, tRange: tRange, samples: samples})
}

// CompileParametricSurface compiles fx, fy, fz of two parameters and samples
// them over a uSamples×vSamples grid.
func (e *Engine) CompileParametricSurface(code string, uRange, vRange Range, uSamples, vSamples int) {
	e.send(command{
		kind:     cmdParametricSurface,
		code:     code,
		uRange:   uRange,
		vRange:   vRange,
		uSamples: uSamples,
		vSamples: vSamples,
	})
}

// Stop asks the worker to terminate. Prefer Close, which also joins.
func (e *Engine) Stop() {
	e.send(command{kind: cmdStop})
}

// TryRecvResult returns the next completed result without blocking.
func (e *Engine) TryRecvResult() (Result, bool) {
	select {
	case r := <-e.results:
		return r, true
	default:
		return Result{}, false
	}
}

// LastError returns the error message of the most recent failed command, or
// "" when the last command succeeded.
func (e *Engine) LastError() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

func (e *Engine) send(cmd command) {
	select {
	case e.cmds <- cmd:
	default:
	}
}

func (e *Engine) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-e.cmds:
			if cmd.kind == cmdStop {
				return nil
			}
			if done := e.execute(ctx, cmd); done {
				return nil
			}
		}
	}
}

// execute runs one compile command and publishes its result. The result
// send blocks until the consumer drains; ctx cancellation unblocks it.
func (e *Engine) execute(ctx context.Context, cmd command) bool {
	e.setErr("")

	var res Result
	switch cmd.kind {
	case cmdSurface:
		m, err := sampleSurface(e.ev, cmd.code, cmd.xRange, cmd.yRange, cmd.resolution)
		res = Result{Surface: m, Err: err}
	case cmdCurve:
		m, err := sampleCurve(e.ev, cmd.code, cmd.tRange, cmd.samples)
		res = Result{Curve: m, Err: err}
	case cmdParametricSurface:
		m, err := sampleParametricSurface(e.ev, cmd.code, cmd.uRange, cmd.vRange, cmd.uSamples, cmd.vSamples)
		res = Result{ParametricSurface: m, Err: err}
	}

	if res.Err != nil {
		e.setErr(res.Err.Error())
		e.log.Warn("mesh command failed", "err", res.Err)
	}

	select {
	case e.results <- res:
		return false
	case <-ctx.Done():
		return true
	}
}

func (e *Engine) setErr(msg string) {
	e.mu.Lock()
	e.lastErr = msg
	e.mu.Unlock()
}
