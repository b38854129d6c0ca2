// Package rng implements the streaming point-generation worker: a single
// background goroutine that repeatedly invokes a user-supplied recurrence
// function, folds the raw results into the configured bounds, and hands
// finished batches to the control thread through a bounded, drop-on-full
// queue.
package rng

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vbxq/prng3d/pkg/eval"
	"github.com/vbxq/prng3d/pkg/queue"
	"github.com/vbxq/prng3d/pkg/stats"
)

// ============================================================================
// TUNING
// ============================================================================

const (
	// targetBatchTime is the latency the adaptive controller steers each
	// generation pass toward.
	targetBatchTime = 5 * time.Millisecond

	// MinBatchSize and MaxBatchSize clamp the adaptive controller.
	MinBatchSize = 1_000
	MaxBatchSize = 500_000

	// InitialBatchSize is used after every (re)compile and reset.
	InitialBatchSize = 10_000

	// DefaultSeed is the generator state after a code change or reset.
	DefaultSeed = 12345

	// queueCapacity bounds the batch hand-off. A full queue drops.
	queueCapacity = 4

	// latencyWindow is how many recent batch times feed the reported average.
	latencyWindow = 20

	// idleSleep is how long the worker dozes while idle or paused.
	idleSleep = 10 * time.Millisecond

	commandBuffer = 64
)

// ============================================================================
// COMMANDS
// ============================================================================

type commandKind int

const (
	cmdUpdateCode commandKind = iota
	cmdReset
	cmdSetSeed
	cmdPause
	cmdResume
	cmdStop
)

type command struct {
	kind commandKind
	code string
	seed int64
}

// ============================================================================
// ENGINE
// ============================================================================

// Engine owns the generation worker. The exported methods are safe to call
// from the control thread; the worker goroutine owns everything else.
type Engine struct {
	ev     eval.Evaluator
	stats  *stats.Stats
	bounds *Bounds
	pool   *batchPool
	log    *slog.Logger

	cmds   chan command
	points *queue.RingBuffer[*Batch]

	paused atomic.Bool

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

// New creates a generation engine. Start must be called before the engine
// produces anything.
func New(ev eval.Evaluator, st *stats.Stats, opts ...Option) *Engine {
	e := &Engine{
		ev:     ev,
		stats:  st,
		bounds: NewBounds(),
		pool:   newBatchPool(),
		log:    slog.New(slog.DiscardHandler),
		cmds:   make(chan command, commandBuffer),
		points: queue.NewRingBuffer[*Batch](queueCapacity),
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

// UpdateCode compiles the source on the worker and, on success, replaces
// the active recurrence, resets the generator state and batch size, and
// resumes generation. On failure the error is recorded and the worker goes
// idle until the next successful UpdateCode.
func (e *Engine) UpdateCode(code string) {
	e.send(command{kind: cmdUpdateCode, code: code})
}

// Reset restores the default generator state and initial batch size
// without recompiling.
func (e *Engine) Reset() {
	e.send(command{kind: cmdReset})
}

// SetSeed overwrites the generator state. The compiled recurrence and the
// batch size are untouched.
func (e *Engine) SetSeed(seed int64) {
	e.send(command{kind: cmdSetSeed, seed: seed})
}

// Pause suspends generation. The worker observes the flag between batches.
func (e *Engine) Pause() {
	e.paused.Store(true)
	e.send(command{kind: cmdPause})
}

// Resume restarts generation after a Pause.
func (e *Engine) Resume() {
	e.paused.Store(false)
	e.send(command{kind: cmdResume})
}

// IsPaused reports the externally visible pause flag.
func (e *Engine) IsPaused() bool { return e.paused.Load() }

// Stop asks the worker to terminate. Prefer Close, which also joins.
func (e *Engine) Stop() {
	e.send(command{kind: cmdStop})
}

// TryRecvBatch returns the next delivered batch without blocking.
// The caller owns the batch and must Release it.
func (e *Engine) TryRecvBatch() (*Batch, bool) {
	return e.points.Poll()
}

// Bounds returns the shared coordinate bounds.
func (e *Engine) Bounds() *Bounds { return e.bounds }

// Stats returns the shared performance counters.
func (e *Engine) Stats() *stats.Stats { return e.stats }

// LastError returns the most recent compile or evaluation error message,
// or "" when the last command succeeded.
func (e *Engine) LastError() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

func (e *Engine) send(cmd command) {
	select {
	case e.cmds <- cmd:
	default:
		// The worker has terminated or is hopelessly behind; commands are
		// best-effort at that point.
	}
}

func (e *Engine) setErr(msg string) {
	e.mu.Lock()
	e.lastErr = msg
	e.mu.Unlock()
}

// ============================================================================
// WORKER
// ============================================================================

// genState is the worker-goroutine-private generation state.
type genState struct {
	fn        eval.Func
	state     float64
	batchSize int
	running   bool

	latencies []float32
	calls     uint64
	points    uint64
	lastFlush time.Time
}

func (e *Engine) run(ctx context.Context) error {
	g := genState{
		state:     DefaultSeed,
		batchSize: InitialBatchSize,
		latencies: make([]float32, 0, latencyWindow),
		lastFlush: time.Now(),
	}

	for {
	drain:
		for {
			select {
			case cmd := <-e.cmds:
				if stop := e.apply(&g, cmd); stop {
					return nil
				}
			case <-ctx.Done():
				return nil
			default:
				break drain
			}
		}

		if !g.running || e.paused.Load() {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(idleSleep):
			}
			continue
		}

		e.generate(&g)

		if time.Since(g.lastFlush) >= time.Second {
			e.flushStats(&g)
		}
	}
}

// apply processes one command. Returns true on Stop.
func (e *Engine) apply(g *genState, cmd command) bool {
	switch cmd.kind {
	case cmdUpdateCode:
		e.setErr("")
		g.running = false

		fn, err := e.compile(cmd.code)
		if err != nil {
			e.setErr(err.Error())
			g.fn = nil
			e.log.Warn("rng compile failed", "err", err)
			return false
		}
		g.fn = fn
		g.state = DefaultSeed
		g.batchSize = InitialBatchSize
		g.running = true
		e.log.Info("rng recurrence compiled")

	case cmdReset:
		g.state = DefaultSeed
		g.batchSize = InitialBatchSize

	case cmdSetSeed:
		g.state = float64(cmd.seed)

	case cmdPause, cmdResume:
		// The flag was already flipped by the caller; the commands only
		// wake the loop.

	case cmdStop:
		return true
	}
	return false
}

func (e *Engine) compile(code string) (eval.Func, error) {
	p, err := e.ev.Compile(code)
	if err != nil {
		return nil, err
	}
	return eval.CheckArity(p, "rng", 1)
}

// generate runs one batch: batchSize iterations of the three-call chain.
// The first call consumes the current state and yields x; its raw result
// feeds the second call for y; that result feeds the third for z, whose raw
// result becomes the next state. Raw values are folded into the bounds as
// they are produced.
func (e *Engine) generate(g *genState) {
	start := time.Now()

	minX, maxX := e.bounds.MinX.Load(), e.bounds.MaxX.Load()
	minY, maxY := e.bounds.MinY.Load(), e.bounds.MaxY.Load()
	minZ, maxZ := e.bounds.MinZ.Load(), e.bounds.MaxZ.Load()

	batch := e.pool.Get(g.batchSize)
	state := g.state
	var calls uint64

	for i := 0; i < g.batchSize; i++ {
		x, err := g.fn.Call(state)
		if err != nil {
			e.abort(g, batch, err)
			return
		}
		batch.Data = append(batch.Data, normalize(int64(x), minX, maxX))
		calls++

		y, err := g.fn.Call(x)
		if err != nil {
			e.abort(g, batch, err)
			return
		}
		batch.Data = append(batch.Data, normalize(int64(y), minY, maxY))
		calls++

		z, err := g.fn.Call(y)
		if err != nil {
			e.abort(g, batch, err)
			return
		}
		batch.Data = append(batch.Data, normalize(int64(z), minZ, maxZ))
		calls++

		state = z
	}

	// The state only advances once the whole batch succeeded.
	g.state = state

	elapsed := float32(time.Since(start).Seconds() * 1000)
	g.latencies = append(g.latencies, elapsed)
	if len(g.latencies) > latencyWindow {
		g.latencies = g.latencies[1:]
	}

	target := float32(targetBatchTime.Seconds() * 1000)
	if elapsed < target*0.8 {
		g.batchSize = min(int(float32(g.batchSize)*1.2), MaxBatchSize)
	} else if elapsed > target*1.2 {
		g.batchSize = max(int(float32(g.batchSize)*0.8), MinBatchSize)
	}

	g.calls += calls
	g.points += uint64(batch.Points())

	e.deliver(batch)
}

// abort discards an in-progress batch after an evaluation failure and
// halts generation until the next successful UpdateCode.
func (e *Engine) abort(g *genState, batch *Batch, err error) {
	batch.Release()
	e.setErr(err.Error())
	g.running = false
	e.log.Warn("rng evaluation failed", "err", err)
}

// deliver offers the batch to the consumer. Delivery is best-effort: a full
// queue drops the batch and counts it, never blocking the producer.
func (e *Engine) deliver(batch *Batch) {
	e.stats.TotalBatches.Add(1)
	if !e.points.Offer(batch) {
		e.stats.DroppedBatches.Add(1)
		batch.Release()
	}
}

func (e *Engine) flushStats(g *genState) {
	e.stats.RngCallsPerSec.Store(g.calls)
	e.stats.PointsPerSec.Store(g.points)
	e.stats.CurrentBatchSize.Store(uint64(g.batchSize))

	if len(g.latencies) > 0 {
		var sum float32
		for _, ms := range g.latencies {
			sum += ms
		}
		e.stats.SetAvgBatchTime(sum / float32(len(g.latencies)))
	}

	e.stats.UpdateBottleneck()

	g.calls = 0
	g.points = 0
	g.lastFlush = time.Now()
}
