// Package stats aggregates throughput counters from the generation workers
// and classifies the current pipeline bottleneck.
//
// The counters are plain atomics: the worker writes them once per second
// and the UI reads them whenever it likes, so values may be up to one
// reporting interval stale. The latency average, fps and classification are
// read-modify-write as whole values and sit behind a mutex.
package stats

import (
	"sync"
	"sync/atomic"
)

// Bottleneck is a coarse label for the pipeline stage currently limiting
// throughput. It is a threshold diagnostic, not a profiler.
type Bottleneck int

const (
	// Balanced means no stage is obviously limiting.
	Balanced Bottleneck = iota
	// CPUBound means the recurrence evaluation cannot keep the GPU fed.
	CPUBound
	// GPUUploadBound means batches are being dropped faster than the
	// consumer drains them.
	GPUUploadBound
	// GPURenderBound means the frame rate has collapsed even though every
	// batch is delivered.
	GPURenderBound
)

func (b Bottleneck) String() string {
	switch b {
	case CPUBound:
		return "cpu (rng)"
	case GPUUploadBound:
		return "gpu upload"
	case GPURenderBound:
		return "gpu render"
	default:
		return "balanced"
	}
}

// Stats is the shared performance snapshot for one generation pipeline.
// The zero value is ready to use.
type Stats struct {
	RngCallsPerSec   atomic.Uint64
	PointsPerSec     atomic.Uint64
	CurrentBatchSize atomic.Uint64
	DroppedBatches   atomic.Uint64
	TotalBatches     atomic.Uint64
	PointsRendered   atomic.Uint64

	mu           sync.Mutex
	avgBatchMs   float32
	fps          float32
	bottleneck   Bottleneck
}

// SetAvgBatchTime records the smoothed batch latency in milliseconds.
func (s *Stats) SetAvgBatchTime(ms float32) {
	s.mu.Lock()
	s.avgBatchMs = ms
	s.mu.Unlock()
}

// AvgBatchTime returns the smoothed batch latency in milliseconds.
func (s *Stats) AvgBatchTime() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.avgBatchMs
}

// SetFPS records the most recent frame rate, measured by the control thread.
func (s *Stats) SetFPS(fps float32) {
	s.mu.Lock()
	s.fps = fps
	s.mu.Unlock()
}

// FPS returns the most recent frame rate.
func (s *Stats) FPS() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fps
}

// Bottleneck returns the current classification.
func (s *Stats) Bottleneck() Bottleneck {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bottleneck
}

// UpdateBottleneck recomputes the classification from the current counters.
// Called once per reporting interval by the generation worker.
//
// Heuristic: a drop ratio above 10% means uploads cannot keep up; a frame
// rate under 30 with zero drops means rendering is the limit; a call rate
// under one million per second means the recurrence itself is; otherwise
// the pipeline is balanced.
func (s *Stats) UpdateBottleneck() {
	dropped := s.DroppedBatches.Load()
	total := s.TotalBatches.Load()
	rngRate := s.RngCallsPerSec.Load()
	fps := s.FPS()

	var b Bottleneck
	switch {
	case total > 0 && float64(dropped)/float64(total) > 0.1:
		b = GPUUploadBound
	case fps < 30 && dropped == 0:
		b = GPURenderBound
	case rngRate < 1_000_000:
		b = CPUBound
	default:
		b = Balanced
	}

	s.mu.Lock()
	s.bottleneck = b
	s.mu.Unlock()
}
