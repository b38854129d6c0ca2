package rng

import "sync"

// Batch holds packed x,y,z float32 triples produced by one generation pass,
// and a reference to its origin pool. It is the unit of transport between
// the generation worker and the control thread.
type Batch struct {
	Data []float32
	pool *batchPool
}

// Points returns the number of coordinate triples in the batch.
func (b *Batch) Points() int { return len(b.Data) / 3 }

// Release returns the batch to its origin pool.
// It must be called exactly once by whoever ends up owning the batch: the
// consumer after merging it, or the producer when delivery is dropped.
func (b *Batch) Release() {
	if b == nil {
		return
	}
	if b.pool != nil {
		b.pool.Put(b)
		b.pool = nil
	}
}

// batchPool recycles Batch allocations so that dropped and consumed batches
// do not churn the allocator at high generation rates.
type batchPool struct {
	pool sync.Pool
}

func newBatchPool() *batchPool {
	p := &batchPool{}
	p.pool.New = func() any {
		return &Batch{}
	}
	return p
}

// Get retrieves an empty batch with capacity for at least points triples.
// The adaptive controller changes the batch size between passes, so the
// capacity is grown here rather than fixed at pool construction.
func (p *batchPool) Get(points int) *Batch {
	b := p.pool.Get().(*Batch)
	need := points * 3
	if cap(b.Data) < need {
		b.Data = make([]float32, 0, need)
	}
	b.pool = p
	return b
}

// Put returns a batch to the pool, resetting length and keeping capacity.
func (p *batchPool) Put(b *Batch) {
	b.Data = b.Data[:0]
	p.pool.Put(b)
}
