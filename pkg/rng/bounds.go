package rng

import "sync/atomic"

// Bounds is the per-axis half-open range constraining generated
// coordinates. The control thread mutates it, the generation worker reads
// it at the start of every batch. Each field is individually atomic; there
// is deliberately no atomicity across the six fields, so a reader may
// observe a mix of old and new values mid-update. The pipeline tolerates
// such torn reads: at worst a single batch is normalized into a transient
// hybrid range.
type Bounds struct {
	MinX, MaxX atomic.Int64
	MinY, MaxY atomic.Int64
	MinZ, MaxZ atomic.Int64
}

// NewBounds returns bounds at the default ±500 per axis.
func NewBounds() *Bounds {
	b := &Bounds{}
	b.Set(-500, 500, -500, 500, -500, 500)
	return b
}

// Set stores all six limits.
func (b *Bounds) Set(minX, maxX, minY, maxY, minZ, maxZ int64) {
	b.MinX.Store(minX)
	b.MaxX.Store(maxX)
	b.MinY.Store(minY)
	b.MaxY.Store(maxY)
	b.MinZ.Store(minZ)
	b.MaxZ.Store(maxZ)
}

// normalize folds an arbitrary integer into the half-open range
// [min, min+max(max-min,1)) using absolute value then modulo. This biases
// toward lower magnitudes when |v| is small and is not statistically
// uniform; that is a property the visualization exists to demonstrate, so
// it is kept exactly as-is.
func normalize(v, min, max int64) float32 {
	span := max - min
	if span < 1 {
		span = 1
	}
	f := v % span
	if f < 0 {
		f = -f
	}
	return float32(min + f)
}
