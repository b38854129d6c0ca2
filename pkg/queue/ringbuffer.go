// Package queue provides the bounded, lock-free hand-off between a
// generation worker and the control thread.
//
// Delivery through the queue is best-effort: Offer never blocks, and a full
// queue is reported to the caller, who decides whether to drop or retry.
package queue

import (
	"math/bits"
	"sync/atomic"
)

// RingBuffer is a lock-free Single-Producer Single-Consumer (SPSC) queue.
// It is optimized for high-throughput passing of pointers between two goroutines.
// It is NOT safe for multiple producers or multiple consumers.
type RingBuffer[T any] struct {
	// Cache line padding to prevent false sharing
	_padding0 [8]uint64
	head      uint64
	_padding1 [8]uint64
	tail      uint64
	_padding2 [8]uint64
	mask      uint64
	buffer    []T
	closed    int32
}

// NewRingBuffer creates a new SPSC RingBuffer with the given capacity.
// Capacity is rounded up to the next power of 2.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity < 2 {
		capacity = 2
	}
	capacity = 1 << bits.Len(uint(capacity-1))
	return &RingBuffer[T]{
		buffer: make([]T, capacity),
		mask:   uint64(capacity - 1),
	}
}

// Offer adds an item to the queue.
// Returns false if the queue is full; the item is NOT enqueued and the
// producer retains ownership of it.
// Only safe for a single producer.
func (rb *RingBuffer[T]) Offer(item T) bool {
	tail := atomic.LoadUint64(&rb.tail)
	head := atomic.LoadUint64(&rb.head)

	if tail-head > rb.mask {
		return false // Full
	}

	rb.buffer[tail&rb.mask] = item
	atomic.StoreUint64(&rb.tail, tail+1)
	return true
}

// Poll removes an item from the queue.
// Returns false if the queue is empty.
// Only safe for a single consumer.
func (rb *RingBuffer[T]) Poll() (T, bool) {
	head := atomic.LoadUint64(&rb.head)
	tail := atomic.LoadUint64(&rb.tail)

	if head == tail {
		var zero T
		return zero, false // Empty
	}

	item := rb.buffer[head&rb.mask]
	// Help GC by nil-ing out the slot if T is a pointer
	var zero T
	rb.buffer[head&rb.mask] = zero

	atomic.StoreUint64(&rb.head, head+1)
	return item, true
}

// Len reports how many items are currently buffered. The value is only a
// snapshot; either side may move it immediately after the call.
func (rb *RingBuffer[T]) Len() int {
	return int(atomic.LoadUint64(&rb.tail) - atomic.LoadUint64(&rb.head))
}

// Close marks the queue as closed. Items already buffered remain pollable.
func (rb *RingBuffer[T]) Close() {
	atomic.StoreInt32(&rb.closed, 1)
}

// IsClosed returns true if the queue is closed and empty.
func (rb *RingBuffer[T]) IsClosed() bool {
	return atomic.LoadInt32(&rb.closed) == 1 && atomic.LoadUint64(&rb.head) == atomic.LoadUint64(&rb.tail)
}
