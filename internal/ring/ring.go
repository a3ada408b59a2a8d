// Package ring implements a bounded, lock-free, multi-producer/
// multi-consumer queue using Dmitry Vyukov's sequence-number
// algorithm, cache-line padded to keep the producer and consumer
// cursors from sharing a line under contention.
package ring

import "sync/atomic"

const cacheLinePad = 64

type cell[T any] struct {
	sequence atomic.Uint64
	data     T
}

// Ring is a fixed-capacity MPMC queue. The zero value is not usable;
// construct with New. Capacity is always rounded up to a power of two
// so the index mask can replace a modulo.
type Ring[T any] struct {
	head uint64
	_    [cacheLinePad - 8]byte
	tail uint64
	_    [cacheLinePad - 8]byte
	mask uint64
	cells []cell[T]
}

// New allocates a Ring able to hold at least capacity items.
func New[T any](capacity int) *Ring[T] {
	if capacity < 2 {
		capacity = 2
	}
	size := 1
	for size < capacity {
		size <<= 1
	}
	r := &Ring[T]{
		mask:  uint64(size - 1),
		cells: make([]cell[T], size),
	}
	for i := range r.cells {
		r.cells[i].sequence.Store(uint64(i))
	}
	return r
}

// TryPush attempts to enqueue val without blocking. It returns false
// if the ring is full.
func (r *Ring[T]) TryPush(val T) bool {
	for {
		tail := atomic.LoadUint64(&r.tail)
		idx := tail & r.mask
		c := &r.cells[idx]
		seq := c.sequence.Load()
		dif := int64(seq) - int64(tail)

		switch {
		case dif == 0:
			if atomic.CompareAndSwapUint64(&r.tail, tail, tail+1) {
				c.data = val
				c.sequence.Store(tail + 1)
				return true
			}
		case dif < 0:
			return false
		default:
			// another producer advanced tail; reread and retry
		}
	}
}

// TryPop attempts to dequeue without blocking. ok is false if the
// ring is empty.
func (r *Ring[T]) TryPop() (val T, ok bool) {
	for {
		head := atomic.LoadUint64(&r.head)
		idx := head & r.mask
		c := &r.cells[idx]
		seq := c.sequence.Load()
		dif := int64(seq) - int64(head+1)

		switch {
		case dif == 0:
			if atomic.CompareAndSwapUint64(&r.head, head, head+1) {
				val = c.data
				var zero T
				c.data = zero
				c.sequence.Store(head + r.mask + 1)
				return val, true
			}
		case dif < 0:
			var zero T
			return zero, false
		default:
			// another consumer advanced head; reread and retry
		}
	}
}

// ApproxSize returns a point-in-time, possibly stale, count of queued
// items. It is for diagnostics only — concurrent producers/consumers
// can make it momentarily inconsistent.
func (r *Ring[T]) ApproxSize() int {
	head := atomic.LoadUint64(&r.head)
	tail := atomic.LoadUint64(&r.tail)
	if tail < head {
		return 0
	}
	return int(tail - head)
}

// Cap returns the ring's fixed, power-of-two capacity.
func (r *Ring[T]) Cap() int {
	return len(r.cells)
}
