package objpool

import "sync/atomic"

// Shared wraps a raw Pool with reference counting: the final Release
// call returns the underlying slot to the pool that produced it. The
// pool is assumed to outlive every outstanding Shared handle — Shared
// deliberately holds a plain pointer back to its pool rather than a
// weak reference, matching the reference design's own documented
// precondition rather than adding cost for a contract no caller here
// asks for.
type Shared[T any, A any] struct {
	pool  *Pool[T, A]
	slot  *T
	count *atomic.Int32
}

// AcquireShared acquires a slot from pool and wraps it in a
// reference-counted handle starting at one reference.
func AcquireShared[T any, A any](pool *Pool[T, A], args A) (*Shared[T, A], error) {
	slot, err := pool.Acquire(args)
	if err != nil {
		return nil, err
	}
	count := &atomic.Int32{}
	count.Store(1)
	return &Shared[T, A]{pool: pool, slot: slot, count: count}, nil
}

// Get returns the wrapped payload for the caller to use. It remains
// valid only while at least one reference is outstanding.
func (s *Shared[T, A]) Get() *T {
	return s.slot
}

// Clone adds one reference and returns a handle sharing the same
// underlying slot; each returned handle must be independently
// Released exactly once.
func (s *Shared[T, A]) Clone() *Shared[T, A] {
	s.count.Add(1)
	return &Shared[T, A]{pool: s.pool, slot: s.slot, count: s.count}
}

// Release drops one reference; when the count reaches zero the
// underlying slot is returned to the originating pool. Calling
// Release more times than there are outstanding references is a
// caller bug and is not guarded against, matching the raw pool's own
// no-double-release contract.
func (s *Shared[T, A]) Release() {
	if s.count.Add(-1) == 0 {
		s.pool.Release(s.slot)
	}
}

// Prewarm forwards to the underlying pool.
func (s *Shared[T, A]) Prewarm(count int) { s.pool.Prewarm(count) }

// FlushLocalCache forwards to the underlying pool.
func (s *Shared[T, A]) FlushLocalCache() { s.pool.FlushLocalCache() }

// Shrink forwards to the underlying pool.
func (s *Shared[T, A]) Shrink(max int) int { return s.pool.Shrink(max) }

// GetStats forwards to the underlying pool.
func (s *Shared[T, A]) GetStats() Stats { return s.pool.GetStats() }

// Capacity forwards to the underlying pool.
func (s *Shared[T, A]) Capacity() int { return s.pool.Capacity() }
