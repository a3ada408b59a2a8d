// Package shard implements a per-P LIFO cache array for the pool's
// fast acquire/release path.
//
// A genuinely per-goroutine cache is not viable in Go: there is no
// public goroutine-exit hook, and a registry strong enough to find a
// goroutine's cache across separate Acquire/Release calls is also
// strong enough to keep that cache permanently reachable, so it can
// never be collected and rescued via a finalizer. sync.Pool sidesteps
// this by sharding per-P instead of per-goroutine, since a P's
// lifetime spans the whole process; Array does the same here. Shards
// are owned by the pool for its entire lifetime and are never
// individually retired — only the owning pool's shutdown drains them.
package shard

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/vela-systems/objpool/internal/goid"
)

const cacheLinePad = 64

// Cache is one shard's bounded LIFO stack of slots. Shard selection is
// by goroutine id modulo shard count, so with more live goroutines
// than shards — the common case — two unrelated goroutines routinely
// land on the same Cache. A bounded LIFO stack has no lock-free
// construction as cheap as the global ring's sequence-numbered cells
// (push and pop both touch the same top-of-stack slot, not disjoint
// cells), so Cache serializes with a mutex rather than risk a torn
// read/write on data when two colliding goroutines call TryPush/TryPop
// concurrently. Collisions are the exception, not the rule, so
// contention stays far below the global ring's.
type Cache[T any] struct {
	valid atomic.Bool
	_     [cacheLinePad - 1]byte
	mu    sync.Mutex
	count int
	data  []T
}

func newCache[T any](capacity int) *Cache[T] {
	c := &Cache[T]{data: make([]T, capacity)}
	c.valid.Store(true)
	return c
}

// TryPush stores val in the shard, returning false if the shard is
// full or invalidated.
func (c *Cache[T]) TryPush(val T) bool {
	if !c.valid.Load() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid.Load() || c.count >= len(c.data) {
		return false
	}
	c.data[c.count] = val
	c.count++
	return true
}

// TryPop removes and returns the top slot, ok false if empty or
// invalidated.
func (c *Cache[T]) TryPop() (val T, ok bool) {
	if !c.valid.Load() {
		return val, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid.Load() || c.count == 0 {
		return val, false
	}
	c.count--
	val = c.data[c.count]
	var zero T
	c.data[c.count] = zero
	return val, true
}

// Len reports how many slots the shard currently holds.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Invalidate marks the shard unusable; subsequent TryPush/TryPop calls
// fail without touching data. Used during pool shutdown.
func (c *Cache[T]) Invalidate() {
	c.valid.Store(false)
}

// Valid reports whether the shard still accepts operations.
func (c *Cache[T]) Valid() bool {
	return c.valid.Load()
}

// Drain empties the shard, invoking fn for every slot it held, in LIFO
// order. Intended for pool shutdown/shrink, where every cached slot
// must be returned to a ring or destroyed, so it also empties an
// invalidated shard. fn runs outside the shard's lock so it may itself
// call back into the pool (e.g. a ring push) without risking deadlock.
func (c *Cache[T]) Drain(fn func(T)) {
	for {
		c.mu.Lock()
		if c.count == 0 {
			c.mu.Unlock()
			return
		}
		c.count--
		v := c.data[c.count]
		var zero T
		c.data[c.count] = zero
		c.mu.Unlock()
		fn(v)
	}
}

// Array is a fixed-size set of per-P caches. Selection is by goroutine
// id modulo the shard count, which is not the same P a goroutine is
// actually scheduled on, but approximates the same goal: spreading
// concurrent callers across independent caches so they don't fight
// over one LIFO stack. The goroutine-id key is reasonably stable for
// the lifetime of one Acquire/Release pair, which is all the fast path
// needs.
type Array[T any] struct {
	shards []*Cache[T]
	mask   uint64
}

// NewArray builds a shard Array sized to runtime.GOMAXPROCS(0) (rounded
// up to a power of two, minimum 1), each shard able to hold
// perShardCapacity slots.
func NewArray[T any](perShardCapacity int) *Array[T] {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	size := 1
	for size < n {
		size <<= 1
	}
	shards := make([]*Cache[T], size)
	for i := range shards {
		shards[i] = newCache[T](perShardCapacity)
	}
	return &Array[T]{shards: shards, mask: uint64(size - 1)}
}

// For returns the shard owning the calling goroutine.
func (a *Array[T]) For() *Cache[T] {
	id := uint64(goid.Current())
	return a.shards[id&a.mask]
}

// Len returns the number of shards in the array.
func (a *Array[T]) Len() int {
	return len(a.shards)
}

// At returns the shard at index i, for iteration (drain, stats).
func (a *Array[T]) At(i int) *Cache[T] {
	return a.shards[i]
}

// InvalidateAll marks every shard unusable.
func (a *Array[T]) InvalidateAll() {
	for _, s := range a.shards {
		s.Invalidate()
	}
}

// DrainAll empties every shard, invoking fn for each slot encountered.
func (a *Array[T]) DrainAll(fn func(T)) {
	for _, s := range a.shards {
		s.Drain(fn)
	}
}

// TotalLen sums the live slot count across all shards.
func (a *Array[T]) TotalLen() int {
	total := 0
	for _, s := range a.shards {
		total += s.Len()
	}
	return total
}
