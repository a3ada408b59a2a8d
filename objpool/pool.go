// Package objpool implements a high-throughput, thread-safe object
// pool that recycles heap-allocated instances of a caller-chosen
// payload type T: a per-pool MPMC free ring backed by a per-P LIFO
// cache layered in front to absorb the common same-goroutine
// acquire/release path without contention on the ring.
package objpool

import (
	"fmt"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"
	"github.com/google/uuid"

	"github.com/vela-systems/objpool/internal/alloc"
	"github.com/vela-systems/objpool/internal/registry"
	"github.com/vela-systems/objpool/internal/ring"
	"github.com/vela-systems/objpool/internal/shard"
	"github.com/vela-systems/objpool/internal/stats"
	"github.com/vela-systems/objpool/internal/threadid"
	"github.com/vela-systems/objpool/spi"
)

// Pool is a fixed-capacity recycler of *T values, constructed and
// reset with arguments of type A. The zero value is not usable;
// construct with New.
type Pool[T any, A any] struct {
	id  uuid.UUID
	typ reflect.Type

	ring   *ring.Ring[*T]
	shards *shard.Array[*T]
	alloc  *alloc.Adapter[T, A]

	counters  stats.Counters
	collector *stats.Collector

	shutdown atomic.Bool
	cfg      config
}

// New constructs a Pool backed by allocator, applying opts over
// sensible defaults, and immediately auto-prewarms to half its
// capacity the same way every pool construction does.
func New[T any, A any](allocator spi.Allocator[T], opts ...Option) *Pool[T, A] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Pool[T, A]{
		typ:    reflect.TypeOf((*T)(nil)).Elem(),
		ring:   ring.New[*T](cfg.poolSize),
		shards: shard.NewArray[*T](cfg.localCacheSize),
		alloc:  alloc.New[T, A](allocator),
		cfg:    cfg,
	}
	if cfg.enableStats {
		p.collector = stats.NewCollector(p.typ.String(), &p.counters)
	}
	if cfg.rescue {
		p.id = registry.Register(p.typ, p)
	}

	cfg.logger.Debug().
		Str("payload", p.typ.String()).
		Int("pool_size", p.ring.Cap()).
		Int("local_cache_size", cfg.localCacheSize).
		Msg("objpool: pool constructed")

	p.Prewarm(p.ring.Cap() / 2)
	return p
}

// Collector exposes the pool's counters as a prometheus.Collector for
// the caller to register, or nil when stats are disabled.
func (p *Pool[T, A]) Collector() *stats.Collector {
	return p.collector
}

// Acquire returns a slot from the pool, consulting the calling
// goroutine's shard first, then the global ring, and finally the
// allocator. args initializes or reinitializes the returned slot.
func (p *Pool[T, A]) Acquire(args A) (*T, error) {
	if p.shutdown.Load() {
		return nil, ErrShutdown
	}

	if p.cfg.enableStats {
		p.counters.IncAcquires()
		p.counters.AddInUse(1)
	}

	if sh := p.shards.For(); sh.Valid() {
		if slot, ok := sh.TryPop(); ok {
			p.alloc.Reset(slot, args)
			p.setAffinity(slot)
			if p.cfg.enableStats {
				p.counters.IncSameThreadHits()
				p.counters.IncCacheHits()
			}
			return slot, nil
		}
	}

	if slot, ok := p.ring.TryPop(); ok {
		p.alloc.Reset(slot, args)
		p.setAffinity(slot)
		if p.cfg.enableStats {
			p.counters.IncCrossThreadOps()
		}
		return slot, nil
	}

	slot, err := p.alloc.Construct(args)
	if err != nil {
		if p.cfg.enableStats {
			p.counters.AddInUse(-1)
		}
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}
	p.setAffinity(slot)
	if p.cfg.enableStats {
		p.counters.IncCreates()
	}
	return slot, nil
}

// Release returns slot to the pool. A nil slot is a no-op. Same-thread
// releases prefer the calling goroutine's own shard; otherwise the
// global ring is tried; a slot that fits nowhere is destroyed.
func (p *Pool[T, A]) Release(slot *T) {
	if slot == nil {
		return
	}
	if p.cfg.enableStats {
		p.counters.IncReleases()
		p.counters.AddInUse(-1)
	}

	sameThread := p.isSameThread(slot)
	shuttingDown := p.shutdown.Load()

	p.alloc.Cleanup(slot)

	if sameThread && !shuttingDown {
		if sh := p.shards.For(); sh.Valid() && sh.TryPush(slot) {
			return
		}
	}

	if !shuttingDown && p.ring.TryPush(slot) {
		if p.cfg.enableStats && !sameThread {
			p.counters.IncCrossThreadOps()
		}
		return
	}

	if p.cfg.enableStats && !sameThread {
		p.counters.IncCrossThreadOps()
	}
	p.alloc.Destroy(slot)
}

// Prewarm eagerly allocates up to count slots (clamped to remaining
// ring capacity) in small batches, pushing each into the global ring.
// The first allocation failure, or an unexpected full ring, stops
// prewarm early; any batch members not yet pushed are destroyed.
func (p *Pool[T, A]) Prewarm(count int) {
	room := p.ring.Cap() - p.ring.ApproxSize()
	if count > room {
		count = room
	}
	remaining := count
	for remaining > 0 {
		batch := prewarmBatch
		if batch > remaining {
			batch = remaining
		}
		remaining -= batch

		staged := queue.New()
		allocFailed := false
		for i := 0; i < batch; i++ {
			slot, err := p.alloc.AllocateDefault()
			if err != nil {
				allocFailed = true
				break
			}
			p.setAffinity(slot)
			staged.Add(slot)
		}

		ringFull := false
		pushed := int64(0)
		for staged.Length() > 0 {
			slot := staged.Remove().(*T)
			if !ringFull && p.ring.TryPush(slot) {
				pushed++
				continue
			}
			ringFull = true
			p.alloc.Destroy(slot)
		}

		if p.cfg.enableStats {
			p.counters.AddCreates(pushed)
			p.counters.AddBatchOperations(1)
		}
		if allocFailed || ringFull {
			break
		}
	}
}

// FlushLocalCache drains the calling goroutine's shard, pushing every
// held slot to the global ring; any that do not fit are destroyed.
func (p *Pool[T, A]) FlushLocalCache() {
	p.shards.For().Drain(func(slot *T) {
		if !p.ring.TryPush(slot) {
			p.alloc.Destroy(slot)
		}
	})
}

// Shrink flushes the caller's shard, then destroys up to max slots
// popped from the global ring, in small batches, returning the number
// actually destroyed. Deliberately does not offer surplus slots to a
// sibling pool — the caller asked for fewer slots to exist, not for
// them to move elsewhere.
func (p *Pool[T, A]) Shrink(max int) int {
	p.FlushLocalCache()

	destroyed := 0
	for destroyed < max {
		batch := shrinkBatch
		if batch > max-destroyed {
			batch = max - destroyed
		}
		got := 0
		for i := 0; i < batch; i++ {
			slot, ok := p.ring.TryPop()
			if !ok {
				break
			}
			p.alloc.Destroy(slot)
			got++
		}
		destroyed += got
		if p.cfg.enableStats {
			p.counters.AddBatchOperations(1)
		}
		if got < batch {
			break
		}
	}
	return destroyed
}

// GetStats returns a relaxed snapshot of the pool's counters, or a
// zero Stats when stats are disabled.
func (p *Pool[T, A]) GetStats() Stats {
	if !p.cfg.enableStats {
		return Stats{}
	}
	p.counters.SetCurrentPoolSize(int64(p.ring.ApproxSize()))
	return fromSnapshot(p.counters.Snapshot())
}

// Capacity returns the global ring's fixed capacity.
func (p *Pool[T, A]) Capacity() int {
	return p.ring.Cap()
}

// Close begins pool shutdown: it sets the shutdown flag, sleeps a
// small bounded duration for in-flight operations to observe it,
// de-registers from cross-pool rescue, then drains every shard and the
// global ring, destroying each slot it cannot rescue to a live sibling
// pool of the same payload type.
func (p *Pool[T, A]) Close() {
	p.shutdown.Store(true)
	time.Sleep(destroyQuiesceSleep)
	p.shards.InvalidateAll()

	if p.cfg.rescue {
		registry.Unregister(p.typ, p.id)
	}

	disposeOf := func(slot *T) {
		if p.cfg.rescue && registry.Rescue(p.typ, p.id, slot) {
			return
		}
		p.alloc.Destroy(slot)
	}

	p.shards.DrainAll(disposeOf)

	for {
		drainedAny := false
		for i := 0; i < drainBatch; i++ {
			slot, ok := p.ring.TryPop()
			if !ok {
				break
			}
			drainedAny = true
			disposeOf(slot)
		}
		if !drainedAny {
			break
		}
	}
}

// Alive reports whether this pool still accepts rescued slots from a
// sibling pool's retirement. Implements registry.Rescuer.
func (p *Pool[T, A]) Alive() bool {
	return !p.shutdown.Load()
}

// TryAbsorb offers slot to this pool's global ring. Implements
// registry.Rescuer.
func (p *Pool[T, A]) TryAbsorb(slot any) bool {
	if p.shutdown.Load() {
		return false
	}
	s, ok := slot.(*T)
	if !ok {
		return false
	}
	return p.ring.TryPush(s)
}

func (p *Pool[T, A]) isSameThread(slot *T) bool {
	aff, ok := any(slot).(spi.ThreadAffine)
	if !ok {
		return true
	}
	return aff.AffinityThreadID() == threadid.Current()
}

func (p *Pool[T, A]) setAffinity(slot *T) {
	if aff, ok := any(slot).(spi.ThreadAffine); ok {
		aff.SetAffinityThreadID(threadid.Current())
	}
}
