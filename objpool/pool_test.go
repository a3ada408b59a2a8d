package objpool

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blob struct {
	value     int
	threadID  uint64
	destroyed bool
}

func (b *blob) Reset(v int) { b.value = v }
func (b *blob) Build(v int) { b.value = v }
func (b *blob) Destroy()    { b.destroyed = true }

func (b *blob) AffinityThreadID() uint64      { return b.threadID }
func (b *blob) SetAffinityThreadID(id uint64) { b.threadID = id }

type blobAllocator struct {
	mu        sync.Mutex
	allocated int
	freed     int
	failAfter int // 0 means never fail
}

func (a *blobAllocator) Allocate() (*blob, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failAfter > 0 && a.allocated >= a.failAfter {
		return nil, errors.New("blobAllocator: exhausted")
	}
	a.allocated++
	return &blob{}, nil
}

func (a *blobAllocator) Deallocate(*blob) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.freed++
}

func newTestPool(t *testing.T, opts ...Option) (*Pool[blob, int], *blobAllocator) {
	t.Helper()
	alloc := &blobAllocator{}
	p := New[blob, int](alloc, opts...)
	// Close unregisters the pool, so it cannot absorb slots rescued by
	// another test's closing pool of the same payload type.
	t.Cleanup(p.Close)
	return p, alloc
}

// Scenario 1: single-thread recycling.
func TestSingleThreadRecycling(t *testing.T) {
	p, _ := newTestPool(t, WithPoolSize(8), WithLocalCacheSize(4))
	for i := 0; i < 1000; i++ {
		slot, err := p.Acquire(i)
		require.NoError(t, err)
		p.Release(slot)
	}
	s := p.GetStats()
	assert.EqualValues(t, 1000, s.Acquires)
	assert.EqualValues(t, 1000, s.Releases)
	assert.EqualValues(t, 0, s.InUse)
	assert.GreaterOrEqual(t, s.SameThreadHits, int64(999))
}

// R1: repeated acquire/release on one thread performs no underlying
// allocation beyond those the auto-prewarm already made.
func TestAcquireReleaseRoundTripSingleAllocation(t *testing.T) {
	p, alloc := newTestPool(t, WithPoolSize(4), WithLocalCacheSize(2))
	allocatedAfterPrewarm := alloc.allocated
	for i := 0; i < 500; i++ {
		slot, err := p.Acquire(0)
		require.NoError(t, err)
		p.Release(slot)
	}
	assert.Equal(t, allocatedAfterPrewarm, alloc.allocated, "steady-state recycling should not allocate further")
}

// Scenario 2: cross-thread handoff — one goroutine acquires, another
// releases, and the counters balance.
func TestCrossThreadHandoff(t *testing.T) {
	p, _ := newTestPool(t, WithPoolSize(128), WithLocalCacheSize(8))
	handles := make(chan *blob, 100)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			slot, err := p.Acquire(i)
			require.NoError(t, err)
			handles <- slot
		}
		close(handles)
	}()
	wg.Wait()

	count := 0
	for slot := range handles {
		p.Release(slot)
		count++
	}
	assert.Equal(t, 100, count)

	s := p.GetStats()
	assert.EqualValues(t, 100, s.Acquires)
	assert.EqualValues(t, 100, s.Releases)
	assert.EqualValues(t, 0, s.InUse)
}

// Scenario 4 / boundary: allocation failure surfaces AllocationFailed
// and restores in_use.
func TestAllocationFailureSurfaces(t *testing.T) {
	alloc := &blobAllocator{failAfter: 2}
	p := New[blob, int](alloc, WithPoolSize(2), WithLocalCacheSize(0))
	defer p.Close()
	// PoolSize=2 auto-prewarms to 1, consuming one of the allocator's
	// two permitted allocations before failAfter triggers... so drain
	// what exists first.
	var acquired []*blob
	for {
		slot, err := p.Acquire(0)
		if err != nil {
			require.ErrorIs(t, err, ErrAllocationFailed)
			break
		}
		acquired = append(acquired, slot)
		if len(acquired) > 10 {
			t.Fatal("acquire never failed, allocator limit not enforced")
		}
	}
	before := p.GetStats().InUse
	_, err := p.Acquire(0)
	require.ErrorIs(t, err, ErrAllocationFailed)
	after := p.GetStats().InUse
	assert.Equal(t, before, after, "in_use must be restored after a failed acquire")
}

// Boundary: shutdown after Close.
func TestAcquireAfterCloseReturnsShutdown(t *testing.T) {
	p, _ := newTestPool(t, WithPoolSize(4))
	p.Close()
	_, err := p.Acquire(0)
	require.ErrorIs(t, err, ErrShutdown)
}

// Boundary: LocalCacheSize=0 still works via the ring alone.
func TestZeroLocalCacheSizeStillFunctions(t *testing.T) {
	p, _ := newTestPool(t, WithPoolSize(4), WithLocalCacheSize(0))
	slot, err := p.Acquire(1)
	require.NoError(t, err)
	p.Release(slot)
	slot2, err := p.Acquire(2)
	require.NoError(t, err)
	assert.Equal(t, 2, slot2.value)
}

// Scenario 5: prewarm then shrink.
func TestPrewarmThenShrink(t *testing.T) {
	p, _ := newTestPool(t, WithPoolSize(256), WithLocalCacheSize(0))
	before := p.GetStats().CurrentPoolSize
	p.Prewarm(256)
	afterPrewarm := p.GetStats().CurrentPoolSize
	assert.Greater(t, afterPrewarm, before)

	n := p.Shrink(100)
	assert.Equal(t, 100, n)
	afterShrink := p.GetStats().CurrentPoolSize
	assert.Equal(t, afterPrewarm-100, afterShrink)
}

// P3: capacity cap — ring never reports more than PoolSize (rounded).
func TestCapacityCap(t *testing.T) {
	p, _ := newTestPool(t, WithPoolSize(5), WithLocalCacheSize(2))
	assert.Equal(t, 8, p.Capacity(), "capacity should round up to a power of two")
	p.Prewarm(1000)
	assert.LessOrEqual(t, p.GetStats().CurrentPoolSize, int64(p.Capacity()))
}

// P6: idempotent reset — a slot's observed state depends only on the
// most recent acquire's arguments.
func TestIdempotentReset(t *testing.T) {
	p, _ := newTestPool(t, WithPoolSize(4), WithLocalCacheSize(2))
	slot, err := p.Acquire(111)
	require.NoError(t, err)
	assert.Equal(t, 111, slot.value)
	p.Release(slot)

	slot2, err := p.Acquire(222)
	require.NoError(t, err)
	assert.Equal(t, 222, slot2.value)
}

func TestReleaseNilIsNoop(t *testing.T) {
	p, _ := newTestPool(t)
	assert.NotPanics(t, func() { p.Release(nil) })
}

func TestFlushLocalCacheIdempotent(t *testing.T) {
	p, _ := newTestPool(t, WithPoolSize(8), WithLocalCacheSize(4))
	slot, err := p.Acquire(0)
	require.NoError(t, err)
	p.Release(slot)
	p.FlushLocalCache()
	p.FlushLocalCache()
	assert.Zero(t, p.shards.For().Len())
}

// Scenario 3: shutdown race — several goroutines loop acquire/release
// while Close runs concurrently. Every acquire in this test is paired
// with a release before the next iteration or return, so in_use must
// settle at zero regardless of how the workers interleave with Close.
func TestCloseConcurrentWithAcquireRelease(t *testing.T) {
	p, _ := newTestPool(t, WithPoolSize(64), WithLocalCacheSize(8))

	const workers = 8
	const iterations = 2000

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(seed int) {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				slot, err := p.Acquire(seed + j)
				if err != nil {
					assert.ErrorIs(t, err, ErrShutdown)
					return
				}
				p.Release(slot)
			}
		}(i)
	}

	time.Sleep(time.Millisecond)
	p.Close()
	wg.Wait()

	assert.EqualValues(t, 0, p.GetStats().InUse,
		"in-flight count must settle at zero once every worker has observed Close")
}
