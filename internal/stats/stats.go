// Package stats holds a pool's nine diagnostic counters: one
// cache-line padded atomic per counter, so hot increments on
// different counters never false-share a line. All are relaxed
// (no ordering requirement beyond atomicity) — they are reporting,
// not synchronizing, state.
package stats

import "sync/atomic"

const cacheLinePad = 64

type padded struct {
	v atomic.Int64
	_ [cacheLinePad - 8]byte
}

func (p *padded) add(n int64) { p.v.Add(n) }
func (p *padded) load() int64 { return p.v.Load() }

// Counters is the set of lock-free counters a pool maintains. Embed it
// (not a pointer) in the owning pool so the padding keeps every field
// on its own line.
type Counters struct {
	acquires        padded
	releases        padded
	creates         padded
	crossThreadOps  padded
	sameThreadHits  padded
	inUse           padded
	currentPoolSize padded
	cacheHits       padded
	batchOperations padded
}

// Snapshot is a point-in-time, non-atomic copy of Counters for reading
// and exporting. Fields are read independently with relaxed ordering,
// so they need not satisfy acquires == releases + in_use except at a
// truly quiescent point.
type Snapshot struct {
	Acquires        int64
	Releases        int64
	Creates         int64
	CrossThreadOps  int64
	SameThreadHits  int64
	InUse           int64
	CurrentPoolSize int64
	CacheHits       int64
	BatchOperations int64
}

func (c *Counters) IncAcquires()         { c.acquires.add(1) }
func (c *Counters) IncReleases()         { c.releases.add(1) }
func (c *Counters) IncCreates()          { c.creates.add(1) }
func (c *Counters) AddCreates(n int64)   { c.creates.add(n) }
func (c *Counters) IncCrossThreadOps()   { c.crossThreadOps.add(1) }
func (c *Counters) IncSameThreadHits()   { c.sameThreadHits.add(1) }
func (c *Counters) AddInUse(delta int64) { c.inUse.add(delta) }
func (c *Counters) SetCurrentPoolSize(n int64) {
	c.currentPoolSize.v.Store(n)
}
func (c *Counters) IncCacheHits()              { c.cacheHits.add(1) }
func (c *Counters) AddBatchOperations(n int64) { c.batchOperations.add(n) }

// InUse returns the current in-flight count, for callers that need it
// without a full snapshot (e.g. restoring it after a failed acquire).
func (c *Counters) InUse() int64 { return c.inUse.load() }

// Snapshot copies every counter's current value.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Acquires:        c.acquires.load(),
		Releases:        c.releases.load(),
		Creates:         c.creates.load(),
		CrossThreadOps:  c.crossThreadOps.load(),
		SameThreadHits:  c.sameThreadHits.load(),
		InUse:           c.inUse.load(),
		CurrentPoolSize: c.currentPoolSize.load(),
		CacheHits:       c.cacheHits.load(),
		BatchOperations: c.batchOperations.load(),
	}
}
