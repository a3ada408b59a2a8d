package objpool

import "github.com/vela-systems/objpool/internal/stats"

// Stats is a point-in-time, relaxed snapshot of a pool's diagnostic
// counters. Values are read independently, so they need not satisfy
// Acquires == Releases + InUse except at a truly quiescent point, and
// CurrentPoolSize is best-effort (it may transiently read above
// capacity under contention; it never reads below zero).
type Stats struct {
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

func fromSnapshot(s stats.Snapshot) Stats {
	return Stats{
		Acquires:        s.Acquires,
		Releases:        s.Releases,
		Creates:         s.Creates,
		CrossThreadOps:  s.CrossThreadOps,
		SameThreadHits:  s.SameThreadHits,
		InUse:           s.InUse,
		CurrentPoolSize: s.CurrentPoolSize,
		CacheHits:       s.CacheHits,
		BatchOperations: s.BatchOperations,
	}
}
