package objpool

import "github.com/vela-systems/objpool/spi"

// Allocator provides uninitialized storage for one T at a time. A
// pool's allocator is treated as shared, possibly unsynchronized
// state: callers supplying a non-thread-safe allocator must restrict
// pool use accordingly, or wrap it themselves.
type Allocator[T any] = spi.Allocator[T]

// Resetter, implemented by a payload type, is preferred over Builder
// when recycling a cached slot.
type Resetter[A any] = spi.Resetter[A]

// Builder performs post-allocation initialization of a fresh slot, and
// is consulted when recycling a slot only if the payload has no
// Resetter.
type Builder[A any] = spi.Builder[A]

// Destroyer runs payload-specific cleanup before a slot's storage is
// returned to the allocator.
type Destroyer = spi.Destroyer

// ThreadAffine, implemented by a payload type, lets the pool detect
// same-thread release without an external thread-id lookup. Never
// load-bearing for correctness — only steers the release fast path.
type ThreadAffine = spi.ThreadAffine

// LocalityHint is an optional capability an Allocator may implement to
// report a placement hint for diagnostic labeling.
type LocalityHint = spi.LocalityHint
