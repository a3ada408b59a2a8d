// Package spi declares the service-provider interfaces a payload type T
// and an allocator may implement to participate in pooling.
//
// These are leaf interfaces: neither the pool engine nor the internal
// allocation adapter imports anything above this package, so both sides
// of the capability-probe boundary (engine doing the probing, payload
// types being probed) can depend on it without a cycle.
package spi

// Allocator provides uninitialized storage for one T at a time. The
// pool engine only ever calls Allocate/Deallocate in matched pairs.
type Allocator[T any] interface {
	// Allocate returns a zero-value *T ready for in-place construction.
	Allocate() (*T, error)
	// Deallocate releases storage obtained from Allocate. Never called
	// twice for the same pointer, never called for a pointer not
	// obtained from this Allocator.
	Deallocate(*T)
}

// LocalityHint is an optional capability an Allocator may implement to
// report a placement hint (e.g. a NUMA node) for diagnostic labeling.
// The pool never uses it for correctness.
type LocalityHint interface {
	Locality() int
}

// Resetter reinitializes a recycled payload for reuse with fresh
// arguments. Preferred over Builder and over destroy-then-construct
// when present.
type Resetter[A any] interface {
	Reset(A)
}

// Builder performs post-default-construction initialization. Always
// consulted for a freshly allocated slot; when recycling a slot it is
// consulted only if the payload has no Resetter.
type Builder[A any] interface {
	Build(A)
}

// Destroyer runs payload-specific cleanup exactly once, immediately
// before a slot's storage is handed back to the Allocator. Probed
// independently of Resetter/Builder: a payload may implement all
// three, since resetting for reuse and destroying for good are
// mutually exclusive outcomes for any one slot, never both.
type Destroyer interface {
	Destroy()
}

// ThreadAffine is implemented by payloads that track which OS thread
// last initialized them. The pool consults it only to steer the
// release fast path; it is never load-bearing for correctness.
type ThreadAffine interface {
	AffinityThreadID() uint64
	SetAffinityThreadID(uint64)
}
