// Package alloc wraps a caller-supplied spi.Allocator[T] with the
// capability-probed construct/reset/destroy sequence the pool engine
// needs, mirroring the allocate-then-initialize factory pair used
// throughout the reference pool package (e.g. slab_pool.go's newBuf).
package alloc

import (
	"github.com/pkg/errors"
	"github.com/vela-systems/objpool/spi"
)

// Adapter binds a payload type T and an options type A (the single
// generic stand-in for the variadic construction/reset arguments) to
// one underlying spi.Allocator[T].
type Adapter[T any, A any] struct {
	allocator spi.Allocator[T]
}

// New wraps allocator for use by the pool engine.
func New[T any, A any](allocator spi.Allocator[T]) *Adapter[T, A] {
	return &Adapter[T, A]{allocator: allocator}
}

// Construct allocates a fresh *T and initializes it with args, probing
// for spi.Builder[A] and calling it when present. A payload with no
// Builder is used as-is after allocation (its zero value is the
// initialized state).
//
// Allocation failure is the pool's one exception-propagating path, so
// the returned error is wrapped with a stack trace via pkg/errors for
// caller diagnostics. A panicking Builder is on that same path: the
// just-allocated block is deallocated before the panic is rethrown, so
// a misbehaving Builder never leaks storage.
func (a *Adapter[T, A]) Construct(args A) (v *T, err error) {
	v, err = a.allocator.Allocate()
	if err != nil {
		return nil, errors.Wrap(err, "alloc: allocate failed")
	}
	if b, ok := any(v).(spi.Builder[A]); ok {
		defer func() {
			if r := recover(); r != nil {
				a.allocator.Deallocate(v)
				panic(r)
			}
		}()
		b.Build(args)
	}
	return v, nil
}

// AllocateDefault allocates a slot without invoking any Builder. Used
// by prewarm, which populates a pool with default-constructed payloads
// ahead of any caller-specific initialization.
func (a *Adapter[T, A]) AllocateDefault() (*T, error) {
	v, err := a.allocator.Allocate()
	if err != nil {
		return nil, errors.Wrap(err, "alloc: allocate failed")
	}
	return v, nil
}

// Cleanup prepares a slot for recycling at release time: it calls
// Resetter with the zero value of A when present, and otherwise
// leaves the slot untouched — Builder is not consulted here, since a
// release carries no caller-supplied arguments to build with. A slot
// with neither capability is simply returned to the cache or ring
// as-is; its eventual Destroy (if it is never reused) still runs its
// Destroyer exactly once.
func (a *Adapter[T, A]) Cleanup(slot *T) {
	defer func() { _ = recover() }()
	if r, ok := any(slot).(spi.Resetter[A]); ok {
		var zero A
		r.Reset(zero)
	}
}

// Reset is the recycle-path equivalent of Construct: it reinitializes
// an existing slot instead of allocating and building a new one,
// probing for spi.Resetter[A] first and falling back to spi.Builder[A]
// if the payload has no Resetter. slot must be non-nil.
//
// Panics from either hook are swallowed — a recycled slot is returned
// to the acquiring caller regardless, matching Cleanup's and Destroy's
// own panic-swallowing treatment of user-supplied hooks.
func (a *Adapter[T, A]) Reset(slot *T, args A) {
	defer func() { _ = recover() }()
	if r, ok := any(slot).(spi.Resetter[A]); ok {
		r.Reset(args)
		return
	}
	if b, ok := any(slot).(spi.Builder[A]); ok {
		b.Build(args)
	}
}

// Destroy runs the payload's Destroyer (if any) and returns the
// storage to the allocator. Safe to call on a slot that was never
// reset after its last use — destruction happens regardless of a
// Resetter's availability once the engine decides not to recycle a
// slot.
//
// Panics from a user-supplied Destroy are swallowed: a misbehaving
// destructor must not take down a shared pool used by unrelated
// callers. The payload is still deallocated.
func (a *Adapter[T, A]) Destroy(slot *T) {
	a.runDestroyer(slot)
	a.allocator.Deallocate(slot)
}

func (a *Adapter[T, A]) runDestroyer(slot *T) {
	defer func() { _ = recover() }()
	if d, ok := any(slot).(spi.Destroyer); ok {
		d.Destroy()
	}
}
