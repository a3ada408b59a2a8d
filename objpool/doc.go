// Package objpool provides a generic object pool, built on a lock-free
// free ring, for recycling heap-allocated payloads across goroutines.
//
// A Pool[T, A] hands out *T slots initialized or reinitialized with
// arguments of type A. Acquire first checks the calling goroutine's
// own shard cache, then the pool's global free ring, and only
// allocates through the supplied Allocator[T] as a last resort.
// Release reverses the path: same-thread releases prefer the local
// shard, cross-thread releases go to the ring, and a slot that fits
// nowhere is destroyed.
//
// Payload types opt into additional behavior structurally, by
// implementing interfaces from this package (Resetter, Builder,
// Destroyer, ThreadAffine) — there is nothing to register.
//
// Shared wraps a Pool with reference counting for callers that want a
// handle whose final release, rather than an explicit one, returns
// the slot.
package objpool
