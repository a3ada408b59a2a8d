package objpool

import "errors"

// ErrShutdown is returned by Acquire once a Pool's shutdown sequence
// has begun. No counters are touched when this is returned.
var ErrShutdown = errors.New("objpool: pool is shut down")

// ErrAllocationFailed is returned by Acquire when the slow path's
// allocator call fails. Use errors.Is(err, ErrAllocationFailed) to
// detect it; errors.Is and errors.As also reach the allocator's own
// error. errors.Unwrap(err) returns nil, since the returned error wraps
// both at once.
var ErrAllocationFailed = errors.New("objpool: allocation failed")
