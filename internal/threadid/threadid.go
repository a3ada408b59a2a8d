// Package threadid provides a small, stable per-OS-thread integer,
// mirroring the platform-file layering of the reference affinity
// package (affinity_linux.go / affinity_windows.go / affinity_stub.go)
// but applied to thread identification instead of CPU pinning, and
// implemented without cgo via golang.org/x/sys.
//
// The value is consulted only to steer the pool's release fast path
// (spi.ThreadAffine); it is never load-bearing for correctness, so a
// portable fallback that returns a goroutine id instead of a genuine
// OS thread id on unsupported platforms is an acceptable substitute.
package threadid

// Current returns a small integer that is stable for the calling OS
// thread's current run, or a portable goroutine-id fallback on
// platforms without a cheap native thread-id syscall.
func Current() uint64 {
	return currentPlatform()
}
