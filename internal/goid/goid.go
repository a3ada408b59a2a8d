// Package goid extracts the runtime's own goroutine id for use as a
// stable, cheap affinity key. Go exposes no public goroutine-id API;
// this is the standard community technique of parsing the header line
// of runtime.Stack's output, used here only for cache sharding and as
// a portable fallback thread-id — never for anything correctness
// sensitive (per spi.ThreadAffine's contract, the value only steers a
// fast path).
package goid

import (
	"bytes"
	"runtime"
	"strconv"
)

const goroutinePrefix = "goroutine "

// Current returns the calling goroutine's id. Not free — it parses a
// small runtime.Stack snapshot — so callers should call it once per
// logical operation (once per Acquire, once per Release), never in an
// inner loop.
func Current() int64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]
	buf = bytes.TrimPrefix(buf, []byte(goroutinePrefix))
	if i := bytes.IndexByte(buf, ' '); i >= 0 {
		buf = buf[:i]
	}
	id, err := strconv.ParseInt(string(buf), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
