//go:build !linux && !windows

package threadid

import "github.com/vela-systems/objpool/internal/goid"

func currentPlatform() uint64 {
	return uint64(goid.Current())
}
