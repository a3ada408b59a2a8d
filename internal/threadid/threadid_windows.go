//go:build windows

package threadid

import "golang.org/x/sys/windows"

func currentPlatform() uint64 {
	return uint64(windows.GetCurrentThreadId())
}
