//go:build darwin

package cpu

import "runtime"

// SetupWorkerAffinity locks the calling goroutine to its OS thread.
// macOS has no API for pinning a thread to a core.
func SetupWorkerAffinity(int) func() {
	runtime.LockOSThread()
	return runtime.UnlockOSThread
}
