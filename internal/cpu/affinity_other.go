//go:build !linux && !darwin && !windows

package cpu

import "runtime"

// SetupWorkerAffinity locks the calling goroutine to its OS thread.
func SetupWorkerAffinity(int) func() {
	runtime.LockOSThread()
	return runtime.UnlockOSThread
}
