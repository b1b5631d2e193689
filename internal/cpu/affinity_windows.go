//go:build windows

package cpu

import (
	"runtime"
	"syscall"
)

var (
	kernel32              = syscall.NewLazyDLL("kernel32.dll")
	setThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
	getCurrentThread      = kernel32.NewProc("GetCurrentThread")
)

// pinToCore sets the affinity mask of the calling thread to a single core.
func pinToCore(workerID int) error {
	core := workerID % runtime.NumCPU()
	handle, _, _ := getCurrentThread.Call()

	prev, _, err := setThreadAffinityMask.Call(handle, uintptr(1)<<uint(core))
	if prev == 0 {
		return err
	}
	return nil
}

// SetupWorkerAffinity locks the calling goroutine to its OS thread and pins
// that thread to a core chosen from workerID.
func SetupWorkerAffinity(workerID int) func() {
	runtime.LockOSThread()
	_ = pinToCore(workerID)

	// The pinned thread is never handed back to the scheduler: when the
	// goroutine exits still locked, the runtime terminates the thread.
	return func() {}
}
