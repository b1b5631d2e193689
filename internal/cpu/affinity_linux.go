//go:build linux

// Package cpu pins worker goroutines to OS threads and CPU cores.
package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinToCore restricts the calling OS thread to core workerID modulo the
// number of CPUs. The caller must hold runtime.LockOSThread.
func pinToCore(workerID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(workerID % runtime.NumCPU())

	// pid 0 is the calling thread.
	return unix.SchedSetaffinity(0, &set)
}

// SetupWorkerAffinity locks the calling goroutine to its OS thread and pins
// that thread to a core chosen from workerID. Pinning failures are ignored:
// the worker keeps running unpinned.
func SetupWorkerAffinity(workerID int) func() {
	runtime.LockOSThread()
	_ = pinToCore(workerID)

	// The pinned thread is never handed back to the scheduler: when the
	// goroutine exits still locked, the runtime terminates the thread.
	return func() {}
}
