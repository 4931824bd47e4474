//go:build !linux && !windows

package cpu

import "runtime"

// AvailableParallelism reports the number of logical CPUs.
func AvailableParallelism() (int, error) {
	return runtime.NumCPU(), nil
}

// SetupWorkerAffinity locks the goroutine to an OS thread.
// CPU pinning is not available on this platform, so the returned CPU is -1.
func SetupWorkerAffinity(workerID int) (int, func()) {
	runtime.LockOSThread()

	return -1, func() {
		runtime.UnlockOSThread()
	}
}
