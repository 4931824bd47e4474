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

// AvailableParallelism reports the number of logical CPUs.
func AvailableParallelism() (int, error) {
	return runtime.NumCPU(), nil
}

// pinToCore pins the current OS thread to a specific CPU core.
// Must be called after runtime.LockOSThread().
// Returns the pinned CPU and the previous affinity mask.
func pinToCore(slot int) (int, uintptr, error) {
	cpuID := slot % runtime.NumCPU()

	handle, _, _ := getCurrentThread.Call()

	// Bit N = CPU N
	mask := uintptr(1) << uint(cpuID)

	prevMask, _, err := setThreadAffinityMask.Call(handle, mask)
	if prevMask == 0 {
		return 0, 0, err
	}
	return cpuID, prevMask, nil
}

// SetupWorkerAffinity locks the goroutine to an OS thread and pins it to a
// CPU core chosen by workerID. Returns the pinned CPU (-1 on failure) and a
// cleanup function that should be deferred.
func SetupWorkerAffinity(workerID int) (int, func()) {
	runtime.LockOSThread()

	cpuID, prevMask, err := pinToCore(workerID)
	if err != nil {
		cpuID = -1
	}

	return cpuID, func() {
		if prevMask != 0 {
			handle, _, _ := getCurrentThread.Call()
			_, _, _ = setThreadAffinityMask.Call(handle, prevMask)
		}
		runtime.UnlockOSThread()
	}
}
