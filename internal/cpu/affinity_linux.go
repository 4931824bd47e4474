//go:build linux

package cpu

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// allowedCPUs returns the CPU ids in the calling thread's affinity mask.
func allowedCPUs() ([]int, error) {
	var mask unix.CPUSet
	if err := unix.SchedGetaffinity(0, &mask); err != nil {
		return nil, fmt.Errorf("sched_getaffinity: %w", err)
	}

	want := mask.Count()
	cpus := make([]int, 0, want)
	for id := 0; len(cpus) < want; id++ {
		if mask.IsSet(id) {
			cpus = append(cpus, id)
		}
	}
	return cpus, nil
}

// AvailableParallelism reports how many CPUs this process may run on.
// Unlike runtime.NumCPU it is re-read on every call, so a mask changed by
// taskset or a cgroup after start-up is honoured.
func AvailableParallelism() (int, error) {
	cpus, err := allowedCPUs()
	if err != nil {
		return 0, err
	}
	if len(cpus) == 0 {
		return 0, fmt.Errorf("sched_getaffinity: empty cpu mask")
	}
	return len(cpus), nil
}

// pinToCore pins the current OS thread to the slot-th CPU of the allowed set.
// Must be called after runtime.LockOSThread().
func pinToCore(slot int) (int, error) {
	cpus, err := allowedCPUs()
	if err != nil {
		return 0, err
	}
	if len(cpus) == 0 {
		return 0, fmt.Errorf("no cpu available for worker %d", slot)
	}

	cpuID := cpus[slot%len(cpus)]

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpuID)

	if err := unix.SchedSetaffinity(0, &mask); err != nil { // 0 = current thread
		return 0, err
	}
	return cpuID, nil
}

// SetupWorkerAffinity locks the goroutine to an OS thread and pins it to a
// CPU chosen from the allowed set by workerID. Returns the pinned CPU (-1 when
// pinning failed and the thread is only locked) and a cleanup function that
// should be deferred. The cleanup restores the thread's previous mask before
// handing it back to the scheduler.
func SetupWorkerAffinity(workerID int) (int, func()) {
	runtime.LockOSThread()

	var prev unix.CPUSet
	restore := unix.SchedGetaffinity(0, &prev) == nil

	cpuID, err := pinToCore(workerID)
	if err != nil {
		cpuID = -1
	}

	return cpuID, func() {
		if restore {
			_ = unix.SchedSetaffinity(0, &prev)
		}
		runtime.UnlockOSThread()
	}
}
