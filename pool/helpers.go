package pool

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

var (
	// ErrParallelismUnknown is returned when a ThreadCount policy needs the
	// platform's available parallelism and the platform cannot report it.
	ErrParallelismUnknown = errors.New("available parallelism unknown")

	// ErrInvalidThreadCount is returned when a policy resolves to a negative count.
	ErrInvalidThreadCount = errors.New("invalid thread count")

	// ErrNoWorkers is returned when work is partitioned across zero workers.
	ErrNoWorkers = errors.New("cannot partition across zero workers")

	// ErrIndexOutOfRange is returned by Partition when the worker index is not in [0, count).
	ErrIndexOutOfRange = errors.New("worker index out of range")

	// ErrNegativeLength is returned by Partition when the total length is negative.
	ErrNegativeLength = errors.New("negative length")

	// ErrReceiverClosed is returned by Worker.Send once the pool's receiver has been closed.
	ErrReceiverClosed = errors.New("receiver closed")

	// ErrAlreadySpawned is returned when a builder is spawned twice.
	ErrAlreadySpawned = errors.New("pool already spawned")

	// ErrWorkerAborted is reported for a worker whose function exited without
	// returning or panicking, e.g. via runtime.Goexit.
	ErrWorkerAborted = errors.New("worker aborted")

	// ErrJoinTimeout is returned by WaitTimeout when workers are still running at the deadline.
	ErrJoinTimeout = errors.New("error in joining workers: timeout reached")
)

// PanicError is the Result.Error of a worker whose function panicked.
type PanicError struct {
	Index int    // worker index
	Name  string // resolved worker name
	Value any    // value passed to panic
	Stack []byte // stack of the panicking goroutine
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("worker %q (index %d) panicked: %v\nstack trace:\n%s", e.Name, e.Index, e.Value, e.Stack)
}

// Unwrap exposes the panic value when it was an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// newPanicError captures the current goroutine's stack. It must be called
// from the deferred function that recovered the panic.
func newPanicError(index int, name string, value any) *PanicError {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return &PanicError{
		Index: index,
		Name:  name,
		Value: value,
		Stack: buf[:n],
	}
}

// waitUntil blocks until either the done channel is closed or the timeout is reached.
func waitUntil(d <-chan struct{}, timeout time.Duration) error {
	if timeout <= 0 {
		<-d
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-d:
		return nil
	case <-timer.C:
		return ErrJoinTimeout
	}
}
