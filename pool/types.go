package pool

import "sync/atomic"

// Runner is the work every worker of a pool performs. The same Runner value is
// invoked concurrently by all workers, so it must not hold mutable state that
// is not safe for concurrent use.
//
// Type parameters:
//   - D: The shared payload type
//   - R: The per-worker result type
//   - M: The message type workers send to the coordinator
type Runner[D, R, M any] interface {
	Run(w *Worker[D, M]) R
}

// RunnerFunc adapts a plain function to Runner.
type RunnerFunc[D, R, M any] func(w *Worker[D, M]) R

// Run implements Runner.
func (f RunnerFunc[D, R, M]) Run(w *Worker[D, M]) R { return f(w) }

// Result is the outcome of one worker.
//
// Fields:
//   - Value: What the worker function returned (zero if Error is set)
//   - Error: A *PanicError if the function panicked, ErrWorkerAborted if it exited early
//   - Index: The worker's index in [0, MaxThreads)
//   - Name: The worker's resolved name
type Result[R any] struct {
	Value R
	Error error
	Index int
	Name  string
}

// Ok reports whether the worker returned normally.
func (r Result[R]) Ok() bool { return r.Error == nil }

// ThreadID is a process-unique identity assigned to each worker at spawn.
type ThreadID uint64

var (
	threadIDs atomic.Uint64
	poolIDs   atomic.Uint64
)

func nextThreadID() ThreadID { return ThreadID(threadIDs.Add(1)) }

func nextPoolID() uint64 { return poolIDs.Add(1) }
