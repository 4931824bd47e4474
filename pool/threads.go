package pool

import (
	"fmt"
	"strconv"
)

// ThreadCount turns the platform's available parallelism into a worker count.
//
// available is only meaningful when err is nil; err is non-nil when the
// platform could not report its parallelism. A policy that cannot work
// without that number returns an error wrapping ErrParallelismUnknown rather
// than guessing.
type ThreadCount interface {
	Resolve(available int, err error) (int, error)
}

// Fixed spawns exactly n workers, ignoring the platform. Fixed(0) is legal and
// yields a pool with no workers.
type Fixed int

// Resolve implements ThreadCount.
func (f Fixed) Resolve(int, error) (int, error) {
	if f < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidThreadCount, int(f))
	}
	return int(f), nil
}

type fullParallelism struct{}

func (fullParallelism) Resolve(available int, err error) (int, error) {
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrParallelismUnknown, err)
	}
	if available < 1 {
		return 0, fmt.Errorf("%w: platform reported %d cpus", ErrParallelismUnknown, available)
	}
	return available, nil
}

type partialParallelism struct{}

func (partialParallelism) Resolve(available int, err error) (int, error) {
	if err != nil || available < 1 {
		// Nothing to reserve a core from; run a single worker.
		return 1, nil
	}
	return available - 1, nil
}

var (
	// FullParallelism spawns one worker per available CPU. It fails with
	// ErrParallelismUnknown when the platform cannot report its parallelism.
	FullParallelism ThreadCount = fullParallelism{}

	// PartialParallelism spawns one worker per available CPU minus one, leaving
	// a core for the coordinating goroutine. When parallelism is unknown it
	// spawns a single worker.
	PartialParallelism ThreadCount = partialParallelism{}
)

// CountFunc is a custom policy. ok reports whether available is known.
type CountFunc func(available int, ok bool) int

// Resolve implements ThreadCount.
func (f CountFunc) Resolve(available int, err error) (int, error) {
	ok := err == nil
	if !ok {
		available = 0
	}

	n := f(available, ok)
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidThreadCount, n)
	}
	return n, nil
}

// ThreadName names the worker at index.
type ThreadName interface {
	ThreadName(index int) string
}

// NameFunc names each worker from its index.
type NameFunc func(index int) string

// ThreadName implements ThreadName.
func (f NameFunc) ThreadName(index int) string { return f(index) }

// StaticName gives every worker the same name.
type StaticName string

// ThreadName implements ThreadName.
func (s StaticName) ThreadName(int) string { return string(s) }

// defaultNames is the namer used when none is configured: "<label> thread <index>".
func defaultNames(label string) ThreadName {
	return NameFunc(func(index int) string {
		return label + " thread " + strconv.Itoa(index)
	})
}
