package pool

import "sync/atomic"

// Slot identifies a live worker's position in its pool. Only *Worker
// implements it, so a partition can only be requested by a running worker.
type Slot interface {
	slot() slot
}

type slot struct {
	pool  uint64
	index int
	count int
	// onExit registers a function to run when the worker finishes.
	onExit func(func())
}

// Disjointer owns a slice and hands each worker of a pool a writable window
// of it, so many workers can fill one slice without locks.
//
// Safety rests on one invariant that this file and partition.go keep
// together: a Region is only produced for a Slot, a Slot only exists inside a
// running worker whose index is unique in [0, count), and Partition returns
// disjoint spans for distinct indices under one count. Two workers of the same
// pool therefore never receive overlapping windows. Builds with -tags debug
// record every claim and panic if two live claims ever overlap.
//
// The owned slice must not be read or written through any other path while a
// pool is using the Disjointer; recover it with Take after the pool has been
// joined.
type Disjointer[T any] struct {
	items  []T
	taken  atomic.Bool
	claims claimTracker
}

// NewDisjointer wraps items. The Disjointer takes ownership: the caller must
// not touch items again until Take returns it.
func NewDisjointer[T any](items []T) *Disjointer[T] {
	return &Disjointer[T]{items: items}
}

// Len returns the length of the owned slice.
func (d *Disjointer[T]) Len() int { return len(d.items) }

// Region returns the calling worker's writable share of the owned slice.
// Calling it again from the same worker returns the same window.
func (d *Disjointer[T]) Region(s Slot) Region[T] {
	if d.taken.Load() {
		panic("pool: Disjointer.Region called after Take")
	}

	sl := s.slot()
	width := len(d.items) / sl.count
	sp := span(sl.index, sl.count, len(d.items), width)
	d.claims.claim(sl, sp)

	return Region[T]{View: window(d.items, sp, width)}
}

// Take ends the Disjointer's life and returns the owned slice. It must only
// be called once every worker holding a Region has finished, which is the
// case after Pool.Join or Pool.Wait.
func (d *Disjointer[T]) Take() []T {
	d.taken.Store(true)
	return d.items
}
