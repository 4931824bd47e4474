package pool

import "sync/atomic"

type sharedCell[D any] struct {
	value D
	refs  atomic.Int64
}

// Shared is one counted reference to a pool's payload. The pool holds one,
// every running worker holds one, and Pool.Shared hands out more. The payload
// can only be reclaimed by Pool.Join once every other reference has been
// released.
type Shared[D any] struct {
	cell     *sharedCell[D]
	released atomic.Bool
}

func newShared[D any](value D) *Shared[D] {
	c := &sharedCell[D]{value: value}
	c.refs.Store(1)
	return &Shared[D]{cell: c}
}

// Get returns the payload. It must not be called after Release.
func (s *Shared[D]) Get() D { return s.cell.value }

// Clone returns a new reference to the same payload.
func (s *Shared[D]) Clone() *Shared[D] {
	s.cell.refs.Add(1)
	return &Shared[D]{cell: s.cell}
}

// Release drops this reference. Releasing twice is a no-op.
func (s *Shared[D]) Release() {
	if s.released.CompareAndSwap(false, true) {
		s.cell.refs.Add(-1)
	}
}

// Refs returns the number of live references.
func (s *Shared[D]) Refs() int64 { return s.cell.refs.Load() }

// tryUnwrap releases s and returns the payload if s was the last reference.
// On failure s stays live.
func (s *Shared[D]) tryUnwrap() (D, bool) {
	if s.released.Load() || !s.cell.refs.CompareAndSwap(1, 0) {
		var zero D
		return zero, false
	}
	s.released.Store(true)
	return s.cell.value, true
}
