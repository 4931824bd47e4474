package pool

import "iter"

// View is a read-only window over one worker's share of a larger slice.
//
// Indices passed to At are local to the window: 0 is the first element of the
// worker's span, and anything at or past Len panics, even when the backing
// slice has elements there. Width is the uniform chunk size, which is what
// index translation needs: the global index of local i is
// worker_index*Width() + i.
type View[T any] struct {
	items  []T
	offset int
	width  int
}

// Width returns the uniform chunk size (total / worker count). The last
// worker's view may be longer than Width by the remainder.
func (v View[T]) Width() int { return v.width }

// Offset returns the global index of the view's first element.
func (v View[T]) Offset() int { return v.offset }

// Len returns the number of elements in the view.
func (v View[T]) Len() int { return len(v.items) }

// Span returns the global range covered by the view.
func (v View[T]) Span() Span { return Span{Start: v.offset, End: v.offset + len(v.items)} }

// At returns the element at local index i.
func (v View[T]) At(i int) T { return v.items[i] }

// Get is At without the panic.
func (v View[T]) Get(i int) (T, bool) {
	if i < 0 || i >= len(v.items) {
		var zero T
		return zero, false
	}
	return v.items[i], true
}

// GlobalIndex translates a local index into an index of the backing slice.
func (v View[T]) GlobalIndex(local int) int { return v.offset + local }

// All yields local index and element pairs.
func (v View[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range v.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Values yields the elements in order.
func (v View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range v.items {
			if !yield(item) {
				return
			}
		}
	}
}

// Slice returns the window as a slice. Its capacity is clipped to its length
// so appending copies instead of writing into a neighbour's span. Callers
// must treat it as read-only.
func (v View[T]) Slice() []T { return v.items }

// Region is a mutable window over one worker's share of a larger slice.
//
// A Region carries no knowledge of other regions. Exclusive access comes from
// how it was produced: Disjointer.Region and SplitMut derive it from the
// worker's partition span, and spans of distinct workers never overlap.
type Region[T any] struct {
	View[T]
}

// Set stores x at local index i.
func (r Region[T]) Set(i int, x T) { r.items[i] = x }

// Ptr returns a pointer to the element at local index i.
func (r Region[T]) Ptr(i int) *T { return &r.items[i] }

// Pointers yields local index and element pointer pairs, for in-place updates.
func (r Region[T]) Pointers() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := range r.items {
			if !yield(i, &r.items[i]) {
				return
			}
		}
	}
}

// Fill sets every element of the region to x.
func (r Region[T]) Fill(x T) {
	for i := range r.items {
		r.items[i] = x
	}
}

// Slice returns the window as a writable, capacity-clipped slice.
func (r Region[T]) Slice() []T { return r.items }

// ReadOnly drops write access.
func (r Region[T]) ReadOnly() View[T] { return r.View }

// window cuts items down to sp with capacity clipped to the span.
func window[T any](items []T, sp Span, width int) View[T] {
	return View[T]{
		items:  items[sp.Start:sp.End:sp.End],
		offset: sp.Start,
		width:  width,
	}
}

// Split returns the calling worker's read-only share of items.
func Split[T any](s Slot, items []T) View[T] {
	sl := s.slot()
	width := len(items) / sl.count
	return window(items, span(sl.index, sl.count, len(items), width), width)
}

// SplitMut returns the calling worker's writable share of items. Every worker
// must pass the same slice; the spans they get back are disjoint. The slice
// must not be resized or written outside these regions while workers run.
func SplitMut[T any](s Slot, items []T) Region[T] {
	return Region[T]{View: Split(s, items)}
}
