package pool

import (
	"fmt"
	"iter"
)

// Span is the half-open index range [Start, End) owned by one worker.
type Span struct {
	Start int
	End   int
}

// Len returns the number of indices in the span.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether i lies in the span.
func (s Span) Contains(i int) bool { return i >= s.Start && i < s.End }

// Overlaps reports whether two spans share at least one index.
func (s Span) Overlaps(o Span) bool {
	return s.Len() > 0 && o.Len() > 0 && s.Start < o.End && o.Start < s.End
}

// All yields every index in the span in ascending order.
func (s Span) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := s.Start; i < s.End; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

// Sum returns Start + (Start+1) + ... + (End-1).
func (s Span) Sum() int {
	n := s.Len()
	if n <= 0 {
		return 0
	}
	// One of n and (first+last) is even, so the halving is exact.
	first, last := s.Start, s.End-1
	if n%2 == 0 {
		return (n / 2) * (first + last)
	}
	return n * ((first + last) / 2)
}

func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.Start, s.End)
}

// Width is the uniform chunk size when total items are split across count
// workers. Only the last worker's chunk can be larger (by total % count).
func Width(count, total int) (int, error) {
	if count <= 0 {
		return 0, ErrNoWorkers
	}
	if total < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeLength, total)
	}
	return total / count, nil
}

// Partition returns the span of [0, total) owned by worker index out of count.
//
// Every worker but the last gets exactly total/count indices; the last one
// also takes the remainder. The result depends only on the three arguments,
// so spans for distinct indices under the same count never overlap and
// together cover [0, total).
func Partition(index, count, total int) (Span, error) {
	width, err := Width(count, total)
	if err != nil {
		return Span{}, err
	}
	if index < 0 || index >= count {
		return Span{}, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, count)
	}
	return span(index, count, total, width), nil
}

// span is Partition without validation; callers guarantee count > 0,
// 0 <= index < count and total >= 0.
func span(index, count, total, width int) Span {
	start := index * width
	end := start + width
	if index == count-1 {
		end += total % count
	}
	return Span{Start: start, End: end}
}
