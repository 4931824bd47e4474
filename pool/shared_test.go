package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShared_Refcount(t *testing.T) {
	s := newShared([]int{1, 2})
	require.EqualValues(t, 1, s.Refs())

	c := s.Clone()
	require.EqualValues(t, 2, s.Refs())
	require.Equal(t, []int{1, 2}, c.Get())

	_, ok := s.tryUnwrap()
	require.False(t, ok, "cannot unwrap while a clone is live")

	c.Release()
	c.Release()
	require.EqualValues(t, 1, s.Refs())

	v, ok := s.tryUnwrap()
	require.True(t, ok)
	require.Equal(t, []int{1, 2}, v)

	_, ok = s.tryUnwrap()
	require.False(t, ok, "a payload is reclaimed at most once")
}

func TestShared_ReleasedReferenceCannotUnwrap(t *testing.T) {
	s := newShared("x")
	c := s.Clone()
	s.Release()

	_, ok := s.tryUnwrap()
	require.False(t, ok)

	v, ok := c.tryUnwrap()
	require.True(t, ok)
	require.Equal(t, "x", v)
}

func TestShared_ConcurrentClones(t *testing.T) {
	s := newShared(struct{}{})

	var wg sync.WaitGroup
	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := s.Clone()
			c.Release()
		}()
	}
	wg.Wait()

	_, ok := s.tryUnwrap()
	require.True(t, ok)
}
