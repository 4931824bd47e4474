//go:build debug

package pool

import (
	"fmt"
	"sync"
)

type claimKey struct {
	pool  uint64
	index int
}

type claim struct {
	span  Span
	count int
}

// claimTracker remembers every live Region handed out by a Disjointer and
// panics when a new one would overlap a claim held by another worker.
type claimTracker struct {
	mu   sync.Mutex
	live map[claimKey]claim
}

func (c *claimTracker) claim(s slot, sp Span) {
	key := claimKey{pool: s.pool, index: s.index}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.live == nil {
		c.live = make(map[claimKey]claim)
	}

	for other, held := range c.live {
		if other == key {
			continue
		}
		if other.pool == s.pool && held.count != s.count {
			panic(fmt.Sprintf("pool: disjointer claimed with %d workers, previously %d", s.count, held.count))
		}
		if held.span.Overlaps(sp) {
			panic(fmt.Sprintf("pool: region %v for worker %d of pool %d overlaps %v held by worker %d of pool %d",
				sp, s.index, s.pool, held.span, other.index, other.pool))
		}
	}

	if _, ok := c.live[key]; !ok && s.onExit != nil {
		s.onExit(func() { c.release(key) })
	}
	c.live[key] = claim{span: sp, count: s.count}
	debugLog("claim pool=%d worker=%d/%d span=%v", s.pool, s.index, s.count, sp)
}

func (c *claimTracker) release(key claimKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.live, key)
	debugLog("release pool=%d worker=%d", key.pool, key.index)
}

// liveClaims is used by tests.
func (c *claimTracker) liveClaims() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.live)
}
