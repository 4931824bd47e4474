//go:build !debug

package pool

const debugBuild = false

// claimTracker is empty outside debug builds; the partition invariant is
// what keeps regions disjoint.
type claimTracker struct{}

func (claimTracker) claim(slot, Span) {}

func (claimTracker) liveClaims() int { return 0 }
