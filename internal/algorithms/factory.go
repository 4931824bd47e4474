package algorithms

import "time"

// BackoffType selects the poll pacing algorithm.
type BackoffType int

const (
	// BackoffFixed sleeps the maximum delay between every poll (default).
	BackoffFixed BackoffType = iota
	// BackoffExponential starts at the initial delay and doubles up to the maximum.
	BackoffExponential
	// BackoffJittered is exponential with random spread, still capped at the maximum.
	BackoffJittered
)

// String returns the name of the backoff type.
func (b BackoffType) String() string {
	switch b {
	case BackoffFixed:
		return "fixed"
	case BackoffExponential:
		return "exponential"
	case BackoffJittered:
		return "jittered"
	default:
		return "unknown"
	}
}

// NewBackoffStrategy creates a backoff strategy based on the configuration.
// A non-positive maxDelay is treated as one millisecond so a paused worker
// never busy-spins.
func NewBackoffStrategy(
	backoffType BackoffType,
	initialDelay, maxDelay time.Duration,
	jitterFactor float64,
) BackoffStrategy {
	if maxDelay <= 0 {
		maxDelay = time.Millisecond
	}
	initialDelay = clamp(initialDelay, 1, maxDelay)

	switch backoffType {
	case BackoffExponential:
		return newExponentialBackoff(initialDelay, maxDelay)

	case BackoffJittered:
		return newJitteredBackoff(initialDelay, maxDelay, jitterFactor)

	default:
		return newFixedBackoff(maxDelay)
	}
}
