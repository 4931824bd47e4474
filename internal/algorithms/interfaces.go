package algorithms

import "time"

// BackoffStrategy decides how long a paused worker sleeps between two reads
// of the run-state signal.
//
// Implementations are used by a single worker at a time; the pool builds one
// strategy per worker so no locking is required.
type BackoffStrategy interface {
	// NextDelay returns the sleep before poll number attemptNumber (0-indexed).
	// The result never exceeds the strategy's maximum delay.
	NextDelay(attemptNumber int) time.Duration

	// Reset forgets any per-wait state. Called when a pause wait ends.
	Reset()
}
