package benchmarks

import (
	"io"
	"log/slog"
	"time"

	"github.com/utkarsh5026/threadlake/pool"
)

// poolConfig defines a benchmark configuration for a pool
type poolConfig struct {
	name      string
	configure func(b *pool.Builder[struct{}]) *pool.Builder[struct{}]
}

// getAllConfigs returns every pool configuration the benchmarks compare
func getAllConfigs() []poolConfig {
	return []poolConfig{
		{
			name:      "Default",
			configure: func(b *pool.Builder[struct{}]) *pool.Builder[struct{}] { return b },
		},
		{
			name:      "Pinned",
			configure: func(b *pool.Builder[struct{}]) *pool.Builder[struct{}] { return b.PinWorkers() },
		},
		{
			name: "ExponentialPoll",
			configure: func(b *pool.Builder[struct{}]) *pool.Builder[struct{}] {
				return b.PollBackoff(pool.PollExponential, 50*time.Microsecond)
			},
		},
	}
}

// discardLogger keeps pool logging out of benchmark output
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sequentialSum is the single-goroutine baseline for the sum benchmarks
func sequentialSum(total int) int {
	sum := 0
	for i := range total {
		sum += i
	}
	return sum
}

// sequentialFill is the single-goroutine baseline for the fill benchmarks
func sequentialFill(items []uint64) {
	for i := range items {
		items[i] = uint64(i) * uint64(i)
	}
}
