package pool

import (
	"log/slog"
	"time"

	"github.com/utkarsh5026/threadlake/internal/algorithms"
	"github.com/utkarsh5026/threadlake/internal/cpu"
	"golang.org/x/time/rate"
)

// PollBackoff selects how a paused worker spaces its reads of the signal.
type PollBackoff = algorithms.BackoffType

const (
	// PollFixed waits the full poll interval between reads (default).
	PollFixed = algorithms.BackoffFixed
	// PollExponential starts short and doubles up to the poll interval.
	PollExponential = algorithms.BackoffExponential
	// PollJittered is PollExponential with random spread.
	PollJittered = algorithms.BackoffJittered
)

const (
	defaultLabel        = "threadlake"
	defaultPollInterval = 10 * time.Millisecond
	defaultPollInitial  = 100 * time.Microsecond
	defaultJitterFactor = 0.1
)

type poolConfig struct {
	label        string
	namer        ThreadName
	pollInterval time.Duration
	pollInitial  time.Duration
	pollBackoff  PollBackoff
	logger       *slog.Logger
	pinWorkers   bool
	messageRate  float64
	messageBurst int
	parallelism  func() (int, error)
}

func defaultConfig() poolConfig {
	return poolConfig{
		label:        defaultLabel,
		pollInterval: defaultPollInterval,
		pollInitial:  defaultPollInitial,
		pollBackoff:  PollFixed,
		parallelism:  cpu.AvailableParallelism,
	}
}

func (c *poolConfig) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

// names resolves one name per worker.
func (c *poolConfig) names(n int) []string {
	namer := c.namer
	if namer == nil {
		namer = defaultNames(c.label)
	}

	names := make([]string, n)
	for i := range names {
		names[i] = namer.ThreadName(i)
	}
	return names
}

// limiter returns the shared message limiter, or nil when sends are unlimited.
func (c *poolConfig) limiter() *rate.Limiter {
	if c.messageRate <= 0 || c.messageBurst <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(c.messageRate), c.messageBurst)
}

// backoff builds one poll strategy; each worker gets its own.
func (c *poolConfig) backoff() algorithms.BackoffStrategy {
	return algorithms.NewBackoffStrategy(c.pollBackoff, c.pollInitial, c.pollInterval, defaultJitterFactor)
}
