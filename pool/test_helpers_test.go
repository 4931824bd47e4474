package pool

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

// setupConfig defines a test configuration for a pool
type setupConfig struct {
	name     string
	pin      bool
	backoff  PollBackoff
	interval time.Duration
}

// getAllSetups returns every pool configuration the behavioural tests run under
func getAllSetups() []setupConfig {
	return []setupConfig{
		{name: "Fixed", backoff: PollFixed, interval: 2 * time.Millisecond},
		{name: "Exponential", backoff: PollExponential, interval: 5 * time.Millisecond},
		{name: "Jittered", backoff: PollJittered, interval: 5 * time.Millisecond},
		{name: "Pinned", pin: true, backoff: PollFixed, interval: 2 * time.Millisecond},
	}
}

// apply configures b for s and silences logging
func apply[D any](b *Builder[D], s setupConfig) *Builder[D] {
	b.PollInterval(s.interval).
		PollBackoff(s.backoff, 100*time.Microsecond).
		Logger(quietLogger())
	if s.pin {
		b.PinWorkers()
	}
	return b
}

func runSetupTest(t *testing.T, testFunc func(t *testing.T, s setupConfig)) {
	for _, setup := range getAllSetups() {
		t.Run(setup.name, func(t *testing.T) {
			testFunc(t, setup)
		})
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedProbe reports n CPUs.
func fixedProbe(n int) func() (int, error) {
	return func() (int, error) { return n, nil }
}

// mustJoin waits for p with a deadline so a broken signal path fails the test
// instead of hanging it.
func mustJoin[D, R, M any](t *testing.T, p *Pool[D, R, M]) []Result[R] {
	t.Helper()
	if err := p.WaitTimeout(10 * time.Second); err != nil {
		p.Stop()
		p.Close()
		t.Fatalf("workers did not finish: %v", err)
	}
	return p.JoinAll()
}
