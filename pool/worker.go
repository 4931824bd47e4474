package pool

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/utkarsh5026/threadlake/internal/algorithms"
	"golang.org/x/time/rate"
)

// Worker is the handle a pool passes to its Runner, one per worker. It is
// valid only for the duration of that call and must not be handed to other
// goroutines.
type Worker[D, M any] struct {
	pool  uint64
	index int
	count int
	name  string
	id    ThreadID
	cpu   int

	signal  *signalCell
	inbox   *Receiver[M]
	data    *Shared[D]
	ctx     context.Context
	limiter *rate.Limiter
	backoff algorithms.BackoffStrategy
	logger  *slog.Logger

	mu      sync.Mutex
	onExits []func()
}

// Index returns the worker's index in [0, Count).
func (w *Worker[D, M]) Index() int { return w.index }

// Count returns the number of workers in the pool.
func (w *Worker[D, M]) Count() int { return w.count }

// Name returns the worker's resolved name.
func (w *Worker[D, M]) Name() string { return w.name }

// ID returns the worker's process-unique identity.
func (w *Worker[D, M]) ID() ThreadID { return w.id }

// CPU returns the CPU the worker is pinned to, or -1 when it is not pinned.
func (w *Worker[D, M]) CPU() int { return w.cpu }

// Data returns the pool's shared payload. Workers must treat it as read-only;
// wrap the payload in a Disjointer to let workers write into it.
func (w *Worker[D, M]) Data() D { return w.data.Get() }

// Context is cancelled when the pool is closed.
func (w *Worker[D, M]) Context() context.Context { return w.ctx }

// Logger returns the pool logger scoped to this worker.
func (w *Worker[D, M]) Logger() *slog.Logger { return w.logger }

// Signal reads the current run state without blocking, even on SignalPause.
func (w *Worker[D, M]) Signal() Signal { return w.signal.load() }

// Range returns this worker's share of [0, total). total must not be negative.
func (w *Worker[D, M]) Range(total int) Span {
	sp, err := Partition(w.index, w.count, total)
	if err != nil {
		panic(fmt.Sprintf("pool: Worker.Range(%d): %v", total, err))
	}
	return sp
}

// Send posts msg to the pool's Receiver. It fails with ErrReceiverClosed once
// the pool has been closed. With a message rate configured, Send first waits
// for the pool-wide limiter.
func (w *Worker[D, M]) Send(msg M) error {
	if w.limiter != nil {
		if err := w.limiter.Wait(w.ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrReceiverClosed, err)
		}
	}
	return w.inbox.send(msg)
}

// Check reads the pool signal once. It returns true on Stop and false on None
// or Play. On Pause it blocks, polling the signal, until the coordinator plays
// or stops the pool; it also returns true if the pool is closed meanwhile.
// Workers that want to honour Stop or Pause must call Check periodically.
func (w *Worker[D, M]) Check() bool {
	stop, err := w.CheckContext(w.ctx)
	return stop || err != nil
}

// CheckContext is Check with the pause wait bounded by ctx. When ctx ends
// first it returns ctx.Err().
func (w *Worker[D, M]) CheckContext(ctx context.Context) (bool, error) {
	switch w.signal.load() {
	case SignalStop:
		return true, nil
	case SignalPause:
		return w.waitWhilePaused(ctx)
	default:
		return false, nil
	}
}

// waitWhilePaused polls the signal until it leaves SignalPause. The signal is
// read atomically on each poll and nothing is held while sleeping.
func (w *Worker[D, M]) waitWhilePaused(ctx context.Context) (bool, error) {
	defer w.backoff.Reset()
	w.logger.Debug("worker paused")

	for attempt := 0; ; attempt++ {
		timer := time.NewTimer(w.backoff.NextDelay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, ctx.Err()
		case <-timer.C:
		}

		switch w.signal.load() {
		case SignalPause:
			continue
		case SignalStop:
			w.logger.Debug("worker stopped while paused")
			return true, nil
		default:
			w.logger.Debug("worker resumed")
			return false, nil
		}
	}
}

func (w *Worker[D, M]) slot() slot {
	return slot{
		pool:   w.pool,
		index:  w.index,
		count:  w.count,
		onExit: w.atExit,
	}
}

func (w *Worker[D, M]) atExit(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onExits = append(w.onExits, fn)
}

// exit runs the registered exit hooks and drops the worker's payload reference.
func (w *Worker[D, M]) exit() {
	w.mu.Lock()
	hooks := w.onExits
	w.onExits = nil
	w.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	w.data.Release()
}
