package pool

import (
	"context"
	"iter"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/utkarsh5026/threadlake/internal/cpu"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Pool is a fixed set of workers launched once with the same Runner.
//
// The coordinator (whoever holds the Pool) steers workers with Play, Pause
// and Stop, reads their messages from Receiver, and collects one Result per
// worker with Join, JoinIter or JoinAll. Workers cannot be added after spawn
// and a running worker cannot be cancelled on its own; cancellation is
// cooperative through Worker.Check.
//
// Type parameters:
//   - D: The shared payload type
//   - R: The per-worker result type
//   - M: The message type workers send to the coordinator
type Pool[D, R, M any] struct {
	id         uint64
	maxThreads int
	names      []string
	handles    []*handle[R]

	signal  *signalCell
	inbox   *Receiver[M]
	data    *Shared[D]
	limiter *rate.Limiter
	conf    *poolConfig
	logger  *slog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{} // closed when every worker has returned
	spawned atomic.Bool
}

// handle tracks one spawned worker.
type handle[R any] struct {
	index  int
	name   string
	id     ThreadID
	done   chan struct{}
	result Result[R]
}

func newPool[D, R, M any](maxThreads int, data D, names []string, conf *poolConfig) *Pool[D, R, M] {
	id := nextPoolID()
	ctx, cancel := context.WithCancel(context.Background())

	return &Pool[D, R, M]{
		id:         id,
		maxThreads: maxThreads,
		names:      names,
		handles:    make([]*handle[R], 0, maxThreads),
		signal:     &signalCell{},
		inbox:      newReceiver[M](),
		data:       newShared(data),
		limiter:    conf.limiter(),
		conf:       conf,
		logger:     conf.log().With("pool", conf.label),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// spawn launches one worker per index. It can only succeed once.
func (p *Pool[D, R, M]) spawn(r Runner[D, R, M]) error {
	if !p.spawned.CompareAndSwap(false, true) {
		return ErrAlreadySpawned
	}

	var g errgroup.Group

	for i := range p.maxThreads {
		h := &handle[R]{
			index: i,
			name:  p.names[i],
			id:    nextThreadID(),
			done:  make(chan struct{}),
		}
		h.result.Index = i
		h.result.Name = h.name
		p.handles = append(p.handles, h)

		w := &Worker[D, M]{
			pool:    p.id,
			index:   i,
			count:   p.maxThreads,
			name:    h.name,
			id:      h.id,
			cpu:     -1,
			signal:  p.signal,
			inbox:   p.inbox,
			data:    p.data.Clone(),
			ctx:     p.ctx,
			limiter: p.limiter,
			backoff: p.conf.backoff(),
			logger:  p.logger.With("worker", h.name, "index", i),
		}

		g.Go(func() error {
			p.run(h, w, r)
			return nil
		})
	}

	go func() {
		defer close(p.done)
		_ = g.Wait()
	}()

	p.logger.Info("pool spawned", "workers", p.maxThreads)
	return nil
}

// run executes r for one worker and records its outcome. A panic or early
// goroutine exit is captured in the handle's Result; siblings keep running.
func (p *Pool[D, R, M]) run(h *handle[R], w *Worker[D, M], r Runner[D, R, M]) {
	defer close(h.done)
	defer w.exit()

	if p.conf.pinWorkers {
		cpuID, cleanup := cpu.SetupWorkerAffinity(h.index)
		defer cleanup()
		w.cpu = cpuID
	}

	returned := false
	defer func() {
		if rec := recover(); rec != nil {
			perr := newPanicError(h.index, h.name, rec)
			h.result.Error = perr
			w.logger.Error("worker panicked", "panic", rec, "stack", string(perr.Stack))
			return
		}
		if !returned {
			h.result.Error = ErrWorkerAborted
			w.logger.Warn("worker exited without returning")
		}
	}()

	w.logger.Debug("worker started", "cpu", w.cpu)
	h.result.Value = r.Run(w)
	returned = true
	w.logger.Debug("worker finished")
}

// Play sets the signal to SignalPlay, releasing paused workers.
//
// Like Pause and Stop it overwrites the signal unconditionally and only
// affects workers that call Worker.Check.
func (p *Pool[D, R, M]) Play() { p.setSignal(SignalPlay) }

// Pause sets the signal to SignalPause; workers block in their next Check.
// Pausing after Stop replaces the stop request for workers that have not yet
// observed it.
func (p *Pool[D, R, M]) Pause() { p.setSignal(SignalPause) }

// Stop sets the signal to SignalStop; Worker.Check returns true from now on.
func (p *Pool[D, R, M]) Stop() { p.setSignal(SignalStop) }

// Signal returns the current run state.
func (p *Pool[D, R, M]) Signal() Signal { return p.signal.load() }

func (p *Pool[D, R, M]) setSignal(s Signal) {
	prev := p.signal.swap(s)
	p.logger.Debug("signal changed", "from", prev, "to", s)
}

// Wait blocks until every worker has returned. Results stay available.
func (p *Pool[D, R, M]) Wait() { <-p.done }

// WaitTimeout is Wait bounded by timeout; a non-positive timeout waits
// forever. It returns ErrJoinTimeout when workers are still running.
func (p *Pool[D, R, M]) WaitTimeout(timeout time.Duration) error {
	return waitUntil(p.done, timeout)
}

// Done is closed once every worker has returned.
func (p *Pool[D, R, M]) Done() <-chan struct{} { return p.done }

// JoinIter yields one Result per worker in index order, blocking on each
// worker in turn.
func (p *Pool[D, R, M]) JoinIter() iter.Seq[Result[R]] {
	return func(yield func(Result[R]) bool) {
		for _, h := range p.handles {
			<-h.done
			if !yield(h.result) {
				return
			}
		}
	}
}

// JoinAll waits for every worker and returns their Results in index order.
func (p *Pool[D, R, M]) JoinAll() []Result[R] {
	results := make([]Result[R], 0, len(p.handles))
	for r := range p.JoinIter() {
		results = append(results, r)
	}
	return results
}

// Join waits for every worker, then tries to take the payload back. It
// succeeds only if the pool holds the last reference; references handed out
// by Shared and not yet released make it report false, in which case the
// payload is still readable through Data.
func (p *Pool[D, R, M]) Join() (D, bool) {
	p.Wait()

	data, ok := p.data.tryUnwrap()
	if !ok {
		p.logger.Warn("payload still shared after join", "refs", p.data.Refs())
	}
	return data, ok
}

// Receiver returns the coordinator's end of the message stream.
func (p *Pool[D, R, M]) Receiver() *Receiver[M] { return p.inbox }

// Threads yields each worker's identity and name in index order.
func (p *Pool[D, R, M]) Threads() iter.Seq2[ThreadID, string] {
	return func(yield func(ThreadID, string) bool) {
		for _, h := range p.handles {
			if !yield(h.id, h.name) {
				return
			}
		}
	}
}

// MaxThreads returns the number of workers the policy resolved to.
func (p *Pool[D, R, M]) MaxThreads() int { return p.maxThreads }

// Names returns a copy of the resolved worker names.
func (p *Pool[D, R, M]) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Data returns the shared payload.
func (p *Pool[D, R, M]) Data() D { return p.data.Get() }

// Shared returns a new counted reference to the payload. Release it before
// Join, or Join cannot reclaim the payload.
func (p *Pool[D, R, M]) Shared() *Shared[D] { return p.data.Clone() }

// Close tears down the coordinator side: the Receiver is closed, later Sends
// fail with ErrReceiverClosed, and workers blocked in a paused Check return
// true. Close does not wait for workers.
func (p *Pool[D, R, M]) Close() {
	p.cancel()
	p.inbox.Close()
}
