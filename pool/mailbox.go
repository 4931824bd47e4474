package pool

import (
	"context"
	"sync"

	"github.com/eapache/queue"
)

// Receiver is the coordinator's end of the worker message stream.
//
// Messages from all workers land in one unbounded FIFO, so Worker.Send never
// waits on a slow coordinator. Arrival order is the order sends completed;
// there is no ordering between the sends of different workers.
type Receiver[M any] struct {
	mu     sync.Mutex
	q      *queue.Queue
	closed bool
	ready  chan struct{} // cap 1, pinged when the queue becomes non-empty
	done   chan struct{} // closed by Close
}

func newReceiver[M any]() *Receiver[M] {
	return &Receiver[M]{
		q:     queue.New(),
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

func (r *Receiver[M]) notify() {
	select {
	case r.ready <- struct{}{}:
	default:
	}
}

func (r *Receiver[M]) send(msg M) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrReceiverClosed
	}
	r.q.Add(msg)
	r.mu.Unlock()

	r.notify()
	return nil
}

// pop removes the head of the queue. Must be called with r.mu held.
func (r *Receiver[M]) pop() (M, bool) {
	if r.q.Length() == 0 {
		var zero M
		return zero, false
	}
	msg, _ := r.q.Remove().(M) // comma-ok: a nil interface M was stored as nil
	if r.q.Length() > 0 {
		// Another receiver may be parked on ready.
		r.notify()
	}
	return msg, true
}

// TryRecv returns the next message without blocking.
func (r *Receiver[M]) TryRecv() (M, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pop()
}

// Recv blocks until a message arrives, ctx is done, or the receiver is
// closed, in which case it returns ErrReceiverClosed.
func (r *Receiver[M]) Recv(ctx context.Context) (M, error) {
	for {
		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			var zero M
			return zero, ErrReceiverClosed
		}
		msg, ok := r.pop()
		r.mu.Unlock()
		if ok {
			return msg, nil
		}

		select {
		case <-r.ready:
		case <-r.done:
		case <-ctx.Done():
			var zero M
			return zero, ctx.Err()
		}
	}
}

// Len returns the number of queued messages.
func (r *Receiver[M]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.q.Length()
}

// Drain removes and returns every queued message without blocking.
func (r *Receiver[M]) Drain() []M {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]M, 0, r.q.Length())
	for r.q.Length() > 0 {
		msg, _ := r.q.Remove().(M)
		out = append(out, msg)
	}
	return out
}

// Close tears down the receiving side. Queued messages are discarded and every
// later Worker.Send fails with ErrReceiverClosed. Close is idempotent.
func (r *Receiver[M]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	for r.q.Length() > 0 {
		r.q.Remove()
	}
	close(r.done)
}

// Closed reports whether Close has been called.
func (r *Receiver[M]) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
