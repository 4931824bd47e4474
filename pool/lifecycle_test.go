package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_Signal(t *testing.T) {
	t.Run("initial state is none", func(t *testing.T) {
		p, err := Spawn(NewBuilder(Fixed(0)).Logger(quietLogger()), func(w *Worker[struct{}, struct{}]) struct{} {
			return struct{}{}
		})
		if err != nil {
			t.Fatalf("spawn failed: %v", err)
		}
		if got := p.Signal(); got != SignalNone {
			t.Errorf("expected %v, got %v", SignalNone, got)
		}
	})

	t.Run("transitions overwrite unconditionally", func(t *testing.T) {
		p, err := Spawn(NewBuilder(Fixed(0)).Logger(quietLogger()), func(w *Worker[struct{}, struct{}]) struct{} {
			return struct{}{}
		})
		if err != nil {
			t.Fatalf("spawn failed: %v", err)
		}

		steps := []struct {
			apply func()
			want  Signal
		}{
			{p.Play, SignalPlay},
			{p.Stop, SignalStop},
			{p.Stop, SignalStop},
			{p.Pause, SignalPause},
			{p.Play, SignalPlay},
		}
		for i, step := range steps {
			step.apply()
			if got := p.Signal(); got != step.want {
				t.Errorf("step %d: expected %v, got %v", i, step.want, got)
			}
		}
	})

	t.Run("string", func(t *testing.T) {
		cases := map[Signal]string{
			SignalNone:  "none",
			SignalPlay:  "play",
			SignalPause: "pause",
			SignalStop:  "stop",
			Signal(42):  "unknown",
		}
		for s, want := range cases {
			if s.String() != want {
				t.Errorf("Signal(%d).String() = %q, want %q", int(s), s.String(), want)
			}
		}
	})
}

func TestPool_Stop(t *testing.T) {
	runSetupTest(t, func(t *testing.T, s setupConfig) {
		p, err := Spawn(apply(NewBuilder(Fixed(5)), s), func(w *Worker[struct{}, struct{}]) int {
			if w.Index() == 0 {
				if err := w.Send(struct{}{}); err != nil {
					panic(err)
				}
			}

			polls := 0
			for !w.Check() {
				polls++
				time.Sleep(time.Millisecond)
			}
			return polls
		})
		if err != nil {
			t.Fatalf("spawn failed: %v", err)
		}

		if _, err := p.Receiver().Recv(t.Context()); err != nil {
			t.Fatalf("recv failed: %v", err)
		}
		p.Stop()

		for _, r := range mustJoin(t, p) {
			if r.Error != nil {
				t.Errorf("worker %d failed: %v", r.Index, r.Error)
			}
		}
	})
}

func TestPool_CheckBeforeAnySignal(t *testing.T) {
	p, err := Spawn(NewBuilder(Fixed(3)).Logger(quietLogger()), func(w *Worker[struct{}, struct{}]) bool {
		return w.Check()
	})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}

	for _, r := range mustJoin(t, p) {
		if r.Value {
			t.Errorf("worker %d: Check returned true without a stop signal", r.Index)
		}
	}
}

// Blocking in Check while paused is the intended contract of the signal;
// these tests pin down that behaviour rather than an inherited one.
func TestPool_PauseBlocksUntilPlay(t *testing.T) {
	runSetupTest(t, func(t *testing.T, s setupConfig) {
		const workers = 4
		var progress [workers]atomic.Int64

		p, err := Spawn(apply(NewBuilder(Fixed(workers)), s), func(w *Worker[struct{}, struct{}]) struct{} {
			for !w.Check() {
				progress[w.Index()].Add(1)
				time.Sleep(200 * time.Microsecond)
			}
			return struct{}{}
		})
		if err != nil {
			t.Fatalf("spawn failed: %v", err)
		}

		waitForProgress := func() {
			t.Helper()
			deadline := time.Now().Add(5 * time.Second)
			for i := range progress {
				start := progress[i].Load()
				for progress[i].Load() == start {
					if time.Now().After(deadline) {
						t.Fatalf("worker %d made no progress", i)
					}
					time.Sleep(time.Millisecond)
				}
			}
		}

		waitForProgress()
		p.Pause()

		// Give every worker time to reach its next Check and block there.
		time.Sleep(50 * time.Millisecond)
		var frozen [workers]int64
		for i := range progress {
			frozen[i] = progress[i].Load()
		}
		time.Sleep(50 * time.Millisecond)
		for i := range progress {
			if got := progress[i].Load(); got != frozen[i] {
				t.Errorf("worker %d advanced from %d to %d while paused", i, frozen[i], got)
			}
		}

		p.Play()
		waitForProgress()

		p.Stop()
		for _, r := range mustJoin(t, p) {
			if r.Error != nil {
				t.Errorf("worker %d failed: %v", r.Index, r.Error)
			}
		}
	})
}

func TestPool_ResumeWithinPollInterval(t *testing.T) {
	const interval = 20 * time.Millisecond

	entered := make(chan struct{})
	resumed := make(chan time.Time, 1)

	b := NewBuilder(Fixed(1)).PollInterval(interval).Logger(quietLogger())
	p, err := Spawn(b, func(w *Worker[struct{}, struct{}]) bool {
		for w.Signal() != SignalPause {
			time.Sleep(time.Millisecond)
		}
		close(entered)
		stop := w.Check()
		resumed <- time.Now()
		return stop
	})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}

	p.Pause()
	<-entered
	time.Sleep(3 * interval)

	playedAt := time.Now()
	p.Play()

	select {
	case at := <-resumed:
		// One interval plus scheduling slack.
		if lag := at.Sub(playedAt); lag > interval+250*time.Millisecond {
			t.Errorf("worker resumed %v after play, poll interval is %v", lag, interval)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("worker never resumed")
	}

	results := mustJoin(t, p)
	if results[0].Value {
		t.Error("Check after play should report false")
	}
}

func TestPool_StopReleasesPausedWorkers(t *testing.T) {
	runSetupTest(t, func(t *testing.T, s setupConfig) {
		var paused atomic.Int32

		p, err := Spawn(apply(NewBuilder(Fixed(3)), s), func(w *Worker[struct{}, struct{}]) bool {
			for w.Signal() != SignalPause {
				time.Sleep(time.Millisecond)
			}
			paused.Add(1)
			return w.Check()
		})
		if err != nil {
			t.Fatalf("spawn failed: %v", err)
		}

		p.Pause()
		for paused.Load() < 3 {
			time.Sleep(time.Millisecond)
		}
		time.Sleep(10 * time.Millisecond)
		p.Stop()

		for _, r := range mustJoin(t, p) {
			if !r.Value {
				t.Errorf("worker %d: expected Check to report stop", r.Index)
			}
		}
	})
}

func TestPool_CloseReleasesPausedWorkers(t *testing.T) {
	var paused atomic.Int32

	p, err := Spawn(NewBuilder(Fixed(2)).Logger(quietLogger()), func(w *Worker[struct{}, struct{}]) bool {
		for w.Signal() != SignalPause {
			time.Sleep(time.Millisecond)
		}
		paused.Add(1)
		return w.Check()
	})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}

	p.Pause()
	for paused.Load() < 2 {
		time.Sleep(time.Millisecond)
	}
	p.Close()

	for _, r := range mustJoin(t, p) {
		if !r.Value {
			t.Errorf("worker %d: expected Check to report stop after close", r.Index)
		}
	}
}

func TestWorker_CheckContext(t *testing.T) {
	p, err := Spawn(NewBuilder(Fixed(1)).Logger(quietLogger()), func(w *Worker[struct{}, struct{}]) error {
		for w.Signal() != SignalPause {
			time.Sleep(time.Millisecond)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		stop, err := w.CheckContext(ctx)
		if stop {
			return errors.New("unexpected stop")
		}
		return err
	})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}

	p.Pause()
	results := mustJoin(t, p)
	if !errors.Is(results[0].Value, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", results[0].Value)
	}
}

func TestPool_ZeroWorkers(t *testing.T) {
	p, err := Spawn(WithData(Fixed(0), "payload").Logger(quietLogger()), func(w *Worker[string, struct{}]) int {
		t.Error("no worker should run")
		return 0
	})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}

	if p.MaxThreads() != 0 {
		t.Errorf("expected 0 threads, got %d", p.MaxThreads())
	}
	if results := mustJoin(t, p); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
	data, ok := p.Join()
	if !ok || data != "payload" {
		t.Errorf("expected payload back, got %q (ok=%v)", data, ok)
	}
}

func TestPool_WaitTimeout(t *testing.T) {
	p, err := Spawn(NewBuilder(Fixed(2)).Logger(quietLogger()), func(w *Worker[struct{}, struct{}]) struct{} {
		for !w.Check() {
			time.Sleep(time.Millisecond)
		}
		return struct{}{}
	})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}

	if err := p.WaitTimeout(20 * time.Millisecond); !errors.Is(err, ErrJoinTimeout) {
		t.Errorf("expected ErrJoinTimeout, got %v", err)
	}

	p.Stop()
	if err := p.WaitTimeout(5 * time.Second); err != nil {
		t.Errorf("expected workers to finish after stop, got %v", err)
	}

	select {
	case <-p.Done():
	default:
		t.Error("Done should be closed after workers finish")
	}
}

func TestBuilder_SpawnTwice(t *testing.T) {
	b := NewBuilder(Fixed(1)).Logger(quietLogger())
	fn := func(w *Worker[struct{}, struct{}]) struct{} { return struct{}{} }

	p, err := Spawn(b, fn)
	if err != nil {
		t.Fatalf("first spawn failed: %v", err)
	}
	mustJoin(t, p)

	if _, err := Spawn(b, fn); !errors.Is(err, ErrAlreadySpawned) {
		t.Errorf("expected ErrAlreadySpawned, got %v", err)
	}
}

func TestPool_JoinIterStopsEarly(t *testing.T) {
	p, err := Spawn(NewBuilder(Fixed(4)).Logger(quietLogger()), func(w *Worker[struct{}, struct{}]) int {
		return w.Index()
	})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}

	for r := range p.JoinIter() {
		if r.Index != 0 {
			t.Errorf("expected the first result to be worker 0, got %d", r.Index)
		}
		break
	}

	if got := len(p.JoinAll()); got != 4 {
		t.Errorf("expected all 4 results to stay available, got %d", got)
	}
}
