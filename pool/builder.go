package pool

import (
	"log/slog"
	"time"
)

// Builder collects a pool's configuration. Nothing on a Builder starts a
// goroutine; workers are launched once, by Spawn.
//
// Example:
//
//	b := pool.WithData(pool.FullParallelism, items).
//	    Names(pool.NameFunc(func(i int) string { return fmt.Sprintf("scanner %d", i) })).
//	    PollInterval(5 * time.Millisecond)
//	p, err := pool.Spawn(b, func(w *pool.Worker[[]int, string]) int {
//	    return pool.Split(w, w.Data()).Len()
//	})
type Builder[D any] struct {
	policy  ThreadCount
	data    D
	conf    poolConfig
	spawned bool
}

// NewBuilder starts a builder for a pool without payload.
func NewBuilder(policy ThreadCount) *Builder[struct{}] {
	return WithData(policy, struct{}{})
}

// WithData starts a builder for a pool whose workers share data.
func WithData[D any](policy ThreadCount, data D) *Builder[D] {
	return &Builder[D]{
		policy: policy,
		data:   data,
		conf:   defaultConfig(),
	}
}

// Names sets how workers are named. Default: "<label> thread <index>".
func (b *Builder[D]) Names(names ThreadName) *Builder[D] {
	b.conf.namer = names
	return b
}

// Label sets the pool label used in default worker names and log records.
func (b *Builder[D]) Label(label string) *Builder[D] {
	if label != "" {
		b.conf.label = label
	}
	return b
}

// PollInterval sets the longest sleep between two signal reads of a paused
// worker. A worker blocked in Check resumes at most this long after Play.
// Default: 10ms.
func (b *Builder[D]) PollInterval(d time.Duration) *Builder[D] {
	if d > 0 {
		b.conf.pollInterval = d
	}
	return b
}

// PollBackoff sets how a paused worker spaces its signal reads. initial is the
// first sleep for PollExponential and PollJittered; sleeps never exceed the
// poll interval.
func (b *Builder[D]) PollBackoff(kind PollBackoff, initial time.Duration) *Builder[D] {
	b.conf.pollBackoff = kind
	if initial > 0 {
		b.conf.pollInitial = initial
	}
	return b
}

// Logger sets the structured logger. Default: slog.Default().
func (b *Builder[D]) Logger(logger *slog.Logger) *Builder[D] {
	b.conf.logger = logger
	return b
}

// PinWorkers locks every worker to its own OS thread and, where the platform
// allows, pins that thread to a CPU chosen by the worker index.
func (b *Builder[D]) PinWorkers() *Builder[D] {
	b.conf.pinWorkers = true
	return b
}

// MessageRate caps how fast workers, all together, may Send. perSecond is the
// sustained rate and burst the number of sends allowed at once. Non-positive
// values leave sends unlimited.
func (b *Builder[D]) MessageRate(perSecond float64, burst int) *Builder[D] {
	if perSecond > 0 && burst > 0 {
		b.conf.messageRate = perSecond
		b.conf.messageBurst = burst
	}
	return b
}

// Parallelism replaces the platform probe the thread-count policy is resolved
// against. Mostly useful in tests.
func (b *Builder[D]) Parallelism(probe func() (int, error)) *Builder[D] {
	if probe != nil {
		b.conf.parallelism = probe
	}
	return b
}

// Threads resolves the thread-count policy against the platform.
func (b *Builder[D]) Threads() (int, error) {
	available, err := b.conf.parallelism()
	return b.policy.Resolve(available, err)
}

// Spawn resolves the builder and launches the workers, each running fn once.
// It fails when the policy cannot be resolved, e.g. FullParallelism on a
// platform that cannot report its CPUs.
func Spawn[D, R, M any](b *Builder[D], fn func(w *Worker[D, M]) R) (*Pool[D, R, M], error) {
	return SpawnRunner[D, R, M](b, RunnerFunc[D, R, M](fn))
}

// SpawnRunner is Spawn for a Runner.
func SpawnRunner[D, R, M any](b *Builder[D], r Runner[D, R, M]) (*Pool[D, R, M], error) {
	if b.spawned {
		return nil, ErrAlreadySpawned
	}

	n, err := b.Threads()
	if err != nil {
		b.conf.log().Error("cannot resolve thread count", "error", err)
		return nil, err
	}
	b.spawned = true

	conf := b.conf
	p := newPool[D, R, M](n, b.data, conf.names(n), &conf)
	if err := p.spawn(r); err != nil {
		return nil, err
	}
	return p, nil
}

// MustSpawn is Spawn that panics when the pool cannot be built.
func MustSpawn[D, R, M any](b *Builder[D], fn func(w *Worker[D, M]) R) *Pool[D, R, M] {
	p, err := Spawn(b, fn)
	if err != nil {
		panic("pool: " + err.Error())
	}
	return p
}
