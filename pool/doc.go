// Package pool provides a fixed-size pool of workers that all run the same
// function once, share one payload, report back through a message stream, and
// can be paused, resumed or stopped by the coordinator.
//
// The primary type is Pool[D, R, M]: D is the shared payload, R the value each
// worker returns, and M the message type workers send to the coordinator.
// Pools are configured with a Builder and launched exactly once with Spawn.
//
// # Basic Usage
//
//	p, err := pool.Spawn(pool.NewBuilder(pool.Fixed(10)), func(w *pool.Worker[struct{}, struct{}]) int {
//	    return w.Range(1_000_005).Sum()
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	total := 0
//	for r := range p.JoinIter() {
//	    total += r.Value
//	}
//
// # Thread Counts
//
// The number of workers comes from a ThreadCount policy resolved against the
// CPUs the process may run on:
//
//   - Fixed(n): exactly n workers (0 is allowed and spawns nothing)
//   - FullParallelism: one worker per available CPU; fails with ErrParallelismUnknown if that is unknown
//   - PartialParallelism: one per available CPU minus one, leaving a core for the coordinator
//   - CountFunc: any func(available int, ok bool) int
//
// # Partitioning
//
// Partition(index, count, total) splits [0, total) into contiguous spans of
// width total/count; the last worker also takes the remainder. Inside a worker,
// Range, Split and SplitMut apply it to the worker's own index:
//
//	view := pool.Split(w, w.Data())
//	for i, v := range view.All() {
//	    if v != 0 {
//	        found = view.GlobalIndex(i)
//	    }
//	}
//
// # Writing Into Shared Data
//
// Wrap the payload in a Disjointer to let every worker write its own part of
// one slice without locks:
//
//	d := pool.NewDisjointer(make([]int, 100_000))
//	p, _ := pool.Spawn(pool.WithData(pool.FullParallelism, d), func(w *pool.Worker[*pool.Disjointer[int], struct{}]) struct{} {
//	    region := w.Data().Region(w)
//	    for i, x := range region.Pointers() {
//	        *x = region.GlobalIndex(i)
//	    }
//	    return struct{}{}
//	})
//	d, _ = p.Join()
//	filled := d.Take()
//
// Regions are only handed to live workers and are derived from Partition, so
// no two workers of a pool ever receive overlapping windows. Build with
// -tags debug to have every claim checked at run time.
//
// # Signals And Messages
//
// Play, Pause and Stop overwrite a pool-wide Signal. Workers observe it by
// calling Worker.Check, which returns true on Stop and blocks while paused.
// Worker.Send posts to the pool's Receiver, an unbounded FIFO the coordinator
// drains with Recv or TryRecv.
//
// # Error Handling
//
// A worker that panics does not affect its siblings: its Result carries a
// *PanicError with the recovered value and stack trace. Join reclaims the
// payload only when nothing else still references it.
package pool
