// File: benchmarks/transfer.go
// Author: momentics <momentics@gmail.com>
//
// Producer/consumer hand-off loops shared by the scenarios.

package benchmarks

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-spsc/core/concurrency"
)

// transferStats describes one producer/consumer run.
type transferStats struct {
	pushed       uint64
	popped       uint64
	pushFailures uint64
	// outOfOrder counts values that did not follow their predecessor.
	outOfOrder uint64
	elapsed    time.Duration
	truncated  bool
}

func (s transferStats) consistent() bool {
	return s.outOfOrder == 0 && s.pushed == s.popped
}

// pinFunc pins the calling goroutine for role and returns the release func.
type pinFunc func(role string) func()

func noPin(string) func() { return func() {} }

// ringTransfer moves ops sequential values through ring from a producer
// goroutine to a consumer goroutine. The producer stops early when ctx ends.
func ringTransfer(ctx context.Context, ring *concurrency.RingBuffer[uint64], ops uint64, pin pinFunc) transferStats {
	var (
		st       transferStats
		wg       sync.WaitGroup
		stop     atomic.Bool
		done     atomic.Bool
		consumed uint64
		bad      uint64
	)
	release := context.AfterFunc(ctx, func() { stop.Store(true) })
	defer release()

	start := time.Now()
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer pin("producer")()
		var i uint64
		for i < ops && !stop.Load() {
			if ring.TryPush(i) {
				i++
				continue
			}
			st.pushFailures++
			runtime.Gosched()
		}
		st.pushed = i
		st.truncated = i < ops
		done.Store(true)
	}()
	go func() {
		defer wg.Done()
		defer pin("consumer")()
		check := func(v uint64) {
			if v != consumed {
				bad++
			}
			consumed++
		}
		for {
			if v, ok := ring.TryPop(); ok {
				check(v)
				continue
			}
			if done.Load() {
				ring.Drain(check)
				return
			}
			runtime.Gosched()
		}
	}()
	wg.Wait()
	st.elapsed = time.Since(start)
	st.popped = consumed
	st.outOfOrder = bad
	return st
}

// mutexTransfer runs the same hand-off through the mutex-guarded queue.
// The queue is unbounded, so the producer never fails.
func mutexTransfer(ctx context.Context, ops uint64, pin pinFunc) transferStats {
	var (
		st       transferStats
		wg       sync.WaitGroup
		stop     atomic.Bool
		done     atomic.Bool
		consumed uint64
		bad      uint64
	)
	release := context.AfterFunc(ctx, func() { stop.Store(true) })
	defer release()

	q := newMutexQueue()
	start := time.Now()
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer pin("producer")()
		var i uint64
		for ; i < ops && !stop.Load(); i++ {
			q.push(int(i))
		}
		st.pushed = i
		st.truncated = i < ops
		done.Store(true)
	}()
	go func() {
		defer wg.Done()
		defer pin("consumer")()
		for {
			// Loaded before the pop: an empty pop after done means drained.
			finished := done.Load()
			if v, ok := q.pop(); ok {
				if uint64(v) != consumed {
					bad++
				}
				consumed++
				continue
			}
			if finished {
				return
			}
			runtime.Gosched()
		}
	}()
	wg.Wait()
	st.elapsed = time.Since(start)
	st.popped = consumed
	st.outOfOrder = bad
	return st
}
