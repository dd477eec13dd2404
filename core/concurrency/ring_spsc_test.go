package concurrency

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestRingBuffer_SPSCOrder pushes 50,000 sequential integers from one
// goroutine and checks the other receives all of them in order.
func TestRingBuffer_SPSCOrder(t *testing.T) {
	const numItems = 50000
	r := MustNew[int](1024)
	received := make([]int, 0, numItems)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < numItems; i++ {
			for !r.TryPush(i) {
				runtime.Gosched()
			}
		}
	}()
	go func() {
		defer wg.Done()
		for len(received) < numItems {
			if v, ok := r.TryPop(); ok {
				received = append(received, v)
			} else {
				runtime.Gosched()
			}
		}
	}()
	wg.Wait()

	if len(received) != numItems {
		t.Fatalf("received %d items, want %d", len(received), numItems)
	}
	for i, v := range received {
		if v != i {
			t.Fatalf("received[%d]=%d", i, v)
		}
	}
}

// TestRingBuffer_SPSCBatchOrder runs the same hand-off through the batch API
// on a small ring to force frequent wraparound.
func TestRingBuffer_SPSCBatchOrder(t *testing.T) {
	const numItems = 50000
	r := MustNew[uint64](16)
	var wg sync.WaitGroup
	var bad atomic.Uint64
	wg.Add(2)
	go func() {
		defer wg.Done()
		buf := make([]uint64, 5)
		var next uint64
		for next < numItems {
			k := 0
			for ; k < len(buf) && next+uint64(k) < numItems; k++ {
				buf[k] = next + uint64(k)
			}
			pushed := r.TryPushBatch(buf[:k])
			next += uint64(pushed)
			if pushed == 0 {
				runtime.Gosched()
			}
		}
	}()
	go func() {
		defer wg.Done()
		buf := make([]uint64, 7)
		var expect uint64
		for expect < numItems {
			n := r.TryPopBatch(buf)
			for i := 0; i < n; i++ {
				if buf[i] != expect {
					bad.Store(expect + 1)
				}
				expect++
			}
			if n == 0 {
				runtime.Gosched()
			}
		}
	}()
	wg.Wait()
	if v := bad.Load(); v != 0 {
		t.Fatalf("out-of-order value near %d", v-1)
	}
}

type stamped struct {
	seq   int
	stamp int64
}

// TestRingBuffer_PayloadVisibility checks that multi-word payloads written
// before the tail publish are fully visible to the consumer.
func TestRingBuffer_PayloadVisibility(t *testing.T) {
	const total = 20000
	r := MustNew[stamped](256)
	var wg sync.WaitGroup
	var torn atomic.Int64
	torn.Store(-1)
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			v := stamped{seq: i, stamp: int64(i) * 7919}
			for !r.TryPush(v) {
				runtime.Gosched()
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < total; {
			v, ok := r.TryPop()
			if !ok {
				runtime.Gosched()
				continue
			}
			if v.seq != i || v.stamp != int64(i)*7919 {
				torn.CompareAndSwap(-1, int64(i))
			}
			i++
		}
	}()
	wg.Wait()
	if i := torn.Load(); i >= 0 {
		t.Fatalf("payload mismatch at item %d", i)
	}
}

// TestRingBuffer_ConcurrentIntrospection polls Empty/Full/Size/Snapshot from
// a third goroutine while the producer and consumer run.
func TestRingBuffer_ConcurrentIntrospection(t *testing.T) {
	const total = 30000
	r := MustNew[int](64)
	stop := make(chan struct{})
	var violations atomic.Int64
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			if sz := r.Size(); sz < 0 || sz > r.Capacity() {
				violations.Add(1)
			}
			s := r.Snapshot()
			if s.Head >= uint64(s.BufferSize) || s.Tail >= uint64(s.BufferSize) {
				violations.Add(1)
			}
			if s.Size < 0 || s.Size > s.Capacity {
				violations.Add(1)
			}
			_ = r.Empty()
			_ = r.Full()
		}
	}()

	var pc sync.WaitGroup
	pc.Add(2)
	go func() {
		defer pc.Done()
		for i := 0; i < total; i++ {
			for !r.TryPush(i) {
				runtime.Gosched()
			}
		}
	}()
	go func() {
		defer pc.Done()
		for got := 0; got < total; {
			if _, ok := r.TryPop(); ok {
				got++
			} else {
				runtime.Gosched()
			}
		}
	}()
	pc.Wait()
	close(stop)
	wg.Wait()

	if v := violations.Load(); v != 0 {
		t.Fatalf("%d out-of-range observations", v)
	}
	if !r.Empty() {
		t.Fatal("ring not empty after hand-off")
	}
}

// TestRingBuffer_TimedStress runs producer and consumer for a fixed window
// and verifies nothing is lost once the consumer drains.
func TestRingBuffer_TimedStress(t *testing.T) {
	if testing.Short() {
		t.Skip("timed stress skipped in short mode")
	}
	r := MustNew[uint64](2048)
	var running atomic.Bool
	running.Store(true)
	var pushed, popped atomic.Uint64
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var counter uint64
		for running.Load() {
			if r.TryPush(counter) {
				counter++
			} else {
				runtime.Gosched()
			}
		}
		pushed.Store(counter)
	}()
	go func() {
		defer wg.Done()
		var n uint64
		for running.Load() {
			if _, ok := r.TryPop(); ok {
				n++
			} else {
				runtime.Gosched()
			}
		}
		popped.Store(n)
	}()
	time.Sleep(200 * time.Millisecond)
	running.Store(false)
	wg.Wait()
	left := uint64(r.Drain(nil))
	if pushed.Load() != popped.Load()+left {
		t.Fatalf("pushed %d, popped %d + drained %d", pushed.Load(), popped.Load(), left)
	}
}
