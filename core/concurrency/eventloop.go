// File: core/concurrency/eventloop.go
// Package concurrency implements a consumer event loop over an SPSC ring.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// One producer goroutine Posts, the loop goroutine drains in batches and
// dispatches to handlers with adaptive backoff when idle. Remaining items are
// drained to handlers before Run returns.

package concurrency

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-spsc/api"
)

// Handler consumes items delivered by an EventLoop.
type Handler[T any] interface {
	Handle(item T)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[T any] func(item T)

// Handle calls f(item).
func (f HandlerFunc[T]) Handle(item T) { f(item) }

// LoopOption configures an EventLoop.
type LoopOption func(*loopOptions)

type loopOptions struct {
	pinCPU     int
	maxBackoff time.Duration
	onPinError func(error)
}

// WithPinnedCPU pins the loop goroutine's OS thread to cpuID while Run executes.
func WithPinnedCPU(cpuID int, onError func(error)) LoopOption {
	return func(o *loopOptions) {
		o.pinCPU = cpuID
		o.onPinError = onError
	}
}

// WithMaxBackoff caps the idle sleep between empty polls.
func WithMaxBackoff(d time.Duration) LoopOption {
	return func(o *loopOptions) {
		if d > 0 {
			o.maxBackoff = d
		}
	}
}

// EventLoop feeds one consumer goroutine from one producer goroutine.
type EventLoop[T any] struct {
	queue     *RingBuffer[T]
	handlers  atomic.Pointer[[]Handler[T]]
	batchSize int
	opts      loopOptions
	stopCh    chan struct{}
	doneCh    chan struct{}
	running   atomic.Int32
	stopped   atomic.Int32
	backoffNs int64

	posted    atomic.Uint64
	rejected  atomic.Uint64
	handled   atomic.Uint64
	panics    atomic.Uint64
	startedAt atomic.Int64
}

// NewEventLoop creates a new EventLoop. queueSize is rounded up to a power of
// two (minimum 2).
func NewEventLoop[T any](batchSize int, queueSize uint64, opts ...LoopOption) (*EventLoop[T], error) {
	if batchSize <= 0 {
		batchSize = 16
	}
	q, err := New[T](nextPowerOfTwo(queueSize))
	if err != nil {
		return nil, err
	}
	o := loopOptions{pinCPU: -1, maxBackoff: time.Millisecond}
	for _, opt := range opts {
		opt(&o)
	}
	loop := &EventLoop[T]{
		queue:     q,
		batchSize: batchSize,
		opts:      o,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		backoffNs: 1,
	}
	empty := []Handler[T]{}
	loop.handlers.Store(&empty)
	return loop, nil
}

// Pending returns the advisory number of queued items.
func (el *EventLoop[T]) Pending() int {
	return el.queue.Size()
}

// Ring exposes the underlying ring for inspection.
func (el *EventLoop[T]) Ring() *RingBuffer[T] {
	return el.queue
}

// RegisterHandler adds h; safe from any goroutine.
func (el *EventLoop[T]) RegisterHandler(h Handler[T]) {
	for {
		old := el.handlers.Load()
		next := make([]Handler[T], 0, len(*old)+1)
		next = append(next, *old...)
		next = append(next, h)
		if el.handlers.CompareAndSwap(old, &next) {
			return
		}
	}
}

// UnregisterHandler removes h; safe from any goroutine. h must have a
// comparable dynamic type (pointer handlers are fine); comparing two
// HandlerFunc values panics.
func (el *EventLoop[T]) UnregisterHandler(h Handler[T]) {
	for {
		old := el.handlers.Load()
		next := make([]Handler[T], 0, len(*old))
		for _, hh := range *old {
			if hh != h {
				next = append(next, hh)
			}
		}
		if el.handlers.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Post enqueues item without blocking; false means full or stopped.
// Must be called from a single producer goroutine.
func (el *EventLoop[T]) Post(item T) bool {
	if el.stopped.Load() == 1 {
		el.rejected.Add(1)
		return false
	}
	if !el.queue.TryPush(item) {
		el.rejected.Add(1)
		return false
	}
	el.posted.Add(1)
	return true
}

// Run drains the ring until Stop. It returns api.ErrLoopAlreadyRunning if the
// loop is already running and ErrLoopStopped once Stop has been called.
func (el *EventLoop[T]) Run() error {
	if el.stopped.Load() == 1 {
		return ErrLoopStopped
	}
	if !el.running.CompareAndSwap(0, 1) {
		if el.stopped.Load() == 1 {
			return ErrLoopStopped
		}
		return api.ErrLoopAlreadyRunning
	}
	el.startedAt.Store(time.Now().UnixNano())
	if el.opts.pinCPU >= 0 {
		defer pinForRun(el.opts.pinCPU, el.opts.onPinError)()
	}
	defer close(el.doneCh)

	batch := make([]T, el.batchSize)
	for {
		select {
		case <-el.stopCh:
			el.queue.Drain(el.dispatch)
			return nil
		default:
			if el.processBatch(batch) == 0 {
				el.adaptiveBackoff()
			} else {
				el.backoffNs = 1
			}
		}
	}
}

// Stop signals the loop and waits until every queued item has been handed
// to the handlers. If no Run has claimed the loop yet, Stop claims it and
// drains on the calling goroutine, so a Run started later only returns
// ErrLoopStopped. The producer should stop posting first; an item posted
// concurrently with Stop may miss the final drain.
func (el *EventLoop[T]) Stop() {
	if !el.stopped.CompareAndSwap(0, 1) {
		<-el.doneCh
		return
	}
	close(el.stopCh)
	if el.running.CompareAndSwap(0, 1) {
		el.queue.Drain(el.dispatch)
		close(el.doneCh)
		return
	}
	<-el.doneCh
}

// Stats returns loop counters.
func (el *EventLoop[T]) Stats() api.LoopStats {
	var started time.Time
	if ns := el.startedAt.Load(); ns != 0 {
		started = time.Unix(0, ns)
	}
	return api.LoopStats{
		Posted:    el.posted.Load(),
		Rejected:  el.rejected.Load(),
		Handled:   el.handled.Load(),
		Panics:    el.panics.Load(),
		Pending:   el.queue.Size(),
		StartedAt: started,
	}
}

func (el *EventLoop[T]) processBatch(batch []T) int {
	n := el.queue.TryPopBatch(batch)
	for i := 0; i < n; i++ {
		el.dispatch(batch[i])
	}
	var zero T
	for i := 0; i < n; i++ {
		batch[i] = zero
	}
	return n
}

// dispatch runs every handler for item, recovering from panics to keep the
// loop alive.
func (el *EventLoop[T]) dispatch(item T) {
	for _, h := range *el.handlers.Load() {
		el.invoke(h, item)
	}
	el.handled.Add(1)
}

func (el *EventLoop[T]) invoke(h Handler[T], item T) {
	defer func() {
		if r := recover(); r != nil {
			el.panics.Add(1)
		}
	}()
	h.Handle(item)
}

func (el *EventLoop[T]) adaptiveBackoff() {
	backoff := el.backoffNs
	if backoff < 1000 {
		runtime.Gosched()
	} else {
		sleep := time.Duration(backoff)
		if sleep > el.opts.maxBackoff {
			sleep = el.opts.maxBackoff
		}
		select {
		case <-el.stopCh:
		case <-time.After(sleep):
		}
	}
	next := backoff * 2
	if next > int64(el.opts.maxBackoff) {
		next = int64(el.opts.maxBackoff)
	}
	el.backoffNs = next
}

func nextPowerOfTwo(v uint64) uint64 {
	if v < 2 {
		return 2
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	v++
	return v
}
