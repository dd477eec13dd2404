// File: core/concurrency/backoff.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Caller-side retry policies for TryPush/TryPop. The ring itself never waits.

package concurrency

import (
	"context"
	"runtime"
	"time"
)

// Backoff escalates from busy spinning to yielding to sleeping.
// A Backoff is owned by one goroutine; the zero value uses DefaultBackoff
// limits.
type Backoff struct {
	Spins    int           // attempts before the first yield
	Yields   int           // yields before the first sleep
	MinSleep time.Duration // first sleep
	MaxSleep time.Duration // sleep cap

	attempt int
	sleep   time.Duration
}

// DefaultBackoff mirrors the event loop idle policy.
func DefaultBackoff() Backoff {
	return Backoff{
		Spins:    64,
		Yields:   64,
		MinSleep: time.Microsecond,
		MaxSleep: time.Millisecond,
	}
}

// Wait performs one backoff step.
func (b *Backoff) Wait() {
	if b.Spins == 0 && b.Yields == 0 && b.MaxSleep == 0 {
		*b = DefaultBackoff()
	}
	b.attempt++
	switch {
	case b.attempt <= b.Spins:
		return
	case b.attempt <= b.Spins+b.Yields:
		runtime.Gosched()
		return
	}
	if b.sleep < b.MinSleep {
		b.sleep = b.MinSleep
	}
	time.Sleep(b.sleep)
	b.sleep *= 2
	if b.sleep > b.MaxSleep {
		b.sleep = b.MaxSleep
	}
}

// Reset returns the backoff to the spinning phase after progress.
func (b *Backoff) Reset() {
	b.attempt = 0
	b.sleep = 0
}

// PushWait retries TryPush until it succeeds or ctx is done, in which case
// ctx.Err() is returned and item was not enqueued. Producer only.
func PushWait[T any](ctx context.Context, r *RingBuffer[T], item T, b *Backoff) error {
	if b == nil {
		bo := DefaultBackoff()
		b = &bo
	}
	for !r.TryPush(item) {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.Wait()
	}
	b.Reset()
	return nil
}

// PopWait retries TryPop until an item arrives or ctx is done. Consumer only.
func PopWait[T any](ctx context.Context, r *RingBuffer[T], b *Backoff) (T, error) {
	if b == nil {
		bo := DefaultBackoff()
		b = &bo
	}
	for {
		if item, ok := r.TryPop(); ok {
			b.Reset()
			return item, nil
		}
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, err
		}
		b.Wait()
	}
}
