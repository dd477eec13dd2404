// File: core/concurrency/ring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// RingBuffer is a bounded SPSC circular buffer with atomic head/tail,
// padded to prevent false sharing.
// Implements api.Ring for cross-package consistency.

package concurrency

import (
	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-spsc/api"
)

// Ensure compile-time interface compliance.
var (
	_ api.Ring[any] = (*RingBuffer[any])(nil)
	_ api.Inspector = (*RingBuffer[any])(nil)
)

// RingBuffer is a lock-free, wait-free ring buffer for exactly one producer
// goroutine and one consumer goroutine.
//
// head is written only by the consumer, tail only by the producer. Each side
// reads its own index relaxed and the other side's index with acquire, and
// publishes with release. A RingBuffer must not be copied; share the pointer.
type RingBuffer[T any] struct {
	noCopy noCopy

	_        cpu.CacheLinePad
	head     index // next slot to read, consumer-owned
	consumer sideGuard
	_        cpu.CacheLinePad
	tail     index // next slot to write, producer-owned
	producer sideGuard
	_        cpu.CacheLinePad
	mask     uint64
	buf      []T
	_        cpu.CacheLinePad
}

// New allocates a ring with size slots. size must be a power of two greater
// than one; usable capacity is size-1.
func New[T any](size uint64) (*RingBuffer[T], error) {
	if !validCapacity(size) {
		return nil, invalidCapacity(size)
	}
	return newRing[T](size), nil
}

// MustNew is like New but panics on an invalid size.
func MustNew[T any](size uint64) *RingBuffer[T] {
	r, err := New[T](size)
	if err != nil {
		panic(err)
	}
	return r
}

// NewFixed allocates a ring whose slot count is fixed by the capacity type,
// e.g. NewFixed[int, Cap1024]().
func NewFixed[T any, C Capacity]() *RingBuffer[T] {
	var c C
	return newRing[T](c.slots())
}

func newRing[T any](size uint64) *RingBuffer[T] {
	return &RingBuffer[T]{
		mask: size - 1,
		buf:  make([]T, size),
	}
}

// TryPush copies item into the next free slot. It returns false, leaving the
// ring untouched, when the ring is full. Producer only.
func (r *RingBuffer[T]) TryPush(item T) bool {
	r.producer.enter("producer")
	tail := r.tail.LoadRelaxed()
	next := (tail + 1) & r.mask
	if next == r.head.LoadAcquire() {
		r.producer.exit()
		return false
	}
	r.buf[tail] = item
	r.tail.StoreRelease(next)
	r.producer.exit()
	return true
}

// TryPushBatch pushes the longest prefix of items that fits and returns its
// length. One acquire and one release cover the whole batch. Producer only.
func (r *RingBuffer[T]) TryPushBatch(items []T) int {
	if len(items) == 0 {
		return 0
	}
	r.producer.enter("producer")
	tail := r.tail.LoadRelaxed()
	free := (r.head.LoadAcquire() - tail - 1) & r.mask
	n := min(uint64(len(items)), free)
	for i := uint64(0); i < n; i++ {
		r.buf[(tail+i)&r.mask] = items[i]
	}
	if n > 0 {
		r.tail.StoreRelease((tail + n) & r.mask)
	}
	r.producer.exit()
	return int(n)
}

// TryPop removes the oldest item. ok is false when the ring is empty.
// The vacated slot is reset to the zero value before it is released to the
// producer. Consumer only.
func (r *RingBuffer[T]) TryPop() (item T, ok bool) {
	r.consumer.enter("consumer")
	head := r.head.LoadRelaxed()
	if head == r.tail.LoadAcquire() {
		r.consumer.exit()
		return item, false
	}
	var zero T
	item = r.buf[head]
	r.buf[head] = zero
	r.head.StoreRelease((head + 1) & r.mask)
	r.consumer.exit()
	return item, true
}

// TryPopBatch pops up to len(dst) items into dst and returns how many were
// written. Consumer only.
func (r *RingBuffer[T]) TryPopBatch(dst []T) int {
	if len(dst) == 0 {
		return 0
	}
	r.consumer.enter("consumer")
	head := r.head.LoadRelaxed()
	avail := (r.tail.LoadAcquire() - head) & r.mask
	n := min(uint64(len(dst)), avail)
	var zero T
	for i := uint64(0); i < n; i++ {
		idx := (head + i) & r.mask
		dst[i] = r.buf[idx]
		r.buf[idx] = zero
	}
	if n > 0 {
		r.head.StoreRelease((head + n) & r.mask)
	}
	r.consumer.exit()
	return int(n)
}

// Drain pops every item visible at the time of the call and hands each to fn
// in FIFO order. Items are released from the ring before fn runs, so a
// panicking fn leaves the indices consistent. Consumer only.
//
// The ring never releases live items on its own; callers whose T owns
// external resources drain before dropping the last reference.
func (r *RingBuffer[T]) Drain(fn func(T)) int {
	head := r.head.LoadRelaxed()
	avail := (r.tail.LoadAcquire() - head) & r.mask
	for i := uint64(0); i < avail; i++ {
		item, ok := r.TryPop()
		if !ok {
			return int(i)
		}
		if fn != nil {
			fn(item)
		}
	}
	return int(avail)
}

// Empty reports whether the ring appeared empty during the call.
func (r *RingBuffer[T]) Empty() bool {
	return r.head.LoadRelaxed() == r.tail.LoadRelaxed()
}

// Full reports whether the ring appeared full during the call.
func (r *RingBuffer[T]) Full() bool {
	next := (r.tail.LoadRelaxed() + 1) & r.mask
	return next == r.head.LoadRelaxed()
}

// Size returns the approximate number of items, always in [0, Capacity()].
func (r *RingBuffer[T]) Size() int {
	head := r.head.LoadRelaxed()
	tail := r.tail.LoadRelaxed()
	return int((tail - head) & r.mask)
}

// Capacity returns the usable capacity, BufferSize()-1.
func (r *RingBuffer[T]) Capacity() int {
	return int(r.mask)
}

// BufferSize returns the raw slot count.
func (r *RingBuffer[T]) BufferSize() int {
	return len(r.buf)
}

// Snapshot returns head, tail and derived size read with relaxed loads.
func (r *RingBuffer[T]) Snapshot() api.Snapshot {
	head := r.head.LoadRelaxed()
	tail := r.tail.LoadRelaxed()
	return api.Snapshot{
		Head:       head,
		Tail:       tail,
		Size:       int((tail - head) & r.mask),
		Capacity:   r.Capacity(),
		BufferSize: r.BufferSize(),
	}
}
