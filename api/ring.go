// Package api
// Author: momentics@gmail.com
//
// Lock-free ring buffer contract for single-producer/single-consumer hand-off.

package api

// Ring is the SPSC ring buffer contract.
//
// TryPush and TryPop are reserved to the producer and the consumer goroutine
// respectively. Empty, Full, Size and Snapshot may be called from anywhere and
// return a state that was true at some point no later than the call.
type Ring[T any] interface {
	// TryPush adds an item, returns false if full.
	TryPush(item T) bool
	// TryPop removes the oldest item, returns false if empty.
	TryPop() (T, bool)
	// Empty reports whether no items are visible.
	Empty() bool
	// Full reports whether no free slot is visible.
	Full() bool
	// Size returns the current number of items.
	Size() int
	// Capacity returns usable capacity (slot count minus one).
	Capacity() int
	// BufferSize returns the raw slot count.
	BufferSize() int
}

// Inspector exposes read-only, advisory ring state.
type Inspector interface {
	Snapshot() Snapshot
}
