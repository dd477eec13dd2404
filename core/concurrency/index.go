// File: core/concurrency/index.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Ordered load/store helpers for ring indices.

package concurrency

import "sync/atomic"

// index is a ring position with explicit memory-ordering accessors.
//
// Go's sync/atomic operations are sequentially consistent, a superset of the
// acquire/release pairing the ring needs. LoadRelaxed is still an atomic load
// so introspection from a third goroutine never observes a torn value.
type index struct {
	v atomic.Uint64
}

// LoadRelaxed reads an index owned by the calling goroutine, or any index for
// advisory reporting.
//
//go:nosplit
func (i *index) LoadRelaxed() uint64 { return i.v.Load() }

// LoadAcquire reads the index owned by the other side. Writes the owner made
// before its StoreRelease are visible after this returns.
//
//go:nosplit
func (i *index) LoadAcquire() uint64 { return i.v.Load() }

// StoreRelease publishes a new position. Every prior write by this goroutine,
// in particular the slot write or read, happens-before an observing
// LoadAcquire.
//
//go:nosplit
func (i *index) StoreRelease(v uint64) { i.v.Store(v) }
