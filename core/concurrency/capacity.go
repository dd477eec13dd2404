// File: core/concurrency/capacity.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Compile-time ring capacities.

package concurrency

// Capacity selects a ring slot count at the type level. The set of
// implementations is closed: every one is a power of two greater than one, so
// NewFixed cannot be instantiated with an invalid size.
type Capacity interface {
	slots() uint64
}

type (
	Cap2     struct{}
	Cap4     struct{}
	Cap8     struct{}
	Cap16    struct{}
	Cap32    struct{}
	Cap64    struct{}
	Cap128   struct{}
	Cap256   struct{}
	Cap512   struct{}
	Cap1024  struct{}
	Cap2048  struct{}
	Cap4096  struct{}
	Cap8192  struct{}
	Cap16384 struct{}
	Cap32768 struct{}
	Cap65536 struct{}
)

func (Cap2) slots() uint64     { return 1 << 1 }
func (Cap4) slots() uint64     { return 1 << 2 }
func (Cap8) slots() uint64     { return 1 << 3 }
func (Cap16) slots() uint64    { return 1 << 4 }
func (Cap32) slots() uint64    { return 1 << 5 }
func (Cap64) slots() uint64    { return 1 << 6 }
func (Cap128) slots() uint64   { return 1 << 7 }
func (Cap256) slots() uint64   { return 1 << 8 }
func (Cap512) slots() uint64   { return 1 << 9 }
func (Cap1024) slots() uint64  { return 1 << 10 }
func (Cap2048) slots() uint64  { return 1 << 11 }
func (Cap4096) slots() uint64  { return 1 << 12 }
func (Cap8192) slots() uint64  { return 1 << 13 }
func (Cap16384) slots() uint64 { return 1 << 14 }
func (Cap32768) slots() uint64 { return 1 << 15 }
func (Cap65536) slots() uint64 { return 1 << 16 }

// validCapacity reports whether size is a power of two greater than one.
func validCapacity(size uint64) bool {
	return size > 1 && size&(size-1) == 0
}
