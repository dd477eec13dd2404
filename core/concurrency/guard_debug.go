//go:build spscdebug

// File: core/concurrency/guard_debug.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Ownership guard enabled with -tags spscdebug. Detects a second producer or
// consumer entering the ring while the first one is still inside an operation.

package concurrency

import (
	"sync/atomic"

	"github.com/momentics/hioload-spsc/api"
)

const guardEnabled = true

type sideGuard struct {
	busy atomic.Uint32
}

func (g *sideGuard) enter(side string) {
	if !g.busy.CompareAndSwap(0, 1) {
		panic(api.Wrap(api.ErrCodeMisuse, api.ErrConcurrentMisuse).WithContext("side", side))
	}
}

func (g *sideGuard) exit() {
	g.busy.Store(0)
}
