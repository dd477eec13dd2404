// File: core/concurrency/pin.go
// Author: momentics <momentics@gmail.com>
//
// Goroutine-to-CPU pinning for producer and consumer threads.

package concurrency

import (
	"runtime"

	"github.com/momentics/hioload-spsc/affinity"
	"github.com/momentics/hioload-spsc/api"
)

// Pinned is the calling goroutine's OS thread bound to one CPU. Release it
// from the same goroutine.
type Pinned struct {
	saved affinity.Mask
	cpu   int
}

// PinCurrentThread locks the calling goroutine to its OS thread and binds
// that thread to cpuID, saving the thread's previous mask. cpuID must be in
// that mask. On error the goroutine is unlocked and its mask unchanged, so
// there is nothing to release.
func PinCurrentThread(cpuID int) (*Pinned, error) {
	runtime.LockOSThread()
	saved, err := affinity.Pin(cpuID)
	if err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}
	return &Pinned{saved: saved, cpu: cpuID}, nil
}

// CPU returns the CPU the thread is bound to.
func (p *Pinned) CPU() int { return p.cpu }

// Release restores the saved mask and unlocks the OS thread. If the mask
// cannot be restored the thread stays locked, so the runtime retires it with
// the goroutine instead of scheduling other work on a pinned thread.
func (p *Pinned) Release() error {
	if p == nil {
		return nil
	}
	if err := affinity.Restore(p.saved); err != nil {
		return api.Wrap(api.ErrCodeInternal, api.ErrAffinityRestore).
			WithContext("cpu", p.cpu).
			WithContext("cause", err.Error())
	}
	runtime.UnlockOSThread()
	return nil
}

// pinForRun pins for the duration of a loop and returns the release func,
// reporting failures to onError.
func pinForRun(cpuID int, onError func(error)) func() {
	p, err := PinCurrentThread(cpuID)
	if err != nil {
		if onError != nil {
			onError(err)
		}
		return func() {}
	}
	return func() {
		if err := p.Release(); err != nil && onError != nil {
			onError(err)
		}
	}
}
