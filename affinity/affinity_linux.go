//go:build linux

// File: affinity/affinity_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific implementation for setting thread CPU affinity.

package affinity

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-spsc/api"
)

// Mask is a saved thread affinity mask.
type Mask struct {
	set unix.CPUSet
}

// Has reports whether cpuID is in the mask.
func (m Mask) Has(cpuID int) bool {
	return cpuID >= 0 && m.set.IsSet(cpuID)
}

// Count returns the number of CPUs in the mask.
func (m Mask) Count() int {
	return m.set.Count()
}

// pid 0 addresses the calling thread in every sched_*affinity call below.

func current() (Mask, error) {
	var m Mask
	if err := unix.SchedGetaffinity(0, &m.set); err != nil {
		return Mask{}, fmt.Errorf("affinity: sched_getaffinity: %w", err)
	}
	return m, nil
}

func pinPlatform(cpuID int) (Mask, error) {
	saved, err := current()
	if err != nil {
		return Mask{}, err
	}
	if !saved.Has(cpuID) {
		return Mask{}, api.Wrap(api.ErrCodeInvalidArgument, api.ErrInvalidArgument).
			WithContext("cpu", cpuID).
			WithContext("allowed", saved.Count())
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return Mask{}, fmt.Errorf("affinity: sched_setaffinity cpu %d: %w", cpuID, err)
	}
	return saved, nil
}

func restorePlatform(m Mask) error {
	if err := unix.SchedSetaffinity(0, &m.set); err != nil {
		return fmt.Errorf("affinity: sched_setaffinity restore: %w", err)
	}
	return nil
}

func allowedPlatform() int {
	m, err := current()
	if err != nil {
		return -1
	}
	return m.Count()
}
