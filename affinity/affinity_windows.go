//go:build windows

// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific implementation for setting thread CPU affinity.

package affinity

import (
	"fmt"
	"math/bits"

	"golang.org/x/sys/windows"

	"github.com/momentics/hioload-spsc/api"
)

var procSetThreadAffinityMask = windows.NewLazySystemDLL("kernel32.dll").NewProc("SetThreadAffinityMask")

// Mask is a saved thread affinity mask.
type Mask struct {
	bits uintptr
}

// Has reports whether cpuID is in the mask.
func (m Mask) Has(cpuID int) bool {
	return cpuID >= 0 && cpuID < bits.UintSize && m.bits&(uintptr(1)<<cpuID) != 0
}

// Count returns the number of CPUs in the mask.
func (m Mask) Count() int {
	return bits.OnesCount64(uint64(m.bits))
}

// setMask installs mask and returns the previous one. Windows offers no
// thread-mask getter; the previous mask is what Pin saves.
func setMask(mask uintptr) (uintptr, error) {
	prev, _, err := procSetThreadAffinityMask.Call(uintptr(windows.CurrentThread()), mask)
	if prev == 0 {
		return 0, fmt.Errorf("affinity: SetThreadAffinityMask: %w", err)
	}
	return prev, nil
}

func pinPlatform(cpuID int) (Mask, error) {
	if cpuID < 0 || cpuID >= bits.UintSize {
		return Mask{}, api.Wrap(api.ErrCodeInvalidArgument, api.ErrInvalidArgument).
			WithContext("cpu", cpuID)
	}
	prev, err := setMask(uintptr(1) << cpuID)
	if err != nil {
		return Mask{}, err
	}
	return Mask{bits: prev}, nil
}

func restorePlatform(m Mask) error {
	_, err := setMask(m.bits)
	return err
}

func allowedPlatform() int {
	return -1
}
