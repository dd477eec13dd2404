//go:build !linux && !windows

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package affinity

import "github.com/momentics/hioload-spsc/api"

// Mask is empty where affinity is unsupported.
type Mask struct{}

// Has always reports false.
func (Mask) Has(int) bool { return false }

// Count always returns 0.
func (Mask) Count() int { return 0 }

func notSupported() error {
	return api.Wrap(api.ErrCodeNotSupported, api.ErrAffinityNotSupported)
}

func pinPlatform(int) (Mask, error) { return Mask{}, notSupported() }

func restorePlatform(Mask) error { return notSupported() }

func allowedPlatform() int { return -1 }
