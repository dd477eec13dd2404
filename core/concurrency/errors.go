// File: core/concurrency/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions for concurrency module.

package concurrency

import "github.com/momentics/hioload-spsc/api"

var (
	// ErrInvalidCapacity indicates a slot count that is not a power of two > 1.
	ErrInvalidCapacity = api.ErrInvalidCapacity

	// ErrLoopStopped indicates Post or Run on a stopped event loop.
	ErrLoopStopped = api.ErrLoopStopped

	// ErrAffinityNotSupported indicates CPU affinity is not supported on this platform
	ErrAffinityNotSupported = api.ErrAffinityNotSupported
)

// invalidCapacity builds the structured error returned by New.
func invalidCapacity(size uint64) error {
	return api.Wrap(api.ErrCodeInvalidCapacity, ErrInvalidCapacity).
		WithContext("size", size)
}
