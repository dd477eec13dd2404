// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are located
// in separate files (affinity_linux.go, affinity_windows.go, etc.) guarded by build tags.

package affinity

// Pin binds the calling OS thread to logical CPU cpuID and returns the mask
// it replaced. The caller must hold runtime.LockOSThread, otherwise the mask
// lands on whichever thread happens to run the goroutine. A cpuID outside the
// thread's current mask is rejected with api.ErrInvalidArgument and the mask
// is left unchanged; so is any other failure.
func Pin(cpuID int) (Mask, error) {
	return pinPlatform(cpuID)
}

// Restore reinstalls a mask returned by Pin on the calling thread.
func Restore(m Mask) error {
	return restorePlatform(m)
}

// Allowed returns how many CPUs the calling thread may run on, or -1 when the
// platform cannot tell.
func Allowed() int {
	return allowedPlatform()
}
