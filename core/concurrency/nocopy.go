// File: core/concurrency/nocopy.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

// noCopy may be embedded into structs which must not be copied after first
// use. `go vet` copylocks reports copies of any struct holding it.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
