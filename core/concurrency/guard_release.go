//go:build !spscdebug

// File: core/concurrency/guard_release.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Release builds carry no ownership checks; concurrent producers or
// consumers are undefined behaviour.

package concurrency

const guardEnabled = false

type sideGuard struct{}

func (*sideGuard) enter(string) {}
func (*sideGuard) exit()        {}
