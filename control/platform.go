// control/platform.go
// Author: momentics <momentics@gmail.com>
//
// Platform debug probes: CPU count and the calling thread's affinity width.

package control

import (
	"runtime"

	"github.com/momentics/hioload-spsc/affinity"
)

// RegisterPlatformProbes sets platform debug metrics.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.affinity_cpus", func() any {
		return affinity.Allowed()
	})
}
