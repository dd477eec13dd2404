// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations, DTOs, and constants.

package api

import "time"

// Snapshot is an advisory view of ring indices taken with relaxed loads.
type Snapshot struct {
	Head       uint64
	Tail       uint64
	Size       int
	Capacity   int
	BufferSize int
}

// Empty reports whether the snapshot saw no live items.
func (s Snapshot) Empty() bool { return s.Head == s.Tail }

// Full reports whether the snapshot saw every usable slot occupied.
func (s Snapshot) Full() bool { return s.Size == s.Capacity }

// LoopStats aggregates consumer loop counters.
type LoopStats struct {
	Posted    uint64
	Rejected  uint64
	Handled   uint64
	Panics    uint64
	Pending   int
	StartedAt time.Time
}

// ServiceInfo exposes descriptive build- and runtime info for external tools.
type ServiceInfo struct {
	Name      string
	Version   string
	Build     string
	StartedAt time.Time
}
