// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics and debug introspection for SPSC rings and the benchmark
// harness.
//
// Provides:
//   - Prometheus collectors reading ring occupancy at scrape time
//   - Benchmark result gauges and counters
//   - Debug probe registration and state export
//
// Every reader here goes through the ring's advisory Snapshot and never
// touches the producer or consumer paths.
package control
