// Package benchmarks
// Author: momentics <momentics@gmail.com>
//
// Benchmark and stress harness for the SPSC ring: sustained throughput,
// single-operation latency, slot-count sweep, comparison against a
// mutex-guarded queue and a memory footprint report. Scenarios only use the
// ring's public operations from one producer and one consumer goroutine.
package benchmarks
