// File: core/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package concurrency provides the single-producer/single-consumer ring
// buffer and the small amount of machinery around it: ordered index loads
// and stores, compile-time capacities, caller-side backoff, a consumer event
// loop and OS thread pinning.
//
// A RingBuffer is shared by exactly two goroutines. The producer calls
// TryPush/TryPushBatch, the consumer calls TryPop/TryPopBatch/Drain. Neither
// call blocks, allocates or retries; a false/empty result is an ordinary
// outcome and the caller picks the retry policy (see Backoff, PushWait,
// PopWait). Empty, Full, Size and Snapshot may be called from any goroutine
// and are advisory.
//
// The buffer keeps one slot unused so that head == tail means empty and
// tail+1 == head (mod N) means full without a shared counter.
package concurrency
