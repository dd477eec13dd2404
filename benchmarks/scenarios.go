// File: benchmarks/scenarios.go
// Author: momentics <momentics@gmail.com>

package benchmarks

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"time"
	"unsafe"

	"github.com/momentics/hioload-spsc/core/concurrency"
	"github.com/momentics/hioload-spsc/internal/config"
)

func (r *Runner) ops() uint64 {
	if r.Config.Operations <= 0 {
		return 1
	}
	return uint64(r.Config.Operations)
}

func (r *Runner) capacity() uint64 {
	if r.Config.Capacity < 2 {
		return 4096
	}
	return r.Config.Capacity
}

func fromTransfer(scenario string, st transferStats) Result {
	res := newResult(scenario, st.popped, st.elapsed)
	res.PushFailures = st.pushFailures
	res.OK = st.consistent()
	res.Extra["pushed"] = float64(st.pushed)
	res.Extra["outOfOrder"] = float64(st.outOfOrder)
	if st.truncated {
		res.Extra["truncated"] = 1
	}
	return res
}

// throughput moves Operations values between two goroutines.
func (r *Runner) throughput(ctx context.Context) Result {
	ring, err := r.newRing(config.ScenarioThroughput, r.capacity())
	if err != nil {
		return failed(config.ScenarioThroughput)
	}
	return fromTransfer(config.ScenarioThroughput, ringTransfer(ctx, ring, r.ops(), r.pin()))
}

// latency times LatencySamples push/pop round trips on one goroutine.
// Extra carries avg, p50, p99 and max in nanoseconds.
func (r *Runner) latency(ctx context.Context) Result {
	ring, err := r.newRing(config.ScenarioLatency, r.capacity())
	if err != nil {
		return failed(config.ScenarioLatency)
	}
	n := r.Config.LatencySamples
	if n <= 0 {
		n = 1
	}
	samples := make([]time.Duration, 0, n)
	ok := true
	start := time.Now()
	for i := 0; i < n; i++ {
		if i&1023 == 0 && ctx.Err() != nil {
			break
		}
		t0 := time.Now()
		pushed := ring.TryPush(uint64(i))
		v, popped := ring.TryPop()
		samples = append(samples, time.Since(t0))
		if !pushed || !popped || v != uint64(i) {
			ok = false
		}
	}
	res := newResult(config.ScenarioLatency, uint64(len(samples)), time.Since(start))
	res.OK = ok && ring.Empty()
	if len(samples) < n {
		res.Extra["truncated"] = 1
	}
	if len(samples) > 0 {
		slices.Sort(samples)
		res.Extra["p50Ns"] = float64(percentile(samples, 50).Nanoseconds())
		res.Extra["p99Ns"] = float64(percentile(samples, 99).Nanoseconds())
		res.Extra["maxNs"] = float64(samples[len(samples)-1].Nanoseconds())
		var sum time.Duration
		for _, d := range samples {
			sum += d
		}
		res.Extra["avgNs"] = float64(sum.Nanoseconds()) / float64(len(samples))
	}
	return res
}

// sizes splits Operations evenly across one transfer per configured slot
// count. Extra carries opsPerSec per size.
func (r *Runner) sizes(ctx context.Context) Result {
	sizes := r.Config.Sizes
	if len(sizes) == 0 {
		sizes = []uint64{r.capacity()}
	}
	per := max(r.ops()/uint64(len(sizes)), 1)
	total := transferStats{}
	extra := map[string]float64{}
	for _, size := range sizes {
		name := fmt.Sprintf("%s_%d", config.ScenarioSizes, size)
		ring, err := r.newRing(name, size)
		if err != nil {
			return failed(config.ScenarioSizes)
		}
		st := ringTransfer(ctx, ring, per, r.pin())
		if st.elapsed > 0 {
			extra[fmt.Sprintf("size%dOpsPerSec", size)] = float64(st.popped) / st.elapsed.Seconds()
		}
		total.pushed += st.pushed
		total.popped += st.popped
		total.pushFailures += st.pushFailures
		total.outOfOrder += st.outOfOrder
		total.elapsed += st.elapsed
		total.truncated = total.truncated || st.truncated
	}
	res := fromTransfer(config.ScenarioSizes, total)
	for k, v := range extra {
		res.Extra[k] = v
	}
	return res
}

// mutex runs the same transfer through the ring and through the
// mutex-guarded queue. The ring gets half of the remaining budget so the
// baseline always has time left. The result reports the ring; Extra carries the
// baseline and the speedup.
func (r *Runner) mutex(ctx context.Context) Result {
	ring, err := r.newRing(config.ScenarioMutex, r.capacity())
	if err != nil {
		return failed(config.ScenarioMutex)
	}
	pin := r.pin()
	ringCtx, cancel := halfBudget(ctx)
	rs := ringTransfer(ringCtx, ring, r.ops(), pin)
	cancel()
	ms := mutexTransfer(ctx, r.ops(), pin)

	res := fromTransfer(config.ScenarioMutex, rs)
	base := newResult(config.ScenarioMutex, ms.popped, ms.elapsed)
	res.OK = res.OK && ms.consistent()
	res.Extra["mutexOpsPerSec"] = base.OpsPerSec
	res.Extra["mutexNsPerOp"] = base.NsPerOp
	if base.OpsPerSec > 0 {
		res.Extra["speedup"] = res.OpsPerSec / base.OpsPerSec
	}
	if ms.truncated {
		res.Extra["truncated"] = 1
	}
	return res
}

// memory reports the heap cost of a Capacity-slot ring and the allocations
// made by steady-state push/pop, which should be none.
func (r *Runner) memory(ctx context.Context) Result {
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	ring, err := concurrency.New[uint64](r.capacity())
	if err != nil {
		return failed(config.ScenarioMemory)
	}
	runtime.ReadMemStats(&after)
	ringBytes := after.TotalAlloc - before.TotalAlloc
	if r.OnRing != nil {
		r.OnRing(config.ScenarioMemory, ring)
	}

	n := r.ops()
	runtime.ReadMemStats(&before)
	start := time.Now()
	var i uint64
	ok := true
	for ; i < n; i++ {
		if i&4095 == 0 && ctx.Err() != nil {
			break
		}
		ring.TryPush(i)
		if v, popped := ring.TryPop(); !popped || v != i {
			ok = false
		}
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&after)

	res := newResult(config.ScenarioMemory, i, elapsed)
	res.OK = ok
	res.Extra["ringBytes"] = float64(ringBytes)
	res.Extra["headerBytes"] = float64(unsafe.Sizeof(concurrency.RingBuffer[uint64]{}))
	res.Extra["storageBytes"] = float64(uintptr(ring.BufferSize()) * unsafe.Sizeof(uint64(0)))
	res.Extra["bytesPerSlot"] = float64(ringBytes) / float64(ring.BufferSize())
	if i > 0 {
		res.Extra["allocsPerOp"] = float64(after.Mallocs-before.Mallocs) / float64(i)
	}
	if i < n {
		res.Extra["truncated"] = 1
	}
	runtime.KeepAlive(ring)
	return res
}

// halfBudget bounds ctx to half of the time left before its deadline.
func halfBudget(ctx context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := ctx.Deadline(); ok {
		return context.WithTimeout(ctx, time.Until(dl)/2)
	}
	return context.WithCancel(ctx)
}

func percentile(sorted []time.Duration, p int) time.Duration {
	idx := (len(sorted) - 1) * p / 100
	return sorted[idx]
}

func failed(scenario string) Result {
	res := newResult(scenario, 0, 0)
	res.OK = false
	return res
}
