package control

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-spsc/api"
	"github.com/momentics/hioload-spsc/core/concurrency"
)

func TestRingCollector_ReadsSnapshot(t *testing.T) {
	r := concurrency.MustNew[int](16)
	for i := 0; i < 5; i++ {
		require.True(t, r.TryPush(i))
	}
	c := NewRingCollector("ingress", r)

	expected := `
# HELP spsc_ring_buffer_size Raw ring slot count.
# TYPE spsc_ring_buffer_size gauge
spsc_ring_buffer_size{ring="ingress"} 16
# HELP spsc_ring_capacity Usable ring capacity (slots minus one).
# TYPE spsc_ring_capacity gauge
spsc_ring_capacity{ring="ingress"} 15
# HELP spsc_ring_size Approximate number of items in the ring.
# TYPE spsc_ring_size gauge
spsc_ring_size{ring="ingress"} 5
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected)))

	_, ok := r.TryPop()
	require.True(t, ok)
	assert.Equal(t, 3, testutil.CollectAndCount(c))
}

func TestBenchMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBenchMetrics(reg)
	m.Observe("throughput", 1e6, 1000, 3, true)
	m.Observe("throughput", 2e6, 500, 2, false)

	assert.Equal(t, 2e6, testutil.ToFloat64(m.opsPerSecond.WithLabelValues("throughput")))
	assert.Equal(t, 500.0, testutil.ToFloat64(m.nsPerOp.WithLabelValues("throughput")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.pushFailures.WithLabelValues("throughput")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("throughput", "failed")))

	var nilMetrics *BenchMetrics
	assert.NotPanics(t, func() { nilMetrics.Observe("x", 1, 1, 0, true) })
}

func TestDebugProbes_DumpState(t *testing.T) {
	dp := NewDebugProbes()
	r := concurrency.MustNew[string](4)
	r.TryPush("a")
	dp.RegisterRing("work", r)
	RegisterPlatformProbes(dp)
	dp.RegisterProbe("static", func() any { return 42 })

	state := dp.DumpState()
	snap, ok := state["ring.work"].(api.Snapshot)
	require.True(t, ok, "ring probe returned %T", state["ring.work"])
	assert.Equal(t, 1, snap.Size)
	assert.Equal(t, 42, state["static"])
	assert.Positive(t, state["platform.cpus"])
	assert.Contains(t, dp.Names(), "ring.work")
	assert.IsIncreasing(t, dp.Names())
}
