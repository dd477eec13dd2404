// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus collectors for ring occupancy and benchmark results.

package control

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/hioload-spsc/api"
)

const namespace = "spsc"

// RingCollector exports the advisory state of one ring. Values are read at
// scrape time with relaxed loads, so the collector may run on any goroutine.
type RingCollector struct {
	ring       api.Inspector
	size       *prometheus.Desc
	capacity   *prometheus.Desc
	bufferSize *prometheus.Desc
}

// Ensure compile-time interface compliance.
var _ prometheus.Collector = (*RingCollector)(nil)

// NewRingCollector builds a collector labelled ring=name.
func NewRingCollector(name string, ring api.Inspector) *RingCollector {
	labels := prometheus.Labels{"ring": name}
	return &RingCollector{
		ring: ring,
		size: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "ring", "size"),
			"Approximate number of items in the ring.",
			nil, labels,
		),
		capacity: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "ring", "capacity"),
			"Usable ring capacity (slots minus one).",
			nil, labels,
		),
		bufferSize: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "ring", "buffer_size"),
			"Raw ring slot count.",
			nil, labels,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *RingCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.size
	ch <- c.capacity
	ch <- c.bufferSize
}

// Collect implements prometheus.Collector.
func (c *RingCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.ring.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(s.Size))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity))
	ch <- prometheus.MustNewConstMetric(c.bufferSize, prometheus.GaugeValue, float64(s.BufferSize))
}

// BenchMetrics holds Prometheus metrics for benchmark scenarios.
type BenchMetrics struct {
	opsPerSecond *prometheus.GaugeVec
	nsPerOp      *prometheus.GaugeVec
	pushFailures *prometheus.CounterVec
	runs         *prometheus.CounterVec
}

// NewBenchMetrics creates the benchmark metrics and registers them with reg.
func NewBenchMetrics(reg prometheus.Registerer) *BenchMetrics {
	m := &BenchMetrics{
		opsPerSecond: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "bench",
				Name:      "ops_per_second",
				Help:      "Operations per second of the last run of a scenario.",
			},
			[]string{"scenario"},
		),
		nsPerOp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "bench",
				Name:      "ns_per_op",
				Help:      "Nanoseconds per operation of the last run of a scenario.",
			},
			[]string{"scenario"},
		),
		pushFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bench",
				Name:      "push_failures_total",
				Help:      "TryPush calls that found the ring full.",
			},
			[]string{"scenario"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bench",
				Name:      "runs_total",
				Help:      "Completed scenario runs by outcome.",
			},
			[]string{"scenario", "outcome"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.opsPerSecond, m.nsPerOp, m.pushFailures, m.runs)
	}
	return m
}

// Observe records one scenario result.
func (m *BenchMetrics) Observe(scenario string, opsPerSec, nsPerOp float64, pushFailures uint64, ok bool) {
	if m == nil {
		return
	}
	m.opsPerSecond.WithLabelValues(scenario).Set(opsPerSec)
	m.nsPerOp.WithLabelValues(scenario).Set(nsPerOp)
	m.pushFailures.WithLabelValues(scenario).Add(float64(pushFailures))
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	m.runs.WithLabelValues(scenario, outcome).Inc()
}
