// File: benchmarks/runner.go
// Author: momentics <momentics@gmail.com>
//
// Scenario runner: sizes workloads from config, logs and records results.

package benchmarks

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/momentics/hioload-spsc/api"
	"github.com/momentics/hioload-spsc/control"
	"github.com/momentics/hioload-spsc/core/concurrency"
	"github.com/momentics/hioload-spsc/internal/config"
)

// Runner executes benchmark scenarios. Logger, Metrics and OnRing are
// optional.
type Runner struct {
	Config   config.BenchConfig
	Affinity config.AffinityConfig
	Logger   *zap.Logger
	Metrics  *control.BenchMetrics
	// OnRing is called with every ring a scenario allocates, before use.
	OnRing func(name string, ring api.Inspector)

	runID string
}

// NewRunner builds a runner from a loaded configuration.
func NewRunner(cfg *config.Config, logger *zap.Logger, metrics *control.BenchMetrics) *Runner {
	return &Runner{
		Config:   cfg.Bench,
		Affinity: cfg.Affinity,
		Logger:   logger,
		Metrics:  metrics,
	}
}

// RunID identifies this runner's results in logs.
func (r *Runner) RunID() string {
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	return r.runID
}

// Run executes one scenario. A positive Config.Duration bounds each run;
// a truncated run still reports what it transferred. A failed correctness
// check is returned as an error wrapping api.ErrCorrectnessViolation along
// with the result.
func (r *Runner) Run(ctx context.Context, scenario string) (Result, error) {
	log := r.logger().With(zap.String("runID", r.RunID()), zap.String("scenario", scenario))

	var run func(context.Context) Result
	switch scenario {
	case config.ScenarioThroughput:
		run = r.throughput
	case config.ScenarioLatency:
		run = r.latency
	case config.ScenarioSizes:
		run = r.sizes
	case config.ScenarioMutex:
		run = r.mutex
	case config.ScenarioMemory:
		run = r.memory
	default:
		return Result{Scenario: scenario}, fmt.Errorf("%q: %w", scenario, api.ErrScenarioUnknown)
	}

	log.Debug("scenario starting")
	sctx, cancel := ctx, context.CancelFunc(func() {})
	if r.Config.Duration > 0 {
		sctx, cancel = context.WithTimeout(ctx, r.Config.Duration)
	}
	res := run(sctx)
	cancel()

	r.Metrics.Observe(res.Scenario, res.OpsPerSec, res.NsPerOp, res.PushFailures, res.OK)
	if !res.OK {
		log.Error("scenario failed correctness check", resultField(res))
		return res, fmt.Errorf("scenario %s: %w", scenario, api.ErrCorrectnessViolation)
	}
	log.Info("scenario finished", resultField(res))
	return res, nil
}

// RunAll executes Config.Scenarios in order, stopping early only when ctx is
// cancelled. Errors from individual scenarios are joined.
func (r *Runner) RunAll(ctx context.Context) ([]Result, error) {
	scenarios := r.Config.Scenarios
	if len(scenarios) == 0 {
		scenarios = config.AllScenarios
	}
	results := make([]Result, 0, len(scenarios))
	var errs []error
	for _, s := range scenarios {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res, err := r.Run(ctx, s)
		if err != nil {
			errs = append(errs, err)
		}
		if res.Operations > 0 || err == nil {
			results = append(results, res)
		}
	}
	return results, errors.Join(errs...)
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *Runner) newRing(name string, size uint64) (*concurrency.RingBuffer[uint64], error) {
	ring, err := concurrency.New[uint64](size)
	if err != nil {
		return nil, err
	}
	if r.OnRing != nil {
		r.OnRing(name, ring)
	}
	return ring, nil
}

// pin returns the pinFunc for producer/consumer goroutines. Pin failures are
// logged and the run continues unpinned.
func (r *Runner) pin() pinFunc {
	if !r.Affinity.Enabled {
		return noPin
	}
	log := r.logger()
	return func(role string) func() {
		cpu := r.Affinity.ConsumerCPU
		if role == "producer" {
			cpu = r.Affinity.ProducerCPU
		}
		p, err := concurrency.PinCurrentThread(cpu)
		if err != nil {
			log.Warn("thread pinning failed", zap.String("role", role), zap.Int("cpu", cpu), zap.Error(err))
			return func() {}
		}
		return func() {
			if err := p.Release(); err != nil {
				log.Warn("thread unpinning failed", zap.String("role", role), zap.Int("cpu", cpu), zap.Error(err))
			}
		}
	}
}
