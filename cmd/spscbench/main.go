// File: cmd/spscbench/main.go
// Package main
// Benchmark and stress harness for the SPSC ring buffer.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/momentics/hioload-spsc/api"
	"github.com/momentics/hioload-spsc/benchmarks"
	"github.com/momentics/hioload-spsc/control"
	"github.com/momentics/hioload-spsc/internal/config"
	"github.com/momentics/hioload-spsc/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	configFile := flag.String("config", "", "YAML configuration file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	scenario := flag.String("scenario", "", "comma-separated scenarios to run (default: all configured)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "spscbench: %v\n", err)
		return 2
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *scenario != "" {
		cfg.Bench.Scenarios = strings.Split(*scenario, ",")
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "spscbench: %v\n", err)
			return 2
		}
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "spscbench: failed to build logger: %v\n", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	probes := control.NewDebugProbes()
	control.RegisterPlatformProbes(probes)
	info := serviceInfo()
	probes.RegisterProbe("service", func() any { return info })

	runner := benchmarks.NewRunner(cfg, logger, control.NewBenchMetrics(reg))
	runner.OnRing = func(name string, ring api.Inspector) {
		probes.RegisterRing(name, ring)
		if err := reg.Register(control.NewRingCollector(name, ring)); err != nil {
			logger.Debug("ring collector not registered", zap.String("ring", name), zap.Error(err))
		}
	}

	var srv *http.Server
	if cfg.Metrics.Enabled {
		srv = serveMetrics(cfg.Metrics.Addr, reg, logger)
	}

	logger.Info("starting benchmark run",
		zap.String("runID", runner.RunID()),
		zap.String("version", info.Version),
		zap.Strings("scenarios", cfg.Bench.Scenarios),
		zap.Uint64("capacity", cfg.Bench.Capacity),
		zap.Bool("affinity", cfg.Affinity.Enabled),
	)
	results, err := runner.RunAll(ctx)
	logger.Info("benchmark run complete",
		zap.String("runID", runner.RunID()),
		zap.Int("results", len(results)),
		zap.Any("probes", probes.DumpState()),
	)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown", zap.Error(err))
		}
		cancel()
	}

	switch {
	case errors.Is(err, api.ErrCorrectnessViolation):
		logger.Error("correctness check failed", zap.Error(err))
		return 1
	case errors.Is(err, context.Canceled):
		logger.Warn("run interrupted", zap.Error(err))
		return 130
	case err != nil:
		logger.Error("benchmark run failed", zap.Error(err))
		return 1
	}
	return 0
}

// version is set at link time with -ldflags "-X main.version=...".
var version = "dev"

func serviceInfo() api.ServiceInfo {
	info := api.ServiceInfo{Name: "spscbench", Version: version, StartedAt: time.Now()}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.Build = bi.GoVersion
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				info.Build += " " + s.Value
			}
		}
	}
	return info
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	return srv
}
