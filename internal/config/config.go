// File: internal/config/config.go
// Author: momentics <momentics@gmail.com>
//
// Benchmark harness configuration: YAML file, SPSCBENCH_* environment
// overrides, validated defaults.

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/momentics/hioload-spsc/api"
)

// EnvPrefix is prepended to every environment override, e.g.
// SPSCBENCH_BENCH_CAPACITY.
const EnvPrefix = "SPSCBENCH"

// Scenario names understood by the harness.
const (
	ScenarioThroughput = "throughput"
	ScenarioLatency    = "latency"
	ScenarioSizes      = "sizes"
	ScenarioMutex      = "mutex"
	ScenarioMemory     = "memory"
)

// AllScenarios lists scenarios in execution order.
var AllScenarios = []string{ScenarioThroughput, ScenarioLatency, ScenarioSizes, ScenarioMutex, ScenarioMemory}

// Config is the harness configuration.
type Config struct {
	Bench    BenchConfig    `mapstructure:"bench"`
	Affinity AffinityConfig `mapstructure:"affinity"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

// BenchConfig sizes the workloads.
type BenchConfig struct {
	Duration       time.Duration `mapstructure:"duration"`
	Operations     int           `mapstructure:"operations"`
	Capacity       uint64        `mapstructure:"capacity"`
	Sizes          []uint64      `mapstructure:"sizes"`
	LatencySamples int           `mapstructure:"latencySamples"`
	Scenarios      []string      `mapstructure:"scenarios"`
}

// AffinityConfig pins producer and consumer goroutines.
type AffinityConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	ProducerCPU int  `mapstructure:"producerCPU"`
	ConsumerCPU int  `mapstructure:"consumerCPU"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// LogConfig selects the zap level.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bench.duration", 2*time.Second)
	v.SetDefault("bench.operations", 1_000_000)
	v.SetDefault("bench.capacity", 4096)
	v.SetDefault("bench.sizes", []uint64{64, 256, 1024, 4096, 16384})
	v.SetDefault("bench.latencySamples", 100_000)
	v.SetDefault("bench.scenarios", AllScenarios)
	v.SetDefault("affinity.enabled", false)
	v.SetDefault("affinity.producerCPU", 0)
	v.SetDefault("affinity.consumerCPU", 1)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("log.level", "info")
}

// Load reads configFile (optional, YAML) and applies environment overrides.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks workload sizes and scenario names.
func (c *Config) Validate() error {
	var errs []error
	if c.Bench.Duration <= 0 {
		errs = append(errs, fmt.Errorf("bench.duration must be positive: %w", api.ErrInvalidArgument))
	}
	if c.Bench.Operations <= 0 {
		errs = append(errs, fmt.Errorf("bench.operations must be positive: %w", api.ErrInvalidArgument))
	}
	if c.Bench.LatencySamples <= 0 {
		errs = append(errs, fmt.Errorf("bench.latencySamples must be positive: %w", api.ErrInvalidArgument))
	}
	if !powerOfTwo(c.Bench.Capacity) {
		errs = append(errs, fmt.Errorf("bench.capacity %d: %w", c.Bench.Capacity, api.ErrInvalidCapacity))
	}
	for _, s := range c.Bench.Sizes {
		if !powerOfTwo(s) {
			errs = append(errs, fmt.Errorf("bench.sizes entry %d: %w", s, api.ErrInvalidCapacity))
		}
	}
	for _, s := range c.Bench.Scenarios {
		if !knownScenario(s) {
			errs = append(errs, fmt.Errorf("%q: %w", s, api.ErrScenarioUnknown))
		}
	}
	if c.Affinity.Enabled && (c.Affinity.ProducerCPU < 0 || c.Affinity.ConsumerCPU < 0) {
		errs = append(errs, fmt.Errorf("affinity CPUs must be non-negative: %w", api.ErrInvalidArgument))
	}
	return errors.Join(errs...)
}

func powerOfTwo(n uint64) bool {
	return n > 1 && n&(n-1) == 0
}

func knownScenario(name string) bool {
	for _, s := range AllScenarios {
		if s == name {
			return true
		}
	}
	return false
}
