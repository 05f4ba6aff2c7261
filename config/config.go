package config

import (
	"fmt"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
	"os"
	"time"
)

// Config groups configuration of all subsystems.
// Each component can be configured independently or disabled by setting it to nil.
type Config struct {
	// Strategy configures the eviction batch-sizing strategy.
	// It is required: without a strategy the evictor has nothing to ask.
	Strategy *StrategyCfg `yaml:"strategy"`

	// Evictor configures the background evictor which periodically asks the strategy
	// for batch sizes and reclaims them.
	// If nil, background eviction is disabled.
	Evictor *EvictorCfg `yaml:"evictor"`

	// Telemetry configures periodic statistics logs.
	// If nil, telemetry logs are disabled.
	Telemetry *TelemetryCfg `yaml:"telemetry"`

	// Allocator describes the in-memory slab allocator used by the simulator.
	Allocator *AllocatorCfg `yaml:"allocator"`

	// Workload configures synthetic allocation load used by the simulator.
	Workload *WorkloadCfg `yaml:"workload"`
}

// Default returns a configuration with a dynamic strategy and a running evictor.
func Default() *Config {
	cfg := &Config{
		Strategy: &StrategyCfg{
			Mode:          StrategyModeDynamic,
			Gate:          GateModeLow,
			LowWatermark:  2.0,
			HighWatermark: 5.0,
			Delta:         0.5,
			MinBatch:      5,
			MaxBatch:      40,
		},
		Evictor: &EvictorCfg{
			CallsPerSec: 10,
			Shards:      1,
			ReclaimRate: 10_000,
		},
		Telemetry: &TelemetryCfg{
			Interval: 5 * time.Second,
		},
	}
	cfg.AdjustConfig()
	return cfg
}

// AdjustConfig computes virtual fields.
func (cfg *Config) AdjustConfig() {
	if cfg.Strategy != nil {
		cfg.Strategy.Adjust()
	}

	if cfg.Evictor.Enabled() && cfg.Evictor.Shards <= 0 {
		cfg.Evictor.Shards = 1
	}

	if cfg.Allocator.Enabled() {
		cfg.Allocator.adjust()
	}
}

func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config yaml file %s: %w", path, err)
	}

	var cfg *Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config %s is empty", path)
	}
	cfg.AdjustConfig()

	if err = cfg.Validate(); err != nil {
		// every problem keeps its own line for callers splitting with multierr.Errors
		var errs error
		for _, e := range multierr.Errors(err) {
			errs = multierr.Append(errs, fmt.Errorf("validate config %s: %w", path, e))
		}
		return nil, errs
	}

	return cfg, nil
}
