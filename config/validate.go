package config

import (
	"errors"
	"fmt"
	"go.uber.org/multierr"
)

var (
	ErrStrategyRequired    = errors.New("strategy config is required")
	ErrInvalidWatermark    = errors.New("invalid eviction watermark")
	ErrInvalidBatch        = errors.New("invalid eviction batch bounds")
	ErrInvalidDelta        = errors.New("invalid threshold delta")
	ErrUnknownStrategyMode = errors.New("unknown strategy mode")
	ErrUnknownGateMode     = errors.New("unknown gate mode")
	ErrInvalidAllocator    = errors.New("invalid allocator config")
)

// Validate reports every problem of the configuration at once.
func (cfg *Config) Validate() error {
	if cfg.Strategy == nil {
		return ErrStrategyRequired
	}

	err := cfg.Strategy.Validate()
	if cfg.Allocator.Enabled() {
		err = multierr.Append(err, cfg.Allocator.Validate())
	}
	return err
}

// Validate checks watermarks in [0, 100], low <= high, min <= max and, for the dynamic mode, delta > 0.
func (cfg *StrategyCfg) Validate() (err error) {
	switch cfg.Mode {
	case StrategyModeStatic, StrategyModeDynamic:
	default:
		err = multierr.Append(err, fmt.Errorf("%w: %q", ErrUnknownStrategyMode, cfg.Mode))
	}

	switch cfg.Gate {
	case GateModeLow, GateModeHigh, "":
	default:
		err = multierr.Append(err, fmt.Errorf("%w: %q", ErrUnknownGateMode, cfg.Gate))
	}

	if !inPercentRange(cfg.LowWatermark) {
		err = multierr.Append(err, fmt.Errorf("%w: low watermark %v is out of [0, 100]", ErrInvalidWatermark, cfg.LowWatermark))
	}
	if !inPercentRange(cfg.HighWatermark) {
		err = multierr.Append(err, fmt.Errorf("%w: high watermark %v is out of [0, 100]", ErrInvalidWatermark, cfg.HighWatermark))
	}
	if cfg.LowWatermark > cfg.HighWatermark {
		err = multierr.Append(err, fmt.Errorf("%w: low watermark %v is above high watermark %v",
			ErrInvalidWatermark, cfg.LowWatermark, cfg.HighWatermark))
	}

	if cfg.MinBatch > cfg.MaxBatch {
		err = multierr.Append(err, fmt.Errorf("%w: min batch %d is above max batch %d", ErrInvalidBatch, cfg.MinBatch, cfg.MaxBatch))
	}

	if cfg.Mode == StrategyModeDynamic && !(cfg.Delta > 0) {
		err = multierr.Append(err, fmt.Errorf("%w: delta must be positive, got %v", ErrInvalidDelta, cfg.Delta))
	}

	return err
}

func (cfg *AllocatorCfg) Validate() (err error) {
	if len(cfg.Tiers) == 0 || cfg.MaxPools == 0 || cfg.MaxClasses == 0 {
		return fmt.Errorf("%w: at least one tier, pool and class must be declared", ErrInvalidAllocator)
	}
	for t, tier := range cfg.Tiers {
		for p, pool := range tier.Pools {
			for c, class := range pool.Classes {
				if class.Capacity == 0 {
					err = multierr.Append(err, fmt.Errorf("%w: class %d:%d:%d has zero capacity", ErrInvalidAllocator, t, p, c))
				}
			}
		}
	}
	return err
}

// inPercentRange also rejects NaN.
func inPercentRange(v float64) bool {
	return v >= 0 && v <= 100
}
