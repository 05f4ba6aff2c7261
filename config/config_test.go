package config

import (
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefault_IsValid verifies that the default configuration passes validation.
func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.True(t, cfg.Strategy.IsDynamic)
	require.False(t, cfg.Strategy.IsHighGate)
	require.Equal(t, 1, cfg.Evictor.Shards)
}

// TestStrategyCfg_Validate_CollectsAllErrors reports every violated rule at once.
func TestStrategyCfg_Validate_CollectsAllErrors(t *testing.T) {
	cfg := &StrategyCfg{
		Mode:          StrategyModeDynamic,
		Gate:          "middle",
		LowWatermark:  50,
		HighWatermark: 120,
		Delta:         0,
		MinBatch:      10,
		MaxBatch:      5,
	}

	err := cfg.Validate()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnknownGateMode)
	require.ErrorIs(t, err, ErrInvalidWatermark)
	require.ErrorIs(t, err, ErrInvalidBatch)
	require.ErrorIs(t, err, ErrInvalidDelta)
	require.Len(t, multierr.Errors(err), 4)
}

// TestStrategyCfg_Validate_LowAboveHigh rejects inverted watermarks.
func TestStrategyCfg_Validate_LowAboveHigh(t *testing.T) {
	cfg := Default().Strategy
	cfg.LowWatermark, cfg.HighWatermark = 6, 5
	require.ErrorIs(t, cfg.Validate(), ErrInvalidWatermark)
}

// TestStrategyCfg_Validate_NaN rejects NaN watermarks.
func TestStrategyCfg_Validate_NaN(t *testing.T) {
	cfg := Default().Strategy
	cfg.LowWatermark = math.NaN()
	require.ErrorIs(t, cfg.Validate(), ErrInvalidWatermark)
}

// TestStrategyCfg_Validate_StaticIgnoresDelta does not require a step for the static mode.
func TestStrategyCfg_Validate_StaticIgnoresDelta(t *testing.T) {
	cfg := Default().Strategy
	cfg.Mode = StrategyModeStatic
	cfg.Delta = 0
	require.NoError(t, cfg.Validate())
}

// TestStrategyCfg_Validate_UnknownMode rejects unsupported modes.
func TestStrategyCfg_Validate_UnknownMode(t *testing.T) {
	cfg := Default().Strategy
	cfg.Mode = "adaptive"
	require.ErrorIs(t, cfg.Validate(), ErrUnknownStrategyMode)
}

// TestConfig_Validate_StrategyRequired rejects configs without a strategy.
func TestConfig_Validate_StrategyRequired(t *testing.T) {
	require.ErrorIs(t, (&Config{}).Validate(), ErrStrategyRequired)
}

// TestLoadConfig reads yaml and computes virtual fields.
func TestLoadConfig(t *testing.T) {
	const data = `
strategy:
  mode: static
  gate: high
  low_watermark: 2
  high_watermark: 5
  min_batch: 5
  max_batch: 40
evictor:
  calls_per_sec: 20
  reclaim_rate: 100
telemetry:
  interval: 2s
allocator:
  slow_path_penalty: 20us
  tiers:
    - pools:
        - classes:
            - { alloc_size: 64, capacity: 100 }
            - { alloc_size: 128, capacity: 100 }
        - classes:
            - { alloc_size: 64, capacity: 100 }
workload:
  rate: 1000
  workers: 2
`
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, StrategyModeStatic, cfg.Strategy.Mode)
	require.False(t, cfg.Strategy.IsDynamic)
	require.True(t, cfg.Strategy.IsHighGate)
	require.Equal(t, uint64(40), cfg.Strategy.MaxBatch)

	require.Equal(t, int64(20), cfg.Evictor.CallsPerSec)
	require.Equal(t, 1, cfg.Evictor.Shards)
	require.Equal(t, 2*time.Second, cfg.Telemetry.Interval)

	require.Equal(t, 20*time.Microsecond, cfg.Allocator.SlowPathPenalty)
	require.Equal(t, 2, cfg.Allocator.MaxPools)
	require.Equal(t, 2, cfg.Allocator.MaxClasses)
	require.InDelta(t, 0.2, cfg.Allocator.LatencyAlpha, 1e-9)

	require.Equal(t, 1000, cfg.Workload.Rate)
}

// TestLoadConfig_Missing wraps the stat error.
func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestLoadConfig_Invalid surfaces validation errors.
func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strategy:\n  mode: dynamic\n  low_watermark: 9\n  high_watermark: 5\n  delta: 1\n"), 0o600))

	_, err := LoadConfig(path)
	require.ErrorIs(t, err, ErrInvalidWatermark)
}

// TestLoadConfig_InvalidKeepsProblemsApart returns one wrapped error per problem.
func TestLoadConfig_InvalidKeepsProblemsApart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strategy:\n  mode: dynamic\n  low_watermark: 9\n  high_watermark: 5\n  min_batch: 9\n  max_batch: 1\n"), 0o600))

	_, err := LoadConfig(path)
	errs := multierr.Errors(err)
	require.Len(t, errs, 3)
	require.ErrorIs(t, errs[0], ErrInvalidWatermark)
	require.ErrorIs(t, errs[1], ErrInvalidBatch)
	require.ErrorIs(t, errs[2], ErrInvalidDelta)
	for _, e := range errs {
		require.Contains(t, e.Error(), path)
	}
}

// TestAllocatorCfg_Validate_ZeroCapacity rejects classes without slots.
func TestAllocatorCfg_Validate_ZeroCapacity(t *testing.T) {
	cfg := Default()
	cfg.Allocator = &AllocatorCfg{Tiers: []TierCfg{{Pools: []PoolCfg{{Classes: []ClassCfg{{AllocSize: 64}}}}}}}
	cfg.AdjustConfig()
	require.ErrorIs(t, cfg.Validate(), ErrInvalidAllocator)
}
