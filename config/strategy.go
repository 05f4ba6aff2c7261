package config

// StrategyMode selects how the per-class threshold is derived.
type StrategyMode string

const (
	// StrategyModeStatic uses one global high watermark for every class.
	StrategyModeStatic StrategyMode = "static"

	// StrategyModeDynamic tunes the high watermark of every class by hill climbing
	// on an inverse allocation latency signal.
	StrategyModeDynamic StrategyMode = "dynamic"
)

// GateMode selects which watermark decides that a class is healthy and must be skipped.
type GateMode string

const (
	// GateModeLow skips classes whose free space is at or above the low watermark.
	GateModeLow GateMode = "low"

	// GateModeHigh skips classes whose free space is at or above their current high watermark.
	GateModeHigh GateMode = "high"
)

type StrategyCfg struct {
	// Mode defines the strategy variant.
	// Supported values:
	//   - "static":  a single global high watermark
	//   - "dynamic": per-class high watermarks tuned online
	Mode StrategyMode `yaml:"mode"`

	// Gate defines the healthy-class gate, "low" by default.
	Gate GateMode `yaml:"gate"`

	// LowWatermark is a free space percentage. Below it eviction starts (dynamic mode),
	// and the dynamic high watermark never sinks below it.
	LowWatermark float64 `yaml:"low_watermark"`

	// HighWatermark is the free space percentage eviction aims for.
	// In dynamic mode it is only the initial value of every class.
	HighWatermark float64 `yaml:"high_watermark"`

	// Delta is the hill climbing step in percents (dynamic mode only).
	Delta float64 `yaml:"delta"`

	// MinBatch is the least number of objects reclaimed from a class that needs eviction at all.
	MinBatch uint64 `yaml:"min_batch"`

	// MaxBatch bounds the batch of the neediest class in one cycle.
	// Other classes are scaled proportionally to it.
	MaxBatch uint64 `yaml:"max_batch"`

	// IsDynamic is derived from Mode during initialization. It is not read from YAML.
	IsDynamic bool // virtual: computed during init

	// IsHighGate is derived from Gate during initialization. It is not read from YAML.
	IsHighGate bool // virtual: computed during init
}

// Adjust fills the default gate and computes virtual fields from Mode and Gate.
func (cfg *StrategyCfg) Adjust() {
	if cfg.Gate == "" {
		cfg.Gate = GateModeLow
	}
	cfg.IsDynamic = cfg.Mode == StrategyModeDynamic
	cfg.IsHighGate = cfg.Gate == GateModeHigh
}
