package config

import "time"

// AllocatorCfg describes tiers, pools and allocation classes of the in-memory allocator.
//
// Example:
//
//	allocator:
//	  slow_path_penalty: 20us
//	  tiers:
//	    - pools:
//	        - classes:
//	            - { alloc_size: 64, capacity: 4096 }
//	            - { alloc_size: 256, capacity: 1024 }
type AllocatorCfg struct {
	Tiers []TierCfg `yaml:"tiers"`

	// SlowPathPenalty is added to the measured latency of an allocation
	// which had to evict inline because its class was full.
	SlowPathPenalty time.Duration `yaml:"slow_path_penalty"`

	// LatencyAlpha is the smoothing factor of the latency moving average, (0, 1].
	LatencyAlpha float64 `yaml:"latency_alpha"`

	// MaxPools and MaxClasses are derived from Tiers during initialization. They are not read from YAML.
	MaxPools   int // virtual: computed during init
	MaxClasses int // virtual: computed during init
}

type TierCfg struct {
	Pools []PoolCfg `yaml:"pools"`
}

type PoolCfg struct {
	Classes []ClassCfg `yaml:"classes"`
}

type ClassCfg struct {
	// AllocSize is the object slot size in bytes.
	AllocSize uint64 `yaml:"alloc_size"`
	// Capacity is the number of slots.
	Capacity uint64 `yaml:"capacity"`
}

func (cfg *AllocatorCfg) Enabled() bool {
	return cfg != nil
}

func (cfg *AllocatorCfg) adjust() {
	const defaultLatencyAlpha = 0.2
	if cfg.LatencyAlpha <= 0 || cfg.LatencyAlpha > 1 {
		cfg.LatencyAlpha = defaultLatencyAlpha
	}

	cfg.MaxPools, cfg.MaxClasses = 0, 0
	for _, tier := range cfg.Tiers {
		cfg.MaxPools = max(cfg.MaxPools, len(tier.Pools))
		for _, pool := range tier.Pools {
			cfg.MaxClasses = max(cfg.MaxClasses, len(pool.Classes))
		}
	}
}
