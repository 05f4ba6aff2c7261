package help

import (
	"github.com/Borislavv/go-ash-evict/config"
	"time"
)

// Cfg returns a simulator config with two pools of small classes and a busy workload.
func Cfg() *config.Config {
	c := &config.Config{
		Strategy: &config.StrategyCfg{
			Mode:          config.StrategyModeDynamic,
			Gate:          config.GateModeLow,
			LowWatermark:  2.0,
			HighWatermark: 5.0,
			Delta:         0.5,
			MinBatch:      5,
			MaxBatch:      40,
		},
		Evictor: &config.EvictorCfg{
			CallsPerSec: 50,
			Shards:      2,
		},
		Allocator: &config.AllocatorCfg{
			SlowPathPenalty: 100 * time.Microsecond,
			Tiers: []config.TierCfg{{
				Pools: []config.PoolCfg{
					{Classes: []config.ClassCfg{{AllocSize: 64, Capacity: 4000}, {AllocSize: 256, Capacity: 1000}}},
					{Classes: []config.ClassCfg{{AllocSize: 1024, Capacity: 500}}},
				},
			}},
		},
		Workload: &config.WorkloadCfg{
			Rate:    2_000,
			Workers: 4,
		},
	}
	c.AdjustConfig()
	return c
}

// StaticCfg is Cfg with the static controller.
func StaticCfg() *config.Config {
	c := Cfg()
	c.Strategy.Mode = config.StrategyModeStatic
	c.AdjustConfig()
	return c
}

// NoEvictionCfg is Cfg without the background evictor.
func NoEvictionCfg() *config.Config {
	c := Cfg()
	c.Evictor = nil
	c.AdjustConfig()
	return c
}
