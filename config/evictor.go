package config

type EvictorCfg struct {
	// CallsPerSec defines how many evaluation cycles every shard performs per second.
	// Each cycle asks the strategy for batch sizes of all classes owned by the shard.
	CallsPerSec int64 `yaml:"calls_per_sec"`

	// Shards defines how many independent strategy instances are used.
	// Each (tier, pool) pair is pinned to exactly one shard and each shard is driven
	// by exactly one goroutine, so strategies are never called concurrently.
	Shards int `yaml:"shards"`

	// ReclaimRate limits how many batches per second consumers hand over to the allocator.
	// Zero or negative means unlimited.
	ReclaimRate int `yaml:"reclaim_rate"`
}

func (cfg *EvictorCfg) Enabled() bool {
	return cfg != nil
}
