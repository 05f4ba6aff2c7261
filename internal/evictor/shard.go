package evictor

import (
	"github.com/Borislavv/go-ash-evict/internal/shared/furc"
	"github.com/Borislavv/go-ash-evict/internal/strategy"
	"github.com/Borislavv/go-ash-evict/model"
	"sync/atomic"
)

// shard is one strategy instance together with the classes it owns.
// Only the shard's provider goroutine calls into the strategy.
type shard struct {
	id       int
	alloc    model.ClassStatsProvider
	strategy strategy.Strategy
	classes  []model.ClassKey
	forceCh  chan struct{}

	// written by the provider goroutine after every cycle, read by anyone
	stats       atomic.Pointer[strategy.Stats]
	lastCycleAt atomic.Int64
	zeroAlloc   int64 // provider goroutine only
	badFree     int   // provider goroutine only, reset every cycle
}

// ClassStats passes stats through to the strategy and counts free percents outside [0, 100].
func (sh *shard) ClassStats(key model.ClassKey) model.ClassStats {
	stats := sh.alloc.ClassStats(key)
	if !(stats.FreePercent >= 0 && stats.FreePercent <= 100) {
		sh.badFree++
	}
	return stats
}

// shardOf pins a (tier, pool) pair to one of n shards. All classes of a pool share the shard.
func shardOf(key model.ClassKey, n int) int {
	return int(furc.Hash([]byte{byte(key.Tier()), byte(key.Pool())}, uint32(n)))
}

// partition groups classes by shard keeping their relative order.
func partition(classes []model.ClassKey, n int) [][]model.ClassKey {
	parts := make([][]model.ClassKey, n)
	for _, key := range classes {
		i := shardOf(key, n)
		parts[i] = append(parts[i], key)
	}
	return parts
}
