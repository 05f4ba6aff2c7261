package evictor

import (
	"github.com/Borislavv/go-ash-evict/internal/strategy"
	"time"
)

var _ Evictor = NoOpEvictor{}

// NoOpEvictor is a no-op implementation of Evictor.
// It performs no eviction and reports zero metrics.
type NoOpEvictor struct{}

// ForceCall does nothing and returns nil immediately.
func (NoOpEvictor) ForceCall(time.Duration) error {
	return nil
}

// EvictorMetrics always returns zero values.
func (NoOpEvictor) EvictorMetrics() (cycles, batches, reclaimedItems, reclaimedBytes int64) {
	return 0, 0, 0, 0
}

func (NoOpEvictor) StrategyCounters() strategy.Counters { return strategy.Counters{} }

func (NoOpEvictor) StrategyStats() []strategy.Stats { return nil }

func (NoOpEvictor) LastCycle() time.Time { return time.Time{} }

// Close does nothing and returns nil.
func (NoOpEvictor) Close() error {
	return nil
}
