package evictor

import "sync/atomic"

type evictorCounters struct {
	cycles         atomic.Int64
	batches        atomic.Int64 // non-empty batches handed over to consumers
	reclaimedItems atomic.Int64
	reclaimedBytes atomic.Int64
}

func (c *evictorCounters) snapshot() (cycles, batches, reclaimedItems, reclaimedBytes int64) {
	return c.cycles.Load(), c.batches.Load(), c.reclaimedItems.Load(), c.reclaimedBytes.Load()
}

func newEvictorCounters() *evictorCounters {
	return &evictorCounters{}
}
