package allocator

import "sync/atomic"

type allocatorCounters struct {
	allocations    atomic.Int64
	slowPath       atomic.Int64 // allocations which had to evict inline
	reclaimedItems atomic.Int64
	reclaimedBytes atomic.Int64
}

func newAllocatorCounters() *allocatorCounters {
	return &allocatorCounters{}
}

func (c *allocatorCounters) snapshot() (allocations, slowPath, reclaimedItems, reclaimedBytes int64) {
	return c.allocations.Load(), c.slowPath.Load(), c.reclaimedItems.Load(), c.reclaimedBytes.Load()
}
