package workload

import "sync/atomic"

type workloadCounters struct {
	issued atomic.Int64 // allocations handed over to workers
	done   atomic.Int64 // successful allocations
	errors atomic.Int64 // failed allocations
}

func newWorkloadCounters() *workloadCounters {
	return &workloadCounters{}
}

func (c *workloadCounters) snapshot() (issued, done, errors int64) {
	return c.issued.Load(), c.done.Load(), c.errors.Load()
}
