package strategy

import "sync/atomic"

// Counters are cumulative (monotonic) and safe to read from any goroutine.
type Counters struct {
	Cycles        int64 // CalculateBatchSizes calls with a non-empty class list
	Evaluated     int64 // classes looked at
	Gated         int64 // healthy classes skipped without touching their state
	ZeroLatency   int64 // samples skipped because the latency estimate was 0
	ZeroAllocSize int64 // classes which could not be sized because alloc size was 0
	Overshoots    int64 // threshold lowered because the previous cycle reclaimed too much
	ClimbsUp      int64 // hill climbing raised the threshold
	ClimbsDown    int64 // hill climbing lowered the threshold
	Clamped       int64 // threshold pulled back up to the low watermark
}

type counters struct {
	cycles        atomic.Int64
	evaluated     atomic.Int64
	gated         atomic.Int64
	zeroLatency   atomic.Int64
	zeroAllocSize atomic.Int64
	overshoots    atomic.Int64
	climbsUp      atomic.Int64
	climbsDown    atomic.Int64
	clamped       atomic.Int64
}

func newCounters() *counters {
	return &counters{}
}

func (c *counters) snapshot() Counters {
	return Counters{
		Cycles:        c.cycles.Load(),
		Evaluated:     c.evaluated.Load(),
		Gated:         c.gated.Load(),
		ZeroLatency:   c.zeroLatency.Load(),
		ZeroAllocSize: c.zeroAllocSize.Load(),
		Overshoots:    c.overshoots.Load(),
		ClimbsUp:      c.climbsUp.Load(),
		ClimbsDown:    c.climbsDown.Load(),
		Clamped:       c.clamped.Load(),
	}
}
