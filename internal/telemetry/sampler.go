package telemetry

import (
	"github.com/Borislavv/go-ash-evict/internal/evictor"
	"github.com/Borislavv/go-ash-evict/internal/workload"
)

// Allocator is the part of the allocator telemetry reports on.
type Allocator interface {
	Mem() (used, total uint64)
	Metrics() (allocations, slowPath, reclaimedItems, reclaimedBytes int64)
}

type sampler struct {
	alloc    Allocator
	evictor  evictor.Evictor
	workload workload.Workload
}

func newSampler(a Allocator, e evictor.Evictor, w workload.Workload) sampler {
	return sampler{alloc: a, evictor: e, workload: w}
}

// snapshot holds cumulative counters (monotonic).
type snapshot struct {
	allocations uint64
	slowPath    uint64

	cycles         uint64
	batches        uint64
	reclaimedItems uint64
	reclaimedBytes uint64

	evaluated  uint64
	gated      uint64
	overshoots uint64
	climbsUp   uint64
	climbsDown uint64
	clamped    uint64

	workloadErrors uint64
}

func (s sampler) snapshot() snapshot {
	allocations, slowPath, _, _ := s.alloc.Metrics()
	cycles, batches, items, bytes := s.evictor.EvictorMetrics()
	counters := s.evictor.StrategyCounters()
	_, _, errs := s.workload.WorkloadMetrics()

	return snapshot{
		allocations: uint64(max(allocations, 0)),
		slowPath:    uint64(max(slowPath, 0)),

		cycles:         uint64(max(cycles, 0)),
		batches:        uint64(max(batches, 0)),
		reclaimedItems: uint64(max(items, 0)),
		reclaimedBytes: uint64(max(bytes, 0)),

		evaluated:  uint64(max(counters.Evaluated, 0)),
		gated:      uint64(max(counters.Gated, 0)),
		overshoots: uint64(max(counters.Overshoots, 0)),
		climbsUp:   uint64(max(counters.ClimbsUp, 0)),
		climbsDown: uint64(max(counters.ClimbsDown, 0)),
		clamped:    uint64(max(counters.Clamped, 0)),

		workloadErrors: uint64(max(errs, 0)),
	}
}

// deltaSnapshot converts cumulative snapshots to per-interval deltas.
// If counters reset (cur < prev), it treats cur as the delta.
func deltaSnapshot(prev, cur snapshot) snapshot {
	return snapshot{
		allocations: delta(prev.allocations, cur.allocations),
		slowPath:    delta(prev.slowPath, cur.slowPath),

		cycles:         delta(prev.cycles, cur.cycles),
		batches:        delta(prev.batches, cur.batches),
		reclaimedItems: delta(prev.reclaimedItems, cur.reclaimedItems),
		reclaimedBytes: delta(prev.reclaimedBytes, cur.reclaimedBytes),

		evaluated:  delta(prev.evaluated, cur.evaluated),
		gated:      delta(prev.gated, cur.gated),
		overshoots: delta(prev.overshoots, cur.overshoots),
		climbsUp:   delta(prev.climbsUp, cur.climbsUp),
		climbsDown: delta(prev.climbsDown, cur.climbsDown),
		clamped:    delta(prev.clamped, cur.clamped),

		workloadErrors: delta(prev.workloadErrors, cur.workloadErrors),
	}
}

func delta(prev, cur uint64) uint64 {
	if cur >= prev {
		return cur - prev
	}
	return cur
}
