package strategy

import (
	"github.com/Borislavv/go-ash-evict/config"
	"github.com/Borislavv/go-ash-evict/model"
)

// DynamicStrategy tunes the high watermark of every class online.
//
// Each cycle a class below the gate samples its benefit (inverse allocation latency)
// and moves its threshold by delta: down when the class over-reclaimed,
// otherwise in the direction of the last move if the benefit improved and
// against it if it did not. The threshold never sinks below the low watermark.
//
// Healthy classes are frozen: while gated, none of their windows move, so the
// hill climb resumes from the last real observation once the class needs eviction again.
type DynamicStrategy struct {
	base
}

func NewDynamic(cfg *config.StrategyCfg, shape model.Shape, provider model.ClassStatsProvider) *DynamicStrategy {
	return &DynamicStrategy{base: newBase(cfg, shape, provider)}
}

func (d *DynamicStrategy) CalculateBatchSizes(classes []model.ClassKey) []uint64 {
	batches := make([]uint64, len(classes))
	if len(classes) == 0 {
		return batches
	}
	d.counters.cycles.Add(1)

	for i, key := range classes {
		batches[i] = d.evaluate(key)
	}

	return d.normalize(batches)
}

func (d *DynamicStrategy) evaluate(key model.ClassKey) uint64 {
	stats := d.provider.ClassStats(key)
	state := d.store.touch(key)
	d.counters.evaluated.Add(1)

	if d.isHealthy(stats.FreePercent, state) {
		d.counters.gated.Add(1)
		return 0
	}

	d.sample(key, stats.AllocLatencyNs)

	threshold := d.nextThreshold(stats.FreePercent, state)
	if threshold < d.cfg.LowWatermark {
		threshold = d.cfg.LowWatermark
		d.counters.clamped.Add(1)
	}

	toFreePercent := threshold - stats.FreePercent
	items := d.objectsToReclaim(toFreePercent, stats)

	d.store.Shift(key, threshold)
	d.store.ShiftPending(key, toFreePercent)

	return items
}

func (d *DynamicStrategy) isHealthy(freePercent float64, state *ClassState) bool {
	if d.cfg.IsHighGate {
		return freePercent >= state.Threshold.Current
	}
	return freePercent >= d.cfg.LowWatermark
}

// nextThreshold makes one hill climbing step from the current threshold.
func (d *DynamicStrategy) nextThreshold(freePercent float64, state *ClassState) float64 {
	threshold, delta := state.Threshold.Current, d.cfg.Delta

	if state.Pending.Previous < freePercent/2 {
		// more than a half of the free space is already ours: back off
		d.counters.overshoots.Add(1)
		return threshold - delta
	}

	var up bool
	if state.Benefit.Current > state.Benefit.Previous {
		up = state.Threshold.rising()
	} else {
		up = state.Threshold.falling()
	}

	if up {
		d.counters.climbsUp.Add(1)
		return threshold + delta
	}
	d.counters.climbsDown.Add(1)
	return threshold - delta
}
