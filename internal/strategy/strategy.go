package strategy

import (
	"fmt"
	"github.com/Borislavv/go-ash-evict/config"
	"github.com/Borislavv/go-ash-evict/model"
	"math"
)

// Strategy decides how many objects the background evictor should reclaim
// from each allocation class before the next check.
//
// A Strategy is owned by exactly one goroutine: CalculateBatchSizes and Stats
// must not be called concurrently. Counters is safe from any goroutine.
type Strategy interface {
	// CalculateBatchSizes returns one batch size per key, in the same order.
	// Only the classes present in the list advance their windows.
	CalculateBatchSizes(classes []model.ClassKey) []uint64
	// Stats returns per-class windows of every class evaluated so far.
	Stats() Stats
	Counters() Counters
}

var (
	_ Strategy = (*StaticStrategy)(nil)
	_ Strategy = (*DynamicStrategy)(nil)
)

// New builds the strategy selected by cfg.Mode over the given address space.
func New(cfg *config.StrategyCfg, shape model.Shape, provider model.ClassStatsProvider) (Strategy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("strategy config: %w", err)
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("strategy shape: %w", err)
	}

	if adjusted(cfg).IsDynamic {
		return NewDynamic(cfg, shape, provider), nil
	}
	return NewStatic(cfg, shape, provider), nil
}

// base is shared by both controllers.
type base struct {
	cfg      *config.StrategyCfg
	provider model.ClassStatsProvider
	store    *StateStore
	benefit  BenefitEstimator
	counters *counters
}

// adjusted returns a private copy of cfg with virtual fields derived from Mode and Gate,
// so hand-built configs behave like loaded ones and later edits by the caller are not seen.
func adjusted(cfg *config.StrategyCfg) *config.StrategyCfg {
	c := *cfg
	c.Adjust()
	return &c
}

func newBase(cfg *config.StrategyCfg, shape model.Shape, provider model.ClassStatsProvider) base {
	cfg = adjusted(cfg)
	store := NewStateStore(shape, cfg.HighWatermark)
	return base{
		cfg:      cfg,
		provider: provider,
		store:    store,
		benefit:  NewBenefitEstimator(store),
		counters: newCounters(),
	}
}

func (b *base) Counters() Counters { return b.counters.snapshot() }

func (b *base) Stats() Stats {
	return Stats{
		Mode:     b.cfg.Mode,
		Classes:  snapshotClasses(b.store),
		Counters: b.counters.snapshot(),
	}
}

func (b *base) sample(key model.ClassKey, latencyNs uint64) {
	if !b.benefit.Update(key, latencyNs) {
		b.counters.zeroLatency.Add(1)
	}
}

// objectsToReclaim converts a free space gap in percents into an object count:
// floor(gap * memorySize / allocSize). Classes which cannot be sized yield 0.
func (b *base) objectsToReclaim(toFreePercent float64, stats model.ClassStats) uint64 {
	if stats.AllocSize == 0 {
		b.counters.zeroAllocSize.Add(1)
		return 0
	}
	if !(toFreePercent > 0) {
		return 0
	}

	items := math.Floor(toFreePercent * float64(stats.MemorySize) / float64(stats.AllocSize))
	if items >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(items)
}

func (b *base) normalize(batches []uint64) []uint64 {
	return Normalize(batches, b.cfg.MinBatch, b.cfg.MaxBatch)
}
