package allocator

import (
	"errors"
	"fmt"
	"github.com/Borislavv/go-ash-evict/config"
	"github.com/Borislavv/go-ash-evict/internal/shared/queue"
	"github.com/Borislavv/go-ash-evict/model"
	"time"
)

var (
	ErrUnknownClass = errors.New("allocation class is not declared")
	ErrNoSlot       = errors.New("allocation class has no slot to reuse")
)

// Allocator is an in-memory slab allocator: every class owns a fixed number of
// equally sized slots. When a class runs out of free slots, allocation takes the
// slow path and evicts the oldest object inline, which shows up as higher latency.
// Background eviction keeps classes off the slow path.
type Allocator struct {
	cfg      *config.AllocatorCfg
	shape    model.Shape
	classes  []*class // dense by Shape.Index, nil for undeclared slots of the shape
	keys     []model.ClassKey
	counters *allocatorCounters
}

type class struct {
	key       model.ClassKey
	allocSize uint64
	free      queue.Queue // free slot ids
	used      queue.Queue // used slot ids, oldest first
	latency   *Estimator
}

func New(cfg *config.AllocatorCfg) (*Allocator, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%w: allocator config is nil", config.ErrInvalidAllocator)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	shape, err := model.NewShape(len(cfg.Tiers), cfg.MaxPools, cfg.MaxClasses)
	if err != nil {
		return nil, fmt.Errorf("allocator shape: %w", err)
	}

	a := &Allocator{
		cfg:      cfg,
		shape:    shape,
		classes:  make([]*class, shape.Size()),
		counters: newAllocatorCounters(),
	}

	for t, tier := range cfg.Tiers {
		for p, pool := range tier.Pools {
			for c, classCfg := range pool.Classes {
				key := shape.MustKey(model.TierID(t), model.PoolID(p), model.ClassID(c))
				a.classes[shape.Index(key)] = newClass(key, classCfg, cfg.LatencyAlpha)
				a.keys = append(a.keys, key)
			}
		}
	}

	return a, nil
}

func newClass(key model.ClassKey, cfg config.ClassCfg, alpha float64) *class {
	c := &class{
		key:       key,
		allocSize: cfg.AllocSize,
		latency:   NewEstimator(alpha),
	}
	c.free.Init(int(cfg.Capacity))
	c.used.Init(int(cfg.Capacity))
	for slot := uint64(0); slot < cfg.Capacity; slot++ {
		c.free.TryPush(slot)
	}
	return c
}

func (a *Allocator) Shape() model.Shape { return a.shape }

// Classes returns every declared class in dense index order.
func (a *Allocator) Classes() []model.ClassKey { return a.keys }

// ClassStats implements model.ClassStatsProvider. Undeclared classes report zero stats.
func (a *Allocator) ClassStats(key model.ClassKey) model.ClassStats {
	c := a.class(key)
	if c == nil {
		return model.ClassStats{}
	}
	return model.ClassStats{
		FreePercent:    float64(c.free.Len()) * 100 / float64(c.capacity()),
		MemorySize:     c.capacity() * c.allocSize,
		AllocSize:      c.allocSize,
		AllocLatencyNs: c.latency.Estimate(),
	}
}

// Allocate takes a slot from the class, evicting the oldest object inline if none is free.
func (a *Allocator) Allocate(key model.ClassKey) (slot uint64, err error) {
	c := a.class(key)
	if c == nil {
		return 0, fmt.Errorf("%w: %s", ErrUnknownClass, key)
	}

	start := time.Now()
	slot, ok := c.free.TryPop()
	var penalty time.Duration
	if !ok {
		if slot, ok = c.used.TryPop(); !ok {
			return 0, fmt.Errorf("%w: %s", ErrNoSlot, key)
		}
		a.counters.slowPath.Add(1)
		penalty = a.cfg.SlowPathPenalty
	}
	c.used.TryPush(slot)

	c.latency.Record(time.Since(start) + penalty)
	a.counters.allocations.Add(1)
	return slot, nil
}

// Reclaim frees up to n of the oldest objects of the class.
func (a *Allocator) Reclaim(key model.ClassKey, n uint64) (items, bytes int64) {
	c := a.class(key)
	if c == nil {
		return 0, 0
	}

	for ; n > 0; n-- {
		slot, ok := c.used.TryPop()
		if !ok {
			break
		}
		c.free.TryPush(slot)
		items++
	}
	bytes = items * int64(c.allocSize)

	if items > 0 {
		a.counters.reclaimedItems.Add(items)
		a.counters.reclaimedBytes.Add(bytes)
	}
	return items, bytes
}

// Mem returns bytes held by used slots across all classes.
func (a *Allocator) Mem() (used, total uint64) {
	for _, key := range a.keys {
		c := a.classes[a.shape.Index(key)]
		used += uint64(c.used.Len()) * c.allocSize
		total += c.capacity() * c.allocSize
	}
	return used, total
}

func (a *Allocator) Metrics() (allocations, slowPath, reclaimedItems, reclaimedBytes int64) {
	return a.counters.snapshot()
}

func (a *Allocator) class(key model.ClassKey) *class {
	if !a.shape.Contains(key) {
		return nil
	}
	return a.classes[a.shape.Index(key)]
}

func (c *class) capacity() uint64 { return uint64(c.used.Cap()) }
