package evictor

import (
	"context"
	"errors"
	"fmt"
	"github.com/Borislavv/go-ash-evict/config"
	"github.com/Borislavv/go-ash-evict/internal/metrics"
	"github.com/Borislavv/go-ash-evict/internal/shared/cachedtime"
	"github.com/Borislavv/go-ash-evict/internal/shared/rate"
	"github.com/Borislavv/go-ash-evict/internal/strategy"
	"github.com/Borislavv/go-ash-evict/model"
	"github.com/rs/zerolog"
	"runtime"
	"sync"
	"time"
)

var ErrEvictorNotResponded = errors.New("evictor not responded")

// Allocator is the cache side of the evictor: it reports class stats and frees objects.
type Allocator interface {
	model.ClassStatsProvider
	Shape() model.Shape
	Classes() []model.ClassKey
	Reclaim(key model.ClassKey, n uint64) (items, bytes int64)
}

type Evictor interface {
	ForceCall(timeout time.Duration) error
	EvictorMetrics() (cycles, batches, reclaimedItems, reclaimedBytes int64)
	// StrategyCounters sums counters of all shards.
	StrategyCounters() strategy.Counters
	// StrategyStats returns the last published stats of every shard that completed a cycle.
	StrategyStats() []strategy.Stats
	// LastCycle is the time of the most recent cycle of any shard, zero if none ran yet.
	LastCycle() time.Time
	Close() error
}

type job struct {
	key   model.ClassKey
	items uint64
}

type EvictionWorker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config.EvictorCfg
	logger   zerolog.Logger
	alloc    Allocator
	recorder metrics.Recorder
	pacer    rate.Pacer
	shards   []*shard
	counters *evictorCounters
	invokeCh chan job
}

func New(
	ctx context.Context,
	cfg *config.Config,
	logger zerolog.Logger,
	alloc Allocator,
	recorder metrics.Recorder,
) (Evictor, error) {
	if !cfg.Evictor.Enabled() {
		return NoOpEvictor{}, nil
	}
	if cfg.Strategy == nil {
		return nil, config.ErrStrategyRequired
	}
	if recorder == nil {
		recorder = metrics.NoopCollector{}
	}

	n := max(cfg.Evictor.Shards, 1)
	shards := make([]*shard, 0, n)
	for i, classes := range partition(alloc.Classes(), n) {
		sh := &shard{
			id:      i,
			alloc:   alloc,
			classes: classes,
			forceCh: make(chan struct{}),
		}
		s, err := strategy.New(cfg.Strategy, alloc.Shape(), sh)
		if err != nil {
			return nil, fmt.Errorf("shard %d: %w", i, err)
		}
		sh.strategy = s
		shards = append(shards, sh)
	}

	ctx, cancel := context.WithCancel(ctx)
	return (&EvictionWorker{
		ctx:      ctx,
		cancel:   cancel,
		cfg:      cfg.Evictor,
		logger:   logger.With().Str("component", "evictor").Logger(),
		alloc:    alloc,
		recorder: recorder,
		pacer:    rate.NewPacer(ctx, cfg.Evictor.ReclaimRate),
		shards:   shards,
		counters: newEvictorCounters(),
		invokeCh: make(chan job, runtime.GOMAXPROCS(0)),
	}).run(), nil
}

// ForceCall makes every shard run a cycle right now.
func (w *EvictionWorker) ForceCall(timeout time.Duration) error {
	after := time.NewTimer(timeout)
	defer after.Stop()

	for _, sh := range w.shards {
		select {
		case <-w.ctx.Done():
			return nil
		case sh.forceCh <- struct{}{}:
		case <-after.C:
			return ErrEvictorNotResponded
		}
	}
	return nil
}

func (w *EvictionWorker) EvictorMetrics() (cycles, batches, reclaimedItems, reclaimedBytes int64) {
	return w.counters.snapshot()
}

func (w *EvictionWorker) StrategyCounters() (sum strategy.Counters) {
	for _, sh := range w.shards {
		c := sh.strategy.Counters()
		sum.Cycles += c.Cycles
		sum.Evaluated += c.Evaluated
		sum.Gated += c.Gated
		sum.ZeroLatency += c.ZeroLatency
		sum.ZeroAllocSize += c.ZeroAllocSize
		sum.Overshoots += c.Overshoots
		sum.ClimbsUp += c.ClimbsUp
		sum.ClimbsDown += c.ClimbsDown
		sum.Clamped += c.Clamped
	}
	return sum
}

func (w *EvictionWorker) StrategyStats() []strategy.Stats {
	out := make([]strategy.Stats, 0, len(w.shards))
	for _, sh := range w.shards {
		if s := sh.stats.Load(); s != nil {
			out = append(out, *s)
		}
	}
	return out
}

func (w *EvictionWorker) LastCycle() time.Time {
	var last int64
	for _, sh := range w.shards {
		last = max(last, sh.lastCycleAt.Load())
	}
	if last == 0 {
		return time.Time{}
	}
	return time.Unix(0, last)
}

func (w *EvictionWorker) Close() error {
	w.cancel()
	return nil
}

func (w *EvictionWorker) run() *EvictionWorker {
	w.logger.Info().
		Int64("calls_per_sec", w.cfg.CallsPerSec).
		Int("shards", len(w.shards)).
		Int("reclaim_rate", w.cfg.ReclaimRate).
		Msg("evictor is running")

	go func() {
		defer w.logger.Info().Msg("evictor is stopped")
		var wg sync.WaitGroup
		for i := 0; i < runtime.GOMAXPROCS(0); i++ {
			wg.Go(w.consumer)
		}
		for _, sh := range w.shards {
			wg.Go(func() { w.provider(sh) })
		}
		wg.Wait()
	}()

	return w
}

// provider - the single owner of a shard's strategy: asks it for batch sizes on every tick.
func (w *EvictionWorker) provider(sh *shard) {
	var callsPerSec = w.cfg.CallsPerSec
	if callsPerSec <= 0 {
		callsPerSec = 1
	}

	tick := time.NewTicker(time.Second / time.Duration(callsPerSec))
	defer tick.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-tick.C:
			w.cycle(sh)
		case <-sh.forceCh:
			w.cycle(sh)
		}
	}
}

func (w *EvictionWorker) cycle(sh *shard) {
	if len(sh.classes) == 0 {
		return
	}

	batches := sh.strategy.CalculateBatchSizes(sh.classes)
	stats := sh.strategy.Stats()
	sh.stats.Store(&stats)
	sh.lastCycleAt.Store(cachedtime.UnixNano())
	w.counters.cycles.Add(1)

	w.recorder.ObserveCycle(sh.id, sh.classes, batches)
	for _, c := range stats.Classes {
		w.recorder.SetThreshold(c.Key, c.Threshold.Current)
	}

	if zeroAlloc := stats.Counters.ZeroAllocSize; zeroAlloc > sh.zeroAlloc {
		w.logger.Warn().
			Int("shard", sh.id).
			Int64("classes", zeroAlloc-sh.zeroAlloc).
			Msg("classes without alloc size cannot be sized for eviction")
		sh.zeroAlloc = zeroAlloc
	}

	if sh.badFree > 0 {
		w.logger.Warn().
			Int("shard", sh.id).
			Int("classes", sh.badFree).
			Msg("allocator reported free percent outside [0, 100]")
		sh.badFree = 0
	}

	for i, n := range batches {
		if n == 0 {
			continue
		}
		w.counters.batches.Add(1)
		if e := w.logger.Debug(); e.Enabled() {
			e.Int("shard", sh.id).Stringer("class", sh.classes[i]).Uint64("items", n).Msg("eviction batch")
		}
		select {
		case <-w.ctx.Done():
			return
		case w.invokeCh <- job{key: sh.classes[i], items: n}:
		}
	}
}

// consumer - frees batches from the allocator, paced by the reclaim rate.
func (w *EvictionWorker) consumer() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case j := <-w.invokeCh:
			w.pacer.Take()
			items, bytes := w.alloc.Reclaim(j.key, j.items)
			if items > 0 || bytes > 0 {
				w.counters.reclaimedItems.Add(items)
				w.counters.reclaimedBytes.Add(bytes)
				w.recorder.ObserveReclaim(j.key, items, bytes)
			}
		}
	}
}
