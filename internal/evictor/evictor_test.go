package evictor

import (
	"bytes"
	"context"
	"github.com/Borislavv/go-ash-evict/config"
	"github.com/Borislavv/go-ash-evict/internal/allocator"
	"github.com/Borislavv/go-ash-evict/internal/metrics"
	"github.com/Borislavv/go-ash-evict/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"strings"
	"sync"
	"testing"
	"time"
)

func testConfig(shards int) *config.Config {
	cfg := config.Default()
	cfg.Evictor.Shards = shards
	cfg.Evictor.ReclaimRate = 0
	cfg.Allocator = &config.AllocatorCfg{
		Tiers: []config.TierCfg{{
			Pools: []config.PoolCfg{
				{Classes: []config.ClassCfg{{AllocSize: 64, Capacity: 1000}, {AllocSize: 128, Capacity: 500}}},
				{Classes: []config.ClassCfg{{AllocSize: 256, Capacity: 250}}},
			},
		}},
	}
	cfg.AdjustConfig()
	return cfg
}

// fill allocates every slot of every class so that all of them report zero free space.
func fill(t *testing.T, a *allocator.Allocator) {
	t.Helper()
	for _, key := range a.Classes() {
		capacity := a.ClassStats(key).MemorySize / a.ClassStats(key).AllocSize
		for i := uint64(0); i < capacity; i++ {
			_, err := a.Allocate(key)
			require.NoError(t, err)
		}
		require.Equal(t, 0.0, a.ClassStats(key).FreePercent)
	}
}

// TestPartition_PinsPoolsToShards keeps all classes of a pool on the same shard.
func TestPartition_PinsPoolsToShards(t *testing.T) {
	shape, err := model.NewShape(2, 8, 4)
	require.NoError(t, err)

	parts := partition(shape.Keys(), 3)
	require.Len(t, parts, 3)

	total := 0
	owner := make(map[[2]int]int)
	for i, part := range parts {
		total += len(part)
		for _, key := range part {
			pool := [2]int{int(key.Tier()), int(key.Pool())}
			if prev, ok := owner[pool]; ok {
				require.Equal(t, prev, i, "pool %v is split between shards", pool)
			}
			owner[pool] = i
		}
	}
	require.Equal(t, shape.Size(), total)
}

// TestNew_DisabledReturnsNoOp returns the no-op evictor when the section is missing.
func TestNew_DisabledReturnsNoOp(t *testing.T) {
	cfg := testConfig(1)
	cfg.Evictor = nil

	a, err := allocator.New(cfg.Allocator)
	require.NoError(t, err)

	e, err := New(context.Background(), cfg, zerolog.Nop(), a, nil)
	require.NoError(t, err)
	require.IsType(t, NoOpEvictor{}, e)
	require.NoError(t, e.ForceCall(time.Millisecond))
	require.True(t, e.LastCycle().IsZero())
	require.NoError(t, e.Close())
}

// TestNew_InvalidStrategy surfaces strategy construction errors.
func TestNew_InvalidStrategy(t *testing.T) {
	cfg := testConfig(1)
	a, err := allocator.New(cfg.Allocator)
	require.NoError(t, err)

	cfg.Strategy.MinBatch = 100
	_, err = New(context.Background(), cfg, zerolog.Nop(), a, nil)
	require.ErrorIs(t, err, config.ErrInvalidBatch)
}

// TestEvictor_ForceCallReclaims frees objects of full classes and publishes stats.
func TestEvictor_ForceCallReclaims(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig(2)
	a, err := allocator.New(cfg.Allocator)
	require.NoError(t, err)
	fill(t, a)

	registry := prometheus.NewRegistry()
	collector := metrics.NewEvictionCollector(registry)
	e, err := New(ctx, cfg, zerolog.Nop(), a, collector)
	require.NoError(t, err)
	defer func() { _ = e.Close() }()

	require.NoError(t, e.ForceCall(time.Second))

	require.Eventually(t, func() bool {
		_, _, items, _ := e.EvictorMetrics()
		return items >= int64(cfg.Strategy.MaxBatch)
	}, 5*time.Second, 10*time.Millisecond)

	for _, key := range a.Classes() {
		require.Eventually(t, func() bool {
			return a.ClassStats(key).FreePercent > 0
		}, 5*time.Second, 10*time.Millisecond, "class %s", key)
	}

	cycles, batches, items, bytes := e.EvictorMetrics()
	require.Positive(t, cycles)
	require.Positive(t, batches)
	_, _, allocItems, allocBytes := a.Metrics()
	require.GreaterOrEqual(t, allocItems, items)
	require.GreaterOrEqual(t, allocBytes, bytes)

	require.False(t, e.LastCycle().IsZero())
	require.Positive(t, e.StrategyCounters().Evaluated)

	var evaluated int
	for _, s := range e.StrategyStats() {
		require.Equal(t, config.StrategyModeDynamic, s.Mode)
		evaluated += len(s.Classes)
	}
	require.Equal(t, len(a.Classes()), evaluated)

	require.Eventually(t, func() bool {
		series, err := testutil.GatherAndCount(registry, "ashevict_evictor_reclaimed_items_total")
		return err == nil && series == len(a.Classes())
	}, 5*time.Second, 10*time.Millisecond)
}

// TestEvictor_ForceCallAfterClose does not block once the evictor is stopped.
func TestEvictor_ForceCallAfterClose(t *testing.T) {
	cfg := testConfig(1)
	a, err := allocator.New(cfg.Allocator)
	require.NoError(t, err)

	e, err := New(context.Background(), cfg, zerolog.Nop(), a, nil)
	require.NoError(t, err)
	require.NoError(t, e.Close())

	require.NoError(t, e.ForceCall(10*time.Millisecond))
}

// TestEvictor_HealthyClassesAreLeftAlone never reclaims from classes above the low watermark.
func TestEvictor_HealthyClassesAreLeftAlone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig(1)
	a, err := allocator.New(cfg.Allocator)
	require.NoError(t, err)

	e, err := New(ctx, cfg, zerolog.Nop(), a, nil)
	require.NoError(t, err)
	defer func() { _ = e.Close() }()

	require.NoError(t, e.ForceCall(time.Second))
	require.Eventually(t, func() bool {
		return e.StrategyCounters().Gated >= int64(len(a.Classes()))
	}, 5*time.Second, 10*time.Millisecond)

	_, batches, items, _ := e.EvictorMetrics()
	require.Zero(t, batches)
	require.Zero(t, items)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// brokenAllocator reports stats the strategy cannot use.
type brokenAllocator struct {
	shape model.Shape
}

func (a brokenAllocator) Shape() model.Shape        { return a.shape }
func (a brokenAllocator) Classes() []model.ClassKey { return a.shape.Keys() }

func (a brokenAllocator) ClassStats(key model.ClassKey) model.ClassStats {
	if key.Class() == 0 {
		return model.ClassStats{FreePercent: -3, MemorySize: 1 << 20, AllocSize: 0, AllocLatencyNs: 100}
	}
	return model.ClassStats{FreePercent: 150, MemorySize: 1 << 20, AllocSize: 64, AllocLatencyNs: 100}
}

func (a brokenAllocator) Reclaim(model.ClassKey, uint64) (int64, int64) { return 0, 0 }

// TestEvictor_WarnsOnAnomalies logs classes without alloc size and free percents out of range.
func TestEvictor_WarnsOnAnomalies(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &syncBuffer{}
	cfg := testConfig(1)
	a := brokenAllocator{shape: model.Shape{Tiers: 1, Pools: 1, Classes: 2}}

	e, err := New(ctx, cfg, zerolog.New(sink), a, nil)
	require.NoError(t, err)
	defer func() { _ = e.Close() }()

	require.NoError(t, e.ForceCall(time.Second))
	require.Eventually(t, func() bool {
		out := sink.String()
		return strings.Contains(out, "classes without alloc size") &&
			strings.Contains(out, "free percent outside")
	}, 5*time.Second, 10*time.Millisecond)

	require.Contains(t, sink.String(), `"level":"warn"`)
	require.Contains(t, sink.String(), `"component":"evictor"`)
}
