package tests

import (
	ashevict "github.com/Borislavv/go-ash-evict"
	"github.com/Borislavv/go-ash-evict/config"
	"github.com/Borislavv/go-ash-evict/internal/shared/random"
	"github.com/Borislavv/go-ash-evict/model"
	"testing"
)

func benchStats(shape model.Shape) []model.ClassStats {
	stats := make([]model.ClassStats, shape.Size())
	for i := range stats {
		stats[i] = model.ClassStats{
			FreePercent:    random.Float64() * 6,
			MemorySize:     1 << 26,
			AllocSize:      64 << (i % 8),
			AllocLatencyNs: uint64(100 + random.Intn(10_000)),
		}
	}
	return stats
}

func benchStrategy(b *testing.B, mode config.StrategyMode, classes int) {
	shape, err := model.NewShape(1, 4, classes)
	if err != nil {
		b.Fatal(err)
	}
	stats := benchStats(shape)
	provider := model.ClassStatsProviderFunc(func(key model.ClassKey) model.ClassStats {
		return stats[shape.Index(key)]
	})

	cfg := config.Default()
	cfg.Strategy.Mode = mode
	cfg.AdjustConfig()

	s, err := ashevict.NewStrategy(cfg.Strategy, shape, provider)
	if err != nil {
		b.Fatal(err)
	}
	keys := shape.Keys()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.CalculateBatchSizes(keys)
	}
}

func BenchmarkDynamic_64Classes(b *testing.B)  { benchStrategy(b, config.StrategyModeDynamic, 16) }
func BenchmarkDynamic_1024Classes(b *testing.B) { benchStrategy(b, config.StrategyModeDynamic, 256) }
func BenchmarkStatic_64Classes(b *testing.B)   { benchStrategy(b, config.StrategyModeStatic, 16) }
func BenchmarkStatic_1024Classes(b *testing.B)  { benchStrategy(b, config.StrategyModeStatic, 256) }
