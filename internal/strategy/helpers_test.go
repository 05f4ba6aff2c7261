package strategy

import (
	"github.com/Borislavv/go-ash-evict/config"
	"github.com/Borislavv/go-ash-evict/model"
	"github.com/stretchr/testify/require"
	"testing"
)

// fakeProvider serves mutable per-class stats.
type fakeProvider struct {
	stats map[model.ClassKey]model.ClassStats
	calls int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{stats: make(map[model.ClassKey]model.ClassStats)}
}

func (p *fakeProvider) set(key model.ClassKey, stats model.ClassStats) {
	p.stats[key] = stats
}

func (p *fakeProvider) ClassStats(key model.ClassKey) model.ClassStats {
	p.calls++
	return p.stats[key]
}

func testShape(t testing.TB) model.Shape {
	s, err := model.NewShape(2, 2, 4)
	require.NoError(t, err)
	return s
}

func dynamicCfg() *config.StrategyCfg {
	cfg := &config.StrategyCfg{
		Mode:          config.StrategyModeDynamic,
		Gate:          config.GateModeLow,
		LowWatermark:  2.0,
		HighWatermark: 5.0,
		Delta:         0.5,
		MinBatch:      5,
		MaxBatch:      40,
	}
	return cfg
}

func staticCfg() *config.StrategyCfg {
	cfg := dynamicCfg()
	cfg.Mode = config.StrategyModeStatic
	return cfg
}
