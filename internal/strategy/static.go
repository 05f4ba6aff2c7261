package strategy

import (
	"github.com/Borislavv/go-ash-evict/config"
	"github.com/Borislavv/go-ash-evict/model"
)

// StaticStrategy aims every class at one global high watermark.
// It samples benefits for reporting only and never moves the watermark.
type StaticStrategy struct {
	base
}

func NewStatic(cfg *config.StrategyCfg, shape model.Shape, provider model.ClassStatsProvider) *StaticStrategy {
	return &StaticStrategy{base: newBase(cfg, shape, provider)}
}

func (s *StaticStrategy) CalculateBatchSizes(classes []model.ClassKey) []uint64 {
	batches := make([]uint64, len(classes))
	if len(classes) == 0 {
		return batches
	}
	s.counters.cycles.Add(1)

	for i, key := range classes {
		stats := s.provider.ClassStats(key)
		s.store.touch(key)
		s.counters.evaluated.Add(1)
		s.sample(key, stats.AllocLatencyNs)

		if stats.FreePercent >= s.cfg.HighWatermark {
			s.counters.gated.Add(1)
			continue
		}
		batches[i] = s.objectsToReclaim(s.cfg.HighWatermark-stats.FreePercent, stats)
	}

	return s.normalize(batches)
}
