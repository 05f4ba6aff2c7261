package metrics

import "github.com/Borislavv/go-ash-evict/model"

var _ Recorder = NoopCollector{}

// NoopCollector discards everything.
type NoopCollector struct{}

func (NoopCollector) ObserveCycle(int, []model.ClassKey, []uint64) {}
func (NoopCollector) SetThreshold(model.ClassKey, float64)          {}
func (NoopCollector) ObserveReclaim(model.ClassKey, int64, int64)   {}
