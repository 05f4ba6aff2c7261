package metrics

import (
	"github.com/Borislavv/go-ash-evict/model"
	"github.com/prometheus/client_golang/prometheus"
	"strconv"
)

const (
	namespace         = "ashevict"
	subsystemStrategy = "strategy"
	subsystemEvictor  = "evictor"
)

// Recorder receives eviction cycle results from the background evictor.
type Recorder interface {
	// ObserveCycle reports one strategy invocation of a shard.
	ObserveCycle(shard int, classes []model.ClassKey, batches []uint64)
	// SetThreshold reports the current high watermark of a class.
	SetThreshold(key model.ClassKey, percent float64)
	// ObserveReclaim reports objects actually freed for a class.
	ObserveReclaim(key model.ClassKey, items, bytes int64)
}

var _ Recorder = (*EvictionCollector)(nil)

type EvictionCollector struct {
	threshold      *prometheus.GaugeVec
	cycles         *prometheus.CounterVec
	batchItems     *prometheus.CounterVec
	reclaimedItems *prometheus.CounterVec
	reclaimedBytes *prometheus.CounterVec
}

func NewEvictionCollector(registerer prometheus.Registerer) *EvictionCollector {
	classLabels := []string{"tier", "pool", "class"}

	c := &EvictionCollector{
		threshold: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemStrategy,
			Name:      "threshold_percent",
			Help:      "current free space target (high watermark) of an allocation class",
		}, classLabels),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemEvictor,
			Name:      "cycles_total",
			Help:      "total number of batch size calculations per shard",
		}, []string{"shard"}),
		batchItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemEvictor,
			Name:      "batch_items_total",
			Help:      "total number of objects requested for eviction by the strategy",
		}, classLabels),
		reclaimedItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemEvictor,
			Name:      "reclaimed_items_total",
			Help:      "total number of objects freed by the background evictor",
		}, classLabels),
		reclaimedBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemEvictor,
			Name:      "reclaimed_bytes_total",
			Help:      "total number of bytes freed by the background evictor",
		}, classLabels),
	}

	registerer.MustRegister(
		c.threshold,
		c.cycles,
		c.batchItems,
		c.reclaimedItems,
		c.reclaimedBytes,
	)

	return c
}

func (c *EvictionCollector) ObserveCycle(shard int, classes []model.ClassKey, batches []uint64) {
	c.cycles.WithLabelValues(strconv.Itoa(shard)).Inc()
	for i, n := range batches {
		if n > 0 {
			c.batchItems.WithLabelValues(classLabelValues(classes[i])...).Add(float64(n))
		}
	}
}

func (c *EvictionCollector) SetThreshold(key model.ClassKey, percent float64) {
	c.threshold.WithLabelValues(classLabelValues(key)...).Set(percent)
}

func (c *EvictionCollector) ObserveReclaim(key model.ClassKey, items, bytes int64) {
	labels := classLabelValues(key)
	c.reclaimedItems.WithLabelValues(labels...).Add(float64(items))
	c.reclaimedBytes.WithLabelValues(labels...).Add(float64(bytes))
}

func classLabelValues(key model.ClassKey) []string {
	return []string{
		strconv.Itoa(int(key.Tier())),
		strconv.Itoa(int(key.Pool())),
		strconv.Itoa(int(key.Class())),
	}
}
