package allocator

import (
	"math"
	"sync/atomic"
	"time"
)

// Estimator is an exponentially weighted moving average of allocation latency.
// It is safe for concurrent use. A zero estimate means no samples yet.
type Estimator struct {
	alpha float64
	bits  atomic.Uint64
}

func NewEstimator(alpha float64) *Estimator {
	return &Estimator{alpha: alpha}
}

func (e *Estimator) Record(d time.Duration) {
	if d <= 0 {
		return
	}
	sample := float64(d.Nanoseconds())
	for {
		old := e.bits.Load()
		next := sample
		if old != 0 {
			prev := math.Float64frombits(old)
			next = e.alpha*sample + (1-e.alpha)*prev
		}
		if e.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return
		}
	}
}

// Estimate returns the current average in nanoseconds.
func (e *Estimator) Estimate() uint64 {
	return uint64(math.Round(math.Float64frombits(e.bits.Load())))
}
