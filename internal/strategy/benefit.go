package strategy

import "github.com/Borislavv/go-ash-evict/model"

// BenefitEstimator turns allocation latency into a benefit: the cheaper the allocation,
// the higher the benefit and the better the current watermark works.
type BenefitEstimator struct {
	store *StateStore
}

func NewBenefitEstimator(store *StateStore) BenefitEstimator {
	return BenefitEstimator{store: store}
}

// Update records 1/latency for the class. A zero estimate is not a sample:
// the history is left untouched and false is returned.
func (e BenefitEstimator) Update(key model.ClassKey, latencyNs uint64) bool {
	if latencyNs == 0 {
		return false
	}
	e.store.ShiftBenefit(key, 1.0/float64(latencyNs))
	e.store.ShiftLatency(key, float64(latencyNs))
	return true
}
