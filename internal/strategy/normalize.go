package strategy

import (
	"math/bits"
	"slices"
)

// Normalize scales raw reclaim counts in place so that the neediest class gets maxBatch
// and every other class gets a proportional share, but not less than minBatch.
// Zero entries stay zero. An all-zero vector is returned unchanged.
func Normalize(batches []uint64, minBatch, maxBatch uint64) []uint64 {
	if len(batches) == 0 {
		return batches
	}

	maxRaw := slices.Max(batches)
	if maxRaw == 0 {
		return batches
	}

	for i, n := range batches {
		if n == 0 {
			continue
		}
		// n <= maxRaw, so hi < maxRaw and Div64 never overflows.
		hi, lo := bits.Mul64(maxBatch, n)
		scaled, _ := bits.Div64(hi, lo, maxRaw)
		if scaled < minBatch {
			scaled = minBatch
		}
		batches[i] = scaled
	}

	return batches
}
