// Package furc implements FurcHash, a consistent hash built on a binary decision tree:
// growing the number of parts from n to n+1 moves only about 1/(n+1) of the keys.
package furc

import "github.com/zeebo/xxh3"

const (
	// maxTries bounds retries for an in-range result before falling back to 0.
	maxTries = 32
	// shift is the bit index gap per try, it limits the number of parts to 2^shift.
	shift = 23
	// cacheSize must exceed shift*(maxTries*shift+1)/64.
	cacheSize = 300

	MaxParts = 1 << shift
)

type state struct {
	idx   int
	cache [cacheSize]uint64
}

// Hash maps key onto [0, parts). parts <= 1 always yields 0.
func Hash(key []byte, parts uint32) uint32 {
	if parts <= 1 {
		return 0
	}

	s := state{}
	s.cache[0] = xxh3.Hash(key)

	var bitNum uint32
	for parts > 1<<bitNum {
		bitNum++
	}

	choice := bitNum
	for tries := 0; tries < maxTries; tries++ {
		for s.bit(choice) == 0 {
			if bitNum--; bitNum == 0 {
				return 0
			}
			choice = bitNum
		}
		choice += shift
		result := uint32(1)
		for i := uint32(0); i < bitNum-1; i++ {
			result = result<<1 | s.bit(choice)
			choice += shift
		}
		if result < parts {
			return result
		}
	}
	return 0
}

// bit returns a pseudorandom bit depending on the key and the bit index.
// Hash words are derived lazily by rehashing the previous one.
func (s *state) bit(choice uint32) uint32 {
	idx := int(choice >> 6)
	for ; s.idx < idx; s.idx++ {
		s.cache[s.idx+1] = rehash(s.cache[s.idx])
	}
	return uint32(s.cache[idx]>>(choice&0x3f)) & 1
}

// rehash is the MurmurHash64A step for a single 64-bit word.
func rehash(k uint64) uint64 {
	const (
		m    = 0xc6a4a7935bd1e995
		r    = 47
		seed = 0x5bd1e995
	)
	mul := uint64(m)
	h := uint64(seed) ^ 8*mul

	k *= m
	k ^= k >> r
	k *= m

	h ^= k
	h *= m

	h ^= h >> r
	h *= m
	h ^= h >> r
	return h
}
