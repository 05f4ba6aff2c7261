package random

import (
	"math"
	"runtime"
	"sync/atomic"
	"time"
)

const golden = 0x9e3779b97f4a7c15

// shard holds a SplitMix64 state updated via CAS.
type shard struct {
	state uint64
	_     [56]byte // keep shards on separate cache lines
}

var (
	shards []shard
	mask   uint32
	rr     atomic.Uint32
)

func init() {
	n := 1
	for n < runtime.GOMAXPROCS(0)*4 {
		n <<= 1
	}
	shards = make([]shard, n)
	mask = uint32(n - 1)

	seed := mix(uint64(time.Now().UnixNano()) + golden)
	for i := range shards {
		seed += golden
		if shards[i].state = mix(seed); shards[i].state == 0 {
			shards[i].state = golden
		}
	}
}

// Uint64 returns a uniformly distributed value, safe for concurrent use.
func Uint64() uint64 {
	s := &shards[rr.Add(1)&mask].state
	for {
		old := atomic.LoadUint64(s)
		if next := old + golden; atomic.CompareAndSwapUint64(s, old, next) {
			return mix(next)
		}
	}
}

// Float64 returns a uniform value in [0, 1) built from 53 random bits.
func Float64() float64 {
	const inv53 = 1.0 / (1 << 53)
	return float64(Uint64()>>11) * inv53
}

// Intn returns a uniform value in [0, n). It returns 0 for n <= 0.
func Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(Float64() * float64(n))
}

// Skewed returns a value in [0, n) where lower values are more likely.
// skew = 0 is uniform; skew close to 1 concentrates nearly everything on 0.
func Skewed(n int, skew float64) int {
	if n <= 1 {
		return 0
	}
	if skew <= 0 {
		return Intn(n)
	}
	skew = math.Min(skew, 0.99)
	// inverse transform of a power law: x^(1/(1-skew)) leans towards 0
	i := int(math.Pow(Float64(), 1/(1-skew)) * float64(n))
	return min(i, n-1)
}

// mix is the SplitMix64 finalizer.
func mix(z uint64) uint64 {
	z ^= z >> 30
	z *= 0xbf58476d1ce4e5b9
	z ^= z >> 27
	z *= 0x94d049bb133111eb
	z ^= z >> 31
	return z
}
