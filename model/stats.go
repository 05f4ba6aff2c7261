package model

// ClassStats is a read-only view of one allocation class at the moment of the call.
type ClassStats struct {
	// FreePercent is the approximate share of free slots, 0..100.
	FreePercent float64
	// MemorySize is the amount of slab memory owned by the class in bytes.
	MemorySize uint64
	// AllocSize is the size of one object slot in bytes. Zero means the class cannot hold objects.
	AllocSize uint64
	// AllocLatencyNs is a moving-average allocation latency; zero means "no estimate yet".
	AllocLatencyNs uint64
}

// ClassStatsProvider is implemented by the cache that owns the allocation classes.
// Implementations must be synchronous and must not block.
type ClassStatsProvider interface {
	ClassStats(key ClassKey) ClassStats
}

// ClassStatsProviderFunc adapts a function to ClassStatsProvider.
type ClassStatsProviderFunc func(key ClassKey) ClassStats

func (f ClassStatsProviderFunc) ClassStats(key ClassKey) ClassStats { return f(key) }
