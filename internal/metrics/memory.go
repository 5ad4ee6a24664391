package metrics

import "runtime"

// MemorySnapshot holds a point-in-time reading of the Go allocator.
type MemorySnapshot struct {
	HeapAlloc  uint64 // bytes of live heap objects
	TotalAlloc uint64 // cumulative bytes allocated
	Mallocs    uint64 // cumulative heap objects allocated
	Sys        uint64 // total bytes obtained from OS
	NumGC      uint32 // completed GC cycles
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:  m.HeapAlloc,
		TotalAlloc: m.TotalAlloc,
		Mallocs:    m.Mallocs,
		Sys:        m.Sys,
		NumGC:      m.NumGC,
	}
}

// AllocatedSince returns how many bytes and objects were allocated between
// prev and s. Both counters are cumulative, so the result is never negative
// for snapshots taken in order.
func (s MemorySnapshot) AllocatedSince(prev MemorySnapshot) (bytes, objects uint64) {
	if s.TotalAlloc >= prev.TotalAlloc {
		bytes = s.TotalAlloc - prev.TotalAlloc
	}
	if s.Mallocs >= prev.Mallocs {
		objects = s.Mallocs - prev.Mallocs
	}
	return bytes, objects
}
