package listener

import (
	"runtime"
	"sync"
)

// Snapshot is a point-in-time reading of memory counters, in bytes.
type Snapshot struct {
	Usage int64
	Peak  int64
}

// Probe reads the current memory counters.
type Probe interface {
	Snapshot() Snapshot
}

// ProbeFunc adapts a function to the Probe interface.
type ProbeFunc func() Snapshot

// Snapshot calls f.
func (f ProbeFunc) Snapshot() Snapshot {
	return f()
}

// RuntimeProbe reads heap usage from the Go runtime and peak usage from the
// operating system where available.
type RuntimeProbe struct {
	mu        sync.Mutex
	heapPeak  int64
	readPeak  func() (int64, bool)
	readStats func(*runtime.MemStats)
}

// NewRuntimeProbe creates a probe for the current process.
func NewRuntimeProbe() *RuntimeProbe {
	return &RuntimeProbe{
		readPeak:  maxRSS,
		readStats: runtime.ReadMemStats,
	}
}

// Snapshot returns HeapAlloc as usage and the process peak resident set size
// as peak. When the platform has no peak counter the highest HeapAlloc seen by
// this probe is used instead.
func (p *RuntimeProbe) Snapshot() Snapshot {
	var stats runtime.MemStats
	p.readStats(&stats)

	usage := int64(stats.HeapAlloc) //nolint:gosec // heap size fits in int64

	p.mu.Lock()
	defer p.mu.Unlock()

	if usage > p.heapPeak {
		p.heapPeak = usage
	}

	peak, ok := p.readPeak()
	if !ok {
		peak = p.heapPeak
	}

	return Snapshot{
		Usage: usage,
		Peak:  peak,
	}
}

// Compile-time interface compliance check
var (
	_ Probe = (*RuntimeProbe)(nil)
	_ Probe = ProbeFunc(nil)
)
