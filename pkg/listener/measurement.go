package listener

import (
	"fmt"
	"time"
)

// TimeMeasurement is an elapsed wall-clock time.
type TimeMeasurement struct {
	elapsed time.Duration
}

// NewTimeMeasurement wraps an elapsed duration.
func NewTimeMeasurement(elapsed time.Duration) TimeMeasurement {
	return TimeMeasurement{elapsed: elapsed}
}

// Duration returns the measured duration.
func (t TimeMeasurement) Duration() time.Duration {
	return t.elapsed
}

// Milliseconds returns the measured time in fractional milliseconds.
func (t TimeMeasurement) Milliseconds() float64 {
	return float64(t.elapsed) / float64(time.Millisecond)
}

// String formats the time as milliseconds with two decimals.
func (t TimeMeasurement) String() string {
	return fmt.Sprintf("%.2fms", t.Milliseconds())
}

// MemoryMeasurement is a memory difference in bytes. It is negative when
// memory was released during the test.
type MemoryMeasurement struct {
	bytes int64
}

// NewMemoryMeasurement wraps a byte count.
func NewMemoryMeasurement(bytes int64) MemoryMeasurement {
	return MemoryMeasurement{bytes: bytes}
}

// Bytes returns the measured byte count.
func (m MemoryMeasurement) Bytes() int64 {
	return m.bytes
}

// String formats the byte count.
func (m MemoryMeasurement) String() string {
	return fmt.Sprintf("%d bytes", m.bytes)
}

// TestMeasurement is the recorded result of a single test.
type TestMeasurement struct {
	name       string
	class      string
	time       TimeMeasurement
	memory     MemoryMeasurement
	memoryPeak MemoryMeasurement
}

// NewTestMeasurement builds an immutable test measurement.
func NewTestMeasurement(
	name, class string,
	elapsed TimeMeasurement,
	memory, memoryPeak MemoryMeasurement,
) TestMeasurement {
	return TestMeasurement{
		name:       name,
		class:      class,
		time:       elapsed,
		memory:     memory,
		memoryPeak: memoryPeak,
	}
}

// Name returns the test name.
func (m TestMeasurement) Name() string {
	return m.name
}

// Class returns the group the test belongs to (a Go package path).
func (m TestMeasurement) Class() string {
	return m.class
}

// Time returns the elapsed time of the test.
func (m TestMeasurement) Time() TimeMeasurement {
	return m.time
}

// Memory returns the memory usage delta.
func (m TestMeasurement) Memory() MemoryMeasurement {
	return m.memory
}

// MemoryPeak returns the peak memory delta.
func (m TestMeasurement) MemoryPeak() MemoryMeasurement {
	return m.memoryPeak
}

// Message returns the one-line human readable description used in reports.
func (m TestMeasurement) Message() string {
	return fmt.Sprintf(
		"%s (%s): %s, memory: %s, peak-memory: %s",
		m.name,
		m.class,
		m.time,
		m.memory,
		m.memoryPeak,
	)
}
