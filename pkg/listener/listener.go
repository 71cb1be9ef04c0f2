package listener

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Option customises a TimeAndMemory listener.
type Option func(*TimeAndMemory)

// WithReporter replaces the default standard output reporter.
func WithReporter(r Reporter) Option {
	return func(l *TimeAndMemory) {
		l.reporter = r
	}
}

// WithProbe replaces the runtime memory probe.
func WithProbe(p Probe) Option {
	return func(l *TimeAndMemory) {
		l.probe = p
	}
}

// TimeAndMemory measures each test's elapsed time, memory delta and peak
// memory delta, and reports them when the outermost suite ends.
//
// It is not safe for concurrent use; runners call it from a single goroutine.
type TimeAndMemory struct {
	NopObserver

	log      logrus.FieldLogger
	cfg      Config
	probe    Probe
	reporter Reporter

	suitesRunning int
	measurements  []TestMeasurement

	// Start snapshots of running tests, removed at EndTest. Nested tests
	// keep their own baseline.
	baselines map[Test]Snapshot
}

// New creates a listener configured from the given key/value map. See
// ParseConfig for the recognised keys.
func New(log logrus.FieldLogger, configuration map[string]any, opts ...Option) *TimeAndMemory {
	log = log.WithField("component", "time_and_memory_listener")

	l := &TimeAndMemory{
		log:          log,
		cfg:          ParseConfig(log, configuration),
		measurements: make([]TestMeasurement, 0, 64),
		baselines:    make(map[Test]Snapshot),
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.probe == nil {
		l.probe = NewRuntimeProbe()
	}

	if l.reporter == nil {
		l.reporter = NewTextReporter(nil)
	}

	return l
}

// Config returns the effective thresholds.
func (l *TimeAndMemory) Config() Config {
	return l.cfg
}

// StartTest takes the baseline memory snapshot for test.
func (l *TimeAndMemory) StartTest(test Test) {
	l.baselines[test] = l.probe.Snapshot()
}

// EndTest computes the deltas against the test's baseline and keeps the
// measurement if the retention policy allows it. A test that was never started
// is measured against a zero baseline.
func (l *TimeAndMemory) EndTest(test Test, elapsed time.Duration) {
	current := l.probe.Snapshot()

	baseline := l.baselines[test]
	delete(l.baselines, test)

	var (
		executionTime = NewTimeMeasurement(elapsed)
		memory        = NewMemoryMeasurement(current.Usage - baseline.Usage)
		memoryPeak    = NewMemoryMeasurement(current.Peak - baseline.Peak)
	)

	if !l.shouldKeep(executionTime, memory, memoryPeak) {
		return
	}

	l.measurements = append(l.measurements, NewTestMeasurement(
		test.Name,
		test.Class,
		executionTime,
		memory,
		memoryPeak,
	))
}

// StartSuite increments the nesting counter.
func (l *TimeAndMemory) StartSuite(_ Suite) {
	l.suitesRunning++
}

// EndSuite decrements the nesting counter and reports once it reaches zero.
func (l *TimeAndMemory) EndSuite(suite Suite) {
	l.suitesRunning--

	if l.suitesRunning != 0 || len(l.measurements) == 0 {
		return
	}

	if err := l.reporter.Report(l.Measurements()); err != nil {
		l.log.WithError(err).WithField("suite", suite.Name).Warn("failed to write measurement report")
	}
}

// Measurements returns a copy of the retained measurements in completion order.
func (l *TimeAndMemory) Measurements() []TestMeasurement {
	result := make([]TestMeasurement, len(l.measurements))
	copy(result, l.measurements)

	return result
}

func (l *TimeAndMemory) shouldKeep(t TimeMeasurement, memory, memoryPeak MemoryMeasurement) bool {
	if !l.cfg.ShowOnlyIfEdgeIsExceeded {
		return true
	}

	return l.cfg.TimeExceeded(t) ||
		l.cfg.MemoryExceeded(memory) ||
		l.cfg.MemoryPeakExceeded(memoryPeak)
}

// TimeExceeded reports whether t is at or over the execution time edge.
func (c Config) TimeExceeded(t TimeMeasurement) bool {
	return t.Milliseconds() >= c.ExecutionTimeEdge
}

// MemoryExceeded reports whether m is at or over the memory usage edge.
func (c Config) MemoryExceeded(m MemoryMeasurement) bool {
	return float64(m.Bytes()) >= c.MemoryUsageEdge
}

// MemoryPeakExceeded reports whether m is at or over the peak difference edge.
func (c Config) MemoryPeakExceeded(m MemoryMeasurement) bool {
	return float64(m.Bytes()) >= c.MemoryPeakDifferenceEdge
}

// Compile-time interface compliance check
var _ Observer = (*TimeAndMemory)(nil)
