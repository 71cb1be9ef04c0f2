// Package metrics provides test execution metrics collection and aggregation.
package metrics

import (
	"sync"
	"time"

	"github.com/ethpandaops/testusage/pkg/listener"
	"github.com/sirupsen/logrus"
)

// Status is the outcome of a single test.
type Status string

const (
	// StatusPass is a test that completed without any reported outcome.
	StatusPass Status = "pass"
	// StatusFail is a test that reported a failure.
	StatusFail Status = "fail"
	// StatusError is a test that reported an error, such as a panic.
	StatusError Status = "error"
	// StatusSkip is a skipped test.
	StatusSkip Status = "skip"
)

// TestResultMetric captures metrics about a test execution
type TestResultMetric struct {
	Name     string
	Package  string
	Status   Status
	Duration time.Duration
	Message  string // empty if passed
}

// SummaryMetric provides aggregate statistics across the run
type SummaryMetric struct {
	TotalDuration time.Duration
	TestDuration  time.Duration // sum of test durations
	TotalPackages int
	TotalTests    int
	PassedTests   int
	FailedTests   int
	ErroredTests  int
	SkippedTests  int
	Slowest       *TestResultMetric
}

// Collector is an observer that records every completed test, whether or not
// the time and memory listener retains it.
type Collector interface {
	listener.Observer
	GetTestMetrics() []TestResultMetric
	GetSummary() SummaryMetric
}

// collector implements Collector interface
type collector struct {
	listener.NopObserver

	log         logrus.FieldLogger
	mu          sync.RWMutex
	testMetrics []TestResultMetric
	outcomes    map[listener.Test]outcome
	packages    map[string]struct{}
	depth       int
	startTime   time.Time
	endTime     time.Time
	now         func() time.Time
}

type outcome struct {
	status  Status
	message string
}

// NewCollector creates a new metrics collector
func NewCollector(log logrus.FieldLogger) Collector {
	return &collector{
		log:         log.WithField("component", "metrics_collector"),
		testMetrics: make([]TestResultMetric, 0, 64),
		outcomes:    make(map[listener.Test]outcome),
		packages:    make(map[string]struct{}),
		now:         time.Now,
	}
}

func (c *collector) StartSuite(suite listener.Suite) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.depth == 0 && c.startTime.IsZero() {
		c.startTime = c.now()
	}

	c.depth++

	c.log.WithField("suite", suite.Name).Debug("suite started")
}

func (c *collector) EndSuite(suite listener.Suite) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.depth--
	if c.depth == 0 {
		c.endTime = c.now()
	}

	c.log.WithField("suite", suite.Name).Debug("suite finished")
}

func (c *collector) AddError(test listener.Test, err error, _ time.Duration) {
	c.record(test, StatusError, err)
}

func (c *collector) AddFailure(test listener.Test, err error, _ time.Duration) {
	c.record(test, StatusFail, err)
}

func (c *collector) AddSkipped(test listener.Test, err error, _ time.Duration) {
	c.record(test, StatusSkip, err)
}

func (c *collector) record(test listener.Test, status Status, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	o := outcome{status: status}
	if err != nil {
		o.message = err.Error()
	}

	// An error outranks a failure reported for the same test.
	if prev, ok := c.outcomes[test]; ok && prev.status == StatusError {
		return
	}

	c.outcomes[test] = o
}

func (c *collector) EndTest(test listener.Test, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	o, ok := c.outcomes[test]
	if ok {
		delete(c.outcomes, test)
	} else {
		o = outcome{status: StatusPass}
	}

	c.packages[test.Class] = struct{}{}
	c.testMetrics = append(c.testMetrics, TestResultMetric{
		Name:     test.Name,
		Package:  test.Class,
		Status:   o.status,
		Duration: elapsed,
		Message:  o.message,
	})

	c.log.WithFields(logrus.Fields{
		"test":     test.Name,
		"package":  test.Class,
		"status":   o.status,
		"duration": elapsed,
	}).Debug("test finished")
}

func (c *collector) GetTestMetrics() []TestResultMetric {
	c.mu.RLock()
	defer c.mu.RUnlock()
	// Return copy to avoid race conditions
	result := make([]TestResultMetric, len(c.testMetrics))
	copy(result, c.testMetrics)
	return result
}

func (c *collector) GetSummary() SummaryMetric {
	c.mu.RLock()
	defer c.mu.RUnlock()

	end := c.endTime
	if end.IsZero() || c.depth > 0 {
		end = c.now()
	}

	summary := SummaryMetric{
		TotalPackages: len(c.packages),
		TotalTests:    len(c.testMetrics),
	}

	if !c.startTime.IsZero() {
		summary.TotalDuration = end.Sub(c.startTime)
	}

	for i := range c.testMetrics {
		tm := c.testMetrics[i]

		switch tm.Status {
		case StatusPass:
			summary.PassedTests++
		case StatusFail:
			summary.FailedTests++
		case StatusError:
			summary.ErroredTests++
		case StatusSkip:
			summary.SkippedTests++
		}

		summary.TestDuration += tm.Duration

		if summary.Slowest == nil || tm.Duration > summary.Slowest.Duration {
			slowest := tm
			summary.Slowest = &slowest
		}
	}

	return summary
}

// Compile-time interface compliance check
var _ Collector = (*collector)(nil)
