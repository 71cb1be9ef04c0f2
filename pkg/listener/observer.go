// Package listener records per-test wall-clock duration and memory usage and
// reports the measurements once the outermost suite of a run has finished.
package listener

import "time"

// Test identifies a single test as seen by the host runner.
type Test struct {
	Name  string
	Class string
}

// Suite identifies a group of tests. Suites may nest.
type Suite struct {
	Name string
}

// Observer receives lifecycle callbacks from a test runner. Runners must call
// StartTest before EndTest for the same test and StartSuite before EndSuite
// for the same suite. Suites may nest.
type Observer interface {
	StartTest(test Test)
	EndTest(test Test, elapsed time.Duration)
	StartSuite(suite Suite)
	EndSuite(suite Suite)

	AddError(test Test, err error, elapsed time.Duration)
	AddFailure(test Test, err error, elapsed time.Duration)
	AddWarning(test Test, err error, elapsed time.Duration)
	AddIncomplete(test Test, err error, elapsed time.Duration)
	AddRisky(test Test, err error, elapsed time.Duration)
	AddSkipped(test Test, err error, elapsed time.Duration)
}

// NopObserver implements every Observer callback as a no-op. Embed it to
// implement only the callbacks you care about.
type NopObserver struct{}

func (NopObserver) StartTest(Test) {}
func (NopObserver) EndTest(Test, time.Duration) {}
func (NopObserver) StartSuite(Suite) {}
func (NopObserver) EndSuite(Suite) {}
func (NopObserver) AddError(Test, error, time.Duration) {}
func (NopObserver) AddFailure(Test, error, time.Duration) {}
func (NopObserver) AddWarning(Test, error, time.Duration) {}
func (NopObserver) AddIncomplete(Test, error, time.Duration) {}
func (NopObserver) AddRisky(Test, error, time.Duration) {}
func (NopObserver) AddSkipped(Test, error, time.Duration) {}

type multi []Observer

// Multi returns an Observer that forwards every callback to each of the given
// observers in order.
func Multi(observers ...Observer) Observer {
	m := make(multi, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}

	return m
}

func (m multi) StartTest(test Test) {
	for _, o := range m {
		o.StartTest(test)
	}
}

func (m multi) EndTest(test Test, elapsed time.Duration) {
	for _, o := range m {
		o.EndTest(test, elapsed)
	}
}

func (m multi) StartSuite(suite Suite) {
	for _, o := range m {
		o.StartSuite(suite)
	}
}

func (m multi) EndSuite(suite Suite) {
	for _, o := range m {
		o.EndSuite(suite)
	}
}

func (m multi) AddError(test Test, err error, elapsed time.Duration) {
	for _, o := range m {
		o.AddError(test, err, elapsed)
	}
}

func (m multi) AddFailure(test Test, err error, elapsed time.Duration) {
	for _, o := range m {
		o.AddFailure(test, err, elapsed)
	}
}

func (m multi) AddWarning(test Test, err error, elapsed time.Duration) {
	for _, o := range m {
		o.AddWarning(test, err, elapsed)
	}
}

func (m multi) AddIncomplete(test Test, err error, elapsed time.Duration) {
	for _, o := range m {
		o.AddIncomplete(test, err, elapsed)
	}
}

func (m multi) AddRisky(test Test, err error, elapsed time.Duration) {
	for _, o := range m {
		o.AddRisky(test, err, elapsed)
	}
}

func (m multi) AddSkipped(test Test, err error, elapsed time.Duration) {
	for _, o := range m {
		o.AddSkipped(test, err, elapsed)
	}
}

// Compile-time interface compliance checks
var (
	_ Observer = NopObserver{}
	_ Observer = multi(nil)
)
