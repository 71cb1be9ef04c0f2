package listener

import (
	"bytes"
	"errors"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProbe returns the queued snapshots in order.
type scriptedProbe struct {
	snapshots []Snapshot
}

func (p *scriptedProbe) Snapshot() Snapshot {
	if len(p.snapshots) == 0 {
		return Snapshot{}
	}

	s := p.snapshots[0]
	p.snapshots = p.snapshots[1:]

	return s
}

// recordingReporter captures every report.
type recordingReporter struct {
	reports [][]TestMeasurement
	err     error
}

func (r *recordingReporter) Report(measurements []TestMeasurement) error {
	r.reports = append(r.reports, measurements)
	return r.err
}

type run struct {
	name    string
	elapsed time.Duration
	start   Snapshot
	end     Snapshot
}

func newTestListener(t *testing.T, configuration map[string]any, runs []run) (*TimeAndMemory, *recordingReporter) {
	t.Helper()

	log, _ := logtest.NewNullLogger()
	probe := &scriptedProbe{}

	for _, r := range runs {
		probe.snapshots = append(probe.snapshots, r.start, r.end)
	}

	reporter := &recordingReporter{}

	return New(log, configuration, WithProbe(probe), WithReporter(reporter)), reporter
}

func execute(l Observer, runs []run) {
	for _, r := range runs {
		test := Test{Name: r.name, Class: "example.com/pkg"}
		l.StartTest(test)
		l.EndTest(test, r.elapsed)
	}
}

func TestTimeAndMemory_KeepsEveryTestWhenFlagUnset(t *testing.T) {
	runs := []run{
		{name: "TestFast", elapsed: time.Millisecond},
		{name: "TestSlow", elapsed: 2 * time.Second},
		{name: "TestNegative", elapsed: 0, start: Snapshot{Usage: 500}, end: Snapshot{Usage: 450}},
	}

	l, reporter := newTestListener(t, nil, runs)

	l.StartSuite(Suite{Name: "all"})
	execute(l, runs)
	l.EndSuite(Suite{Name: "all"})

	require.Len(t, reporter.reports, 1)
	require.Len(t, reporter.reports[0], 3)

	for i, m := range reporter.reports[0] {
		assert.Equal(t, runs[i].name, m.Name())
	}

	assert.Equal(t, int64(-50), reporter.reports[0][2].Memory().Bytes())
}

func TestTimeAndMemory_RetentionWithEdges(t *testing.T) {
	tests := []struct {
		name     string
		run      run
		expected bool
	}{
		{
			name: "below every edge",
			run: run{
				elapsed: 50 * time.Millisecond,
				start:   Snapshot{Usage: 1000, Peak: 2000},
				end:     Snapshot{Usage: 1500, Peak: 2000},
			},
			expected: false,
		},
		{
			name:     "time over edge",
			run:      run{elapsed: 150 * time.Millisecond},
			expected: true,
		},
		{
			name:     "time exactly at edge",
			run:      run{elapsed: 100 * time.Millisecond},
			expected: true,
		},
		{
			name: "memory exactly at edge",
			run: run{
				elapsed: time.Millisecond,
				start:   Snapshot{Usage: 0},
				end:     Snapshot{Usage: 1024},
			},
			expected: true,
		},
		{
			name: "memory one byte below edge",
			run: run{
				elapsed: time.Millisecond,
				end:     Snapshot{Usage: 1023},
			},
			expected: false,
		},
		{
			name: "peak over edge",
			run: run{
				elapsed: time.Millisecond,
				start:   Snapshot{Peak: 4096},
				end:     Snapshot{Peak: 8192},
			},
			expected: true,
		},
		{
			name: "negative memory delta never exceeds",
			run: run{
				elapsed: time.Millisecond,
				start:   Snapshot{Usage: 100},
				end:     Snapshot{Usage: 50},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.run.name = "TestCase"

			l, _ := newTestListener(t, map[string]any{
				KeyShowOnlyIfEdgeIsExceeded: true,
			}, []run{tt.run})

			execute(l, []run{tt.run})

			if tt.expected {
				assert.Len(t, l.Measurements(), 1)
			} else {
				assert.Empty(t, l.Measurements())
			}
		})
	}
}

func TestTimeAndMemory_CustomEdges(t *testing.T) {
	runs := []run{
		{name: "TestA", elapsed: 20 * time.Millisecond},
		{name: "TestB", elapsed: 5 * time.Millisecond, end: Snapshot{Usage: 10}},
		{name: "TestC", elapsed: 5 * time.Millisecond, end: Snapshot{Peak: 3}},
		{name: "TestD", elapsed: 5 * time.Millisecond},
	}

	l, _ := newTestListener(t, map[string]any{
		KeyShowOnlyIfEdgeIsExceeded: true,
		KeyExecutionTimeEdge:        10,
		KeyMemoryUsageEdge:          10,
		KeyMemoryPeakDifferenceEdge: 3,
		"unrelated":                 "ignored",
	}, runs)

	execute(l, runs)

	kept := l.Measurements()
	require.Len(t, kept, 3)
	assert.Equal(t, "TestA", kept[0].Name())
	assert.Equal(t, "TestB", kept[1].Name())
	assert.Equal(t, "TestC", kept[2].Name())
}

func TestTimeAndMemory_FractionalMemoryEdgeIsNotRounded(t *testing.T) {
	runs := []run{
		{name: "TestBelow", elapsed: time.Millisecond, end: Snapshot{Usage: 1023, Peak: 1023}},
		{name: "TestAbove", elapsed: time.Millisecond, end: Snapshot{Usage: 1024}},
	}

	l, _ := newTestListener(t, map[string]any{
		KeyShowOnlyIfEdgeIsExceeded: true,
		KeyMemoryUsageEdge:          1023.5,
		KeyMemoryPeakDifferenceEdge: 1023.5,
	}, runs)

	execute(l, runs)

	kept := l.Measurements()
	require.Len(t, kept, 1)
	assert.Equal(t, "TestAbove", kept[0].Name())
}

func TestTimeAndMemory_NestedTestsKeepTheirOwnBaseline(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	probe := &scriptedProbe{snapshots: []Snapshot{
		{Usage: 0},
		{Usage: 5000},
		{Usage: 5100},
		{Usage: 6000},
	}}

	l := New(log, nil, WithProbe(probe), WithReporter(&recordingReporter{}))

	var (
		parent = Test{Name: "TestParent", Class: "example.com/pkg"}
		child  = Test{Name: "TestParent/child", Class: "example.com/pkg"}
	)

	l.StartTest(parent)
	l.StartTest(child)
	l.EndTest(child, time.Millisecond)
	l.EndTest(parent, 2*time.Millisecond)

	kept := l.Measurements()
	require.Len(t, kept, 2)
	assert.Equal(t, int64(100), kept[0].Memory().Bytes())
	assert.Equal(t, int64(6000), kept[1].Memory().Bytes())
}

func TestTimeAndMemory_SlowTestIsNumberedFirst(t *testing.T) {
	runs := []run{
		{name: "TestQuick", elapsed: 50 * time.Millisecond, end: Snapshot{Usage: 500}},
		{name: "TestSlow", elapsed: 150 * time.Millisecond},
	}

	log, _ := logtest.NewNullLogger()
	probe := &scriptedProbe{}

	for _, r := range runs {
		probe.snapshots = append(probe.snapshots, r.start, r.end)
	}

	var out bytes.Buffer

	l := New(log, map[string]any{KeyShowOnlyIfEdgeIsExceeded: true},
		WithProbe(probe),
		WithReporter(NewTextReporter(&out)),
	)

	l.StartSuite(Suite{Name: "all"})
	execute(l, runs)
	l.EndSuite(Suite{Name: "all"})

	assert.Equal(t,
		"\nTime & Memory measurement results:\n"+
			"\n1 - TestSlow (example.com/pkg): 150.00ms, memory: 0 bytes, peak-memory: 0 bytes\n",
		out.String(),
	)
}

func TestTimeAndMemory_ReportsOnlyAfterOutermostSuite(t *testing.T) {
	runs := []run{
		{name: "TestOne", elapsed: time.Millisecond},
		{name: "TestTwo", elapsed: time.Millisecond},
		{name: "TestThree", elapsed: time.Millisecond},
	}

	l, reporter := newTestListener(t, nil, runs)

	l.StartSuite(Suite{Name: "root"})
	l.StartSuite(Suite{Name: "pkg/a"})
	execute(l, runs[:2])
	l.EndSuite(Suite{Name: "pkg/a"})

	assert.Empty(t, reporter.reports, "inner suite end must not report")

	l.StartSuite(Suite{Name: "pkg/b"})
	execute(l, runs[2:])
	l.EndSuite(Suite{Name: "pkg/b"})

	assert.Empty(t, reporter.reports, "inner suite end must not report")

	l.EndSuite(Suite{Name: "root"})

	require.Len(t, reporter.reports, 1)
	assert.Len(t, reporter.reports[0], 3)
}

func TestTimeAndMemory_NoReportWhenNothingRetained(t *testing.T) {
	runs := []run{{name: "TestQuick", elapsed: time.Millisecond}}

	l, reporter := newTestListener(t, map[string]any{KeyShowOnlyIfEdgeIsExceeded: true}, runs)

	l.StartSuite(Suite{Name: "root"})
	execute(l, runs)
	l.EndSuite(Suite{Name: "root"})

	assert.Empty(t, reporter.reports)
}

func TestTimeAndMemory_OutcomeCallbacksAreIgnored(t *testing.T) {
	runs := []run{{name: "TestBroken", elapsed: time.Millisecond}}

	l, reporter := newTestListener(t, nil, runs)
	test := Test{Name: "TestBroken", Class: "example.com/pkg"}
	boom := errors.New("boom")

	l.StartSuite(Suite{Name: "root"})
	l.StartTest(test)
	l.AddError(test, boom, time.Millisecond)
	l.AddFailure(test, boom, time.Millisecond)
	l.AddWarning(test, boom, time.Millisecond)
	l.AddIncomplete(test, boom, time.Millisecond)
	l.AddRisky(test, boom, time.Millisecond)
	l.AddSkipped(test, boom, time.Millisecond)
	l.EndTest(test, time.Millisecond)
	l.EndSuite(Suite{Name: "root"})

	require.Len(t, reporter.reports, 1)
	assert.Len(t, reporter.reports[0], 1)
}

func TestTimeAndMemory_ReporterErrorIsSwallowed(t *testing.T) {
	runs := []run{{name: "TestOne", elapsed: time.Millisecond}}

	log, hook := logtest.NewNullLogger()
	probe := &scriptedProbe{}
	reporter := &recordingReporter{err: errors.New("closed pipe")}

	l := New(log, nil, WithProbe(probe), WithReporter(reporter))

	l.StartSuite(Suite{Name: "root"})
	execute(l, runs)
	l.EndSuite(Suite{Name: "root"})

	require.Len(t, reporter.reports, 1)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "failed to write measurement report", hook.LastEntry().Message)
}

func TestTimeAndMemory_MeasurementsAreCopied(t *testing.T) {
	runs := []run{{name: "TestOne", elapsed: time.Millisecond}}

	l, _ := newTestListener(t, nil, runs)
	execute(l, runs)

	first := l.Measurements()
	first[0] = TestMeasurement{}

	assert.Equal(t, "TestOne", l.Measurements()[0].Name())
}

func TestMulti_ForwardsInOrder(t *testing.T) {
	runs := []run{{name: "TestOne", elapsed: time.Millisecond}}

	a, reporterA := newTestListener(t, nil, runs)
	b, reporterB := newTestListener(t, nil, runs)

	m := Multi(a, nil, b)

	m.StartSuite(Suite{Name: "root"})
	execute(m, runs)
	m.EndSuite(Suite{Name: "root"})

	assert.Len(t, reporterA.reports, 1)
	assert.Len(t, reporterB.reports, 1)
}
