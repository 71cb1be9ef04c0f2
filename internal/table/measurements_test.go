package table

import (
	"bytes"
	"testing"
	"time"

	"github.com/ethpandaops/testusage/internal/metrics"
	"github.com/ethpandaops/testusage/pkg/listener"
	"github.com/fatih/color"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMeasurements() []listener.TestMeasurement {
	return []listener.TestMeasurement{
		listener.NewTestMeasurement(
			"TestSlow",
			"example.com/a",
			listener.NewTimeMeasurement(150*time.Millisecond),
			listener.NewMemoryMeasurement(-50),
			listener.NewMemoryMeasurement(0),
		),
		listener.NewTestMeasurement(
			"TestHungry",
			"example.com/b",
			listener.NewTimeMeasurement(2*time.Millisecond),
			listener.NewMemoryMeasurement(2048),
			listener.NewMemoryMeasurement(4096),
		),
	}
}

func TestMeasurementsFormatter_Format(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	log, _ := logtest.NewNullLogger()
	f := NewMeasurementsFormatter(log, NewRenderer(log), listener.DefaultConfig())

	out := f.Format(sampleMeasurements())

	assert.Contains(t, out, "▸ Time & Memory Measurements")
	assert.Contains(t, out, "TestSlow")
	assert.Contains(t, out, "150.00ms")
	assert.Contains(t, out, "-50 B")
	assert.Contains(t, out, "2.0 KB")
	assert.Contains(t, out, "4.0 KB")
	assert.Less(t, bytes.Index([]byte(out), []byte("TestSlow")), bytes.Index([]byte(out), []byte("TestHungry")))
}

func TestMeasurementsFormatter_Empty(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	f := NewMeasurementsFormatter(log, NewRenderer(log), listener.DefaultConfig())

	assert.Equal(t, "No measurements recorded", f.Format(nil))
}

func TestMeasurementsFormatter_TitleShowsEdges(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	log, _ := logtest.NewNullLogger()
	edges := listener.DefaultConfig()
	edges.ShowOnlyIfEdgeIsExceeded = true

	out := NewMeasurementsFormatter(log, NewRenderer(log), edges).Format(sampleMeasurements())

	assert.Contains(t, out, "▸ Tests Over Edge (time ≥ 100.00ms, memory ≥ 1.0 KB, peak ≥ 1.0 KB)")
}

func TestReporter_Report(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	log, _ := logtest.NewNullLogger()

	var out bytes.Buffer

	r := NewReporter(&out, NewMeasurementsFormatter(log, NewRenderer(log), listener.DefaultConfig()))
	require.NoError(t, r.Report(sampleMeasurements()))

	assert.Contains(t, out.String(), "TestHungry")
}

func TestSummaryFormatter_Format(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	log, _ := logtest.NewNullLogger()
	f := NewSummaryFormatter(log, NewRenderer(log))

	out := f.Format(metrics.SummaryMetric{
		TotalDuration: 3 * time.Second,
		TestDuration:  2500 * time.Millisecond,
		TotalPackages: 2,
		TotalTests:    4,
		PassedTests:   2,
		FailedTests:   1,
		SkippedTests:  1,
		Slowest: &metrics.TestResultMetric{
			Name:     "TestSlow",
			Duration: 2 * time.Second,
		},
	}, 1)

	assert.Contains(t, out, "▸ Summary")
	assert.Contains(t, out, "2 (50.0%)")
	assert.Contains(t, out, "1/4")
	assert.Contains(t, out, "TestSlow (2.0s)")
	assert.Contains(t, out, "3.0s")
}
