package table

import (
	"fmt"

	"github.com/ethpandaops/testusage/internal/format"
	"github.com/ethpandaops/testusage/internal/metrics"
	"github.com/sirupsen/logrus"
)

// SummaryFormatter formats run statistics as a table.
type SummaryFormatter struct {
	log      logrus.FieldLogger
	renderer Renderer
	colors   *ColorHelper
}

// NewSummaryFormatter creates a new summary table formatter.
func NewSummaryFormatter(log logrus.FieldLogger, renderer Renderer) *SummaryFormatter {
	return &SummaryFormatter{
		log:      log.WithField("component", "table.summary_formatter"),
		renderer: renderer,
		colors:   NewColorHelper(),
	}
}

// Format converts the run summary into a formatted table string. retained is
// the number of measurements the listener kept.
func (f *SummaryFormatter) Format(summary metrics.SummaryMetric, retained int) string {
	var passRate float64
	if summary.TotalTests > 0 {
		passRate = float64(summary.PassedTests) / float64(summary.TotalTests) * 100.0
	}

	passedValue := fmt.Sprintf("%d (%.1f%%)", summary.PassedTests, passRate)
	if summary.PassedTests == summary.TotalTests {
		passedValue = f.colors.Success(passedValue)
	}

	var (
		failedValue = f.colors.FormatCount(
			fmt.Sprintf("%d", summary.FailedTests), summary.FailedTests, f.colors.Failure)
		erroredValue = f.colors.FormatCount(
			fmt.Sprintf("%d", summary.ErroredTests), summary.ErroredTests, f.colors.Failure)
		skippedValue = f.colors.FormatCount(
			fmt.Sprintf("%d", summary.SkippedTests), summary.SkippedTests, f.colors.Warning)
		retainedValue = f.colors.FormatCount(
			fmt.Sprintf("%d/%d", retained, summary.TotalTests), retained, f.colors.Warning)
	)

	slowest := f.colors.Muted("-")
	if summary.Slowest != nil {
		slowest = fmt.Sprintf("%s (%s)", summary.Slowest.Name, format.Duration(summary.Slowest.Duration))
	}

	var (
		headers = []string{"Metric", "Value"}
		rows    = [][]string{
			{"Packages", fmt.Sprintf("%d", summary.TotalPackages)},
			{"Total Tests", f.colors.Bold(fmt.Sprintf("%d", summary.TotalTests))},
			{"Passed", passedValue},
			{"Failed", failedValue},
			{"Errored", erroredValue},
			{"Skipped", skippedValue},
			{"Measurements Kept", retainedValue},
			{"Slowest Test", slowest},
			{"Test Time", format.Duration(summary.TestDuration)},
			{"Total Duration", format.Duration(summary.TotalDuration)},
		}
	)

	return "\n" + f.colors.Header("▸ Summary") + "\n\n" + f.renderer.RenderToString(headers, rows)
}
