package table

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ethpandaops/testusage/internal/format"
	"github.com/ethpandaops/testusage/pkg/listener"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
)

// MeasurementsFormatter formats retained test measurements as a table.
type MeasurementsFormatter struct {
	log      logrus.FieldLogger
	renderer Renderer
	colors   *ColorHelper
	edges    listener.Config
}

// NewMeasurementsFormatter creates a new measurements table formatter. Values
// at or over their edge are highlighted.
func NewMeasurementsFormatter(log logrus.FieldLogger, renderer Renderer, edges listener.Config) *MeasurementsFormatter {
	return &MeasurementsFormatter{
		log:      log.WithField("component", "table.measurements_formatter"),
		renderer: renderer,
		colors:   NewColorHelper(),
		edges:    edges,
	}
}

// Format converts measurements into a formatted table string.
func (f *MeasurementsFormatter) Format(measurements []listener.TestMeasurement) string {
	if len(measurements) == 0 {
		return "No measurements recorded"
	}

	var (
		headers = []string{"#", "Test", "Package", "Time", "Memory", "Peak Memory"}
		rows    = make([][]string, 0, len(measurements))
	)

	for i, m := range measurements {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			m.Name(),
			m.Class(),
			f.colors.FormatEdge(format.Milliseconds(m.Time().Milliseconds()), f.edges.TimeExceeded(m.Time())),
			f.colors.FormatEdge(format.Bytes(m.Memory().Bytes()), f.edges.MemoryExceeded(m.Memory())),
			f.colors.FormatEdge(format.Bytes(m.MemoryPeak().Bytes()), f.edges.MemoryPeakExceeded(m.MemoryPeak())),
		})
	}

	title := "▸ Time & Memory Measurements"
	if f.edges.ShowOnlyIfEdgeIsExceeded {
		title = fmt.Sprintf(
			"▸ Tests Over Edge (time ≥ %s, memory ≥ %s, peak ≥ %s)",
			format.Milliseconds(f.edges.ExecutionTimeEdge),
			format.ByteEdge(f.edges.MemoryUsageEdge),
			format.ByteEdge(f.edges.MemoryPeakDifferenceEdge),
		)
	}

	return "\n" + f.colors.Header(title) + "\n\n" + f.renderer.RenderToString(
		headers,
		rows,
		WithColumnAlignment([]int{
			tablewriter.ALIGN_RIGHT,
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_RIGHT,
			tablewriter.ALIGN_RIGHT,
			tablewriter.ALIGN_RIGHT,
		}),
	)
}

// Reporter writes the measurements table when the listener reports.
type Reporter struct {
	w         io.Writer
	formatter *MeasurementsFormatter
}

// NewReporter creates a listener.Reporter that renders a table to w.
func NewReporter(w io.Writer, formatter *MeasurementsFormatter) *Reporter {
	return &Reporter{
		w:         w,
		formatter: formatter,
	}
}

// Report renders the measurements.
func (r *Reporter) Report(measurements []listener.TestMeasurement) error {
	_, err := fmt.Fprintln(r.w, r.formatter.Format(measurements))
	return err
}

// Compile-time interface compliance check
var _ listener.Reporter = (*Reporter)(nil)
