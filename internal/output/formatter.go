// Package output prints progress and run summaries for the CLI.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/ethpandaops/testusage/internal/format"
	"github.com/ethpandaops/testusage/internal/metrics"
	"github.com/ethpandaops/testusage/internal/table"
	"github.com/fatih/color"
)

// Formatter provides clean, human-friendly output
type Formatter interface {
	PrintPhase(phase string)
	PrintProgress(message string, duration time.Duration)
	PrintSuccess(message string)
	PrintError(message string, err error)
	PrintSummary(retained int)
}

type formatter struct {
	writer io.Writer

	metrics          metrics.Collector
	summaryFormatter *table.SummaryFormatter

	// Colors
	green *color.Color
	red   *color.Color
	blue  *color.Color
	gray  *color.Color
}

// NewFormatter creates a new output formatter
func NewFormatter(
	writer io.Writer,
	metricsCollector metrics.Collector,
	summaryFormatter *table.SummaryFormatter,
) Formatter {
	return &formatter{
		writer:           writer,
		metrics:          metricsCollector,
		summaryFormatter: summaryFormatter,
		green:            color.New(color.FgGreen),
		red:              color.New(color.FgRed),
		blue:             color.New(color.FgBlue),
		gray:             color.New(color.FgHiBlack),
	}
}

// PrintPhase prints phase separator
func (f *formatter) PrintPhase(phase string) {
	f.blue.Fprintf(f.writer, "\n▸ %s\n", phase)
}

// PrintProgress prints a message with its timing
func (f *formatter) PrintProgress(message string, duration time.Duration) {
	if duration > 0 {
		f.gray.Fprintf(f.writer, "%s (%s)\n", message, format.Duration(duration))
	} else {
		fmt.Fprintf(f.writer, "%s\n", message)
	}
}

// PrintSuccess prints a green message
func (f *formatter) PrintSuccess(message string) {
	f.green.Fprintf(f.writer, "%s\n", message)
}

// PrintError prints red message + error details
func (f *formatter) PrintError(message string, err error) {
	f.red.Fprintf(f.writer, "%s", message)
	if err != nil {
		f.red.Fprintf(f.writer, ": %v", err)
	}
	fmt.Fprintf(f.writer, "\n")
}

// PrintSummary prints a summary table with aggregate statistics
func (f *formatter) PrintSummary(retained int) {
	summary := f.metrics.GetSummary()
	output := f.summaryFormatter.Format(summary, retained)
	fmt.Fprintln(f.writer, output)
}
