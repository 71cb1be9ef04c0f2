package listener

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Reporter receives the retained measurements once the outermost suite has
// ended.
type Reporter interface {
	Report(measurements []TestMeasurement) error
}

// TextReporter writes one numbered line per measurement.
type TextReporter struct {
	w io.Writer
}

// NewTextReporter creates a reporter that writes to w. A nil writer means
// standard output.
func NewTextReporter(w io.Writer) *TextReporter {
	if w == nil {
		w = os.Stdout
	}

	return &TextReporter{w: w}
}

// Report writes the header followed by "<n> - <message>" lines, numbered from 1.
func (r *TextReporter) Report(measurements []TestMeasurement) error {
	var b strings.Builder

	b.WriteString("\nTime & Memory measurement results:\n")

	for i, m := range measurements {
		fmt.Fprintf(&b, "\n%d - %s", i+1, m.Message())
	}

	b.WriteString("\n")

	_, err := io.WriteString(r.w, b.String())

	return err
}

// Compile-time interface compliance check
var _ Reporter = (*TextReporter)(nil)
