// Package format provides shared formatting utilities for human-readable output.
package format

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Duration formats a duration for human-readable output.
// Handles microseconds, milliseconds, seconds, and minutes.
func Duration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.0fµs", float64(d.Microseconds()))
	}
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d.Milliseconds()))
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	return fmt.Sprintf("%.1fm", d.Minutes())
}

// Milliseconds formats fractional milliseconds with two decimals.
func Milliseconds(ms float64) string {
	return fmt.Sprintf("%.2fms", ms)
}

// Bytes converts a signed byte count to human-readable format (KB, MB, GB, etc.).
// Negative counts keep their sign.
func Bytes(bytes int64) string {
	if bytes < 0 {
		return "-" + Bytes(-bytes)
	}

	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// ByteEdge formats a byte threshold. Whole values use Bytes; fractional or
// out-of-range values are printed as given.
func ByteEdge(edge float64) string {
	if edge == math.Trunc(edge) && math.Abs(edge) < math.MaxInt64 {
		return Bytes(int64(edge))
	}

	return strconv.FormatFloat(edge, 'f', -1, 64) + " B"
}
