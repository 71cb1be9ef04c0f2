package usage

import (
	"fmt"
	"regexp"
	"strconv"
)

// EnvEmit enables marker lines in Track when set to "1". The marker lets a
// reader of `go test -json` output recover memory deltas measured in-process.
const EnvEmit = "TESTUSAGE_EMIT"

const markerFormat = "testusage: memory=%d peak-memory=%d"

var markerPattern = regexp.MustCompile(`testusage: memory=(-?\d+) peak-memory=(-?\d+)`)

// FormatMarker renders the marker line for the given deltas.
func FormatMarker(memory, memoryPeak int64) string {
	return fmt.Sprintf(markerFormat, memory, memoryPeak)
}

// ParseMarker extracts the deltas from a line of test output.
func ParseMarker(line string) (memory, memoryPeak int64, ok bool) {
	match := markerPattern.FindStringSubmatch(line)
	if match == nil {
		return 0, 0, false
	}

	memory, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}

	memoryPeak, err = strconv.ParseInt(match[2], 10, 64)
	if err != nil {
		return 0, 0, false
	}

	return memory, memoryPeak, true
}
