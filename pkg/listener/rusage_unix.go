//go:build unix

package listener

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// maxRSS returns the peak resident set size of the process in bytes.
func maxRSS() (int64, bool) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, false
	}

	peak := int64(ru.Maxrss) //nolint:unconvert // int32 on some platforms

	// Darwin reports bytes, the other unixes report kilobytes.
	if runtime.GOOS != "darwin" && runtime.GOOS != "ios" {
		peak *= 1024
	}

	return peak, true
}
