//go:build linux

package catalog

import (
	"os"
	"runtime"
	"strconv"
	"strings"
)

// cpuPressure reads the one-minute load average from /proc and normalizes it
// by CPU count. Best-effort: if /proc is unavailable or parsing fails, the
// pressure reads as zero.
func cpuPressure() float64 {
	b, err := os.ReadFile("/proc/loadavg")
	if err != nil {
		return 0
	}
	fields := strings.Fields(string(b))
	if len(fields) < 1 {
		return 0
	}
	load, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}

	p := load / float64(runtime.NumCPU())
	if p > 1 {
		p = 1
	}
	if p < 0 {
		p = 0
	}
	return p
}
