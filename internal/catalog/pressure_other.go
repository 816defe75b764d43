//go:build !linux

package catalog

// cpuPressure has no portable load-average source off Linux; memory pressure
// alone drives the limiter there.
func cpuPressure() float64 {
	return 0
}
