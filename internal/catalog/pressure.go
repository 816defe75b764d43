package catalog

import (
	"runtime"
)

// systemPressure estimates combined CPU/memory pressure as a value in [0,1].
// It is best-effort and approximate: the rate limiter only needs a trend.
func systemPressure() float64 {
	cpu := cpuPressure()
	mem := memoryPressure()
	if cpu > mem {
		return cpu
	}
	return mem
}

// memoryPressure relates heap in use to the heap the runtime has reserved.
func memoryPressure() float64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	if ms.HeapSys == 0 {
		return 0
	}
	p := float64(ms.HeapInuse) / float64(ms.HeapSys)
	if p > 1 {
		p = 1
	}
	return p
}
