package utils

import (
	"log/slog"
	"math"
	"runtime"
)

// LogMemUsage writes the heap figures at debug level
func LogMemUsage(msg string) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	slog.Debug(msg, "allocMiB", bToMb(m.Alloc), "totalAllocMiB", bToMb(m.TotalAlloc),
		"sysMiB", bToMb(m.Sys), "numGC", m.NumGC)
}

// IsNan reports a NaN or Inf anywhere in A
func IsNan(A []float64) bool {
	for _, f := range A {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return true
		}
	}
	return false
}
