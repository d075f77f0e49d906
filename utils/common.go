package utils

import (
	"runtime"
)

// DefaultWorkers is the parallel degree used when a caller asks for 0 workers
func DefaultWorkers(requested int) int {
	if requested > 0 {
		return requested
	}
	return runtime.NumCPU()
}
