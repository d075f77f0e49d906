package refine

import (
	"fmt"
	"math"

	"github.com/notargets/femsolids/types"
)

// MarkFraction selects the cells whose indicator reaches fraction times the
// largest indicator. Nothing is marked when all indicators vanish.
func MarkFraction(indicator []float64, fraction float64) (marked []int, err error) {
	if !(fraction >= 0 && fraction <= 1) {
		return nil, fmt.Errorf("marking fraction %v outside [0,1]: %w", fraction, types.ErrInvalidParameter)
	}
	var maxInd float64
	for k, v := range indicator {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("indicator of cell %d is %v: %w", k, v, types.ErrInvalidParameter)
		}
		maxInd = math.Max(maxInd, v)
	}
	if maxInd == 0 {
		return
	}
	threshold := fraction * maxInd
	for k, v := range indicator {
		if v >= threshold {
			marked = append(marked, k)
		}
	}
	return
}
