package shape

import (
	"fmt"
	"math"

	"github.com/notargets/femsolids/types"
)

type QuadratureRule struct {
	Points  [][2]float64 // triangle rules: reference (r, s); line rules: (xi, 0) on [-1,1]
	Weights []float64
}

func (qr QuadratureRule) Len() int { return len(qr.Weights) }

// TriangleRule returns a rule exact for polynomials up to the given degree on
// the reference triangle; the weights sum to the reference area 1/2
func TriangleRule(order int) (qr QuadratureRule, err error) {
	switch {
	case order == 0 || order == 1:
		qr = QuadratureRule{
			Points:  [][2]float64{{1. / 3., 1. / 3.}},
			Weights: []float64{0.5},
		}
	case order == 2:
		qr = QuadratureRule{
			Points:  [][2]float64{{1. / 6., 1. / 6.}, {2. / 3., 1. / 6.}, {1. / 6., 2. / 3.}},
			Weights: []float64{1. / 6., 1. / 6., 1. / 6.},
		}
	case order == 3 || order == 4:
		const (
			a  = 0.445948490915965
			wa = 0.223381589678011 / 2
			b  = 0.091576213509771
			wb = 0.109951743655322 / 2
		)
		qr = QuadratureRule{
			Points: [][2]float64{
				{a, a}, {1 - 2*a, a}, {a, 1 - 2*a},
				{b, b}, {1 - 2*b, b}, {b, 1 - 2*b},
			},
			Weights: []float64{wa, wa, wa, wb, wb, wb},
		}
	default:
		err = fmt.Errorf("triangle quadrature of order %d is not available: %w", order, types.ErrInvalidParameter)
	}
	return
}

// LineRule returns the Gauss-Legendre rule with nPts points on [-1,1]
func LineRule(nPts int) (qr QuadratureRule, err error) {
	switch nPts {
	case 1:
		qr = QuadratureRule{Points: [][2]float64{{0, 0}}, Weights: []float64{2}}
	case 2:
		x := 1 / math.Sqrt(3)
		qr = QuadratureRule{Points: [][2]float64{{-x, 0}, {x, 0}}, Weights: []float64{1, 1}}
	case 3:
		x := math.Sqrt(3. / 5.)
		qr = QuadratureRule{
			Points:  [][2]float64{{-x, 0}, {0, 0}, {x, 0}},
			Weights: []float64{5. / 9., 8. / 9., 5. / 9.},
		}
	default:
		err = fmt.Errorf("gauss rule with %d points is not available: %w", nPts, types.ErrInvalidParameter)
	}
	return
}

// LineRuleForOrder picks the smallest Gauss rule exact for the given degree
func LineRuleForOrder(order int) (QuadratureRule, error) {
	if order < 0 {
		return QuadratureRule{}, fmt.Errorf("negative quadrature order %d: %w", order, types.ErrInvalidParameter)
	}
	return LineRule(order/2 + 1)
}
