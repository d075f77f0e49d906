package material

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/femsolids/types"
)

func TestLinearElasticity(t *testing.T) {
	{ // Invalid moduli
		for _, gk := range [][2]float64{{0, 1}, {1, 0}, {-1, 2}, {1, -3}, {math.NaN(), 1}, {1, math.Inf(1)}} {
			_, err := NewLinearElasticity(gk[0], gk[1])
			assert.True(t, errors.Is(err, types.ErrInvalidParameter), "G, K = %v", gk)
		}
		_, err := NewLinearElasticity(1, 2, WithCondition(Condition(7)))
		assert.True(t, errors.Is(err, types.ErrInvalidParameter))
	}
	{ // Lamé parameters for G = 1, K = 2
		le, err := NewLinearElasticity(1, 2)
		require.NoError(t, err)
		assert.Equal(t, PlaneStrain, le.Condition)
		lambda, mu := le.Lame()
		assert.InDelta(t, 4./3., lambda, 1.e-15)
		assert.InDelta(t, 1., mu, 1.e-15)
		D := le.Tangent()
		assert.InDelta(t, 10./3., D.At(0, 0), 1.e-15)
		assert.InDelta(t, 4./3., D.At(0, 1), 1.e-15)
		assert.InDelta(t, 1., D.At(2, 2), 1.e-15)
		E, nu := le.YoungPoisson()
		assert.InDelta(t, 18./7., E, 1.e-14)
		assert.InDelta(t, 2./7., nu, 1.e-14)
	}
	{ // Plane stress reduces lambda
		le, err := NewLinearElasticity(1, 2, WithCondition(PlaneStress))
		require.NoError(t, err)
		lambda, _ := le.Lame()
		assert.InDelta(t, 2.*(4./3.)/(4./3.+2.), lambda, 1.e-15)
		E, nu := le.YoungPoisson()
		// Plane stress modulus E/(1-nu^2)
		assert.InDelta(t, E/(1-nu*nu), le.Tangent().At(0, 0), 1.e-14)
	}
	{ // Tensor symmetries and positive definiteness
		for _, gk := range [][2]float64{{1, 2}, {80.e3, 160.e3}, {3, 2.5}, {1, 100}} {
			for _, cond := range []Condition{PlaneStrain, PlaneStress} {
				le, err := NewLinearElasticity(gk[0], gk[1], WithCondition(cond))
				require.NoError(t, err)
				for i := 0; i < 2; i++ {
					for j := 0; j < 2; j++ {
						for k := 0; k < 2; k++ {
							for l := 0; l < 2; l++ {
								v := le.Tensor(i, j, k, l)
								assert.Equal(t, v, le.Tensor(j, i, k, l))
								assert.Equal(t, v, le.Tensor(i, j, l, k))
								assert.Equal(t, v, le.Tensor(k, l, i, j))
							}
						}
					}
				}
				var eig mat.EigenSym
				require.True(t, eig.Factorize(le.Tangent(), false))
				for _, v := range eig.Values(nil) {
					assert.Greater(t, v, 0.)
				}
				assert.Equal(t, le.Tensor(0, 1, 0, 1), le.Tangent().At(2, 2))
				assert.Equal(t, le.Tensor(0, 0, 1, 1), le.Tangent().At(0, 1))
			}
		}
	}
	assert.Equal(t, "PlaneStress", PlaneStress.String())
}
