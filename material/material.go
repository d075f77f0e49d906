// Package material holds the constitutive models consumed by the element routines.
package material

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/femsolids/types"
)

// Material is implemented only by the models of this package; element
// routines switch on the concrete type and reject anything else.
type Material interface {
	// Tangent returns the 3x3 Voigt stiffness relating [εxx, εyy, γxy] to [σxx, σyy, σxy]
	Tangent() *mat.SymDense
	isMaterial()
}

type Condition uint8

const (
	PlaneStrain Condition = iota
	PlaneStress
)

func (c Condition) String() string {
	switch c {
	case PlaneStrain:
		return "PlaneStrain"
	case PlaneStress:
		return "PlaneStress"
	}
	return fmt.Sprintf("Condition(%d)", uint8(c))
}

// LinearElasticity is an isotropic small-strain elastic model built from the
// shear modulus G and bulk modulus K
type LinearElasticity struct {
	G, K      float64
	Condition Condition
}

type Option func(le *LinearElasticity)

func WithCondition(c Condition) Option {
	return func(le *LinearElasticity) { le.Condition = c }
}

func NewLinearElasticity(G, K float64, opts ...Option) (le LinearElasticity, err error) {
	if !(G > 0) || math.IsInf(G, 0) {
		err = fmt.Errorf("shear modulus G = %v must be positive and finite: %w", G, types.ErrInvalidParameter)
		return
	}
	if !(K > 0) || math.IsInf(K, 0) {
		err = fmt.Errorf("bulk modulus K = %v must be positive and finite: %w", K, types.ErrInvalidParameter)
		return
	}
	le = LinearElasticity{G: G, K: K, Condition: PlaneStrain}
	for _, opt := range opts {
		opt(&le)
	}
	if le.Condition > PlaneStress {
		err = fmt.Errorf("unknown condition %v: %w", le.Condition, types.ErrInvalidParameter)
		le = LinearElasticity{}
	}
	return
}

func (le LinearElasticity) isMaterial() {}

// Lame returns the in-plane Lamé pair. Under plane stress lambda is the
// reduced value 2λμ/(λ+2μ).
func (le LinearElasticity) Lame() (lambda, mu float64) {
	mu = le.G
	lambda = le.K - 2.*le.G/3.
	if le.Condition == PlaneStress {
		lambda = 2. * lambda * mu / (lambda + 2.*mu)
	}
	return
}

// YoungPoisson converts to engineering constants
func (le LinearElasticity) YoungPoisson() (E, nu float64) {
	E = 9. * le.K * le.G / (3.*le.K + le.G)
	nu = (3.*le.K - 2.*le.G) / (2. * (3.*le.K + le.G))
	return
}

func (le LinearElasticity) Tangent() (D *mat.SymDense) {
	lambda, mu := le.Lame()
	D = mat.NewSymDense(3, []float64{
		lambda + 2*mu, lambda, 0,
		lambda, lambda + 2*mu, 0,
		0, 0, mu,
	})
	return
}

// Tensor returns the component E_ijkl of the in-plane fourth order elasticity tensor
func (le LinearElasticity) Tensor(i, j, k, l int) float64 {
	lambda, mu := le.Lame()
	delta := func(a, b int) float64 {
		if a == b {
			return 1
		}
		return 0
	}
	return lambda*delta(i, j)*delta(k, l) + mu*(delta(i, k)*delta(j, l)+delta(i, l)*delta(j, k))
}
