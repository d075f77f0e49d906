package element

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/femsolids/material"
	"github.com/notargets/femsolids/types"
)

// ElementStress holds area averaged Voigt quantities of one cell and its
// strain energy per unit thickness
type ElementStress struct {
	Strain [3]float64 // εxx, εyy, γxy
	Stress [3]float64 // σxx, σyy, σxy
	Energy float64
}

// Stress post-processes the interleaved element displacements ue. cv must
// already be reinitialized on the cell.
func Stress(m material.Material, cv CellIntegrator, ue []float64) (es ElementStress, err error) {
	var (
		D *mat.SymDense
	)
	if D, err = tangent(m); err != nil {
		return
	}
	nd := 2 * cv.NumBaseFuncs()
	if len(ue) != nd {
		err = fmt.Errorf("element displacement has length %d, need %d: %w", len(ue), nd, types.ErrInvalidParameter)
		return
	}
	var (
		B     = mat.NewDense(3, nd, nil)
		u     = mat.NewVecDense(nd, ue)
		eps   = mat.NewVecDense(3, nil)
		sig   = mat.NewVecDense(3, nil)
		total float64
	)
	for qp := 0; qp < cv.NumQuadPoints(); qp++ {
		dOmega := cv.DOmega(qp)
		strainDisplacement(B, cv, qp)
		eps.MulVec(B, u)
		sig.MulVec(D, eps)
		for i := 0; i < 3; i++ {
			es.Strain[i] += eps.AtVec(i) * dOmega
			es.Stress[i] += sig.AtVec(i) * dOmega
		}
		es.Energy += 0.5 * mat.Dot(eps, sig) * dOmega
		total += dOmega
	}
	for i := 0; i < 3; i++ {
		es.Strain[i] /= total
		es.Stress[i] /= total
	}
	return
}
