// Package element computes the stiffness and load contributions of a single
// triangle for small-strain elasticity.
package element

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/femsolids/material"
	"github.com/notargets/femsolids/mesh"
	"github.com/notargets/femsolids/types"
)

type Formulation uint8

const (
	Primal Formulation = iota + 1 // displacement based weak form
)

func (f Formulation) String() string {
	switch f {
	case Primal:
		return "Primal"
	}
	return fmt.Sprintf("Formulation(%d)", uint8(f))
}

// CellIntegrator supplies shape data at the interior quadrature points of a cell
type CellIntegrator interface {
	Reinit(x [][2]float64) error
	NumQuadPoints() int
	NumBaseFuncs() int
	ShapeValue(qp, i int) float64
	ShapeGradient(qp, i int) [2]float64
	DOmega(qp int) float64
}

// FaceIntegrator supplies shape data at the quadrature points of one cell face
type FaceIntegrator interface {
	Reinit(x [][2]float64, face int) error
	NumQuadPoints() int
	NumBaseFuncs() int
	ShapeValue(qp, i int) float64
	DGamma(qp int) float64
}

// BoundaryLoad requests integration of a constant traction over the faces
// of face set FaceSet that belong to cell CellID. All fields are required.
type BoundaryLoad struct {
	Face     FaceIntegrator
	Grid     *mesh.Grid
	CellID   int
	Traction [2]float64
	FaceSet  string
}

func (bl *BoundaryLoad) faces() (faces []int, err error) {
	switch {
	case bl.Face == nil:
		err = fmt.Errorf("boundary load without face integrator: %w", types.ErrInvalidParameter)
	case bl.Grid == nil:
		err = fmt.Errorf("boundary load without grid: %w", types.ErrInvalidParameter)
	case bl.FaceSet == "":
		err = fmt.Errorf("boundary load without face set name: %w", types.ErrInvalidParameter)
	case bl.CellID < 0 || bl.CellID >= bl.Grid.NumCells():
		err = fmt.Errorf("boundary load cell %d out of range [0,%d): %w",
			bl.CellID, bl.Grid.NumCells(), types.ErrInvalidParameter)
	case math.IsNaN(bl.Traction[0]) || math.IsNaN(bl.Traction[1]):
		err = fmt.Errorf("boundary traction %v: %w", bl.Traction, types.ErrInvalidParameter)
	}
	if err != nil {
		return
	}
	var set []mesh.FaceIndex
	if set, err = bl.Grid.FaceSet(bl.FaceSet); err != nil {
		return
	}
	for _, fi := range set {
		if fi.Cell == bl.CellID {
			faces = append(faces, fi.Face)
		}
	}
	return
}

/*
Routine fills ke with the element stiffness and fe with the boundary load of
the cell with node coordinates xe. Both integrals are quadrature sums scaled
by the out-of-plane thickness. fe is zeroed when bl is nil. ke and fe are
only written when the whole computation succeeds.

Routine keeps no state and may be called concurrently as long as each call
owns its ke, fe and integrators.
*/
func Routine(form Formulation, ke *mat.Dense, fe *mat.VecDense, cv CellIntegrator,
	xe [][2]float64, m material.Material, thickness float64, bl *BoundaryLoad) (err error) {
	switch form {
	case Primal:
		return primal(ke, fe, cv, xe, m, thickness, bl)
	default:
		return fmt.Errorf("formulation %v: %w", form, types.ErrInvalidParameter)
	}
}

func primal(ke *mat.Dense, fe *mat.VecDense, cv CellIntegrator,
	xe [][2]float64, m material.Material, thickness float64, bl *BoundaryLoad) (err error) {
	var (
		D     *mat.SymDense
		faces []int
	)
	if D, err = tangent(m); err != nil {
		return
	}
	if !(thickness > 0) || math.IsInf(thickness, 0) {
		return fmt.Errorf("thickness = %v must be positive: %w", thickness, types.ErrInvalidParameter)
	}
	if cv == nil {
		return fmt.Errorf("nil cell integrator: %w", types.ErrInvalidParameter)
	}
	nbf := cv.NumBaseFuncs()
	nd := 2 * nbf
	if ke == nil || fe == nil {
		return fmt.Errorf("nil element storage: %w", types.ErrInvalidParameter)
	}
	if r, c := ke.Dims(); r != nd || c != nd {
		return fmt.Errorf("ke is %dx%d, element has %d dofs: %w", r, c, nd, types.ErrInvalidParameter)
	}
	if fe.Len() != nd {
		return fmt.Errorf("fe has length %d, element has %d dofs: %w", fe.Len(), nd, types.ErrInvalidParameter)
	}
	if bl != nil {
		if faces, err = bl.faces(); err != nil {
			return
		}
		if bl.Face.NumBaseFuncs() != nbf {
			return fmt.Errorf("face integrator has %d base functions, cell has %d: %w",
				bl.Face.NumBaseFuncs(), nbf, types.ErrInvalidParameter)
		}
	}
	if err = cv.Reinit(xe); err != nil {
		return
	}
	var (
		K   = mat.NewDense(nd, nd, nil)
		B   = mat.NewDense(3, nd, nil)
		DB  = mat.NewDense(3, nd, nil)
		BDB = mat.NewDense(nd, nd, nil)
		F   = mat.NewVecDense(nd, nil)
	)
	for qp := 0; qp < cv.NumQuadPoints(); qp++ {
		strainDisplacement(B, cv, qp)
		DB.Mul(D, B)
		BDB.Mul(B.T(), DB)
		BDB.Scale(cv.DOmega(qp)*thickness, BDB)
		K.Add(K, BDB)
	}
	for _, face := range faces {
		if err = bl.Face.Reinit(xe, face); err != nil {
			return
		}
		for qp := 0; qp < bl.Face.NumQuadPoints(); qp++ {
			coef := bl.Face.DGamma(qp) * thickness
			for i := 0; i < nbf; i++ {
				N := bl.Face.ShapeValue(qp, i)
				F.SetVec(2*i, F.AtVec(2*i)+N*bl.Traction[0]*coef)
				F.SetVec(2*i+1, F.AtVec(2*i+1)+N*bl.Traction[1]*coef)
			}
		}
	}
	ke.Copy(K)
	fe.CopyVec(F)
	return
}

func tangent(m material.Material) (D *mat.SymDense, err error) {
	switch mm := m.(type) {
	case material.LinearElasticity:
		D = mm.Tangent()
	case *material.LinearElasticity:
		if mm == nil {
			break
		}
		D = mm.Tangent()
	}
	if D == nil {
		err = fmt.Errorf("material %T: %w", m, types.ErrUnsupportedMaterial)
	}
	return
}

// strainDisplacement fills the Voigt B matrix for [εxx, εyy, γxy] at qp
func strainDisplacement(B *mat.Dense, cv CellIntegrator, qp int) {
	for i := 0; i < cv.NumBaseFuncs(); i++ {
		g := cv.ShapeGradient(qp, i)
		B.Set(0, 2*i, g[0])
		B.Set(0, 2*i+1, 0)
		B.Set(1, 2*i, 0)
		B.Set(1, 2*i+1, g[1])
		B.Set(2, 2*i, g[1])
		B.Set(2, 2*i+1, g[0])
	}
}
