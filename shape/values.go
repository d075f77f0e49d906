package shape

import (
	"fmt"
	"math"

	"github.com/notargets/femsolids/types"
)

// RELDET is the smallest Jacobian determinant accepted for a cell, relative
// to the square of its longest edge. Face lengths are checked against the
// longest edge with the same factor.
const RELDET = 1.0e-14

// maxEdge2 is the squared length of the longest corner edge of x
func maxEdge2(x [][2]float64) (h2 float64) {
	for f := 0; f < 3; f++ {
		a, b := x[edgeCorners[f][0]], x[edgeCorners[f][1]]
		dx, dy := b[0]-a[0], b[1]-a[1]
		h2 = math.Max(h2, dx*dx+dy*dy)
	}
	return
}

/*
CellValues holds shape function values, physical gradients and integration
weights at the quadrature points of one cell. The geometry map is affine,
built from the first three (corner) coordinates.

Each goroutine must own its CellValues: Reinit overwrites the scratchpad.
*/
type CellValues struct {
	ip     Interpolation
	qr     QuadratureRule
	n      [][]float64    // [nqp][nbf]
	dNdR   [][][2]float64 // [nqp][nbf]
	dNdx   [][][2]float64 // [nqp][nbf]
	dOmega []float64      // detJ * weight
	detJ   float64
}

func NewCellValues(ip Interpolation, order int) (cv *CellValues, err error) {
	var (
		qr QuadratureRule
	)
	if err = ip.validate(); err != nil {
		return
	}
	if qr, err = TriangleRule(order); err != nil {
		return
	}
	nbf := ip.NumBaseFuncs()
	cv = &CellValues{
		ip:     ip,
		qr:     qr,
		n:      make([][]float64, qr.Len()),
		dNdR:   make([][][2]float64, qr.Len()),
		dNdx:   make([][][2]float64, qr.Len()),
		dOmega: make([]float64, qr.Len()),
	}
	for q, r := range qr.Points {
		cv.n[q] = make([]float64, nbf)
		cv.dNdR[q] = make([][2]float64, nbf)
		cv.dNdx[q] = make([][2]float64, nbf)
		for i := 0; i < nbf; i++ {
			cv.n[q][i] = ip.Value(i, r)
			cv.dNdR[q][i] = ip.Gradient(i, r)
		}
	}
	return
}

// Reinit maps the reference data onto the cell with node coordinates x
func (cv *CellValues) Reinit(x [][2]float64) (err error) {
	if len(x) < 3 {
		return fmt.Errorf("need at least 3 coordinates, have %d: %w", len(x), types.ErrInvalidParameter)
	}
	var (
		// dx/dr
		J00, J01 = x[1][0] - x[0][0], x[2][0] - x[0][0]
		J10, J11 = x[1][1] - x[0][1], x[2][1] - x[0][1]
		det      = J00*J11 - J01*J10
	)
	if !(det > RELDET*maxEdge2(x)) || math.IsInf(det, 0) {
		return fmt.Errorf("jacobian determinant = %g: %w", det, types.ErrDegenerateElement)
	}
	var (
		rx, ry = J11 / det, -J01 / det
		sx, sy = -J10 / det, J00 / det
	)
	cv.detJ = det
	for q, w := range cv.qr.Weights {
		cv.dOmega[q] = det * w
		for i, g := range cv.dNdR[q] {
			cv.dNdx[q][i] = [2]float64{g[0]*rx + g[1]*sx, g[0]*ry + g[1]*sy}
		}
	}
	return
}

func (cv *CellValues) Interpolation() Interpolation       { return cv.ip }
func (cv *CellValues) NumQuadPoints() int                 { return cv.qr.Len() }
func (cv *CellValues) NumBaseFuncs() int                  { return cv.ip.NumBaseFuncs() }
func (cv *CellValues) ShapeValue(qp, i int) float64       { return cv.n[qp][i] }
func (cv *CellValues) ShapeGradient(qp, i int) [2]float64 { return cv.dNdx[qp][i] }
func (cv *CellValues) DOmega(qp int) float64              { return cv.dOmega[qp] }
func (cv *CellValues) DetJ() float64                      { return cv.detJ }

// FaceValues holds shape function values along one face of a cell
type FaceValues struct {
	ip     Interpolation
	qr     QuadratureRule
	n      [3][][]float64 // [face][nqp][nbf]
	dGamma []float64
	normal [2]float64
	face   int
}

func NewFaceValues(ip Interpolation, order int) (fv *FaceValues, err error) {
	var (
		qr QuadratureRule
	)
	if err = ip.validate(); err != nil {
		return
	}
	if qr, err = LineRuleForOrder(order); err != nil {
		return
	}
	var (
		nbf     = ip.NumBaseFuncs()
		corners = Lagrange1.RefCoords()
	)
	fv = &FaceValues{
		ip:     ip,
		qr:     qr,
		dGamma: make([]float64, qr.Len()),
	}
	for f := 0; f < 3; f++ {
		a, b := corners[edgeCorners[f][0]], corners[edgeCorners[f][1]]
		fv.n[f] = make([][]float64, qr.Len())
		for q, pt := range qr.Points {
			var (
				ta, tb = 0.5 * (1 - pt[0]), 0.5 * (1 + pt[0])
				r      = [2]float64{ta*a[0] + tb*b[0], ta*a[1] + tb*b[1]}
			)
			fv.n[f][q] = make([]float64, nbf)
			for i := 0; i < nbf; i++ {
				fv.n[f][q][i] = ip.Value(i, r)
			}
		}
	}
	return
}

// Reinit prepares integration over local face 'face' (corner face to corner face+1)
func (fv *FaceValues) Reinit(x [][2]float64, face int) (err error) {
	if len(x) < 3 {
		return fmt.Errorf("need at least 3 coordinates, have %d: %w", len(x), types.ErrInvalidParameter)
	}
	if face < 0 || face > 2 {
		return fmt.Errorf("local face %d out of range: %w", face, types.ErrInvalidParameter)
	}
	var (
		a, b   = x[edgeCorners[face][0]], x[edgeCorners[face][1]]
		dx, dy = b[0] - a[0], b[1] - a[1]
		length = math.Hypot(dx, dy)
	)
	if !(length > RELDET*math.Sqrt(maxEdge2(x))) {
		return fmt.Errorf("face %d has length %g: %w", face, length, types.ErrDegenerateElement)
	}
	fv.face = face
	fv.normal = [2]float64{dy / length, -dx / length}
	for q, w := range fv.qr.Weights {
		fv.dGamma[q] = 0.5 * length * w
	}
	return
}

func (fv *FaceValues) NumQuadPoints() int           { return fv.qr.Len() }
func (fv *FaceValues) NumBaseFuncs() int            { return fv.ip.NumBaseFuncs() }
func (fv *FaceValues) ShapeValue(qp, i int) float64 { return fv.n[fv.face][qp][i] }
func (fv *FaceValues) DGamma(qp int) float64        { return fv.dGamma[qp] }

// Normal is the outward unit normal for counter-clockwise cells
func (fv *FaceValues) Normal() [2]float64 { return fv.normal }
