// Package shape provides Lagrange shape functions and quadrature rules on
// the reference triangle (0,0), (1,0), (0,1), plus the per-element
// scratchpads (CellValues, FaceValues) that map them to physical space.
package shape

import (
	"fmt"

	"github.com/notargets/femsolids/types"
)

type Interpolation uint8

const (
	Lagrange1 Interpolation = iota + 1 // 3 corner nodes
	Lagrange2                          // corners plus edge midpoints 0-1, 1-2, 2-0
)

func (ip Interpolation) String() string {
	switch ip {
	case Lagrange1:
		return "Lagrange1"
	case Lagrange2:
		return "Lagrange2"
	}
	return fmt.Sprintf("Interpolation(%d)", uint8(ip))
}

func (ip Interpolation) Order() int { return int(ip) }

func (ip Interpolation) NumBaseFuncs() int {
	switch ip {
	case Lagrange1:
		return 3
	case Lagrange2:
		return 6
	}
	return 0
}

func (ip Interpolation) validate() error {
	if ip != Lagrange1 && ip != Lagrange2 {
		return fmt.Errorf("interpolation %v: %w", ip, types.ErrUnsupportedElement)
	}
	return nil
}

// DefaultQuadratureOrder integrates the stiffness of a straight sided element exactly
func (ip Interpolation) DefaultQuadratureOrder() int {
	if ip == Lagrange2 {
		return 2
	}
	return 1
}

// RefCoords are the reference coordinates of the interpolation nodes
func (ip Interpolation) RefCoords() (r [][2]float64) {
	r = [][2]float64{{0, 0}, {1, 0}, {0, 1}}
	if ip == Lagrange2 {
		r = append(r, [2]float64{0.5, 0}, [2]float64{0.5, 0.5}, [2]float64{0, 0.5})
	}
	return
}

func barycentric(r [2]float64) (L [3]float64) {
	return [3]float64{1 - r[0] - r[1], r[0], r[1]}
}

var dBarycentric = [3][2]float64{{-1, -1}, {1, 0}, {0, 1}}

// edgeCorners lists the corners joined by midside node 3+i
var edgeCorners = [3][2]int{{0, 1}, {1, 2}, {2, 0}}

func (ip Interpolation) Value(i int, r [2]float64) float64 {
	L := barycentric(r)
	switch ip {
	case Lagrange1:
		return L[i]
	case Lagrange2:
		if i < 3 {
			return L[i] * (2*L[i] - 1)
		}
		a, b := edgeCorners[i-3][0], edgeCorners[i-3][1]
		return 4 * L[a] * L[b]
	}
	panic("unsupported interpolation")
}

// Gradient with respect to the reference coordinates
func (ip Interpolation) Gradient(i int, r [2]float64) (g [2]float64) {
	L := barycentric(r)
	switch ip {
	case Lagrange1:
		return dBarycentric[i]
	case Lagrange2:
		if i < 3 {
			s := 4*L[i] - 1
			return [2]float64{s * dBarycentric[i][0], s * dBarycentric[i][1]}
		}
		a, b := edgeCorners[i-3][0], edgeCorners[i-3][1]
		for d := 0; d < 2; d++ {
			g[d] = 4 * (L[b]*dBarycentric[a][d] + L[a]*dBarycentric[b][d])
		}
		return
	}
	panic("unsupported interpolation")
}
