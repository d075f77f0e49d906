// Package transfer moves nodal solutions between corresponding grids.
package transfer

import (
	"fmt"

	"github.com/notargets/femsolids/dofs"
	"github.com/notargets/femsolids/geometry2D"
	"github.com/notargets/femsolids/mesh"
	"github.com/notargets/femsolids/types"
)

// RELTOL scales the linear grid's bounding box diagonal into the matching tolerance
const RELTOL = 1.e-10

/*
LinearToQuadratic interpolates the vector field u, numbered by lin, onto the
dofs of quad. Quadratic nodes that coincide with a linear vertex copy its
value; nodes at the midpoint of a linear edge take the mean of the edge's end
values, which is exact for fields that are linear along the edge.
*/
func LinearToQuadratic(lin, quad *dofs.DofHandler, u []float64) (uq []float64, err error) {
	if lin == nil || quad == nil {
		return nil, fmt.Errorf("nil dof handler: %w", types.ErrInvalidParameter)
	}
	var (
		lg, qg = lin.Grid(), quad.Grid()
	)
	if lg.CellType != mesh.Triangle || qg.CellType != mesh.QuadraticTriangle {
		return nil, fmt.Errorf("transfer from %v to %v, need %v to %v: %w",
			lg.CellType, qg.CellType, mesh.Triangle, mesh.QuadraticTriangle, types.ErrUnsupportedElement)
	}
	if lin.Dim() != 2 || quad.Dim() != 2 {
		return nil, fmt.Errorf("field dimensions %d and %d, only vector fields transfer: %w",
			lin.Dim(), quad.Dim(), types.ErrInvalidParameter)
	}
	if len(u) != lin.NDofs() {
		return nil, fmt.Errorf("solution has %d values, linear grid has %d dofs: %w",
			len(u), lin.NDofs(), types.ErrInvalidParameter)
	}
	var (
		tol      = RELTOL
		vertices *geometry2D.PointLocator
		mids     *geometry2D.PointLocator
		edges    [][2]int
	)
	if box := lg.BoundingBox(); box != nil && box.Diagonal() > 0 {
		tol *= box.Diagonal()
	}
	vertices, mids, edges = locators(lin, tol)
	uq = make([]float64, quad.NDofs())
	for n, p := range qg.Nodes {
		qd := quad.NodeDofs(n)
		if qd == nil {
			continue
		}
		if id, found := vertices.Find(p); found {
			ld := lin.NodeDofs(id)
			for c := range qd {
				uq[qd[c]] = u[ld[c]]
			}
			continue
		}
		if id, found := mids.Find(p); found {
			a, b := lin.NodeDofs(edges[id][0]), lin.NodeDofs(edges[id][1])
			for c := range qd {
				uq[qd[c]] = 0.5 * (u[a[c]] + u[b[c]])
			}
			continue
		}
		return nil, fmt.Errorf("quadratic node %d at %v matches no linear vertex or edge midpoint: %w",
			n, p.X, types.ErrIncompatibleMeshes)
	}
	return
}

func locators(lin *dofs.DofHandler, tol float64) (vertices, mids *geometry2D.PointLocator, edges [][2]int) {
	var (
		g    = lin.Grid()
		seen = make(map[types.EdgeKey]bool)
	)
	vertices, mids = geometry2D.NewPointLocator(tol), geometry2D.NewPointLocator(tol)
	for n, p := range g.Nodes {
		if lin.NodeDofs(n) != nil {
			vertices.Insert(p, n)
		}
	}
	for _, cell := range g.Cells {
		for f := 0; f < 3; f++ {
			fc := cell.FaceCorners(f)
			key := types.NewEdgeKey(fc)
			if seen[key] {
				continue
			}
			seen[key] = true
			mids.Insert(geometry2D.Midpoint(g.Nodes[fc[0]], g.Nodes[fc[1]]), len(edges))
			edges = append(edges, fc)
		}
	}
	return
}
