// Package dofs numbers the degrees of freedom of a vector field on a grid.
package dofs

import (
	"fmt"

	"github.com/notargets/femsolids/mesh"
	"github.com/notargets/femsolids/types"
)

// DofHandler numbers node dofs in first-seen order while walking the cells,
// so every component of a node receives consecutive numbers
type DofHandler struct {
	grid     *mesh.Grid
	dim      int
	nodeDofs []int // first dof of each node, -1 for nodes not used by any cell
	nDofs    int
}

func NewDofHandler(g *mesh.Grid, dim int) (dh *DofHandler, err error) {
	if g == nil {
		err = fmt.Errorf("nil grid: %w", types.ErrInvalidParameter)
		return
	}
	if dim < 1 || dim > 2 {
		err = fmt.Errorf("field dimension %d, need 1 or 2: %w", dim, types.ErrInvalidParameter)
		return
	}
	dh = &DofHandler{
		grid:     g,
		dim:      dim,
		nodeDofs: make([]int, g.NumNodes()),
	}
	for i := range dh.nodeDofs {
		dh.nodeDofs[i] = -1
	}
	for _, cell := range g.Cells {
		for _, n := range cell.Nodes {
			if dh.nodeDofs[n] < 0 {
				dh.nodeDofs[n] = dh.nDofs
				dh.nDofs += dim
			}
		}
	}
	return
}

func (dh *DofHandler) Grid() *mesh.Grid { return dh.grid }
func (dh *DofHandler) Dim() int         { return dh.dim }
func (dh *DofHandler) NDofs() int       { return dh.nDofs }

// NodeDofs returns the dofs of node n by component, nil for orphan nodes
func (dh *DofHandler) NodeDofs(n int) (d []int) {
	first := dh.nodeDofs[n]
	if first < 0 {
		return nil
	}
	d = make([]int, dh.dim)
	for c := range d {
		d[c] = first + c
	}
	return
}

// CellDofs fills d with the interleaved dofs of cell k: [n0x, n0y, n1x, ...]
func (dh *DofHandler) CellDofs(d []int, k int) []int {
	cell := dh.grid.Cells[k]
	d = d[:0]
	for _, n := range cell.Nodes {
		first := dh.nodeDofs[n]
		for c := 0; c < dh.dim; c++ {
			d = append(d, first+c)
		}
	}
	return d
}

// NDofsPerCell is the length of the CellDofs result
func (dh *DofHandler) NDofsPerCell() int {
	return dh.dim * dh.grid.CellType.NumNodes()
}
