package assembly

import (
	"fmt"
	"math"

	"github.com/notargets/femsolids/dofs"
	"github.com/notargets/femsolids/types"
)

// Dirichlet prescribes Components of the displacement on the nodes of either
// a face set or a node set. A nil Value prescribes zero.
type Dirichlet struct {
	FaceSet    string
	NodeSet    string
	Components []int
	Value      func(x [2]float64) float64
}

type ConstraintHandler struct {
	Dirichlets []Dirichlet
}

func (ch *ConstraintHandler) Add(d Dirichlet) *ConstraintHandler {
	ch.Dirichlets = append(ch.Dirichlets, d)
	return ch
}

// Prescribed evaluates every condition on the grid of dh. Later conditions
// override earlier ones on shared dofs.
func (ch *ConstraintHandler) Prescribed(dh *dofs.DofHandler) (prescribed map[int]float64, err error) {
	var (
		g = dh.Grid()
	)
	prescribed = make(map[int]float64)
	for i, d := range ch.Dirichlets {
		var nodes []int
		switch {
		case d.FaceSet != "" && d.NodeSet != "":
			return nil, fmt.Errorf("dirichlet %d names both face set %q and node set %q: %w",
				i, d.FaceSet, d.NodeSet, types.ErrInvalidParameter)
		case d.FaceSet != "":
			nodes, err = g.FaceNodes(d.FaceSet)
		case d.NodeSet != "":
			nodes, err = g.NodeSet(d.NodeSet)
		default:
			err = fmt.Errorf("dirichlet %d names no set: %w", i, types.ErrInvalidParameter)
		}
		if err != nil {
			return nil, err
		}
		for _, c := range d.Components {
			if c < 0 || c >= dh.Dim() {
				return nil, fmt.Errorf("dirichlet %d component %d outside [0,%d): %w",
					i, c, dh.Dim(), types.ErrInvalidParameter)
			}
		}
		for _, n := range nodes {
			nd := dh.NodeDofs(n)
			if nd == nil {
				continue
			}
			var val float64
			if d.Value != nil {
				if val = d.Value(g.Nodes[n].X); math.IsNaN(val) || math.IsInf(val, 0) {
					return nil, fmt.Errorf("dirichlet %d evaluates to %v at node %d: %w",
						i, val, n, types.ErrInvalidParameter)
				}
			}
			for _, c := range d.Components {
				prescribed[nd[c]] = val
			}
		}
	}
	return
}
