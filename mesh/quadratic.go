package mesh

import (
	"fmt"

	"github.com/notargets/femsolids/geometry2D"
	"github.com/notargets/femsolids/types"
)

/*
ToQuadratic returns a QuadraticTriangle grid over the same cells: corner
nodes keep their indices and one shared midpoint node is appended per edge.
Face, node and cell sets carry over since cell and corner indices do not
change.
*/
func (g *Grid) ToQuadratic() (q *Grid, err error) {
	if g.CellType != Triangle {
		err = fmt.Errorf("can only elevate %v grids, have %v: %w", Triangle, g.CellType, types.ErrUnsupportedElement)
		return
	}
	var (
		nodes = append([]geometry2D.Point(nil), g.Nodes...)
		cells = make([]Cell, len(g.Cells))
		mids  = make(map[types.EdgeKey]int, 3*len(g.Cells)/2+1)
	)
	for k, cell := range g.Cells {
		cn := make([]int, 6)
		copy(cn, cell.Nodes)
		for f := 0; f < 3; f++ {
			fc := cell.FaceCorners(f)
			key := types.NewEdgeKey(fc)
			m, ok := mids[key]
			if !ok {
				m = len(nodes)
				nodes = append(nodes, geometry2D.Midpoint(g.Nodes[fc[0]], g.Nodes[fc[1]]))
				mids[key] = m
			}
			cn[3+f] = m
		}
		cells[k] = Cell{Nodes: cn}
	}
	if q, err = NewGrid(QuadraticTriangle, nodes, cells); err != nil {
		return
	}
	for name, faces := range g.FaceSets {
		q.FaceSets[name] = append([]FaceIndex(nil), faces...)
	}
	for name, ns := range g.NodeSets {
		q.NodeSets[name] = append([]int(nil), ns...)
	}
	for name, cs := range g.CellSets {
		q.CellSets[name] = append([]int(nil), cs...)
	}
	if g.Topology != nil {
		err = q.BuildTopology()
	}
	return
}
