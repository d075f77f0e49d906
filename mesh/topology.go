package mesh

import (
	"fmt"

	"github.com/notargets/femsolids/types"
)

// Topology maps each corner edge to the one (boundary) or two (interior)
// cells sharing it
type Topology struct {
	EdgeCells map[types.EdgeKey][]int
	neighbors [][3]int // across local face, -1 on the boundary
}

// BuildTopology rebuilds the edge adjacency of the grid from scratch
func (g *Grid) BuildTopology() (err error) {
	var (
		tp *Topology
	)
	if tp, err = NewTopology(g); err != nil {
		return
	}
	g.Topology = tp
	return
}

func NewTopology(g *Grid) (tp *Topology, err error) {
	tp = &Topology{
		EdgeCells: make(map[types.EdgeKey][]int, 3*len(g.Cells)/2+1),
		neighbors: make([][3]int, len(g.Cells)),
	}
	for k, cell := range g.Cells {
		for f := 0; f < 3; f++ {
			key := types.NewEdgeKey(cell.FaceCorners(f))
			tp.EdgeCells[key] = append(tp.EdgeCells[key], k)
			if len(tp.EdgeCells[key]) > 2 {
				err = fmt.Errorf("edge %v is shared by more than two cells: %w", key, types.ErrInvalidParameter)
				return nil, err
			}
		}
	}
	for k, cell := range g.Cells {
		for f := 0; f < 3; f++ {
			tp.neighbors[k][f] = -1
			for _, kk := range tp.EdgeCells[types.NewEdgeKey(cell.FaceCorners(f))] {
				if kk != k {
					tp.neighbors[k][f] = kk
				}
			}
		}
	}
	return
}

// Cells returns the cells incident on the edge
func (tp *Topology) Cells(key types.EdgeKey) []int {
	return tp.EdgeCells[key]
}

// Neighbor returns the cell across local face f of cell k, or -1
func (tp *Topology) Neighbor(k, f int) int {
	return tp.neighbors[k][f]
}

func (tp *Topology) IsBoundary(k, f int) bool {
	return tp.neighbors[k][f] < 0
}

// BoundaryFaces lists every face with a single incident cell, in cell order
func (tp *Topology) BoundaryFaces() (faces []FaceIndex) {
	for k, nb := range tp.neighbors {
		for f := 0; f < 3; f++ {
			if nb[f] < 0 {
				faces = append(faces, FaceIndex{Cell: k, Face: f})
			}
		}
	}
	return
}
