// Package mesh holds triangular grids, their edge topology, named node,
// face and cell sets, and simple generators.
package mesh

import (
	"fmt"

	"github.com/notargets/femsolids/geometry2D"
	"github.com/notargets/femsolids/types"
)

type CellType uint8

const (
	Triangle          CellType = iota + 1 // 3 corner nodes
	QuadraticTriangle                     // corners, then midpoints of edges 0-1, 1-2, 2-0
)

func (ct CellType) String() string {
	switch ct {
	case Triangle:
		return "Triangle"
	case QuadraticTriangle:
		return "QuadraticTriangle"
	}
	return fmt.Sprintf("CellType(%d)", uint8(ct))
}

func (ct CellType) NumNodes() int {
	switch ct {
	case Triangle:
		return 3
	case QuadraticTriangle:
		return 6
	}
	return 0
}

type Cell struct {
	Nodes []int
}

// Corners returns the three vertex indices of the cell
func (c Cell) Corners() [3]int {
	return [3]int{c.Nodes[0], c.Nodes[1], c.Nodes[2]}
}

// FaceCorners returns the corners joined by local face f, in cell orientation
func (c Cell) FaceCorners(f int) [2]int {
	return [2]int{c.Nodes[f], c.Nodes[(f+1)%3]}
}

// FaceIndex addresses local face Face of cell Cell
type FaceIndex struct {
	Cell, Face int
}

type Grid struct {
	CellType CellType
	Nodes    []geometry2D.Point
	Cells    []Cell
	FaceSets map[string][]FaceIndex
	NodeSets map[string][]int
	CellSets map[string][]int
	Topology *Topology // nil until BuildTopology is called
}

// NewGrid validates the connectivity and returns a grid without topology
func NewGrid(ct CellType, nodes []geometry2D.Point, cells []Cell) (g *Grid, err error) {
	var (
		nn = ct.NumNodes()
	)
	if nn == 0 {
		err = fmt.Errorf("cell type %v: %w", ct, types.ErrUnsupportedElement)
		return
	}
	for k, cell := range cells {
		if len(cell.Nodes) != nn {
			err = fmt.Errorf("cell %d has %d nodes, %v needs %d: %w",
				k, len(cell.Nodes), ct, nn, types.ErrUnsupportedElement)
			return
		}
		for _, n := range cell.Nodes {
			if n < 0 || n >= len(nodes) {
				err = fmt.Errorf("cell %d references node %d, grid has %d nodes: %w",
					k, n, len(nodes), types.ErrInvalidParameter)
				return
			}
		}
	}
	g = &Grid{
		CellType: ct,
		Nodes:    nodes,
		Cells:    cells,
		FaceSets: make(map[string][]FaceIndex),
		NodeSets: make(map[string][]int),
		CellSets: make(map[string][]int),
	}
	return
}

func (g *Grid) NumNodes() int { return len(g.Nodes) }
func (g *Grid) NumCells() int { return len(g.Cells) }

// Coordinates returns the node coordinates of cell k in local node order
func (g *Grid) Coordinates(k int) (x [][2]float64) {
	cell := g.Cells[k]
	x = make([][2]float64, len(cell.Nodes))
	for i, n := range cell.Nodes {
		x[i] = g.Nodes[n].X
	}
	return
}

// Area is the signed area of cell k, positive for counter-clockwise cells
func (g *Grid) Area(k int) float64 {
	c := g.Cells[k].Corners()
	return geometry2D.SignedArea(g.Nodes[c[0]], g.Nodes[c[1]], g.Nodes[c[2]])
}

// CornerTriangles lists the corner triples of all cells
func (g *Grid) CornerTriangles() (tris [][3]int) {
	tris = make([][3]int, len(g.Cells))
	for k, cell := range g.Cells {
		tris[k] = cell.Corners()
	}
	return
}

func (g *Grid) BoundingBox() *geometry2D.BoundingBox {
	return geometry2D.NewBoundingBox(g.Nodes)
}
