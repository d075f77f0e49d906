// Package refine implements conforming longest-edge bisection of triangle grids.
package refine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/notargets/femsolids/geometry2D"
	"github.com/notargets/femsolids/mesh"
	"github.com/notargets/femsolids/types"
)

// TIETOL is the relative tolerance under which two edges count as equally long
const TIETOL = 1.e-12

/*
Rivara refines the marked cells of g by longest-edge bisection and returns a
new conforming grid. g is not modified.

Every split cell is cut through the midpoint of its longest edge and the
opposite vertex. The neighbour across that edge is queued so it gets split
too; a child that still holds an edge bisected elsewhere is cut along that
edge immediately. Among edges of equal length (within TIETOL) the one whose
sorted global node pair is lowest wins.

The original nodes keep their indices and new midpoints follow in creation
order. Cells are renumbered. The topology is rebuilt and node, face and cell
sets are dropped; rebuild them with predicates on the result.
*/
func Rivara(g *mesh.Grid, marked []int) (rg *mesh.Grid, err error) {
	if g == nil {
		return nil, fmt.Errorf("nil grid: %w", types.ErrInvalidParameter)
	}
	if g.Topology == nil {
		return nil, fmt.Errorf("refinement needs the edge topology: %w", types.ErrMissingTopology)
	}
	if g.CellType != mesh.Triangle {
		return nil, fmt.Errorf("refinement of %v cells: %w", g.CellType, types.ErrUnsupportedElement)
	}
	var (
		seen  = make(map[int]bool, len(marked))
		queue = make([]int, 0, len(marked))
	)
	for _, k := range marked {
		if k < 0 || k >= g.NumCells() {
			return nil, fmt.Errorf("marked cell %d outside [0,%d): %w", k, g.NumCells(), types.ErrInvalidMarking)
		}
		if !seen[k] {
			seen[k] = true
			queue = append(queue, k)
		}
	}
	ar := newArena(g)
	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]
		if !ar.alive[k] {
			continue
		}
		f := ar.longestEdge(k)
		key := ar.edge(k, f)
		children := ar.bisect(k, f)
		// neighbours still holding the whole edge
		queue = append(queue, ar.edgeCells[key]...)
		for _, c := range children {
			ar.conform(c)
		}
	}
	if rg, err = ar.grid(); err != nil {
		return
	}
	slog.Debug("rivara refinement",
		"marked", len(seen), "cellsIn", g.NumCells(), "cellsOut", rg.NumCells(),
		"nodesIn", g.NumNodes(), "nodesOut", rg.NumNodes())
	return
}

// arena holds a private copy of the grid that grows as cells are split
type arena struct {
	nodes     []geometry2D.Point
	cells     [][3]int
	alive     []bool
	edgeCells map[types.EdgeKey][]int // alive cells only
	midpoints map[types.EdgeKey]int
}

func newArena(g *mesh.Grid) (ar *arena) {
	ar = &arena{
		nodes:     append(make([]geometry2D.Point, 0, 2*g.NumNodes()), g.Nodes...),
		cells:     make([][3]int, g.NumCells(), 2*g.NumCells()),
		alive:     make([]bool, g.NumCells(), 2*g.NumCells()),
		edgeCells: make(map[types.EdgeKey][]int, len(g.Topology.EdgeCells)),
		midpoints: make(map[types.EdgeKey]int),
	}
	for k, cell := range g.Cells {
		ar.cells[k] = cell.Corners()
		ar.alive[k] = true
	}
	for key, cells := range g.Topology.EdgeCells {
		ar.edgeCells[key] = append([]int(nil), cells...)
	}
	return
}

func (ar *arena) edge(k, f int) types.EdgeKey {
	c := ar.cells[k]
	return types.NewEdgeKey([2]int{c[f], c[(f+1)%3]})
}

func (ar *arena) longestEdge(k int) (best int) {
	var (
		c       = ar.cells[k]
		bestLen = -1.
	)
	for f := 0; f < 3; f++ {
		l := geometry2D.EdgeLength(ar.nodes[c[f]], ar.nodes[c[(f+1)%3]])
		switch {
		case bestLen < 0 || l > bestLen*(1+TIETOL):
			best, bestLen = f, l
		case math.Abs(l-bestLen) <= TIETOL*bestLen && ar.edge(k, f).Less(ar.edge(k, best)):
			best = f
			bestLen = math.Max(l, bestLen)
		}
	}
	return
}

func (ar *arena) midpoint(key types.EdgeKey) (m int) {
	var ok bool
	if m, ok = ar.midpoints[key]; !ok {
		v := key.GetVertices(false)
		m = len(ar.nodes)
		ar.nodes = append(ar.nodes, geometry2D.Midpoint(ar.nodes[v[0]], ar.nodes[v[1]]))
		ar.midpoints[key] = m
	}
	return
}

// bisect splits cell k through the midpoint of local edge f, keeping orientation
func (ar *arena) bisect(k, f int) (children [2]int) {
	var (
		c      = ar.cells[k]
		i, j   = f, (f + 1) % 3
		m      = ar.midpoint(ar.edge(k, f))
		c1, c2 = c, c
	)
	c1[j] = m
	c2[i] = m
	ar.retire(k)
	children[0] = ar.add(c1)
	children[1] = ar.add(c2)
	return
}

func (ar *arena) retire(k int) {
	ar.alive[k] = false
	for f := 0; f < 3; f++ {
		key := ar.edge(k, f)
		cells := ar.edgeCells[key][:0]
		for _, kk := range ar.edgeCells[key] {
			if kk != k {
				cells = append(cells, kk)
			}
		}
		if len(cells) == 0 {
			delete(ar.edgeCells, key)
		} else {
			ar.edgeCells[key] = cells
		}
	}
}

func (ar *arena) add(c [3]int) (k int) {
	k = len(ar.cells)
	ar.cells = append(ar.cells, c)
	ar.alive = append(ar.alive, true)
	for f := 0; f < 3; f++ {
		key := ar.edge(k, f)
		ar.edgeCells[key] = append(ar.edgeCells[key], k)
	}
	return
}

// conform splits cell k along any of its edges that already carry a midpoint
func (ar *arena) conform(k int) {
	for f := 0; f < 3; f++ {
		if _, hanging := ar.midpoints[ar.edge(k, f)]; hanging {
			for _, c := range ar.bisect(k, f) {
				ar.conform(c)
			}
			return
		}
	}
}

func (ar *arena) grid() (g *mesh.Grid, err error) {
	cells := make([]mesh.Cell, 0, len(ar.cells))
	for k, c := range ar.cells {
		if ar.alive[k] {
			cells = append(cells, mesh.Cell{Nodes: []int{c[0], c[1], c[2]}})
		}
	}
	if g, err = mesh.NewGrid(mesh.Triangle, ar.nodes, cells); err != nil {
		return
	}
	err = g.BuildTopology()
	return
}
