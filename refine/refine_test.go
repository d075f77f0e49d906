package refine

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/femsolids/geometry2D"
	"github.com/notargets/femsolids/mesh"
	"github.com/notargets/femsolids/types"
)

func square(t *testing.T, n int) *mesh.Grid {
	g, err := mesh.GenerateGrid(mesh.Triangle, n, n, geometry2D.NewPoint(0, 0), geometry2D.NewPoint(1, 1))
	require.NoError(t, err)
	return g
}

// checkConforming verifies positive areas, no duplicate nodes, no node
// sitting on the middle of a cell edge and that the domain is unchanged
func checkConforming(t *testing.T, g *mesh.Grid, area, perimeter float64) {
	t.Helper()
	loc := geometry2D.NewPointLocator(1.e-9)
	for n, p := range g.Nodes {
		if id, found := loc.Find(p); found {
			t.Errorf("node %d duplicates node %d", n, id)
		}
		loc.Insert(p, n)
	}
	var total float64
	for k, cell := range g.Cells {
		a := g.Area(k)
		assert.Greater(t, a, 0., "cell %d", k)
		total += a
		for f := 0; f < 3; f++ {
			fc := cell.FaceCorners(f)
			mid := geometry2D.Midpoint(g.Nodes[fc[0]], g.Nodes[fc[1]])
			if id, found := loc.Find(mid); found {
				t.Errorf("cell %d edge %v carries hanging node %d", k, fc, id)
			}
		}
	}
	assert.InDelta(t, area, total, 1.e-12)
	require.NotNil(t, g.Topology)
	var boundary float64
	for key, cells := range g.Topology.EdgeCells {
		require.True(t, len(cells) == 1 || len(cells) == 2)
		if len(cells) == 1 {
			v := key.GetVertices(false)
			boundary += geometry2D.EdgeLength(g.Nodes[v[0]], g.Nodes[v[1]])
		}
	}
	assert.InDelta(t, perimeter, boundary, 1.e-12)
}

func TestRivaraDiagonalPair(t *testing.T) {
	for _, marked := range [][]int{{0, 1}, {0}, {1}, {1, 1, 0}} {
		g := square(t, 1)
		rg, err := Rivara(g, marked)
		require.NoError(t, err)
		assert.Equal(t, 4, rg.NumCells(), "marked %v", marked)
		require.Equal(t, 5, rg.NumNodes(), "marked %v", marked)
		assert.Equal(t, [2]float64{0.5, 0.5}, rg.Nodes[4].X)
		for _, cell := range rg.Cells {
			assert.Contains(t, cell.Nodes, 4)
		}
		checkConforming(t, rg, 1, 4)
		assert.Empty(t, rg.FaceSets)
	}
}

func TestRivaraEmptyMarking(t *testing.T) {
	g := square(t, 3)
	nodes := append([]geometry2D.Point(nil), g.Nodes...)
	rg, err := Rivara(g, nil)
	require.NoError(t, err)
	assert.NotSame(t, g, rg)
	assert.Equal(t, g.Nodes, rg.Nodes)
	assert.Equal(t, g.Cells, rg.Cells)
	assert.Equal(t, nodes, g.Nodes)
	checkConforming(t, rg, 1, 4)
}

func TestRivaraInputUntouched(t *testing.T) {
	g := square(t, 2)
	var (
		nodes = append([]geometry2D.Point(nil), g.Nodes...)
		cells = make([][]int, g.NumCells())
		edges = len(g.Topology.EdgeCells)
	)
	for k, cell := range g.Cells {
		cells[k] = append([]int(nil), cell.Nodes...)
	}
	_, err := Rivara(g, []int{0, 3, 5})
	require.NoError(t, err)
	assert.Equal(t, nodes, g.Nodes)
	for k, cell := range g.Cells {
		assert.Equal(t, cells[k], cell.Nodes)
	}
	assert.Len(t, g.Topology.EdgeCells, edges)
	assert.Len(t, g.FaceSets, 4)
}

func TestRivaraRepeated(t *testing.T) {
	var (
		g   = square(t, 4)
		rnd = rand.New(rand.NewSource(7))
	)
	for pass := 0; pass < 6; pass++ {
		var marked []int
		for k := 0; k < g.NumCells(); k++ {
			if rnd.Float64() < 0.2 {
				marked = append(marked, k)
			}
		}
		rg, err := Rivara(g, marked)
		require.NoError(t, err)
		checkConforming(t, rg, 1, 4)
		assert.Greater(t, rg.NumCells(), g.NumCells()+len(marked)-1)
		// Original nodes keep their place
		assert.Equal(t, g.Nodes, rg.Nodes[:g.NumNodes()])
		// No marked cell survives
		survivors := make(map[[3]int]bool, rg.NumCells())
		for _, cell := range rg.Cells {
			survivors[cell.Corners()] = true
		}
		for _, k := range marked {
			assert.False(t, survivors[g.Cells[k].Corners()], "pass %d cell %d", pass, k)
		}
		g = rg
	}
}

func TestRivaraLocalized(t *testing.T) {
	// Repeatedly refining the cells touching the origin grades the mesh there
	g := square(t, 2)
	for pass := 0; pass < 8; pass++ {
		var marked []int
		for k, cell := range g.Cells {
			for _, n := range cell.Nodes {
				if g.Nodes[n].Norm() == 0 {
					marked = append(marked, k)
				}
			}
		}
		rg, err := Rivara(g, marked)
		require.NoError(t, err)
		checkConforming(t, rg, 1, 4)
		g = rg
	}
	var smallest, largest = math.Inf(1), 0.
	for k := range g.Cells {
		smallest = math.Min(smallest, g.Area(k))
		largest = math.Max(largest, g.Area(k))
	}
	assert.Greater(t, largest/smallest, 16.)
}

func TestRivaraTieBreak(t *testing.T) {
	nodes := []geometry2D.Point{
		geometry2D.NewPoint(0, 0), geometry2D.NewPoint(1, 0), geometry2D.NewPoint(0.5, math.Sqrt(3)/2),
	}
	// Same triangle listed from different starting corners
	for _, corners := range [][]int{{0, 1, 2}, {1, 2, 0}, {2, 0, 1}} {
		g, err := mesh.NewGrid(mesh.Triangle, nodes, []mesh.Cell{{Nodes: corners}})
		require.NoError(t, err)
		require.NoError(t, g.BuildTopology())
		rg, err := Rivara(g, []int{0})
		require.NoError(t, err)
		require.Equal(t, 4, rg.NumNodes())
		// Edge [0,1] is the lowest pair
		assert.InDeltaSlice(t, []float64{0.5, 0}, rg.Nodes[3].X[:], 1.e-15)
		assert.Equal(t, 2, rg.NumCells())
	}
}

func TestRivaraErrors(t *testing.T) {
	g := square(t, 1)
	{
		_, err := Rivara(g, []int{2})
		assert.True(t, errors.Is(err, types.ErrInvalidMarking))
		_, err = Rivara(g, []int{-1})
		assert.True(t, errors.Is(err, types.ErrInvalidMarking))
	}
	{
		bare, err := mesh.NewGrid(mesh.Triangle, g.Nodes, g.Cells)
		require.NoError(t, err)
		_, err = Rivara(bare, []int{0})
		assert.True(t, errors.Is(err, types.ErrMissingTopology))
	}
	{
		q, err := g.ToQuadratic()
		require.NoError(t, err)
		require.NotNil(t, q.Topology)
		_, err = Rivara(q, []int{0})
		assert.True(t, errors.Is(err, types.ErrUnsupportedElement))
	}
	_, err := Rivara(nil, nil)
	assert.True(t, errors.Is(err, types.ErrInvalidParameter))
}

func TestMarkFraction(t *testing.T) {
	marked, err := MarkFraction([]float64{0.1, 1, 0.5, 0.9, 0}, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, marked)

	marked, err = MarkFraction([]float64{0.1, 1, 0.5}, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, marked)

	marked, err = MarkFraction([]float64{0, 0}, 0.5)
	require.NoError(t, err)
	assert.Empty(t, marked)

	_, err = MarkFraction([]float64{1}, 1.5)
	assert.True(t, errors.Is(err, types.ErrInvalidParameter))
	_, err = MarkFraction([]float64{1, -1}, 0.5)
	assert.True(t, errors.Is(err, types.ErrInvalidParameter))
	_, err = MarkFraction([]float64{math.NaN()}, 0.5)
	assert.True(t, errors.Is(err, types.ErrInvalidParameter))
}
