package dofs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/femsolids/geometry2D"
	"github.com/notargets/femsolids/mesh"
	"github.com/notargets/femsolids/types"
)

func TestDofHandler(t *testing.T) {
	g, err := mesh.GenerateGrid(mesh.Triangle, 1, 1, geometry2D.NewPoint(0, 0), geometry2D.NewPoint(1, 1))
	require.NoError(t, err)
	dh, err := NewDofHandler(g, 2)
	require.NoError(t, err)
	assert.Equal(t, 8, dh.NDofs())
	assert.Equal(t, 2, dh.Dim())
	assert.Equal(t, 6, dh.NDofsPerCell())
	assert.Same(t, g, dh.Grid())

	// Cell 0 is (0,1,3), cell 1 is (0,3,2): node 2 is seen last
	d := dh.CellDofs(nil, 0)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, d)
	d = dh.CellDofs(d, 1)
	assert.Equal(t, []int{0, 1, 4, 5, 6, 7}, d)
	assert.Equal(t, []int{6, 7}, dh.NodeDofs(2))
	assert.Equal(t, []int{4, 5}, dh.NodeDofs(3))

	// Every dof is used exactly once across the nodes
	seen := make([]bool, dh.NDofs())
	for n := 0; n < g.NumNodes(); n++ {
		for _, dof := range dh.NodeDofs(n) {
			assert.False(t, seen[dof])
			seen[dof] = true
		}
	}
	for _, s := range seen {
		assert.True(t, s)
	}
}

func TestDofHandlerQuadratic(t *testing.T) {
	g, err := mesh.GenerateGrid(mesh.QuadraticTriangle, 2, 2, geometry2D.NewPoint(0, 0), geometry2D.NewPoint(1, 1))
	require.NoError(t, err)
	dh, err := NewDofHandler(g, 2)
	require.NoError(t, err)
	assert.Equal(t, 50, dh.NDofs())
	assert.Len(t, dh.CellDofs(nil, 3), 12)

	scalar, err := NewDofHandler(g, 1)
	require.NoError(t, err)
	assert.Equal(t, 25, scalar.NDofs())
}

func TestDofHandlerErrors(t *testing.T) {
	_, err := NewDofHandler(nil, 2)
	assert.True(t, errors.Is(err, types.ErrInvalidParameter))
	g, err := mesh.GenerateGrid(mesh.Triangle, 1, 1, geometry2D.NewPoint(0, 0), geometry2D.NewPoint(1, 1))
	require.NoError(t, err)
	_, err = NewDofHandler(g, 3)
	assert.True(t, errors.Is(err, types.ErrInvalidParameter))
}
