package solver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/femsolids/assembly"
	"github.com/notargets/femsolids/dofs"
	"github.com/notargets/femsolids/element"
	"github.com/notargets/femsolids/geometry2D"
	"github.com/notargets/femsolids/material"
	"github.com/notargets/femsolids/mesh"
	"github.com/notargets/femsolids/types"
)

func problem(t *testing.T, ct mesh.CellType, loads []assembly.Traction) (*dofs.DofHandler, *assembly.System) {
	g, err := mesh.GenerateGrid(ct, 3, 3, geometry2D.NewPoint(0, 0), geometry2D.NewPoint(2, 1))
	require.NoError(t, err)
	dh, err := dofs.NewDofHandler(g, 2)
	require.NoError(t, err)
	m, err := material.NewLinearElasticity(1, 2)
	require.NoError(t, err)
	a := &assembly.Assembler{Material: m, Thickness: 1, Formulation: element.Primal, Loads: loads}
	sys, err := a.Assemble(dh)
	require.NoError(t, err)
	return dh, sys
}

func methods() []Options {
	return []Options{
		{Method: CG, Tolerance: 1.e-13},
		{Method: Cholesky},
	}
}

// A uniform tension s on the right face of a plane strain block gives
// exx = 5s/14 and eyy = -s/7 for G=1, K=2
func TestPatchTraction(t *testing.T) {
	const s = 0.3
	for _, ct := range []mesh.CellType{mesh.Triangle, mesh.QuadraticTriangle} {
		dh, sys := problem(t, ct, []assembly.Traction{{FaceSet: "right", Value: [2]float64{s, 0}}})
		g := dh.Grid()
		g.AddNodeSet("origin", func(x geometry2D.Point) bool { return x.Norm() == 0 })
		ch := new(assembly.ConstraintHandler).
			Add(assembly.Dirichlet{FaceSet: "left", Components: []int{0}}).
			Add(assembly.Dirichlet{NodeSet: "origin", Components: []int{1}})
		prescribed, err := ch.Prescribed(dh)
		require.NoError(t, err)
		for _, opts := range methods() {
			u, err := Solve(sys, prescribed, opts)
			require.NoError(t, err)
			for n, p := range g.Nodes {
				d := dh.NodeDofs(n)
				assert.InDelta(t, 5.*s/14.*p.X[0], u[d[0]], 1.e-9, "%v %v node %d", ct, opts.Method, n)
				assert.InDelta(t, -s/7.*p.X[1], u[d[1]], 1.e-9, "%v %v node %d", ct, opts.Method, n)
			}
		}
	}
}

// Prescribing an affine field on the whole boundary reproduces it inside
func TestPatchDisplacement(t *testing.T) {
	field := func(x [2]float64) [2]float64 {
		return [2]float64{0.01*x[0] + 0.02*x[1], -0.03*x[0] + 0.005*x[1]}
	}
	for _, ct := range []mesh.CellType{mesh.Triangle, mesh.QuadraticTriangle} {
		dh, sys := problem(t, ct, nil)
		ch := new(assembly.ConstraintHandler)
		for _, side := range []string{"left", "right", "bottom", "top"} {
			ch.Add(assembly.Dirichlet{FaceSet: side, Components: []int{0},
				Value: func(x [2]float64) float64 { return field(x)[0] }})
			ch.Add(assembly.Dirichlet{FaceSet: side, Components: []int{1},
				Value: func(x [2]float64) float64 { return field(x)[1] }})
		}
		prescribed, err := ch.Prescribed(dh)
		require.NoError(t, err)
		var results [][]float64
		for _, opts := range methods() {
			u, err := Solve(sys, prescribed, opts)
			require.NoError(t, err)
			for n, p := range dh.Grid().Nodes {
				want := field(p.X)
				d := dh.NodeDofs(n)
				assert.InDelta(t, want[0], u[d[0]], 1.e-11)
				assert.InDelta(t, want[1], u[d[1]], 1.e-11)
			}
			results = append(results, u)
		}
		assert.InDeltaSlice(t, results[0], results[1], 1.e-11)
	}
}

func TestSolveErrors(t *testing.T) {
	dh, sys := problem(t, mesh.Triangle, []assembly.Traction{{FaceSet: "top", Value: [2]float64{0, -1}}})
	{ // Nothing holds the body
		_, err := Solve(sys, nil, Options{Method: Cholesky})
		assert.True(t, errors.Is(err, types.ErrSingularSystem))
	}
	prescribed, err := new(assembly.ConstraintHandler).
		Add(assembly.Dirichlet{FaceSet: "bottom", Components: []int{0, 1}}).
		Prescribed(dh)
	require.NoError(t, err)
	{
		_, err := Solve(sys, prescribed, Options{Method: CG, Tolerance: 1.e-14, MaxIterations: 2})
		assert.True(t, errors.Is(err, types.ErrSolverDiverged))
	}
	{
		_, err := Solve(sys, map[int]float64{dh.NDofs(): 0}, DefaultOptions())
		assert.True(t, errors.Is(err, types.ErrInvalidParameter))
		_, err = Solve(sys, prescribed, Options{})
		assert.True(t, errors.Is(err, types.ErrInvalidParameter))
		_, err = Solve(nil, prescribed, DefaultOptions())
		assert.True(t, errors.Is(err, types.ErrInvalidParameter))
	}
	{ // Everything prescribed
		all := make(map[int]float64, dh.NDofs())
		for i := 0; i < dh.NDofs(); i++ {
			all[i] = 0.5
		}
		for _, opts := range methods() {
			u, err := Solve(sys, all, opts)
			require.NoError(t, err)
			for _, v := range u {
				assert.Equal(t, 0.5, v)
			}
		}
	}
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("CG")
	require.NoError(t, err)
	assert.Equal(t, CG, m)
	m, err = ParseMethod("cholesky")
	require.NoError(t, err)
	assert.Equal(t, Cholesky, m)
	assert.Equal(t, "cholesky", m.String())
	_, err = ParseMethod("gmres")
	assert.True(t, errors.Is(err, types.ErrInvalidParameter))
}
