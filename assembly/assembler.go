// Package assembly builds the global stiffness system from element contributions.
package assembly

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/femsolids/dofs"
	"github.com/notargets/femsolids/element"
	"github.com/notargets/femsolids/material"
	"github.com/notargets/femsolids/mesh"
	"github.com/notargets/femsolids/shape"
	"github.com/notargets/femsolids/types"
	"github.com/notargets/femsolids/utils"
)

// Traction is a constant surface load applied on every face of a face set
type Traction struct {
	FaceSet string
	Value   [2]float64
}

type Assembler struct {
	Material        material.Material
	Thickness       float64
	QuadratureOrder int // 0 selects the interpolation's default
	Formulation     element.Formulation
	Loads           []Traction
	Workers         int // 0 uses one worker per CPU
}

// System is the unconstrained global problem K u = F
type System struct {
	K    utils.CSR
	F    []float64
	Dofs *dofs.DofHandler
}

// Interpolation returns the shape functions matching the cells of g
func Interpolation(g *mesh.Grid) (ip shape.Interpolation, err error) {
	switch g.CellType {
	case mesh.Triangle:
		ip = shape.Lagrange1
	case mesh.QuadraticTriangle:
		ip = shape.Lagrange2
	default:
		err = fmt.Errorf("no interpolation for %v: %w", g.CellType, types.ErrUnsupportedElement)
	}
	return
}

func (a *Assembler) quadratureOrder(ip shape.Interpolation) int {
	if a.QuadratureOrder > 0 {
		return a.QuadratureOrder
	}
	return ip.DefaultQuadratureOrder()
}

// worker owns the scratch space of one goroutine
type worker struct {
	cv     *shape.CellValues
	fv     *shape.FaceValues
	ke, kt *mat.Dense
	fe, ft *mat.VecDense
	dofs   []int
}

func (a *Assembler) newWorker(ip shape.Interpolation, nd int) (w *worker, err error) {
	w = &worker{
		ke:   mat.NewDense(nd, nd, nil),
		kt:   mat.NewDense(nd, nd, nil),
		fe:   mat.NewVecDense(nd, nil),
		ft:   mat.NewVecDense(nd, nil),
		dofs: make([]int, 0, nd),
	}
	if w.cv, err = shape.NewCellValues(ip, a.quadratureOrder(ip)); err != nil {
		return nil, err
	}
	if w.fv, err = shape.NewFaceValues(ip, a.quadratureOrder(ip)); err != nil {
		return nil, err
	}
	return
}

// loadsByCell lists, for every cell touching a loaded face set, the indices of those loads
func (a *Assembler) loadsByCell(g *mesh.Grid) (byCell map[int][]int, err error) {
	byCell = make(map[int][]int)
	for l, load := range a.Loads {
		var faces []mesh.FaceIndex
		if faces, err = g.FaceSet(load.FaceSet); err != nil {
			return
		}
		for _, fi := range faces {
			cl := byCell[fi.Cell]
			if len(cl) == 0 || cl[len(cl)-1] != l {
				byCell[fi.Cell] = append(cl, l)
			}
		}
	}
	return
}

// cell runs the element routine once per load acting on cell k, summing the load vectors
func (a *Assembler) cell(w *worker, g *mesh.Grid, k int, loads []int) (err error) {
	xe := g.Coordinates(k)
	if len(loads) == 0 {
		return element.Routine(a.Formulation, w.ke, w.fe, w.cv, xe, a.Material, a.Thickness, nil)
	}
	for i, l := range loads {
		bl := &element.BoundaryLoad{
			Face:     w.fv,
			Grid:     g,
			CellID:   k,
			Traction: a.Loads[l].Value,
			FaceSet:  a.Loads[l].FaceSet,
		}
		if i == 0 {
			err = element.Routine(a.Formulation, w.ke, w.fe, w.cv, xe, a.Material, a.Thickness, bl)
		} else if err = element.Routine(a.Formulation, w.kt, w.ft, w.cv, xe, a.Material, a.Thickness, bl); err == nil {
			w.fe.AddVec(w.fe, w.ft)
		}
		if err != nil {
			return
		}
	}
	return
}

/*
Assemble evaluates the element routine on every cell and sums the results
into a sparse stiffness matrix and a load vector. Cells are split into
contiguous ranges, one per worker; each worker owns its element storage and
the scatter into the global arrays is serialized. The first failing cell
aborts the assembly.
*/
func (a *Assembler) Assemble(dh *dofs.DofHandler) (sys *System, err error) {
	if dh == nil || dh.Dim() != 2 {
		return nil, fmt.Errorf("assembly needs a 2 component dof handler: %w", types.ErrInvalidParameter)
	}
	var (
		g      = dh.Grid()
		ip     shape.Interpolation
		byCell map[int][]int
	)
	if ip, err = Interpolation(g); err != nil {
		return
	}
	if byCell, err = a.loadsByCell(g); err != nil {
		return
	}
	var (
		n     = dh.NDofs()
		K     = utils.NewDOK(n, n, "K")
		F     = make([]float64, n)
		nd    = dh.NDofsPerCell()
		pm    = utils.NewPartitionMap(utils.DefaultWorkers(a.Workers), g.NumCells())
		mu    sync.Mutex
		abort atomic.Bool
	)
	err = pm.Run(func(bn, kMin, kMax int) (err error) {
		var w *worker
		if w, err = a.newWorker(ip, nd); err != nil {
			return
		}
		for k := kMin; k < kMax && !abort.Load(); k++ {
			if err = a.cell(w, g, k, byCell[k]); err != nil {
				abort.Store(true)
				return fmt.Errorf("cell %d: %w", k, err)
			}
			w.dofs = dh.CellDofs(w.dofs, k)
			mu.Lock()
			err = K.AddBlock(w.dofs, w.ke)
			for i, I := range w.dofs {
				F[I] += w.fe.AtVec(i)
			}
			mu.Unlock()
			if err != nil {
				abort.Store(true)
				return
			}
		}
		return
	})
	if err != nil {
		return nil, err
	}
	sys = &System{K: K.ToCSR(), F: F, Dofs: dh}
	slog.Debug("assembled system", "cells", g.NumCells(), "dofs", n, "nnz", sys.K.NNZ(),
		"workers", pm.ParallelDegree)
	return
}
