// Package solver solves the constrained global stiffness system.
package solver

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/femsolids/assembly"
	"github.com/notargets/femsolids/types"
	"github.com/notargets/femsolids/utils"
)

type Method uint8

const (
	CG       Method = iota + 1 // Jacobi preconditioned conjugate gradient on the sparse matrix
	Cholesky                   // dense factorization of the condensed matrix
)

func (m Method) String() string {
	switch m {
	case CG:
		return "cg"
	case Cholesky:
		return "cholesky"
	}
	return fmt.Sprintf("Method(%d)", uint8(m))
}

func ParseMethod(s string) (m Method, err error) {
	switch strings.ToLower(s) {
	case "cg":
		m = CG
	case "cholesky":
		m = Cholesky
	default:
		err = fmt.Errorf("unknown solver %q, have cg or cholesky: %w", s, types.ErrInvalidParameter)
	}
	return
}

type Options struct {
	Method        Method
	Tolerance     float64 // relative residual for CG
	MaxIterations int     // 0 means 10 times the number of free dofs
}

func DefaultOptions() Options {
	return Options{Method: CG, Tolerance: 1.e-10}
}

// MAXCOND is the largest condition estimate Cholesky accepts before it calls the system singular
const MAXCOND = 1.e12

// condensed is K u = F restricted to the free dofs, with the prescribed
// values moved to the right hand side
type condensed struct {
	sys      *assembly.System
	free     []int
	freeOf   []int // global dof to free index, -1 when prescribed
	b        []float64
	full, Kx []float64
}

/*
Solve returns the displacement with prescribed holding the Dirichlet values
by global dof. Prescribed dofs are eliminated and the remaining system is
solved with the method in opts.
*/
func Solve(sys *assembly.System, prescribed map[int]float64, opts Options) (u []float64, err error) {
	var (
		cs *condensed
		x  []float64
	)
	if sys == nil {
		return nil, fmt.Errorf("nil system: %w", types.ErrInvalidParameter)
	}
	if cs, err = condense(sys, prescribed); err != nil {
		return
	}
	switch opts.Method {
	case CG:
		x, err = cs.conjugateGradient(opts)
	case Cholesky:
		x, err = cs.cholesky()
	default:
		err = fmt.Errorf("solver method %v: %w", opts.Method, types.ErrInvalidParameter)
	}
	if err != nil {
		return nil, err
	}
	if utils.IsNan(x) {
		return nil, fmt.Errorf("non finite solution: %w", types.ErrSolverDiverged)
	}
	u = make([]float64, len(sys.F))
	for dof, val := range prescribed {
		u[dof] = val
	}
	for i, dof := range cs.free {
		u[dof] = x[i]
	}
	return
}

func condense(sys *assembly.System, prescribed map[int]float64) (cs *condensed, err error) {
	n := len(sys.F)
	if r, c := sys.K.Dims(); r != n || c != n {
		return nil, fmt.Errorf("stiffness is %dx%d, load has %d entries: %w", r, c, n, types.ErrInvalidParameter)
	}
	cs = &condensed{
		sys:    sys,
		freeOf: make([]int, n),
		full:   make([]float64, n),
		Kx:     make([]float64, n),
	}
	fixed := make([]bool, n)
	for dof, val := range prescribed {
		if dof < 0 || dof >= n {
			return nil, fmt.Errorf("prescribed dof %d outside [0,%d): %w", dof, n, types.ErrInvalidParameter)
		}
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("prescribed value %v on dof %d: %w", val, dof, types.ErrInvalidParameter)
		}
		fixed[dof] = true
		cs.full[dof] = val
	}
	for dof := range cs.freeOf {
		if fixed[dof] {
			cs.freeOf[dof] = -1
			continue
		}
		cs.freeOf[dof] = len(cs.free)
		cs.free = append(cs.free, dof)
	}
	// b = F - K up over the free rows
	sys.K.MulVec(cs.Kx, cs.full)
	cs.b = make([]float64, len(cs.free))
	for i, dof := range cs.free {
		cs.b[i] = sys.F[dof] - cs.Kx[dof]
	}
	return
}

// mul computes y = K_ff x
func (cs *condensed) mul(y, x []float64) {
	for i := range cs.full {
		cs.full[i] = 0
	}
	for i, dof := range cs.free {
		cs.full[dof] = x[i]
	}
	cs.sys.K.MulVec(cs.Kx, cs.full)
	for i, dof := range cs.free {
		y[i] = cs.Kx[dof]
	}
}

func (cs *condensed) conjugateGradient(opts Options) (x []float64, err error) {
	var (
		nf      = len(cs.free)
		diag    = cs.sys.K.Diagonal()
		invDiag = make([]float64, nf)
		r       = make([]float64, nf)
		z       = make([]float64, nf)
		p       = make([]float64, nf)
		Ap      = make([]float64, nf)
		maxIter = opts.MaxIterations
		tol     = opts.Tolerance
	)
	x = make([]float64, nf)
	if tol <= 0 {
		tol = DefaultOptions().Tolerance
	}
	if maxIter <= 0 {
		maxIter = 10*nf + 10
	}
	for i, dof := range cs.free {
		if !(diag[dof] > 0) {
			return nil, fmt.Errorf("non positive diagonal %v on free dof %d: %w", diag[dof], dof, types.ErrSingularSystem)
		}
		invDiag[i] = 1 / diag[dof]
	}
	bNorm := floats.Norm(cs.b, 2)
	if nf == 0 || bNorm == 0 {
		return
	}
	copy(r, cs.b)
	floats.MulTo(z, invDiag, r)
	copy(p, z)
	rz := floats.Dot(r, z)
	for iter := 1; iter <= maxIter; iter++ {
		cs.mul(Ap, p)
		pAp := floats.Dot(p, Ap)
		if !(pAp > 0) {
			return nil, fmt.Errorf("search direction with curvature %v at iteration %d: %w", pAp, iter, types.ErrSingularSystem)
		}
		alpha := rz / pAp
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, Ap)
		res := floats.Norm(r, 2) / bNorm
		if res <= tol {
			slog.Debug("cg converged", "iterations", iter, "residual", res, "dofs", nf)
			return
		}
		floats.MulTo(z, invDiag, r)
		rzNew := floats.Dot(r, z)
		floats.AddScaledTo(p, z, rzNew/rz, p)
		rz = rzNew
	}
	return nil, fmt.Errorf("no convergence to %g in %d iterations: %w", tol, maxIter, types.ErrSolverDiverged)
}

func (cs *condensed) cholesky() (x []float64, err error) {
	nf := len(cs.free)
	if nf == 0 {
		return
	}
	var (
		A    = mat.NewSymDense(nf, nil)
		chol mat.Cholesky
	)
	for i, dof := range cs.free {
		cs.sys.K.DoRowNonZero(dof, func(j int, val float64) {
			if fj := cs.freeOf[j]; fj >= i {
				A.SetSym(i, fj, A.At(i, fj)+val)
			}
		})
	}
	if ok := chol.Factorize(A); !ok {
		return nil, fmt.Errorf("condensed stiffness is not positive definite: %w", types.ErrSingularSystem)
	}
	if cond := chol.Cond(); cond > MAXCOND {
		return nil, fmt.Errorf("condensed stiffness condition estimate %g: %w", cond, types.ErrSingularSystem)
	}
	var xv mat.VecDense
	if err = chol.SolveVecTo(&xv, mat.NewVecDense(nf, cs.b)); err != nil {
		return nil, fmt.Errorf("%v: %w", err, types.ErrSingularSystem)
	}
	x = make([]float64, nf)
	copy(x, xv.RawVector().Data)
	slog.Debug("cholesky solve", "dofs", nf)
	return
}
