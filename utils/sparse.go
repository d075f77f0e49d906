package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// DOK is a sparse matrix under construction. It is not safe for concurrent writes.
type DOK struct {
	M    *sparse.DOK
	name string
}

func NewDOK(nr, nc int, name string) (R DOK) {
	R = DOK{
		M:    sparse.NewDOK(nr, nc),
		name: name,
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }
func (m DOK) Name() string        { return m.name }

func (m DOK) AddAt(i, j int, val float64) {
	m.M.Set(i, j, m.M.At(i, j)+val)
}

// AddBlock scatters the square block A into rows and columns idx
func (m DOK) AddBlock(idx []int, A mat.Matrix) (err error) {
	if r, c := A.Dims(); r != len(idx) || c != len(idx) {
		err = fmt.Errorf("block is %dx%d, have %d indices for %s", r, c, len(idx), m.name)
		return
	}
	nr, nc := m.Dims()
	for i, I := range idx {
		if I < 0 || I >= nr {
			return fmt.Errorf("row %d outside %s with %d rows", I, m.name, nr)
		}
		for j, J := range idx {
			if J < 0 || J >= nc {
				return fmt.Errorf("column %d outside %s with %d columns", J, m.name, nc)
			}
			if val := A.At(i, j); val != 0 {
				m.AddAt(I, J, val)
			}
		}
	}
	return
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:    m.M.ToCSR(),
		name: m.name,
	}
}

// CSR is the compressed row form used by the solvers
type CSR struct {
	M    *sparse.CSR
	name string
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) Name() string                  { return m.name }
func (m CSR) NNZ() int                      { return len(m.RawMatrix().Data) }

// DoRowNonZero calls fn for each stored entry of row i
func (m CSR) DoRowNonZero(i int, fn func(j int, val float64)) {
	m.M.DoRowNonZero(i, func(_, j int, v float64) { fn(j, v) })
}

// MulVec computes y = A x
func (m CSR) MulVec(y, x []float64) {
	nr, nc := m.Dims()
	if len(y) != nr || len(x) != nc {
		panic(fmt.Errorf("dimension mismatch in %s: %dx%d times %d into %d", m.name, nr, nc, len(x), len(y)))
	}
	for i := range y {
		y[i] = 0
	}
	m.M.MulVecTo(y, false, x)
}

func (m CSR) Diagonal() (diag []float64) {
	nr, _ := m.Dims()
	diag = make([]float64, nr)
	for i := range diag {
		m.DoRowNonZero(i, func(j int, val float64) {
			if j == i {
				diag[i] += val
			}
		})
	}
	return
}
