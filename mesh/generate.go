package mesh

import (
	"fmt"
	"math"

	"github.com/pradeep-pyro/triangle"

	"github.com/notargets/femsolids/geometry2D"
	"github.com/notargets/femsolids/types"
)

/*
GenerateGrid meshes the rectangle ll-ur with nx by ny squares, each split
along its lower-left to upper-right diagonal into two counter-clockwise
triangles. Boundary face sets "left", "right", "bottom" and "top" are added
and the topology is built.
*/
func GenerateGrid(ct CellType, nx, ny int, ll, ur geometry2D.Point) (g *Grid, err error) {
	if nx < 1 || ny < 1 {
		err = fmt.Errorf("grid needs at least one division per direction, have %dx%d: %w",
			nx, ny, types.ErrInvalidParameter)
		return
	}
	if !(ur.X[0] > ll.X[0]) || !(ur.X[1] > ll.X[1]) {
		err = fmt.Errorf("upper right corner %v must exceed lower left %v: %w", ur.X, ll.X, types.ErrInvalidParameter)
		return
	}
	if ct != Triangle && ct != QuadraticTriangle {
		err = fmt.Errorf("cell type %v: %w", ct, types.ErrUnsupportedElement)
		return
	}
	var (
		nodes = make([]geometry2D.Point, 0, (nx+1)*(ny+1))
		cells = make([]Cell, 0, 2*nx*ny)
		dx    = (ur.X[0] - ll.X[0]) / float64(nx)
		dy    = (ur.X[1] - ll.X[1]) / float64(ny)
		index = func(i, j int) int { return j*(nx+1) + i }
	)
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			x, y := ll.X[0]+float64(i)*dx, ll.X[1]+float64(j)*dy
			// Pin the far edges exactly
			if i == nx {
				x = ur.X[0]
			}
			if j == ny {
				y = ur.X[1]
			}
			nodes = append(nodes, geometry2D.NewPoint(x, y))
		}
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			n00, n10, n11, n01 := index(i, j), index(i+1, j), index(i+1, j+1), index(i, j+1)
			cells = append(cells,
				Cell{Nodes: []int{n00, n10, n11}},
				Cell{Nodes: []int{n00, n11, n01}})
		}
	}
	if g, err = NewGrid(Triangle, nodes, cells); err != nil {
		return
	}
	if ct == QuadraticTriangle {
		if g, err = g.ToQuadratic(); err != nil {
			return
		}
	}
	if err = g.BuildTopology(); err != nil {
		return
	}
	tol := 1.e-10 * math.Max(ur.X[0]-ll.X[0], ur.X[1]-ll.X[1])
	for _, side := range []struct {
		name string
		pred Predicate
	}{
		{"left", OnLine(0, ll.X[0], tol)},
		{"right", OnLine(0, ur.X[0], tol)},
		{"bottom", OnLine(1, ll.X[1], tol)},
		{"top", OnLine(1, ur.X[1], tol)},
	} {
		if err = g.AddFaceSet(side.name, side.pred); err != nil {
			return
		}
	}
	return
}

// GenerateDelaunay triangulates a scattered point set. Cells are reoriented
// counter-clockwise and zero-area slivers are dropped.
func GenerateDelaunay(points []geometry2D.Point) (g *Grid, err error) {
	if len(points) < 3 {
		err = fmt.Errorf("need at least 3 points, have %d: %w", len(points), types.ErrInvalidParameter)
		return
	}
	var (
		pts   = make([][2]float64, len(points))
		cells []Cell
	)
	for i, p := range points {
		pts[i] = p.X
	}
	box := geometry2D.NewBoundingBox(points)
	minArea := 1.e-14 * box.Diagonal() * box.Diagonal()
	for _, tri := range triangle.Delaunay(pts) {
		a, b, c := int(tri[0]), int(tri[1]), int(tri[2])
		area := geometry2D.SignedArea(points[a], points[b], points[c])
		switch {
		case math.Abs(area) <= minArea:
			continue
		case area < 0:
			b, c = c, b
		}
		cells = append(cells, Cell{Nodes: []int{a, b, c}})
	}
	if g, err = NewGrid(Triangle, points, cells); err != nil {
		return
	}
	err = g.BuildTopology()
	return
}
