package mesh

import (
	"fmt"
	"sort"

	"github.com/notargets/femsolids/geometry2D"
	"github.com/notargets/femsolids/types"
)

type Predicate func(x geometry2D.Point) bool

// AddFaceSet collects the boundary faces whose nodes all satisfy pred
func (g *Grid) AddFaceSet(name string, pred Predicate) (err error) {
	if g.Topology == nil {
		if err = g.BuildTopology(); err != nil {
			return
		}
	}
	var (
		faces []FaceIndex
	)
	for _, fi := range g.Topology.BoundaryFaces() {
		if g.faceSatisfies(fi, pred) {
			faces = append(faces, fi)
		}
	}
	g.FaceSets[name] = faces
	return
}

func (g *Grid) faceSatisfies(fi FaceIndex, pred Predicate) bool {
	cell := g.Cells[fi.Cell]
	for _, n := range cell.FaceCorners(fi.Face) {
		if !pred(g.Nodes[n]) {
			return false
		}
	}
	if g.CellType == QuadraticTriangle && !pred(g.Nodes[cell.Nodes[3+fi.Face]]) {
		return false
	}
	return true
}

func (g *Grid) AddNodeSet(name string, pred Predicate) {
	var (
		nodes []int
	)
	for n, pt := range g.Nodes {
		if pred(pt) {
			nodes = append(nodes, n)
		}
	}
	g.NodeSets[name] = nodes
}

// AddCellSet collects the cells whose nodes all satisfy pred
func (g *Grid) AddCellSet(name string, pred Predicate) {
	var (
		cells []int
	)
	for k, cell := range g.Cells {
		all := true
		for _, n := range cell.Nodes {
			if !pred(g.Nodes[n]) {
				all = false
				break
			}
		}
		if all {
			cells = append(cells, k)
		}
	}
	g.CellSets[name] = cells
}

func (g *Grid) FaceSet(name string) (faces []FaceIndex, err error) {
	var ok bool
	if faces, ok = g.FaceSets[name]; !ok {
		err = fmt.Errorf("face set %q (have %v): %w", name, g.FaceSetNames(), types.ErrUnknownFaceset)
	}
	return
}

func (g *Grid) NodeSet(name string) (nodes []int, err error) {
	var ok bool
	if nodes, ok = g.NodeSets[name]; !ok {
		err = fmt.Errorf("node set %q: %w", name, types.ErrInvalidParameter)
	}
	return
}

// FaceNodes returns the sorted, unique nodes of a face set, midside nodes included
func (g *Grid) FaceNodes(name string) (nodes []int, err error) {
	var (
		faces []FaceIndex
		seen  = make(map[int]bool)
	)
	if faces, err = g.FaceSet(name); err != nil {
		return
	}
	for _, fi := range faces {
		cell := g.Cells[fi.Cell]
		fn := cell.FaceCorners(fi.Face)
		local := []int{fn[0], fn[1]}
		if g.CellType == QuadraticTriangle {
			local = append(local, cell.Nodes[3+fi.Face])
		}
		for _, n := range local {
			if !seen[n] {
				seen[n] = true
				nodes = append(nodes, n)
			}
		}
	}
	sort.Ints(nodes)
	return
}

func (g *Grid) FaceSetNames() (names []string) {
	for name := range g.FaceSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// OnLine builds a predicate selecting points with coordinate dim equal to val
func OnLine(dim int, val, tol float64) Predicate {
	return func(x geometry2D.Point) bool {
		d := x.X[dim] - val
		return d <= tol && d >= -tol
	}
}

// OnFaceSet returns a predicate holding on the boundary segments of a face
// set. It carries a set over to another grid of the same boundary, such as a
// refined one.
func (g *Grid) OnFaceSet(name string, tol float64) (pred Predicate, err error) {
	var (
		faces []FaceIndex
	)
	if faces, err = g.FaceSet(name); err != nil {
		return
	}
	segs := make([][2]geometry2D.Point, len(faces))
	for i, fi := range faces {
		fn := g.Cells[fi.Cell].FaceCorners(fi.Face)
		segs[i] = [2]geometry2D.Point{g.Nodes[fn[0]], g.Nodes[fn[1]]}
	}
	pred = func(x geometry2D.Point) bool {
		for _, s := range segs {
			if geometry2D.SegmentDistance(x, s[0], s[1]) <= tol {
				return true
			}
		}
		return false
	}
	return
}
