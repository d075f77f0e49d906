// Package readfiles reads meshes written by external generators.
package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/femsolids/geometry2D"
	"github.com/notargets/femsolids/mesh"
	"github.com/notargets/femsolids/types"
)

// From here: https://su2code.github.io/docs_v7/Mesh-File/
type SU2ElementType uint8

const (
	ELType_LINE          SU2ElementType = 3
	ELType_Triangle      SU2ElementType = 5
	ELType_Quadrilateral SU2ElementType = 9
)

type su2Reader struct {
	reader *bufio.Reader
	lineNo int
}

// getLine returns the next line without its terminator, io.EOF at the end of input
func (sr *su2Reader) getLine() (line string, err error) {
	line, err = sr.reader.ReadString('\n')
	if err == io.EOF && len(line) > 0 {
		err = nil
	}
	if err != nil {
		return
	}
	sr.lineNo++
	line = strings.TrimRight(line, "\r\n")
	return
}

// getLineNoComments skips blank lines and lines starting with %
func (sr *su2Reader) getLineNoComments() (line string, err error) {
	for {
		if line, err = sr.getLine(); err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if len(line) != 0 && !strings.HasPrefix(line, "%") {
			return
		}
	}
}

// getFields is like getLineNoComments, reporting an early end of file as an error
func (sr *su2Reader) getFields() (fields []string, err error) {
	var line string
	if line, err = sr.getLineNoComments(); err != nil {
		if err == io.EOF {
			err = sr.errorf("early end of file")
		}
		return
	}
	fields = strings.Fields(line)
	return
}

func (sr *su2Reader) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("su2 line %d: %s: %w", sr.lineNo, fmt.Sprintf(format, args...), types.ErrInvalidParameter)
}

func (sr *su2Reader) getToken() (key, value string, err error) {
	var line string
	if line, err = sr.getLineNoComments(); err != nil {
		return
	}
	ind := strings.Index(line, "=")
	if ind < 0 {
		err = sr.errorf("badly formed input line [%s], should have an =", line)
		return
	}
	key, value = strings.TrimSpace(line[:ind]), strings.TrimSpace(line[ind+1:])
	return
}

func (sr *su2Reader) readLabel(want string) (value string, err error) {
	var key string
	if key, value, err = sr.getToken(); err == io.EOF {
		err = sr.errorf("early end of file, expected %s", want)
	}
	if err == nil && key != want {
		err = sr.errorf("expected %s, found %s", want, key)
	}
	return
}

func (sr *su2Reader) readNumber(want string) (num int, err error) {
	var value string
	if value, err = sr.readLabel(want); err != nil {
		return
	}
	return sr.count(value)
}

func (sr *su2Reader) count(s string) (num int, err error) {
	if num, err = strconv.Atoi(s); err != nil || num < 0 {
		err = sr.errorf("unable to read a count from [%s]", s)
	}
	return
}

func (sr *su2Reader) ints(fields []string, n int) (vals []int, err error) {
	if len(fields) < n {
		return nil, sr.errorf("need %d integers, have %v", n, fields)
	}
	vals = make([]int, n)
	for i := range vals {
		if vals[i], err = strconv.Atoi(fields[i]); err != nil {
			return nil, sr.errorf("unable to read integer from [%s]", fields[i])
		}
	}
	return
}

func (sr *su2Reader) readElements(nElem int) (cells []mesh.Cell, err error) {
	cells = make([]mesh.Cell, nElem)
	for k := range cells {
		var (
			fields []string
			vals   []int
		)
		if fields, err = sr.getFields(); err != nil {
			return
		}
		if vals, err = sr.ints(fields, 1); err != nil {
			return
		}
		if SU2ElementType(vals[0]) != ELType_Triangle {
			return nil, fmt.Errorf("su2 line %d: element type %d, only triangles (%d) are read: %w",
				sr.lineNo, vals[0], ELType_Triangle, types.ErrUnsupportedElement)
		}
		if vals, err = sr.ints(fields, 4); err != nil {
			return
		}
		cells[k] = mesh.Cell{Nodes: vals[1:4]}
	}
	return
}

func (sr *su2Reader) readVertices(nPts int) (nodes []geometry2D.Point, err error) {
	nodes = make([]geometry2D.Point, nPts)
	for i := range nodes {
		var fields []string
		if fields, err = sr.getFields(); err != nil {
			return
		}
		if len(fields) < 2 {
			return nil, sr.errorf("unable to read coordinates from %v", fields)
		}
		for d := 0; d < 2; d++ {
			if nodes[i].X[d], err = strconv.ParseFloat(fields[d], 64); err != nil {
				return nil, sr.errorf("unable to read coordinate [%s]", fields[d])
			}
		}
	}
	return
}

// readMarkers returns the boundary edges of each marker; repeated tags accumulate
func (sr *su2Reader) readMarkers(nMark int) (markers map[string][][2]int, order []string, err error) {
	markers = make(map[string][][2]int, nMark)
	for n := 0; n < nMark; n++ {
		var (
			label  string
			nEdges int
		)
		if label, err = sr.readLabel("MARKER_TAG"); err != nil {
			return
		}
		if nEdges, err = sr.readNumber("MARKER_ELEMS"); err != nil {
			return
		}
		if _, ok := markers[label]; !ok {
			order = append(order, label)
		}
		for i := 0; i < nEdges; i++ {
			var (
				fields []string
				vals   []int
			)
			if fields, err = sr.getFields(); err != nil {
				return
			}
			if vals, err = sr.ints(fields, 3); err != nil {
				return
			}
			if SU2ElementType(vals[0]) != ELType_LINE {
				err = fmt.Errorf("su2 line %d: marker %s holds element type %d, need lines in 2D: %w",
					sr.lineNo, label, vals[0], types.ErrUnsupportedElement)
				return
			}
			markers[label] = append(markers[label], [2]int{vals[1], vals[2]})
		}
	}
	return
}

/*
ReadSU2 reads a 2D triangle mesh in SU2 format. Clockwise triangles are
reoriented, the topology is built and every marker becomes a face set of the
same name. Keywords other than NDIME, NELEM, NPOIN and NMARK are skipped.
*/
func ReadSU2(r io.Reader, verbose bool) (g *mesh.Grid, err error) {
	var (
		sr      = &su2Reader{reader: bufio.NewReader(r)}
		cells   []mesh.Cell
		nodes   []geometry2D.Point
		markers map[string][][2]int
		order   []string
		key     string
		value   string
		num     int
	)
	for {
		if key, value, err = sr.getToken(); err == io.EOF {
			err = nil
			break
		} else if err != nil {
			return
		}
		switch key {
		case "NDIME", "NELEM", "NPOIN", "NMARK":
			if num, err = sr.count(value); err != nil {
				return
			}
		}
		switch key {
		case "NDIME":
			if num != 2 {
				return nil, sr.errorf("%d dimensional mesh, only 2D is read", num)
			}
			if verbose {
				fmt.Printf("Read file with %d dimensional data...\n", num)
			}
		case "NELEM":
			if cells, err = sr.readElements(num); err != nil {
				return
			}
		case "NPOIN":
			if nodes, err = sr.readVertices(num); err != nil {
				return
			}
		case "NMARK":
			if markers, order, err = sr.readMarkers(num); err != nil {
				return
			}
		}
	}
	if len(cells) == 0 || len(nodes) == 0 {
		return nil, sr.errorf("mesh has %d elements and %d points", len(cells), len(nodes))
	}
	if g, err = mesh.NewGrid(mesh.Triangle, nodes, cells); err != nil {
		return nil, err
	}
	var flipped int
	for k, cell := range g.Cells {
		if g.Area(k) < 0 {
			cell.Nodes[1], cell.Nodes[2] = cell.Nodes[2], cell.Nodes[1]
			flipped++
		}
	}
	if err = g.BuildTopology(); err != nil {
		return nil, err
	}
	for _, label := range order {
		if g.FaceSets[label], err = boundaryFaces(g, label, markers[label]); err != nil {
			return nil, err
		}
	}
	if verbose {
		fmt.Printf("Read %d triangles and %d points, reoriented %d triangles\n", len(cells), len(nodes), flipped)
		for _, label := range order {
			fmt.Printf("Marker %s: %d faces\n", label, len(g.FaceSets[label]))
		}
	}
	return
}

func boundaryFaces(g *mesh.Grid, label string, edges [][2]int) (faces []mesh.FaceIndex, err error) {
	faces = make([]mesh.FaceIndex, 0, len(edges))
	for _, edge := range edges {
		for _, v := range edge {
			if v < 0 || v >= g.NumNodes() {
				return nil, fmt.Errorf("marker %s references node %d, mesh has %d: %w",
					label, v, g.NumNodes(), types.ErrInvalidParameter)
			}
		}
		key := types.NewEdgeKey(edge)
		cells := g.Topology.Cells(key)
		if len(cells) != 1 {
			return nil, fmt.Errorf("marker %s edge %v is shared by %d cells, need a boundary edge: %w",
				label, edge, len(cells), types.ErrInvalidParameter)
		}
		k := cells[0]
		for f := 0; f < 3; f++ {
			if types.NewEdgeKey(g.Cells[k].FaceCorners(f)) == key {
				faces = append(faces, mesh.FaceIndex{Cell: k, Face: f})
			}
		}
	}
	return
}

func ReadSU2File(filename string, verbose bool) (g *mesh.Grid, err error) {
	var file *os.File
	if verbose {
		fmt.Printf("Reading SU2 file named: %s\n", filename)
	}
	if file, err = os.Open(filename); err != nil {
		return nil, fmt.Errorf("unable to open file %s: %w", filename, err)
	}
	defer file.Close()
	return ReadSU2(file, verbose)
}
