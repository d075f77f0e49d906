package readfiles

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/femsolids/mesh"
	"github.com/notargets/femsolids/types"
)

func TestReadSU2(t *testing.T) {
	g, err := ReadSU2(bytes.NewReader(inputFile), false)
	require.NoError(t, err)
	assert.Equal(t, mesh.Triangle, g.CellType)
	assert.Equal(t, 5, g.NumNodes())
	assert.Equal(t, 4, g.NumCells())
	assert.Equal(t, [2]float64{0.5, 0.5}, g.Nodes[4].X)
	// The last element is listed clockwise
	assert.Equal(t, []int{3, 0, 4}, g.Cells[3].Nodes)
	for k := range g.Cells {
		assert.InDelta(t, 0.25, g.Area(k), 1.e-15)
	}
	require.NotNil(t, g.Topology)

	for name, want := range map[string][]mesh.FaceIndex{
		"bottom": {{Cell: 0, Face: 0}},
		"right":  {{Cell: 1, Face: 0}},
		"top":    {{Cell: 2, Face: 0}},
		"left":   {{Cell: 3, Face: 0}},
		"wall":   {{Cell: 0, Face: 0}, {Cell: 3, Face: 0}, {Cell: 1, Face: 0}},
	} {
		faces, err := g.FaceSet(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, faces, name)
	}
	assert.Len(t, g.FaceSets, 5)
}

func TestReadSU2File(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "square.su2")
	require.NoError(t, os.WriteFile(fileName, inputFile, 0o644))
	g, err := ReadSU2File(fileName, true)
	require.NoError(t, err)
	assert.Equal(t, 4, g.NumCells())

	_, err = ReadSU2File(filepath.Join(t.TempDir(), "missing.su2"), false)
	assert.Error(t, err)
}

func TestReadSU2Errors(t *testing.T) {
	replace := func(old, new string) []byte {
		require.Contains(t, string(inputFile), old)
		return []byte(strings.Replace(string(inputFile), old, new, 1))
	}
	tests := []struct {
		name  string
		input []byte
		want  error
	}{
		{"three dimensions", replace("NDIME= 2", "NDIME= 3"), types.ErrInvalidParameter},
		{"quadrilateral", replace("5 0 1 4 0", "9 0 1 4 2 0"), types.ErrUnsupportedElement},
		{"interior marker edge", replace("3 3 0", "3 0 4"), types.ErrInvalidParameter},
		{"node out of range", replace("5 1 2 4 1", "5 1 2 7 1"), types.ErrInvalidParameter},
		{"marker node out of range", replace("3 2 3", "3 2 9"), types.ErrInvalidParameter},
		{"marker with triangles", replace("3 2 3", "5 2 3 4"), types.ErrUnsupportedElement},
		{"missing equals", replace("NPOIN= 5", "NPOIN 5"), types.ErrInvalidParameter},
		{"bad count", replace("NELEM= 4", "NELEM= four"), types.ErrInvalidParameter},
		{"truncated", inputFile[:bytes.Index(inputFile, []byte("NPOIN"))+20], types.ErrInvalidParameter},
		{"no elements", []byte("NDIME= 2\n"), types.ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSU2(bytes.NewReader(tt.input), false)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

var (
	inputFile = []byte(`% Unit square split into four triangles around its centre
NDIME= 2
% Comments can appear outside of data areas
NELEM= 4
5 0 1 4 0
5 1 2 4 1
5 2 3 4 2
5 3 4 0 3
NPOIN= 5
0 0 0
1 0 1
1 1 2
0 1 3
0.5 0.5 4
NMARK= 6
MARKER_TAG= bottom
MARKER_ELEMS= 1
3 0 1
MARKER_TAG= right
MARKER_ELEMS= 1
3 1 2
% Comments can appear outside of data areas
MARKER_TAG= top
MARKER_ELEMS= 1
3 2 3
MARKER_TAG= left
MARKER_ELEMS= 1
3 3 0
MARKER_TAG= wall
MARKER_ELEMS= 2
3 1 0
3 3 0
MARKER_TAG= wall
MARKER_ELEMS= 1
3 2 1
`)
)
