package geometry2D

import (
	graphics2D "github.com/notargets/avs/geometry"
)

// ToGraphMesh converts triangle corner lists into the plotting mesh used by avs
func ToGraphMesh(points []Point, tris [][3]int) (gm graphics2D.TriMesh) {
	gm = graphics2D.TriMesh{
		XY:       make([]float32, 2*len(points)),
		TriVerts: make([][3]int64, len(tris)),
	}
	for i, pt := range points {
		gm.XY[2*i] = float32(pt.X[0])
		gm.XY[2*i+1] = float32(pt.X[1])
	}
	for k, tri := range tris {
		for n := 0; n < 3; n++ {
			gm.TriVerts[k][n] = int64(tri[n])
		}
	}
	return
}
