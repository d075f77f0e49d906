package utils

import (
	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"

	"github.com/notargets/femsolids/geometry2D"
)

// PlotTriMesh opens a chart window showing the triangles tris over points
func PlotTriMesh(points []geometry2D.Point, tris [][3]int) (ch *chart2d.Chart2D) {
	var (
		box    = geometry2D.NewBoundingBox(points)
		gm     = geometry2D.ToGraphMesh(points, tris)
		margin = 0.05 * box.Diagonal()
	)
	xMin, xMax, yMin, yMax := squareWindow(box, margin)
	ch = chart2d.NewChart2D(xMin, xMax, yMin, yMax,
		1024, 1024, utils2.WHITE, utils2.BLACK)
	ch.AddTriMesh(gm)
	return
}

// squareWindow centres a square view on the box so cells keep their aspect ratio
func squareWindow(box *geometry2D.BoundingBox, margin float64) (xMin, xMax, yMin, yMax float32) {
	var (
		c    = box.Centroid()
		half = 0.5*max(box.XMax[0]-box.XMin[0], box.XMax[1]-box.XMin[1]) + margin
	)
	xMin, xMax = float32(c.X[0]-half), float32(c.X[0]+half)
	yMin, yMax = float32(c.X[1]-half), float32(c.X[1]+half)
	return
}
