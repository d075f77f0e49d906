package geometry2D

import (
	"math"
)

type BoundingBox struct {
	XMin [2]float64
	XMax [2]float64
}

func NewBoundingBox(Geometry []Point) (Box *BoundingBox) {
	if len(Geometry) == 0 {
		return nil
	}
	Box = new(BoundingBox)
	Box.XMin[0], Box.XMin[1] = Geometry[0].X[0], Geometry[0].X[1]
	Box.XMax[0], Box.XMax[1] = Geometry[0].X[0], Geometry[0].X[1]
	for _, point := range Geometry {
		for i := 0; i < 2; i++ {
			if point.X[i] < Box.XMin[i] {
				Box.XMin[i] = point.X[i]
			}
			if point.X[i] > Box.XMax[i] {
				Box.XMax[i] = point.X[i]
			}
		}
	}
	return Box
}

func (bb *BoundingBox) Centroid() (centroid Point) {
	return Point{X: [2]float64{
		0.5 * (bb.XMax[0] + bb.XMin[0]),
		0.5 * (bb.XMax[1] + bb.XMin[1]),
	}}
}

func (bb *BoundingBox) Diagonal() float64 {
	return math.Hypot(bb.XMax[0]-bb.XMin[0], bb.XMax[1]-bb.XMin[1])
}

func (bb *BoundingBox) Contains(p Point, tol float64) bool {
	for i := 0; i < 2; i++ {
		if p.X[i] < bb.XMin[i]-tol || p.X[i] > bb.XMax[i]+tol {
			return false
		}
	}
	return true
}

func (bb *BoundingBox) Grow(newBB *BoundingBox) {
	for i := 0; i < 2; i++ {
		bb.XMin[i] = math.Min(bb.XMin[i], newBB.XMin[i])
		bb.XMax[i] = math.Max(bb.XMax[i], newBB.XMax[i])
	}
}
