package geometry2D

import (
	"math"
)

type Point struct {
	X [2]float64
}

func NewPoint(x, y float64) Point {
	return Point{X: [2]float64{x, y}}
}

func (p Point) Minus(q Point) Point {
	return Point{X: [2]float64{p.X[0] - q.X[0], p.X[1] - q.X[1]}}
}

func (p Point) Plus(q Point) Point {
	return Point{X: [2]float64{p.X[0] + q.X[0], p.X[1] + q.X[1]}}
}

func (p Point) Scale(s float64) Point {
	return Point{X: [2]float64{s * p.X[0], s * p.X[1]}}
}

func (p Point) Norm() float64 {
	return math.Hypot(p.X[0], p.X[1])
}

func (p Point) Dist(q Point) float64 {
	return p.Minus(q).Norm()
}

// Dist2 is the squared distance, used where only comparisons are needed
func (p Point) Dist2(q Point) float64 {
	d := p.Minus(q)
	return d.X[0]*d.X[0] + d.X[1]*d.X[1]
}

func Midpoint(a, b Point) Point {
	return Point{X: [2]float64{
		0.5 * (a.X[0] + b.X[0]),
		0.5 * (a.X[1] + b.X[1]),
	}}
}

// SignedArea is positive when a-b-c is counter-clockwise
func SignedArea(a, b, c Point) float64 {
	return 0.5 * ((b.X[0]-a.X[0])*(c.X[1]-a.X[1]) - (c.X[0]-a.X[0])*(b.X[1]-a.X[1]))
}

func EdgeLength(a, b Point) float64 {
	return a.Dist(b)
}

// SegmentDistance is the distance from p to the closed segment a-b
func SegmentDistance(p, a, b Point) float64 {
	var (
		ab = b.Minus(a)
		l2 = ab.X[0]*ab.X[0] + ab.X[1]*ab.X[1]
	)
	if l2 == 0 {
		return p.Dist(a)
	}
	ap := p.Minus(a)
	s := math.Max(0, math.Min(1, (ap.X[0]*ab.X[0]+ap.X[1]*ab.X[1])/l2))
	return p.Dist(a.Plus(ab.Scale(s)))
}
