package geometry2D

import (
	"math"
)

/*
PointLocator finds previously inserted points that coincide with a query point
within a fixed tolerance. Points are hashed into square buckets that are wider
than the tolerance, so a match can only live in the query's bucket or one of
its eight neighbours.
*/
type PointLocator struct {
	tol     float64
	width   float64
	points  []Point
	buckets map[[2]int64][]int
}

func NewPointLocator(tol float64) (pl *PointLocator) {
	if tol <= 0 || math.IsNaN(tol) {
		panic("point locator tolerance must be positive")
	}
	pl = &PointLocator{
		tol:     tol,
		width:   4 * tol,
		buckets: make(map[[2]int64][]int),
	}
	return
}

func (pl *PointLocator) bucket(p Point) [2]int64 {
	return [2]int64{
		int64(math.Floor(p.X[0] / pl.width)),
		int64(math.Floor(p.X[1] / pl.width)),
	}
}

// Insert stores p under the caller's identifier id
func (pl *PointLocator) Insert(p Point, id int) {
	b := pl.bucket(p)
	pl.points = append(pl.points, p)
	pl.buckets[b] = append(pl.buckets[b], id, len(pl.points)-1)
}

// Find returns the id of the closest stored point within tolerance
func (pl *PointLocator) Find(p Point) (id int, found bool) {
	var (
		b    = pl.bucket(p)
		best = pl.tol * pl.tol
	)
	for i := int64(-1); i <= 1; i++ {
		for j := int64(-1); j <= 1; j++ {
			entries := pl.buckets[[2]int64{b[0] + i, b[1] + j}]
			for n := 0; n < len(entries); n += 2 {
				d2 := pl.points[entries[n+1]].Dist2(p)
				if d2 <= best {
					best = d2
					id, found = entries[n], true
				}
			}
		}
	}
	return
}

func (pl *PointLocator) Tolerance() float64 { return pl.tol }
