package geom

// PointInPolygon tests if a point is inside a polygon using ray casting.
// Polygons with fewer than three vertices contain nothing. The result for a
// point lying exactly on an edge or vertex is not defined and may go either
// way depending on floating-point rounding; callers must not rely on it.
func PointInPolygon(p Point, polygon []Point) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := polygon[i], polygon[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}

// PolygonArea returns the unsigned shoelace area. Vertex order does not
// matter; fewer than three vertices yields 0.
func PolygonArea(pts []Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	var sum float64
	n := len(pts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}

// PolygonCenter returns the arithmetic mean of the vertices, or the origin
// for an empty polygon.
func PolygonCenter(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(pts))
	return Point{X: sx / n, Y: sy / n}
}

// IsClockwise reports whether the edge sum Σ(x2−x1)(y2+y1), taken around the
// closed ring, is positive. Fewer than three vertices is never clockwise.
func IsClockwise(pts []Point) bool {
	if len(pts) < 3 {
		return false
	}
	var sum float64
	n := len(pts)
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		sum += (b.X - a.X) * (b.Y + a.Y)
	}
	return sum > 0
}

// EdgeHit identifies a point on a polygon edge. Index is the position of the
// edge's start vertex, so inserting the point after Index splits that edge.
type EdgeHit struct {
	Index int
	Point Point
}

// PointOnEdge scans the edges of a closed ring (the last vertex connects back
// to the first) and returns the first one within threshold of p, together with
// the projection of p onto it rounded to two decimals.
func PointOnEdge(p Point, pts []Point, threshold float64) (EdgeHit, bool) {
	return scanEdges(p, pts, threshold, true)
}

// PointOnPath is PointOnEdge for an open path: the closing edge is skipped.
func PointOnPath(p Point, pts []Point, threshold float64) (EdgeHit, bool) {
	return scanEdges(p, pts, threshold, false)
}

func scanEdges(p Point, pts []Point, threshold float64, closed bool) (EdgeHit, bool) {
	n := len(pts)
	if n < 2 {
		return EdgeHit{}, false
	}
	edges := n
	if !closed {
		edges = n - 1
	}
	for i := 0; i < edges; i++ {
		a, b := pts[i], pts[(i+1)%n]
		if PointToSegmentDistance(p, a, b) > threshold {
			continue
		}
		c := ClosestPointOnSegment(p, a, b)
		return EdgeHit{Index: i, Point: Point{X: round2(c.X), Y: round2(c.Y)}}, true
	}
	return EdgeHit{}, false
}

// NearestVertex returns the index of the first vertex within threshold of p.
func NearestVertex(p Point, pts []Point, threshold float64) (int, bool) {
	for i, v := range pts {
		if Distance(p, v) <= threshold {
			return i, true
		}
	}
	return -1, false
}
