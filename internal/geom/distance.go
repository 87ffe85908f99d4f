package geom

import "math"

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// ClosestPointOnSegment projects p onto the segment a-b. The projection
// parameter is clamped to [0, 1], so the result always lies on the segment.
func ClosestPointOnSegment(p, a, b Point) Point {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return Point{X: a.X + t*dx, Y: a.Y + t*dy}
}

// PointToSegmentDistance returns the distance from p to the segment a-b.
// A zero-length segment degenerates to the distance from p to a.
func PointToSegmentDistance(p, a, b Point) float64 {
	return Distance(p, ClosestPointOnSegment(p, a, b))
}

// PointInCircle reports whether p lies inside or on the circle.
func PointInCircle(p, center Point, radius float64) bool {
	return Distance(p, center) <= radius
}

// PointNearCircle reports whether p is within tolerance of the circle outline.
func PointNearCircle(p, center Point, radius, tolerance float64) bool {
	return math.Abs(Distance(p, center)-radius) < tolerance
}

// NormalizeAngle reduces a to the range [0, 2π).
func NormalizeAngle(a float64) float64 {
	const twoPi = 2 * math.Pi
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	if a >= twoPi {
		// -tiny + 2π rounds up to 2π.
		a = 0
	}
	return a
}
