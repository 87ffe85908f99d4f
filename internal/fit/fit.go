// Package fit derives shapes from raw pointer input: circles through three
// clicks or many sampled points, and canonical boxes from a drag.
package fit

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/example/shineylabel/internal/geom"
)

// collinearEpsilon is the smallest determinant magnitude accepted as a real
// circumcircle.
const collinearEpsilon = 1e-10

// Circle is a fitted circle.
type Circle struct {
	Center geom.Point
	Radius float64
}

// CircleFrom3Points returns the circumcircle of three points. It reports false
// when the points are collinear or nearly so.
func CircleFrom3Points(p1, p2, p3 geom.Point) (Circle, bool) {
	ax, ay := p1.X, p1.Y
	bx, by := p2.X, p2.Y
	cx, cy := p3.X, p3.Y

	d := 2 * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
	if math.Abs(d) < collinearEpsilon {
		return Circle{}, false
	}

	a2 := ax*ax + ay*ay
	b2 := bx*bx + by*by
	c2 := cx*cx + cy*cy
	center := geom.Point{
		X: (a2*(by-cy) + b2*(cy-ay) + c2*(ay-by)) / d,
		Y: (a2*(cx-bx) + b2*(ax-cx) + c2*(bx-ax)) / d,
	}
	return Circle{Center: center, Radius: geom.Distance(center, p1)}, true
}

// BoxFromDrag turns a drag from start to end, in any direction, into a box
// with non-negative extents.
func BoxFromDrag(start, end geom.Point) geom.Bbox {
	return geom.NormalizeBbox(geom.Bbox{start.X, start.Y, end.X - start.X, end.Y - start.Y})
}

// SquareFromDrag is BoxFromDrag constrained to equal sides. The longer drag
// axis sets the side and the square grows in the direction of the drag.
func SquareFromDrag(start, end geom.Point) geom.Bbox {
	dx, dy := end.X-start.X, end.Y-start.Y
	side := math.Max(math.Abs(dx), math.Abs(dy))
	return BoxFromDrag(start, geom.Point{
		X: start.X + math.Copysign(side, dx),
		Y: start.Y + math.Copysign(side, dy),
	})
}

// FitCircle fits a circle to pts in the algebraic least-squares sense
// (x²+y²+Dx+Ey+F = 0). Three points give the exact circumcircle. It reports
// false for fewer than three points, collinear input, or a solution that is
// not a real circle.
func FitCircle(pts []geom.Point) (Circle, bool) {
	n := len(pts)
	if n < 3 {
		return Circle{}, false
	}
	if n == 3 {
		return CircleFrom3Points(pts[0], pts[1], pts[2])
	}
	if collinear(pts) {
		return Circle{}, false
	}

	A := mat.NewDense(n, 3, nil)
	b := mat.NewVecDense(n, nil)
	for i, p := range pts {
		A.Set(i, 0, p.X)
		A.Set(i, 1, p.Y)
		A.Set(i, 2, 1)
		b.SetVec(i, -(p.X*p.X + p.Y*p.Y))
	}

	var qr mat.QR
	qr.Factorize(A)

	var params mat.VecDense
	if err := qr.SolveVecTo(&params, false, b); err != nil {
		return Circle{}, false
	}

	cx := -params.AtVec(0) / 2
	cy := -params.AtVec(1) / 2
	r2 := cx*cx + cy*cy - params.AtVec(2)
	if r2 < 0 || math.IsNaN(r2) || math.IsInf(r2, 0) {
		return Circle{}, false
	}
	return Circle{Center: geom.Point{X: cx, Y: cy}, Radius: math.Sqrt(r2)}, true
}

// collinear reports whether every point lies on the line through the first
// point and the point farthest from it.
func collinear(pts []geom.Point) bool {
	origin := pts[0]
	far, best := origin, 0.0
	for _, p := range pts[1:] {
		if d := geom.Distance(origin, p); d > best {
			far, best = p, d
		}
	}
	if best == 0 {
		return true
	}
	for _, p := range pts {
		// Perpendicular distance to the origin-far line.
		cross := (far.X-origin.X)*(p.Y-origin.Y) - (far.Y-origin.Y)*(p.X-origin.X)
		if math.Abs(cross)/best > collinearEpsilon*math.Max(1, best) {
			return false
		}
	}
	return true
}
