// Package geom holds the pure geometry used by the annotation editor: distance
// and containment tests, polygon measures, and resize-handle detection. Every
// function takes explicit coordinates and keeps no state.
package geom

import "math"

// Point is a 2D point. Which coordinate space it lives in is implied by the
// caller; see package viewport for the space-tagged variants.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p multiplied by f.
func (p Point) Scale(f float64) Point { return Point{X: p.X * f, Y: p.Y * f} }

// Rect is an axis-aligned rectangle. Width and Height may be negative while a
// shape is being dragged out.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Bbox returns r in [x, y, w, h] form.
func (r Rect) Bbox() Bbox { return Bbox{r.X, r.Y, r.Width, r.Height} }

// Bbox is a box stored as [x, y, width, height].
type Bbox [4]float64

// X returns the left edge.
func (b Bbox) X() float64 { return b[0] }

// Y returns the top edge.
func (b Bbox) Y() float64 { return b[1] }

// W returns the width.
func (b Bbox) W() float64 { return b[2] }

// H returns the height.
func (b Bbox) H() float64 { return b[3] }

// Rect converts b into a Rect.
func (b Bbox) Rect() Rect { return Rect{X: b[0], Y: b[1], Width: b[2], Height: b[3]} }

// Center returns the middle of the box.
func (b Bbox) Center() Point { return Point{X: b[0] + b[2]/2, Y: b[1] + b[3]/2} }

// Translate returns b shifted by (dx, dy).
func (b Bbox) Translate(dx, dy float64) Bbox { return Bbox{b[0] + dx, b[1] + dy, b[2], b[3]} }

// TranslatePoints returns a new slice with every point shifted by (dx, dy).
func TranslatePoints(pts []Point, dx, dy float64) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{X: p.X + dx, Y: p.Y + dy}
	}
	return out
}

// BboxFromPoints returns the axis-aligned box enclosing pts. An empty input
// yields the zero box.
func BboxFromPoints(pts []Point) Bbox {
	if len(pts) == 0 {
		return Bbox{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Bbox{minX, minY, maxX - minX, maxY - minY}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
