package annotation

import (
	"encoding/json"
	"math"

	"github.com/example/shineylabel/internal/geom"
)

// Kind is the annotation_type discriminant.
type Kind string

const (
	KindBox      Kind = "bbox"
	KindPolygon  Kind = "polygon"
	KindPolyline Kind = "polyline"
	KindCircle   Kind = "circle"
	KindNoObject Kind = "no_object"
)

// Geometry is one of Box, Polygon, Polyline, Circle or Unknown.
type Geometry interface {
	Kind() Kind
	geometry()
}

// Box is an axis-aligned rectangle.
type Box struct {
	BBox geom.Bbox
}

// Polygon is a closed ring of vertices.
type Polygon struct {
	Points []geom.Point
}

// Polyline is an open path.
type Polyline struct {
	Points []geom.Point
}

// Circle is a centre and radius.
type Circle struct {
	Center geom.Point
	Radius float64
}

// Unknown carries a geometry whose type this build does not understand,
// including the no_object marker. Raw is kept verbatim so it survives a
// load/save cycle.
type Unknown struct {
	Type string
	Raw  json.RawMessage
}

func (Box) Kind() Kind       { return KindBox }
func (Polygon) Kind() Kind   { return KindPolygon }
func (Polyline) Kind() Kind  { return KindPolyline }
func (Circle) Kind() Kind    { return KindCircle }
func (u Unknown) Kind() Kind { return Kind(u.Type) }

func (Box) geometry()      {}
func (Polygon) geometry()  {}
func (Polyline) geometry() {}
func (Circle) geometry()   {}
func (Unknown) geometry()  {}

// CloneGeometry returns a copy of g sharing no memory with it.
func CloneGeometry(g Geometry) Geometry {
	switch g := g.(type) {
	case Box:
		return g
	case Polygon:
		return Polygon{Points: clonePoints(g.Points)}
	case Polyline:
		return Polyline{Points: clonePoints(g.Points)}
	case Circle:
		return g
	case Unknown:
		return Unknown{Type: g.Type, Raw: append(json.RawMessage(nil), g.Raw...)}
	}
	return nil
}

func clonePoints(pts []geom.Point) []geom.Point {
	if pts == nil {
		return nil
	}
	return append([]geom.Point(nil), pts...)
}

// Translate returns g shifted by (dx, dy). Unknown geometry is returned as is.
func Translate(g Geometry, dx, dy float64) Geometry {
	switch g := g.(type) {
	case Box:
		return Box{BBox: g.BBox.Translate(dx, dy)}
	case Polygon:
		return Polygon{Points: geom.TranslatePoints(g.Points, dx, dy)}
	case Polyline:
		return Polyline{Points: geom.TranslatePoints(g.Points, dx, dy)}
	case Circle:
		return Circle{Center: g.Center.Add(geom.Pt(dx, dy)), Radius: g.Radius}
	}
	return CloneGeometry(g)
}

// Bounds returns the enclosing box of g. Unknown, nil and empty geometry give
// the zero box.
func Bounds(g Geometry) geom.Bbox {
	switch g := g.(type) {
	case Box:
		return g.BBox
	case Polygon:
		return geom.BboxFromPoints(g.Points)
	case Polyline:
		return geom.BboxFromPoints(g.Points)
	case Circle:
		return geom.Bbox{g.Center.X - g.Radius, g.Center.Y - g.Radius, 2 * g.Radius, 2 * g.Radius}
	}
	return geom.Bbox{}
}

// Area returns the enclosed area. Polylines and unknown geometry have none.
func Area(g Geometry) float64 {
	switch g := g.(type) {
	case Box:
		return geom.BboxArea(g.BBox)
	case Polygon:
		return geom.PolygonArea(g.Points)
	case Circle:
		return math.Pi * g.Radius * g.Radius
	}
	return 0
}

// Center returns the visual centre used for labels.
func Center(g Geometry) geom.Point {
	switch g := g.(type) {
	case Box:
		return geom.NormalizeBbox(g.BBox).Center()
	case Polygon:
		return geom.PolygonCenter(g.Points)
	case Polyline:
		return geom.PolygonCenter(g.Points)
	case Circle:
		return g.Center
	}
	return geom.Point{}
}

// Points returns the vertices of a polygon or polyline, or nil.
func Points(g Geometry) []geom.Point {
	switch g := g.(type) {
	case Polygon:
		return g.Points
	case Polyline:
		return g.Points
	}
	return nil
}

// WithPoints returns a polygon or polyline of the same kind as g holding pts.
// Other kinds are returned unchanged.
func WithPoints(g Geometry, pts []geom.Point) Geometry {
	switch g.(type) {
	case Polygon:
		return Polygon{Points: pts}
	case Polyline:
		return Polyline{Points: pts}
	}
	return g
}

// MinPoints is the vertex count a committed polygon or polyline needs.
func MinPoints(k Kind) int {
	switch k {
	case KindPolygon:
		return 3
	case KindPolyline:
		return 2
	}
	return 0
}

// Validate prepares g for commit: boxes are normalized. It reports false when
// the result breaks a committed-shape invariant (too few vertices, negative
// radius, non-finite coordinates).
func Validate(g Geometry) (Geometry, bool) {
	switch g := g.(type) {
	case Box:
		b := geom.NormalizeBbox(g.BBox)
		return Box{BBox: b}, finite(b[:]...)
	case Polygon:
		return g, len(g.Points) >= 3 && finitePoints(g.Points)
	case Polyline:
		return g, len(g.Points) >= 2 && finitePoints(g.Points)
	case Circle:
		return g, g.Radius >= 0 && finite(g.Center.X, g.Center.Y, g.Radius)
	case Unknown:
		return g, g.Type != ""
	}
	return g, false
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func finitePoints(pts []geom.Point) bool {
	for _, p := range pts {
		if !finite(p.X, p.Y) {
			return false
		}
	}
	return true
}

// Contains reports whether p hits g. tol widens outlines so thin shapes stay
// clickable: polylines are hit within tol of a segment, circles within tol of
// the rim.
func Contains(g Geometry, p geom.Point, tol float64) bool {
	switch g := g.(type) {
	case Box:
		return geom.PointInBbox(p, geom.NormalizeBbox(g.BBox))
	case Polygon:
		if geom.PointInPolygon(p, g.Points) {
			return true
		}
		_, ok := geom.PointOnEdge(p, g.Points, tol)
		return ok
	case Polyline:
		_, ok := geom.PointOnPath(p, g.Points, tol)
		return ok
	case Circle:
		return geom.PointInCircle(p, g.Center, g.Radius) || geom.PointNearCircle(p, g.Center, g.Radius, tol)
	}
	return false
}
