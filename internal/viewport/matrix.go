package viewport

import (
	"golang.org/x/image/math/f64"

	"github.com/example/shineylabel/internal/geom"
)

// Matrix is a 2D affine transform laid out as
// [scaleX, skewY, skewX, scaleY, translateX, translateY]:
//
//	x' = ScaleX*x + SkewX*y + TranslateX
//	y' = SkewY*x + ScaleY*y + TranslateY
//
// The viewport never skews, but the fields are kept so the layout matches
// the usual canvas convention.
type Matrix struct {
	ScaleX, SkewY, SkewX, ScaleY, TranslateX, TranslateY float64
}

// Identity is the transform that leaves points unchanged.
var Identity = Matrix{ScaleX: 1, ScaleY: 1}

// Values returns the six coefficients in layout order.
func (m Matrix) Values() [6]float64 {
	return [6]float64{m.ScaleX, m.SkewY, m.SkewX, m.ScaleY, m.TranslateX, m.TranslateY}
}

// Apply transforms a single point.
func (m Matrix) Apply(p geom.Point) geom.Point {
	return geom.Point{
		X: m.ScaleX*p.X + m.SkewX*p.Y + m.TranslateX,
		Y: m.SkewY*p.X + m.ScaleY*p.Y + m.TranslateY,
	}
}

// ApplyAll transforms every point into a new slice. The result is identical to
// calling Apply on each element.
func (m Matrix) ApplyAll(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = m.Apply(p)
	}
	return out
}

// Aff3 converts m into the row-major form used by golang.org/x/image/draw.
func (m Matrix) Aff3() f64.Aff3 {
	return f64.Aff3{
		m.ScaleX, m.SkewX, m.TranslateX,
		m.SkewY, m.ScaleY, m.TranslateY,
	}
}

// ImageToSurfaceMatrix returns the transform equivalent to ImageToSurface.
func ImageToSurfaceMatrix(p Params) Matrix {
	b := ImageBounds(p)
	return Matrix{ScaleX: p.Zoom, ScaleY: p.Zoom, TranslateX: b.X, TranslateY: b.Y}
}

// SurfaceToImageMatrix returns the transform equivalent to SurfaceToImage.
func SurfaceToImageMatrix(p Params) Matrix {
	b := ImageBounds(p)
	inv := 1 / p.Zoom
	return Matrix{ScaleX: inv, ScaleY: inv, TranslateX: -b.X * inv, TranslateY: -b.Y * inv}
}
