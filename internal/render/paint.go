package render

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/example/shineylabel/internal/annotation"
	"github.com/example/shineylabel/internal/geom"
	"github.com/example/shineylabel/internal/viewport"
)

// painter accumulates paths in surface coordinates and paints them onto the
// rect area of dst.
//
// Every stroke piece is traced with the same winding so overlapping pieces
// add up instead of cancelling.
type painter struct {
	dst  draw.Image
	rect image.Rectangle
	r    *vector.Rasterizer
}

func newPainter(dst draw.Image, rect image.Rectangle) *painter {
	return &painter{dst: dst, rect: rect, r: vector.NewRasterizer(rect.Dx(), rect.Dy())}
}

func (p *painter) moveTo(q geom.Point) {
	p.r.MoveTo(float32(q.X-float64(p.rect.Min.X)), float32(q.Y-float64(p.rect.Min.Y)))
}

func (p *painter) lineTo(q geom.Point) {
	p.r.LineTo(float32(q.X-float64(p.rect.Min.X)), float32(q.Y-float64(p.rect.Min.Y)))
}

func (p *painter) path(pts []geom.Point) {
	if len(pts) < 3 {
		return
	}
	p.moveTo(pts[0])
	for _, q := range pts[1:] {
		p.lineTo(q)
	}
	p.r.ClosePath()
}

// flush paints everything traced so far with src and starts over.
func (p *painter) flush(src image.Image) {
	if p.rect.Empty() {
		return
	}
	p.r.Draw(p.dst, p.rect, src, image.Point{})
	p.r.Reset(p.rect.Dx(), p.rect.Dy())
}

// segment traces a w-wide quad from a to b.
func (p *painter) segment(a, b geom.Point, w float64) {
	d := b.Sub(a)
	l := math.Hypot(d.X, d.Y)
	if l == 0 {
		return
	}
	n := geom.Pt(-d.Y/l*w/2, d.X/l*w/2)
	p.path([]geom.Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)})
}

// disc traces a filled circle wound like segment.
func (p *painter) disc(c geom.Point, r float64) {
	if r <= 0 {
		return
	}
	p.path(circlePoints(c, r, true))
}

// ring traces a circle outline w wide.
func (p *painter) ring(c geom.Point, r, w float64) {
	p.path(circlePoints(c, r+w/2, true))
	if inner := r - w/2; inner > 0 {
		p.path(circlePoints(c, inner, false))
	}
}

// stroke traces the outline through pts with round joins.
func (p *painter) stroke(pts []geom.Point, closed bool, w float64) {
	for i := 0; i+1 < len(pts); i++ {
		p.segment(pts[i], pts[i+1], w)
	}
	if closed && len(pts) > 2 {
		p.segment(pts[len(pts)-1], pts[0], w)
	}
	if w > 2 {
		for _, q := range pts {
			p.disc(q, w/2)
		}
	}
}

// circlePoints approximates a circle. clockwise picks the winding that
// matches segment.
func circlePoints(c geom.Point, r float64, clockwise bool) []geom.Point {
	n := int(math.Ceil(2 * math.Pi * r / 4))
	n = min(max(n, 12), 360)
	pts := make([]geom.Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		if clockwise {
			a = -a
		}
		pts[i] = geom.Pt(c.X+r*math.Cos(a), c.Y+r*math.Sin(a))
	}
	return pts
}

func boxCorners(b geom.Bbox) []geom.Point {
	b = geom.NormalizeBbox(b)
	return []geom.Point{
		{X: b[0], Y: b[1]},
		{X: b[0] + b[2], Y: b[1]},
		{X: b[0] + b[2], Y: b[1] + b[3]},
		{X: b[0], Y: b[1] + b[3]},
	}
}

// outline traces the outline of g, mapped to the surface by m.
func (p *painter) outline(g annotation.Geometry, m viewport.Matrix, zoom, w float64) {
	switch g := g.(type) {
	case annotation.Box:
		p.stroke(m.ApplyAll(boxCorners(g.BBox)), true, w)
	case annotation.Polygon:
		p.stroke(m.ApplyAll(g.Points), true, w)
	case annotation.Polyline:
		p.stroke(m.ApplyAll(g.Points), false, w)
	case annotation.Circle:
		p.ring(m.Apply(g.Center), g.Radius*zoom, w)
	}
}

// interior traces the filled area of g. Polylines have none.
func (p *painter) interior(g annotation.Geometry, m viewport.Matrix, zoom float64) {
	switch g := g.(type) {
	case annotation.Box:
		p.path(m.ApplyAll(boxCorners(g.BBox)))
	case annotation.Polygon:
		p.path(m.ApplyAll(g.Points))
	case annotation.Circle:
		p.disc(m.Apply(g.Center), g.Radius*zoom)
	}
}
