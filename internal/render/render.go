// Package render paints an image and its annotations onto an RGBA surface.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/example/shineylabel/internal/annotation"
	"github.com/example/shineylabel/internal/geom"
	"github.com/example/shineylabel/internal/theme"
	"github.com/example/shineylabel/internal/viewport"
)

const checkerSize = 8

// Frame is everything needed to paint one view.
type Frame struct {
	Surface *image.RGBA
	Source  image.Image
	Params  viewport.Params

	// Annotations are painted in order, bottom first.
	Annotations []annotation.Annotation
	SelectedID  string

	// Draft is the shape being drawn. DraftCursor, when set, draws a rubber
	// band from the last placed vertex of a polygon or polyline draft.
	Draft       annotation.Geometry
	DraftCursor *geom.Point

	Theme      *theme.Theme
	HandleSize float64
}

// Draw paints f onto f.Surface.
func Draw(f Frame) {
	dst := f.Surface
	if dst == nil {
		return
	}
	th := f.Theme
	if th == nil {
		th = theme.Default()
	}
	hs := f.HandleSize
	if hs <= 0 {
		hs = geom.DefaultHandleSize
	}
	zoom := f.Params.Zoom
	m := viewport.ImageToSurfaceMatrix(f.Params)

	draw.Draw(dst, dst.Bounds(), image.NewUniform(th.Background), image.Point{}, draw.Src)
	imgRect := surfaceRect(viewport.ImageBounds(f.Params).Bbox(), viewport.Identity).Intersect(dst.Bounds())
	drawCheckerboard(dst, imgRect, checkerSize, th.CheckerLight, th.CheckerDark)
	if f.Source != nil {
		var interp xdraw.Interpolator = xdraw.ApproxBiLinear
		if zoom >= 1 {
			interp = xdraw.NearestNeighbor
		}
		interp.Transform(dst, m.Aff3(), f.Source, f.Source.Bounds(), xdraw.Over, nil)
	}

	p := newPainter(dst, dst.Bounds())
	var selected *annotation.Annotation
	for i := range f.Annotations {
		a := f.Annotations[i]
		if _, ok := a.Geometry.(annotation.Unknown); ok || a.Geometry == nil {
			continue
		}
		col := ClassColor(a.ClassID, th.Stroke)
		if f.SelectedID != "" && a.ID == f.SelectedID {
			selected = &f.Annotations[i]
			col = th.Selected
			drawGlow(dst, a.Geometry, m, zoom, th.StrokeWidth, int(math.Round(th.GlowRadius)), withAlpha(th.Selected, 0.6))
		}
		if th.FillOpacity > 0 {
			p.interior(a.Geometry, m, zoom)
			p.flush(image.NewUniform(withAlpha(col, th.FillOpacity)))
		}
		p.outline(a.Geometry, m, zoom, th.StrokeWidth)
		p.flush(image.NewUniform(col))
		if text := LabelText(a); text != "" {
			r := surfaceRect(annotation.Bounds(a.Geometry), m)
			drawLabel(dst, text, r.Min, th.Label, th.LabelBackground)
		}
	}
	if selected != nil {
		drawHandles(dst, selected.Geometry, m, zoom, hs, th)
	}
	if f.Draft != nil {
		drawDraft(p, dst, f.Draft, f.DraftCursor, m, zoom, th)
	}
}

func drawDraft(p *painter, dst *image.RGBA, g annotation.Geometry, cursor *geom.Point, m viewport.Matrix, zoom float64, th *theme.Theme) {
	p.outline(g, m, zoom, th.StrokeWidth)
	pts := annotation.Points(g)
	if cursor != nil && len(pts) > 0 {
		p.segment(m.Apply(pts[len(pts)-1]), m.Apply(*cursor), th.StrokeWidth)
	}
	p.flush(image.NewUniform(th.Draft))
	for _, q := range m.ApplyAll(pts) {
		fillSquare(dst, q, 4, th.Draft, th.Draft)
	}
}

// drawHandles marks the grips of the selected annotation: eight resize
// handles on a box, every vertex of a polygon or polyline, the east rim point
// of a circle.
func drawHandles(dst *image.RGBA, g annotation.Geometry, m viewport.Matrix, zoom, size float64, th *theme.Theme) {
	var grips []geom.Point
	switch g := g.(type) {
	case annotation.Box:
		b := geom.NormalizeBbox(g.BBox)
		for _, h := range geom.Handles {
			grips = append(grips, m.Apply(geom.HandlePosition(b, h)))
		}
	case annotation.Polygon, annotation.Polyline:
		grips = m.ApplyAll(annotation.Points(g))
	case annotation.Circle:
		c := m.Apply(g.Center)
		grips = []geom.Point{{X: c.X + g.Radius*zoom, Y: c.Y}}
	}
	for _, q := range grips {
		fillSquare(dst, q, size, th.Handle, th.HandleBorder)
	}
}

// fillSquare draws a size-wide square centred on c with a one pixel border.
func fillSquare(dst *image.RGBA, c geom.Point, size float64, fill, border color.RGBA) {
	half := size / 2
	r := image.Rect(
		int(math.Round(c.X-half)), int(math.Round(c.Y-half)),
		int(math.Round(c.X+half)), int(math.Round(c.Y+half)),
	)
	draw.Draw(dst, r, image.NewUniform(border), image.Point{}, draw.Over)
	draw.Draw(dst, r.Inset(1), image.NewUniform(fill), image.Point{}, draw.Over)
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.RGBA) {
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if (((x-rect.Min.X)/size)+((y-rect.Min.Y)/size))%2 == 0 {
				dst.SetRGBA(x, y, light)
			} else {
				dst.SetRGBA(x, y, dark)
			}
		}
	}
}

// surfaceRect maps an image-space box to the covering integer rectangle on
// the surface.
func surfaceRect(b geom.Bbox, m viewport.Matrix) image.Rectangle {
	pts := m.ApplyAll(boxCorners(b))
	minX, minY := math.Min(pts[0].X, pts[2].X), math.Min(pts[0].Y, pts[2].Y)
	maxX, maxY := math.Max(pts[0].X, pts[2].X), math.Max(pts[0].Y, pts[2].Y)
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}

func withAlpha(c color.RGBA, opacity float64) color.NRGBA {
	a := math.Max(0, math.Min(1, opacity)) * float64(c.A)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(a))}
}
