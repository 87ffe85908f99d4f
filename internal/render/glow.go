package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/example/shineylabel/internal/annotation"
	"github.com/example/shineylabel/internal/viewport"
)

// drawGlow paints a blurred halo of col around the outline of g. The work is
// confined to the outline's bounds grown by the blur radius.
func drawGlow(dst *image.RGBA, g annotation.Geometry, m viewport.Matrix, zoom, width float64, radius int, col color.Color) {
	if radius <= 0 {
		return
	}
	area := surfaceRect(annotation.Bounds(g), m).Inset(-radius - int(width) - 1).Intersect(dst.Bounds())
	if area.Empty() {
		return
	}
	mask := image.NewAlpha(area)
	p := newPainter(mask, area)
	p.outline(g, m, zoom, width+2)
	p.flush(image.Opaque)
	blurred := blurAlpha(mask, radius)
	draw.DrawMask(dst, area, image.NewUniform(col), image.Point{}, blurred, area.Min, draw.Over)
}

// blurAlpha box-blurs src horizontally then vertically.
func blurAlpha(src *image.Alpha, radius int) *image.Alpha {
	b := src.Bounds()
	out := image.NewAlpha(b)
	if radius <= 0 {
		copy(out.Pix, src.Pix)
		return out
	}
	tmp := image.NewAlpha(b)
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		boxPass(src.Pix[y*src.Stride:], tmp.Pix[y*tmp.Stride:], 1, w, radius)
	}
	for x := 0; x < w; x++ {
		boxPass(tmp.Pix[x:], out.Pix[x:], tmp.Stride, h, radius)
	}
	return out
}

// boxPass averages n samples spaced stride apart over a window of 2r+1,
// narrowing the window at the ends.
func boxPass(in, out []uint8, stride, n, r int) {
	prefix := make([]int, n+1)
	for i := 0; i < n; i++ {
		prefix[i+1] = prefix[i] + int(in[i*stride])
	}
	for i := 0; i < n; i++ {
		lo, hi := max(i-r, 0), min(i+r, n-1)
		out[i*stride] = uint8((prefix[hi+1] - prefix[lo]) / (hi - lo + 1))
	}
}
