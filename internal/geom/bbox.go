package geom

import "math"

// PointInBbox reports whether p lies inside b, edges included.
func PointInBbox(p Point, b Bbox) bool {
	return p.X >= b[0] && p.X <= b[0]+b[2] &&
		p.Y >= b[1] && p.Y <= b[1]+b[3]
}

// BboxIntersection reports whether two boxes overlap. Boxes that only touch
// along an edge or corner count as intersecting.
func BboxIntersection(a, b Bbox) bool {
	return !(a[0]+a[2] < b[0] || b[0]+b[2] < a[0] ||
		a[1]+a[3] < b[1] || b[1]+b[3] < a[1])
}

// BboxArea returns |width·height|.
func BboxArea(b Bbox) float64 {
	return math.Abs(b[2] * b[3])
}

// NormalizeBbox moves the origin of a box drawn with negative extents so that
// width and height are non-negative while covering the same area.
func NormalizeBbox(b Bbox) Bbox {
	x, y, w, h := b[0], b[1], b[2], b[3]
	if w < 0 {
		x += w
		w = -w
	}
	if h < 0 {
		y += h
		h = -h
	}
	return Bbox{x, y, w, h}
}

// ResizeBbox applies a pointer delta to the edges controlled by handle,
// starting from the reference box orig. The result is not normalized, so
// dragging an edge past its opposite yields a negative extent.
func ResizeBbox(orig Bbox, handle Handle, dx, dy float64) Bbox {
	x, y, w, h := orig[0], orig[1], orig[2], orig[3]
	switch handle {
	case HandleNW:
		x, y, w, h = x+dx, y+dy, w-dx, h-dy
	case HandleN:
		y, h = y+dy, h-dy
	case HandleNE:
		y, w, h = y+dy, w+dx, h-dy
	case HandleE:
		w += dx
	case HandleSE:
		w, h = w+dx, h+dy
	case HandleS:
		h += dy
	case HandleSW:
		x, w, h = x+dx, w-dx, h+dy
	case HandleW:
		x, w = x+dx, w-dx
	}
	return Bbox{x, y, w, h}
}
