package geom

import "math"

// Handle names a resize grip on a box.
type Handle string

const (
	HandleNone Handle = ""
	HandleNW   Handle = "nw"
	HandleNE   Handle = "ne"
	HandleSW   Handle = "sw"
	HandleSE   Handle = "se"
	HandleN    Handle = "n"
	HandleS    Handle = "s"
	HandleW    Handle = "w"
	HandleE    Handle = "e"
)

// DefaultHandleSize is the drawn size of a grip in surface pixels.
const DefaultHandleSize = 8

// handleSlack widens the hit area beyond the drawn grip.
const handleSlack = 6

// Handles lists the grips in hit-test order: corners before edges.
var Handles = []Handle{HandleNW, HandleNE, HandleSW, HandleSE, HandleN, HandleS, HandleW, HandleE}

// HandlePosition returns the landmark a handle sits on.
func HandlePosition(b Bbox, h Handle) Point {
	x, y, w, hh := b[0], b[1], b[2], b[3]
	switch h {
	case HandleNW:
		return Point{X: x, Y: y}
	case HandleNE:
		return Point{X: x + w, Y: y}
	case HandleSW:
		return Point{X: x, Y: y + hh}
	case HandleSE:
		return Point{X: x + w, Y: y + hh}
	case HandleN:
		return Point{X: x + w/2, Y: y}
	case HandleS:
		return Point{X: x + w/2, Y: y + hh}
	case HandleW:
		return Point{X: x, Y: y + hh/2}
	case HandleE:
		return Point{X: x + w, Y: y + hh/2}
	}
	return b.Center()
}

// HandleAt returns the grip of b under p, or HandleNone. A grip is hit when p
// is within handleSize/2+6 of its landmark on both axes. Corners are checked
// first so a point close to a corner and an edge midpoint picks the corner.
func HandleAt(p Point, b Bbox, handleSize float64) Handle {
	threshold := handleSize/2 + handleSlack
	for _, h := range Handles {
		lm := HandlePosition(b, h)
		if math.Abs(p.X-lm.X) <= threshold && math.Abs(p.Y-lm.Y) <= threshold {
			return h
		}
	}
	return HandleNone
}

// Cursor is the pointer affordance shown over a handle.
type Cursor string

const (
	CursorDefault Cursor = "default"
	CursorNWSE    Cursor = "nwse-resize"
	CursorNESW    Cursor = "nesw-resize"
	CursorNS      Cursor = "ns-resize"
	CursorEW      Cursor = "ew-resize"
)

var handleCursors = map[Handle]Cursor{
	HandleNW: CursorNWSE,
	HandleSE: CursorNWSE,
	HandleNE: CursorNESW,
	HandleSW: CursorNESW,
	HandleN:  CursorNS,
	HandleS:  CursorNS,
	HandleW:  CursorEW,
	HandleE:  CursorEW,
}

// CursorForHandle maps a handle to its resize cursor. Unknown handles get
// CursorDefault.
func CursorForHandle(h Handle) Cursor {
	if c, ok := handleCursors[h]; ok {
		return c
	}
	return CursorDefault
}
