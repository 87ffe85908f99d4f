package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestDistance(t *testing.T) {
	if got := Distance(Pt(0, 0), Pt(3, 4)); got != 5 {
		t.Fatalf("Distance = %v, want 5", got)
	}
}

func TestPointToSegmentDistance(t *testing.T) {
	tests := []struct {
		name    string
		p, a, b Point
		want    float64
	}{
		{"perpendicular", Pt(5, 5), Pt(0, 0), Pt(10, 0), 5},
		{"past end", Pt(13, 4), Pt(0, 0), Pt(10, 0), 5},
		{"before start", Pt(-3, -4), Pt(0, 0), Pt(10, 0), 5},
		{"zero length", Pt(3, 4), Pt(0, 0), Pt(0, 0), 5},
		{"on segment", Pt(4, 0), Pt(0, 0), Pt(10, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointToSegmentDistance(tt.p, tt.a, tt.b); !near(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClosestPointOnSegmentClamps(t *testing.T) {
	got := ClosestPointOnSegment(Pt(20, 3), Pt(0, 0), Pt(10, 0))
	if got != Pt(10, 0) {
		t.Fatalf("got %+v, want clamp to end point", got)
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}
	concave := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(5, 4), Pt(0, 10)}
	tests := []struct {
		name string
		p    Point
		poly []Point
		want bool
	}{
		{"inside", Pt(5, 5), square, true},
		{"outside", Pt(15, 5), square, false},
		{"outside above", Pt(5, -1), square, false},
		{"concave notch", Pt(5, 8), concave, false},
		{"concave arm", Pt(1, 6), concave, true},
		{"degenerate", Pt(0.5, 0.5), []Point{Pt(0, 0), Pt(1, 1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(tt.p, tt.poly); got != tt.want {
				t.Errorf("PointInPolygon(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPointInBboxInclusive(t *testing.T) {
	b := Bbox{0, 0, 10, 10}
	for _, p := range []Point{Pt(0, 0), Pt(10, 10), Pt(10, 0), Pt(5, 5)} {
		if !PointInBbox(p, b) {
			t.Errorf("expected %v inside %v", p, b)
		}
	}
	if PointInBbox(Pt(10.01, 5), b) {
		t.Error("expected point past the right edge to be outside")
	}
}

func TestCircleTests(t *testing.T) {
	c := Pt(0, 0)
	if !PointInCircle(Pt(3, 4), c, 5) {
		t.Error("point on the outline should be inside")
	}
	if PointInCircle(Pt(4, 4), c, 5) {
		t.Error("point beyond radius should be outside")
	}
	if !PointNearCircle(Pt(0, 5.5), c, 5, 1) {
		t.Error("expected point within tolerance of the outline")
	}
	if PointNearCircle(Pt(0, 0), c, 5, 1) {
		t.Error("center is not near the outline")
	}
}

func TestHandleAt(t *testing.T) {
	b := Bbox{0, 0, 100, 100}
	tests := []struct {
		p    Point
		want Handle
	}{
		{Pt(0, 0), HandleNW},
		{Pt(50, 0), HandleN},
		{Pt(50, 50), HandleNone},
		{Pt(100, 100), HandleSE},
		{Pt(104, 52), HandleE},
		{Pt(-3, 97), HandleSW},
		{Pt(100, -9), HandleNE},
		{Pt(50, 100), HandleS},
		{Pt(0, 50), HandleW},
	}
	for _, tt := range tests {
		if got := HandleAt(tt.p, b, DefaultHandleSize); got != tt.want {
			t.Errorf("HandleAt(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestHandleAtPrefersCorner(t *testing.T) {
	// In a small box the n midpoint sits within reach of the nw corner.
	b := Bbox{0, 0, 12, 40}
	if got := HandleAt(Pt(3, 0), b, DefaultHandleSize); got != HandleNW {
		t.Fatalf("got %q, want corner", got)
	}
}

func TestCursorForHandle(t *testing.T) {
	if CursorForHandle(HandleNW) != CursorForHandle(HandleSE) {
		t.Error("nw and se should share a cursor")
	}
	if CursorForHandle(HandleNE) != CursorForHandle(HandleSW) {
		t.Error("ne and sw should share a cursor")
	}
	if CursorForHandle(HandleN) != CursorNS || CursorForHandle(HandleE) != CursorEW {
		t.Error("unexpected axis cursor")
	}
	if CursorForHandle(HandleNone) != CursorDefault || CursorForHandle("bogus") != CursorDefault {
		t.Error("unknown handles should map to the default cursor")
	}
}

func TestPointOnEdge(t *testing.T) {
	square := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}

	hit, ok := PointOnEdge(Pt(3.333, 1), square, 2)
	if !ok {
		t.Fatal("expected an edge hit")
	}
	if hit.Index != 0 || hit.Point != Pt(3.33, 0) {
		t.Fatalf("unexpected hit %+v", hit)
	}

	// Closing edge 3 -> 0.
	hit, ok = PointOnEdge(Pt(-1, 5), square, 2)
	if !ok || hit.Index != 3 {
		t.Fatalf("expected wrap-around edge, got %+v ok=%v", hit, ok)
	}
	if _, ok := PointOnPath(Pt(-1, 5), square, 2); ok {
		t.Fatal("open path must not report the closing edge")
	}

	// Near both edge 0 and edge 3 at the corner: first edge wins.
	hit, ok = PointOnEdge(Pt(0.5, 0.5), square, 2)
	if !ok || hit.Index != 0 {
		t.Fatalf("expected first edge to win, got %+v", hit)
	}

	if _, ok := PointOnEdge(Pt(5, 5), square, 2); ok {
		t.Fatal("center should not be on an edge")
	}
}

func TestBboxIntersection(t *testing.T) {
	a := Bbox{0, 0, 10, 10}
	tests := []struct {
		b    Bbox
		want bool
	}{
		{Bbox{5, 5, 10, 10}, true},
		{Bbox{10, 0, 5, 5}, true},
		{Bbox{10.5, 0, 5, 5}, false},
		{Bbox{0, -6, 5, 5}, false},
		{Bbox{2, 2, 1, 1}, true},
	}
	for _, tt := range tests {
		if got := BboxIntersection(a, tt.b); got != tt.want {
			t.Errorf("BboxIntersection(%v, %v) = %v, want %v", a, tt.b, got, tt.want)
		}
	}
}

func TestAreas(t *testing.T) {
	if got := BboxArea(Bbox{0, 0, -4, 5}); got != 20 {
		t.Errorf("BboxArea = %v, want 20", got)
	}
	tri := []Point{Pt(0, 0), Pt(4, 0), Pt(0, 3)}
	if got := PolygonArea(tri); !near(got, 6) {
		t.Errorf("PolygonArea = %v, want 6", got)
	}
	if got := PolygonArea(tri[:2]); got != 0 {
		t.Errorf("PolygonArea of a segment = %v, want 0", got)
	}
}

func TestPolygonAreaIgnoresWinding(t *testing.T) {
	poly := []Point{Pt(1, 1), Pt(7, 2), Pt(9, 8), Pt(4, 11), Pt(-2, 6)}
	rev := make([]Point, len(poly))
	for i, p := range poly {
		rev[len(poly)-1-i] = p
	}
	if a, b := PolygonArea(poly), PolygonArea(rev); !near(a, b) {
		t.Fatalf("area changed with winding: %v vs %v", a, b)
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{5 * math.Pi, math.Pi},
		{2 * math.Pi, 0},
	}
	for _, tt := range tests {
		got := NormalizeAngle(tt.in)
		if !near(got, tt.want) {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got < 0 || got >= 2*math.Pi {
			t.Errorf("NormalizeAngle(%v) = %v out of range", tt.in, got)
		}
	}
}

func TestPolygonCenter(t *testing.T) {
	if got := PolygonCenter(nil); got != (Point{}) {
		t.Errorf("empty center = %+v", got)
	}
	got := PolygonCenter([]Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)})
	if got != Pt(5, 5) {
		t.Errorf("center = %+v, want (5,5)", got)
	}
}

func TestIsClockwise(t *testing.T) {
	ring := []Point{Pt(0, 0), Pt(0, 10), Pt(10, 10), Pt(10, 0)}
	if !IsClockwise(ring) {
		t.Error("expected positive edge sum to be clockwise")
	}
	rev := []Point{Pt(10, 0), Pt(10, 10), Pt(0, 10), Pt(0, 0)}
	if IsClockwise(rev) {
		t.Error("reversed ring should not be clockwise")
	}
	if IsClockwise(ring[:2]) {
		t.Error("fewer than three vertices is never clockwise")
	}
}

func TestNormalizeBbox(t *testing.T) {
	got := NormalizeBbox(Bbox{100, 100, -50, -50})
	if got != (Bbox{50, 50, 50, 50}) {
		t.Fatalf("NormalizeBbox = %v", got)
	}
	inputs := []Bbox{{1, 2, 3, 4}, {0, 0, -1, 5}, {3, 3, 2, -7}, {0, 0, 0, 0}}
	for _, b := range inputs {
		once := NormalizeBbox(b)
		if twice := NormalizeBbox(once); twice != once {
			t.Errorf("not idempotent for %v: %v then %v", b, once, twice)
		}
		if once.W() < 0 || once.H() < 0 {
			t.Errorf("negative extent for %v: %v", b, once)
		}
	}
}

func TestResizeBbox(t *testing.T) {
	orig := Bbox{10, 10, 20, 20}
	tests := []struct {
		h    Handle
		want Bbox
	}{
		{HandleNW, Bbox{15, 13, 15, 17}},
		{HandleSE, Bbox{10, 10, 25, 23}},
		{HandleN, Bbox{10, 13, 20, 17}},
		{HandleE, Bbox{10, 10, 25, 20}},
		{HandleSW, Bbox{15, 10, 15, 23}},
		{HandleNone, orig},
	}
	for _, tt := range tests {
		if got := ResizeBbox(orig, tt.h, 5, 3); got != tt.want {
			t.Errorf("ResizeBbox(%q) = %v, want %v", tt.h, got, tt.want)
		}
	}
	// Dragging the west edge past the east edge flips the extent.
	flipped := ResizeBbox(orig, HandleW, 30, 0)
	if flipped.W() >= 0 {
		t.Fatalf("expected negative width, got %v", flipped)
	}
	if n := NormalizeBbox(flipped); n != (Bbox{30, 10, 10, 20}) {
		t.Fatalf("normalized flip = %v", n)
	}
}

func TestBboxFromPoints(t *testing.T) {
	got := BboxFromPoints([]Point{Pt(3, 9), Pt(-1, 2), Pt(5, 4)})
	if got != (Bbox{-1, 2, 6, 7}) {
		t.Fatalf("BboxFromPoints = %v", got)
	}
	if BboxFromPoints(nil) != (Bbox{}) {
		t.Fatal("empty input should give zero box")
	}
}
