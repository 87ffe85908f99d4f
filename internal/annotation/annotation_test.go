package annotation

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/example/shineylabel/internal/geom"
)

func decodeOne(t *testing.T, s string) Snapshot {
	t.Helper()
	var snap Snapshot
	if err := json.Unmarshal([]byte(s), &snap); err != nil {
		t.Fatalf("unmarshal %s: %v", s, err)
	}
	return snap
}

func TestFromSnapshotBoxShapes(t *testing.T) {
	tests := []struct {
		name string
		json string
		want geom.Bbox
	}{
		{"object", `{"annotation_type":"bbox","geometry":{"x":10,"y":20,"width":30,"height":40}}`, geom.Bbox{10, 20, 30, 40}},
		{"array", `{"annotation_type":"bbox","geometry":{"bbox":[1,2,3,4]}}`, geom.Bbox{1, 2, 3, 4}},
		{"short array", `{"annotation_type":"bbox","geometry":{"bbox":[5,6]}}`, geom.Bbox{5, 6, 0, 0}},
		{"missing fields", `{"annotation_type":"bbox","geometry":{"x":7}}`, geom.Bbox{7, 0, 0, 0}},
		{"no geometry", `{"annotation_type":"bbox"}`, geom.Bbox{}},
		{"garbage geometry", `{"annotation_type":"bbox","geometry":"nope"}`, geom.Bbox{}},
		{"string numbers", `{"annotation_type":"bbox","geometry":{"x":"1.5","y":2,"width":3,"height":4}}`, geom.Bbox{1.5, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := FromSnapshot(decodeOne(t, tt.json), "tmp")
			box, ok := a.Geometry.(Box)
			if !ok {
				t.Fatalf("geometry = %T, want Box", a.Geometry)
			}
			if box.BBox != tt.want {
				t.Errorf("bbox = %v, want %v", box.BBox, tt.want)
			}
			if a.ID != "tmp" {
				t.Errorf("ID = %q, want temp id", a.ID)
			}
		})
	}
}

func TestFromSnapshotDefaults(t *testing.T) {
	poly := FromSnapshot(decodeOne(t, `{"annotation_type":"polygon"}`), "t1")
	if p, ok := poly.Geometry.(Polygon); !ok || len(p.Points) != 0 {
		t.Errorf("polygon default = %#v", poly.Geometry)
	}
	line := FromSnapshot(decodeOne(t, `{"annotation_type":"polyline","geometry":{}}`), "t2")
	if p, ok := line.Geometry.(Polyline); !ok || len(p.Points) != 0 {
		t.Errorf("polyline default = %#v", line.Geometry)
	}
	circ := FromSnapshot(decodeOne(t, `{"annotation_type":"circle","geometry":{}}`), "t3")
	if c, ok := circ.Geometry.(Circle); !ok || c != (Circle{}) {
		t.Errorf("circle default = %#v", circ.Geometry)
	}
}

func TestFromSnapshotIDs(t *testing.T) {
	a := FromSnapshot(decodeOne(t, `{"id":42,"image_id":7,"class_id":3,"class_name":"cat","annotation_type":"circle","geometry":{"center":[1,2],"radius":3}}`), "tmp")
	if a.ID != "42" || a.ImageID != "7" || a.ClassID != "3" || a.ClassName != "cat" {
		t.Fatalf("unexpected ids %+v", a)
	}
	if c := a.Geometry.(Circle); c.Center != geom.Pt(1, 2) || c.Radius != 3 {
		t.Fatalf("circle = %+v", c)
	}
}

func TestUnknownKindPassesThrough(t *testing.T) {
	in := `{"id":"a","annotation_type":"keypoints","geometry":{"kp":[[1,2,0]]}}`
	a := FromSnapshot(decodeOne(t, in), "tmp")
	u, ok := a.Geometry.(Unknown)
	if !ok || u.Type != "keypoints" {
		t.Fatalf("geometry = %#v", a.Geometry)
	}
	out := ToSnapshot(a)
	if out.Type != "keypoints" || string(out.Geometry) != `{"kp":[[1,2,0]]}` {
		t.Fatalf("round trip lost data: %+v %s", out, out.Geometry)
	}
	if got := BoundsOf(a); got != (geom.Bbox{}) {
		t.Errorf("unknown bounds = %v", got)
	}
}

func TestToSnapshotBoxAsObject(t *testing.T) {
	a := Annotation{ID: "1", ImageID: "img", Geometry: Box{BBox: geom.Bbox{1, 2, 3, 4}}, ClassID: "9"}
	data, err := json.Marshal(ToSnapshot(a))
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, `"geometry":{"x":1,"y":2,"width":3,"height":4}`) {
		t.Errorf("box not written as object: %s", s)
	}
	if !strings.Contains(s, `"annotation_type":"bbox"`) || !strings.Contains(s, `"class_name":""`) {
		t.Errorf("missing envelope fields: %s", s)
	}
}

func TestSnapshotRoundTripShapes(t *testing.T) {
	conf := 0.75
	anns := []Annotation{
		{ID: "1", ImageID: "i", Geometry: Polygon{Points: []geom.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}}}, State: StateConfirmed},
		{ID: "2", ImageID: "i", Geometry: Polyline{Points: []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 5}}}, Confidence: &conf},
		{ID: "3", ImageID: "i", Geometry: Circle{Center: geom.Pt(3, 3), Radius: 2}, Attributes: map[string]any{"occluded": true}},
		{ID: "4", ImageID: "i", Geometry: Box{BBox: geom.Bbox{1, 1, 2, 2}}, ClassID: "5", ClassName: "dog"},
	}
	data, err := EncodeSnapshots(ToSnapshots(anns))
	if err != nil {
		t.Fatal(err)
	}
	snaps, err := DecodeSnapshots(data)
	if err != nil {
		t.Fatal(err)
	}
	got := FromSnapshots(snaps, nil)
	if !reflect.DeepEqual(got, anns) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", got, anns)
	}
}

func TestDecodeSnapshotsEnvelope(t *testing.T) {
	snaps, err := DecodeSnapshots([]byte(`{"annotations":[{"annotation_type":"bbox"}]}`))
	if err != nil || len(snaps) != 1 {
		t.Fatalf("got %v %v", snaps, err)
	}
	if _, err := DecodeSnapshots([]byte(`[{`)); err == nil {
		t.Fatal("expected error for truncated input")
	}
	n := 0
	anns := FromSnapshots([]Snapshot{{Type: "bbox"}, {ID: "x", Type: "bbox"}}, func() string {
		n++
		return "tmp-" + string(rune('0'+n))
	})
	if anns[0].ID != "tmp-1" || anns[1].ID != "x" || n != 1 {
		t.Fatalf("temp ids: %q %q (%d calls)", anns[0].ID, anns[1].ID, n)
	}
}

func TestIsVisible(t *testing.T) {
	draft := Annotation{ClassID: "1"}
	confirmed := Annotation{ClassID: "2", State: StateConfirmed}
	tests := []struct {
		name string
		a    Annotation
		f    Filters
		want bool
	}{
		{"no filters", draft, Filters{}, true},
		{"hidden class", draft, Filters{HiddenClasses: map[string]bool{"1": true}}, false},
		{"hidden class beats state", draft, Filters{HiddenClasses: map[string]bool{"1": true}, DraftsOnly: true}, false},
		{"drafts only keeps draft", draft, Filters{DraftsOnly: true}, true},
		{"drafts only drops confirmed", confirmed, Filters{DraftsOnly: true}, false},
		{"drafts only wins over state", draft, Filters{DraftsOnly: true, State: StateConfirmed}, true},
		{"state filter", confirmed, Filters{State: StateConfirmed}, true},
		{"state filter excludes", draft, Filters{State: StateConfirmed}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsVisible(tt.a, tt.f); got != tt.want {
				t.Errorf("IsVisible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortByZIndex(t *testing.T) {
	in := []Annotation{
		{ID: "c1", Geometry: Circle{}},
		{ID: "10", Geometry: Box{}},
		{ID: "9", Geometry: Box{}},
		{ID: "p", Geometry: Polygon{}},
		{ID: "n", Geometry: Unknown{Type: "no_object"}},
		{ID: "u", Geometry: Unknown{Type: "mystery"}},
		{ID: "l", Geometry: Polyline{}},
	}
	orig := CloneAll(in)

	ids := func(anns []Annotation) []string {
		var out []string
		for _, a := range anns {
			out = append(out, a.ID)
		}
		return out
	}

	got := ids(SortByZIndex(in, ""))
	want := []string{"u", "p", "9", "10", "l", "c1", "n"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}

	got = ids(SortByZIndex(in, "p"))
	want = []string{"u", "9", "10", "l", "c1", "n", "p"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("selected order = %v, want %v", got, want)
	}

	if !reflect.DeepEqual(in, orig) {
		t.Fatal("input was mutated")
	}
}

func TestBoundsOf(t *testing.T) {
	tests := []struct {
		g    Geometry
		want geom.Bbox
	}{
		{Box{BBox: geom.Bbox{1, 2, 3, 4}}, geom.Bbox{1, 2, 3, 4}},
		{Polygon{Points: []geom.Point{{X: 1, Y: 5}, {X: 4, Y: 2}, {X: 2, Y: 9}}}, geom.Bbox{1, 2, 3, 7}},
		{Polyline{Points: []geom.Point{{X: -1, Y: 0}, {X: 1, Y: 2}}}, geom.Bbox{-1, 0, 2, 2}},
		{Circle{Center: geom.Pt(10, 10), Radius: 3}, geom.Bbox{7, 7, 6, 6}},
		{Polygon{}, geom.Bbox{}},
		{nil, geom.Bbox{}},
	}
	for _, tt := range tests {
		if got := BoundsOf(Annotation{Geometry: tt.g}); got != tt.want {
			t.Errorf("BoundsOf(%#v) = %v, want %v", tt.g, got, tt.want)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	conf := 0.5
	a := Annotation{
		ID:         "1",
		Geometry:   Polygon{Points: []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 1}}},
		Attributes: map[string]any{"tags": []any{"a"}, "nested": map[string]any{"k": 1.0}},
		Confidence: &conf,
	}
	b := Clone(a)
	b.Geometry.(Polygon).Points[0] = geom.Pt(99, 99)
	b.Attributes["tags"].([]any)[0] = "changed"
	b.Attributes["nested"].(map[string]any)["k"] = 2.0
	*b.Confidence = 0.9

	if a.Geometry.(Polygon).Points[0] != geom.Pt(1, 1) {
		t.Error("points shared")
	}
	if a.Attributes["tags"].([]any)[0] != "a" || a.Attributes["nested"].(map[string]any)["k"] != 1.0 {
		t.Error("attributes shared")
	}
	if *a.Confidence != 0.5 {
		t.Error("confidence shared")
	}
}

func TestValidate(t *testing.T) {
	g, ok := Validate(Box{BBox: geom.Bbox{10, 10, -5, -5}})
	if !ok || g.(Box).BBox != (geom.Bbox{5, 5, 5, 5}) {
		t.Fatalf("box = %v ok=%v", g, ok)
	}
	tests := []struct {
		g    Geometry
		want bool
	}{
		{Polygon{Points: []geom.Point{{}, {X: 1}}}, false},
		{Polygon{Points: []geom.Point{{}, {X: 1}, {Y: 1}}}, true},
		{Polyline{Points: []geom.Point{{}}}, false},
		{Polyline{Points: []geom.Point{{}, {X: 1}}}, true},
		{Circle{Radius: -1}, false},
		{Circle{Radius: 0}, true},
		{Circle{Center: geom.Pt(math.NaN(), 0), Radius: 1}, false},
		{Unknown{Type: "no_object"}, true},
		{nil, false},
	}
	for _, tt := range tests {
		if _, ok := Validate(tt.g); ok != tt.want {
			t.Errorf("Validate(%#v) = %v, want %v", tt.g, ok, tt.want)
		}
	}
}

func TestContains(t *testing.T) {
	tri := Polygon{Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}}
	line := Polyline{Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}}
	circ := Circle{Center: geom.Pt(0, 0), Radius: 5}
	tests := []struct {
		name string
		g    Geometry
		p    geom.Point
		want bool
	}{
		{"box inside", Box{BBox: geom.Bbox{0, 0, 5, 5}}, geom.Pt(5, 5), true},
		{"negative box", Box{BBox: geom.Bbox{5, 5, -5, -5}}, geom.Pt(1, 1), true},
		{"polygon inside", tri, geom.Pt(2, 2), true},
		{"polygon near edge", tri, geom.Pt(5, -1), true},
		{"polygon outside", tri, geom.Pt(8, 8), false},
		{"polyline near", line, geom.Pt(5, 1.5), true},
		{"polyline far", line, geom.Pt(5, 3), false},
		{"circle inside", circ, geom.Pt(1, 1), true},
		{"circle rim", circ, geom.Pt(6, 0), true},
		{"circle outside", circ, geom.Pt(8, 0), false},
		{"unknown", Unknown{Type: "x"}, geom.Pt(0, 0), false},
	}
	for _, tt := range tests {
		if got := Contains(tt.g, tt.p, 2); got != tt.want {
			t.Errorf("%s: Contains = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAreaAndCenter(t *testing.T) {
	if got := Area(Circle{Radius: 2}); math.Abs(got-4*math.Pi) > 1e-12 {
		t.Errorf("circle area = %v", got)
	}
	if got := Area(Polyline{Points: []geom.Point{{}, {X: 3}}}); got != 0 {
		t.Errorf("polyline area = %v", got)
	}
	if got := Center(Box{BBox: geom.Bbox{10, 10, -4, -2}}); got != geom.Pt(8, 9) {
		t.Errorf("box center = %v", got)
	}
}

func TestTranslate(t *testing.T) {
	orig := Polygon{Points: []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}}}
	moved := Translate(orig, 3, -1).(Polygon)
	if moved.Points[0] != geom.Pt(4, 0) || orig.Points[0] != geom.Pt(1, 1) {
		t.Fatalf("translate = %v, original %v", moved.Points, orig.Points)
	}
	if c := Translate(Circle{Center: geom.Pt(1, 1), Radius: 2}, 1, 1).(Circle); c.Center != geom.Pt(2, 2) || c.Radius != 2 {
		t.Fatalf("circle translate = %+v", c)
	}
}
