package annotation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/example/shineylabel/internal/geom"
)

// FlexID is an identifier that may arrive as a JSON string or number. It is
// always written back as a string, or null when empty.
type FlexID string

// UnmarshalJSON accepts strings, numbers and null.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*f = FlexID(n.String())
	return nil
}

// MarshalJSON writes the ID as a string.
func (f FlexID) MarshalJSON() ([]byte, error) {
	if f == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(f))
}

// Snapshot is the wire form of one annotation.
type Snapshot struct {
	ID         FlexID          `json:"id,omitempty"`
	ImageID    FlexID          `json:"image_id"`
	Type       string          `json:"annotation_type"`
	ClassID    FlexID          `json:"class_id"`
	ClassName  string          `json:"class_name"`
	Geometry   json.RawMessage `json:"geometry,omitempty"`
	Attributes map[string]any  `json:"attributes,omitempty"`
	Confidence *float64        `json:"confidence,omitempty"`
	State      string          `json:"annotation_state,omitempty"`
}

// FromSnapshot converts a wire snapshot. Malformed or missing geometry fields
// become zero values; it never fails. tempID is used when the snapshot has no
// ID of its own.
func FromSnapshot(raw Snapshot, tempID string) Annotation {
	id := string(raw.ID)
	if id == "" {
		id = tempID
	}
	fields := decodeObject(raw.Geometry)
	typ := raw.Type
	if typ == "" {
		if s, ok := fields["type"].(string); ok {
			typ = s
		}
	}
	a := Annotation{
		ID:         id,
		ImageID:    string(raw.ImageID),
		Geometry:   geometryFromFields(Kind(typ), fields, raw.Geometry),
		ClassID:    string(raw.ClassID),
		ClassName:  raw.ClassName,
		Attributes: raw.Attributes,
		Confidence: raw.Confidence,
		State:      State(raw.State),
	}
	return Clone(a)
}

func geometryFromFields(k Kind, f map[string]any, raw json.RawMessage) Geometry {
	switch k {
	case KindBox:
		if arr, ok := f["bbox"].([]any); ok {
			return Box{BBox: geom.Bbox{index(arr, 0), index(arr, 1), index(arr, 2), index(arr, 3)}}
		}
		return Box{BBox: geom.Bbox{num(f["x"]), num(f["y"]), num(f["width"]), num(f["height"])}}
	case KindPolygon:
		return Polygon{Points: pointsOf(f["points"])}
	case KindPolyline:
		return Polyline{Points: pointsOf(f["points"])}
	case KindCircle:
		return Circle{Center: pointOf(f["center"]), Radius: num(f["radius"])}
	}
	return Unknown{Type: string(k), Raw: append(json.RawMessage(nil), raw...)}
}

func decodeObject(raw json.RawMessage) map[string]any {
	var m map[string]any
	if len(raw) == 0 || json.Unmarshal(raw, &m) != nil || m == nil {
		return map[string]any{}
	}
	return m
}

func num(v any) float64 {
	switch v := v.(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return 0
}

func index(arr []any, i int) float64 {
	if i < len(arr) {
		return num(arr[i])
	}
	return 0
}

// pointOf reads [x, y] or {"x": .., "y": ..}.
func pointOf(v any) geom.Point {
	switch v := v.(type) {
	case []any:
		return geom.Point{X: index(v, 0), Y: index(v, 1)}
	case map[string]any:
		return geom.Point{X: num(v["x"]), Y: num(v["y"])}
	}
	return geom.Point{}
}

func pointsOf(v any) []geom.Point {
	arr, ok := v.([]any)
	if !ok {
		return []geom.Point{}
	}
	out := make([]geom.Point, 0, len(arr))
	for _, p := range arr {
		out = append(out, pointOf(p))
	}
	return out
}

type boxWire struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type pointsWire struct {
	Points [][2]float64 `json:"points"`
}

type circleWire struct {
	Center [2]float64 `json:"center"`
	Radius float64    `json:"radius"`
}

// ToSnapshot converts a to its wire form. Boxes are written as
// {x, y, width, height}.
func ToSnapshot(a Annotation) Snapshot {
	a = Clone(a)
	s := Snapshot{
		ID:         FlexID(a.ID),
		ImageID:    FlexID(a.ImageID),
		Type:       string(a.Kind()),
		ClassID:    FlexID(a.ClassID),
		ClassName:  a.ClassName,
		Attributes: a.Attributes,
		Confidence: a.Confidence,
		State:      string(a.State),
	}
	var v any
	switch g := a.Geometry.(type) {
	case Box:
		v = boxWire{X: g.BBox[0], Y: g.BBox[1], Width: g.BBox[2], Height: g.BBox[3]}
	case Polygon:
		v = pointsWire{Points: pairs(g.Points)}
	case Polyline:
		v = pointsWire{Points: pairs(g.Points)}
	case Circle:
		v = circleWire{Center: [2]float64{g.Center.X, g.Center.Y}, Radius: g.Radius}
	case Unknown:
		s.Geometry = g.Raw
		return s
	default:
		return s
	}
	// The wire structs hold only floats; encoding cannot fail.
	s.Geometry, _ = json.Marshal(v)
	return s
}

func pairs(pts []geom.Point) [][2]float64 {
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

// DecodeSnapshots reads either a JSON array of snapshots or an object with an
// "annotations" array.
func DecodeSnapshots(data []byte) ([]Snapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		var list []Snapshot
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode snapshots: %w", err)
		}
		return list, nil
	}
	var doc struct {
		Annotations []Snapshot `json:"annotations"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshots: %w", err)
	}
	return doc.Annotations, nil
}

// EncodeSnapshots writes snapshots as an indented JSON array.
func EncodeSnapshots(snaps []Snapshot) ([]byte, error) {
	if snaps == nil {
		snaps = []Snapshot{}
	}
	return json.MarshalIndent(snaps, "", "  ")
}

// FromSnapshots converts a list, drawing IDs from tempID for entries without
// one.
func FromSnapshots(snaps []Snapshot, tempID func() string) []Annotation {
	out := make([]Annotation, 0, len(snaps))
	for _, s := range snaps {
		id := ""
		if s.ID == "" && tempID != nil {
			id = tempID()
		}
		out = append(out, FromSnapshot(s, id))
	}
	return out
}

// ToSnapshots converts a list.
func ToSnapshots(anns []Annotation) []Snapshot {
	out := make([]Snapshot, len(anns))
	for i, a := range anns {
		out[i] = ToSnapshot(a)
	}
	return out
}
