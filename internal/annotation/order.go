package annotation

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/example/shineylabel/internal/geom"
)

// Paint priority; lower values are drawn first. Kinds not listed sort at 0.
var kindPriority = map[Kind]int{
	KindPolygon:  1,
	KindBox:      2,
	KindPolyline: 3,
	KindCircle:   4,
	KindNoObject: 5,
}

// SortByZIndex returns anns in paint order, bottom first: by kind priority,
// then by ID. The annotation with selectedID, if present, is moved to the end.
// The input slice is not modified.
func SortByZIndex(anns []Annotation, selectedID string) []Annotation {
	out := slices.Clone(anns)
	slices.SortStableFunc(out, func(a, b Annotation) int {
		if c := cmp.Compare(kindPriority[a.Kind()], kindPriority[b.Kind()]); c != 0 {
			return c
		}
		return compareIDs(a.ID, b.ID)
	})
	if selectedID == "" {
		return out
	}
	if i := Find(out, selectedID); i >= 0 {
		sel := out[i]
		out = append(out[:i], out[i+1:]...)
		out = append(out, sel)
	}
	return out
}

// compareIDs orders numeric IDs by value and everything else lexically, with
// numbers before other strings.
func compareIDs(a, b string) int {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return cmp.Compare(a, b)
}

// BoundsOf returns the enclosing box of a's geometry.
func BoundsOf(a Annotation) geom.Bbox {
	return Bounds(a.Geometry)
}
