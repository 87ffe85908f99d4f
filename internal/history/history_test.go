package history

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/example/shineylabel/internal/annotation"
	"github.com/example/shineylabel/internal/geom"
)

func box(id string) annotation.Annotation {
	return annotation.Annotation{ID: id, ImageID: "img", Geometry: annotation.Box{BBox: geom.Bbox{1, 2, 3, 4}}}
}

// create simulates a store commit: record the pre-state, then append.
func create(h *History, set []annotation.Annotation, id string) []annotation.Annotation {
	h.Record(set, ActionCreate, id)
	return append(annotation.CloneAll(set), box(id))
}

func TestUndoRedoRoundTrip(t *testing.T) {
	h := New(10)
	var set []annotation.Annotation
	set = create(h, set, "a")
	after := annotation.CloneAll(set)

	set, ok := h.Undo(set)
	if !ok || len(set) != 0 {
		t.Fatalf("undo = %v, %v", set, ok)
	}
	set, ok = h.Redo(set)
	if !ok || !reflect.DeepEqual(set, after) {
		t.Fatalf("redo = %v, want %v", set, after)
	}
	if h.CanRedo() || !h.CanUndo() {
		t.Fatal("stack flags wrong after redo")
	}
}

func TestEmptyStacksAreNoOps(t *testing.T) {
	h := New(0)
	if h.Capacity() != DefaultCapacity {
		t.Fatalf("capacity = %d", h.Capacity())
	}
	if _, ok := h.Undo(nil); ok {
		t.Fatal("undo on empty history")
	}
	if _, ok := h.Redo(nil); ok {
		t.Fatal("redo on empty history")
	}
}

func TestRecordClearsFuture(t *testing.T) {
	h := New(10)
	var set []annotation.Annotation
	set = create(h, set, "a")
	set = create(h, set, "b")
	set, _ = h.Undo(set)
	if h.FutureLen() != 1 {
		t.Fatalf("future = %d", h.FutureLen())
	}
	create(h, set, "c")
	if h.CanRedo() {
		t.Fatal("new mutation must clear redo")
	}
}

func TestCapacityEviction(t *testing.T) {
	h := New(50)
	var set []annotation.Annotation
	for i := 0; i < 52; i++ {
		set = create(h, set, strconv.Itoa(i))
	}
	if h.PastLen() != 50 {
		t.Fatalf("past = %d, want 50", h.PastLen())
	}

	for i := 0; i < 50; i++ {
		var ok bool
		set, ok = h.Undo(set)
		if !ok {
			t.Fatalf("undo %d failed", i+1)
		}
	}
	// The two oldest states (0 and 1 annotations) were evicted.
	if len(set) != 2 {
		t.Fatalf("oldest retained state has %d annotations, want 2", len(set))
	}
	again, ok := h.Undo(set)
	if ok || again != nil {
		t.Fatal("51st undo must be a no-op")
	}
	if h.FutureLen() != 50 {
		t.Fatalf("future = %d, want 50", h.FutureLen())
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	h := New(5)
	set := []annotation.Annotation{{ID: "p", Geometry: annotation.Polygon{Points: []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 1}}}}}
	h.Record(set, ActionVertex, "p")
	set[0].Geometry.(annotation.Polygon).Points[0] = geom.Pt(50, 50)

	prev, ok := h.Undo(set)
	if !ok {
		t.Fatal("undo failed")
	}
	if got := prev[0].Geometry.(annotation.Polygon).Points[0]; got != geom.Pt(1, 1) {
		t.Fatalf("snapshot shares memory with live set: %v", got)
	}
	prev[0].Geometry.(annotation.Polygon).Points[1] = geom.Pt(70, 70)
	next, _ := h.Redo(prev)
	if got := next[0].Geometry.(annotation.Polygon).Points[0]; got != geom.Pt(50, 50) {
		t.Fatalf("redo state = %v", got)
	}
}

func TestPeekAndClear(t *testing.T) {
	h := New(5)
	h.Record(nil, ActionDelete, "x", "y")
	snap, ok := h.Peek()
	if !ok || snap.Action != ActionDelete || !reflect.DeepEqual(snap.AffectedIDs, []string{"x", "y"}) {
		t.Fatalf("peek = %+v %v", snap, ok)
	}
	if snap.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Fatal("clear left entries")
	}
}
