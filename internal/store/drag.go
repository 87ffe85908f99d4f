package store

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/example/shineylabel/internal/annotation"
	"github.com/example/shineylabel/internal/geom"
	"github.com/example/shineylabel/internal/history"
	"github.com/example/shineylabel/internal/viewport"
)

type dragKind int

const (
	dragMove dragKind = iota
	dragResize
	dragVertex
)

// drag holds the reference state captured when a drag begins. Every update
// is computed from ref and start so repeated updates never drift.
type drag struct {
	kind   dragKind
	id     string
	ref    annotation.Annotation
	start  geom.Point
	handle geom.Handle
	vertex int
}

func (k dragKind) action() history.Action {
	switch k {
	case dragResize:
		return history.ActionResize
	case dragVertex:
		return history.ActionVertex
	}
	return history.ActionMove
}

func (s *Store) beginDrag(d drag) error {
	if err := s.requireIdle(); err != nil {
		return err
	}
	i, err := s.index(d.id)
	if err != nil {
		return err
	}
	d.ref = annotation.Clone(s.anns[i])
	switch d.kind {
	case dragResize:
		switch d.ref.Geometry.(type) {
		case annotation.Box:
			if d.handle == geom.HandleNone {
				return fmt.Errorf("resize without a handle: %w", ErrInvalidGeometry)
			}
		case annotation.Circle:
		default:
			return fmt.Errorf("cannot resize %s: %w", d.ref.Kind(), ErrInvalidGeometry)
		}
	case dragVertex:
		pts := annotation.Points(d.ref.Geometry)
		if d.vertex < 0 || d.vertex >= len(pts) {
			return fmt.Errorf("vertex %d: %w", d.vertex, ErrInvalidGeometry)
		}
	}
	s.drag = &d
	s.mode = ModeDragging
	s.emit(Event{Action: ActionDrag, AffectedIDs: []string{d.id}})
	return nil
}

// BeginMove starts translating an annotation from pointer position p.
func (s *Store) BeginMove(id string, p viewport.ImagePoint) error {
	return s.beginDrag(drag{kind: dragMove, id: id, start: p.Point()})
}

// BeginResize starts resizing a box by one of its handles, or a circle by its
// rim (the handle is ignored for circles).
func (s *Store) BeginResize(id string, h geom.Handle, p viewport.ImagePoint) error {
	return s.beginDrag(drag{kind: dragResize, id: id, handle: h, start: p.Point()})
}

// BeginVertexDrag starts moving one vertex of a polygon or polyline.
func (s *Store) BeginVertexDrag(id string, index int, p viewport.ImagePoint) error {
	return s.beginDrag(drag{kind: dragVertex, id: id, vertex: index, start: p.Point()})
}

// UpdateDrag recomputes the dragged geometry for pointer position p. Nothing
// is recorded in history.
func (s *Store) UpdateDrag(p viewport.ImagePoint) error {
	d, i, err := s.activeDrag()
	if err != nil {
		return err
	}
	s.anns[i].Geometry = d.apply(p.Point())
	s.emit(Event{Action: ActionDrag, AffectedIDs: []string{d.id}})
	return nil
}

func (d *drag) apply(p geom.Point) annotation.Geometry {
	dx, dy := p.X-d.start.X, p.Y-d.start.Y
	switch d.kind {
	case dragMove:
		return annotation.Translate(d.ref.Geometry, dx, dy)
	case dragResize:
		switch g := d.ref.Geometry.(type) {
		case annotation.Box:
			return annotation.Box{BBox: geom.ResizeBbox(g.BBox, d.handle, dx, dy)}
		case annotation.Circle:
			return annotation.Circle{Center: g.Center, Radius: geom.Distance(g.Center, p)}
		}
	case dragVertex:
		pts := slices.Clone(annotation.Points(d.ref.Geometry))
		pts[d.vertex] = pts[d.vertex].Add(geom.Pt(dx, dy))
		return annotation.WithPoints(d.ref.Geometry, pts)
	}
	return annotation.CloneGeometry(d.ref.Geometry)
}

// EndDrag commits the dragged geometry as a single history entry. Boxes are
// normalized. It reports false, recording nothing, when the geometry did not
// change.
func (s *Store) EndDrag() (bool, error) {
	d, i, err := s.activeDrag()
	if err != nil {
		return false, err
	}
	live := s.anns[i]
	s.anns[i] = d.ref
	s.drag = nil
	s.mode = ModeIdle

	g, ok := annotation.Validate(live.Geometry)
	if !ok {
		s.emit(Event{Action: ActionCancel, AffectedIDs: []string{d.id}})
		return false, fmt.Errorf("end drag %s: %w", d.id, ErrInvalidGeometry)
	}
	if reflect.DeepEqual(g, d.ref.Geometry) {
		s.emit(Event{Action: ActionCancel, AffectedIDs: []string{d.id}})
		return false, nil
	}
	live.Geometry = g
	next := annotation.CloneAll(s.anns)
	next[i] = live
	s.commit(d.kind.action(), next, d.id)
	return true, nil
}

// CancelDrag restores the geometry captured at the start of the drag. It does
// nothing when not dragging.
func (s *Store) CancelDrag() {
	d, i, err := s.activeDrag()
	if err != nil {
		return
	}
	s.anns[i] = d.ref
	s.drag = nil
	s.mode = ModeIdle
	s.emit(Event{Action: ActionCancel, AffectedIDs: []string{d.id}})
}

func (s *Store) activeDrag() (*drag, int, error) {
	if s.mode != ModeDragging || s.drag == nil {
		return nil, -1, fmt.Errorf("drag: %w", ErrNoInteraction)
	}
	i := annotation.Find(s.anns, s.drag.id)
	if i < 0 {
		// The annotation vanished under the drag; drop the drag.
		s.drag = nil
		s.mode = ModeIdle
		return nil, -1, fmt.Errorf("drag: %w", ErrNotFound)
	}
	return s.drag, i, nil
}
