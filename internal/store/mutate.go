package store

import (
	"fmt"
	"slices"

	"github.com/example/shineylabel/internal/annotation"
	"github.com/example/shineylabel/internal/fit"
	"github.com/example/shineylabel/internal/history"
	"github.com/example/shineylabel/internal/viewport"
)

// commit records the current set, installs next and notifies subscribers.
func (s *Store) commit(action history.Action, next []annotation.Annotation, affected ...string) {
	s.hist.Record(s.anns, action, affected...)
	s.anns = next
	s.dropMissingSelection()
	s.emit(Event{Action: Action(action), AffectedIDs: affected})
}

// prepare checks a for the active image, fills in defaults and validates its
// geometry.
func (s *Store) prepare(a annotation.Annotation) (annotation.Annotation, error) {
	if err := s.requireImage(); err != nil {
		return a, err
	}
	a = annotation.Clone(a)
	if a.ImageID == "" {
		a.ImageID = s.imageID
	}
	if a.ImageID != s.imageID {
		return a, fmt.Errorf("%s: %w", a.ImageID, ErrImageMismatch)
	}
	g, ok := annotation.Validate(a.Geometry)
	if !ok {
		return a, fmt.Errorf("%s: %w", a.Kind(), ErrInvalidGeometry)
	}
	a.Geometry = g
	return a, nil
}

// Create adds a and returns its ID. A missing ID is generated.
func (s *Store) Create(a annotation.Annotation) (string, error) {
	if err := s.requireIdle(); err != nil {
		return "", err
	}
	a, err := s.prepare(a)
	if err != nil {
		return "", fmt.Errorf("create: %w", err)
	}
	if a.ID == "" {
		a.ID = s.nextID()
	} else if annotation.Find(s.anns, a.ID) >= 0 {
		return "", fmt.Errorf("create %s: %w", a.ID, ErrDuplicateID)
	}
	if a.State == "" {
		a.State = annotation.StateDraft
	}
	// A reused ID starts visible.
	delete(s.hidden, a.ID)
	next := append(annotation.CloneAll(s.anns), a)
	s.commit(history.ActionCreate, next, a.ID)
	return a.ID, nil
}

// Update replaces the annotation with the same ID as a.
func (s *Store) Update(a annotation.Annotation) error {
	if err := s.requireIdle(); err != nil {
		return err
	}
	i, err := s.index(a.ID)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	a, err = s.prepare(a)
	if err != nil {
		return fmt.Errorf("update %s: %w", a.ID, err)
	}
	next := annotation.CloneAll(s.anns)
	next[i] = a
	s.commit(history.ActionUpdate, next, a.ID)
	return nil
}

// modify applies fn to a copy of one annotation and commits the result when
// its geometry is still valid.
func (s *Store) modify(id string, action history.Action, fn func(*annotation.Annotation) error) error {
	if err := s.requireIdle(); err != nil {
		return err
	}
	i, err := s.index(id)
	if err != nil {
		return err
	}
	a := annotation.Clone(s.anns[i])
	if err := fn(&a); err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	a, err = s.prepare(a)
	if err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	next := annotation.CloneAll(s.anns)
	next[i] = a
	s.commit(action, next, id)
	return nil
}

// Delete removes the given annotations as one undoable step. Nothing is
// removed if any id is unknown. Hidden flags are kept so undo restores the
// annotations as they were shown.
func (s *Store) Delete(targets ...string) error {
	if err := s.requireIdle(); err != nil {
		return err
	}
	if len(targets) == 0 {
		return nil
	}
	drop := map[string]bool{}
	for _, id := range targets {
		if _, err := s.index(id); err != nil {
			return fmt.Errorf("delete: %w", err)
		}
		drop[id] = true
	}
	next := make([]annotation.Annotation, 0, len(s.anns))
	for _, a := range s.anns {
		if !drop[a.ID] {
			next = append(next, annotation.Clone(a))
		}
	}
	s.commit(history.ActionDelete, next, targets...)
	return nil
}

// Clear removes every annotation as one undoable step. Clearing an empty set
// records nothing.
func (s *Store) Clear() error {
	if err := s.requireIdle(); err != nil {
		return err
	}
	if len(s.anns) == 0 {
		return nil
	}
	affected := ids(s.anns)
	s.commit(history.ActionClear, []annotation.Annotation{}, affected...)
	return nil
}

// InsertVertex inserts p after vertex index after of a polygon or polyline and
// returns the new vertex index.
func (s *Store) InsertVertex(id string, after int, p viewport.ImagePoint) (int, error) {
	var at int
	err := s.modify(id, history.ActionVertex, func(a *annotation.Annotation) error {
		pts := annotation.Points(a.Geometry)
		if pts == nil || after < 0 || after >= len(pts) {
			return fmt.Errorf("insert vertex %d: %w", after, ErrInvalidGeometry)
		}
		at = after + 1
		a.Geometry = annotation.WithPoints(a.Geometry, slices.Insert(slices.Clone(pts), at, p.Point()))
		return nil
	})
	if err != nil {
		return -1, fmt.Errorf("insert vertex: %w", err)
	}
	return at, nil
}

// DeleteVertex removes one vertex. A polygon keeps at least three vertices and
// a polyline at least two.
func (s *Store) DeleteVertex(id string, index int) error {
	err := s.modify(id, history.ActionVertex, func(a *annotation.Annotation) error {
		pts := annotation.Points(a.Geometry)
		if pts == nil || index < 0 || index >= len(pts) {
			return fmt.Errorf("vertex %d: %w", index, ErrInvalidGeometry)
		}
		if len(pts)-1 < annotation.MinPoints(a.Kind()) {
			return fmt.Errorf("%s needs %d vertices: %w", a.Kind(), annotation.MinPoints(a.Kind()), ErrInvalidGeometry)
		}
		a.Geometry = annotation.WithPoints(a.Geometry, slices.Delete(slices.Clone(pts), index, index+1))
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete vertex: %w", err)
	}
	return nil
}

// SetClass changes the label of an annotation.
func (s *Store) SetClass(id, classID, className string) error {
	return s.modify(id, history.ActionUpdate, func(a *annotation.Annotation) error {
		a.ClassID, a.ClassName = classID, className
		return nil
	})
}

// SetState changes the review state of an annotation.
func (s *Store) SetState(id string, st annotation.State) error {
	return s.modify(id, history.ActionUpdate, func(a *annotation.Annotation) error {
		if st != annotation.StateDraft && st != annotation.StateConfirmed {
			return fmt.Errorf("unknown state %q", st)
		}
		a.State = st
		return nil
	})
}

// ConvertToCircle replaces a polygon or polyline with the circle that best
// fits its vertices.
func (s *Store) ConvertToCircle(id string) error {
	return s.modify(id, history.ActionConvert, func(a *annotation.Annotation) error {
		pts := annotation.Points(a.Geometry)
		if pts == nil {
			return fmt.Errorf("%s has no vertices: %w", a.Kind(), ErrInvalidGeometry)
		}
		c, ok := fit.FitCircle(pts)
		if !ok {
			return fmt.Errorf("no circle fits: %w", ErrInvalidGeometry)
		}
		a.Geometry = annotation.Circle{Center: c.Center, Radius: c.Radius}
		return nil
	})
}

// Undo restores the set as it was before the last committed change. Any draw
// or drag in progress is cancelled first. It reports whether anything changed.
func (s *Store) Undo() bool {
	s.abortInteraction()
	prev, ok := s.hist.Undo(s.anns)
	if !ok {
		return false
	}
	s.restore(prev, ActionUndo)
	return true
}

// Redo re-applies the last undone change.
func (s *Store) Redo() bool {
	s.abortInteraction()
	next, ok := s.hist.Redo(s.anns)
	if !ok {
		return false
	}
	s.restore(next, ActionRedo)
	return true
}

func (s *Store) restore(anns []annotation.Annotation, action Action) {
	s.anns = anns
	s.dropMissingSelection()
	s.emit(Event{Action: action, AffectedIDs: ids(anns)})
}

// abortInteraction cancels a live draw or drag without touching history.
func (s *Store) abortInteraction() {
	switch s.mode {
	case ModeDrawing:
		s.CancelDraw()
	case ModeDragging:
		s.CancelDrag()
	}
}
