package store

import (
	"github.com/example/shineylabel/internal/annotation"
	"github.com/example/shineylabel/internal/geom"
	"github.com/example/shineylabel/internal/viewport"
)

// IsVisible reports whether id is shown: the global toggle is on and id is
// not individually hidden.
func (s *Store) IsVisible(id string) bool {
	return s.showAll && !s.hidden[id]
}

// AllVisible reports the state of the global toggle.
func (s *Store) AllVisible() bool { return s.showAll }

// ToggleVisibility hides or shows one annotation.
func (s *Store) ToggleVisibility(id string) error {
	if _, err := s.index(id); err != nil {
		return err
	}
	if s.hidden[id] {
		delete(s.hidden, id)
	} else {
		s.hidden[id] = true
	}
	s.emit(Event{Action: ActionVisibility, AffectedIDs: []string{id}})
	return nil
}

// ToggleAllVisibility flips the global show toggle. Individually hidden
// annotations stay hidden when it is turned back on.
func (s *Store) ToggleAllVisibility() {
	s.showAll = !s.showAll
	s.emit(Event{Action: ActionVisibility})
}

// SetFilters replaces the class and state filters.
func (s *Store) SetFilters(f annotation.Filters) {
	s.filters = f
	s.emit(Event{Action: ActionVisibility})
}

// Filters returns the current filters.
func (s *Store) Filters() annotation.Filters { return s.filters }

// Painted returns copies of the visible annotations in paint order, bottom
// first, with the selection on top.
func (s *Store) Painted() []annotation.Annotation {
	var vis []annotation.Annotation
	for _, a := range s.anns {
		if s.IsVisible(a.ID) && annotation.IsVisible(a, s.filters) {
			vis = append(vis, annotation.Clone(a))
		}
	}
	return annotation.SortByZIndex(vis, s.selected)
}

// AnnotationAt returns the topmost visible annotation under p. tol is in
// surface pixels and is scaled to image space by the current zoom.
func (s *Store) AnnotationAt(p viewport.ImagePoint, tol float64) (string, bool) {
	painted := s.Painted()
	imgTol := tol / s.zoom
	for i := len(painted) - 1; i >= 0; i-- {
		if annotation.Contains(painted[i].Geometry, p.Point(), imgTol) {
			return painted[i].ID, true
		}
	}
	return "", false
}

// HitTolerance returns the configured outline tolerance in surface pixels.
func (s *Store) HitTolerance() float64 { return s.hitTolerance }

// HandleAt returns the resize handle of box id under the surface point p.
// The test runs in surface space so grips keep their on-screen size at any
// zoom.
func (s *Store) HandleAt(id string, p viewport.SurfacePoint) geom.Handle {
	i := annotation.Find(s.anns, id)
	if i < 0 {
		return geom.HandleNone
	}
	box, ok := s.anns[i].Geometry.(annotation.Box)
	if !ok {
		return geom.HandleNone
	}
	return geom.HandleAt(p.Point(), s.surfaceBox(geom.NormalizeBbox(box.BBox)), s.handleSize)
}

// HandleSize returns the grip size in surface pixels.
func (s *Store) HandleSize() float64 { return s.handleSize }

func (s *Store) surfaceBox(b geom.Bbox) geom.Bbox {
	m := viewport.ImageToSurfaceMatrix(s.Params())
	pts := m.ApplyAll([]geom.Point{{X: b[0], Y: b[1]}, {X: b[0] + b[2], Y: b[1] + b[3]}})
	return geom.Bbox{pts[0].X, pts[0].Y, pts[1].X - pts[0].X, pts[1].Y - pts[0].Y}
}

// VertexAt returns the first vertex of polygon or polyline id within one
// handle size of the surface point p.
func (s *Store) VertexAt(id string, p viewport.SurfacePoint) (int, bool) {
	i := annotation.Find(s.anns, id)
	if i < 0 {
		return -1, false
	}
	pts := annotation.Points(s.anns[i].Geometry)
	if len(pts) == 0 {
		return -1, false
	}
	m := viewport.ImageToSurfaceMatrix(s.Params())
	return geom.NearestVertex(p.Point(), m.ApplyAll(pts), s.handleSize)
}

// EdgeAt finds the edge of polygon or polyline id near p, with the projected
// point in image coordinates. Polygons include the closing edge.
func (s *Store) EdgeAt(id string, p viewport.ImagePoint) (geom.EdgeHit, bool) {
	i := annotation.Find(s.anns, id)
	if i < 0 {
		return geom.EdgeHit{}, false
	}
	threshold := s.edgeThreshold / s.zoom
	switch g := s.anns[i].Geometry.(type) {
	case annotation.Polygon:
		return geom.PointOnEdge(p.Point(), g.Points, threshold)
	case annotation.Polyline:
		return geom.PointOnPath(p.Point(), g.Points, threshold)
	}
	return geom.EdgeHit{}, false
}

// ClosesDraft reports whether a click at p would close the polygon being
// drawn: it has at least three vertices and p is on the first one.
func (s *Store) ClosesDraft(p viewport.SurfacePoint) bool {
	d := s.draft
	if s.mode != ModeDrawing || d == nil || d.shape != ShapePolygon || len(d.points) < 3 {
		return false
	}
	first := viewport.ImageToSurface(viewport.ImagePoint(d.points[0]), s.Params())
	return geom.Distance(first.Point(), p.Point()) <= s.handleSize
}
