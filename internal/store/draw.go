package store

import (
	"fmt"
	"slices"

	"github.com/example/shineylabel/internal/annotation"
	"github.com/example/shineylabel/internal/fit"
	"github.com/example/shineylabel/internal/geom"
	"github.com/example/shineylabel/internal/viewport"
)

// Shape selects what a draw produces.
type Shape string

const (
	ShapeBox      Shape = "bbox"
	ShapePolygon  Shape = "polygon"
	ShapePolyline Shape = "polyline"
	// ShapeCircle is drawn by pressing at the centre and dragging out the
	// radius.
	ShapeCircle Shape = "circle"
	// ShapeCircle3 is drawn by clicking three points on the rim.
	ShapeCircle3 Shape = "circle3"
)

// Shapes lists every drawable shape.
var Shapes = []Shape{ShapeBox, ShapePolygon, ShapePolyline, ShapeCircle, ShapeCircle3}

type draft struct {
	shape  Shape
	points []geom.Point
	cursor geom.Point
	square bool
}

// Draft describes the shape being drawn.
type Draft struct {
	Shape Shape
	// Geometry is what the draft would look like if committed now.
	Geometry annotation.Geometry
	// Points are the placed vertices; Cursor is the live pointer.
	Points []geom.Point
	Cursor geom.Point
}

func (s *Store) imagePoint(p viewport.ImagePoint) geom.Point {
	if s.imageW > 0 && s.imageH > 0 {
		p = viewport.ClampToImageBounds(p, s.imageW, s.imageH)
	}
	return p.Point()
}

// BeginDraw starts a new shape at p.
func (s *Store) BeginDraw(shape Shape, p viewport.ImagePoint) error {
	if err := s.requireImage(); err != nil {
		return err
	}
	if err := s.requireIdle(); err != nil {
		return err
	}
	if !slices.Contains(Shapes, shape) {
		return fmt.Errorf("draw %q: %w", shape, ErrInvalidGeometry)
	}
	pt := s.imagePoint(p)
	s.draft = &draft{shape: shape, points: []geom.Point{pt}, cursor: pt}
	s.mode = ModeDrawing
	s.emit(Event{Action: ActionDraw})
	return nil
}

// AddPoint places a vertex. Boxes and centre-drag circles only move their
// live corner. A three-point circle accepts at most three points.
func (s *Store) AddPoint(p viewport.ImagePoint) error {
	d, err := s.activeDraft()
	if err != nil {
		return err
	}
	pt := s.imagePoint(p)
	d.cursor = pt
	switch d.shape {
	case ShapePolygon, ShapePolyline:
		d.points = append(d.points, pt)
	case ShapeCircle3:
		if len(d.points) >= 3 {
			return fmt.Errorf("circle already has three points: %w", ErrInvalidGeometry)
		}
		d.points = append(d.points, pt)
	}
	s.emit(Event{Action: ActionDraw})
	return nil
}

// RemoveLastPoint drops the most recent vertex of a multi-click draft. The
// starting point is kept.
func (s *Store) RemoveLastPoint() error {
	d, err := s.activeDraft()
	if err != nil {
		return err
	}
	if len(d.points) > 1 {
		d.points = d.points[:len(d.points)-1]
		s.emit(Event{Action: ActionDraw})
	}
	return nil
}

// UpdateDraw moves the live pointer of the draft. square constrains boxes to
// equal sides.
func (s *Store) UpdateDraw(p viewport.ImagePoint, square bool) error {
	d, err := s.activeDraft()
	if err != nil {
		return err
	}
	d.cursor = s.imagePoint(p)
	d.square = square
	s.emit(Event{Action: ActionDraw})
	return nil
}

// DraftGeometry returns the preview geometry of the draft.
func (s *Store) DraftGeometry() (annotation.Geometry, bool) {
	if s.draft == nil {
		return nil, false
	}
	return s.draft.preview(), true
}

// Draft returns a copy of the draft.
func (s *Store) Draft() (Draft, bool) {
	if s.draft == nil {
		return Draft{}, false
	}
	d := s.draft
	return Draft{
		Shape:    d.shape,
		Geometry: d.preview(),
		Points:   slices.Clone(d.points),
		Cursor:   d.cursor,
	}, true
}

// CommitDraw turns the draft into an annotation, selects it and returns its
// ID. When the draft is not a valid shape yet (zero-size box, too few
// vertices, collinear circle points) the draft is left in place and
// ErrInvalidGeometry is returned.
func (s *Store) CommitDraw(classID, className string) (string, error) {
	d, err := s.activeDraft()
	if err != nil {
		return "", err
	}
	g, err := d.geometry()
	if err != nil {
		return "", fmt.Errorf("commit %s: %w", d.shape, err)
	}
	s.draft = nil
	s.mode = ModeIdle
	id, err := s.Create(annotation.Annotation{
		ImageID:   s.imageID,
		Geometry:  g,
		ClassID:   classID,
		ClassName: className,
		State:     annotation.StateDraft,
	})
	if err != nil {
		return "", err
	}
	if err := s.Select(id); err != nil {
		return "", err
	}
	return id, nil
}

// CancelDraw discards the draft. It does nothing when not drawing.
func (s *Store) CancelDraw() {
	if s.mode != ModeDrawing {
		return
	}
	s.draft = nil
	s.mode = ModeIdle
	s.emit(Event{Action: ActionCancel})
}

func (s *Store) activeDraft() (*draft, error) {
	if s.mode != ModeDrawing || s.draft == nil {
		return nil, fmt.Errorf("draw: %w", ErrNoInteraction)
	}
	return s.draft, nil
}

func (d *draft) box() geom.Bbox {
	if d.square {
		return fit.SquareFromDrag(d.points[0], d.cursor)
	}
	return fit.BoxFromDrag(d.points[0], d.cursor)
}

func (d *draft) preview() annotation.Geometry {
	pts := slices.Clone(d.points)
	switch d.shape {
	case ShapeBox:
		return annotation.Box{BBox: d.box()}
	case ShapeCircle:
		return annotation.Circle{Center: pts[0], Radius: geom.Distance(pts[0], d.cursor)}
	case ShapePolygon:
		return annotation.Polygon{Points: pts}
	case ShapePolyline:
		return annotation.Polyline{Points: pts}
	case ShapeCircle3:
		if len(pts) == 2 {
			pts = append(pts, d.cursor)
		}
		if len(pts) == 3 {
			if c, ok := fit.CircleFrom3Points(pts[0], pts[1], pts[2]); ok {
				return annotation.Circle{Center: c.Center, Radius: c.Radius}
			}
		}
		return annotation.Polyline{Points: slices.Clone(d.points)}
	}
	return nil
}

func (d *draft) geometry() (annotation.Geometry, error) {
	switch d.shape {
	case ShapeBox:
		b := d.box()
		if b.W() == 0 || b.H() == 0 {
			return nil, fmt.Errorf("empty box: %w", ErrInvalidGeometry)
		}
		return annotation.Box{BBox: b}, nil
	case ShapeCircle:
		r := geom.Distance(d.points[0], d.cursor)
		if r == 0 {
			return nil, fmt.Errorf("zero radius: %w", ErrInvalidGeometry)
		}
		return annotation.Circle{Center: d.points[0], Radius: r}, nil
	case ShapePolygon, ShapePolyline:
		k := annotation.Kind(d.shape)
		if len(d.points) < annotation.MinPoints(k) {
			return nil, fmt.Errorf("%s needs %d points: %w", k, annotation.MinPoints(k), ErrInvalidGeometry)
		}
		if d.shape == ShapePolygon {
			return annotation.Polygon{Points: slices.Clone(d.points)}, nil
		}
		return annotation.Polyline{Points: slices.Clone(d.points)}, nil
	case ShapeCircle3:
		if len(d.points) < 3 {
			return nil, fmt.Errorf("circle needs 3 points: %w", ErrInvalidGeometry)
		}
		c, ok := fit.CircleFrom3Points(d.points[0], d.points[1], d.points[2])
		if !ok {
			return nil, fmt.Errorf("points are collinear: %w", ErrInvalidGeometry)
		}
		return annotation.Circle{Center: c.Center, Radius: c.Radius}, nil
	}
	return nil, ErrInvalidGeometry
}
