package store

import (
	"slices"

	"github.com/example/shineylabel/internal/annotation"
	"github.com/example/shineylabel/internal/geom"
	"github.com/example/shineylabel/internal/viewport"
)

// Action names what an Event reports. Committed changes use the same names
// as history entries.
type Action string

const (
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionClear      Action = "clear"
	ActionMove       Action = "move"
	ActionResize     Action = "resize"
	ActionVertex     Action = "vertex"
	ActionConvert    Action = "convert"
	ActionUndo       Action = "undo"
	ActionRedo       Action = "redo"
	ActionReset      Action = "reset"
	ActionLoad       Action = "load"
	ActionSelect     Action = "select"
	ActionVisibility Action = "visibility"
	ActionView       Action = "view"
	ActionDraw       Action = "draw"
	ActionDrag       Action = "drag"
	ActionCancel     Action = "cancel"
)

// Event describes one change to the store. A zero Event means nothing
// changed.
type Event struct {
	Action      Action
	AffectedIDs []string
}

// Committed reports whether the event came from a change recorded in history
// or from undo and redo.
func (e Event) Committed() bool {
	switch e.Action {
	case ActionCreate, ActionUpdate, ActionDelete, ActionClear, ActionMove,
		ActionResize, ActionVertex, ActionConvert, ActionUndo, ActionRedo:
		return true
	}
	return false
}

type listener struct {
	id int
	fn func(Event)
}

// Subscribe registers fn to run after every change. Listeners run in the
// order they subscribed. The returned function removes fn.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	id := s.nextListener
	s.nextListener++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() {
		s.listeners = slices.DeleteFunc(s.listeners, func(l listener) bool { return l.id == id })
	}
}

func (s *Store) emit(e Event) {
	s.last = e
	if e.Committed() {
		s.lastCommit = e
	}
	for _, l := range slices.Clone(s.listeners) {
		l.fn(e)
	}
}

// Command is a request applied with Dispatch.
type Command interface {
	apply(s *Store) error
}

// Dispatch applies cmd and returns the event it produced. When cmd emits
// several events, the last committed one wins over follow-up events such as
// the selection of a newly drawn shape.
func (s *Store) Dispatch(cmd Command) (Event, error) {
	s.last, s.lastCommit = Event{}, Event{}
	err := cmd.apply(s)
	if s.lastCommit.Action != "" {
		return s.lastCommit, err
	}
	return s.last, err
}

// Commands. Each mirrors the Store method of the same name.
type (
	SetActive struct{ ImageID, TaskID string }
	Load      struct{ Annotations []annotation.Annotation }
	Create    struct{ Annotation annotation.Annotation }
	Update    struct{ Annotation annotation.Annotation }
	Delete    struct{ IDs []string }
	Clear     struct{}
	Undo      struct{}
	Redo      struct{}
	Select    struct{ ID string }

	ToggleVisibility    struct{ ID string }
	ToggleAllVisibility struct{}
	SetFilters          struct{ Filters annotation.Filters }

	SetZoom struct{ Zoom float64 }
	ZoomBy  struct {
		Factor float64
		Anchor viewport.SurfacePoint
	}
	SetPan         struct{ Pan geom.Point }
	PanBy          struct{ DX, DY float64 }
	SetImageSize   struct{ Width, Height float64 }
	SetSurfaceSize struct{ Width, Height float64 }
	FitToSurface   struct{ Margin float64 }

	BeginDraw struct {
		Shape Shape
		Point viewport.ImagePoint
	}
	AddPoint        struct{ Point viewport.ImagePoint }
	RemoveLastPoint struct{}
	UpdateDraw      struct {
		Point  viewport.ImagePoint
		Square bool
	}
	CommitDraw struct{ ClassID, ClassName string }
	CancelDraw struct{}

	BeginMove struct {
		ID    string
		Point viewport.ImagePoint
	}
	BeginResize struct {
		ID     string
		Handle geom.Handle
		Point  viewport.ImagePoint
	}
	BeginVertexDrag struct {
		ID    string
		Index int
		Point viewport.ImagePoint
	}
	UpdateDrag struct{ Point viewport.ImagePoint }
	EndDrag    struct{}
	CancelDrag struct{}

	InsertVertex struct {
		ID    string
		After int
		Point viewport.ImagePoint
	}
	DeleteVertex struct {
		ID    string
		Index int
	}
	SetClass struct{ ID, ClassID, ClassName string }
	SetState struct {
		ID    string
		State annotation.State
	}
	ConvertToCircle struct{ ID string }
)

func (c SetActive) apply(s *Store) error { s.SetActive(c.ImageID, c.TaskID); return nil }
func (c Load) apply(s *Store) error      { return s.Load(c.Annotations) }
func (c Update) apply(s *Store) error    { return s.Update(c.Annotation) }
func (c Delete) apply(s *Store) error    { return s.Delete(c.IDs...) }
func (Clear) apply(s *Store) error       { return s.Clear() }
func (Undo) apply(s *Store) error        { s.Undo(); return nil }
func (Redo) apply(s *Store) error        { s.Redo(); return nil }
func (c Select) apply(s *Store) error    { return s.Select(c.ID) }

func (c ToggleVisibility) apply(s *Store) error  { return s.ToggleVisibility(c.ID) }
func (ToggleAllVisibility) apply(s *Store) error { s.ToggleAllVisibility(); return nil }
func (c SetFilters) apply(s *Store) error        { s.SetFilters(c.Filters); return nil }

func (c SetZoom) apply(s *Store) error        { s.SetZoom(c.Zoom); return nil }
func (c ZoomBy) apply(s *Store) error         { s.ZoomBy(c.Factor, c.Anchor); return nil }
func (c SetPan) apply(s *Store) error         { s.SetPan(c.Pan); return nil }
func (c PanBy) apply(s *Store) error          { s.PanBy(c.DX, c.DY); return nil }
func (c SetImageSize) apply(s *Store) error   { s.SetImageSize(c.Width, c.Height); return nil }
func (c SetSurfaceSize) apply(s *Store) error { s.SetSurfaceSize(c.Width, c.Height); return nil }
func (c FitToSurface) apply(s *Store) error   { s.FitToSurface(c.Margin); return nil }

func (c BeginDraw) apply(s *Store) error     { return s.BeginDraw(c.Shape, c.Point) }
func (c AddPoint) apply(s *Store) error      { return s.AddPoint(c.Point) }
func (RemoveLastPoint) apply(s *Store) error { return s.RemoveLastPoint() }
func (c UpdateDraw) apply(s *Store) error    { return s.UpdateDraw(c.Point, c.Square) }
func (CancelDraw) apply(s *Store) error      { s.CancelDraw(); return nil }

func (c BeginMove) apply(s *Store) error       { return s.BeginMove(c.ID, c.Point) }
func (c BeginResize) apply(s *Store) error     { return s.BeginResize(c.ID, c.Handle, c.Point) }
func (c BeginVertexDrag) apply(s *Store) error { return s.BeginVertexDrag(c.ID, c.Index, c.Point) }
func (c UpdateDrag) apply(s *Store) error      { return s.UpdateDrag(c.Point) }
func (CancelDrag) apply(s *Store) error        { s.CancelDrag(); return nil }

func (c DeleteVertex) apply(s *Store) error    { return s.DeleteVertex(c.ID, c.Index) }
func (c SetClass) apply(s *Store) error        { return s.SetClass(c.ID, c.ClassID, c.ClassName) }
func (c SetState) apply(s *Store) error        { return s.SetState(c.ID, c.State) }
func (c ConvertToCircle) apply(s *Store) error { return s.ConvertToCircle(c.ID) }

func (c Create) apply(s *Store) error {
	_, err := s.Create(c.Annotation)
	return err
}

func (c CommitDraw) apply(s *Store) error {
	_, err := s.CommitDraw(c.ClassID, c.ClassName)
	return err
}

func (EndDrag) apply(s *Store) error {
	_, err := s.EndDrag()
	return err
}

func (c InsertVertex) apply(s *Store) error {
	_, err := s.InsertVertex(c.ID, c.After, c.Point)
	return err
}
