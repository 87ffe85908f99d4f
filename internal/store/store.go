// Package store owns the annotation set of the image being edited: selection,
// visibility, interaction mode, view parameters and undo history. Every change
// goes through a method or Dispatch and is reported to subscribers as an Event.
//
// A Store is driven from a single event loop and is not safe for concurrent
// use.
package store

import (
	"errors"
	"fmt"

	"github.com/example/shineylabel/internal/annotation"
	"github.com/example/shineylabel/internal/geom"
	"github.com/example/shineylabel/internal/history"
	"github.com/example/shineylabel/internal/viewport"
)

var (
	ErrNoImage         = errors.New("no active image")
	ErrImageMismatch   = errors.New("annotation belongs to another image")
	ErrNotFound        = errors.New("annotation not found")
	ErrInvalidGeometry = errors.New("invalid geometry")
	ErrDuplicateID     = errors.New("duplicate annotation id")
	ErrBusy            = errors.New("another interaction is in progress")
	ErrNoInteraction   = errors.New("no interaction in progress")
)

// Mode is the interaction state.
type Mode string

const (
	ModeIdle     Mode = "idle"
	ModeDrawing  Mode = "drawing"
	ModeDragging Mode = "dragging"
)

const (
	// DefaultEdgeThreshold is the surface distance within which a pointer
	// counts as on a polygon edge.
	DefaultEdgeThreshold = 8.0
	// DefaultHitTolerance is the surface distance within which thin shapes
	// are hit.
	DefaultHitTolerance = 4.0
)

// Store is the editing session state for one image.
type Store struct {
	imageID string
	taskID  string

	anns     []annotation.Annotation
	selected string
	hidden   map[string]bool
	showAll  bool
	filters  annotation.Filters

	mode  Mode
	draft *draft
	drag  *drag

	hist *history.History

	zoom               float64
	pan                geom.Point
	imageW, imageH     float64
	surfaceW, surfaceH float64

	zoomMin, zoomMax float64
	handleSize       float64
	edgeThreshold    float64
	hitTolerance     float64
	historyCapacity  int
	nextID           func() string

	listeners    []listener
	nextListener int
	last         Event
	lastCommit   Event
}

// Option configures a Store.
type Option func(*Store)

// WithHistoryCapacity sets the undo depth.
func WithHistoryCapacity(n int) Option {
	return func(s *Store) { s.historyCapacity = n }
}

// WithZoomRange sets the zoom clamp range. Invalid ranges are ignored.
func WithZoomRange(min, max float64) Option {
	return func(s *Store) {
		if min > 0 && max >= min {
			s.zoomMin, s.zoomMax = min, max
		}
	}
}

// WithHandleSize sets the drawn size of resize grips in surface pixels.
func WithHandleSize(size float64) Option {
	return func(s *Store) {
		if size > 0 {
			s.handleSize = size
		}
	}
}

// WithEdgeThreshold sets the surface distance for edge hits.
func WithEdgeThreshold(px float64) Option {
	return func(s *Store) {
		if px > 0 {
			s.edgeThreshold = px
		}
	}
}

// WithHitTolerance sets the surface distance for outline hits.
func WithHitTolerance(px float64) Option {
	return func(s *Store) {
		if px >= 0 {
			s.hitTolerance = px
		}
	}
}

// WithIDGenerator sets the function that names new annotations.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.nextID = fn
		}
	}
}

// New returns an empty store with no active image.
func New(opts ...Option) *Store {
	s := &Store{
		hidden:          map[string]bool{},
		showAll:         true,
		mode:            ModeIdle,
		zoom:            1,
		zoomMin:         viewport.DefaultZoomMin,
		zoomMax:         viewport.DefaultZoomMax,
		handleSize:      geom.DefaultHandleSize,
		edgeThreshold:   DefaultEdgeThreshold,
		hitTolerance:    DefaultHitTolerance,
		historyCapacity: history.DefaultCapacity,
	}
	n := 0
	s.nextID = func() string {
		n++
		return fmt.Sprintf("tmp-%d", n)
	}
	for _, o := range opts {
		o(s)
	}
	s.hist = history.New(s.historyCapacity)
	return s
}

// SetActive switches the session to another image or task. Any change resets
// the annotation set, selection, visibility, history, view and interaction
// mode. Setting the same pair again does nothing.
func (s *Store) SetActive(imageID, taskID string) {
	if imageID == s.imageID && taskID == s.taskID {
		return
	}
	s.imageID, s.taskID = imageID, taskID
	s.anns = nil
	s.selected = ""
	s.hidden = map[string]bool{}
	s.showAll = true
	s.mode = ModeIdle
	s.draft = nil
	s.drag = nil
	s.hist.Clear()
	s.zoom = 1
	s.pan = geom.Point{}
	s.emit(Event{Action: ActionReset})
}

// ImageID returns the active image.
func (s *Store) ImageID() string { return s.imageID }

// TaskID returns the active task.
func (s *Store) TaskID() string { return s.taskID }

// Load replaces the annotation set with anns, as read from persistence. It
// does not record history and clears any existing history. Annotations without
// an image are assigned the active one; annotations for another image reject
// the whole load.
func (s *Store) Load(anns []annotation.Annotation) error {
	if s.imageID == "" {
		return ErrNoImage
	}
	if s.mode != ModeIdle {
		return ErrBusy
	}
	next := annotation.CloneAll(anns)
	seen := map[string]bool{}
	for i := range next {
		a := &next[i]
		if a.ImageID == "" {
			a.ImageID = s.imageID
		}
		if a.ImageID != s.imageID {
			return fmt.Errorf("load %s: %w", a.ID, ErrImageMismatch)
		}
		if a.ID == "" {
			a.ID = s.nextID()
		}
		if seen[a.ID] {
			return fmt.Errorf("load %s: %w", a.ID, ErrDuplicateID)
		}
		seen[a.ID] = true
	}
	s.anns = next
	s.selected = ""
	s.hist.Clear()
	for id := range s.hidden {
		if !seen[id] {
			delete(s.hidden, id)
		}
	}
	s.emit(Event{Action: ActionLoad, AffectedIDs: ids(next)})
	return nil
}

// Mode returns the interaction state.
func (s *Store) Mode() Mode { return s.mode }

// Annotations returns a deep copy of the set in insertion order.
func (s *Store) Annotations() []annotation.Annotation {
	return annotation.CloneAll(s.anns)
}

// Len returns the number of annotations.
func (s *Store) Len() int { return len(s.anns) }

// Get returns a copy of the annotation with id.
func (s *Store) Get(id string) (annotation.Annotation, bool) {
	i := annotation.Find(s.anns, id)
	if i < 0 {
		return annotation.Annotation{}, false
	}
	return annotation.Clone(s.anns[i]), true
}

// Select makes id the selection. An empty id clears it.
func (s *Store) Select(id string) error {
	if id != "" && annotation.Find(s.anns, id) < 0 {
		return fmt.Errorf("select %s: %w", id, ErrNotFound)
	}
	if id == s.selected {
		return nil
	}
	s.selected = id
	s.emit(Event{Action: ActionSelect, AffectedIDs: nonEmpty(id)})
	return nil
}

// Selected returns the selected id, or "".
func (s *Store) Selected() string { return s.selected }

// CanUndo reports whether Undo would change anything.
func (s *Store) CanUndo() bool { return s.hist.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (s *Store) CanRedo() bool { return s.hist.CanRedo() }

// HistoryDepth returns the number of undo and redo steps available.
func (s *Store) HistoryDepth() (past, future int) {
	return s.hist.PastLen(), s.hist.FutureLen()
}

func (s *Store) requireImage() error {
	if s.imageID == "" {
		return ErrNoImage
	}
	return nil
}

func (s *Store) requireIdle() error {
	if s.mode != ModeIdle {
		return fmt.Errorf("%w: %s", ErrBusy, s.mode)
	}
	return nil
}

func (s *Store) index(id string) (int, error) {
	i := annotation.Find(s.anns, id)
	if i < 0 {
		return -1, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return i, nil
}

// dropMissingSelection clears the selection when it no longer exists.
func (s *Store) dropMissingSelection() {
	if s.selected != "" && annotation.Find(s.anns, s.selected) < 0 {
		s.selected = ""
	}
}

func ids(anns []annotation.Annotation) []string {
	out := make([]string, len(anns))
	for i, a := range anns {
		out[i] = a.ID
	}
	return out
}

func nonEmpty(id string) []string {
	if id == "" {
		return nil
	}
	return []string{id}
}
