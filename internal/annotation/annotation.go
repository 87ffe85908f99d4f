// Package annotation defines the annotation entity, its geometry variants and
// the conversion to and from the snapshot form exchanged with persistence.
package annotation

import (
	"encoding/json"
	"maps"
)

// State is the review state of an annotation.
type State string

const (
	StateDraft     State = "draft"
	StateConfirmed State = "confirmed"
)

// Annotation is one labelled shape on an image.
type Annotation struct {
	ID         string
	ImageID    string
	Geometry   Geometry
	ClassID    string
	ClassName  string
	Attributes map[string]any
	// Confidence is in [0, 1] when set.
	Confidence *float64
	State      State
}

// Kind returns the geometry kind, or "" when no geometry is set.
func (a Annotation) Kind() Kind {
	if a.Geometry == nil {
		return ""
	}
	return a.Geometry.Kind()
}

// EffectiveState returns the state, treating an unset state as draft.
func (a Annotation) EffectiveState() State {
	if a.State == "" {
		return StateDraft
	}
	return a.State
}

// Clone returns a deep copy of a.
func Clone(a Annotation) Annotation {
	out := a
	if a.Geometry != nil {
		out.Geometry = CloneGeometry(a.Geometry)
	}
	if a.Attributes != nil {
		out.Attributes = cloneAttrs(a.Attributes)
	}
	if a.Confidence != nil {
		c := *a.Confidence
		out.Confidence = &c
	}
	return out
}

// CloneAll deep-copies a set. A nil input gives an empty, non-nil slice.
func CloneAll(anns []Annotation) []Annotation {
	out := make([]Annotation, len(anns))
	for i, a := range anns {
		out[i] = Clone(a)
	}
	return out
}

func cloneAttrs(m map[string]any) map[string]any {
	out := maps.Clone(m)
	for k, v := range out {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneAttrs(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	case json.RawMessage:
		return append(json.RawMessage(nil), v...)
	}
	return v
}

// Filters narrows which annotations are drawn.
type Filters struct {
	// HiddenClasses suppresses every annotation whose ClassID is present.
	HiddenClasses map[string]bool
	// DraftsOnly shows only drafts. It takes precedence over State.
	DraftsOnly bool
	// State, when set, shows only annotations in that state.
	State State
}

// IsVisible applies f to a. Class suppression is checked before the state
// filters.
func IsVisible(a Annotation, f Filters) bool {
	if f.HiddenClasses[a.ClassID] {
		return false
	}
	st := a.EffectiveState()
	if f.DraftsOnly {
		return st == StateDraft
	}
	if f.State != "" {
		return st == f.State
	}
	return true
}

// Find returns the index of the annotation with id, or -1.
func Find(anns []Annotation, id string) int {
	for i, a := range anns {
		if a.ID == id {
			return i
		}
	}
	return -1
}
