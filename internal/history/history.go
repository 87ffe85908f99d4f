// Package history keeps the undo and redo stacks for an annotation set. Each
// entry is a full deep copy of the set as it was before a change.
package history

import (
	"time"

	"github.com/example/shineylabel/internal/annotation"
)

// DefaultCapacity is the undo depth used when none is configured.
const DefaultCapacity = 50

// Action labels what produced a snapshot.
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionClear   Action = "clear"
	ActionMove    Action = "move"
	ActionResize  Action = "resize"
	ActionVertex  Action = "vertex"
	ActionConvert Action = "convert"
	ActionUndo    Action = "undo"
	ActionRedo    Action = "redo"
)

// Snapshot is one saved state of the annotation set.
type Snapshot struct {
	Timestamp   time.Time
	Annotations []annotation.Annotation
	Action      Action
	AffectedIDs []string
}

// History is a pair of bounded stacks. The zero value is not usable; call New.
type History struct {
	past     []Snapshot
	future   []Snapshot
	capacity int
	now      func() time.Time
}

// New returns an empty history holding at most capacity undo steps. A
// capacity below 1 selects DefaultCapacity.
func New(capacity int) *History {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &History{capacity: capacity, now: time.Now}
}

// Record saves current, the set as it is before a mutation, clears the redo
// stack, and evicts the oldest entry once the stack is over capacity.
func (h *History) Record(current []annotation.Annotation, action Action, ids ...string) {
	h.past = h.push(h.past, h.snapshot(current, action, ids))
	h.future = nil
}

// Undo returns the most recent saved state and moves current onto the redo
// stack. It reports false, returning nil, when there is nothing to undo.
func (h *History) Undo(current []annotation.Annotation) ([]annotation.Annotation, bool) {
	if len(h.past) == 0 {
		return nil, false
	}
	prev := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, h.snapshot(current, ActionUndo, prev.AffectedIDs))
	return annotation.CloneAll(prev.Annotations), true
}

// Redo is the inverse of Undo.
func (h *History) Redo(current []annotation.Annotation) ([]annotation.Annotation, bool) {
	if len(h.future) == 0 {
		return nil, false
	}
	next := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = h.push(h.past, h.snapshot(current, ActionRedo, next.AffectedIDs))
	return annotation.CloneAll(next.Annotations), true
}

// Peek returns the entry Undo would restore.
func (h *History) Peek() (Snapshot, bool) {
	if len(h.past) == 0 {
		return Snapshot{}, false
	}
	return h.past[len(h.past)-1], true
}

func (h *History) CanUndo() bool  { return len(h.past) > 0 }
func (h *History) CanRedo() bool  { return len(h.future) > 0 }
func (h *History) PastLen() int   { return len(h.past) }
func (h *History) FutureLen() int { return len(h.future) }
func (h *History) Capacity() int  { return h.capacity }

// Clear drops both stacks.
func (h *History) Clear() {
	h.past = nil
	h.future = nil
}

func (h *History) snapshot(anns []annotation.Annotation, action Action, ids []string) Snapshot {
	return Snapshot{
		Timestamp:   h.now(),
		Annotations: annotation.CloneAll(anns),
		Action:      action,
		AffectedIDs: append([]string(nil), ids...),
	}
}

func (h *History) push(stack []Snapshot, s Snapshot) []Snapshot {
	stack = append(stack, s)
	if over := len(stack) - h.capacity; over > 0 {
		clear(stack[:over])
		stack = append(stack[:0], stack[over:]...)
	}
	return stack
}
