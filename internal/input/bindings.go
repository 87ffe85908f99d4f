package input

import (
	"unicode"

	"golang.org/x/mobile/event/key"
)

// KeyShortcut describes a keyboard combination that triggers an action.
// Code takes precedence over Rune when set.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

const modMask = key.ModShift | key.ModControl | key.ModAlt | key.ModMeta

func (k KeyShortcut) matches(e key.Event) bool {
	if k.Modifiers != e.Modifiers&modMask {
		return false
	}
	if k.Code != key.CodeUnknown {
		return k.Code == e.Code
	}
	return k.Rune == unicode.ToLower(e.Rune)
}

// Action names something the controller can do from a shortcut.
type Action string

const (
	ActionUndo         Action = "undo"
	ActionRedo         Action = "redo"
	ActionCancel       Action = "cancel"
	ActionCommit       Action = "commit"
	ActionDelete       Action = "delete"
	ActionToggle       Action = "toggle"
	ActionToggleAll    Action = "toggle-all"
	ActionZoomIn       Action = "zoom-in"
	ActionZoomOut      Action = "zoom-out"
	ActionFit          Action = "fit"
	ActionPanLeft      Action = "pan-left"
	ActionPanRight     Action = "pan-right"
	ActionPanUp        Action = "pan-up"
	ActionPanDown      Action = "pan-down"
	ActionToolSelect   Action = "tool-select"
	ActionToolBox      Action = "tool-box"
	ActionToolPolygon  Action = "tool-polygon"
	ActionToolPolyline Action = "tool-polyline"
	ActionToolCircle   Action = "tool-circle"
	ActionToolCircle3  Action = "tool-circle3"
)

// Binding ties an action to the shortcuts that trigger it.
type Binding struct {
	Action Action
	Keys   []KeyShortcut
}

// DefaultBindings is the editor keymap. Earlier entries win when two match.
var DefaultBindings = []Binding{
	{ActionUndo, []KeyShortcut{{Rune: 'z', Modifiers: key.ModControl}}},
	{ActionRedo, []KeyShortcut{
		{Rune: 'z', Modifiers: key.ModControl | key.ModShift},
		{Rune: 'y', Modifiers: key.ModControl},
	}},
	{ActionCancel, []KeyShortcut{{Code: key.CodeEscape}}},
	{ActionCommit, []KeyShortcut{{Code: key.CodeReturnEnter}}},
	{ActionDelete, []KeyShortcut{{Code: key.CodeDeleteForward}, {Code: key.CodeDeleteBackspace}}},
	{ActionToggleAll, []KeyShortcut{{Rune: 'h', Modifiers: key.ModShift}}},
	{ActionToggle, []KeyShortcut{{Rune: 'h'}}},
	{ActionZoomIn, []KeyShortcut{{Rune: '+'}, {Rune: '+', Modifiers: key.ModShift}, {Rune: '='}}},
	{ActionZoomOut, []KeyShortcut{{Rune: '-'}}},
	{ActionFit, []KeyShortcut{{Rune: '0'}}},
	{ActionPanLeft, []KeyShortcut{{Code: key.CodeLeftArrow}}},
	{ActionPanRight, []KeyShortcut{{Code: key.CodeRightArrow}}},
	{ActionPanUp, []KeyShortcut{{Code: key.CodeUpArrow}}},
	{ActionPanDown, []KeyShortcut{{Code: key.CodeDownArrow}}},
	{ActionToolSelect, []KeyShortcut{{Rune: 'v'}}},
	{ActionToolBox, []KeyShortcut{{Rune: 'b'}}},
	{ActionToolPolygon, []KeyShortcut{{Rune: 'p'}}},
	{ActionToolPolyline, []KeyShortcut{{Rune: 'l'}}},
	{ActionToolCircle, []KeyShortcut{{Rune: 'c'}}},
	{ActionToolCircle3, []KeyShortcut{{Rune: 'o'}}},
}

// Lookup returns the first action in bindings matched by e.
func Lookup(bindings []Binding, e key.Event) (Action, bool) {
	for _, b := range bindings {
		for _, k := range b.Keys {
			if k.matches(e) {
				return b.Action, true
			}
		}
	}
	return "", false
}
