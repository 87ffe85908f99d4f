package appstate

import (
	"errors"
	"fmt"

	"github.com/example/shineylabel/internal/annotation"
	"github.com/example/shineylabel/internal/clipboard"
	"github.com/example/shineylabel/internal/imagesrc"
	"github.com/example/shineylabel/internal/input"
	"github.com/example/shineylabel/internal/render"
)

// Editor actions that act outside the store.
const (
	ActionSave   input.Action = "save"
	ActionExport input.Action = "export"
	ActionCopy   input.Action = "copy"
	ActionPaste  input.Action = "paste"
	ActionQuit   input.Action = "quit"
)

var errNoOutput = errors.New("no output path configured")

// editorBindings are checked before the controller's bindings.
var editorBindings = []input.Binding{
	{Action: ActionSave, Keys: []input.KeyShortcut{{Rune: 's', Modifiers: ctrl}}},
	{Action: ActionExport, Keys: []input.KeyShortcut{{Rune: 'e', Modifiers: ctrl}}},
	{Action: ActionCopy, Keys: []input.KeyShortcut{{Rune: 'c', Modifiers: ctrl}}},
	{Action: ActionPaste, Keys: []input.KeyShortcut{{Rune: 'v', Modifiers: ctrl}}},
	{Action: ActionQuit, Keys: []input.KeyShortcut{{Rune: 'q'}, {Rune: 'w', Modifiers: ctrl}}},
}

// run performs an editor action and returns the message to flash.
func (a *AppState) run(action input.Action) (string, error) {
	switch action {
	case ActionSave:
		return a.save()
	case ActionExport:
		return a.export()
	case ActionCopy:
		return a.copyAnnotations()
	case ActionPaste:
		anns, err := clipboard.ReadAnnotations(nil)
		if err != nil {
			return "", fmt.Errorf("paste: %w", err)
		}
		return a.paste(anns)
	}
	return "", fmt.Errorf("unknown action %q", action)
}

func (a *AppState) save() (string, error) {
	if a.Output == "" {
		return "", fmt.Errorf("save: %w", errNoOutput)
	}
	if err := annotation.WriteFile(a.Output, a.Store.Annotations()); err != nil {
		return "", fmt.Errorf("save: %w", err)
	}
	a.Notifier.Save(a.Output)
	return fmt.Sprintf("saved %s", a.Output), nil
}

func (a *AppState) export() (string, error) {
	if a.ExportPath == "" {
		return "", fmt.Errorf("export: %w", errNoOutput)
	}
	if a.Image == nil {
		return "", errors.New("export: no image loaded")
	}
	img := render.Export(a.Image, a.Store.Painted(), a.Theme)
	if err := imagesrc.Save(img, a.ExportPath); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	a.Notifier.Export(a.ExportPath, img)
	return fmt.Sprintf("exported %s", a.ExportPath), nil
}

// copyAnnotations copies the selection, or every annotation when nothing is
// selected.
func (a *AppState) copyAnnotations() (string, error) {
	anns := a.Store.Annotations()
	detail := fmt.Sprintf("%d annotations", len(anns))
	if sel, ok := a.Store.Get(a.Store.Selected()); ok {
		anns = []annotation.Annotation{sel}
		detail = "annotation " + sel.ID
	}
	if err := clipboard.WriteAnnotations(anns); err != nil {
		return "", fmt.Errorf("copy: %w", err)
	}
	a.Notifier.Copy(detail)
	return "copied " + detail, nil
}

// paste adds anns to the active image under fresh IDs, one undo step each.
func (a *AppState) paste(anns []annotation.Annotation) (string, error) {
	var last string
	for _, ann := range anns {
		ann.ID = ""
		ann.ImageID = ""
		id, err := a.Store.Create(ann)
		if err != nil {
			return "", fmt.Errorf("paste: %w", err)
		}
		last = id
	}
	if last != "" {
		if err := a.Store.Select(last); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("pasted %d annotations", len(anns)), nil
}
