package appstate

import (
	"context"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/mobile/event/key"

	"github.com/example/shineylabel/internal/annotation"
	"github.com/example/shineylabel/internal/geom"
	"github.com/example/shineylabel/internal/imagesrc"
	"github.com/example/shineylabel/internal/input"
	"github.com/example/shineylabel/internal/store"
	"github.com/example/shineylabel/internal/theme"
	"github.com/example/shineylabel/internal/viewport"
)

func newApp(t *testing.T, opts ...Option) *AppState {
	t.Helper()
	s := store.New()
	s.SetActive("img", "")
	s.SetImageSize(40, 30)
	s.SetSurfaceSize(40, 30)
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	return New(append([]Option{WithStore(s), WithImage(img)}, opts...)...)
}

func addBox(t *testing.T, a *AppState) string {
	t.Helper()
	id, err := a.Store.Create(annotation.Annotation{Geometry: annotation.Box{BBox: geom.Bbox{5, 5, 10, 10}}})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestToolbarButtons(t *testing.T) {
	a := newApp(t)
	ctl := input.New(a.Store)
	var flashed []string
	buttons := a.buttons(ctl, func(msg string, err error) {
		if err != nil {
			msg = err.Error()
		}
		flashed = append(flashed, msg)
	})
	if len(buttons) != 11 {
		t.Fatalf("got %d buttons", len(buttons))
	}
	for i, cb := range buttons {
		r := cb.Rect()
		if r.Min.Y != i*buttonHeight || r.Dx() != toolbarWidth {
			t.Errorf("button %d rect = %v", i, r)
		}
	}

	i := buttonAt(buttons, image.Pt(4, buttonHeight+4))
	if i != 1 {
		t.Fatalf("buttonAt = %d, want 1", i)
	}
	buttons[i].Activate()
	if ctl.Tool() != input.ToolBox {
		t.Errorf("tool = %s, want box", ctl.Tool())
	}
	if buttonAt(buttons, image.Pt(toolbarWidth+1, 4)) != -1 {
		t.Errorf("point right of toolbar should miss")
	}

	// "Save" without an output path reports an error instead of writing.
	buttons[9].Activate()
	if len(flashed) != 1 || !strings.Contains(flashed[0], errNoOutput.Error()) {
		t.Errorf("flashed = %q", flashed)
	}
}

func TestCacheButton(t *testing.T) {
	calls := 0
	tb := &ToolButton{label: "X", theme: theme.Default(), onSelect: func() { calls++ }}
	cb := &CacheButton{Button: tb}
	cb.SetRect(image.Rect(0, 0, 40, 24))
	dst := image.NewRGBA(image.Rect(0, 0, 40, 24))
	cb.Draw(dst, StatePressed)
	if got := dst.RGBAAt(1, 1); got != theme.Default().ButtonActive {
		t.Errorf("pressed colour = %v", got)
	}
	if cb.cache[StatePressed] == nil {
		t.Errorf("state not cached")
	}
	cb.SetRect(image.Rect(0, 0, 50, 24))
	if cb.cache[StatePressed] != nil {
		t.Errorf("cache kept after resize")
	}
	cb.Activate()
	if calls != 1 {
		t.Errorf("Activate calls = %d", calls)
	}
}

func TestStatusText(t *testing.T) {
	a := newApp(t)
	id := addBox(t, a)
	if err := a.Store.Select(id); err != nil {
		t.Fatal(err)
	}
	ctl := input.New(a.Store)
	st := a.snapshot(ctl, 200, 100)
	st.cursor = geom.CursorNWSE
	got := statusText(st)
	for _, want := range []string{"tool: select", "zoom 100%", "1 annotations", "selected " + id, string(geom.CursorNWSE)} {
		if !strings.Contains(got, want) {
			t.Errorf("status %q missing %q", got, want)
		}
	}
}

func TestStoreEventsRequestRepaint(t *testing.T) {
	a := newApp(t)
	select {
	case <-a.updateCh:
		t.Fatal("repaint requested before any change")
	default:
	}
	addBox(t, a)
	addBox(t, a)
	select {
	case <-a.updateCh:
	default:
		t.Fatal("store change did not request a repaint")
	}
	select {
	case <-a.updateCh:
		t.Fatal("repaint requests not coalesced")
	default:
	}
}

func TestOnCloseRunsOnce(t *testing.T) {
	calls := 0
	a := newApp(t, WithOnClose(func() { calls++ }))
	a.notifyClose()
	a.notifyClose()
	if calls != 1 {
		t.Errorf("onClose calls = %d, want 1", calls)
	}
}

func TestSnapshotDraft(t *testing.T) {
	a := newApp(t)
	if err := a.Store.BeginDraw(store.ShapePolyline, viewport.Image(2, 2)); err != nil {
		t.Fatal(err)
	}
	if err := a.Store.UpdateDraw(viewport.Image(8, 9), false); err != nil {
		t.Fatal(err)
	}
	st := a.snapshot(input.New(a.Store), 200, 100)
	if st.frame.Draft == nil || st.frame.DraftCursor == nil || *st.frame.DraftCursor != geom.Pt(8, 9) {
		t.Fatalf("draft = %+v cursor %v", st.frame.Draft, st.frame.DraftCursor)
	}
	if st.mode != store.ModeDrawing {
		t.Errorf("mode = %s", st.mode)
	}
}

func TestCompose(t *testing.T) {
	a := newApp(t)
	ctl := input.New(a.Store)
	buttons := a.buttons(ctl, func(string, error) {})
	st := a.snapshot(ctl, toolbarWidth+40, 30+statusHeight)
	st.buttons = buttons
	st.hover = -1
	dst := image.NewRGBA(image.Rect(0, 0, st.width, st.height))
	if !compose(context.Background(), dst, st) {
		t.Fatal("compose cancelled")
	}
	// Select is the active tool, so the first button is drawn pressed.
	if got := dst.RGBAAt(1, 1); got != a.Theme.ButtonActive {
		t.Errorf("active tool button = %v", got)
	}
	if got := dst.RGBAAt(toolbarWidth+20, 15); got == (color.RGBA{}) {
		t.Errorf("canvas not painted")
	}
	if got := dst.RGBAAt(st.width-1, st.height-1); got != a.Theme.ToolbarBackground {
		t.Errorf("status bar = %v", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if compose(ctx, image.NewRGBA(dst.Bounds()), st) {
		t.Errorf("compose should stop when cancelled")
	}
}

func TestSaveAndExport(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "labels.json")
	png := filepath.Join(dir, "render.png")
	a := newApp(t, WithOutput(out), WithExportPath(png))
	addBox(t, a)

	msg, err := a.run(ActionSave)
	if err != nil || !strings.Contains(msg, out) {
		t.Fatalf("save = %q, %v", msg, err)
	}
	anns, err := annotation.ReadFile(out, nil)
	if err != nil || len(anns) != 1 {
		t.Fatalf("saved %+v, %v", anns, err)
	}

	if _, err := a.run(ActionExport); err != nil {
		t.Fatal(err)
	}
	img, err := imagesrc.Load(png)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := imagesrc.Size(img); w != 40 || h != 30 {
		t.Errorf("export size = %vx%v", w, h)
	}
}

func TestExportWithoutPath(t *testing.T) {
	a := newApp(t)
	if _, err := a.run(ActionExport); !errors.Is(err, errNoOutput) {
		t.Fatalf("err = %v", err)
	}
}

func TestPaste(t *testing.T) {
	a := newApp(t)
	existing := addBox(t, a)
	pasted := []annotation.Annotation{{ID: existing, ImageID: "other", Geometry: annotation.Circle{Center: geom.Pt(10, 10), Radius: 3}}}
	msg, err := a.paste(pasted)
	if err != nil {
		t.Fatal(err)
	}
	if msg != "pasted 1 annotations" || a.Store.Len() != 2 {
		t.Fatalf("msg %q, len %d", msg, a.Store.Len())
	}
	sel := a.Store.Selected()
	if sel == existing || sel == "" {
		t.Errorf("pasted annotation should be selected under a new ID, got %q", sel)
	}
	a.Store.Undo()
	if a.Store.Len() != 1 {
		t.Errorf("paste should be undoable")
	}
}

func TestEditorBindings(t *testing.T) {
	tests := []struct {
		e    key.Event
		want input.Action
	}{
		{key.Event{Rune: 's', Modifiers: key.ModControl}, ActionSave},
		{key.Event{Rune: 'e', Modifiers: key.ModControl}, ActionExport},
		{key.Event{Rune: 'q'}, ActionQuit},
	}
	for _, tt := range tests {
		if got, ok := input.Lookup(editorBindings, tt.e); !ok || got != tt.want {
			t.Errorf("Lookup(%+v) = %q, %v", tt.e, got, ok)
		}
	}
	if _, ok := input.Lookup(editorBindings, key.Event{Rune: 's'}); ok {
		t.Errorf("plain s should fall through to the controller")
	}
}
