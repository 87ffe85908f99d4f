// Package appstate is the interactive annotation editor window.
package appstate

import (
	"context"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/shineylabel/internal/annotation"
	"github.com/example/shineylabel/internal/input"
	"github.com/example/shineylabel/internal/notify"
	"github.com/example/shineylabel/internal/render"
	"github.com/example/shineylabel/internal/store"
	"github.com/example/shineylabel/internal/theme"
	"github.com/example/shineylabel/internal/viewport"
)

const ctrl = key.ModControl

// Largest initial window; bigger images open fitted.
const (
	maxWindowWidth  = 1600
	maxWindowHeight = 1000
)

// AppState holds the editor configuration and the store it edits.
type AppState struct {
	Store      *store.Store
	Image      image.Image
	Output     string
	ExportPath string
	Theme      *theme.Theme
	Notifier   *notify.Notifier
	ClassID    string
	ClassName  string

	updateCh  chan struct{}
	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithStore sets the store being edited. Its active image must already be
// set.
func WithStore(s *store.Store) Option { return func(a *AppState) { a.Store = s } }

// WithImage sets the image displayed under the annotations.
func WithImage(img image.Image) Option { return func(a *AppState) { a.Image = img } }

// WithOutput sets the annotation JSON path written on save.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithExportPath sets where the rendered image is written on export.
func WithExportPath(path string) Option { return func(a *AppState) { a.ExportPath = path } }

func WithTheme(th *theme.Theme) Option { return func(a *AppState) { a.Theme = th } }

func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithClass sets the label given to newly drawn shapes.
func WithClass(id, name string) Option {
	return func(a *AppState) { a.ClassID, a.ClassName = id, name }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

func New(opts ...Option) *AppState {
	a := &AppState{updateCh: make(chan struct{}, 1)}
	for _, o := range opts {
		o(a)
	}
	if a.Store == nil {
		a.Store = store.New()
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	a.Store.Subscribe(func(store.Event) { a.NotifyChanged() })
	return a
}

// NotifyChanged requests a repaint. Every store event calls it, so changes
// made outside the window's event loop are shown too.
func (a *AppState) NotifyChanged() {
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// buttons builds the toolbar for ctl. Action buttons report through flash.
func (a *AppState) buttons(ctl *input.Controller, flash func(string, error)) []*CacheButton {
	var out []*CacheButton
	tools := []struct {
		label string
		tool  input.Tool
	}{
		{"V:Select", input.ToolSelect},
		{"B:Box", input.ToolBox},
		{"P:Polygon", input.ToolPolygon},
		{"L:Line", input.ToolPolyline},
		{"C:Circle", input.ToolCircle},
		{"O:3-Point", input.ToolCircle3},
	}
	for _, t := range tools {
		tool := t.tool
		out = append(out, &CacheButton{Button: &ToolButton{label: t.label, tool: tool, theme: a.Theme,
			onSelect: func() { ctl.SetTool(tool) }}})
	}
	edits := []struct {
		label string
		do    func()
	}{
		{"Undo", func() { ctl.Do(input.ActionUndo) }},
		{"Redo", func() { ctl.Do(input.ActionRedo) }},
		{"Fit", func() { ctl.Do(input.ActionFit) }},
		{"Save", func() { flash(a.run(ActionSave)) }},
		{"Export", func() { flash(a.run(ActionExport)) }},
	}
	for _, e := range edits {
		out = append(out, &CacheButton{Button: &ToolButton{label: e.label, theme: a.Theme, onSelect: e.do}})
	}
	layoutToolbar(out)
	return out
}

// snapshot copies what the next frame needs out of the store.
func (a *AppState) snapshot(ctl *input.Controller, width, height int) paintState {
	s := a.Store
	f := render.Frame{
		Source:      a.Image,
		Params:      s.Params(),
		Annotations: s.Painted(),
		SelectedID:  s.Selected(),
		HandleSize:  s.HandleSize(),
	}
	if d, ok := s.Draft(); ok {
		f.Draft = annotation.CloneGeometry(d.Geometry)
		switch d.Shape {
		case store.ShapePolygon, store.ShapePolyline, store.ShapeCircle3:
			c := d.Cursor
			f.DraftCursor = &c
		}
	}
	return paintState{
		width:    width,
		height:   height,
		theme:    a.Theme,
		tool:     ctl.Tool(),
		mode:     s.Mode(),
		selected: s.Selected(),
		count:    s.Len(),
		frame:    f,
	}
}

func (a *AppState) Main(s screen.Screen) {
	width, height := 800, 600
	if a.Image != nil {
		b := a.Image.Bounds()
		width = min(b.Dx()+toolbarWidth, maxWindowWidth)
		height = min(b.Dy()+statusHeight, maxWindowHeight)
	}
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "ShineyLabel"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-a.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	var message string
	var messageUntil time.Time
	flash := func(msg string, err error) {
		if err != nil {
			msg = err.Error()
		}
		if msg == "" {
			return
		}
		log.Print(msg)
		message = msg
		messageUntil = time.Now().Add(messageDuration)
		w.Send(paint.Event{})
	}

	ctl := input.New(a.Store, input.WithClass(a.ClassID, a.ClassName))
	buttons := a.buttons(ctl, flash)
	ctl.SetOrigin(viewport.Device(float64(toolbarWidth), 0))
	hover := -1
	var pointer mouse.Event

	resize := func() {
		cw, ch := canvasSize(width, height)
		a.Store.SetSurfaceSize(float64(cw), float64(ch))
	}
	resize()
	a.Store.FitToSurface(0)

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			resize()
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := a.snapshot(ctl, width, height)
			st.buttons = buttons
			st.hover = hover
			st.cursor = ctl.Cursor(pointer.X, pointer.Y)
			st.message, st.messageUntil = message, messageUntil
			select {
			case paintCh <- st:
			default:
				// A frame is already queued; replace it.
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			pointer = e
			p := image.Pt(int(e.X), int(e.Y))
			if p.X < toolbarWidth {
				h := buttonAt(buttons, p)
				if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress && h >= 0 {
					buttons[h].Activate()
				}
				if h != hover || e.Direction == mouse.DirPress {
					hover = h
					w.Send(paint.Event{})
				}
				continue
			}
			if hover != -1 {
				hover = -1
				w.Send(paint.Event{})
			}
			if p.Y >= height-statusHeight && e.Direction == mouse.DirPress {
				continue
			}
			if ctl.Mouse(e) {
				w.Send(paint.Event{})
			} else if a.Store.Selected() != "" {
				// Status bar shows the resize cursor under the pointer.
				w.Send(paint.Event{})
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if action, ok := input.Lookup(editorBindings, e); ok && a.Store.Mode() == store.ModeIdle {
				if action == ActionQuit {
					return
				}
				flash(a.run(action))
				continue
			}
			if ctl.Key(e) {
				w.Send(paint.Event{})
			}
		case error:
			log.Print(e)
		}
	}
}
