// Package input turns window mouse and key events into store operations.
package input

import (
	"errors"
	"log"
	"math"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/shineylabel/internal/annotation"
	"github.com/example/shineylabel/internal/geom"
	"github.com/example/shineylabel/internal/store"
	"github.com/example/shineylabel/internal/viewport"
)

// Tool is the active pointer tool.
type Tool string

const (
	ToolSelect   Tool = "select"
	ToolBox      Tool = "box"
	ToolPolygon  Tool = "polygon"
	ToolPolyline Tool = "polyline"
	ToolCircle   Tool = "circle"
	ToolCircle3  Tool = "circle3"
)

var toolShapes = map[Tool]store.Shape{
	ToolBox:      store.ShapeBox,
	ToolPolygon:  store.ShapePolygon,
	ToolPolyline: store.ShapePolyline,
	ToolCircle:   store.ShapeCircle,
	ToolCircle3:  store.ShapeCircle3,
}

const (
	DefaultZoomStep = 1.25
	DefaultPanStep  = 10.0
)

// Controller feeds pointer and keyboard input to a store. It is used from the
// window event loop only.
type Controller struct {
	store    *store.Store
	origin   viewport.DevicePoint
	tool     Tool
	bindings []Binding

	classID   string
	className string

	zoomStep float64
	panStep  float64

	panning bool
	panFrom viewport.SurfacePoint
	dirty   bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithOrigin sets where the drawing surface starts inside the window.
func WithOrigin(x, y float64) Option {
	return func(c *Controller) { c.origin = viewport.Device(x, y) }
}

// WithClass sets the label given to newly drawn shapes.
func WithClass(id, name string) Option {
	return func(c *Controller) { c.classID, c.className = id, name }
}

// WithBindings replaces the keymap.
func WithBindings(b []Binding) Option { return func(c *Controller) { c.bindings = b } }

// WithZoomStep sets the factor applied per zoom key or wheel notch.
func WithZoomStep(f float64) Option {
	return func(c *Controller) {
		if f > 1 {
			c.zoomStep = f
		}
	}
}

// WithPanStep sets the distance an arrow key pans, in surface pixels.
func WithPanStep(px float64) Option {
	return func(c *Controller) {
		if px > 0 {
			c.panStep = px
		}
	}
}

// New returns a controller driving s with the select tool active.
func New(s *store.Store, opts ...Option) *Controller {
	c := &Controller{
		store:    s,
		tool:     ToolSelect,
		bindings: DefaultBindings,
		zoomStep: DefaultZoomStep,
		panStep:  DefaultPanStep,
	}
	for _, o := range opts {
		o(c)
	}
	s.Subscribe(func(store.Event) { c.dirty = true })
	return c
}

// Tool returns the active tool.
func (c *Controller) Tool() Tool { return c.tool }

// SetTool switches tools, abandoning any shape being drawn.
func (c *Controller) SetTool(t Tool) {
	if t == c.tool {
		return
	}
	c.store.CancelDraw()
	c.store.CancelDrag()
	c.tool = t
	c.dirty = true
}

// SetClass sets the label given to newly drawn shapes.
func (c *Controller) SetClass(id, name string) { c.classID, c.className = id, name }

// SetOrigin moves the surface origin within the window.
func (c *Controller) SetOrigin(p viewport.DevicePoint) { c.origin = p }

func (c *Controller) surfacePoint(e mouse.Event) viewport.SurfacePoint {
	return viewport.DeviceToSurface(viewport.Device(float64(e.X), float64(e.Y)), c.origin)
}

func (c *Controller) imagePoint(sp viewport.SurfacePoint) viewport.ImagePoint {
	return viewport.SurfaceToImage(sp, c.store.Params())
}

// Mouse handles one pointer event and reports whether a repaint is needed.
func (c *Controller) Mouse(e mouse.Event) bool {
	c.dirty = false
	sp := c.surfacePoint(e)
	switch {
	case e.Button.IsWheel():
		if e.Direction == mouse.DirRelease {
			break
		}
		switch e.Button {
		case mouse.ButtonWheelUp:
			c.store.ZoomBy(c.zoomStep, sp)
		case mouse.ButtonWheelDown:
			c.store.ZoomBy(1/c.zoomStep, sp)
		}
	case e.Button == mouse.ButtonMiddle && e.Direction == mouse.DirPress:
		c.panning, c.panFrom = true, sp
	case e.Button == mouse.ButtonMiddle && e.Direction == mouse.DirRelease:
		c.panning = false
	case e.Button == mouse.ButtonRight && e.Direction == mouse.DirPress:
		if c.store.Mode() == store.ModeDrawing {
			c.report(c.store.RemoveLastPoint())
		}
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
		c.press(sp)
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
		c.release(sp, e.Modifiers)
	case e.Direction == mouse.DirNone:
		c.motion(sp, e.Modifiers)
	}
	return c.dirty
}

func (c *Controller) press(sp viewport.SurfacePoint) {
	ip := c.imagePoint(sp)
	if c.tool == ToolSelect {
		c.pressSelect(sp, ip)
		return
	}
	shape := toolShapes[c.tool]
	if c.store.Mode() != store.ModeDrawing {
		c.report(c.store.BeginDraw(shape, ip))
		return
	}
	switch c.tool {
	case ToolPolygon:
		if c.store.ClosesDraft(sp) {
			c.commit()
			return
		}
		c.report(c.store.AddPoint(ip))
	case ToolPolyline:
		c.report(c.store.AddPoint(ip))
	case ToolCircle3:
		c.report(c.store.AddPoint(ip))
		if d, ok := c.store.Draft(); ok && len(d.Points) == 3 {
			c.commit()
		}
	}
}

// pressSelect picks what a select-tool press grabs: a grip of the selected
// annotation first, then the topmost annotation under the pointer.
func (c *Controller) pressSelect(sp viewport.SurfacePoint, ip viewport.ImagePoint) {
	if sel := c.store.Selected(); sel != "" && c.store.IsVisible(sel) {
		if h := c.store.HandleAt(sel, sp); h != geom.HandleNone {
			c.report(c.store.BeginResize(sel, h, ip))
			return
		}
		if i, ok := c.store.VertexAt(sel, sp); ok {
			c.report(c.store.BeginVertexDrag(sel, i, ip))
			return
		}
		if c.onRim(sel, ip) {
			c.report(c.store.BeginResize(sel, geom.HandleNone, ip))
			return
		}
	}
	id, ok := c.store.AnnotationAt(ip, c.store.HitTolerance())
	if !ok {
		c.report(c.store.Select(""))
		return
	}
	c.report(c.store.Select(id))
	c.report(c.store.BeginMove(id, ip))
}

// onRim reports whether ip is on the outline of circle id, within one grip.
func (c *Controller) onRim(id string, ip viewport.ImagePoint) bool {
	a, ok := c.store.Get(id)
	if !ok {
		return false
	}
	circ, ok := a.Geometry.(annotation.Circle)
	if !ok {
		return false
	}
	tol := c.store.HandleSize() / c.store.Zoom()
	return math.Abs(geom.Distance(circ.Center, ip.Point())-circ.Radius) <= tol
}

func (c *Controller) motion(sp viewport.SurfacePoint, mods key.Modifiers) {
	if c.panning {
		c.store.PanBy(sp.X-c.panFrom.X, sp.Y-c.panFrom.Y)
		c.panFrom = sp
		return
	}
	ip := c.imagePoint(sp)
	switch c.store.Mode() {
	case store.ModeDragging:
		c.report(c.store.UpdateDrag(ip))
	case store.ModeDrawing:
		square := c.tool == ToolBox && mods&key.ModShift != 0
		c.report(c.store.UpdateDraw(ip, square))
	}
}

func (c *Controller) release(sp viewport.SurfacePoint, mods key.Modifiers) {
	switch c.store.Mode() {
	case store.ModeDragging:
		_, err := c.store.EndDrag()
		c.report(err)
	case store.ModeDrawing:
		if c.tool != ToolBox && c.tool != ToolCircle {
			return
		}
		c.report(c.store.UpdateDraw(c.imagePoint(sp), c.tool == ToolBox && mods&key.ModShift != 0))
		if _, err := c.store.CommitDraw(c.classID, c.className); err != nil {
			// A click without a drag leaves nothing worth keeping.
			c.store.CancelDraw()
		}
	}
}

func (c *Controller) commit() {
	if _, err := c.store.CommitDraw(c.classID, c.className); err != nil && !errors.Is(err, store.ErrInvalidGeometry) {
		c.report(err)
	}
}

// Key handles one key event and reports whether a repaint is needed.
func (c *Controller) Key(e key.Event) bool {
	c.dirty = false
	if e.Direction != key.DirPress {
		return false
	}
	action, ok := Lookup(c.bindings, e)
	if !ok {
		return false
	}
	c.Do(action)
	return c.dirty
}

// Do performs a named action as if its shortcut had been pressed.
func (c *Controller) Do(action Action) {
	center := c.center()
	switch action {
	case ActionUndo:
		c.store.Undo()
	case ActionRedo:
		c.store.Redo()
	case ActionCancel:
		c.store.CancelDraw()
		c.store.CancelDrag()
	case ActionCommit:
		if c.store.Mode() == store.ModeDrawing {
			c.commit()
		}
	case ActionDelete:
		switch {
		case c.store.Mode() == store.ModeDrawing:
			c.report(c.store.RemoveLastPoint())
		case c.store.Selected() != "":
			c.report(c.store.Delete(c.store.Selected()))
		}
	case ActionToggle:
		if sel := c.store.Selected(); sel != "" {
			c.report(c.store.ToggleVisibility(sel))
		}
	case ActionToggleAll:
		c.store.ToggleAllVisibility()
	case ActionZoomIn:
		c.store.ZoomBy(c.zoomStep, center)
	case ActionZoomOut:
		c.store.ZoomBy(1/c.zoomStep, center)
	case ActionFit:
		c.store.FitToSurface(0)
	case ActionPanLeft:
		c.store.PanBy(-c.panStep, 0)
	case ActionPanRight:
		c.store.PanBy(c.panStep, 0)
	case ActionPanUp:
		c.store.PanBy(0, -c.panStep)
	case ActionPanDown:
		c.store.PanBy(0, c.panStep)
	case ActionToolSelect:
		c.SetTool(ToolSelect)
	case ActionToolBox:
		c.SetTool(ToolBox)
	case ActionToolPolygon:
		c.SetTool(ToolPolygon)
	case ActionToolPolyline:
		c.SetTool(ToolPolyline)
	case ActionToolCircle:
		c.SetTool(ToolCircle)
	case ActionToolCircle3:
		c.SetTool(ToolCircle3)
	}
}

func (c *Controller) center() viewport.SurfacePoint {
	p := c.store.Params()
	return viewport.Surface(p.SurfaceWidth/2, p.SurfaceHeight/2)
}

// Cursor returns the pointer shape for a window position.
func (c *Controller) Cursor(x, y float32) geom.Cursor {
	if c.tool != ToolSelect || c.store.Mode() != store.ModeIdle {
		return geom.CursorDefault
	}
	sel := c.store.Selected()
	if sel == "" {
		return geom.CursorDefault
	}
	sp := c.surfacePoint(mouse.Event{X: x, Y: y})
	return geom.CursorForHandle(c.store.HandleAt(sel, sp))
}

func (c *Controller) report(err error) {
	if err != nil {
		log.Printf("input: %v", err)
	}
}
