package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"strings"
	"time"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/shineylabel/internal/geom"
	"github.com/example/shineylabel/internal/input"
	"github.com/example/shineylabel/internal/render"
	"github.com/example/shineylabel/internal/store"
	"github.com/example/shineylabel/internal/theme"
)

const (
	statusHeight = 24
	buttonHeight = 24
)

var toolbarWidth = 72

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

const messageDuration = 2 * time.Second

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button is a toolbar element. Activate runs its action.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

// ToolButton selects a pointer tool, or runs an editor action when tool is
// empty.
type ToolButton struct {
	label    string
	tool     input.Tool
	theme    *theme.Theme
	rect     image.Rectangle
	onSelect func()
}

func (tb *ToolButton) Draw(dst *image.RGBA, state ButtonState) {
	c := tb.theme.ButtonBackground
	switch state {
	case StateHover:
		c = blend(tb.theme.ButtonBackground, tb.theme.ButtonActive)
	case StatePressed:
		c = tb.theme.ButtonActive
	}
	draw.Draw(dst, tb.rect, image.NewUniform(c), image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(tb.theme.Foreground), Face: basicfont.Face7x13,
		Dot: fixed.P(tb.rect.Min.X+4, tb.rect.Min.Y+16)}
	d.DrawString(tb.label)
}

func (tb *ToolButton) Rect() image.Rectangle { return tb.rect }

func (tb *ToolButton) SetRect(r image.Rectangle) { tb.rect = r }

func (tb *ToolButton) Activate() {
	if tb.onSelect != nil {
		tb.onSelect()
	}
}

func blend(a, b color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8((uint16(a.R) + uint16(b.R)) / 2),
		G: uint8((uint16(a.G) + uint16(b.G)) / 2),
		B: uint8((uint16(a.B) + uint16(b.B)) / 2),
		A: 255,
	}
}

// layoutToolbar stacks buttons down the left edge and widens the toolbar to
// fit the longest label.
func layoutToolbar(buttons []*CacheButton) {
	meas := &font.Drawer{Face: basicfont.Face7x13}
	for _, cb := range buttons {
		if tb, ok := cb.Button.(*ToolButton); ok {
			if w := meas.MeasureString(tb.label).Ceil() + 8; w > toolbarWidth {
				toolbarWidth = w
			}
		}
	}
	y := 0
	for _, cb := range buttons {
		cb.SetRect(image.Rect(0, y, toolbarWidth, y+buttonHeight))
		y += buttonHeight
	}
}

// buttonAt returns the index of the button under p, or -1.
func buttonAt(buttons []*CacheButton, p image.Point) int {
	for i, cb := range buttons {
		if p.In(cb.Rect()) {
			return i
		}
	}
	return -1
}

func drawToolbar(dst *image.RGBA, buttons []*CacheButton, tool input.Tool, hover int, th *theme.Theme) {
	draw.Draw(dst, image.Rect(0, 0, toolbarWidth, dst.Bounds().Dy()), image.NewUniform(th.ToolbarBackground), image.Point{}, draw.Src)
	for i, cb := range buttons {
		state := StateDefault
		if tb, ok := cb.Button.(*ToolButton); ok && tb.tool != "" && tb.tool == tool {
			state = StatePressed
		} else if i == hover {
			state = StateHover
		}
		cb.Draw(dst, state)
	}
}

// statusText summarises the editor state for the bottom bar.
func statusText(st paintState) string {
	parts := []string{
		"tool: " + string(st.tool),
		fmt.Sprintf("zoom %.0f%%", st.frame.Params.Zoom*100),
		fmt.Sprintf("%d annotations", st.count),
	}
	if st.mode != store.ModeIdle {
		parts = append(parts, string(st.mode))
	}
	if st.selected != "" {
		parts = append(parts, "selected "+st.selected)
	}
	if st.cursor != "" && st.cursor != geom.CursorDefault {
		parts = append(parts, string(st.cursor))
	}
	parts = append(parts, "^S:save ^E:export ^C:copy ^V:paste Q:quit")
	return strings.Join(parts, " | ")
}

func drawStatus(dst *image.RGBA, st paintState) {
	th := st.theme
	rect := image.Rect(0, st.height-statusHeight, st.width, st.height)
	draw.Draw(dst, rect, image.NewUniform(th.ToolbarBackground), image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: basicfont.Face7x13,
		Dot: fixed.P(4, st.height-statusHeight+16)}
	d.DrawString(statusText(st))
}

func drawMessage(dst *image.RGBA, st paintState) {
	if st.message == "" || !time.Now().Before(st.messageUntil) {
		return
	}
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(st.theme.Label), Face: face}
	w := d.MeasureString(st.message).Ceil()
	ascent, descent := face.Metrics().Ascent.Ceil(), face.Metrics().Descent.Ceil()
	px := (st.width - w) / 2
	py := (st.height-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+w+8, py+descent+8)
	draw.Draw(dst, rect, image.NewUniform(st.theme.LabelBackground), image.Point{}, draw.Over)
	d.Dot = fixed.P(px, py)
	d.DrawString(st.message)
}

// paintState is a snapshot of everything one frame needs, taken on the event
// loop and painted on the paint goroutine.
type paintState struct {
	width, height int
	theme         *theme.Theme
	buttons       []*CacheButton
	hover         int
	tool          input.Tool
	mode          store.Mode
	selected      string
	count         int
	cursor        geom.Cursor
	frame         render.Frame
	message       string
	messageUntil  time.Time
}

// canvasSize is the drawing surface left after the toolbar and status bar.
func canvasSize(width, height int) (int, int) {
	return max(width-toolbarWidth, 1), max(height-statusHeight, 1)
}

// compose paints a whole window frame into dst. It returns false when ctx
// is cancelled part way.
func compose(ctx context.Context, dst *image.RGBA, st paintState) bool {
	cw, ch := canvasSize(st.width, st.height)
	canvas := image.NewRGBA(image.Rect(0, 0, cw, ch))
	f := st.frame
	f.Surface = canvas
	f.Theme = st.theme
	render.Draw(f)
	if ctx.Err() != nil {
		return false
	}
	draw.Draw(dst, image.Rect(toolbarWidth, 0, toolbarWidth+cw, ch), canvas, image.Point{}, draw.Src)
	drawToolbar(dst, st.buttons, st.tool, st.hover, st.theme)
	drawStatus(dst, st)
	if ctx.Err() != nil {
		return false
	}
	drawMessage(dst, st)
	return true
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	if !compose(ctx, b.RGBA(), st) {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
