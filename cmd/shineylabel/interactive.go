package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/example/shineylabel/internal/annotation"
	"github.com/example/shineylabel/internal/clipboard"
	"github.com/example/shineylabel/internal/geom"
	"github.com/example/shineylabel/internal/imagesrc"
	"github.com/example/shineylabel/internal/render"
	"github.com/example/shineylabel/internal/store"
	"github.com/example/shineylabel/internal/viewport"
)

var errNoImage = errors.New("no image loaded; use 'image <path>' or 'blank <id> <width> <height>'")

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, msg string) error {
	_, err := fmt.Fprintln(w, msg)
	return err
}

// interactiveCmd edits one image's annotations from a line-based prompt.
type interactiveCmd struct {
	*root
	fs *flag.FlagSet

	execs       commandList
	file        string
	annotations string
	export      string

	img       image.Image
	store     *store.Store
	annPath   string
	classID   string
	className string
}

func (i *interactiveCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	i := &interactiveCmd{root: r, fs: fs}
	fs.Usage = usageFunc(i)
	fs.Var(&i.execs, "e", "execute interactive command in immediate mode (may be specified multiple times)")
	fs.StringVar(&i.file, "file", "", "image to open at start")
	fs.StringVar(&i.annotations, "annotations", "", "annotation file for -file (default: <image>.json)")
	fs.StringVar(&i.export, "export", "", "default path for the export command")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return i, nil
}

func (i *interactiveCmd) Run() error {
	if i.file != "" {
		args := []string{i.file}
		if i.annotations != "" {
			args = append(args, i.annotations)
		}
		if err := i.openImage(args); err != nil {
			return err
		}
	}
	if len(i.execs) > 0 {
		for _, cmd := range i.execs {
			done, err := i.executeLine(cmd)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	if err := writeln(i.stdout, "Enter commands (type 'help' for a list, 'exit' to quit)"); err != nil {
		return err
	}
	scanner := bufio.NewScanner(i.stdin)
	for {
		if err := writef(i.stdout, "> "); err != nil {
			return err
		}
		if !scanner.Scan() {
			break
		}
		done, err := i.executeLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(i.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}

// executeLine runs one command. done reports a request to leave the session.
func (i *interactiveCmd) executeLine(line string) (done bool, err error) {
	args := strings.Fields(line)
	if len(args) == 0 || strings.HasPrefix(args[0], "#") {
		return false, nil
	}
	name, rest := strings.ToLower(args[0]), args[1:]
	switch name {
	case "exit", "quit":
		return true, nil
	case "help":
		return false, writeln(i.stdout, interactiveHelp)
	case "blank":
		return false, i.blank(rest)
	case "image":
		return false, i.openImage(rest)
	case "class":
		if len(rest) < 1 {
			i.classID, i.className = "", ""
			return false, nil
		}
		i.classID, i.className = rest[0], strings.Join(rest[1:], " ")
		return false, nil
	}

	if i.store == nil {
		return false, errNoImage
	}
	switch name {
	case "box", "square":
		return false, i.drawTwoPoint(store.ShapeBox, name == "square", rest)
	case "circle":
		return false, i.drawTwoPoint(store.ShapeCircle, false, rest)
	case "polygon":
		return false, i.drawPoints(store.ShapePolygon, 3, rest)
	case "polyline":
		return false, i.drawPoints(store.ShapePolyline, 2, rest)
	case "circle3":
		if len(rest) != 3 {
			return false, errors.New("usage: circle3 x,y x,y x,y")
		}
		return false, i.drawPoints(store.ShapeCircle3, 3, rest)
	case "select":
		id := ""
		if len(rest) > 0 && rest[0] != "none" {
			id = rest[0]
		}
		return false, i.dispatch(store.Select{ID: id})
	case "move":
		return false, i.move(rest)
	case "resize":
		return false, i.resize(rest)
	case "vertex":
		return false, i.moveVertex(rest)
	case "insert":
		return false, i.insertVertex(rest)
	case "remove-vertex":
		id, idx, err := i.idIndex(rest)
		if err != nil {
			return false, err
		}
		return false, i.dispatch(store.DeleteVertex{ID: id, Index: idx})
	case "delete":
		ids := rest
		if len(ids) == 0 {
			ids = nonEmptyIDs(i.store.Selected())
		}
		return false, i.dispatch(store.Delete{IDs: ids})
	case "clear":
		return false, i.dispatch(store.Clear{})
	case "undo":
		return false, i.dispatch(store.Undo{})
	case "redo":
		return false, i.dispatch(store.Redo{})
	case "toggle":
		id, err := i.targetID(rest)
		if err != nil {
			return false, err
		}
		return false, i.dispatch(store.ToggleVisibility{ID: id})
	case "toggle-all":
		return false, i.dispatch(store.ToggleAllVisibility{})
	case "filter":
		return false, i.filter(rest)
	case "state":
		if len(rest) != 2 {
			return false, errors.New("usage: state <id> draft|confirmed")
		}
		st := annotation.State(rest[1])
		if st != annotation.StateDraft && st != annotation.StateConfirmed {
			return false, fmt.Errorf("unknown state %q", rest[1])
		}
		return false, i.dispatch(store.SetState{ID: rest[0], State: st})
	case "relabel":
		if len(rest) < 2 {
			return false, errors.New("usage: relabel <id> <class> [name]")
		}
		return false, i.dispatch(store.SetClass{ID: rest[0], ClassID: rest[1], ClassName: strings.Join(rest[2:], " ")})
	case "to-circle":
		id, err := i.targetID(rest)
		if err != nil {
			return false, err
		}
		return false, i.dispatch(store.ConvertToCircle{ID: id})
	case "list":
		return false, i.list()
	case "zoom":
		if len(rest) != 1 {
			return false, errors.New("usage: zoom <factor>")
		}
		z, err := strconv.ParseFloat(rest[0], 64)
		if err != nil {
			return false, err
		}
		return false, i.dispatch(store.SetZoom{Zoom: z})
	case "pan":
		if len(rest) != 2 {
			return false, errors.New("usage: pan <dx> <dy>")
		}
		d, err := parseDelta(rest)
		if err != nil {
			return false, err
		}
		return false, i.dispatch(store.PanBy{DX: d.X, DY: d.Y})
	case "fit":
		return false, i.fit(rest)
	case "view":
		p := i.store.Params()
		return false, writef(i.stdout, "zoom=%g pan=%s image=%gx%g surface=%gx%g\n",
			p.Zoom, formatPoint(p.Pan), p.ImageWidth, p.ImageHeight, p.SurfaceWidth, p.SurfaceHeight)
	case "save":
		return false, i.save(rest)
	case "load":
		return false, i.load(rest)
	case "export":
		return false, i.exportImage(rest)
	case "copy":
		return false, i.copyAnnotations()
	case "paste":
		return false, i.paste()
	}
	return false, fmt.Errorf("unknown command %q; type 'help' for a list", name)
}

// dispatch applies cmd and reports the resulting event.
func (i *interactiveCmd) dispatch(cmd store.Command) error {
	ev, err := i.store.Dispatch(cmd)
	if err != nil {
		return err
	}
	return i.report(ev)
}

func (i *interactiveCmd) report(ev store.Event) error {
	if ev.Action == "" {
		return nil
	}
	if len(ev.AffectedIDs) == 0 {
		return writeln(i.stdout, string(ev.Action))
	}
	return writef(i.stdout, "%s %s\n", ev.Action, strings.Join(ev.AffectedIDs, " "))
}

func (i *interactiveCmd) blank(args []string) error {
	if len(args) != 3 {
		return errors.New("usage: blank <id> <width> <height>")
	}
	w, err := strconv.Atoi(args[1])
	if err != nil || w <= 0 {
		return fmt.Errorf("invalid width %q", args[1])
	}
	h, err := strconv.Atoi(args[2])
	if err != nil || h <= 0 {
		return fmt.Errorf("invalid height %q", args[2])
	}
	s := i.newStore()
	s.SetActive(args[0], "")
	s.SetImageSize(float64(w), float64(h))
	i.store, i.img, i.annPath = s, image.NewRGBA(image.Rect(0, 0, w, h)), ""
	return writef(i.stdout, "image %s %dx%d\n", args[0], w, h)
}

func (i *interactiveCmd) openImage(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: image <path> [annotations]")
	}
	annPath := annotationPathFor(args[0], "")
	if len(args) > 1 {
		annPath = args[1]
	}
	img, s, err := openSession(i.root, args[0], annPath, "")
	if err != nil {
		return err
	}
	i.store, i.img, i.annPath = s, img, annPath
	w, h := imagesrc.Size(img)
	return writef(i.stdout, "image %s %gx%g, %d annotations\n", s.ImageID(), w, h, s.Len())
}

func (i *interactiveCmd) commit() error {
	ev, err := i.store.Dispatch(store.CommitDraw{ClassID: i.classID, ClassName: i.className})
	if err != nil {
		i.store.CancelDraw()
		return err
	}
	return i.report(ev)
}

// drawTwoPoint draws a shape defined by an anchor and a dragged corner: a box
// from corner to corner or a circle from centre to rim.
func (i *interactiveCmd) drawTwoPoint(shape store.Shape, square bool, args []string) error {
	pts, err := parsePoints(args)
	if err != nil {
		return err
	}
	if len(pts) != 2 {
		return fmt.Errorf("usage: %s x,y x,y", shape)
	}
	if err := i.store.BeginDraw(shape, imagePoint(pts[0])); err != nil {
		return err
	}
	if err := i.store.UpdateDraw(imagePoint(pts[1]), square); err != nil {
		i.store.CancelDraw()
		return err
	}
	return i.commit()
}

func (i *interactiveCmd) drawPoints(shape store.Shape, minPoints int, args []string) error {
	pts, err := parsePoints(args)
	if err != nil {
		return err
	}
	if len(pts) < minPoints {
		return fmt.Errorf("%s needs at least %d points", shape, minPoints)
	}
	if err := i.store.BeginDraw(shape, imagePoint(pts[0])); err != nil {
		return err
	}
	for _, p := range pts[1:] {
		if err := i.store.AddPoint(imagePoint(p)); err != nil {
			i.store.CancelDraw()
			return err
		}
	}
	return i.commit()
}

// drag runs begin, one update and the end of a pointer drag as a single
// command.
func (i *interactiveCmd) drag(begin store.Command, from geom.Point, by geom.Point) error {
	if _, err := i.store.Dispatch(begin); err != nil {
		return err
	}
	if _, err := i.store.Dispatch(store.UpdateDrag{Point: imagePoint(from.Add(by))}); err != nil {
		i.store.CancelDrag()
		return err
	}
	ev, err := i.store.Dispatch(store.EndDrag{})
	if err != nil {
		return err
	}
	if ev.Action == store.ActionCancel {
		return writeln(i.stdout, "unchanged")
	}
	return i.report(ev)
}

func (i *interactiveCmd) move(args []string) error {
	if len(args) != 3 {
		return errors.New("usage: move <id> <dx> <dy>")
	}
	a, ok := i.store.Get(args[0])
	if !ok {
		return fmt.Errorf("move %s: %w", args[0], store.ErrNotFound)
	}
	d, err := parseDelta(args[1:])
	if err != nil {
		return err
	}
	from := annotation.Center(a.Geometry)
	return i.drag(store.BeginMove{ID: a.ID, Point: imagePoint(from)}, from, d)
}

// resize drags a box handle, or the east rim point of a circle, by dx,dy.
func (i *interactiveCmd) resize(args []string) error {
	if len(args) != 4 {
		return errors.New("usage: resize <id> <nw|n|ne|e|se|s|sw|w|rim> <dx> <dy>")
	}
	a, ok := i.store.Get(args[0])
	if !ok {
		return fmt.Errorf("resize %s: %w", args[0], store.ErrNotFound)
	}
	d, err := parseDelta(args[2:])
	if err != nil {
		return err
	}
	h := geom.Handle(strings.ToLower(args[1]))
	var from geom.Point
	switch g := a.Geometry.(type) {
	case annotation.Box:
		if !isHandle(h) {
			return fmt.Errorf("unknown handle %q", args[1])
		}
		from = geom.HandlePosition(geom.NormalizeBbox(g.BBox), h)
	case annotation.Circle:
		from = g.Center.Add(geom.Pt(g.Radius, 0))
		h = geom.HandleNone
	default:
		return fmt.Errorf("cannot resize %s", a.Kind())
	}
	return i.drag(store.BeginResize{ID: a.ID, Handle: h, Point: imagePoint(from)}, from, d)
}

func (i *interactiveCmd) moveVertex(args []string) error {
	if len(args) != 4 {
		return errors.New("usage: vertex <id> <index> <dx> <dy>")
	}
	id, idx, err := i.idIndex(args[:2])
	if err != nil {
		return err
	}
	d, err := parseDelta(args[2:])
	if err != nil {
		return err
	}
	a, ok := i.store.Get(id)
	if !ok {
		return fmt.Errorf("vertex %s: %w", id, store.ErrNotFound)
	}
	pts := annotation.Points(a.Geometry)
	if idx < 0 || idx >= len(pts) {
		return fmt.Errorf("vertex %d: %w", idx, store.ErrInvalidGeometry)
	}
	return i.drag(store.BeginVertexDrag{ID: id, Index: idx, Point: imagePoint(pts[idx])}, pts[idx], d)
}

func (i *interactiveCmd) insertVertex(args []string) error {
	if len(args) != 3 {
		return errors.New("usage: insert <id> <after> x,y")
	}
	id, after, err := i.idIndex(args[:2])
	if err != nil {
		return err
	}
	p, err := parsePoint(args[2])
	if err != nil {
		return err
	}
	return i.dispatch(store.InsertVertex{ID: id, After: after, Point: imagePoint(p)})
}

func (i *interactiveCmd) filter(args []string) error {
	f := i.store.Filters()
	if len(args) == 0 {
		return errors.New("usage: filter all|drafts|confirmed|draft-state|hide <class>|show <class>")
	}
	switch args[0] {
	case "all":
		f = annotation.Filters{}
	case "drafts":
		f.DraftsOnly, f.State = true, ""
	case "confirmed":
		f.DraftsOnly, f.State = false, annotation.StateConfirmed
	case "draft-state":
		f.DraftsOnly, f.State = false, annotation.StateDraft
	case "hide", "show":
		if len(args) != 2 {
			return fmt.Errorf("usage: filter %s <class>", args[0])
		}
		hidden := map[string]bool{}
		for k, v := range f.HiddenClasses {
			hidden[k] = v
		}
		if args[0] == "hide" {
			hidden[args[1]] = true
		} else {
			delete(hidden, args[1])
		}
		f.HiddenClasses = hidden
	default:
		return fmt.Errorf("unknown filter %q", args[0])
	}
	return i.dispatch(store.SetFilters{Filters: f})
}

func (i *interactiveCmd) fit(args []string) error {
	p := i.store.Params()
	w, h := p.SurfaceWidth, p.SurfaceHeight
	if len(args) == 2 {
		d, err := parseDelta(args)
		if err != nil {
			return err
		}
		w, h = d.X, d.Y
	}
	if w <= 0 || h <= 0 {
		return errors.New("usage: fit <surface-width> <surface-height>")
	}
	if _, err := i.store.Dispatch(store.SetSurfaceSize{Width: w, Height: h}); err != nil {
		return err
	}
	return i.dispatch(store.FitToSurface{})
}

// list prints the annotations in paint order, bottom first.
func (i *interactiveCmd) list() error {
	anns := annotation.SortByZIndex(i.store.Annotations(), i.store.Selected())
	filters := i.store.Filters()
	for _, a := range anns {
		line := describe(a)
		if a.ID == i.store.Selected() {
			line += " selected"
		}
		if !i.store.IsVisible(a.ID) || !annotation.IsVisible(a, filters) {
			line += " hidden"
		}
		if err := writeln(i.stdout, line); err != nil {
			return err
		}
	}
	past, future := i.store.HistoryDepth()
	return writef(i.stdout, "%d annotations, %d undo, %d redo\n", len(anns), past, future)
}

func (i *interactiveCmd) save(args []string) error {
	path := i.annPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return errors.New("usage: save <path>")
	}
	if err := annotation.WriteFile(path, i.store.Annotations()); err != nil {
		return err
	}
	i.annPath = path
	i.notifySave(path)
	return writef(i.stdout, "saved %s\n", path)
}

func (i *interactiveCmd) load(args []string) error {
	path := i.annPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return errors.New("usage: load <path>")
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	anns, err := annotation.ReadFile(path, nil)
	if err != nil {
		return err
	}
	if err := i.dispatch(store.Load{Annotations: anns}); err != nil {
		return err
	}
	i.annPath = path
	return nil
}

func (i *interactiveCmd) exportImage(args []string) error {
	path := i.export
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return errors.New("usage: export <path>")
	}
	out := render.Export(i.img, i.store.Painted(), i.theme(), render.WithSelected(i.store.Selected()))
	if err := imagesrc.Save(out, path); err != nil {
		return err
	}
	i.notifyExport(path, out)
	return writef(i.stdout, "exported %s\n", path)
}

func (i *interactiveCmd) copyAnnotations() error {
	anns := i.store.Annotations()
	if a, ok := i.store.Get(i.store.Selected()); ok {
		anns = []annotation.Annotation{a}
	}
	if err := clipboard.WriteAnnotations(anns); err != nil {
		return err
	}
	detail := fmt.Sprintf("%d annotations", len(anns))
	i.notifyCopy(detail)
	return writef(i.stdout, "copied %s\n", detail)
}

func (i *interactiveCmd) paste() error {
	anns, err := clipboard.ReadAnnotations(nil)
	if err != nil {
		return err
	}
	for _, a := range anns {
		a.ID, a.ImageID = "", ""
		if err := i.dispatch(store.Create{Annotation: a}); err != nil {
			return err
		}
	}
	return nil
}

// targetID returns the first argument, or the selection when there is none.
func (i *interactiveCmd) targetID(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if sel := i.store.Selected(); sel != "" {
		return sel, nil
	}
	return "", errors.New("no annotation given or selected")
}

func (i *interactiveCmd) idIndex(args []string) (string, int, error) {
	if len(args) != 2 {
		return "", 0, errors.New("expected <id> <index>")
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return "", 0, fmt.Errorf("invalid index %q", args[1])
	}
	return args[0], n, nil
}

func imagePoint(p geom.Point) viewport.ImagePoint {
	return viewport.Image(p.X, p.Y)
}

func parsePoints(args []string) ([]geom.Point, error) {
	pts := make([]geom.Point, 0, len(args))
	for _, a := range args {
		p, err := parsePoint(a)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return pts, nil
}

func parseDelta(args []string) (geom.Point, error) {
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("invalid number %q", args[0])
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("invalid number %q", args[1])
	}
	return geom.Pt(x, y), nil
}

func isHandle(h geom.Handle) bool {
	for _, x := range geom.Handles {
		if x == h {
			return true
		}
	}
	return false
}

func nonEmptyIDs(id string) []string {
	if id == "" {
		return nil
	}
	return []string{id}
}

const interactiveHelp = `Commands (coordinates are image pixels, points are x,y):
  blank <id> <w> <h>            start on an empty image
  image <path> [annotations]    open an image and its annotations
  class [id [name]]             class for new shapes
  box|square x,y x,y            draw a box from corner to corner
  circle cx,cy x,y              draw a circle from centre to rim
  circle3 x,y x,y x,y           draw the circle through three points
  polygon x,y x,y x,y...        draw a polygon
  polyline x,y x,y...           draw a polyline
  select <id>|none              change the selection
  move <id> <dx> <dy>           move an annotation
  resize <id> <handle> <dx> <dy>
                                drag a box handle, or 'rim' of a circle
  vertex <id> <i> <dx> <dy>     move one vertex
  insert <id> <after> x,y       insert a vertex after index
  remove-vertex <id> <i>        delete a vertex
  relabel <id> <class> [name]   change the class
  state <id> draft|confirmed    change the review state
  to-circle [id]                replace a shape with its fitted circle
  delete [id...]                delete annotations (default: selection)
  clear                         delete every annotation
  undo | redo
  toggle [id] | toggle-all      hide or show annotations
  filter all|drafts|confirmed|draft-state|hide <class>|show <class>
  list                          list annotations in paint order
  zoom <f> | pan <dx> <dy> | fit [w h] | view
  save [path] | load [path] | export [path]
  copy | paste                  exchange annotations with the clipboard
  exit`
