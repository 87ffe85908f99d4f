package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/shineylabel/internal/annotation"
	"github.com/example/shineylabel/internal/geom"
)

type inspectCmd struct {
	path     string
	selected string
	*root
	fs *flag.FlagSet
}

func (c *inspectCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseInspectCmd(args []string, r *root) (*inspectCmd, error) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	c := &inspectCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.selected, "selected", "", "list this annotation last, as it is drawn on top")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, &UsageError{of: c}
	}
	c.path = fs.Arg(0)
	return c, nil
}

func (c *inspectCmd) Run() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return err
	}
	anns, err := decodeAnnotations(data)
	if err != nil {
		return fmt.Errorf("%s: %w", c.path, err)
	}
	return writeInspection(c.stdout, annotation.SortByZIndex(anns, c.selected))
}

func decodeAnnotations(data []byte) ([]annotation.Annotation, error) {
	snaps, err := annotation.DecodeSnapshots(data)
	if err != nil {
		return nil, err
	}
	return annotation.FromSnapshots(snaps, tempIDs()), nil
}

// tempIDs numbers annotations that arrive without an ID.
func tempIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("tmp-%d", n)
	}
}

func writeInspection(w io.Writer, anns []annotation.Annotation) error {
	for _, a := range anns {
		if err := writeln(w, describe(a)); err != nil {
			return err
		}
	}
	return nil
}

// describe formats one annotation for listings.
func describe(a annotation.Annotation) string {
	line := fmt.Sprintf("%s %s", a.ID, a.Kind())
	if a.ClassID != "" {
		line += " class=" + a.ClassID
	}
	line += " state=" + string(a.EffectiveState())
	if _, ok := a.Geometry.(annotation.Unknown); ok || a.Geometry == nil {
		return line
	}
	b := annotation.Bounds(a.Geometry)
	c := annotation.Center(a.Geometry)
	line += fmt.Sprintf(" bounds=%s area=%.2f centre=%s", formatBbox(b), annotation.Area(a.Geometry), formatPoint(c))
	if p, ok := a.Geometry.(annotation.Polygon); ok {
		winding := "counter-clockwise"
		if geom.IsClockwise(p.Points) {
			winding = "clockwise"
		}
		line += " winding=" + winding
	}
	return line
}

func formatPoint(p geom.Point) string {
	return fmt.Sprintf("%g,%g", p.X, p.Y)
}

func formatBbox(b geom.Bbox) string {
	return fmt.Sprintf("[%g %g %g %g]", b.X(), b.Y(), b.W(), b.H())
}
