package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/shineylabel/internal/fit"
	"github.com/example/shineylabel/internal/geom"
)

type fitCircleCmd struct {
	points []geom.Point
	*root
	fs *flag.FlagSet
}

func (c *fitCircleCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseFitCircleCmd(args []string, r *root) (*fitCircleCmd, error) {
	fs := flag.NewFlagSet("fit-circle", flag.ExitOnError)
	c := &fitCircleCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 3 {
		return nil, &UsageError{of: c}
	}
	for _, arg := range fs.Args() {
		p, err := parsePoint(arg)
		if err != nil {
			return nil, err
		}
		c.points = append(c.points, p)
	}
	return c, nil
}

func (c *fitCircleCmd) Run() error {
	var (
		circle fit.Circle
		ok     bool
	)
	if len(c.points) == 3 {
		circle, ok = fit.CircleFrom3Points(c.points[0], c.points[1], c.points[2])
	} else {
		circle, ok = fit.FitCircle(c.points)
	}
	if !ok {
		return fmt.Errorf("points are collinear")
	}
	return writef(c.stdout, "centre=%.2f,%.2f radius=%.2f\n", circle.Center.X, circle.Center.Y, circle.Radius)
}

// parsePoint reads "x,y".
func parsePoint(s string) (geom.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geom.Point{}, fmt.Errorf("invalid point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return geom.Pt(x, y), nil
}
