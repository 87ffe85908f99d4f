package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/shineylabel/internal/annotation"
	"github.com/example/shineylabel/internal/clipboard"
	"github.com/example/shineylabel/internal/imagesrc"
	"github.com/example/shineylabel/internal/render"
)

type renderCmd struct {
	file        string
	annotations string
	output      string
	selected    string
	hideClasses commandList
	draftsOnly  bool
	state       string
	toClipboard bool
	*root
	fs *flag.FlagSet
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	c := &renderCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "", "source image")
	fs.StringVar(&c.annotations, "annotations", "", "annotation file (default: <image>.json)")
	fs.StringVar(&c.output, "output", "", "output image path")
	fs.StringVar(&c.selected, "selected", "", "annotation ID to draw as selected")
	fs.Var(&c.hideClasses, "hide-class", "class ID to leave out (may be specified multiple times)")
	fs.BoolVar(&c.draftsOnly, "drafts-only", false, "draw only draft annotations")
	fs.StringVar(&c.state, "state", "", "draw only annotations in this state (draft or confirmed)")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "also copy the rendered image to the clipboard")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.file == "" {
		return nil, &UsageError{of: c}
	}
	if c.output == "" && !c.toClipboard {
		return nil, fmt.Errorf("an -output path or -to-clipboard is required")
	}
	switch annotation.State(c.state) {
	case "", annotation.StateDraft, annotation.StateConfirmed:
	default:
		return nil, fmt.Errorf("unknown state %q", c.state)
	}
	return c, nil
}

func (c *renderCmd) filters() annotation.Filters {
	f := annotation.Filters{DraftsOnly: c.draftsOnly, State: annotation.State(c.state)}
	if len(c.hideClasses) > 0 {
		f.HiddenClasses = map[string]bool{}
		for _, id := range c.hideClasses {
			f.HiddenClasses[id] = true
		}
	}
	return f
}

func (c *renderCmd) Run() error {
	annPath := c.annotations
	if annPath == "" {
		annPath = annotationPathFor(c.file, "")
	}
	img, s, err := openSession(c.root, c.file, annPath, "")
	if err != nil {
		return err
	}
	out := render.Export(img, s.Annotations(), c.theme(),
		render.WithSelected(c.selected),
		render.WithFilters(c.filters()),
	)
	if c.output != "" {
		if err := imagesrc.Save(out, c.output); err != nil {
			return fmt.Errorf("failed to save %s: %w", c.output, err)
		}
		fmt.Fprintf(os.Stderr, "saved %s\n", c.output)
		c.notifyExport(c.output, out)
	}
	if c.toClipboard {
		if err := clipboard.WriteImage(out); err != nil {
			return fmt.Errorf("failed to copy image: %w", err)
		}
		c.notifyCopy("image")
	}
	return nil
}
