package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/shineylabel/internal/annotation"
	"github.com/example/shineylabel/internal/clipboard"
)

type normalizeCmd struct {
	input         string
	output        string
	imageID       string
	fromClipboard bool
	toClipboard   bool
	*root
	fs *flag.FlagSet
}

func (c *normalizeCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseNormalizeCmd(args []string, r *root) (*normalizeCmd, error) {
	fs := flag.NewFlagSet("normalize", flag.ExitOnError)
	c := &normalizeCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.output, "output", "", "write the result to this file instead of stdout")
	fs.StringVar(&c.imageID, "image-id", "", "image ID given to annotations that have none")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "read annotations from the clipboard")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "place the result on the clipboard")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		if c.fromClipboard {
			return nil, fmt.Errorf("an input file cannot be used with -from-clipboard")
		}
		c.input = fs.Arg(0)
	}
	return c, nil
}

func (c *normalizeCmd) read() ([]annotation.Annotation, error) {
	if c.fromClipboard {
		return clipboard.ReadAnnotations(tempIDs())
	}
	var (
		data []byte
		err  error
	)
	if c.input == "" || c.input == "-" {
		data, err = io.ReadAll(c.stdin)
	} else {
		data, err = os.ReadFile(c.input)
	}
	if err != nil {
		return nil, err
	}
	return decodeAnnotations(data)
}

func (c *normalizeCmd) Run() error {
	anns, err := c.read()
	if err != nil {
		return fmt.Errorf("failed to read annotations: %w", err)
	}
	if c.imageID != "" {
		for i := range anns {
			if anns[i].ImageID == "" {
				anns[i].ImageID = c.imageID
			}
		}
	}
	if c.toClipboard {
		if err := clipboard.WriteAnnotations(anns); err != nil {
			return fmt.Errorf("failed to copy annotations: %w", err)
		}
		c.notifyCopy(fmt.Sprintf("%d annotations", len(anns)))
		if c.output == "" {
			return nil
		}
	}
	if c.output != "" {
		if err := annotation.WriteFile(c.output, anns); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved %s\n", c.output)
		c.notifySave(c.output)
		return nil
	}
	data, err := annotation.EncodeSnapshots(annotation.ToSnapshots(anns))
	if err != nil {
		return err
	}
	_, err = c.stdout.Write(append(data, '\n'))
	return err
}
