package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/shineylabel/internal/annotation"
	"github.com/example/shineylabel/internal/appstate"
	"github.com/example/shineylabel/internal/imagesrc"
	"github.com/example/shineylabel/internal/store"
)

// annotateCmd represents the annotate subcommand.
type annotateCmd struct {
	file        string
	annotations string
	output      string
	export      string
	imageID     string
	class       string
	autosave    bool
	*root
	fs *flag.FlagSet
}

func (a *annotateCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	a := &annotateCmd{root: r, fs: fs}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.file, "file", "", "image file to annotate")
	fs.StringVar(&a.annotations, "annotations", "", "annotation file to load (default: <image>.json)")
	fs.StringVar(&a.output, "output", "", "where ctrl+s saves annotations (default: the -annotations file)")
	fs.StringVar(&a.export, "export", "", "where ctrl+e writes the rendered image")
	fs.StringVar(&a.imageID, "image-id", "", "image identifier stored on new annotations (default: file name)")
	fs.StringVar(&a.class, "class", "", "class given to new shapes, as id or id:name")
	fs.BoolVar(&a.autosave, "autosave", false, "save annotations to the output file when the window closes")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if a.file == "" {
		if fs.NArg() < 1 {
			return nil, &UsageError{of: a}
		}
		a.file = fs.Arg(0)
	}
	return a, nil
}

func (a *annotateCmd) Run() error {
	annPath := a.annotations
	if annPath == "" {
		annPath = annotationPathFor(a.file, a.saveDir())
	}
	img, s, err := openSession(a.root, a.file, annPath, a.imageID)
	if err != nil {
		return err
	}
	out := a.output
	if out == "" {
		out = annPath
	}
	classID, className := splitClass(a.class)
	opts := []appstate.Option{
		appstate.WithStore(s),
		appstate.WithImage(img),
		appstate.WithOutput(out),
		appstate.WithExportPath(a.export),
		appstate.WithTheme(a.theme()),
		appstate.WithNotifier(a.notifier),
		appstate.WithClass(classID, className),
	}
	if a.autosave {
		opts = append(opts, appstate.WithOnClose(saveOnClose(s, out)))
	}
	appstate.New(opts...).Run()
	return nil
}

// saveOnClose writes the store's annotations to path, skipping sessions
// that made no edits.
func saveOnClose(s *store.Store, path string) func() {
	return func() {
		if !s.CanUndo() {
			return
		}
		if err := annotation.WriteFile(path, s.Annotations()); err != nil {
			log.Printf("autosave: %v", err)
			return
		}
		log.Printf("autosaved %d annotations to %s", s.Len(), path)
	}
}

func (a *annotateCmd) saveDir() string {
	if a.config == nil {
		return ""
	}
	return a.config.SaveDir
}

// openSession loads the image and its annotations into a fresh store.
func openSession(r *root, imagePath, annPath, imageID string) (image.Image, *store.Store, error) {
	img, err := imagesrc.Load(imagePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open image %s: %w", imagePath, err)
	}
	if imageID == "" {
		imageID = imageIDFor(imagePath)
	}
	s := r.newStore()
	s.SetActive(imageID, "")
	s.SetImageSize(imagesrc.Size(img))
	if annPath != "" {
		anns, err := annotation.ReadFile(annPath, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read annotations: %w", err)
		}
		if err := s.Load(anns); err != nil {
			return nil, nil, fmt.Errorf("failed to load annotations from %s: %w", annPath, err)
		}
	}
	return img, s, nil
}

// imageIDFor names an image by its file name without extension.
func imageIDFor(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// annotationPathFor places the annotation file next to the image, or in dir
// when one is configured.
func annotationPathFor(imagePath, dir string) string {
	name := imageIDFor(imagePath) + ".json"
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err == nil {
			return filepath.Join(dir, name)
		}
	}
	return filepath.Join(filepath.Dir(imagePath), name)
}

// splitClass parses "id" or "id:name".
func splitClass(v string) (id, name string) {
	id, name, _ = strings.Cut(v, ":")
	return strings.TrimSpace(id), strings.TrimSpace(name)
}
