package render

import (
	"image"

	"github.com/example/shineylabel/internal/annotation"
	"github.com/example/shineylabel/internal/theme"
	"github.com/example/shineylabel/internal/viewport"
)

type exportOptions struct {
	selected string
	filters  annotation.Filters
}

// ExportOption tunes Export.
type ExportOption func(*exportOptions)

// WithSelected highlights one annotation as the editor would.
func WithSelected(id string) ExportOption {
	return func(o *exportOptions) { o.selected = id }
}

// WithFilters leaves out annotations the filters hide.
func WithFilters(f annotation.Filters) ExportOption {
	return func(o *exportOptions) { o.filters = f }
}

// Export paints src and anns at zoom 1 onto a new image the size of src.
func Export(src image.Image, anns []annotation.Annotation, th *theme.Theme, opts ...ExportOption) *image.RGBA {
	var o exportOptions
	for _, fn := range opts {
		fn(&o)
	}
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	w, h := float64(b.Dx()), float64(b.Dy())

	var visible []annotation.Annotation
	for _, a := range anns {
		if annotation.IsVisible(a, o.filters) {
			visible = append(visible, a)
		}
	}
	Draw(Frame{
		Surface: out,
		Source:  src,
		Params: viewport.Params{
			Zoom:          1,
			ImageWidth:    w,
			ImageHeight:   h,
			SurfaceWidth:  w,
			SurfaceHeight: h,
		},
		Annotations: annotation.SortByZIndex(visible, o.selected),
		SelectedID:  o.selected,
		Theme:       th,
	})
	return out
}
