package render

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/example/shineylabel/internal/annotation"
	"github.com/example/shineylabel/internal/geom"
	"github.com/example/shineylabel/internal/theme"
	"github.com/example/shineylabel/internal/viewport"
)

var blue = color.RGBA{0, 0, 255, 255}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func box(id, class string) annotation.Annotation {
	return annotation.Annotation{
		ID:       id,
		ClassID:  class,
		Geometry: annotation.Box{BBox: geom.Bbox{10, 10, 40, 30}},
	}
}

func TestClassColor(t *testing.T) {
	fallback := color.RGBA{1, 2, 3, 255}
	if got := ClassColor("", fallback); got != fallback {
		t.Errorf("no class = %v, want fallback", got)
	}
	a, b := ClassColor("cat", fallback), ClassColor("cat", fallback)
	if a != b {
		t.Errorf("class colour not stable: %v vs %v", a, b)
	}
	if a == ClassColor("dog", fallback) {
		t.Errorf("cat and dog share %v", a)
	}
	if a.A != 255 {
		t.Errorf("class colour alpha = %d", a.A)
	}
}

func TestLabelText(t *testing.T) {
	conf := 0.876
	tests := []struct {
		a    annotation.Annotation
		want string
	}{
		{annotation.Annotation{ClassID: "3", ClassName: "cat"}, "cat"},
		{annotation.Annotation{ClassID: "3"}, "3"},
		{annotation.Annotation{ClassName: "cat", Confidence: &conf}, "cat 88%"},
		{annotation.Annotation{Confidence: &conf}, "88%"},
		{annotation.Annotation{}, ""},
	}
	for _, tt := range tests {
		if got := LabelText(tt.a); got != tt.want {
			t.Errorf("LabelText(%+v) = %q, want %q", tt.a, got, tt.want)
		}
	}
}

func TestBlurAlpha(t *testing.T) {
	src := image.NewAlpha(image.Rect(0, 0, 9, 9))
	src.SetAlpha(4, 4, color.Alpha{255})

	out := blurAlpha(src, 1)
	center := out.AlphaAt(4, 4).A
	if center == 0 || center == 255 {
		t.Fatalf("center alpha = %d, want partial", center)
	}
	if out.AlphaAt(3, 3).A == 0 || out.AlphaAt(5, 4).A == 0 {
		t.Errorf("blur did not spread to neighbours")
	}
	if out.AlphaAt(0, 0).A != 0 {
		t.Errorf("blur leaked to the corner")
	}

	same := blurAlpha(src, 0)
	if same.AlphaAt(4, 4).A != 255 {
		t.Errorf("zero radius should copy")
	}
}

func TestCheckerboard(t *testing.T) {
	light := color.RGBA{255, 255, 255, 255}
	dark := color.RGBA{0, 0, 0, 255}
	dst := image.NewRGBA(image.Rect(0, 0, 16, 16))
	drawCheckerboard(dst, dst.Bounds(), 8, light, dark)
	if dst.RGBAAt(0, 0) != light || dst.RGBAAt(8, 0) != dark || dst.RGBAAt(8, 8) != light || dst.RGBAAt(0, 15) != dark {
		t.Errorf("unexpected checkerboard pattern")
	}
}

func TestExport(t *testing.T) {
	th := theme.Default()
	src := solid(100, 80, blue)

	out := Export(src, []annotation.Annotation{box("1", "")}, th)
	if out.Bounds() != image.Rect(0, 0, 100, 80) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if got := out.RGBAAt(10, 20); got != th.Stroke {
		t.Errorf("outline pixel = %v, want %v", got, th.Stroke)
	}
	if got := out.RGBAAt(70, 60); got != blue {
		t.Errorf("outside pixel = %v, want source", got)
	}
	inside := out.RGBAAt(30, 25)
	if inside == blue || inside.R == 0 {
		t.Errorf("interior pixel = %v, want tinted", inside)
	}
	if src.RGBAAt(10, 20) != blue {
		t.Errorf("source image was modified")
	}
}

func TestExportSelected(t *testing.T) {
	th := theme.Default()
	out := Export(solid(100, 80, blue), []annotation.Annotation{box("1", "")}, th, WithSelected("1"))
	if got := out.RGBAAt(10, 10); got != th.Handle {
		t.Errorf("corner handle = %v, want %v", got, th.Handle)
	}
	if got := out.RGBAAt(10, 20); got != th.Selected {
		t.Errorf("selected outline = %v, want %v", got, th.Selected)
	}
}

func TestExportSelectedGlow(t *testing.T) {
	th := theme.Default()
	out := Export(solid(100, 80, blue), []annotation.Annotation{box("1", "")}, th, WithSelected("1"))
	if got := out.RGBAAt(8, 20); got.G == 0 {
		t.Errorf("no halo outside selected outline: %v", got)
	}
	th.GlowRadius = 0
	out = Export(solid(100, 80, blue), []annotation.Annotation{box("1", "")}, th, WithSelected("1"))
	if got := out.RGBAAt(7, 20); got != blue {
		t.Errorf("halo painted with zero radius: %v", got)
	}
}

func TestExportFilters(t *testing.T) {
	th := theme.Default()
	out := Export(solid(100, 80, blue), []annotation.Annotation{box("1", "cat")}, th,
		WithFilters(annotation.Filters{HiddenClasses: map[string]bool{"cat": true}}))
	if got := out.RGBAAt(10, 20); got != blue {
		t.Errorf("hidden annotation painted: %v", got)
	}
}

func TestDrawZoomed(t *testing.T) {
	th := theme.Default()
	th.FillOpacity = 0
	surface := image.NewRGBA(image.Rect(0, 0, 200, 200))
	params := viewport.Params{Zoom: 2, ImageWidth: 50, ImageHeight: 50, SurfaceWidth: 200, SurfaceHeight: 200}
	cursor := geom.Pt(40, 40)
	Draw(Frame{
		Surface:     surface,
		Params:      params,
		Annotations: []annotation.Annotation{{ID: "1", Geometry: annotation.Circle{Center: geom.Pt(25, 25), Radius: 10}}},
		Draft:       annotation.Polyline{Points: []geom.Point{{X: 5, Y: 5}, {X: 20, Y: 5}}},
		DraftCursor: &cursor,
		Theme:       th,
	})

	// The image occupies (50,50)-(150,150); outside it is background.
	if got := surface.RGBAAt(10, 10); got != th.Background {
		t.Errorf("background = %v", got)
	}
	if got := surface.RGBAAt(52, 52); got != th.CheckerLight {
		t.Errorf("checkerboard = %v", got)
	}
	// Circle centre (100,100), radius 20 at zoom 2.
	if got := surface.RGBAAt(119, 100); got != th.Stroke {
		t.Errorf("circle rim = %v, want %v", got, th.Stroke)
	}
	if got := surface.RGBAAt(100, 100); got == th.Stroke {
		t.Errorf("circle interior painted with FillOpacity 0")
	}
	// Draft segment from image (5,5) to (20,5) runs along surface y=60.
	if got := surface.RGBAAt(80, 60); got != th.Draft {
		t.Errorf("draft = %v, want %v", got, th.Draft)
	}
}
