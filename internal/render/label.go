package render

import (
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/shineylabel/internal/annotation"
)

const labelPad = 2

var (
	labelFaceOnce sync.Once
	labelFace     font.Face
)

// face returns the label font, falling back to the built-in bitmap face when
// the embedded TrueType font cannot be loaded.
func face() font.Face {
	labelFaceOnce.Do(func() {
		labelFace = basicfont.Face7x13
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			log.Printf("render: parse font: %v", err)
			return
		}
		fc, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 12, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			log.Printf("render: font face: %v", err)
			return
		}
		labelFace = fc
	})
	return labelFace
}

// ClassColor derives a stable colour for a class. Annotations without a
// class use fallback.
func ClassColor(classID string, fallback color.RGBA) color.RGBA {
	if classID == "" {
		return fallback
	}
	h := fnv.New32a()
	h.Write([]byte(classID))
	hue := float64(h.Sum32() % 360)
	r, g, b := colorful.Hsv(hue, 0.75, 0.95).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// LabelText is the caption drawn next to an annotation: its class name (or
// ID) and confidence.
func LabelText(a annotation.Annotation) string {
	name := a.ClassName
	if name == "" {
		name = a.ClassID
	}
	if a.Confidence == nil {
		return name
	}
	pct := fmt.Sprintf("%.0f%%", *a.Confidence*100)
	if name == "" {
		return pct
	}
	return name + " " + pct
}

// drawLabel writes text on a background plate sitting on top of at, or
// just below it when there is no room above.
func drawLabel(dst *image.RGBA, text string, at image.Point, fg, bg color.Color) image.Rectangle {
	if text == "" {
		return image.Rectangle{}
	}
	f := face()
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: f}
	m := f.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	w := d.MeasureString(text).Ceil()
	rect := image.Rect(at.X, at.Y-ascent-descent-2*labelPad, at.X+w+2*labelPad, at.Y)
	if rect.Min.Y < dst.Bounds().Min.Y {
		rect = rect.Add(image.Pt(0, rect.Dy()))
	}
	draw.Draw(dst, rect, image.NewUniform(bg), image.Point{}, draw.Over)
	d.Dot = fixed.P(rect.Min.X+labelPad, rect.Min.Y+labelPad+ascent)
	d.DrawString(text)
	return rect
}
