// Package viewport maps points between the three coordinate spaces of the
// editor: the device (window) space reported by input events, the drawing
// surface inside the window, and the source image. Each space has its own
// point type, so skipping a transform does not compile.
package viewport

import (
	"math"

	"github.com/example/shineylabel/internal/geom"
)

// DevicePoint is a position in window coordinates.
type DevicePoint geom.Point

// SurfacePoint is a position relative to the drawing surface origin.
type SurfacePoint geom.Point

// ImagePoint is a position in source image pixels.
type ImagePoint geom.Point

// Device, Surface and Image build space-tagged points.
func Device(x, y float64) DevicePoint   { return DevicePoint{X: x, Y: y} }
func Surface(x, y float64) SurfacePoint { return SurfacePoint{X: x, Y: y} }
func Image(x, y float64) ImagePoint     { return ImagePoint{X: x, Y: y} }

// Point strips the space tag.
func (p DevicePoint) Point() geom.Point  { return geom.Point(p) }
func (p SurfacePoint) Point() geom.Point { return geom.Point(p) }
func (p ImagePoint) Point() geom.Point   { return geom.Point(p) }

const (
	DefaultZoomMin = 0.1
	DefaultZoomMax = 4.0
)

// Params describes the current view. It is recomputed on every interaction
// and never stored with annotations.
type Params struct {
	Zoom          float64
	Pan           geom.Point
	ImageWidth    float64
	ImageHeight   float64
	SurfaceWidth  float64
	SurfaceHeight float64
}

// ImageBounds returns where the image lands on the surface. At zoom 1 with no
// pan the image is centred.
func ImageBounds(p Params) geom.Rect {
	w := p.ImageWidth * p.Zoom
	h := p.ImageHeight * p.Zoom
	return geom.Rect{
		X:      (p.SurfaceWidth-w)/2 + p.Pan.X,
		Y:      (p.SurfaceHeight-h)/2 + p.Pan.Y,
		Width:  w,
		Height: h,
	}
}

// DeviceToSurface subtracts the surface's on-screen origin.
func DeviceToSurface(p, origin DevicePoint) SurfacePoint {
	return SurfacePoint{X: p.X - origin.X, Y: p.Y - origin.Y}
}

// SurfaceToDevice adds the surface's on-screen origin back.
func SurfaceToDevice(p SurfacePoint, origin DevicePoint) DevicePoint {
	return DevicePoint{X: p.X + origin.X, Y: p.Y + origin.Y}
}

// SurfaceToImage maps a surface position into image pixels. A zoom of zero
// yields non-finite coordinates; callers clamp zoom first.
func SurfaceToImage(p SurfacePoint, params Params) ImagePoint {
	b := ImageBounds(params)
	return ImagePoint{X: (p.X - b.X) / params.Zoom, Y: (p.Y - b.Y) / params.Zoom}
}

// ImageToSurface maps image pixels onto the surface.
func ImageToSurface(p ImagePoint, params Params) SurfacePoint {
	b := ImageBounds(params)
	return SurfacePoint{X: b.X + p.X*params.Zoom, Y: b.Y + p.Y*params.Zoom}
}

// DeviceToImage is SurfaceToImage after DeviceToSurface.
func DeviceToImage(p, origin DevicePoint, params Params) ImagePoint {
	return SurfaceToImage(DeviceToSurface(p, origin), params)
}

// ImageToDevice is SurfaceToDevice after ImageToSurface.
func ImageToDevice(p ImagePoint, origin DevicePoint, params Params) DevicePoint {
	return SurfaceToDevice(ImageToSurface(p, params), origin)
}

// IsPointInImage reports whether a surface position falls on the image,
// edges included.
func IsPointInImage(p SurfacePoint, params Params) bool {
	b := ImageBounds(params)
	return p.X >= b.X && p.X <= b.X+b.Width && p.Y >= b.Y && p.Y <= b.Y+b.Height
}

// ClampToImageBounds clamps each axis of p into [0, w] and [0, h].
func ClampToImageBounds(p ImagePoint, w, h float64) ImagePoint {
	return ImagePoint{X: clamp(p.X, 0, w), Y: clamp(p.Y, 0, h)}
}

// ClampZoom limits z to [min, max]. Non-finite or non-positive input falls back
// to min.
func ClampZoom(z, min, max float64) float64 {
	if math.IsNaN(z) || z <= 0 {
		return min
	}
	return clamp(z, min, max)
}

// FitZoom returns the largest zoom at which the whole image fits inside the
// surface with margin pixels kept free on every side, never above 1.
func FitZoom(p Params, margin float64) float64 {
	if p.ImageWidth <= 0 || p.ImageHeight <= 0 {
		return 1
	}
	availW := p.SurfaceWidth - 2*margin
	availH := p.SurfaceHeight - 2*margin
	if availW <= 0 || availH <= 0 {
		return DefaultZoomMin
	}
	z := math.Min(availW/p.ImageWidth, availH/p.ImageHeight)
	return math.Min(z, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
