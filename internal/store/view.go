package store

import (
	"github.com/example/shineylabel/internal/geom"
	"github.com/example/shineylabel/internal/viewport"
)

// Params returns the view parameters for coordinate transforms.
func (s *Store) Params() viewport.Params {
	return viewport.Params{
		Zoom:          s.zoom,
		Pan:           s.pan,
		ImageWidth:    s.imageW,
		ImageHeight:   s.imageH,
		SurfaceWidth:  s.surfaceW,
		SurfaceHeight: s.surfaceH,
	}
}

// Zoom returns the current zoom factor.
func (s *Store) Zoom() float64 { return s.zoom }

// ZoomRange returns the zoom clamp range.
func (s *Store) ZoomRange() (min, max float64) { return s.zoomMin, s.zoomMax }

// SetZoom sets the zoom, clamped to the configured range.
func (s *Store) SetZoom(z float64) {
	s.zoom = viewport.ClampZoom(z, s.zoomMin, s.zoomMax)
	s.emit(Event{Action: ActionView})
}

// ZoomBy multiplies the zoom by f while keeping the image point under anchor
// fixed on the surface.
func (s *Store) ZoomBy(f float64, anchor viewport.SurfacePoint) {
	params := s.Params()
	fixed := viewport.SurfaceToImage(anchor, params)
	z := viewport.ClampZoom(s.zoom*f, s.zoomMin, s.zoomMax)
	s.zoom = z
	s.pan = geom.Point{
		X: anchor.X - fixed.X*z - (s.surfaceW-s.imageW*z)/2,
		Y: anchor.Y - fixed.Y*z - (s.surfaceH-s.imageH*z)/2,
	}
	s.emit(Event{Action: ActionView})
}

// SetPan sets the pan offset in surface pixels.
func (s *Store) SetPan(p geom.Point) {
	s.pan = p
	s.emit(Event{Action: ActionView})
}

// PanBy shifts the pan offset.
func (s *Store) PanBy(dx, dy float64) {
	s.SetPan(s.pan.Add(geom.Pt(dx, dy)))
}

// SetImageSize records the pixel size of the active image. Drawn points are
// clamped into it.
func (s *Store) SetImageSize(w, h float64) {
	s.imageW, s.imageH = w, h
	s.emit(Event{Action: ActionView})
}

// SetSurfaceSize records the size of the drawing surface.
func (s *Store) SetSurfaceSize(w, h float64) {
	s.surfaceW, s.surfaceH = w, h
	s.emit(Event{Action: ActionView})
}

// FitToSurface picks the zoom that shows the whole image with margin pixels
// free around it and centres it.
func (s *Store) FitToSurface(margin float64) {
	s.zoom = viewport.ClampZoom(viewport.FitZoom(s.Params(), margin), s.zoomMin, s.zoomMax)
	s.pan = geom.Point{}
	s.emit(Event{Action: ActionView})
}
