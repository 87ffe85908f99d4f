package theme

import (
	"image/color"
)

// Theme defines the colours used to paint the canvas, annotations and the
// editor toolbar.
type Theme struct {
	Name string

	// Canvas
	Background   color.RGBA // Surface outside the image
	CheckerLight color.RGBA // Transparent image areas
	CheckerDark  color.RGBA

	// Annotations
	Stroke          color.RGBA // Outline for annotations without a class
	Selected        color.RGBA
	Handle          color.RGBA
	HandleBorder    color.RGBA
	Draft           color.RGBA // Shape being drawn
	Label           color.RGBA
	LabelBackground color.RGBA
	FillOpacity     float64 // Interior tint, 0 to 1
	StrokeWidth     float64 // Outline width in surface pixels
	GlowRadius      float64 // Blur radius of the selection halo, 0 disables it

	// Toolbar
	ToolbarBackground color.RGBA
	Foreground        color.RGBA
	ButtonBackground  color.RGBA
	ButtonActive      color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:              "Default",
		Background:        color.RGBA{220, 220, 220, 255},
		CheckerLight:      color.RGBA{220, 220, 220, 255},
		CheckerDark:       color.RGBA{192, 192, 192, 255},
		Stroke:            color.RGBA{255, 0, 0, 255},
		Selected:          color.RGBA{0, 120, 255, 255},
		Handle:            color.RGBA{255, 255, 255, 255},
		HandleBorder:      color.RGBA{0, 120, 255, 255},
		Draft:             color.RGBA{255, 165, 0, 255},
		Label:             color.RGBA{255, 255, 255, 255},
		LabelBackground:   color.RGBA{0, 0, 0, 160},
		FillOpacity:       0.2,
		StrokeWidth:       2,
		GlowRadius:        3,
		ToolbarBackground: color.RGBA{220, 220, 220, 255},
		Foreground:        color.RGBA{0, 0, 0, 255},
		ButtonBackground:  color.RGBA{200, 200, 200, 255},
		ButtonActive:      color.RGBA{150, 150, 150, 255},
	}
}
