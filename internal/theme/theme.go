package theme

import (
	"image/color"
)

// Theme defines the color palette for the board canvas and its overlays.
type Theme struct {
	Name string

	// Canvas
	CanvasBackground color.RGBA
	GridMinor        color.RGBA
	GridMajor        color.RGBA

	// Frames
	FrameBorder color.RGBA
	FrameLabel  color.RGBA

	// Selection & handles
	SelectionBorder color.RGBA
	HandleFill      color.RGBA
	HandleBorder    color.RGBA

	// Marquee and creation preview
	MarqueeBorder color.RGBA
	MarqueeFill   color.RGBA
}

// Default returns the hardcoded dark theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:             "Default",
		CanvasBackground: color.RGBA{30, 30, 36, 255},
		GridMinor:        color.RGBA{42, 42, 50, 255},
		GridMajor:        color.RGBA{56, 56, 66, 255},
		FrameBorder:      color.RGBA{90, 90, 100, 255},
		FrameLabel:       color.RGBA{200, 200, 208, 255},
		SelectionBorder:  color.RGBA{59, 130, 246, 255},
		HandleFill:       color.RGBA{255, 255, 255, 255},
		HandleBorder:     color.RGBA{59, 130, 246, 255},
		MarqueeBorder:    color.RGBA{59, 130, 246, 255},
		MarqueeFill:      color.RGBA{59, 130, 246, 40},
	}
}
