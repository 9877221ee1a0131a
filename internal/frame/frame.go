// Package frame defines the board's entity model: the Frame itself, the
// partial-update patch applied at the store boundary, and the persisted
// record schema shared with the directory backend.
package frame

import (
	"image/color"
	"math"

	"github.com/example/frameboard/internal/geom"
)

// Frame is a rectangle on the infinite canvas.
type Frame struct {
	ID       string
	Name     string
	X, Y     float64
	Width    float64
	Height   float64
	Color    color.RGBA
	Rotation float64 // degrees, display only; hit tests use the unrotated box
	Locked   bool    // blocks pointer move/resize, not property edits
	Visible  bool
	Opacity  float64 // 0..1 render multiplier

	// Ref is the storage location backing this frame. Empty until the first
	// successful create in the backend.
	Ref string
}

// Rect returns the frame's world-space rectangle.
func (f *Frame) Rect() geom.Rect {
	return geom.Rect{X: f.X, Y: f.Y, W: f.Width, H: f.Height}
}

// SetRect writes the normalized form of r into the frame's geometry.
func (f *Frame) SetRect(r geom.Rect) {
	n := geom.Normalize(r)
	f.X, f.Y, f.Width, f.Height = n.X, n.Y, n.W, n.H
}

// Update is a partial patch. Nil fields are left untouched.
type Update struct {
	Name     *string
	X        *float64
	Y        *float64
	Width    *float64
	Height   *float64
	Color    *color.RGBA
	Rotation *float64
	Locked   *bool
	Visible  *bool
	Opacity  *float64
}

// Apply merges u into f field by field. Numeric fields are validated at this
// boundary: NaN and infinities are ignored, opacity is clamped to 0..1 and
// extents are normalized afterwards so the frame never keeps a negative size.
func (f *Frame) Apply(u Update) {
	if u.Name != nil {
		f.Name = *u.Name
	}
	if u.X != nil && finite(*u.X) {
		f.X = *u.X
	}
	if u.Y != nil && finite(*u.Y) {
		f.Y = *u.Y
	}
	if u.Width != nil && finite(*u.Width) {
		f.Width = *u.Width
	}
	if u.Height != nil && finite(*u.Height) {
		f.Height = *u.Height
	}
	if u.Color != nil {
		f.Color = *u.Color
	}
	if u.Rotation != nil && finite(*u.Rotation) {
		f.Rotation = *u.Rotation
	}
	if u.Locked != nil {
		f.Locked = *u.Locked
	}
	if u.Visible != nil {
		f.Visible = *u.Visible
	}
	if u.Opacity != nil && finite(*u.Opacity) {
		f.Opacity = clamp01(*u.Opacity)
	}
	f.SetRect(f.Rect())
}

// Clone returns a copy of f. Frames contain no reference types, so this is a
// plain value copy kept explicit for history snapshots.
func (f *Frame) Clone() Frame {
	return *f
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// PresetSize is a named standard frame size.
type PresetSize struct {
	Name   string
	Width  float64
	Height float64
}

// PresetSizes lists the standard sizes offered when creating frames.
func PresetSizes() []PresetSize {
	return []PresetSize{
		{"Card", 200, 200},
		{"Phone", 375, 667},
		{"Tablet", 768, 1024},
		{"Desktop", 1440, 900},
		{"Slide 16:9", 1920, 1080},
		{"Square", 1080, 1080},
	}
}
