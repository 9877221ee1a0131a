// Package render paints board scenes: the canvas grid, the frames in draw
// order, selection chrome and interaction overlays. The same renderer
// backs the live editor window and PNG export.
package render

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/example/frameboard/internal/frame"
	"github.com/example/frameboard/internal/geom"
	"github.com/example/frameboard/internal/theme"
)

const (
	// minGridSpacing is the on-screen spacing below which grid lines are
	// suppressed to avoid a moire wall.
	minGridSpacing = 5.0
	// majorEvery promotes every n-th grid line to the major color.
	majorEvery = 5
	// handleZoomThreshold hides resize handles when zoomed out too far to
	// grab them meaningfully.
	handleZoomThreshold = 0.5
	// labelZoomThreshold hides frame labels when they would be unreadable.
	labelZoomThreshold = 0.25
	// handleSize is the on-screen edge length of a resize handle square.
	handleSize = 8.0
	// labelSize is the label font size at zoom 1; the effective size
	// scales with zoom but never drops below minLabelSize.
	labelSize    = 13.0
	minLabelSize = 9.0
)

// Scene is everything needed to paint one view of the board.
type Scene struct {
	Frames   []frame.Frame
	Selected map[string]bool
	Camera   geom.Camera
	Size     geom.Size
	Theme    *theme.Theme

	GridSize    float64
	GridVisible bool

	// Marquee is a viewport-space selection rectangle overlay.
	Marquee *geom.Rect
	// Preview is a world-space rectangle for a frame being created.
	Preview *geom.Rect

	// OmitBackground leaves the canvas transparent; export uses it to
	// compose the frame layer over a shadow pass.
	OmitBackground bool
}

// Renderer paints scenes. Safe for reuse across paints; not safe for
// concurrent use.
type Renderer struct {
	font  *truetype.Font
	faces map[int]font.Face
}

// New creates a Renderer with the bundled label font.
func New() (*Renderer, error) {
	ft, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse label font: %w", err)
	}
	return &Renderer{
		font:  ft,
		faces: make(map[int]font.Face),
	}, nil
}

// labelFaceSize is the pixel size labels render at for a given zoom.
func labelFaceSize(zoom float64) int {
	return int(math.Round(max(labelSize*zoom, minLabelSize)))
}

// labelFace returns the face for the given zoom, building and caching one
// per pixel size.
func (r *Renderer) labelFace(zoom float64) font.Face {
	size := labelFaceSize(zoom)
	if f, ok := r.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(r.font, &truetype.Options{Size: float64(size)})
	r.faces[size] = f
	return f
}

// Render paints the scene into a fresh RGBA image of the scene size.
func (r *Renderer) Render(s Scene) *image.RGBA {
	th := s.Theme
	if th == nil {
		th = theme.Default()
	}
	w := int(math.Ceil(s.Size.W))
	h := int(math.Ceil(s.Size.H))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dc := gg.NewContext(w, h)

	if !s.OmitBackground {
		dc.SetColor(th.CanvasBackground)
		dc.Clear()
	}
	if s.GridVisible && !s.OmitBackground {
		r.drawGrid(dc, s, th)
	}

	for _, f := range s.Frames {
		if !f.Visible {
			continue
		}
		r.drawFrame(dc, s, th, f)
	}
	if s.Camera.Zoom >= handleZoomThreshold {
		for _, f := range s.Frames {
			if f.Visible && s.Selected[f.ID] {
				r.drawHandles(dc, s, th, f)
			}
		}
	}

	if s.Preview != nil {
		vp := worldRectToViewport(*s.Preview, s.Camera, s.Size)
		r.drawDashedRect(dc, th, vp, true)
	}
	if s.Marquee != nil {
		r.drawDashedRect(dc, th, *s.Marquee, true)
	}

	return dc.Image().(*image.RGBA)
}

func worldRectToViewport(r geom.Rect, cam geom.Camera, size geom.Size) geom.Rect {
	tl := geom.WorldToViewport(geom.Point{X: r.X, Y: r.Y}, cam, size)
	return geom.Rect{X: tl.X, Y: tl.Y, W: r.W * cam.Zoom, H: r.H * cam.Zoom}
}

func (r *Renderer) drawGrid(dc *gg.Context, s Scene, th *theme.Theme) {
	grid := s.GridSize
	if grid <= 0 || grid*s.Camera.Zoom < minGridSpacing {
		return
	}
	tl := geom.ViewportToWorld(geom.Point{}, s.Camera, s.Size)
	br := geom.ViewportToWorld(geom.Point{X: s.Size.W, Y: s.Size.H}, s.Camera, s.Size)

	// Minor pass then major pass, so major lines paint on top.
	for _, major := range []bool{false, true} {
		if major {
			dc.SetColor(th.GridMajor)
		} else {
			dc.SetColor(th.GridMinor)
		}
		for wx := math.Floor(tl.X/grid) * grid; wx <= br.X; wx += grid {
			idx := int(math.Round(wx / grid))
			if (idx%majorEvery == 0) != major {
				continue
			}
			vx := geom.WorldToViewport(geom.Point{X: wx}, s.Camera, s.Size).X
			dc.DrawLine(vx, 0, vx, s.Size.H)
		}
		for wy := math.Floor(tl.Y/grid) * grid; wy <= br.Y; wy += grid {
			idx := int(math.Round(wy / grid))
			if (idx%majorEvery == 0) != major {
				continue
			}
			vy := geom.WorldToViewport(geom.Point{Y: wy}, s.Camera, s.Size).Y
			dc.DrawLine(0, vy, s.Size.W, vy)
		}
		dc.SetLineWidth(1)
		dc.Stroke()
	}
}

func (r *Renderer) drawFrame(dc *gg.Context, s Scene, th *theme.Theme, f frame.Frame) {
	vp := worldRectToViewport(f.Rect(), s.Camera, s.Size)
	if vp.W < 0.5 || vp.H < 0.5 {
		return
	}

	dc.Push()
	if f.Rotation != 0 {
		dc.RotateAbout(gg.Radians(f.Rotation), vp.X+vp.W/2, vp.Y+vp.H/2)
	}

	alpha := f.Opacity
	c := f.Color
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255*alpha)
	dc.DrawRectangle(vp.X, vp.Y, vp.W, vp.H)
	dc.Fill()

	if s.Selected[f.ID] {
		dc.SetColor(th.SelectionBorder)
		dc.SetLineWidth(2)
	} else {
		dc.SetColor(th.FrameBorder)
		dc.SetLineWidth(1)
	}
	dc.DrawRectangle(vp.X, vp.Y, vp.W, vp.H)
	dc.Stroke()

	if f.Name != "" && s.Camera.Zoom >= labelZoomThreshold {
		dc.SetFontFace(r.labelFace(s.Camera.Zoom))
		dc.SetColor(th.FrameLabel)
		dc.DrawString(f.Name, vp.X, vp.Y-4)
	}
	dc.Pop()
}

func (r *Renderer) drawHandles(dc *gg.Context, s Scene, th *theme.Theme, f frame.Frame) {
	rect := f.Rect()
	for _, h := range geom.Handles() {
		p := geom.WorldToViewport(geom.HandlePoint(rect, h), s.Camera, s.Size)
		dc.SetColor(th.HandleFill)
		dc.DrawRectangle(p.X-handleSize/2, p.Y-handleSize/2, handleSize, handleSize)
		dc.Fill()
		dc.SetColor(th.HandleBorder)
		dc.SetLineWidth(1)
		dc.DrawRectangle(p.X-handleSize/2, p.Y-handleSize/2, handleSize, handleSize)
		dc.Stroke()
	}
}

func (r *Renderer) drawDashedRect(dc *gg.Context, th *theme.Theme, vp geom.Rect, fill bool) {
	vp = geom.Normalize(vp)
	if fill {
		dc.SetColor(th.MarqueeFill)
		dc.DrawRectangle(vp.X, vp.Y, vp.W, vp.H)
		dc.Fill()
	}
	dc.SetDash(4, 4)
	dc.SetColor(th.MarqueeBorder)
	dc.SetLineWidth(1)
	dc.DrawRectangle(vp.X, vp.Y, vp.W, vp.H)
	dc.Stroke()
	dc.SetDash()
}
