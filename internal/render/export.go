package render

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	"github.com/fogleman/gg"

	"github.com/example/frameboard/internal/frame"
	"github.com/example/frameboard/internal/geom"
	"github.com/example/frameboard/internal/theme"
)

// ExportOptions configures a PNG export of the board.
type ExportOptions struct {
	// Padding is the world-space margin around the frame bounds.
	Padding float64
	// Scale multiplies world units to output pixels.
	Scale float64
	// Shadow draws a soft drop shadow under the frame layer.
	Shadow bool
	Theme  *theme.Theme
}

// DefaultExportOptions returns the export configuration used by the CLI.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{Padding: 40, Scale: 1, Shadow: true}
}

// Export renders all visible frames to a single image sized to their
// bounds plus padding. An empty board is an error.
func (r *Renderer) Export(frames []frame.Frame, opts ExportOptions) (image.Image, error) {
	var rects []geom.Rect
	for _, f := range frames {
		if f.Visible {
			rects = append(rects, f.Rect())
		}
	}
	bounds, ok := geom.UnionBounds(rects)
	if !ok {
		return nil, fmt.Errorf("nothing to export")
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	bounds.X -= opts.Padding
	bounds.Y -= opts.Padding
	bounds.W += 2 * opts.Padding
	bounds.H += 2 * opts.Padding

	size := geom.Size{W: bounds.W * opts.Scale, H: bounds.H * opts.Scale}
	cam := geom.Camera{
		X:    -(bounds.X + bounds.W/2),
		Y:    -(bounds.Y + bounds.H/2),
		Zoom: opts.Scale,
	}
	th := opts.Theme
	if th == nil {
		th = theme.Default()
	}

	layer := r.Render(Scene{
		Frames:         frames,
		Camera:         cam,
		Size:           size,
		Theme:          th,
		OmitBackground: true,
	})

	if !opts.Shadow {
		out := image.NewRGBA(layer.Bounds())
		draw.Draw(out, out.Bounds(), image.NewUniform(th.CanvasBackground), image.Point{}, draw.Src)
		draw.Draw(out, out.Bounds(), layer, layer.Bounds().Min, draw.Over)
		return out, nil
	}

	res := ApplyShadow(layer, DefaultShadowOptions())
	out := image.NewRGBA(res.Image.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(th.CanvasBackground), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), res.Image, res.Image.Bounds().Min, draw.Over)
	return out, nil
}

// ExportFile renders the frames and writes a PNG at path.
func (r *Renderer) ExportFile(path string, frames []frame.Frame, opts ExportOptions) error {
	img, err := r.Export(frames, opts)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
