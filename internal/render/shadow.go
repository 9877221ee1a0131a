package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures the drop shadow composited under the exported
// frame layer.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// ShadowResult captures the output of ApplyShadow.
type ShadowResult struct {
	// Image is the composited image that includes the blurred shadow.
	Image *image.RGBA
	// Offset reports how far the original content was translated when
	// rebasing onto the expanded canvas.
	Offset image.Point
}

// DefaultShadowOptions returns the shadow configuration used for exports.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  16,
		Offset:  image.Pt(8, 8),
		Opacity: 0.45,
	}
}

// ApplyShadow composites img with a blurred drop shadow using opts. The
// shadow mask comes from the image's alpha channel, so only the opaque
// frame cards cast it. The result always has a non-negative origin; the
// returned Offset indicates where the original image's top-left corner
// ended up inside the expanded canvas.
func ApplyShadow(img *image.RGBA, opts ShadowOptions) ShadowResult {
	if img == nil {
		return ShadowResult{}
	}
	if img.Bounds().Empty() || opts.Opacity <= 0 {
		return ShadowResult{Image: img}
	}
	opacity := min(opts.Opacity, 1)
	radius := max(opts.Radius, 0)

	src := img.Bounds()
	padded := src
	if radius > 0 {
		padded = padded.Inset(-radius)
	}
	shadow := padded.Add(opts.Offset)
	composite := src.Union(shadow)
	if composite.Dx() <= 0 || composite.Dy() <= 0 {
		return ShadowResult{Image: img}
	}

	blurred := blurGray(alphaMask(img, padded), radius)

	dst := image.NewRGBA(composite.Sub(composite.Min))
	draw.Draw(dst, dst.Bounds(), image.Transparent, image.Point{}, draw.Src)
	if a := uint8(opacity*255 + 0.5); a > 0 {
		ink := image.NewUniform(color.RGBA{0, 0, 0, a})
		at := blurred.Bounds().Add(shadow.Min.Sub(composite.Min))
		draw.DrawMask(dst, at, ink, image.Point{}, blurred, blurred.Bounds().Min, draw.Over)
	}
	draw.Draw(dst, src.Sub(composite.Min), img, src.Min, draw.Over)

	return ShadowResult{Image: dst, Offset: src.Min.Sub(composite.Min)}
}

// alphaMask extracts the alpha channel of img into a grayscale mask laid
// out on the padded rectangle, rebased to a zero origin.
func alphaMask(img *image.RGBA, padded image.Rectangle) *image.Gray {
	mask := image.NewGray(padded.Sub(padded.Min))
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if a := img.RGBAAt(x, y).A; a != 0 {
				mask.SetGray(x-padded.Min.X, y-padded.Min.Y, color.Gray{Y: a})
			}
		}
	}
	return mask
}

// blurGray applies a two-pass box blur, rows then columns, using running
// prefix sums per line.
func blurGray(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		out := image.NewGray(src.Bounds())
		copy(out.Pix, src.Pix)
		return out
	}
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()

	tmp := image.NewGray(src.Bounds())
	for y := 0; y < h; y++ {
		blurLine(w, radius,
			func(x int) uint8 { return src.Pix[y*src.Stride+x] },
			func(x int, v uint8) { tmp.Pix[y*tmp.Stride+x] = v })
	}
	dst := image.NewGray(src.Bounds())
	for x := 0; x < w; x++ {
		blurLine(h, radius,
			func(y int) uint8 { return tmp.Pix[y*tmp.Stride+x] },
			func(y int, v uint8) { dst.Pix[y*dst.Stride+x] = v })
	}
	return dst
}

// blurLine box-blurs one row or column of n samples, clamping the window
// at the edges so the average never reaches outside the line.
func blurLine(n, radius int, at func(int) uint8, set func(int, uint8)) {
	prefix := make([]int, n+1)
	for i := 0; i < n; i++ {
		prefix[i+1] = prefix[i] + int(at(i))
	}
	for i := 0; i < n; i++ {
		lo := max(i-radius, 0)
		hi := min(i+radius, n-1)
		set(i, uint8((prefix[hi+1]-prefix[lo])/(hi-lo+1)))
	}
}
