// Package geom provides the pure geometry used by the board: world/viewport
// coordinate transforms, hit tests, grid snapping and rectangle arithmetic.
// Everything here is stateless and deterministic.
package geom

import (
	"math"
	"sort"
)

// Point is a position in either world or viewport space.
type Point struct {
	X, Y float64
}

// Size is the pixel size of the drawing surface.
type Size struct {
	W, H float64
}

// Rect is an axis-aligned rectangle. Width and Height may be transiently
// negative while an interactive edit is in progress; Normalize folds the
// sign into the origin.
type Rect struct {
	X, Y, W, H float64
}

// Camera maps world space to viewport space: a world-space translation
// applied before a positive zoom factor.
type Camera struct {
	X, Y float64
	Zoom float64
}

// WorldToViewport converts a world-space point to viewport pixels.
// viewport = (world + translation) * zoom + size/2
func WorldToViewport(p Point, cam Camera, size Size) Point {
	return Point{
		X: (p.X+cam.X)*cam.Zoom + size.W/2,
		Y: (p.Y+cam.Y)*cam.Zoom + size.H/2,
	}
}

// ViewportToWorld is the exact inverse of WorldToViewport.
func ViewportToWorld(p Point, cam Camera, size Size) Point {
	return Point{
		X: (p.X-size.W/2)/cam.Zoom - cam.X,
		Y: (p.Y-size.H/2)/cam.Zoom - cam.Y,
	}
}

// ZoomAt returns cam with its zoom replaced by zoom while keeping the world
// point under the viewport point anchor fixed on screen.
func ZoomAt(cam Camera, anchor Point, size Size, zoom float64) Camera {
	w := ViewportToWorld(anchor, cam, size)
	return Camera{
		X:    (anchor.X-size.W/2)/zoom - w.X,
		Y:    (anchor.Y-size.H/2)/zoom - w.Y,
		Zoom: zoom,
	}
}

// PointInRect reports whether p lies inside r, bounds inclusive.
func PointInRect(p Point, r Rect) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// RectsIntersect reports whether a and b overlap. Touching edges count as
// intersecting so a marquee includes frames it exactly borders.
func RectsIntersect(a, b Rect) bool {
	return a.X <= b.X+b.W && a.X+a.W >= b.X && a.Y <= b.Y+b.H && a.Y+a.H >= b.Y
}

// SnapToGrid rounds v to the nearest multiple of grid. A non-positive grid
// leaves v untouched.
func SnapToGrid(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}

// Normalize folds negative extents into the origin so width and height are
// non-negative. The rectangle covers the same world area. Idempotent.
func Normalize(r Rect) Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// UnionBounds returns the axis-aligned bounding box covering the normalized
// bounds of all rects. ok is false for empty input.
func UnionBounds(rects []Rect) (bounds Rect, ok bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	n := Normalize(rects[0])
	minX, minY := n.X, n.Y
	maxX, maxY := n.X+n.W, n.Y+n.H
	for _, r := range rects[1:] {
		n = Normalize(r)
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
		maxX = math.Max(maxX, n.X+n.W)
		maxY = math.Max(maxY, n.Y+n.H)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}

// ArrangeRow lays rects out left to right with a fixed gap, keeping each
// rectangle's vertical position. Used when loaded frames overlap.
func ArrangeRow(rects []Rect, gap float64) []Rect {
	if len(rects) == 0 {
		return nil
	}
	out := make([]Rect, len(rects))
	copy(out, rects)
	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return out[order[a]].X < out[order[b]].X })
	cursor := out[order[0]].X
	for _, idx := range order {
		out[idx].X = cursor
		cursor += out[idx].W + gap
	}
	return out
}

// AnyOverlap reports whether any pair of rects overlaps with positive area.
// Exactly touching edges do not count; ArrangeRow output passes this check.
func AnyOverlap(rects []Rect) bool {
	for i := 0; i < len(rects); i++ {
		for j := i + 1; j < len(rects); j++ {
			a, b := Normalize(rects[i]), Normalize(rects[j])
			if a.X < b.X+b.W && a.X+a.W > b.X && a.Y < b.Y+b.H && a.Y+a.H > b.Y {
				return true
			}
		}
	}
	return false
}
