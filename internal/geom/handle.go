package geom

// Handle identifies one of the eight resize grips on a selected frame's
// border, named by compass position.
type Handle int

const (
	HandleNone Handle = iota
	HandleNW
	HandleNE
	HandleSE
	HandleSW
	HandleN
	HandleE
	HandleS
	HandleW
)

// handleOrder fixes the hit-test iteration: corners before edges so the
// tie-break is deterministic when thresholds overlap at low zoom.
var handleOrder = []Handle{HandleNW, HandleNE, HandleSE, HandleSW, HandleN, HandleE, HandleS, HandleW}

// Handles returns all eight handles in hit-test order.
func Handles() []Handle {
	out := make([]Handle, len(handleOrder))
	copy(out, handleOrder)
	return out
}

// HandleHitRadius is the grab distance around each handle in viewport
// pixels. It does not scale with zoom so handles stay easy to hit.
const HandleHitRadius = 6.0

// String returns the short compass name used in logs and cursor lookup.
func (h Handle) String() string {
	switch h {
	case HandleNW:
		return "nw"
	case HandleN:
		return "n"
	case HandleNE:
		return "ne"
	case HandleE:
		return "e"
	case HandleSE:
		return "se"
	case HandleS:
		return "s"
	case HandleSW:
		return "sw"
	case HandleW:
		return "w"
	}
	return "none"
}

// HandlePoint returns the world-space position of handle h on the normalized
// bounds of r.
func HandlePoint(r Rect, h Handle) Point {
	n := Normalize(r)
	cx := n.X + n.W/2
	cy := n.Y + n.H/2
	switch h {
	case HandleNW:
		return Point{n.X, n.Y}
	case HandleN:
		return Point{cx, n.Y}
	case HandleNE:
		return Point{n.X + n.W, n.Y}
	case HandleE:
		return Point{n.X + n.W, cy}
	case HandleSE:
		return Point{n.X + n.W, n.Y + n.H}
	case HandleS:
		return Point{cx, n.Y + n.H}
	case HandleSW:
		return Point{n.X, n.Y + n.H}
	case HandleW:
		return Point{n.X, cy}
	}
	return Point{}
}

// HandleAt returns the handle of r under the viewport point vp, or
// HandleNone. The test runs in viewport space with a fixed pixel radius.
func HandleAt(vp Point, r Rect, cam Camera, size Size) Handle {
	for _, h := range handleOrder {
		hp := WorldToViewport(HandlePoint(r, h), cam, size)
		dx := vp.X - hp.X
		dy := vp.Y - hp.Y
		if dx >= -HandleHitRadius && dx <= HandleHitRadius && dy >= -HandleHitRadius && dy <= HandleHitRadius {
			return h
		}
	}
	return HandleNone
}

// ResizeBy adjusts the edges of r implied by h using a world-space delta.
// West and north handles shift the origin. The result is not normalized;
// callers normalize when the interaction commits.
func ResizeBy(r Rect, h Handle, dx, dy float64) Rect {
	switch h {
	case HandleNW:
		r.X += dx
		r.Y += dy
		r.W -= dx
		r.H -= dy
	case HandleN:
		r.Y += dy
		r.H -= dy
	case HandleNE:
		r.Y += dy
		r.W += dx
		r.H -= dy
	case HandleE:
		r.W += dx
	case HandleSE:
		r.W += dx
		r.H += dy
	case HandleS:
		r.H += dy
	case HandleSW:
		r.X += dx
		r.W -= dx
		r.H += dy
	case HandleW:
		r.X += dx
		r.W -= dx
	}
	return r
}
