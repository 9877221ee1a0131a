package editor

import (
	"github.com/example/frameboard/internal/board"
	"github.com/example/frameboard/internal/geom"
)

// Mode is the pointer interaction state.
type Mode int

const (
	ModeIdle Mode = iota
	ModePanning
	ModeMarquee
	ModeDragging
	ModeResizing
	ModeCreating
)

func (m Mode) String() string {
	switch m {
	case ModePanning:
		return "panning"
	case ModeMarquee:
		return "marquee"
	case ModeDragging:
		return "dragging"
	case ModeResizing:
		return "resizing"
	case ModeCreating:
		return "creating"
	}
	return "idle"
}

// minCreateSize is the smallest world-space extent a created frame may
// have; smaller drags are treated as an aborted gesture.
const minCreateSize = 10.0

// Pointer drives the board from pointer input. One gesture runs from
// Press through any number of Moves to Release; state outside a gesture
// is only the momentary space-pan override.
type Pointer struct {
	store *board.Store
	size  geom.Size

	mode       Mode
	start      geom.Point // viewport-space press position
	startWorld geom.Point
	camStart   geom.Camera
	additive   bool
	moved      bool

	// dragOffsets maps each dragged frame to its origin's world-space
	// offset from the pointer, so multi-frame drags keep their layout.
	dragOffsets map[string]geom.Point

	// resizeStarts holds the press-time rect of every selected unlocked
	// frame, so one handle resizes the whole selection by the same delta.
	resizeStarts map[string]geom.Rect
	handle       geom.Handle

	marquee     geom.Rect // viewport space
	marqueeBase []string  // selection to merge into an additive marquee
	preview     geom.Rect // world space

	spaceHeld bool
}

// NewPointer creates a pointer bound to the store.
func NewPointer(s *board.Store) *Pointer {
	return &Pointer{store: s}
}

// Mode returns the current interaction state.
func (p *Pointer) Mode() Mode { return p.mode }

// SetViewport records the drawing surface size used for coordinate
// transforms.
func (p *Pointer) SetViewport(size geom.Size) { p.size = size }

// SetSpaceHeld toggles the momentary pan override.
func (p *Pointer) SetSpaceHeld(held bool) { p.spaceHeld = held }

// Marquee returns the viewport-space marquee rectangle while one is
// active.
func (p *Pointer) Marquee() *geom.Rect {
	if p.mode != ModeMarquee {
		return nil
	}
	r := p.marquee
	return &r
}

// Preview returns the world-space rectangle of a frame being created.
func (p *Pointer) Preview() *geom.Rect {
	if p.mode != ModeCreating {
		return nil
	}
	r := p.preview
	return &r
}

// Press starts a gesture at the viewport point vp. additive marks a
// shift-modified press.
func (p *Pointer) Press(vp geom.Point, additive bool) {
	cam := p.store.Camera()
	settings := p.store.Settings()
	world := geom.ViewportToWorld(vp, cam, p.size)

	p.start = vp
	p.startWorld = world
	p.camStart = cam
	p.additive = additive
	p.moved = false

	if p.spaceHeld || settings.Tool == board.ToolPan {
		p.mode = ModePanning
		return
	}
	if settings.Tool == board.ToolFrame {
		origin := world
		if settings.SnapEnabled {
			origin.X = geom.SnapToGrid(origin.X, settings.GridSize)
			origin.Y = geom.SnapToGrid(origin.Y, settings.GridSize)
		}
		p.startWorld = origin
		p.preview = geom.Rect{X: origin.X, Y: origin.Y}
		p.mode = ModeCreating
		return
	}

	// Handles take priority over frame bodies, and only selected,
	// unlocked frames expose them.
	frames := p.store.Frames()
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		if !f.Visible || f.Locked || !p.store.IsSelected(f.ID) {
			continue
		}
		if h := geom.HandleAt(vp, f.Rect(), cam, p.size); h != geom.HandleNone {
			p.mode = ModeResizing
			p.handle = h
			p.resizeStarts = make(map[string]geom.Rect)
			for _, sel := range frames {
				if p.store.IsSelected(sel.ID) && !sel.Locked {
					p.resizeStarts[sel.ID] = sel.Rect()
				}
			}
			return
		}
	}

	// Topmost visible frame under the pointer wins.
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		if !f.Visible || !geom.PointInRect(world, f.Rect()) {
			continue
		}
		if !p.store.IsSelected(f.ID) {
			p.store.SelectFrame(f.ID, additive)
		}
		if f.Locked {
			p.mode = ModeIdle
			return
		}
		p.mode = ModeDragging
		p.dragOffsets = make(map[string]geom.Point)
		for _, sel := range p.store.Frames() {
			if !p.store.IsSelected(sel.ID) || sel.Locked {
				continue
			}
			p.dragOffsets[sel.ID] = geom.Point{X: sel.X - world.X, Y: sel.Y - world.Y}
		}
		return
	}

	if !additive {
		p.store.ClearSelection()
	}
	p.marqueeBase = nil
	if additive {
		p.marqueeBase = p.store.SelectedIDs()
	}
	p.marquee = geom.Rect{X: vp.X, Y: vp.Y}
	p.mode = ModeMarquee
}

// Move continues the active gesture at the viewport point vp.
func (p *Pointer) Move(vp geom.Point) {
	if p.mode == ModeIdle {
		return
	}
	p.moved = true
	settings := p.store.Settings()

	switch p.mode {
	case ModePanning:
		cam := p.camStart
		cam.X += (vp.X - p.start.X) / cam.Zoom
		cam.Y += (vp.Y - p.start.Y) / cam.Zoom
		p.store.SetCamera(cam)

	case ModeDragging:
		world := geom.ViewportToWorld(vp, p.store.Camera(), p.size)
		rects := make(map[string]geom.Rect, len(p.dragOffsets))
		for id, off := range p.dragOffsets {
			f, ok := p.store.FrameByID(id)
			if !ok {
				continue
			}
			x := world.X + off.X
			y := world.Y + off.Y
			if settings.SnapEnabled {
				x = geom.SnapToGrid(x, settings.GridSize)
				y = geom.SnapToGrid(y, settings.GridSize)
			}
			rects[id] = geom.Rect{X: x, Y: y, W: f.Width, H: f.Height}
		}
		p.store.SetFrameRects(rects)

	case ModeResizing:
		world := geom.ViewportToWorld(vp, p.store.Camera(), p.size)
		dx := world.X - p.startWorld.X
		dy := world.Y - p.startWorld.Y
		rects := make(map[string]geom.Rect, len(p.resizeStarts))
		for id, start := range p.resizeStarts {
			r := geom.ResizeBy(start, p.handle, dx, dy)
			if settings.SnapEnabled {
				r.X = geom.SnapToGrid(r.X, settings.GridSize)
				r.Y = geom.SnapToGrid(r.Y, settings.GridSize)
			}
			rects[id] = r
		}
		p.store.SetFrameRects(rects)

	case ModeMarquee:
		p.marquee = geom.Rect{
			X: p.start.X, Y: p.start.Y,
			W: vp.X - p.start.X, H: vp.Y - p.start.Y,
		}
		p.applyMarquee()

	case ModeCreating:
		world := geom.ViewportToWorld(vp, p.store.Camera(), p.size)
		if settings.SnapEnabled {
			world.X = geom.SnapToGrid(world.X, settings.GridSize)
			world.Y = geom.SnapToGrid(world.Y, settings.GridSize)
		}
		p.preview = geom.Rect{
			X: p.startWorld.X, Y: p.startWorld.Y,
			W: world.X - p.startWorld.X, H: world.Y - p.startWorld.Y,
		}
	}
}

// Release ends the gesture. Completed edits push exactly one history
// snapshot here, never per move.
func (p *Pointer) Release(vp geom.Point) {
	if p.mode == ModeMarquee || p.mode == ModeCreating {
		// Fold the final position in before committing.
		p.Move(vp)
	}
	mode := p.mode
	p.mode = ModeIdle

	switch mode {
	case ModeDragging:
		if p.moved {
			p.store.SaveHistory()
		}
		p.dragOffsets = nil

	case ModeResizing:
		if p.moved {
			p.store.SaveHistory()
		}
		p.resizeStarts = nil
		p.handle = geom.HandleNone

	case ModeMarquee:
		// Selection already tracks the marquee live; just drop the box.
		p.marquee = geom.Rect{}
		p.marqueeBase = nil

	case ModeCreating:
		r := geom.Normalize(p.preview)
		p.preview = geom.Rect{}
		if r.W < minCreateSize || r.H < minCreateSize {
			return
		}
		id := p.store.AddFrame(p.store.NewFrame(r))
		p.store.SelectFrame(id, false)
		p.store.SetTool(board.ToolSelect)
	}
}

// applyMarquee recomputes the selection as the visible frames intersecting
// the marquee's normalized world bounds, merged over the press-time
// selection when the gesture is additive.
func (p *Pointer) applyMarquee() {
	sel := geom.Normalize(p.marquee)
	cam := p.store.Camera()
	tl := geom.ViewportToWorld(geom.Point{X: sel.X, Y: sel.Y}, cam, p.size)
	br := geom.ViewportToWorld(geom.Point{X: sel.X + sel.W, Y: sel.Y + sel.H}, cam, p.size)
	worldSel := geom.Rect{X: tl.X, Y: tl.Y, W: br.X - tl.X, H: br.Y - tl.Y}

	ids := append([]string(nil), p.marqueeBase...)
	for _, f := range p.store.Frames() {
		if f.Visible && geom.RectsIntersect(worldSel, f.Rect()) {
			ids = append(ids, f.ID)
		}
	}
	p.store.SelectFrames(ids)
}
