package editor

import (
	"testing"

	"github.com/example/frameboard/internal/board"
	"github.com/example/frameboard/internal/frame"
	"github.com/example/frameboard/internal/geom"
)

// Viewport math in these tests assumes an 800x600 surface with the
// default camera, so viewport = world + (400, 300).
var testSize = geom.Size{W: 800, H: 600}

func newTestPointer(snap bool) (*board.Store, *Pointer) {
	s := board.New(board.WithSettings(board.Settings{
		Tool:        board.ToolSelect,
		GridSize:    20,
		GridVisible: true,
		SnapEnabled: snap,
	}))
	p := NewPointer(s)
	p.SetViewport(testSize)
	return s, p
}

func addAt(t *testing.T, s *board.Store, r geom.Rect) string {
	t.Helper()
	return s.AddFrame(s.NewFrame(r))
}

func vp(x, y float64) geom.Point {
	return geom.Point{X: x + 400, Y: y + 300}
}

func TestPressOnFrameSelectsAndDrags(t *testing.T) {
	s, p := newTestPointer(false)
	id := addAt(t, s, geom.Rect{X: 0, Y: 0, W: 100, H: 80})
	s.ClearSelection()

	p.Press(vp(10, 10), false)
	if p.Mode() != ModeDragging {
		t.Fatalf("mode = %v, want dragging", p.Mode())
	}
	if !s.IsSelected(id) {
		t.Fatal("press should select the frame")
	}

	p.Move(vp(60, 10))
	p.Release(vp(60, 10))
	f, _ := s.FrameByID(id)
	if f.X != 50 || f.Y != 0 {
		t.Fatalf("frame at (%v, %v), want (50, 0)", f.X, f.Y)
	}
	if p.Mode() != ModeIdle {
		t.Fatalf("mode = %v after release, want idle", p.Mode())
	}
}

func TestMultiFrameDragKeepsOffsets(t *testing.T) {
	s, p := newTestPointer(false)
	a := addAt(t, s, geom.Rect{X: 0, Y: 0, W: 100, H: 80})
	b := addAt(t, s, geom.Rect{X: 200, Y: 0, W: 100, H: 80})
	s.SelectFrames([]string{a, b})

	p.Press(vp(10, 10), false)
	p.Move(vp(60, 40))
	p.Release(vp(60, 40))

	fa, _ := s.FrameByID(a)
	fb, _ := s.FrameByID(b)
	if fa.X != 50 || fa.Y != 30 {
		t.Fatalf("frame a at (%v, %v), want (50, 30)", fa.X, fa.Y)
	}
	if fb.X != 250 || fb.Y != 30 {
		t.Fatalf("frame b at (%v, %v), want (250, 30)", fb.X, fb.Y)
	}
	if !s.IsSelected(a) || !s.IsSelected(b) {
		t.Fatal("selection should survive the drag")
	}
}

func TestDragSnapsOriginToGrid(t *testing.T) {
	s, p := newTestPointer(true)
	id := addAt(t, s, geom.Rect{X: 0, Y: 0, W: 100, H: 80})

	p.Press(vp(10, 10), false)
	p.Move(vp(43, 10))
	p.Release(vp(43, 10))

	f, _ := s.FrameByID(id)
	if f.X != 40 || f.Y != 0 {
		t.Fatalf("frame at (%v, %v), want snapped (40, 0)", f.X, f.Y)
	}
}

func TestPressOnHandleResizes(t *testing.T) {
	s, p := newTestPointer(false)
	id := addAt(t, s, geom.Rect{X: 0, Y: 0, W: 100, H: 80})
	s.SelectFrame(id, false)

	p.Press(vp(100, 80), false)
	if p.Mode() != ModeResizing {
		t.Fatalf("mode = %v, want resizing", p.Mode())
	}
	p.Move(vp(120, 100))
	p.Release(vp(120, 100))

	f, _ := s.FrameByID(id)
	if f.Width != 120 || f.Height != 100 {
		t.Fatalf("size = %vx%v, want 120x100", f.Width, f.Height)
	}
	if f.X != 0 || f.Y != 0 {
		t.Fatalf("origin moved to (%v, %v)", f.X, f.Y)
	}
}

func TestResizeAppliesToWholeSelection(t *testing.T) {
	s, p := newTestPointer(false)
	a := addAt(t, s, geom.Rect{X: 0, Y: 0, W: 100, H: 100})
	b := addAt(t, s, geom.Rect{X: 200, Y: 0, W: 100, H: 100})
	s.SelectFrames([]string{a, b})

	// Grab the SE handle of frame a and drag by (+50, +30).
	p.Press(vp(100, 100), false)
	if p.Mode() != ModeResizing {
		t.Fatalf("mode = %v, want resizing", p.Mode())
	}
	p.Move(vp(150, 130))
	p.Release(vp(150, 130))

	fa, _ := s.FrameByID(a)
	fb, _ := s.FrameByID(b)
	if fa.Width != 150 || fa.Height != 130 {
		t.Fatalf("frame a = %vx%v, want 150x130", fa.Width, fa.Height)
	}
	if fb.Width != 150 || fb.Height != 130 {
		t.Fatalf("frame b = %vx%v, want 150x130", fb.Width, fb.Height)
	}
	if fa.X != 0 || fb.X != 200 {
		t.Fatalf("origins moved: a.X = %v, b.X = %v", fa.X, fb.X)
	}
}

func TestResizeSkipsLockedFramesInSelection(t *testing.T) {
	s, p := newTestPointer(false)
	a := addAt(t, s, geom.Rect{X: 0, Y: 0, W: 100, H: 100})
	b := addAt(t, s, geom.Rect{X: 200, Y: 0, W: 100, H: 100})
	locked := true
	s.UpdateFrame(b, frame.Update{Locked: &locked})
	s.SelectFrames([]string{a, b})

	p.Press(vp(100, 100), false)
	p.Move(vp(150, 130))
	p.Release(vp(150, 130))

	fb, _ := s.FrameByID(b)
	if fb.Width != 100 || fb.Height != 100 {
		t.Fatalf("locked frame resized to %vx%v", fb.Width, fb.Height)
	}
}

func TestHandlesRequireSelection(t *testing.T) {
	s, p := newTestPointer(false)
	addAt(t, s, geom.Rect{X: 0, Y: 0, W: 100, H: 80})
	s.ClearSelection()

	// The SE corner of an unselected frame is just canvas.
	p.Press(vp(105, 85), false)
	if p.Mode() != ModeMarquee {
		t.Fatalf("mode = %v, want marquee", p.Mode())
	}
	p.Release(vp(105, 85))
}

func TestLockedFramePressSelectsWithoutDragging(t *testing.T) {
	s, p := newTestPointer(false)
	id := addAt(t, s, geom.Rect{X: 0, Y: 0, W: 100, H: 80})
	locked := true
	s.UpdateFrame(id, frame.Update{Locked: &locked})
	s.ClearSelection()

	p.Press(vp(10, 10), false)
	if !s.IsSelected(id) {
		t.Fatal("locked frame should still be selectable")
	}
	if p.Mode() != ModeIdle {
		t.Fatalf("mode = %v, want idle", p.Mode())
	}
	p.Move(vp(60, 10))
	p.Release(vp(60, 10))
	f, _ := s.FrameByID(id)
	if f.X != 0 {
		t.Fatalf("locked frame moved to %v", f.X)
	}
}

func TestMarqueeSelectsIntersectingFrames(t *testing.T) {
	s, p := newTestPointer(false)
	a := addAt(t, s, geom.Rect{X: 0, Y: 0, W: 100, H: 80})
	b := addAt(t, s, geom.Rect{X: 300, Y: 0, W: 100, H: 80})
	s.ClearSelection()

	p.Press(vp(-50, -50), false)
	if p.Mode() != ModeMarquee {
		t.Fatalf("mode = %v, want marquee", p.Mode())
	}
	if p.Marquee() == nil {
		t.Fatal("marquee rect should be exposed during the gesture")
	}
	p.Move(vp(150, 150))
	p.Release(vp(150, 150))

	if !s.IsSelected(a) {
		t.Fatal("frame a intersects the marquee and should be selected")
	}
	if s.IsSelected(b) {
		t.Fatal("frame b is outside the marquee")
	}
	if p.Marquee() != nil {
		t.Fatal("marquee rect should clear after release")
	}
}

func TestMarqueeSelectsLiveDuringDrag(t *testing.T) {
	s, p := newTestPointer(false)
	a := addAt(t, s, geom.Rect{X: 100, Y: 100, W: 50, H: 50})
	b := addAt(t, s, geom.Rect{X: 400, Y: 400, W: 50, H: 50})
	s.ClearSelection()

	p.Press(vp(50, 50), false)
	p.Move(vp(200, 200))
	if p.Mode() != ModeMarquee {
		t.Fatalf("mode = %v, want marquee", p.Mode())
	}
	if !s.IsSelected(a) {
		t.Fatal("frame under the marquee should be selected mid-drag")
	}
	if s.IsSelected(b) {
		t.Fatal("frame outside the marquee selected mid-drag")
	}

	// Shrinking the box back off the frame deselects it again.
	p.Move(vp(60, 60))
	if s.IsSelected(a) {
		t.Fatal("selection should track the marquee as it shrinks")
	}
	p.Release(vp(60, 60))
}

func TestMarqueeAdditiveKeepsExistingSelection(t *testing.T) {
	s, p := newTestPointer(false)
	a := addAt(t, s, geom.Rect{X: 0, Y: 0, W: 100, H: 80})
	b := addAt(t, s, geom.Rect{X: 300, Y: 0, W: 100, H: 80})
	s.SelectFrame(b, false)

	p.Press(vp(-50, -50), true)
	p.Move(vp(150, 150))
	p.Release(vp(150, 150))

	if !s.IsSelected(a) || !s.IsSelected(b) {
		t.Fatal("additive marquee should union with the prior selection")
	}
}

func TestMarqueeReversedExtents(t *testing.T) {
	s, p := newTestPointer(false)
	a := addAt(t, s, geom.Rect{X: 0, Y: 0, W: 100, H: 80})
	s.ClearSelection()

	p.Press(vp(150, 150), false)
	p.Move(vp(-50, -50))
	p.Release(vp(-50, -50))

	if !s.IsSelected(a) {
		t.Fatal("reversed marquee should normalize and select frame a")
	}
}

func TestClickEmptyCanvasClearsSelection(t *testing.T) {
	s, p := newTestPointer(false)
	a := addAt(t, s, geom.Rect{X: 0, Y: 0, W: 100, H: 80})
	s.SelectFrame(a, false)

	p.Press(vp(500, 500), false)
	p.Release(vp(500, 500))
	if s.IsSelected(a) {
		t.Fatal("clicking empty canvas should clear the selection")
	}
}

func TestCreateFrameDrag(t *testing.T) {
	s, p := newTestPointer(false)
	s.SetTool(board.ToolFrame)

	p.Press(vp(0, 0), false)
	if p.Mode() != ModeCreating {
		t.Fatalf("mode = %v, want creating", p.Mode())
	}
	p.Move(vp(150, 100))
	if p.Preview() == nil {
		t.Fatal("creation preview should be exposed during the gesture")
	}
	p.Release(vp(150, 100))

	frames := s.Frames()
	if len(frames) != 1 {
		t.Fatalf("len(frames) = %d, want 1", len(frames))
	}
	f := frames[0]
	if f.X != 0 || f.Y != 0 || f.Width != 150 || f.Height != 100 {
		t.Fatalf("created rect = (%v, %v, %v, %v)", f.X, f.Y, f.Width, f.Height)
	}
	if !s.IsSelected(f.ID) {
		t.Fatal("created frame should be selected")
	}
	if s.Settings().Tool != board.ToolSelect {
		t.Fatalf("tool = %v after create, want select", s.Settings().Tool)
	}
}

func TestCreateReversedExtents(t *testing.T) {
	s, p := newTestPointer(false)
	s.SetTool(board.ToolFrame)

	p.Press(vp(150, 100), false)
	p.Move(vp(0, 0))
	p.Release(vp(0, 0))

	frames := s.Frames()
	if len(frames) != 1 {
		t.Fatalf("len(frames) = %d, want 1", len(frames))
	}
	f := frames[0]
	if f.X != 0 || f.Y != 0 || f.Width != 150 || f.Height != 100 {
		t.Fatalf("created rect = (%v, %v, %v, %v)", f.X, f.Y, f.Width, f.Height)
	}
}

func TestCreateBelowMinimumAborts(t *testing.T) {
	s, p := newTestPointer(false)
	s.SetTool(board.ToolFrame)

	p.Press(vp(0, 0), false)
	p.Move(vp(5, 5))
	p.Release(vp(5, 5))

	if n := len(s.Frames()); n != 0 {
		t.Fatalf("len(frames) = %d, want 0 for a tiny drag", n)
	}
}

func TestSpaceHeldPansRegardlessOfTool(t *testing.T) {
	s, p := newTestPointer(false)
	s.SetTool(board.ToolFrame)
	p.SetSpaceHeld(true)

	p.Press(vp(0, 0), false)
	if p.Mode() != ModePanning {
		t.Fatalf("mode = %v, want panning", p.Mode())
	}
	p.Move(vp(100, 0))
	p.Release(vp(100, 0))

	cam := s.Camera()
	if cam.X != 100 || cam.Y != 0 {
		t.Fatalf("camera at (%v, %v), want (100, 0)", cam.X, cam.Y)
	}
	if n := len(s.Frames()); n != 0 {
		t.Fatalf("space pan should not create frames, got %d", n)
	}
}

func TestDragPushesOneHistorySnapshot(t *testing.T) {
	s, p := newTestPointer(false)
	id := addAt(t, s, geom.Rect{X: 0, Y: 0, W: 100, H: 80})

	p.Press(vp(10, 10), false)
	p.Move(vp(30, 10))
	p.Move(vp(60, 10))
	p.Move(vp(90, 10))
	p.Release(vp(90, 10))

	s.Undo()
	f, _ := s.FrameByID(id)
	if f.X != 0 {
		t.Fatalf("one undo should revert the whole drag, frame at %v", f.X)
	}
}

func TestClickWithoutMoveSavesNoHistory(t *testing.T) {
	s, p := newTestPointer(false)
	id := addAt(t, s, geom.Rect{X: 0, Y: 0, W: 100, H: 80})

	p.Press(vp(10, 10), false)
	p.Release(vp(10, 10))

	s.Undo()
	if _, ok := s.FrameByID(id); ok {
		t.Fatal("undo after a no-op click should revert the add itself")
	}
}
