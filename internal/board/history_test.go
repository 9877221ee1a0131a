package board

import (
	"fmt"
	"testing"

	"github.com/example/frameboard/internal/frame"
	"github.com/example/frameboard/internal/geom"
)

func TestHistoryBounded(t *testing.T) {
	const limit = 10
	s := New(WithMaxHistory(limit))
	for i := 0; i < limit*3; i++ {
		addRect(t, s, geom.Rect{X: float64(i * 60), W: 50, H: 50})
	}
	if got := len(s.history); got != limit {
		t.Fatalf("history length %d, want %d", got, limit)
	}
	// Repeated undo walks back to the oldest retained snapshot, one frame
	// shy of the newest per step, and then stops.
	for i := 0; i < limit*2; i++ {
		s.Undo()
	}
	if got := len(s.Frames()); got != limit*3-(limit-1) {
		t.Fatalf("oldest retained snapshot has %d frames", got)
	}
	if s.CanUndo() {
		t.Fatal("undo available past the oldest snapshot")
	}
}

func TestUndoRedoInverse(t *testing.T) {
	s := New()
	id := addRect(t, s, geom.Rect{X: 10, Y: 10, W: 100, H: 100})
	s.SelectFrame(id, false)

	before := s.Frames()
	s.SetFrameRects(map[string]geom.Rect{id: {X: 400, Y: 400, W: 100, H: 100}})
	s.SaveHistory()
	after := s.Frames()

	s.Undo()
	if got := s.Frames(); !framesEqual(got, before) {
		t.Fatalf("undo mismatch:\n got %+v\nwant %+v", got, before)
	}
	s.Redo()
	if got := s.Frames(); !framesEqual(got, after) {
		t.Fatalf("redo mismatch:\n got %+v\nwant %+v", got, after)
	}
}

func TestNewEditDiscardsRedoTail(t *testing.T) {
	s := New()
	addRect(t, s, geom.Rect{W: 50, H: 50})
	addRect(t, s, geom.Rect{X: 100, W: 50, H: 50})
	s.Undo()
	if !s.CanRedo() {
		t.Fatal("redo should be available after undo")
	}
	addRect(t, s, geom.Rect{X: 200, W: 50, H: 50})
	if s.CanRedo() {
		t.Fatal("redo tail survived a new edit")
	}
}

func TestUndoRestoresDeletedFrame(t *testing.T) {
	s := New()
	id := addRect(t, s, geom.Rect{W: 80, H: 80})
	name := "keeper"
	s.UpdateFrame(id, frame.Update{Name: &name})
	s.SaveHistory()

	s.DeleteFrames([]string{id})
	if _, ok := s.FrameByID(id); ok {
		t.Fatal("delete failed")
	}
	s.Undo()
	f, ok := s.FrameByID(id)
	if !ok || f.Name != "keeper" {
		t.Fatalf("undo did not restore frame: %+v ok=%v", f, ok)
	}
}

func TestUndoRestoresSelectionAndCamera(t *testing.T) {
	s := New()
	id := addRect(t, s, geom.Rect{W: 80, H: 80})
	s.SelectFrame(id, false)
	s.SetCamera(geom.Camera{X: -40, Y: -40, Zoom: 2})
	s.SaveHistory()

	s.ClearSelection()
	s.SetCamera(geom.Camera{Zoom: 1})
	s.SaveHistory()

	s.Undo()
	if !s.IsSelected(id) {
		t.Fatal("selection not restored")
	}
	if cam := s.Camera(); cam != (geom.Camera{X: -40, Y: -40, Zoom: 2}) {
		t.Fatalf("camera not restored: %+v", cam)
	}
}

func TestUndoNoOpAtBaseline(t *testing.T) {
	s := New()
	s.Undo()
	s.Redo()
	if len(s.Frames()) != 0 {
		t.Fatal("no-op undo changed state")
	}
}

func framesEqual(a, b []frame.Frame) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		// Ref is backend bookkeeping, not board state.
		x, y := a[i], b[i]
		x.Ref, y.Ref = "", ""
		if fmt.Sprintf("%+v", x) != fmt.Sprintf("%+v", y) {
			return false
		}
	}
	return true
}
