package board

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/frameboard/internal/frame"
	"github.com/example/frameboard/internal/geom"
	"github.com/example/frameboard/internal/storage"
)

func loadedStore(t *testing.T, root string) *Store {
	t.Helper()
	s := New(WithRoot(root))
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestLoadSynthesizesMissingMetadata(t *testing.T) {
	root := t.TempDir()
	if _, err := storage.Create(root, "bare"); err != nil {
		t.Fatal(err)
	}
	s := loadedStore(t, root)

	frames := s.Frames()
	if len(frames) != 1 || frames[0].Name != "bare" {
		t.Fatalf("unexpected frames: %+v", frames)
	}
	waitFor(t, "write-back", func() bool {
		rec, err := storage.ReadRecord(filepath.Join(root, "bare"))
		return err == nil && rec != nil && rec.Name == "bare"
	})
}

func TestLoadSkipsMalformedMetadata(t *testing.T) {
	root := t.TempDir()
	loc, err := storage.Create(root, "broken")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(loc, storage.MetadataFile), []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := storage.Create(root, "fine"); err != nil {
		t.Fatal(err)
	}
	s := loadedStore(t, root)
	frames := s.Frames()
	if len(frames) != 1 || frames[0].Name != "fine" {
		t.Fatalf("malformed entity not skipped: %+v", frames)
	}
}

func TestLoadAutoArrangesOverlap(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"one", "two", "three"} {
		loc, err := storage.Create(root, name)
		if err != nil {
			t.Fatal(err)
		}
		rec := frame.Record{
			ID: name, Name: name, X: 0, Y: 0, Width: 200, Height: 200,
			Color: "#3B82F6", Visible: true, Opacity: 1,
		}
		if err := storage.WriteRecord(loc, rec); err != nil {
			t.Fatal(err)
		}
	}
	s := loadedStore(t, root)

	frames := s.Frames()
	rects := make([]geom.Rect, len(frames))
	for i, f := range frames {
		rects[i] = f.Rect()
	}
	if geom.AnyOverlap(rects) {
		t.Fatalf("frames still overlap after load: %+v", rects)
	}
}

func TestAddFramePersists(t *testing.T) {
	root := t.TempDir()
	s := loadedStore(t, root)

	id := s.AddFrame(s.NewFrame(geom.Rect{X: 5, Y: 6, W: 120, H: 90}))
	waitFor(t, "frame directory", func() bool {
		f, ok := s.FrameByID(id)
		if !ok || f.Ref == "" {
			return false
		}
		rec, err := storage.ReadRecord(f.Ref)
		return err == nil && rec != nil && rec.ID == id && rec.Width == 120
	})
}

func TestDeletePersists(t *testing.T) {
	root := t.TempDir()
	s := loadedStore(t, root)
	id := s.AddFrame(s.NewFrame(geom.Rect{W: 50, H: 50}))
	var ref string
	waitFor(t, "create", func() bool {
		f, _ := s.FrameByID(id)
		ref = f.Ref
		return ref != ""
	})
	s.DeleteFrames([]string{id})
	waitFor(t, "delete", func() bool {
		_, err := os.Stat(ref)
		return os.IsNotExist(err)
	})
}

func TestExternalAddFlowsIn(t *testing.T) {
	root := t.TempDir()
	s := loadedStore(t, root)

	loc, err := storage.Create(root, "outsider")
	if err != nil {
		t.Fatal(err)
	}
	rec := frame.Record{
		ID: "ext-1", Name: "outsider", X: 40, Y: 50, Width: 100, Height: 80,
		Color: "#EF4444", Visible: true, Opacity: 1,
	}
	if err := storage.WriteRecord(loc, rec); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "external frame", func() bool {
		for _, f := range s.Frames() {
			if f.Name == "outsider" && f.X == 40 {
				return true
			}
		}
		return false
	})
	// External changes never enter the undo history.
	if s.CanUndo() {
		t.Fatal("external add pushed history")
	}
}

func TestExternalRemovePrunesSelection(t *testing.T) {
	root := t.TempDir()
	loc, err := storage.Create(root, "doomed")
	if err != nil {
		t.Fatal(err)
	}
	rec := frame.DefaultRecord("ext-2", "doomed")
	if err := storage.WriteRecord(loc, rec); err != nil {
		t.Fatal(err)
	}
	s := loadedStore(t, root)
	frames := s.Frames()
	if len(frames) != 1 {
		t.Fatalf("expected one frame, got %+v", frames)
	}
	s.SelectFrame(frames[0].ID, false)

	if err := storage.Delete(loc); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "external remove", func() bool {
		return len(s.Frames()) == 0 && len(s.SelectedIDs()) == 0
	})
}

func TestExternalEditKeepsIdentity(t *testing.T) {
	root := t.TempDir()
	s := loadedStore(t, root)
	id := s.AddFrame(s.NewFrame(geom.Rect{X: 10, Y: 10, W: 100, H: 100}))
	var ref string
	waitFor(t, "create", func() bool {
		f, _ := s.FrameByID(id)
		ref = f.Ref
		return ref != ""
	})

	f, _ := s.FrameByID(id)
	rec := f.ToRecord()
	rec.X = 999
	if err := storage.WriteRecord(ref, rec); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "external edit", func() bool {
		got, ok := s.FrameByID(id)
		return ok && got.X == 999
	})
}
