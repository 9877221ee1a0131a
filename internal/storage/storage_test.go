package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/frameboard/internal/frame"
)

func TestListSkipsHiddenAndFiles(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"alpha", "beta", ".hidden"} {
		if err := os.Mkdir(filepath.Join(root, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := List(root)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Name != "alpha" || got[1].Name != "beta" {
		t.Fatalf("unexpected entities: %+v", got)
	}
}

func TestReadRecordMissingIsNil(t *testing.T) {
	root := t.TempDir()
	loc, err := Create(root, "empty")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	rec, err := ReadRecord(loc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record, got %+v", rec)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	root := t.TempDir()
	loc, err := Create(root, "hero")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	in := frame.Record{
		ID: "id-1", Name: "hero", X: 10, Y: -20, Width: 300, Height: 200,
		Color: "#3B82F680", Rotation: 30, Locked: true, Visible: true, Opacity: 0.5,
	}
	if err := WriteRecord(loc, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := ReadRecord(loc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if out == nil || *out != in {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	// The temp file must not linger.
	entries, _ := os.ReadDir(loc)
	if len(entries) != 1 {
		t.Fatalf("unexpected files in location: %v", entries)
	}
}

func TestWriteRecordMalformedRead(t *testing.T) {
	root := t.TempDir()
	loc, err := Create(root, "broken")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := os.WriteFile(filepath.Join(loc, MetadataFile), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadRecord(loc); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCreateCollision(t *testing.T) {
	root := t.TempDir()
	if _, err := Create(root, "dup"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := Create(root, "dup"); err == nil {
		t.Fatal("expected collision error")
	}
}

func TestCreateRejectsBadNames(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"", ".sneaky", "a/b"} {
		if _, err := Create(root, name); err == nil {
			t.Fatalf("expected error for %q", name)
		}
	}
}

func TestDeleteRemovesContents(t *testing.T) {
	root := t.TempDir()
	loc, err := Create(root, "gone")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := WriteRecord(loc, frame.Record{ID: "x", Color: "#FFFFFF"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := Delete(loc); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(loc); !os.IsNotExist(err) {
		t.Fatalf("location still present: %v", err)
	}
}
