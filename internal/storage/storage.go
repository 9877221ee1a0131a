// Package storage persists board frames to a directory tree: one
// subdirectory per frame under the board root, with the metadata held in a
// single JSON file inside it. The package also watches the root for external
// changes so edits made by other processes flow back into the board.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/frameboard/internal/frame"
)

// MetadataFile is the name of the per-frame metadata file.
const MetadataFile = "frame.json"

// Entity is an immediate child of the board root.
type Entity struct {
	Name     string
	Location string
}

// List enumerates the immediate child directories of root. Hidden
// (dot-prefixed) entries and plain files are skipped. The result is sorted
// by name so load order is stable.
func List(root string) ([]Entity, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", root, err)
	}
	var out []Entity
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, Entity{Name: e.Name(), Location: filepath.Join(root, e.Name())})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ReadRecord reads the metadata file at loc. A missing file yields
// (nil, nil) so the caller can synthesize defaults; a malformed file is an
// error the caller logs and skips.
func ReadRecord(loc string) (*frame.Record, error) {
	data, err := os.ReadFile(filepath.Join(loc, MetadataFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", loc, err)
	}
	var rec frame.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse %s: %w", loc, err)
	}
	return &rec, nil
}

// WriteRecord persists the full record at loc. The write goes through a
// dot-prefixed temp file and a rename so watchers never observe a partial
// metadata file.
func WriteRecord(loc string, rec frame.Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", rec.ID, err)
	}
	data = append(data, '\n')
	tmp := filepath.Join(loc, "."+MetadataFile+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", loc, err)
	}
	if err := os.Rename(tmp, filepath.Join(loc, MetadataFile)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", loc, err)
	}
	return nil
}

// Create makes a new storage location for name under root. A name collision
// is an error; callers disambiguate before creating.
func Create(root, name string) (string, error) {
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsRune(name, filepath.Separator) {
		return "", fmt.Errorf("invalid entity name %q", name)
	}
	loc := filepath.Join(root, name)
	if err := os.Mkdir(loc, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", loc, err)
	}
	return loc, nil
}

// Delete removes the location and everything inside it.
func Delete(loc string) error {
	if err := os.RemoveAll(loc); err != nil {
		return fmt.Errorf("delete %s: %w", loc, err)
	}
	return nil
}

// EnsureRoot creates the board root if it does not exist yet.
func EnsureRoot(root string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("ensure root %s: %w", root, err)
	}
	return nil
}
