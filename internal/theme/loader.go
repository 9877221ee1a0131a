package theme

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Loader resolves theme names against the user and system theme
// directories and the themes compiled into the binary.
type Loader struct {
	ConfigDir string
	SystemDir string
}

// NewLoader creates a Loader with the standard search paths.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "frameboard", "themes"),
		SystemDir: "/usr/share/frameboard/themes",
	}
}

// Load resolves name as, in order: an existing file path, an embedded
// theme, a file in ConfigDir, a file in SystemDir. An empty name means
// the default theme.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}

	if _, err := os.Stat(name); err == nil {
		return parseFile(name)
	}

	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}

	if f, err := EmbeddedThemes.Open("defaults/" + strings.ToLower(filename)); err == nil {
		return parseAndClose(f)
	}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return parseFile(path)
		}
	}
	return nil, fmt.Errorf("theme '%s' not found", name)
}

func parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return parseAndClose(f)
}

func parseAndClose(f io.ReadCloser) (*Theme, error) {
	defer f.Close()
	return Parse(f)
}
