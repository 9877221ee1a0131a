package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time if needed
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load attempts to load the configuration. Environment overrides apply on
// top of whatever file was found.
func (l *Loader) Load() (*Config, error) {
	cfg := New()
	if path := l.GetConfigPath(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		parsed, err := Parse(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		cfg = parsed
	}
	applyEnv(cfg)
	return cfg, nil
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	// 1. Variable override path
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	// 2. Environment override
	if p := os.Getenv("FRAMEBOARD_CONFIG"); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	// 3. Local run directory (dev mode)
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".frameboardrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	// 4. XDG Config Path
	home, _ := os.UserHomeDir()
	xdgPath := filepath.Join(home, ".config", "frameboard", "config.rc")
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}

	// Fallback name
	xdgPath = filepath.Join(home, ".config", "frameboard", "frameboard.rc")
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}

	return ""
}

// applyEnv layers FRAMEBOARD_* variables over the file configuration.
func applyEnv(cfg *Config) {
	if v := os.Getenv("FRAMEBOARD_DIR"); v != "" {
		cfg.BoardDir = v
	}
	if v := os.Getenv("FRAMEBOARD_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("FRAMEBOARD_GRID_SIZE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.Board.GridSize = f
		}
	}
	if v := os.Getenv("FRAMEBOARD_SNAP"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Board.Snap = b
		}
	}
}
