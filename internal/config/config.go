package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/frameboard/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Save   bool
	Export bool
	Copy   bool
}

// Board holds canvas behaviour settings.
type Board struct {
	GridSize    float64
	GridVisible bool
	Snap        bool
	MaxHistory  int
	ZoomMin     float64
	ZoomMax     float64
}

// Config holds the application configuration.
type Config struct {
	Theme    string
	BoardDir string
	Board    Board
	Notify   Notify
	Themes   map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Default to empty to allow fallback to Default
		Board: Board{
			GridSize:    20,
			GridVisible: true,
			Snap:        true,
			MaxHistory:  50,
			ZoomMin:     0.1,
			ZoomMax:     10,
		},
		Notify: Notify{
			Save:   false,
			Export: false,
			Copy:   false,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.BoardDir != "" {
		fmt.Fprintf(&sb, "board_dir = %s\n", c.BoardDir)
	}
	sb.WriteString("\n")

	// Board section
	sb.WriteString("[board]\n")
	fmt.Fprintf(&sb, "grid_size = %g\n", c.Board.GridSize)
	fmt.Fprintf(&sb, "grid = %v\n", c.Board.GridVisible)
	fmt.Fprintf(&sb, "snap = %v\n", c.Board.Snap)
	fmt.Fprintf(&sb, "max_history = %d\n", c.Board.MaxHistory)
	fmt.Fprintf(&sb, "zoom_min = %g\n", c.Board.ZoomMin)
	fmt.Fprintf(&sb, "zoom_max = %g\n", c.Board.ZoomMax)
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Themes sections
	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		fmt.Fprintf(&sb, "CanvasBackground: %s\n", toHex(t.CanvasBackground))
		fmt.Fprintf(&sb, "GridMinor: %s\n", toHex(t.GridMinor))
		fmt.Fprintf(&sb, "GridMajor: %s\n", toHex(t.GridMajor))
		fmt.Fprintf(&sb, "FrameBorder: %s\n", toHex(t.FrameBorder))
		fmt.Fprintf(&sb, "FrameLabel: %s\n", toHex(t.FrameLabel))
		fmt.Fprintf(&sb, "SelectionBorder: %s\n", toHex(t.SelectionBorder))
		fmt.Fprintf(&sb, "HandleFill: %s\n", toHex(t.HandleFill))
		fmt.Fprintf(&sb, "HandleBorder: %s\n", toHex(t.HandleBorder))
		fmt.Fprintf(&sb, "MarqueeBorder: %s\n", toHex(t.MarqueeBorder))
		fmt.Fprintf(&sb, "MarqueeFill: %s\n", toHex(t.MarqueeFill))
		sb.WriteString("\n")
	}

	return sb.String()
}

func toHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
