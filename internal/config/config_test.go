package config

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
board_dir = /tmp/boards/main

[board]
grid_size = 32
snap = false
max_history = 25

[notify]
save = true
export = false

[theme.my_custom_theme]
CanvasBackground = #111111
SelectionBorder = #FF8800
`
	r := strings.NewReader(input)
	cfg, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}

	if cfg.BoardDir != "/tmp/boards/main" {
		t.Errorf("Expected board_dir '/tmp/boards/main', got '%s'", cfg.BoardDir)
	}

	if cfg.Board.GridSize != 32 {
		t.Errorf("Expected grid_size 32, got %g", cfg.Board.GridSize)
	}
	if cfg.Board.Snap {
		t.Error("Expected snap to be false")
	}
	if cfg.Board.MaxHistory != 25 {
		t.Errorf("Expected max_history 25, got %d", cfg.Board.MaxHistory)
	}
	// Untouched keys keep defaults.
	if cfg.Board.ZoomMin != 0.1 || cfg.Board.ZoomMax != 10 {
		t.Errorf("Unexpected zoom bounds: %+v", cfg.Board)
	}

	if !cfg.Notify.Save {
		t.Error("Expected notify.save to be true")
	}
	if cfg.Notify.Export {
		t.Error("Expected notify.export to be false")
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}

	if th.CanvasBackground.R != 0x11 || th.CanvasBackground.G != 0x11 || th.CanvasBackground.B != 0x11 {
		t.Errorf("Unexpected CanvasBackground color: %+v", th.CanvasBackground)
	}
	if th.SelectionBorder.R != 0xFF || th.SelectionBorder.G != 0x88 {
		t.Errorf("Unexpected SelectionBorder color: %+v", th.SelectionBorder)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	for _, input := range []string{
		"[board]\ngrid_size = lots\n",
		"[board]\nmax_history = 0\n",
		"[notify]\nsave = maybe\n",
		"[theme.x]\nCanvasBackground = red\n",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
board_dir = /home/user/boards

[board]
grid_size = 24
grid = true
snap = true
max_history = 80
zoom_min = 0.2
zoom_max = 8

[notify]
save = true
export = false

[theme.custom]
Name = custom
CanvasBackground = #000000
SelectionBorder = #FFFFFF
`
	// 1. Parse initial input
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	// 2. Generate string representation
	generated := cfg.String()

	// 3. Parse generated string
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	// 4. Compare relevant fields
	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.BoardDir != cfg2.BoardDir {
		t.Errorf("BoardDir mismatch: %q vs %q", cfg.BoardDir, cfg2.BoardDir)
	}
	if cfg.Board != cfg2.Board {
		t.Errorf("Board mismatch: %+v vs %+v", cfg.Board, cfg2.Board)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	// Check theme persistence
	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if t1.CanvasBackground != t2.CanvasBackground {
		t.Errorf("Theme background mismatch: %v vs %v", t1.CanvasBackground, t2.CanvasBackground)
	}
}
