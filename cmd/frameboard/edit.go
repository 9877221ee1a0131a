package main

import (
	"flag"
	"fmt"

	"github.com/example/frameboard/internal/board"
	"github.com/example/frameboard/internal/editor"
)

type editCmd struct {
	*root
	fs     *flag.FlagSet
	output string
	width  int
	height int
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	cmd := &editCmd{root: r, fs: fs}
	fs.StringVar(&cmd.output, "output", "board.png", "file written by the export shortcut")
	fs.IntVar(&cmd.width, "width", 1280, "initial window width")
	fs.IntVar(&cmd.height, "height", 800, "initial window height")
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *editCmd) Run() error {
	dir := c.resolveBoardDir()
	cfg := c.root.config.Board
	store := board.New(
		board.WithRoot(dir),
		board.WithMaxHistory(cfg.MaxHistory),
		board.WithZoomBounds(cfg.ZoomMin, cfg.ZoomMax),
		board.WithSettings(board.Settings{
			Tool:        board.ToolSelect,
			GridSize:    cfg.GridSize,
			GridVisible: cfg.GridVisible,
			SnapEnabled: cfg.Snap,
		}),
	)
	if err := store.Load(); err != nil {
		return fmt.Errorf("load board %s: %w", dir, err)
	}
	defer store.Close()

	ed := editor.New(
		editor.WithStore(store),
		editor.WithTheme(c.activeTheme),
		editor.WithNotifier(c.notifier),
		editor.WithOutput(c.output),
		editor.WithWindowSize(c.width, c.height),
		editor.WithOnClose(func() { c.notifySave(dir) }),
	)
	ed.Run()
	return nil
}

func (c *editCmd) FlagSet() *flag.FlagSet {
	return c.fs
}
