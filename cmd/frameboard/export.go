package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/frameboard/internal/frame"
	"github.com/example/frameboard/internal/render"
	"github.com/example/frameboard/internal/storage"
)

type exportCmd struct {
	*root
	fs      *flag.FlagSet
	output  string
	scale   float64
	padding float64
	shadow  bool
}

// loadFramesFn is swapped out by tests.
var loadFramesFn = loadFrames

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	cmd := &exportCmd{root: r, fs: fs}
	fs.StringVar(&cmd.output, "o", "board.png", "output PNG path")
	fs.Float64Var(&cmd.scale, "scale", 1, "world units to pixels multiplier")
	fs.Float64Var(&cmd.padding, "padding", 40, "margin around the frame bounds in world units")
	fs.BoolVar(&cmd.shadow, "shadow", true, "draw a drop shadow under the frames")
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	if cmd.scale <= 0 {
		return nil, fmt.Errorf("scale must be positive, got %g", cmd.scale)
	}
	return cmd, nil
}

// loadFrames reads every frame record in the board directory, skipping
// entities without readable metadata.
func loadFrames(dir string) ([]frame.Frame, error) {
	entities, err := storage.List(dir)
	if err != nil {
		return nil, err
	}
	var frames []frame.Frame
	for _, ent := range entities {
		rec, err := storage.ReadRecord(ent.Location)
		if err != nil || rec == nil {
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}
			continue
		}
		f, err := frame.FromRecord(*rec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			continue
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func (c *exportCmd) Run() error {
	frames, err := loadFramesFn(c.resolveBoardDir())
	if err != nil {
		return err
	}
	r, err := render.New()
	if err != nil {
		return err
	}
	opts := render.ExportOptions{
		Padding: c.padding,
		Scale:   c.scale,
		Shadow:  c.shadow,
		Theme:   c.activeTheme,
	}
	if err := r.ExportFile(c.output, frames, opts); err != nil {
		return fmt.Errorf("failed to export board: %w", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", c.output)
	c.notifyExport(c.output)
	return nil
}

func (c *exportCmd) FlagSet() *flag.FlagSet {
	return c.fs
}
