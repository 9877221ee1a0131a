package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/frameboard/internal/frame"
	"github.com/example/frameboard/internal/storage"
)

type listCmd struct {
	*root
	fs      *flag.FlagSet
	verbose bool
}

func parseListCmd(args []string, r *root) (*listCmd, error) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	cmd := &listCmd{root: r, fs: fs}
	fs.BoolVar(&cmd.verbose, "v", false, "include color, rotation and flags")
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *listCmd) Run() error {
	dir := c.resolveBoardDir()
	entities, err := storage.List(dir)
	if err != nil {
		return err
	}
	if len(entities) == 0 {
		fmt.Fprintf(os.Stdout, "no frames in %s\n", dir)
		return nil
	}
	for _, ent := range entities {
		rec, err := storage.ReadRecord(ent.Location)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			continue
		}
		if rec == nil {
			fmt.Fprintf(os.Stdout, "%-20s (no metadata)\n", ent.Name)
			continue
		}
		c.printRecord(ent.Name, *rec)
	}
	return nil
}

func (c *listCmd) printRecord(entity string, rec frame.Record) {
	name := rec.Name
	if name == "" {
		name = entity
	}
	fmt.Fprintf(os.Stdout, "%-20s %8.0fx%-8.0f at (%.0f, %.0f)", name, rec.Width, rec.Height, rec.X, rec.Y)
	if c.verbose {
		fmt.Fprintf(os.Stdout, "  %s", rec.Color)
		if rec.Rotation != 0 {
			fmt.Fprintf(os.Stdout, "  %.0f deg", rec.Rotation)
		}
		if rec.Locked {
			fmt.Fprint(os.Stdout, "  locked")
		}
		if !rec.Visible {
			fmt.Fprint(os.Stdout, "  hidden")
		}
	}
	fmt.Fprintln(os.Stdout)
}

func (c *listCmd) FlagSet() *flag.FlagSet {
	return c.fs
}
