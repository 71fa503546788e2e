package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/twibbon/internal/batch"
	"github.com/example/twibbon/internal/compose"
	"github.com/example/twibbon/internal/photo"
	"github.com/example/twibbon/internal/render"
)

type batchCmd struct {
	*root
	fs *flag.FlagSet
	canvasFlags
	outputDir string
	zoom      float64
	rotate    float64
	workers   int
	quiet     bool
	inputs    []string
	stdout    io.Writer
}

func (c *batchCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseBatchCmd(args []string, r *root) (*batchCmd, error) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	c := &batchCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(c)
	cfg := r.settings()
	c.canvasFlags.register(fs, cfg)
	dir := cfg.SaveDir
	if dir == "" {
		dir = "."
	}
	fs.StringVar(&c.outputDir, "out", dir, "directory receiving the <name>"+batch.Suffix+" files")
	fs.Float64Var(&c.zoom, "zoom", 1, "multiplier applied to the fitted scale")
	fs.Float64Var(&c.rotate, "rotate", 0, "rotation in degrees, clockwise")
	fs.IntVar(&c.workers, "workers", 0, "parallel workers (default: number of CPUs)")
	fs.BoolVar(&c.quiet, "quiet", false, "suppress progress output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() == 0 {
		return nil, &UsageError{of: c}
	}
	inputs, err := expandInputs(fs.Args())
	if err != nil {
		return nil, err
	}
	c.inputs = inputs
	return c, nil
}

// expandInputs resolves glob patterns. Sample and clipboard references pass
// through unchanged.
func expandInputs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "sample:") || arg == "clipboard" || arg == "clipboard:" || !strings.ContainsAny(arg, "*?[") {
			out = append(out, arg)
			continue
		}
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		out = append(out, matches...)
	}
	return out, nil
}

func (c *batchCmd) Run() error {
	sources := make([]compose.Source, 0, len(c.inputs))
	for _, in := range c.inputs {
		src, err := photo.Resolve(in)
		if err != nil {
			return fmt.Errorf("batch: %w", err)
		}
		sources = append(sources, src)
	}
	bg, err := compose.ParseBackground(c.background)
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	backend, err := render.ParseBackend(c.backend)
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	frame, err := loadOverlayFn(c.frame, c.size)
	if err != nil {
		return fmt.Errorf("batch: load frame: %w", err)
	}
	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return fmt.Errorf("batch: create output directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := batch.Config{
		OutputDir:  c.outputDir,
		Overlay:    frame,
		Background: bg,
		Size:       c.size,
		Backend:    backend,
		Zoom:       c.zoom,
		Rotation:   c.rotate,
		Workers:    c.workers,
		Interval:   2 * time.Second,
	}
	if !c.quiet {
		cfg.Progress = os.Stderr
	}
	results := batch.Run(ctx, cfg, sources)

	failed := 0
	for _, res := range results {
		if res.OK() {
			fmt.Fprintf(c.stdout, "ok   %s -> %s\n", res.Name, res.Output)
			continue
		}
		failed++
		fmt.Fprintf(c.stdout, "fail %s: %v\n", res.Name, res.Err)
	}
	if failed < len(results) {
		c.root.notifySave(c.outputDir)
	}
	if failed > 0 {
		return fmt.Errorf("batch: %d of %d photos failed", failed, len(results))
	}
	return nil
}
