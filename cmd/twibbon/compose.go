package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/example/twibbon/internal/clipboard"
)

var writeClipboardFn = clipboard.WriteImage

type composeCmd struct {
	*root
	fs *flag.FlagSet
	canvasFlags
	photo         string
	sample        string
	output        string
	toClipboard   bool
	fromClipboard bool
	x             optionalFloat
	y             optionalFloat
	scale         optionalFloat
	zoom          float64
	rotate        float64
	ctx           context.Context
}

func (c *composeCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseComposeCmd(args []string, r *root) (*composeCmd, error) {
	fs := flag.NewFlagSet("compose", flag.ExitOnError)
	c := &composeCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	cfg := r.settings()
	c.canvasFlags.register(fs, cfg)
	fs.StringVar(&c.photo, "photo", "", "photo file, sample:NAME or clipboard")
	fs.StringVar(&c.sample, "sample", "", "built-in sample photo to use when no photo is given")
	fs.StringVar(&c.output, "output", "", "output PNG path, \"-\" for stdout (default from config, else twibbon.png)")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&c.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "read the photo from the clipboard")
	fs.BoolVar(&c.fromClipboard, "from-clip", false, "read the photo from the clipboard (alias)")
	fs.Var(&c.x, "x", "photo centre x in canvas pixels (default: canvas centre)")
	fs.Var(&c.y, "y", "photo centre y in canvas pixels (default: 36% of the canvas height)")
	fs.Var(&c.scale, "scale", "absolute photo scale (default: fit 90% of the canvas)")
	fs.Float64Var(&c.zoom, "zoom", 1, "multiplier applied to the scale")
	fs.Float64Var(&c.rotate, "rotate", 0, "rotation in degrees, clockwise")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		if c.photo != "" || c.fromClipboard {
			return nil, fmt.Errorf("photo given twice: %q and %q", c.photo, fs.Arg(0))
		}
		c.photo = fs.Arg(0)
	default:
		return nil, &UsageError{of: c}
	}
	if c.fromClipboard && c.photo != "" {
		return nil, fmt.Errorf("-from-clipboard cannot be combined with -photo")
	}
	return c, nil
}

// target returns where the PNG is written, or "" when only the clipboard
// receives the result.
func (c *composeCmd) target() string {
	if c.output != "" {
		return c.output
	}
	if c.toClipboard {
		return ""
	}
	cfg := c.root.settings()
	out := cfg.Output
	if out == "" {
		out = "twibbon.png"
	}
	return inDir(cfg.SaveDir, out)
}

func (c *composeCmd) Run() error {
	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	src, err := photoSource(c.photo, c.sample, c.fromClipboard)
	if err != nil {
		return fmt.Errorf("compose: %w", err)
	}
	cv, err := c.canvasFlags.build()
	if err != nil {
		return fmt.Errorf("compose: %w", err)
	}
	defer cv.Close()
	e := cv.engine

	if src != nil {
		if err := loadPhotoFn(ctx, e, src); err != nil {
			return fmt.Errorf("compose: load photo: %w", err)
		}
		c.root.notifyLoad(src.Name(), e.Snapshot())
	}
	st := e.State()
	st.X = c.x.or(st.X)
	st.Y = c.y.or(st.Y)
	st.Scale = c.scale.or(st.Scale) * c.zoom
	st.Rotation = c.rotate
	if err := e.SetState(st); err != nil {
		return fmt.Errorf("compose: %w", err)
	}

	if out := c.target(); out != "" {
		if err := c.write(out, e.Export); err != nil {
			return fmt.Errorf("compose: %w", err)
		}
	}
	if c.toClipboard {
		if err := writeClipboardFn(e.Snapshot()); err != nil {
			return fmt.Errorf("compose: copy to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "copied twibbon to clipboard")
		c.root.notifyCopy("twibbon")
	}
	return nil
}

func (c *composeCmd) write(out string, export func(io.Writer) error) error {
	if out == "-" {
		return export(os.Stdout)
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := export(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", out)
	c.root.notifySave(out)
	return nil
}
