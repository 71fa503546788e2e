package main

import (
	"flag"
	"fmt"

	"github.com/example/twibbon/assets"
	"github.com/example/twibbon/internal/appstate"
)

// runEditorFn starts the editor window. Replaced in tests.
var runEditorFn = func(a *appstate.AppState) { a.Run() }

type editCmd struct {
	*root
	fs *flag.FlagSet
	canvasFlags
	photo         string
	sample        string
	output        string
	saveDir       string
	fromClipboard bool
}

func (c *editCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	c := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	cfg := r.settings()
	c.canvasFlags.register(fs, cfg)
	sample := cfg.Sample
	if sample == "" {
		sample = assets.DefaultSample
	}
	output := cfg.Output
	if output == "" {
		output = "twibbon.png"
	}
	fs.StringVar(&c.photo, "photo", "", "photo to open at start: file, sample:NAME or clipboard")
	fs.StringVar(&c.sample, "sample", sample, "sample photo loaded by the Sample button")
	fs.StringVar(&c.output, "output", output, "file written by Save")
	fs.StringVar(&c.saveDir, "save-dir", cfg.SaveDir, "directory for relative output paths")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "open the photo on the clipboard at start")
	fs.BoolVar(&c.fromClipboard, "from-clip", false, "open the photo on the clipboard at start (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		if c.photo != "" {
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

func (c *editCmd) Run() error {
	src, err := photoSource(c.photo, "", c.fromClipboard)
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}
	cv, err := c.canvasFlags.build()
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}
	file := ""
	if src != nil {
		file = src.Name()
	}
	title := windowTitle(titleOptions{
		File:       file,
		Frame:      c.frame,
		Background: cv.background.String(),
	})
	opts := []appstate.Option{
		appstate.WithTheme(c.root.currentTheme()),
		appstate.WithOutput(c.output),
		appstate.WithSaveDir(c.saveDir),
		appstate.WithSample(c.sample),
		appstate.WithTitle(title),
		appstate.WithOnClose(func() { cv.Close() }),
	}
	if c.root != nil && c.root.notifier != nil {
		opts = append(opts, appstate.WithNotifier(c.root.notifier))
	}
	if src != nil {
		opts = append(opts, appstate.WithSource(src))
	}
	runEditorFn(appstate.New(cv.engine, opts...))
	return nil
}
