package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/twibbon/assets"
	"github.com/example/twibbon/internal/compose"
	"github.com/example/twibbon/internal/overlay"
	"github.com/example/twibbon/internal/theme"
)

// openingProbeSize is the resolution frames are rasterised at to measure
// their transparent window.
const openingProbeSize = 120

type backgroundsCmd struct {
	*root
	fs     *flag.FlagSet
	stdout io.Writer
}

func parseBackgroundsCmd(args []string, r *root) (*backgroundsCmd, error) {
	fs := flag.NewFlagSet("backgrounds", flag.ExitOnError)
	cmd := &backgroundsCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *backgroundsCmd) Run() error {
	current, err := compose.ParseBackground(c.root.settings().Background)
	if err != nil {
		current = compose.White
	}
	fmt.Fprintln(c.stdout, "available backgrounds (* marks the configured one):")
	for _, bg := range compose.Backgrounds() {
		marker := " "
		if bg == current {
			marker = "*"
		}
		hex := "-"
		if !bg.Transparent() {
			hex = fmt.Sprintf("#%02x%02x%02x", bg.Color.R, bg.Color.G, bg.Color.B)
		}
		fmt.Fprintf(c.stdout, "%s %-12s %s\n", marker, bg.Name, hex)
	}
	fmt.Fprintln(c.stdout, "also accepted: SVG color keywords, #RRGGBB, #RRGGBBAA, none")
	return nil
}

func (c *backgroundsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *backgroundsCmd) Template() string {
	return "backgrounds.txt"
}

type framesCmd struct {
	*root
	fs     *flag.FlagSet
	stdout io.Writer
}

func parseFramesCmd(args []string, r *root) (*framesCmd, error) {
	fs := flag.NewFlagSet("frames", flag.ExitOnError)
	cmd := &framesCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *framesCmd) Run() error {
	names := assets.FrameNames()
	if len(names) == 0 {
		fmt.Fprintln(c.stdout, "no frames available")
		return nil
	}
	fmt.Fprintln(c.stdout, "built-in frames (opening is the transparent share of the frame):")
	for _, name := range names {
		marker := " "
		if name == assets.DefaultFrame {
			marker = "*"
		}
		img, err := overlay.Load(name, openingProbeSize)
		if err != nil {
			fmt.Fprintf(c.stdout, "%s %-12s error: %v\n", marker, name, err)
			continue
		}
		fmt.Fprintf(c.stdout, "%s %-12s opening %3.0f%%\n", marker, name, overlay.Opening(img)*100)
	}
	fmt.Fprintln(c.stdout, "a path to an SVG or raster file, or \"none\", is also accepted")
	return nil
}

func (c *framesCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *framesCmd) Template() string {
	return "frames.txt"
}

type samplesCmd struct {
	*root
	fs     *flag.FlagSet
	stdout io.Writer
}

func parseSamplesCmd(args []string, r *root) (*samplesCmd, error) {
	fs := flag.NewFlagSet("samples", flag.ExitOnError)
	cmd := &samplesCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *samplesCmd) Run() error {
	fmt.Fprintln(c.stdout, "built-in sample photos (use as sample:NAME):")
	for _, name := range assets.SampleNames() {
		marker := " "
		if name == assets.DefaultSample {
			marker = "*"
		}
		fmt.Fprintf(c.stdout, "%s %s\n", marker, name)
	}
	return nil
}

func (c *samplesCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *samplesCmd) Template() string {
	return "samples.txt"
}

type themesCmd struct {
	*root
	fs     *flag.FlagSet
	stdout io.Writer
}

func parseThemesCmd(args []string, r *root) (*themesCmd, error) {
	fs := flag.NewFlagSet("themes", flag.ExitOnError)
	cmd := &themesCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *themesCmd) Run() error {
	active := c.root.currentTheme().Name
	loader := theme.NewLoader(c.root.settings().Themes)
	for _, name := range loader.Names() {
		marker := " "
		if t, err := loader.Load(name); err == nil && t.Name == active {
			marker = "*"
		}
		fmt.Fprintf(c.stdout, "%s %s\n", marker, name)
	}
	return nil
}

func (c *themesCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *themesCmd) Template() string {
	return "themes.txt"
}
