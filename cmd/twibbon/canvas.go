package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"path/filepath"
	"strconv"

	"github.com/example/twibbon/internal/compose"
	"github.com/example/twibbon/internal/config"
	"github.com/example/twibbon/internal/overlay"
	"github.com/example/twibbon/internal/photo"
	"github.com/example/twibbon/internal/render"
)

// Replaced in tests.
var (
	loadPhotoFn = func(ctx context.Context, e *compose.Engine, src compose.Source) error {
		return e.Load(ctx, src)
	}
	loadOverlayFn = overlay.Load
)

// canvasFlags are the options shared by every command that builds an engine.
type canvasFlags struct {
	frame      string
	background string
	backend    string
	size       int
}

func (c *canvasFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	size := cfg.Size
	if size <= 0 {
		size = compose.DefaultCanvasSize
	}
	fs.StringVar(&c.frame, "frame", cfg.Frame, "built-in frame name, frame file (SVG or raster) or \"none\"")
	fs.StringVar(&c.background, "background", cfg.Background, "background name, color keyword, #RRGGBB[AA] or \"none\"")
	fs.StringVar(&c.backend, "backend", cfg.Backend, "render backend (raster or gg)")
	fs.IntVar(&c.size, "size", size, "width and height of the square canvas in pixels")
}

// canvas holds the pieces built from canvasFlags. Close releases the surface.
type canvas struct {
	engine     *compose.Engine
	surface    render.Surface
	overlay    image.Image
	background compose.Background
}

func (c *canvasFlags) build() (*canvas, error) {
	if c.size <= 0 {
		return nil, fmt.Errorf("invalid canvas size %d", c.size)
	}
	bg, err := compose.ParseBackground(c.background)
	if err != nil {
		return nil, err
	}
	backend, err := render.ParseBackend(c.backend)
	if err != nil {
		return nil, err
	}
	frame, err := loadOverlayFn(c.frame, c.size)
	if err != nil {
		return nil, fmt.Errorf("load frame: %w", err)
	}
	surface, err := render.NewSurface(backend, c.size)
	if err != nil {
		return nil, err
	}
	e, err := compose.New(surface, compose.WithOverlay(frame), compose.WithBackground(bg))
	if err != nil {
		surface.Close()
		return nil, err
	}
	return &canvas{engine: e, surface: surface, overlay: frame, background: bg}, nil
}

func (c *canvas) Close() error { return c.surface.Close() }

// photoSource picks the photo named by the flags. The clipboard wins over an
// explicit reference, which wins over a sample. A nil source means no photo.
func photoSource(ref, sample string, fromClipboard bool) (compose.Source, error) {
	switch {
	case fromClipboard:
		return photo.Clipboard(), nil
	case ref != "":
		return photo.Resolve(ref)
	case sample != "":
		return photo.Sample(sample), nil
	}
	return nil, nil
}

// inDir places relative output paths inside dir.
func inDir(dir, path string) string {
	if dir == "" || path == "-" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// optionalFloat is a float flag that remembers whether it was given.
type optionalFloat struct {
	set   bool
	value float64
}

func (o *optionalFloat) String() string {
	if o == nil || !o.set {
		return ""
	}
	return strconv.FormatFloat(o.value, 'g', -1, 64)
}

func (o *optionalFloat) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	o.value = v
	o.set = true
	return nil
}

func (o *optionalFloat) or(fallback float64) float64 {
	if o.set {
		return o.value
	}
	return fallback
}
