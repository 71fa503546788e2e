// Package render provides drawing surfaces for the composition engine and
// small raster helpers shared by the editor.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Canvas is a CPU drawing surface backed by an RGBA image. Affine draws are
// resampled bilinearly with golang.org/x/image/draw.
type Canvas struct {
	img    *image.RGBA
	interp xdraw.Transformer
}

// NewCanvas allocates a transparent w by h canvas.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		interp: xdraw.BiLinear,
	}
}

// RGBA exposes the backing image.
func (c *Canvas) RGBA() *image.RGBA { return c.img }

func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

func (c *Canvas) Clear() {
	clear(c.img.Pix)
}

func (c *Canvas) FillRect(r image.Rectangle, col color.Color) {
	xdraw.Draw(c.img, r.Intersect(c.img.Bounds()), image.NewUniform(col), image.Point{}, xdraw.Over)
}

// DrawImage composites img using m. Pure integer translations skip
// resampling.
func (c *Canvas) DrawImage(img image.Image, m f64.Aff3) {
	if off, ok := integerTranslation(m); ok {
		b := img.Bounds()
		xdraw.Draw(c.img, b.Add(off), img, b.Min, xdraw.Over)
		return
	}
	c.interp.Transform(c.img, m, img, img.Bounds(), xdraw.Over, nil)
}

func (c *Canvas) DrawText(s string, x, y, size float64, col color.Color) {
	DrawTextCentered(c.img, s, x, y, size, col)
}

func (c *Canvas) Snapshot() *image.RGBA {
	out := image.NewRGBA(c.img.Bounds())
	copy(out.Pix, c.img.Pix)
	return out
}

func (c *Canvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.img)
}

func integerTranslation(m f64.Aff3) (image.Point, bool) {
	if m[0] != 1 || m[1] != 0 || m[3] != 0 || m[4] != 1 {
		return image.Point{}, false
	}
	if m[2] != math.Trunc(m[2]) || m[5] != math.Trunc(m[5]) {
		return image.Point{}, false
	}
	return image.Pt(int(m[2]), int(m[5])), true
}

// Backend names a surface implementation.
type Backend string

const (
	BackendRaster Backend = "raster"
	BackendGG     Backend = "gg"
)

// Backends lists the supported backend names.
func Backends() []Backend { return []Backend{BackendRaster, BackendGG} }

// ParseBackend resolves a backend name. An empty name selects the raster backend.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendRaster:
		return BackendRaster, nil
	case BackendGG:
		return BackendGG, nil
	}
	return "", fmt.Errorf("unknown render backend %q", s)
}

// Surface is what NewSurface returns: a drawing target the composition engine
// accepts, plus Close to release backend resources.
type Surface interface {
	Bounds() image.Rectangle
	Clear()
	FillRect(r image.Rectangle, c color.Color)
	DrawImage(img image.Image, m f64.Aff3)
	DrawText(s string, x, y, size float64, c color.Color)
	Snapshot() *image.RGBA
	EncodePNG(w io.Writer) error
	Close() error
}

// NewSurface creates a size by size surface of the given backend.
func NewSurface(b Backend, size int) (Surface, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid canvas size %d", size)
	}
	switch b {
	case "", BackendRaster:
		return NewCanvas(size, size), nil
	case BackendGG:
		return NewGGCanvas(size, size), nil
	}
	return nil, fmt.Errorf("unknown render backend %q", b)
}

// Close is a no-op; it lets Canvas satisfy Surface.
func (c *Canvas) Close() error { return nil }
