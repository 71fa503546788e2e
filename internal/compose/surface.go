package compose

import (
	"image"
	"image/color"
	"io"

	"golang.org/x/image/math/f64"
)

// Surface is the fixed-resolution drawing target the engine renders into.
// Implementations live in internal/render.
type Surface interface {
	// Bounds reports the canvas rectangle. The engine treats its size as the
	// internal resolution.
	Bounds() image.Rectangle
	// Clear resets every pixel to transparent.
	Clear()
	FillRect(r image.Rectangle, c color.Color)
	// DrawImage composites img over the surface using m, a source to
	// destination affine matrix.
	DrawImage(img image.Image, m f64.Aff3)
	// DrawText draws s centred on (x, y) using a face of the given pixel size.
	DrawText(s string, x, y, size float64, c color.Color)
	// Snapshot returns a copy of the current pixels.
	Snapshot() *image.RGBA
	EncodePNG(w io.Writer) error
}
