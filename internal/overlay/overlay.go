// Package overlay loads the decorative frame drawn over the photo.
package overlay

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/example/twibbon/assets"
	"github.com/example/twibbon/internal/photo"
)

// None disables the overlay.
const None = "none"

var ErrBadSize = errors.New("overlay: size must be positive")

// Load returns the overlay named by ref rendered at size by size pixels.
// ref is a built-in frame name or a path to an SVG or raster image. The
// reserved name "none" returns a nil image.
func Load(ref string, size int) (image.Image, error) {
	if size <= 0 {
		return nil, ErrBadSize
	}
	if ref == "" {
		ref = assets.DefaultFrame
	}
	if strings.EqualFold(ref, None) {
		return nil, nil
	}
	data, err := read(ref)
	if err != nil {
		return nil, err
	}
	return Decode(data, size)
}

func read(ref string) ([]byte, error) {
	if data, err := assets.Frame(ref); err == nil {
		return data, nil
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("overlay %q: %w", ref, err)
	}
	return data, nil
}

// Decode renders encoded frame data at size by size pixels.
func Decode(data []byte, size int) (*image.RGBA, error) {
	if size <= 0 {
		return nil, ErrBadSize
	}
	if photo.IsSVG(data) {
		return photo.RasterizeSVG(bytes.NewReader(data), size, size)
	}
	src, _, err := photo.DecodeBytes(data)
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst, nil
}

// Opening reports the fraction of the overlay that is fully transparent,
// which is where the photo shows through.
func Opening(img image.Image) float64 {
	if img == nil {
		return 1
	}
	b := img.Bounds()
	if b.Empty() {
		return 0
	}
	transparent := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a == 0 {
				transparent++
			}
		}
	}
	return float64(transparent) / float64(b.Dx()*b.Dy())
}
