package photo

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// IsSVG reports whether data looks like an SVG document.
func IsSVG(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	head = bytes.TrimPrefix(head, []byte("\xef\xbb\xbf"))
	head = bytes.TrimSpace(head)
	if !bytes.HasPrefix(head, []byte("<")) {
		return false
	}
	return bytes.Contains(head, []byte("<svg"))
}

// RasterizeSVG renders an SVG document into a w by h RGBA image. A zero
// width or height uses the document's viewBox size.
func RasterizeSVG(r io.Reader, w, h int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(r, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("%w: svg: %v", ErrDecode, err)
	}
	if w <= 0 || h <= 0 {
		w = int(math.Ceil(icon.ViewBox.W))
		h = int(math.Ceil(icon.ViewBox.H))
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: svg has no size", ErrDecode)
	}
	if w > MaxSide || h > MaxSide {
		return nil, fmt.Errorf("%w: svg %dx%d", ErrTooLarge, w, h)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}
