package render

import (
	"image"
	"image/color"
	"sync"

	xdraw "golang.org/x/image/draw"
)

// ShadowOptions configures the drop shadow drawn under the editor preview.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
	// Color tints the shadow; the zero value is black.
	Color   color.RGBA
}

// DefaultShadowOptions returns a soft shadow suited to the preview card.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  18,
		Offset:  image.Pt(0, 10),
		Opacity: 0.35,
	}
}

// ShadowBounds reports the area DrawShadow touches for a card at rect.
func ShadowBounds(rect image.Rectangle, opts ShadowOptions) image.Rectangle {
	if opts.Opacity <= 0 || rect.Empty() {
		return image.Rectangle{}
	}
	return rect.Inset(-max(opts.Radius, 0)).Add(opts.Offset)
}

// Shadow draws blurred rectangle shadows and keeps the last mask so repeated
// frames at the same size do not blur again.
type Shadow struct {
	mu   sync.Mutex
	key  shadowKey
	mask *image.Alpha
}

type shadowKey struct {
	size   image.Point
	radius int
}

// Draw paints the shadow for a card occupying rect onto dst. The card
// itself is not drawn.
func (s *Shadow) Draw(dst xdraw.Image, rect image.Rectangle, opts ShadowOptions) {
	area := ShadowBounds(rect, opts)
	if area.Empty() {
		return
	}
	opacity := min(opts.Opacity, 1)
	mask := s.maskFor(rect.Size(), max(opts.Radius, 0))
	shade := image.NewUniform(color.NRGBA{R: opts.Color.R, G: opts.Color.G, B: opts.Color.B, A: uint8(opacity*255 + 0.5)})
	xdraw.DrawMask(dst, area, shade, image.Point{}, mask, image.Point{}, xdraw.Over)
}

func (s *Shadow) maskFor(size image.Point, radius int) *image.Alpha {
	key := shadowKey{size: size, radius: radius}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mask != nil && s.key == key {
		return s.mask
	}
	padded := image.Rect(0, 0, size.X+2*radius, size.Y+2*radius)
	mask := image.NewAlpha(padded)
	card := image.Rect(radius, radius, radius+size.X, radius+size.Y)
	xdraw.Draw(mask, card, image.Opaque, image.Point{}, xdraw.Src)
	s.mask = boxBlur(mask, radius)
	s.key = key
	return s.mask
}

// boxBlur runs a horizontal then a vertical running-sum blur over src.
func boxBlur(src *image.Alpha, radius int) *image.Alpha {
	b := src.Bounds()
	out := image.NewAlpha(b)
	if radius <= 0 {
		copy(out.Pix, src.Pix)
		return out
	}
	w, h := b.Dx(), b.Dy()
	tmp := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		blurLine(row, tmp[y*w:(y+1)*w], radius)
	}
	col := make([]uint8, h)
	res := make([]uint8, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = tmp[y*w+x]
		}
		blurLine(col, res, radius)
		for y := 0; y < h; y++ {
			out.Pix[y*out.Stride+x] = res[y]
		}
	}
	return out
}

// blurLine averages each sample of in with up to radius neighbours on both
// sides, clamping the window at the ends.
func blurLine(in, out []uint8, radius int) {
	n := len(in)
	sum := 0
	lo, hi := 0, -1
	for i := 0; i < n; i++ {
		for hi < min(i+radius, n-1) {
			hi++
			sum += int(in[hi])
		}
		for lo < i-radius {
			sum -= int(in[lo])
			lo++
		}
		out[i] = uint8(sum / (hi - lo + 1))
	}
}
