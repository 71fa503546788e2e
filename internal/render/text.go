package render

import (
	"image"
	"image/color"
	"log"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	fontOnce sync.Once
	regular  *opentype.Font
	faces    sync.Map // map[float64]*sharedFace
)

// sharedFace serialises use of one cached face. An opentype face reuses its
// glyph buffers and mask between calls, so a caller holds mu for the whole
// measure or draw.
type sharedFace struct {
	mu   sync.Mutex
	face font.Face
}

var fallbackFace = &sharedFace{face: basicfont.Face7x13}

func loadFont() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Printf("parse font: %v", err)
		return
	}
	regular = f
}

// faceForSize returns the cached Go Regular face of the given pixel size. If
// the font cannot be parsed the fixed 7x13 face is used instead.
func faceForSize(size float64) *sharedFace {
	if size <= 0 {
		size = 12
	}
	size = math.Round(size*4) / 4
	if sf, ok := faces.Load(size); ok {
		return sf.(*sharedFace)
	}
	fontOnce.Do(loadFont)
	if regular == nil {
		return fallbackFace
	}
	face, err := opentype.NewFace(regular, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Printf("font face %.2f: %v", size, err)
		return fallbackFace
	}
	actual, _ := faces.LoadOrStore(size, &sharedFace{face: face})
	return actual.(*sharedFace)
}

// withFace runs fn with exclusive use of the face for size.
func withFace(size float64, fn func(font.Face)) {
	sf := faceForSize(size)
	sf.mu.Lock()
	defer sf.mu.Unlock()
	fn(sf.face)
}

// MeasureText returns the advance width and the ascent plus descent of s.
func MeasureText(s string, size float64) (width, height int) {
	withFace(size, func(face font.Face) {
		d := &font.Drawer{Face: face}
		m := face.Metrics()
		width, height = d.MeasureString(s).Ceil(), m.Ascent.Ceil()+m.Descent.Ceil()
	})
	return width, height
}

// DrawTextCentered draws s on dst with its box centred on (x, y).
func DrawTextCentered(dst xdraw.Image, s string, x, y, size float64, col color.Color) {
	withFace(size, func(face font.Face) {
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face}
		m := face.Metrics()
		w := d.MeasureString(s)
		ascent := m.Ascent.Ceil()
		descent := m.Descent.Ceil()
		baseline := y + float64(ascent-descent)/2
		d.Dot = fixed.Point26_6{
			X: fixed.Int26_6(x*64) - w/2,
			Y: fixed.Int26_6(baseline * 64),
		}
		d.DrawString(s)
	})
}

// DrawText renders s with its top-left corner at (x, y).
func DrawText(dst xdraw.Image, x, y int, s string, col color.Color, size float64) {
	withFace(size, func(face font.Face) {
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(col),
			Face: face,
			Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
		}
		d.DrawString(s)
	})
}
