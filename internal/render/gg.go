package render

import (
	"image"
	"image/color"
	"io"
	"log"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/f64"
)

var (
	ggFontOnce sync.Once
	ggFont     *text.FontSource
)

func ggFontSource() *text.FontSource {
	ggFontOnce.Do(func() {
		src, err := text.NewFontSource(goregular.TTF)
		if err != nil {
			log.Printf("gg font: %v", err)
			return
		}
		ggFont = src
	})
	return ggFont
}

// GGCanvas is a drawing surface backed by a gogpu/gg context.
type GGCanvas struct {
	dc      *gg.Context
	w, h    int
	scratch *image.RGBA
}

// NewGGCanvas creates a transparent w by h gg surface.
func NewGGCanvas(w, h int) *GGCanvas {
	dc := gg.NewContext(w, h)
	dc.Clear()
	return &GGCanvas{dc: dc, w: w, h: h}
}

func (g *GGCanvas) Bounds() image.Rectangle { return image.Rect(0, 0, g.w, g.h) }

func (g *GGCanvas) Clear() { g.dc.Clear() }

func (g *GGCanvas) FillRect(r image.Rectangle, col color.Color) {
	r = r.Intersect(g.Bounds())
	if r.Empty() {
		return
	}
	g.dc.SetColor(col)
	g.dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	if err := g.dc.Fill(); err != nil {
		log.Printf("gg fill: %v", err)
	}
}

// DrawImage draws axis-aligned transforms through gg directly. gg only
// honours translation and scale for images, so rotated draws are resampled
// into a scratch layer first and that layer is composited.
func (g *GGCanvas) DrawImage(img image.Image, m f64.Aff3) {
	b := img.Bounds()
	if m[1] == 0 && m[3] == 0 && m[0] > 0 && m[4] > 0 {
		g.dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
			X:             m[0]*float64(b.Min.X) + m[2],
			Y:             m[4]*float64(b.Min.Y) + m[5],
			DstWidth:      m[0] * float64(b.Dx()),
			DstHeight:     m[4] * float64(b.Dy()),
			Interpolation: gg.InterpBilinear,
			Opacity:       1,
			BlendMode:     gg.BlendNormal,
		})
		return
	}
	if g.scratch == nil {
		g.scratch = image.NewRGBA(g.Bounds())
	} else {
		clear(g.scratch.Pix)
	}
	xdraw.BiLinear.Transform(g.scratch, m, img, b, xdraw.Over, nil)
	dirty := transformedBounds(m, b).Intersect(g.Bounds())
	if dirty.Empty() {
		return
	}
	g.dc.DrawImageEx(gg.ImageBufFromImage(g.scratch.SubImage(dirty)), gg.DrawImageOptions{
		X:         float64(dirty.Min.X),
		Y:         float64(dirty.Min.Y),
		Opacity:   1,
		BlendMode: gg.BlendNormal,
	})
}

func (g *GGCanvas) DrawText(s string, x, y, size float64, col color.Color) {
	src := ggFontSource()
	if src == nil {
		return
	}
	g.dc.SetFont(src.Face(size))
	g.dc.SetColor(col)
	g.dc.DrawStringAnchored(s, x, y, 0.5, 0.5)
}

func (g *GGCanvas) Snapshot() *image.RGBA {
	img := g.dc.Image()
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(image.Rect(0, 0, g.w, g.h))
	xdraw.Draw(out, out.Bounds(), img, img.Bounds().Min, xdraw.Src)
	return out
}

func (g *GGCanvas) EncodePNG(w io.Writer) error { return g.dc.EncodePNG(w) }

// Close releases the gg context.
func (g *GGCanvas) Close() error { return g.dc.Close() }

// transformedBounds returns the integer rectangle covering r after m.
func transformedBounds(m f64.Aff3, r image.Rectangle) image.Rectangle {
	pts := [4][2]float64{
		{float64(r.Min.X), float64(r.Min.Y)},
		{float64(r.Max.X), float64(r.Min.Y)},
		{float64(r.Max.X), float64(r.Max.Y)},
		{float64(r.Min.X), float64(r.Max.Y)},
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		x := m[0]*p[0] + m[1]*p[1] + m[2]
		y := m[3]*p[0] + m[4]*p[1] + m[5]
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}
