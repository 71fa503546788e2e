package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"golang.org/x/image/math/f64"
)

func TestGGCanvasFill(t *testing.T) {
	g := NewGGCanvas(16, 16)
	defer g.Close()
	g.FillRect(image.Rect(0, 0, 16, 16), color.RGBA{255, 0, 0, 255})
	got := g.Snapshot().RGBAAt(8, 8)
	if got.R < 250 || got.A != 255 {
		t.Fatalf("fill pixel = %v, want opaque red", got)
	}
	g.Clear()
	if a := g.Snapshot().RGBAAt(8, 8).A; a != 0 {
		t.Fatalf("clear left alpha %d", a)
	}
}

func TestGGCanvasRotatedImage(t *testing.T) {
	g := NewGGCanvas(40, 40)
	defer g.Close()
	sin, cos := math.Sincos(math.Pi / 6)
	m := f64.Aff3{cos, -sin, 20 - cos*5 + sin*5, sin, cos, 20 - sin*5 - cos*5}
	g.DrawImage(filled(10, 10, color.RGBA{0, 255, 0, 255}), m)
	got := g.Snapshot().RGBAAt(20, 20)
	if got.G < 250 || got.A != 255 {
		t.Fatalf("centre = %v, want opaque green", got)
	}
	if a := g.Snapshot().RGBAAt(2, 2).A; a != 0 {
		t.Fatalf("corner should stay transparent, alpha %d", a)
	}
}

func TestGGCanvasEncodePNG(t *testing.T) {
	g := NewGGCanvas(4, 4)
	defer g.Close()
	var buf bytes.Buffer
	if err := g.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Size() != image.Pt(4, 4) {
		t.Fatalf("size %v", img.Bounds().Size())
	}
}

func TestTransformedBounds(t *testing.T) {
	r := transformedBounds(f64.Aff3{2, 0, 1, 0, 3, -1}, image.Rect(0, 0, 5, 5))
	if r != image.Rect(1, -1, 11, 14) {
		t.Fatalf("bounds %v", r)
	}
}
