package render

import (
	"image"
	"image/color"
	"testing"
)

func TestShadowBounds(t *testing.T) {
	card := image.Rect(10, 10, 30, 20)
	opts := ShadowOptions{Radius: 4, Offset: image.Pt(8, 6), Opacity: 0.5}
	want := image.Rect(14, 12, 42, 32)
	if got := ShadowBounds(card, opts); got != want {
		t.Fatalf("bounds %v, want %v", got, want)
	}
	if got := ShadowBounds(card, ShadowOptions{Radius: 4, Opacity: 0}); !got.Empty() {
		t.Fatalf("zero opacity should have no bounds, got %v", got)
	}
}

func TestShadowDrawsOffsetAlpha(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 60, 60))
	card := image.Rect(10, 10, 30, 30)
	var s Shadow
	s.Draw(dst, card, ShadowOptions{Radius: 3, Offset: image.Pt(10, 10), Opacity: 1})

	if a := dst.RGBAAt(30, 30).A; a == 0 {
		t.Fatalf("expected shadow under the offset card centre")
	}
	if a := dst.RGBAAt(5, 5).A; a != 0 {
		t.Fatalf("shadow leaked to (5,5): alpha %d", a)
	}
	// The blur fades the shadow edge.
	inner := dst.RGBAAt(30, 30).A
	edge := dst.RGBAAt(40+2, 30).A
	if edge >= inner {
		t.Fatalf("edge alpha %d should be below inner %d", edge, inner)
	}
}

func TestShadowZeroOpacityNoop(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	var s Shadow
	s.Draw(dst, image.Rect(2, 2, 8, 8), ShadowOptions{Radius: 2, Opacity: 0})
	for _, v := range dst.Pix {
		if v != 0 {
			t.Fatalf("zero opacity should not draw")
		}
	}
}

func TestBoxBlurSpreads(t *testing.T) {
	src := image.NewAlpha(image.Rect(0, 0, 5, 1))
	src.SetAlpha(2, 0, color.Alpha{A: 255})
	out := boxBlur(src, 1)
	if out.AlphaAt(1, 0).A == 0 || out.AlphaAt(3, 0).A == 0 {
		t.Fatalf("blur should reach neighbours: %v", out.Pix)
	}
	if out.AlphaAt(0, 0).A != 0 {
		t.Fatalf("blur spread beyond radius: %v", out.Pix)
	}
}
