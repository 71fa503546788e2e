package appstate

import (
	"context"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/example/twibbon/internal/compose"
	"github.com/example/twibbon/internal/render"
	"github.com/example/twibbon/internal/theme"
)

type solidSource struct{ w, h int }

func (s solidSource) Name() string { return "solid" }

func (s solidSource) Open(context.Context) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, s.w, s.h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i-3] = 255
		img.Pix[i] = 255
	}
	return img, nil
}

func newTestEngine(t *testing.T, bg compose.Background) *compose.Engine {
	t.Helper()
	e, err := compose.New(render.NewCanvas(120, 120), compose.WithBackground(bg))
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func paintFor(e *compose.Engine, l layout) *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: l.size})
	paintEditor(context.Background(), dst, paintState{
		layout:      l,
		frame:       e.Snapshot(),
		transparent: e.Background().Transparent(),
		state:       e.State(),
		hoverButton: -1,
		pressButton: -1,
		theme:       theme.Default(),
		shadow:      &render.Shadow{},
	})
	return dst
}

func TestPaintTransparentShowsCheckerboard(t *testing.T) {
	e := newTestEngine(t, compose.Transparent)
	// Clear the placeholder by loading a small photo so corners stay empty.
	if err := e.Load(context.Background(), solidSource{10, 10}); err != nil {
		t.Fatal(err)
	}
	l := computeLayout(600, 600, buttonWidths())
	dst := paintFor(e, l)
	th := theme.Default()
	corner := dst.RGBAAt(l.preview.Min.X+1, l.preview.Min.Y+1)
	if corner != th.CheckerLight && corner != th.CheckerDark {
		t.Fatalf("transparent corner %v, want checker", corner)
	}
	// Outside the preview is the backdrop.
	if got := dst.RGBAAt(2, l.toolbar.Max.Y+2); got != th.Backdrop {
		t.Fatalf("backdrop %v", got)
	}
}

func TestPaintOpaqueBackground(t *testing.T) {
	e := newTestEngine(t, compose.Navy)
	if err := e.Load(context.Background(), solidSource{10, 10}); err != nil {
		t.Fatal(err)
	}
	l := computeLayout(600, 600, buttonWidths())
	dst := paintFor(e, l)
	got := dst.RGBAAt(l.preview.Min.X+2, l.preview.Max.Y-3)
	if !near(got, compose.Navy.Color) {
		t.Fatalf("preview corner %v, want navy", got)
	}
	c := l.preview.Min.Add(l.preview.Max).Div(2)
	if r := dst.RGBAAt(c.X, l.toDisplay(e.CanvasSize(), 60, e.State().Y).Y); r.R < 200 {
		t.Fatalf("photo not visible at preview centre: %v", r)
	}
}

func TestDashedPolygonAlternates(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	drawDashedPolygon(dst, []image.Point{{5, 5}, {30, 5}, {30, 30}, {5, 30}}, 4, red, blue)
	if dst.RGBAAt(5, 5) != red || dst.RGBAAt(9, 5) != blue {
		t.Fatalf("dash pattern: %v %v", dst.RGBAAt(5, 5), dst.RGBAAt(9, 5))
	}
	if dst.RGBAAt(30, 20).A == 0 {
		t.Fatal("right edge not drawn")
	}
	if dst.RGBAAt(17, 17).A != 0 {
		t.Fatal("outline filled the interior")
	}
}

func TestOutputPath(t *testing.T) {
	a := New(nil)
	if a.OutputPath() != "twibbon.png" {
		t.Fatalf("default output %q", a.OutputPath())
	}
	a = New(nil, WithOutput("me.png"), WithSaveDir("/tmp/out"))
	if got := a.OutputPath(); got != filepath.Join("/tmp/out", "me.png") {
		t.Fatalf("output %q", got)
	}
	a = New(nil, WithOutput("/abs/me.png"), WithSaveDir("/tmp/out"))
	if got := a.OutputPath(); got != "/abs/me.png" {
		t.Fatalf("absolute output moved: %q", got)
	}
}

func TestSaveWritesPNG(t *testing.T) {
	e := newTestEngine(t, compose.White)
	dir := t.TempDir()
	a := New(e, WithSaveDir(dir))
	path, err := a.save()
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if path != filepath.Join(dir, "twibbon.png") {
		t.Fatalf("path %q", path)
	}
}

func near(a, b color.RGBA) bool {
	d := func(x, y uint8) bool { return x-y <= 2 || y-x <= 2 }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}
