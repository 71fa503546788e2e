package compose

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/example/twibbon/internal/render"
)

func newCanvasEngine(t *testing.T, size int, opts ...Option) (*Engine, *render.Canvas) {
	t.Helper()
	c := render.NewCanvas(size, size)
	e, err := New(c, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, c
}

func TestRenderPixelsRepeatable(t *testing.T) {
	e, _ := newCanvasEngine(t, 300, WithOverlay(solid(30, 30, color.RGBA{0, 0, 255, 128})))
	if err := e.Load(context.Background(), &imageSource{name: "p", img: solid(120, 80, color.RGBA{200, 40, 10, 255})}); err != nil {
		t.Fatal(err)
	}
	if err := e.SetState(TransformState{X: 141.3, Y: 97.6, Scale: 1.37, Rotation: 23}); err != nil {
		t.Fatal(err)
	}
	e.Render()
	first := e.Snapshot().Pix
	e.Render()
	if !bytes.Equal(first, e.Snapshot().Pix) {
		t.Fatalf("two renders of the same state differ")
	}
}

func TestFailedLoadKeepsPixels(t *testing.T) {
	e, _ := newCanvasEngine(t, 200)
	ctx := context.Background()
	if err := e.Load(ctx, &imageSource{name: "ok", img: solid(90, 60, color.RGBA{10, 200, 10, 255})}); err != nil {
		t.Fatal(err)
	}
	if err := e.SetRotation(17); err != nil {
		t.Fatal(err)
	}
	e.Render()
	before := e.Snapshot().Pix

	sentinel := errors.New("truncated")
	if err := e.Load(ctx, &imageSource{name: "bad.jpg", err: sentinel}); !errors.Is(err, sentinel) {
		t.Fatalf("expected load error, got %v", err)
	}
	e.Render()
	if !bytes.Equal(before, e.Snapshot().Pix) {
		t.Fatalf("failed load changed the rendered frame")
	}
}

func TestPanThereAndBack(t *testing.T) {
	e, _ := newCanvasEngine(t, 200)
	if err := e.Load(context.Background(), &imageSource{name: "p", img: solid(50, 50, color.RGBA{255, 0, 0, 255})}); err != nil {
		t.Fatal(err)
	}
	start := e.State()
	e.Render()
	before := e.Snapshot().Pix

	e.Pan(12.5, -3.75)
	e.Pan(-12.5, 3.75)
	if e.State() != start {
		t.Fatalf("state %+v, want %+v", e.State(), start)
	}
	if !bytes.Equal(before, e.Snapshot().Pix) {
		t.Fatalf("pan there and back changed pixels")
	}

	e.Pan(0.3, -7.1)
	e.Pan(-0.3, 7.1)
	st := e.State()
	if !approx(st.X, start.X) || !approx(st.Y, start.Y) || st.Scale != start.Scale || st.Rotation != start.Rotation {
		t.Fatalf("state %+v drifted from %+v", st, start)
	}
}

func TestRenderCentresFittedPhoto(t *testing.T) {
	e, c := newCanvasEngine(t, 1200)
	if err := e.Load(context.Background(), &imageSource{name: "wide", img: solid(2000, 1000, color.RGBA{255, 0, 0, 255})}); err != nil {
		t.Fatal(err)
	}
	img := c.RGBA()
	// 2000x1000 at 0.54 covers 1080x540 around (600, 432).
	inside := []image.Point{{600, 432}, {65, 432}, {1134, 432}, {600, 167}, {600, 697}}
	for _, p := range inside {
		if got := img.RGBAAt(p.X, p.Y); got.R < 250 || got.G > 5 || got.B > 5 || got.A != 255 {
			t.Errorf("pixel %v = %v, want photo", p, got)
		}
	}
	outside := []image.Point{{55, 432}, {1145, 432}, {600, 157}, {600, 707}}
	for _, p := range outside {
		if got := img.RGBAAt(p.X, p.Y); got != White.Color {
			t.Errorf("pixel %v = %v, want background", p, got)
		}
	}
}

func TestEnginesRenderConcurrently(t *testing.T) {
	ref, _ := newCanvasEngine(t, 300)
	want := ref.Snapshot().Pix

	var wg sync.WaitGroup
	mismatch := make(chan int, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for n := 0; n < 5; n++ {
				e, err := New(render.NewCanvas(300, 300))
				if err != nil || !bytes.Equal(e.Snapshot().Pix, want) {
					mismatch <- id
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(mismatch)
	for id := range mismatch {
		t.Errorf("engine built by worker %d rendered a different placeholder", id)
	}
}

func TestExportTranslucentBackground(t *testing.T) {
	bg, err := ParseBackground("#80808080")
	if err != nil {
		t.Fatal(err)
	}
	e, _ := newCanvasEngine(t, 40, WithBackground(bg))
	if err := e.Load(context.Background(), &imageSource{name: "dot", img: solid(4, 4, color.RGBA{A: 255})}); err != nil {
		t.Fatal(err)
	}
	data, err := e.ExportPNG()
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	got := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA)
	for _, v := range []uint8{got.R, got.G, got.B} {
		if v < 0x7e || v > 0x81 {
			t.Fatalf("corner %v, want half transparent grey", got)
		}
	}
	if got.A != 0x80 {
		t.Fatalf("corner alpha %#x, want 0x80", got.A)
	}
}
