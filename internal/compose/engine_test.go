package compose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strings"
	"sync"
	"testing"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/spatial/r2"
)

// fakeSurface records the draw calls it receives and keeps real pixels so
// exports can be inspected.
type fakeSurface struct {
	mu  sync.Mutex
	img *image.RGBA
	ops []string
}

func newFakeSurface(size int) *fakeSurface {
	return &fakeSurface{img: image.NewRGBA(image.Rect(0, 0, size, size))}
}

func (f *fakeSurface) Bounds() image.Rectangle { return f.img.Bounds() }

func (f *fakeSurface) Clear() {
	f.record("clear")
	xdraw.Draw(f.img, f.img.Bounds(), image.Transparent, image.Point{}, xdraw.Src)
}

func (f *fakeSurface) FillRect(r image.Rectangle, c color.Color) {
	f.record(fmt.Sprintf("fill %v", r))
	xdraw.Draw(f.img, r, image.NewUniform(c), image.Point{}, xdraw.Over)
}

func (f *fakeSurface) DrawImage(img image.Image, m f64.Aff3) {
	f.record(fmt.Sprintf("image %v", img.Bounds().Size()))
	xdraw.BiLinear.Transform(f.img, m, img, img.Bounds(), xdraw.Over, nil)
}

func (f *fakeSurface) DrawText(s string, x, y, size float64, c color.Color) {
	f.record(fmt.Sprintf("text %q", s))
}

func (f *fakeSurface) Snapshot() *image.RGBA {
	out := image.NewRGBA(f.img.Bounds())
	copy(out.Pix, f.img.Pix)
	return out
}

func (f *fakeSurface) EncodePNG(w io.Writer) error { return png.Encode(w, f.img) }

func (f *fakeSurface) record(op string) {
	f.mu.Lock()
	f.ops = append(f.ops, op)
	f.mu.Unlock()
}

func (f *fakeSurface) reset() {
	f.mu.Lock()
	f.ops = nil
	f.mu.Unlock()
}

func (f *fakeSurface) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

type imageSource struct {
	name string
	img  image.Image
	err  error
	wait chan struct{}
}

func (s *imageSource) Name() string { return s.name }

func (s *imageSource) Open(ctx context.Context) (image.Image, error) {
	if s.wait != nil {
		select {
		case <-s.wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.img, s.err
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, xdraw.Src)
	return img
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestNewRequiresSurface(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNoSurface) {
		t.Fatalf("expected ErrNoSurface, got %v", err)
	}
}

func TestDefaultState(t *testing.T) {
	e, err := New(newFakeSurface(1200))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := TransformState{X: 600, Y: 432, Scale: 1}
	if got := e.State(); got != want {
		t.Fatalf("default state %+v, want %+v", got, want)
	}
}

func TestLoadFitsAndCentres(t *testing.T) {
	e, _ := New(newFakeSurface(1200))
	e.Pan(100, 100)
	src := &imageSource{name: "wide", img: solid(2000, 1000, color.RGBA{255, 0, 0, 255})}
	if err := e.Load(context.Background(), src); err != nil {
		t.Fatalf("Load: %v", err)
	}
	st := e.State()
	if !approx(st.Scale, 0.54) {
		t.Fatalf("scale %v, want 0.54", st.Scale)
	}
	if st.X != 600 || st.Y != 432 {
		t.Fatalf("first load should centre, got (%v,%v)", st.X, st.Y)
	}
	if got := e.PhotoSize(); got != image.Pt(2000, 1000) {
		t.Fatalf("photo size %v", got)
	}
}

func TestLoadKeepsPositionAfterFirst(t *testing.T) {
	e, _ := New(newFakeSurface(1200))
	ctx := context.Background()
	if err := e.Load(ctx, &imageSource{name: "a", img: solid(100, 100, color.RGBA{A: 255})}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	e.Pan(10, -5)
	if err := e.Load(ctx, &imageSource{name: "b", img: solid(600, 300, color.RGBA{A: 255})}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	st := e.State()
	if st.X != 610 || st.Y != 427 {
		t.Fatalf("position changed on second load: (%v,%v)", st.X, st.Y)
	}
	if !approx(st.Scale, 1.8) {
		t.Fatalf("scale %v, want 1.8", st.Scale)
	}
}

func TestLoadFailureLeavesStateUntouched(t *testing.T) {
	surface := newFakeSurface(1200)
	e, _ := New(surface)
	if err := e.SetRotation(12); err != nil {
		t.Fatal(err)
	}
	before := e.State()
	surface.reset()

	sentinel := errors.New("corrupt")
	err := e.Load(context.Background(), &imageSource{name: "broken.png", err: sentinel})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped decode error, got %v", err)
	}
	if !strings.Contains(err.Error(), "broken.png") {
		t.Fatalf("error should name the source: %v", err)
	}
	if e.State() != before {
		t.Fatalf("state changed after failed load")
	}
	if e.HasPhoto() {
		t.Fatalf("failed load installed a photo")
	}
	if ops := surface.calls(); len(ops) != 0 {
		t.Fatalf("failed load rendered: %v", ops)
	}
}

func TestLoadLatestWins(t *testing.T) {
	e, _ := New(newFakeSurface(1200))
	ctx := context.Background()
	slow := &imageSource{name: "slow", img: solid(300, 300, color.RGBA{A: 255}), wait: make(chan struct{})}
	first := e.LoadAsync(ctx, slow)

	fast := &imageSource{name: "fast", img: solid(400, 200, color.RGBA{A: 255})}
	if err := e.Load(ctx, fast); err != nil {
		t.Fatalf("Load fast: %v", err)
	}
	close(slow.wait)
	if err := <-first; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	if got := e.PhotoSize(); got != image.Pt(400, 200) {
		t.Fatalf("stale load replaced photo: %v", got)
	}
}

func TestLoadAsyncDeliversOnce(t *testing.T) {
	e, _ := New(newFakeSurface(100))
	ch := e.LoadAsync(context.Background(), &imageSource{name: "x", img: solid(10, 10, color.RGBA{A: 255})})
	if err := <-ch; err != nil {
		t.Fatalf("LoadAsync: %v", err)
	}
	if _, ok := <-ch; ok {
		t.Fatalf("channel should be closed after the result")
	}
}

func TestLoadCancelled(t *testing.T) {
	e, _ := New(newFakeSurface(100))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &imageSource{name: "never", img: solid(10, 10, color.RGBA{A: 255}), wait: make(chan struct{})}
	if err := e.Load(ctx, src); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if e.HasPhoto() {
		t.Fatalf("cancelled load installed a photo")
	}
}

func TestSetScaleRejectsInvalid(t *testing.T) {
	e, _ := New(newFakeSurface(100))
	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := e.SetScale(v); !errors.Is(err, ErrInvalidScale) {
			t.Fatalf("SetScale(%v) = %v, want ErrInvalidScale", v, err)
		}
	}
	if err := e.SetScale(3.5); err != nil {
		t.Fatalf("SetScale(3.5): %v", err)
	}
	if got := e.State().Scale; got != 3.5 {
		t.Fatalf("scale %v", got)
	}
}

func TestSetRotationUnbounded(t *testing.T) {
	e, _ := New(newFakeSurface(100))
	if err := e.SetRotation(725); err != nil {
		t.Fatalf("SetRotation: %v", err)
	}
	if err := e.SetRotation(math.NaN()); !errors.Is(err, ErrInvalidRotation) {
		t.Fatalf("expected ErrInvalidRotation, got %v", err)
	}
	if got := e.State().Rotation; got != 725 {
		t.Fatalf("rotation %v", got)
	}
}

func TestNudgeAndReset(t *testing.T) {
	e, _ := New(newFakeSurface(1200))
	for i := 0; i < 5; i++ {
		e.Nudge(Left)
	}
	e.Nudge(Down)
	st := e.State()
	if st.X != 560 || st.Y != 440 {
		t.Fatalf("after nudges got (%v,%v)", st.X, st.Y)
	}
	_ = e.SetScale(2)
	_ = e.SetRotation(30)
	e.Reset()
	if got, want := e.State(), (TransformState{X: 600, Y: 432, Scale: 1}); got != want {
		t.Fatalf("reset state %+v, want %+v", got, want)
	}
}

func TestRenderPlaceholderOrder(t *testing.T) {
	surface := newFakeSurface(1200)
	e, _ := New(surface, WithBackground(Transparent), WithOverlay(image.NewRGBA(image.Rect(0, 0, 600, 600))))
	surface.reset()
	e.Render()
	want := []string{
		"clear",
		"fill (0,0)-(1200,1200)",
		"fill (72,144)-(1128,864)",
		`text "Upload your photo"`,
		"image (600,600)",
	}
	got := surface.calls()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("ops %v, want %v", got, want)
	}
}

func TestRenderPhotoThenOverlay(t *testing.T) {
	surface := newFakeSurface(1200)
	e, _ := New(surface, WithOverlay(image.NewRGBA(image.Rect(0, 0, 1200, 1200))))
	if err := e.Load(context.Background(), &imageSource{name: "p", img: solid(50, 40, color.RGBA{A: 255})}); err != nil {
		t.Fatal(err)
	}
	surface.reset()
	e.Render()
	want := "clear|fill (0,0)-(1200,1200)|image (50,40)|image (1200,1200)"
	if got := strings.Join(surface.calls(), "|"); got != want {
		t.Fatalf("ops %s, want %s", got, want)
	}
}

func TestRenderDoesNotMutateState(t *testing.T) {
	e, _ := New(newFakeSurface(200))
	_ = e.SetScale(1.3)
	before := e.State()
	e.Render()
	e.Render()
	if e.State() != before {
		t.Fatalf("render changed state")
	}
}

func TestExportTransparentKeepsAlpha(t *testing.T) {
	e, _ := New(newFakeSurface(100), WithBackground(Transparent))
	if err := e.Load(context.Background(), &imageSource{name: "dot", img: solid(20, 20, color.RGBA{R: 255, A: 255})}); err != nil {
		t.Fatal(err)
	}
	// 20px at the fitted scale of 4.5 is wider than the canvas; shrink it.
	if err := e.SetState(TransformState{X: 50, Y: 50, Scale: 1}); err != nil {
		t.Fatal(err)
	}
	data, err := e.ExportPNG()
	if err != nil {
		t.Fatalf("ExportPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Fatalf("export bounds %v", img.Bounds())
	}
	if _, _, _, a := img.At(2, 2).RGBA(); a != 0 {
		t.Fatalf("corner should stay transparent, alpha=%d", a)
	}
	if r, _, _, a := img.At(50, 50).RGBA(); a != 0xffff || r != 0xffff {
		t.Fatalf("centre should be opaque red, got r=%d a=%d", r, a)
	}
}

func TestExportOpaqueBackground(t *testing.T) {
	e, _ := New(newFakeSurface(64), WithBackground(Navy))
	if err := e.Load(context.Background(), &imageSource{name: "dot", img: solid(4, 4, color.RGBA{G: 255, A: 255})}); err != nil {
		t.Fatal(err)
	}
	if err := e.SetScale(1); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := e.Export(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, a := img.At(0, 0).RGBA()
	if a != 0xffff || r>>8 != 0x0f || g>>8 != 0x17 || b>>8 != 0x2a {
		t.Fatalf("corner should be navy, got %d %d %d %d", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestPhotoMatrix(t *testing.T) {
	m := photoMatrix(TransformState{Scale: 1, Rotation: 90}, image.Pt(100, 50))
	apply := func(x, y float64) (float64, float64) {
		return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
	}
	if x, y := apply(50, 25); !approx(x, 0) || !approx(y, 0) {
		t.Fatalf("photo centre maps to (%v,%v), want origin", x, y)
	}
	if x, y := apply(0, 0); !approx(x, 25) || !approx(y, -50) {
		t.Fatalf("top-left maps to (%v,%v), want (25,-50)", x, y)
	}

	m = photoMatrix(TransformState{X: 600, Y: 432, Scale: 2}, image.Pt(10, 10))
	if x, y := apply(0, 0); !approx(x, 590) || !approx(y, 422) {
		t.Fatalf("scaled top-left maps to (%v,%v), want (590,422)", x, y)
	}
}

func TestPhotoContainsRotated(t *testing.T) {
	e, _ := New(newFakeSurface(400))
	if e.PhotoContains(r2.Vec{X: 200, Y: 144}) {
		t.Fatalf("no photo loaded, hit test should fail")
	}
	if err := e.Load(context.Background(), &imageSource{name: "sq", img: solid(100, 100, color.RGBA{A: 255})}); err != nil {
		t.Fatal(err)
	}
	if err := e.SetState(TransformState{X: 0, Y: 0, Scale: 1, Rotation: 45}); err != nil {
		t.Fatal(err)
	}
	if !e.PhotoContains(r2.Vec{X: 60, Y: 0}) {
		t.Fatalf("(60,0) should be inside the rotated square")
	}
	if e.PhotoContains(r2.Vec{X: 45, Y: 45}) {
		t.Fatalf("(45,45) should be outside the rotated square")
	}
	corners, ok := e.PhotoCorners()
	if !ok {
		t.Fatalf("expected corners")
	}
	if !approx(corners[0].X, 0) || !approx(corners[0].Y, -50*math.Sqrt2) {
		t.Fatalf("top-left corner %+v", corners[0])
	}
}

func TestCanvasDelta(t *testing.T) {
	e, _ := New(newFakeSurface(1200))
	dx, dy := e.CanvasDelta(10, -4, image.Pt(600, 600))
	if dx != 20 || dy != -8 {
		t.Fatalf("delta (%v,%v), want (20,-8)", dx, dy)
	}
	e.PanDisplay(10, -4, image.Pt(600, 600))
	if st := e.State(); st.X != 620 || st.Y != 424 {
		t.Fatalf("pan display moved to (%v,%v)", st.X, st.Y)
	}
	p := e.CanvasPoint(image.Pt(150, 50), image.Rect(100, 0, 400, 300))
	if p.X != 200 || p.Y != 200 {
		t.Fatalf("canvas point %+v, want (200,200)", p)
	}
}

func TestRenderListener(t *testing.T) {
	var got []TransformState
	e, _ := New(newFakeSurface(100), WithRenderListener(func(ts TransformState) { got = append(got, ts) }))
	e.Pan(1, 2)
	_ = e.SetScale(2)
	if len(got) != 2 {
		t.Fatalf("listener called %d times, want 2", len(got))
	}
	if got[1].Scale != 2 || got[1].X != 51 {
		t.Fatalf("listener saw %+v", got[1])
	}
}
