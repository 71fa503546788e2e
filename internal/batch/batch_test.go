package batch

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/twibbon/internal/compose"
)

type memSource struct {
	name string
	img  image.Image
	err  error
}

func (m memSource) Name() string { return m.name }

func (m memSource) Open(context.Context) (image.Image, error) { return m.img, m.err }

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestRunWritesEachPhoto(t *testing.T) {
	dir := t.TempDir()
	red := color.RGBA{R: 255, A: 255}
	sources := []compose.Source{
		memSource{name: "a.jpg", img: solid(40, 20, red)},
		memSource{name: "broken.png", err: errors.New("bad bytes")},
		memSource{name: "c.png", img: solid(10, 30, red)},
	}
	var progress bytes.Buffer
	results := Run(context.Background(), Config{
		OutputDir:  dir,
		Background: compose.Navy,
		Size:       64,
		Workers:    2,
		Progress:   &progress,
	}, sources)

	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	if !results[0].OK() || !results[2].OK() {
		t.Fatalf("unexpected failures: %+v", results)
	}
	if results[1].OK() || !strings.Contains(results[1].Err.Error(), "bad bytes") {
		t.Fatalf("broken item: %+v", results[1])
	}
	for _, i := range []int{0, 2} {
		r := results[i]
		if filepath.Dir(r.Output) != dir {
			t.Fatalf("output %q outside %q", r.Output, dir)
		}
		f, err := os.Open(r.Output)
		if err != nil {
			t.Fatalf("open %s: %v", r.Output, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", r.Output, err)
		}
		if img.Bounds().Size() != image.Pt(64, 64) {
			t.Fatalf("size %v", img.Bounds())
		}
		// Corners show the navy background around the fitted photo.
		if got := color.RGBAModel.Convert(img.At(0, 63)).(color.RGBA); got != compose.Navy.Color {
			t.Fatalf("corner %v, want navy", got)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "broken-twibbon.png")); !os.IsNotExist(err) {
		t.Fatalf("failed item left a file: %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := Run(ctx, Config{OutputDir: t.TempDir(), Size: 16, Workers: 1}, []compose.Source{
		memSource{name: "a.png", img: solid(4, 4, color.RGBA{A: 255})},
	})
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", results[0].Err)
	}
}

func TestOutputNames(t *testing.T) {
	got := OutputNames([]compose.Source{
		memSource{name: "me.jpg"},
		memSource{name: "other/me.png"},
		memSource{name: "sample:portrait"},
		memSource{name: ""},
	})
	want := []string{"me-twibbon.png", "me-2-twibbon.png", "sample-portrait-twibbon.png", "photo-twibbon.png"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("name %d = %q, want %q", i, got[i], want[i])
		}
	}
}
