package compose

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

var (
	// ErrSuperseded reports that a newer load started before this one
	// finished. The decoded photo was discarded and the state is unchanged.
	ErrSuperseded = errors.New("compose: load superseded by a newer request")
	ErrEmptyPhoto = errors.New("compose: photo has no pixels")
)

// Source produces a decoded photo. Open may block; it should return promptly
// once ctx is cancelled.
type Source interface {
	Open(ctx context.Context) (image.Image, error)
	Name() string
}

// Load decodes src and, on success, replaces the current photo. The scale is
// recomputed so the larger photo side covers 90% of the canvas. The position
// is only reset on the first successful load.
//
// When several loads overlap only the most recently started one is applied;
// earlier ones return ErrSuperseded. A failed load leaves everything as it was.
func (e *Engine) Load(ctx context.Context, src Source) error {
	return e.load(ctx, src, e.nextToken())
}

// LoadAsync starts a load on a new goroutine. The load counts as started when
// LoadAsync is called. The returned channel receives exactly one value and is
// then closed.
func (e *Engine) LoadAsync(ctx context.Context, src Source) <-chan error {
	token := e.nextToken()
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- e.load(ctx, src, token)
	}()
	return done
}

func (e *Engine) nextToken() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq++
	return e.seq
}

func (e *Engine) load(ctx context.Context, src Source, token uint64) error {
	img, err := src.Open(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", src.Name(), err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("load %s: %w", src.Name(), err)
	}
	photo := normalize(img)
	if photo.Bounds().Empty() {
		return fmt.Errorf("load %s: %w", src.Name(), ErrEmptyPhoto)
	}

	e.mu.Lock()
	if token != e.seq {
		e.mu.Unlock()
		return ErrSuperseded
	}
	e.photo = photo
	if !e.loaded {
		def := e.defaultState()
		e.state.X = def.X
		e.state.Y = def.Y
		e.loaded = true
	}
	e.state.Scale = fitScale(e.surface.Bounds().Size(), photo.Bounds().Size())
	e.renderLocked()
	st := e.state
	listener := e.listener
	e.mu.Unlock()

	if listener != nil {
		listener(st)
	}
	return nil
}

func fitScale(canvas, photo image.Point) float64 {
	longest := math.Max(float64(photo.X), float64(photo.Y))
	side := math.Min(float64(canvas.X), float64(canvas.Y))
	return fitRatio * side / longest
}

// normalize returns img as an RGBA with a zero origin, copying only when needed.
func normalize(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}
