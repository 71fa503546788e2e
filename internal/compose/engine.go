// Package compose implements the twibbon composition engine: a photo placed
// under a translate, rotate and scale transform with a fixed overlay drawn on
// top, rendered into a square drawing surface and exported as PNG.
package compose

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"sync"

	"golang.org/x/image/math/f64"
)

const (
	// DefaultCanvasSize is the internal resolution of the square canvas.
	DefaultCanvasSize = 1200
	// DefaultPrompt is drawn on the placeholder until a photo is loaded.
	DefaultPrompt = "Upload your photo"

	// fitRatio is the share of the canvas the larger photo side covers after a load.
	fitRatio = 0.9
	// verticalBias places the default centre above the middle, where the frame hole sits.
	verticalBias = 0.36
)

var (
	ErrNoSurface       = errors.New("compose: no drawing surface")
	ErrInvalidScale    = errors.New("compose: scale must be a finite number greater than zero")
	ErrInvalidRotation = errors.New("compose: rotation must be a finite number")
	ErrInvalidPosition = errors.New("compose: position must be finite")
)

var (
	placeholderFill  = color.RGBA{0xf8, 0xfa, 0xfc, 0xff}
	placeholderPanel = color.RGBA{0xe6, 0xee, 0xf7, 0xff}
	placeholderText  = color.RGBA{0xcf, 0xe7, 0xff, 0xff}
)

// TransformState positions the photo on the canvas. X and Y are the photo
// centre in canvas units, Scale is uniform and Rotation is in degrees.
type TransformState struct {
	X        float64
	Y        float64
	Scale    float64
	Rotation float64
}

func (ts TransformState) validate() error {
	if math.IsNaN(ts.X) || math.IsInf(ts.X, 0) || math.IsNaN(ts.Y) || math.IsInf(ts.Y, 0) {
		return ErrInvalidPosition
	}
	if !validScale(ts.Scale) {
		return ErrInvalidScale
	}
	if math.IsNaN(ts.Rotation) || math.IsInf(ts.Rotation, 0) {
		return ErrInvalidRotation
	}
	return nil
}

func validScale(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Engine owns the transform state, the current photo and the overlay. All
// methods are safe for concurrent use; mutations render before returning.
type Engine struct {
	mu         sync.Mutex
	surface    Surface
	overlay    image.Image
	background Background
	prompt     string
	listener   func(TransformState)

	state  TransformState
	photo  *image.RGBA
	loaded bool
	seq    uint64
}

// Option configures an Engine during construction.
type Option func(*Engine)

// WithOverlay sets the frame drawn on top of everything else. It is
// stretched to cover the whole canvas.
func WithOverlay(img image.Image) Option { return func(e *Engine) { e.overlay = img } }

// WithBackground sets the initial background.
func WithBackground(bg Background) Option { return func(e *Engine) { e.background = bg } }

// WithPrompt replaces the placeholder prompt text.
func WithPrompt(s string) Option { return func(e *Engine) { e.prompt = s } }

// WithRenderListener registers fn to be called with the new state after every
// render caused by a mutation. fn runs without the engine lock held.
func WithRenderListener(fn func(TransformState)) Option {
	return func(e *Engine) { e.listener = fn }
}

// New creates an engine drawing into s and renders the initial frame.
func New(s Surface, opts ...Option) (*Engine, error) {
	if s == nil {
		return nil, ErrNoSurface
	}
	b := s.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty bounds %v", ErrNoSurface, b)
	}
	e := &Engine{
		surface:    s,
		background: White,
		prompt:     DefaultPrompt,
	}
	for _, o := range opts {
		o(e)
	}
	e.state = e.defaultState()
	e.renderLocked()
	return e, nil
}

func (e *Engine) defaultState() TransformState {
	b := e.surface.Bounds()
	return TransformState{
		X:     float64(b.Dx()) / 2,
		Y:     float64(b.Dy()) * verticalBias,
		Scale: 1,
	}
}

// CanvasSize returns the internal resolution of the canvas.
func (e *Engine) CanvasSize() image.Point {
	return e.surface.Bounds().Size()
}

// State returns the current transform.
func (e *Engine) State() TransformState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// SetState replaces the whole transform after validating every field.
func (e *Engine) SetState(ts TransformState) error {
	if err := ts.validate(); err != nil {
		return err
	}
	e.update(func() { e.state = ts })
	return nil
}

// SetScale sets the uniform photo scale. Bounds for interactive use are left
// to the caller.
func (e *Engine) SetScale(v float64) error {
	if !validScale(v) {
		return ErrInvalidScale
	}
	e.update(func() { e.state.Scale = v })
	return nil
}

// ScaleBy multiplies the current scale by factor.
func (e *Engine) ScaleBy(factor float64) error {
	if !validScale(factor) {
		return ErrInvalidScale
	}
	var err error
	e.update(func() {
		next := e.state.Scale * factor
		if !validScale(next) {
			err = ErrInvalidScale
			return
		}
		e.state.Scale = next
	})
	return err
}

// SetRotation sets the photo rotation in degrees. Any finite value is
// accepted.
func (e *Engine) SetRotation(deg float64) error {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return ErrInvalidRotation
	}
	e.update(func() { e.state.Rotation = deg })
	return nil
}

// RotateBy adds deg to the current rotation.
func (e *Engine) RotateBy(deg float64) error {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return ErrInvalidRotation
	}
	e.update(func() { e.state.Rotation += deg })
	return nil
}

// Pan moves the photo centre by (dx, dy) canvas units.
func (e *Engine) Pan(dx, dy float64) {
	if math.IsNaN(dx) || math.IsNaN(dy) || math.IsInf(dx, 0) || math.IsInf(dy, 0) {
		return
	}
	e.update(func() {
		e.state.X += dx
		e.state.Y += dy
	})
}

// Reset restores the default transform.
func (e *Engine) Reset() {
	e.update(func() { e.state = e.defaultState() })
}

// Background returns the current background.
func (e *Engine) Background() Background {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.background
}

// SetBackground changes the fill painted under the photo.
func (e *Engine) SetBackground(bg Background) {
	e.update(func() { e.background = bg })
}

// HasPhoto reports whether a photo has been loaded.
func (e *Engine) HasPhoto() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.photo != nil
}

// PhotoSize returns the pixel size of the loaded photo, or the zero point.
func (e *Engine) PhotoSize() image.Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.photo == nil {
		return image.Point{}
	}
	return e.photo.Bounds().Size()
}

// Render redraws the canvas from the current state.
func (e *Engine) Render() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderLocked()
}

// Snapshot returns a copy of the most recently rendered frame.
func (e *Engine) Snapshot() *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.surface.Snapshot()
}

// Export renders a fresh frame and writes it to w as PNG.
func (e *Engine) Export(w io.Writer) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderLocked()
	if err := e.surface.EncodePNG(w); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// ExportPNG is Export into a byte slice.
func (e *Engine) ExportPNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Export(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// update applies fn under the lock, renders and then notifies the listener.
func (e *Engine) update(fn func()) {
	e.mu.Lock()
	fn()
	e.renderLocked()
	st := e.state
	listener := e.listener
	e.mu.Unlock()
	if listener != nil {
		listener(st)
	}
}

func (e *Engine) renderLocked() {
	s := e.surface
	b := s.Bounds()
	s.Clear()
	if !e.background.Transparent() {
		s.FillRect(b, e.background.Color)
	}
	if e.photo != nil {
		s.DrawImage(e.photo, photoMatrix(e.state, e.photo.Bounds().Size()))
	} else {
		e.drawPlaceholder(b)
	}
	if e.overlay != nil && !e.overlay.Bounds().Empty() {
		s.DrawImage(e.overlay, stretchMatrix(e.overlay.Bounds(), b))
	}
}

func (e *Engine) drawPlaceholder(b image.Rectangle) {
	w := float64(b.Dx())
	h := float64(b.Dy())
	s := e.surface
	s.FillRect(b, placeholderFill)
	panel := image.Rect(
		b.Min.X+int(math.Round(w*0.06)),
		b.Min.Y+int(math.Round(h*0.12)),
		b.Min.X+int(math.Round(w*0.94)),
		b.Min.Y+int(math.Round(h*0.72)),
	)
	s.FillRect(panel, placeholderPanel)
	if e.prompt != "" {
		size := 30 * w / DefaultCanvasSize
		s.DrawText(e.prompt, float64(b.Min.X)+w/2, float64(b.Min.Y)+h*0.45, size, placeholderText)
	}
}

// photoMatrix maps photo pixels to canvas units: the photo is centred on the
// origin, scaled, rotated and then translated to (X, Y).
func photoMatrix(ts TransformState, size image.Point) f64.Aff3 {
	theta := ts.Rotation * math.Pi / 180
	sin, cos := math.Sincos(theta)
	s := ts.Scale
	hw := float64(size.X) / 2
	hh := float64(size.Y) / 2
	return f64.Aff3{
		s * cos, -s * sin, ts.X + s*(-cos*hw+sin*hh),
		s * sin, s * cos, ts.Y + s*(-sin*hw-cos*hh),
	}
}

func stretchMatrix(src, dst image.Rectangle) f64.Aff3 {
	sx := float64(dst.Dx()) / float64(src.Dx())
	sy := float64(dst.Dy()) / float64(src.Dy())
	return f64.Aff3{
		sx, 0, float64(dst.Min.X) - sx*float64(src.Min.X),
		0, sy, float64(dst.Min.Y) - sy*float64(src.Min.Y),
	}
}
