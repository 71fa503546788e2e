// Package appstate runs the interactive twibbon editor window.
package appstate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/twibbon/assets"
	"github.com/example/twibbon/internal/clipboard"
	"github.com/example/twibbon/internal/compose"
	"github.com/example/twibbon/internal/notify"
	"github.com/example/twibbon/internal/photo"
	"github.com/example/twibbon/internal/render"
	"github.com/example/twibbon/internal/theme"
)

const (
	// frameDropThreshold specifies how many consecutive frames can be
	// cancelled before a draw is allowed to complete.
	frameDropThreshold = 10
	zoomStep           = 1.1
	rotateStep         = 5
	tickInterval       = 33 * time.Millisecond
	defaultWindowSize  = 860
)

// AppState holds the editor configuration.
type AppState struct {
	Engine   *compose.Engine
	Theme    *theme.Theme
	Notifier *notify.Notifier
	// Output is the file written by Save. Relative paths are placed in
	// SaveDir when it is set.
	Output  string
	SaveDir string
	Sample  string
	Title   string

	initial compose.Source
	onClose func()
	once    sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithTheme sets the editor palette.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithNotifier sets the desktop notifier for load, save and copy.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithOutput sets the file path used when saving.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithSaveDir sets the directory relative outputs are written to.
func WithSaveDir(dir string) Option { return func(a *AppState) { a.SaveDir = dir } }

// WithSample sets the built-in sample the sample button loads.
func WithSample(name string) Option { return func(a *AppState) { a.Sample = name } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithSource loads src as soon as the window opens.
func WithSource(src compose.Source) Option { return func(a *AppState) { a.initial = src } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState editing e.
func New(e *compose.Engine, opts ...Option) *AppState {
	a := &AppState{
		Engine: e,
		Theme:  theme.Default(),
		Output: "twibbon.png",
		Sample: assets.DefaultSample,
		Title:  "Twibbon",
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// OutputPath resolves where Save writes.
func (a *AppState) OutputPath() string {
	out := a.Output
	if out == "" {
		out = "twibbon.png"
	}
	if a.SaveDir != "" && !filepath.IsAbs(out) {
		return filepath.Join(a.SaveDir, out)
	}
	return out
}

// loadedEvent reports the end of an asynchronous load to the event loop.
type loadedEvent struct {
	name string
	err  error
}

type tickEvent struct{}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main runs the editor on s until the window closes.
func (a *AppState) Main(s screen.Screen) {
	defer a.notifyClose()

	widths := buttonWidths()
	l := computeLayout(defaultWindowSize, defaultWindowSize, widths)
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: l.size.X, Height: l.size.Y, Title: a.Title})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer w.Release()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e := a.Engine
	shadow := &render.Shadow{}
	var msg toast
	var toastOn atomic.Bool

	// The ticker only wakes the loop while a toast is animating.
	go func() {
		t := time.NewTicker(tickInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if toastOn.Load() {
					w.Send(tickEvent{})
				}
			}
		}
	}()

	showToast := func(text string) {
		msg.show(text)
		toastOn.Store(true)
		log.Print(text)
	}

	load := func(src compose.Source) {
		ch := e.LoadAsync(ctx, src)
		go func() { w.Send(loadedEvent{name: src.Name(), err: <-ch}) }()
	}

	// Registered after w.Release so it runs first: the window outlives the
	// last frame.
	painter := startPainter(ctx, func(pctx context.Context, st paintState) {
		drawFrame(pctx, s, w, st)
	})
	defer painter.stop()

	actions := map[string]func(){
		actSample: func() { load(photo.Sample(a.Sample)) },
		actPaste:  func() { load(photo.Clipboard()) },
		actReset:  e.Reset,
		actBackground: func() {
			bg := compose.NextBackground(e.Background())
			e.SetBackground(bg)
			showToast("background: " + bg.String())
		},
		actSave: func() {
			path, err := a.save()
			if err != nil {
				showToast(fmt.Sprintf("save failed: %v", err))
				return
			}
			showToast("saved " + path)
			a.Notifier.Save(path)
		},
		actCopy: func() {
			if err := clipboard.WriteImage(e.Snapshot()); err != nil {
				showToast(fmt.Sprintf("copy failed: %v", err))
				return
			}
			showToast("twibbon copied to clipboard")
			a.Notifier.Copy("twibbon")
		},
		actZoomIn:    func() { logErr("zoom", e.ScaleBy(zoomStep)) },
		actZoomOut:   func() { logErr("zoom", e.ScaleBy(1/zoomStep)) },
		actRotateCCW: func() { logErr("rotate", e.RotateBy(-rotateStep)) },
		actRotateCW:  func() { logErr("rotate", e.RotateBy(rotateStep)) },
		actLeft:      func() { e.Nudge(compose.Left) },
		actRight:     func() { e.Nudge(compose.Right) },
		actUp:        func() { e.Nudge(compose.Up) },
		actDown:      func() { e.Nudge(compose.Down) },
	}

	if a.initial != nil {
		load(a.initial)
	}

	var (
		cursor      image.Point
		last        time.Time
		dragging    bool
		dragLast    image.Point
		dragSlider  *Slider
		hoverButton = -1
		pressButton = -1
	)

	setSlider := func(sl *Slider, x int) {
		v := sl.ValueAt(x)
		if sl == &l.zoom {
			logErr("zoom", e.SetScale(v))
		} else {
			logErr("rotate", e.SetRotation(v))
		}
	}

	snapshot := func() paintState {
		alpha := float32(0)
		now := time.Now()
		if msg.active() {
			dt := float32(0)
			if !last.IsZero() {
				dt = float32(now.Sub(last).Seconds())
			}
			alpha = msg.advance(dt)
			if !msg.active() {
				toastOn.Store(false)
			}
		}
		last = now
		st := paintState{
			layout:      l,
			frame:       e.Snapshot(),
			transparent: e.Background().Transparent(),
			state:       e.State(),
			hasPhoto:    e.HasPhoto(),
			hoverButton: hoverButton,
			pressButton: pressButton,
			toast:       msg.text,
			toastAlpha:  alpha,
			theme:       a.Theme,
			shadow:      shadow,
		}
		if st.hasPhoto && (dragging || (cursor.In(l.preview) && e.PhotoContains(e.CanvasPoint(cursor, l.preview)))) {
			if corners, ok := e.PhotoCorners(); ok {
				canvas := e.CanvasSize()
				for _, c := range corners {
					st.outline = append(st.outline, l.toDisplay(canvas, c.X, c.Y))
				}
			}
		}
		return st
	}

	for {
		switch ev := w.NextEvent().(type) {
		case lifecycle.Event:
			if ev.To == lifecycle.StageDead {
				painter.abort()
				return
			}

		case size.Event:
			l = computeLayout(ev.WidthPx, ev.HeightPx, widths)
			w.Send(paint.Event{})

		case paint.Event:
			painter.request(snapshot())

		case tickEvent:
			w.Send(paint.Event{})

		case loadedEvent:
			switch {
			case ev.err == nil:
				showToast("loaded " + ev.name)
				a.Notifier.Load(ev.name, e.Snapshot())
			case errors.Is(ev.err, compose.ErrSuperseded), errors.Is(ev.err, context.Canceled):
			default:
				showToast(fmt.Sprintf("could not load %s", ev.name))
				log.Printf("load: %v", ev.err)
			}
			w.Send(paint.Event{})

		case key.Event:
			act := actionFor(ev)
			if act == actQuit {
				return
			}
			if fn, ok := actions[act]; ok {
				fn()
				w.Send(paint.Event{})
			}

		case mouse.Event:
			p := image.Pt(int(ev.X), int(ev.Y))
			cursor = p
			switch {
			case ev.Button == mouse.ButtonWheelUp && ev.Direction != mouse.DirRelease:
				logErr("zoom", e.ScaleBy(zoomStep))
			case ev.Button == mouse.ButtonWheelDown && ev.Direction != mouse.DirRelease:
				logErr("zoom", e.ScaleBy(1/zoomStep))
			case ev.Button == mouse.ButtonLeft && ev.Direction == mouse.DirPress:
				switch {
				case l.buttonAt(p) >= 0:
					pressButton = l.buttonAt(p)
				case l.zoom.Hit(p):
					dragSlider = &l.zoom
					setSlider(dragSlider, p.X)
				case l.rotation.Hit(p):
					dragSlider = &l.rotation
					setSlider(dragSlider, p.X)
				case p.In(l.preview):
					dragging = true
					dragLast = p
				}
			case ev.Button == mouse.ButtonLeft && ev.Direction == mouse.DirRelease:
				if pressButton >= 0 && pressButton == l.buttonAt(p) {
					if fn, ok := actions[toolbarButtons[pressButton].action]; ok {
						fn()
					}
				}
				pressButton = -1
				dragging = false
				dragSlider = nil
			case ev.Direction == mouse.DirNone:
				hoverButton = l.buttonAt(p)
				switch {
				case dragSlider != nil:
					setSlider(dragSlider, p.X)
				case dragging:
					d := p.Sub(dragLast)
					dragLast = p
					e.PanDisplay(float64(d.X), float64(d.Y), l.preview.Size())
				}
			}
			w.Send(paint.Event{})
		}
	}
}

// save renders the twibbon into the output file.
func (a *AppState) save() (string, error) {
	path := a.OutputPath()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := a.Engine.Export(f); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

func (a *AppState) notifyClose() {
	a.once.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

func logErr(what string, err error) {
	if err != nil {
		log.Printf("%s: %v", what, err)
	}
}
