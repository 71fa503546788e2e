// Package batch composes many photos into twibbons with a worker pool.
package batch

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/example/twibbon/internal/compose"
	"github.com/example/twibbon/internal/render"
)

// Suffix is appended to each photo's base name to form its output file.
const Suffix = "-twibbon.png"

// Config holds the resources shared by every item of a run. Each worker
// builds its own surface and engine from it.
type Config struct {
	OutputDir  string
	Overlay    image.Image
	Background compose.Background
	Size       int
	Backend    render.Backend
	// Zoom multiplies the fitted scale; zero means 1.
	Zoom     float64
	Rotation float64
	Workers  int
	// Progress receives a status line every Interval while the run is busy.
	Progress io.Writer
	Interval time.Duration
}

// Result holds the outcome of processing one item.
type Result struct {
	Name   string
	Output string
	Err    error
}

// OK reports whether the item was written.
func (r Result) OK() bool { return r.Err == nil }

// Run composes every source and writes the PNGs to cfg.OutputDir. Results
// are returned in input order. Cancelling ctx stops the remaining items,
// which report ctx.Err().
func Run(ctx context.Context, cfg Config, sources []compose.Source) []Result {
	cfg = withDefaults(cfg)
	total := len(sources)
	results := make([]Result, total)
	outputs := OutputNames(sources)
	var processed atomic.Int64

	start := time.Now()

	done := make(chan struct{})
	if cfg.Progress != nil {
		go func() {
			ticker := time.NewTicker(cfg.Interval)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					if p := processed.Load(); p > 0 {
						rate := float64(p) / time.Since(start).Seconds()
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f photos/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	items := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup
	for w := 0; w < min(cfg.Workers, max(total, 1)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var wk *worker
			for idx := range items {
				out := filepath.Join(cfg.OutputDir, outputs[idx])
				res := Result{Name: sources[idx].Name(), Output: out}
				if wk == nil {
					var err error
					if wk, err = newWorker(cfg); err != nil {
						res.Err = err
						results[idx] = res
						processed.Add(1)
						continue
					}
					defer wk.close()
				}
				res.Err = wk.compose(ctx, sources[idx], out)
				results[idx] = res
				processed.Add(1)
			}
		}()
	}

	for i := range sources {
		items <- i
	}
	close(items)

	wg.Wait()
	close(done)

	return results
}

func withDefaults(cfg Config) Config {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Size <= 0 {
		cfg.Size = compose.DefaultCanvasSize
	}
	if cfg.Backend == "" {
		cfg.Backend = render.BackendRaster
	}
	if cfg.Zoom == 0 {
		cfg.Zoom = 1
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return cfg
}

// OutputNames derives a unique file name for each source from its Name.
func OutputNames(sources []compose.Source) []string {
	seen := make(map[string]int, len(sources))
	out := make([]string, len(sources))
	for i, src := range sources {
		stem := stemOf(src.Name())
		name := stem + Suffix
		if n := seen[stem]; n > 0 {
			name = fmt.Sprintf("%s-%d%s", stem, n+1, Suffix)
		}
		seen[stem]++
		out[i] = name
	}
	return out
}

func stemOf(name string) string {
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.Map(func(r rune) rune {
		switch r {
		case ':', '/', '\\', ' ':
			return '-'
		}
		return r
	}, stem)
	if stem == "" || stem == "." {
		stem = "photo"
	}
	return stem
}

type worker struct {
	surface render.Surface
	engine  *compose.Engine
	cfg     Config
}

func newWorker(cfg Config) (*worker, error) {
	s, err := render.NewSurface(cfg.Backend, cfg.Size)
	if err != nil {
		return nil, err
	}
	e, err := compose.New(s, compose.WithOverlay(cfg.Overlay), compose.WithBackground(cfg.Background))
	if err != nil {
		s.Close()
		return nil, err
	}
	return &worker{surface: s, engine: e, cfg: cfg}, nil
}

func (w *worker) close() { w.surface.Close() }

func (w *worker) compose(ctx context.Context, src compose.Source, out string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := w.engine.Load(ctx, src); err != nil {
		return err
	}
	// The worker never pans, so every item keeps the default centre and
	// the scale fitted to its own photo.
	if w.cfg.Zoom != 1 || w.cfg.Rotation != 0 {
		st := w.engine.State()
		st.Scale *= w.cfg.Zoom
		st.Rotation = w.cfg.Rotation
		if err := w.engine.SetState(st); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := w.engine.Export(f); err != nil {
		f.Close()
		return fmt.Errorf("export %s: %w", out, err)
	}
	return f.Close()
}
