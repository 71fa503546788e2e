package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"

	xdraw "golang.org/x/image/draw"

	"golang.org/x/exp/shiny/screen"

	"github.com/example/twibbon/internal/compose"
	"github.com/example/twibbon/internal/render"
	"github.com/example/twibbon/internal/theme"
)

// paintState is an immutable snapshot handed to the paint goroutine.
type paintState struct {
	layout      layout
	frame       *image.RGBA
	transparent bool
	state       compose.TransformState
	hasPhoto    bool
	outline     []image.Point
	hoverButton int
	pressButton int
	toast       string
	toastAlpha  float32
	theme       *theme.Theme
	shadow      *render.Shadow
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(st.layout.size)
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	paintEditor(ctx, b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// paintEditor renders the whole editor into dst. It stops early when ctx is
// cancelled by a newer frame.
func paintEditor(ctx context.Context, dst *image.RGBA, st paintState) {
	th := st.theme
	l := st.layout
	draw.Draw(dst, dst.Bounds(), image.NewUniform(th.Backdrop), image.Point{}, draw.Src)

	opts := render.DefaultShadowOptions()
	opts.Color = th.Shadow
	st.shadow.Draw(dst, l.preview, opts)
	if st.transparent {
		drawCheckerboard(dst, l.preview, 12, th.CheckerLight, th.CheckerDark)
	}
	if st.frame != nil && !l.preview.Empty() {
		xdraw.ApproxBiLinear.Scale(dst, l.preview, st.frame, st.frame.Bounds(), draw.Over, nil)
	}
	if ctx.Err() != nil {
		return
	}

	if len(st.outline) > 1 {
		drawDashedPolygon(dst, st.outline, 6, th.Outline, color.White)
	}

	fill(dst, l.toolbar, th.ToolbarBackground)
	for i, r := range l.buttons {
		state := StateDefault
		switch i {
		case st.pressButton:
			state = StatePressed
		case st.hoverButton:
			state = StateHover
		}
		drawButton(dst, r, toolbarButtons[i].label, state, th)
	}

	fill(dst, l.panel, th.ToolbarBackground)
	drawSlider(dst, l.zoom, "Zoom", st.state.Scale, fmt.Sprintf("%.2fx", st.state.Scale), th)
	drawSlider(dst, l.rotation, "Rotate", st.state.Rotation, fmt.Sprintf("%.0f°", st.state.Rotation), th)
	if ctx.Err() != nil {
		return
	}

	if st.toast != "" && st.toastAlpha > 0 {
		drawToast(dst, l.preview, st.toast, st.toastAlpha, th)
	}
}

func drawSlider(dst *image.RGBA, s Slider, label string, v float64, value string, th *theme.Theme) {
	cy := (s.Track.Min.Y + s.Track.Max.Y) / 2
	render.DrawText(dst, 12, cy-8, label, th.Text, 13)
	fill(dst, s.Track, th.SliderTrack)
	kx := s.KnobX(v)
	fill(dst, image.Rect(s.Track.Min.X, s.Track.Min.Y, kx, s.Track.Max.Y), th.SliderFill)
	drawDisc(dst, kx, cy, knobRadius, th.SliderFill)
	drawDisc(dst, kx, cy, knobRadius-2, th.SliderKnob)
	render.DrawText(dst, s.Track.Max.X+12, cy-8, value, th.Text, 13)
}

func drawToast(dst *image.RGBA, area image.Rectangle, msg string, alpha float32, th *theme.Theme) {
	const size = 16
	w, h := render.MeasureText(msg, size)
	cx := (area.Min.X + area.Max.X) / 2
	y := area.Max.Y - h - 32
	box := image.Rect(cx-w/2-14, y-8, cx+w/2+14, y+h+8)
	fill(dst, box, fade(th.ToastBackground, alpha))
	render.DrawTextCentered(dst, msg, float64(cx), float64(y+h/2), size, fade(th.ToastText, alpha))
}

// fade scales the alpha of c, keeping it non-premultiplied.
func fade(c color.RGBA, alpha float32) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(float32(c.A) * max(0, min(alpha, 1)))}
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x-rect.Min.X)/size+(y-rect.Min.Y)/size)%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

func drawDisc(dst *image.RGBA, cx, cy, r int, c color.Color) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				p := image.Pt(cx+dx, cy+dy)
				if p.In(dst.Bounds()) {
					dst.Set(p.X, p.Y, c)
				}
			}
		}
	}
}

// drawDashedPolygon outlines the closed polygon pts with dashes of
// alternating colours. The dash phase runs on around corners.
func drawDashedPolygon(dst *image.RGBA, pts []image.Point, dash int, c1, c2 color.Color) {
	step := 0
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		step = drawDashedLine(dst, a, b, dash, step, c1, c2)
	}
}

// drawDashedLine walks from a to b with Bresenham's algorithm and returns
// the dash counter so the next segment continues the pattern.
func drawDashedLine(dst *image.RGBA, a, b image.Point, dash, step int, c1, c2 color.Color) int {
	dx := int(math.Abs(float64(b.X - a.X)))
	dy := -int(math.Abs(float64(b.Y - a.Y)))
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	x, y := a.X, a.Y
	bounds := dst.Bounds()
	for {
		col := c1
		if (step/dash)%2 == 1 {
			col = c2
		}
		for t := 0; t < 2; t++ {
			if p := image.Pt(x, y+t); p.In(bounds) {
				dst.Set(p.X, p.Y, col)
			}
		}
		step++
		if x == b.X && y == b.Y {
			return step
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}
