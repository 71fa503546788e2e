package appstate

import (
	"image"
	"math"
)

const (
	toolbarHeight = 36
	sliderHeight  = 34
	panelHeight   = 2*sliderHeight + 8
	previewMargin = 28
	labelWidth    = 96
	valueWidth    = 72
	knobRadius    = 7
	minWindow     = 320
)

// Slider ranges. They bound what the controls can set; the engine itself
// accepts any positive scale and any finite angle.
const (
	ZoomMin     = 0.1
	ZoomMax     = 4
	RotationMin = -180
	RotationMax = 180
)

// Slider maps a horizontal track to a value range.
type Slider struct {
	Min, Max float64
	Track    image.Rectangle
}

// ValueAt returns the value under x, clamped to the slider range.
func (s Slider) ValueAt(x int) float64 {
	w := s.Track.Dx()
	if w <= 0 {
		return s.Min
	}
	t := float64(x-s.Track.Min.X) / float64(w)
	t = math.Max(0, math.Min(1, t))
	return s.Min + t*(s.Max-s.Min)
}

// KnobX returns the track position for v. Values outside the range pin the
// knob to the nearest end.
func (s Slider) KnobX(v float64) int {
	if s.Max <= s.Min || math.IsNaN(v) {
		return s.Track.Min.X
	}
	t := (v - s.Min) / (s.Max - s.Min)
	t = math.Max(0, math.Min(1, t))
	return s.Track.Min.X + int(math.Round(t*float64(s.Track.Dx())))
}

// Hit reports whether p is on the track, allowing for the knob radius.
func (s Slider) Hit(p image.Point) bool {
	return p.In(s.Track.Inset(-knobRadius))
}

// layout places every element of the editor for a window size.
type layout struct {
	size     image.Point
	toolbar  image.Rectangle
	buttons  []image.Rectangle
	preview  image.Rectangle
	panel    image.Rectangle
	zoom     Slider
	rotation Slider
}

func computeLayout(w, h int, buttonWidths []int) layout {
	w = max(w, minWindow)
	h = max(h, minWindow)
	l := layout{size: image.Pt(w, h)}
	l.toolbar = image.Rect(0, 0, w, toolbarHeight)
	l.panel = image.Rect(0, h-panelHeight, w, h)

	x := 6
	for _, bw := range buttonWidths {
		l.buttons = append(l.buttons, image.Rect(x, 5, x+bw, toolbarHeight-5))
		x += bw + 6
	}

	// The preview is the largest square fitting between toolbar and panel.
	area := image.Rect(0, toolbarHeight, w, h-panelHeight).Inset(previewMargin)
	side := max(0, min(area.Dx(), area.Dy()))
	cx := (area.Min.X + area.Max.X) / 2
	cy := (area.Min.Y + area.Max.Y) / 2
	l.preview = image.Rect(cx-side/2, cy-side/2, cx-side/2+side, cy-side/2+side)

	track := func(row int) image.Rectangle {
		y := l.panel.Min.Y + 4 + row*sliderHeight + sliderHeight/2
		return image.Rect(labelWidth, y-2, w-valueWidth, y+2)
	}
	l.zoom = Slider{Min: ZoomMin, Max: ZoomMax, Track: track(0)}
	l.rotation = Slider{Min: RotationMin, Max: RotationMax, Track: track(1)}
	return l
}

// buttonAt returns the index of the toolbar button under p, or -1.
func (l layout) buttonAt(p image.Point) int {
	for i, r := range l.buttons {
		if p.In(r) {
			return i
		}
	}
	return -1
}

// toDisplay maps a canvas-space point into window pixels for a canvas of
// the given size shown in the preview rectangle.
func (l layout) toDisplay(canvas image.Point, x, y float64) image.Point {
	if canvas.X == 0 || canvas.Y == 0 {
		return l.preview.Min
	}
	sx := float64(l.preview.Dx()) / float64(canvas.X)
	sy := float64(l.preview.Dy()) / float64(canvas.Y)
	return image.Pt(
		l.preview.Min.X+int(math.Round(x*sx)),
		l.preview.Min.Y+int(math.Round(y*sy)),
	)
}
