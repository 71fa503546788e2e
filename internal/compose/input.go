package compose

import (
	"image"

	"gonum.org/v1/gonum/spatial/r2"
)

// NudgeStep is how far one arrow key press moves the photo, in canvas units.
const NudgeStep = 8

// Direction names an arrow key nudge.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// Nudge moves the photo one NudgeStep in d.
func (e *Engine) Nudge(d Direction) {
	switch d {
	case Left:
		e.Pan(-NudgeStep, 0)
	case Right:
		e.Pan(NudgeStep, 0)
	case Up:
		e.Pan(0, -NudgeStep)
	case Down:
		e.Pan(0, NudgeStep)
	}
}

// CanvasDelta converts a pointer movement measured in display pixels to
// canvas units. display is the size the canvas is currently shown at.
func (e *Engine) CanvasDelta(dx, dy float64, display image.Point) (float64, float64) {
	return canvasDelta(e.CanvasSize(), dx, dy, display)
}

// PanDisplay pans by a pointer movement measured in display pixels.
func (e *Engine) PanDisplay(dx, dy float64, display image.Point) {
	cx, cy := e.CanvasDelta(dx, dy, display)
	e.Pan(cx, cy)
}

// CanvasPoint maps a display pixel inside the on-screen canvas rectangle to
// canvas units.
func (e *Engine) CanvasPoint(p image.Point, display image.Rectangle) r2.Vec {
	x, y := canvasDelta(e.CanvasSize(), float64(p.X-display.Min.X), float64(p.Y-display.Min.Y), display.Size())
	return r2.Vec{X: x, Y: y}
}

func canvasDelta(canvas image.Point, dx, dy float64, display image.Point) (float64, float64) {
	if display.X <= 0 || display.Y <= 0 {
		return dx, dy
	}
	return dx * float64(canvas.X) / float64(display.X), dy * float64(canvas.Y) / float64(display.Y)
}
