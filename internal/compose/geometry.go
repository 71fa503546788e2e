package compose

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// PhotoCorners returns the four corners of the transformed photo in canvas
// units, clockwise from the photo's top-left. ok is false when no photo is
// loaded.
func (e *Engine) PhotoCorners() (corners [4]r2.Vec, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.photo == nil {
		return corners, false
	}
	size := e.photo.Bounds().Size()
	return photoCorners(e.state, float64(size.X), float64(size.Y)), true
}

// PhotoContains reports whether the canvas point p lies on the transformed
// photo.
func (e *Engine) PhotoContains(p r2.Vec) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.photo == nil {
		return false
	}
	size := e.photo.Bounds().Size()
	return photoContains(e.state, float64(size.X), float64(size.Y), p)
}

func photoCorners(ts TransformState, w, h float64) [4]r2.Vec {
	centre := r2.Vec{X: ts.X, Y: ts.Y}
	hw := ts.Scale * w / 2
	hh := ts.Scale * h / 2
	theta := ts.Rotation * math.Pi / 180
	offsets := [4]r2.Vec{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
	var out [4]r2.Vec
	for i, off := range offsets {
		out[i] = r2.Rotate(r2.Add(centre, off), theta, centre)
	}
	return out
}

func photoContains(ts TransformState, w, h float64, p r2.Vec) bool {
	centre := r2.Vec{X: ts.X, Y: ts.Y}
	theta := ts.Rotation * math.Pi / 180
	local := r2.Sub(r2.Rotate(p, -theta, centre), centre)
	hw := ts.Scale * w / 2
	hh := ts.Scale * h / 2
	return math.Abs(local.X) <= hw && math.Abs(local.Y) <= hh
}
