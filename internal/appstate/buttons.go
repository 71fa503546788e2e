package appstate

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/example/twibbon/internal/render"
	"github.com/example/twibbon/internal/theme"
)

const buttonTextSize = 13

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// toolbarButton runs a named action when clicked.
type toolbarButton struct {
	label  string
	action string
}

var toolbarButtons = []toolbarButton{
	{"Sample (O)", actSample},
	{"Paste (^V)", actPaste},
	{"Reset (R)", actReset},
	{"Background (B)", actBackground},
	{"Save (^S)", actSave},
	{"Copy (^C)", actCopy},
}

func buttonWidths() []int {
	out := make([]int, len(toolbarButtons))
	for i, b := range toolbarButtons {
		w, _ := render.MeasureText(b.label, buttonTextSize)
		out[i] = w + 20
	}
	return out
}

func drawButton(dst *image.RGBA, r image.Rectangle, label string, state ButtonState, th *theme.Theme) {
	bg := th.ButtonBackground
	switch state {
	case StateHover:
		bg = th.ButtonBackgroundHover
	case StatePressed:
		bg = th.ButtonBackgroundPress
	}
	fill(dst, r, bg)
	strokeRect(dst, r, th.ButtonBorder)
	c := r.Min.Add(r.Max).Div(2)
	render.DrawTextCentered(dst, label, float64(c.X), float64(c.Y), buttonTextSize, th.ButtonText)
}

func fill(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

func strokeRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), c)
	fill(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), c)
	fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), c)
	fill(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), c)
}
