// Package theme holds the colour palettes of the editor window.
package theme

import (
	"image/color"
)

// Theme is the palette used to paint the editor chrome. It never affects the
// exported twibbon.
type Theme struct {
	Name string

	Backdrop color.RGBA // Window area around the preview card
	Text     color.RGBA

	ToolbarBackground     color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA

	SliderTrack color.RGBA
	SliderFill  color.RGBA
	SliderKnob  color.RGBA

	Outline color.RGBA // Dashed outline around the photo while dragging
	Shadow  color.RGBA // Drop shadow under the preview card

	ToastBackground color.RGBA
	ToastText       color.RGBA

	// Transparent backgrounds are previewed on a checkerboard.
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Backdrop:              color.RGBA{226, 232, 240, 255},
		Text:                  color.RGBA{15, 23, 42, 255},
		ToolbarBackground:     color.RGBA{241, 245, 249, 255},
		ButtonBackground:      color.RGBA{255, 255, 255, 255},
		ButtonBackgroundHover: color.RGBA{224, 242, 254, 255},
		ButtonBackgroundPress: color.RGBA{186, 230, 253, 255},
		ButtonText:            color.RGBA{15, 23, 42, 255},
		ButtonBorder:          color.RGBA{148, 163, 184, 255},
		SliderTrack:           color.RGBA{203, 213, 225, 255},
		SliderFill:            color.RGBA{14, 165, 233, 255},
		SliderKnob:            color.RGBA{255, 255, 255, 255},
		Outline:               color.RGBA{14, 165, 233, 255},
		Shadow:                color.RGBA{15, 23, 42, 255},
		ToastBackground:       color.RGBA{15, 23, 42, 230},
		ToastText:             color.RGBA{248, 250, 252, 255},
		CheckerLight:          color.RGBA{241, 245, 249, 255},
		CheckerDark:           color.RGBA{203, 213, 225, 255},
	}
}
