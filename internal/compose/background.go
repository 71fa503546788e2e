package compose

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Background is the fill painted under the photo. A zero alpha means the
// canvas is left transparent.
type Background struct {
	Name  string
	Color color.RGBA
}

// Transparent reports whether the background leaves the canvas unpainted.
func (b Background) Transparent() bool { return b.Color.A == 0 }

func (b Background) String() string {
	if b.Name != "" {
		return b.Name
	}
	if b.Transparent() {
		return "transparent"
	}
	return fmt.Sprintf("#%02x%02x%02x", b.Color.R, b.Color.G, b.Color.B)
}

var (
	White       = Background{Name: "white", Color: color.RGBA{255, 255, 255, 255}}
	Cream       = Background{Name: "cream", Color: color.RGBA{0xfe, 0xf3, 0xc7, 255}}
	Sky         = Background{Name: "sky", Color: color.RGBA{0xcf, 0xfa, 0xfe, 255}}
	Rose        = Background{Name: "rose", Color: color.RGBA{0xfb, 0x71, 0x85, 255}}
	Navy        = Background{Name: "navy", Color: color.RGBA{0x0f, 0x17, 0x2a, 255}}
	Black       = Background{Name: "black", Color: color.RGBA{0, 0, 0, 255}}
	Transparent = Background{Name: "transparent"}
)

var backgrounds = []Background{White, Cream, Sky, Rose, Navy, Black, Transparent}

// Backgrounds lists the built-in background choices in display order.
func Backgrounds() []Background {
	out := make([]Background, len(backgrounds))
	copy(out, backgrounds)
	return out
}

// NextBackground returns the palette entry after b, wrapping around. Custom
// colours cycle back to the first entry.
func NextBackground(b Background) Background {
	for i, bg := range backgrounds {
		if bg == b {
			return backgrounds[(i+1)%len(backgrounds)]
		}
	}
	return backgrounds[0]
}

// ParseBackground resolves a palette name, an SVG colour keyword or a
// #RRGGBB / #RRGGBBAA value.
func ParseBackground(s string) (Background, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return White, nil
	}
	if name == "none" {
		return Transparent, nil
	}
	for _, bg := range backgrounds {
		if bg.Name == name {
			return bg, nil
		}
	}
	if strings.HasPrefix(name, "#") {
		hex, col, err := parseHex(name)
		if err != nil {
			return Background{}, fmt.Errorf("background %q: %w", s, err)
		}
		return Background{Name: hex, Color: col}, nil
	}
	if col, ok := colornames.Map[name]; ok {
		return Background{Name: name, Color: col}, nil
	}
	return Background{}, fmt.Errorf("unknown background %q", s)
}

// parseHex reads #RGB, #RRGGBB or #RRGGBBAA. The digits are straight alpha,
// so the colour is premultiplied before it is stored. The expanded form is
// returned for display.
func parseHex(s string) (string, color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6, 8:
	default:
		return "", color.RGBA{}, fmt.Errorf("invalid hex length")
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return "", color.RGBA{}, err
	}
	if len(hex) == 6 {
		return "#" + hex, color.RGBA{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 255}, nil
	}
	if hex[6:] == "ff" {
		hex = hex[:6]
	}
	straight := color.NRGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}
	return "#" + hex, color.RGBAModel.Convert(straight).(color.RGBA), nil
}
