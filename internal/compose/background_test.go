package compose

import (
	"image/color"
	"testing"
)

func TestParseBackground(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		name string
	}{
		{"", White.Color, "white"},
		{"Cream", Cream.Color, "cream"},
		{"transparent", color.RGBA{}, "transparent"},
		{"none", color.RGBA{}, "transparent"},
		{"#fb7185", color.RGBA{0xfb, 0x71, 0x85, 0xff}, "#fb7185"},
		{"#0f172a80", color.RGBA{0x07, 0x0b, 0x15, 0x80}, "#0f172a80"},
		{"#80808080", color.RGBA{0x40, 0x40, 0x40, 0x80}, "#80808080"},
		{"#ff000080", color.RGBA{0x80, 0x00, 0x00, 0x80}, "#ff000080"},
		{"#102030ff", color.RGBA{0x10, 0x20, 0x30, 0xff}, "#102030"},
		{"#abc", color.RGBA{0xaa, 0xbb, 0xcc, 0xff}, "#aabbcc"},
		{"darkorange", color.RGBA{0xff, 0x8c, 0x00, 0xff}, "darkorange"},
	}
	for _, tc := range tests {
		got, err := ParseBackground(tc.in)
		if err != nil {
			t.Fatalf("ParseBackground(%q): %v", tc.in, err)
		}
		if got.Color != tc.want {
			t.Errorf("ParseBackground(%q) colour %v, want %v", tc.in, got.Color, tc.want)
		}
		if got.String() != tc.name {
			t.Errorf("ParseBackground(%q) name %q, want %q", tc.in, got.String(), tc.name)
		}
	}
}

func TestParseBackgroundErrors(t *testing.T) {
	for _, in := range []string{"#12", "#zzzzzz", "not-a-colour"} {
		if _, err := ParseBackground(in); err == nil {
			t.Errorf("ParseBackground(%q) should fail", in)
		}
	}
}

func TestNextBackgroundWraps(t *testing.T) {
	all := Backgrounds()
	bg := all[0]
	for i := 0; i < len(all); i++ {
		bg = NextBackground(bg)
	}
	if bg != all[0] {
		t.Fatalf("cycling through the palette should wrap, got %v", bg)
	}
	if NextBackground(Background{Color: color.RGBA{1, 2, 3, 255}}) != White {
		t.Fatalf("custom colours should cycle back to white")
	}
	if !Transparent.Transparent() || White.Transparent() {
		t.Fatalf("transparency flags wrong")
	}
}
