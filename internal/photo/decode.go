// Package photo decodes user photos and frames from the formats the composer
// accepts and provides the photo sources the engine loads from.
package photo

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

const (
	// MaxBytes caps how much encoded data is read for one photo.
	MaxBytes = 64 << 20
	// MaxSide rejects photos whose width or height exceeds it before the
	// pixels are decoded.
	MaxSide = 12000
)

var (
	ErrDecode   = errors.New("photo: unsupported or corrupt image")
	ErrTooLarge = errors.New("photo: image too large")
)

type format struct {
	name   string
	match  func([]byte) bool
	decode func(io.Reader) (image.Image, error)
	config func(io.Reader) (image.Config, error)
}

func prefix(magic string) func([]byte) bool {
	return func(b []byte) bool { return bytes.HasPrefix(b, []byte(magic)) }
}

// formats is matched in order. TGA has no signature, so it is the fallback.
var formats = []format{
	{"png", prefix("\x89PNG\r\n\x1a\n"), png.Decode, png.DecodeConfig},
	{"jpeg", prefix("\xff\xd8"), func(r io.Reader) (image.Image, error) { return jpeg.Decode(r) }, jpeg.DecodeConfig},
	{"gif", func(b []byte) bool { return bytes.HasPrefix(b, []byte("GIF87a")) || bytes.HasPrefix(b, []byte("GIF89a")) }, gif.Decode, gif.DecodeConfig},
	{"webp", func(b []byte) bool { return len(b) >= 12 && string(b[:4]) == "RIFF" && string(b[8:12]) == "WEBP" }, webp.Decode, webp.DecodeConfig},
	{"bmp", prefix("BM"), bmp.Decode, bmp.DecodeConfig},
	{"tiff", func(b []byte) bool { return bytes.HasPrefix(b, []byte("II*\x00")) || bytes.HasPrefix(b, []byte("MM\x00*")) }, tiff.Decode, tiff.DecodeConfig},
	{"tga", func([]byte) bool { return true }, tga.Decode, tga.DecodeConfig},
}

// Formats lists the names of the supported encodings.
func Formats() []string {
	out := []string{"svg"}
	for _, f := range formats {
		out = append(out, f.name)
	}
	return out
}

// Decode reads at most MaxBytes from r and decodes the photo. The returned
// string names the detected format.
func Decode(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read photo: %w", err)
	}
	if len(data) > MaxBytes {
		return nil, "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxBytes)
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes an in-memory photo. SVG documents are rasterised at
// their own size.
func DecodeBytes(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty input", ErrDecode)
	}
	if IsSVG(data) {
		img, err := RasterizeSVG(bytes.NewReader(data), 0, 0)
		if err != nil {
			return nil, "svg", err
		}
		return img, "svg", nil
	}
	for _, f := range formats {
		if !f.match(data) {
			continue
		}
		cfg, err := f.config(bytes.NewReader(data))
		if err != nil {
			return nil, f.name, fmt.Errorf("%w: %s header: %v", ErrDecode, f.name, err)
		}
		if cfg.Width > MaxSide || cfg.Height > MaxSide {
			return nil, f.name, fmt.Errorf("%w: %dx%d exceeds %d pixels per side", ErrTooLarge, cfg.Width, cfg.Height, MaxSide)
		}
		img, err := f.decode(bytes.NewReader(data))
		if err != nil {
			return nil, f.name, fmt.Errorf("%w: %s: %v", ErrDecode, f.name, err)
		}
		return img, f.name, nil
	}
	return nil, "", ErrDecode
}
