package photo

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/twibbon/assets"
	"github.com/example/twibbon/internal/clipboard"
)

// FileSource reads a photo from disk.
type FileSource struct {
	Path string
}

// File returns a source for the photo at path.
func File(path string) FileSource { return FileSource{Path: path} }

func (s FileSource) Name() string { return filepath.Base(s.Path) }

func (s FileSource) Open(ctx context.Context) (image.Image, error) {
	return decodeCtx(ctx, func() (image.Image, error) {
		f, err := os.Open(s.Path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		img, _, err := Decode(f)
		return img, err
	})
}

// BytesSource decodes a photo already held in memory, such as a dropped
// file or an upload.
type BytesSource struct {
	Label string
	Data  []byte
}

// Bytes returns a source decoding data.
func Bytes(name string, data []byte) BytesSource { return BytesSource{Label: name, Data: data} }

func (s BytesSource) Name() string { return s.Label }

func (s BytesSource) Open(ctx context.Context) (image.Image, error) {
	return decodeCtx(ctx, func() (image.Image, error) {
		if len(s.Data) > MaxBytes {
			return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxBytes)
		}
		img, _, err := DecodeBytes(s.Data)
		return img, err
	})
}

// SampleSource rasterises one of the embedded sample photos.
type SampleSource struct {
	Sample string
}

// Sample returns a source for the named built-in sample.
func Sample(name string) SampleSource { return SampleSource{Sample: name} }

func (s SampleSource) Name() string { return "sample:" + s.Sample }

func (s SampleSource) Open(ctx context.Context) (image.Image, error) {
	return decodeCtx(ctx, func() (image.Image, error) {
		data, err := assets.Sample(s.Sample)
		if err != nil {
			return nil, err
		}
		return RasterizeSVG(bytes.NewReader(data), 0, 0)
	})
}

// ClipboardSource pastes the image currently on the system clipboard.
type ClipboardSource struct{}

// Clipboard returns a source reading the clipboard image.
func Clipboard() ClipboardSource { return ClipboardSource{} }

func (ClipboardSource) Name() string { return "clipboard" }

func (ClipboardSource) Open(ctx context.Context) (image.Image, error) {
	return decodeCtx(ctx, clipboard.ReadImage)
}

// Source is satisfied by every photo source in this package.
type Source interface {
	Open(ctx context.Context) (image.Image, error)
	Name() string
}

// Resolve maps a command line reference onto a source. "sample:NAME" picks
// a built-in sample, "clipboard:" pastes, anything else is a file path.
func Resolve(ref string) (Source, error) {
	switch {
	case ref == "":
		return nil, fmt.Errorf("empty photo reference")
	case ref == "clipboard:" || ref == "clipboard":
		return Clipboard(), nil
	case strings.HasPrefix(ref, "sample:"):
		name := strings.TrimPrefix(ref, "sample:")
		if name == "" {
			name = assets.DefaultSample
		}
		return Sample(name), nil
	default:
		return File(ref), nil
	}
}

// decodeCtx runs fn on its own goroutine so a cancelled context returns
// promptly even while a large image is still decoding.
func decodeCtx(ctx context.Context, fn func() (image.Image, error)) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	type result struct {
		img image.Image
		err error
	}
	done := make(chan result, 1)
	go func() {
		img, err := fn()
		done <- result{img, err}
	}()
	select {
	case r := <-done:
		return r.img, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
