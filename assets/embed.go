package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

// Built-in frames and sample photos, all SVG.
//
//go:embed frames/*.svg samples/*.svg
var embedded embed.FS

const (
	// DefaultFrame is the frame used when none is configured.
	DefaultFrame = "school"
	// DefaultSample is the photo loaded by the sample button.
	DefaultSample = "portrait"
)

var (
	indexOnce sync.Once
	indexErr  error
	frames    map[string][]byte
	samples   map[string][]byte
)

func loadIndex() {
	frames, indexErr = readDir("frames")
	if indexErr != nil {
		return
	}
	samples, indexErr = readDir("samples")
}

func readDir(dir string) (map[string][]byte, error) {
	entries, err := fs.ReadDir(embedded, dir)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".svg") {
			continue
		}
		data, err := embedded.ReadFile(path.Join(dir, name))
		if err != nil {
			return nil, err
		}
		out[strings.TrimSuffix(name, ".svg")] = data
	}
	return out, nil
}

func lookup(set map[string][]byte, kind, name string) ([]byte, error) {
	indexOnce.Do(loadIndex)
	if indexErr != nil {
		return nil, indexErr
	}
	data, ok := set[strings.ToLower(strings.TrimSuffix(name, ".svg"))]
	if !ok {
		return nil, fmt.Errorf("%s %q not embedded", kind, name)
	}
	return append([]byte(nil), data...), nil
}

func names(set func() map[string][]byte) []string {
	indexOnce.Do(loadIndex)
	if indexErr != nil {
		return nil
	}
	m := set()
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Frame returns a copy of the SVG source of a built-in frame.
func Frame(name string) ([]byte, error) {
	indexOnce.Do(loadIndex)
	return lookup(frames, "frame", name)
}

// Sample returns a copy of the SVG source of a built-in sample photo.
func Sample(name string) ([]byte, error) {
	indexOnce.Do(loadIndex)
	return lookup(samples, "sample", name)
}

// FrameNames lists the built-in frames.
func FrameNames() []string { return names(func() map[string][]byte { return frames }) }

// SampleNames lists the built-in sample photos.
func SampleNames() []string { return names(func() map[string][]byte { return samples }) }
