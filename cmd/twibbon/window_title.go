package main

import (
	"fmt"
	"strings"
)

const programTitle = "Twibbon"

type titleOptions struct {
	File       string
	Frame      string
	Background string
	Extras     []string
}

func windowTitle(opts titleOptions) string {
	parts := []string{programTitle}

	file := strings.TrimSpace(opts.File)
	if file != "" {
		parts = append(parts, file)
	}

	frame := strings.TrimSpace(opts.Frame)
	if frame != "" {
		parts = append(parts, "frame "+frame)
	}

	extras := make([]string, 0, len(opts.Extras)+3)

	background := strings.TrimSpace(opts.Background)
	if background != "" {
		extras = append(extras, fmt.Sprintf("on %s", background))
	}

	if v := strings.TrimSpace(version); v != "" {
		extras = append(extras, fmt.Sprintf("v%s", v))
	}

	if c := strings.TrimSpace(commit); c != "" {
		extras = append(extras, fmt.Sprintf("commit %s", c))
	}

	extras = append(extras, opts.Extras...)

	return strings.Join(append(parts, extras...), " - ")
}
