// Package config reads and writes the twibbon RC file.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/example/twibbon/internal/theme"
)

// Environment variables that override the file.
const (
	EnvTheme      = "TWIBBON_THEME"
	EnvBackground = "TWIBBON_BACKGROUND"
)

// Notify selects which events raise a desktop notification.
type Notify struct {
	Load bool
	Save bool
	Copy bool
}

// Config holds the application configuration. Empty strings and a zero
// Size mean "use the built-in default".
type Config struct {
	Frame      string
	Background string
	Output     string
	Size       int
	Backend    string
	Sample     string
	Theme      string
	SaveDir    string
	Notify     Notify
	Themes     map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Notify: Notify{Save: true},
		Themes: make(map[string]*theme.Theme),
	}
}

// ApplyEnv lets TWIBBON_THEME and TWIBBON_BACKGROUND override the file.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvTheme); v != "" {
		c.Theme = v
	}
	if v := os.Getenv(EnvBackground); v != "" {
		c.Background = v
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	root := []struct{ key, value string }{
		{"frame", c.Frame},
		{"background", c.Background},
		{"output", c.Output},
		{"backend", c.Backend},
		{"sample", c.Sample},
		{"theme", c.Theme},
		{"save_dir", c.SaveDir},
	}
	for _, kv := range root {
		if kv.value != "" {
			fmt.Fprintf(&sb, "%s = %s\n", kv.key, kv.value)
		}
	}
	if c.Size > 0 {
		fmt.Fprintf(&sb, "size = %d\n", c.Size)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "load = %v\n", c.Notify.Load)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)

	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "\n[theme.%s]\n", name)
		theme.Format(&sb, c.Themes[name])
	}
	return sb.String()
}
