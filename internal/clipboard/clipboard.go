// Package clipboard exchanges PNG images with the system clipboard.
package clipboard

import "errors"

var (
	// ErrNoDisplay is returned when neither DISPLAY nor WAYLAND_DISPLAY is set.
	ErrNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	// ErrNoImage is returned when the clipboard holds no image data.
	ErrNoImage = errors.New("clipboard does not contain image data")
	// ErrUnsupported is returned on platforms without a clipboard backend.
	ErrUnsupported = errors.New("clipboard image operations are not supported on this platform")
)
