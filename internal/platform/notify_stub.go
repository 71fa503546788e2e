//go:build !linux && !darwin && !windows

package platform

import (
	"fmt"
	"os"
)

// Notify has no desktop service to talk to here, so the message goes to
// stderr instead.
func Notify(title, body string, opts Options) error {
	_, err := fmt.Fprintf(os.Stderr, "%s: %s\n", title, body)
	return err
}
