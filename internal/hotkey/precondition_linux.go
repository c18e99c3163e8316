//go:build linux

package hotkey

import (
	"errors"
	"os"
)

// hookPrecondition rejects sessions the X11 hook backend cannot attach to.
func hookPrecondition() error {
	if os.Getenv("DISPLAY") == "" {
		return errors.New("no X11 display (DISPLAY is unset)")
	}
	return nil
}
