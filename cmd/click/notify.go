package main

import (
	"log/slog"

	"github.com/gen2brain/beeep"
)

// notifyError raises a desktop alert next to the in-window error line. It can
// shell out, so callers on the UI goroutine run it with go.
func notifyError(title, message string) {
	if err := beeep.Alert(title, message, ""); err != nil {
		slog.Warn("[ui] failed to send notification", "error", err)
	}
}
