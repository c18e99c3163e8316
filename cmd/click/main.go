// Command click is a small always-on-top auto-clicker. Arm it with the
// window button, then press the hotkey (F5 by default) anywhere to start
// clicking and press it again to stop.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/1634-5e/click/internal/clicker"
	"github.com/1634-5e/click/internal/config"
	"github.com/1634-5e/click/internal/hotkey"
	"github.com/1634-5e/click/internal/inject"
)

func main() {
	os.Exit(run())
}

func run() int {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	store, prefs := loadPreferences()

	// The deferred Close calls run on normal return and while a panic on
	// this goroutine unwinds, so the global hook is never left installed.
	registrar := hotkey.NewRegistrar(hotkey.NewGohookSource())
	defer registrar.Close()

	ctrl := clicker.New(prefs, registrar, inject.NewMouseInjector(), store)
	defer ctrl.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runUI(ctx, ctrl, prefs.AlwaysOnTop)
	slog.Info("[main] goodbye")
	return 0
}

// loadPreferences opens the preferences store and loads it, falling back to
// defaults when the file is unreadable or malformed.
func loadPreferences() (*config.Store, config.Preferences) {
	path, err := config.DefaultPath()
	if err != nil {
		path = filepath.Join(".", config.FileName)
		slog.Warn("[main] no user cache dir, using working directory", "path", path, "error", err)
	}
	store := config.NewStore(path)

	prefs, err := store.Load()
	if err != nil {
		slog.Warn("[main] could not load preferences, using defaults", "path", path, "error", err)
		return store, config.Default()
	}
	slog.Info("[main] preferences loaded", "path", path,
		"hotkey", prefs.Hotkey, "rate", prefs.Rate, "always_on_top", prefs.AlwaysOnTop)
	return store, prefs
}
