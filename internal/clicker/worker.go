package clicker

import (
	"log/slog"
	"time"

	"github.com/1634-5e/click/internal/config"
	"github.com/1634-5e/click/internal/inject"
	"github.com/1634-5e/click/internal/session"
)

// maxClicks caps the clicks a single worker emits, so a worker whose stop
// signal is never observed still terminates.
const maxClicks = 200

// worker emits clicks for one session.
type worker struct {
	sink  inject.ClickInjector
	state *session.State
	sleep func(time.Duration)
}

// run clicks at rate until session gen ends or maxClicks is reached, and
// returns the number of clicks attempted. The session is checked every
// rate.PollEvery() clicks, which bounds the clicks emitted after a stop.
// Reaching the cap only ends the worker; the session stays Active until the
// hotkey or a disarm ends it.
func (w *worker) run(gen uint64, rate config.Rate) int {
	period := rate.Period()
	pollEvery := rate.PollEvery()
	failed := 0

	for i := 0; i < maxClicks; i++ {
		if err := w.sink.LeftClick(); err != nil {
			failed++
			slog.Warn("[clicker] click injection failed", "error", err, "click", i+1)
		}
		w.sleep(period)

		if (i+1)%pollEvery == 0 && !w.state.Running(gen) {
			if failed > 0 {
				slog.Warn("[clicker] session ended with failed clicks", "failed", failed, "clicks", i+1)
			}
			return i + 1
		}
	}

	slog.Warn("[clicker] click limit reached, worker stopped", "session", gen, "clicks", maxClicks, "failed", failed)
	return maxClicks
}
