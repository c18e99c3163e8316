// Package clicker is the click-dispatch engine: the controller that arms a
// global hotkey, the hotkey callback that toggles the session, and the
// worker that emits clicks while the session is active.
//
// Three goroutines meet here. The UI goroutine owns the Controller and is
// the only caller of its exported methods. The hotkey dispatch goroutine
// runs onHotkey. Each session runs one worker goroutine. They share only
// the session.State and the rate cell.
package clicker

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/1634-5e/click/internal/config"
	"github.com/1634-5e/click/internal/inject"
	"github.com/1634-5e/click/internal/keys"
	"github.com/1634-5e/click/internal/session"
)

// Primary button labels.
const (
	LabelDisarmed = "Click to start service..."
	LabelInactive = "Inactive"
	LabelActive   = "Active"
)

// ErrArmed reports an edit that is only allowed while disarmed. While armed
// only the click rate may change.
var ErrArmed = errors.New("only the click rate can change while armed")

// Mode tells whether the controller has its hotkey installed.
type Mode int

const (
	Disarmed Mode = iota
	Armed
)

func (m Mode) String() string {
	if m == Armed {
		return "Armed"
	}
	return "Disarmed"
}

// Registrar installs and removes press-edge hotkey callbacks.
type Registrar interface {
	Install(key keys.Key, onPress func()) error
	Uninstall(key keys.Key)
}

// Saver persists preferences.
type Saver interface {
	Save(p config.Preferences) error
}

// View is what the UI renders each frame.
type View struct {
	Mode        Mode
	Session     session.Status
	Rate        config.Rate
	AlwaysOnTop bool
	Hotkey      keys.Key
	Primary     string
	Err         string
}

// Controller is the UI-side state machine.
type Controller struct {
	reg   Registrar
	store Saver
	state *session.State
	w     worker

	// Owned by the UI goroutine.
	prefs    config.Preferences
	dirty    bool
	mode     Mode
	armedKey keys.Key
	lastErr  error
	saveErr  error

	// Rate handed to the next session; written by the UI, read by onHotkey.
	rate atomic.Int64

	workerMu sync.Mutex
	lastDone chan struct{}
	workers  sync.WaitGroup
}

// New creates a disarmed Controller. Panics if prefs are invalid
// (programmer error: stores only hand out validated preferences).
func New(prefs config.Preferences, reg Registrar, sink inject.ClickInjector, store Saver) *Controller {
	if err := prefs.Validate(); err != nil {
		panic(fmt.Sprintf("clicker: New called with invalid preferences: %v", err))
	}
	state := session.New()
	c := &Controller{
		reg:   reg,
		store: store,
		state: state,
		w: worker{
			sink:  sink,
			state: state,
			sleep: time.Sleep,
		},
		prefs: prefs,
	}
	c.rate.Store(int64(prefs.Rate))
	return c
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Preferences returns the in-memory preferences.
func (c *Controller) Preferences() config.Preferences {
	return c.prefs
}

// Dirty reports whether a save is pending.
func (c *Controller) Dirty() bool {
	return c.dirty
}

// Session returns the current session status.
func (c *Controller) Session() session.Status {
	return c.state.Status()
}

// Arm installs the hotkey. If the hook is unavailable the controller stays
// disarmed and the error is kept for display. Arming twice is a
// programming error and panics.
func (c *Controller) Arm() error {
	if c.mode == Armed {
		panic("clicker: Arm called while armed")
	}

	key := c.prefs.Hotkey
	c.rate.Store(int64(c.prefs.Rate))
	if err := c.reg.Install(key, c.onHotkey); err != nil {
		c.lastErr = err
		slog.Error("[clicker] arming failed", "key", key, "error", err)
		return fmt.Errorf("arming %v: %w", key, err)
	}

	c.lastErr = nil
	c.armedKey = key
	c.mode = Armed
	slog.Info("[clicker] armed", "key", key, "rate", c.prefs.Rate)
	return nil
}

// Disarm removes the hotkey and stops any running session. Disarming while
// disarmed is a programming error and panics.
func (c *Controller) Disarm() {
	if c.mode != Armed {
		panic("clicker: Disarm called while disarmed")
	}

	c.reg.Uninstall(c.armedKey)
	if c.state.Stop() {
		slog.Info("[clicker] session stopped by disarm")
	}
	c.mode = Disarmed
	slog.Info("[clicker] disarmed", "key", c.armedKey)
}

// PressPrimary handles a click on the primary button.
func (c *Controller) PressPrimary() {
	switch c.mode {
	case Disarmed:
		_ = c.Arm() // error is surfaced through View
	case Armed:
		c.Disarm()
	}
}

// SetRate commits a new click rate. Accepted in both modes; a running
// session keeps its rate and the next session uses the new one.
func (c *Controller) SetRate(r config.Rate) error {
	if !r.Valid() {
		return fmt.Errorf("%w: %d", config.ErrInvalidRate, r)
	}
	if r == c.prefs.Rate {
		return nil
	}
	c.prefs.Rate = r
	c.rate.Store(int64(r))
	c.dirty = true
	return nil
}

// SetHotkey changes the bound key. Only allowed while disarmed.
func (c *Controller) SetHotkey(k keys.Key) error {
	if c.mode == Armed {
		return ErrArmed
	}
	if !k.Valid() {
		return fmt.Errorf("invalid hotkey %v", k)
	}
	if k == c.prefs.Hotkey {
		return nil
	}
	c.prefs.Hotkey = k
	c.dirty = true
	return nil
}

// ToggleAlwaysOnTop flips the always-on-top preference. Only allowed while
// disarmed. The window picks it up on next launch.
func (c *Controller) ToggleAlwaysOnTop() error {
	if c.mode == Armed {
		return ErrArmed
	}
	c.prefs.AlwaysOnTop = !c.prefs.AlwaysOnTop
	c.dirty = true
	return nil
}

// Tick runs once per UI frame and saves pending preference edits. A failed
// save leaves the edit pending so the next frame retries it.
func (c *Controller) Tick() {
	if !c.dirty {
		return
	}
	if err := c.store.Save(c.prefs); err != nil {
		if c.saveErr == nil || c.saveErr.Error() != err.Error() {
			slog.Error("[clicker] saving preferences failed", "error", err)
		}
		c.saveErr = err
		return
	}
	if c.saveErr != nil {
		slog.Info("[clicker] saving preferences recovered")
	}
	c.saveErr = nil
	c.dirty = false
}

// View returns a snapshot for rendering.
func (c *Controller) View() View {
	v := View{
		Mode:        c.mode,
		Session:     c.state.Status(),
		Rate:        c.prefs.Rate,
		AlwaysOnTop: c.prefs.AlwaysOnTop,
		Hotkey:      c.prefs.Hotkey,
	}
	switch {
	case c.mode == Disarmed:
		v.Primary = LabelDisarmed
	case v.Session == session.Active:
		v.Primary = LabelActive
	default:
		v.Primary = LabelInactive
	}
	if c.lastErr != nil {
		v.Err = c.lastErr.Error()
	}
	return v
}

// Close disarms, flushes pending preferences and waits for the last worker
// to finish. Used on process exit.
func (c *Controller) Close() {
	if c.mode == Armed {
		c.Disarm()
	}
	c.Tick()
	c.workers.Wait()
}

// onHotkey runs on the hotkey dispatch goroutine for each press edge. It
// must not block: the worker goes on its own goroutine.
func (c *Controller) onHotkey() {
	status, gen := c.state.Toggle()
	if status != session.Active {
		slog.Debug("[clicker] session stopping", "session", gen)
		return
	}

	rate := config.Rate(c.rate.Load())
	slog.Debug("[clicker] session starting", "session", gen, "rate", rate)
	c.spawn(gen, rate)
}

// spawn starts the worker for session gen. The new worker waits for the
// previous one to exit before its first click, so clicks never come from
// two workers at once.
func (c *Controller) spawn(gen uint64, rate config.Rate) {
	c.workerMu.Lock()
	prev := c.lastDone
	done := make(chan struct{})
	c.lastDone = done
	c.workerMu.Unlock()

	c.workers.Add(1)
	go func() {
		defer c.workers.Done()
		defer close(done)

		if prev != nil {
			<-prev
		}
		if !c.state.Running(gen) {
			return
		}
		n := c.w.run(gen, rate)
		slog.Debug("[clicker] worker exited", "session", gen, "clicks", n)
	}()
}
