// Package hotkey installs press-edge callbacks on global keyboard keys.
//
// A Registrar owns one OS hook (a Source) while at least one key is bound.
// Events are dispatched on a single goroutine; auto-repeat key-downs are
// dropped so a held key fires its callback exactly once.
package hotkey

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/1634-5e/click/internal/keys"
)

var (
	// ErrHookUnavailable reports that the OS keyboard hook could not be acquired.
	ErrHookUnavailable = errors.New("global keyboard hook unavailable")
	// ErrUnsupportedKey reports a key the hook backend has no code for.
	ErrUnsupportedKey = errors.New("key not supported by keyboard hook")
)

// Event is a raw key transition delivered by a Source.
type Event struct {
	Code uint16
	Down bool
}

// Source is an OS-level keyboard hook.
type Source interface {
	// Start installs the hook and returns the channel it delivers events on.
	Start() (<-chan Event, error)
	// Stop removes the hook. The event channel may be closed afterwards.
	Stop()
	// Code returns the event code for k, or false if k is unknown.
	Code(k keys.Key) (uint16, bool)
}

type binding struct {
	key     keys.Key
	onPress func()
}

// Registrar binds callbacks to keys.
type Registrar struct {
	src Source

	mu       sync.Mutex
	bindings map[uint16]binding
	held     map[uint16]bool
	running  bool
	run      uint64
	done     chan struct{}
}

// NewRegistrar creates a Registrar on top of src. The hook is not started
// until the first Install.
func NewRegistrar(src Source) *Registrar {
	return &Registrar{
		src:      src,
		bindings: make(map[uint16]binding),
		held:     make(map[uint16]bool),
	}
}

// Install registers onPress to run on each press edge of key, replacing any
// previous callback for key. onPress runs on the dispatch goroutine with the
// registrar locked: it must return promptly and must not call back into the
// Registrar.
func (r *Registrar) Install(key keys.Key, onPress func()) error {
	if onPress == nil {
		panic("hotkey: Install called with nil callback")
	}
	code, ok := r.src.Code(key)
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnsupportedKey, key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		events, err := r.src.Start()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrHookUnavailable, err)
		}
		r.running = true
		r.run++
		r.done = make(chan struct{})
		go r.loop(r.run, events, r.done)
		slog.Debug("[hotkey] hook started")
	}

	r.bindings[code] = binding{key: key, onPress: onPress}
	slog.Info("[hotkey] installed", "key", key)
	return nil
}

// Uninstall removes the callback for key. When no keys remain bound the OS
// hook is released. Once Uninstall returns the callback will not run again.
// Safe to call for keys that are not bound.
func (r *Registrar) Uninstall(key keys.Key) {
	code, ok := r.src.Code(key)
	if !ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, bound := r.bindings[code]; !bound {
		return
	}
	delete(r.bindings, code)
	slog.Info("[hotkey] uninstalled", "key", key)

	if len(r.bindings) == 0 {
		r.stopLocked()
	}
}

// Installed reports whether a callback is bound to key.
func (r *Registrar) Installed(key keys.Key) bool {
	code, ok := r.src.Code(key)
	if !ok {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, bound := r.bindings[code]
	return bound
}

// Len returns the number of bound keys.
func (r *Registrar) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bindings)
}

// Close removes every binding and releases the OS hook.
// It is safe to call multiple times.
func (r *Registrar) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.bindings)
	r.stopLocked()
}

// stopLocked releases the hook (caller must hold mu).
func (r *Registrar) stopLocked() {
	if !r.running {
		return
	}
	r.running = false
	close(r.done)
	clear(r.held)
	r.src.Stop()
	slog.Debug("[hotkey] hook stopped")
}

// loop forwards events of one hook run to dispatch until the run ends.
func (r *Registrar) loop(run uint64, events <-chan Event, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			r.dispatch(run, ev)
		}
	}
}

// dispatch applies press-edge filtering and runs the bound callback.
func (r *Registrar) dispatch(run uint64, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Events still buffered from a stopped run are dropped.
	if !r.running || r.run != run {
		return
	}

	if !ev.Down {
		delete(r.held, ev.Code)
		return
	}
	if r.held[ev.Code] {
		return // auto-repeat
	}
	r.held[ev.Code] = true

	if b, ok := r.bindings[ev.Code]; ok {
		b.onPress()
	}
}
