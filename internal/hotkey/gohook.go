package hotkey

import (
	"fmt"
	"sync"

	hook "github.com/robotn/gohook"

	"github.com/1634-5e/click/internal/keys"
)

// GohookSource is a Source backed by gohook (libuiohook).
type GohookSource struct {
	mu   sync.Mutex
	stop chan struct{}
}

// Compile-time interface satisfaction check.
var _ Source = (*GohookSource)(nil)

// NewGohookSource creates a Source using the process-wide gohook hook.
// Only one GohookSource may be started at a time.
func NewGohookSource() *GohookSource {
	return &GohookSource{}
}

// Code maps k to its libuiohook virtual key code.
func (s *GohookSource) Code(k keys.Key) (uint16, bool) {
	name := k.HookName()
	if name == "" {
		return 0, false
	}
	code, ok := hook.Keycode[name]
	return code, ok
}

// Start installs the global hook.
func (s *GohookSource) Start() (events <-chan Event, err error) {
	if err := hookPrecondition(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return nil, fmt.Errorf("hook already started")
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("starting hook: %v", r)
		}
	}()

	raw := hook.Start()
	out := make(chan Event, 64)
	stop := make(chan struct{})
	go translate(raw, out, stop)
	s.stop = stop
	return out, nil
}

// Stop releases the global hook. It is safe to call when not started.
func (s *GohookSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
	hook.End()
}

// translate converts gohook events to key transitions. libuiohook reports a
// physical key press as KeyHold (repeated while the key auto-repeats) and a
// release as KeyUp; KeyDown is the typed-character event, which never fires
// for keys such as F5.
func translate(raw chan hook.Event, out chan<- Event, stop <-chan struct{}) {
	defer close(out)
	for {
		select {
		case <-stop:
			return
		case ev, ok := <-raw:
			if !ok {
				return
			}
			var e Event
			switch ev.Kind {
			case hook.KeyHold:
				e = Event{Code: ev.Keycode, Down: true}
			case hook.KeyUp:
				e = Event{Code: ev.Keycode, Down: false}
			default:
				continue
			}
			select {
			case out <- e:
			case <-stop:
				return
			}
		}
	}
}
