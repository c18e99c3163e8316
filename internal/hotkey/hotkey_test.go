package hotkey

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/1634-5e/click/internal/keys"
)

// fakeSource is an in-memory Source. Codes are the key values themselves.
type fakeSource struct {
	mu       sync.Mutex
	ch       chan Event
	startErr error
	starts   int
	stops    int
}

func (f *fakeSource) Start() (<-chan Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return nil, f.startErr
	}
	f.starts++
	f.ch = make(chan Event, 64)
	return f.ch, nil
}

func (f *fakeSource) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	close(f.ch)
	f.ch = nil
}

func (f *fakeSource) Code(k keys.Key) (uint16, bool) {
	if !k.Valid() || k == keys.Alt {
		// Alt stands in for a key the backend cannot hook.
		return 0, false
	}
	return uint16(k), true
}

func (f *fakeSource) send(t *testing.T, evs ...Event) {
	t.Helper()
	f.mu.Lock()
	ch := f.ch
	f.mu.Unlock()
	if ch == nil {
		t.Fatal("send on stopped source")
	}
	for _, ev := range evs {
		ch <- ev
	}
}

func (f *fakeSource) counts() (starts, stops int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts, f.stops
}

func press(k keys.Key) Event   { return Event{Code: uint16(k), Down: true} }
func release(k keys.Key) Event { return Event{Code: uint16(k), Down: false} }

// installMarker binds a sentinel key whose callback signals on a channel.
// Because events are dispatched in order, receiving the marker proves every
// earlier event has been handled.
func installMarker(t *testing.T, r *Registrar) <-chan struct{} {
	t.Helper()
	marker := make(chan struct{}, 16)
	if err := r.Install(keys.Escape, func() { marker <- struct{}{} }); err != nil {
		t.Fatalf("Install(marker) error = %v", err)
	}
	return marker
}

func waitMarker(t *testing.T, src *fakeSource, marker <-chan struct{}) {
	t.Helper()
	src.send(t, press(keys.Escape), release(keys.Escape))
	select {
	case <-marker:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dispatch")
	}
}

func TestInstallStartsHookOnce(t *testing.T) {
	src := &fakeSource{}
	r := NewRegistrar(src)
	defer r.Close()

	if err := r.Install(keys.F5, func() {}); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if err := r.Install(keys.F6, func() {}); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	starts, _ := src.counts()
	if starts != 1 {
		t.Errorf("hook starts = %d, want 1", starts)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
	if !r.Installed(keys.F5) || !r.Installed(keys.F6) {
		t.Error("both keys should be installed")
	}
}

func TestPressEdgeIgnoresAutoRepeat(t *testing.T) {
	src := &fakeSource{}
	r := NewRegistrar(src)
	defer r.Close()

	var mu sync.Mutex
	fired := 0
	if err := r.Install(keys.F5, func() { mu.Lock(); fired++; mu.Unlock() }); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	marker := installMarker(t, r)

	// One long hold: the OS repeats the key-down many times.
	hold := []Event{press(keys.F5)}
	for i := 0; i < 50; i++ {
		hold = append(hold, press(keys.F5))
	}
	hold = append(hold, release(keys.F5))
	src.send(t, hold...)
	waitMarker(t, src, marker)

	mu.Lock()
	if fired != 1 {
		t.Errorf("callback fired %d times for one held press, want 1", fired)
	}
	mu.Unlock()

	// A second discrete press fires again.
	src.send(t, press(keys.F5), release(keys.F5))
	waitMarker(t, src, marker)

	mu.Lock()
	defer mu.Unlock()
	if fired != 2 {
		t.Errorf("callback fired %d times after second press, want 2", fired)
	}
}

func TestDiscretePressesFireEachTime(t *testing.T) {
	src := &fakeSource{}
	r := NewRegistrar(src)
	defer r.Close()

	var mu sync.Mutex
	fired := 0
	if err := r.Install(keys.A, func() { mu.Lock(); fired++; mu.Unlock() }); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	marker := installMarker(t, r)

	for i := 0; i < 7; i++ {
		src.send(t, press(keys.A), release(keys.A))
	}
	waitMarker(t, src, marker)

	mu.Lock()
	defer mu.Unlock()
	if fired != 7 {
		t.Errorf("callback fired %d times, want 7", fired)
	}
}

func TestUnboundKeysIgnored(t *testing.T) {
	src := &fakeSource{}
	r := NewRegistrar(src)
	defer r.Close()

	fired := make(chan struct{}, 4)
	if err := r.Install(keys.F5, func() { fired <- struct{}{} }); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	marker := installMarker(t, r)

	src.send(t, press(keys.F4), release(keys.F4))
	waitMarker(t, src, marker)

	select {
	case <-fired:
		t.Error("callback fired for a different key")
	default:
	}
}

func TestInstallReplacesCallback(t *testing.T) {
	src := &fakeSource{}
	r := NewRegistrar(src)
	defer r.Close()

	first := make(chan struct{}, 1)
	second := make(chan struct{}, 1)
	if err := r.Install(keys.F5, func() { first <- struct{}{} }); err != nil {
		t.Fatal(err)
	}
	if err := r.Install(keys.F5, func() { second <- struct{}{} }); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after replacing", r.Len())
	}
	marker := installMarker(t, r)

	src.send(t, press(keys.F5), release(keys.F5))
	waitMarker(t, src, marker)

	if len(first) != 0 {
		t.Error("replaced callback should not fire")
	}
	if len(second) != 1 {
		t.Error("replacement callback should fire once")
	}
}

func TestUninstallReleasesHook(t *testing.T) {
	src := &fakeSource{}
	r := NewRegistrar(src)

	if err := r.Install(keys.F5, func() {}); err != nil {
		t.Fatal(err)
	}
	r.Uninstall(keys.F5)

	if r.Installed(keys.F5) {
		t.Error("F5 should not be installed after Uninstall")
	}
	starts, stops := src.counts()
	if starts != 1 || stops != 1 {
		t.Errorf("hook starts/stops = %d/%d, want 1/1", starts, stops)
	}

	// Idempotent.
	r.Uninstall(keys.F5)
	r.Close()
	_, stops = src.counts()
	if stops != 1 {
		t.Errorf("hook stops = %d after repeated release, want 1", stops)
	}
}

func TestUninstallKeepsHookForOtherKeys(t *testing.T) {
	src := &fakeSource{}
	r := NewRegistrar(src)
	defer r.Close()

	f5 := make(chan struct{}, 4)
	if err := r.Install(keys.F5, func() { f5 <- struct{}{} }); err != nil {
		t.Fatal(err)
	}
	marker := installMarker(t, r)
	r.Uninstall(keys.F5)

	_, stops := src.counts()
	if stops != 0 {
		t.Fatalf("hook stopped while a key is still bound")
	}

	src.send(t, press(keys.F5), release(keys.F5))
	waitMarker(t, src, marker)
	if len(f5) != 0 {
		t.Error("uninstalled callback fired")
	}
}

func TestNoCallbackAfterUninstallReturns(t *testing.T) {
	src := &fakeSource{}
	r := NewRegistrar(src)
	defer r.Close()

	var mu sync.Mutex
	uninstalled := false
	late := false
	if err := r.Install(keys.F5, func() {
		mu.Lock()
		if uninstalled {
			late = true
		}
		mu.Unlock()
	}); err != nil {
		t.Fatal(err)
	}
	marker := installMarker(t, r)

	for i := 0; i < 20; i++ {
		src.send(t, press(keys.F5), release(keys.F5))
	}
	r.Uninstall(keys.F5)
	mu.Lock()
	uninstalled = true
	mu.Unlock()

	waitMarker(t, src, marker)

	mu.Lock()
	defer mu.Unlock()
	if late {
		t.Error("callback ran after Uninstall returned")
	}
}

func TestRestartAfterRelease(t *testing.T) {
	src := &fakeSource{}
	r := NewRegistrar(src)
	defer r.Close()

	if err := r.Install(keys.F5, func() {}); err != nil {
		t.Fatal(err)
	}
	r.Uninstall(keys.F5)

	fired := make(chan struct{}, 1)
	if err := r.Install(keys.F5, func() { fired <- struct{}{} }); err != nil {
		t.Fatalf("re-Install() error = %v", err)
	}
	src.send(t, press(keys.F5))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("callback did not fire after restarting the hook")
	}
	starts, _ := src.counts()
	if starts != 2 {
		t.Errorf("hook starts = %d, want 2", starts)
	}
}

func TestInstallHookUnavailable(t *testing.T) {
	src := &fakeSource{startErr: errors.New("no display")}
	r := NewRegistrar(src)
	defer r.Close()

	err := r.Install(keys.F5, func() {})
	if !errors.Is(err, ErrHookUnavailable) {
		t.Fatalf("Install() error = %v, want ErrHookUnavailable", err)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after failed Install", r.Len())
	}
}

func TestInstallUnsupportedKey(t *testing.T) {
	src := &fakeSource{}
	r := NewRegistrar(src)
	defer r.Close()

	err := r.Install(keys.Alt, func() {})
	if !errors.Is(err, ErrUnsupportedKey) {
		t.Fatalf("Install() error = %v, want ErrUnsupportedKey", err)
	}
	starts, _ := src.counts()
	if starts != 0 {
		t.Error("hook should not start for an unsupported key")
	}
}
