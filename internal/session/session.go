// Package session holds the shared "is a clicking session running" flag.
//
// The flag is read and written from three goroutines: the UI loop, the
// hotkey dispatch goroutine and the click worker. Every access goes through
// a single mutex; critical sections only read or flip the flag.
package session

import "sync"

// Status is the two-valued session state.
type Status int

const (
	// Idle means no clicking session is in progress.
	Idle Status = iota
	// Active means a clicking session is in progress.
	Active
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Active:
		return "Active"
	default:
		return "Status(?)"
	}
}

// State is the shared session flag. Each Idle→Active transition starts a
// new generation; a worker holds the generation it was started for and
// stops when that generation is no longer the active one.
type State struct {
	mu     sync.Mutex
	status Status
	gen    uint64

	starts uint64
	stops  uint64
}

// New returns a State in Idle.
func New() *State {
	return &State{}
}

// Status returns the current status.
func (s *State) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Toggle flips the status and returns the new status together with the
// generation of the session it now refers to.
func (s *State) Toggle() (Status, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == Active {
		s.status = Idle
		s.stops++
		return Idle, s.gen
	}
	s.gen++
	s.status = Active
	s.starts++
	return Active, s.gen
}

// Stop forces Idle. It reports whether a session was active.
func (s *State) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != Active {
		return false
	}
	s.status = Idle
	s.stops++
	return true
}

// Running reports whether generation gen is the active session.
func (s *State) Running(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == Active && s.gen == gen
}

// Transitions returns how many Idle→Active and Active→Idle transitions
// have happened since creation.
func (s *State) Transitions() (starts, stops uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts, s.stops
}
