// Package inject synthesizes mouse clicks in the foreground application
// using robotgo.
package inject

import (
	"errors"
	"fmt"

	"github.com/go-vgo/robotgo"
)

// ErrInjection reports that the OS refused a synthetic click.
var ErrInjection = errors.New("click injection failed")

// ClickInjector emits one primary-button click at the current cursor position.
type ClickInjector interface {
	LeftClick() error
}

// MouseInjector presses and releases the left mouse button through robotgo.
type MouseInjector struct {
	toggle func(args ...interface{}) error
}

// Compile-time interface satisfaction check.
var _ ClickInjector = (*MouseInjector)(nil)

// NewMouseInjector creates a MouseInjector.
func NewMouseInjector() *MouseInjector {
	return &MouseInjector{toggle: robotgo.Toggle}
}

// LeftClick sends a left button press followed by a release. If the press
// is refused the release is not attempted.
func (m *MouseInjector) LeftClick() error {
	if err := m.toggle("left", "down"); err != nil {
		return fmt.Errorf("%w: press: %v", ErrInjection, err)
	}
	if err := m.toggle("left", "up"); err != nil {
		return fmt.Errorf("%w: release: %v", ErrInjection, err)
	}
	return nil
}
