//go:build !linux

package hotkey

func hookPrecondition() error {
	return nil
}
