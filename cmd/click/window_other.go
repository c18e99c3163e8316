//go:build !windows

package main

import "errors"

func placeWindow(_ string, topmost bool) error {
	if !topmost {
		return nil
	}
	return errors.New("always-on-top is not supported on this platform")
}
