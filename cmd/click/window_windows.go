//go:build windows

package main

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32           = windows.NewLazySystemDLL("user32.dll")
	procFindWindowW  = user32.NewProc("FindWindowW")
	procSetWindowPos = user32.NewProc("SetWindowPos")
)

const (
	swpNoSize     = 0x0001
	swpNoActivate = 0x0010
)

var (
	hwndTop     uintptr = 0
	hwndTopmost         = ^uintptr(0) // (HWND)-1
)

// placeWindow moves the window titled title to (0, 0) and, when topmost is
// set, keeps it above other windows.
func placeWindow(title string, topmost bool) error {
	name, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return err
	}
	hwnd, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(name)))
	if hwnd == 0 {
		return fmt.Errorf("window %q not found", title)
	}

	after := hwndTop
	if topmost {
		after = hwndTopmost
	}
	ok, _, callErr := procSetWindowPos.Call(hwnd, after, 0, 0, 0, 0, swpNoSize|swpNoActivate)
	if ok == 0 {
		return fmt.Errorf("SetWindowPos: %w", callErr)
	}
	return nil
}
