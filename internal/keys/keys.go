// Package keys defines the closed set of keyboard keys that can be bound
// as the clicking hotkey.
package keys

import "fmt"

// Key identifies a single keyboard key. The zero value is not a valid key.
type Key uint8

const (
	_ Key = iota
	A
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z
	Num0
	Num1
	Num2
	Num3
	Num4
	Num5
	Num6
	Num7
	Num8
	Num9
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	Up
	Down
	Left
	Right
	Space
	Enter
	Tab
	Escape
	Shift
	Ctrl
	Alt

	numKeys
)

// keyInfo pairs the persisted name of a key with the name the OS hook
// library knows it by.
type keyInfo struct {
	name     string
	hookName string
}

var table = [numKeys]keyInfo{
	A: {"A", "a"}, B: {"B", "b"}, C: {"C", "c"}, D: {"D", "d"},
	E: {"E", "e"}, F: {"F", "f"}, G: {"G", "g"}, H: {"H", "h"},
	I: {"I", "i"}, J: {"J", "j"}, K: {"K", "k"}, L: {"L", "l"},
	M: {"M", "m"}, N: {"N", "n"}, O: {"O", "o"}, P: {"P", "p"},
	Q: {"Q", "q"}, R: {"R", "r"}, S: {"S", "s"}, T: {"T", "t"},
	U: {"U", "u"}, V: {"V", "v"}, W: {"W", "w"}, X: {"X", "x"},
	Y: {"Y", "y"}, Z: {"Z", "z"},

	Num0: {"Num0", "0"}, Num1: {"Num1", "1"}, Num2: {"Num2", "2"},
	Num3: {"Num3", "3"}, Num4: {"Num4", "4"}, Num5: {"Num5", "5"},
	Num6: {"Num6", "6"}, Num7: {"Num7", "7"}, Num8: {"Num8", "8"},
	Num9: {"Num9", "9"},

	F1: {"F1", "f1"}, F2: {"F2", "f2"}, F3: {"F3", "f3"}, F4: {"F4", "f4"},
	F5: {"F5", "f5"}, F6: {"F6", "f6"}, F7: {"F7", "f7"}, F8: {"F8", "f8"},
	F9: {"F9", "f9"}, F10: {"F10", "f10"}, F11: {"F11", "f11"}, F12: {"F12", "f12"},

	Up: {"Up", "up"}, Down: {"Down", "down"}, Left: {"Left", "left"}, Right: {"Right", "right"},

	Space:  {"Space", "space"},
	Enter:  {"Enter", "enter"},
	Tab:    {"Tab", "tab"},
	Escape: {"Escape", "esc"},
	Shift:  {"Shift", "shift"},
	Ctrl:   {"Ctrl", "ctrl"},
	Alt:    {"Alt", "alt"},
}

var byName = func() map[string]Key {
	m := make(map[string]Key, numKeys)
	for k := A; k < numKeys; k++ {
		m[table[k].name] = k
	}
	return m
}()

// All returns every bindable key in declaration order.
func All() []Key {
	out := make([]Key, 0, numKeys-1)
	for k := A; k < numKeys; k++ {
		out = append(out, k)
	}
	return out
}

// Valid reports whether k is a member of the enumeration.
func (k Key) Valid() bool {
	return k >= A && k < numKeys
}

// String returns the persisted name of k.
func (k Key) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Key(%d)", uint8(k))
	}
	return table[k].name
}

// HookName returns the lowercase key name used by the global hook library.
func (k Key) HookName() string {
	if !k.Valid() {
		return ""
	}
	return table[k].hookName
}

// Parse returns the key with the given persisted name. Names are
// case-sensitive ("F5", "Num1", "Escape").
func Parse(name string) (Key, error) {
	k, ok := byName[name]
	if !ok {
		return 0, fmt.Errorf("unknown key %q", name)
	}
	return k, nil
}

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid key %d", uint8(k))
	}
	return []byte(table[k].name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
