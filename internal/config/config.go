// Package config holds the persisted user preferences and the store that
// loads and saves them.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1634-5e/click/internal/keys"
)

const (
	// AppName names the per-user cache directory.
	AppName = "Click"
	// FileName is the preferences file inside the cache directory.
	FileName = "saved_config"

	MinRate Rate = 1
	MaxRate Rate = 100
)

var (
	// ErrPreferencesIO reports a failure reading or writing the preferences file.
	ErrPreferencesIO = errors.New("preferences io error")
	// ErrPreferencesFormat reports a preferences file that could not be decoded
	// or holds out-of-range values.
	ErrPreferencesFormat = errors.New("preferences format error")
	// ErrInvalidRate reports a click rate outside [MinRate, MaxRate].
	ErrInvalidRate = errors.New("invalid click rate")
)

// Rate is a click frequency in clicks per second.
type Rate int

// Valid reports whether r lies in [MinRate, MaxRate].
func (r Rate) Valid() bool {
	return r >= MinRate && r <= MaxRate
}

// Period returns the pause between two clicks, floor(1000/r) milliseconds.
func (r Rate) Period() time.Duration {
	if r <= 0 {
		return 0
	}
	return time.Duration(1000/int(r)) * time.Millisecond
}

// PollEvery returns how many clicks a worker emits between two checks of
// the session state. At every supported rate this is about 100ms of clicking.
func (r Rate) PollEvery() int {
	return int(r)/10 + 1
}

// Preferences is the record persisted between runs.
type Preferences struct {
	Hotkey      keys.Key `yaml:"key_bind"`
	Rate        Rate     `yaml:"freq"`
	AlwaysOnTop bool     `yaml:"always_on_top"`
}

// Default returns the preferences used when nothing has been saved yet.
func Default() Preferences {
	return Preferences{
		Hotkey:      keys.F5,
		Rate:        10,
		AlwaysOnTop: true,
	}
}

// Validate checks the preferences for invalid values.
func (p Preferences) Validate() error {
	if !p.Hotkey.Valid() {
		return fmt.Errorf("key_bind must be a known key, got %d", uint8(p.Hotkey))
	}
	if !p.Rate.Valid() {
		return fmt.Errorf("%w: freq must be in [%d, %d], got %d", ErrInvalidRate, MinRate, MaxRate, p.Rate)
	}
	return nil
}

// DefaultDir returns the per-user cache directory for the application.
func DefaultDir() (string, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%w: locating user cache dir: %v", ErrPreferencesIO, err)
	}
	return filepath.Join(cache, AppName), nil
}

// DefaultPath returns the default preferences file path.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Store loads and saves Preferences at a fixed path.
type Store struct {
	path string
}

// NewStore creates a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Load reads the preferences file. A missing file yields Default() and a
// nil error. Missing fields are filled with defaults. The file is YAML;
// JSON records load as well.
func (s *Store) Load() (Preferences, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("%w: reading %s: %v", ErrPreferencesIO, s.path, err)
	}

	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("%w: parsing %s: %v", ErrPreferencesFormat, s.path, err)
	}
	if err := p.Validate(); err != nil {
		return Default(), fmt.Errorf("%w: %s: %v", ErrPreferencesFormat, s.path, err)
	}
	return p, nil
}

// Save writes p atomically: the record goes to a temporary file that is
// then renamed over the previous one.
func (s *Store) Save(p Preferences) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: refusing to save: %w", ErrPreferencesFormat, err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("%w: encoding preferences: %v", ErrPreferencesIO, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("%w: creating preferences dir: %v", ErrPreferencesIO, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%w: writing preferences: %v", ErrPreferencesIO, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: persisting preferences: %v", ErrPreferencesIO, err)
	}
	return nil
}
