// Package settings persists Musikbar preferences and the selected
// zone name, and notifies the app when the settings file changes on
// disk.
package settings

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// Favourites source values.
const (
	SourceRecents           = "recents"
	SourceRadio             = "radio"
	SourceFavoritesPlaylist = "favorites_playlist"
	SourceRandomArtist      = "random_artist"
)

// Settings holds the user preferences.
type Settings struct {
	ServerURL        string    `toml:"server_url"`
	Token            string    `toml:"token"`
	FavouritesSource string    `toml:"favourites_source"`
	ShownShortcuts   Shortcuts `toml:"shown_shortcuts"`
	Autostart        bool      `toml:"autostart"`
}

// Shortcuts selects which app shortcuts the menu shows.
type Shortcuts struct {
	MA      bool `toml:"ma"`
	Spotify bool `toml:"spotify"`
	Apple   bool `toml:"apple"`
}

// Default returns the settings used before the user saves anything.
func Default() Settings {
	return Settings{
		FavouritesSource: SourceRecents,
		ShownShortcuts:   Shortcuts{MA: true, Spotify: true, Apple: false},
		Autostart:        true,
	}
}

// Store loads and saves the settings file.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store at path, or at the default location when
// path is empty.
func NewStore(path string) (*Store, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return &Store{path: path}, nil
}

// Path returns the settings file location.
func (s *Store) Path() string { return s.path }

// Load reads the settings file. A missing file yields the defaults.
func (s *Store) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() (Settings, error) {
	cfg := Default()
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Settings{}, err
	}
	if _, err := toml.DecodeFile(s.path, &cfg); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

// Save writes the full settings file.
func (s *Store) Save(cfg Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(cfg)
}

func (s *Store) saveLocked(cfg Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	file, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(cfg)
}

// Update applies a partial change on top of the current settings and
// saves the result.
func (s *Store) Update(apply func(*Settings)) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.loadLocked()
	if err != nil {
		return Settings{}, err
	}
	apply(&cfg)
	if err := s.saveLocked(cfg); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

// DefaultPath returns the default settings file location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "musikbar", "config.toml"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "musikbar", "config.toml"), nil
}
