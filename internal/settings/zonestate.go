package settings

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// ZoneState persists the selected zone between runs. The zone is
// remembered by name, not id, so a renamed or re-registered player
// loses the selection while a restarted one keeps it.
type ZoneState struct {
	path string
	mu   sync.Mutex
}

type zoneStateFile struct {
	SelectedZoneName string `json:"selected_zone_name"`
}

// NewZoneState creates the zone state store at path, or at the
// default location when path is empty.
func NewZoneState(path string) (*ZoneState, error) {
	if path == "" {
		var err error
		path, err = defaultZoneStatePath()
		if err != nil {
			return nil, err
		}
	}
	return &ZoneState{path: path}, nil
}

// SelectedZoneName returns the persisted zone name, empty when none
// was ever selected.
func (z *ZoneState) SelectedZoneName() (string, error) {
	z.mu.Lock()
	defer z.mu.Unlock()

	data, err := os.ReadFile(z.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	var file zoneStateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return "", err
	}
	return file.SelectedZoneName, nil
}

// SetSelectedZoneName persists the zone name.
func (z *ZoneState) SetSelectedZoneName(name string) error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(z.path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(zoneStateFile{SelectedZoneName: name}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(z.path, payload, 0o600)
}

func defaultZoneStatePath() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "musikbar", "state.json"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "musikbar", "state.json"), nil
}
