package settings

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	store := newTestStore(t)
	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
	if cfg.FavouritesSource != SourceRecents {
		t.Errorf("default source = %q", cfg.FavouritesSource)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	want := Settings{
		ServerURL:        "http://hub:8095",
		Token:            "tok",
		FavouritesSource: SourceRadio,
		ShownShortcuts:   Shortcuts{MA: true, Apple: true},
		Autostart:        false,
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestUpdateAppliesPartialChange(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(Settings{ServerURL: "http://hub:8095", Token: "tok"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cfg, err := store.Update(func(s *Settings) {
		s.FavouritesSource = SourceRandomArtist
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if cfg.FavouritesSource != SourceRandomArtist {
		t.Errorf("source = %q", cfg.FavouritesSource)
	}
	if cfg.ServerURL != "http://hub:8095" || cfg.Token != "tok" {
		t.Errorf("unrelated fields changed: %+v", cfg)
	}

	reloaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reloaded != cfg {
		t.Errorf("reloaded = %+v, want %+v", reloaded, cfg)
	}
}

func TestZoneStateRoundTrip(t *testing.T) {
	zs, err := NewZoneState(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("NewZoneState: %v", err)
	}

	name, err := zs.SelectedZoneName()
	if err != nil {
		t.Fatalf("SelectedZoneName: %v", err)
	}
	if name != "" {
		t.Errorf("name = %q before any selection", name)
	}

	if err := zs.SetSelectedZoneName("Kitchen"); err != nil {
		t.Fatalf("SetSelectedZoneName: %v", err)
	}
	name, err = zs.SelectedZoneName()
	if err != nil {
		t.Fatalf("SelectedZoneName: %v", err)
	}
	if name != "Kitchen" {
		t.Errorf("name = %q, want Kitchen", name)
	}
}

func TestWatchDeliversSavedSettings(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan Settings, 8)
	if err := store.Watch(ctx, func(cfg Settings) { changes <- cfg }); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := store.Save(Settings{ServerURL: "http://hub:8095", FavouritesSource: SourceRadio}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changes:
			if cfg.ServerURL == "http://hub:8095" && cfg.FavouritesSource == SourceRadio {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for settings change notification")
		}
	}
}
