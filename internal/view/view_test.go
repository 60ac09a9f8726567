package view

import (
	"reflect"
	"testing"

	"github.com/ulilicht/Musikbar/pkg/maapi"
)

func intp(v int) *int { return &v }

func TestMapZonesSortedCaseInsensitive(t *testing.T) {
	players := []maapi.Player{
		{PlayerID: "p3", Name: "office", State: "idle"},
		{PlayerID: "p1", Name: "Kitchen", State: "playing"},
		{PlayerID: "p2", Name: "Bedroom", Type: "group"},
	}

	zones := MapZones(players)
	names := []string{zones[0].Name, zones[1].Name, zones[2].Name}
	if !reflect.DeepEqual(names, []string{"Bedroom", "Kitchen", "office"}) {
		t.Errorf("order = %v", names)
	}
	if !zones[0].IsGroup || zones[1].IsGroup {
		t.Error("IsGroup mapping wrong")
	}
	if !zones[1].IsPlaying || zones[2].IsPlaying {
		t.Error("IsPlaying mapping wrong")
	}

	again := MapZones(players)
	if !reflect.DeepEqual(zones, again) {
		t.Error("MapZones is not idempotent")
	}
}

func TestPluginSourcePrecedence(t *testing.T) {
	player := maapi.Player{
		PlayerID:     "p1",
		State:        "playing",
		ActiveSource: "spotify_connect",
		CurrentMedia: &maapi.PlayerMedia{
			Title:     "Live Track",
			Artist:    "Live Artist",
			ImageURL:  "https://cdn/live.jpg",
			MediaType: "plugin_source",
		},
	}
	staleQueue := &maapi.PlayerQueue{
		QueueID: "p1",
		State:   "paused",
		CurrentItem: &maapi.QueueItem{
			Name:   "Stale Track",
			Artist: &maapi.Artist{Name: "Stale Artist"},
		},
	}

	np := DeriveNowPlaying(player, staleQueue)
	if np.Track != "Live Track" || np.Artist != "Live Artist" || np.Image != "https://cdn/live.jpg" {
		t.Errorf("plugin metadata not preferred: %+v", np)
	}
	if !np.IsPlaying {
		t.Error("play state should come from the player, not the stale queue")
	}
}

func TestQueueMetadataPreferredOverPlayerMedia(t *testing.T) {
	player := maapi.Player{
		PlayerID:     "p1",
		State:        "idle",
		CurrentMedia: &maapi.PlayerMedia{Title: "Player Track", Artist: "Player Artist"},
	}
	queue := &maapi.PlayerQueue{
		QueueID: "p1",
		State:   "playing",
		CurrentItem: &maapi.QueueItem{
			Name: "Queue Track",
			Artists: []maapi.Artist{
				{Name: "First"},
				{Name: "Second"},
			},
		},
	}

	np := DeriveNowPlaying(player, queue)
	if np.Track != "Queue Track" {
		t.Errorf("Track = %q", np.Track)
	}
	if np.Artist != "First, Second" {
		t.Errorf("Artist = %q, want joined list", np.Artist)
	}
	if !np.IsPlaying {
		t.Error("play state should come from the queue")
	}
}

func TestMetadataFallsBackToPlayerMediaThenEmpty(t *testing.T) {
	player := maapi.Player{
		PlayerID:     "p1",
		CurrentMedia: &maapi.PlayerMedia{Title: "Radio", Artist: "Host"},
	}
	np := DeriveNowPlaying(player, nil)
	if np.Track != "Radio" || np.Artist != "Host" {
		t.Errorf("fallback to player media failed: %+v", np)
	}

	bare := DeriveNowPlaying(maapi.Player{PlayerID: "p2"}, nil)
	if bare.Track != "" || bare.Artist != "" || bare.Image != "" {
		t.Errorf("empty player should derive empty metadata: %+v", bare)
	}
}

func TestCanPlayPauseFromFeatures(t *testing.T) {
	with := maapi.Player{SupportedFeatures: []string{"play_pause"}}
	if !DeriveNowPlaying(with, nil).CanPlayPause {
		t.Error("play_pause feature should enable CanPlayPause")
	}
	without := maapi.Player{SupportedFeatures: []string{"power"}}
	if DeriveNowPlaying(without, nil).CanPlayPause {
		t.Error("CanPlayPause without pause features")
	}
}

func TestCanPlayNextQueueFallback(t *testing.T) {
	player := maapi.Player{PlayerID: "p1", SupportedFeatures: []string{"pause"}}

	midQueue := &maapi.PlayerQueue{QueueID: "p1", Items: 5, CurrentIndex: intp(2)}
	if !DeriveNowPlaying(player, midQueue).CanPlayNext {
		t.Error("CanPlayNext = false with items ahead")
	}

	lastItem := &maapi.PlayerQueue{QueueID: "p1", Items: 5, CurrentIndex: intp(4)}
	if DeriveNowPlaying(player, lastItem).CanPlayNext {
		t.Error("CanPlayNext = true at the end of the queue")
	}

	noIndex := &maapi.PlayerQueue{QueueID: "p1", Items: 1}
	if !DeriveNowPlaying(player, noIndex).CanPlayNext {
		t.Error("a missing current index should count as -1")
	}
}

func TestCanPlayNextFeatureWins(t *testing.T) {
	player := maapi.Player{PlayerID: "p1", SupportedFeatures: []string{"next"}}
	if !DeriveNowPlaying(player, nil).CanPlayNext {
		t.Error("next feature should enable CanPlayNext without a queue")
	}
}

func TestAutoSelectPersistedNameWins(t *testing.T) {
	zones := []Zone{{Name: "Kitchen", ID: "p1"}, {Name: "Office", ID: "p2"}}

	z, ok := AutoSelect(zones, "Office")
	if !ok || z.ID != "p2" {
		t.Errorf("AutoSelect = %+v, %v, want Office", z, ok)
	}

	z, ok = AutoSelect(zones, "")
	if !ok || z.ID != "p1" {
		t.Errorf("AutoSelect = %+v, %v, want first zone", z, ok)
	}

	z, ok = AutoSelect(zones, "Basement")
	if !ok || z.ID != "p1" {
		t.Errorf("AutoSelect with stale name = %+v, %v, want first zone", z, ok)
	}

	if _, ok := AutoSelect(nil, "Office"); ok {
		t.Error("AutoSelect with no zones should report false")
	}
}

func TestFindQueue(t *testing.T) {
	queues := []maapi.PlayerQueue{{QueueID: "a"}, {QueueID: "b"}}
	if q := FindQueue(queues, "b"); q == nil || q.QueueID != "b" {
		t.Errorf("FindQueue = %+v", q)
	}
	if q := FindQueue(queues, "c"); q != nil {
		t.Errorf("FindQueue for unknown id = %+v, want nil", q)
	}
}
