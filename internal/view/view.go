// Package view derives the UI-facing zone list and now-playing record
// from raw player and queue state. Everything here is a pure function
// of its inputs.
package view

import (
	"sort"
	"strings"

	"github.com/ulilicht/Musikbar/pkg/maapi"
)

// Zone is the presentation-layer handle for a controllable player.
type Zone struct {
	Name      string `json:"name"`
	ID        string `json:"id"`
	IsGroup   bool   `json:"is_group"`
	IsPlaying bool   `json:"is_playing"`
}

// NowPlaying is the simplified playback view for one selected zone.
type NowPlaying struct {
	Artist       string `json:"artist"`
	Track        string `json:"track"`
	Image        string `json:"image"`
	IsPlaying    bool   `json:"is_playing"`
	IsLoading    bool   `json:"is_loading"`
	IsMuted      bool   `json:"is_muted"`
	Volume       int    `json:"volume"`
	CanPlayPause bool   `json:"can_play_pause"`
	CanPlayNext  bool   `json:"can_play_next"`
}

// MapZones maps every player to a zone, sorted by name ascending,
// case-insensitive.
func MapZones(players []maapi.Player) []Zone {
	zones := make([]Zone, 0, len(players))
	for _, p := range players {
		zones = append(zones, Zone{
			Name:      p.Name,
			ID:        p.PlayerID,
			IsGroup:   p.Type == maapi.PlayerTypeGroup || p.Type == maapi.PlayerTypeStereoPair,
			IsPlaying: p.State == maapi.StatePlaying,
		})
	}
	sort.SliceStable(zones, func(i, j int) bool {
		a, b := strings.ToLower(zones[i].Name), strings.ToLower(zones[j].Name)
		if a == b {
			return zones[i].Name < zones[j].Name
		}
		return a < b
	})
	return zones
}

// FindQueue returns the queue whose id matches the player id, nil if
// none exists yet.
func FindQueue(queues []maapi.PlayerQueue, playerID string) *maapi.PlayerQueue {
	for i := range queues {
		if queues[i].QueueID == playerID {
			return &queues[i]
		}
	}
	return nil
}

// DeriveNowPlaying computes the now-playing record for one player and
// its queue. When an external plugin source controls the player the
// queue reflects stale internal playback, so metadata and play state
// come from the player itself.
func DeriveNowPlaying(player maapi.Player, queue *maapi.PlayerQueue) NowPlaying {
	pluginActive := player.ActiveSource != "" &&
		player.ActiveSource != player.PlayerID &&
		player.CurrentMedia != nil &&
		player.CurrentMedia.MediaType == maapi.MediaTypePluginSource

	np := NowPlaying{
		IsMuted:      player.VolumeMuted,
		Volume:       player.VolumeLevel,
		CanPlayPause: player.HasFeature(maapi.FeaturePause) || player.HasFeature(maapi.FeaturePlayPause),
		CanPlayNext:  player.HasFeature(maapi.FeatureNext),
	}
	if !np.CanPlayNext && queue != nil && int(queue.Items) > queue.Index()+1 {
		np.CanPlayNext = true
	}

	np.Artist, np.Track, np.Image = metadata(player, queue, pluginActive)

	switch {
	case pluginActive:
		np.IsPlaying = player.State == maapi.StatePlaying
	case queue != nil:
		np.IsPlaying = queue.State == maapi.StatePlaying
	default:
		np.IsPlaying = player.State == maapi.StatePlaying
	}
	return np
}

// metadata picks artist, track and image with the precedence: plugin
// media, then queue current item, then player media, then empty.
func metadata(player maapi.Player, queue *maapi.PlayerQueue, pluginActive bool) (string, string, string) {
	if pluginActive {
		m := player.CurrentMedia
		return m.Artist, m.Title, m.ImageURL
	}
	if queue != nil && queue.CurrentItem != nil {
		item := queue.CurrentItem
		return itemArtist(item), item.Name, item.Image.Path
	}
	if player.CurrentMedia != nil {
		m := player.CurrentMedia
		return m.Artist, m.Title, m.ImageURL
	}
	return "", "", ""
}

// itemArtist handles the three artist shapes a queue item may carry: a
// single named artist, a list of named artists, or none.
func itemArtist(item *maapi.QueueItem) string {
	if item.Artist != nil {
		return item.Artist.Name
	}
	if len(item.Artists) > 0 {
		names := make([]string, 0, len(item.Artists))
		for _, a := range item.Artists {
			names = append(names, a.Name)
		}
		return strings.Join(names, ", ")
	}
	return ""
}

// AutoSelect picks the zone to activate: the zone whose name matches
// the persisted previous selection, else the first zone in sorted
// order. Returns false when no zone exists yet.
func AutoSelect(zones []Zone, persistedName string) (Zone, bool) {
	if len(zones) == 0 {
		return Zone{}, false
	}
	if persistedName != "" {
		for _, z := range zones {
			if z.Name == persistedName {
				return z, true
			}
		}
	}
	return zones[0], true
}
