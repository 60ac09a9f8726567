package maapi

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Player type values.
const (
	PlayerTypeGroup      = "group"
	PlayerTypeStereoPair = "stereo_pair"
)

// StatePlaying is the playback state reported for active playback.
const StatePlaying = "playing"

// MediaTypePluginSource marks media driven by an external plugin
// source (casting protocols and the like).
const MediaTypePluginSource = "plugin_source"

// Player feature flags relevant to the client.
const (
	FeaturePause     = "pause"
	FeaturePlayPause = "play_pause"
	FeatureNext      = "next"
)

// Player is a remote playback endpoint.
type Player struct {
	PlayerID          string       `json:"player_id"`
	Name              string       `json:"name"`
	Type              string       `json:"type"`
	State             string       `json:"state"`
	ActiveSource      string       `json:"active_source"`
	CurrentMedia      *PlayerMedia `json:"current_media"`
	VolumeLevel       int          `json:"volume_level"`
	VolumeMuted       bool         `json:"volume_muted"`
	SupportedFeatures []string     `json:"supported_features"`
}

// HasFeature reports whether the player advertises a feature flag.
func (p Player) HasFeature(name string) bool {
	for _, f := range p.SupportedFeatures {
		if f == name {
			return true
		}
	}
	return false
}

// PlayerMedia describes what a player itself reports as playing.
type PlayerMedia struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	ImageURL  string `json:"image_url"`
	MediaType string `json:"media_type"`
}

// PlayerQueue is the playback queue of a player. The queue id is
// expected to match a player id, though either side may transiently
// exist without the other.
type PlayerQueue struct {
	QueueID      string     `json:"queue_id"`
	State        string     `json:"state"`
	Items        ItemCount  `json:"items"`
	CurrentIndex *int       `json:"current_index"`
	CurrentItem  *QueueItem `json:"current_item"`
}

// Index returns the current queue index, -1 when the hub reports none.
func (q PlayerQueue) Index() int {
	if q.CurrentIndex == nil {
		return -1
	}
	return *q.CurrentIndex
}

// QueueItem is a single entry of a player queue.
type QueueItem struct {
	Name    string   `json:"name"`
	Artist  *Artist  `json:"artist"`
	Artists []Artist `json:"artists"`
	Image   ImageRef `json:"image"`
}

// Artist is a named artist reference.
type Artist struct {
	Name string `json:"name"`
}

// ItemCount decodes the queue "items" field, which the hub reports
// either as a plain count or as the item list itself.
type ItemCount int

func (c *ItemCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}
	if data[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*c = ItemCount(len(items))
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = ItemCount(n)
	return nil
}

// ImageRef decodes image fields that are either a plain URL string or
// an object carrying a path and a remote-accessibility flag.
type ImageRef struct {
	Path               string `json:"path"`
	RemotelyAccessible bool   `json:"remotely_accessible"`
}

func (r *ImageRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ImageRef{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = ImageRef{Path: s, RemotelyAccessible: true}
		return nil
	}
	type plain ImageRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = ImageRef(p)
	return nil
}

// IsZero reports whether no image is present.
func (r ImageRef) IsZero() bool { return r.Path == "" }

// URL resolves the image location, prefixing the hub base URL for
// images the hub does not serve publicly.
func (r ImageRef) URL(baseURL string) string {
	if r.Path == "" {
		return ""
	}
	if r.RemotelyAccessible {
		return r.Path
	}
	return strings.TrimRight(baseURL, "/") + r.Path
}

// MediaItem is a library or history item returned by music queries.
// Raw preserves the untouched hub payload so playback requests can
// hand the full object back for server-side expansion.
type MediaItem struct {
	ItemID    string        `json:"item_id"`
	URI       string        `json:"uri"`
	Name      string        `json:"name"`
	MediaType string        `json:"media_type"`
	Image     ImageRef      `json:"image"`
	Metadata  MediaMetadata `json:"metadata"`

	Raw json.RawMessage `json:"-"`
}

// MediaMetadata carries the nested metadata block of a media item.
type MediaMetadata struct {
	Images []ImageRef `json:"images"`
}

// DecodeMediaItems decodes a music query result, accepting either a
// bare array or an {items: [...]} wrapper.
func DecodeMediaItems(result json.RawMessage) ([]MediaItem, error) {
	raw := bytes.TrimSpace(result)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '{' {
		var wrapper struct {
			Items json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, err
		}
		raw = bytes.TrimSpace(wrapper.Items)
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			return nil, nil
		}
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, err
	}
	items := make([]MediaItem, 0, len(elems))
	for _, elem := range elems {
		var item MediaItem
		if err := json.Unmarshal(elem, &item); err != nil {
			return nil, err
		}
		item.Raw = elem
		items = append(items, item)
	}
	return items, nil
}
