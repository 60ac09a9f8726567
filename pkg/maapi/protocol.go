// Package maapi defines the wire types of the Music Assistant
// websocket API spoken by Musikbar.
package maapi

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Commands understood by the hub.
const (
	CmdAuth = "auth"

	CmdPlayersAll = "players/all"
	CmdQueuesAll  = "player_queues/all"

	CmdPlayerPlay      = "players/cmd/play"
	CmdPlayerPause     = "players/cmd/pause"
	CmdPlayerPlayPause = "players/cmd/play_pause"
	CmdPlayerNext      = "players/cmd/next"
	CmdPlayerPrevious  = "players/cmd/previous"
	CmdPlayerVolumeSet = "players/cmd/volume_set"
	CmdPlayerMute      = "players/cmd/volume_mute"

	CmdQueuePlayMedia = "player_queues/play_media"

	CmdRecentlyPlayed  = "music/recently_played_items"
	CmdRadioLibrary    = "music/radios/library_items"
	CmdPlaylistLibrary = "music/playlists/library_items"
	CmdArtistLibrary   = "music/artists/library_items"
)

// Push event names sent by the hub.
const (
	EventPlayerAdded   = "player_added"
	EventPlayerUpdated = "player_updated"
	EventPlayerRemoved = "player_removed"
	EventQueueUpdated  = "queue_updated"
)

// CommandMessage is the outbound command envelope.
type CommandMessage struct {
	MessageID uint64         `json:"message_id"`
	Command   string         `json:"command"`
	Args      map[string]any `json:"args"`
}

// ServerMessage is the decoded form of any inbound frame. Frames
// carrying an event name are push events; everything else is a
// command response matched by message id.
type ServerMessage struct {
	MessageID json.RawMessage `json:"message_id,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	Event     string          `json:"event,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// IsEvent reports whether the frame is a push event.
func (m *ServerMessage) IsEvent() bool { return m.Event != "" }

// ResponseID returns the numeric message id of a response frame. The
// hub sometimes encodes ids as strings, so both forms are accepted.
func (m *ServerMessage) ResponseID() (uint64, bool) {
	raw := bytes.TrimSpace(m.MessageID)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}
	raw = bytes.Trim(raw, `"`)
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
