package client

import (
	"context"
	"encoding/json"
	"math/rand"

	"github.com/ulilicht/Musikbar/pkg/maapi"
)

// FavouritesLimit caps every music query used for the favourites
// strip.
const FavouritesLimit = 20

// Play starts playback on a player.
func (c *Client) Play(ctx context.Context, playerID string) error {
	_, err := c.Send(ctx, maapi.CmdPlayerPlay, map[string]any{"player_id": playerID})
	return err
}

// Pause pauses playback on a player.
func (c *Client) Pause(ctx context.Context, playerID string) error {
	_, err := c.Send(ctx, maapi.CmdPlayerPause, map[string]any{"player_id": playerID})
	return err
}

// PlayPause toggles playback on a player.
func (c *Client) PlayPause(ctx context.Context, playerID string) error {
	_, err := c.Send(ctx, maapi.CmdPlayerPlayPause, map[string]any{"player_id": playerID})
	return err
}

// Next skips to the next queue item.
func (c *Client) Next(ctx context.Context, playerID string) error {
	_, err := c.Send(ctx, maapi.CmdPlayerNext, map[string]any{"player_id": playerID})
	return err
}

// Previous skips back to the previous queue item.
func (c *Client) Previous(ctx context.Context, playerID string) error {
	_, err := c.Send(ctx, maapi.CmdPlayerPrevious, map[string]any{"player_id": playerID})
	return err
}

// SetVolume sets the absolute volume level (0-100) of a player.
func (c *Client) SetVolume(ctx context.Context, playerID string, level int) error {
	_, err := c.Send(ctx, maapi.CmdPlayerVolumeSet, map[string]any{
		"player_id":    playerID,
		"volume_level": level,
	})
	return err
}

// SetMute mutes or unmutes a player.
func (c *Client) SetMute(ctx context.Context, playerID string, muted bool) error {
	_, err := c.Send(ctx, maapi.CmdPlayerMute, map[string]any{
		"player_id": playerID,
		"is_muted":  muted,
	})
	return err
}

// PlayMedia enqueues media on a player queue. media is either a URI
// string or a full hub media item, which the hub expands server-side
// for albums and playlists.
func (c *Client) PlayMedia(ctx context.Context, queueID string, media any) error {
	_, err := c.Send(ctx, maapi.CmdQueuePlayMedia, map[string]any{
		"queue_id": queueID,
		"media":    media,
	})
	return err
}

// RecentlyPlayed returns the most recently played items.
func (c *Client) RecentlyPlayed(ctx context.Context, limit int) ([]maapi.MediaItem, error) {
	result, err := c.Send(ctx, maapi.CmdRecentlyPlayed, map[string]any{"limit": limit})
	if err != nil {
		return nil, err
	}
	return decodeLimited(result, limit)
}

// Radios returns favourite radio stations from the library.
func (c *Client) Radios(ctx context.Context, limit int) ([]maapi.MediaItem, error) {
	result, err := c.Send(ctx, maapi.CmdRadioLibrary, nil)
	if err != nil {
		return nil, err
	}
	return decodeLimited(result, limit)
}

// Playlists returns favourite playlists from the library.
func (c *Client) Playlists(ctx context.Context, limit int) ([]maapi.MediaItem, error) {
	result, err := c.Send(ctx, maapi.CmdPlaylistLibrary, nil)
	if err != nil {
		return nil, err
	}
	return decodeLimited(result, limit)
}

// Artists returns a randomized sample of library artists.
func (c *Client) Artists(ctx context.Context, limit int) ([]maapi.MediaItem, error) {
	result, err := c.Send(ctx, maapi.CmdArtistLibrary, nil)
	if err != nil {
		return nil, err
	}
	items, err := maapi.DecodeMediaItems(result)
	if err != nil {
		return nil, err
	}
	rand.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func decodeLimited(result json.RawMessage, limit int) ([]maapi.MediaItem, error) {
	items, err := maapi.DecodeMediaItems(result)
	if err != nil {
		return nil, err
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
