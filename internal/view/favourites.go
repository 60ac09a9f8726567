package view

import (
	"encoding/json"

	"github.com/ulilicht/Musikbar/pkg/maapi"
)

// Favourite is the uniform shortcut record shown in the favourites
// strip, regardless of which source it came from.
type Favourite struct {
	Name     string `json:"name"`
	Image    string `json:"image"`
	ID       string `json:"id"`
	URI      string `json:"uri"`
	Category string `json:"category"`

	// Raw keeps the full hub item so playback can hand it back for
	// server-side expansion of albums and playlists.
	Raw json.RawMessage `json:"-"`
}

// MapFavourites maps media items to favourite records. Image
// resolution prefers the direct image field over the first metadata
// image; images the hub does not serve publicly get the server base
// URL prefixed.
func MapFavourites(items []maapi.MediaItem, serverURL string) []Favourite {
	out := make([]Favourite, 0, len(items))
	for _, item := range items {
		fav := Favourite{
			Name:     item.Name,
			ID:       item.ItemID,
			URI:      item.URI,
			Category: item.MediaType,
			Raw:      item.Raw,
		}
		if fav.ID == "" {
			fav.ID = item.URI
		}
		switch {
		case !item.Image.IsZero():
			fav.Image = item.Image.URL(serverURL)
		case len(item.Metadata.Images) > 0:
			fav.Image = item.Metadata.Images[0].URL(serverURL)
		}
		out = append(out, fav)
	}
	return out
}
