// Package playlist provides the Playlist domain entity.
package playlist

import "github.com/stavik/jambot/internal/domain/track"

// Playlist is a named, ordered sequence of tracks.
// Track order is insertion order; CoverURL is derived from the contents and
// cleared whenever they change.
type Playlist struct {
	Name     string
	Tracks   []track.Track
	CoverURL string
}

// New creates an empty playlist.
func New(name string) *Playlist {
	return &Playlist{Name: name}
}

// Contains reports whether a track with the given URI is in the playlist.
func (p *Playlist) Contains(uri string) bool {
	for _, t := range p.Tracks {
		if t.URI == uri {
			return true
		}
	}
	return false
}

// TrackPayload is the wire form of a track inside a snapshot.
type TrackPayload struct {
	TrackURI string `json:"track_uri"`
	Artist   string `json:"artist"`
	Title    string `json:"title"`
	Album    string `json:"album,omitempty"`
}

// Snapshot is the machine-readable playlist state sent to the presentation
// layer after every mutating or viewing command.
type Snapshot struct {
	Name     string         `json:"name"`
	Tracks   []TrackPayload `json:"tracks"`
	CoverURL string         `json:"cover_url,omitempty"`
}

// Snapshot serializes the playlist.
func (p *Playlist) Snapshot() Snapshot {
	tracks := make([]TrackPayload, len(p.Tracks))
	for i, t := range p.Tracks {
		tracks[i] = TrackPayload{
			TrackURI: t.URI,
			Artist:   t.Artist,
			Title:    t.Title,
			Album:    t.Album,
		}
	}
	return Snapshot{
		Name:     p.Name,
		Tracks:   tracks,
		CoverURL: p.CoverURL,
	}
}

// SetSnapshot serializes a whole playlist set.
type SetSnapshot struct {
	Current   string              `json:"current"`
	Playlists map[string]Snapshot `json:"playlists"`
}
