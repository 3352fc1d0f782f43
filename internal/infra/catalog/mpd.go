package catalog

import (
	"encoding/json"

	"github.com/cockroachdb/errors"

	"github.com/stavik/jambot/internal/domain/track"
)

// mpdSlice is one file of the Million Playlist Dataset export.
type mpdSlice struct {
	Playlists []struct {
		Tracks []mpdTrack `json:"tracks"`
	} `json:"playlists"`
}

type mpdTrack struct {
	TrackURI   string `json:"track_uri"`
	ArtistName string `json:"artist_name"`
	TrackName  string `json:"track_name"`
	AlbumName  string `json:"album_name"`
	// Alternate field names used by plain track arrays.
	Artist string `json:"artist"`
	Title  string `json:"title"`
	Album  string `json:"album"`
	Genre  string `json:"genre"`
}

func (m mpdTrack) toTrack() (track.Track, bool) {
	t := track.Track{
		URI:    m.TrackURI,
		Artist: firstNonEmpty(m.ArtistName, m.Artist),
		Title:  firstNonEmpty(m.TrackName, m.Title),
		Album:  firstNonEmpty(m.AlbumName, m.Album),
		Genre:  m.Genre,
	}
	if t.URI == "" || t.Artist == "" || t.Title == "" {
		return track.Track{}, false
	}
	return t, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ParseMPD extracts tracks from one JSON file. Two layouts are accepted:
// an MPD slice with a "playlists" key, or a plain array of tracks.
// Malformed entries are skipped, not reported.
func ParseMPD(data []byte) ([]track.Track, error) {
	var slice mpdSlice
	if err := json.Unmarshal(data, &slice); err == nil && len(slice.Playlists) > 0 {
		var out []track.Track
		for _, pl := range slice.Playlists {
			for _, mt := range pl.Tracks {
				if t, ok := mt.toTrack(); ok {
					out = append(out, t)
				}
			}
		}
		return out, nil
	}

	var flat []mpdTrack
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, errors.Wrap(err, "unrecognized track file format")
	}
	var out []track.Track
	for _, mt := range flat {
		if t, ok := mt.toTrack(); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// AggregatePopularity deduplicates tracks by URI, counting occurrences into
// Popularity. Playlist co-occurrence is the catalog's popularity signal.
func AggregatePopularity(tracks []track.Track) []track.Track {
	index := make(map[string]int, len(tracks))
	var out []track.Track
	for _, t := range tracks {
		if i, ok := index[t.URI]; ok {
			out[i].Popularity++
			continue
		}
		t.Popularity = 1
		index[t.URI] = len(out)
		out = append(out, t)
	}
	return out
}
