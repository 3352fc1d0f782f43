package catalog

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/stavik/jambot/internal/domain/track"
)

// Memory is an in-memory Catalog, used for sample data and tests.
type Memory struct {
	tracks []track.Track
	byURI  map[string]track.Track
}

// NewMemory creates an in-memory catalog over the given tracks.
func NewMemory(tracks []track.Track) *Memory {
	m := &Memory{
		tracks: make([]track.Track, len(tracks)),
		byURI:  make(map[string]track.Track, len(tracks)),
	}
	copy(m.tracks, tracks)
	sort.Slice(m.tracks, func(i, j int) bool {
		ai, aj := Normalize(m.tracks[i].Artist), Normalize(m.tracks[j].Artist)
		if ai != aj {
			return ai < aj
		}
		return Normalize(m.tracks[i].Title) < Normalize(m.tracks[j].Title)
	})
	for _, t := range m.tracks {
		m.byURI[t.URI] = t
	}
	return m
}

// sampleTrack mirrors the sample_tracks.json entry format.
type sampleTrack struct {
	TrackURI   string `json:"track_uri"`
	Artist     string `json:"artist"`
	Title      string `json:"title"`
	Album      string `json:"album"`
	Genre      string `json:"genre"`
	Popularity int    `json:"popularity"`
}

// LoadSample builds an in-memory catalog from a JSON sample file.
// Entries missing a URI, artist, or title are skipped.
func LoadSample(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read sample file")
	}
	var entries []sampleTrack
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(err, "failed to parse sample file")
	}
	tracks := make([]track.Track, 0, len(entries))
	for _, e := range entries {
		if e.TrackURI == "" || e.Artist == "" || e.Title == "" {
			continue
		}
		tracks = append(tracks, track.Track{
			URI:        e.TrackURI,
			Artist:     e.Artist,
			Title:      e.Title,
			Album:      e.Album,
			Genre:      e.Genre,
			Popularity: e.Popularity,
		})
	}
	return NewMemory(tracks), nil
}

// LookupURI implements Catalog.
func (m *Memory) LookupURI(_ context.Context, uri string) (track.Track, error) {
	t, ok := m.byURI[uri]
	if !ok {
		return track.Track{}, ErrNotFound
	}
	return t, nil
}

// Search implements Catalog. Results keep the artist-then-title order the
// catalog was built with.
func (m *Memory) Search(_ context.Context, ref track.Ref, tier Tier, limit int) ([]track.Track, error) {
	title := Normalize(ref.Title)
	artist := Normalize(ref.Artist)
	if title == "" && artist == "" {
		return nil, nil
	}

	var out []track.Track
	for _, t := range m.tracks {
		if title != "" && !matchTier(Normalize(t.Title), title, tier) {
			continue
		}
		if artist != "" && !matchTier(Normalize(t.Artist), artist, tier) {
			continue
		}
		out = append(out, t)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// CountByArtist implements Catalog.
func (m *Memory) CountByArtist(_ context.Context, artist string) (int, error) {
	term := Normalize(artist)
	count := 0
	for _, t := range m.tracks {
		if Normalize(t.Artist) == term {
			count++
		}
	}
	return count, nil
}

// AlbumsByArtist implements Catalog.
func (m *Memory) AlbumsByArtist(_ context.Context, artist string) ([]string, error) {
	term := Normalize(artist)
	seen := make(map[string]struct{})
	var albums []string
	for _, t := range m.tracks {
		if Normalize(t.Artist) != term || t.Album == "" {
			continue
		}
		if _, ok := seen[t.Album]; ok {
			continue
		}
		seen[t.Album] = struct{}{}
		albums = append(albums, t.Album)
	}
	sort.Strings(albums)
	return albums, nil
}

// TracksByArtist implements Catalog.
func (m *Memory) TracksByArtist(_ context.Context, artist string, limit int) ([]track.Track, error) {
	term := Normalize(artist)
	var out []track.Track
	for _, t := range m.tracks {
		if Normalize(t.Artist) != term {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return Normalize(out[i].Title) < Normalize(out[j].Title)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SimilarArtists implements Catalog. An artist is similar when it shares an
// album with the given artist or starts with the same three letters.
func (m *Memory) SimilarArtists(_ context.Context, artist string, limit int) ([]string, error) {
	term := Normalize(artist)
	prefix := term
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}

	albums := make(map[string]struct{})
	for _, t := range m.tracks {
		if Normalize(t.Artist) == term && t.Album != "" {
			albums[t.Album] = struct{}{}
		}
	}

	counts := make(map[string]int)
	for _, t := range m.tracks {
		a := Normalize(t.Artist)
		if a == term {
			continue
		}
		_, sharesAlbum := albums[t.Album]
		if !sharesAlbum && !strings.HasPrefix(a, prefix) {
			continue
		}
		counts[t.Artist]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names, nil
}
