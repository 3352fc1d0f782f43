// Package store owns per-session playlist state.
package store

import (
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/stavik/jambot/internal/app/cover"
	"github.com/stavik/jambot/internal/domain/playlist"
	"github.com/stavik/jambot/internal/domain/track"
)

var (
	ErrDuplicateName    = errors.New("playlist name already exists")
	ErrPlaylistNotFound = errors.New("playlist does not exist")
	ErrTrackNotFound    = errors.New("track not in current playlist")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrDuplicateTrack   = errors.New("track already in playlist")
)

// Set is one session's named playlists plus the current pointer. It is not
// safe for concurrent use; the session layer serializes turns, so every
// operation here runs exclusively for its session.
//
// Invariants: the current pointer always names an existing playlist, and
// the default playlist always exists (it can be cleared, never removed).
type Set struct {
	playlists       map[string]*playlist.Playlist
	order           []string // creation order, for stable listing
	current         string
	allowDuplicates bool
}

// NewSet creates a playlist set holding only the default playlist.
func NewSet(defaultName string, allowDuplicates bool) *Set {
	if defaultName == "" {
		defaultName = "default"
	}
	s := &Set{
		playlists:       make(map[string]*playlist.Playlist),
		allowDuplicates: allowDuplicates,
	}
	s.playlists[defaultName] = playlist.New(defaultName)
	s.order = append(s.order, defaultName)
	s.current = defaultName
	return s
}

// Current returns the current playlist.
func (s *Set) Current() *playlist.Playlist {
	return s.playlists[s.current]
}

// CurrentName returns the name of the current playlist.
func (s *Set) CurrentName() string {
	return s.current
}

// Create adds an empty playlist and makes it current.
// Names are case-sensitive; an existing name fails with ErrDuplicateName.
func (s *Set) Create(name string) error {
	if _, exists := s.playlists[name]; exists {
		return errors.Wrapf(ErrDuplicateName, "playlist %q", name)
	}
	s.playlists[name] = playlist.New(name)
	s.order = append(s.order, name)
	s.current = name
	return nil
}

// Switch moves the current pointer. The pointer is untouched on failure.
func (s *Set) Switch(name string) error {
	if _, exists := s.playlists[name]; !exists {
		return errors.Wrapf(ErrPlaylistNotFound, "playlist %q", name)
	}
	s.current = name
	return nil
}

// Add appends a track to the current playlist. With duplicates disallowed,
// adding a URI already present fails with ErrDuplicateTrack and the
// playlist is unchanged.
func (s *Set) Add(t track.Track) error {
	pl := s.Current()
	if !s.allowDuplicates && pl.Contains(t.URI) {
		return errors.Wrapf(ErrDuplicateTrack, "track %s", t.URI)
	}
	pl.Tracks = append(pl.Tracks, t)
	pl.CoverURL = ""
	return nil
}

// Remove deletes one track from the current playlist. The token is a
// 1-based position when it parses as a positive integer, otherwise a track
// URI (first occurrence wins). Either the track is removed or the playlist
// is left untouched.
func (s *Set) Remove(token string) (track.Track, error) {
	pl := s.Current()

	if n, err := strconv.Atoi(token); err == nil {
		if n < 1 || n > len(pl.Tracks) {
			return track.Track{}, errors.Wrapf(ErrIndexOutOfRange, "position %d of %d", n, len(pl.Tracks))
		}
		return s.removeAt(pl, n-1), nil
	}

	for i, t := range pl.Tracks {
		if t.URI == token {
			return s.removeAt(pl, i), nil
		}
	}
	return track.Track{}, errors.Wrapf(ErrTrackNotFound, "uri %q", token)
}

func (s *Set) removeAt(pl *playlist.Playlist, i int) track.Track {
	removed := pl.Tracks[i]
	pl.Tracks = append(pl.Tracks[:i], pl.Tracks[i+1:]...)
	pl.CoverURL = ""
	return removed
}

// Clear empties the current playlist; the playlist and its name persist.
func (s *Set) Clear() {
	pl := s.Current()
	pl.Tracks = nil
	pl.CoverURL = ""
}

// ListEntry describes one playlist in a listing.
type ListEntry struct {
	Name    string
	Tracks  int
	Current bool
}

// List returns all playlists in creation order with the current one marked.
func (s *Set) List() []ListEntry {
	entries := make([]ListEntry, 0, len(s.order))
	for _, name := range s.order {
		pl := s.playlists[name]
		entries = append(entries, ListEntry{
			Name:    name,
			Tracks:  len(pl.Tracks),
			Current: name == s.current,
		})
	}
	return entries
}

// View returns the current playlist snapshot, regenerating the cover if a
// mutation invalidated it.
func (s *Set) View() playlist.Snapshot {
	pl := s.Current()
	if pl.CoverURL == "" {
		pl.CoverURL = cover.Generate(pl.Name, pl.Tracks)
	}
	return pl.Snapshot()
}

// Serialize returns the full set state keyed by playlist name.
func (s *Set) Serialize() playlist.SetSnapshot {
	snap := playlist.SetSnapshot{
		Current:   s.current,
		Playlists: make(map[string]playlist.Snapshot, len(s.playlists)),
	}
	for name, pl := range s.playlists {
		if pl.CoverURL == "" {
			pl.CoverURL = cover.Generate(pl.Name, pl.Tracks)
		}
		snap.Playlists[name] = pl.Snapshot()
	}
	return snap
}
