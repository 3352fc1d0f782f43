package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stavik/jambot/internal/domain/track"
)

var (
	trackA = track.Track{URI: "t:a", Artist: "Queen", Title: "Bohemian Rhapsody", Album: "A Night at the Opera"}
	trackB = track.Track{URI: "t:b", Artist: "Queen", Title: "Somebody to Love", Album: "A Day at the Races"}
	trackC = track.Track{URI: "t:c", Artist: "Toto", Title: "Africa", Album: "Toto IV"}
)

func TestNewSetStartsWithDefault(t *testing.T) {
	s := NewSet("default", false)

	assert.Equal(t, "default", s.CurrentName())
	assert.Empty(t, s.Current().Tracks)

	entries := s.List()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Current)
}

func TestCreateSwitchesToNewPlaylist(t *testing.T) {
	s := NewSet("default", false)

	require.NoError(t, s.Create("party"))
	assert.Equal(t, "party", s.CurrentName())
}

func TestCreateDuplicateNameFails(t *testing.T) {
	s := NewSet("default", false)
	require.NoError(t, s.Create("party"))

	err := s.Create("party")
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, "party", s.CurrentName())
}

func TestSwitchUnknownLeavesCurrentUntouched(t *testing.T) {
	s := NewSet("default", false)
	require.NoError(t, s.Create("party"))

	err := s.Switch("nope")
	assert.ErrorIs(t, err, ErrPlaylistNotFound)
	assert.Equal(t, "party", s.CurrentName())

	require.NoError(t, s.Switch("default"))
	assert.Equal(t, "default", s.CurrentName())
}

func TestPlaylistsAreIsolated(t *testing.T) {
	s := NewSet("default", false)
	require.NoError(t, s.Add(trackA))
	require.NoError(t, s.Create("party"))
	require.NoError(t, s.Add(trackC))

	assert.Len(t, s.Current().Tracks, 1)
	require.NoError(t, s.Switch("default"))
	require.Len(t, s.Current().Tracks, 1)
	assert.Equal(t, "t:a", s.Current().Tracks[0].URI)
}

func TestAddRejectsDuplicateByDefault(t *testing.T) {
	s := NewSet("default", false)
	require.NoError(t, s.Add(trackA))

	err := s.Add(trackA)
	assert.ErrorIs(t, err, ErrDuplicateTrack)
	assert.Len(t, s.Current().Tracks, 1)
}

func TestAddAllowsDuplicateWhenConfigured(t *testing.T) {
	s := NewSet("default", true)
	require.NoError(t, s.Add(trackA))
	require.NoError(t, s.Add(trackA))
	assert.Len(t, s.Current().Tracks, 2)
}

func TestRemoveByPosition(t *testing.T) {
	s := NewSet("default", false)
	require.NoError(t, s.Add(trackA))
	require.NoError(t, s.Add(trackB))
	require.NoError(t, s.Add(trackC))

	removed, err := s.Remove("2")
	require.NoError(t, err)
	assert.Equal(t, "t:b", removed.URI)
	require.Len(t, s.Current().Tracks, 2)
	assert.Equal(t, "t:a", s.Current().Tracks[0].URI)
	assert.Equal(t, "t:c", s.Current().Tracks[1].URI)
}

func TestRemoveByURI(t *testing.T) {
	s := NewSet("default", false)
	require.NoError(t, s.Add(trackA))
	require.NoError(t, s.Add(trackB))

	removed, err := s.Remove("t:a")
	require.NoError(t, err)
	assert.Equal(t, "t:a", removed.URI)
	assert.Len(t, s.Current().Tracks, 1)
}

func TestRemoveErrors(t *testing.T) {
	s := NewSet("default", false)
	require.NoError(t, s.Add(trackA))

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"position zero", "0", ErrIndexOutOfRange},
		{"position past end", "2", ErrIndexOutOfRange},
		{"negative position", "-1", ErrIndexOutOfRange},
		{"unknown uri", "t:zzz", ErrTrackNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Remove(tt.token)
			assert.ErrorIs(t, err, tt.want)
			assert.Len(t, s.Current().Tracks, 1)
		})
	}
}

func TestClearKeepsPlaylist(t *testing.T) {
	s := NewSet("default", false)
	require.NoError(t, s.Add(trackA))

	s.Clear()
	assert.Empty(t, s.Current().Tracks)
	assert.Equal(t, "default", s.CurrentName())

	// Cleared, not deleted: the same track can go back in.
	require.NoError(t, s.Add(trackA))
}

func TestViewGeneratesCover(t *testing.T) {
	s := NewSet("default", false)
	require.NoError(t, s.Add(trackA))

	snap := s.View()
	assert.True(t, strings.HasPrefix(snap.CoverURL, "data:image/png;base64,"))
}

func TestMutationsInvalidateCover(t *testing.T) {
	s := NewSet("default", false)
	require.NoError(t, s.Add(trackA))

	before := s.View().CoverURL
	require.NoError(t, s.Add(trackB))
	after := s.View().CoverURL
	assert.NotEqual(t, before, after)

	// Removing the addition restores the original seed, hence the cover.
	_, err := s.Remove("t:b")
	require.NoError(t, err)
	assert.Equal(t, before, s.View().CoverURL)
}

func TestSerialize(t *testing.T) {
	s := NewSet("default", false)
	require.NoError(t, s.Add(trackA))
	require.NoError(t, s.Create("party"))

	snap := s.Serialize()
	assert.Equal(t, "party", snap.Current)
	require.Len(t, snap.Playlists, 2)
	assert.Len(t, snap.Playlists["default"].Tracks, 1)
	assert.Empty(t, snap.Playlists["party"].Tracks)
}
