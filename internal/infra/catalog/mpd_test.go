package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stavik/jambot/internal/domain/track"
)

func TestParseMPDSlice(t *testing.T) {
	data := []byte(`{
		"playlists": [
			{"tracks": [
				{"track_uri": "t:1", "artist_name": "Queen", "track_name": "Bohemian Rhapsody", "album_name": "A Night at the Opera"},
				{"track_uri": "", "artist_name": "Broken", "track_name": "Skipped"}
			]},
			{"tracks": [
				{"track_uri": "t:1", "artist_name": "Queen", "track_name": "Bohemian Rhapsody", "album_name": "A Night at the Opera"}
			]}
		]
	}`)

	tracks, err := ParseMPD(data)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "Queen", tracks[0].Artist)
	assert.Equal(t, "A Night at the Opera", tracks[0].Album)
}

func TestParseMPDFlatArray(t *testing.T) {
	data := []byte(`[
		{"track_uri": "t:2", "artist": "Toto", "title": "Africa", "album": "Toto IV", "genre": "pop rock"},
		{"artist": "No URI", "title": "Skipped"}
	]`)

	tracks, err := ParseMPD(data)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "pop rock", tracks[0].Genre)
}

func TestParseMPDRejectsGarbage(t *testing.T) {
	_, err := ParseMPD([]byte("not json"))
	assert.Error(t, err)
}

func TestAggregatePopularity(t *testing.T) {
	in := []track.Track{
		{URI: "t:1", Artist: "Queen", Title: "Bohemian Rhapsody"},
		{URI: "t:2", Artist: "Toto", Title: "Africa"},
		{URI: "t:1", Artist: "Queen", Title: "Bohemian Rhapsody"},
		{URI: "t:1", Artist: "Queen", Title: "Bohemian Rhapsody"},
	}

	out := AggregatePopularity(in)
	require.Len(t, out, 2)
	assert.Equal(t, 3, out[0].Popularity)
	assert.Equal(t, "t:1", out[0].URI)
	assert.Equal(t, 1, out[1].Popularity)
}
