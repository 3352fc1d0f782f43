package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stavik/jambot/internal/domain/track"
)

func sqliteFixture(t *testing.T) *SQLite {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "catalog.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Insert(context.Background(), []track.Track{
		{URI: "t:1", Artist: "Queen", Title: "Bohemian Rhapsody", Album: "A Night at the Opera", Popularity: 3},
		{URI: "t:2", Artist: "Queen", Title: "Somebody to Love", Album: "A Day at the Races"},
		{URI: "t:3", Artist: "queen", Title: "Bohemian Rhapsody (Live)", Album: "Live Aid"},
		{URI: "t:4", Artist: "Queens of the Stone Age", Title: "No One Knows", Album: "Songs for the Deaf"},
		{URI: "t:5", Artist: "Crystal Waters", Title: "100% Pure Love", Album: "Storyteller"},
		{URI: "t:6", Artist: "Hanson", Title: "MMMBop", Album: "Middle of  Nowhere"},
	}))
	return db
}

func TestSQLiteLookupURI(t *testing.T) {
	db := sqliteFixture(t)

	got, err := db.LookupURI(context.Background(), "t:5")
	require.NoError(t, err)
	assert.Equal(t, "100% Pure Love", got.Title)

	_, err = db.LookupURI(context.Background(), "t:nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteSearchTiers(t *testing.T) {
	db := sqliteFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		ref  track.Ref
		tier Tier
		uris []string
	}{
		{
			name: "exact title is case insensitive",
			ref:  track.Ref{Title: "bohemian rhapsody"},
			tier: TierExact,
			uris: []string{"t:1"},
		},
		{
			name: "exact title with a like wildcard character",
			ref:  track.Ref{Title: "100% Pure Love"},
			tier: TierExact,
			uris: []string{"t:5"},
		},
		{
			name: "exact title with extra whitespace in the query",
			ref:  track.Ref{Title: "  Bohemian   Rhapsody "},
			tier: TierExact,
			uris: []string{"t:1"},
		},
		{
			name: "prefix widens to the live version",
			ref:  track.Ref{Title: "bohemian rhapsody"},
			tier: TierPrefix,
			uris: []string{"t:1", "t:3"},
		},
		{
			name: "substring matches inside the title",
			ref:  track.Ref{Title: "rhapsody"},
			tier: TierSubstring,
			uris: []string{"t:1", "t:3"},
		},
		{
			name: "percent in a substring query is literal",
			ref:  track.Ref{Title: "0% pure"},
			tier: TierSubstring,
			uris: []string{"t:5"},
		},
		{
			name: "artist and title must both match",
			ref:  track.Ref{Title: "MMMBop", Artist: "Queen"},
			tier: TierSubstring,
			uris: nil,
		},
		{
			name: "exact artist does not match the longer name",
			ref:  track.Ref{Artist: "queen"},
			tier: TierExact,
			uris: []string{"t:1", "t:3", "t:2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.Search(ctx, tt.ref, tt.tier, 10)
			require.NoError(t, err)
			uris := make([]string, 0, len(got))
			for _, tr := range got {
				uris = append(uris, tr.URI)
			}
			assert.Equal(t, tt.uris, nilIfEmpty(uris))
		})
	}
}

func TestSQLiteSearchLimit(t *testing.T) {
	db := sqliteFixture(t)

	got, err := db.Search(context.Background(), track.Ref{Artist: "queen"}, TierPrefix, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSQLiteCountByArtist(t *testing.T) {
	db := sqliteFixture(t)

	n, err := db.CountByArtist(context.Background(), "QUEEN")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSQLiteAlbumsByArtist(t *testing.T) {
	db := sqliteFixture(t)

	albums, err := db.AlbumsByArtist(context.Background(), "queen")
	require.NoError(t, err)
	assert.Equal(t, []string{"A Day at the Races", "A Night at the Opera", "Live Aid"}, albums)
}

func TestSQLiteTracksByArtist(t *testing.T) {
	db := sqliteFixture(t)

	tracks, err := db.TracksByArtist(context.Background(), "queen", 2)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "Bohemian Rhapsody", tracks[0].Title)
}

func TestSQLiteSimilarArtists(t *testing.T) {
	db := sqliteFixture(t)

	similar, err := db.SimilarArtists(context.Background(), "Queen", 5)
	require.NoError(t, err)
	assert.Contains(t, similar, "Queens of the Stone Age")
	assert.NotContains(t, similar, "Hanson")
}

func TestSQLiteInsertUpsertsPopularity(t *testing.T) {
	db := sqliteFixture(t)
	ctx := context.Background()

	require.NoError(t, db.Insert(ctx, []track.Track{
		{URI: "t:1", Artist: "Queen", Title: "Bohemian Rhapsody", Popularity: 7},
	}))

	got, err := db.LookupURI(ctx, "t:1")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Popularity)

	n, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}
