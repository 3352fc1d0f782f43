// Package catalog provides read-only access to the track database.
package catalog

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/stavik/jambot/internal/domain/track"
)

// ErrNotFound is returned when a URI lookup finds no track.
var ErrNotFound = errors.New("track not found in catalog")

// Tier selects how strictly a query term must match a field.
// Matching is case-insensitive and whitespace-normalized at every tier.
type Tier int

const (
	TierExact Tier = iota
	TierPrefix
	TierSubstring
)

// Tiers lists the widening order used during disambiguation.
var Tiers = []Tier{TierExact, TierPrefix, TierSubstring}

// Catalog answers lookups over the static track database. Implementations
// must return Search results ordered by artist then title (both
// case-insensitive) so resolution is deterministic.
type Catalog interface {
	// LookupURI fetches a single track by its identifier.
	LookupURI(ctx context.Context, uri string) (track.Track, error)

	// Search matches the non-empty fields of ref at the given tier.
	// At most limit tracks are returned.
	Search(ctx context.Context, ref track.Ref, tier Tier, limit int) ([]track.Track, error)

	// CountByArtist counts catalog tracks by the artist (exact,
	// case-insensitive).
	CountByArtist(ctx context.Context, artist string) (int, error)

	// AlbumsByArtist lists the distinct albums by the artist, sorted.
	AlbumsByArtist(ctx context.Context, artist string) ([]string, error)

	// TracksByArtist lists tracks by the artist, title order, up to limit.
	TracksByArtist(ctx context.Context, artist string, limit int) ([]track.Track, error)

	// SimilarArtists finds artists sharing an album with the given artist
	// or whose name starts with the same prefix.
	SimilarArtists(ctx context.Context, artist string, limit int) ([]string, error)
}

// Normalize lowercases a query term and collapses internal whitespace.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// matchTier reports whether a normalized field value matches a normalized
// query term at the given tier.
func matchTier(value, term string, tier Tier) bool {
	switch tier {
	case TierExact:
		return value == term
	case TierPrefix:
		return strings.HasPrefix(value, term)
	default:
		return strings.Contains(value, term)
	}
}
