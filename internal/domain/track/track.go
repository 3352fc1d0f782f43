// Package track provides the Track domain entity.
package track

import "strings"

// Track represents a catalog entry. Tracks are loaded once at catalog build
// time and never mutated; identity is the URI.
type Track struct {
	URI        string // Unique track identifier (e.g. spotify:track:...)
	Artist     string // Artist name
	Title      string // Track title
	Album      string // Album name (may be empty)
	Genre      string // Genre label (may be empty)
	Popularity int    // Occurrence count in the source playlists (0 if unknown)
}

// String renders the track the way it is shown to users.
func (t Track) String() string {
	return t.Artist + " – " + t.Title
}

// Ref is a partial track reference extracted from user input.
// URI set means the user named the track directly; otherwise Title carries
// the search term and Artist is empty for bare title references.
type Ref struct {
	Title  string
	Artist string
	URI    string
}

// IsZero reports whether the reference is empty.
func (r Ref) IsZero() bool {
	return strings.TrimSpace(r.Title) == "" &&
		strings.TrimSpace(r.Artist) == "" &&
		strings.TrimSpace(r.URI) == ""
}

// MatchKind classifies the outcome of catalog resolution.
type MatchKind int

const (
	MatchNotFound MatchKind = iota
	MatchUnique
	MatchAmbiguous
)

// MatchResult is the outcome of resolving a Ref against the catalog.
// Track is set for MatchUnique; Candidates is set for MatchAmbiguous and is
// bounded and deterministically ordered (artist, then title).
type MatchResult struct {
	Kind       MatchKind
	Track      Track
	Candidates []Track
}

// Unique returns a unique match result.
func Unique(t Track) MatchResult {
	return MatchResult{Kind: MatchUnique, Track: t}
}

// Ambiguous returns an ambiguous match result.
func Ambiguous(candidates []Track) MatchResult {
	return MatchResult{Kind: MatchAmbiguous, Candidates: candidates}
}

// NotFound returns a not-found match result.
func NotFound() MatchResult {
	return MatchResult{Kind: MatchNotFound}
}
