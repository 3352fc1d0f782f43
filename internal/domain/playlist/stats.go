package playlist

import "sort"

// ArtistCount pairs an artist with the number of their tracks in a playlist.
type ArtistCount struct {
	Artist string
	Count  int
}

// GenreCount pairs a genre with its track count.
type GenreCount struct {
	Genre string
	Count int
}

// Stats aggregates the current playlist contents.
// AvgPopularity is only meaningful when HasPopularity is true (at least one
// track carries a popularity score).
type Stats struct {
	PlaylistName  string
	TotalTracks   int
	UniqueArtists int
	UniqueAlbums  int
	TopArtists    []ArtistCount
	TopGenres     []GenreCount
	AvgPopularity int
	HasPopularity bool
}

// ComputeStats aggregates statistics over the playlist. An empty playlist
// yields a zero-count result, never an error.
func (p *Playlist) ComputeStats(topN int) Stats {
	s := Stats{PlaylistName: p.Name, TotalTracks: len(p.Tracks)}

	artistCounts := make(map[string]int)
	genreCounts := make(map[string]int)
	albums := make(map[string]struct{})
	popSum, popN := 0, 0

	for _, t := range p.Tracks {
		artistCounts[t.Artist]++
		if t.Album != "" {
			albums[t.Album] = struct{}{}
		}
		if t.Genre != "" {
			genreCounts[t.Genre]++
		}
		if t.Popularity > 0 {
			popSum += t.Popularity
			popN++
		}
	}

	s.UniqueArtists = len(artistCounts)
	s.UniqueAlbums = len(albums)
	s.TopArtists = topCounts(artistCounts, topN, func(a string, c int) ArtistCount { return ArtistCount{a, c} })
	s.TopGenres = topCounts(genreCounts, topN, func(g string, c int) GenreCount { return GenreCount{g, c} })
	if popN > 0 {
		s.AvgPopularity = popSum / popN
		s.HasPopularity = true
	}
	return s
}

// topCounts ranks by descending count, name ascending as tiebreaker so the
// result is stable across runs.
func topCounts[T any](counts map[string]int, n int, mk func(string, int) T) []T {
	type kv struct {
		name  string
		count int
	}
	pairs := make([]kv, 0, len(counts))
	for name, count := range counts {
		pairs = append(pairs, kv{name, count})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].name < pairs[j].name
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	out := make([]T, len(pairs))
	for i, p := range pairs {
		out[i] = mk(p.name, p.count)
	}
	return out
}
