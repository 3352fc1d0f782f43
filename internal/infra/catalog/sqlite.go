package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"

	"github.com/stavik/jambot/internal/domain/track"
)

// The *_norm columns hold Normalize()d values so every tier matches the
// same way the in-memory catalog does, without per-query lower() rewrites.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS tracks (
    track_uri   TEXT PRIMARY KEY,
    artist      TEXT NOT NULL,
    title       TEXT NOT NULL,
    artist_norm TEXT NOT NULL,
    title_norm  TEXT NOT NULL,
    album       TEXT,
    genre       TEXT,
    popularity  INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_tracks_norm ON tracks(artist_norm, title_norm);
`

// SQLite is a Catalog backed by a sqlite database built by cmd/loaddb.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the catalog database at the given path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open catalog database")
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ensure catalog schema")
	}
	return &SQLite{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Count returns the number of tracks in the catalog.
func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tracks").Scan(&n); err != nil {
		return 0, errors.Wrap(err, "failed to count tracks")
	}
	return n, nil
}

// Insert upserts tracks into the catalog. Used by the loader only; the
// serving path never writes.
func (s *SQLite) Insert(ctx context.Context, tracks []track.Track) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tracks(track_uri, artist, title, artist_norm, title_norm, album, genre, popularity)
		 VALUES (?,?,?,?,?,?,?,?)
		 ON CONFLICT(track_uri) DO UPDATE SET popularity = excluded.popularity`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare insert")
	}
	defer stmt.Close()

	for _, t := range tracks {
		var album, genre any
		if t.Album != "" {
			album = t.Album
		}
		if t.Genre != "" {
			genre = t.Genre
		}
		if _, err := stmt.ExecContext(ctx,
			t.URI, t.Artist, t.Title, Normalize(t.Artist), Normalize(t.Title),
			album, genre, t.Popularity); err != nil {
			return errors.Wrapf(err, "failed to insert track %s", t.URI)
		}
	}
	return errors.Wrap(tx.Commit(), "failed to commit insert")
}

// LookupURI implements Catalog.
func (s *SQLite) LookupURI(ctx context.Context, uri string) (track.Track, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT track_uri, artist, title, album, genre, popularity FROM tracks WHERE track_uri = ?", uri)
	t, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return track.Track{}, ErrNotFound
	}
	if err != nil {
		return track.Track{}, errors.Wrap(err, "failed to look up track")
	}
	return t, nil
}

// likePattern escapes LIKE wildcards in a term and applies the tier shape.
// Exact matches never go through LIKE, so only prefix and substring apply.
func likePattern(term string, tier Tier) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	if tier == TierPrefix {
		return escaped + "%"
	}
	return "%" + escaped + "%"
}

// Search implements Catalog. Matching runs against the normalized columns;
// exact comparisons use the raw normalized term so titles containing LIKE
// wildcards still match. Ordering by normalized artist then title keeps
// repeated resolutions deterministic.
func (s *SQLite) Search(ctx context.Context, ref track.Ref, tier Tier, limit int) ([]track.Track, error) {
	title := Normalize(ref.Title)
	artist := Normalize(ref.Artist)
	if title == "" && artist == "" {
		return nil, nil
	}

	var conds []string
	var args []any
	match := func(col, term string) {
		if tier == TierExact {
			conds = append(conds, col+" = ?")
			args = append(args, term)
			return
		}
		conds = append(conds, col+` LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(term, tier))
	}
	if title != "" {
		match("title_norm", title)
	}
	if artist != "" {
		match("artist_norm", artist)
	}
	args = append(args, limit)

	query := fmt.Sprintf(
		`SELECT track_uri, artist, title, album, genre, popularity FROM tracks
		 WHERE %s ORDER BY artist_norm, title_norm LIMIT ?`,
		strings.Join(conds, " AND "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search tracks")
	}
	defer rows.Close()
	return collectTracks(rows)
}

// CountByArtist implements Catalog.
func (s *SQLite) CountByArtist(ctx context.Context, artist string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tracks WHERE artist_norm = ?", Normalize(artist)).Scan(&n)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count tracks by artist")
	}
	return n, nil
}

// AlbumsByArtist implements Catalog.
func (s *SQLite) AlbumsByArtist(ctx context.Context, artist string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT album FROM tracks
		 WHERE artist_norm = ? AND album IS NOT NULL ORDER BY album`,
		Normalize(artist))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list albums")
	}
	defer rows.Close()

	var albums []string
	for rows.Next() {
		var album string
		if err := rows.Scan(&album); err != nil {
			return nil, errors.Wrap(err, "failed to scan album")
		}
		albums = append(albums, album)
	}
	return albums, errors.Wrap(rows.Err(), "failed to iterate albums")
}

// TracksByArtist implements Catalog.
func (s *SQLite) TracksByArtist(ctx context.Context, artist string, limit int) ([]track.Track, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT track_uri, artist, title, album, genre, popularity FROM tracks
		 WHERE artist_norm = ? ORDER BY title_norm LIMIT ?`,
		Normalize(artist), limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tracks by artist")
	}
	defer rows.Close()
	return collectTracks(rows)
}

// SimilarArtists implements Catalog.
func (s *SQLite) SimilarArtists(ctx context.Context, artist string, limit int) ([]string, error) {
	term := Normalize(artist)
	prefix := term
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT artist, COUNT(*) AS track_count FROM tracks
		 WHERE artist_norm != ?
		   AND (album IN (SELECT album FROM tracks WHERE artist_norm = ? AND album IS NOT NULL)
		        OR artist_norm LIKE ? ESCAPE '\')
		 GROUP BY artist
		 ORDER BY track_count DESC, artist_norm
		 LIMIT ?`,
		term, term, likePattern(prefix, TierPrefix), limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find similar artists")
	}
	defer rows.Close()

	var artists []string
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, errors.Wrap(err, "failed to scan artist")
		}
		artists = append(artists, name)
	}
	return artists, errors.Wrap(rows.Err(), "failed to iterate artists")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrack(row rowScanner) (track.Track, error) {
	var t track.Track
	var album, genre sql.NullString
	if err := row.Scan(&t.URI, &t.Artist, &t.Title, &album, &genre, &t.Popularity); err != nil {
		return track.Track{}, err
	}
	t.Album = album.String
	t.Genre = genre.String
	return t, nil
}

func collectTracks(rows *sql.Rows) ([]track.Track, error) {
	var out []track.Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan track")
		}
		out = append(out, t)
	}
	return out, errors.Wrap(rows.Err(), "failed to iterate tracks")
}
