// Command loaddb builds the sqlite track catalog from Million Playlist
// Dataset slices or plain track JSON files.
package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	zlog "github.com/rs/zerolog/log"

	"github.com/stavik/jambot/internal/domain/track"
	"github.com/stavik/jambot/internal/infra/catalog"
	"github.com/stavik/jambot/internal/infra/logger"
)

var (
	dbPath  = kingpin.Flag("db", "Catalog database path.").Default("data/mpd.sqlite").String()
	mpdDir  = kingpin.Arg("dir", "Directory of MPD slice JSON files.").Required().String()
	verbose = kingpin.Flag("verbose", "Enable debug logging.").Short('v').Bool()
)

func main() {
	kingpin.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(logger.Config{Output: "stderr", Level: level}); err != nil {
		zlog.Fatal().Err(err).Msg("failed to initialize logger")
	}

	files, err := filepath.Glob(filepath.Join(*mpdDir, "*.json"))
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to list input files")
	}
	if len(files) == 0 {
		zlog.Fatal().Str("dir", *mpdDir).Msg("no json files found")
	}

	var all []track.Track
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			zlog.Fatal().Err(err).Str("file", file).Msg("failed to read file")
		}
		tracks, err := catalog.ParseMPD(data)
		if err != nil {
			zlog.Warn().Err(err).Str("file", file).Msg("skipping unparseable file")
			continue
		}
		zlog.Debug().Str("file", file).Int("tracks", len(tracks)).Msg("parsed file")
		all = append(all, tracks...)
	}

	deduped := catalog.AggregatePopularity(all)
	zlog.Info().
		Int("files", len(files)).
		Int("occurrences", len(all)).
		Int("unique_tracks", len(deduped)).
		Msg("parsed dataset")

	db, err := catalog.OpenSQLite(*dbPath)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to open catalog database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Insert(ctx, deduped); err != nil {
		zlog.Fatal().Err(err).Msg("failed to insert tracks")
	}

	total, err := db.Count(ctx)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to count tracks")
	}
	zlog.Info().Str("db", *dbPath).Int("total_tracks", total).Msg("catalog ready")
}
