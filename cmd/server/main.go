// Command server runs the playlist assistant HTTP server.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/stavik/jambot/internal/api/httpapi"
	"github.com/stavik/jambot/internal/app/agent"
	"github.com/stavik/jambot/internal/app/qa"
	"github.com/stavik/jambot/internal/app/resolver"
	"github.com/stavik/jambot/internal/app/session"
	"github.com/stavik/jambot/internal/infra/catalog"
	"github.com/stavik/jambot/internal/infra/config"
	"github.com/stavik/jambot/internal/infra/llm"
	"github.com/stavik/jambot/internal/infra/logger"
	"github.com/stavik/jambot/internal/infra/spotify"
)

var (
	configPath = kingpin.Flag("config", "Path to config file.").Short('c').Default("config/server.yaml").String()
	logFile    = kingpin.Flag("logfile", "Log output (stdout, stderr, or a file path).").Default("stdout").String()
	verbose    = kingpin.Flag("verbose", "Enable debug logging.").Short('v').Bool()
)

func main() {
	kingpin.Parse()
	_ = godotenv.Load()

	level := "info"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(logger.Config{Output: *logFile, Level: level}); err != nil {
		zlog.Fatal().Err(err).Msg("failed to initialize logger")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, closeCat, err := openCatalog(cfg)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to open catalog")
	}
	defer closeCat()

	var spotifyClient *spotify.Client
	if cfg.HasSpotify() {
		spotifyClient, err = spotify.New(ctx, spotify.Config{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			Market:       cfg.Spotify.Market,
		})
		if err != nil {
			zlog.Warn().Err(err).Msg("spotify client unavailable, continuing without enrichment")
			spotifyClient = nil
		}
	}

	provider, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to create LLM provider")
	}

	res := resolver.New(cat, cfg.Playlists.MaxCandidates)
	answerer := qa.New(cat, res, provider, cfg.LLMTimeout())
	ag := agent.New(cfg, res, answerer, spotifyClient)
	registry := session.NewRegistry(ag)

	handler := httpapi.New(registry).Mux()
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}

	go func() {
		zlog.Info().Str("addr", cfg.Server.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	zlog.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// openCatalog opens the configured catalog backend.
func openCatalog(cfg *config.Config) (catalog.Catalog, func(), error) {
	switch cfg.Catalog.Driver {
	case "memory":
		mem, err := catalog.LoadSample(cfg.Catalog.SamplePath)
		if err != nil {
			return nil, nil, err
		}
		return mem, func() {}, nil
	default:
		db, err := catalog.OpenSQLite(cfg.Catalog.Path)
		if err != nil {
			return nil, nil, err
		}
		return db, func() {
			if err := db.Close(); err != nil {
				zlog.Warn().Err(err).Msg("failed to close catalog")
			}
		}, nil
	}
}
