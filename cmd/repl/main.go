// Command repl runs the playlist assistant as an interactive terminal chat.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/stavik/jambot/internal/app/agent"
	"github.com/stavik/jambot/internal/app/qa"
	"github.com/stavik/jambot/internal/app/resolver"
	"github.com/stavik/jambot/internal/infra/catalog"
	"github.com/stavik/jambot/internal/infra/config"
	"github.com/stavik/jambot/internal/infra/llm"
	"github.com/stavik/jambot/internal/infra/logger"
	"github.com/stavik/jambot/internal/infra/spotify"
)

var (
	configPath = kingpin.Flag("config", "Path to config file.").Short('c').Default("config/server.yaml").String()
	verbose    = kingpin.Flag("verbose", "Enable debug logging.").Short('v').Bool()
)

func main() {
	kingpin.Parse()
	_ = godotenv.Load()

	// Chat output goes to stdout, so logs go to stderr to stay readable.
	level := "warn"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(logger.Config{Output: "stderr", Level: level}); err != nil {
		zlog.Fatal().Err(err).Msg("failed to initialize logger")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cat catalog.Catalog
	switch cfg.Catalog.Driver {
	case "memory":
		cat, err = catalog.LoadSample(cfg.Catalog.SamplePath)
	default:
		var db *catalog.SQLite
		db, err = catalog.OpenSQLite(cfg.Catalog.Path)
		if err == nil {
			defer db.Close()
			cat = db
		}
	}
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to open catalog")
	}

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
	state := ag.NewState()

	printResponse(ag.Welcome())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		resp := ag.HandleUtterance(ctx, state, scanner.Text())
		printResponse(resp)
		if resp.Final {
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func printResponse(resp agent.Response) {
	fmt.Println(resp.Text)
	for _, opt := range resp.Options {
		fmt.Println("  " + opt)
	}
}
