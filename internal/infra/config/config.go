// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Playlists PlaylistsConfig `yaml:"playlists"`
	LLM       LLMConfig       `yaml:"llm"`
	Spotify   SpotifyConfig   `yaml:"spotify"`
	Messages  MessagesConfig  `yaml:"messages"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr string `yaml:"addr" default:":8080"`
}

// CatalogConfig represents track catalog configuration.
// Driver "sqlite" reads Path; driver "memory" loads SamplePath (JSON).
type CatalogConfig struct {
	Driver     string `yaml:"driver" default:"sqlite" validate:"oneof=sqlite memory"`
	Path       string `yaml:"path" default:"data/mpd.sqlite"`
	SamplePath string `yaml:"sample_path" default:"data/sample_tracks.json"`
}

// PlaylistsConfig represents playlist behavior configuration.
// AllowDuplicates controls whether the same track may appear twice in one
// playlist; the default refuses duplicates.
type PlaylistsConfig struct {
	DefaultName     string `yaml:"default_name" default:"default" validate:"required"`
	AllowDuplicates bool   `yaml:"allow_duplicates" default:"false"`
	MaxCandidates   int    `yaml:"max_candidates" default:"10" validate:"gte=2,lte=25"`
}

// LLMConfig represents language model configuration.
// The first provider in the list is used; the engine issues at most one
// generate call per turn, bounded by TimeoutMs.
type LLMConfig struct {
	TimeoutMs int              `yaml:"timeout_ms" default:"10000" validate:"gte=100,lte=120000"`
	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig represents a single LLM provider configuration.
type ProviderConfig struct {
	Type     string         `yaml:"type" validate:"required"`
	Settings map[string]any `yaml:"settings"`
}

// SpotifyConfig represents the optional Spotify enrichment configuration.
// When ClientID is empty the /play and /preview commands answer from the
// catalog only.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Market       string `yaml:"market" validate:"omitempty,len=2" default:"US"`
}

// MessagesConfig holds every fixed user-facing phrasing. Internal error
// details are never shown; failures map to one of these.
type MessagesConfig struct {
	Welcome            string `yaml:"welcome" default:"Hello! I can manage playlists for you. Type /help to see what I can do."`
	Goodbye            string `yaml:"goodbye" default:"It was nice talking to you. Bye!"`
	UnknownCommand     string `yaml:"unknown_command" default:"I'm sorry, I don't understand that. Type /help to see what I can do."`
	TrackNotFound      string `yaml:"track_not_found" default:"I couldn't find that track in the catalog."`
	PlaylistNotFound   string `yaml:"playlist_not_found" default:"I don't have a playlist with that name."`
	DuplicateName      string `yaml:"duplicate_name" default:"A playlist with that name already exists."`
	DuplicateTrack     string `yaml:"duplicate_track" default:"That track is already in the playlist."`
	IndexOutOfRange    string `yaml:"index_out_of_range" default:"There's no track at that position."`
	QuestionNotFollow  string `yaml:"question_not_understood" default:"I'm sorry, I don't understand that question. Try asking about tracks or artists."`
	LLMUnavailable     string `yaml:"llm_unavailable" default:"Sorry, I can't reach my language model right now. Please try again later."`
	LLMNotConfigured   string `yaml:"llm_not_configured" default:"I'm not configured to use a language model."`
	SpotifyUnavailable string `yaml:"spotify_unavailable" default:"Spotify integration is not available."`
	NoPendingChoice    string `yaml:"no_pending_choice" default:"There's nothing to choose from right now."`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for secrets.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.setProviderSetting("gemini", "api_key", v)
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		c.setProviderSetting("ollama", "host", v)
	}
	if v := os.Getenv("OLLAMA_API_KEY"); v != "" {
		c.setProviderSetting("ollama", "api_key", v)
	}
}

func (c *Config) setProviderSetting(providerType, key, value string) {
	for i := range c.LLM.Providers {
		if c.LLM.Providers[i].Type == providerType {
			if c.LLM.Providers[i].Settings == nil {
				c.LLM.Providers[i].Settings = make(map[string]any)
			}
			c.LLM.Providers[i].Settings[key] = value
			return
		}
	}
}

// LLMTimeout returns the LLM call timeout as a duration.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutMs) * time.Millisecond
}

// HasSpotify reports whether the enrichment client is configured.
func (c *Config) HasSpotify() bool {
	return c.Spotify.ClientID != "" && c.Spotify.ClientSecret != ""
}

// GetMessage returns the user-facing message for the given code.
func (c *Config) GetMessage(code string) string {
	switch code {
	case "welcome":
		return c.Messages.Welcome
	case "goodbye":
		return c.Messages.Goodbye
	case "track_not_found":
		return c.Messages.TrackNotFound
	case "playlist_not_found":
		return c.Messages.PlaylistNotFound
	case "duplicate_name":
		return c.Messages.DuplicateName
	case "duplicate_track":
		return c.Messages.DuplicateTrack
	case "index_out_of_range":
		return c.Messages.IndexOutOfRange
	case "question_not_understood":
		return c.Messages.QuestionNotFollow
	case "llm_unavailable":
		return c.Messages.LLMUnavailable
	case "llm_not_configured":
		return c.Messages.LLMNotConfigured
	case "spotify_unavailable":
		return c.Messages.SpotifyUnavailable
	case "no_pending_choice":
		return c.Messages.NoPendingChoice
	default:
		return c.Messages.UnknownCommand
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	for i, p := range c.LLM.Providers {
		if p.Type != "ollama" && p.Type != "gemini" {
			return errors.Newf("unsupported llm provider type: %s (provider index %d)", p.Type, i)
		}
	}
	return nil
}
