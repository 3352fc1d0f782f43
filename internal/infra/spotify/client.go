// Package spotify provides the optional track enrichment client.
package spotify

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// Client looks up playable track details on Spotify. It is read-only and
// only used to enrich /play, /preview, and /stats responses; the engine
// works without it.
type Client struct {
	api    *spotify.Client
	market string
}

// Config represents Spotify client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	Market       string
}

// TrackDetails is what the enrichment lookup returns for a track.
type TrackDetails struct {
	ID          string
	Title       string
	Artist      string
	Album       string
	URL         string
	AlbumArtURL string
	Popularity  int
	Duration    time.Duration
}

// New creates a new Spotify client using the client-credentials flow.
// Search does not need user scopes, so no refresh token is required.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("spotify credentials are required")
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := creds.Token(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to obtain spotify token")
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	market := cfg.Market
	if market == "" {
		market = "US"
	}

	return &Client{
		api:    spotify.New(httpClient),
		market: market,
	}, nil
}

// SearchTrack finds the best Spotify match for an artist/title pair.
// Artist may be empty for a title-only search.
func (c *Client) SearchTrack(ctx context.Context, artist, title string) (*TrackDetails, error) {
	if title == "" {
		return nil, errors.New("title is required")
	}

	query := fmt.Sprintf("track:%q", title)
	if artist != "" {
		query += fmt.Sprintf(" artist:%q", artist)
	}

	result, err := c.api.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(1), spotify.Market(c.market))
	if err != nil {
		return nil, errors.Wrap(err, "failed to search spotify")
	}
	if result.Tracks == nil || len(result.Tracks.Tracks) == 0 {
		return nil, nil
	}

	return c.convert(&result.Tracks.Tracks[0]), nil
}

// convert maps a Spotify FullTrack to TrackDetails.
func (c *Client) convert(t *spotify.FullTrack) *TrackDetails {
	artist := ""
	if len(t.Artists) > 0 {
		artist = t.Artists[0].Name
	}
	var albumArt string
	if len(t.Album.Images) > 0 {
		albumArt = t.Album.Images[0].URL
	}
	return &TrackDetails{
		ID:          string(t.ID),
		Title:       t.Name,
		Artist:      artist,
		Album:       t.Album.Name,
		URL:         c.TrackURL(string(t.ID)),
		AlbumArtURL: albumArt,
		Popularity:  int(t.Popularity),
		Duration:    time.Duration(t.Duration) * time.Millisecond,
	}
}

// TrackURL returns the public Spotify URL for a track.
func (c *Client) TrackURL(trackID string) string {
	return fmt.Sprintf("https://open.spotify.com/track/%s", trackID)
}
