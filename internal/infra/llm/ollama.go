package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// OllamaConfig represents ollama provider settings.
type OllamaConfig struct {
	Host        string  `mapstructure:"host" validate:"required,url"`
	Model       string  `mapstructure:"model" validate:"required"`
	APIKey      string  `mapstructure:"api_key"`
	Temperature float64 `mapstructure:"temperature" default:"0.7"`
	MaxTokens   int     `mapstructure:"max_tokens" default:"256"`
}

// Ollama is a Provider backed by an ollama server's generate API.
type Ollama struct {
	config     *OllamaConfig
	httpClient *http.Client
}

// NewOllama creates an ollama provider from a settings map.
func NewOllama(settings map[string]any) (*Ollama, error) {
	var cfg OllamaConfig
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}
	return &Ollama{
		config: &cfg,
		// The overall deadline comes from the caller's context.
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}, nil
}

// Name implements Provider.
func (o *Ollama) Name() string { return "ollama" }

type ollamaRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Generate implements Provider.
func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(ollamaRequest{
		Model:  o.config.Model,
		Prompt: prompt,
		Stream: false,
		Options: map[string]any{
			"temperature": o.config.Temperature,
			"num_predict": o.config.MaxTokens,
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to encode request")
	}

	url := strings.TrimRight(o.config.Host, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if o.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.config.APIKey)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf("ollama returned status %d", resp.StatusCode)
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.Wrap(err, "failed to parse response")
	}
	if parsed.Error != "" {
		return "", errors.Newf("ollama error: %s", parsed.Error)
	}
	return parsed.Response, nil
}
