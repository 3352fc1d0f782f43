package llm

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/stavik/jambot/internal/infra/config"
)

// NewFromConfig builds the LLM provider from configuration.
// Only the first configured provider is used: the engine allows a single
// model call per turn with no retries, so there is no fallback chain.
// Returns nil when no provider is configured; the engine then answers
// unrecognized questions with the not-configured message.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Provider, error) {
	if len(cfg.LLM.Providers) == 0 {
		return nil, nil
	}

	pcfg := cfg.LLM.Providers[0]
	var provider Provider
	var err error
	switch pcfg.Type {
	case "ollama":
		provider, err = NewOllama(pcfg.Settings)
	case "gemini":
		provider, err = NewGemini(ctx, pcfg.Settings)
	default:
		return nil, errors.Newf("unsupported provider type: %s", pcfg.Type)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create provider (type %s)", pcfg.Type)
	}

	zlog.Info().Msgf("registered LLM provider: type=%s", provider.Name())
	return provider, nil
}
