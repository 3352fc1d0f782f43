// Package llm provides language model providers.
package llm

import "context"

// Provider generates free-form text for a prompt. Implementations must
// honor context cancellation; callers bound every call with a timeout and
// never retry.
type Provider interface {
	// Name returns the provider name (used in config and logs).
	Name() string
	// Generate produces a completion for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}
