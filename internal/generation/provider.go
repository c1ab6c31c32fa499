package generation

import "context"

// Prompt is a single rendered instruction sent to the provider.
type Prompt struct {
	Text string
	// JSON asks the provider to answer with a JSON document when it supports
	// such a hint. The response is validated either way.
	JSON bool
}

// Provider wraps the opaque external generation call. Implementations make
// exactly one attempt per call and report failures as *ProviderError so the
// retry policy can classify them; they know nothing about caching or retries.
type Provider interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// ProviderFunc adapts an ordinary function to the Provider interface.
type ProviderFunc func(ctx context.Context, prompt Prompt) (string, error)

// Generate calls f(ctx, prompt).
func (f ProviderFunc) Generate(ctx context.Context, prompt Prompt) (string, error) {
	return f(ctx, prompt)
}
