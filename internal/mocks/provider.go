package mocks

import (
	"context"
	"sync"

	"github.com/careerforge/careerforge-api/internal/generation"
)

// ProviderResponse is one scripted provider answer.
type ProviderResponse struct {
	Text string
	Err  error
}

// MockProvider implements generation.Provider for testing
type MockProvider struct {
	// GenerateFn allows test cases to mock the Generate behavior.
	// It takes precedence over Responses.
	GenerateFn func(ctx context.Context, prompt generation.Prompt) (string, error)

	// Responses are returned in order; the last one repeats once exhausted.
	Responses []ProviderResponse

	mu      sync.Mutex
	calls   int
	prompts []generation.Prompt
}

// Generate implements the generation.Provider interface
func (m *MockProvider) Generate(ctx context.Context, prompt generation.Prompt) (string, error) {
	m.mu.Lock()
	m.calls++
	m.prompts = append(m.prompts, prompt)
	call := m.calls
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, prompt)
	}

	if len(m.Responses) == 0 {
		return "", generation.NewProviderError(generation.KindUnknown, "no scripted response", nil)
	}

	idx := min(call-1, len(m.Responses)-1)
	r := m.Responses[idx]
	return r.Text, r.Err
}

// Calls returns how many times Generate was called.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Prompts returns the prompts passed to Generate, in call order.
func (m *MockProvider) Prompts() []generation.Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]generation.Prompt(nil), m.prompts...)
}
