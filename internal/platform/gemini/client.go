package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/careerforge/careerforge-api/internal/config"
	"github.com/careerforge/careerforge-api/internal/generation"
	"github.com/careerforge/careerforge-api/internal/platform/logger"
	"google.golang.org/genai"
)

// contentGenerator is the subset of *genai.Models the client uses.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Client implements generation.Provider using the Gemini API.
type Client struct {
	models      contentGenerator
	model       string
	temperature float32
	timeout     time.Duration
	logger      *slog.Logger
}

var _ generation.Provider = (*Client)(nil)

// NewClient creates a Gemini client from cfg. It is meant to be constructed
// once at process start and shared.
func NewClient(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: API key cannot be empty", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create genai client: %v", ErrInvalidConfig, err)
	}

	return newClient(client.Models, cfg, logger)
}

func newClient(models contentGenerator, cfg config.LLMConfig, logger *slog.Logger) (*Client, error) {
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		models:      models,
		model:       cfg.ModelName,
		temperature: cfg.Temperature,
		timeout:     timeout,
		logger:      logger.With(slog.String("component", "gemini_client"), slog.String("model", cfg.ModelName)),
	}, nil
}

// Generate sends prompt to the model and returns the text of the first
// candidate. Failures are *generation.ProviderError.
func (c *Client) Generate(ctx context.Context, prompt generation.Prompt) (string, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	if prompt.JSON {
		genConfig.ResponseMIMEType = "application/json"
	}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt.Text), genConfig)
	if err != nil {
		perr := classify(err)
		log.WarnContext(ctx, "gemini request failed",
			slog.String("error_kind", string(perr.Kind)),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return "", perr
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", generation.NewProviderError(generation.KindMalformed, "no candidates returned", generation.ErrEmptyResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", generation.NewProviderError(generation.KindMalformed, "candidate blocked", generation.ErrContentBlocked)
	}

	var sb strings.Builder
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil {
				sb.WriteString(part.Text)
			}
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", generation.NewProviderError(generation.KindMalformed, "candidate has no text", generation.ErrEmptyResponse)
	}

	log.DebugContext(ctx, "gemini request succeeded",
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("chars", len(text)))
	return text, nil
}

// classify maps an SDK error to a provider error, preferring the HTTP status
// carried by genai.APIError over message markers.
func classify(err error) *generation.ProviderError {
	kind := generation.KindUnknown

	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		kind = generation.ClassifyStatus(apiErr.Code)
	case errors.As(err, &apiErrPtr):
		kind = generation.ClassifyStatus(apiErrPtr.Code)
	}

	if kind == generation.KindUnknown {
		kind = generation.ClassifyError(err)
	}

	return generation.NewProviderError(kind, "gemini generate content", err)
}
