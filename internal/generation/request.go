package generation

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// MaxKeyLength bounds the size of a generation key.
const MaxKeyLength = 512

// GenerationRequest describes how to produce the content cached under a key.
type GenerationRequest struct {
	// Kind groups artifacts of the same variant, e.g. "insights".
	Kind     string
	Prompt   string
	Schema   ResponseSchema
	Fallback FallbackPolicy
	// RefreshAfter is how long a freshly generated artifact is served.
	// Zero selects the orchestrator's configured default.
	RefreshAfter time.Duration
}

// Validate reports whether the request can be served.
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Kind) == "" {
		return fmt.Errorf("%w: kind is empty", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Prompt) == "" {
		return fmt.Errorf("%w: prompt is empty", ErrInvalidRequest)
	}
	if r.Fallback == nil {
		return fmt.Errorf("%w: no fallback policy", ErrInvalidRequest)
	}
	if r.RefreshAfter < 0 {
		return fmt.Errorf("%w: negative refresh interval", ErrInvalidRequest)
	}
	return r.Schema.Check()
}

// ValidateKey reports whether key can be used to cache and de-duplicate
// generations. Keys are compared verbatim, so callers normalize them.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}
	if len(key) > MaxKeyLength {
		return fmt.Errorf("%w: key exceeds %d bytes", ErrInvalidKey, MaxKeyLength)
	}
	if strings.IndexFunc(key, unicode.IsControl) >= 0 {
		return fmt.Errorf("%w: key contains control characters", ErrInvalidKey)
	}
	return nil
}
