package generation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/careerforge/careerforge-api/internal/domain"
)

// DefaultFallbackTTL is how long fallback content is served before the
// provider is tried again.
const DefaultFallbackTTL = time.Hour

// FallbackPolicy produces schema-valid placeholder content for a key. It must
// be deterministic and must not perform I/O.
type FallbackPolicy func(key string) json.RawMessage

// MustMarshal encodes v for use in a FallbackPolicy. It panics if v cannot be
// encoded, which only happens for programming errors in static content.
func MustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("generation: marshal fallback payload: %v", err))
	}
	return b
}

// Synthesizer builds fallback artifacts.
type Synthesizer struct {
	TTL time.Duration
}

// Synthesize returns a fallback artifact for key created at now. It never
// fails and never contacts the provider.
func (s Synthesizer) Synthesize(key string, req GenerationRequest, now time.Time) *domain.Artifact {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultFallbackTTL
	}

	return &domain.Artifact{
		Key:           key,
		Kind:          req.Kind,
		Payload:       req.Fallback(key),
		Status:        domain.ArtifactStatusFallback,
		CreatedAt:     now.UTC(),
		NextRefreshAt: now.UTC().Add(ttl),
	}
}
