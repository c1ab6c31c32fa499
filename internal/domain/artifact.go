package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ArtifactStatus describes how an artifact came to be and whether it can
// still be served without regeneration.
type ArtifactStatus string

// Possible artifact status values
const (
	// ArtifactStatusFresh marks content produced by a successful generation.
	ArtifactStatusFresh ArtifactStatus = "fresh"

	// ArtifactStatusStale marks generated content that outlived its refresh
	// time and could not be regenerated; it is served until the next retry.
	ArtifactStatusStale ArtifactStatus = "stale"

	// ArtifactStatusFallback marks deterministic placeholder content.
	ArtifactStatusFallback ArtifactStatus = "fallback"
)

// Artifact is the cached unit of generated content. Artifacts are never
// updated in place: a regeneration produces a new Artifact that replaces the
// stored one by Key.
type Artifact struct {
	Key           string          `json:"key"`
	Kind          string          `json:"kind"`
	Payload       json.RawMessage `json:"payload"`
	Status        ArtifactStatus  `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	NextRefreshAt time.Time       `json:"next_refresh_at"`
}

// NewArtifact creates a validated Artifact created at now that should be
// refreshed after ttl.
func NewArtifact(
	key, kind string,
	payload json.RawMessage,
	status ArtifactStatus,
	now time.Time,
	ttl time.Duration,
) (*Artifact, error) {
	a := &Artifact{
		Key:           key,
		Kind:          kind,
		Payload:       payload,
		Status:        status,
		CreatedAt:     now.UTC(),
		NextRefreshAt: now.UTC().Add(ttl),
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}

	return a, nil
}

// Validate checks if the Artifact has valid data.
func (a *Artifact) Validate() error {
	if a.Key == "" {
		return ErrEmptyArtifactKey
	}

	if a.Kind == "" {
		return ErrEmptyArtifactKind
	}

	if len(bytes.TrimSpace(a.Payload)) == 0 {
		return ErrEmptyPayload
	}

	if !a.Status.Valid() {
		return ErrInvalidArtifactStatus
	}

	if a.NextRefreshAt.Before(a.CreatedAt) {
		return ErrInvalidRefreshWindow
	}

	return nil
}

// Valid reports whether s is one of the known statuses.
func (s ArtifactStatus) Valid() bool {
	switch s {
	case ArtifactStatusFresh, ArtifactStatusStale, ArtifactStatusFallback:
		return true
	}
	return false
}

// Servable reports whether the artifact can be returned at now without
// contacting the provider.
func (a *Artifact) Servable(now time.Time) bool {
	return now.Before(a.NextRefreshAt)
}

// Degraded reports whether the artifact is anything other than fresh
// generated content, so UI layers can signal reduced confidence.
func (a *Artifact) Degraded() bool {
	return a.Status != ArtifactStatusFresh
}

// Clone returns a deep copy of the artifact.
func (a *Artifact) Clone() *Artifact {
	if a == nil {
		return nil
	}
	c := *a
	c.Payload = append(json.RawMessage(nil), a.Payload...)
	return &c
}

// Supersede returns a new artifact with the same payload and the given
// status and refresh window. The receiver is left untouched.
func (a *Artifact) Supersede(status ArtifactStatus, now time.Time, ttl time.Duration) *Artifact {
	c := a.Clone()
	c.Status = status
	c.CreatedAt = now.UTC()
	c.NextRefreshAt = now.UTC().Add(ttl)
	return c
}

// Decode unmarshals the payload into v.
func (a *Artifact) Decode(v any) error {
	if err := json.Unmarshal(a.Payload, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPayload, a.Kind, err)
	}
	return nil
}

// Text returns the payload of a free-text artifact.
func (a *Artifact) Text() (string, error) {
	var s string
	if err := a.Decode(&s); err != nil {
		return "", err
	}
	return s, nil
}
