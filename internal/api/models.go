package api

import (
	"time"

	"github.com/careerforge/careerforge-api/internal/service"
)

// ArtifactResponse is the response body for every generated artifact.
// Data holds the kind-specific payload.
type ArtifactResponse[T any] struct {
	Key           string    `json:"key"`
	Kind          string    `json:"kind"`
	Status        string    `json:"status"`
	Degraded      bool      `json:"degraded"`
	CreatedAt     time.Time `json:"created_at"`
	NextRefreshAt time.Time `json:"next_refresh_at"`
	Data          T         `json:"data"`
}

// HealthResponse is the response body of the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store,omitempty"`
}

func toArtifactResponse[T any](res *service.Result[T]) ArtifactResponse[T] {
	a := res.Artifact
	return ArtifactResponse[T]{
		Key:           a.Key,
		Kind:          a.Kind,
		Status:        string(a.Status),
		Degraded:      a.Degraded(),
		CreatedAt:     a.CreatedAt,
		NextRefreshAt: a.NextRefreshAt,
		Data:          res.Data,
	}
}
