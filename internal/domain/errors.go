// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyArtifactKey is returned when an artifact has no key.
	ErrEmptyArtifactKey = errors.New("artifact key cannot be empty")

	// ErrEmptyArtifactKind is returned when an artifact has no schema kind.
	ErrEmptyArtifactKind = errors.New("artifact kind cannot be empty")

	// ErrEmptyPayload is returned when an artifact carries no payload.
	ErrEmptyPayload = errors.New("artifact payload cannot be empty")

	// ErrInvalidArtifactStatus is returned when an artifact status is not valid.
	ErrInvalidArtifactStatus = errors.New("invalid artifact status")

	// ErrInvalidRefreshWindow is returned when NextRefreshAt precedes CreatedAt.
	ErrInvalidRefreshWindow = errors.New("next refresh time precedes creation time")

	// ErrInvalidPayload is returned when a payload cannot be decoded into
	// the requested type.
	ErrInvalidPayload = errors.New("invalid artifact payload")
)
