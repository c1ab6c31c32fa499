package content

import (
	"errors"
	"fmt"

	"github.com/careerforge/careerforge-api/internal/generation"
)

var (
	// ErrInvalidTemplate indicates a prompt template that cannot be loaded,
	// parsed or found.
	ErrInvalidTemplate = errors.New("invalid prompt template")

	// ErrInvalidBank indicates embedded fallback content that does not
	// satisfy its schema.
	ErrInvalidBank = errors.New("invalid fallback bank")

	// ErrInvalidInput indicates caller input that cannot produce a prompt.
	ErrInvalidInput = fmt.Errorf("%w: invalid content input", generation.ErrInvalidRequest)
)
