package service

import (
	"errors"
	"fmt"

	"github.com/careerforge/careerforge-api/internal/generation"
)

// Service errors. Callers use errors.Is to check for them; the API layer
// maps ErrInvalidInput to 400 Bad Request.
var (
	// ErrInvalidInput indicates a request that failed validation.
	ErrInvalidInput = fmt.Errorf("%w: invalid input", generation.ErrInvalidRequest)

	// ErrNoWrongAnswers indicates a tip request without any wrong answer.
	ErrNoWrongAnswers = fmt.Errorf("%w: no wrong answers to improve on", ErrInvalidInput)

	// ErrNotRefreshable indicates an artifact whose request cannot be rebuilt
	// from its key alone.
	ErrNotRefreshable = errors.New("artifact cannot be refreshed from its key")
)

// CareerServiceError wraps unexpected failures of the career service with
// the operation that failed.
type CareerServiceError struct {
	// Operation is the operation that failed (e.g., "get_insights")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for CareerServiceError.
func (e *CareerServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("career service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("career service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CareerServiceError) Unwrap() error {
	return e.Err
}

// NewCareerServiceError wraps err with the failed operation. Input errors are
// returned unchanged.
func NewCareerServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, generation.ErrInvalidRequest) || errors.Is(err, generation.ErrInvalidKey) {
		return err
	}

	return &CareerServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
