package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by the generation package
var (
	// ErrInvalidKey is returned when a generation key is empty or malformed.
	ErrInvalidKey = errors.New("invalid generation key")

	// ErrInvalidRequest is returned when a generation request cannot be served
	// as given, e.g. it lacks a prompt or a fallback policy.
	ErrInvalidRequest = errors.New("invalid generation request")

	// ErrInvalidSchema is returned when a ResponseSchema is internally inconsistent.
	ErrInvalidSchema = fmt.Errorf("%w: invalid response schema", ErrInvalidRequest)

	// ErrContentBlocked is returned when the provider blocks the content due to safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrEmptyResponse is returned when the provider answers without any text.
	ErrEmptyResponse = errors.New("empty response from language model")
)

// ErrorKind classifies a provider failure.
type ErrorKind string

// Provider error kinds
const (
	KindRateLimited ErrorKind = "rate_limited"
	KindUnavailable ErrorKind = "unavailable"
	KindTimeout     ErrorKind = "timeout"
	KindMalformed   ErrorKind = "malformed"
	KindUnknown     ErrorKind = "unknown"
)

// Transient reports whether a failure of this kind is expected to succeed on retry.
func (k ErrorKind) Transient() bool {
	switch k {
	case KindRateLimited, KindUnavailable, KindTimeout:
		return true
	}
	return false
}

// ProviderError is a classified failure of a single provider call.
type ProviderError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// NewProviderError creates a ProviderError of the given kind.
func NewProviderError(kind ErrorKind, message string, err error) *ProviderError {
	return &ProviderError{Kind: kind, Message: message, Err: err}
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider error (%s): %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("provider error (%s): %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ClassifyStatus maps an HTTP-like status code reported by a provider to an
// error kind.
func ClassifyStatus(code int) ErrorKind {
	switch {
	case code == 429:
		return KindRateLimited
	case code == 408 || code == 504:
		return KindTimeout
	case code == 500 || code == 502 || code == 503:
		return KindUnavailable
	default:
		return KindUnknown
	}
}

var (
	rateLimitMarkers   = []string{"429", "rate limit", "rate-limit", "ratelimit", "quota", "resource_exhausted", "too many requests"}
	unavailableMarkers = []string{"503", "502", "unavailable", "overloaded", "try again later", "connection reset", "connection refused"}
	timeoutMarkers     = []string{"504", "deadline", "timeout", "timed out"}
	malformedMarkers   = []string{"safety", "blocked", "malformed", "invalid json", "empty response"}
)

// ClassifyError derives the error kind of err. Errors that already carry a
// ProviderError keep its kind; otherwise context errors and message markers
// are inspected.
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrContentBlocked), errors.Is(err, ErrEmptyResponse):
		return KindMalformed
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, rateLimitMarkers):
		return KindRateLimited
	case containsAny(msg, timeoutMarkers):
		return KindTimeout
	case containsAny(msg, unavailableMarkers):
		return KindUnavailable
	case containsAny(msg, malformedMarkers):
		return KindMalformed
	}

	return KindUnknown
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// ValidationReason classifies why a provider response was rejected.
type ValidationReason string

// Validation failure reasons
const (
	ReasonMissingRequiredField ValidationReason = "missing_required_field"
	ReasonSchemaMismatch       ValidationReason = "schema_mismatch"
	ReasonUnparseableResponse  ValidationReason = "unparseable_response"
)

// ValidationError reports a provider response that could not be turned into a
// payload satisfying the requested schema.
type ValidationError struct {
	Reason ValidationReason
	// Field is the path of the offending field, e.g. "questions[3].options".
	Field  string
	Detail string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed (%s) at %s: %s", e.Reason, e.Field, e.Detail)
	}
	return fmt.Sprintf("validation failed (%s): %s", e.Reason, e.Detail)
}

func missingField(path string) *ValidationError {
	return &ValidationError{Reason: ReasonMissingRequiredField, Field: path, Detail: "required field is absent"}
}

func mismatch(path, format string, args ...any) *ValidationError {
	return &ValidationError{Reason: ReasonSchemaMismatch, Field: path, Detail: fmt.Sprintf(format, args...)}
}
