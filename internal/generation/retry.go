package generation

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/careerforge/careerforge-api/internal/platform/logger"
)

// Decision is the outcome of consulting a RetryPolicy after a failed attempt.
type Decision int

// Retry decisions
const (
	Abort Decision = iota
	Retry
)

// String returns the decision name.
func (d Decision) String() string {
	if d == Retry {
		return "retry"
	}
	return "abort"
}

// Retry defaults
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 500 * time.Millisecond
	DefaultMultiplier  = 2.0
	DefaultMaxDelay    = 8 * time.Second
)

// RetryPolicy decides whether a failed provider call is worth repeating and
// how long to wait before doing so. The zero value behaves like
// DefaultRetryPolicy without jitter.
type RetryPolicy struct {
	// MaxAttempts is the total number of provider calls, including the first.
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	// MaxDelay caps a single backoff delay. Zero means no cap.
	MaxDelay time.Duration
	// Jitter scales each delay by a random factor in [0.5, 1.0).
	Jitter bool
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		Multiplier:  DefaultMultiplier,
		MaxDelay:    DefaultMaxDelay,
		Jitter:      true,
	}
}

func (p RetryPolicy) maxAttempts() int {
	if p.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return p.MaxAttempts
}

// Decide reports whether another attempt should follow the given failure of
// attempt number attempt (1-based). Only transient provider errors are
// retried, and never beyond MaxAttempts.
func (p RetryPolicy) Decide(err error, attempt int) Decision {
	if err == nil || attempt >= p.maxAttempts() {
		return Abort
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return Abort
	}

	if !ClassifyError(err).Transient() {
		return Abort
	}
	return Retry
}

// Delay returns the backoff to wait after the given failed attempt (1-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	mult := p.Multiplier
	if mult < 1 {
		mult = DefaultMultiplier
	}
	if attempt < 1 {
		attempt = 1
	}

	delay := float64(base) * math.Pow(mult, float64(attempt-1))
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}
	if p.Jitter {
		delay *= 0.5 + rand.Float64()*0.5
	}
	return time.Duration(delay)
}

// WithRetry calls provider until it succeeds, the policy aborts, or ctx is
// done. It returns the generated text and the number of attempts made. The
// returned error is the last provider failure, always as a *ProviderError.
func (p RetryPolicy) WithRetry(ctx context.Context, provider Provider, prompt Prompt) (string, int, error) {
	log := logger.FromContextOrDefault(ctx, nil)

	for attempt := 1; ; attempt++ {
		text, err := provider.Generate(ctx, prompt)
		if err == nil {
			return text, attempt, nil
		}

		var pe *ProviderError
		if !errors.As(err, &pe) {
			pe = NewProviderError(ClassifyError(err), "provider call failed", err)
		}

		if p.Decide(pe, attempt) == Abort {
			return "", attempt, pe
		}

		delay := p.Delay(attempt)
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < delay {
			log.WarnContext(ctx, "retry deadline shorter than backoff, giving up",
				slog.Int("attempt", attempt),
				slog.String("error_kind", string(pe.Kind)))
			return "", attempt, pe
		}

		log.DebugContext(ctx, "retrying provider call after transient failure",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", p.maxAttempts()),
			slog.Duration("delay", delay),
			slog.String("error_kind", string(pe.Kind)))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", attempt, pe
		case <-timer.C:
		}
	}
}
