package retry

import (
	"context"
	"time"
)

// Policy is an explicit retry contract injected into every external-call
// wrapper instead of hand-rolling backoff at each call site.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Transient reports whether an error is worth retrying. Callers provide it so
// the policy stays provider-agnostic (gRPC codes for Gemini, HTTP status for
// OpenAI).
type Transient func(err error) bool

// Do runs fn up to MaxAttempts times, doubling the delay between attempts and
// capping it at MaxDelay. It returns the last error when attempts are
// exhausted, and stops early when the error is not transient or the context
// is done.
func (p Policy) Do(ctx context.Context, isTransient Transient, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := p.BaseDelay
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		if isTransient != nil && !isTransient(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
	return err
}
