package translation

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/translingo/internal/langcode"
)

// BreakerConfig controls when the circuit opens
type BreakerConfig struct {
	MaxFailures uint32        // consecutive failures before opening
	OpenTimeout time.Duration // how long the circuit stays open
}

// DefaultBreakerConfig returns the default breaker settings
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures: 5,
		OpenTimeout: 30 * time.Second,
	}
}

// Breaker fails fast while the wrapped backend keeps failing. It never
// retries a request.
type Breaker struct {
	next Translator
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps next in a circuit breaker
func NewBreaker(next Translator, cfg BreakerConfig) *Breaker {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = DefaultBreakerConfig().MaxFailures
	}
	maxFailures := cfg.MaxFailures

	return &Breaker{
		next: next,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        next.Name(),
			MaxRequests: 1,
			Timeout:     cfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			IsSuccessful: func(err error) bool {
				// the caller gave up, the backend did not fail
				return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
			},
		}),
	}
}

// Name returns the wrapped backend name
func (b *Breaker) Name() string {
	return b.next.Name()
}

// State reports the breaker state, e.g. "closed" or "open"
func (b *Breaker) State() string {
	return b.cb.State().String()
}

// Translate forwards to the wrapped backend unless the circuit is open
func (b *Breaker) Translate(ctx context.Context, text string, src, tgt langcode.APICode) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Translate(ctx, text, src, tgt)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}
