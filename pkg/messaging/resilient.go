package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/abgdnv/petstore/pkg/config"
	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// ResilientPublisher retries failed publications with exponential backoff and stops
// calling the underlying publisher while its circuit breaker is open.
type ResilientPublisher struct {
	next    Publisher
	breaker *gobreaker.CircuitBreaker[struct{}]
	retry   config.RetryConfig
}

// NewResilientPublisher wraps next with retry and circuit breaker behaviour.
func NewResilientPublisher(next Publisher, cfg config.ResilienceConfig) *ResilientPublisher {
	return &ResilientPublisher{
		next:    next,
		breaker: newCircuitBreaker(cfg.CircuitBreaker),
		retry:   cfg.Retry,
	}
}

func newCircuitBreaker(cfg config.CircuitBreakerConfig) *gobreaker.CircuitBreaker[struct{}] {
	st := gobreaker.Settings{
		Name:        "event-publisher-cb",
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.TotalSuccesses + counts.TotalFailures
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures ||
				(total > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent))
		},
		IsSuccessful: func(err error) bool {
			// payload errors are the caller's fault, not the broker's
			return err == nil || errors.Is(err, ErrInvalidPayload)
		},
	}
	return gobreaker.NewCircuitBreaker[struct{}](st)
}

// ErrInvalidPayload marks an event that cannot be serialized. It is never retried.
var ErrInvalidPayload = errors.New("invalid event payload")

// Publish delivers the event, retrying transient failures up to the configured number of attempts.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	operation := func() error {
		_, err := p.breaker.Execute(func() (struct{}, error) {
			return struct{}{}, p.next.Publish(ctx, event)
		})
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrInvalidPayload),
			errors.Is(err, gobreaker.ErrOpenState),
			errors.Is(err, gobreaker.ErrTooManyRequests):
			return backoff.Permanent(err)
		default:
			return err
		}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.retry.InitialBackoff
	var retries uint64
	if p.retry.MaxAttempts > 1 {
		retries = uint64(p.retry.MaxAttempts - 1)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Subject(), err)
	}
	return nil
}

// State reports the current circuit breaker state.
func (p *ResilientPublisher) State() gobreaker.State {
	return p.breaker.State()
}
