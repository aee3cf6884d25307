package generator

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/wordcard/internal/wordstore"
)

// Breaker stops calling a failing provider for a cool-down period
type Breaker struct {
	inner Generator
	cb    *gobreaker.CircuitBreaker
}

// NewBreaker wraps gen. After failures consecutive errors every call fails
// with gobreaker.ErrOpenState until cooldown has elapsed; then a single
// trial request decides whether the circuit closes again.
func NewBreaker(gen Generator, failures uint32, cooldown time.Duration) *Breaker {
	if failures == 0 {
		failures = 1
	}
	return &Breaker{
		inner: gen,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        gen.Name(),
			MaxRequests: 1,
			Timeout:     cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
		}),
	}
}

// Name returns the wrapped provider name
func (b *Breaker) Name() string {
	return b.inner.Name()
}

// State reports the breaker state, e.g. "closed" or "open"
func (b *Breaker) State() string {
	return b.cb.State().String()
}

// Generate forwards to the wrapped provider unless the circuit is open
func (b *Breaker) Generate(ctx context.Context, words []string) ([]wordstore.Record, error) {
	if len(words) == 0 {
		return nil, nil
	}
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Generate(ctx, words)
	})
	if err != nil {
		return nil, err
	}
	records, _ := result.([]wordstore.Record)
	return records, nil
}
