package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned when the breaker rejects an operation
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Operation is a unit of work executed through a breaker or retry policy
type Operation func(ctx context.Context) (interface{}, error)

// Settings configures a circuit breaker
type Settings struct {
	Name             string
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
	SuccessThreshold uint32
}

// CircuitBreaker wraps gobreaker with metrics and a fallback hook
type CircuitBreaker struct {
	name     string
	breaker  *gobreaker.CircuitBreaker
	fallback FallbackFunc
}

// NewCircuitBreaker creates a circuit breaker with the given settings.
// A nil fallback behaves like NoopFallback.
func NewCircuitBreaker(settings Settings, fallback FallbackFunc) *CircuitBreaker {
	name := nextBreakerName(settings.Name)
	if fallback == nil {
		fallback = NoopFallback
	}

	threshold := settings.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	successes := settings.SuccessThreshold
	if successes == 0 {
		successes = 1
	}

	gbSettings := gobreaker.Settings{
		Name:        name,
		MaxRequests: successes,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			recordBreakerStateChange(name, from, to)
		},
	}

	cb := &CircuitBreaker{
		name:     name,
		breaker:  gobreaker.NewCircuitBreaker(gbSettings),
		fallback: fallback,
	}
	recordBreakerState(name, gobreaker.StateClosed)
	return cb
}

// Execute runs the operation through the breaker, invoking the fallback
// when the breaker is open.
func (b *CircuitBreaker) Execute(ctx context.Context, operation Operation) (interface{}, error) {
	breakerRequestsTotal.WithLabelValues(b.name).Inc()

	result, err := b.breaker.Execute(func() (interface{}, error) {
		return operation(ctx)
	})
	if err != nil {
		breakerFailuresTotal.WithLabelValues(b.name).Inc()
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			breakerFallbacksTotal.WithLabelValues(b.name).Inc()
			return b.fallback(ctx, ErrCircuitOpen)
		}
		return nil, err
	}
	return result, nil
}

// Name returns the breaker's metric label
func (b *CircuitBreaker) Name() string {
	return b.name
}

// State returns the breaker's current state
func (b *CircuitBreaker) State() gobreaker.State {
	return b.breaker.State()
}
