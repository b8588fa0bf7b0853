// Package resilience wraps game-server calls in fortify protection
// patterns: retry with exponential backoff for idempotent fetches, a shared
// circuit breaker and timeouts for everything.
package resilience

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"
)

// Call is one transport operation returning a raw response body.
type Call func(ctx context.Context) ([]byte, error)

// Executor protects transport calls. Fetches (status, graph, leaderboard)
// are idempotent and retried; claim submissions are not idempotent and go
// through the breaker exactly once — the decision loop owns any re-attempt,
// with fresh state, on a later iteration.
type Executor struct {
	breaker       circuitbreaker.CircuitBreaker[[]byte]
	retry         retry.Retry[[]byte]
	fetchTimeout  time.Duration
	submitTimeout time.Duration
}

// Config configures the executor.
type Config struct {
	// RetryMaxAttempts caps retry attempts for idempotent fetches.
	RetryMaxAttempts int

	// RetryInitialDelay is the initial delay between retries.
	RetryInitialDelay time.Duration

	// BreakerThreshold is the number of consecutive failures before opening.
	BreakerThreshold int

	// BreakerTimeout is how long the circuit stays open.
	BreakerTimeout time.Duration

	// FetchTimeout bounds an idempotent fetch.
	FetchTimeout time.Duration

	// SubmitTimeout bounds a claim submission.
	SubmitTimeout time.Duration
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RetryMaxAttempts:  3,
		RetryInitialDelay: 100 * time.Millisecond,
		BreakerThreshold:  5,
		BreakerTimeout:    30 * time.Second,
		FetchTimeout:      120 * time.Second,
		SubmitTimeout:     30 * time.Second,
	}
}

// NewExecutor creates an executor with the given configuration.
func NewExecutor(config Config) *Executor {
	threshold := config.BreakerThreshold
	if threshold < 1 {
		threshold = 5
	}

	return &Executor{
		breaker: circuitbreaker.New[[]byte](circuitbreaker.Config{
			MaxRequests: uint32(threshold), // #nosec G115 -- bounds checked above
			Interval:    config.BreakerTimeout,
			Timeout:     config.BreakerTimeout,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(threshold) // #nosec G115 -- bounds checked above
			},
		}),
		retry: retry.New[[]byte](retry.Config{
			MaxAttempts:   config.RetryMaxAttempts,
			InitialDelay:  config.RetryInitialDelay,
			BackoffPolicy: retry.BackoffExponential,
			Multiplier:    2.0,
		}),
		fetchTimeout:  config.FetchTimeout,
		submitTimeout: config.SubmitTimeout,
	}
}

// NewDefaultExecutor creates an executor with default configuration.
func NewDefaultExecutor() *Executor {
	return NewExecutor(DefaultConfig())
}

// Fetch runs an idempotent call with timeout, circuit breaker, and retry.
func (e *Executor) Fetch(ctx context.Context, call Call) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
	defer cancel()

	return e.breaker.Execute(ctx, func(ctx context.Context) ([]byte, error) {
		return e.retry.Do(ctx, func(ctx context.Context) ([]byte, error) {
			return call(ctx)
		})
	})
}

// Submit runs a non-idempotent call with timeout and circuit breaker only.
func (e *Executor) Submit(ctx context.Context, call Call) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.submitTimeout)
	defer cancel()

	return e.breaker.Execute(ctx, func(ctx context.Context) ([]byte, error) {
		return call(ctx)
	})
}

// CircuitState returns the current state of the circuit breaker.
func (e *Executor) CircuitState() circuitbreaker.State {
	return e.breaker.State()
}
