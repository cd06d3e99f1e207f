package core

import (
	"context"
	"time"
)

const (
	defaultRetryMaxAttempts    = 3
	defaultRetryInitialBackoff = 200 * time.Millisecond
	defaultRetryMaxBackoff     = 5 * time.Second
)

// RetryPolicy re-invokes a bound adapter operation a fixed number of times
// with exponential backoff. Only failures accepted by ShouldRetry are
// re-attempted; the final error surfaces to the caller unchanged.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Sleep waits between attempts; tests substitute an instant clock.
	Sleep func(ctx context.Context, delay time.Duration) error

	// ShouldRetry defaults to IsRetryable.
	ShouldRetry func(err error) bool
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    defaultRetryMaxAttempts,
		InitialBackoff: defaultRetryInitialBackoff,
		MaxBackoff:     defaultRetryMaxBackoff,
	}
}

func (p RetryPolicy) normalize() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = defaultRetryMaxAttempts
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = defaultRetryInitialBackoff
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = defaultRetryMaxBackoff
	}
	if p.Sleep == nil {
		p.Sleep = sleepWithContext
	}
	if p.ShouldRetry == nil {
		p.ShouldRetry = IsRetryable
	}
	return p
}

func (p RetryPolicy) delayForAttempt(attempt int) time.Duration {
	delay := p.InitialBackoff
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if delay > p.MaxBackoff {
		return p.MaxBackoff
	}
	return delay
}

// Retry runs op up to the policy's attempt ceiling. The operation arrives
// already bound with its arguments; Retry knows nothing about the adapter.
func Retry[T any](ctx context.Context, policy RetryPolicy, op func(ctx context.Context) (T, error)) (T, error) {
	policy = policy.normalize()

	var zero T
	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !policy.ShouldRetry(err) {
			return zero, err
		}
		if attempt == policy.MaxAttempts {
			break
		}
		if sleepErr := policy.Sleep(ctx, policy.delayForAttempt(attempt)); sleepErr != nil {
			return zero, lastErr
		}
	}
	return zero, lastErr
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
