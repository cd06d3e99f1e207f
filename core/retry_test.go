package core

import (
	"context"
	"testing"
	"time"
)

func instantSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, delay time.Duration) error {
		if delays != nil {
			*delays = append(*delays, delay)
		}
		return nil
	}
}

func TestRetry_StopsAtAttemptCeiling(t *testing.T) {
	calls := 0
	transient := NewTransientUpstreamError(ProviderTeller, context.DeadlineExceeded, "upstream timed out")

	_, err := Retry(context.Background(), RetryPolicy{Sleep: instantSleep(nil)}, func(context.Context) (int, error) {
		calls++
		return 0, transient
	})
	if err == nil {
		t.Fatalf("expected error after exhausting attempts")
	}
	if calls != defaultRetryMaxAttempts {
		t.Fatalf("expected %d attempts, got %d", defaultRetryMaxAttempts, calls)
	}
	if err != transient {
		t.Fatalf("expected final error returned unchanged, got %v", err)
	}
}

func TestRetry_DoesNotRetryValidation(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), RetryPolicy{Sleep: instantSleep(nil)}, func(context.Context) (int, error) {
		calls++
		return 0, NewValidationError("accountId is required")
	})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt for a validation error, got %d", calls)
	}
}

func TestRetry_DoesNotRetryContractOrRejection(t *testing.T) {
	for name, failure := range map[string]error{
		"contract":  NewUpstreamContractError(ProviderPlaid, nil, "unexpected shape"),
		"rejection": NewUpstreamStatusError(ProviderPlaid, 404, nil),
		"gap":       NewUnsupportedOperationError(ProviderStripe, "GetInstitutions"),
	} {
		calls := 0
		_, err := Retry(context.Background(), RetryPolicy{Sleep: instantSleep(nil)}, func(context.Context) (int, error) {
			calls++
			return 0, failure
		})
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if calls != 1 {
			t.Fatalf("%s: expected a single attempt, got %d", name, calls)
		}
	}
}

func TestRetry_SucceedsAfterTransientFailure(t *testing.T) {
	calls := 0
	got, err := Retry(context.Background(), RetryPolicy{Sleep: instantSleep(nil)}, func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", NewUpstreamStatusError(ProviderTeller, 503, nil)
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if got != "ok" {
		t.Fatalf("expected result %q, got %q", "ok", got)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}

func TestRetry_BackoffDoublesAndCaps(t *testing.T) {
	var delays []time.Duration
	policy := RetryPolicy{
		MaxAttempts:    5,
		InitialBackoff: 2 * time.Second,
		MaxBackoff:     5 * time.Second,
		Sleep:          instantSleep(&delays),
	}

	_, _ = Retry(context.Background(), policy, func(context.Context) (int, error) {
		return 0, NewUpstreamStatusError(ProviderTeller, 500, nil)
	})

	want := []time.Duration{2 * time.Second, 4 * time.Second, 5 * time.Second, 5 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("expected %d sleeps, got %d (%v)", len(want), len(delays), delays)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Fatalf("sleep %d: expected %v, got %v", i, want[i], delays[i])
		}
	}
}

func TestRetry_CancelledSleepReturnsOperationError(t *testing.T) {
	transient := NewUpstreamStatusError(ProviderTeller, 502, nil)
	policy := RetryPolicy{
		Sleep: func(ctx context.Context, _ time.Duration) error {
			return context.Canceled
		},
	}

	_, err := Retry(context.Background(), policy, func(context.Context) (int, error) {
		return 0, transient
	})
	if err != transient {
		t.Fatalf("expected the operation error after an aborted backoff, got %v", err)
	}
}
