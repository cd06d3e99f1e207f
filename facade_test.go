package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PlaybookMediaEngineering/tesseract-engineering/core"
	"github.com/PlaybookMediaEngineering/tesseract-engineering/providers/devkit"
)

// routeTransport answers by URL so concurrent probes stay deterministic.
type routeTransport struct {
	handler func(req core.TransportRequest) (core.TransportResponse, error)
}

func (r routeTransport) Do(_ context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	return r.handler(req)
}

func instantRetry() core.RetryPolicy {
	return core.RetryPolicy{
		Sleep: func(context.Context, time.Duration) error { return nil },
	}
}

func TestNew_DegradedModeOperations(t *testing.T) {
	gateway, err := New(Config{Provider: "", Environment: core.EnvironmentSandbox})
	if err != nil {
		t.Fatalf("expected degraded gateway to build, got %v", err)
	}
	if _, ok := gateway.ActiveVariant(); ok {
		t.Fatalf("expected no active variant")
	}

	ctx := context.Background()

	transactions, err := gateway.GetTransactions(ctx, GetTransactionsRequest{AccountID: "acc_1"})
	if err != nil || transactions == nil || len(transactions) != 0 {
		t.Fatalf("expected empty transactions without error, got %v, %v", transactions, err)
	}
	accounts, err := gateway.GetAccounts(ctx, GetAccountsRequest{})
	if err != nil || accounts == nil || len(accounts) != 0 {
		t.Fatalf("expected empty accounts without error, got %v, %v", accounts, err)
	}
	balance, err := gateway.GetAccountBalance(ctx, GetAccountBalanceRequest{AccountID: "acc_1"})
	if err != nil || balance != nil {
		t.Fatalf("expected absent balance without error, got %v, %v", balance, err)
	}
	institutions, err := gateway.GetInstitutions(ctx, GetInstitutionsRequest{})
	if err != nil || institutions == nil || len(institutions) != 0 {
		t.Fatalf("expected empty institutions without error, got %v, %v", institutions, err)
	}
	if err := gateway.DeleteAccounts(ctx, DeleteAccountsRequest{AccountID: "acc_1"}); err != nil {
		t.Fatalf("expected delete no-op, got %v", err)
	}
}

func TestNew_UnknownDiscriminantIsDegraded(t *testing.T) {
	gateway, err := New(Config{Provider: "monzo", Environment: core.EnvironmentSandbox})
	if err != nil {
		t.Fatalf("expected unknown discriminant to degrade, not fail, got %v", err)
	}
	if _, ok := gateway.ActiveVariant(); ok {
		t.Fatalf("expected no active variant for unknown discriminant")
	}
}

func TestNew_FailsFastOnMissingCredentials(t *testing.T) {
	if _, err := New(Config{Provider: "plaid", Environment: core.EnvironmentSandbox}); err == nil {
		t.Fatalf("expected missing plaid credentials to fail construction")
	}
}

func TestGetAccounts_RetriesTransientFailures(t *testing.T) {
	fake := devkit.NewFakeTransport(
		devkit.JSONResponse(503, `{"error":"try again"}`),
		devkit.JSONResponse(200, `[{"id":"acc_1","name":"Checking","currency":"USD","type":"depository"}]`),
	)
	gateway, err := New(
		Config{Provider: "teller", Environment: core.EnvironmentSandbox},
		WithTransport(fake),
		WithRetryPolicy(instantRetry()),
	)
	if err != nil {
		t.Fatalf("expected gateway to build, got %v", err)
	}

	accounts, err := gateway.GetAccounts(context.Background(), GetAccountsRequest{AccessToken: "token"})
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if len(accounts) != 1 || accounts[0].ID != "acc_1" {
		t.Fatalf("unexpected accounts %+v", accounts)
	}
	if fake.CallCount() != 2 {
		t.Fatalf("expected one retry, got %d calls", fake.CallCount())
	}
}

func TestGetAccounts_DoesNotRetryValidation(t *testing.T) {
	fake := devkit.NewFakeTransport()
	gateway, err := New(
		Config{Provider: "teller", Environment: core.EnvironmentSandbox},
		WithTransport(fake),
		WithRetryPolicy(instantRetry()),
	)
	if err != nil {
		t.Fatalf("expected gateway to build, got %v", err)
	}

	if _, err := gateway.GetAccounts(context.Background(), GetAccountsRequest{}); err == nil {
		t.Fatalf("expected validation error")
	}
	if fake.CallCount() != 0 {
		t.Fatalf("expected no network call, got %d", fake.CallCount())
	}
}

func TestGetHealthCheck_AllVariantsAlwaysPresent(t *testing.T) {
	// Teller's probe succeeds; every other provider's host returns 500.
	transport := routeTransport{handler: func(req core.TransportRequest) (core.TransportResponse, error) {
		if strings.Contains(req.URL, "teller.io") {
			return core.TransportResponse{StatusCode: 200, Body: []byte(`{}`)}, nil
		}
		return core.TransportResponse{StatusCode: 500, Body: []byte(`{}`)}, nil
	}}

	gateway, err := New(
		Config{Provider: "teller", Environment: core.EnvironmentSandbox},
		WithTransport(transport),
	)
	if err != nil {
		t.Fatalf("expected gateway to build, got %v", err)
	}

	result, err := gateway.GetHealthCheck(context.Background())
	if err != nil {
		t.Fatalf("expected health check to complete, got %v", err)
	}
	if !result.Teller.Healthy {
		t.Fatalf("expected teller healthy, got %+v", result)
	}
	if result.Plaid.Healthy || result.GoCardless.Healthy || result.Stripe.Healthy {
		t.Fatalf("expected exactly one healthy provider, got %+v", result)
	}
}

func TestGetHealthCheck_RunsEvenWhenDegraded(t *testing.T) {
	transport := routeTransport{handler: func(req core.TransportRequest) (core.TransportResponse, error) {
		switch {
		case strings.Contains(req.URL, "/api/v2/token/new/"):
			return core.TransportResponse{StatusCode: 200, Body: []byte(`{"access":"tok"}`)}, nil
		case strings.Contains(req.URL, "/api/v2/institutions/"):
			return core.TransportResponse{StatusCode: 200, Body: []byte(`[]`)}, nil
		default:
			return core.TransportResponse{StatusCode: 200, Body: []byte(`{}`)}, nil
		}
	}}

	gateway, err := New(Config{Provider: "", Environment: core.EnvironmentSandbox}, WithTransport(transport))
	if err != nil {
		t.Fatalf("expected degraded gateway to build, got %v", err)
	}

	result, err := gateway.GetHealthCheck(context.Background())
	if err != nil {
		t.Fatalf("expected health check to complete, got %v", err)
	}
	if !result.Teller.Healthy || !result.Plaid.Healthy || !result.GoCardless.Healthy || !result.Stripe.Healthy {
		t.Fatalf("expected all probes healthy, got %+v", result)
	}
}
