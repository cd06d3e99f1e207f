package teller

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/PlaybookMediaEngineering/tesseract-engineering/core"
	"github.com/PlaybookMediaEngineering/tesseract-engineering/providers/devkit"
)

func newTestAdapter(t *testing.T, fake *devkit.FakeTransport) *Adapter {
	t.Helper()
	adapter, err := New(Config{Transport: fake})
	if err != nil {
		t.Fatalf("expected adapter to build, got %v", err)
	}
	return adapter
}

func TestNew_RequiresTransport(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected missing transport to fail construction")
	}
}

func TestGetTransactions_ValidatesBeforeNetwork(t *testing.T) {
	fake := devkit.NewFakeTransport()
	adapter := newTestAdapter(t, fake)

	_, err := adapter.GetTransactions(context.Background(), core.GetTransactionsRequest{})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if fake.CallCount() != 0 {
		t.Fatalf("expected no network call on validation failure, got %d", fake.CallCount())
	}
}

func TestGetTransactions_BasicAuthAndTransform(t *testing.T) {
	fake := devkit.NewFakeTransport(devkit.JSONResponse(200, `[
		{"id":"txn_1","account_id":"acc_1","amount":"-12.34","date":"2024-05-01","status":"posted","type":"card_payment","details":{"counterparty":{"name":"Cafe"}}}
	]`))
	adapter := newTestAdapter(t, fake)

	transactions, err := adapter.GetTransactions(context.Background(), core.GetTransactionsRequest{
		AccountID:   "acc_1",
		AccessToken: "token_abc",
	})
	if err != nil {
		t.Fatalf("expected transactions, got %v", err)
	}
	if len(transactions) != 1 {
		t.Fatalf("expected one transaction, got %d", len(transactions))
	}
	if transactions[0].Amount != 12.34 || transactions[0].Currency != "USD" {
		t.Fatalf("expected canonical USD amount, got %+v", transactions[0])
	}

	requests := fake.Requests()
	if !strings.Contains(requests[0].URL, "/accounts/acc_1/transactions") {
		t.Fatalf("unexpected url %q", requests[0].URL)
	}
	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("token_abc:"))
	if requests[0].Headers["Authorization"] != wantAuth {
		t.Fatalf("expected basic auth with token as username, got %q", requests[0].Headers["Authorization"])
	}
}

func TestGetTransactions_LatestBoundsPageSize(t *testing.T) {
	fake := devkit.NewFakeTransport(devkit.JSONResponse(200, `[]`))
	adapter := newTestAdapter(t, fake)

	_, err := adapter.GetTransactions(context.Background(), core.GetTransactionsRequest{
		AccountID:   "acc_1",
		AccessToken: "token",
		Latest:      true,
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if fake.Requests()[0].Query["count"] != "100" {
		t.Fatalf("expected latest to request 100 items, got %q", fake.Requests()[0].Query["count"])
	}
}

func TestGetAccounts_ContractErrorOnMissingFields(t *testing.T) {
	fake := devkit.NewFakeTransport(devkit.JSONResponse(200, `[{"name":"No ID"}]`))
	adapter := newTestAdapter(t, fake)

	_, err := adapter.GetAccounts(context.Background(), core.GetAccountsRequest{AccessToken: "token"})
	if err == nil {
		t.Fatalf("expected contract error for invalid account payload")
	}
	if core.IsRetryable(err) {
		t.Fatalf("contract errors must not be retried, got %v", err)
	}
}

func TestGetAccountBalance_MissingBalanceIsAbsent(t *testing.T) {
	fake := devkit.NewFakeTransport(devkit.JSONResponse(200, `{"account_id":"acc_1"}`))
	adapter := newTestAdapter(t, fake)

	balance, err := adapter.GetAccountBalance(context.Background(), core.GetAccountBalanceRequest{
		AccountID:   "acc_1",
		AccessToken: "token",
	})
	if err != nil {
		t.Fatalf("expected absent balance without error, got %v", err)
	}
	if balance != nil {
		t.Fatalf("expected nil balance, got %+v", balance)
	}
}

func TestDeleteAccounts_RemovesEveryEnrollmentAccount(t *testing.T) {
	fake := devkit.NewFakeTransport(
		devkit.JSONResponse(200, `[
			{"id":"acc_1","name":"A","currency":"USD","type":"depository"},
			{"id":"acc_2","name":"B","currency":"USD","type":"credit"}
		]`),
		devkit.JSONResponse(204, ``),
		devkit.JSONResponse(204, ``),
	)
	adapter := newTestAdapter(t, fake)

	if err := adapter.DeleteAccounts(context.Background(), core.DeleteAccountsRequest{AccessToken: "token"}); err != nil {
		t.Fatalf("expected deletion to succeed, got %v", err)
	}

	requests := fake.Requests()
	if len(requests) != 3 {
		t.Fatalf("expected list plus two deletes, got %d calls", len(requests))
	}
	if requests[1].Method != "DELETE" || !strings.Contains(requests[1].URL, "/accounts/acc_1") {
		t.Fatalf("expected first delete for acc_1, got %s %s", requests[1].Method, requests[1].URL)
	}
	if requests[2].Method != "DELETE" || !strings.Contains(requests[2].URL, "/accounts/acc_2") {
		t.Fatalf("expected second delete for acc_2, got %s %s", requests[2].Method, requests[2].URL)
	}
}

func TestGetHealthCheck_AbsorbsFailure(t *testing.T) {
	healthy := newTestAdapter(t, devkit.NewFakeTransport(devkit.JSONResponse(200, `{}`)))
	if !healthy.GetHealthCheck(context.Background()) {
		t.Fatalf("expected healthy probe")
	}

	unhealthy := newTestAdapter(t, devkit.NewFakeTransport(devkit.JSONResponse(500, `{}`)))
	if unhealthy.GetHealthCheck(context.Background()) {
		t.Fatalf("expected unhealthy probe on 500")
	}
}
