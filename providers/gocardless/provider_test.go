package gocardless

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/PlaybookMediaEngineering/tesseract-engineering/core"
	"github.com/PlaybookMediaEngineering/tesseract-engineering/providers/devkit"
)

const tokenBody = `{"access":"short-lived-token","access_expires":86400}`

func newTestAdapter(t *testing.T, fake *devkit.FakeTransport) *Adapter {
	t.Helper()
	adapter, err := New(Config{
		Transport: fake,
		SecretID:  "secret-id",
		SecretKey: "secret-key",
	})
	if err != nil {
		t.Fatalf("expected adapter to build, got %v", err)
	}
	return adapter
}

func TestGetTransactions_ExchangesTokenFirst(t *testing.T) {
	fake := devkit.NewFakeTransport(
		devkit.JSONResponse(200, tokenBody),
		devkit.JSONResponse(200, `{"transactions":{"booked":[
			{"transactionId":"txn_1","bookingDate":"2024-05-01","transactionAmount":{"amount":"-5.00","currency":"EUR"},"creditorName":"Shop"}
		],"pending":[
			{"transactionId":"txn_2","valueDate":"2024-05-02","transactionAmount":{"amount":"9.00","currency":"EUR"},"debtorName":"Employer"}
		]}}`),
	)
	adapter := newTestAdapter(t, fake)

	transactions, err := adapter.GetTransactions(context.Background(), core.GetTransactionsRequest{AccountID: "acc_1"})
	if err != nil {
		t.Fatalf("expected transactions, got %v", err)
	}
	if len(transactions) != 2 {
		t.Fatalf("expected booked plus pending, got %d", len(transactions))
	}
	if transactions[0].Status != core.TransactionStatusPosted {
		t.Fatalf("expected booked to map to posted, got %q", transactions[0].Status)
	}
	if transactions[1].Status != core.TransactionStatusPending {
		t.Fatalf("expected pending to stay pending, got %q", transactions[1].Status)
	}

	requests := fake.Requests()
	if len(requests) != 2 {
		t.Fatalf("expected token exchange plus data call, got %d", len(requests))
	}
	if !strings.HasSuffix(requests[0].URL, "/api/v2/token/new/") {
		t.Fatalf("expected token exchange first, got %q", requests[0].URL)
	}
	var tokenReq map[string]string
	if err := json.Unmarshal(requests[0].Body, &tokenReq); err != nil {
		t.Fatalf("decode token request: %v", err)
	}
	if tokenReq["secret_id"] != "secret-id" || tokenReq["secret_key"] != "secret-key" {
		t.Fatalf("expected credentials in token request, got %v", tokenReq)
	}
	if requests[1].Headers["Authorization"] != "Bearer short-lived-token" {
		t.Fatalf("expected bearer token on data call, got %q", requests[1].Headers["Authorization"])
	}
}

func TestGetTransactions_ValidatesBeforeNetwork(t *testing.T) {
	fake := devkit.NewFakeTransport()
	adapter := newTestAdapter(t, fake)

	if _, err := adapter.GetTransactions(context.Background(), core.GetTransactionsRequest{}); err == nil {
		t.Fatalf("expected validation error for missing account id")
	}
	if fake.CallCount() != 0 {
		t.Fatalf("expected no network call on validation failure, got %d", fake.CallCount())
	}
}

func TestGetAccounts_WalksRequisition(t *testing.T) {
	fake := devkit.NewFakeTransport(
		devkit.JSONResponse(200, tokenBody),
		devkit.JSONResponse(200, `{"id":"req_1","status":"LN","accounts":["acc_1"]}`),
		devkit.JSONResponse(200, tokenBody),
		devkit.JSONResponse(200, `{"id":"acc_1","iban":"DE89370400440532013000","institution_id":"SANDBOXFINANCE_SFIN0000"}`),
		devkit.JSONResponse(200, tokenBody),
		devkit.JSONResponse(200, `{"account":{"currency":"EUR","name":"Main Account","ownerName":"Jane Doe"}}`),
		devkit.JSONResponse(200, tokenBody),
		devkit.JSONResponse(200, `{"id":"SANDBOXFINANCE_SFIN0000","name":"Sandbox Finance","logo":"https://cdn.example/sf.png"}`),
	)
	adapter := newTestAdapter(t, fake)

	accounts, err := adapter.GetAccounts(context.Background(), core.GetAccountsRequest{ID: "req_1"})
	if err != nil {
		t.Fatalf("expected accounts, got %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected one account, got %d", len(accounts))
	}
	account := accounts[0]
	if account.ID != "acc_1" || account.Name != "Main Account" || account.Currency != "EUR" {
		t.Fatalf("unexpected account %+v", account)
	}
	if account.Institution == nil || account.Institution.Name != "Sandbox Finance" {
		t.Fatalf("expected institution decoration, got %+v", account.Institution)
	}
	if !strings.Contains(fake.Requests()[1].URL, "/api/v2/requisitions/req_1/") {
		t.Fatalf("expected requisition lookup, got %q", fake.Requests()[1].URL)
	}
}

func TestGetAccountBalance_PrefersInterimAvailable(t *testing.T) {
	fake := devkit.NewFakeTransport(
		devkit.JSONResponse(200, tokenBody),
		devkit.JSONResponse(200, `{"balances":[
			{"balanceType":"expected","balanceAmount":{"amount":"90.00","currency":"EUR"}},
			{"balanceType":"interimAvailable","balanceAmount":{"amount":"100.50","currency":"EUR"}}
		]}`),
	)
	adapter := newTestAdapter(t, fake)

	balance, err := adapter.GetAccountBalance(context.Background(), core.GetAccountBalanceRequest{AccountID: "acc_1"})
	if err != nil {
		t.Fatalf("expected balance, got %v", err)
	}
	if balance == nil || balance.Amount != 100.50 || balance.Currency != "EUR" {
		t.Fatalf("expected interimAvailable balance, got %+v", balance)
	}
}

func TestGetInstitutions_PassesCountry(t *testing.T) {
	fake := devkit.NewFakeTransport(
		devkit.JSONResponse(200, tokenBody),
		devkit.JSONResponse(200, `[{"id":"REVOLUT_REVOGB21","name":"Revolut","logo":"https://cdn.example/revolut.png"}]`),
	)
	adapter := newTestAdapter(t, fake)

	institutions, err := adapter.GetInstitutions(context.Background(), core.GetInstitutionsRequest{CountryCode: "gb"})
	if err != nil {
		t.Fatalf("expected institutions, got %v", err)
	}
	if len(institutions) != 1 || institutions[0].Provider != core.ProviderGoCardless {
		t.Fatalf("unexpected institutions %+v", institutions)
	}
	if fake.Requests()[1].Query["country"] != "gb" {
		t.Fatalf("expected country filter, got %v", fake.Requests()[1].Query)
	}
}

func TestDeleteAccounts_DeletesRequisition(t *testing.T) {
	fake := devkit.NewFakeTransport(
		devkit.JSONResponse(200, tokenBody),
		devkit.JSONResponse(200, `{"summary":"Requisition deleted"}`),
	)
	adapter := newTestAdapter(t, fake)

	if err := adapter.DeleteAccounts(context.Background(), core.DeleteAccountsRequest{AccountID: "req_1"}); err != nil {
		t.Fatalf("expected deletion to succeed, got %v", err)
	}
	request := fake.Requests()[1]
	if request.Method != "DELETE" || !strings.Contains(request.URL, "/api/v2/requisitions/req_1/") {
		t.Fatalf("expected requisition delete, got %s %s", request.Method, request.URL)
	}
}

func TestGetHealthCheck_FailedTokenExchangeIsUnhealthy(t *testing.T) {
	fake := devkit.NewFakeTransport(devkit.JSONResponse(401, `{"detail":"bad credentials"}`))
	adapter := newTestAdapter(t, fake)

	if adapter.GetHealthCheck(context.Background()) {
		t.Fatalf("expected unhealthy probe on auth failure")
	}
}
