package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

// GetTransactionsRequest carries the account/customer identifier plus the
// provider-specific pagination and filter fields; everything beyond the
// identifier is optional.
type GetTransactionsRequest struct {
	AccountID     string
	AccountType   AccountType
	AccessToken   string // Teller & Plaid
	Latest        bool
	CustomerID    string // Stripe
	Currency      string // Stripe
	Limit         int
	StartingAfter string // Stripe cursor
	EndingBefore  string // Stripe cursor
}

type GetAccountsRequest struct {
	ID            string // GoCardless requisition
	CountryCode   string // GoCardless
	AccessToken   string // Teller & Plaid
	InstitutionID string // Plaid
	CustomerID    string // Stripe
	BankAccountID string // Stripe
}

type GetAccountBalanceRequest struct {
	AccountID     string
	AccessToken   string // Teller & Plaid
	BankAccountID string // Stripe
}

type GetInstitutionsRequest struct {
	CountryCode string
}

type DeleteAccountsRequest struct {
	AccountID   string // GoCardless & Stripe
	AccessToken string // Teller & Plaid
}

// ProviderAdapter is the capability contract every provider variant
// implements. List operations return empty slices, never errors, when the
// provider holds no data. GetAccountBalance returns (nil, nil) when the
// account has no queryable balance. GetHealthCheck never raises; any
// internal fault is absorbed to false.
type ProviderAdapter interface {
	Variant() ProviderVariant

	GetTransactions(ctx context.Context, req GetTransactionsRequest) ([]Transaction, error)
	GetAccounts(ctx context.Context, req GetAccountsRequest) ([]Account, error)
	GetAccountBalance(ctx context.Context, req GetAccountBalanceRequest) (*Balance, error)
	GetInstitutions(ctx context.Context, req GetInstitutionsRequest) ([]Institution, error)
	DeleteAccounts(ctx context.Context, req DeleteAccountsRequest) error
	GetHealthCheck(ctx context.Context) bool
}

type TransportRequest struct {
	Method               string
	URL                  string
	Headers              map[string]string
	Query                map[string]string
	Body                 []byte
	Timeout              time.Duration
	MaxResponseBodyBytes int64
}

type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// TransportAdapter is the seam between provider clients and the wire.
// Tests substitute a scripted implementation.
type TransportAdapter interface {
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}
