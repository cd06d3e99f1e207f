package engine

import (
	"context"

	"github.com/PlaybookMediaEngineering/tesseract-engineering/core"
)

type Config = core.Config

type Environment = core.Environment

type ProviderVariant = core.ProviderVariant

type Account = core.Account
type Transaction = core.Transaction
type Balance = core.Balance
type Institution = core.Institution
type ProviderHealth = core.ProviderHealth
type HealthCheckResult = core.HealthCheckResult

type GetTransactionsRequest = core.GetTransactionsRequest
type GetAccountsRequest = core.GetAccountsRequest
type GetAccountBalanceRequest = core.GetAccountBalanceRequest
type GetInstitutionsRequest = core.GetInstitutionsRequest
type DeleteAccountsRequest = core.DeleteAccountsRequest

type RetryPolicy = core.RetryPolicy

const (
	ProviderTeller     = core.ProviderTeller
	ProviderPlaid      = core.ProviderPlaid
	ProviderGoCardless = core.ProviderGoCardless
	ProviderStripe     = core.ProviderStripe
)

func LoadConfig(ctx context.Context) (Config, error) {
	return core.LoadConfig(ctx)
}

// Setup loads configuration from the environment and builds a gateway
// from it.
func Setup(ctx context.Context, opts ...Option) (*Gateway, error) {
	cfg, err := LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}
