// Package teller adapts the Teller bank-transaction aggregator to the
// canonical provider contract.
package teller

import (
	"context"

	"github.com/PlaybookMediaEngineering/tesseract-engineering/core"
)

const Variant = core.ProviderTeller

type Config struct {
	Transport core.TransportAdapter
	BaseURL   string
	Logger    core.Logger
}

type Adapter struct {
	client *Client
	logger core.Logger
}

func New(cfg Config) (*Adapter, error) {
	if cfg.Transport == nil {
		return nil, core.NewInternalError("providers/teller: transport is required")
	}
	return &Adapter{
		client: NewClient(cfg.Transport, cfg.BaseURL),
		logger: cfg.Logger,
	}, nil
}

func (a *Adapter) Variant() core.ProviderVariant {
	return Variant
}

func (a *Adapter) GetTransactions(ctx context.Context, req core.GetTransactionsRequest) ([]core.Transaction, error) {
	if err := core.RequireFields(Variant, map[string]string{
		"accountId":   req.AccountID,
		"accessToken": req.AccessToken,
	}); err != nil {
		return nil, err
	}

	count := req.Limit
	if req.Latest && count == 0 {
		count = 100
	}
	raw, err := a.client.ListTransactions(ctx, req.AccessToken, req.AccountID, count)
	if err != nil {
		return nil, err
	}

	// Credit-card feeds report USD only, same as depository.
	transactions := make([]core.Transaction, 0, len(raw))
	for _, item := range raw {
		tx, err := transformTransaction(item, "USD")
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func (a *Adapter) GetAccounts(ctx context.Context, req core.GetAccountsRequest) ([]core.Account, error) {
	if err := core.RequireFields(Variant, map[string]string{
		"accessToken": req.AccessToken,
	}); err != nil {
		return nil, err
	}
	raw, err := a.client.ListAccounts(ctx, req.AccessToken)
	if err != nil {
		return nil, err
	}
	accounts := make([]core.Account, 0, len(raw))
	for _, item := range raw {
		accounts = append(accounts, transformAccount(item))
	}
	return accounts, nil
}

func (a *Adapter) GetAccountBalance(ctx context.Context, req core.GetAccountBalanceRequest) (*core.Balance, error) {
	if err := core.RequireFields(Variant, map[string]string{
		"accountId":   req.AccountID,
		"accessToken": req.AccessToken,
	}); err != nil {
		return nil, err
	}
	raw, err := a.client.GetBalance(ctx, req.AccessToken, req.AccountID)
	if err != nil {
		return nil, err
	}
	return transformBalance(raw)
}

func (a *Adapter) GetInstitutions(ctx context.Context, _ core.GetInstitutionsRequest) ([]core.Institution, error) {
	raw, err := a.client.ListInstitutions(ctx)
	if err != nil {
		return nil, err
	}
	institutions := make([]core.Institution, 0, len(raw))
	for _, item := range raw {
		institutions = append(institutions, transformInstitution(item))
	}
	return institutions, nil
}

// DeleteAccounts deregisters every account under the enrollment. Success
// means Teller acknowledged each deletion, not that webhook cleanup ran.
func (a *Adapter) DeleteAccounts(ctx context.Context, req core.DeleteAccountsRequest) error {
	if err := core.RequireFields(Variant, map[string]string{
		"accessToken": req.AccessToken,
	}); err != nil {
		return err
	}
	accounts, err := a.client.ListAccounts(ctx, req.AccessToken)
	if err != nil {
		return err
	}
	for _, account := range accounts {
		if err := a.client.DeleteAccount(ctx, req.AccessToken, account.ID); err != nil {
			return err
		}
	}
	return nil
}

func (a *Adapter) GetHealthCheck(ctx context.Context) bool {
	if a == nil || a.client == nil {
		return false
	}
	return a.client.Ping(ctx) == nil
}

var _ core.ProviderAdapter = (*Adapter)(nil)
