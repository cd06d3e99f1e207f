// Package gocardless adapts the GoCardless bank account data API to the
// canonical provider contract. Accounts are resolved through requisitions
// and credentials are traded for a fresh bearer token on every call.
package gocardless

import (
	"context"

	"github.com/PlaybookMediaEngineering/tesseract-engineering/core"
)

const Variant = core.ProviderGoCardless

type Config struct {
	Transport core.TransportAdapter
	BaseURL   string
	SecretID  string
	SecretKey string
	Logger    core.Logger
}

type Adapter struct {
	client *Client
	logger core.Logger
}

func New(cfg Config) (*Adapter, error) {
	if cfg.Transport == nil {
		return nil, core.NewInternalError("gocardless adapter requires a transport")
	}
	return &Adapter{
		client: newClient(cfg.Transport, cfg.BaseURL, cfg.SecretID, cfg.SecretKey),
		logger: cfg.Logger,
	}, nil
}

func (a *Adapter) Variant() core.ProviderVariant {
	return Variant
}

func (a *Adapter) GetTransactions(ctx context.Context, req core.GetTransactionsRequest) ([]core.Transaction, error) {
	if err := core.RequireFields(Variant, map[string]string{
		"accountId": req.AccountID,
	}); err != nil {
		return nil, err
	}

	buckets, err := a.client.GetTransactions(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	transactions := make([]core.Transaction, 0, len(buckets.Booked)+len(buckets.Pending))
	for _, raw := range buckets.Booked {
		tx, err := transformTransaction(raw, core.TransactionStatusPosted)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	for _, raw := range buckets.Pending {
		tx, err := transformTransaction(raw, core.TransactionStatusPending)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func (a *Adapter) GetAccounts(ctx context.Context, req core.GetAccountsRequest) ([]core.Account, error) {
	if err := core.RequireFields(Variant, map[string]string{
		"id": req.ID,
	}); err != nil {
		return nil, err
	}

	requisition, err := a.client.GetRequisition(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	institutions := map[string]*core.Institution{}
	accounts := make([]core.Account, 0, len(requisition.Accounts))
	for _, accountID := range requisition.Accounts {
		meta, err := a.client.GetAccountMeta(ctx, accountID)
		if err != nil {
			return nil, err
		}
		detail, err := a.client.GetAccountDetail(ctx, accountID)
		if err != nil {
			return nil, err
		}

		institution, ok := institutions[meta.InstitutionID]
		if !ok && meta.InstitutionID != "" {
			raw, err := a.client.GetInstitution(ctx, meta.InstitutionID)
			if err == nil {
				resolved := transformInstitution(raw)
				institution = &resolved
			} else if a.logger != nil {
				// Institution metadata is decoration; the account itself
				// is still usable without it.
				a.logger.Error("gocardless institution lookup failed",
					"institution_id", meta.InstitutionID, "error", err)
			}
			institutions[meta.InstitutionID] = institution
		}

		accounts = append(accounts, transformAccount(meta, detail, institution))
	}
	return accounts, nil
}

func (a *Adapter) GetAccountBalance(ctx context.Context, req core.GetAccountBalanceRequest) (*core.Balance, error) {
	if err := core.RequireFields(Variant, map[string]string{
		"accountId": req.AccountID,
	}); err != nil {
		return nil, err
	}

	balances, err := a.client.GetBalances(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	return transformBalance(balances)
}

func (a *Adapter) GetInstitutions(ctx context.Context, req core.GetInstitutionsRequest) ([]core.Institution, error) {
	raws, err := a.client.ListInstitutions(ctx, req.CountryCode)
	if err != nil {
		return nil, err
	}
	institutions := make([]core.Institution, 0, len(raws))
	for _, raw := range raws {
		institutions = append(institutions, transformInstitution(raw))
	}
	return institutions, nil
}

func (a *Adapter) DeleteAccounts(ctx context.Context, req core.DeleteAccountsRequest) error {
	if err := core.RequireFields(Variant, map[string]string{
		"accountId": req.AccountID,
	}); err != nil {
		return err
	}
	return a.client.DeleteRequisition(ctx, req.AccountID)
}

func (a *Adapter) GetHealthCheck(ctx context.Context) bool {
	if a == nil || a.client == nil {
		return false
	}
	return a.client.Ping(ctx) == nil
}

var _ core.ProviderAdapter = (*Adapter)(nil)
