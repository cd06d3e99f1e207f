// Package plaid adapts the Plaid bank-transaction aggregator to the
// canonical provider contract.
package plaid

import (
	"context"

	"github.com/PlaybookMediaEngineering/tesseract-engineering/core"
)

const Variant = core.ProviderPlaid

// maxSyncPages bounds the cursor walk against a provider that keeps
// reporting more data without ever advancing.
const maxSyncPages = 100

type Config struct {
	Transport core.TransportAdapter
	BaseURL   string
	ClientID  string
	Secret    string
	Logger    core.Logger
}

type Adapter struct {
	client *Client
	logger core.Logger
}

func New(cfg Config) (*Adapter, error) {
	if cfg.Transport == nil {
		return nil, core.NewInternalError("providers/plaid: transport is required")
	}
	if cfg.BaseURL == "" {
		return nil, core.NewInternalError("providers/plaid: base url is required")
	}
	return &Adapter{
		client: NewClient(cfg.Transport, cfg.BaseURL, cfg.ClientID, cfg.Secret),
		logger: cfg.Logger,
	}, nil
}

func (a *Adapter) Variant() core.ProviderVariant {
	return Variant
}

// GetTransactions walks every page of the transactions/sync cursor unless
// Latest is set (single page). A page that claims more data but adds zero
// cursor-advancing items terminates the walk.
func (a *Adapter) GetTransactions(ctx context.Context, req core.GetTransactionsRequest) ([]core.Transaction, error) {
	if err := core.RequireFields(Variant, map[string]string{
		"accountId":   req.AccountID,
		"accessToken": req.AccessToken,
	}); err != nil {
		return nil, err
	}

	transactions := []core.Transaction{}
	cursor := ""
	for page := 0; page < maxSyncPages; page++ {
		res, err := a.client.SyncTransactions(ctx, req.AccessToken, cursor, req.Limit)
		if err != nil {
			return nil, err
		}
		for _, raw := range res.Added {
			if raw.AccountID != req.AccountID {
				continue
			}
			transactions = append(transactions, transformTransaction(raw, req.Currency))
		}
		if req.Latest || !res.HasMore {
			break
		}
		if len(res.Added) == 0 || res.NextCursor == cursor {
			break
		}
		cursor = res.NextCursor
	}
	return transactions, nil
}

func (a *Adapter) GetAccounts(ctx context.Context, req core.GetAccountsRequest) ([]core.Account, error) {
	if err := core.RequireFields(Variant, map[string]string{
		"accessToken": req.AccessToken,
	}); err != nil {
		return nil, err
	}
	res, err := a.client.GetAccounts(ctx, req.AccessToken)
	if err != nil {
		return nil, err
	}

	var institution *core.Institution
	institutionID := req.InstitutionID
	if institutionID == "" && res.Item.InstitutionID != nil {
		institutionID = *res.Item.InstitutionID
	}
	if institutionID != "" {
		raw, err := a.client.GetInstitutionByID(ctx, institutionID, req.CountryCode)
		if err == nil {
			value := transformInstitution(raw)
			institution = &value
		} else if a.logger != nil {
			// A failed institution decoration degrades the account payload
			// rather than failing the whole listing.
			a.logger.Error("plaid institution lookup failed",
				"institution_id", institutionID, "error", err)
		}
	}

	accounts := make([]core.Account, 0, len(res.Accounts))
	for _, raw := range res.Accounts {
		accounts = append(accounts, transformAccount(raw, institution))
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
	res, err := a.client.GetBalances(ctx, req.AccessToken)
	if err != nil {
		return nil, err
	}
	for _, raw := range res.Accounts {
		if raw.AccountID == req.AccountID {
			return transformBalance(raw), nil
		}
	}
	return nil, nil
}

func (a *Adapter) GetInstitutions(ctx context.Context, req core.GetInstitutionsRequest) ([]core.Institution, error) {
	raw, err := a.client.ListInstitutions(ctx, req.CountryCode, 0)
	if err != nil {
		return nil, err
	}
	institutions := make([]core.Institution, 0, len(raw))
	for _, item := range raw {
		institutions = append(institutions, transformInstitution(item))
	}
	return institutions, nil
}

func (a *Adapter) DeleteAccounts(ctx context.Context, req core.DeleteAccountsRequest) error {
	if err := core.RequireFields(Variant, map[string]string{
		"accessToken": req.AccessToken,
	}); err != nil {
		return err
	}
	return a.client.RemoveItem(ctx, req.AccessToken)
}

func (a *Adapter) GetHealthCheck(ctx context.Context) bool {
	if a == nil || a.client == nil {
		return false
	}
	return a.client.Ping(ctx) == nil
}

var _ core.ProviderAdapter = (*Adapter)(nil)
