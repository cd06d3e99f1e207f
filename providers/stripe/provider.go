// Package stripe adapts the Stripe API to the canonical provider
// contract. The customer's balance transaction ledger backs the
// transaction feed and external bank accounts of a connected account
// back the account listing. Bank account management and hosted
// onboarding links are Stripe-specific extras outside the polymorphic
// surface.
package stripe

import (
	"context"
	"time"

	"github.com/PlaybookMediaEngineering/tesseract-engineering/core"
)

const Variant = core.ProviderStripe

// maxTransactionPages bounds the ledger walk so a provider that keeps
// claiming more data cannot spin the adapter forever.
const maxTransactionPages = 100

type Config struct {
	Transport  core.TransportAdapter
	BaseURL    string
	SecretKey  string
	APIVersion string
	Logger     core.Logger
}

type Adapter struct {
	client *Client
	logger core.Logger
}

func New(cfg Config) (*Adapter, error) {
	if cfg.Transport == nil {
		return nil, core.NewInternalError("stripe adapter requires a transport")
	}
	return &Adapter{
		client: newClient(cfg.Transport, cfg.BaseURL, cfg.SecretKey, cfg.APIVersion),
		logger: cfg.Logger,
	}, nil
}

func (a *Adapter) Variant() core.ProviderVariant {
	return Variant
}

func (a *Adapter) GetTransactions(ctx context.Context, req core.GetTransactionsRequest) ([]core.Transaction, error) {
	if err := core.RequireFields(Variant, map[string]string{
		"customerId": req.CustomerID,
	}); err != nil {
		return nil, err
	}

	var transactions []core.Transaction
	startingAfter := req.StartingAfter
	for page := 0; page < maxTransactionPages; page++ {
		res, err := a.client.ListBalanceTransactions(ctx, req.CustomerID, req.Limit, startingAfter, req.EndingBefore)
		if err != nil {
			return nil, err
		}
		for _, raw := range res.Data {
			transactions = append(transactions, transformTransaction(raw))
		}
		if req.Latest || !res.HasMore {
			break
		}
		if len(res.Data) == 0 {
			break
		}
		next := res.Data[len(res.Data)-1].ID
		if next == startingAfter {
			break
		}
		startingAfter = next
	}
	return transactions, nil
}

func (a *Adapter) GetAccounts(ctx context.Context, req core.GetAccountsRequest) ([]core.Account, error) {
	if err := core.RequireFields(Variant, map[string]string{
		"id":            req.ID,
		"bankAccountId": req.BankAccountID,
	}); err != nil {
		return nil, err
	}

	raw, err := a.client.GetBankAccount(ctx, req.ID, req.BankAccountID)
	if err != nil {
		return nil, err
	}
	return []core.Account{transformBankAccount(raw)}, nil
}

func (a *Adapter) GetAccountBalance(ctx context.Context, req core.GetAccountBalanceRequest) (*core.Balance, error) {
	if err := core.RequireFields(Variant, map[string]string{
		"accountId": req.AccountID,
	}); err != nil {
		return nil, err
	}

	raw, err := a.client.GetBalance(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	return transformBalance(raw), nil
}

func (a *Adapter) GetInstitutions(ctx context.Context, req core.GetInstitutionsRequest) ([]core.Institution, error) {
	return nil, core.NewUnsupportedOperationError(Variant, "GetInstitutions")
}

func (a *Adapter) DeleteAccounts(ctx context.Context, req core.DeleteAccountsRequest) error {
	if err := core.RequireFields(Variant, map[string]string{
		"accountId": req.AccountID,
	}); err != nil {
		return err
	}
	return a.client.DeleteAccount(ctx, req.AccountID)
}

func (a *Adapter) GetHealthCheck(ctx context.Context) bool {
	if a == nil || a.client == nil {
		return false
	}
	return a.client.Ping(ctx) == nil
}

// ListBankAccounts lists the external bank accounts attached to a
// connected account.
func (a *Adapter) ListBankAccounts(ctx context.Context, accountID string, limit int) ([]core.Account, error) {
	if err := core.RequireFields(Variant, map[string]string{
		"accountId": accountID,
	}); err != nil {
		return nil, err
	}

	raws, err := a.client.ListBankAccounts(ctx, accountID, limit)
	if err != nil {
		return nil, err
	}
	accounts := make([]core.Account, 0, len(raws))
	for _, raw := range raws {
		accounts = append(accounts, transformBankAccount(raw))
	}
	return accounts, nil
}

// GetBankAccount retrieves a single external bank account.
func (a *Adapter) GetBankAccount(ctx context.Context, accountID, bankAccountID string) (*core.Account, error) {
	if err := core.RequireFields(Variant, map[string]string{
		"accountId":     accountID,
		"bankAccountId": bankAccountID,
	}); err != nil {
		return nil, err
	}

	raw, err := a.client.GetBankAccount(ctx, accountID, bankAccountID)
	if err != nil {
		return nil, err
	}
	account := transformBankAccount(raw)
	return &account, nil
}

// DeleteBankAccount detaches an external bank account from a connected
// account.
func (a *Adapter) DeleteBankAccount(ctx context.Context, accountID, bankAccountID string) error {
	if err := core.RequireFields(Variant, map[string]string{
		"accountId":     accountID,
		"bankAccountId": bankAccountID,
	}); err != nil {
		return err
	}
	return a.client.DeleteBankAccount(ctx, accountID, bankAccountID)
}

// AccountLinkRequest describes a hosted onboarding link to create.
type AccountLinkRequest struct {
	AccountID  string
	RefreshURL string
	ReturnURL  string
	Type       string
}

// AccountLink is a created hosted onboarding link.
type AccountLink struct {
	URL       string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// CreateAccountLink creates a hosted onboarding link for a connected
// account.
func (a *Adapter) CreateAccountLink(ctx context.Context, req AccountLinkRequest) (AccountLink, error) {
	if err := core.RequireFields(Variant, map[string]string{
		"accountId":  req.AccountID,
		"refreshUrl": req.RefreshURL,
		"returnUrl":  req.ReturnURL,
	}); err != nil {
		return AccountLink{}, err
	}
	linkType := req.Type
	if linkType == "" {
		linkType = "account_onboarding"
	}

	raw, err := a.client.CreateAccountLink(ctx, req.AccountID, req.RefreshURL, req.ReturnURL, linkType)
	if err != nil {
		return AccountLink{}, err
	}
	return AccountLink{
		URL:       raw.URL,
		CreatedAt: time.Unix(raw.Created, 0).UTC(),
		ExpiresAt: time.Unix(raw.ExpiresAt, 0).UTC(),
	}, nil
}

var _ core.ProviderAdapter = (*Adapter)(nil)
