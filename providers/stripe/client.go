package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/PlaybookMediaEngineering/tesseract-engineering/core"
)

const (
	defaultBaseURL = "https://api.stripe.com"

	dataCallTimeout   = 30 * time.Second
	healthCallTimeout = 5 * time.Second

	defaultTransactionPageSize = 500
	defaultBankAccountLimit    = 10
)

// Client wraps the Stripe REST API: Bearer auth with the secret key,
// form-encoded request bodies, optional pinned API version.
type Client struct {
	transport  core.TransportAdapter
	baseURL    string
	secretKey  string
	apiVersion string
}

func newClient(transport core.TransportAdapter, baseURL, secretKey, apiVersion string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		transport:  transport,
		baseURL:    baseURL,
		secretKey:  secretKey,
		apiVersion: apiVersion,
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, form url.Values, extraHeaders map[string]string, out any) error {
	req := core.TransportRequest{
		Method: method,
		URL:    c.baseURL + path,
		Headers: map[string]string{
			"Authorization": "Bearer " + c.secretKey,
			"Accept":        "application/json",
		},
		Timeout: dataCallTimeout,
	}
	if c.apiVersion != "" {
		req.Headers["Stripe-Version"] = c.apiVersion
	}
	for key, value := range extraHeaders {
		req.Headers[key] = value
	}
	if len(form) > 0 {
		req.Headers["Content-Type"] = "application/x-www-form-urlencoded"
		req.Body = []byte(form.Encode())
	}
	if len(query) > 0 {
		req.Query = map[string]string{}
		for key := range query {
			req.Query[key] = query.Get(key)
		}
	}

	res, err := c.transport.Do(ctx, req)
	if err != nil {
		return err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return core.NewUpstreamStatusError(core.ProviderStripe, res.StatusCode, res.Body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(res.Body, out); err != nil {
		return core.NewUpstreamContractError(core.ProviderStripe, err, "decode response body")
	}
	return nil
}

// ListBalanceTransactions fetches one page of a customer's balance
// transaction ledger. Pass the last transaction id of the previous page
// as startingAfter to walk forward.
func (c *Client) ListBalanceTransactions(ctx context.Context, customerID string, limit int, startingAfter, endingBefore string) (rawBalanceTransactionList, error) {
	if limit <= 0 {
		limit = defaultTransactionPageSize
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if startingAfter != "" {
		query.Set("starting_after", startingAfter)
	}
	if endingBefore != "" {
		query.Set("ending_before", endingBefore)
	}

	var page rawBalanceTransactionList
	path := "/v1/customers/" + url.PathEscape(customerID) + "/balance_transactions"
	if err := c.do(ctx, "GET", path, query, nil, nil, &page); err != nil {
		return rawBalanceTransactionList{}, err
	}
	for _, raw := range page.Data {
		if fields := raw.validate(); len(fields) > 0 {
			return rawBalanceTransactionList{}, core.NewUpstreamContractError(core.ProviderStripe, nil,
				fmt.Sprintf("balance transaction failed validation on field %q", fields[0].Field))
		}
	}
	return page, nil
}

func (c *Client) ListBankAccounts(ctx context.Context, accountID string, limit int) ([]rawBankAccount, error) {
	if limit <= 0 {
		limit = defaultBankAccountLimit
	}
	query := url.Values{}
	query.Set("object", "bank_account")
	query.Set("limit", strconv.Itoa(limit))

	var list rawBankAccountList
	path := "/v1/accounts/" + url.PathEscape(accountID) + "/external_accounts"
	if err := c.do(ctx, "GET", path, query, nil, nil, &list); err != nil {
		return nil, err
	}
	for _, raw := range list.Data {
		if fields := raw.validate(); len(fields) > 0 {
			return nil, core.NewUpstreamContractError(core.ProviderStripe, nil,
				fmt.Sprintf("bank account failed validation on field %q", fields[0].Field))
		}
	}
	return list.Data, nil
}

func (c *Client) GetBankAccount(ctx context.Context, accountID, bankAccountID string) (rawBankAccount, error) {
	var account rawBankAccount
	path := "/v1/accounts/" + url.PathEscape(accountID) + "/external_accounts/" + url.PathEscape(bankAccountID)
	if err := c.do(ctx, "GET", path, nil, nil, nil, &account); err != nil {
		return rawBankAccount{}, err
	}
	if fields := account.validate(); len(fields) > 0 {
		return rawBankAccount{}, core.NewUpstreamContractError(core.ProviderStripe, nil,
			fmt.Sprintf("bank account failed validation on field %q", fields[0].Field))
	}
	return account, nil
}

func (c *Client) DeleteBankAccount(ctx context.Context, accountID, bankAccountID string) error {
	var res rawDeleted
	path := "/v1/accounts/" + url.PathEscape(accountID) + "/external_accounts/" + url.PathEscape(bankAccountID)
	if err := c.do(ctx, "DELETE", path, nil, nil, nil, &res); err != nil {
		return err
	}
	if !res.Deleted {
		return core.NewUpstreamContractError(core.ProviderStripe, nil, "bank account deletion was not acknowledged")
	}
	return nil
}

// GetBalance fetches the available balance of a connected account. The
// account is selected with the Stripe-Account header.
func (c *Client) GetBalance(ctx context.Context, stripeAccountID string) (rawBalance, error) {
	var headers map[string]string
	if stripeAccountID != "" {
		headers = map[string]string{"Stripe-Account": stripeAccountID}
	}
	var balance rawBalance
	if err := c.do(ctx, "GET", "/v1/balance", nil, nil, headers, &balance); err != nil {
		return rawBalance{}, err
	}
	return balance, nil
}

func (c *Client) DeleteAccount(ctx context.Context, accountID string) error {
	var res rawDeleted
	if err := c.do(ctx, "DELETE", "/v1/accounts/"+url.PathEscape(accountID), nil, nil, nil, &res); err != nil {
		return err
	}
	if !res.Deleted {
		return core.NewUpstreamContractError(core.ProviderStripe, nil, "account deletion was not acknowledged")
	}
	return nil
}

// CreateAccountLink creates a hosted onboarding link for a connected
// account.
func (c *Client) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL, linkType string) (rawAccountLink, error) {
	form := url.Values{}
	form.Set("account", accountID)
	form.Set("refresh_url", refreshURL)
	form.Set("return_url", returnURL)
	form.Set("type", linkType)

	var link rawAccountLink
	if err := c.do(ctx, "POST", "/v1/account_links", nil, form, nil, &link); err != nil {
		return rawAccountLink{}, err
	}
	if link.URL == "" {
		return rawAccountLink{}, core.NewUpstreamContractError(core.ProviderStripe, nil, "account link response is missing the url field")
	}
	return link, nil
}

func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCallTimeout)
	defer cancel()
	var balance rawBalance
	return c.do(ctx, "GET", "/v1/balance", nil, nil, nil, &balance)
}
