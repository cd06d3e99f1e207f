package teller

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/PlaybookMediaEngineering/tesseract-engineering/core"
)

const (
	defaultBaseURL = "https://api.teller.io"

	dataCallTimeout   = 30 * time.Second
	healthCallTimeout = 5 * time.Second
)

// Client speaks Teller's REST API. Requests authenticate with HTTP Basic
// using the enrollment access token as the username and a blank password.
type Client struct {
	transport core.TransportAdapter
	baseURL   string
}

func NewClient(transport core.TransportAdapter, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{transport: transport, baseURL: baseURL}
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, query map[string]string, timeout time.Duration) ([]byte, error) {
	headers := map[string]string{"Accept": "application/json"}
	if accessToken != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(accessToken + ":"))
		headers["Authorization"] = "Basic " + credentials
	}
	res, err := c.transport.Do(ctx, core.TransportRequest{
		Method:  method,
		URL:     c.baseURL + path,
		Headers: headers,
		Query:   query,
		Timeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, core.NewUpstreamStatusError(core.ProviderTeller, res.StatusCode, res.Body)
	}
	return res.Body, nil
}

func (c *Client) ListAccounts(ctx context.Context, accessToken string) ([]rawAccount, error) {
	body, err := c.do(ctx, http.MethodGet, "/accounts", accessToken, nil, dataCallTimeout)
	if err != nil {
		return nil, err
	}
	var accounts []rawAccount
	if err := json.Unmarshal(body, &accounts); err != nil {
		return nil, core.NewUpstreamContractError(core.ProviderTeller, err, "providers/teller: decode accounts response")
	}
	for i, account := range accounts {
		if fields := account.validate(); len(fields) > 0 {
			return nil, core.NewUpstreamContractError(
				core.ProviderTeller, nil,
				fmt.Sprintf("providers/teller: account %d failed schema validation: %s", i, fields[0].Field),
			)
		}
	}
	return accounts, nil
}

func (c *Client) ListTransactions(ctx context.Context, accessToken, accountID string, count int) ([]rawTransaction, error) {
	query := map[string]string{}
	if count > 0 {
		query["count"] = fmt.Sprintf("%d", count)
	}
	body, err := c.do(ctx, http.MethodGet, "/accounts/"+accountID+"/transactions", accessToken, query, dataCallTimeout)
	if err != nil {
		return nil, err
	}
	var transactions []rawTransaction
	if err := json.Unmarshal(body, &transactions); err != nil {
		return nil, core.NewUpstreamContractError(core.ProviderTeller, err, "providers/teller: decode transactions response")
	}
	for i, tx := range transactions {
		if fields := tx.validate(); len(fields) > 0 {
			return nil, core.NewUpstreamContractError(
				core.ProviderTeller, nil,
				fmt.Sprintf("providers/teller: transaction %d failed schema validation: %s", i, fields[0].Field),
			)
		}
	}
	return transactions, nil
}

func (c *Client) GetBalance(ctx context.Context, accessToken, accountID string) (rawBalance, error) {
	body, err := c.do(ctx, http.MethodGet, "/accounts/"+accountID+"/balances", accessToken, nil, dataCallTimeout)
	if err != nil {
		return rawBalance{}, err
	}
	var balance rawBalance
	if err := json.Unmarshal(body, &balance); err != nil {
		return rawBalance{}, core.NewUpstreamContractError(core.ProviderTeller, err, "providers/teller: decode balance response")
	}
	return balance, nil
}

func (c *Client) ListInstitutions(ctx context.Context) ([]rawInstitution, error) {
	body, err := c.do(ctx, http.MethodGet, "/institutions", "", nil, dataCallTimeout)
	if err != nil {
		return nil, err
	}
	var institutions []rawInstitution
	if err := json.Unmarshal(body, &institutions); err != nil {
		return nil, core.NewUpstreamContractError(core.ProviderTeller, err, "providers/teller: decode institutions response")
	}
	return institutions, nil
}

func (c *Client) DeleteAccount(ctx context.Context, accessToken, accountID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/accounts/"+accountID, accessToken, nil, dataCallTimeout)
	return err
}

func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", "", nil, healthCallTimeout)
	return err
}
