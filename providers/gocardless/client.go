package gocardless

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/PlaybookMediaEngineering/tesseract-engineering/core"
)

const (
	defaultBaseURL = "https://bankaccountdata.gocardless.com"

	dataCallTimeout   = 30 * time.Second
	healthCallTimeout = 5 * time.Second
)

// Client wraps the GoCardless bank account data API. Credentials are
// exchanged for a short-lived bearer token on every call; no token state
// is kept between operations.
type Client struct {
	transport core.TransportAdapter
	baseURL   string
	secretID  string
	secretKey string
}

func newClient(transport core.TransportAdapter, baseURL, secretID, secretKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		transport: transport,
		baseURL:   baseURL,
		secretID:  secretID,
		secretKey: secretKey,
	}
}

func (c *Client) token(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"secret_id":  c.secretID,
		"secret_key": c.secretKey,
	})
	if err != nil {
		return "", core.NewInternalError("encode token request: " + err.Error())
	}

	res, err := c.transport.Do(ctx, core.TransportRequest{
		Method:  "POST",
		URL:     c.baseURL + "/api/v2/token/new/",
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    body,
		Timeout: dataCallTimeout,
	})
	if err != nil {
		return "", err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", core.NewUpstreamStatusError(core.ProviderGoCardless, res.StatusCode, res.Body)
	}

	var token rawToken
	if err := json.Unmarshal(res.Body, &token); err != nil {
		return "", core.NewUpstreamContractError(core.ProviderGoCardless, err, "decode token response")
	}
	if token.Access == "" {
		return "", core.NewUpstreamContractError(core.ProviderGoCardless, nil, "token response is missing the access field")
	}
	return token.Access, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, out any) error {
	access, err := c.token(ctx)
	if err != nil {
		return err
	}

	req := core.TransportRequest{
		Method: method,
		URL:    c.baseURL + path,
		Headers: map[string]string{
			"Authorization": "Bearer " + access,
			"Accept":        "application/json",
		},
		Timeout: dataCallTimeout,
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
		return core.NewUpstreamStatusError(core.ProviderGoCardless, res.StatusCode, res.Body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(res.Body, out); err != nil {
		return core.NewUpstreamContractError(core.ProviderGoCardless, err, "decode response body")
	}
	return nil
}

func (c *Client) GetRequisition(ctx context.Context, requisitionID string) (rawRequisition, error) {
	var requisition rawRequisition
	if err := c.do(ctx, "GET", "/api/v2/requisitions/"+url.PathEscape(requisitionID)+"/", nil, &requisition); err != nil {
		return rawRequisition{}, err
	}
	if fields := requisition.validate(); len(fields) > 0 {
		return rawRequisition{}, core.NewUpstreamContractError(core.ProviderGoCardless, nil,
			fmt.Sprintf("requisition failed validation on field %q", fields[0].Field))
	}
	return requisition, nil
}

func (c *Client) GetAccountMeta(ctx context.Context, accountID string) (rawAccountMeta, error) {
	var meta rawAccountMeta
	if err := c.do(ctx, "GET", "/api/v2/accounts/"+url.PathEscape(accountID)+"/", nil, &meta); err != nil {
		return rawAccountMeta{}, err
	}
	return meta, nil
}

func (c *Client) GetAccountDetail(ctx context.Context, accountID string) (rawAccountDetail, error) {
	var res rawAccountDetailsResponse
	if err := c.do(ctx, "GET", "/api/v2/accounts/"+url.PathEscape(accountID)+"/details/", nil, &res); err != nil {
		return rawAccountDetail{}, err
	}
	return res.Account, nil
}

func (c *Client) GetTransactions(ctx context.Context, accountID string) (rawTransactionBuckets, error) {
	var res rawTransactionsResponse
	if err := c.do(ctx, "GET", "/api/v2/accounts/"+url.PathEscape(accountID)+"/transactions/", nil, &res); err != nil {
		return rawTransactionBuckets{}, err
	}
	for _, raw := range res.Transactions.Booked {
		if fields := raw.validate(); len(fields) > 0 {
			return rawTransactionBuckets{}, core.NewUpstreamContractError(core.ProviderGoCardless, nil,
				fmt.Sprintf("transaction failed validation on field %q", fields[0].Field))
		}
	}
	for _, raw := range res.Transactions.Pending {
		if fields := raw.validate(); len(fields) > 0 {
			return rawTransactionBuckets{}, core.NewUpstreamContractError(core.ProviderGoCardless, nil,
				fmt.Sprintf("transaction failed validation on field %q", fields[0].Field))
		}
	}
	return res.Transactions, nil
}

func (c *Client) GetBalances(ctx context.Context, accountID string) ([]rawBalance, error) {
	var res rawBalancesResponse
	if err := c.do(ctx, "GET", "/api/v2/accounts/"+url.PathEscape(accountID)+"/balances/", nil, &res); err != nil {
		return nil, err
	}
	return res.Balances, nil
}

func (c *Client) GetInstitution(ctx context.Context, institutionID string) (rawInstitution, error) {
	var institution rawInstitution
	if err := c.do(ctx, "GET", "/api/v2/institutions/"+url.PathEscape(institutionID)+"/", nil, &institution); err != nil {
		return rawInstitution{}, err
	}
	return institution, nil
}

func (c *Client) ListInstitutions(ctx context.Context, countryCode string) ([]rawInstitution, error) {
	query := url.Values{}
	if countryCode != "" {
		query.Set("country", countryCode)
	}
	var institutions []rawInstitution
	if err := c.do(ctx, "GET", "/api/v2/institutions/", query, &institutions); err != nil {
		return nil, err
	}
	return institutions, nil
}

func (c *Client) DeleteRequisition(ctx context.Context, requisitionID string) error {
	return c.do(ctx, "DELETE", "/api/v2/requisitions/"+url.PathEscape(requisitionID)+"/", nil, nil)
}

func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCallTimeout)
	defer cancel()
	query := url.Values{}
	query.Set("country", "gb")
	var institutions []rawInstitution
	return c.do(ctx, "GET", "/api/v2/institutions/", query, &institutions)
}
