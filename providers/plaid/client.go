package plaid

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/PlaybookMediaEngineering/tesseract-engineering/core"
)

const (
	dataCallTimeout   = 30 * time.Second
	healthCallTimeout = 5 * time.Second

	syncPageSize = 500
)

// Client speaks Plaid's REST API: JSON POST bodies carrying the client_id
// and secret on every call.
type Client struct {
	transport core.TransportAdapter
	baseURL   string
	clientID  string
	secret    string
}

func NewClient(transport core.TransportAdapter, baseURL, clientID, secret string) *Client {
	return &Client{
		transport: transport,
		baseURL:   baseURL,
		clientID:  clientID,
		secret:    secret,
	}
}

func (c *Client) post(ctx context.Context, path string, payload map[string]any, timeout time.Duration, out any) error {
	body := map[string]any{
		"client_id": c.clientID,
		"secret":    c.secret,
	}
	for key, value := range payload {
		body[key] = value
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return core.NewInternalError("providers/plaid: encode request body")
	}
	res, err := c.transport.Do(ctx, core.TransportRequest{
		Method:  http.MethodPost,
		URL:     c.baseURL + path,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    encoded,
		Timeout: timeout,
	})
	if err != nil {
		return err
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return core.NewUpstreamStatusError(core.ProviderPlaid, res.StatusCode, res.Body)
	}
	if err := json.Unmarshal(res.Body, out); err != nil {
		return core.NewUpstreamContractError(core.ProviderPlaid, err, "providers/plaid: decode "+path+" response")
	}
	return nil
}

// SyncTransactions fetches one page of the transactions/sync cursor walk.
func (c *Client) SyncTransactions(ctx context.Context, accessToken, cursor string, count int) (rawSyncResponse, error) {
	if count <= 0 || count > syncPageSize {
		count = syncPageSize
	}
	payload := map[string]any{
		"access_token": accessToken,
		"count":        count,
	}
	if cursor != "" {
		payload["cursor"] = cursor
	}
	var res rawSyncResponse
	if err := c.post(ctx, "/transactions/sync", payload, dataCallTimeout, &res); err != nil {
		return rawSyncResponse{}, err
	}
	for i, tx := range res.Added {
		if fields := tx.validate(); len(fields) > 0 {
			return rawSyncResponse{}, core.NewUpstreamContractError(
				core.ProviderPlaid, nil,
				"providers/plaid: transaction "+strconv.Itoa(i)+" failed schema validation: "+fields[0].Field,
			)
		}
	}
	return res, nil
}

func (c *Client) GetAccounts(ctx context.Context, accessToken string) (rawAccountsResponse, error) {
	var res rawAccountsResponse
	err := c.post(ctx, "/accounts/get", map[string]any{"access_token": accessToken}, dataCallTimeout, &res)
	if err != nil {
		return rawAccountsResponse{}, err
	}
	for i, account := range res.Accounts {
		if fields := account.validate(); len(fields) > 0 {
			return rawAccountsResponse{}, core.NewUpstreamContractError(
				core.ProviderPlaid, nil,
				"providers/plaid: account "+strconv.Itoa(i)+" failed schema validation: "+fields[0].Field,
			)
		}
	}
	return res, nil
}

func (c *Client) GetBalances(ctx context.Context, accessToken string) (rawAccountsResponse, error) {
	var res rawAccountsResponse
	err := c.post(ctx, "/accounts/balance/get", map[string]any{"access_token": accessToken}, dataCallTimeout, &res)
	if err != nil {
		return rawAccountsResponse{}, err
	}
	return res, nil
}

func (c *Client) GetInstitutionByID(ctx context.Context, institutionID, countryCode string) (rawInstitution, error) {
	payload := map[string]any{
		"institution_id": institutionID,
		"country_codes":  countryCodes(countryCode),
		"options":        map[string]any{"include_optional_metadata": true},
	}
	var res rawInstitutionByIDResponse
	if err := c.post(ctx, "/institutions/get_by_id", payload, dataCallTimeout, &res); err != nil {
		return rawInstitution{}, err
	}
	return res.Institution, nil
}

func (c *Client) ListInstitutions(ctx context.Context, countryCode string, count int) ([]rawInstitution, error) {
	if count <= 0 {
		count = 500
	}
	payload := map[string]any{
		"count":         count,
		"offset":        0,
		"country_codes": countryCodes(countryCode),
		"options":       map[string]any{"include_optional_metadata": true},
	}
	var res rawInstitutionsResponse
	if err := c.post(ctx, "/institutions/get", payload, dataCallTimeout, &res); err != nil {
		return nil, err
	}
	return res.Institutions, nil
}

func (c *Client) RemoveItem(ctx context.Context, accessToken string) error {
	var res rawItemRemoveResponse
	return c.post(ctx, "/item/remove", map[string]any{"access_token": accessToken}, dataCallTimeout, &res)
}

// Ping issues the cheapest authenticated call Plaid offers.
func (c *Client) Ping(ctx context.Context) error {
	payload := map[string]any{
		"count":         1,
		"offset":        0,
		"country_codes": []string{"US"},
	}
	var res rawInstitutionsResponse
	return c.post(ctx, "/institutions/get", payload, healthCallTimeout, &res)
}

func countryCodes(countryCode string) []string {
	if countryCode == "" {
		return []string{"US", "CA", "GB", "IE", "FR", "ES", "NL", "DE"}
	}
	return []string{countryCode}
}
