package plaid

import (
	goerrors "github.com/goliatone/go-errors"
)

// Raw response shapes as Plaid emits them. Amounts are major-unit floats;
// a positive amount means money moving out of the account.

type rawAccountBalances struct {
	Available       *float64 `json:"available"`
	Current         *float64 `json:"current"`
	ISOCurrencyCode *string  `json:"iso_currency_code"`
}

type rawAccount struct {
	AccountID    string             `json:"account_id"`
	Name         string             `json:"name"`
	OfficialName *string            `json:"official_name"`
	Type         string             `json:"type"`
	Subtype      *string            `json:"subtype"`
	Balances     rawAccountBalances `json:"balances"`
}

func (a rawAccount) validate() []goerrors.FieldError {
	var fields []goerrors.FieldError
	if a.AccountID == "" {
		fields = append(fields, goerrors.FieldError{Field: "account_id", Message: "is required"})
	}
	if a.Type == "" {
		fields = append(fields, goerrors.FieldError{Field: "type", Message: "is required"})
	}
	return fields
}

type rawItem struct {
	ItemID        string  `json:"item_id"`
	InstitutionID *string `json:"institution_id"`
}

type rawAccountsResponse struct {
	Accounts  []rawAccount `json:"accounts"`
	Item      rawItem      `json:"item"`
	RequestID string       `json:"request_id"`
}

type rawPersonalFinanceCategory struct {
	Primary  string `json:"primary"`
	Detailed string `json:"detailed"`
}

type rawTransaction struct {
	TransactionID           string                      `json:"transaction_id"`
	AccountID               string                      `json:"account_id"`
	Amount                  float64                     `json:"amount"`
	ISOCurrencyCode         *string                     `json:"iso_currency_code"`
	Date                    string                      `json:"date"`
	Name                    string                      `json:"name"`
	MerchantName            *string                     `json:"merchant_name"`
	Pending                 bool                        `json:"pending"`
	TransactionCode         *string                     `json:"transaction_code"`
	PersonalFinanceCategory *rawPersonalFinanceCategory `json:"personal_finance_category"`
}

func (t rawTransaction) validate() []goerrors.FieldError {
	var fields []goerrors.FieldError
	if t.TransactionID == "" {
		fields = append(fields, goerrors.FieldError{Field: "transaction_id", Message: "is required"})
	}
	if t.Date == "" {
		fields = append(fields, goerrors.FieldError{Field: "date", Message: "is required"})
	}
	return fields
}

type rawSyncResponse struct {
	Added      []rawTransaction `json:"added"`
	NextCursor string           `json:"next_cursor"`
	HasMore    bool             `json:"has_more"`
	RequestID  string           `json:"request_id"`
}

type rawInstitution struct {
	InstitutionID string  `json:"institution_id"`
	Name          string  `json:"name"`
	Logo          *string `json:"logo"`
}

type rawInstitutionsResponse struct {
	Institutions []rawInstitution `json:"institutions"`
	RequestID    string           `json:"request_id"`
}

type rawInstitutionByIDResponse struct {
	Institution rawInstitution `json:"institution"`
	RequestID   string         `json:"request_id"`
}

type rawItemRemoveResponse struct {
	RequestID string `json:"request_id"`
}
