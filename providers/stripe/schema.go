package stripe

import (
	goerrors "github.com/goliatone/go-errors"
)

// Raw response shapes from the Stripe API. Monetary amounts arrive as
// integers in the currency's minor unit.

type rawBalanceTransaction struct {
	ID                string   `json:"id"`
	Amount            int64    `json:"amount"`
	Net               int64    `json:"net"`
	Currency          string   `json:"currency"`
	Created           int64    `json:"created"`
	Type              string   `json:"type"`
	Status            string   `json:"status"`
	ReportingCategory string   `json:"reporting_category"`
	Description       *string  `json:"description"`
	ExchangeRate      *float64 `json:"exchange_rate"`
}

func (t rawBalanceTransaction) validate() []goerrors.FieldError {
	var fields []goerrors.FieldError
	if t.ID == "" {
		fields = append(fields, goerrors.FieldError{Field: "id", Message: "is required"})
	}
	if t.Currency == "" {
		fields = append(fields, goerrors.FieldError{Field: "currency", Message: "is required"})
	}
	if t.Created == 0 {
		fields = append(fields, goerrors.FieldError{Field: "created", Message: "is required"})
	}
	return fields
}

type rawBalanceTransactionList struct {
	Data    []rawBalanceTransaction `json:"data"`
	HasMore bool                    `json:"has_more"`
}

type rawBankAccount struct {
	ID            string  `json:"id"`
	BankName      string  `json:"bank_name"`
	Last4         string  `json:"last4"`
	Currency      string  `json:"currency"`
	RoutingNumber *string `json:"routing_number"`
	Status        string  `json:"status"`
}

func (a rawBankAccount) validate() []goerrors.FieldError {
	var fields []goerrors.FieldError
	if a.ID == "" {
		fields = append(fields, goerrors.FieldError{Field: "id", Message: "is required"})
	}
	if a.Currency == "" {
		fields = append(fields, goerrors.FieldError{Field: "currency", Message: "is required"})
	}
	return fields
}

type rawBankAccountList struct {
	Data    []rawBankAccount `json:"data"`
	HasMore bool             `json:"has_more"`
}

type rawBalanceFunds struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type rawBalance struct {
	Available []rawBalanceFunds `json:"available"`
	Pending   []rawBalanceFunds `json:"pending"`
}

type rawAccountLink struct {
	URL       string `json:"url"`
	Created   int64  `json:"created"`
	ExpiresAt int64  `json:"expires_at"`
}

type rawDeleted struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
