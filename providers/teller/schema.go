package teller

import (
	goerrors "github.com/goliatone/go-errors"
)

// Raw response shapes as Teller emits them. Amounts are signed decimal
// strings in major units.

type rawInstitutionRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type rawAccount struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Currency     string            `json:"currency"`
	Type         string            `json:"type"`
	Subtype      string            `json:"subtype"`
	Status       string            `json:"status"`
	EnrollmentID string            `json:"enrollment_id"`
	Institution  rawInstitutionRef `json:"institution"`
}

func (a rawAccount) validate() []goerrors.FieldError {
	var fields []goerrors.FieldError
	if a.ID == "" {
		fields = append(fields, goerrors.FieldError{Field: "id", Message: "is required"})
	}
	if a.Currency == "" {
		fields = append(fields, goerrors.FieldError{Field: "currency", Message: "is required"})
	}
	if a.Type == "" {
		fields = append(fields, goerrors.FieldError{Field: "type", Message: "is required"})
	}
	return fields
}

type rawCounterparty struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type rawTransactionDetails struct {
	Category     *string         `json:"category"`
	Counterparty rawCounterparty `json:"counterparty"`
}

type rawTransaction struct {
	ID             string                `json:"id"`
	AccountID      string                `json:"account_id"`
	Amount         string                `json:"amount"`
	Date           string                `json:"date"`
	Description    string                `json:"description"`
	Status         string                `json:"status"`
	Type           string                `json:"type"`
	RunningBalance *string               `json:"running_balance"`
	Details        rawTransactionDetails `json:"details"`
}

func (t rawTransaction) validate() []goerrors.FieldError {
	var fields []goerrors.FieldError
	if t.ID == "" {
		fields = append(fields, goerrors.FieldError{Field: "id", Message: "is required"})
	}
	if t.Amount == "" {
		fields = append(fields, goerrors.FieldError{Field: "amount", Message: "is required"})
	}
	if t.Date == "" {
		fields = append(fields, goerrors.FieldError{Field: "date", Message: "is required"})
	}
	if t.Status == "" {
		fields = append(fields, goerrors.FieldError{Field: "status", Message: "is required"})
	}
	return fields
}

type rawBalance struct {
	AccountID string  `json:"account_id"`
	Ledger    *string `json:"ledger"`
	Available *string `json:"available"`
}

type rawInstitution struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
